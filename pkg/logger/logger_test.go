package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
		wantErr  bool
	}{
		{input: "", expected: zapcore.InfoLevel},
		{input: "debug", expected: zapcore.DebugLevel},
		{input: "WARN", expected: zapcore.WarnLevel},
		{input: "error", expected: zapcore.ErrorLevel},
		{input: " warning ", expected: zapcore.WarnLevel},
		{input: "dpanic", expected: zapcore.DPanicLevel},
		{input: "fatal", expected: zapcore.FatalLevel},
		{input: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := parseLevel(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestNew_WritesToRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jup-swap.log")

	l, err := New(&Config{Level: "debug", JSON: true, File: path})
	require.NoError(t, err)

	l.Debug("lookup table resolved")
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "lookup table resolved")
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
}
