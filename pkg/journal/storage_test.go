package journal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := NewStorage(filepath.Join(t.TempDir(), "journal.json"))
	require.NoError(t, err)
	return s
}

func TestStorage_RecordFillsDefaults(t *testing.T) {
	s := newStorage(t)

	e := &Entry{Flow: "ultra", Signature: "sig-1"}
	require.NoError(t, s.Record(e))

	assert.NotEmpty(t, e.ID)
	assert.False(t, e.Timestamp.IsZero())
	assert.Equal(t, StatusSubmitted, e.Status)
	assert.Equal(t, 1, s.Count())
}

func TestStorage_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "journal.json")
	s, err := NewStorage(path)
	require.NoError(t, err)
	require.NoError(t, s.Record(&Entry{Flow: "swap", Signature: "sig-1", InAmount: "100"}))

	reopened, err := NewStorage(path)
	require.NoError(t, err)
	got, err := reopened.Get("sig-1")
	require.NoError(t, err)
	assert.Equal(t, "swap", got.Flow)
	assert.Equal(t, "100", got.InAmount)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestStorage_ListNewestFirst(t *testing.T) {
	s := newStorage(t)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, sig := range []string{"a", "b", "c"} {
		require.NoError(t, s.Record(&Entry{Signature: sig, Timestamp: base.Add(time.Duration(i) * time.Minute)}))
	}

	all := s.List(0)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].Signature)
	assert.Equal(t, "a", all[2].Signature)

	top := s.List(2)
	require.Len(t, top, 2)
	assert.Equal(t, "b", top[1].Signature)
}

func TestStorage_UpdateStatus(t *testing.T) {
	s := newStorage(t)
	require.NoError(t, s.Record(&Entry{Signature: "sig"}))

	require.NoError(t, s.UpdateStatus("sig", StatusFailed, "slippage exceeded"))
	got, err := s.Get("sig")
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, got.Status)
	assert.Equal(t, "slippage exceeded", got.Error)

	assert.ErrorIs(t, s.UpdateStatus("missing", StatusSuccess, ""), ErrNotFound)
	_, err = s.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNewStorage_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := NewStorage(path)
	assert.Error(t, err)
}
