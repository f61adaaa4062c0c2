package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jup-swap/pkg/types"
)

func TestParseSwapCommand(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    *types.SwapCommand
		wantErr bool
	}{
		{"with swap prefix", "swap 1 SOL to USDC", &types.SwapCommand{Amount: "1", SourceToken: "SOL", DestToken: "USDC"}, false},
		{"lowercase", "1.5 jup to sol", &types.SwapCommand{Amount: "1.5", SourceToken: "JUP", DestToken: "SOL"}, false},
		{"extra spaces", "  SWAP   100   usdc  TO   sol ", &types.SwapCommand{Amount: "100", SourceToken: "USDC", DestToken: "SOL"}, false},
		{"mint keeps case", "2 EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v to wsol",
			&types.SwapCommand{Amount: "2", SourceToken: "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", DestToken: "SOL"}, false},
		{"missing to", "1 SOL USDC", nil, true},
		{"negative", "-1 SOL to USDC", nil, true},
		{"empty", "", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSwapCommand(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateSwapCommand(t *testing.T) {
	assert.NoError(t, ValidateSwapCommand(&types.SwapCommand{Amount: "1", SourceToken: "SOL", DestToken: "USDC"}))
	assert.Error(t, ValidateSwapCommand(&types.SwapCommand{SourceToken: "SOL", DestToken: "USDC"}))
	assert.Error(t, ValidateSwapCommand(&types.SwapCommand{Amount: "1", DestToken: "USDC"}))
	assert.Error(t, ValidateSwapCommand(&types.SwapCommand{Amount: "1", SourceToken: "SOL"}))
	assert.Error(t, ValidateSwapCommand(&types.SwapCommand{Amount: "1", SourceToken: "SOL", DestToken: "sol"}))
}

func TestToBaseUnits(t *testing.T) {
	tests := []struct {
		amount   string
		decimals uint8
		want     uint64
		wantErr  bool
	}{
		{"1", 9, 1_000_000_000, false},
		{"0.5", 6, 500_000, false},
		{"1.000001", 6, 1_000_001, false},
		{"100", 0, 100, false},
		{"1.0000001", 6, 0, true},
		{"0", 6, 0, true},
		{"abc", 6, 0, true},
		{"18446744073709551616", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			got, err := ToBaseUnits(tt.amount, tt.decimals)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromBaseUnits(t *testing.T) {
	got, err := FromBaseUnits("1500000", 6)
	require.NoError(t, err)
	assert.Equal(t, "1.5", got)

	got, err = FromBaseUnits("1", 9)
	require.NoError(t, err)
	assert.Equal(t, "0.000000001", got)

	_, err = FromBaseUnits("x", 6)
	assert.Error(t, err)
}

func TestRate(t *testing.T) {
	got, err := Rate("2", "300")
	require.NoError(t, err)
	assert.Equal(t, "150", got)

	got, err = Rate("0", "1")
	require.NoError(t, err)
	assert.Equal(t, "0", got)
}
