package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jup-swap/pkg/chain"
	"jup-swap/pkg/types"
)

const bonkMint = "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263"

type stubFinder map[string]*types.TokenInfo

func (s stubFinder) FindToken(_ context.Context, query string) (*types.TokenInfo, error) {
	if t, ok := s[query]; ok {
		return t, nil
	}
	return nil, errors.New("token '" + query + "' not found")
}

type stubMints struct {
	decimals uint8
	err      error
	calls    int
}

func (s *stubMints) TokenDecimals(_ context.Context, _ solana.PublicKey) (uint8, error) {
	s.calls++
	return s.decimals, s.err
}

func TestFindToken(t *testing.T) {
	ctx := context.Background()
	usdc := &types.TokenInfo{ID: "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", Symbol: "USDC", Decimals: 6}
	api := stubFinder{"USDC": usdc}

	t.Run("indexed token", func(t *testing.T) {
		mints := &stubMints{}
		got, err := findToken(ctx, api, mints, "USDC")
		require.NoError(t, err)
		assert.Same(t, usdc, got)
		assert.Zero(t, mints.calls)
	})

	t.Run("unindexed mint reads decimals", func(t *testing.T) {
		got, err := findToken(ctx, api, &stubMints{decimals: 5}, bonkMint)
		require.NoError(t, err)
		assert.Equal(t, bonkMint, got.ID)
		assert.Equal(t, uint8(5), got.Decimals)
		assert.Equal(t, "DezX..B263", got.Symbol)
	})

	t.Run("unknown symbol skips chain", func(t *testing.T) {
		mints := &stubMints{}
		_, err := findToken(ctx, api, mints, "NOPE")
		assert.ErrorContains(t, err, "not found")
		assert.Zero(t, mints.calls)
	})

	t.Run("missing mint account", func(t *testing.T) {
		_, err := findToken(ctx, api, &stubMints{err: chain.ErrNotFound}, bonkMint)
		assert.ErrorIs(t, err, chain.ErrNotFound)
		assert.ErrorContains(t, err, "not found")
	})
}
