package client

import (
	"context"
	"fmt"

	"jup-swap/pkg/types"
)

// GetQuote requests the best route for a swap
func (c *Client) GetQuote(ctx context.Context, req *types.QuoteRequest) (*types.QuoteResponse, error) {
	var quote types.QuoteResponse
	if err := c.get(ctx, "/swap/v1/quote", req.Values(), &quote); err != nil {
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}
	return &quote, nil
}

// GetSwapTransaction returns an unsigned swap transaction for a quote
func (c *Client) GetSwapTransaction(ctx context.Context, req *types.SwapRequest) (*types.SwapResponse, error) {
	var resp types.SwapResponse
	if err := c.post(ctx, "/swap/v1/swap", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to get swap transaction: %w", err)
	}
	return &resp, nil
}

// GetSwapInstructions returns the swap as individual instructions plus the
// lookup tables needed to compile them
func (c *Client) GetSwapInstructions(ctx context.Context, req *types.SwapRequest) (*types.SwapInstructionsResponse, error) {
	var resp types.SwapInstructionsResponse
	if err := c.post(ctx, "/swap/v1/swap-instructions", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to get swap instructions: %w", err)
	}
	return &resp, nil
}

// ProgramIDToLabel maps each routed program id to its venue label
func (c *Client) ProgramIDToLabel(ctx context.Context) (map[string]string, error) {
	labels := map[string]string{}
	if err := c.get(ctx, "/swap/v1/program-id-to-label", nil, &labels); err != nil {
		return nil, fmt.Errorf("failed to get program labels: %w", err)
	}
	return labels, nil
}
