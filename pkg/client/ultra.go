package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"jup-swap/pkg/types"
)

// GetUltraOrder requests an Ultra order. The transaction field is only set
// when the request names a taker.
func (c *Client) GetUltraOrder(ctx context.Context, req *types.UltraOrderRequest) (*types.UltraOrderResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var order types.UltraOrderResponse
	if err := c.get(ctx, "/ultra/v1/order", req.Values(), &order); err != nil {
		return nil, fmt.Errorf("failed to get ultra order: %w", err)
	}
	return &order, nil
}

// ExecuteUltraOrder submits a signed order transaction
func (c *Client) ExecuteUltraOrder(ctx context.Context, req *types.UltraExecuteOrderRequest) (*types.UltraExecuteOrderResponse, error) {
	var resp types.UltraExecuteOrderResponse
	if err := c.post(ctx, "/ultra/v1/execute", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to execute ultra order: %w", err)
	}
	return &resp, nil
}

// GetTokenBalances returns every token balance held by address
func (c *Client) GetTokenBalances(ctx context.Context, address string) (types.TokenBalancesResponse, error) {
	balances := types.TokenBalancesResponse{}
	if err := c.get(ctx, "/ultra/v1/balances/"+url.PathEscape(address), nil, &balances); err != nil {
		return nil, fmt.Errorf("failed to get balances: %w", err)
	}
	return balances, nil
}

// Shield returns risk warnings for the given mints
func (c *Client) Shield(ctx context.Context, mints []string) (*types.Shield, error) {
	var shield types.Shield
	query := url.Values{"mints": {strings.Join(mints, ",")}}
	if err := c.get(ctx, "/ultra/v1/shield", query, &shield); err != nil {
		return nil, fmt.Errorf("failed to get shield warnings: %w", err)
	}
	return &shield, nil
}

// UltraTokenSearch searches tokens by symbol, name or mint
func (c *Client) UltraTokenSearch(ctx context.Context, queries []string) ([]types.TokenInfo, error) {
	var tokens []types.TokenInfo
	query := url.Values{"query": {strings.Join(queries, ",")}}
	if err := c.get(ctx, "/ultra/v1/search", query, &tokens); err != nil {
		return nil, fmt.Errorf("failed to search tokens: %w", err)
	}
	return tokens, nil
}

// Routers lists the routing engines Ultra can use
func (c *Client) Routers(ctx context.Context) ([]types.Router, error) {
	var routers []types.Router
	if err := c.get(ctx, "/ultra/v1/order/routers", nil, &routers); err != nil {
		return nil, fmt.Errorf("failed to get routers: %w", err)
	}
	return routers, nil
}
