package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"jup-swap/pkg/types"
)

// TokenSearch searches tokens by symbol, name or mint. Up to 100 comma
// separated mints are accepted by the API.
func (c *Client) TokenSearch(ctx context.Context, queries []string) ([]types.TokenInfo, error) {
	var tokens []types.TokenInfo
	query := url.Values{"query": {strings.Join(queries, ",")}}
	if err := c.get(ctx, "/tokens/v2/search", query, &tokens); err != nil {
		return nil, fmt.Errorf("failed to search tokens: %w", err)
	}
	return tokens, nil
}

// MintsByTags returns tokens carrying any of the tags (e.g. lst, verified)
func (c *Client) MintsByTags(ctx context.Context, tags []string) ([]types.TokenInfo, error) {
	var tokens []types.TokenInfo
	query := url.Values{"query": {strings.Join(tags, ",")}}
	if err := c.get(ctx, "/tokens/v2/tag", query, &tokens); err != nil {
		return nil, fmt.Errorf("failed to get tokens by tag: %w", err)
	}
	return tokens, nil
}

// TokensByCategory returns a ranked token list. A nil limit uses the API default.
func (c *Client) TokensByCategory(ctx context.Context, category types.Category, interval types.Interval, limit *uint64) ([]types.TokenInfo, error) {
	var tokens []types.TokenInfo
	query := url.Values{}
	if limit != nil {
		query.Set("limit", strconv.FormatUint(*limit, 10))
	}
	path := fmt.Sprintf("/tokens/v2/%s/%s", url.PathEscape(string(category)), url.PathEscape(string(interval)))
	if err := c.get(ctx, path, query, &tokens); err != nil {
		return nil, fmt.Errorf("failed to get %s tokens: %w", category, err)
	}
	return tokens, nil
}

// RecentTokens returns tokens that recently had their first pool created
func (c *Client) RecentTokens(ctx context.Context) ([]types.TokenInfo, error) {
	var tokens []types.TokenInfo
	if err := c.get(ctx, "/tokens/v2/recent", nil, &tokens); err != nil {
		return nil, fmt.Errorf("failed to get recent tokens: %w", err)
	}
	return tokens, nil
}

// TokensPrice returns USD prices keyed by mint. Mints without a reliable
// price are absent from the result.
func (c *Client) TokensPrice(ctx context.Context, mints []string) (map[string]types.Price, error) {
	prices := map[string]types.Price{}
	query := url.Values{"ids": {strings.Join(mints, ",")}}
	if err := c.get(ctx, "/price/v3", query, &prices); err != nil {
		return nil, fmt.Errorf("failed to get prices: %w", err)
	}
	return prices, nil
}

// FindToken resolves a symbol or mint to a token, preferring an exact
// verified symbol match
func (c *Client) FindToken(ctx context.Context, symbolOrMint string) (*types.TokenInfo, error) {
	tokens, err := c.TokenSearch(ctx, []string{symbolOrMint})
	if err != nil {
		return nil, err
	}

	for i := range tokens {
		if tokens[i].ID == symbolOrMint {
			return &tokens[i], nil
		}
	}

	var exact []*types.TokenInfo
	for i := range tokens {
		if strings.EqualFold(tokens[i].Symbol, symbolOrMint) {
			exact = append(exact, &tokens[i])
		}
	}
	for _, t := range exact {
		if t.IsVerified != nil && *t.IsVerified {
			return t, nil
		}
	}
	if len(exact) > 0 {
		return exact[0], nil
	}

	return nil, fmt.Errorf("token '%s' not found", symbolOrMint)
}

// TokenPrice queries the v2 price endpoint.
//
// Deprecated: use TokensPrice.
func (c *Client) TokenPrice(ctx context.Context, req *types.TokenPriceRequest) (*types.TokenPriceResponse, error) {
	var resp types.TokenPriceResponse
	if err := c.get(ctx, "/price/v2", req.Values(), &resp); err != nil {
		return nil, fmt.Errorf("failed to get price: %w", err)
	}
	return &resp, nil
}

// TokenInfo returns the v1 record of a mint.
//
// Deprecated: use TokenSearch.
func (c *Client) TokenInfo(ctx context.Context, mint string) (*types.TokenInfoResponse, error) {
	var info types.TokenInfoResponse
	if err := c.get(ctx, "/tokens/v1/token/"+url.PathEscape(mint), nil, &info); err != nil {
		return nil, fmt.Errorf("failed to get token info: %w", err)
	}
	return &info, nil
}

// MarketMints returns the mints traded in a market.
//
// Deprecated: the v1 token API is being retired.
func (c *Client) MarketMints(ctx context.Context, market string) ([]string, error) {
	var mints []string
	if err := c.get(ctx, "/tokens/v1/market/"+url.PathEscape(market)+"/mints", nil, &mints); err != nil {
		return nil, fmt.Errorf("failed to get market mints: %w", err)
	}
	return mints, nil
}

// TradableMints returns every tradable mint.
//
// Deprecated: the v1 token API is being retired.
func (c *Client) TradableMints(ctx context.Context) ([]string, error) {
	var mints []string
	if err := c.get(ctx, "/tokens/v1/mints/tradable", nil, &mints); err != nil {
		return nil, fmt.Errorf("failed to get tradable mints: %w", err)
	}
	return mints, nil
}

// NewTokens pages through newly listed tokens.
//
// Deprecated: use RecentTokens.
func (c *Client) NewTokens(ctx context.Context, limit, offset *uint64) ([]types.NewToken, error) {
	var tokens []types.NewToken
	query := url.Values{}
	if limit != nil {
		query.Set("limit", strconv.FormatUint(*limit, 10))
	}
	if offset != nil {
		query.Set("offset", strconv.FormatUint(*offset, 10))
	}
	if err := c.get(ctx, "/tokens/v1/new", query, &tokens); err != nil {
		return nil, fmt.Errorf("failed to get new tokens: %w", err)
	}
	return tokens, nil
}

// AllTokens returns every v1 token record.
//
// Deprecated: the v1 token API is being retired.
func (c *Client) AllTokens(ctx context.Context) ([]types.TokenInfoResponse, error) {
	var tokens []types.TokenInfoResponse
	if err := c.get(ctx, "/tokens/v1/all", nil, &tokens); err != nil {
		return nil, fmt.Errorf("failed to get all tokens: %w", err)
	}
	return tokens, nil
}
