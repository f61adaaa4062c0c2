package client

import (
	"context"
	"fmt"

	"jup-swap/pkg/types"
)

// CreateRecurringOrder returns the unsigned transaction opening a recurring order
func (c *Client) CreateRecurringOrder(ctx context.Context, req *types.CreateRecurringOrderRequest) (*types.RecurringResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var resp types.RecurringResponse
	if err := c.post(ctx, "/recurring/v1/createOrder", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to create recurring order: %w", err)
	}
	return &resp, nil
}

// CancelRecurringOrder returns the unsigned transaction closing an order
func (c *Client) CancelRecurringOrder(ctx context.Context, req *types.CancelRecurringOrderRequest) (*types.RecurringResponse, error) {
	var resp types.RecurringResponse
	if err := c.post(ctx, "/recurring/v1/cancelOrder", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to cancel recurring order: %w", err)
	}
	return &resp, nil
}

// PriceDepositRecurring returns the unsigned transaction funding a price order
func (c *Client) PriceDepositRecurring(ctx context.Context, req *types.PriceDeposit) (*types.RecurringResponse, error) {
	var resp types.RecurringResponse
	if err := c.post(ctx, "/recurring/v1/priceDeposit", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to deposit into recurring order: %w", err)
	}
	return &resp, nil
}

// PriceWithdrawRecurring returns the unsigned transaction withdrawing from a price order
func (c *Client) PriceWithdrawRecurring(ctx context.Context, req *types.PriceWithdraw) (*types.RecurringResponse, error) {
	var resp types.RecurringResponse
	if err := c.post(ctx, "/recurring/v1/priceWithdraw", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to withdraw from recurring order: %w", err)
	}
	return &resp, nil
}

// ExecuteRecurringOrder submits a signed recurring transaction
func (c *Client) ExecuteRecurringOrder(ctx context.Context, req *types.ExecuteRecurringRequest) (*types.ExecuteRecurringResponse, error) {
	var resp types.ExecuteRecurringResponse
	if err := c.post(ctx, "/recurring/v1/execute", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to execute recurring order: %w", err)
	}
	return &resp, nil
}

// GetRecurringOrders lists a user's recurring orders
func (c *Client) GetRecurringOrders(ctx context.Context, req *types.GetRecurringOrders) (*types.RecurringOrders, error) {
	var resp types.RecurringOrders
	if err := c.get(ctx, "/recurring/v1/getRecurringOrders", req.Values(), &resp); err != nil {
		return nil, fmt.Errorf("failed to get recurring orders: %w", err)
	}
	return &resp, nil
}
