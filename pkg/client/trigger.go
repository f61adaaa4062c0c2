package client

import (
	"context"
	"fmt"

	"jup-swap/pkg/types"
)

// CreateTriggerOrder returns the unsigned transaction opening a limit order
func (c *Client) CreateTriggerOrder(ctx context.Context, req *types.CreateTriggerOrder) (*types.TriggerResponse, error) {
	var resp types.TriggerResponse
	if err := c.post(ctx, "/trigger/v1/createOrder", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to create trigger order: %w", err)
	}
	return &resp, nil
}

// ExecuteTriggerOrder submits a signed trigger transaction
func (c *Client) ExecuteTriggerOrder(ctx context.Context, req *types.ExecuteTriggerOrder) (*types.ExecuteTriggerOrderResponse, error) {
	var resp types.ExecuteTriggerOrderResponse
	if err := c.post(ctx, "/trigger/v1/execute", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to execute trigger order: %w", err)
	}
	return &resp, nil
}

// CancelTriggerOrder returns the unsigned transaction cancelling one order
func (c *Client) CancelTriggerOrder(ctx context.Context, req *types.CancelTriggerOrder) (*types.TriggerResponse, error) {
	var resp types.TriggerResponse
	if err := c.post(ctx, "/trigger/v1/cancelOrder", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to cancel trigger order: %w", err)
	}
	return &resp, nil
}

// CancelTriggerOrders returns one unsigned transaction per batch of
// cancelled orders
func (c *Client) CancelTriggerOrders(ctx context.Context, req *types.CancelTriggerOrders) (*types.TriggerResponse, error) {
	var resp types.TriggerResponse
	if err := c.post(ctx, "/trigger/v1/cancelOrders", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to cancel trigger orders: %w", err)
	}
	return &resp, nil
}

// GetTriggerOrders lists a user's trigger orders
func (c *Client) GetTriggerOrders(ctx context.Context, req *types.GetTriggerOrders) (*types.OrderResponse, error) {
	var resp types.OrderResponse
	if err := c.get(ctx, "/trigger/v1/getTriggerOrders", req.Values(), &resp); err != nil {
		return nil, fmt.Errorf("failed to get trigger orders: %w", err)
	}
	return &resp, nil
}
