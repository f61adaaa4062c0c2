package flow

import (
	"context"
	"errors"
	"time"

	"jup-swap/pkg/chain"
)

const (
	DefaultPollInterval = 2 * time.Second
	MinPollInterval     = 500 * time.Millisecond
)

// StatusReader looks up the status of a submitted signature
type StatusReader interface {
	SignatureStatus(ctx context.Context, signature string) (*chain.SignatureStatus, error)
}

// WaitForConfirmation polls until signature reaches confirmed commitment,
// fails on chain, or ctx ends. onUpdate, when set, sees every status
// observed. A signature the node does not know yet keeps polling.
func WaitForConfirmation(ctx context.Context, reader StatusReader, signature string, interval time.Duration, onUpdate func(*chain.SignatureStatus)) (*chain.SignatureStatus, error) {
	if interval < MinPollInterval {
		interval = MinPollInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		status, err := reader.SignatureStatus(ctx, signature)
		switch {
		case err == nil:
			if onUpdate != nil {
				onUpdate(status)
			}
			if status.Err != "" {
				return status, errors.Join(ErrExecutionFailed, errors.New(status.Err))
			}
			if status.Landed() {
				return status, nil
			}
		case !errors.Is(err, chain.ErrNotFound):
			return nil, err
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
