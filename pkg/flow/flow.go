// Package flow runs the end-to-end order flows: fetch an unsigned
// transaction (or instructions) from Jupiter, sign it locally and submit it
// either back to Jupiter or straight to a Solana RPC node.
package flow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"jup-swap/pkg/chain"
	"jup-swap/pkg/journal"
	"jup-swap/pkg/logger"
	"jup-swap/pkg/txbuild"
	"jup-swap/pkg/txsign"
	"jup-swap/pkg/types"
)

// Flow names as recorded in the journal
const (
	FlowUltra            = "ultra"
	FlowSwapTransaction  = "swap"
	FlowSwapInstructions = "instructions"
	FlowTrigger          = "trigger"
	FlowTriggerCancel    = "trigger-cancel"
	FlowRecurring        = "recurring"
	FlowRecurringCancel  = "recurring-cancel"
)

var (
	// ErrNoTransaction is returned when the API answered without a transaction to sign
	ErrNoTransaction = errors.New("response carries no transaction")
	// ErrExecutionFailed is returned when the transaction was submitted but did not succeed
	ErrExecutionFailed = errors.New("execution failed")
	// ErrNoChain is returned by flows that submit through RPC when no chain client is set
	ErrNoChain = errors.New("solana rpc client not configured")
)

// API is the subset of the Jupiter client used by the flows
type API interface {
	GetUltraOrder(ctx context.Context, req *types.UltraOrderRequest) (*types.UltraOrderResponse, error)
	ExecuteUltraOrder(ctx context.Context, req *types.UltraExecuteOrderRequest) (*types.UltraExecuteOrderResponse, error)

	GetQuote(ctx context.Context, req *types.QuoteRequest) (*types.QuoteResponse, error)
	GetSwapTransaction(ctx context.Context, req *types.SwapRequest) (*types.SwapResponse, error)
	GetSwapInstructions(ctx context.Context, req *types.SwapRequest) (*types.SwapInstructionsResponse, error)

	CreateTriggerOrder(ctx context.Context, req *types.CreateTriggerOrder) (*types.TriggerResponse, error)
	CancelTriggerOrder(ctx context.Context, req *types.CancelTriggerOrder) (*types.TriggerResponse, error)
	ExecuteTriggerOrder(ctx context.Context, req *types.ExecuteTriggerOrder) (*types.ExecuteTriggerOrderResponse, error)

	CreateRecurringOrder(ctx context.Context, req *types.CreateRecurringOrderRequest) (*types.RecurringResponse, error)
	CancelRecurringOrder(ctx context.Context, req *types.CancelRecurringOrderRequest) (*types.RecurringResponse, error)
	ExecuteRecurringOrder(ctx context.Context, req *types.ExecuteRecurringRequest) (*types.ExecuteRecurringResponse, error)
}

// Chain is the subset of the Solana client used by the RPC flows
type Chain interface {
	txbuild.AccountFetcher
	LatestBlockhash(ctx context.Context) (*chain.Blockhash, error)
	SendEnvelope(ctx context.Context, envelope string) (string, error)
	SendTransaction(ctx context.Context, tx *solana.Transaction) (string, error)
}

// Recorder persists submitted transactions
type Recorder interface {
	Record(e *journal.Entry) error
}

// Config holds the collaborators of a Runner. Chain and Journal are optional.
type Config struct {
	API       API
	Chain     Chain
	Journal   Recorder
	SecretKey []byte
	Logger    *zap.Logger
}

// Runner executes flows on behalf of a single signing wallet
type Runner struct {
	api     API
	chain   Chain
	journal Recorder
	key     solana.PrivateKey
	owner   solana.PublicKey
	logger  *zap.Logger
}

// Result is the outcome of one flow run
type Result struct {
	Flow       string
	RequestID  string
	Signature  string
	InputMint  string
	OutputMint string
	InAmount   string
	OutAmount  string
	Status     journal.Status
	Error      string
}

// NewRunner validates the signing key and builds a Runner
func NewRunner(cfg *Config) (*Runner, error) {
	if cfg == nil || cfg.API == nil {
		return nil, fmt.Errorf("jupiter api client is required")
	}

	key, err := txsign.PrivateKeyFromBytes(cfg.SecretKey)
	if err != nil {
		return nil, err
	}

	return &Runner{
		api:     cfg.API,
		chain:   cfg.Chain,
		journal: cfg.Journal,
		key:     key,
		owner:   key.PublicKey(),
		logger:  logger.OrNop(cfg.Logger),
	}, nil
}

// Owner returns the public key of the signing wallet
func (r *Runner) Owner() solana.PublicKey {
	return r.owner
}

// Ultra requests an order for the signing wallet, signs it and lets
// Jupiter land it
func (r *Runner) Ultra(ctx context.Context, req *types.UltraOrderRequest) (*Result, error) {
	if req.Taker == nil {
		req.Taker = types.Ptr(r.owner.String())
	}

	order, err := r.api.GetUltraOrder(ctx, req)
	if err != nil {
		return nil, err
	}
	if order.Transaction == "" {
		return nil, fmt.Errorf("ultra order %s: %w", order.RequestID, ErrNoTransaction)
	}

	signed, err := r.sign(order.Transaction)
	if err != nil {
		return nil, err
	}

	exec, err := r.api.ExecuteUltraOrder(ctx, types.NewUltraExecuteOrderRequest(signed, order.RequestID))
	if err != nil {
		return nil, err
	}

	res := &Result{
		Flow:       FlowUltra,
		RequestID:  order.RequestID,
		Signature:  exec.Signature,
		InputMint:  order.InputMint,
		OutputMint: order.OutputMint,
		InAmount:   order.InAmount,
		OutAmount:  order.OutAmount,
		Status:     journal.StatusSuccess,
	}
	if exec.OutputAmountResult != "" {
		res.OutAmount = exec.OutputAmountResult
	}
	if exec.Status != types.ExecuteStatusSuccess {
		res.Status = journal.StatusFailed
		res.Error = fmt.Sprintf("%s (code %d)", exec.Error, exec.Code)
	}
	return r.finish(res)
}

// SwapTransaction quotes, fetches the serialized swap transaction, signs it
// and submits it over RPC
func (r *Runner) SwapTransaction(ctx context.Context, quoteReq *types.QuoteRequest) (*Result, error) {
	if r.chain == nil {
		return nil, ErrNoChain
	}

	quote, err := r.api.GetQuote(ctx, quoteReq)
	if err != nil {
		return nil, err
	}

	swap, err := r.api.GetSwapTransaction(ctx, r.swapRequest(quote))
	if err != nil {
		return nil, err
	}
	if swap.SwapTransaction == "" {
		return nil, fmt.Errorf("swap: %w", ErrNoTransaction)
	}

	signed, err := r.sign(swap.SwapTransaction)
	if err != nil {
		return nil, err
	}

	sig, err := r.chain.SendEnvelope(ctx, signed)
	if err != nil {
		return nil, err
	}

	return r.finish(quoteResult(FlowSwapTransaction, quote, sig))
}

// SwapInstructions quotes, fetches the swap as instructions, compiles them
// into a v0 transaction against the RPC node's lookup tables and blockhash,
// signs it and submits it
func (r *Runner) SwapInstructions(ctx context.Context, quoteReq *types.QuoteRequest) (*Result, error) {
	if r.chain == nil {
		return nil, ErrNoChain
	}

	quote, err := r.api.GetQuote(ctx, quoteReq)
	if err != nil {
		return nil, err
	}

	instructions, err := r.api.GetSwapInstructions(ctx, r.swapRequest(quote))
	if err != nil {
		return nil, err
	}

	blockhash, err := r.chain.LatestBlockhash(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := txbuild.Assemble(ctx, txbuild.Params{
		Instructions:    txbuild.OrderInstructions(instructions),
		LookupTables:    instructions.AddressLookupTableAddresses,
		Payer:           r.owner,
		RecentBlockhash: blockhash.Hash,
	}, r.chain)
	if err != nil {
		return nil, err
	}

	if _, err := txsign.SignTransaction(tx, r.key); err != nil {
		return nil, err
	}

	sig, err := r.chain.SendTransaction(ctx, tx)
	if err != nil {
		return nil, err
	}

	return r.finish(quoteResult(FlowSwapInstructions, quote, sig))
}

// Trigger opens a limit order for the signing wallet
func (r *Runner) Trigger(ctx context.Context, req *types.CreateTriggerOrder) (*Result, error) {
	if req.Maker == "" {
		req.Maker = r.owner.String()
	}
	if req.Payer == "" {
		req.Payer = req.Maker
	}

	created, err := r.api.CreateTriggerOrder(ctx, req)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Flow:       FlowTrigger,
		InputMint:  req.InputMint,
		OutputMint: req.OutputMint,
		InAmount:   req.Params.MakingAmount,
		OutAmount:  req.Params.TakingAmount,
	}
	return r.executeTrigger(ctx, created, res)
}

// CancelTrigger cancels one limit order of the signing wallet
func (r *Runner) CancelTrigger(ctx context.Context, order string) (*Result, error) {
	cancelled, err := r.api.CancelTriggerOrder(ctx, types.NewCancelTriggerOrder(r.owner.String(), order))
	if err != nil {
		return nil, err
	}
	return r.executeTrigger(ctx, cancelled, &Result{Flow: FlowTriggerCancel})
}

func (r *Runner) executeTrigger(ctx context.Context, resp *types.TriggerResponse, res *Result) (*Result, error) {
	if resp.Transaction == "" {
		return nil, fmt.Errorf("trigger request %s: %w", resp.RequestID, ErrNoTransaction)
	}

	signed, err := r.sign(resp.Transaction)
	if err != nil {
		return nil, err
	}

	exec, err := r.api.ExecuteTriggerOrder(ctx, types.NewExecuteTriggerOrder(resp.RequestID, signed))
	if err != nil {
		return nil, err
	}

	res.RequestID = resp.RequestID
	res.Signature = exec.Signature
	res.Status, res.Error = executeStatus(exec.Status, exec.Error)
	return r.finish(res)
}

// Recurring opens a time or price based recurring order for the signing wallet
func (r *Runner) Recurring(ctx context.Context, req *types.CreateRecurringOrderRequest) (*Result, error) {
	if req.User == "" {
		req.User = r.owner.String()
	}

	created, err := r.api.CreateRecurringOrder(ctx, req)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Flow:       FlowRecurring,
		InputMint:  req.InputMint,
		OutputMint: req.OutputMint,
	}
	switch {
	case req.Params.Time != nil:
		res.InAmount = fmt.Sprint(req.Params.Time.InAmount)
	case req.Params.Price != nil:
		res.InAmount = fmt.Sprint(req.Params.Price.DepositAmount)
	}
	return r.executeRecurring(ctx, created, res)
}

// CancelRecurring closes a recurring order of the signing wallet
func (r *Runner) CancelRecurring(ctx context.Context, order string, recurringType types.RecurringType) (*Result, error) {
	cancelled, err := r.api.CancelRecurringOrder(ctx, &types.CancelRecurringOrderRequest{
		Order:         order,
		RecurringType: recurringType,
		User:          r.owner.String(),
	})
	if err != nil {
		return nil, err
	}
	return r.executeRecurring(ctx, cancelled, &Result{Flow: FlowRecurringCancel})
}

func (r *Runner) executeRecurring(ctx context.Context, resp *types.RecurringResponse, res *Result) (*Result, error) {
	if resp.Transaction == "" {
		return nil, fmt.Errorf("recurring request %s: %w", resp.RequestID, ErrNoTransaction)
	}

	signed, err := r.sign(resp.Transaction)
	if err != nil {
		return nil, err
	}

	exec, err := r.api.ExecuteRecurringOrder(ctx, &types.ExecuteRecurringRequest{
		RequestID:         resp.RequestID,
		SignedTransaction: signed,
	})
	if err != nil {
		return nil, err
	}

	res.RequestID = resp.RequestID
	res.Signature = exec.Signature
	res.Status, res.Error = executeStatus(exec.Status, exec.Error)
	return r.finish(res)
}

func (r *Runner) sign(envelope string) (string, error) {
	signed, err := txsign.Sign(envelope, r.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}
	return signed, nil
}

func (r *Runner) swapRequest(quote *types.QuoteResponse) *types.SwapRequest {
	req := types.NewSwapRequest(r.owner.String(), r.owner.String(), quote)
	req.DynamicComputeUnitLimit = types.Ptr(true)
	return req
}

// finish journals res and turns a failed execution into an error. A
// journal write failure is logged and does not fail the flow: the
// transaction has already been submitted.
func (r *Runner) finish(res *Result) (*Result, error) {
	r.logger.Debug("flow finished",
		zap.String("flow", res.Flow),
		zap.String("request_id", res.RequestID),
		zap.String("signature", res.Signature),
		zap.String("status", string(res.Status)))

	if r.journal != nil {
		entry := &journal.Entry{
			Flow:       res.Flow,
			InputMint:  res.InputMint,
			OutputMint: res.OutputMint,
			InAmount:   res.InAmount,
			OutAmount:  res.OutAmount,
			RequestID:  res.RequestID,
			Signature:  res.Signature,
			Status:     res.Status,
			Error:      res.Error,
		}
		if err := r.journal.Record(entry); err != nil {
			r.logger.Warn("failed to record journal entry", zap.String("signature", res.Signature), zap.Error(err))
		}
	}

	if res.Status == journal.StatusFailed {
		return res, fmt.Errorf("%s: %w: %s", res.Flow, ErrExecutionFailed, res.Error)
	}
	return res, nil
}

func quoteResult(flow string, quote *types.QuoteResponse, sig string) *Result {
	return &Result{
		Flow:       flow,
		Signature:  sig,
		InputMint:  quote.InputMint,
		OutputMint: quote.OutputMint,
		InAmount:   quote.InAmount,
		OutAmount:  quote.OutAmount,
		Status:     journal.StatusSubmitted,
	}
}

func executeStatus(status, errMsg string) (journal.Status, string) {
	if strings.EqualFold(status, "failed") {
		if errMsg == "" {
			errMsg = "execution failed"
		}
		return journal.StatusFailed, errMsg
	}
	return journal.StatusSuccess, ""
}
