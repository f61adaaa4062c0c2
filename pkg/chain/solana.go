package chain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"jup-swap/pkg/logger"
	"jup-swap/pkg/txsign"
)

// DefaultRPCURL is the public mainnet endpoint
const DefaultRPCURL = rpc.MainNetBeta_RPC

// ErrNotFound is returned when an account, transaction or signature is unknown
// to the node
var ErrNotFound = errors.New("not found")

// Config holds the Solana RPC configuration
type Config struct {
	RPCURL        string
	Commitment    string
	SkipPreflight bool
	Logger        *zap.Logger
}

// SolanaClient reads chain state and submits signed envelopes
type SolanaClient struct {
	config     Config
	client     *rpc.Client
	commitment rpc.CommitmentType
	logger     *zap.Logger
}

// Blockhash is a recent blockhash and the last block height it is valid for
type Blockhash struct {
	Hash                 solana.Hash
	LastValidBlockHeight uint64
}

// SignatureStatus is the cluster's view of a submitted transaction
type SignatureStatus struct {
	Signature          string  `json:"signature"`
	Slot               uint64  `json:"slot"`
	Confirmations      *uint64 `json:"confirmations,omitempty"`
	ConfirmationStatus string  `json:"confirmationStatus"`
	Err                string  `json:"err,omitempty"`
}

// Landed reports whether the transaction reached at least confirmed commitment
func (s *SignatureStatus) Landed() bool {
	return s.ConfirmationStatus == string(rpc.ConfirmationStatusConfirmed) ||
		s.ConfirmationStatus == string(rpc.ConfirmationStatusFinalized)
}

// TransactionInfo summarizes a confirmed transaction
type TransactionInfo struct {
	Signature string `json:"signature"`
	Slot      uint64 `json:"slot"`
	Fee       uint64 `json:"fee"`
	BlockTime *int64 `json:"blockTime,omitempty"`
	Err       string `json:"err,omitempty"`
}

// NewSolanaClient creates a client for cfg.RPCURL, or mainnet when unset
func NewSolanaClient(cfg *Config) *SolanaClient {
	if cfg == nil {
		cfg = &Config{}
	}
	c := *cfg
	if c.RPCURL == "" {
		c.RPCURL = DefaultRPCURL
	}

	return &SolanaClient{
		config:     c,
		client:     rpc.New(c.RPCURL),
		commitment: ParseCommitment(c.Commitment),
		logger:     logger.OrNop(c.Logger),
	}
}

// Commitment returns the commitment used for reads and preflight
func (s *SolanaClient) Commitment() rpc.CommitmentType {
	return s.commitment
}

// GetAccountInfo fetches an account. A missing account yields rpc.ErrNotFound.
func (s *SolanaClient) GetAccountInfo(ctx context.Context, account solana.PublicKey) (*rpc.GetAccountInfoResult, error) {
	return s.client.GetAccountInfoWithOpts(ctx, account, &rpc.GetAccountInfoOpts{
		Commitment: s.commitment,
	})
}

// LatestBlockhash returns a blockhash to compile new messages against
func (s *SolanaClient) LatestBlockhash(ctx context.Context) (*Blockhash, error) {
	recent, err := s.client.GetLatestBlockhash(ctx, s.commitment)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest blockhash: %w", err)
	}
	if recent.Value == nil {
		return nil, fmt.Errorf("failed to get latest blockhash: empty response")
	}

	return &Blockhash{
		Hash:                 recent.Value.Blockhash,
		LastValidBlockHeight: recent.Value.LastValidBlockHeight,
	}, nil
}

// SendEnvelope submits a signed base64 envelope and returns its signature
func (s *SolanaClient) SendEnvelope(ctx context.Context, envelope string) (string, error) {
	tx, err := txsign.DecodeEnvelope(envelope)
	if err != nil {
		return "", err
	}
	return s.SendTransaction(ctx, tx)
}

// SendTransaction submits a signed transaction and returns its signature
func (s *SolanaClient) SendTransaction(ctx context.Context, tx *solana.Transaction) (string, error) {
	opts := rpc.TransactionOpts{
		SkipPreflight:       s.config.SkipPreflight,
		PreflightCommitment: s.commitment,
	}

	sig, err := s.client.SendTransactionWithOpts(ctx, tx, opts)
	if err != nil {
		return "", fmt.Errorf("failed to send transaction: %w", err)
	}

	s.logger.Debug("transaction sent",
		zap.String("signature", sig.String()),
		zap.Bool("skip_preflight", opts.SkipPreflight))
	return sig.String(), nil
}

// Balance returns the SOL balance of owner in lamports
func (s *SolanaClient) Balance(ctx context.Context, owner solana.PublicKey) (uint64, error) {
	balance, err := s.client.GetBalance(ctx, owner, s.commitment)
	if err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance.Value, nil
}

// TokenDecimals reads the decimals of a mint from its account data
func (s *SolanaClient) TokenDecimals(ctx context.Context, mint solana.PublicKey) (uint8, error) {
	accountInfo, err := s.GetAccountInfo(ctx, mint)
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return 0, fmt.Errorf("mint %s: %w", mint, ErrNotFound)
		}
		return 0, fmt.Errorf("failed to get mint account info: %w", err)
	}

	// Decimals sit at byte 44 of the SPL mint layout.
	data := accountInfo.Value.Data.GetBinary()
	if len(data) < 45 {
		return 0, fmt.Errorf("invalid mint account data for %s", mint)
	}
	return data[44], nil
}

// SignatureStatus looks up a signature, searching history beyond the
// recent status cache.
func (s *SolanaClient) SignatureStatus(ctx context.Context, signature string) (*SignatureStatus, error) {
	sig, err := solana.SignatureFromBase58(signature)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction signature: %w", err)
	}

	out, err := s.client.GetSignatureStatuses(ctx, true, sig)
	if err != nil {
		return nil, fmt.Errorf("failed to get signature status: %w", err)
	}
	if out == nil || len(out.Value) == 0 || out.Value[0] == nil {
		return nil, fmt.Errorf("signature %s: %w", signature, ErrNotFound)
	}

	st := out.Value[0]
	status := &SignatureStatus{
		Signature:          signature,
		Slot:               st.Slot,
		Confirmations:      st.Confirmations,
		ConfirmationStatus: string(st.ConfirmationStatus),
	}
	if st.Err != nil {
		status.Err = fmt.Sprint(st.Err)
	}
	return status, nil
}

// TransactionInfo retrieves slot, fee and outcome of a confirmed transaction
func (s *SolanaClient) TransactionInfo(ctx context.Context, signature string) (*TransactionInfo, error) {
	sig, err := solana.SignatureFromBase58(signature)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction signature: %w", err)
	}

	maxVersion := uint64(0)
	txInfo, err := s.client.GetTransaction(ctx, sig, &rpc.GetTransactionOpts{
		Encoding:                       solana.EncodingBase64,
		Commitment:                     s.commitment,
		MaxSupportedTransactionVersion: &maxVersion,
	})
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, fmt.Errorf("transaction %s: %w", signature, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	info := &TransactionInfo{
		Signature: signature,
		Slot:      txInfo.Slot,
	}
	if txInfo.Meta != nil {
		info.Fee = txInfo.Meta.Fee
		if txInfo.Meta.Err != nil {
			info.Err = fmt.Sprint(txInfo.Meta.Err)
		}
	}
	if txInfo.BlockTime != nil {
		bt := int64(*txInfo.BlockTime)
		info.BlockTime = &bt
	}
	return info, nil
}

// ParseCommitment maps a commitment name to its RPC value, defaulting to
// confirmed
func ParseCommitment(name string) rpc.CommitmentType {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "finalized":
		return rpc.CommitmentFinalized
	case "confirmed":
		return rpc.CommitmentConfirmed
	case "processed":
		return rpc.CommitmentProcessed
	default:
		return rpc.CommitmentConfirmed
	}
}
