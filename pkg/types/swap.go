package types

import (
	"net/url"
	"strconv"
)

// SwapMode selects whether the quote amount is the input or the output side
type SwapMode string

const (
	SwapModeExactIn  SwapMode = "ExactIn"
	SwapModeExactOut SwapMode = "ExactOut"
)

// QuoteRequest holds the parameters of GET /swap/v1/quote
type QuoteRequest struct {
	InputMint  string
	OutputMint string
	// Amount is raw, before decimals. Its side depends on SwapMode.
	Amount uint64

	SlippageBps                *uint64
	SwapMode                   *SwapMode
	Dexes                      []Dex
	ExcludeDexes               []Dex
	RestrictIntermediateTokens *bool
	OnlyDirectRoutes           *bool
	AsLegacyTransaction        *bool
	PlatformFeeBps             *uint64
	MaxAccounts                *uint64
	DynamicSlippage            *bool
}

// NewQuoteRequest creates a quote request with every optional field unset
func NewQuoteRequest(inputMint, outputMint string, amount uint64) *QuoteRequest {
	return &QuoteRequest{
		InputMint:  inputMint,
		OutputMint: outputMint,
		Amount:     amount,
	}
}

// Values encodes the request as query parameters
func (r *QuoteRequest) Values() url.Values {
	v := url.Values{}
	v.Set("inputMint", r.InputMint)
	v.Set("outputMint", r.OutputMint)
	v.Set("amount", strconv.FormatUint(r.Amount, 10))
	setUint(v, "slippageBps", r.SlippageBps)
	if r.SwapMode != nil {
		v.Set("swapMode", string(*r.SwapMode))
	}
	setList(v, "dexes", dexLabels(r.Dexes))
	setList(v, "excludeDexes", dexLabels(r.ExcludeDexes))
	setBool(v, "restrictIntermediateTokens", r.RestrictIntermediateTokens)
	setBool(v, "onlyDirectRoutes", r.OnlyDirectRoutes)
	setBool(v, "asLegacyTransaction", r.AsLegacyTransaction)
	setUint(v, "platformFeeBps", r.PlatformFeeBps)
	setUint(v, "maxAccounts", r.MaxAccounts)
	setBool(v, "dynamicSlippage", r.DynamicSlippage)
	return v
}

// PlatformFee is the fee charged by an integrating platform
type PlatformFee struct {
	Amount string `json:"amount"`
	FeeBps int    `json:"feeBps"`
}

// SwapInfo describes a single hop of a route
type SwapInfo struct {
	AmmKey     string `json:"ammKey"`
	Label      string `json:"label,omitempty"`
	InputMint  string `json:"inputMint"`
	OutputMint string `json:"outputMint"`
	InAmount   string `json:"inAmount"`
	OutAmount  string `json:"outAmount"`
	FeeAmount  string `json:"feeAmount,omitempty"`
	FeeMint    string `json:"feeMint,omitempty"`
}

// RoutePlanItem is one step of the route with its share of the amount
type RoutePlanItem struct {
	SwapInfo SwapInfo `json:"swapInfo"`
	Percent  int      `json:"percent"`
	Bps      *int     `json:"bps,omitempty"`
}

// QuoteResponse is returned by the quote endpoint and posted back verbatim
// inside SwapRequest.
type QuoteResponse struct {
	InputMint            string          `json:"inputMint"`
	InAmount             string          `json:"inAmount"`
	OutputMint           string          `json:"outputMint"`
	OutAmount            string          `json:"outAmount"`
	OtherAmountThreshold string          `json:"otherAmountThreshold"`
	SwapMode             SwapMode        `json:"swapMode"`
	SlippageBps          int             `json:"slippageBps"`
	PlatformFee          *PlatformFee    `json:"platformFee,omitempty"`
	PriceImpactPct       string          `json:"priceImpactPct"`
	RoutePlan            []RoutePlanItem `json:"routePlan"`
	ContextSlot          uint64          `json:"contextSlot,omitempty"`
	TimeTaken            float64         `json:"timeTaken,omitempty"`
	SwapUsdValue         string          `json:"swapUsdValue,omitempty"`
	SimplerRouteUsed     *bool           `json:"simplerRouteUsed,omitempty"`
}

// SwapRequest is the body of POST /swap/v1/swap and /swap/v1/swap-instructions
type SwapRequest struct {
	UserPublicKey                 string         `json:"userPublicKey"`
	Payer                         string         `json:"payer,omitempty"`
	QuoteResponse                 *QuoteResponse `json:"quoteResponse"`
	WrapAndUnwrapSol              *bool          `json:"wrapAndUnwrapSol,omitempty"`
	UseSharedAccounts             *bool          `json:"useSharedAccounts,omitempty"`
	FeeAccount                    *string        `json:"feeAccount,omitempty"`
	TrackingAccount               *string        `json:"trackingAccount,omitempty"`
	ComputeUnitPriceMicroLamports *uint64        `json:"computeUnitPriceMicroLamports,omitempty"`
	AsLegacyTransaction           *bool          `json:"asLegacyTransaction,omitempty"`
	DestinationTokenAccount       *string        `json:"destinationTokenAccount,omitempty"`
	DynamicComputeUnitLimit       *bool          `json:"dynamicComputeUnitLimit,omitempty"`
	SkipUserAccountsRpcCalls      *bool          `json:"skipUserAccountsRpcCalls,omitempty"`
	DynamicSlippage               *bool          `json:"dynamicSlippage,omitempty"`
}

// NewSwapRequest creates a swap request for user, paid by payer
func NewSwapRequest(user, payer string, quote *QuoteResponse) *SwapRequest {
	return &SwapRequest{
		UserPublicKey: user,
		Payer:         payer,
		QuoteResponse: quote,
	}
}

// SwapResponse carries the unsigned swap transaction envelope
type SwapResponse struct {
	SwapTransaction           string `json:"swapTransaction"`
	LastValidBlockHeight      uint64 `json:"lastValidBlockHeight"`
	PrioritizationFeeLamports uint64 `json:"prioritizationFeeLamports,omitempty"`
	ComputeUnitLimit          uint64 `json:"computeUnitLimit,omitempty"`
}

// AccountMeta is an account reference inside an API instruction
type AccountMeta struct {
	Pubkey     string `json:"pubkey"`
	IsSigner   bool   `json:"isSigner"`
	IsWritable bool   `json:"isWritable"`
}

// Instruction is the API's textual instruction form. Data is base64.
type Instruction struct {
	ProgramID string        `json:"programId"`
	Accounts  []AccountMeta `json:"accounts"`
	Data      string        `json:"data"`
}

// SwapInstructionsResponse is the instruction set a client assembles itself
type SwapInstructionsResponse struct {
	TokenLedgerInstruction      *Instruction  `json:"tokenLedgerInstruction,omitempty"`
	ComputeBudgetInstructions   []Instruction `json:"computeBudgetInstructions,omitempty"`
	SetupInstructions           []Instruction `json:"setupInstructions"`
	SwapInstruction             Instruction   `json:"swapInstruction"`
	CleanupInstruction          *Instruction  `json:"cleanupInstruction,omitempty"`
	OtherInstructions           []Instruction `json:"otherInstructions,omitempty"`
	AddressLookupTableAddresses []string      `json:"addressLookupTableAddresses"`
}

// SwapCommand is a parsed "<amount> <token> to <token>" command line
type SwapCommand struct {
	Amount      string
	SourceToken string
	DestToken   string
}

// QuoteDisplay holds formatted quote information for display
type QuoteDisplay struct {
	SourceAmount string
	SourceToken  string
	DestAmount   string
	DestToken    string
	MinimumOut   string
	Rate         string
	PriceImpact  string
	Route        string
	SlippageBps  int
	RequestID    string
}
