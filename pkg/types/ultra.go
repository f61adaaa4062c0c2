package types

import (
	"fmt"
	"net/url"
	"strconv"
)

// Referral fee bounds accepted by the Ultra order endpoint, in bps
const (
	MinReferralFeeBps = 50
	MaxReferralFeeBps = 255
)

// UltraOrderRequest holds the parameters of GET /ultra/v1/order.
// Without a Taker the response carries no transaction.
type UltraOrderRequest struct {
	InputMint  string
	OutputMint string
	Amount     uint64

	Taker           *string
	ReferralAccount *string
	ReferralFee     *uint64
	// ExcludeRouters takes router ids such as metis, jupiterz, hashflow, dflow, pyth, okx
	ExcludeRouters []string
}

// NewUltraOrderRequest creates an order request with every optional field unset
func NewUltraOrderRequest(inputMint, outputMint string, amount uint64) *UltraOrderRequest {
	return &UltraOrderRequest{
		InputMint:  inputMint,
		OutputMint: outputMint,
		Amount:     amount,
	}
}

// Validate checks the referral fee bounds
func (r *UltraOrderRequest) Validate() error {
	if r.ReferralFee != nil && (*r.ReferralFee < MinReferralFeeBps || *r.ReferralFee > MaxReferralFeeBps) {
		return fmt.Errorf("referral fee must be between %d and %d bps, got %d", MinReferralFeeBps, MaxReferralFeeBps, *r.ReferralFee)
	}
	return nil
}

// Values encodes the request as query parameters
func (r *UltraOrderRequest) Values() url.Values {
	v := url.Values{}
	v.Set("inputMint", r.InputMint)
	v.Set("outputMint", r.OutputMint)
	v.Set("amount", strconv.FormatUint(r.Amount, 10))
	setString(v, "taker", r.Taker)
	setString(v, "referralAccount", r.ReferralAccount)
	setUint(v, "referralFee", r.ReferralFee)
	setList(v, "excludeRouters", r.ExcludeRouters)
	return v
}

// UltraOrderResponse is the quote plus, when a taker was given, the
// unsigned transaction to sign.
type UltraOrderResponse struct {
	InputMint                 string          `json:"inputMint"`
	OutputMint                string          `json:"outputMint"`
	InAmount                  string          `json:"inAmount"`
	OutAmount                 string          `json:"outAmount"`
	OtherAmountThreshold      string          `json:"otherAmountThreshold"`
	SwapMode                  SwapMode        `json:"swapMode"`
	SlippageBps               int             `json:"slippageBps"`
	PriceImpactPct            string          `json:"priceImpactPct"`
	RoutePlan                 []RoutePlanItem `json:"routePlan"`
	FeeMint                   string          `json:"feeMint,omitempty"`
	FeeBps                    int             `json:"feeBps"`
	PrioritizationFeeLamports uint64          `json:"prioritizationFeeLamports"`
	SwapType                  string          `json:"swapType"`
	Transaction               string          `json:"transaction,omitempty"`
	Gasless                   bool            `json:"gasless"`
	RequestID                 string          `json:"requestId"`
	TotalTime                 float64         `json:"totalTime"`
	Taker                     string          `json:"taker,omitempty"`
	QuoteID                   string          `json:"quoteId,omitempty"`
	Maker                     string          `json:"maker,omitempty"`
	PlatformFee               *PlatformFee    `json:"platformFee,omitempty"`
	ExpireAt                  string          `json:"expireAt,omitempty"`
	Router                    string          `json:"router,omitempty"`
}

// UltraExecuteOrderRequest submits a signed order transaction
type UltraExecuteOrderRequest struct {
	SignedTransaction string `json:"signedTransaction"`
	RequestID         string `json:"requestId"`
}

// NewUltraExecuteOrderRequest pairs a signed envelope with its order request id
func NewUltraExecuteOrderRequest(signedTransaction, requestID string) *UltraExecuteOrderRequest {
	return &UltraExecuteOrderRequest{
		SignedTransaction: signedTransaction,
		RequestID:         requestID,
	}
}

// ExecuteStatus is the outcome reported by execute endpoints
type ExecuteStatus string

const (
	ExecuteStatusSuccess ExecuteStatus = "Success"
	ExecuteStatusFailed  ExecuteStatus = "Failed"
)

// SwapEvent describes one leg settled by an Ultra execution
type SwapEvent struct {
	InputMint    string `json:"inputMint,omitempty"`
	InputAmount  string `json:"inputAmount,omitempty"`
	OutputMint   string `json:"outputMint,omitempty"`
	OutputAmount string `json:"outputAmount,omitempty"`
}

// UltraExecuteOrderResponse is the result of POST /ultra/v1/execute
type UltraExecuteOrderResponse struct {
	Status             ExecuteStatus `json:"status"`
	Signature          string        `json:"signature,omitempty"`
	Slot               string        `json:"slot,omitempty"`
	Error              string        `json:"error,omitempty"`
	Code               int           `json:"code"`
	TotalInputAmount   string        `json:"totalInputAmount,omitempty"`
	TotalOutputAmount  string        `json:"totalOutputAmount,omitempty"`
	InputAmountResult  string        `json:"inputAmountResult,omitempty"`
	OutputAmountResult string        `json:"outputAmountResult,omitempty"`
	SwapEvents         []SwapEvent   `json:"swapEvents,omitempty"`
}

// TokenBalance is a wallet's holding of one mint
type TokenBalance struct {
	Amount   string  `json:"amount"`
	UIAmount float64 `json:"uiAmount"`
	Slot     uint64  `json:"slot"`
	IsFrozen bool    `json:"isFrozen"`
}

// TokenBalancesResponse maps a mint (or "SOL") to its balance
type TokenBalancesResponse map[string]TokenBalance

// Warning is a single Shield finding about a mint
type Warning struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// Shield maps each queried mint to its warnings
type Shield struct {
	Warnings map[string][]Warning `json:"warnings"`
}

// Router is a routing engine the Ultra API can dispatch to
type Router struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}
