package types

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// RecurringType distinguishes time based and price based recurring orders
type RecurringType string

const (
	RecurringTypeTime  RecurringType = "time"
	RecurringTypePrice RecurringType = "price"
	RecurringTypeAll   RecurringType = "all"
)

// ParseRecurringType validates a recurring type
func ParseRecurringType(s string) (RecurringType, error) {
	switch t := RecurringType(s); t {
	case RecurringTypeTime, RecurringTypePrice, RecurringTypeAll:
		return t, nil
	}
	return "", fmt.Errorf("unknown recurring type %q (expected time, price or all)", s)
}

// TimeParams configure an order that buys on a fixed schedule. Interval is
// in seconds.
type TimeParams struct {
	InAmount       uint64   `json:"inAmount"`
	NumberOfOrders uint64   `json:"numberOfOrders"`
	Interval       uint64   `json:"interval"`
	MinPrice       *float64 `json:"minPrice"`
	MaxPrice       *float64 `json:"maxPrice"`
	StartAt        *uint64  `json:"startAt"`
}

// PriceParams configure a value-averaging order
type PriceParams struct {
	DepositAmount      uint64  `json:"depositAmount"`
	IncrementUsdcValue uint64  `json:"incrementUsdcValue"`
	Interval           uint64  `json:"interval"`
	StartAt            *uint64 `json:"startAt"`
}

// RecurringParams holds exactly one of Time or Price
type RecurringParams struct {
	Time  *TimeParams  `json:"time,omitempty"`
	Price *PriceParams `json:"price,omitempty"`
}

// CreateRecurringOrderRequest is the body of POST /recurring/v1/createOrder
type CreateRecurringOrderRequest struct {
	User       string          `json:"user"`
	InputMint  string          `json:"inputMint"`
	OutputMint string          `json:"outputMint"`
	Params     RecurringParams `json:"params"`
}

// NewTimeRecurringOrder splits inAmount into numberOfOrders buys, one every
// interval seconds.
func NewTimeRecurringOrder(user, inputMint, outputMint string, inAmount, numberOfOrders, interval uint64) *CreateRecurringOrderRequest {
	return &CreateRecurringOrderRequest{
		User:       user,
		InputMint:  inputMint,
		OutputMint: outputMint,
		Params: RecurringParams{Time: &TimeParams{
			InAmount:       inAmount,
			NumberOfOrders: numberOfOrders,
			Interval:       interval,
		}},
	}
}

// NewPriceRecurringOrder creates a value-averaging order funded with depositAmount
func NewPriceRecurringOrder(user, inputMint, outputMint string, depositAmount, incrementUsdcValue, interval uint64) *CreateRecurringOrderRequest {
	return &CreateRecurringOrderRequest{
		User:       user,
		InputMint:  inputMint,
		OutputMint: outputMint,
		Params: RecurringParams{Price: &PriceParams{
			DepositAmount:      depositAmount,
			IncrementUsdcValue: incrementUsdcValue,
			Interval:           interval,
		}},
	}
}

// SetStartAt sets the unix start time on whichever params are present
func (r *CreateRecurringOrderRequest) SetStartAt(startAt uint64) {
	if r.Params.Time != nil {
		r.Params.Time.StartAt = &startAt
	}
	if r.Params.Price != nil {
		r.Params.Price.StartAt = &startAt
	}
}

// SetPriceRange bounds a time order's execution price. It has no effect on
// price orders.
func (r *CreateRecurringOrderRequest) SetPriceRange(minPrice, maxPrice *float64) {
	if r.Params.Time == nil {
		return
	}
	r.Params.Time.MinPrice = minPrice
	r.Params.Time.MaxPrice = maxPrice
}

// Validate checks that exactly one params variant is set
func (r *CreateRecurringOrderRequest) Validate() error {
	if (r.Params.Time == nil) == (r.Params.Price == nil) {
		return fmt.Errorf("recurring order needs exactly one of time or price params")
	}
	return nil
}

// CancelRecurringOrderRequest is the body of POST /recurring/v1/cancelOrder
type CancelRecurringOrderRequest struct {
	Order         string        `json:"order"`
	RecurringType RecurringType `json:"recurringType"`
	User          string        `json:"user"`
}

// PriceDeposit adds funds to a price order
type PriceDeposit struct {
	Amount uint64 `json:"amount"`
	Order  string `json:"order"`
	User   string `json:"user"`
}

// PriceWithdraw removes funds from a price order. InputOrOutput is "In" or "Out".
type PriceWithdraw struct {
	Amount        uint64 `json:"amount"`
	Order         string `json:"order"`
	User          string `json:"user"`
	InputOrOutput string `json:"inputOrOutput"`
}

// RecurringResponse carries the unsigned transaction for a recurring action
type RecurringResponse struct {
	RequestID   string `json:"requestId"`
	Transaction string `json:"transaction"`
}

// ExecuteRecurringRequest submits a signed recurring transaction
type ExecuteRecurringRequest struct {
	RequestID         string `json:"requestId"`
	SignedTransaction string `json:"signedTransaction"`
}

// ExecuteRecurringResponse is the result of POST /recurring/v1/execute
type ExecuteRecurringResponse struct {
	Signature string `json:"signature"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
}

// GetRecurringOrders holds the parameters of GET /recurring/v1/getRecurringOrders
type GetRecurringOrders struct {
	RecurringType   RecurringType
	OrderStatus     OrderStatus
	User            string
	Page            uint64
	Mint            *string
	IncludeFailedTx bool
}

// NewGetRecurringOrders lists the first page of user's orders
func NewGetRecurringOrders(recurringType RecurringType, status OrderStatus, user string) *GetRecurringOrders {
	return &GetRecurringOrders{
		RecurringType: recurringType,
		OrderStatus:   status,
		User:          user,
		Page:          1,
	}
}

// Values encodes the request as query parameters
func (r *GetRecurringOrders) Values() url.Values {
	v := url.Values{}
	v.Set("recurringType", string(r.RecurringType))
	v.Set("orderStatus", string(r.OrderStatus))
	v.Set("user", r.User)
	v.Set("page", strconv.FormatUint(r.Page, 10))
	setString(v, "mint", r.Mint)
	v.Set("includeFailedTx", strconv.FormatBool(r.IncludeFailedTx))
	return v
}

// RecurringOrders is one page of recurring orders, grouped by type
type RecurringOrders struct {
	OrderStatus OrderStatus       `json:"orderStatus"`
	Page        uint64            `json:"page"`
	TotalPages  uint64            `json:"totalPages"`
	User        string            `json:"user"`
	Time        []json.RawMessage `json:"time,omitempty"`
	Price       []json.RawMessage `json:"price,omitempty"`
	All         []json.RawMessage `json:"all,omitempty"`
}
