package types

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// OrderStatus filters order listings
type OrderStatus string

const (
	OrderStatusActive  OrderStatus = "active"
	OrderStatusHistory OrderStatus = "history"
)

// ParseOrderStatus validates an order status filter
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch st := OrderStatus(s); st {
	case OrderStatusActive, OrderStatusHistory:
		return st, nil
	}
	return "", fmt.Errorf("unknown order status %q (expected active or history)", s)
}

// TriggerParams are the amounts and limits of a limit order. Amounts are raw.
type TriggerParams struct {
	MakingAmount string  `json:"makingAmount"`
	TakingAmount string  `json:"takingAmount"`
	ExpiredAt    *string `json:"expiredAt,omitempty"`
	SlippageBps  *string `json:"slippageBps,omitempty"`
	FeeBps       *string `json:"feeBps,omitempty"`
}

// CreateTriggerOrder is the body of POST /trigger/v1/createOrder
type CreateTriggerOrder struct {
	InputMint        string        `json:"inputMint"`
	OutputMint       string        `json:"outputMint"`
	Maker            string        `json:"maker"`
	Payer            string        `json:"payer"`
	Params           TriggerParams `json:"params"`
	ComputeUnitPrice *string       `json:"computeUnitPrice,omitempty"`
	FeeAccount       *string       `json:"feeAccount,omitempty"`
	WrapAndUnwrapSol *bool         `json:"wrapAndUnwrapSol,omitempty"`
}

// NewCreateTriggerOrder creates a limit order selling makingAmount of
// inputMint for at least takingAmount of outputMint.
func NewCreateTriggerOrder(inputMint, outputMint, maker, payer string, makingAmount, takingAmount uint64) *CreateTriggerOrder {
	return &CreateTriggerOrder{
		InputMint:  inputMint,
		OutputMint: outputMint,
		Maker:      maker,
		Payer:      payer,
		Params: TriggerParams{
			MakingAmount: strconv.FormatUint(makingAmount, 10),
			TakingAmount: strconv.FormatUint(takingAmount, 10),
		},
	}
}

// TriggerResponse carries the unsigned transaction(s) for a create or cancel
type TriggerResponse struct {
	RequestID    string   `json:"requestId"`
	Transaction  string   `json:"transaction,omitempty"`
	Transactions []string `json:"transactions,omitempty"`
	Order        string   `json:"order,omitempty"`
	Code         int      `json:"code"`
}

// ExecuteTriggerOrder submits a signed trigger transaction
type ExecuteTriggerOrder struct {
	RequestID         string `json:"requestId"`
	SignedTransaction string `json:"signedTransaction"`
}

// NewExecuteTriggerOrder pairs a signed envelope with its request id
func NewExecuteTriggerOrder(requestID, signedTransaction string) *ExecuteTriggerOrder {
	return &ExecuteTriggerOrder{
		RequestID:         requestID,
		SignedTransaction: signedTransaction,
	}
}

// ExecuteTriggerOrderResponse is the result of POST /trigger/v1/execute
type ExecuteTriggerOrderResponse struct {
	Code      int    `json:"code"`
	Signature string `json:"signature"`
	Status    string `json:"status"`
	Order     string `json:"order,omitempty"`
	Error     string `json:"error,omitempty"`
}

// CancelTriggerOrder is the body of POST /trigger/v1/cancelOrder
type CancelTriggerOrder struct {
	Maker            string  `json:"maker"`
	Order            string  `json:"order"`
	ComputeUnitPrice *string `json:"computeUnitPrice,omitempty"`
}

// NewCancelTriggerOrder cancels one order owned by maker
func NewCancelTriggerOrder(maker, order string) *CancelTriggerOrder {
	return &CancelTriggerOrder{Maker: maker, Order: order}
}

// CancelTriggerOrders is the body of POST /trigger/v1/cancelOrders. An empty
// Orders list cancels every open order of the maker.
type CancelTriggerOrders struct {
	Maker            string   `json:"maker"`
	Orders           []string `json:"orders,omitempty"`
	ComputeUnitPrice *string  `json:"computeUnitPrice,omitempty"`
}

// NewCancelTriggerOrders cancels the given orders owned by maker
func NewCancelTriggerOrders(maker string, orders []string) *CancelTriggerOrders {
	return &CancelTriggerOrders{Maker: maker, Orders: orders}
}

// GetTriggerOrders holds the parameters of GET /trigger/v1/getTriggerOrders
type GetTriggerOrders struct {
	User            string
	OrderStatus     OrderStatus
	Page            *uint64
	IncludeFailedTx bool
	InputMint       *string
	OutputMint      *string
}

// NewGetTriggerOrders lists orders of user in the given status
func NewGetTriggerOrders(user string, status OrderStatus) *GetTriggerOrders {
	return &GetTriggerOrders{User: user, OrderStatus: status}
}

// Values encodes the request as query parameters
func (r *GetTriggerOrders) Values() url.Values {
	v := url.Values{}
	v.Set("user", r.User)
	v.Set("orderStatus", string(r.OrderStatus))
	setUint(v, "page", r.Page)
	v.Set("includeFailedTx", strconv.FormatBool(r.IncludeFailedTx))
	setString(v, "inputMint", r.InputMint)
	setString(v, "outputMint", r.OutputMint)
	return v
}

// Trade is a fill against a trigger order
type Trade struct {
	OrderKey        string          `json:"orderKey"`
	Keeper          string          `json:"keeper"`
	InputMint       string          `json:"inputMint"`
	OutputMint      string          `json:"outputMint"`
	InputAmount     string          `json:"inputAmount"`
	OutputAmount    string          `json:"outputAmount"`
	RawInputAmount  string          `json:"rawInputAmount"`
	RawOutputAmount string          `json:"rawOutputAmount"`
	FeeMint         string          `json:"feeMint"`
	FeeAmount       string          `json:"feeAmount"`
	RawFeeAmount    string          `json:"rawFeeAmount"`
	TxID            string          `json:"txId"`
	ConfirmedAt     string          `json:"confirmedAt"`
	Action          string          `json:"action"`
	ProductMeta     json.RawMessage `json:"productMeta,omitempty"`
}

// Order is a trigger order and its fills
type Order struct {
	UserPubkey               string  `json:"userPubkey"`
	OrderKey                 string  `json:"orderKey"`
	InputMint                string  `json:"inputMint"`
	OutputMint               string  `json:"outputMint"`
	MakingAmount             string  `json:"makingAmount"`
	TakingAmount             string  `json:"takingAmount"`
	RemainingMakingAmount    string  `json:"remainingMakingAmount"`
	RemainingTakingAmount    string  `json:"remainingTakingAmount"`
	RawMakingAmount          string  `json:"rawMakingAmount"`
	RawTakingAmount          string  `json:"rawTakingAmount"`
	RawRemainingMakingAmount string  `json:"rawRemainingMakingAmount"`
	RawRemainingTakingAmount string  `json:"rawRemainingTakingAmount"`
	SlippageBps              string  `json:"slippageBps"`
	ExpiredAt                string  `json:"expiredAt,omitempty"`
	CreatedAt                string  `json:"createdAt"`
	UpdatedAt                string  `json:"updatedAt"`
	Status                   string  `json:"status"`
	OpenTx                   string  `json:"openTx"`
	CloseTx                  string  `json:"closeTx"`
	ProgramVersion           string  `json:"programVersion"`
	Trades                   []Trade `json:"trades"`
}

// OrderResponse is one page of trigger orders
type OrderResponse struct {
	User        string  `json:"user"`
	OrderStatus string  `json:"orderStatus"`
	Orders      []Order `json:"orders"`
	TotalPages  uint32  `json:"totalPages"`
	Page        uint32  `json:"page"`
}
