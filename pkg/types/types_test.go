package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	solMint = "So11111111111111111111111111111111111111112"
	jupMint = "JUPyiwrYJFskUPiHa7hkeR8VUtAeFoSYbKedZNsDvCN"
)

func TestQuoteRequest_Values(t *testing.T) {
	req := NewQuoteRequest(solMint, jupMint, 1_000_000_000)
	req.SlippageBps = Ptr[uint64](100)
	req.SwapMode = Ptr(SwapModeExactOut)
	req.Dexes = []Dex{DexOrcaV1, DexMeteoraDLMM}
	req.ExcludeDexes = []Dex{DexRaydium}
	req.OnlyDirectRoutes = Ptr(true)
	req.AsLegacyTransaction = Ptr(false)

	v := req.Values()
	assert.Equal(t, solMint, v.Get("inputMint"))
	assert.Equal(t, jupMint, v.Get("outputMint"))
	assert.Equal(t, "1000000000", v.Get("amount"))
	assert.Equal(t, "100", v.Get("slippageBps"))
	assert.Equal(t, "ExactOut", v.Get("swapMode"))
	assert.Equal(t, "Orca V1,Meteora DLMM", v.Get("dexes"))
	assert.Equal(t, "Raydium", v.Get("excludeDexes"))
	assert.Equal(t, "true", v.Get("onlyDirectRoutes"))
	assert.Equal(t, "false", v.Get("asLegacyTransaction"))

	// unset optionals are omitted
	assert.False(t, v.Has("platformFeeBps"))
	assert.False(t, v.Has("restrictIntermediateTokens"))
}

func TestUltraOrderRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		fee     *uint64
		wantErr bool
	}{
		{"unset", nil, false},
		{"lower bound", Ptr[uint64](50), false},
		{"upper bound", Ptr[uint64](255), false},
		{"below", Ptr[uint64](49), true},
		{"above", Ptr[uint64](256), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := NewUltraOrderRequest(solMint, jupMint, 10)
			req.ReferralFee = tt.fee
			err := req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUltraOrderRequest_Values(t *testing.T) {
	req := NewUltraOrderRequest(solMint, jupMint, 10)
	req.Taker = Ptr("taker")
	req.ExcludeRouters = []string{"okx", "pyth"}

	v := req.Values()
	assert.Equal(t, "taker", v.Get("taker"))
	assert.Equal(t, "okx,pyth", v.Get("excludeRouters"))
	assert.False(t, v.Has("referralFee"))
}

func TestRecurringParams_JSONShape(t *testing.T) {
	req := NewTimeRecurringOrder("user", solMint, jupMint, 100, 2, 86400)
	req.SetStartAt(5)
	require.NoError(t, req.Validate())

	raw, err := json.Marshal(req)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	params := decoded["params"].(map[string]any)
	assert.Contains(t, params, "time")
	assert.NotContains(t, params, "price")
	assert.Equal(t, float64(5), params["time"].(map[string]any)["startAt"])

	price := NewPriceRecurringOrder("user", solMint, jupMint, 100, 10, 60)
	price.SetPriceRange(Ptr(1.0), Ptr(2.0))
	assert.Nil(t, price.Params.Time)

	price.Params.Time = &TimeParams{}
	assert.Error(t, price.Validate())
}

func TestGetRecurringOrders_Defaults(t *testing.T) {
	v := NewGetRecurringOrders(RecurringTypeTime, OrderStatusActive, "user").Values()
	assert.Equal(t, "1", v.Get("page"))
	assert.Equal(t, "false", v.Get("includeFailedTx"))
	assert.Equal(t, "time", v.Get("recurringType"))
	assert.Equal(t, "active", v.Get("orderStatus"))
}

func TestCreateTriggerOrder_JSON(t *testing.T) {
	order := NewCreateTriggerOrder(solMint, jupMint, "maker", "payer", 1000, 2000)
	order.Params.SlippageBps = Ptr("50")

	raw, err := json.Marshal(order)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"inputMint": "`+solMint+`",
		"outputMint": "`+jupMint+`",
		"maker": "maker",
		"payer": "payer",
		"params": {"makingAmount": "1000", "takingAmount": "2000", "slippageBps": "50"}
	}`, string(raw))
}

func TestParseEnums(t *testing.T) {
	_, err := ParseCategory("toptrending")
	assert.NoError(t, err)
	_, err = ParseCategory("hot")
	assert.Error(t, err)

	_, err = ParseInterval("6h")
	assert.NoError(t, err)
	_, err = ParseInterval("2h")
	assert.Error(t, err)

	_, err = ParseOrderStatus("history")
	assert.NoError(t, err)
	_, err = ParseRecurringType("weekly")
	assert.Error(t, err)

	d, ok := ParseDex("meteora dlmm")
	assert.True(t, ok)
	assert.Equal(t, DexMeteoraDLMM, d)
}
