package types

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// TokenStats aggregates trading activity over one window
type TokenStats struct {
	PriceChange       *float64 `json:"priceChange,omitempty"`
	HolderChange      *float64 `json:"holderChange,omitempty"`
	LiquidityChange   *float64 `json:"liquidityChange,omitempty"`
	VolumeChange      *float64 `json:"volumeChange,omitempty"`
	BuyVolume         *float64 `json:"buyVolume,omitempty"`
	SellVolume        *float64 `json:"sellVolume,omitempty"`
	BuyOrganicVolume  *float64 `json:"buyOrganicVolume,omitempty"`
	SellOrganicVolume *float64 `json:"sellOrganicVolume,omitempty"`
	NumBuys           *uint64  `json:"numBuys,omitempty"`
	NumSells          *uint64  `json:"numSells,omitempty"`
	NumTraders        *uint64  `json:"numTraders,omitempty"`
	NumOrganicBuyers  *uint64  `json:"numOrganicBuyers,omitempty"`
	NumNetBuyers      *uint64  `json:"numNetBuyers,omitempty"`
}

// FirstPool is the pool a token first traded in
type FirstPool struct {
	ID        string `json:"id"`
	CreatedAt string `json:"createdAt"`
}

// Audit holds the automated risk checks for a mint
type Audit struct {
	IsSus                   *bool    `json:"isSus,omitempty"`
	MintAuthorityDisabled   *bool    `json:"mintAuthorityDisabled,omitempty"`
	FreezeAuthorityDisabled *bool    `json:"freezeAuthorityDisabled,omitempty"`
	TopHoldersPercentage    *float64 `json:"topHoldersPercentage,omitempty"`
	DevBalancePercentage    *float64 `json:"devBalancePercentage,omitempty"`
	DevMigrations           *uint64  `json:"devMigrations,omitempty"`
}

// TokenInfo is the token record returned by the v2 token and Ultra search endpoints
type TokenInfo struct {
	ID                string      `json:"id"`
	Name              string      `json:"name"`
	Symbol            string      `json:"symbol"`
	Icon              string      `json:"icon,omitempty"`
	Decimals          uint8       `json:"decimals"`
	Twitter           string      `json:"twitter,omitempty"`
	Telegram          string      `json:"telegram,omitempty"`
	Website           string      `json:"website,omitempty"`
	Dev               string      `json:"dev,omitempty"`
	CircSupply        float64     `json:"circSupply"`
	TotalSupply       float64     `json:"totalSupply"`
	TokenProgram      string      `json:"tokenProgram"`
	Launchpad         string      `json:"launchpad,omitempty"`
	PartnerConfig     string      `json:"partnerConfig,omitempty"`
	GraduatedPool     string      `json:"graduatedPool,omitempty"`
	GraduatedAt       string      `json:"graduatedAt,omitempty"`
	MintAuthority     string      `json:"mintAuthority,omitempty"`
	FreezeAuthority   string      `json:"freezeAuthority,omitempty"`
	FirstPool         *FirstPool  `json:"firstPool,omitempty"`
	HolderCount       *uint64     `json:"holderCount,omitempty"`
	Audit             *Audit      `json:"audit,omitempty"`
	OrganicScore      float64     `json:"organicScore"`
	OrganicScoreLabel string      `json:"organicScoreLabel"`
	IsVerified        *bool       `json:"isVerified,omitempty"`
	Cexes             []string    `json:"cexes,omitempty"`
	Tags              []string    `json:"tags,omitempty"`
	FDV               *float64    `json:"fdv,omitempty"`
	MCap              *float64    `json:"mcap,omitempty"`
	USDPrice          *float64    `json:"usdPrice,omitempty"`
	PriceBlockID      *float64    `json:"priceBlockId,omitempty"`
	Liquidity         *float64    `json:"liquidity,omitempty"`
	Stats5m           *TokenStats `json:"stats5m,omitempty"`
	Stats1h           *TokenStats `json:"stats1h,omitempty"`
	Stats6h           *TokenStats `json:"stats6h,omitempty"`
	Stats24h          *TokenStats `json:"stats24h,omitempty"`
	CTLikes           *uint64     `json:"ctLikes,omitempty"`
	SmartCTLikes      *uint64     `json:"smartCtLikes,omitempty"`
	UpdatedAt         string      `json:"updatedAt,omitempty"`
}

// Category selects a ranked token list
type Category string

const (
	CategoryTopOrganicScore Category = "toporganicscore"
	CategoryTopTraded       Category = "toptraded"
	CategoryTopTrending     Category = "toptrending"
)

// ParseCategory validates a category path segment
func ParseCategory(s string) (Category, error) {
	switch c := Category(s); c {
	case CategoryTopOrganicScore, CategoryTopTraded, CategoryTopTrending:
		return c, nil
	}
	return "", fmt.Errorf("unknown category %q (expected toporganicscore, toptraded or toptrending)", s)
}

// Interval is the ranking window for a Category
type Interval string

const (
	Interval5m  Interval = "5m"
	Interval1h  Interval = "1h"
	Interval6h  Interval = "6h"
	Interval24h Interval = "24h"
)

// ParseInterval validates an interval path segment
func ParseInterval(s string) (Interval, error) {
	switch i := Interval(s); i {
	case Interval5m, Interval1h, Interval6h, Interval24h:
		return i, nil
	}
	return "", fmt.Errorf("unknown interval %q (expected 5m, 1h, 6h or 24h)", s)
}

// Price is a single mint's entry in the /price/v3 response
type Price struct {
	USDPrice       float64 `json:"usdPrice"`
	BlockID        uint64  `json:"blockId"`
	Decimals       uint8   `json:"decimals"`
	PriceChange24h float64 `json:"priceChange24h"`
}

// TokenPriceRequest holds the parameters of the deprecated /price/v2 endpoint
type TokenPriceRequest struct {
	IDs           []string
	VsToken       *string
	ShowExtraInfo *bool
}

// NewTokenPriceRequest creates a price request for the given mints
func NewTokenPriceRequest(ids []string) *TokenPriceRequest {
	return &TokenPriceRequest{IDs: ids}
}

// Values encodes the request as query parameters
func (r *TokenPriceRequest) Values() url.Values {
	v := url.Values{}
	v.Set("ids", strings.Join(r.IDs, ","))
	setString(v, "vsToken", r.VsToken)
	setBool(v, "showExtraInfo", r.ShowExtraInfo)
	return v
}

// TokenPrice is one mint's entry in the /price/v2 response
type TokenPrice struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Price     string          `json:"price"`
	ExtraInfo json.RawMessage `json:"extraInfo,omitempty"`
}

// TokenPriceResponse is the /price/v2 response. Unknown mints map to nil.
type TokenPriceResponse struct {
	Data      map[string]*TokenPrice `json:"data"`
	TimeTaken float64                `json:"timeTaken"`
}

// TokenInfoResponse is the v1 token record
type TokenInfoResponse struct {
	Address           string            `json:"address"`
	Name              string            `json:"name"`
	Symbol            string            `json:"symbol"`
	Decimals          int               `json:"decimals"`
	LogoURI           string            `json:"logoURI,omitempty"`
	Tags              []string          `json:"tags"`
	DailyVolume       *float64          `json:"daily_volume,omitempty"`
	CreatedAt         string            `json:"created_at"`
	FreezeAuthority   string            `json:"freeze_authority,omitempty"`
	MintAuthority     string            `json:"mint_authority,omitempty"`
	PermanentDelegate string            `json:"permanent_delegate,omitempty"`
	MintedAt          string            `json:"minted_at,omitempty"`
	Extensions        map[string]string `json:"extensions,omitempty"`
}

// NewToken is an entry of the v1 new-tokens listing
type NewToken struct {
	Mint              string   `json:"mint"`
	CreatedAt         string   `json:"created_at"`
	MetadataUpdatedAt uint64   `json:"metadata_updated_at"`
	Name              string   `json:"name"`
	Symbol            string   `json:"symbol"`
	Decimals          uint32   `json:"decimals"`
	LogoURI           string   `json:"logo_uri,omitempty"`
	KnownMarkets      []string `json:"known_markets"`
	MintAuthority     string   `json:"mint_authority,omitempty"`
	FreezeAuthority   string   `json:"freeze_authority,omitempty"`
}
