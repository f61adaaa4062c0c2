package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"jup-swap/pkg/types"
)

// Symbols are matched case-insensitively but mints are base58 and keep
// their case, so only the keywords are folded.
var swapPattern = regexp.MustCompile(`(?i)^(?:swap\s+)?(\d+\.?\d*)\s+([A-Za-z0-9$]+)\s+to\s+([A-Za-z0-9$]+)$`)

// ParseSwapCommand parses a natural language swap command
// Examples:
//   - "swap 1 SOL to USDC"
//   - "1.5 JUP to SOL"
//   - "100 EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v to SOL"
func ParseSwapCommand(command string) (*types.SwapCommand, error) {
	command = strings.Join(strings.Fields(command), " ")

	matches := swapPattern.FindStringSubmatch(command)
	if matches == nil {
		return nil, fmt.Errorf("invalid swap command format. Expected: 'swap <amount> <token> to <token>' (e.g., 'swap 1 SOL to USDC')")
	}

	return &types.SwapCommand{
		Amount:      matches[1],
		SourceToken: NormalizeTokenSymbol(matches[2]),
		DestToken:   NormalizeTokenSymbol(matches[3]),
	}, nil
}

// ValidateSwapCommand validates that a swap command has all required fields
func ValidateSwapCommand(cmd *types.SwapCommand) error {
	if cmd.Amount == "" {
		return fmt.Errorf("amount is required")
	}
	if cmd.SourceToken == "" {
		return fmt.Errorf("source token is required")
	}
	if cmd.DestToken == "" {
		return fmt.Errorf("destination token is required")
	}
	if strings.EqualFold(cmd.SourceToken, cmd.DestToken) {
		return fmt.Errorf("source and destination token are the same")
	}
	return nil
}

// NormalizeTokenSymbol upper-cases short symbols and maps common aliases.
// Anything long enough to be a mint address is returned unchanged.
func NormalizeTokenSymbol(symbol string) string {
	symbol = strings.TrimSpace(symbol)
	if len(symbol) >= 32 {
		return symbol
	}
	symbol = strings.ToUpper(strings.TrimPrefix(symbol, "$"))

	aliases := map[string]string{
		"WSOL":   "SOL",
		"SOLANA": "SOL",
		"USD":    "USDC",
	}

	if normalized, exists := aliases[symbol]; exists {
		return normalized
	}

	return symbol
}

// ToBaseUnits converts a decimal UI amount into raw token units. Amounts
// with more fractional digits than decimals are rejected rather than
// rounded.
func ToBaseUnits(amount string, decimals uint8) (uint64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return 0, fmt.Errorf("invalid amount '%s': %w", amount, err)
	}
	if !d.IsPositive() {
		return 0, fmt.Errorf("amount must be positive, got %s", amount)
	}

	raw := d.Shift(int32(decimals))
	if !raw.IsInteger() {
		return 0, fmt.Errorf("amount %s has more than %d decimal places", amount, decimals)
	}
	if raw.BigInt().BitLen() > 64 {
		return 0, fmt.Errorf("amount %s is too large", amount)
	}
	return raw.BigInt().Uint64(), nil
}

// FromBaseUnits formats raw token units as a decimal UI amount
func FromBaseUnits(raw string, decimals uint8) (string, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("invalid raw amount '%s': %w", raw, err)
	}
	return d.Shift(-int32(decimals)).String(), nil
}

// Rate returns how many output units one input unit buys, to 6 places
func Rate(inUI, outUI string) (string, error) {
	in, err := decimal.NewFromString(inUI)
	if err != nil {
		return "", fmt.Errorf("invalid amount '%s': %w", inUI, err)
	}
	out, err := decimal.NewFromString(outUI)
	if err != nil {
		return "", fmt.Errorf("invalid amount '%s': %w", outUI, err)
	}
	if in.IsZero() {
		return "0", nil
	}
	return out.DivRound(in, 6).String(), nil
}
