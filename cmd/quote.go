package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"jup-swap/pkg/types"
)

var (
	quoteSlippage     uint64
	quoteExactOut     bool
	quoteDirectOnly   bool
	quoteDexes        []string
	quoteExcludeDexes []string
	quoteMaxAccounts  uint64
)

var quoteCmd = &cobra.Command{
	Use:   "quote <amount> <source-token> to <dest-token>",
	Short: "Get a swap quote without trading",
	Long: `Get the best route for a swap from the Jupiter Swap API.

Tokens can be given by symbol or mint address. With --exact-out the amount is
the output you want to receive.

Examples:
  jup-swap quote 1 SOL to USDC
  jup-swap quote 100 USDC to SOL --slippage 100
  jup-swap quote 5 JUP to SOL --dexes "Meteora DLMM,Whirlpool"
  jup-swap quote 10 USDC to SOL --exact-out`,
	Args: cobra.MinimumNArgs(4),
	Run:  runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)
	addQuoteFlags(quoteCmd)
}

func addQuoteFlags(cmd *cobra.Command) {
	cmd.Flags().Uint64Var(&quoteSlippage, "slippage", 50, "Slippage tolerance in basis points")
	cmd.Flags().BoolVar(&quoteExactOut, "exact-out", false, "Treat the amount as the exact output")
	cmd.Flags().BoolVar(&quoteDirectOnly, "direct", false, "Only use single-hop routes")
	cmd.Flags().StringSliceVar(&quoteDexes, "dexes", nil, "Only route through these venues")
	cmd.Flags().StringSliceVar(&quoteExcludeDexes, "exclude-dexes", nil, "Never route through these venues")
	cmd.Flags().Uint64Var(&quoteMaxAccounts, "max-accounts", 0, "Cap the accounts a route may use")
}

// quoteRequest builds a quote request from the shared quote flags
func quoteRequest(swap *resolvedSwap) (*types.QuoteRequest, error) {
	req := types.NewQuoteRequest(swap.input.ID, swap.output.ID, swap.amount)
	req.SlippageBps = types.Ptr(quoteSlippage)
	if quoteExactOut {
		req.SwapMode = types.Ptr(types.SwapModeExactOut)
	}
	if quoteDirectOnly {
		req.OnlyDirectRoutes = types.Ptr(true)
	}
	if quoteMaxAccounts > 0 {
		req.MaxAccounts = types.Ptr(quoteMaxAccounts)
	}

	var err error
	if req.Dexes, err = parseDexes(quoteDexes); err != nil {
		return nil, err
	}
	if req.ExcludeDexes, err = parseDexes(quoteExcludeDexes); err != nil {
		return nil, err
	}
	return req, nil
}

func parseDexes(labels []string) ([]types.Dex, error) {
	dexes := make([]types.Dex, 0, len(labels))
	for _, label := range labels {
		dex, ok := types.ParseDex(label)
		if !ok {
			return nil, fmt.Errorf("unknown dex '%s' (run 'jup-swap tokens dexes' to list venues)", label)
		}
		dexes = append(dexes, dex)
	}
	return dexes, nil
}

func runQuote(cmd *cobra.Command, args []string) {
	a := newApp(cmd)
	ctx := cmd.Context()

	swap, err := a.resolveSwap(ctx, args, quoteExactOut)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	req, err := quoteRequest(swap)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	var quote *types.QuoteResponse
	err = a.spin("Fetching quote...", func() error {
		quote, err = a.api.GetQuote(ctx, req)
		return err
	})
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if a.jsonOutput {
		printJSON(quote)
		return
	}
	displayQuote(swap.display(quote.InAmount, quote.OutAmount, quote.OtherAmountThreshold, quote.PriceImpactPct, quote.SlippageBps, quote.RoutePlan))
}
