package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jup-swap/pkg/flow"
	"jup-swap/pkg/parser"
	"jup-swap/pkg/types"
)

const (
	modeUltra        = "ultra"
	modeSwap         = "swap"
	modeInstructions = "instructions"
)

var (
	swapMode  string
	noConfirm bool
)

var swapCmd = &cobra.Command{
	Use:   "swap <amount> <source-token> to <dest-token>",
	Short: "Swap tokens with the configured wallet",
	Long: `Swap tokens on Solana through Jupiter, signing locally with the configured wallet.

Modes:
  ultra         Jupiter Ultra builds, lands and reports the transaction (default)
  swap          Swap API transaction, submitted through your RPC node
  instructions  Swap API instructions, compiled locally into a v0 transaction
                against your RPC node's lookup tables and submitted through it

IMPORTANT:
  - Set JUP_SWAP_PRIVATE_KEY (base58) or private_key in .jup-swap.yaml
  - The swap and instructions modes need a working rpc_url

Examples:
  jup-swap swap 1 SOL to USDC
  jup-swap swap 100 USDC to JUP --mode swap --slippage 100
  jup-swap swap 0.5 SOL to BONK --mode instructions --max-accounts 40
  jup-swap swap 1 SOL to USDC --yes`,
	Args: cobra.MinimumNArgs(4),
	Run:  runSwap,
}

func init() {
	rootCmd.AddCommand(swapCmd)

	addQuoteFlags(swapCmd)
	swapCmd.Flags().StringVarP(&swapMode, "mode", "m", modeUltra, "Execution mode: ultra, swap or instructions")
	swapCmd.Flags().BoolVarP(&noConfirm, "yes", "y", false, "Skip confirmation prompt")
}

func runSwap(cmd *cobra.Command, args []string) {
	switch swapMode {
	case modeUltra, modeSwap, modeInstructions:
	default:
		printError(fmt.Errorf("unknown mode '%s' (expected ultra, swap or instructions)", swapMode))
		os.Exit(1)
	}
	if swapMode == modeUltra && quoteExactOut {
		printError(fmt.Errorf("--exact-out is not supported in ultra mode"))
		os.Exit(1)
	}

	a := newApp(cmd)
	ctx := cmd.Context()
	runner := a.runner()

	swap, err := a.resolveSwap(ctx, args, quoteExactOut)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	// Preview
	var preview *types.QuoteDisplay
	var quoteReq *types.QuoteRequest
	var ultraReq *types.UltraOrderRequest
	if swapMode == modeUltra {
		ultraReq = types.NewUltraOrderRequest(swap.input.ID, swap.output.ID, swap.amount)
		var order *types.UltraOrderResponse
		err = a.spin("Fetching order...", func() error {
			order, err = a.api.GetUltraOrder(ctx, ultraReq)
			return err
		})
		if err == nil {
			preview = swap.display(order.InAmount, order.OutAmount, order.OtherAmountThreshold, order.PriceImpactPct, order.SlippageBps, order.RoutePlan)
			preview.RequestID = order.RequestID
		}
	} else {
		if quoteReq, err = quoteRequest(swap); err == nil {
			var quote *types.QuoteResponse
			err = a.spin("Fetching quote...", func() error {
				quote, err = a.api.GetQuote(ctx, quoteReq)
				return err
			})
			if err == nil {
				preview = swap.display(quote.InAmount, quote.OutAmount, quote.OtherAmountThreshold, quote.PriceImpactPct, quote.SlippageBps, quote.RoutePlan)
			}
		}
	}
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if !a.jsonOutput {
		displayQuote(preview)
		fmt.Printf("  Wallet: %s\n  Mode:   %s\n", color.CyanString(runner.Owner().String()), swapMode)
		if lamports, err := a.chain.Balance(ctx, runner.Owner()); err == nil {
			sol, _ := parser.FromBaseUnits(strconv.FormatUint(lamports, 10), 9)
			fmt.Printf("  SOL:    %s\n", sol)
		} else {
			a.log.Debug("failed to read wallet balance", zap.Error(err))
		}
	}

	// Ask for confirmation
	if !noConfirm && !a.jsonOutput {
		if !confirmSwap() {
			fmt.Println("\nSwap cancelled.")
			os.Exit(0)
		}
	}

	var res *flow.Result
	err = a.spin("Signing and submitting...", func() error {
		switch swapMode {
		case modeUltra:
			res, err = runner.Ultra(ctx, ultraReq)
		case modeSwap:
			res, err = runner.SwapTransaction(ctx, quoteReq)
		default:
			res, err = runner.SwapInstructions(ctx, quoteReq)
		}
		return err
	})
	finishFlow(a, res, err)
}

// finishFlow prints the outcome of a flow and exits non-zero on failure
func finishFlow(a *app, res *flow.Result, err error) {
	if res == nil && err != nil {
		printError(err)
		os.Exit(1)
	}

	if a.jsonOutput {
		printJSON(res)
	} else {
		displayResult(res)
	}
	if err != nil {
		os.Exit(1)
	}
}

func confirmSwap() bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print("\nProceed with swap? (y/N): ")

	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
