package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"jup-swap/pkg/flow"
	"jup-swap/pkg/parser"
	"jup-swap/pkg/types"
)

var (
	triggerExpires  time.Duration
	triggerSlippage uint64
	triggerHistory  bool
	triggerPage     uint64
)

var triggerCmd = &cobra.Command{
	Use:   "trigger",
	Short: "Create, cancel and list limit orders",
	Long: `Manage limit orders through the Jupiter Trigger API.

Examples:
  jup-swap trigger create 1 SOL for 250 USDC
  jup-swap trigger create 100 USDC for 1000 JUP --expires 72h
  jup-swap trigger list
  jup-swap trigger list --history
  jup-swap trigger cancel <order-key>`,
}

var triggerCreateCmd = &cobra.Command{
	Use:   "create <sell-amount> <sell-token> for <buy-amount> <buy-token>",
	Short: "Place a limit order",
	Args:  cobra.ExactArgs(5),
	Run:   runTriggerCreate,
}

var triggerCancelCmd = &cobra.Command{
	Use:   "cancel <order-key>",
	Short: "Cancel a limit order",
	Args:  cobra.ExactArgs(1),
	Run:   runTriggerCancel,
}

var triggerListCmd = &cobra.Command{
	Use:   "list [address]",
	Short: "List limit orders (default: configured wallet)",
	Args:  cobra.MaximumNArgs(1),
	Run:   runTriggerList,
}

func init() {
	rootCmd.AddCommand(triggerCmd)
	triggerCmd.AddCommand(triggerCreateCmd, triggerCancelCmd, triggerListCmd)

	triggerCreateCmd.Flags().DurationVar(&triggerExpires, "expires", 0, "Expire the order after this long (default: never)")
	triggerCreateCmd.Flags().Uint64Var(&triggerSlippage, "slippage", 0, "Slippage in basis points (0 for exact fills)")
	triggerListCmd.Flags().BoolVar(&triggerHistory, "history", false, "Show filled and cancelled orders")
	triggerListCmd.Flags().Uint64Var(&triggerPage, "page", 1, "Result page")
}

func runTriggerCreate(cmd *cobra.Command, args []string) {
	if !strings.EqualFold(args[2], "for") {
		exitOnError(fmt.Errorf("invalid order format. Expected: '<sell-amount> <sell-token> for <buy-amount> <buy-token>'"))
	}

	a := newApp(cmd)
	ctx := cmd.Context()
	runner := a.runner()

	var input, output *types.TokenInfo
	err := a.spin("Resolving tokens...", func() error {
		var err error
		if input, err = a.findToken(ctx, parser.NormalizeTokenSymbol(args[1])); err != nil {
			return err
		}
		output, err = a.findToken(ctx, parser.NormalizeTokenSymbol(args[4]))
		return err
	})
	exitOnError(err)

	making, err := parser.ToBaseUnits(args[0], input.Decimals)
	exitOnError(err)
	taking, err := parser.ToBaseUnits(args[3], output.Decimals)
	exitOnError(err)

	req := types.NewCreateTriggerOrder(input.ID, output.ID, "", "", making, taking)
	if triggerExpires > 0 {
		req.Params.ExpiredAt = types.Ptr(strconv.FormatInt(time.Now().Add(triggerExpires).Unix(), 10))
	}
	if triggerSlippage > 0 {
		req.Params.SlippageBps = types.Ptr(strconv.FormatUint(triggerSlippage, 10))
	}

	if !a.jsonOutput {
		rate, _ := parser.Rate(args[0], args[3])
		fmt.Printf("\n  Sell:   %s %s\n", args[0], color.YellowString(input.Symbol))
		fmt.Printf("  Buy:    %s %s\n", args[3], color.YellowString(output.Symbol))
		fmt.Printf("  Price:  1 %s = %s %s\n", input.Symbol, rate, output.Symbol)
		if req.Params.ExpiredAt != nil {
			fmt.Printf("  Expiry: %s\n", time.Now().Add(triggerExpires).Format("2006-01-02 15:04:05"))
		}
	}

	var res *flow.Result
	err = a.spin("Placing order...", func() error {
		res, err = runner.Trigger(ctx, req)
		return err
	})
	finishFlow(a, res, err)
}

func runTriggerCancel(cmd *cobra.Command, args []string) {
	a := newApp(cmd)
	runner := a.runner()

	var res *flow.Result
	var err error
	err = a.spin("Cancelling order...", func() error {
		res, err = runner.CancelTrigger(cmd.Context(), args[0])
		return err
	})
	finishFlow(a, res, err)
}

func runTriggerList(cmd *cobra.Command, args []string) {
	a := newApp(cmd)
	address := ""
	if len(args) == 1 {
		address = args[0]
	}
	address = a.owner(address)

	status := types.OrderStatusActive
	if triggerHistory {
		status = types.OrderStatusHistory
	}
	req := types.NewGetTriggerOrders(address, status)
	req.Page = types.Ptr(triggerPage)

	var orders *types.OrderResponse
	err := a.spin("Fetching orders...", func() error {
		var err error
		orders, err = a.api.GetTriggerOrders(cmd.Context(), req)
		return err
	})
	exitOnError(err)

	if a.jsonOutput {
		printJSON(orders)
		return
	}

	if len(orders.Orders) == 0 {
		fmt.Printf("\nNo %s orders found.\n\n", status)
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 90))
	color.Green("  %s LIMIT ORDERS (page %d of %d)", strings.ToUpper(string(status)), orders.Page, orders.TotalPages)
	fmt.Println(strings.Repeat("=", 90))
	for _, o := range orders.Orders {
		fmt.Printf("\n  %s  %s\n", color.CyanString(o.OrderKey), getColoredStatus(o.Status))
		fmt.Printf("    Selling:   %s of %s %s\n", o.RemainingMakingAmount, o.MakingAmount, color.HiBlackString(o.InputMint))
		fmt.Printf("    For:       %s %s\n", o.TakingAmount, color.HiBlackString(o.OutputMint))
		fmt.Printf("    Created:   %s\n", o.CreatedAt)
		if o.ExpiredAt != "" {
			fmt.Printf("    Expires:   %s\n", o.ExpiredAt)
		}
		if len(o.Trades) > 0 {
			fmt.Printf("    Fills:     %d\n", len(o.Trades))
		}
	}
	fmt.Printf("\nTotal: %d orders\n\n", len(orders.Orders))
}
