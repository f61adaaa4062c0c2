package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"jup-swap/pkg/flow"
	"jup-swap/pkg/parser"
	"jup-swap/pkg/types"
)

var (
	recurringOrders    uint64
	recurringEvery     time.Duration
	recurringMinPrice  float64
	recurringMaxPrice  float64
	recurringStartIn   time.Duration
	recurringPrice     bool
	recurringIncrement uint64
	recurringType      string
	recurringHistory   bool
	recurringPage      uint64
)

var recurringCmd = &cobra.Command{
	Use:   "recurring",
	Short: "Create, cancel and list recurring (DCA) orders",
	Long: `Manage recurring orders through the Jupiter Recurring API.

Time based orders split the amount into equal buys at a fixed interval.
Price based orders (--price) buy to raise the position value by a fixed
USDC increment every interval.

Examples:
  jup-swap recurring create 100 USDC to SOL --orders 4 --every 24h
  jup-swap recurring create 100 USDC to SOL --orders 4 --every 24h --max-price 250
  jup-swap recurring create 500 USDC to JUP --price --increment 50 --every 24h
  jup-swap recurring list
  jup-swap recurring cancel <order-key> --type time`,
}

var recurringCreateCmd = &cobra.Command{
	Use:   "create <amount> <input-token> to <output-token>",
	Short: "Open a recurring order",
	Args:  cobra.ExactArgs(4),
	Run:   runRecurringCreate,
}

var recurringCancelCmd = &cobra.Command{
	Use:   "cancel <order-key>",
	Short: "Close a recurring order and withdraw the remaining funds",
	Args:  cobra.ExactArgs(1),
	Run:   runRecurringCancel,
}

var recurringListCmd = &cobra.Command{
	Use:   "list [address]",
	Short: "List recurring orders (default: configured wallet)",
	Args:  cobra.MaximumNArgs(1),
	Run:   runRecurringList,
}

func init() {
	rootCmd.AddCommand(recurringCmd)
	recurringCmd.AddCommand(recurringCreateCmd, recurringCancelCmd, recurringListCmd)

	recurringCreateCmd.Flags().Uint64Var(&recurringOrders, "orders", 2, "Number of buys (time based)")
	recurringCreateCmd.Flags().DurationVar(&recurringEvery, "every", 24*time.Hour, "Interval between buys")
	recurringCreateCmd.Flags().Float64Var(&recurringMinPrice, "min-price", 0, "Skip buys below this price (time based)")
	recurringCreateCmd.Flags().Float64Var(&recurringMaxPrice, "max-price", 0, "Skip buys above this price (time based)")
	recurringCreateCmd.Flags().DurationVar(&recurringStartIn, "start-in", 0, "Delay the first buy")
	recurringCreateCmd.Flags().BoolVar(&recurringPrice, "price", false, "Create a price based order")
	recurringCreateCmd.Flags().Uint64Var(&recurringIncrement, "increment", 0, "USDC value increment per interval (price based)")
	recurringCancelCmd.Flags().StringVar(&recurringType, "type", string(types.RecurringTypeTime), "Order type: time or price")
	recurringListCmd.Flags().StringVar(&recurringType, "type", string(types.RecurringTypeAll), "Order type: time, price or all")
	recurringListCmd.Flags().BoolVar(&recurringHistory, "history", false, "Show closed orders")
	recurringListCmd.Flags().Uint64Var(&recurringPage, "page", 1, "Result page")
}

func runRecurringCreate(cmd *cobra.Command, args []string) {
	swapCmd, err := parser.ParseSwapCommand(strings.Join(args, " "))
	exitOnError(err)
	exitOnError(parser.ValidateSwapCommand(swapCmd))
	if recurringEvery < time.Minute {
		exitOnError(fmt.Errorf("--every must be at least one minute"))
	}

	a := newApp(cmd)
	ctx := cmd.Context()
	runner := a.runner()

	var input, output *types.TokenInfo
	err = a.spin("Resolving tokens...", func() error {
		if input, err = a.findToken(ctx, swapCmd.SourceToken); err != nil {
			return err
		}
		output, err = a.findToken(ctx, swapCmd.DestToken)
		return err
	})
	exitOnError(err)

	amount, err := parser.ToBaseUnits(swapCmd.Amount, input.Decimals)
	exitOnError(err)

	interval := uint64(recurringEvery / time.Second)
	var req *types.CreateRecurringOrderRequest
	if recurringPrice {
		if recurringIncrement == 0 {
			exitOnError(fmt.Errorf("--increment is required for price based orders"))
		}
		req = types.NewPriceRecurringOrder("", input.ID, output.ID, amount, recurringIncrement, interval)
	} else {
		req = types.NewTimeRecurringOrder("", input.ID, output.ID, amount, recurringOrders, interval)
		var minPrice, maxPrice *float64
		if recurringMinPrice > 0 {
			minPrice = types.Ptr(recurringMinPrice)
		}
		if recurringMaxPrice > 0 {
			maxPrice = types.Ptr(recurringMaxPrice)
		}
		req.SetPriceRange(minPrice, maxPrice)
	}
	if recurringStartIn > 0 {
		req.SetStartAt(uint64(time.Now().Add(recurringStartIn).Unix()))
	}

	if !a.jsonOutput {
		fmt.Printf("\n  Spend:    %s %s\n", swapCmd.Amount, color.YellowString(input.Symbol))
		fmt.Printf("  Buy:      %s\n", color.YellowString(output.Symbol))
		if recurringPrice {
			fmt.Printf("  Increment: %d USDC every %s\n", recurringIncrement, recurringEvery)
		} else {
			fmt.Printf("  Schedule: %d buys, every %s\n", recurringOrders, recurringEvery)
		}
	}

	var res *flow.Result
	err = a.spin("Creating recurring order...", func() error {
		res, err = runner.Recurring(ctx, req)
		return err
	})
	finishFlow(a, res, err)
}

func runRecurringCancel(cmd *cobra.Command, args []string) {
	typ, err := types.ParseRecurringType(recurringType)
	exitOnError(err)
	if typ == types.RecurringTypeAll {
		exitOnError(fmt.Errorf("--type must be time or price"))
	}

	a := newApp(cmd)
	runner := a.runner()

	var res *flow.Result
	err = a.spin("Cancelling recurring order...", func() error {
		res, err = runner.CancelRecurring(cmd.Context(), args[0], typ)
		return err
	})
	finishFlow(a, res, err)
}

func runRecurringList(cmd *cobra.Command, args []string) {
	typ, err := types.ParseRecurringType(recurringType)
	exitOnError(err)

	a := newApp(cmd)
	address := ""
	if len(args) == 1 {
		address = args[0]
	}
	address = a.owner(address)

	status := types.OrderStatusActive
	if recurringHistory {
		status = types.OrderStatusHistory
	}
	req := types.NewGetRecurringOrders(typ, status, address)
	req.Page = recurringPage

	var orders *types.RecurringOrders
	err = a.spin("Fetching recurring orders...", func() error {
		orders, err = a.api.GetRecurringOrders(cmd.Context(), req)
		return err
	})
	exitOnError(err)

	if a.jsonOutput {
		printJSON(orders)
		return
	}

	all := append(append(append([]json.RawMessage{}, orders.Time...), orders.Price...), orders.All...)
	if len(all) == 0 {
		fmt.Printf("\nNo %s recurring orders found.\n\n", status)
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 90))
	color.Green("  %s RECURRING ORDERS (page %d of %d)", strings.ToUpper(string(status)), orders.Page, orders.TotalPages)
	fmt.Println(strings.Repeat("=", 90))
	for _, raw := range all {
		var summary struct {
			OrderKey    string `json:"orderKey"`
			InputMint   string `json:"inputMint"`
			OutputMint  string `json:"outputMint"`
			InDeposited string `json:"inDeposited"`
			InUsed      string `json:"inUsed"`
			CreatedAt   string `json:"createdAt"`
		}
		if err := json.Unmarshal(raw, &summary); err != nil {
			continue
		}
		fmt.Printf("\n  %s\n", color.CyanString(summary.OrderKey))
		fmt.Printf("    %s -> %s\n", color.HiBlackString(summary.InputMint), color.HiBlackString(summary.OutputMint))
		fmt.Printf("    Used:    %s of %s\n", summary.InUsed, summary.InDeposited)
		fmt.Printf("    Created: %s\n", summary.CreatedAt)
	}
	fmt.Printf("\nTotal: %d orders\n\n", len(all))
}
