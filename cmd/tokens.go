package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"jup-swap/pkg/types"
)

var (
	trendingCategory string
	trendingInterval string
	trendingLimit    uint64
	filterVerified   bool
)

var tokensCmd = &cobra.Command{
	Use:     "tokens",
	Aliases: []string{"token", "ls"},
	Short:   "Look up tokens, prices, balances and risk warnings",
	Long: `Query the Jupiter token, price and Ultra APIs.

Examples:
  jup-swap tokens search bonk
  jup-swap tokens price SOL JUP
  jup-swap tokens balances
  jup-swap tokens shield <mint>
  jup-swap tokens trending --category toptraded --interval 1h
  jup-swap tokens recent
  jup-swap tokens tag verified`,
}

var tokensSearchCmd = &cobra.Command{
	Use:   "search <query>...",
	Short: "Search tokens by symbol, name or mint",
	Args:  cobra.MinimumNArgs(1),
	Run:   runTokensSearch,
}

var tokensPriceCmd = &cobra.Command{
	Use:   "price <token>...",
	Short: "Show USD prices for tokens given by symbol or mint",
	Args:  cobra.MinimumNArgs(1),
	Run:   runTokensPrice,
}

var tokensBalancesCmd = &cobra.Command{
	Use:   "balances [address]",
	Short: "Show token balances of an address (default: configured wallet)",
	Args:  cobra.MaximumNArgs(1),
	Run:   runTokensBalances,
}

var tokensShieldCmd = &cobra.Command{
	Use:   "shield <mint>...",
	Short: "Show risk warnings for mints",
	Args:  cobra.MinimumNArgs(1),
	Run:   runTokensShield,
}

var tokensTrendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "List top tokens by organic score, volume or trend",
	Args:  cobra.NoArgs,
	Run:   runTokensTrending,
}

var tokensRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List tokens whose first pool was created recently",
	Args:  cobra.NoArgs,
	Run:   runTokensRecent,
}

var tokensTagCmd = &cobra.Command{
	Use:   "tag <tag>...",
	Short: "List tokens carrying a tag (verified, lst)",
	Args:  cobra.MinimumNArgs(1),
	Run:   runTokensTag,
}

var tokensDexesCmd = &cobra.Command{
	Use:   "dexes",
	Short: "List the venues a route can be restricted to",
	Args:  cobra.NoArgs,
	Run:   runTokensDexes,
}

func init() {
	rootCmd.AddCommand(tokensCmd)
	tokensCmd.AddCommand(tokensSearchCmd, tokensPriceCmd, tokensBalancesCmd, tokensShieldCmd,
		tokensTrendingCmd, tokensRecentCmd, tokensTagCmd, tokensDexesCmd)

	tokensSearchCmd.Flags().BoolVar(&filterVerified, "verified", false, "Only show verified tokens")
	tokensTrendingCmd.Flags().StringVar(&trendingCategory, "category", string(types.CategoryTopTrending), "toporganicscore, toptraded or toptrending")
	tokensTrendingCmd.Flags().StringVar(&trendingInterval, "interval", string(types.Interval24h), "5m, 1h, 6h or 24h")
	tokensTrendingCmd.Flags().Uint64Var(&trendingLimit, "limit", 20, "Number of tokens to list")
}

func runTokensSearch(cmd *cobra.Command, args []string) {
	a := newApp(cmd)
	var tokens []types.TokenInfo
	err := a.spin("Searching tokens...", func() error {
		var err error
		tokens, err = a.api.TokenSearch(cmd.Context(), args)
		return err
	})
	exitOnError(err)

	if filterVerified {
		var temp []types.TokenInfo
		for _, token := range tokens {
			if token.IsVerified != nil && *token.IsVerified {
				temp = append(temp, token)
			}
		}
		tokens = temp
	}
	outputTokens(a, tokens, "SEARCH RESULTS")
}

func runTokensTrending(cmd *cobra.Command, args []string) {
	category, err := types.ParseCategory(trendingCategory)
	exitOnError(err)
	interval, err := types.ParseInterval(trendingInterval)
	exitOnError(err)

	a := newApp(cmd)
	var tokens []types.TokenInfo
	err = a.spin("Fetching tokens...", func() error {
		tokens, err = a.api.TokensByCategory(cmd.Context(), category, interval, &trendingLimit)
		return err
	})
	exitOnError(err)
	outputTokens(a, tokens, strings.ToUpper(string(category))+" ("+string(interval)+")")
}

func runTokensRecent(cmd *cobra.Command, args []string) {
	a := newApp(cmd)
	var tokens []types.TokenInfo
	err := a.spin("Fetching recent tokens...", func() error {
		var err error
		tokens, err = a.api.RecentTokens(cmd.Context())
		return err
	})
	exitOnError(err)
	outputTokens(a, tokens, "RECENT TOKENS")
}

func runTokensTag(cmd *cobra.Command, args []string) {
	a := newApp(cmd)
	var tokens []types.TokenInfo
	err := a.spin("Fetching tokens...", func() error {
		var err error
		tokens, err = a.api.MintsByTags(cmd.Context(), args)
		return err
	})
	exitOnError(err)
	outputTokens(a, tokens, "TAGGED: "+strings.ToUpper(strings.Join(args, ", ")))
}

func runTokensPrice(cmd *cobra.Command, args []string) {
	a := newApp(cmd)
	ctx := cmd.Context()

	var tokens []*types.TokenInfo
	var prices map[string]types.Price
	err := a.spin("Fetching prices...", func() error {
		mints := make([]string, 0, len(args))
		for _, arg := range args {
			token, err := a.findToken(ctx, arg)
			if err != nil {
				return err
			}
			tokens = append(tokens, token)
			mints = append(mints, token.ID)
		}

		var err error
		prices, err = a.api.TokensPrice(ctx, mints)
		return err
	})
	exitOnError(err)

	if a.jsonOutput {
		printJSON(prices)
		return
	}

	fmt.Println()
	for _, token := range tokens {
		price, ok := prices[token.ID]
		if !ok {
			fmt.Printf("  %-10s  %s\n", color.YellowString(token.Symbol), color.HiBlackString("no reliable price"))
			continue
		}
		change := color.GreenString("%+.2f%%", price.PriceChange24h)
		if price.PriceChange24h < 0 {
			change = color.RedString("%+.2f%%", price.PriceChange24h)
		}
		fmt.Printf("  %-10s  $%-14.6f  %s  %s\n", color.YellowString(token.Symbol), price.USDPrice, change, color.HiBlackString(token.ID))
	}
	fmt.Println()
}

func runTokensBalances(cmd *cobra.Command, args []string) {
	a := newApp(cmd)
	address := ""
	if len(args) == 1 {
		address = args[0]
	}
	address = a.owner(address)

	var balances types.TokenBalancesResponse
	err := a.spin("Fetching balances...", func() error {
		var err error
		balances, err = a.api.GetTokenBalances(cmd.Context(), address)
		return err
	})
	exitOnError(err)

	if a.jsonOutput {
		printJSON(balances)
		return
	}

	keys := make([]string, 0, len(balances))
	for k := range balances {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Println("\n" + strings.Repeat("=", 90))
	color.Green("  BALANCES OF %s", address)
	fmt.Println(strings.Repeat("=", 90))
	for _, k := range keys {
		b := balances[k]
		frozen := ""
		if b.IsFrozen {
			frozen = color.RedString(" (frozen)")
		}
		fmt.Printf("  %-46s  %20.9f%s\n", color.YellowString(k), b.UIAmount, frozen)
	}
	fmt.Printf("\nTotal: %d tokens\n\n", len(keys))
}

func runTokensShield(cmd *cobra.Command, args []string) {
	a := newApp(cmd)
	var shield *types.Shield
	err := a.spin("Fetching warnings...", func() error {
		var err error
		shield, err = a.api.Shield(cmd.Context(), args)
		return err
	})
	exitOnError(err)

	if a.jsonOutput {
		printJSON(shield)
		return
	}

	fmt.Println()
	for _, mint := range args {
		warnings := shield.Warnings[mint]
		if len(warnings) == 0 {
			fmt.Printf("  %s  %s\n", color.HiBlackString(mint), color.GreenString("no warnings"))
			continue
		}
		fmt.Printf("  %s\n", color.CyanString(mint))
		for _, w := range warnings {
			line := fmt.Sprintf("    [%s] %s: %s", strings.ToUpper(w.Severity), w.Type, w.Message)
			if strings.EqualFold(w.Severity, "critical") {
				color.Red("%s", line)
			} else {
				color.Yellow("%s", line)
			}
		}
	}
	fmt.Println()
}

func runTokensDexes(cmd *cobra.Command, args []string) {
	a := newApp(cmd)
	var labels map[string]string
	err := a.spin("Fetching venues...", func() error {
		var err error
		labels, err = a.api.ProgramIDToLabel(cmd.Context())
		return err
	})
	exitOnError(err)

	if a.jsonOutput {
		printJSON(labels)
		return
	}

	programs := make([]string, 0, len(labels))
	for program := range labels {
		programs = append(programs, program)
	}
	sort.Slice(programs, func(i, j int) bool { return labels[programs[i]] < labels[programs[j]] })

	fmt.Println()
	for _, program := range programs {
		label := labels[program]
		known := ""
		if _, ok := types.ParseDex(label); !ok {
			known = color.HiBlackString(" (not filterable)")
		}
		fmt.Printf("  %-28s  %s%s\n", color.YellowString(label), color.HiBlackString(program), known)
	}
	fmt.Printf("\nTotal: %d venues\n\n", len(programs))
}

func outputTokens(a *app, tokens []types.TokenInfo, title string) {
	if a.jsonOutput {
		printJSON(tokens)
		return
	}
	displayTokens(tokens, title)
}

func displayTokens(tokens []types.TokenInfo, title string) {
	if len(tokens) == 0 {
		fmt.Println("\nNo tokens found matching the criteria.")
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 90))
	color.Green("  %s", title)
	fmt.Println(strings.Repeat("=", 90))

	for _, token := range tokens {
		verified := " "
		if token.IsVerified != nil && *token.IsVerified {
			verified = color.GreenString("✓")
		}
		price := ""
		if token.USDPrice != nil {
			price = fmt.Sprintf("$%.6f", *token.USDPrice)
		}

		fmt.Printf("  %s %-10s  %2d decimals  %-16s  %s\n",
			verified,
			color.YellowString(token.Symbol),
			token.Decimals,
			price,
			color.HiBlackString(token.ID))
	}

	fmt.Println("\n" + strings.Repeat("=", 90))
	fmt.Printf("\nTotal: %d tokens\n\n", len(tokens))
}

func exitOnError(err error) {
	if err != nil {
		printError(err)
		os.Exit(1)
	}
}
