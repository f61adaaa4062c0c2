package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jup-swap/config"
	"jup-swap/pkg/chain"
	"jup-swap/pkg/client"
	"jup-swap/pkg/flow"
	"jup-swap/pkg/journal"
	"jup-swap/pkg/logger"
	"jup-swap/pkg/parser"
	"jup-swap/pkg/types"
)

var rootCmd = &cobra.Command{
	Use:   "jup-swap",
	Short: "A CLI for Solana token swaps using the Jupiter APIs",
	Long: `jup-swap quotes, signs and submits Solana token swaps through the Jupiter
Ultra, Swap, Trigger and Recurring APIs. Transactions are signed locally with
the configured wallet and never leave the machine unsigned.

Examples:
  jup-swap quote 1 SOL to USDC
  jup-swap swap 1 SOL to USDC
  jup-swap swap 100 USDC to JUP --mode instructions
  jup-swap tokens search bonk
  jup-swap status <signature> --watch`,
	Version: "0.1.0",
}

// Execute runs the root command, cancelling it on SIGINT or SIGTERM
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Add global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
}

// app bundles the collaborators every command needs
type app struct {
	cfg        *config.Config
	log        *zap.Logger
	api        *client.Client
	chain      *chain.SolanaClient
	verbose    bool
	jsonOutput bool
}

// newApp loads configuration and builds the clients. Errors are fatal.
func newApp(cmd *cobra.Command) *app {
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	logCfg := cfg.LoggerConfig()
	if verbose {
		logCfg.Level = "debug"
	}
	log, err := logger.New(logCfg)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	return &app{
		cfg: cfg,
		log: log,
		api: client.NewClient(&client.Config{
			BaseURL: cfg.BaseURL,
			APIKey:  cfg.APIKey,
			Timeout: cfg.Timeout,
			Logger:  log,
		}),
		chain: chain.NewSolanaClient(&chain.Config{
			RPCURL:        cfg.RPCURL,
			Commitment:    cfg.Commitment,
			SkipPreflight: cfg.SkipPreflight,
			Logger:        log,
		}),
		verbose:    verbose,
		jsonOutput: jsonOutput,
	}
}

// journal opens the execution journal. Errors are fatal.
func (a *app) journal() *journal.Storage {
	store, err := journal.NewStorage(a.cfg.JournalPath)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	return store
}

// runner builds a flow runner for the configured wallet. Errors are fatal.
func (a *app) runner() *flow.Runner {
	key, err := config.SigningKey(a.cfg)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	r, err := flow.NewRunner(&flow.Config{
		API:       a.api,
		Chain:     a.chain,
		Journal:   a.journal(),
		SecretKey: key,
		Logger:    a.log,
	})
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	return r
}

// owner returns addr, or the configured wallet's address when addr is empty
func (a *app) owner(addr string) string {
	if addr != "" {
		return addr
	}
	return a.runner().Owner().String()
}

// spin runs fn behind a spinner unless JSON output is requested
func (a *app) spin(message string, fn func() error) error {
	if a.jsonOutput {
		return fn()
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message
	s.Start()
	err := fn()
	s.Stop()
	return err
}

func (a *app) debugf(format string, args ...interface{}) {
	if a.verbose {
		fmt.Printf("\nDebug: "+format+"\n", args...)
	}
}

// resolvedSwap is a parsed swap command with both tokens looked up
type resolvedSwap struct {
	cmd    *types.SwapCommand
	input  *types.TokenInfo
	output *types.TokenInfo
	amount uint64
}

// resolveSwap parses "<amount> <token> to <token>" and resolves both tokens
// and the raw amount. exactOut makes the amount denominate the output token.
func (a *app) resolveSwap(ctx context.Context, args []string, exactOut bool) (*resolvedSwap, error) {
	swapCmd, err := parser.ParseSwapCommand(strings.Join(args, " "))
	if err != nil {
		return nil, err
	}
	if err := parser.ValidateSwapCommand(swapCmd); err != nil {
		return nil, err
	}

	res := &resolvedSwap{cmd: swapCmd}
	err = a.spin("Resolving tokens...", func() error {
		if res.input, err = a.findToken(ctx, swapCmd.SourceToken); err != nil {
			return err
		}
		res.output, err = a.findToken(ctx, swapCmd.DestToken)
		return err
	})
	if err != nil {
		return nil, err
	}

	decimals := res.input.Decimals
	if exactOut {
		decimals = res.output.Decimals
	}
	if res.amount, err = parser.ToBaseUnits(swapCmd.Amount, decimals); err != nil {
		return nil, err
	}

	a.debugf("resolved %s -> %s (%d decimals), %s -> %s (%d decimals), raw amount %d",
		swapCmd.SourceToken, res.input.ID, res.input.Decimals,
		swapCmd.DestToken, res.output.ID, res.output.Decimals, res.amount)
	return res, nil
}

type tokenFinder interface {
	FindToken(ctx context.Context, symbolOrMint string) (*types.TokenInfo, error)
}

type mintReader interface {
	TokenDecimals(ctx context.Context, mint solana.PublicKey) (uint8, error)
}

func (a *app) findToken(ctx context.Context, query string) (*types.TokenInfo, error) {
	return findToken(ctx, a.api, a.chain, query)
}

// findToken resolves query through the token API. Mint addresses the API
// does not index fall back to the decimals stored in the mint account.
func findToken(ctx context.Context, api tokenFinder, mints mintReader, query string) (*types.TokenInfo, error) {
	token, err := api.FindToken(ctx, query)
	if err == nil {
		return token, nil
	}

	mint, keyErr := solana.PublicKeyFromBase58(query)
	if keyErr != nil {
		return nil, err
	}
	decimals, chainErr := mints.TokenDecimals(ctx, mint)
	if chainErr != nil {
		return nil, errors.Join(err, chainErr)
	}

	id := mint.String()
	return &types.TokenInfo{
		ID:       id,
		Symbol:   id[:4] + ".." + id[len(id)-4:],
		Decimals: decimals,
	}, nil
}

// display builds a QuoteDisplay from raw in and out amounts
func (r *resolvedSwap) display(inAmount, outAmount, threshold, priceImpact string, slippageBps int, route []types.RoutePlanItem) *types.QuoteDisplay {
	in, _ := parser.FromBaseUnits(inAmount, r.input.Decimals)
	out, _ := parser.FromBaseUnits(outAmount, r.output.Decimals)
	minOut, _ := parser.FromBaseUnits(threshold, r.output.Decimals)
	rate, _ := parser.Rate(in, out)

	labels := make([]string, 0, len(route))
	for _, hop := range route {
		labels = append(labels, hop.SwapInfo.Label)
	}

	return &types.QuoteDisplay{
		SourceAmount: in,
		SourceToken:  r.input.Symbol,
		DestAmount:   out,
		DestToken:    r.output.Symbol,
		MinimumOut:   minOut,
		Rate:         rate,
		PriceImpact:  priceImpact,
		Route:        strings.Join(labels, " -> "),
		SlippageBps:  slippageBps,
	}
}

func displayQuote(q *types.QuoteDisplay) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("                     SWAP QUOTE")
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\n  From:              %s %s\n", q.SourceAmount, color.YellowString(q.SourceToken))
	fmt.Printf("  To:                ~%s %s\n", q.DestAmount, color.YellowString(q.DestToken))
	if q.MinimumOut != "" {
		fmt.Printf("  Minimum Received:  %s %s\n", q.MinimumOut, q.DestToken)
	}
	fmt.Printf("  Rate:              1 %s = %s %s\n", q.SourceToken, q.Rate, q.DestToken)
	if q.PriceImpact != "" {
		fmt.Printf("  Price Impact:      %s%%\n", q.PriceImpact)
	}
	fmt.Printf("  Slippage:          %.2f%%\n", float64(q.SlippageBps)/100)
	if q.Route != "" {
		fmt.Printf("  Route:             %s\n", color.CyanString(q.Route))
	}
	if q.RequestID != "" {
		fmt.Printf("  Request ID:        %s\n", color.HiBlackString(q.RequestID))
	}

	fmt.Println("\n" + strings.Repeat("=", 60) + "\n")
}

func displayResult(res *flow.Result) {
	fmt.Println()
	if res.Status == journal.StatusFailed {
		color.Red("✗ %s failed: %s", res.Flow, res.Error)
	} else {
		color.Green("✓ %s submitted successfully!", res.Flow)
	}
	if res.Signature != "" {
		fmt.Printf("  Signature:  %s\n", color.CyanString(res.Signature))
	}
	if res.RequestID != "" {
		fmt.Printf("  Request ID: %s\n", res.RequestID)
	}
	if res.Signature != "" {
		fmt.Println("\nYou can monitor the transaction using:")
		color.Cyan("  jup-swap status %s --watch\n", res.Signature)
	}
}

func printJSON(v interface{}) {
	jsonData, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(jsonData))
}

func printError(err error) {
	fmt.Printf("\nError: %v\n\n", err)
}

func printSuccess(message string) {
	fmt.Printf("\n%s\n\n", message)
}
