package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show transactions submitted from this machine",
	Long: `List the local journal of submitted transactions, newest first.

Use 'jup-swap status <signature> --watch' to refresh the outcome of an entry.

Examples:
  jup-swap history
  jup-swap history --limit 5
  jup-swap history --json`,
	Args: cobra.NoArgs,
	Run:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of entries to show (0 for all)")
}

func runHistory(cmd *cobra.Command, args []string) {
	a := newApp(cmd)
	store := a.journal()
	entries := store.List(historyLimit)

	if a.jsonOutput {
		printJSON(entries)
		return
	}

	if len(entries) == 0 {
		fmt.Printf("\nNo transactions recorded in %s\n\n", store.GetFilePath())
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 90))
	color.Green("  HISTORY (%d of %d)", len(entries), store.Count())
	fmt.Println(strings.Repeat("=", 90))
	for _, e := range entries {
		fmt.Printf("\n  %s  %-16s  %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.Flow, getColoredStatus(string(e.Status)))
		if e.InputMint != "" || e.OutputMint != "" {
			fmt.Printf("    %s %s -> %s %s\n", e.InAmount, color.HiBlackString(e.InputMint), e.OutAmount, color.HiBlackString(e.OutputMint))
		}
		if e.Signature != "" {
			fmt.Printf("    Signature: %s\n", color.CyanString(e.Signature))
		}
		if e.Error != "" {
			fmt.Printf("    Error:     %s\n", color.RedString(e.Error))
		}
	}
	fmt.Println()
}
