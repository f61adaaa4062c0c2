package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jup-swap/pkg/chain"
	"jup-swap/pkg/flow"
	"jup-swap/pkg/journal"
)

var (
	watchStatus   bool
	watchInterval time.Duration
)

var statusCmd = &cobra.Command{
	Use:   "status <signature>",
	Short: "Check the status of a submitted transaction",
	Long: `Check the confirmation status of a transaction by its signature.

With --watch the command polls until the transaction is confirmed or fails
and updates the local history with the outcome.

Examples:
  jup-swap status 5VERv8NMvzbJMEkV8xnrLkEaWRtSz9CosKDYjCJjBRnbJLgp8uirBgmQpjKhoR4tjF3ZpRzrFmBV6UjKdiSZkQUW
  jup-swap status <signature> --watch
  jup-swap status <signature> --watch --interval 5s`,
	Args: cobra.ExactArgs(1),
	Run:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVarP(&watchStatus, "watch", "w", false, "Watch status updates until confirmed")
	statusCmd.Flags().DurationVar(&watchInterval, "interval", flow.DefaultPollInterval, "Polling interval (when watching)")
}

func runStatus(cmd *cobra.Command, args []string) {
	signature := args[0]
	a := newApp(cmd)
	ctx := cmd.Context()

	if watchStatus {
		if a.jsonOutput {
			fmt.Println(`{"error": "watch mode not supported with JSON output"}`)
			os.Exit(1)
		}

		fmt.Printf("\nWatching transaction %s\n", color.CyanString(signature))
		fmt.Printf("Checking every %s at %s commitment. Press Ctrl+C to stop.\n\n", watchInterval, a.chain.Commitment())

		last := ""
		status, err := flow.WaitForConfirmation(ctx, a.chain, signature, watchInterval, func(s *chain.SignatureStatus) {
			if s.ConfirmationStatus != last {
				last = s.ConfirmationStatus
				fmt.Printf("  %s  %s\n", time.Now().Format("15:04:05"), getColoredStatus(s.ConfirmationStatus))
			}
		})
		recordOutcome(a.log, a.cfg.JournalPath, signature, err)
		if err != nil && status == nil {
			printError(err)
			os.Exit(1)
		}
		displayStatus(status, nil)
		if err != nil {
			os.Exit(1)
		}
		return
	}

	var status *chain.SignatureStatus
	var info *chain.TransactionInfo
	err := a.spin("Checking transaction status...", func() error {
		var err error
		if status, err = a.chain.SignatureStatus(ctx, signature); err != nil {
			return err
		}
		if status.Landed() {
			info, err = a.chain.TransactionInfo(ctx, signature)
			if errors.Is(err, chain.ErrNotFound) {
				err = nil
			}
		}
		return err
	})
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if a.jsonOutput {
		printJSON(map[string]interface{}{"status": status, "transaction": info})
		return
	}
	displayStatus(status, info)
}

// recordOutcome updates the history entry for signature, if there is one
func recordOutcome(log *zap.Logger, journalPath, signature string, err error) {
	var status journal.Status
	var errMsg string
	switch {
	case err == nil:
		status = journal.StatusSuccess
	case errors.Is(err, flow.ErrExecutionFailed):
		status, errMsg = journal.StatusFailed, err.Error()
	default:
		return
	}

	store, openErr := journal.NewStorage(journalPath)
	if openErr != nil {
		log.Warn("failed to open journal", zap.String("path", journalPath), zap.Error(openErr))
		return
	}
	if updateErr := store.UpdateStatus(signature, status, errMsg); updateErr != nil {
		if errors.Is(updateErr, journal.ErrNotFound) {
			log.Debug("signature not in journal", zap.String("signature", signature))
			return
		}
		log.Warn("failed to update journal entry", zap.String("signature", signature), zap.Error(updateErr))
	}
}

func displayStatus(status *chain.SignatureStatus, info *chain.TransactionInfo) {
	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                     TRANSACTION STATUS")
	fmt.Println(strings.Repeat("=", 70))

	fmt.Printf("\n  Signature:     %s\n", color.CyanString(status.Signature))
	fmt.Printf("  Status:        %s\n", getColoredStatus(status.ConfirmationStatus))
	fmt.Printf("  Slot:          %d\n", status.Slot)
	if status.Confirmations != nil {
		fmt.Printf("  Confirmations: %d\n", *status.Confirmations)
	}
	if status.Err != "" {
		fmt.Printf("  Error:         %s\n", color.RedString(status.Err))
	}

	if info != nil {
		fmt.Printf("  Fee:           %d lamports\n", info.Fee)
		if info.BlockTime != nil {
			fmt.Printf("  Block Time:    %s\n", time.Unix(*info.BlockTime, 0).Format("2006-01-02 15:04:05"))
		}
	}

	fmt.Println("\n" + strings.Repeat("=", 70) + "\n")
}

func getColoredStatus(status string) string {
	status = strings.ToUpper(status)

	switch status {
	case "FINALIZED", "CONFIRMED", "SUCCESS":
		return color.GreenString(status)
	case "PROCESSED", "SUBMITTED":
		return color.YellowString(status)
	case "FAILED":
		return color.RedString(status)
	default:
		return status
	}
}
