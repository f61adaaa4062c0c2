package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"jup-swap/config"
	"jup-swap/pkg/txsign"
)

var signSend bool

var signCmd = &cobra.Command{
	Use:   "sign [base64-transaction]",
	Short: "Sign a base64 transaction with the configured wallet",
	Long: `Sign a base64 wire transaction, such as the one returned by any Jupiter
order endpoint, and print the signed transaction.

The signature is written to slot 0, the fee payer. Reads the transaction from
stdin when no argument is given.

Examples:
  jup-swap sign AQAAAA...
  cat tx.b64 | jup-swap sign
  jup-swap sign AQAAAA... --send`,
	Args: cobra.MaximumNArgs(1),
	Run:  runSign,
}

func init() {
	rootCmd.AddCommand(signCmd)

	signCmd.Flags().BoolVar(&signSend, "send", false, "Submit the signed transaction through the RPC node")
}

func runSign(cmd *cobra.Command, args []string) {
	a := newApp(cmd)

	var envelope string
	if len(args) == 1 {
		envelope = args[0]
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			printError(fmt.Errorf("failed to read stdin: %w", err))
			os.Exit(1)
		}
		envelope = strings.TrimSpace(string(data))
	}

	key, err := config.SigningKey(a.cfg)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	signed, err := txsign.Sign(envelope, key)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	var signature string
	if signSend {
		err = a.spin("Submitting transaction...", func() error {
			signature, err = a.chain.SendEnvelope(cmd.Context(), signed)
			return err
		})
		if err != nil {
			printError(err)
			os.Exit(1)
		}
	}

	if a.jsonOutput {
		printJSON(map[string]string{
			"signed_transaction": signed,
			"signature":          signature,
		})
		return
	}

	fmt.Println(signed)
	if signature != "" {
		color.Green("\n✓ Transaction submitted")
		fmt.Printf("  Signature: %s\n", color.CyanString(signature))
	}
}
