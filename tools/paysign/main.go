// Command paysign computes and checks Razorpay checkout signatures. It is meant
// for local testing of the verify-payment flow without a real checkout.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "paysign",
		Short:         "Sign and verify Razorpay payment callbacks",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("secret", "", "Razorpay key secret (defaults to $RAZORPAY_KEY_SECRET)")

	root.AddCommand(signCmd())
	root.AddCommand(verifyCmd())
	return root
}

func secretFlag(cmd *cobra.Command) (string, error) {
	secret, _ := cmd.Flags().GetString("secret")
	if secret == "" {
		secret = os.Getenv("RAZORPAY_KEY_SECRET")
	}
	if secret == "" {
		return "", fmt.Errorf("secret is required (--secret or RAZORPAY_KEY_SECRET)")
	}
	return secret, nil
}
