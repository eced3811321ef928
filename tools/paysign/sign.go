package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/payment-service/signature"
)

func signCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sign [order_id] [payment_id]",
		Short: "Print the checkout signature for an order/payment pair",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := secretFlag(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), signature.Sign(args[0], args[1], secret))
			return nil
		},
	}
}
