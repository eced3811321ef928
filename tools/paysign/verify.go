package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/payment-service/config"
	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/payment-service/models"
	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/payment-service/signature"
)

func verifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify [order_id] [payment_id]",
		Short: "Sign the pair and post it to a running payment service",
		Long: `Computes the signature for order_id|payment_id and submits it to
POST /api/verify-payment. Use --signature to send a specific (for example a
tampered) value instead of the computed one.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sig, _ := cmd.Flags().GetString("signature")
			if sig == "" {
				secret, err := secretFlag(cmd)
				if err != nil {
					return err
				}
				sig = signature.Sign(args[0], args[1], secret)
			}
			baseURL, _ := cmd.Flags().GetString("url")
			appID, _ := cmd.Flags().GetString("application-id")
			timeout, _ := cmd.Flags().GetDuration("timeout")

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			status, body, err := postVerify(ctx, http.DefaultClient, baseURL, models.VerifyPaymentRequest{
				OrderID:       args[0],
				PaymentID:     args[1],
				Signature:     sig,
				ApplicationID: appID,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d %s\n", status, body)
			if status != http.StatusOK {
				return fmt.Errorf("verification rejected with status %d", status)
			}
			return nil
		},
	}

	cmd.Flags().String("url", "http://localhost:"+config.DefaultPort, "Payment service base URL")
	cmd.Flags().String("signature", "", "Send this signature instead of computing one")
	cmd.Flags().String("application-id", "", "Application to mark paid")
	cmd.Flags().Duration("timeout", 10*time.Second, "Request timeout")
	return cmd
}

func postVerify(ctx context.Context, client *http.Client, baseURL string, req models.VerifyPaymentRequest) (int, string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return 0, "", err
	}
	endpoint := strings.TrimSuffix(baseURL, "/") + "/api/verify-payment"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(httpReq)
	if err != nil {
		return 0, "", fmt.Errorf("post %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return resp.StatusCode, "", err
	}
	return resp.StatusCode, strings.TrimSpace(string(body)), nil
}
