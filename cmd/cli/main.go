package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var (
	baseURL string
	timeout time.Duration
	token   string
)

// bcryptGenerate is swapped in tests.
var bcryptGenerate = bcrypt.GenerateFromPassword

func main() {
	rootCmd := &cobra.Command{
		Use:   "cashbook-cli",
		Short: "Cashbook CLI tool",
		Long:  `A command line interface for interacting with the Cashbook API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Cashbook API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("CASHBOOK_TOKEN"), "Bearer token (defaults to CASHBOOK_TOKEN)")

	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(balanceCmd())
	rootCmd.AddCommand(verificationCmd())
	rootCmd.AddCommand(saleCmd())
	rootCmd.AddCommand(paymentCmd())
	rootCmd.AddCommand(spendingCmd())
	rootCmd.AddCommand(hashPasswordCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <email> <password>",
		Short: "Authenticate and print a bearer token",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := apiRequest(http.MethodPost, "/api/login", map[string]string{
				"email":    args[0],
				"password": args[1],
			})
			if err != nil {
				return err
			}

			var result struct {
				Token string `json:"token"`
			}
			if err := json.Unmarshal(data, &result); err != nil {
				return err
			}

			fmt.Println(result.Token)
			return nil
		},
	}
}

func balanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Balance ledger operations",
	}

	var minDate, maxDate string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the per-day balance ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/balance/"
			sep := "?"
			if minDate != "" {
				path += sep + "minDate=" + minDate
				sep = "&"
			}
			if maxDate != "" {
				path += sep + "maxDate=" + maxDate
			}

			data, err := apiRequest(http.MethodGet, path, nil)
			if err != nil {
				return err
			}

			printJSON(json.RawMessage(data))
			return nil
		},
	}
	listCmd.Flags().StringVar(&minDate, "min", "", "Lower date bound (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&maxDate, "max", "", "Upper date bound (YYYY-MM-DD)")

	atCmd := &cobra.Command{
		Use:   "at <date>",
		Short: "Show the balance at the start of a day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := apiRequest(http.MethodGet, "/api/balance/"+args[0], nil)
			if err != nil {
				return err
			}

			printJSON(json.RawMessage(data))
			return nil
		},
	}

	cmd.AddCommand(listCmd)
	cmd.AddCommand(atCmd)
	return cmd
}

func verificationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verification",
		Short: "Verification operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "create <date> <amount>",
		Short: "Record a counted balance for the start of a day",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := apiRequest(http.MethodPost, "/api/balance/verification", map[string]string{
				"date":   args[0],
				"amount": args[1],
			})
			if err != nil {
				return err
			}

			printJSON(json.RawMessage(data))
			return nil
		},
	})

	return cmd
}

func saleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sale",
		Short: "Sale operations",
	}

	var cash bool
	var saleDate, note string
	addCmd := &cobra.Command{
		Use:   "add <amount>",
		Short: "Record a sale",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"amount":   args[0],
				"cash":     cash,
				"saleDate": saleDate,
				"note":     note,
			}

			data, err := apiRequest(http.MethodPost, "/api/sales/", body)
			if err != nil {
				return err
			}

			printJSON(json.RawMessage(data))
			return nil
		},
	}
	addCmd.Flags().BoolVar(&cash, "cash", true, "Sale was paid in cash")
	addCmd.Flags().StringVar(&saleDate, "date", time.Now().Format("2006-01-02"), "Sale date (YYYY-MM-DD)")
	addCmd.Flags().StringVar(&note, "note", "", "Free-form note")

	voidCmd := &cobra.Command{
		Use:   "void <id>",
		Short: "Void a sale",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := apiRequest(http.MethodDelete, "/api/sales/"+args[0], nil)
			if err != nil {
				return err
			}

			printJSON(json.RawMessage(data))
			return nil
		},
	}

	cmd.AddCommand(addCmd)
	cmd.AddCommand(voidCmd)
	return cmd
}

func paymentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payment",
		Short: "Payment operations",
	}

	var direct bool
	var counterparty string
	addCmd := &cobra.Command{
		Use:   "add <amount>",
		Short: "Record a customer payment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"amount":       args[0],
				"direct":       direct,
				"counterparty": counterparty,
			}

			data, err := apiRequest(http.MethodPost, "/api/payments/", body)
			if err != nil {
				return err
			}

			printJSON(json.RawMessage(data))
			return nil
		},
	}
	addCmd.Flags().BoolVar(&direct, "direct", true, "Payment went into the cash drawer")
	addCmd.Flags().StringVar(&counterparty, "counterparty", "", "Who paid")

	cmd.AddCommand(addCmd)
	return cmd
}

func spendingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spending",
		Short: "Spending operations",
	}

	var description string
	addCmd := &cobra.Command{
		Use:   "add <amount>",
		Short: "Record a spending",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"amount":      args[0],
				"description": description,
			}

			data, err := apiRequest(http.MethodPost, "/api/spendings/", body)
			if err != nil {
				return err
			}

			printJSON(json.RawMessage(data))
			return nil
		},
	}
	addCmd.Flags().StringVar(&description, "description", "", "What the money went to")

	voidCmd := &cobra.Command{
		Use:   "void <id>",
		Short: "Void a spending",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := apiRequest(http.MethodDelete, "/api/spendings/"+args[0], nil)
			if err != nil {
				return err
			}

			printJSON(json.RawMessage(data))
			return nil
		},
	}

	cmd.AddCommand(addCmd)
	cmd.AddCommand(voidCmd)
	return cmd
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Hash a password for the users table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := bcryptGenerate([]byte(args[0]), bcrypt.DefaultCost)
			if err != nil {
				return err
			}

			fmt.Println(string(hash))
			return nil
		},
	}
}

// apiRequest performs a request against the API and unwraps the response
// envelope, returning the raw data payload.
func apiRequest(method, path string, body any) (json.RawMessage, error) {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("unexpected response (status %d): %s", resp.StatusCode, truncate(string(raw), 200))
	}

	if !envelope.Success {
		if envelope.Error != nil {
			return nil, fmt.Errorf("%s: %s (status %d)", envelope.Error.Code, envelope.Error.Message, resp.StatusCode)
		}
		return nil, fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	return envelope.Data, nil
}

func printJSON(v any) {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("failed to render response: %v\n", err)
		return
	}
	fmt.Println(string(encoded))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
