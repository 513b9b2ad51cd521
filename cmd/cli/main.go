package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pocketbank-cli",
		Short: "Pocket Bank CLI tool",
		Long:  `A command line interface for operating the Pocket Bank API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Pocket Bank API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(
		accountCmd(),
		entryCmd(),
		cdCmd(),
		loanCmd(),
		chargeCmd(),
		maintenanceCmd(),
		settingsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func accountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Account operations",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "create <child-id>",
			Short: "Open a ledger account for a child",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return call(http.MethodPost, "/api/v1/accounts", map[string]any{"child_id": args[0]})
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List all accounts",
			RunE: func(cmd *cobra.Command, args []string) error {
				return call(http.MethodGet, "/api/v1/accounts", nil)
			},
		},
		&cobra.Command{
			Use:   "get <child-id>",
			Short: "Show an account",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return call(http.MethodGet, "/api/v1/accounts/"+args[0], nil)
			},
		},
		&cobra.Command{
			Use:   "balance <child-id>",
			Short: "Show the derived balance",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return call(http.MethodGet, "/api/v1/accounts/"+args[0]+"/balance", nil)
			},
		},
		&cobra.Command{
			Use:   "freeze <child-id>",
			Short: "Freeze an account",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return call(http.MethodPut, "/api/v1/accounts/"+args[0]+"/frozen", map[string]any{"frozen": true})
			},
		},
		&cobra.Command{
			Use:   "unfreeze <child-id>",
			Short: "Unfreeze an account",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return call(http.MethodPut, "/api/v1/accounts/"+args[0]+"/frozen", map[string]any{"frozen": false})
			},
		},
	)

	return cmd
}

func entryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entry",
		Short: "Ledger entry operations",
	}

	var memo, initiatedBy string

	deposit := &cobra.Command{
		Use:   "deposit <child-id> <amount>",
		Short: "Credit a child's ledger",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return postEntry(args[0], "credit", args[1], memo, initiatedBy)
		},
	}

	withdraw := &cobra.Command{
		Use:   "withdraw <child-id> <amount>",
		Short: "Debit a child's ledger",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return postEntry(args[0], "debit", args[1], memo, initiatedBy)
		},
	}

	for _, c := range []*cobra.Command{deposit, withdraw} {
		c.Flags().StringVar(&memo, "memo", "", "Entry memo")
		c.Flags().StringVar(&initiatedBy, "by", "parent", "Who initiated the entry (parent or child)")
	}

	list := &cobra.Command{
		Use:   "list <child-id>",
		Short: "List a child's ledger, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodGet, "/api/v1/accounts/"+args[0]+"/entries", nil)
		},
	}

	cmd.AddCommand(deposit, withdraw, list)

	return cmd
}

func postEntry(childID, kind, amount, memo, initiatedBy string) error {
	return call(http.MethodPost, "/api/v1/accounts/"+childID+"/entries", map[string]any{
		"kind":         kind,
		"amount":       amount,
		"memo":         memo,
		"initiated_by": initiatedBy,
	})
}

func cdCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cd",
		Short: "Certificate of deposit operations",
	}

	var rate string
	var termDays int

	offer := &cobra.Command{
		Use:   "offer <child-id> <parent-id> <amount>",
		Short: "Offer a certificate to a child",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodPost, "/api/v1/cds", map[string]any{
				"child_id":      args[0],
				"parent_id":     args[1],
				"amount":        args[2],
				"interest_rate": rate,
				"term_days":     termDays,
			})
		},
	}
	offer.Flags().StringVar(&rate, "rate", "0.05", "Full-term interest rate")
	offer.Flags().IntVar(&termDays, "term", 30, "Term in days")

	cmd.AddCommand(
		offer,
		transitionCommand("accept <cd-id>", "Accept an offered certificate", "/api/v1/cds/%s/accept"),
		transitionCommand("reject <cd-id>", "Reject an offered certificate", "/api/v1/cds/%s/reject"),
		transitionCommand("redeem <cd-id>", "Redeem an accepted certificate", "/api/v1/cds/%s/redeem"),
		&cobra.Command{
			Use:   "list <child-id>",
			Short: "List a child's certificates",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return call(http.MethodGet, "/api/v1/accounts/"+args[0]+"/cds", nil)
			},
		},
	)

	return cmd
}

func loanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loan",
		Short: "Loan operations",
	}

	var rate string

	request := &cobra.Command{
		Use:   "request <child-id> <amount>",
		Short: "Request a loan for a child",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodPost, "/api/v1/loans", map[string]any{
				"child_id":      args[0],
				"amount":        args[1],
				"interest_rate": rate,
			})
		},
	}
	request.Flags().StringVar(&rate, "rate", "0.01", "Daily interest rate")

	pay := &cobra.Command{
		Use:   "pay <loan-id> <amount>",
		Short: "Record a repayment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodPost, "/api/v1/loans/"+args[0]+"/payments", map[string]any{"amount": args[1]})
		},
	}

	cmd.AddCommand(
		request,
		pay,
		transitionCommand("approve <loan-id>", "Approve a requested loan", "/api/v1/loans/%s/approve"),
		transitionCommand("deny <loan-id>", "Deny a requested loan", "/api/v1/loans/%s/deny"),
		transitionCommand("decline <loan-id>", "Decline an approved loan", "/api/v1/loans/%s/decline"),
		transitionCommand("activate <loan-id>", "Activate and disburse an approved loan", "/api/v1/loans/%s/activate"),
		transitionCommand("close <loan-id>", "Close a loan", "/api/v1/loans/%s/close"),
		&cobra.Command{
			Use:   "list <child-id>",
			Short: "List a child's loans",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return call(http.MethodGet, "/api/v1/accounts/"+args[0]+"/loans", nil)
			},
		},
	)

	return cmd
}

func chargeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "charge",
		Short: "Recurring charge operations",
	}

	var kind, memo string
	var interval int

	create := &cobra.Command{
		Use:   "create <child-id> <amount>",
		Short: "Register a recurring charge",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodPost, "/api/v1/charges", map[string]any{
				"child_id":      args[0],
				"amount":        args[1],
				"kind":          kind,
				"memo":          memo,
				"interval_days": interval,
			})
		},
	}
	create.Flags().StringVar(&kind, "kind", "credit", "Entry kind (credit for allowance, debit for dues)")
	create.Flags().StringVar(&memo, "memo", "", "Charge memo")
	create.Flags().IntVar(&interval, "interval", 7, "Days between postings")

	cmd.AddCommand(
		create,
		&cobra.Command{
			Use:   "list <child-id>",
			Short: "List a child's recurring charges",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return call(http.MethodGet, "/api/v1/accounts/"+args[0]+"/charges", nil)
			},
		},
		&cobra.Command{
			Use:   "pause <charge-id>",
			Short: "Pause a recurring charge",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return call(http.MethodPut, "/api/v1/charges/"+args[0]+"/active", map[string]any{"active": false})
			},
		},
		&cobra.Command{
			Use:   "resume <charge-id>",
			Short: "Resume a paused charge",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return call(http.MethodPut, "/api/v1/charges/"+args[0]+"/active", map[string]any{"active": true})
			},
		},
		&cobra.Command{
			Use:   "delete <charge-id>",
			Short: "Delete a recurring charge",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return call(http.MethodDelete, "/api/v1/charges/"+args[0], nil)
			},
		},
	)

	return cmd
}

func maintenanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "maintenance",
		Short: "Maintenance operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Run the daily maintenance sweep now",
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodPost, "/api/v1/maintenance/run", nil)
		},
	})

	return cmd
}

func settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Settings operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Show the site-wide settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodGet, "/api/v1/settings", nil)
		},
	})

	return cmd
}

// transitionCommand builds a one-argument command that POSTs to a
// path template like "/api/v1/loans/%s/approve".
func transitionCommand(use, short, pathTemplate string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodPost, fmt.Sprintf(pathTemplate, args[0]), nil)
		},
	}
}

// call performs one API request and pretty-prints the JSON response.
func call(method, path string, payload any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, strings.TrimSuffix(baseURL, "/")+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("request failed (status %d): %s", resp.StatusCode, respBody)
	}

	if len(respBody) > 0 {
		printJSON(json.RawMessage(respBody))
	}

	return nil
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Println(v)
		return
	}
	fmt.Println(string(out))
}
