package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/bankaccounts/internal/infrastructure/config"
	"github.com/iho/bankaccounts/internal/infrastructure/postgres"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "bankaccounts-cli",
		Short: "Bank accounts CLI tool",
		Long:  `A command line interface for the bank accounts service.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the accounts API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	// Migration commands
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migrations",
	}

	migrateUpCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return postgres.RunMigrations(cfg.DatabaseURL, "migrations")
		},
	}

	migrateDownCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back the last migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return postgres.RunMigrationsDown(cfg.DatabaseURL, "migrations")
		},
	}

	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
	rootCmd.AddCommand(migrateCmd)

	// Report command
	var (
		reportAccountID string
		reportStart     string
		reportEnd       string
	)

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Fetch an account statement report",
		Run: func(cmd *cobra.Command, args []string) {
			fetchReport(reportAccountID, reportStart, reportEnd)
		},
	}

	reportCmd.Flags().StringVar(&reportAccountID, "account", "", "Account ID (required)")
	reportCmd.Flags().StringVar(&reportStart, "start", "", "Start date (YYYY-MM-DD)")
	reportCmd.Flags().StringVar(&reportEnd, "end", "", "End date (YYYY-MM-DD)")
	reportCmd.MarkFlagRequired("account")
	rootCmd.AddCommand(reportCmd)

	// Account commands
	accountsCmd := &cobra.Command{
		Use:   "accounts",
		Short: "Account directory operations",
	}

	accountsListCmd := &cobra.Command{
		Use:   "list",
		Short: "List all accounts",
		Run: func(cmd *cobra.Command, args []string) {
			get("/api/v1/accounts")
		},
	}

	accountsGetCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Fetch one account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			get("/api/v1/accounts/" + url.PathEscape(args[0]))
		},
	}

	accountsCmd.AddCommand(accountsListCmd, accountsGetCmd)
	rootCmd.AddCommand(accountsCmd)

	// Movement commands
	var movementsAccountID string

	movementsCmd := &cobra.Command{
		Use:   "movements",
		Short: "Movement ledger operations",
	}

	movementsListCmd := &cobra.Command{
		Use:   "list",
		Short: "List movements, optionally for one account",
		Run: func(cmd *cobra.Command, args []string) {
			if movementsAccountID != "" {
				get("/api/v1/accounts/" + url.PathEscape(movementsAccountID) + "/movements")
				return
			}

			get("/api/v1/movements")
		},
	}

	movementsListCmd.Flags().StringVar(&movementsAccountID, "account", "", "Filter by account ID")
	movementsCmd.AddCommand(movementsListCmd)
	rootCmd.AddCommand(movementsCmd)

	// Health command
	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Check service health",
		Run: func(cmd *cobra.Command, args []string) {
			get("/ready")
		},
	}
	rootCmd.AddCommand(healthCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func fetchReport(accountID, start, end string) {
	params := url.Values{}
	params.Set("account_id", accountID)
	if start != "" {
		params.Set("start_date", start)
	}
	if end != "" {
		params.Set("end_date", end)
	}

	get("/api/v1/reports?" + params.Encode())
}

func get(path string) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	fmt.Println(string(body))
}
