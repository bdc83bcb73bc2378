// Package main is the govledger server: a governance ledger where callers
// register, submit proposals and cast one vote each.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const (
	Version = "0.1.0"
	appName = "govledger"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		envFile    string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Governance ledger server",
		Long: `govledger serves a proposal ledger over Connect RPC.

Callers register an account, then create proposals, vote once per proposal
(Approve or Reject) and, as owners, edit or close their own proposals.

Configuration comes from an optional YAML file (--config), an optional dotenv
file (--env-file) and environment variables (DB_PATH, STORE_BACKEND,
ID_POLICY, JWT_SECRET, TOKEN_TTL, LISTEN_ADDR, CACHE_SIZE, LOG_LEVEL).`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), configPath, envFile, logLevel)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.Flags().StringVar(&envFile, "env-file", "", "Dotenv file with configuration variables")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides config")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	})

	return cmd
}
