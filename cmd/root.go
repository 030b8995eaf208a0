package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kshit7897/gurukrupa-erp-kc-sub000/internal/config"
	"github.com/kshit7897/gurukrupa-erp-kc-sub000/internal/logger"
)

var (
	flagServer  string
	flagDB      string
	flagCompany string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "gurukrupa",
	Short: "GST invoicing and party ledger for a small business",
	Long: "A GST-compliant invoicing, inventory and reconciliation system backed by SQLite. " +
		"Tracks parties, invoices, payments and stock, and derives ledgers and dashboards from the source documents.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logger.Setup(cfg.GetLoggerConfig())
	},
}

func init() {
	cfg = config.Load()
	rootCmd.PersistentFlags().StringVar(&flagServer, "server", cfg.ServerURL, "Server address")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", cfg.DBPath, "SQLite database path")
	rootCmd.PersistentFlags().StringVar(&flagCompany, "company", cfg.CompanyID, "Company whose books to use")
}

func Execute() error {
	return rootCmd.Execute()
}
