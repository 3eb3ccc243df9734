package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/handsfree8/invoicemaker/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "invoicemaker",
	Short: "Invoicemaker - invoicing and customer records for a home-services business",
	Long: `Invoicemaker manages invoices and customer records for a single-user
home-services business: create and edit invoices, track customers and their
service history, and export or restore the full data set.

Invoices and customers are kept in a local database. Backups and CSV exports
are written to the backup directory (INVOICEMAKER_BACKUP_DIR).`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Welcome to Invoicemaker!")
		fmt.Println("Use --help to see available commands and options.")
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}
