package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/handsfree8/invoicemaker/internal/backup"
	"github.com/handsfree8/invoicemaker/internal/config"
	"github.com/handsfree8/invoicemaker/internal/storage"
)

// app bundles the storage engines and backup manager a command works with.
type app struct {
	cfg       *config.Config
	invoices  *storage.InvoiceStorage
	customers *storage.CustomerStorage
	backups   *backup.Manager
}

// openApp loads configuration, opens the local database and constructs the
// storage engines. Every data-bearing command starts here.
func openApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	store, err := storage.OpenSQLiteStore(cfg.DatabasePath())
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:       cfg,
		invoices:  storage.NewInvoiceStorage(store, storage.DefaultInvoiceStorageConfig()),
		customers: storage.NewCustomerStorage(store),
		backups:   backup.NewManager(cfg.BackupDir),
	}, nil
}

// autoBackupIfDue creates the rolling automatic backup when a save signaled
// that one is due. The signal is advisory: a failed backup is logged, never
// surfaced as a command failure.
func (a *app) autoBackupIfDue(due bool, log zerolog.Logger) {
	if !due {
		return
	}
	if _, err := a.backups.CreateAutomaticBackup(a.invoices.Invoices(), a.customers.Customers()); err != nil {
		log.Warn().Err(err).Msg("Automatic backup failed")
	}
}

// outputJSON pretty-prints v to the output file, or stdout when path is
// empty.
func outputJSON(v any, outputPath string, log zerolog.Logger) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal output to JSON")
		return fmt.Errorf("failed to create JSON output: %w", err)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, jsonData, 0o644); err != nil {
			log.Error().
				Err(err).
				Str("output_file", outputPath).
				Msg("Failed to write output file")
			return fmt.Errorf("failed to write output file: %w", err)
		}
		log.Info().
			Str("output_file", outputPath).
			Int("bytes", len(jsonData)).
			Msg("Output written to file")
		return nil
	}

	if _, err := os.Stdout.Write(jsonData); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	// Add newline for better terminal output
	fmt.Println()
	return nil
}
