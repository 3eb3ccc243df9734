package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/handsfree8/invoicemaker/internal/logger"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Export, validate and restore data backups",
}

var backupExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a full JSON snapshot of invoices and customers",
	RunE:  runBackupExport,
}

var backupCSVCmd = &cobra.Command{
	Use:       "csv [invoices|customers]",
	Short:     "Export one collection as a CSV table",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"invoices", "customers"},
	RunE:      runBackupCSV,
}

var backupValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Preview a backup file's metadata without restoring it",
	Args:  cobra.ExactArgs(1),
	RunE:  runBackupValidate,
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore [file]",
	Short: "Restore invoices and customers from a backup file",
	Long: `Restore a backup by re-saving every contained invoice and customer.

Restore merges by id: entities present both locally and in the backup are
overwritten with the backup's version, entities only present locally are
kept. Nothing is wiped.`,
	Args: cobra.ExactArgs(1),
	RunE: runBackupRestore,
}

var backupAutoCmd = &cobra.Command{
	Use:   "auto",
	Short: "Write the rolling automatic backup now",
	RunE:  runBackupAuto,
}

var backupLatestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Show the metadata of the latest automatic backup",
	RunE:  runBackupLatest,
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupExportCmd, backupCSVCmd, backupValidateCmd,
		backupRestoreCmd, backupAutoCmd, backupLatestCmd)
}

func runBackupExport(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("backup-export")

	a, err := openApp()
	if err != nil {
		return err
	}

	path, err := a.backups.ExportJSON(a.invoices.Invoices(), a.customers.Customers())
	if err != nil {
		return err
	}
	log.Info().Str("file", path).Msg("Backup exported")
	fmt.Println(path)
	return nil
}

func runBackupCSV(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("backup-csv")

	a, err := openApp()
	if err != nil {
		return err
	}

	var path string
	switch args[0] {
	case "invoices":
		path, err = a.backups.ExportInvoicesCSV(a.invoices.Invoices())
	case "customers":
		path, err = a.backups.ExportCustomersCSV(a.customers.Customers())
	default:
		return fmt.Errorf("unknown collection %q (expected invoices or customers)", args[0])
	}
	if err != nil {
		return err
	}

	log.Info().Str("file", path).Msg("CSV exported")
	fmt.Println(path)
	return nil
}

func runBackupValidate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("backup-validate")

	a, err := openApp()
	if err != nil {
		return err
	}

	metadata, err := a.backups.Validate(args[0])
	if err != nil {
		return err
	}
	return outputJSON(metadata, "", log)
}

func runBackupRestore(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("backup-restore")

	a, err := openApp()
	if err != nil {
		return err
	}

	snapshot, err := a.backups.Import(args[0])
	if err != nil {
		return err
	}

	// Re-save every entity through the normal upsert path: overwrite by id,
	// leave everything else untouched.
	for _, inv := range snapshot.Invoices {
		if _, err := a.invoices.Save(inv); err != nil {
			return fmt.Errorf("restore stopped at invoice %s: %w", inv.Number, err)
		}
	}
	for _, c := range snapshot.Customers {
		if err := a.customers.Save(c); err != nil {
			return fmt.Errorf("restore stopped at customer %s: %w", c.DisplayName(), err)
		}
	}

	log.Info().
		Str("version", snapshot.Version).
		Int("invoices", len(snapshot.Invoices)).
		Int("customers", len(snapshot.Customers)).
		Msg("Backup restored")
	return outputJSON(snapshot.Metadata(), "", log)
}

func runBackupAuto(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("backup-auto")

	a, err := openApp()
	if err != nil {
		return err
	}

	path, err := a.backups.CreateAutomaticBackup(a.invoices.Invoices(), a.customers.Customers())
	if err != nil {
		return err
	}
	log.Info().Str("file", path).Msg("Automatic backup created")
	fmt.Println(path)
	return nil
}

func runBackupLatest(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("backup-latest")

	a, err := openApp()
	if err != nil {
		return err
	}

	snapshot, err := a.backups.LatestAutomaticBackup()
	if err != nil {
		return err
	}
	return outputJSON(snapshot.Metadata(), "", log)
}
