// Package backup serializes full snapshots and tabular exports of the
// invoice and customer collections, and restores snapshots back.
//
// Every operation is a single synchronous attempt that ends in a typed
// success or failure; retrying is the caller's responsibility. A restore
// never partially applies: either the whole snapshot decodes or nothing is
// returned.
package backup

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/handsfree8/invoicemaker/internal/logger"
	"github.com/handsfree8/invoicemaker/pkg/models"
)

// Version is the snapshot format version written to every backup.
const Version = "1.0.0"

// autoBackupName is the fixed, overwritable automatic backup artifact.
const autoBackupName = "automatic_backup.json"

// csvDateFormat renders dates in tabular exports.
const csvDateFormat = "1/2/2006"

// Snapshot is a point-in-time export of both collections plus metadata.
type Snapshot struct {
	Version    string            `json:"version"`
	ExportDate time.Time         `json:"export_date"`
	Invoices   []models.Invoice  `json:"invoices"`
	Customers  []models.Customer `json:"customers"`
}

// Metadata returns the snapshot's summary without the entity payloads.
func (s Snapshot) Metadata() Metadata {
	return Metadata{
		Version:       s.Version,
		ExportDate:    s.ExportDate,
		InvoiceCount:  len(s.Invoices),
		CustomerCount: len(s.Customers),
	}
}

// Metadata describes a snapshot artifact for pre-restore preview.
type Metadata struct {
	Version       string    `json:"version"`
	ExportDate    time.Time `json:"export_date"`
	InvoiceCount  int       `json:"invoice_count"`
	CustomerCount int       `json:"customer_count"`
}

// snapshotProbe decodes only the snapshot envelope; the entity payloads stay
// raw so Validate can count them without materializing full records.
type snapshotProbe struct {
	Version    string            `json:"version"`
	ExportDate time.Time         `json:"export_date"`
	Invoices   []json.RawMessage `json:"invoices"`
	Customers  []json.RawMessage `json:"customers"`
}

// Manager produces and consumes backup artifacts in a single directory.
type Manager struct {
	dir string
	log zerolog.Logger
	now func() time.Time
}

// NewManager creates a backup manager writing artifacts under dir.
func NewManager(dir string) *Manager {
	return &Manager{
		dir: dir,
		log: logger.WithComponent("backup"),
		now: time.Now,
	}
}

// SetClock replaces the clock used for export timestamps and artifact names.
func (m *Manager) SetClock(now func() time.Time) { m.now = now }

// ExportJSON writes a full snapshot of both collections to a uniquely
// timestamped JSON artifact and returns its path.
func (m *Manager) ExportJSON(invoices []models.Invoice, customers []models.Customer) (string, error) {
	const op = "ExportJSON"

	snapshot := m.snapshot(invoices, customers)
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", newBackupError(op, ErrExportFailed, err.Error())
	}

	path, err := m.writeArtifact("backup", "json", data)
	if err != nil {
		return "", newBackupError(op, ErrExportFailed, err.Error())
	}

	m.log.Info().
		Str("file", filepath.Base(path)).
		Int("invoices", len(invoices)).
		Int("customers", len(customers)).
		Msg("Backup exported")
	return path, nil
}

// ExportInvoicesCSV writes the invoice collection as a CSV table and returns
// the artifact path. Fields containing the delimiter, quotes or newlines are
// quote-wrapped with internal quotes doubled.
func (m *Manager) ExportInvoicesCSV(invoices []models.Invoice) (string, error) {
	const op = "ExportInvoicesCSV"

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	rows := [][]string{{
		"Invoice Number", "Date", "Client Name", "Subtotal", "Discount",
		"Tax", "Total", "Payment Method", "Terms", "Notes",
	}}
	for _, inv := range invoices {
		method := ""
		if inv.PaymentMethod != nil {
			method = string(*inv.PaymentMethod)
		}
		terms := ""
		if inv.Terms != nil {
			terms = *inv.Terms
		}
		rows = append(rows, []string{
			inv.Number,
			inv.Date.Format(csvDateFormat),
			inv.ClientName,
			inv.SubTotal().StringFixed(2),
			inv.Discount.StringFixed(2),
			inv.Tax().StringFixed(2),
			inv.Total().StringFixed(2),
			method,
			terms,
			inv.Notes,
		})
	}
	if err := w.WriteAll(rows); err != nil {
		return "", newBackupError(op, ErrExportFailed, err.Error())
	}

	path, err := m.writeArtifact("invoices", "csv", buf.Bytes())
	if err != nil {
		return "", newBackupError(op, ErrExportFailed, err.Error())
	}

	m.log.Info().Str("file", filepath.Base(path)).Int("invoices", len(invoices)).Msg("Invoices exported to CSV")
	return path, nil
}

// ExportCustomersCSV writes the customer collection as a CSV table and
// returns the artifact path.
func (m *Manager) ExportCustomersCSV(customers []models.Customer) (string, error) {
	const op = "ExportCustomersCSV"

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	rows := [][]string{{
		"Name", "Phone", "Email", "Address", "City", "Zip Code",
		"Date Added", "Last Service Date", "Notes",
	}}
	for _, c := range customers {
		lastService := ""
		if c.LastServiceDate != nil {
			lastService = c.LastServiceDate.Format(csvDateFormat)
		}
		rows = append(rows, []string{
			c.Name,
			c.Phone,
			c.Email,
			c.Address,
			c.City,
			c.ZipCode,
			c.DateAdded.Format(csvDateFormat),
			lastService,
			c.Notes,
		})
	}
	if err := w.WriteAll(rows); err != nil {
		return "", newBackupError(op, ErrExportFailed, err.Error())
	}

	path, err := m.writeArtifact("customers", "csv", buf.Bytes())
	if err != nil {
		return "", newBackupError(op, ErrExportFailed, err.Error())
	}

	m.log.Info().Str("file", filepath.Base(path)).Int("customers", len(customers)).Msg("Customers exported to CSV")
	return path, nil
}

// Validate decodes only the metadata of a snapshot artifact so the caller
// can preview it before committing to a restore. Any artifact that cannot be
// read or decoded yields ErrInvalidData.
func (m *Manager) Validate(path string) (Metadata, error) {
	const op = "Validate"

	data, err := os.ReadFile(path)
	if err != nil {
		return Metadata{}, newBackupError(op, ErrInvalidData, err.Error())
	}

	var probe snapshotProbe
	if err := json.Unmarshal(data, &probe); err != nil {
		return Metadata{}, newBackupError(op, ErrInvalidData, err.Error())
	}

	return Metadata{
		Version:       probe.Version,
		ExportDate:    probe.ExportDate,
		InvoiceCount:  len(probe.Invoices),
		CustomerCount: len(probe.Customers),
	}, nil
}

// Import decodes a full snapshot from the given artifact. The caller
// restores it by re-saving every contained entity through the storage
// engine, which makes restore a merge by identity: entities present both
// locally and in the snapshot are overwritten, entities only present
// locally are left untouched.
func (m *Manager) Import(path string) (*Snapshot, error) {
	const op = "Import"

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, newBackupError(op, ErrNotFound, path)
	}
	if err != nil {
		return nil, newBackupError(op, ErrImportFailed, err.Error())
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, newBackupError(op, ErrInvalidData, err.Error())
	}

	m.log.Info().
		Str("version", snapshot.Version).
		Int("invoices", len(snapshot.Invoices)).
		Int("customers", len(snapshot.Customers)).
		Msg("Backup imported")
	return &snapshot, nil
}

// CreateAutomaticBackup writes the rolling automatic backup, overwriting the
// previous one. A single automatic artifact exists at a time.
func (m *Manager) CreateAutomaticBackup(invoices []models.Invoice, customers []models.Customer) (string, error) {
	const op = "CreateAutomaticBackup"

	data, err := json.Marshal(m.snapshot(invoices, customers))
	if err != nil {
		return "", newBackupError(op, ErrExportFailed, err.Error())
	}

	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return "", newBackupError(op, ErrExportFailed, err.Error())
	}
	path := filepath.Join(m.dir, autoBackupName)
	if err := atomicWrite(path, data); err != nil {
		return "", newBackupError(op, ErrExportFailed, err.Error())
	}

	m.log.Info().Str("file", autoBackupName).Msg("Automatic backup created")
	return path, nil
}

// LatestAutomaticBackup reads the rolling automatic backup.
func (m *Manager) LatestAutomaticBackup() (*Snapshot, error) {
	const op = "LatestAutomaticBackup"

	path := filepath.Join(m.dir, autoBackupName)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, newBackupError(op, ErrNotFound, path)
	}
	if err != nil {
		return nil, newBackupError(op, ErrImportFailed, err.Error())
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, newBackupError(op, ErrInvalidData, err.Error())
	}
	return &snapshot, nil
}

func (m *Manager) snapshot(invoices []models.Invoice, customers []models.Customer) Snapshot {
	return Snapshot{
		Version:    Version,
		ExportDate: m.now(),
		Invoices:   invoices,
		Customers:  customers,
	}
}

// writeArtifact writes data to a uniquely timestamped file under the backup
// directory. Existing artifacts are never overwritten.
func (m *Manager) writeArtifact(prefix, ext string, data []byte) (string, error) {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s_%s.%s", prefix, m.now().Format("2006-01-02_150405"), ext)
	path := filepath.Join(m.dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}

// atomicWrite lands the file fully or leaves the previous contents intact.
func atomicWrite(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
