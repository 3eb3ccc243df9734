package backup

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handsfree8/invoicemaker/pkg/models"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testData() ([]models.Invoice, []models.Customer) {
	inv := models.NewInvoice("INV-001")
	inv.ClientName = "John Smith"
	inv.Date = time.Date(2026, time.May, 10, 0, 0, 0, 0, time.UTC)
	inv.Items = []models.LineItem{
		models.NewLineItem("Diagnosis", dec("1"), dec("79")),
		models.NewLineItem("Repair", dec("1"), dec("180")),
	}
	inv.TaxRate = dec("0.085")

	c := models.NewCustomer("Doe, Jane")
	c.City = "Leawood"
	c.Phone = "8165551234"

	return []models.Invoice{inv}, []models.Customer{c}
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager(t.TempDir())
	m.SetClock(func() time.Time {
		return time.Date(2026, time.June, 15, 14, 30, 5, 0, time.UTC)
	})
	return m
}

func TestExportJSONImportRoundTrip(t *testing.T) {
	m := newTestManager(t)
	invoices, customers := testData()

	path, err := m.ExportJSON(invoices, customers)
	require.NoError(t, err)
	assert.Equal(t, "backup_2026-06-15_143005.json", filepath.Base(path))

	snapshot, err := m.Import(path)
	require.NoError(t, err)
	assert.Equal(t, Version, snapshot.Version)
	require.Len(t, snapshot.Invoices, 1)
	require.Len(t, snapshot.Customers, 1)
	assert.Equal(t, invoices[0].ID, snapshot.Invoices[0].ID)
	assert.True(t, snapshot.Invoices[0].Total().Equal(dec("281.015")))
	assert.Equal(t, "Doe, Jane", snapshot.Customers[0].Name)
}

func TestExportNeverOverwritesArtifacts(t *testing.T) {
	m := newTestManager(t)
	invoices, customers := testData()

	_, err := m.ExportJSON(invoices, customers)
	require.NoError(t, err)

	// Same pinned clock, same artifact name: the second export must fail
	// rather than clobber the first.
	_, err = m.ExportJSON(invoices, customers)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExportFailed)
}

func TestExportInvoicesCSV(t *testing.T) {
	m := newTestManager(t)
	invoices, _ := testData()
	method := models.PaymentCard
	invoices[0].PaymentMethod = &method
	invoices[0].Notes = "quoted \"note\", with comma"

	path, err := m.ExportInvoicesCSV(invoices)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Invoice Number,Date,Client Name,Subtotal,Discount,Tax,Total,Payment Method,Terms,Notes", lines[0])
	assert.Contains(t, lines[1], "INV-001,5/10/2026,John Smith,259.00,0.00,22.02,281.02,Card,")
	assert.Contains(t, lines[1], `"quoted ""note"", with comma"`)
}

func TestExportCustomersCSVQuotesCommas(t *testing.T) {
	m := newTestManager(t)
	_, customers := testData()

	path, err := m.ExportCustomersCSV(customers)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Name,Phone,Email,Address,City,Zip Code,Date Added,Last Service Date,Notes", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], `"Doe, Jane",8165551234,`))
}

func TestValidateReportsMetadata(t *testing.T) {
	m := newTestManager(t)
	invoices, customers := testData()

	path, err := m.ExportJSON(invoices, customers)
	require.NoError(t, err)

	meta, err := m.Validate(path)
	require.NoError(t, err)
	assert.Equal(t, Version, meta.Version)
	assert.Equal(t, 1, meta.InvoiceCount)
	assert.Equal(t, 1, meta.CustomerCount)
}

func TestValidateRejectsGarbage(t *testing.T) {
	m := newTestManager(t)

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("this is not a backup"), 0o644))

	_, err := m.Validate(path)
	assert.ErrorIs(t, err, ErrInvalidData)

	_, err = m.Validate(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, ErrInvalidData)
}

func TestImportMissingFile(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Import(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestImportRejectsCorruptSnapshot(t *testing.T) {
	m := newTestManager(t)

	path := filepath.Join(t.TempDir(), "corrupt.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version": 7}`), 0o644))

	_, err := m.Import(path)
	assert.ErrorIs(t, err, ErrInvalidData)
}

func TestAutomaticBackupOverwrites(t *testing.T) {
	m := newTestManager(t)
	invoices, customers := testData()

	_, err := m.LatestAutomaticBackup()
	assert.ErrorIs(t, err, ErrNotFound)

	first, err := m.CreateAutomaticBackup(invoices, nil)
	require.NoError(t, err)
	second, err := m.CreateAutomaticBackup(invoices, customers)
	require.NoError(t, err)
	assert.Equal(t, first, second, "automatic backup keeps a single fixed artifact")

	snapshot, err := m.LatestAutomaticBackup()
	require.NoError(t, err)
	assert.Len(t, snapshot.Invoices, 1)
	assert.Len(t, snapshot.Customers, 1)
}
