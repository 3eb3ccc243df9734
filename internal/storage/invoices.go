package storage

import (
	"sort"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/handsfree8/invoicemaker/internal/logger"
	"github.com/handsfree8/invoicemaker/pkg/models"
)

const (
	invoicesKey  = "savedInvoices"
	saveCountKey = "invoiceSaveCount"
)

// InvoiceStorageConfig configures the invoice collection.
type InvoiceStorageConfig struct {
	// BackupInterval is how many saves pass between automatic-backup
	// signals. Zero or negative falls back to the default of 5.
	BackupInterval int
}

// DefaultInvoiceStorageConfig returns the standard configuration.
func DefaultInvoiceStorageConfig() InvoiceStorageConfig {
	return InvoiceStorageConfig{BackupInterval: 5}
}

// InvoiceStorage holds the invoice collection in memory and mirrors every
// mutation to the durable store as a whole-collection JSON blob.
type InvoiceStorage struct {
	store    Store
	interval int
	log      zerolog.Logger
	invoices []models.Invoice
}

// NewInvoiceStorage loads the persisted collection and returns the storage.
// A corrupted blob is discarded and the collection starts empty.
func NewInvoiceStorage(store Store, cfg InvoiceStorageConfig) *InvoiceStorage {
	if cfg.BackupInterval <= 0 {
		cfg.BackupInterval = DefaultInvoiceStorageConfig().BackupInterval
	}
	s := &InvoiceStorage{
		store:    store,
		interval: cfg.BackupInterval,
		log:      logger.WithComponent("invoice-storage"),
	}
	s.invoices = loadCollection[models.Invoice](store, invoicesKey, s.log)
	return s
}

// Save upserts an invoice: an existing invoice with the same identity is
// replaced in place, otherwise the invoice is appended. The whole collection
// is re-persisted before the in-memory state changes, so a persistence
// failure leaves the collection untouched.
//
// The returned flag signals that an automatic backup is due. The signal is
// advisory; creating the backup artifact is the caller's concern.
func (s *InvoiceStorage) Save(inv models.Invoice) (backupDue bool, err error) {
	next := make([]models.Invoice, len(s.invoices))
	copy(next, s.invoices)

	replaced := false
	for i := range next {
		if next[i].ID == inv.ID {
			next[i] = inv
			replaced = true
			break
		}
	}
	if !replaced {
		next = append(next, inv)
	}

	if err := persistCollection(s.store, invoicesKey, next); err != nil {
		s.log.Error().Err(err).Str("invoice", inv.Number).Msg("Failed to persist invoices")
		return false, err
	}
	s.invoices = next

	s.log.Debug().
		Str("invoice", inv.Number).
		Bool("updated", replaced).
		Int("count", len(s.invoices)).
		Msg("Invoice saved")

	return s.bumpSaveCount(), nil
}

// Delete removes an invoice by identity. Deleting an absent invoice is a
// no-op, not an error.
func (s *InvoiceStorage) Delete(inv models.Invoice) error {
	return s.DeleteMany([]models.Invoice{inv})
}

// DeleteMany removes every invoice whose identity appears in the given set.
func (s *InvoiceStorage) DeleteMany(invoices []models.Invoice) error {
	ids := make(map[uuid.UUID]struct{}, len(invoices))
	for _, inv := range invoices {
		ids[inv.ID] = struct{}{}
	}

	next := make([]models.Invoice, 0, len(s.invoices))
	for _, existing := range s.invoices {
		if _, gone := ids[existing.ID]; !gone {
			next = append(next, existing)
		}
	}
	if len(next) == len(s.invoices) {
		return nil
	}

	if err := persistCollection(s.store, invoicesKey, next); err != nil {
		s.log.Error().Err(err).Msg("Failed to persist invoices after delete")
		return err
	}
	removed := len(s.invoices) - len(next)
	s.invoices = next

	s.log.Debug().Int("removed", removed).Int("count", len(s.invoices)).Msg("Invoices deleted")
	return nil
}

// Invoices returns a copy of the current collection in storage order.
func (s *InvoiceStorage) Invoices() []models.Invoice {
	out := make([]models.Invoice, len(s.invoices))
	copy(out, s.invoices)
	return out
}

// SortedByDate returns the invoices sorted most recent first.
func (s *InvoiceStorage) SortedByDate() []models.Invoice {
	out := s.Invoices()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// Count returns the number of saved invoices.
func (s *InvoiceStorage) Count() int { return len(s.invoices) }

// Find returns the invoice with the given identity.
func (s *InvoiceStorage) Find(id uuid.UUID) (models.Invoice, bool) {
	for _, inv := range s.invoices {
		if inv.ID == id {
			return inv, true
		}
	}
	return models.Invoice{}, false
}

// bumpSaveCount reads the persistent save counter, signals when the count
// lands on the backup interval, and increments it. Counter loss is
// non-fatal: a missing or unreadable counter restarts from zero.
func (s *InvoiceStorage) bumpSaveCount() bool {
	count := 0
	if data, err := s.store.Get(saveCountKey); err == nil {
		if n, convErr := strconv.Atoi(string(data)); convErr == nil {
			count = n
		}
	}

	due := count%s.interval == 0
	if err := s.store.Put(saveCountKey, []byte(strconv.Itoa(count+1))); err != nil {
		s.log.Warn().Err(err).Msg("Failed to persist save counter")
	}
	if due {
		s.log.Info().Int("save_count", count).Msg("Automatic backup due")
	}
	return due
}
