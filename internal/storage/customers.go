package storage

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/handsfree8/invoicemaker/internal/logger"
	"github.com/handsfree8/invoicemaker/pkg/models"
)

const customersKey = "savedCustomers"

// SortOption selects the ordering applied by CustomerStorage.Sorted.
type SortOption string

const (
	// SortByName orders by name, case-insensitive ascending.
	SortByName SortOption = "name"
	// SortByDateAdded orders most recently added first.
	SortByDateAdded SortOption = "added"
	// SortByLastService orders by last service date, most recent first.
	// Customers never serviced sort last.
	SortByLastService SortOption = "service"
)

// ParseSortOption matches a string against the known sort options.
func ParseSortOption(s string) (SortOption, error) {
	switch SortOption(strings.ToLower(strings.TrimSpace(s))) {
	case SortByName:
		return SortByName, nil
	case SortByDateAdded:
		return SortByDateAdded, nil
	case SortByLastService:
		return SortByLastService, nil
	}
	return "", fmt.Errorf("unknown sort option %q (expected name, added, or service)", s)
}

// CustomerStorage holds the customer collection in memory and mirrors every
// mutation to the durable store as a whole-collection JSON blob.
type CustomerStorage struct {
	store     Store
	log       zerolog.Logger
	now       func() time.Time
	customers []models.Customer
}

// NewCustomerStorage loads the persisted collection and returns the storage.
// A corrupted blob is discarded and the collection starts empty.
func NewCustomerStorage(store Store) *CustomerStorage {
	s := &CustomerStorage{
		store: store,
		log:   logger.WithComponent("customer-storage"),
		now:   time.Now,
	}
	s.customers = loadCollection[models.Customer](store, customersKey, s.log)
	return s
}

// SetClock replaces the clock used by the derived views. Tests use this to
// pin "now".
func (s *CustomerStorage) SetClock(now func() time.Time) { s.now = now }

// Save upserts a customer: an existing customer with the same identity is
// replaced in place, otherwise the customer is appended. A persistence
// failure leaves the collection untouched.
func (s *CustomerStorage) Save(c models.Customer) error {
	next := make([]models.Customer, len(s.customers))
	copy(next, s.customers)

	replaced := false
	for i := range next {
		if next[i].ID == c.ID {
			next[i] = c
			replaced = true
			break
		}
	}
	if !replaced {
		next = append(next, c)
	}

	if err := persistCollection(s.store, customersKey, next); err != nil {
		s.log.Error().Err(err).Str("customer", c.DisplayName()).Msg("Failed to persist customers")
		return err
	}
	s.customers = next

	s.log.Debug().
		Str("customer", c.DisplayName()).
		Bool("updated", replaced).
		Int("count", len(s.customers)).
		Msg("Customer saved")
	return nil
}

// Delete removes a customer by identity. Deleting an absent customer is a
// no-op, not an error.
func (s *CustomerStorage) Delete(c models.Customer) error {
	next := make([]models.Customer, 0, len(s.customers))
	for _, existing := range s.customers {
		if existing.ID != c.ID {
			next = append(next, existing)
		}
	}
	if len(next) == len(s.customers) {
		return nil
	}

	if err := persistCollection(s.store, customersKey, next); err != nil {
		s.log.Error().Err(err).Str("customer", c.DisplayName()).Msg("Failed to persist customers after delete")
		return err
	}
	s.customers = next
	return nil
}

// Customers returns a copy of the current collection in storage order.
func (s *CustomerStorage) Customers() []models.Customer {
	out := make([]models.Customer, len(s.customers))
	copy(out, s.customers)
	return out
}

// Count returns the number of saved customers.
func (s *CustomerStorage) Count() int { return len(s.customers) }

// Find returns the customer with the given identity.
func (s *CustomerStorage) Find(id uuid.UUID) (models.Customer, bool) {
	for _, c := range s.customers {
		if c.ID == id {
			return c, true
		}
	}
	return models.Customer{}, false
}

// Search filters the collection by a free-text query: case-insensitive
// substring match on name, email and city, raw substring match on the phone
// field. An empty query returns the full collection.
func (s *CustomerStorage) Search(query string) []models.Customer {
	if query == "" {
		return s.Customers()
	}

	q := strings.ToLower(query)
	var matched []models.Customer
	for _, c := range s.customers {
		if strings.Contains(strings.ToLower(c.Name), q) ||
			strings.Contains(c.Phone, query) ||
			strings.Contains(strings.ToLower(c.Email), q) ||
			strings.Contains(strings.ToLower(c.City), q) {
			matched = append(matched, c)
		}
	}
	return matched
}

// Sorted returns the collection ordered by the given option.
func (s *CustomerStorage) Sorted(option SortOption) []models.Customer {
	out := s.Customers()
	switch option {
	case SortByName:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
		})
	case SortByDateAdded:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].DateAdded.After(out[j].DateAdded)
		})
	case SortByLastService:
		sort.SliceStable(out, func(i, j int) bool {
			return lastServiceOrEarliest(out[i]).After(lastServiceOrEarliest(out[j]))
		})
	}
	return out
}

// Recent returns customers added within the last 30 days, most recent first.
func (s *CustomerStorage) Recent() []models.Customer {
	cutoff := s.now().AddDate(0, 0, -30)
	var recent []models.Customer
	for _, c := range s.customers {
		if c.DateAdded.After(cutoff) {
			recent = append(recent, c)
		}
	}
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].DateAdded.After(recent[j].DateAdded)
	})
	return recent
}

// NeedingFollowUp returns customers whose last service is older than six
// months. Customers never serviced are judged by their date added instead.
func (s *CustomerStorage) NeedingFollowUp() []models.Customer {
	cutoff := s.now().AddDate(0, -6, 0)
	var due []models.Customer
	for _, c := range s.customers {
		ref := c.DateAdded
		if c.LastServiceDate != nil {
			ref = *c.LastServiceDate
		}
		if ref.Before(cutoff) {
			due = append(due, c)
		}
	}
	return due
}

// UpdateLastServiceDate sets the last service date for the customer with the
// given identity. Unknown identities are ignored.
func (s *CustomerStorage) UpdateLastServiceDate(id uuid.UUID, date time.Time) error {
	for _, c := range s.customers {
		if c.ID == id {
			c.LastServiceDate = &date
			return s.Save(c)
		}
	}
	return nil
}

// lastServiceOrEarliest treats a customer never serviced as serviced at the
// zero time, so they sort after everyone else in descending order.
func lastServiceOrEarliest(c models.Customer) time.Time {
	if c.LastServiceDate == nil {
		return time.Time{}
	}
	return *c.LastServiceDate
}
