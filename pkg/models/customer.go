package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// unnamedCustomer is the display fallback for customers with no name.
const unnamedCustomer = "Unnamed Customer"

// Customer is a customer record with contact details and service history.
type Customer struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	Phone           string     `json:"phone"`
	Email           string     `json:"email"`
	Address         string     `json:"address"`
	City            string     `json:"city"`
	ZipCode         string     `json:"zip_code"`
	Notes           string     `json:"notes"`
	DateAdded       time.Time  `json:"date_added"`
	LastServiceDate *time.Time `json:"last_service_date,omitempty"`
}

// NewCustomer creates a customer with a fresh identity, added now.
func NewCustomer(name string) Customer {
	return Customer{
		ID:        uuid.New(),
		Name:      name,
		DateAdded: time.Now(),
	}
}

// FullAddress joins the non-empty address components with commas.
func (c Customer) FullAddress() string {
	var parts []string
	for _, p := range []string{c.Address, c.City, c.ZipCode} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// FormattedPhone renders the phone number US-style, (XXX) XXX-XXXX, when it
// reduces to exactly 10 digits. Anything else is returned as entered.
func (c Customer) FormattedPhone() string {
	if c.Phone == "" {
		return ""
	}
	digits := digitsOnly(c.Phone)
	if len(digits) != 10 {
		return c.Phone
	}
	return "(" + digits[:3] + ") " + digits[3:6] + "-" + digits[6:]
}

// DisplayName returns the customer name, or a placeholder when empty.
func (c Customer) DisplayName() string {
	if c.Name == "" {
		return unnamedCustomer
	}
	return c.Name
}

// IsNew reports whether the customer was added within the calendar month
// containing the reference time.
func (c Customer) IsNew(at time.Time) bool {
	return c.DateAdded.Year() == at.Year() && c.DateAdded.Month() == at.Month()
}

// DaysSinceLastService returns the calendar-day delta between the last
// service date and the reference time. The second return value is false
// when the customer has never been serviced.
func (c Customer) DaysSinceLastService(at time.Time) (int, bool) {
	if c.LastServiceDate == nil {
		return 0, false
	}
	from := startOfDay(*c.LastServiceDate)
	to := startOfDay(at)
	return int(to.Sub(from).Hours() / 24), true
}

// InvoicesForCustomer returns every invoice whose client name matches the
// customer's display name, ignoring case.
//
// This is a soft, name-based join carried over from the data model: there is
// no foreign key between invoices and customers. Renaming a customer orphans
// their prior invoices, and two customers sharing a display name cannot be
// told apart. Deliberately preserved, see DESIGN.md.
func InvoicesForCustomer(c Customer, invoices []Invoice) []Invoice {
	name := c.DisplayName()
	var matched []Invoice
	for _, inv := range invoices {
		if strings.EqualFold(inv.ClientName, name) {
			matched = append(matched, inv)
		}
	}
	return matched
}

// ServiceRecord aggregates a customer's invoice history.
type ServiceRecord struct {
	CustomerID uuid.UUID
	Invoices   []Invoice
}

// ServiceHistory builds the service record for a customer from the full
// invoice collection, using the name-based join.
func ServiceHistory(c Customer, invoices []Invoice) ServiceRecord {
	return ServiceRecord{
		CustomerID: c.ID,
		Invoices:   InvoicesForCustomer(c, invoices),
	}
}

// TotalSpent sums the totals of all invoices in the record.
func (r ServiceRecord) TotalSpent() decimal.Decimal {
	sum := decimal.Zero
	for _, inv := range r.Invoices {
		sum = sum.Add(inv.Total())
	}
	return sum
}

// LastServiceDate returns the most recent invoice date, or false when the
// record is empty.
func (r ServiceRecord) LastServiceDate() (time.Time, bool) {
	var latest time.Time
	for _, inv := range r.Invoices {
		if inv.Date.After(latest) {
			latest = inv.Date
		}
	}
	return latest, !latest.IsZero()
}

// ServiceCount returns the number of invoices in the record.
func (r ServiceRecord) ServiceCount() int { return len(r.Invoices) }

// AverageInvoice returns the mean invoice total, or zero for an empty record.
func (r ServiceRecord) AverageInvoice() decimal.Decimal {
	if len(r.Invoices) == 0 {
		return decimal.Zero
	}
	return r.TotalSpent().Div(decimal.NewFromInt(int64(len(r.Invoices))))
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
