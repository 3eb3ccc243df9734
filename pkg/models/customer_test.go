package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormattedPhone(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  string
	}{
		{"ten digits", "8165551234", "(816) 555-1234"},
		{"already formatted", "(913) 555-7890", "(913) 555-7890"},
		{"dashed", "913-555-7890", "(913) 555-7890"},
		{"too short", "55512", "55512"},
		{"with country code", "+1 816 555 1234", "+1 816 555 1234"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Customer{Phone: tt.phone}
			assert.Equal(t, tt.want, c.FormattedPhone())
		})
	}
}

func TestFullAddress(t *testing.T) {
	c := Customer{Address: "456 Maple Avenue", City: "Leawood", ZipCode: "66224"}
	assert.Equal(t, "456 Maple Avenue, Leawood, 66224", c.FullAddress())

	c.City = ""
	assert.Equal(t, "456 Maple Avenue, 66224", c.FullAddress())

	assert.Equal(t, "", Customer{}.FullAddress())
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Lisa Wilson", Customer{Name: "Lisa Wilson"}.DisplayName())
	assert.Equal(t, "Unnamed Customer", Customer{}.DisplayName())
}

func TestIsNew(t *testing.T) {
	now := time.Date(2026, time.September, 15, 12, 0, 0, 0, time.UTC)

	sameMonth := Customer{DateAdded: time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)}
	assert.True(t, sameMonth.IsNew(now))

	lastMonth := Customer{DateAdded: time.Date(2026, time.August, 31, 23, 0, 0, 0, time.UTC)}
	assert.False(t, lastMonth.IsNew(now))

	// Same month a year earlier does not count.
	lastYear := Customer{DateAdded: time.Date(2025, time.September, 15, 0, 0, 0, 0, time.UTC)}
	assert.False(t, lastYear.IsNew(now))
}

func TestDaysSinceLastService(t *testing.T) {
	now := time.Date(2026, time.September, 15, 8, 0, 0, 0, time.UTC)

	never := Customer{}
	_, ok := never.DaysSinceLastService(now)
	assert.False(t, ok)

	serviced := time.Date(2026, time.September, 1, 22, 0, 0, 0, time.UTC)
	c := Customer{LastServiceDate: &serviced}
	days, ok := c.DaysSinceLastService(now)
	require.True(t, ok)
	// Calendar-day delta, independent of the time of day.
	assert.Equal(t, 14, days)
}

func TestInvoicesForCustomerNameJoin(t *testing.T) {
	c := Customer{Name: "John Smith"}

	invoices := []Invoice{
		{Number: "INV-1", ClientName: "John Smith"},
		{Number: "INV-2", ClientName: "JOHN SMITH"},
		{Number: "INV-3", ClientName: "Sarah Johnson"},
	}

	matched := InvoicesForCustomer(c, invoices)
	require.Len(t, matched, 2)
	assert.Equal(t, "INV-1", matched[0].Number)
	assert.Equal(t, "INV-2", matched[1].Number)

	// The join is by name only: renaming the customer orphans history.
	c.Name = "John A. Smith"
	assert.Empty(t, InvoicesForCustomer(c, invoices))
}

func TestServiceHistory(t *testing.T) {
	c := Customer{Name: "John Smith"}
	first := NewInvoice("INV-1")
	first.ClientName = "John Smith"
	first.Date = time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	first.Items = []LineItem{NewLineItem("Diagnosis", dec("1"), dec("100"))}

	second := NewInvoice("INV-2")
	second.ClientName = "john smith"
	second.Date = time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	second.Items = []LineItem{NewLineItem("Repair", dec("1"), dec("200"))}

	record := ServiceHistory(c, []Invoice{first, second})
	assert.Equal(t, 2, record.ServiceCount())
	assert.True(t, record.TotalSpent().Equal(dec("300")))
	assert.True(t, record.AverageInvoice().Equal(dec("150")))

	last, ok := record.LastServiceDate()
	require.True(t, ok)
	assert.Equal(t, second.Date, last)
}

func TestServiceHistoryEmpty(t *testing.T) {
	record := ServiceHistory(Customer{Name: "Mike Davis"}, nil)
	assert.Equal(t, 0, record.ServiceCount())
	assert.True(t, record.TotalSpent().IsZero())
	assert.True(t, record.AverageInvoice().IsZero())
	_, ok := record.LastServiceDate()
	assert.False(t, ok)
}
