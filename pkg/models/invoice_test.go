package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestLineTotal(t *testing.T) {
	tests := []struct {
		name     string
		quantity string
		price    string
		want     string
	}{
		{"simple", "2", "10", "20"},
		{"fractional quantity", "1.5", "80", "120"},
		{"zero quantity", "0", "100", "0"},
		{"negative quantity clamped", "-3", "100", "0"},
		{"negative price clamped", "3", "-100", "0"},
		{"both negative", "-3", "-100", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := NewLineItem("Service call", dec(tt.quantity), dec(tt.price))
			assert.True(t, item.LineTotal().Equal(dec(tt.want)),
				"got %s, want %s", item.LineTotal(), tt.want)
		})
	}
}

func TestInvoiceTotals(t *testing.T) {
	inv := NewInvoice("INV-001")
	inv.Items = []LineItem{
		NewLineItem("Diagnosis", dec("1"), dec("79")),
		NewLineItem("Repair", dec("1"), dec("180")),
	}
	inv.TaxRate = dec("0.085")

	assert.True(t, inv.SubTotal().Equal(dec("259")))
	assert.True(t, inv.Discounted().Equal(dec("259")))
	assert.True(t, inv.Tax().Equal(dec("22.015")))
	assert.True(t, inv.Total().Equal(dec("281.015")), "got %s", inv.Total())
	assert.True(t, inv.HasItems())
	assert.True(t, inv.HasTax())
	assert.False(t, inv.HasDiscount())
}

func TestInvoiceDiscountNeverNegative(t *testing.T) {
	inv := NewInvoice("INV-002")
	inv.Items = []LineItem{NewLineItem("Filter swap", dec("1"), dec("50"))}

	// Discount larger than the subtotal clamps to zero.
	inv.Discount = dec("80")
	assert.True(t, inv.Discounted().IsZero())
	assert.True(t, inv.Total().IsZero())

	// Negative discount is ignored.
	inv.Discount = dec("-25")
	assert.True(t, inv.Discounted().Equal(dec("50")))
	assert.False(t, inv.HasDiscount())
}

func TestInvoiceNegativeTaxRateIgnored(t *testing.T) {
	inv := NewInvoice("INV-003")
	inv.Items = []LineItem{NewLineItem("Tune up", dec("1"), dec("100"))}
	inv.TaxRate = dec("-0.5")

	assert.True(t, inv.Tax().IsZero())
	assert.True(t, inv.Total().Equal(dec("100")))
	assert.False(t, inv.HasTax())
}

func TestEmptyInvoiceTotalsZero(t *testing.T) {
	inv := NewInvoice("INV-004")
	assert.False(t, inv.HasItems())
	assert.True(t, inv.SubTotal().IsZero())
	assert.True(t, inv.Total().IsZero())
}

func TestInvoiceJSONRoundTrip(t *testing.T) {
	method := PaymentZelle
	terms := "Net 30"
	inv := NewInvoice("INV-005")
	inv.ClientName = "Sarah Johnson"
	inv.Items = []LineItem{NewLineItem("Annual maintenance", dec("2"), dec("89.50"))}
	inv.Discount = dec("10")
	inv.TaxRate = dec("0.085")
	inv.Notes = "Second unit next visit"
	inv.PaymentMethod = &method
	inv.Terms = &terms

	data, err := json.Marshal(inv)
	require.NoError(t, err)

	var decoded Invoice
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, inv.ID, decoded.ID)
	assert.Equal(t, inv.Number, decoded.Number)
	assert.Equal(t, inv.ClientName, decoded.ClientName)
	require.Len(t, decoded.Items, 1)
	assert.True(t, decoded.Items[0].Quantity.Equal(dec("2")))
	require.NotNil(t, decoded.PaymentMethod)
	assert.Equal(t, PaymentZelle, *decoded.PaymentMethod)
	require.NotNil(t, decoded.Terms)
	assert.Equal(t, "Net 30", *decoded.Terms)
	assert.True(t, decoded.Total().Equal(inv.Total()))
}

func TestParsePaymentMethod(t *testing.T) {
	method, ok := ParsePaymentMethod("zelle")
	assert.True(t, ok)
	assert.Equal(t, PaymentZelle, method)

	method, ok = ParsePaymentMethod("Cash")
	assert.True(t, ok)
	assert.Equal(t, PaymentCash, method)

	_, ok = ParsePaymentMethod("bitcoin")
	assert.False(t, ok)
}

func TestGenerateInvoiceNumberShape(t *testing.T) {
	inv := NewInvoiceForCustomer(Customer{Name: "Mike Davis"})
	assert.Equal(t, "Mike Davis", inv.ClientName)
	assert.True(t, inv.TaxRate.Equal(dec("0.085")))
	assert.Regexp(t, `^INV-\d{8}-\d{4}$`, inv.Number)
	require.NotNil(t, inv.PaymentMethod)
	assert.Equal(t, PaymentCash, *inv.PaymentMethod)
}
