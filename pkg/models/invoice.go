// Package models defines the core domain types for the invoicing
// application: invoices with their line items, and customers with their
// service history.
//
// All monetary values use decimal arithmetic so derived totals are exact.
// The derivation rules clamp negative inputs to zero: a line item, a
// discount, or a tax rate can never push an amount below zero.
package models

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod identifies how an invoice was (or will be) paid.
type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "Cash"
	PaymentCard  PaymentMethod = "Card"
	PaymentCheck PaymentMethod = "Check"
	PaymentZelle PaymentMethod = "Zelle"
	PaymentOther PaymentMethod = "Other"
)

// PaymentMethods lists all supported payment methods in display order.
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{PaymentCash, PaymentCard, PaymentCheck, PaymentZelle, PaymentOther}
}

// ParsePaymentMethod matches a string against the known payment methods,
// ignoring case. The second return value reports whether it matched.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	for _, m := range PaymentMethods() {
		if strings.EqualFold(string(m), s) {
			return m, true
		}
	}
	return "", false
}

// LineItem is a single billable line on an invoice.
type LineItem struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// NewLineItem creates a line item with a fresh identity.
func NewLineItem(description string, quantity, unitPrice decimal.Decimal) LineItem {
	return LineItem{
		ID:          uuid.New(),
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
	}
}

// LineTotal returns quantity times unit price. Negative quantities or
// prices are clamped to zero so a line can never contribute negative money.
func (li LineItem) LineTotal() decimal.Decimal {
	return clampZero(li.Quantity).Mul(clampZero(li.UnitPrice))
}

// Invoice is a complete invoice with line items, a fixed-amount discount
// and a fractional tax rate (0.085 means 8.5%).
type Invoice struct {
	ID            uuid.UUID       `json:"id"`
	Number        string          `json:"number"`
	Date          time.Time       `json:"date"`
	ClientName    string          `json:"client_name"`
	Items         []LineItem      `json:"items"`
	Discount      decimal.Decimal `json:"discount"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	Notes         string          `json:"notes"`
	PaymentMethod *PaymentMethod  `json:"payment_method,omitempty"`
	Terms         *string         `json:"terms,omitempty"`
}

// NewInvoice creates an empty invoice with a fresh identity, dated now.
func NewInvoice(number string) Invoice {
	return Invoice{
		ID:     uuid.New(),
		Number: number,
		Date:   time.Now(),
		Items:  []LineItem{},
	}
}

// SubTotal is the sum of all line totals before discount and tax.
func (inv Invoice) SubTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range inv.Items {
		sum = sum.Add(item.LineTotal())
	}
	return sum
}

// Discounted is the subtotal minus the discount, never below zero.
// A negative discount is ignored.
func (inv Invoice) Discounted() decimal.Decimal {
	return clampZero(inv.SubTotal().Sub(clampZero(inv.Discount)))
}

// Tax is calculated on the discounted amount. Negative tax rates count as zero.
func (inv Invoice) Tax() decimal.Decimal {
	return inv.Discounted().Mul(clampZero(inv.TaxRate))
}

// Total is the discounted amount plus tax. Always >= 0.
func (inv Invoice) Total() decimal.Decimal {
	return inv.Discounted().Add(inv.Tax())
}

// HasItems reports whether the invoice has any line items.
func (inv Invoice) HasItems() bool { return len(inv.Items) > 0 }

// HasDiscount reports whether a positive discount is applied.
func (inv Invoice) HasDiscount() bool { return inv.Discount.IsPositive() }

// HasTax reports whether a positive tax rate is applied.
func (inv Invoice) HasTax() bool { return inv.TaxRate.IsPositive() }

// defaultTaxRate is applied to invoices prefilled for a customer.
var defaultTaxRate = decimal.RequireFromString("0.085")

// NewInvoiceForCustomer creates a new invoice prefilled with the customer's
// display name, a generated invoice number and the default tax rate.
func NewInvoiceForCustomer(c Customer) Invoice {
	inv := NewInvoice(GenerateInvoiceNumber(time.Now()))
	inv.ClientName = c.DisplayName()
	inv.TaxRate = defaultTaxRate
	inv.Notes = fmt.Sprintf("Service for %s", c.DisplayName())
	method := PaymentCash
	inv.PaymentMethod = &method
	return inv
}

// GenerateInvoiceNumber produces a business invoice number of the form
// INV-yyyymmdd-NNNN. Uniqueness is not guaranteed; the number is a
// human-facing reference, identity lives in the UUID.
func GenerateInvoiceNumber(at time.Time) string {
	return fmt.Sprintf("INV-%s-%04d", at.Format("20060102"), 1000+rand.Intn(9000))
}

// clampZero returns d, or zero when d is negative.
func clampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
