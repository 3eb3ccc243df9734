package validation

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"valid", "John Smith", true},
		{"minimum length", "Jo", true},
		{"empty", "", false},
		{"whitespace only", "   ", false},
		{"one character", "J", false},
		{"too long", strings.Repeat("a", 101), false},
		{"padded but valid", "  Jo  ", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, Name(tt.input).IsValid())
		})
	}
}

func TestPhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"empty is allowed", "", true},
		{"ten digits", "8165551234", true},
		{"formatted", "(816) 555-1234", true},
		{"dashed", "816-555-1234", true},
		{"nine digits", "816555123", false},
		{"eleven digits", "18165551234", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, Phone(tt.input).IsValid())
		})
	}
}

func TestEmail(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"empty is allowed", "", true},
		{"simple", "john.smith@email.com", true},
		{"uppercase", "S.JOHNSON@GMAIL.COM", true},
		{"subdomain", "lisa@mail.company.co", true},
		{"missing at", "lisa.company.com", false},
		{"missing tld", "lisa@company", false},
		{"one letter tld", "lisa@company.c", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, Email(tt.input).IsValid())
		})
	}
}

func TestZipCode(t *testing.T) {
	assert.True(t, ZipCode("").IsValid())
	assert.True(t, ZipCode("66213").IsValid())
	assert.True(t, ZipCode(" 66213 ").IsValid())
	assert.False(t, ZipCode("6621").IsValid())
	assert.False(t, ZipCode("66213-1234").IsValid())
}

func TestInvoiceNumber(t *testing.T) {
	assert.True(t, InvoiceNumber("INV-001").IsValid())
	assert.True(t, InvoiceNumber("001").IsValid())
	assert.False(t, InvoiceNumber("").IsValid())
	assert.False(t, InvoiceNumber("01").IsValid())
	assert.False(t, InvoiceNumber(strings.Repeat("1", 51)).IsValid())
}

func TestClientName(t *testing.T) {
	assert.True(t, ClientName("Jo").IsValid())
	assert.False(t, ClientName("").IsValid())
	assert.False(t, ClientName("J").IsValid())

	result := ClientName("")
	assert.Equal(t, "Client name is required", result.ErrorMessage())
}

func TestItemDescription(t *testing.T) {
	assert.True(t, ItemDescription("Repair").IsValid())
	assert.False(t, ItemDescription("").IsValid())
	assert.False(t, ItemDescription("ab").IsValid())
}

func TestQuantity(t *testing.T) {
	assert.True(t, Quantity(dec("1")).IsValid())
	assert.True(t, Quantity(dec("0.5")).IsValid())
	assert.True(t, Quantity(dec("10000")).IsValid())
	assert.False(t, Quantity(dec("0")).IsValid())
	assert.False(t, Quantity(dec("-1")).IsValid())
	assert.False(t, Quantity(dec("10001")).IsValid())
}

func TestUnitPrice(t *testing.T) {
	assert.True(t, UnitPrice(dec("0")).IsValid())
	assert.True(t, UnitPrice(dec("1000000")).IsValid())
	assert.False(t, UnitPrice(dec("-0.01")).IsValid())
	assert.False(t, UnitPrice(dec("1000000.01")).IsValid())
}

func TestDiscountPercentage(t *testing.T) {
	assert.True(t, DiscountPercentage(dec("0")).IsValid())
	assert.True(t, DiscountPercentage(dec("100")).IsValid())
	assert.False(t, DiscountPercentage(dec("-1")).IsValid())
	assert.False(t, DiscountPercentage(dec("100.1")).IsValid())
}

func TestUsername(t *testing.T) {
	assert.True(t, Username("admin").IsValid())
	assert.False(t, Username("").IsValid())
	assert.False(t, Username("ab").IsValid())
	assert.False(t, Username(strings.Repeat("a", 51)).IsValid())
}

func TestPassword(t *testing.T) {
	assert.True(t, Password("secret").IsValid())
	assert.False(t, Password("").IsValid())
	assert.False(t, Password("short").IsValid())
	assert.False(t, Password(strings.Repeat("a", 101)).IsValid())
}

func TestNewPassword(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"letters and digits", "password1", true},
		{"too short", "pass1", false},
		{"digits only", "12345678", false},
		{"letters only", "passwords", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, NewPassword(tt.input).IsValid())
		})
	}
}

func TestPasswordConfirmation(t *testing.T) {
	assert.True(t, PasswordConfirmation("password1", "password1").IsValid())
	assert.False(t, PasswordConfirmation("password1", "password2").IsValid())
	assert.False(t, PasswordConfirmation("password1", "Password1").IsValid())
}

func TestFormatPhoneNumber(t *testing.T) {
	assert.Equal(t, "(816) 555-1234", FormatPhoneNumber("8165551234"))
	assert.Equal(t, "(816) 555-1234", FormatPhoneNumber("816.555.1234"))
	assert.Equal(t, "555-1234", FormatPhoneNumber("555-1234"))
}

func TestCleanPhoneNumber(t *testing.T) {
	assert.Equal(t, "8165551234", CleanPhoneNumber("(816) 555-1234"))
	assert.Equal(t, "", CleanPhoneNumber("no digits"))
}
