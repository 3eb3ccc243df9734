// Package validation contains the field-level rules applied to form input
// before an invoice or customer is saved.
//
// Every rule is a pure function from an input value to a Result. Rules keep
// no state and are safe to call concurrently. Failures are values, never
// panics: the caller inspects Result.IsValid and surfaces the reason string.
package validation

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Result is the outcome of a validation rule: valid, or invalid with a
// human-readable reason.
type Result struct {
	valid  bool
	reason string
}

// Valid returns a passing result.
func Valid() Result { return Result{valid: true} }

// Invalid returns a failing result carrying the reason.
func Invalid(reason string) Result { return Result{reason: reason} }

// IsValid reports whether the rule passed.
func (r Result) IsValid() bool { return r.valid }

// ErrorMessage returns the failure reason, or the empty string when valid.
func (r Result) ErrorMessage() string { return r.reason }

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,64}$`)

var (
	maxQuantity  = decimal.NewFromInt(10000)
	maxUnitPrice = decimal.NewFromInt(1000000)
	maxPercent   = decimal.NewFromInt(100)
)

// Name validates a customer name: required, 2-100 characters after trimming.
func Name(name string) Result {
	trimmed := strings.TrimSpace(name)
	switch {
	case trimmed == "":
		return Invalid("Name is required")
	case len(trimmed) < 2:
		return Invalid("Name must be at least 2 characters")
	case len(trimmed) > 100:
		return Invalid("Name is too long (max 100 characters)")
	}
	return Valid()
}

// Phone validates a phone number. Empty passes; otherwise the input must
// reduce to exactly 10 digits.
func Phone(phone string) Result {
	trimmed := strings.TrimSpace(phone)
	if trimmed == "" {
		return Valid()
	}
	if len(digitsOnly(trimmed)) != 10 {
		return Invalid("Phone must be 10 digits")
	}
	return Valid()
}

// Email validates an email address. Empty passes; otherwise the input must
// match local@domain.tld.
func Email(email string) Result {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return Valid()
	}
	if !emailPattern.MatchString(trimmed) {
		return Invalid("Invalid email format")
	}
	return Valid()
}

// ZipCode validates a ZIP code. Empty passes; otherwise the input must
// reduce to exactly 5 digits.
func ZipCode(zip string) Result {
	trimmed := strings.TrimSpace(zip)
	if trimmed == "" {
		return Valid()
	}
	if len(digitsOnly(trimmed)) != 5 {
		return Invalid("ZIP code must be 5 digits")
	}
	return Valid()
}

// InvoiceNumber validates a business invoice number: required, 3-50
// characters after trimming.
func InvoiceNumber(number string) Result {
	trimmed := strings.TrimSpace(number)
	switch {
	case trimmed == "":
		return Invalid("Invoice number is required")
	case len(trimmed) < 3:
		return Invalid("Invoice number too short")
	case len(trimmed) > 50:
		return Invalid("Invoice number too long (max 50 characters)")
	}
	return Valid()
}

// ClientName validates the client name on an invoice: required, at least 2
// characters after trimming.
func ClientName(name string) Result {
	trimmed := strings.TrimSpace(name)
	switch {
	case trimmed == "":
		return Invalid("Client name is required")
	case len(trimmed) < 2:
		return Invalid("Client name must be at least 2 characters")
	}
	return Valid()
}

// ItemDescription validates a line item description: required, at least 3
// characters after trimming.
func ItemDescription(description string) Result {
	trimmed := strings.TrimSpace(description)
	switch {
	case trimmed == "":
		return Invalid("Item description is required")
	case len(trimmed) < 3:
		return Invalid("Description too short (min 3 characters)")
	}
	return Valid()
}

// Quantity validates a line item quantity: strictly positive, at most 10,000.
func Quantity(quantity decimal.Decimal) Result {
	switch {
	case !quantity.IsPositive():
		return Invalid("Quantity must be greater than 0")
	case quantity.GreaterThan(maxQuantity):
		return Invalid("Quantity too large (max 10,000)")
	}
	return Valid()
}

// UnitPrice validates a unit price: non-negative, at most 1,000,000.
func UnitPrice(price decimal.Decimal) Result {
	switch {
	case price.IsNegative():
		return Invalid("Price cannot be negative")
	case price.GreaterThan(maxUnitPrice):
		return Invalid("Price too large (max $1,000,000)")
	}
	return Valid()
}

// DiscountPercentage validates a UI-facing discount percentage: 0-100
// inclusive. Distinct from the stored fixed-amount discount.
func DiscountPercentage(percentage decimal.Decimal) Result {
	switch {
	case percentage.IsNegative():
		return Invalid("Discount cannot be negative")
	case percentage.GreaterThan(maxPercent):
		return Invalid("Discount cannot exceed 100%")
	}
	return Valid()
}

// Username validates a login username: required, 3-50 characters after
// trimming.
func Username(username string) Result {
	trimmed := strings.TrimSpace(username)
	switch {
	case trimmed == "":
		return Invalid("Username is required")
	case len(trimmed) < 3:
		return Invalid("Username must be at least 3 characters")
	case len(trimmed) > 50:
		return Invalid("Username too long (max 50 characters)")
	}
	return Valid()
}

// Password validates a login password: required, 6-100 characters.
func Password(password string) Result {
	switch {
	case password == "":
		return Invalid("Password is required")
	case len(password) < 6:
		return Invalid("Password must be at least 6 characters")
	case len(password) > 100:
		return Invalid("Password too long (max 100 characters)")
	}
	return Valid()
}

// NewPassword validates a password in the change-password flow: 8-100
// characters, with at least one digit and at least one letter.
func NewPassword(password string) Result {
	switch {
	case password == "":
		return Invalid("Password is required")
	case len(password) < 8:
		return Invalid("Password must be at least 8 characters")
	case len(password) > 100:
		return Invalid("Password too long")
	}
	var hasDigit, hasLetter bool
	for _, r := range password {
		if unicode.IsDigit(r) {
			hasDigit = true
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	if !hasDigit {
		return Invalid("Password must contain at least one number")
	}
	if !hasLetter {
		return Invalid("Password must contain at least one letter")
	}
	return Valid()
}

// PasswordConfirmation validates that the confirmation matches the new
// password exactly.
func PasswordConfirmation(password, confirmation string) Result {
	if password != confirmation {
		return Invalid("Passwords do not match")
	}
	return Valid()
}

// FormatPhoneNumber renders a phone number US-style, (XXX) XXX-XXXX, when
// it reduces to exactly 10 digits. Anything else is returned as entered.
func FormatPhoneNumber(phone string) string {
	digits := digitsOnly(phone)
	if len(digits) != 10 {
		return phone
	}
	return "(" + digits[:3] + ") " + digits[3:6] + "-" + digits[6:]
}

// CleanPhoneNumber strips every non-digit character.
func CleanPhoneNumber(phone string) string {
	return digitsOnly(phone)
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
