// Package validation checks user input for the split form.
//
// Every check is pure and returns a Result value; nothing here returns an
// error or panics. The checks are structural only: IBAN checksums (MOD-97)
// and card checksums (Luhn) are intentionally not verified.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/mmynk/billsplit/internal/models"
)

// ErrorKind classifies a failed check.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindEmpty
	KindMalformed
	KindOutOfRange
	KindNonNumeric
)

func (k ErrorKind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindMalformed:
		return "malformed"
	case KindOutOfRange:
		return "out_of_range"
	case KindNonNumeric:
		return "non_numeric"
	default:
		return "none"
	}
}

// Result is the outcome of a single check. ErrorMessage is suitable for
// showing next to the offending field.
type Result struct {
	IsValid      bool
	ErrorMessage string
	Kind         ErrorKind
}

// Valid is the result of a passing check.
var Valid = Result{IsValid: true}

func invalid(kind ErrorKind, msg string) Result {
	return Result{IsValid: false, ErrorMessage: msg, Kind: kind}
}

const (
	ibanMinLength = 15
	ibanMaxLength = 34
	cardMinLength = 13
	cardMaxLength = 19
	phoneMinDigit = 9
)

var (
	ibanPattern     = regexp.MustCompile(`^[A-Z]{2}[0-9]{2}[A-Z0-9]+$`)
	digitsPattern   = regexp.MustCompile(`^[0-9]+$`)
	phonePattern    = regexp.MustCompile(`^\+?[0-9]+$`)
	phoneSeparators = regexp.MustCompile(`[\s\v\-()]`)
	emailPattern    = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
)

// PaymentDetails validates a payment destination of the given type.
func PaymentDetails(value string, paymentType models.PaymentType) Result {
	if isBlank(value) {
		return invalid(KindEmpty, "Payment details cannot be empty")
	}

	switch paymentType {
	case models.PaymentCard:
		return card(value)
	default:
		return iban(value)
	}
}

func iban(value string) Result {
	clean := strings.ToUpper(strings.ReplaceAll(value, " ", ""))

	n := utf8.RuneCountInString(clean)
	if n < ibanMinLength || n > ibanMaxLength {
		return invalid(KindOutOfRange, "IBAN must be between 15-34 characters")
	}
	if !ibanPattern.MatchString(clean) {
		return invalid(KindMalformed, "Invalid IBAN format")
	}
	return Valid
}

func card(value string) Result {
	clean := strings.NewReplacer(" ", "", "-", "").Replace(value)

	if !digitsPattern.MatchString(clean) {
		return invalid(KindMalformed, "Card number must contain only digits")
	}
	if len(clean) < cardMinLength || len(clean) > cardMaxLength {
		return invalid(KindOutOfRange, "Card number must be between 13-19 digits")
	}
	return Valid
}

// Phone validates a phone number. Spaces, dashes and parentheses are
// ignored; an optional leading '+' is allowed.
func Phone(phone string) Result {
	if isBlank(phone) {
		return invalid(KindEmpty, "Phone number cannot be empty")
	}

	clean := phoneSeparators.ReplaceAllString(phone, "")
	if !phonePattern.MatchString(clean) {
		return invalid(KindMalformed, "Invalid phone number format")
	}

	digits := strings.TrimPrefix(clean, "+")
	if len(digits) < phoneMinDigit {
		return invalid(KindOutOfRange, "Phone number must have at least 9 digits")
	}
	return Valid
}

// Email validates an email address against a conventional
// local@domain.tld shape.
func Email(email string) Result {
	if isBlank(email) {
		return invalid(KindEmpty, "Email cannot be empty")
	}
	if !emailPattern.MatchString(email) {
		return invalid(KindMalformed, "Invalid email format")
	}
	return Valid
}

// Contact validates value according to the contact method.
func Contact(value string, method models.ContactMethod) Result {
	if method == models.ContactEmail {
		return Email(value)
	}
	return Phone(value)
}

// Amount fails for zero and negative amounts.
func Amount(amount decimal.Decimal) Result {
	if !amount.IsPositive() {
		return invalid(KindOutOfRange, "Amount must be greater than 0")
	}
	return Valid
}

// AmountString parses raw form input and validates the amount. The parsed
// value is returned so callers do not parse twice.
func AmountString(raw string) (decimal.Decimal, Result) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, invalid(KindEmpty, "Amount cannot be empty")
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, invalid(KindNonNumeric, "Amount must be a number")
	}
	return amount, Amount(amount)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
