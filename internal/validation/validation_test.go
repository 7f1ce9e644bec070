package validation

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mmynk/billsplit/internal/models"
)

func TestPaymentDetails(t *testing.T) {
	tests := []struct {
		name        string
		value       string
		paymentType models.PaymentType
		wantValid   bool
		wantKind    ErrorKind
		wantMessage string
	}{
		{"valid GB IBAN", "GB82WEST12345698765432", models.PaymentIBAN, true, KindNone, ""},
		{"IBAN with spaces and lowercase", "gb82 west 1234 5698 7654 32", models.PaymentIBAN, true, KindNone, ""},
		{"IBAN exactly 15", "NO9386011117947", models.PaymentIBAN, true, KindNone, ""},
		{"IBAN too long", "GB82" + strings.Repeat("1", 37), models.PaymentIBAN, false, KindOutOfRange, "IBAN must be between 15-34 characters"},
		{"IBAN too short", "GB82WEST1234", models.PaymentIBAN, false, KindOutOfRange, "IBAN must be between 15-34 characters"},
		{"IBAN digits first", "1282WEST12345698765432", models.PaymentIBAN, false, KindMalformed, "Invalid IBAN format"},
		{"IBAN with symbols", "GB82WEST1234-698765432", models.PaymentIBAN, false, KindMalformed, "Invalid IBAN format"},
		{"blank", "   ", models.PaymentIBAN, false, KindEmpty, "Payment details cannot be empty"},
		{"valid card", "4111 1111 1111 1111", models.PaymentCard, true, KindNone, ""},
		{"valid card with dashes", "4111-1111-1111-1", models.PaymentCard, true, KindNone, ""},
		{"card with letters", "4111 1111 1111 111A", models.PaymentCard, false, KindMalformed, "Card number must contain only digits"},
		{"card too short", "411111111111", models.PaymentCard, false, KindOutOfRange, "Card number must be between 13-19 digits"},
		{"card too long", "41111111111111111111", models.PaymentCard, false, KindOutOfRange, "Card number must be between 13-19 digits"},
		{"card without checksum verification", "1234567890123", models.PaymentCard, true, KindNone, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PaymentDetails(tt.value, tt.paymentType)
			assert.Equal(t, tt.wantValid, got.IsValid)
			assert.Equal(t, tt.wantKind, got.Kind)
			assert.Equal(t, tt.wantMessage, got.ErrorMessage)
		})
	}
}

func TestPaymentDetails_FortyOneCharacterIBAN(t *testing.T) {
	value := strings.Repeat("A", 41)
	got := PaymentDetails(value, models.PaymentIBAN)
	assert.False(t, got.IsValid)
	assert.Equal(t, KindOutOfRange, got.Kind)
}

func TestPhone(t *testing.T) {
	tests := []struct {
		phone     string
		wantValid bool
		wantKind  ErrorKind
	}{
		{"12345678", false, KindOutOfRange},
		{"123456789", true, KindNone},
		{"+1 234-567-8900", true, KindNone},
		{"(555) 123-4567", true, KindNone},
		{"555\v123\v4567", true, KindNone},
		{"+99555512", false, KindOutOfRange},
		{"555-CALL-NOW", false, KindMalformed},
		{"12+3456789", false, KindMalformed},
		{"", false, KindEmpty},
		{"  ", false, KindEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			got := Phone(tt.phone)
			assert.Equal(t, tt.wantValid, got.IsValid, "Phone(%q)", tt.phone)
			assert.Equal(t, tt.wantKind, got.Kind)
			if !tt.wantValid {
				assert.NotEmpty(t, got.ErrorMessage)
			}
		})
	}
}

func TestEmail(t *testing.T) {
	tests := []struct {
		email     string
		wantValid bool
	}{
		{"alice@example.com", true},
		{"first.last+tag@sub.example.co", true},
		{"alice@example.c", false},
		{"alice@example", false},
		{"alice.example.com", false},
		{"alice@exa mple.com", false},
		{"alice@example.c0m", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.wantValid, Email(tt.email).IsValid, "Email(%q)", tt.email)
		})
	}
}

func TestContact(t *testing.T) {
	assert.True(t, Contact("+995 555 12 34 56", models.ContactPhone).IsValid)
	assert.False(t, Contact("+995 555 12 34 56", models.ContactEmail).IsValid)
	assert.True(t, Contact("bob@example.com", models.ContactEmail).IsValid)
}

func TestAmount(t *testing.T) {
	assert.True(t, Amount(decimal.RequireFromString("0.01")).IsValid)
	assert.False(t, Amount(decimal.Zero).IsValid)

	negative := Amount(decimal.NewFromInt(-5))
	assert.False(t, negative.IsValid)
	assert.Equal(t, "Amount must be greater than 0", negative.ErrorMessage)
}

func TestAmountString(t *testing.T) {
	amount, res := AmountString(" 12.50 ")
	assert.True(t, res.IsValid)
	assert.True(t, amount.Equal(decimal.RequireFromString("12.5")))

	_, res = AmountString("twelve")
	assert.False(t, res.IsValid)
	assert.Equal(t, KindNonNumeric, res.Kind)

	_, res = AmountString("")
	assert.Equal(t, KindEmpty, res.Kind)

	_, res = AmountString("0")
	assert.Equal(t, KindOutOfRange, res.Kind)
}
