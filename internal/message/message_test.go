package message

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mmynk/billsplit/internal/models"
)

var (
	usd   = models.CurrencyFromCode("USD")
	gel   = models.CurrencyFromCode("GEL")
	iban  = models.PaymentDetails{Type: models.PaymentIBAN, Value: "GB82WEST12345698765432"}
	cardD = models.PaymentDetails{Type: models.PaymentCard, Value: "4111 1111 1111 1111"}
)

func participant(name, contact string, method models.ContactMethod, amount string) models.Participant {
	p := models.NewParticipant(name, contact, method)
	p.Amount = decimal.RequireFromString(amount)
	return p
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"12.5", "12.50"},
		{"0", "0.00"},
		{"1234.5", "1,234.50"},
		{"999", "999.00"},
		{"1000000", "1,000,000.00"},
		{"0.005", "0.01"},
		{"-1234.56", "-1,234.56"},
		{"1e6", "1,000,000.00"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMoney(decimal.RequireFromString(tt.amount), usd))
		})
	}
}

func TestFormatAmount_SymbolAfter(t *testing.T) {
	assert.Equal(t, "12.50 ₾", FormatAmount(decimal.RequireFromString("12.5"), gel))
}

func TestFull(t *testing.T) {
	p := participant("Alice", "+995555123456", models.ContactPhone, "33.34")

	got := Full(p, iban, usd, "Dinner at Luigi's", DefaultOptions)

	want := strings.Join([]string{
		"Hi Alice 👋",
		"",
		"Your part: 33.34 $",
		"",
		"Please transfer to:",
		"IBAN: GB82WEST12345698765432",
		"",
		"Note: Dinner at Luigi's",
		"",
		"Sent via Bill Split app 💰",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestFull_OptionalParts(t *testing.T) {
	p := participant("", "bob@example.com", models.ContactEmail, "12.5")

	withGreeting := Full(p, cardD, usd, "", Options{Greeting: true})
	assert.True(t, strings.HasPrefix(withGreeting, "Hi! 👋"))
	assert.Contains(t, withGreeting, "Card: 4111 1111 1111 1111")
	assert.Contains(t, withGreeting, "12.50 $")
	assert.NotContains(t, withGreeting, "12.5 $")
	assert.NotContains(t, withGreeting, "Note:")
	assert.NotContains(t, withGreeting, footer)

	bare := Full(p, cardD, usd, "  ", Options{})
	assert.True(t, strings.HasPrefix(bare, "Your part: 12.50 $"))
	assert.True(t, strings.HasSuffix(bare, "Card: 4111 1111 1111 1111"))
}

func TestFull_BlankDestinationIsOmitted(t *testing.T) {
	p := participant("Alice", "alice@example.com", models.ContactEmail, "5")
	got := Full(p, models.PaymentDetails{Type: models.PaymentIBAN}, usd, "", DefaultOptions)

	assert.NotContains(t, got, "Please transfer to:")
	assert.NotContains(t, got, "IBAN:")
}

func TestShort(t *testing.T) {
	p := participant("Alice", "+995555123456", models.ContactPhone, "12.5")

	assert.Equal(t,
		"Amount: 12.50 $\nIBAN: GB82WEST12345698765432\nPizza night",
		Short(p, iban, usd, "Pizza night"))

	assert.Equal(t,
		"Amount: 12.50 $\nIBAN: GB82WEST12345698765432",
		Short(p, iban, usd, ""))
}

func TestCombined(t *testing.T) {
	ps := []models.Participant{
		participant("Alice", "+995555123456", models.ContactPhone, "33.34"),
		participant("", "bob@example.com", models.ContactEmail, "33.33"),
		participant("Charlie", "+995555654321", models.ContactPhone, "33.33"),
	}

	got := Combined(ps, iban, usd, decimal.NewFromInt(100), "Team lunch")

	want := strings.Join([]string{
		"📝 Bill Split Summary",
		"",
		"Total: $100.00",
		"",
		"IBAN: GB82WEST12345698765432",
		"",
		"Participants:",
		"• Alice: 33.34 $",
		"• bob@example.com: 33.33 $",
		"• Charlie: 33.33 $",
		"",
		"Note: Team lunch",
		"",
		"Sent via Bill Split app 💰",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestCombinedFor(t *testing.T) {
	ps := []models.Participant{
		participant("Alice", "+995555123456", models.ContactPhone, "50"),
		participant("Bob", "bob@example.com", models.ContactEmail, "50"),
	}

	phones := CombinedFor(models.ContactPhone, ps, iban, usd, decimal.NewFromInt(100), "")
	assert.Contains(t, phones, "• Alice: 50.00 $")
	assert.NotContains(t, phones, "Bob")

	emails := CombinedFor(models.ContactEmail, ps, iban, usd, decimal.NewFromInt(100), "")
	assert.Contains(t, emails, "• Bob: 50.00 $")
	assert.NotContains(t, emails, "Alice")
}

func TestForSplit(t *testing.T) {
	alice := participant("Alice", "+995555123456", models.ContactPhone, "10")
	bob := participant("Bob", "bob@example.com", models.ContactEmail, "20")
	split := models.NewBillSplit().
		WithPaymentDetails(iban).
		WithNote("Cinema").
		WithParticipants([]models.Participant{alice, bob})

	got := ForSplit(split, DefaultOptions)

	assert.Len(t, got, 2)
	assert.Contains(t, got[alice.ID], "Hi Alice")
	assert.Contains(t, got[bob.ID], "Your part: 20.00 $")
	assert.Contains(t, got[bob.ID], "Note: Cinema")
}
