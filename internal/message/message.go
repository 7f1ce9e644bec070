// Package message renders payment-request text for participants.
//
// All functions are pure and always return a string; blank inputs (a
// participant without a name, an empty note, a missing destination) are
// left out of the text rather than treated as errors.
package message

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/billsplit/internal/models"
)

const (
	footer        = "Sent via Bill Split app 💰"
	summaryHeader = "📝 Bill Split Summary"
)

// Options toggles the optional parts of a full message.
type Options struct {
	Greeting bool
	Footer   bool
}

// DefaultOptions includes both greeting and footer.
var DefaultOptions = Options{Greeting: true, Footer: true}

// Full renders the complete request sent to one participant.
//
//	Hi Alice 👋
//
//	Your part: 33.34 $
//
//	Please transfer to:
//	IBAN: GB82WEST12345698765432
//
//	Note: Dinner at Luigi's
//
//	Sent via Bill Split app 💰
func Full(p models.Participant, details models.PaymentDetails, currency models.Currency, note string, opts Options) string {
	var b builder

	if opts.Greeting {
		if isBlank(p.Name) {
			b.line("Hi! 👋")
		} else {
			b.line("Hi " + p.Name + " 👋")
		}
		b.blank()
	}

	b.line("Your part: " + FormatAmount(p.Amount, currency))

	if !isBlank(details.Value) {
		b.blank()
		b.line("Please transfer to:")
		b.line(destination(details))
	}

	if !isBlank(note) {
		b.blank()
		b.line("Note: " + note)
	}

	if opts.Footer {
		b.blank()
		b.line(footer)
	}

	return b.String()
}

// Short renders a compact request for length-limited channels such as SMS.
// It has no greeting or footer, and the note is appended as-is.
func Short(p models.Participant, details models.PaymentDetails, currency models.Currency, note string) string {
	lines := []string{"Amount: " + FormatAmount(p.Amount, currency)}
	if !isBlank(details.Value) {
		lines = append(lines, destination(details))
	}
	if !isBlank(note) {
		lines = append(lines, note)
	}
	return strings.Join(lines, "\n")
}

// Combined renders one digest listing every participant's share.
// The total is written symbol-first ("$100.00") while participant lines keep
// the amount-first form ("33.34 $").
func Combined(participants []models.Participant, details models.PaymentDetails, currency models.Currency, total decimal.Decimal, note string) string {
	var b builder

	b.line(summaryHeader)
	b.blank()
	b.line("Total: " + formatTotal(total, currency))
	b.blank()

	if !isBlank(details.Value) {
		b.line(destination(details))
		b.blank()
	}

	b.line("Participants:")
	for _, p := range participants {
		b.line("• " + p.DisplayName() + ": " + FormatAmount(p.Amount, currency))
	}

	if !isBlank(note) {
		b.blank()
		b.line("Note: " + note)
	}

	b.blank()
	b.line(footer)

	return b.String()
}

// CombinedFor renders the digest restricted to participants reached by
// method, used for "SMS all" and "Email all".
func CombinedFor(method models.ContactMethod, participants []models.Participant, details models.PaymentDetails, currency models.Currency, total decimal.Decimal, note string) string {
	filtered := make([]models.Participant, 0, len(participants))
	for _, p := range participants {
		if p.ContactMethod == method {
			filtered = append(filtered, p)
		}
	}
	return Combined(filtered, details, currency, total, note)
}

// ForSplit renders the full message for every participant of split, keyed by
// participant ID.
func ForSplit(split models.BillSplit, opts Options) map[string]string {
	out := make(map[string]string, len(split.Participants))
	for _, p := range split.Participants {
		out[p.ID] = Full(p, split.PaymentDetails, split.Currency, split.Note, opts)
	}
	return out
}

func destination(details models.PaymentDetails) string {
	return details.Type.Label() + ": " + details.Value
}

// builder collects lines and trims surrounding whitespace on output.
type builder struct {
	sb strings.Builder
}

func (b *builder) line(s string) {
	b.sb.WriteString(s)
	b.sb.WriteByte('\n')
}

func (b *builder) blank() {
	b.sb.WriteByte('\n')
}

func (b *builder) String() string {
	return strings.TrimSpace(b.sb.String())
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
