package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	root, cleanup := NewRootCmd()
	defer cleanup()

	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	err = root.Execute()
	return out.String(), errOut.String(), err
}

func TestSplit_Equal(t *testing.T) {
	out, _, err := run(t, "split",
		"--total", "100",
		"--payment", "GB82WEST12345698765432",
		"--note", "Dinner",
		"-P", "Alice=+995555123456",
		"-P", "Bob=bob@example.com",
		"-P", "+995555654321",
	)
	require.NoError(t, err)

	assert.Contains(t, out, "── SMS → +995555123456\nHi Alice 👋")
	assert.Contains(t, out, "Your part: 33.34 $")
	assert.Contains(t, out, "── EMAIL → bob@example.com\nHi Bob 👋")
	assert.Contains(t, out, "Hi! 👋")
	assert.Equal(t, 2, strings.Count(out, "Your part: 33.33 $"))
	assert.Contains(t, out, "Note: Dinner")
}

func TestSplit_ManualWithSummary(t *testing.T) {
	out, errOut, err := run(t, "split",
		"--total", "30",
		"--currency", "gel",
		"--payment-type", "card",
		"--payment", "4111 1111 1111 1111",
		"--channel", "copy",
		"--summary",
		"-P", "Alice=+995555123456=10",
		"-P", "Bob=bob@example.com=15",
	)
	require.NoError(t, err)

	assert.Contains(t, out, "── COPY\nHi Alice 👋")
	assert.Contains(t, out, "Your part: 10.00 ₾")
	assert.Contains(t, out, "Card: 4111 1111 1111 1111")
	assert.Contains(t, out, "📝 Bill Split Summary")
	assert.Contains(t, out, "Total: ₾30.00")
	assert.Contains(t, errOut, "warning: amounts add up to 25.00 ₾, total is 30.00 ₾")
}

func TestSplit_InvalidForm(t *testing.T) {
	_, errOut, err := run(t, "split", "--total", "100", "--people", "3")
	require.ErrorIs(t, err, errInvalidForm)

	assert.Contains(t, errOut, "payment: Payment details cannot be empty")
	assert.Contains(t, errOut, "recipients: Please add at least one recipient to send the request")
}

func TestSplit_BadInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad total", []string{"--total", "lots", "-P", "+995555123456"}, "total: Amount must be a number"},
		{"bad phone", []string{"--total", "10", "-P", "Al=12345678"}, "Phone number must have at least 9 digits"},
		{"bad mode", []string{"--total", "10", "--mode", "weighted"}, "unknown mode"},
		{"bad currency", []string{"--total", "10", "--currency", "JPY"}, "unsupported currency"},
		{"bad participant", []string{"--total", "10", "-P", "a=b=c=d"}, "want name=contact[=amount]"},
		{"unavailable channel", []string{"--total", "10", "--payment", "GB82WEST12345698765432", "--channel", "viber", "-P", "+995555123456"}, "not available"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, append([]string{"split"}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSplit_PickFromContacts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"id": "1", "name": "Alice Smith", "phoneNumbers": ["+995555123456"]},
		{"id": "2", "name": "Bob Jones", "emails": ["bob@example.com"]}
	]`), 0644))

	out, _, err := run(t, "--contacts", path, "split",
		"--total", "20",
		"--payment", "GB82WEST12345698765432",
		"--pick", "jones",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "── EMAIL → bob@example.com\nHi Bob Jones 👋")
	assert.Contains(t, out, "Your part: 20.00 $")

	_, _, err = run(t, "--contacts", path, "split", "--total", "20", "--pick", "nobody")
	assert.ErrorContains(t, err, `no contact matches "nobody"`)
}

func TestSplit_RecordAndHistory(t *testing.T) {
	t.Setenv("BILLSPLIT_HISTORY_DSN", filepath.Join(t.TempDir(), "history.db"))

	out, _, err := run(t, "split",
		"--total", "50",
		"--payment", "GB82WEST12345698765432",
		"--record",
		"-P", "Alice=+995555123456",
		"-P", "Bob=+995555654321",
	)
	require.NoError(t, err)
	require.Contains(t, out, "recorded ")

	id := strings.Fields(out[strings.LastIndex(out, "recorded "):])[1]

	out, _, err = run(t, "history", "list")
	require.NoError(t, err)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "Split with Alice, Bob")
	assert.Contains(t, out, "50.00 $")

	out, _, err = run(t, "history", "show", id)
	require.NoError(t, err)
	assert.Contains(t, out, "• Alice: 25.00 $")
	assert.Contains(t, out, "shared with Bob via SMS")

	_, _, err = run(t, "history", "delete", id)
	require.NoError(t, err)

	_, _, err = run(t, "history", "show", id)
	assert.ErrorContains(t, err, "split not found")
}

func TestValidate(t *testing.T) {
	out, _, err := run(t, "validate", "iban", "GB82WEST12345698765432")
	require.NoError(t, err)
	assert.Equal(t, "valid\n", out)

	_, _, err = run(t, "validate", "phone", "+1 234-567-8900")
	require.NoError(t, err)

	_, _, err = run(t, "validate", "phone", "12345678")
	assert.ErrorContains(t, err, "Phone number must have at least 9 digits (out_of_range)")

	_, _, err = run(t, "validate", "zip", "12345")
	assert.ErrorContains(t, err, "unknown kind")
}

func TestCurrencies(t *testing.T) {
	out, _, err := run(t, "currencies")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 7)
	assert.True(t, strings.HasPrefix(lines[1], "GEL"))
	assert.True(t, strings.HasPrefix(lines[6], "RUB"))
}

func TestMetricsFlag(t *testing.T) {
	_, errOut, err := run(t, "--metrics", "split",
		"--total", "10",
		"--payment", "GB82WEST12345698765432",
		"-P", "+995555123456",
	)
	require.NoError(t, err)
	assert.Contains(t, errOut, `billsplit_shares_total{channel="SMS",outcome="ok"} 1`)
}

func TestParseParticipant(t *testing.T) {
	pa, err := parseParticipant(" Alice = +995555123456 = 12.5 ")
	require.NoError(t, err)
	assert.Equal(t, participantArg{name: "Alice", contact: "+995555123456", amount: "12.5"}, pa)

	pa, err = parseParticipant("bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", pa.contact)
	assert.Empty(t, pa.name)
}

func TestParseChannel(t *testing.T) {
	assert.Equal(t, "SHARE_SHEET", string(parseChannel("share-sheet")))
	assert.Equal(t, "WHATSAPP", string(parseChannel(" whatsapp ")))
}
