package models

// CurrencyCode identifies one entry of the supported currency catalog.
type CurrencyCode string

const (
	GEL CurrencyCode = "GEL"
	USD CurrencyCode = "USD"
	EUR CurrencyCode = "EUR"
	GBP CurrencyCode = "GBP"
	TRY CurrencyCode = "TRY"
	RUB CurrencyCode = "RUB"
)

// Currency describes how amounts in one currency are displayed and rounded.
// Values are obtained from the catalog and never constructed by callers.
type Currency struct {
	// Code is the ISO 4217 code (e.g., "USD").
	Code CurrencyCode

	// Symbol is the display symbol (e.g., "$").
	Symbol string

	// DisplayName is the human-readable name (e.g., "US Dollar").
	DisplayName string

	// DecimalPlaces is the number of fraction digits used for rounding and
	// formatting. Always read it from the entry, do not assume 2.
	DecimalPlaces int32
}

// currencyOrder is the catalog in declaration order.
var currencyOrder = []CurrencyCode{GEL, USD, EUR, GBP, TRY, RUB}

var currencies = map[CurrencyCode]Currency{
	GEL: {Code: GEL, Symbol: "₾", DisplayName: "Georgian Lari", DecimalPlaces: 2},
	USD: {Code: USD, Symbol: "$", DisplayName: "US Dollar", DecimalPlaces: 2},
	EUR: {Code: EUR, Symbol: "€", DisplayName: "Euro", DecimalPlaces: 2},
	GBP: {Code: GBP, Symbol: "£", DisplayName: "British Pound", DecimalPlaces: 2},
	TRY: {Code: TRY, Symbol: "₺", DisplayName: "Turkish Lira", DecimalPlaces: 2},
	RUB: {Code: RUB, Symbol: "₽", DisplayName: "Russian Ruble", DecimalPlaces: 2},
}

// DefaultCurrency is used for new splits and for unknown codes.
const DefaultCurrency = USD

// Currencies returns the full catalog in declaration order.
func Currencies() []Currency {
	out := make([]Currency, 0, len(currencyOrder))
	for _, code := range currencyOrder {
		out = append(out, currencies[code])
	}
	return out
}

// LookupCurrency returns the catalog entry for code.
func LookupCurrency(code CurrencyCode) (Currency, bool) {
	c, ok := currencies[code]
	return c, ok
}

// CurrencyFromCode returns the catalog entry for code, falling back to
// DefaultCurrency when the code is not supported.
func CurrencyFromCode(code string) Currency {
	if c, ok := currencies[CurrencyCode(code)]; ok {
		return c
	}
	return currencies[DefaultCurrency]
}

func (c Currency) String() string {
	return string(c.Code)
}
