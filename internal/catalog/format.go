package catalog

import (
	"math"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultCurrency is the ISO 4217 code prices are shown in.
const DefaultCurrency = "LKR"

// displayDateLayout renders dates as "15 July 2025".
const displayDateLayout = "2 January 2006"

// Formatter renders property values for display.
type Formatter struct {
	unit    currency.Unit
	printer *message.Printer
}

// NewFormatter returns a Formatter for the given ISO 4217 currency code.
func NewFormatter(code string) (*Formatter, error) {
	if code == "" {
		code = DefaultCurrency
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: "invalid currency " + code, Err: err}
	}
	return &Formatter{
		unit:    unit,
		printer: message.NewPrinter(language.English),
	}, nil
}

// Price formats a price with no fractional digits, e.g. "LKR 695,000".
func (f *Formatter) Price(price float64) string {
	return f.printer.Sprintf("%s %d", f.unit.String(), int64(math.Round(price)))
}

// Date formats an ISO date as "15 July 2025". Unparseable input is
// returned unchanged.
func (f *Formatter) Date(iso string) string {
	t, ok := ParseDate(iso)
	if !ok {
		return iso
	}
	return t.Format(displayDateLayout)
}
