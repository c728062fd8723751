package cli

import (
	"encoding/json"
	"io"
	"math"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type moneyFormatter struct {
	p *message.Printer
}

func newMoneyFormatter() moneyFormatter {
	return moneyFormatter{p: message.NewPrinter(language.English)}
}

// format renders amount, in minor units of currencyCode, with the currency
// symbol. Unknown currency codes fall back to the raw amount.
func (m moneyFormatter) format(amount int64, currencyCode string) string {
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		return m.p.Sprintf("%d %s", amount, currencyCode)
	}
	scale, _ := currency.Standard.Rounding(unit)
	value := float64(amount) / math.Pow10(scale)
	return m.p.Sprint(currency.Symbol(unit.Amount(value)))
}

func (m moneyFormatter) formatOptional(amount *int64, currencyCode string) string {
	if amount == nil {
		return "-"
	}
	return m.format(*amount, currencyCode)
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
