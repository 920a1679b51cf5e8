// Package format turns nullable indicator values into pt-BR display strings.
package format

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// NotAvailable is shown in place of any missing value.
const NotAvailable = "N/A"

// CurrencySymbol prefixes every currency value; the dashboard only reports BRL.
const CurrencySymbol = "R$"

var printer = message.NewPrinter(language.BrazilianPortuguese)

// Float returns a pointer to v, for building nullable values inline.
func Float(v float64) *float64 {
	return &v
}

func missing(v *float64) bool {
	return v == nil || math.IsNaN(*v) || math.IsInf(*v, 0)
}

// Number formats v with pt-BR digit grouping and at most three decimals.
func Number(v *float64) string {
	if missing(v) {
		return NotAvailable
	}
	return printer.Sprint(number.Decimal(*v, number.MaxFractionDigits(3)))
}

// Percent formats v with exactly one decimal followed by "%".
func Percent(v *float64) string {
	if missing(v) {
		return NotAvailable
	}
	return strconv.FormatFloat(*v, 'f', 1, 64) + "%"
}

// Currency formats v as a BRL amount with two decimals. The sign leads the
// symbol, which is joined to the amount by a no-break space.
func Currency(v *float64) string {
	if missing(v) {
		return NotAvailable
	}
	amount := math.Round(*v*100) / 100
	sign := ""
	if amount < 0 {
		sign = "-"
	}
	return sign + CurrencySymbol + "\u00a0" + printer.Sprint(number.Decimal(math.Abs(amount), number.Scale(2)))
}
