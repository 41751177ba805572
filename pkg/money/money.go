package money

import "github.com/shopspring/decimal"

// CurrencyPlaces is the precision every stored monetary value is rounded to.
const CurrencyPlaces = 2

// Round rounds a monetary value to currency precision using round half away
// from zero, matching how receipts are printed. decimal.Round already behaves
// this way; the wrapper pins the precision so every derivation agrees.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(CurrencyPlaces)
}

// FromFloat converts a float price into a decimal rounded to currency precision.
func FromFloat(f float64) decimal.Decimal {
	return Round(decimal.NewFromFloat(f))
}

// Percent converts a 0-100 percentage into its decimal fraction.
func Percent(rate decimal.Decimal) decimal.Decimal {
	return rate.Div(decimal.NewFromInt(100))
}
