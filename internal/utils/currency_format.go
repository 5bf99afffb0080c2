package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// zeroDecimalCurrencies have no minor unit.
var zeroDecimalCurrencies = map[string]bool{
	"XOF": true,
	"XAF": true,
	"GNF": true,
	"JPY": true,
	"KRW": true,
}

// CurrencyPrecision returns the number of minor-unit digits of an ISO 4217 currency.
func CurrencyPrecision(currency string) int32 {
	if zeroDecimalCurrencies[strings.ToUpper(currency)] {
		return 0
	}
	return 2
}

// FormatWithPrecision formats an amount with the given precision
func FormatWithPrecision(amount decimal.Decimal, precision int32) string {
	return amount.StringFixed(precision)
}

// FormatMoney renders amount with the currency's precision, grouped thousands and the code.
// Example: 1234567.5 XOF returns "1 234 568 XOF".
func FormatMoney(amount decimal.Decimal, currency string) string {
	s := FormatWithPrecision(amount, CurrencyPrecision(currency))
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	out := sign + b.String()
	if hasFrac {
		out += "." + frac
	}
	return out + " " + strings.ToUpper(currency)
}
