package format

import (
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var amountPrinter = message.NewPrinter(language.AmericanEnglish)

// Amount renders a monetary amount with digit grouping and two decimals,
// prefixed by the ISO currency code when the code is recognised.
// Example: Amount(1500, "USD") returns "USD 1,500.00"
func Amount(value float64, currencyCode string) string {
	formatted := amountPrinter.Sprintf("%.2f", value)
	if currencyCode == "" {
		return formatted
	}
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		return formatted
	}
	return unit.String() + " " + formatted
}

// Count renders an integer with digit grouping ("1,284").
func Count(n int64) string {
	return amountPrinter.Sprintf("%d", n)
}

// IsCurrency reports whether code is a known ISO 4217 currency.
func IsCurrency(code string) bool {
	_, err := currency.ParseISO(code)
	return err == nil
}
