package handlers

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var pricePrinter = message.NewPrinter(language.MustParse("pt-PT"))

// FormatPrice renders an amount with its currency symbol and Portuguese
// number formatting, e.g. €1 250,5. Currencies other than EUR are prefixed
// with their ISO code.
func FormatPrice(amount float64, currency string) string {
	n := pricePrinter.Sprint(number.Decimal(amount, number.MaxFractionDigits(2)))

	currency = strings.ToUpper(currency)
	if currency == "" || currency == "EUR" {
		return "€" + n
	}
	return currency + " " + n
}

// formatCentimeters drops trailing zeros, so 40 renders as "40" and 40.5 as "40.5"
func formatCentimeters(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
