package pdf

import (
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// currencySymbols maps ISO-like currency codes to their display symbols.
// Codes not listed here render as the code itself.
var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"INR": "₹",
	"SGD": "$",
	"IDR": "Rp",
}

func currencySymbol(code string) string {
	if sym, ok := currencySymbols[code]; ok {
		return sym
	}
	if code != "" {
		return code
	}
	return "$"
}

var amountPrinter = message.NewPrinter(language.English)

// FormatCurrency renders an amount as its currency symbol immediately
// followed by the value with two decimal places and en-US thousands
// grouping: FormatCurrency(1234.5, "USD") == "$1,234.50".
func FormatCurrency(amount float64, code string) string {
	return currencySymbol(code) + amountPrinter.Sprint(number.Decimal(amount,
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// FormatDate renders a date in long day-month-year form ("2 Jan 2006").
// A missing date renders as the "-" placeholder; it is never omitted from
// the layout.
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Format("2 Jan 2006")
}

// formatRate renders a tax percentage without a forced decimal tail
// (10 -> "10", 7.5 -> "7.5").
func formatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', -1, 64)
}
