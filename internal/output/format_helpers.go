package output

import (
	"strconv"

	money "github.com/rpgo/payoff-planner/pkg/decimal"
	"github.com/shopspring/decimal"
)

// FormatCurrency formats a decimal as currency rounded to cents: $1,234.57
func FormatCurrency(amount decimal.Decimal) string {
	return money.NewMoneyFromDecimal(amount).Format()
}

// FormatSignedCurrency is FormatCurrency with an explicit sign, for deltas
func FormatSignedCurrency(amount decimal.Decimal) string {
	return money.NewMoneyFromDecimal(amount).FormatSigned()
}

// FormatPercentage formats a decimal as a percentage with 2 decimals.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }

// FormatMonths renders a month count as "4y 7m"
func FormatMonths(months int) string {
	sign := ""
	if months < 0 {
		sign = "-"
		months = -months
	}
	return sign + strconv.Itoa(months/12) + "y " + strconv.Itoa(months%12) + "m"
}

func intToString(i int) string { return strconv.Itoa(i) }

func boolToString(b bool) string { return strconv.FormatBool(b) }
