package common

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DisplayCurrency is the currency every dashboard amount is shown in.
const DisplayCurrency = money.USD

// Money converts a major-unit amount into minor units of currency, rounding
// half away from zero.
func Money(v float64, currency string) *money.Money {
	cur := money.GetCurrency(currency)
	if cur == nil {
		cur = money.GetCurrency(DisplayCurrency)
	}
	minor := decimal.NewFromFloat(v).Shift(int32(cur.Fraction)).Round(0)
	return money.New(minor.IntPart(), cur.Code)
}

// FormatMoney formats v as a USD amount with thousands separators, e.g. "$1,234.56".
func FormatMoney(v float64) string {
	return Money(v, DisplayCurrency).Display()
}

// FormatSignedMoney formats a USD amount with an explicit +/- sign.
func FormatSignedMoney(v float64) string {
	m := Money(v, DisplayCurrency)
	if m.IsNegative() {
		return m.Display()
	}
	return "+" + m.Display()
}

// FormatPct formats a percentage to two decimals, e.g. "12.50%".
func FormatPct(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2) + "%"
}

// FormatSignedPct formats a percentage with an explicit +/- sign.
func FormatSignedPct(v float64) string {
	d := decimal.NewFromFloat(v)
	if d.IsNegative() {
		return d.StringFixed(2) + "%"
	}
	return "+" + d.StringFixed(2) + "%"
}

// FormatNumber formats v with the given number of decimals.
func FormatNumber(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

var compactUnits = []struct {
	suffix string
	exp    int32
}{
	{"T", 12},
	{"B", 9},
	{"M", 6},
	{"K", 3},
}

// FormatCompactMoney formats a large USD amount with a magnitude suffix,
// e.g. "$2.80T" for a market capitalisation.
func FormatCompactMoney(v float64) string {
	d := decimal.NewFromFloat(v)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	for _, u := range compactUnits {
		unit := decimal.New(1, u.exp)
		if d.GreaterThanOrEqual(unit) {
			return sign + "$" + d.Div(unit).StringFixed(2) + u.suffix
		}
	}
	return sign + FormatMoney(d.InexactFloat64())
}
