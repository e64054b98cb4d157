package ynab

import (
	"strconv"
	"strings"
)

// MilliunitsPerUnit is the number of milliunits in one currency unit
const MilliunitsPerUnit = 1000

var pow10 = [...]uint64{1, 10, 100, 1000}

// FormatMilliunits renders amount with decimalDigits fractional digits,
// rounding half away from zero. decimalDigits is clamped to [0, 3].
func FormatMilliunits(amount int64, decimalDigits int) string {
	neg, whole, frac := splitMilliunits(amount, decimalDigits)

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(strconv.FormatUint(whole, 10))
	if decimalDigits > 0 {
		b.WriteByte('.')
		b.WriteString(padFraction(frac, clampDigits(decimalDigits)))
	}
	return b.String()
}

// Format renders amount the way the budget displays it: grouped digits,
// the budget's decimal separator and the currency symbol where configured.
func (f CurrencyFormat) Format(amount int64) string {
	digits := clampDigits(f.DecimalDigits)
	neg, whole, frac := splitMilliunits(amount, digits)

	number := groupDigits(strconv.FormatUint(whole, 10), f.GroupSeparator)
	if digits > 0 {
		number += f.DecimalSeparator + padFraction(frac, digits)
	}

	if f.DisplaySymbol && f.CurrencySymbol != "" {
		if f.SymbolFirst {
			number = f.CurrencySymbol + number
		} else {
			number += f.CurrencySymbol
		}
	}
	if neg {
		number = "-" + number
	}
	return number
}

func clampDigits(d int) int {
	if d < 0 {
		return 0
	}
	if d > 3 {
		return 3
	}
	return d
}

// splitMilliunits returns the sign, whole units and rounded fraction of amount.
// Works on the unsigned magnitude so math.MinInt64 does not overflow.
func splitMilliunits(amount int64, decimalDigits int) (bool, uint64, uint64) {
	digits := clampDigits(decimalDigits)
	neg := amount < 0
	mag := uint64(amount)
	if neg {
		mag = -mag
	}

	step := pow10[3-digits]
	scaled := mag / step
	if mag%step*2 >= step && step > 1 {
		scaled++
	}

	unit := pow10[digits]
	whole, frac := scaled/unit, scaled%unit
	if whole == 0 && frac == 0 {
		neg = false
	}
	return neg, whole, frac
}

func padFraction(frac uint64, digits int) string {
	s := strconv.FormatUint(frac, 10)
	for len(s) < digits {
		s = "0" + s
	}
	return s
}

func groupDigits(s, sep string) string {
	if sep == "" || len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
