package normalize

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// nonNumeric matches every character an amount keeps no use for
// (currency symbols, spacing, letters).
var nonNumeric = regexp.MustCompile(`[^\d,.\-]`)

// separatorStyle describes how a cleaned amount uses "," and ".".
type separatorStyle int

const (
	// separatorsPlain: no comma, or only periods. Commas are dropped.
	separatorsPlain separatorStyle = iota
	// separatorsCommaDecimal: the comma is the decimal mark, periods group thousands.
	separatorsCommaDecimal
	// separatorsPeriodDecimal: both present and the period comes last.
	separatorsPeriodDecimal
)

// classifySeparators decides which character is the decimal mark.
// When both appear, the one occurring later wins.
func classifySeparators(s string) separatorStyle {
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0 && lastComma > lastDot:
		return separatorsCommaDecimal
	case lastComma >= 0 && lastDot >= 0:
		return separatorsPeriodDecimal
	case lastComma >= 0:
		return separatorsCommaDecimal
	default:
		return separatorsPlain
	}
}

// canonicalSeparators rewrites s so that "." is the only separator left.
func canonicalSeparators(s string) string {
	switch classifySeparators(s) {
	case separatorsCommaDecimal:
		s = strings.ReplaceAll(s, ".", "")
		return strings.Replace(s, ",", ".", 1)
	default:
		return strings.ReplaceAll(s, ",", "")
	}
}

// amountSign applies the debit-by-default rule: amounts are negative unless
// they carry a "+", and an explicit "-" is always negative.
func amountSign(s string) int {
	sign := -1
	if strings.Contains(s, "+") {
		sign = 1
	}
	if strings.Contains(s, "-") {
		sign = -1
	}
	return sign
}

// NormalizeAmount converts a raw amount such as "+1.234,56 €" into a signed
// decimal string ("1234.56"). It returns "" for empty or unparseable input.
func NormalizeAmount(raw string) string {
	s := collapseSpaces(raw)
	if s == "" {
		return ""
	}

	sign := amountSign(s)

	s = nonNumeric.ReplaceAllString(s, "")
	s = canonicalSeparators(s)
	if !strings.ContainsAny(s, "0123456789") {
		return ""
	}

	value, err := decimal.NewFromString(s)
	if err != nil {
		return ""
	}

	value = value.Abs()
	if sign < 0 {
		value = value.Neg()
	}
	return value.String()
}
