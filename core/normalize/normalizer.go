// Package normalize converts raw timeline text fragments into canonical values.
// Amounts become signed decimal strings and dates become YYYY-MM-DD strings.
//
// Neither normalizer ever fails: text that matches no known pattern degrades
// to an empty amount, or to the trimmed original text for dates.
package normalize

import (
	"regexp"
	"strings"
)

// whitespaceRun matches any run of whitespace, including non-breaking spaces.
var whitespaceRun = regexp.MustCompile(`[\s\x{00A0}]+`)

// collapseSpaces folds every whitespace run into a single space and trims.
func collapseSpaces(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// replaceNBSP turns non-breaking spaces into regular spaces and trims.
func replaceNBSP(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\u00a0", " "))
}
