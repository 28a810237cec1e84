// Package format renders amounts and names for display.
package format

import (
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Comma renders n with thousands separators ("2300" -> "2,300").
func Comma(n int64) string {
	return printer.Sprintf("%d", n)
}

// Yen renders n as a yen amount with thousands separators.
func Yen(n int64) string {
	return "¥" + Comma(n)
}

// Capitalize upper-cases the first rune and lower-cases the rest,
// the way catalog names (stored lowercase) are titled on the stats page.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(strings.ToLower(s))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
