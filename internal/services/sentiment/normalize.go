package sentiment

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Normalize trims s and upper-cases its first rune. The rest is untouched.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// FormatConfidence renders c in [0,1] as a rounded percentage ("87%").
// Values outside the range yield "".
func FormatConfidence(c float64) string {
	if c < 0 || c > 1 {
		return ""
	}
	return decimal.NewFromFloat(c).Mul(hundred).Round(0).String() + "%"
}
