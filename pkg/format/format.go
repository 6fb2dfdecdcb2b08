// Package format renders amounts using the Indian digit grouping convention
// (last three digits, then pairs: 1,00,000).
package format

import (
	"encoding/json"
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

const rupee = "₹"

type options struct {
	showCurrency bool
	minFraction  int32
	maxFraction  int32
}

// Option tweaks FormatIndianCurrency output.
type Option func(*options)

// WithCurrency prefixes the rupee sign.
func WithCurrency() Option {
	return func(o *options) { o.showCurrency = true }
}

// WithFractionDigits bounds the number of fraction digits shown.
func WithFractionDigits(min, max int) Option {
	return func(o *options) {
		o.minFraction = int32(min)
		o.maxFraction = int32(max)
	}
}

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// FormatIndianCurrency formats value (nil, number, numeric string or
// decimal.Decimal) with Indian grouping. Anything that is not a number
// renders as zero.
func FormatIndianCurrency(value interface{}, opts ...Option) string {
	o := options{minFraction: 0, maxFraction: 2}
	for _, opt := range opts {
		opt(&o)
	}
	if o.maxFraction < o.minFraction {
		o.maxFraction = o.minFraction
	}

	d, ok := toDecimal(value)
	if !ok {
		return withPrefix("0", o.showCurrency)
	}

	return withPrefix(formatDecimal(d, o.minFraction, o.maxFraction), o.showCurrency)
}

// FormatIndianNumber formats raw input while the operator is still typing.
// Only digits and '.' survive; a partial fraction (including a lone trailing
// '.') is kept as typed.
func FormatIndianNumber(raw string) string {
	if raw == "" {
		return ""
	}

	sanitized := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, raw)

	parts := strings.Split(sanitized, ".")
	intPart := strings.TrimLeft(parts[0], "0")
	if intPart == "" && parts[0] != "" {
		intPart = "0"
	}

	formatted := groupIndian(intPart)
	if len(parts) > 1 {
		return formatted + "." + parts[1]
	}
	return formatted
}

// ParseAmount recovers the numeric value behind a formatted display string.
// Invalid input yields zero.
func ParseAmount(raw string) decimal.Decimal {
	d, ok := parseLeading(strings.ReplaceAll(raw, ",", ""))
	if !ok {
		return decimal.Zero
	}
	return d
}

// ParseNumber reads the leading number of raw, ignoring anything after it:
// "2.5%" is 2.5. ok is false when raw does not start with a number.
func ParseNumber(raw string) (d decimal.Decimal, ok bool) {
	return parseLeading(raw)
}

func toDecimal(value interface{}) (decimal.Decimal, bool) {
	switch v := value.(type) {
	case nil:
		return decimal.Zero, false
	case decimal.Decimal:
		return v, true
	case *decimal.Decimal:
		if v == nil {
			return decimal.Zero, false
		}
		return *v, true
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(v), true
	case float32:
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat32(v), true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int32:
		return decimal.NewFromInt32(v), true
	case int64:
		return decimal.NewFromInt(v), true
	case json.Number:
		return parseLeading(v.String())
	case string:
		return parseLeading(v)
	default:
		return decimal.Zero, false
	}
}

// parseLeading takes the longest numeric prefix and ignores the rest.
func parseLeading(s string) (decimal.Decimal, bool) {
	match := leadingNumber.FindString(strings.TrimSpace(s))
	if match == "" {
		return decimal.Zero, false
	}

	sign := ""
	if match[0] == '-' || match[0] == '+' {
		if match[0] == '-' {
			sign = "-"
		}
		match = match[1:]
	}
	if strings.HasPrefix(match, ".") {
		match = "0" + match
	}
	if mantissa, exp, found := strings.Cut(match, "e"); found {
		match = strings.TrimSuffix(mantissa, ".") + "e" + exp
	} else if mantissa, exp, found := strings.Cut(match, "E"); found {
		match = strings.TrimSuffix(mantissa, ".") + "e" + exp
	} else {
		match = strings.TrimSuffix(match, ".")
	}

	d, err := decimal.NewFromString(sign + match)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func formatDecimal(d decimal.Decimal, minFraction, maxFraction int32) string {
	rounded := d.Round(maxFraction)

	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}

	text := rounded.StringFixed(maxFraction)
	intPart, fracPart := text, ""
	if idx := strings.IndexByte(text, '.'); idx >= 0 {
		intPart, fracPart = text[:idx], text[idx+1:]
	}

	for int32(len(fracPart)) > minFraction && strings.HasSuffix(fracPart, "0") {
		fracPart = fracPart[:len(fracPart)-1]
	}

	out := sign + groupIndian(intPart)
	if fracPart != "" {
		out += "." + fracPart
	}
	return out
}

// groupIndian inserts separators into a plain digit string: 1234567 -> 12,34,567.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]

	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}

	return strings.Join(append(groups, tail), ",")
}

func withPrefix(s string, currency bool) string {
	if currency {
		return rupee + s
	}
	return s
}
