package format

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatIndianCurrency(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		opts     []Option
		expected string
	}{
		{name: "lakh", value: 100000, expected: "1,00,000"},
		{name: "lakh with currency", value: 100000, opts: []Option{WithCurrency()}, expected: "₹1,00,000"},
		{name: "nil", value: nil, expected: "0"},
		{name: "nil with currency", value: nil, opts: []Option{WithCurrency()}, expected: "₹0"},
		{name: "non numeric string", value: "abc", expected: "0"},
		{name: "empty string", value: "", expected: "0"},
		{name: "numeric string", value: "2500000", expected: "25,00,000"},
		{name: "numeric prefix", value: "1200abc", expected: "1,200"},
		{name: "small number", value: 999, expected: "999"},
		{name: "thousand", value: 1000, expected: "1,000"},
		{name: "crore", value: int64(123456789), expected: "12,34,56,789"},
		{name: "fraction rounded to two digits", value: 1234.567, expected: "1,234.57"},
		{name: "trailing zeros dropped", value: 1234.5, expected: "1,234.5"},
		{name: "negative", value: -150000, expected: "-1,50,000"},
		{name: "decimal", value: decimal.RequireFromString("2400.00"), expected: "2,400"},
		{name: "NaN", value: math.NaN(), expected: "0"},
		{name: "unsupported type", value: struct{}{}, expected: "0"},
		{
			name:     "minimum fraction digits",
			value:    200,
			opts:     []Option{WithCurrency(), WithFractionDigits(2, 2)},
			expected: "₹200.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatIndianCurrency(tt.value, tt.opts...))
		})
	}
}

func TestFormatIndianNumber(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{name: "empty", raw: "", expected: ""},
		{name: "plain digits", raw: "100000", expected: "1,00,000"},
		{name: "already formatted", raw: "1,00,000", expected: "1,00,000"},
		{name: "trailing decimal point", raw: "1234.", expected: "1,234."},
		{name: "partial fraction", raw: "1234.5", expected: "1,234.5"},
		{name: "leading zeros", raw: "0075000", expected: "75,000"},
		{name: "only zeros", raw: "000", expected: "0"},
		{name: "letters stripped", raw: "12a34", expected: "1,234"},
		{name: "only decimal point", raw: ".", expected: "."},
		{name: "garbage", raw: "abc", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.Equal(t, tt.expected, FormatIndianNumber(tt.raw))
			})
		})
	}
}

func TestParseAmount(t *testing.T) {
	assert.True(t, ParseAmount("1,00,000").Equal(decimal.NewFromInt(100000)))
	assert.True(t, ParseAmount("1,234.").Equal(decimal.NewFromInt(1234)))
	assert.True(t, ParseAmount("12,500.75").Equal(decimal.RequireFromString("12500.75")))
	assert.True(t, ParseAmount("").IsZero())
	assert.True(t, ParseAmount("abc").IsZero())
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
		ok       bool
	}{
		{raw: "2.5%", expected: "2.5", ok: true},
		{raw: "  1.75  ", expected: "1.75", ok: true},
		{raw: "3 per month", expected: "3", ok: true},
		{raw: "-4", expected: "-4", ok: true},
		{raw: "1,5", expected: "1", ok: true},
		{raw: "abc"},
		{raw: ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			d, ok := ParseNumber(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, d.Equal(decimal.RequireFromString(tt.expected)), "got %s", d)
			}
		})
	}
}
