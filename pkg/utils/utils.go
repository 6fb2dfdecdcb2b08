package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DaysPerMonth is the month length used when a deadline is derived from a duration.
const DaysPerMonth = 30

var hundred = decimal.NewFromInt(100)

// CalculateMonthlyInterest calculates interest accrued on the principal per month
// Formula: Principal * MonthlyRate / 100
func CalculateMonthlyInterest(principal decimal.Decimal, monthlyRatePercent decimal.Decimal) decimal.Decimal {
	return principal.Mul(monthlyRatePercent).Div(hundred)
}

// CalculateTotalInterest calculates simple interest over the whole duration
func CalculateTotalInterest(principal decimal.Decimal, monthlyRatePercent decimal.Decimal, months int) decimal.Decimal {
	return CalculateMonthlyInterest(principal, monthlyRatePercent).Mul(decimal.NewFromInt(int64(months)))
}

// CalculateTotalPayable returns principal plus simple interest over the duration
func CalculateTotalPayable(principal decimal.Decimal, monthlyRatePercent decimal.Decimal, months int) decimal.Decimal {
	return principal.Add(CalculateTotalInterest(principal, monthlyRatePercent, months))
}

// DeadlineFromDuration derives a deadline by counting 30-day months from start
func DeadlineFromDuration(start time.Time, months int) time.Time {
	return start.AddDate(0, 0, months*DaysPerMonth)
}

// DescriptionFallback builds a pledge description when the operator left it blank
func DescriptionFallback(itemType string, weight float64, purity string) string {
	return fmt.Sprintf("%s - %.2fg %s", strings.TrimSpace(itemType), weight, strings.TrimSpace(purity))
}
