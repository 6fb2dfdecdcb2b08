package domain

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/segyhp/pledge-desk/pkg/utils"
)

// PreviewRequest carries the values currently typed into a pledge form.
// A nil rate or duration means the field was never filled; a cleared field
// arrives as zero.
type PreviewRequest struct {
	Amount         decimal.Decimal  `json:"amount"`
	InterestRate   *decimal.Decimal `json:"interestRate"`
	PledgeDuration *int             `json:"pledgeDuration"`
}

// InterestPreview is the live calculation shown under the pledge form.
type InterestPreview struct {
	Rate            decimal.Decimal `json:"rate"`
	MonthlyInterest decimal.Decimal `json:"monthlyInterest"`
	TotalInterest   decimal.Decimal `json:"totalInterest"`
	TotalPayable    decimal.Decimal `json:"totalPayable"`
}

// PreviewInterest returns nil unless principal, rate and months are all positive.
func PreviewInterest(principal, rate decimal.Decimal, months int) *InterestPreview {
	if !principal.IsPositive() || !rate.IsPositive() || months <= 0 {
		return nil
	}
	return &InterestPreview{
		Rate:            rate,
		MonthlyInterest: utils.CalculateMonthlyInterest(principal, rate),
		TotalInterest:   utils.CalculateTotalInterest(principal, rate, months),
		TotalPayable:    utils.CalculateTotalPayable(principal, rate, months),
	}
}

// PledgeDetail is a pledge with its payments and derived totals.
type PledgeDetail struct {
	Pledge          Pledge          `json:"pledge"`
	Payments        []Payment       `json:"payments"`
	StatusTone      string          `json:"statusTone"`
	MonthlyInterest decimal.Decimal `json:"monthlyInterest"`
	TotalInterest   decimal.Decimal `json:"totalInterest"`
	TotalPayable    decimal.Decimal `json:"totalPayable"`
	AmountPaid      decimal.Decimal `json:"amountPaid"`
	Balance         decimal.Decimal `json:"balance"`
	Display         DetailDisplay   `json:"display"`
}

// DetailDisplay holds the Indian-formatted strings for the detail screen.
type DetailDisplay struct {
	Amount          string `json:"amount"`
	MonthlyInterest string `json:"monthlyInterest"`
	TotalInterest   string `json:"totalInterest"`
	TotalPayable    string `json:"totalPayable"`
	AmountPaid      string `json:"amountPaid"`
	Balance         string `json:"balance"`
}

// Duration returns the stored duration or the default.
func (p Pledge) Duration() int {
	if p.PledgeDuration > 0 {
		return p.PledgeDuration
	}
	return DefaultPledgeDuration
}

// Balance is remainingAmount when the backend reports one, otherwise the principal.
func (p Pledge) Balance() decimal.Decimal {
	if p.RemainingAmount != nil {
		return *p.RemainingAmount
	}
	return p.Amount
}

// NormalizeForDisplay fills display fallbacks and drops blank photo URLs.
func (p *Pledge) NormalizeForDisplay() {
	if p.ItemType == "" {
		p.ItemType = p.Title
	}
	if p.ItemType == "" {
		p.ItemType = "Pledge Item"
	}
	p.CustomerPhoto = strings.TrimSpace(p.CustomerPhoto)
	p.ItemPhoto = strings.TrimSpace(p.ItemPhoto)
	p.ReceiptPhoto = strings.TrimSpace(p.ReceiptPhoto)
}
