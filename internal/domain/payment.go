package domain

import "github.com/shopspring/decimal"

// Payment is a read-only payment history entry supplied by the backend.
type Payment struct {
	ID          int64           `json:"id"`
	PledgeID    int64           `json:"pledgeId"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate LocalTime       `json:"paymentDate"`
	PaymentType string          `json:"paymentType"`
	Notes       string          `json:"notes,omitempty"`
	CreatedAt   LocalTime       `json:"createdAt"`
}

// TotalPaid sums the payment amounts.
func TotalPaid(payments []Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total
}
