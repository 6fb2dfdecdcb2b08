package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	// The backend reads money and rates as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Known pledge statuses. The backend is the source of truth and may send others.
const (
	PledgeStatusActive    = "ACTIVE"
	PledgeStatusCompleted = "COMPLETED"
	PledgeStatusDefaulted = "DEFAULTED"
	PledgeStatusClosed    = "CLOSED"
)

// Purity grades offered by the full pledge form.
var Purities = []string{"24K", "22K", "18K", "14K"}

// Photo slots attached to a pledge.
const (
	PhotoCustomer = "customer"
	PhotoItem     = "item"
	PhotoReceipt  = "receipt"
)

// PhotoSlots lists the slots in display order.
var PhotoSlots = []string{PhotoCustomer, PhotoItem, PhotoReceipt}

// DefaultPledgeDuration is used when a stored pledge has no duration.
const DefaultPledgeDuration = 12

// Pledge is the pledge record as exchanged with the backend.
type Pledge struct {
	ID              int64            `json:"id"`
	CustomerID      int64            `json:"customerId"`
	CustomerName    string           `json:"customerName,omitempty"`
	Title           string           `json:"title,omitempty"`
	Description     string           `json:"description,omitempty"`
	ItemType        string           `json:"itemType,omitempty"`
	Weight          float64          `json:"weight,omitempty"`
	Purity          string           `json:"purity,omitempty"`
	Amount          decimal.Decimal  `json:"amount"`
	RemainingAmount *decimal.Decimal `json:"remainingAmount,omitempty"`
	InterestRate    decimal.Decimal  `json:"interestRate"`
	PledgeDuration  int              `json:"pledgeDuration,omitempty"`
	Deadline        LocalTime        `json:"deadline"`
	CreatedAt       LocalTime        `json:"createdAt"`
	LastPaymentDate LocalTime        `json:"lastPaymentDate"`
	Status          string           `json:"status"`
	Notes           string           `json:"notes,omitempty"`
	CustomerPhoto   string           `json:"customerPhoto,omitempty"`
	ItemPhoto       string           `json:"itemPhoto,omitempty"`
	ReceiptPhoto    string           `json:"receiptPhoto,omitempty"`
}

// Photos holds the three photo URLs of a pledge.
type Photos struct {
	Customer string `json:"customerPhoto,omitempty"`
	Item     string `json:"itemPhoto,omitempty"`
	Receipt  string `json:"receiptPhoto,omitempty"`
}

// Get returns the URL stored for slot.
func (p Photos) Get(slot string) string {
	switch slot {
	case PhotoCustomer:
		return p.Customer
	case PhotoItem:
		return p.Item
	case PhotoReceipt:
		return p.Receipt
	}
	return ""
}

// Set stores url for slot.
func (p *Photos) Set(slot, url string) {
	switch slot {
	case PhotoCustomer:
		p.Customer = url
	case PhotoItem:
		p.Item = url
	case PhotoReceipt:
		p.Receipt = url
	}
}

// Missing lists the slots without a URL.
func (p Photos) Missing() []string {
	var missing []string
	for _, slot := range PhotoSlots {
		if strings.TrimSpace(p.Get(slot)) == "" {
			missing = append(missing, slot)
		}
	}
	return missing
}

// CreatePledgeRequest is the full pledge form: explicit deadline and all
// three photos.
type CreatePledgeRequest struct {
	CustomerID     int64           `json:"customerId" validate:"gte=1"`
	ItemType       string          `json:"itemType" validate:"required,max=100"`
	Weight         float64         `json:"weight" validate:"gte=0.1,lte=10000"`
	Purity         string          `json:"purity" validate:"required,oneof=24K 22K 18K 14K"`
	Amount         decimal.Decimal `json:"amount" validate:"gte=1,lte=10000000"`
	InterestRate   decimal.Decimal `json:"interestRate"`
	PledgeDuration int             `json:"pledgeDuration" validate:"gte=1,lte=120"`
	Notes          string          `json:"notes" validate:"max=1000"`
	Deadline       string          `json:"deadline"`
	Status         string          `json:"status"`
	Photos
}

// Normalize trims text fields and fills the default status.
func (r *CreatePledgeRequest) Normalize() {
	r.ItemType = strings.TrimSpace(r.ItemType)
	r.Purity = strings.TrimSpace(r.Purity)
	r.Notes = strings.TrimSpace(r.Notes)
	r.Deadline = strings.TrimSpace(r.Deadline)
	r.Status = strings.TrimSpace(r.Status)
	if r.Status == "" {
		r.Status = PledgeStatusActive
	}
}

// CreateSimplePledgeRequest is the simplified pledge form: the deadline is
// derived from the duration and photos are optional.
type CreateSimplePledgeRequest struct {
	CustomerID     int64           `json:"customerId" validate:"required,gte=1"`
	Description    string          `json:"description"`
	ItemType       string          `json:"itemType" validate:"required"`
	Weight         float64         `json:"weight" validate:"required,gt=0"`
	Purity         string          `json:"purity" validate:"required"`
	Amount         decimal.Decimal `json:"amount" validate:"required,gt=0"`
	InterestRate   decimal.Decimal `json:"interestRate"`
	PledgeDuration int             `json:"pledgeDuration"`
	Notes          string          `json:"notes"`
	Photos
}

// Normalize trims text fields and fills the default duration.
func (r *CreateSimplePledgeRequest) Normalize(defaultDuration int) {
	r.ItemType = strings.TrimSpace(r.ItemType)
	r.Purity = strings.TrimSpace(r.Purity)
	r.Description = strings.TrimSpace(r.Description)
	if r.PledgeDuration <= 0 {
		r.PledgeDuration = defaultDuration
	}
}

// PledgePayload is the backend body for pledge creation.
type PledgePayload struct {
	CustomerID     int64           `json:"customerId"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Amount         decimal.Decimal `json:"amount"`
	InterestRate   decimal.Decimal `json:"interestRate"`
	Deadline       string          `json:"deadline"`
	PledgeDuration int             `json:"pledgeDuration"`
	ItemType       string          `json:"itemType"`
	Weight         float64         `json:"weight"`
	Purity         string          `json:"purity"`
	Status         string          `json:"status"`
	Notes          string          `json:"notes"`
	CustomerPhoto  string          `json:"customerPhoto,omitempty"`
	ItemPhoto      string          `json:"itemPhoto,omitempty"`
	ReceiptPhoto   string          `json:"receiptPhoto,omitempty"`
}

// UpdateAmountRequest edits the principal on the detail screen.
type UpdateAmountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// UpdateRateRequest edits the monthly rate on the detail screen.
type UpdateRateRequest struct {
	InterestRate decimal.Decimal `json:"interestRate"`
}

// StatusTone classifies a status for display.
func StatusTone(status string) string {
	switch strings.ToLower(status) {
	case "active":
		return "success"
	case "closed", "completed":
		return "muted"
	case "overdue", "defaulted":
		return "destructive"
	default:
		return "muted"
	}
}

// IsActive reports whether the pledge is still running.
func (p Pledge) IsActive() bool {
	return strings.EqualFold(p.Status, PledgeStatusActive)
}
