package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreviewInterest(t *testing.T) {
	tests := []struct {
		name      string
		principal decimal.Decimal
		rate      decimal.Decimal
		months    int
		expectNil bool
		monthly   decimal.Decimal
		total     decimal.Decimal
		payable   decimal.Decimal
	}{
		{
			name:      "standard pledge",
			principal: decimal.NewFromInt(10000),
			rate:      decimal.NewFromInt(2),
			months:    12,
			monthly:   decimal.NewFromInt(200),
			total:     decimal.NewFromInt(2400),
			payable:   decimal.NewFromInt(12400),
		},
		{name: "zero principal", principal: decimal.Zero, rate: decimal.NewFromInt(2), months: 12, expectNil: true},
		{name: "zero rate", principal: decimal.NewFromInt(10000), rate: decimal.Zero, months: 12, expectNil: true},
		{name: "zero months", principal: decimal.NewFromInt(10000), rate: decimal.NewFromInt(2), months: 0, expectNil: true},
		{name: "negative rate", principal: decimal.NewFromInt(10000), rate: decimal.NewFromInt(-1), months: 12, expectNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			preview := PreviewInterest(tt.principal, tt.rate, tt.months)
			if tt.expectNil {
				assert.Nil(t, preview)
				return
			}
			require.NotNil(t, preview)
			assert.True(t, preview.MonthlyInterest.Equal(tt.monthly))
			assert.True(t, preview.TotalInterest.Equal(tt.total))
			assert.True(t, preview.TotalPayable.Equal(tt.payable))
		})
	}
}

func TestStatusTone(t *testing.T) {
	assert.Equal(t, "success", StatusTone("ACTIVE"))
	assert.Equal(t, "muted", StatusTone("closed"))
	assert.Equal(t, "muted", StatusTone("COMPLETED"))
	assert.Equal(t, "destructive", StatusTone("OVERDUE"))
	assert.Equal(t, "destructive", StatusTone("defaulted"))
	assert.Equal(t, "muted", StatusTone("something-else"))
}

func TestPledge_DecodesBackendRecord(t *testing.T) {
	raw := `{
		"id": 7,
		"customerId": 3,
		"customerName": "Ravi Kumar",
		"title": "Gold Chain",
		"amount": 50000,
		"remainingAmount": 42000.5,
		"interestRate": 1.5,
		"deadline": "2025-12-31T00:00:00",
		"createdAt": "2025-01-15T10:30:00.123",
		"status": "ACTIVE",
		"customerPhoto": "  "
	}`

	var p Pledge
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	assert.Equal(t, int64(7), p.ID)
	assert.True(t, p.Amount.Equal(decimal.NewFromInt(50000)))
	require.NotNil(t, p.RemainingAmount)
	assert.True(t, p.Balance().Equal(decimal.RequireFromString("42000.5")))
	assert.Equal(t, 2025, p.Deadline.Year())
	assert.Equal(t, DefaultPledgeDuration, p.Duration())
	assert.True(t, p.LastPaymentDate.IsZero())

	p.NormalizeForDisplay()
	assert.Equal(t, "Gold Chain", p.ItemType)
	assert.Empty(t, p.CustomerPhoto)
}

func TestPledge_BalanceFallsBackToAmount(t *testing.T) {
	p := Pledge{Amount: decimal.NewFromInt(1000)}
	assert.True(t, p.Balance().Equal(decimal.NewFromInt(1000)))

	p.NormalizeForDisplay()
	assert.Equal(t, "Pledge Item", p.ItemType)
}

func TestPledgePayload_EncodesNumbers(t *testing.T) {
	payload := PledgePayload{
		CustomerID:   1,
		Amount:       decimal.NewFromInt(25000),
		InterestRate: decimal.NewFromInt(2),
		Deadline:     NewLocalTime(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)).String(),
	}

	b, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"amount":25000`)
	assert.Contains(t, string(b), `"interestRate":2`)
	assert.Contains(t, string(b), `"deadline":"2025-03-01T09:00:00"`)
	assert.NotContains(t, string(b), "customerPhoto")
}

func TestPhotos_Missing(t *testing.T) {
	photos := Photos{Item: "https://res.example/item.jpg"}
	assert.Equal(t, []string{PhotoCustomer, PhotoReceipt}, photos.Missing())

	photos.Set(PhotoCustomer, "a")
	photos.Set(PhotoReceipt, "b")
	assert.Empty(t, photos.Missing())
	assert.Equal(t, "b", photos.Get(PhotoReceipt))
}

func TestCustomer_Search(t *testing.T) {
	c := Customer{Name: "Lakshmi Devi", Phone: "9876543210", Email: "lakshmi@example.com", Address: "MG Road"}

	assert.True(t, c.MatchesSearch("lakshmi"))
	assert.True(t, c.MatchesSearch("mg road"))
	assert.True(t, c.MatchesSearch(""))
	assert.False(t, c.MatchesSearch("ravi"))

	assert.True(t, c.MatchesPicker("98765"))
	assert.False(t, c.MatchesPicker("mg road"))
}

func TestCreateCustomerRequest_Payload(t *testing.T) {
	req := CreateCustomerRequest{Name: "  Ravi  ", Phone: " "}
	req.Normalize()

	payload := req.Payload()
	assert.Equal(t, "Ravi", payload.Name)
	assert.Nil(t, payload.Phone)
	assert.Nil(t, payload.Email)
}
