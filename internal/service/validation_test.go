package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/segyhp/pledge-desk/internal/domain"
)

func validPledgeRequest() *domain.CreatePledgeRequest {
	return &domain.CreatePledgeRequest{
		CustomerID:     3,
		ItemType:       "Gold Chain",
		Weight:         12.5,
		Purity:         "22K",
		Amount:         decimal.NewFromInt(50000),
		PledgeDuration: 12,
		Deadline:       "2026-01-15T10:00",
		Photos: domain.Photos{
			Customer: "https://res.example.com/c.jpg",
			Item:     "https://res.example.com/i.jpg",
			Receipt:  "https://res.example.com/r.jpg",
		},
	}
}

func TestValidator_PledgeRequest(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name     string
		mutate   func(r *domain.CreatePledgeRequest)
		field    string
		expected string
	}{
		{name: "no customer", mutate: func(r *domain.CreatePledgeRequest) { r.CustomerID = 0 }, field: "customerId", expected: "Please select a customer"},
		{name: "blank item type", mutate: func(r *domain.CreatePledgeRequest) { r.ItemType = "" }, field: "itemType", expected: "Item type is required"},
		{name: "weight too low", mutate: func(r *domain.CreatePledgeRequest) { r.Weight = 0.05 }, field: "weight", expected: "Weight must be at least 0.1g"},
		{name: "weight too high", mutate: func(r *domain.CreatePledgeRequest) { r.Weight = 10001 }, field: "weight", expected: "Weight too high"},
		{name: "unknown purity", mutate: func(r *domain.CreatePledgeRequest) { r.Purity = "9K" }, field: "purity", expected: "Purity must be one of 24K, 22K, 18K, 14K"},
		{name: "amount below one rupee", mutate: func(r *domain.CreatePledgeRequest) { r.Amount = decimal.RequireFromString("0.5") }, field: "amount", expected: "Loan amount must be at least ₹1"},
		{name: "amount too high", mutate: func(r *domain.CreatePledgeRequest) { r.Amount = decimal.NewFromInt(10000001) }, field: "amount", expected: "Loan amount too high"},
		{name: "duration zero", mutate: func(r *domain.CreatePledgeRequest) { r.PledgeDuration = 0 }, field: "pledgeDuration", expected: "Duration must be at least 1 month"},
		{name: "duration too long", mutate: func(r *domain.CreatePledgeRequest) { r.PledgeDuration = 121 }, field: "pledgeDuration", expected: "Duration too long"},
	}

	assert.Nil(t, v.Fields(validPledgeRequest()))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validPledgeRequest()
			tt.mutate(req)

			fields := v.Fields(req)
			assert.Equal(t, tt.expected, fields[tt.field])
		})
	}
}

func TestValidator_CustomerRequest(t *testing.T) {
	v := NewValidator()

	assert.Nil(t, v.Fields(&domain.CreateCustomerRequest{Name: "Ravi"}))

	fields := v.Fields(&domain.CreateCustomerRequest{Email: "not-an-email", Phone: "1234567890123456"})
	assert.Equal(t, "Name is required", fields["name"])
	assert.Equal(t, "Invalid email format", fields["email"])
	assert.Equal(t, "Invalid phone number", fields["phone"])
}

func TestValidator_SimpleRequest(t *testing.T) {
	v := NewValidator()

	fields := v.Fields(&domain.CreateSimplePledgeRequest{ItemType: "Ring"})
	assert.Contains(t, fields, "customerId")
	assert.Contains(t, fields, "weight")
	assert.Contains(t, fields, "purity")
	assert.Contains(t, fields, "amount")
	assert.NotContains(t, fields, "itemType")
}
