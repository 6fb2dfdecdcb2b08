package domain

import "strings"

// Customer is the customer record as exchanged with the backend.
type Customer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt LocalTime `json:"createdAt"`
}

// CreateCustomerRequest is the customer form as submitted by the operator.
type CreateCustomerRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Phone   string `json:"phone" validate:"omitempty,max=15"`
	Email   string `json:"email" validate:"omitempty,max=255,email"`
	Address string `json:"address" validate:"omitempty,max=500"`
}

// Normalize trims every field.
func (r *CreateCustomerRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Email = strings.TrimSpace(r.Email)
	r.Address = strings.TrimSpace(r.Address)
}

// CustomerPayload is the backend body for customer creation; blank optional
// fields are sent as null.
type CustomerPayload struct {
	Name    string  `json:"name"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
}

func (r CreateCustomerRequest) Payload() CustomerPayload {
	return CustomerPayload{
		Name:    r.Name,
		Phone:   nullable(r.Phone),
		Email:   nullable(r.Email),
		Address: nullable(r.Address),
	}
}

// MatchesSearch reports whether the customer list search term hits any
// of name, phone, email or address.
func (c Customer) MatchesSearch(term string) bool {
	term = strings.TrimSpace(term)
	if term == "" {
		return true
	}
	lower := strings.ToLower(term)
	return strings.Contains(strings.ToLower(c.Name), lower) ||
		(c.Phone != "" && strings.Contains(c.Phone, term)) ||
		(c.Email != "" && strings.Contains(strings.ToLower(c.Email), lower)) ||
		(c.Address != "" && strings.Contains(strings.ToLower(c.Address), lower))
}

// MatchesPicker is the narrower match used by the pledge form customer picker.
func (c Customer) MatchesPicker(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.Name), q) || strings.Contains(strings.ToLower(c.Phone), q)
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
