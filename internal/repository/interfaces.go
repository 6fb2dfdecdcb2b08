package repository

import (
	"context"

	"github.com/segyhp/pledge-desk/internal/backend"
	"github.com/segyhp/pledge-desk/internal/domain"
)

// CustomerRepository defines the interface for customer data operations
type CustomerRepository interface {
	// List retrieves every customer
	List(ctx context.Context, sess backend.Session) ([]domain.Customer, error)

	// Create creates a new customer and returns the stored record
	Create(ctx context.Context, sess backend.Session, payload domain.CustomerPayload) (*domain.Customer, error)

	// Delete removes a customer
	Delete(ctx context.Context, sess backend.Session, id int64) error
}

// PledgeRepository defines the interface for pledge data operations
type PledgeRepository interface {
	// List retrieves every pledge
	List(ctx context.Context, sess backend.Session) ([]domain.Pledge, error)

	// GetByID retrieves a pledge by its ID
	GetByID(ctx context.Context, sess backend.Session, id int64) (*domain.Pledge, error)

	// Create creates a new pledge
	Create(ctx context.Context, sess backend.Session, payload domain.PledgePayload) (*domain.Pledge, error)

	// Update replaces a pledge record
	Update(ctx context.Context, sess backend.Session, pledge *domain.Pledge) (*domain.Pledge, error)

	// Delete removes a pledge
	Delete(ctx context.Context, sess backend.Session, id int64) error
}

// PaymentRepository defines the interface for payment data operations.
// Payments are recorded by the backend; this side only reads them.
type PaymentRepository interface {
	// ListByPledge retrieves all payments for a pledge
	ListByPledge(ctx context.Context, sess backend.Session, pledgeID int64) ([]domain.Payment, error)
}
