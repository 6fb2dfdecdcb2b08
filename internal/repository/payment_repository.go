package repository

import (
	"context"
	"fmt"
	"net/http"

	"github.com/segyhp/pledge-desk/internal/backend"
	"github.com/segyhp/pledge-desk/internal/domain"
)

type paymentRepository struct {
	client *backend.Client
}

func NewPaymentRepository(client *backend.Client) PaymentRepository {
	return &paymentRepository{client: client}
}

func (r *paymentRepository) ListByPledge(ctx context.Context, sess backend.Session, pledgeID int64) ([]domain.Payment, error) {
	endpoint := fmt.Sprintf("/payments/pledge/%d", pledgeID)

	var payments []domain.Payment
	if err := r.client.JSON(ctx, sess, http.MethodGet, endpoint, nil, backend.ShapeEnvelope, &payments); err != nil {
		return nil, err
	}
	if payments == nil {
		payments = []domain.Payment{}
	}
	return payments, nil
}
