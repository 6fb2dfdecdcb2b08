package repository

import (
	"context"
	"fmt"
	"net/http"

	"github.com/segyhp/pledge-desk/internal/backend"
	"github.com/segyhp/pledge-desk/internal/domain"
)

type customerRepository struct {
	client *backend.Client
}

func NewCustomerRepository(client *backend.Client) CustomerRepository {
	return &customerRepository{client: client}
}

func (r *customerRepository) List(ctx context.Context, sess backend.Session) ([]domain.Customer, error) {
	var customers []domain.Customer
	if err := r.client.JSON(ctx, sess, http.MethodGet, "/customers", nil, backend.ShapeEither, &customers); err != nil {
		return nil, err
	}
	if customers == nil {
		customers = []domain.Customer{}
	}
	return customers, nil
}

func (r *customerRepository) Create(ctx context.Context, sess backend.Session, payload domain.CustomerPayload) (*domain.Customer, error) {
	var customer domain.Customer
	if err := r.client.JSON(ctx, sess, http.MethodPost, "/customers", payload, backend.ShapeEither, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) Delete(ctx context.Context, sess backend.Session, id int64) error {
	endpoint := fmt.Sprintf("/customers/%d", id)
	return r.client.JSON(ctx, sess, http.MethodDelete, endpoint, nil, backend.ShapeEnvelope, nil)
}
