package repository

import (
	"context"
	"fmt"
	"net/http"

	"github.com/segyhp/pledge-desk/internal/backend"
	"github.com/segyhp/pledge-desk/internal/domain"
)

type pledgeRepository struct {
	client *backend.Client
}

func NewPledgeRepository(client *backend.Client) PledgeRepository {
	return &pledgeRepository{client: client}
}

func (r *pledgeRepository) List(ctx context.Context, sess backend.Session) ([]domain.Pledge, error) {
	var pledges []domain.Pledge
	if err := r.client.JSON(ctx, sess, http.MethodGet, "/pledges", nil, backend.ShapeBare, &pledges); err != nil {
		return nil, err
	}
	if pledges == nil {
		pledges = []domain.Pledge{}
	}
	return pledges, nil
}

func (r *pledgeRepository) GetByID(ctx context.Context, sess backend.Session, id int64) (*domain.Pledge, error) {
	var pledge domain.Pledge
	if err := r.client.JSON(ctx, sess, http.MethodGet, pledgePath(id), nil, backend.ShapeBare, &pledge); err != nil {
		return nil, err
	}
	return &pledge, nil
}

func (r *pledgeRepository) Create(ctx context.Context, sess backend.Session, payload domain.PledgePayload) (*domain.Pledge, error) {
	var pledge domain.Pledge
	if err := r.client.JSON(ctx, sess, http.MethodPost, "/pledges", payload, backend.ShapeBare, &pledge); err != nil {
		return nil, err
	}
	return &pledge, nil
}

func (r *pledgeRepository) Update(ctx context.Context, sess backend.Session, pledge *domain.Pledge) (*domain.Pledge, error) {
	var updated domain.Pledge
	if err := r.client.JSON(ctx, sess, http.MethodPut, pledgePath(pledge.ID), pledge, backend.ShapeBare, &updated); err != nil {
		return nil, err
	}
	// Some backend versions answer PUT with an empty body.
	if updated.ID == 0 {
		return pledge, nil
	}
	return &updated, nil
}

func (r *pledgeRepository) Delete(ctx context.Context, sess backend.Session, id int64) error {
	return r.client.JSON(ctx, sess, http.MethodDelete, pledgePath(id), nil, backend.ShapeEnvelope, nil)
}

func pledgePath(id int64) string {
	return fmt.Sprintf("/pledges/%d", id)
}
