package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/segyhp/pledge-desk/internal/backend"
	"github.com/segyhp/pledge-desk/internal/domain"
)

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) List(ctx context.Context, sess backend.Session) ([]domain.Customer, error) {
	args := m.Called(ctx, sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Create(ctx context.Context, sess backend.Session, payload domain.CustomerPayload) (*domain.Customer, error) {
	args := m.Called(ctx, sess, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, sess backend.Session, id int64) error {
	args := m.Called(ctx, sess, id)
	return args.Error(0)
}

type MockPledgeRepository struct {
	mock.Mock
}

func (m *MockPledgeRepository) List(ctx context.Context, sess backend.Session) ([]domain.Pledge, error) {
	args := m.Called(ctx, sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Pledge), args.Error(1)
}

func (m *MockPledgeRepository) GetByID(ctx context.Context, sess backend.Session, id int64) (*domain.Pledge, error) {
	args := m.Called(ctx, sess, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pledge), args.Error(1)
}

func (m *MockPledgeRepository) Create(ctx context.Context, sess backend.Session, payload domain.PledgePayload) (*domain.Pledge, error) {
	args := m.Called(ctx, sess, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pledge), args.Error(1)
}

func (m *MockPledgeRepository) Update(ctx context.Context, sess backend.Session, pledge *domain.Pledge) (*domain.Pledge, error) {
	args := m.Called(ctx, sess, pledge)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pledge), args.Error(1)
}

func (m *MockPledgeRepository) Delete(ctx context.Context, sess backend.Session, id int64) error {
	args := m.Called(ctx, sess, id)
	return args.Error(0)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) ListByPledge(ctx context.Context, sess backend.Session, pledgeID int64) ([]domain.Payment, error) {
	args := m.Called(ctx, sess, pledgeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}
