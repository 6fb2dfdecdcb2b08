package mocks

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockRateStore stands in for a client's stored default interest rate.
type MockRateStore struct {
	mock.Mock
}

func (m *MockRateStore) DefaultInterestRate(ctx context.Context, fallback decimal.Decimal) decimal.Decimal {
	args := m.Called(ctx, fallback)
	return args.Get(0).(decimal.Decimal)
}

func (m *MockRateStore) SetDefaultInterestRate(ctx context.Context, rate decimal.Decimal) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

// MockUploader is safe for the concurrent calls a photo set makes.
type MockUploader struct {
	mock.Mock
	mu sync.Mutex
}

func (m *MockUploader) UploadDataURL(ctx context.Context, dataURL, folder string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	args := m.Called(ctx, dataURL, folder)
	return args.String(0), args.Error(1)
}
