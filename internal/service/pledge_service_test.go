package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/pledge-desk/internal/backend"
	"github.com/segyhp/pledge-desk/internal/config"
	"github.com/segyhp/pledge-desk/internal/domain"
	"github.com/segyhp/pledge-desk/internal/mocks"
	"github.com/segyhp/pledge-desk/internal/photo"
	"github.com/segyhp/pledge-desk/internal/storage"
	customError "github.com/segyhp/pledge-desk/pkg/errors"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

type pledgeFixture struct {
	pledges   *mocks.MockPledgeRepository
	payments  *mocks.MockPaymentRepository
	customers *mocks.MockCustomerRepository
	uploader  *mocks.MockUploader
	rates     *mocks.MockRateStore
	locker    storage.Locker
	service   *PledgeService
}

func newPledgeFixture() *pledgeFixture {
	f := &pledgeFixture{
		pledges:   &mocks.MockPledgeRepository{},
		payments:  &mocks.MockPaymentRepository{},
		customers: &mocks.MockCustomerRepository{},
		uploader:  &mocks.MockUploader{},
		rates:     &mocks.MockRateStore{},
		locker:    storage.NewMemoryLocker(),
	}
	cfg := &config.Config{Business: config.BusinessConfig{DefaultInterestRate: "2", DefaultDuration: 12}}
	f.service = NewPledgeService(f.pledges, f.payments, f.customers, f.uploader, NewValidator(),
		NewSubmissionGuard(f.locker, time.Minute), cfg)
	f.service.now = func() time.Time { return time.Date(2025, 1, 1, 10, 30, 0, 0, time.UTC) }
	return f
}

func TestPledgeService_NewPledgeForm(t *testing.T) {
	f := newPledgeFixture()
	f.customers.On("List", mock.Anything, testSession).Return(sampleCustomers(), nil)
	f.rates.On("DefaultInterestRate", mock.Anything, mock.Anything).Return(decimal.RequireFromString("1.5"))

	form, err := f.service.NewPledgeForm(context.Background(), testSession, f.rates, "98765")

	require.NoError(t, err)
	require.Len(t, form.Customers, 1)
	assert.Equal(t, "Lakshmi Devi", form.Customers[0].Name)
	assert.True(t, form.DefaultInterestRate.Equal(decimal.RequireFromString("1.5")))
	assert.Equal(t, 12, form.DefaultDuration)
	assert.Equal(t, []string{"24K", "22K", "18K", "14K"}, form.Purities)
	require.Len(t, form.PhotoSlots, 3)
	assert.Equal(t, "image/*", form.PhotoSlots[0].Accept)
}

func TestPledgeService_Preview(t *testing.T) {
	t.Run("standard pledge persists the rate", func(t *testing.T) {
		f := newPledgeFixture()
		f.rates.On("SetDefaultInterestRate", mock.Anything, decimal.NewFromInt(2)).Return(nil)

		preview := f.service.Preview(context.Background(), f.rates, domain.PreviewRequest{
			Amount:         decimal.NewFromInt(10000),
			InterestRate:   decimalPtr(2),
			PledgeDuration: intPtr(12),
		})

		require.NotNil(t, preview)
		assert.True(t, preview.MonthlyInterest.Equal(decimal.NewFromInt(200)))
		assert.True(t, preview.TotalInterest.Equal(decimal.NewFromInt(2400)))
		assert.True(t, preview.TotalPayable.Equal(decimal.NewFromInt(12400)))
		f.rates.AssertExpectations(t)
	})

	t.Run("zero principal yields no preview", func(t *testing.T) {
		f := newPledgeFixture()
		f.rates.On("SetDefaultInterestRate", mock.Anything, mock.Anything).Return(nil)

		assert.Nil(t, f.service.Preview(context.Background(), f.rates, domain.PreviewRequest{
			Amount:         decimal.Zero,
			InterestRate:   decimalPtr(2),
			PledgeDuration: intPtr(12),
		}))
	})

	t.Run("missing rate uses stored default", func(t *testing.T) {
		f := newPledgeFixture()
		f.rates.On("DefaultInterestRate", mock.Anything, mock.Anything).Return(decimal.NewFromInt(3))

		preview := f.service.Preview(context.Background(), f.rates, domain.PreviewRequest{Amount: decimal.NewFromInt(1000)})

		require.NotNil(t, preview)
		assert.True(t, preview.Rate.Equal(decimal.NewFromInt(3)))
		assert.True(t, preview.TotalInterest.Equal(decimal.NewFromInt(360)))
		f.rates.AssertNotCalled(t, "SetDefaultInterestRate", mock.Anything, mock.Anything)
	})

	t.Run("negative rate is not persisted", func(t *testing.T) {
		f := newPledgeFixture()

		assert.Nil(t, f.service.Preview(context.Background(), f.rates, domain.PreviewRequest{
			Amount:       decimal.NewFromInt(1000),
			InterestRate: decimalPtr(-1),
		}))
		f.rates.AssertNotCalled(t, "SetDefaultInterestRate", mock.Anything, mock.Anything)
	})

	t.Run("cleared rate yields no preview", func(t *testing.T) {
		f := newPledgeFixture()

		assert.Nil(t, f.service.Preview(context.Background(), f.rates, domain.PreviewRequest{
			Amount:         decimal.NewFromInt(10000),
			InterestRate:   decimalPtr(0),
			PledgeDuration: intPtr(12),
		}))
		f.rates.AssertNotCalled(t, "DefaultInterestRate", mock.Anything, mock.Anything)
		f.rates.AssertNotCalled(t, "SetDefaultInterestRate", mock.Anything, mock.Anything)
	})

	t.Run("cleared duration yields no preview", func(t *testing.T) {
		f := newPledgeFixture()
		f.rates.On("SetDefaultInterestRate", mock.Anything, decimal.NewFromInt(2)).Return(nil)

		assert.Nil(t, f.service.Preview(context.Background(), f.rates, domain.PreviewRequest{
			Amount:         decimal.NewFromInt(10000),
			InterestRate:   decimalPtr(2),
			PledgeDuration: intPtr(0),
		}))
	})

	t.Run("typed fields decode as explicit values", func(t *testing.T) {
		f := newPledgeFixture()

		var request domain.PreviewRequest
		require.NoError(t, json.Unmarshal([]byte(`{"amount":10000,"interestRate":0,"pledgeDuration":12}`), &request))

		assert.Nil(t, f.service.Preview(context.Background(), f.rates, request))
	})
}

func decimalPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func intPtr(v int) *int {
	return &v
}

func TestPledgeService_CreatePledge_Success(t *testing.T) {
	f := newPledgeFixture()
	f.rates.On("DefaultInterestRate", mock.Anything, mock.Anything).Return(decimal.RequireFromString("1.5"))
	f.pledges.On("Create", mock.Anything, testSession, mock.MatchedBy(func(p domain.PledgePayload) bool {
		return p.CustomerID == 3 &&
			p.Title == "Gold Chain" &&
			p.Description == "Gold Chain - 12.50g 22K" &&
			p.Deadline == "2026-01-15T10:00:00" &&
			p.Status == domain.PledgeStatusActive &&
			p.InterestRate.Equal(decimal.RequireFromString("1.5")) &&
			p.ItemPhoto == "https://res.example.com/i.jpg"
	})).Return(&domain.Pledge{ID: 11, CustomerID: 3}, nil)

	pledge, err := f.service.CreatePledge(context.Background(), testSession, f.rates, validPledgeRequest())

	require.NoError(t, err)
	assert.Equal(t, int64(11), pledge.ID)
	f.pledges.AssertExpectations(t)
}

func TestPledgeService_CreatePledge_NotesBecomeDescription(t *testing.T) {
	f := newPledgeFixture()
	f.pledges.On("Create", mock.Anything, testSession, mock.MatchedBy(func(p domain.PledgePayload) bool {
		return p.Description == "Customer's wedding chain" && p.Notes == "Customer's wedding chain" &&
			p.InterestRate.Equal(decimal.NewFromInt(2))
	})).Return(&domain.Pledge{ID: 12}, nil)

	req := validPledgeRequest()
	req.Notes = "  Customer's wedding chain "
	req.InterestRate = decimal.NewFromInt(2)

	_, err := f.service.CreatePledge(context.Background(), testSession, f.rates, req)
	require.NoError(t, err)
	f.pledges.AssertExpectations(t)
}

func TestPledgeService_CreatePledge_LocalChecksBeforeNetwork(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *domain.CreatePledgeRequest)
		code   string
		field  string
	}{
		{name: "missing item type", mutate: func(r *domain.CreatePledgeRequest) { r.ItemType = "  " }, code: customError.ErrCodeValidation, field: "itemType"},
		{name: "missing deadline", mutate: func(r *domain.CreatePledgeRequest) { r.Deadline = "" }, code: customError.ErrCodeValidation, field: "deadline"},
		{name: "garbage deadline", mutate: func(r *domain.CreatePledgeRequest) { r.Deadline = "next tuesday" }, code: customError.ErrCodeValidation, field: "deadline"},
		{name: "no photos", mutate: func(r *domain.CreatePledgeRequest) { r.Photos = domain.Photos{} }, code: customError.ErrCodePhotosRequired, field: "customerPhoto"},
		{name: "missing receipt photo", mutate: func(r *domain.CreatePledgeRequest) { r.Receipt = " " }, code: customError.ErrCodePhotosRequired, field: "receiptPhoto"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPledgeFixture()
			req := validPledgeRequest()
			tt.mutate(req)

			_, err := f.service.CreatePledge(context.Background(), testSession, f.rates, req)

			be, ok := customError.AsBusinessError(err)
			require.True(t, ok)
			assert.Equal(t, tt.code, be.Code)
			assert.NotEmpty(t, be.Fields[tt.field])
			f.pledges.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestPledgeService_CreatePledge_BackendRejected(t *testing.T) {
	f := newPledgeFixture()
	f.rates.On("DefaultInterestRate", mock.Anything, mock.Anything).Return(decimal.NewFromInt(2))
	f.pledges.On("Create", mock.Anything, testSession, mock.Anything).
		Return(nil, &backend.APIError{StatusCode: http.StatusBadRequest, Message: "Customer not found"})

	_, err := f.service.CreatePledge(context.Background(), testSession, f.rates, validPledgeRequest())

	be, ok := customError.AsBusinessError(err)
	require.True(t, ok)
	assert.Equal(t, customError.ErrCodeBackendRejected, be.Code)
	assert.Equal(t, "Customer not found", be.Message)
	assert.Equal(t, http.StatusBadRequest, be.Status)
}

func TestPledgeService_CreatePledgeWithPhotos(t *testing.T) {
	f := newPledgeFixture()
	f.rates.On("DefaultInterestRate", mock.Anything, mock.Anything).Return(decimal.NewFromInt(2))
	f.uploader.On("UploadDataURL", mock.Anything, mock.Anything, "pledges/3").
		Return("https://res.example.com/uploaded.png", nil).Times(3)
	f.pledges.On("Create", mock.Anything, testSession, mock.MatchedBy(func(p domain.PledgePayload) bool {
		return p.CustomerPhoto == "https://res.example.com/uploaded.png" &&
			p.ItemPhoto == "https://res.example.com/uploaded.png" &&
			p.ReceiptPhoto == "https://res.example.com/uploaded.png"
	})).Return(&domain.Pledge{ID: 13}, nil)

	req := validPledgeRequest()
	req.Photos = domain.Photos{}
	images := map[string]io.Reader{
		domain.PhotoCustomer: bytes.NewReader(pngHeader),
		domain.PhotoItem:     bytes.NewReader(pngHeader),
		domain.PhotoReceipt:  bytes.NewReader(pngHeader),
	}

	pledge, err := f.service.CreatePledgeWithPhotos(context.Background(), testSession, f.rates, req, images)

	require.NoError(t, err)
	assert.Equal(t, int64(13), pledge.ID)
	f.uploader.AssertExpectations(t)
	f.pledges.AssertExpectations(t)
}

func TestPledgeService_CreatePledgeWithPhotos_InvalidFormUploadsNothing(t *testing.T) {
	f := newPledgeFixture()
	req := validPledgeRequest()
	req.CustomerID = 0

	_, err := f.service.CreatePledgeWithPhotos(context.Background(), testSession, f.rates, req,
		map[string]io.Reader{domain.PhotoItem: bytes.NewReader(pngHeader)})

	be, ok := customError.AsBusinessError(err)
	require.True(t, ok)
	assert.Equal(t, customError.ErrCodeValidation, be.Code)
	f.uploader.AssertNotCalled(t, "UploadDataURL", mock.Anything, mock.Anything, mock.Anything)
}

func TestPledgeService_CreatePledgeWithPhotos_UploadFailure(t *testing.T) {
	f := newPledgeFixture()
	f.uploader.On("UploadDataURL", mock.Anything, mock.Anything, mock.Anything).
		Return("", io.ErrUnexpectedEOF)

	req := validPledgeRequest()
	_, err := f.service.CreatePledgeWithPhotos(context.Background(), testSession, f.rates, req,
		map[string]io.Reader{domain.PhotoItem: bytes.NewReader(pngHeader)})

	be, ok := customError.AsBusinessError(err)
	require.True(t, ok)
	assert.Equal(t, customError.ErrCodeUploadFailed, be.Code)
	f.pledges.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestPledgeService_CreatePledgeWithPhotos_InFlightUploadsNothing(t *testing.T) {
	f := newPledgeFixture()
	_, held, err := f.locker.Acquire(context.Background(), testSession.ClientID+":"+FormPledge, time.Minute)
	require.NoError(t, err)
	require.True(t, held)

	_, err = f.service.CreatePledgeWithPhotos(context.Background(), testSession, f.rates, validPledgeRequest(),
		map[string]io.Reader{
			domain.PhotoCustomer: bytes.NewReader(pngHeader),
			domain.PhotoItem:     bytes.NewReader(pngHeader),
			domain.PhotoReceipt:  bytes.NewReader(pngHeader),
		})

	be, ok := customError.AsBusinessError(err)
	require.True(t, ok)
	assert.Equal(t, customError.ErrCodeSubmissionInFlight, be.Code)
	f.uploader.AssertNotCalled(t, "UploadDataURL", mock.Anything, mock.Anything, mock.Anything)
	f.pledges.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestPledgeService_CreatePledgeWithPhotos_BadImageUploadsNothing(t *testing.T) {
	f := newPledgeFixture()

	_, err := f.service.CreatePledgeWithPhotos(context.Background(), testSession, f.rates, validPledgeRequest(),
		map[string]io.Reader{
			domain.PhotoCustomer: bytes.NewReader(pngHeader),
			domain.PhotoItem:     bytes.NewReader([]byte("%PDF-1.4 not a photo")),
			domain.PhotoReceipt:  bytes.NewReader(pngHeader),
		})

	be, ok := customError.AsBusinessError(err)
	require.True(t, ok)
	assert.Equal(t, customError.ErrCodeValidation, be.Code)
	assert.Equal(t, map[string]string{"itemPhoto": "Please choose an image file"}, be.Fields)
	f.uploader.AssertNotCalled(t, "UploadDataURL", mock.Anything, mock.Anything, mock.Anything)

	// The lock is released, so a corrected resubmission goes through.
	_, held, err := f.locker.Acquire(context.Background(), testSession.ClientID+":"+FormPledge, time.Minute)
	require.NoError(t, err)
	assert.True(t, held)
}

func TestPledgeService_CreateSimplePledge(t *testing.T) {
	f := newPledgeFixture()
	f.rates.On("DefaultInterestRate", mock.Anything, mock.Anything).Return(decimal.NewFromInt(2))
	f.pledges.On("Create", mock.Anything, testSession, mock.MatchedBy(func(p domain.PledgePayload) bool {
		return p.Title == "Ring" &&
			p.Description == "Ring - 4.00g 18K" &&
			p.PledgeDuration == 12 &&
			p.Deadline == "2025-12-27T10:30:00" &&
			p.Status == domain.PledgeStatusActive &&
			p.CustomerPhoto == ""
	})).Return(&domain.Pledge{ID: 14}, nil)

	pledge, err := f.service.CreateSimplePledge(context.Background(), testSession, f.rates, &domain.CreateSimplePledgeRequest{
		CustomerID: 2,
		ItemType:   "Ring",
		Weight:     4,
		Purity:     "18K",
		Amount:     decimal.NewFromInt(15000),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(14), pledge.ID)
	f.pledges.AssertExpectations(t)
}

func TestPledgeService_CreateSimplePledge_MissingRequired(t *testing.T) {
	f := newPledgeFixture()

	_, err := f.service.CreateSimplePledge(context.Background(), testSession, f.rates, &domain.CreateSimplePledgeRequest{ItemType: "Ring"})

	be, ok := customError.AsBusinessError(err)
	require.True(t, ok)
	assert.Equal(t, customError.MsgFillRequired, be.Message)
	f.pledges.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestPledgeService_Detail(t *testing.T) {
	f := newPledgeFixture()
	remaining := decimal.NewFromInt(45000)
	f.pledges.On("GetByID", mock.Anything, testSession, int64(7)).Return(&domain.Pledge{
		ID:              7,
		Title:           "Necklace",
		Amount:          decimal.NewFromInt(50000),
		RemainingAmount: &remaining,
		InterestRate:    decimal.NewFromInt(2),
		PledgeDuration:  6,
		Status:          "ACTIVE",
		ItemPhoto:       "   ",
	}, nil)
	f.payments.On("ListByPledge", mock.Anything, testSession, int64(7)).Return([]domain.Payment{
		{ID: 1, Amount: decimal.NewFromInt(1000)},
		{ID: 2, Amount: decimal.NewFromInt(2500)},
	}, nil)

	detail, err := f.service.Detail(context.Background(), testSession, 7)

	require.NoError(t, err)
	assert.Equal(t, "Necklace", detail.Pledge.ItemType)
	assert.Empty(t, detail.Pledge.ItemPhoto)
	assert.Equal(t, "success", detail.StatusTone)
	assert.True(t, detail.MonthlyInterest.Equal(decimal.NewFromInt(1000)))
	assert.True(t, detail.TotalInterest.Equal(decimal.NewFromInt(6000)))
	assert.True(t, detail.TotalPayable.Equal(decimal.NewFromInt(56000)))
	assert.True(t, detail.AmountPaid.Equal(decimal.NewFromInt(3500)))
	assert.True(t, detail.Balance.Equal(decimal.NewFromInt(45000)))
	assert.Equal(t, "₹56,000", detail.Display.TotalPayable)
}

func TestPledgeService_Detail_PaymentsUnavailable(t *testing.T) {
	f := newPledgeFixture()
	f.pledges.On("GetByID", mock.Anything, testSession, int64(7)).Return(&domain.Pledge{ID: 7, Amount: decimal.NewFromInt(1000)}, nil)
	f.payments.On("ListByPledge", mock.Anything, testSession, int64(7)).
		Return(nil, &backend.APIError{StatusCode: http.StatusInternalServerError, Message: "boom"})

	detail, err := f.service.Detail(context.Background(), testSession, 7)

	require.NoError(t, err)
	assert.Empty(t, detail.Payments)
	assert.True(t, detail.Balance.Equal(decimal.NewFromInt(1000)))
}

func TestPledgeService_Detail_NotFound(t *testing.T) {
	f := newPledgeFixture()
	f.pledges.On("GetByID", mock.Anything, testSession, int64(99)).
		Return(nil, &backend.APIError{StatusCode: http.StatusNotFound, Message: "Not Found"})

	_, err := f.service.Detail(context.Background(), testSession, 99)

	be, ok := customError.AsBusinessError(err)
	require.True(t, ok)
	assert.Equal(t, customError.ErrCodePledgeNotFound, be.Code)
}

func TestPledgeService_UpdateAmount(t *testing.T) {
	current := func() *domain.Pledge {
		return &domain.Pledge{ID: 7, Amount: decimal.NewFromInt(50000), InterestRate: decimal.NewFromInt(2)}
	}

	t.Run("unchanged amount is a no-op", func(t *testing.T) {
		f := newPledgeFixture()
		f.pledges.On("GetByID", mock.Anything, testSession, int64(7)).Return(current(), nil)

		pledge, err := f.service.UpdateAmount(context.Background(), testSession, 7, decimal.NewFromInt(50000))

		require.NoError(t, err)
		assert.True(t, pledge.Amount.Equal(decimal.NewFromInt(50000)))
		f.pledges.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("non-positive amount is a no-op", func(t *testing.T) {
		f := newPledgeFixture()
		f.pledges.On("GetByID", mock.Anything, testSession, int64(7)).Return(current(), nil)

		_, err := f.service.UpdateAmount(context.Background(), testSession, 7, decimal.Zero)

		require.NoError(t, err)
		f.pledges.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("new amount is saved with duration fallback", func(t *testing.T) {
		f := newPledgeFixture()
		f.pledges.On("GetByID", mock.Anything, testSession, int64(7)).Return(current(), nil)
		f.pledges.On("Update", mock.Anything, testSession, mock.MatchedBy(func(p *domain.Pledge) bool {
			return p.Amount.Equal(decimal.NewFromInt(60000)) && p.PledgeDuration == 12
		})).Return(&domain.Pledge{ID: 7, Amount: decimal.NewFromInt(60000), PledgeDuration: 12}, nil)

		pledge, err := f.service.UpdateAmount(context.Background(), testSession, 7, decimal.NewFromInt(60000))

		require.NoError(t, err)
		assert.True(t, pledge.Amount.Equal(decimal.NewFromInt(60000)))
		f.pledges.AssertExpectations(t)
	})
}

func TestPledgeService_UpdateRate(t *testing.T) {
	f := newPledgeFixture()
	f.pledges.On("GetByID", mock.Anything, testSession, int64(7)).
		Return(&domain.Pledge{ID: 7, Amount: decimal.NewFromInt(50000), InterestRate: decimal.NewFromInt(2), PledgeDuration: 6}, nil)
	f.pledges.On("Update", mock.Anything, testSession, mock.MatchedBy(func(p *domain.Pledge) bool {
		return p.InterestRate.Equal(decimal.RequireFromString("2.5")) && p.PledgeDuration == 6
	})).Return(&domain.Pledge{ID: 7, InterestRate: decimal.RequireFromString("2.5")}, nil)

	pledge, err := f.service.UpdateRate(context.Background(), testSession, 7, decimal.RequireFromString("2.5"))

	require.NoError(t, err)
	assert.True(t, pledge.InterestRate.Equal(decimal.RequireFromString("2.5")))
	f.pledges.AssertExpectations(t)
}

func TestPledgeService_Delete(t *testing.T) {
	f := newPledgeFixture()
	f.pledges.On("Delete", mock.Anything, testSession, int64(7)).Return(nil)

	require.NoError(t, f.service.Delete(context.Background(), testSession, 7))
	f.pledges.AssertExpectations(t)
}

func TestPledgeService_OverduePledges(t *testing.T) {
	f := newPledgeFixture()
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local)
	past := domain.LocalTime{Time: now.AddDate(0, -1, 0)}
	future := domain.LocalTime{Time: now.AddDate(0, 1, 0)}

	f.pledges.On("List", mock.Anything, testSession).Return([]domain.Pledge{
		{ID: 1, Status: "ACTIVE", Deadline: past},
		{ID: 2, Status: "ACTIVE", Deadline: future},
		{ID: 3, Status: "CLOSED", Deadline: past},
		{ID: 4, Status: "ACTIVE"},
	}, nil)

	overdue, err := f.service.OverduePledges(context.Background(), testSession, now)

	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, int64(1), overdue[0].ID)
}

func TestPledgeService_CapturePhoto(t *testing.T) {
	f := newPledgeFixture()
	f.uploader.On("UploadDataURL", mock.Anything, mock.Anything, "pledges/5").Return("https://res.example.com/c.png", nil)

	status, err := f.service.CapturePhoto(context.Background(), domain.PhotoCustomer, 5, bytes.NewReader(pngHeader))
	require.NoError(t, err)
	assert.Equal(t, photo.Uploaded("https://res.example.com/c.png"), status)

	_, err = f.service.CapturePhoto(context.Background(), domain.PhotoCustomer, 5, bytes.NewReader([]byte("plain text")))
	assert.Error(t, err)
}
