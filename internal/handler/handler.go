package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/segyhp/pledge-desk/internal/backend"
	"github.com/segyhp/pledge-desk/internal/domain"
	"github.com/segyhp/pledge-desk/internal/photo"
	"github.com/segyhp/pledge-desk/internal/service"
	"github.com/segyhp/pledge-desk/internal/session"
	customError "github.com/segyhp/pledge-desk/pkg/errors"
	"github.com/segyhp/pledge-desk/pkg/response"
)

// maxBodyBytes bounds JSON bodies; multipart bodies carry up to three images.
const (
	maxBodyBytes      = 1 << 20
	maxMultipartBytes = 3*photo.MaxImageBytes + maxBodyBytes
)

// CustomerService is the customer flow the handlers drive.
type CustomerService interface {
	List(ctx context.Context, sess backend.Session, search string) ([]domain.Customer, error)
	Create(ctx context.Context, sess backend.Session, request *domain.CreateCustomerRequest) (*domain.Customer, error)
	Delete(ctx context.Context, sess backend.Session, id int64) ([]domain.Customer, error)
}

// PledgeService is the pledge flow the handlers drive.
type PledgeService interface {
	NewPledgeForm(ctx context.Context, sess backend.Session, rates service.RateStore, search string) (*service.PledgeForm, error)
	Preview(ctx context.Context, rates service.RateStore, request domain.PreviewRequest) *domain.InterestPreview
	CreatePledge(ctx context.Context, sess backend.Session, rates service.RateStore, request *domain.CreatePledgeRequest) (*domain.Pledge, error)
	CreatePledgeWithPhotos(ctx context.Context, sess backend.Session, rates service.RateStore, request *domain.CreatePledgeRequest, images map[string]io.Reader) (*domain.Pledge, error)
	CreateSimplePledge(ctx context.Context, sess backend.Session, rates service.RateStore, request *domain.CreateSimplePledgeRequest) (*domain.Pledge, error)
	CapturePhoto(ctx context.Context, slot string, customerID int64, image io.Reader) (photo.Status, error)
	Detail(ctx context.Context, sess backend.Session, id int64) (*domain.PledgeDetail, error)
	UpdateAmount(ctx context.Context, sess backend.Session, id int64, amount decimal.Decimal) (*domain.Pledge, error)
	UpdateRate(ctx context.Context, sess backend.Session, id int64, rate decimal.Decimal) (*domain.Pledge, error)
	Delete(ctx context.Context, sess backend.Session, id int64) error
}

func decodeJSON(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func pathID(r *http.Request) (int64, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// statusFor maps a business error onto the HTTP status the UI expects.
func statusFor(be *customError.BusinessError) int {
	switch be.Code {
	case customError.ErrCodeValidation, customError.ErrCodePhotosRequired:
		return http.StatusUnprocessableEntity
	case customError.ErrCodeBackendRejected:
		if be.Status >= http.StatusBadRequest {
			return be.Status
		}
		return http.StatusBadGateway
	case customError.ErrCodeBackendUnreachable, customError.ErrCodeUploadFailed:
		return http.StatusBadGateway
	case customError.ErrCodeSubmissionInFlight:
		return http.StatusConflict
	case customError.ErrCodePledgeNotFound:
		return http.StatusNotFound
	case customError.ErrCodeInvalidSetting:
		return http.StatusBadRequest
	case customError.ErrCodeStorageError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	entry := log.WithFields(log.Fields{
		"method":    r.Method,
		"path":      r.URL.Path,
		"client_id": session.ClientID(r.Context()),
	}).WithError(err)

	be, ok := customError.AsBusinessError(err)
	if !ok {
		entry.Error("unexpected error")
		response.InternalServerError(w, "Internal server error", nil)
		return
	}

	status := statusFor(be)
	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Warn("request rejected")
	}
	response.Detailed(w, status, be.Code, be.Message, be.Fields, nil)
}
