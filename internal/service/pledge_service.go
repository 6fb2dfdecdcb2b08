package service

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/segyhp/pledge-desk/internal/backend"
	"github.com/segyhp/pledge-desk/internal/config"
	"github.com/segyhp/pledge-desk/internal/domain"
	"github.com/segyhp/pledge-desk/internal/photo"
	"github.com/segyhp/pledge-desk/internal/repository"
	customError "github.com/segyhp/pledge-desk/pkg/errors"
	"github.com/segyhp/pledge-desk/pkg/format"
	"github.com/segyhp/pledge-desk/pkg/utils"
)

// RateStore is where the operator's default interest rate lives.
type RateStore interface {
	DefaultInterestRate(ctx context.Context, fallback decimal.Decimal) decimal.Decimal
	SetDefaultInterestRate(ctx context.Context, rate decimal.Decimal) error
}

// PledgeForm is everything the new-pledge screen needs before the operator types.
type PledgeForm struct {
	Customers           []domain.Customer `json:"customers"`
	DefaultInterestRate decimal.Decimal   `json:"defaultInterestRate"`
	DefaultDuration     int               `json:"defaultDuration"`
	Purities            []string          `json:"purities"`
	PhotoSlots          []photo.View      `json:"photoSlots"`
}

type PledgeService struct {
	PledgeRepo   repository.PledgeRepository
	PaymentRepo  repository.PaymentRepository
	CustomerRepo repository.CustomerRepository
	uploader     photo.Uploader
	validator    *Validator
	guard        *SubmissionGuard
	config       *config.Config
	now          func() time.Time
}

func NewPledgeService(
	pledgeRepo repository.PledgeRepository,
	paymentRepo repository.PaymentRepository,
	customerRepo repository.CustomerRepository,
	uploader photo.Uploader,
	validator *Validator,
	guard *SubmissionGuard,
	config *config.Config,
) *PledgeService {
	return &PledgeService{
		PledgeRepo:   pledgeRepo,
		PaymentRepo:  paymentRepo,
		CustomerRepo: customerRepo,
		uploader:     uploader,
		validator:    validator,
		guard:        guard,
		config:       config,
		now:          time.Now,
	}
}

func (s *PledgeService) defaultDuration() int {
	if s.config != nil && s.config.Business.DefaultDuration > 0 {
		return s.config.Business.DefaultDuration
	}
	return domain.DefaultPledgeDuration
}

func (s *PledgeService) defaultRate(ctx context.Context, rates RateStore) decimal.Decimal {
	fallback := decimal.NewFromInt(2)
	if s.config != nil {
		fallback = s.config.GetDefaultInterestRate()
	}
	if rates == nil {
		return fallback
	}
	return rates.DefaultInterestRate(ctx, fallback)
}

// NewPledgeForm loads the customer picker (filtered by name or phone) and
// the defaults for a fresh form.
func (s *PledgeService) NewPledgeForm(ctx context.Context, sess backend.Session, rates RateStore, search string) (*PledgeForm, error) {
	customers, err := s.CustomerRepo.List(ctx, sess)
	if err != nil {
		return nil, backendError(err)
	}

	picker := make([]domain.Customer, 0, len(customers))
	for _, c := range customers {
		if c.MatchesPicker(search) {
			picker = append(picker, c)
		}
	}

	views := make([]photo.View, 0, len(domain.PhotoSlots))
	for _, name := range domain.PhotoSlots {
		views = append(views, photo.NewSlot(name, nil).View())
	}

	return &PledgeForm{
		Customers:           picker,
		DefaultInterestRate: s.defaultRate(ctx, rates),
		DefaultDuration:     s.defaultDuration(),
		Purities:            domain.Purities,
		PhotoSlots:          views,
	}, nil
}

// Preview computes the live interest estimate. An omitted rate or duration
// falls back to the defaults; a typed non-positive value yields no preview.
// A positive typed rate becomes the operator's new default.
func (s *PledgeService) Preview(ctx context.Context, rates RateStore, request domain.PreviewRequest) *domain.InterestPreview {
	var rate decimal.Decimal
	switch {
	case request.InterestRate == nil:
		rate = s.defaultRate(ctx, rates)
	case request.InterestRate.IsPositive():
		rate = *request.InterestRate
		if rates != nil {
			if err := rates.SetDefaultInterestRate(ctx, rate); err != nil {
				log.WithError(err).Warn("failed to persist default interest rate")
			}
		}
	default:
		return nil
	}

	months := s.defaultDuration()
	if request.PledgeDuration != nil {
		months = *request.PledgeDuration
	}

	return domain.PreviewInterest(request.Amount, rate, months)
}

// validatePledge runs every local check of the full form. Nothing here
// touches the network.
func (s *PledgeService) validatePledge(request *domain.CreatePledgeRequest) (time.Time, error) {
	request.Normalize()

	fields := s.validator.Fields(request)
	var deadline time.Time
	if request.Deadline == "" {
		if fields == nil {
			fields = map[string]string{}
		}
		fields["deadline"] = customError.MsgDeadlineRequired
	} else if parsed, err := domain.ParseLocalTime(request.Deadline); err != nil {
		if fields == nil {
			fields = map[string]string{}
		}
		fields["deadline"] = "Invalid deadline date"
	} else {
		deadline = parsed.Time
	}

	if fields != nil {
		return time.Time{}, customError.WrapValidation(fields)
	}
	return deadline, nil
}

func missingPhotos(photos domain.Photos) map[string]string {
	missing := photos.Missing()
	if len(missing) == 0 {
		return nil
	}
	fields := make(map[string]string, len(missing))
	for _, slot := range missing {
		field := slot + "Photo"
		fields[field] = message(field, "required")
	}
	return fields
}

// CreatePledge is the full flow: explicit deadline and all three photos.
func (s *PledgeService) CreatePledge(ctx context.Context, sess backend.Session, rates RateStore, request *domain.CreatePledgeRequest) (*domain.Pledge, error) {
	payload, err := s.pledgePayload(ctx, rates, request)
	if err != nil {
		return nil, err
	}
	return s.submit(ctx, sess, FormPledge, payload)
}

func (s *PledgeService) pledgePayload(ctx context.Context, rates RateStore, request *domain.CreatePledgeRequest) (domain.PledgePayload, error) {
	deadline, err := s.validatePledge(request)
	if err != nil {
		return domain.PledgePayload{}, err
	}
	if fields := missingPhotos(request.Photos); fields != nil {
		return domain.PledgePayload{}, customError.WrapPhotosRequired(fields)
	}

	rate := request.InterestRate
	if !rate.IsPositive() {
		rate = s.defaultRate(ctx, rates)
	}

	description := request.Notes
	if description == "" {
		description = utils.DescriptionFallback(request.ItemType, request.Weight, request.Purity)
	}

	return domain.PledgePayload{
		CustomerID:     request.CustomerID,
		Title:          request.ItemType,
		Description:    description,
		Amount:         request.Amount,
		InterestRate:   rate,
		Deadline:       domain.NewLocalTime(deadline).String(),
		PledgeDuration: request.PledgeDuration,
		ItemType:       request.ItemType,
		Weight:         request.Weight,
		Purity:         request.Purity,
		Status:         request.Status,
		Notes:          request.Notes,
		CustomerPhoto:  strings.TrimSpace(request.Customer),
		ItemPhoto:      strings.TrimSpace(request.Item),
		ReceiptPhoto:   strings.TrimSpace(request.Receipt),
	}, nil
}

// CreatePledgeWithPhotos runs the full flow with raw images. Form fields are
// checked first so an invalid form never uploads anything. The submission
// lock is held before the first upload, and every image is checked before
// any of them uploads; the three uploads then run concurrently.
func (s *PledgeService) CreatePledgeWithPhotos(ctx context.Context, sess backend.Session, rates RateStore, request *domain.CreatePledgeRequest, images map[string]io.Reader) (*domain.Pledge, error) {
	if _, err := s.validatePledge(request); err != nil {
		return nil, err
	}

	var created *domain.Pledge
	err := s.guard.Do(ctx, sess.ClientID, FormPledge, func() error {
		if err := s.uploadPhotos(ctx, request, images); err != nil {
			return err
		}
		payload, err := s.pledgePayload(ctx, rates, request)
		if err != nil {
			return err
		}
		created, err = s.create(ctx, sess, FormPledge, payload)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *PledgeService) uploadPhotos(ctx context.Context, request *domain.CreatePledgeRequest, images map[string]io.Reader) error {
	selected := make(map[string]io.Reader, len(domain.PhotoSlots))
	for _, slot := range domain.PhotoSlots {
		if image, ok := images[slot]; ok {
			selected[slot] = image
		}
	}

	set := photo.NewSet(ctx, s.uploader, photo.Folder(request.CustomerID))
	if failed := set.CaptureAll(selected); failed != nil {
		fields := make(map[string]string, len(failed))
		for slot := range failed {
			fields[slot+"Photo"] = "Please choose an image file"
		}
		return customError.WrapValidation(fields)
	}

	photos, err := set.Photos()
	if err != nil {
		return err
	}
	for _, slot := range domain.PhotoSlots {
		if url := photos.Get(slot); url != "" {
			request.Photos.Set(slot, url)
		}
	}
	return nil
}

// CreateSimplePledge is the simplified flow: the deadline is derived from the
// duration (30-day months) and photos are optional.
func (s *PledgeService) CreateSimplePledge(ctx context.Context, sess backend.Session, rates RateStore, request *domain.CreateSimplePledgeRequest) (*domain.Pledge, error) {
	request.Normalize(s.defaultDuration())
	if fields := s.validator.Fields(request); fields != nil {
		return nil, customError.WrapMissingRequired(fields)
	}

	rate := request.InterestRate
	if !rate.IsPositive() {
		rate = s.defaultRate(ctx, rates)
	}

	title := request.ItemType
	if title == "" {
		title = "Pledge"
	}
	description := request.Description
	if description == "" {
		description = utils.DescriptionFallback(request.ItemType, request.Weight, request.Purity)
	}

	deadline := utils.DeadlineFromDuration(s.now().UTC(), request.PledgeDuration)

	payload := domain.PledgePayload{
		CustomerID:     request.CustomerID,
		Title:          title,
		Description:    description,
		Amount:         request.Amount,
		InterestRate:   rate,
		Deadline:       domain.NewLocalTime(deadline).String(),
		PledgeDuration: request.PledgeDuration,
		ItemType:       request.ItemType,
		Weight:         request.Weight,
		Purity:         request.Purity,
		Status:         domain.PledgeStatusActive,
		Notes:          request.Notes,
		CustomerPhoto:  strings.TrimSpace(request.Customer),
		ItemPhoto:      strings.TrimSpace(request.Item),
		ReceiptPhoto:   strings.TrimSpace(request.Receipt),
	}

	return s.submit(ctx, sess, FormSimplePledge, payload)
}

func (s *PledgeService) submit(ctx context.Context, sess backend.Session, form string, payload domain.PledgePayload) (*domain.Pledge, error) {
	var created *domain.Pledge
	err := s.guard.Do(ctx, sess.ClientID, form, func() error {
		var err error
		created, err = s.create(ctx, sess, form, payload)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// create posts the pledge. Callers hold the submission lock for form.
func (s *PledgeService) create(ctx context.Context, sess backend.Session, form string, payload domain.PledgePayload) (*domain.Pledge, error) {
	created, err := s.PledgeRepo.Create(ctx, sess, payload)
	if err != nil {
		return nil, backendError(err)
	}

	log.WithFields(log.Fields{
		"pledge_id":   created.ID,
		"customer_id": payload.CustomerID,
		"form":        form,
	}).Info("pledge created")
	return created, nil
}

// CapturePhoto uploads a single image the way the capture widget does and
// reports the slot's resulting status.
func (s *PledgeService) CapturePhoto(ctx context.Context, slot string, customerID int64, image io.Reader) (photo.Status, error) {
	set := photo.NewSet(ctx, s.uploader, photo.Folder(customerID))
	if err := set.Capture(slot, image); err != nil {
		return photo.Empty(), customError.WrapValidation(map[string]string{slot + "Photo": "Please choose an image file"})
	}
	set.Wait()
	return set.Status(slot), nil
}

func (s *PledgeService) getPledge(ctx context.Context, sess backend.Session, id int64) (*domain.Pledge, error) {
	pledge, err := s.PledgeRepo.GetByID(ctx, sess, id)
	if err != nil {
		if isNotFound(err) {
			return nil, customError.WrapPledgeNotFound(id)
		}
		return nil, backendError(err)
	}
	return pledge, nil
}

// Detail loads a pledge with its payment history and the display totals.
// A failed payment-history fetch leaves the history empty.
func (s *PledgeService) Detail(ctx context.Context, sess backend.Session, id int64) (*domain.PledgeDetail, error) {
	pledge, err := s.getPledge(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	pledge.NormalizeForDisplay()

	payments, err := s.PaymentRepo.ListByPledge(ctx, sess, id)
	if err != nil {
		log.WithError(err).WithField("pledge_id", id).Warn("payment history unavailable")
		payments = []domain.Payment{}
	}

	monthly := utils.CalculateMonthlyInterest(pledge.Amount, pledge.InterestRate)
	totalInterest := utils.CalculateTotalInterest(pledge.Amount, pledge.InterestRate, pledge.PledgeDuration)
	totalPayable := pledge.Amount.Add(totalInterest)
	amountPaid := domain.TotalPaid(payments)
	balance := pledge.Balance()

	money := func(d decimal.Decimal) string {
		return format.FormatIndianCurrency(d, format.WithCurrency())
	}

	return &domain.PledgeDetail{
		Pledge:          *pledge,
		Payments:        payments,
		StatusTone:      domain.StatusTone(pledge.Status),
		MonthlyInterest: monthly,
		TotalInterest:   totalInterest,
		TotalPayable:    totalPayable,
		AmountPaid:      amountPaid,
		Balance:         balance,
		Display: domain.DetailDisplay{
			Amount:          money(pledge.Amount),
			MonthlyInterest: money(monthly),
			TotalInterest:   money(totalInterest),
			TotalPayable:    money(totalPayable),
			AmountPaid:      money(amountPaid),
			Balance:         money(balance),
		},
	}, nil
}

// UpdateAmount replaces the principal. Non-positive or unchanged values are
// a no-op that returns the current record.
func (s *PledgeService) UpdateAmount(ctx context.Context, sess backend.Session, id int64, amount decimal.Decimal) (*domain.Pledge, error) {
	return s.update(ctx, sess, id, func(p *domain.Pledge) bool {
		if !amount.IsPositive() || amount.Equal(p.Amount) {
			return false
		}
		p.Amount = amount
		return true
	})
}

// UpdateRate replaces the monthly interest rate, with the same no-op rules.
func (s *PledgeService) UpdateRate(ctx context.Context, sess backend.Session, id int64, rate decimal.Decimal) (*domain.Pledge, error) {
	return s.update(ctx, sess, id, func(p *domain.Pledge) bool {
		if !rate.IsPositive() || rate.Equal(p.InterestRate) {
			return false
		}
		p.InterestRate = rate
		return true
	})
}

func (s *PledgeService) update(ctx context.Context, sess backend.Session, id int64, apply func(*domain.Pledge) bool) (*domain.Pledge, error) {
	pledge, err := s.getPledge(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	if !apply(pledge) {
		return pledge, nil
	}
	if pledge.PledgeDuration <= 0 {
		pledge.PledgeDuration = domain.DefaultPledgeDuration
	}

	var updated *domain.Pledge
	err = s.guard.Do(ctx, sess.ClientID, FormPledgeEdit, func() error {
		result, err := s.PledgeRepo.Update(ctx, sess, pledge)
		if err != nil {
			return backendError(err)
		}
		updated = result
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithField("pledge_id", id).Info("pledge updated")
	return updated, nil
}

// Delete removes a pledge; the backend also drops its payments.
func (s *PledgeService) Delete(ctx context.Context, sess backend.Session, id int64) error {
	if err := s.PledgeRepo.Delete(ctx, sess, id); err != nil {
		if isNotFound(err) {
			return customError.WrapPledgeNotFound(id)
		}
		return backendError(err)
	}
	log.WithField("pledge_id", id).Info("pledge deleted")
	return nil
}

// OverduePledges lists ACTIVE pledges whose deadline is before now.
func (s *PledgeService) OverduePledges(ctx context.Context, sess backend.Session, now time.Time) ([]domain.Pledge, error) {
	pledges, err := s.PledgeRepo.List(ctx, sess)
	if err != nil {
		return nil, backendError(err)
	}

	overdue := make([]domain.Pledge, 0)
	for _, p := range pledges {
		if p.IsActive() && !p.Deadline.IsZero() && p.Deadline.Before(now) {
			overdue = append(overdue, p)
		}
	}
	return overdue, nil
}
