package service

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/segyhp/pledge-desk/internal/backend"
	"github.com/segyhp/pledge-desk/internal/domain"
	"github.com/segyhp/pledge-desk/internal/repository"
	customError "github.com/segyhp/pledge-desk/pkg/errors"
)

type CustomerService struct {
	CustomerRepo repository.CustomerRepository
	validator    *Validator
	guard        *SubmissionGuard
}

func NewCustomerService(
	customerRepo repository.CustomerRepository,
	validator *Validator,
	guard *SubmissionGuard,
) *CustomerService {
	return &CustomerService{
		CustomerRepo: customerRepo,
		validator:    validator,
		guard:        guard,
	}
}

// List fetches customers and filters them by name, phone, email or address.
func (s *CustomerService) List(ctx context.Context, sess backend.Session, search string) ([]domain.Customer, error) {
	customers, err := s.CustomerRepo.List(ctx, sess)
	if err != nil {
		return nil, backendError(err)
	}

	filtered := make([]domain.Customer, 0, len(customers))
	for _, c := range customers {
		if c.MatchesSearch(search) {
			filtered = append(filtered, c)
		}
	}
	return filtered, nil
}

// Create validates the form and creates the customer. Blank optional
// fields reach the backend as null.
func (s *CustomerService) Create(ctx context.Context, sess backend.Session, request *domain.CreateCustomerRequest) (*domain.Customer, error) {
	request.Normalize()
	if fields := s.validator.Fields(request); fields != nil {
		return nil, customError.WrapValidation(fields)
	}

	var created *domain.Customer
	err := s.guard.Do(ctx, sess.ClientID, FormCustomer, func() error {
		customer, err := s.CustomerRepo.Create(ctx, sess, request.Payload())
		if err != nil {
			return backendError(err)
		}
		created = customer
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithField("customer_id", created.ID).Info("customer created")
	return created, nil
}

// Delete removes a customer and returns the refreshed list.
func (s *CustomerService) Delete(ctx context.Context, sess backend.Session, id int64) ([]domain.Customer, error) {
	if err := s.CustomerRepo.Delete(ctx, sess, id); err != nil {
		return nil, backendError(err)
	}

	log.WithField("customer_id", id).Info("customer deleted")
	return s.List(ctx, sess, "")
}
