package service

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/segyhp/pledge-desk/internal/storage"
	customError "github.com/segyhp/pledge-desk/pkg/errors"
)

// DefaultSubmissionTTL caps how long a crashed submission can hold its lock.
const DefaultSubmissionTTL = 60 * time.Second

// Form names used as guard keys.
const (
	FormCustomer     = "customer"
	FormPledge       = "pledge"
	FormSimplePledge = "pledge-simple"
	FormPledgeEdit   = "pledge-edit"
)

// SubmissionGuard allows one in-flight submission per client and form,
// standing in for the disabled submit button.
type SubmissionGuard struct {
	locker storage.Locker
	ttl    time.Duration
}

func NewSubmissionGuard(locker storage.Locker, ttl time.Duration) *SubmissionGuard {
	if ttl <= 0 {
		ttl = DefaultSubmissionTTL
	}
	return &SubmissionGuard{locker: locker, ttl: ttl}
}

// Do runs fn while holding the (clientID, form) lock.
func (g *SubmissionGuard) Do(ctx context.Context, clientID, form string, fn func() error) error {
	key := clientID + ":" + form

	token, ok, err := g.locker.Acquire(ctx, key, g.ttl)
	if err != nil {
		return customError.WrapStorageError(err)
	}
	if !ok {
		return customError.WrapSubmissionInFlight(form)
	}

	defer func() {
		// Release even when the request context is already cancelled.
		if err := g.locker.Release(context.Background(), key, token); err != nil {
			log.WithError(err).WithField("key", key).Warn("failed to release submission lock")
		}
	}()

	return fn()
}
