// Package session scopes stored settings to one browser and resolves the
// backend session for each inbound request.
package session

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/segyhp/pledge-desk/internal/apiurl"
	"github.com/segyhp/pledge-desk/internal/backend"
	"github.com/segyhp/pledge-desk/internal/storage"
	pkgerrors "github.com/segyhp/pledge-desk/pkg/errors"
	"github.com/segyhp/pledge-desk/pkg/format"
)

// CookieName identifies the browser across requests.
const CookieName = "pledge_client"

// Storage keys.
const (
	KeyToken               = "token"
	KeyAPIURL              = "apiUrl"
	KeyDefaultInterestRate = "defaultInterestRate"
)

const cookieMaxAge = 365 * 24 * 60 * 60

type contextKey struct{}

// ClientID returns the client id placed in ctx by Middleware.
func ClientID(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}

// WithClientID returns a copy of ctx carrying id.
func WithClientID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// Manager owns the client cookie and builds per-request sessions.
type Manager struct {
	store        storage.Store
	resolver     apiurl.Resolver
	defaultRate  decimal.Decimal
	secureCookie bool
}

func NewManager(store storage.Store, resolver apiurl.Resolver, defaultRate decimal.Decimal, secureCookie bool) *Manager {
	return &Manager{
		store:        store,
		resolver:     resolver,
		defaultRate:  defaultRate,
		secureCookie: secureCookie,
	}
}

// Middleware makes sure every request carries a client id, issuing a new
// cookie when the browser has none (or a malformed one).
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := ""
		if c, err := r.Cookie(CookieName); err == nil {
			if id, err := uuid.Parse(c.Value); err == nil {
				clientID = id.String()
			}
		}

		if clientID == "" {
			clientID = uuid.New().String()
			http.SetCookie(w, &http.Cookie{
				Name:     CookieName,
				Value:    clientID,
				Path:     "/",
				MaxAge:   cookieMaxAge,
				HttpOnly: true,
				Secure:   m.secureCookie,
				SameSite: http.SameSiteLaxMode,
			})
		}

		next.ServeHTTP(w, r.WithContext(WithClientID(r.Context(), clientID)))
	})
}

// Settings returns the settings of the client attached to ctx.
func (m *Manager) Settings(ctx context.Context) *Settings {
	return &Settings{store: m.store, clientID: ClientID(ctx)}
}

// DefaultRate is the configured rate used when a client has not stored one.
func (m *Manager) DefaultRate() decimal.Decimal {
	return m.defaultRate
}

// Resolve reads the base URL and token once for r.
func (m *Manager) Resolve(r *http.Request) backend.Session {
	ctx := r.Context()
	settings := m.Settings(ctx)

	token, err := settings.Token(ctx)
	if err != nil {
		log.WithError(err).WithField("client_id", settings.clientID).Warn("token unavailable, continuing without it")
		token = ""
	}

	return backend.Session{
		BaseURL:  m.resolver.Resolve(ctx, settings, apiurl.PageOrigin(r)),
		Token:    token,
		ClientID: settings.clientID,
	}
}

// View is what the settings screen shows.
type View struct {
	ClientID            string          `json:"clientId"`
	APIURL              string          `json:"apiUrl"`
	APIOverride         string          `json:"apiOverride,omitempty"`
	HasToken            bool            `json:"hasToken"`
	TokenExpiresAt      *time.Time      `json:"tokenExpiresAt,omitempty"`
	TokenExpired        bool            `json:"tokenExpired"`
	DefaultInterestRate decimal.Decimal `json:"defaultInterestRate"`
}

// Snapshot gathers the current settings for r's client.
func (m *Manager) Snapshot(r *http.Request) (*View, error) {
	ctx := r.Context()
	settings := m.Settings(ctx)
	sess := m.Resolve(r)

	override, err := settings.APIOverride(ctx)
	if err != nil {
		return nil, pkgerrors.WrapStorageError(err)
	}

	view := &View{
		ClientID:            sess.ClientID,
		APIURL:              sess.BaseURL,
		APIOverride:         override,
		HasToken:            sess.Token != "",
		DefaultInterestRate: settings.DefaultInterestRate(ctx, m.defaultRate),
	}

	if sess.Token != "" {
		if exp, err := TokenExpiry(sess.Token); err == nil && exp != nil {
			view.TokenExpiresAt = exp
			view.TokenExpired = time.Now().After(*exp)
		}
	}

	return view, nil
}

// Settings reads and writes one client's stored values. Values are read on
// demand and never cached.
type Settings struct {
	store    storage.Store
	clientID string
}

// NewSettings binds store to clientID.
func NewSettings(store storage.Store, clientID string) *Settings {
	return &Settings{store: store, clientID: clientID}
}

func (s *Settings) get(ctx context.Context, key string) (string, error) {
	value, err := s.store.Get(ctx, s.clientID, key)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	return value, err
}

// Token returns the stored bearer token, or "" when none is stored.
func (s *Settings) Token(ctx context.Context) (string, error) {
	return s.get(ctx, KeyToken)
}

func (s *Settings) SetToken(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return pkgerrors.WrapInvalidSetting(KeyToken, "Token must not be empty")
	}
	if err := s.store.Set(ctx, s.clientID, KeyToken, token); err != nil {
		return pkgerrors.WrapStorageError(err)
	}
	return nil
}

func (s *Settings) ClearToken(ctx context.Context) error {
	if err := s.store.Delete(ctx, s.clientID, KeyToken); err != nil {
		return pkgerrors.WrapStorageError(err)
	}
	return nil
}

// APIOverride returns the manually stored backend URL, or "".
func (s *Settings) APIOverride(ctx context.Context) (string, error) {
	return s.get(ctx, KeyAPIURL)
}

func (s *Settings) SetAPIOverride(ctx context.Context, raw string) error {
	raw = strings.TrimSpace(raw)
	if !apiurl.IsHTTPURL(raw) {
		return pkgerrors.WrapInvalidSetting(KeyAPIURL, "API URL must be a valid http or https URL")
	}
	if err := s.store.Set(ctx, s.clientID, KeyAPIURL, raw); err != nil {
		return pkgerrors.WrapStorageError(err)
	}
	return nil
}

func (s *Settings) ClearAPIOverride(ctx context.Context) error {
	if err := s.store.Delete(ctx, s.clientID, KeyAPIURL); err != nil {
		return pkgerrors.WrapStorageError(err)
	}
	return nil
}

// DefaultInterestRate returns the stored rate when it is a positive number,
// otherwise fallback.
func (s *Settings) DefaultInterestRate(ctx context.Context, fallback decimal.Decimal) decimal.Decimal {
	raw, err := s.get(ctx, KeyDefaultInterestRate)
	if err != nil || raw == "" {
		return fallback
	}
	rate, ok := format.ParseNumber(raw)
	if !ok || !rate.IsPositive() {
		return fallback
	}
	return rate
}

// SetDefaultInterestRate stores rate. Non-positive rates are ignored.
func (s *Settings) SetDefaultInterestRate(ctx context.Context, rate decimal.Decimal) error {
	if !rate.IsPositive() {
		return nil
	}
	if err := s.store.Set(ctx, s.clientID, KeyDefaultInterestRate, rate.String()); err != nil {
		return pkgerrors.WrapStorageError(err)
	}
	return nil
}

// TokenExpiry reads the exp claim without verifying the signature. It is
// for display only; the backend remains the authority on token validity.
// A token without exp yields nil.
func TokenExpiry(token string) (*time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, errors.Wrap(err, "parse token")
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, errors.Wrap(err, "read exp claim")
	}
	if exp == nil {
		return nil, nil
	}
	t := exp.Time
	return &t, nil
}
