package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/segyhp/pledge-desk/internal/session"
	customError "github.com/segyhp/pledge-desk/pkg/errors"
	"github.com/segyhp/pledge-desk/pkg/response"
)

// SettingsHandler exposes the per-client values kept in storage: backend
// URL override, bearer token and default interest rate.
type SettingsHandler struct {
	sessions *session.Manager
}

func NewSettingsHandler(sessions *session.Manager) *SettingsHandler {
	return &SettingsHandler{sessions: sessions}
}

type apiURLRequest struct {
	APIURL string `json:"apiUrl"`
}

type tokenRequest struct {
	Token string `json:"token"`
}

type interestRateRequest struct {
	InterestRate decimal.Decimal `json:"interestRate"`
}

// Register mounts the settings routes on r.
func (h *SettingsHandler) Register(r *mux.Router) {
	r.HandleFunc("/settings", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/settings/api-url", h.SetAPIURL).Methods(http.MethodPut)
	r.HandleFunc("/settings/api-url", h.ClearAPIURL).Methods(http.MethodDelete)
	r.HandleFunc("/settings/token", h.SetToken).Methods(http.MethodPut)
	r.HandleFunc("/settings/token", h.ClearToken).Methods(http.MethodDelete)
	r.HandleFunc("/settings/interest-rate", h.SetInterestRate).Methods(http.MethodPut)
}

// Get handles GET /settings
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.sessions.Snapshot(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Success(w, view)
}

func (h *SettingsHandler) SetAPIURL(w http.ResponseWriter, r *http.Request) {
	var req apiURLRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.sessions.Settings(r.Context()).SetAPIOverride(r.Context(), req.APIURL); err != nil {
		writeError(w, r, err)
		return
	}
	h.Get(w, r)
}

func (h *SettingsHandler) ClearAPIURL(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Settings(r.Context()).ClearAPIOverride(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	h.Get(w, r)
}

func (h *SettingsHandler) SetToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.sessions.Settings(r.Context()).SetToken(r.Context(), req.Token); err != nil {
		writeError(w, r, err)
		return
	}
	h.Get(w, r)
}

func (h *SettingsHandler) ClearToken(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Settings(r.Context()).ClearToken(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	h.Get(w, r)
}

// SetInterestRate handles PUT /settings/interest-rate
func (h *SettingsHandler) SetInterestRate(w http.ResponseWriter, r *http.Request) {
	var req interestRateRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if !req.InterestRate.IsPositive() {
		writeError(w, r, customError.WrapInvalidSetting(session.KeyDefaultInterestRate, "Interest rate must be greater than 0"))
		return
	}
	if err := h.sessions.Settings(r.Context()).SetDefaultInterestRate(r.Context(), req.InterestRate); err != nil {
		writeError(w, r, err)
		return
	}
	h.Get(w, r)
}
