package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/segyhp/pledge-desk/internal/domain"
	"github.com/segyhp/pledge-desk/internal/session"
	"github.com/segyhp/pledge-desk/pkg/response"
)

type CustomerHandler struct {
	service  CustomerService
	sessions *session.Manager
}

func NewCustomerHandler(service CustomerService, sessions *session.Manager) *CustomerHandler {
	return &CustomerHandler{
		service:  service,
		sessions: sessions,
	}
}

// Register mounts the customer routes on r.
func (h *CustomerHandler) Register(r *mux.Router) {
	r.HandleFunc("/customers", h.List).Methods(http.MethodGet)
	r.HandleFunc("/customers", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/customers/{id}", h.Delete).Methods(http.MethodDelete)
}

// List handles GET /customers?search=
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	customers, err := h.service.List(r.Context(), h.sessions.Resolve(r), r.URL.Query().Get("search"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Success(w, customers)
}

// Create handles POST /customers
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	customer, err := h.service.Create(r.Context(), h.sessions.Resolve(r), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Created(w, "Customer created successfully", customer)
}

// Delete handles DELETE /customers/{id} and returns the refreshed list.
func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.BadRequest(w, "Invalid customer ID", err)
		return
	}

	customers, err := h.service.Delete(r.Context(), h.sessions.Resolve(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.SuccessMessage(w, http.StatusOK, "Customer deleted successfully", customers)
}
