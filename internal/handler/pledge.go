package handler

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/segyhp/pledge-desk/internal/domain"
	"github.com/segyhp/pledge-desk/internal/session"
	"github.com/segyhp/pledge-desk/pkg/format"
	"github.com/segyhp/pledge-desk/pkg/response"
)

type PledgeHandler struct {
	service  PledgeService
	sessions *session.Manager
}

func NewPledgeHandler(service PledgeService, sessions *session.Manager) *PledgeHandler {
	return &PledgeHandler{
		service:  service,
		sessions: sessions,
	}
}

// Register mounts the pledge and photo routes on r.
func (h *PledgeHandler) Register(r *mux.Router) {
	r.HandleFunc("/pledges/new", h.NewForm).Methods(http.MethodGet)
	r.HandleFunc("/pledges/preview", h.Preview).Methods(http.MethodPost)
	r.HandleFunc("/pledges/simple", h.CreateSimple).Methods(http.MethodPost)
	r.HandleFunc("/pledges", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/pledges/{id:[0-9]+}", h.Detail).Methods(http.MethodGet)
	r.HandleFunc("/pledges/{id:[0-9]+}/amount", h.UpdateAmount).Methods(http.MethodPut)
	r.HandleFunc("/pledges/{id:[0-9]+}/rate", h.UpdateRate).Methods(http.MethodPut)
	r.HandleFunc("/pledges/{id:[0-9]+}", h.Delete).Methods(http.MethodDelete)
	r.HandleFunc("/photos/{slot}", h.CapturePhoto).Methods(http.MethodPost)
}

// NewForm handles GET /pledges/new?search=
func (h *PledgeHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	form, err := h.service.NewPledgeForm(ctx, h.sessions.Resolve(r), h.sessions.Settings(ctx), r.URL.Query().Get("search"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Success(w, form)
}

// Preview handles POST /pledges/preview. Data is null until amount, rate
// and duration are all positive.
func (h *PledgeHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req domain.PreviewRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	response.Success(w, h.service.Preview(ctx, h.sessions.Settings(ctx), req))
}

// Create handles POST /pledges. JSON bodies carry photo URLs; multipart
// bodies may carry the images themselves.
func (h *PledgeHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := h.sessions.Resolve(r)
	rates := h.sessions.Settings(ctx)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		req, images, closeFiles, err := readPledgeForm(w, r)
		if err != nil {
			response.BadRequest(w, "Invalid form data", err)
			return
		}
		defer closeFiles()

		pledge, err := h.service.CreatePledgeWithPhotos(ctx, sess, rates, req, images)
		if err != nil {
			writeError(w, r, err)
			return
		}
		response.Created(w, "Pledge created successfully", pledge)
		return
	}

	var req domain.CreatePledgeRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	pledge, err := h.service.CreatePledge(ctx, sess, rates, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Created(w, "Pledge created successfully", pledge)
}

// CreateSimple handles POST /pledges/simple
func (h *PledgeHandler) CreateSimple(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateSimplePledgeRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	pledge, err := h.service.CreateSimplePledge(ctx, h.sessions.Resolve(r), h.sessions.Settings(ctx), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Created(w, "Pledge created successfully", pledge)
}

// Detail handles GET /pledges/{id}
func (h *PledgeHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.BadRequest(w, "Invalid pledge ID", err)
		return
	}

	detail, err := h.service.Detail(r.Context(), h.sessions.Resolve(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Success(w, detail)
}

// UpdateAmount handles PUT /pledges/{id}/amount
func (h *PledgeHandler) UpdateAmount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.BadRequest(w, "Invalid pledge ID", err)
		return
	}

	var req domain.UpdateAmountRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	pledge, err := h.service.UpdateAmount(r.Context(), h.sessions.Resolve(r), id, req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Success(w, pledge)
}

// UpdateRate handles PUT /pledges/{id}/rate
func (h *PledgeHandler) UpdateRate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.BadRequest(w, "Invalid pledge ID", err)
		return
	}

	var req domain.UpdateRateRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	pledge, err := h.service.UpdateRate(r.Context(), h.sessions.Resolve(r), id, req.InterestRate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Success(w, pledge)
}

// Delete handles DELETE /pledges/{id}
func (h *PledgeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.BadRequest(w, "Invalid pledge ID", err)
		return
	}

	if err := h.service.Delete(r.Context(), h.sessions.Resolve(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	response.SuccessMessage(w, http.StatusOK, "Pledge deleted successfully", nil)
}

// CapturePhoto handles POST /photos/{slot}?customerId= with the image in
// the "file" part, and reports the slot's upload status.
func (h *PledgeHandler) CapturePhoto(w http.ResponseWriter, r *http.Request) {
	slot := mux.Vars(r)["slot"]
	if !isPhotoSlot(slot) {
		response.NotFound(w, "Unknown photo slot")
		return
	}

	customerID, _ := strconv.ParseInt(r.URL.Query().Get("customerId"), 10, 64)

	r.Body = http.MaxBytesReader(w, r.Body, maxMultipartBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "Please choose an image file", err)
		return
	}
	defer file.Close()

	status, err := h.service.CapturePhoto(r.Context(), slot, customerID, file)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Success(w, status)
}

func isPhotoSlot(name string) bool {
	for _, slot := range domain.PhotoSlots {
		if slot == name {
			return true
		}
	}
	return false
}

// readPledgeForm maps a multipart full-flow submission onto the request.
// A "<slot>Photo" part is taken as an image when it is a file and as an
// already uploaded URL when it is a plain value. Unparseable numbers are
// left at zero for validation to report.
func readPledgeForm(w http.ResponseWriter, r *http.Request) (*domain.CreatePledgeRequest, map[string]io.Reader, func(), error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxMultipartBytes)
	if err := r.ParseMultipartForm(maxMultipartBytes); err != nil {
		return nil, nil, nil, errors.Wrap(err, "parse multipart form")
	}

	value := func(key string) string { return strings.TrimSpace(r.FormValue(key)) }

	req := &domain.CreatePledgeRequest{
		ItemType: value("itemType"),
		Purity:   value("purity"),
		Notes:    value("notes"),
		Deadline: value("deadline"),
		Status:   value("status"),
	}
	req.CustomerID, _ = strconv.ParseInt(value("customerId"), 10, 64)
	req.Weight, _ = strconv.ParseFloat(value("weight"), 64)
	req.PledgeDuration, _ = strconv.Atoi(value("pledgeDuration"))
	req.Amount = format.ParseAmount(value("amount"))
	req.InterestRate = format.ParseAmount(value("interestRate"))

	images := make(map[string]io.Reader)
	var files []multipart.File
	closeFiles := func() {
		for _, f := range files {
			f.Close()
		}
	}

	for _, slot := range domain.PhotoSlots {
		field := slot + "Photo"
		if headers := r.MultipartForm.File[field]; len(headers) > 0 {
			f, err := headers[0].Open()
			if err != nil {
				closeFiles()
				return nil, nil, nil, errors.Wrapf(err, "open %s", field)
			}
			files = append(files, f)
			images[slot] = f
			continue
		}
		req.Photos.Set(slot, value(field))
	}

	return req, images, closeFiles, nil
}
