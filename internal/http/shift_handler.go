package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/studio-booking/internal/application"
)

type shiftService interface {
	CreateShift(ctx context.Context, principal application.Principal, input application.ShiftInput) (application.Shift, error)
	UpdateShift(ctx context.Context, principal application.Principal, shiftID string, input application.ShiftInput) (application.Shift, error)
	DeleteShift(ctx context.Context, principal application.Principal, shiftID string) error
	ListShifts(ctx context.Context, studio string, weekday *time.Weekday) ([]application.Shift, error)
}

// ShiftHandler serves the weekly technician staffing grid.
type ShiftHandler struct {
	service   shiftService
	previews  previewInvalidator
	responder responder
	logger    *slog.Logger
}

func NewShiftHandler(service shiftService, previews previewInvalidator, logger *slog.Logger) *ShiftHandler {
	base := defaultLogger(logger)
	return &ShiftHandler{service: service, previews: previews, responder: newResponder(base), logger: base}
}

type shiftRequest struct {
	Technician string `json:"technician"`
	Studio     string `json:"studio"`
	Weekday    int    `json:"weekday"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Active     bool   `json:"active"`
}

func (req shiftRequest) toInput() application.ShiftInput {
	return application.ShiftInput{
		Technician: req.Technician,
		Studio:     req.Studio,
		Weekday:    time.Weekday(req.Weekday),
		Start:      req.Start,
		End:        req.End,
		Active:     req.Active,
	}
}

func (h *ShiftHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req shiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	created, err := h.service.CreateShift(r.Context(), principal, req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	if h.previews != nil {
		h.previews.Invalidate()
	}
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toShiftDTO(created))
}

func (h *ShiftHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	var req shiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	updated, err := h.service.UpdateShift(r.Context(), principal, id, req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	if h.previews != nil {
		h.previews.Invalidate()
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toShiftDTO(updated))
}

func (h *ShiftHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	if err := h.service.DeleteShift(r.Context(), principal, id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	if h.previews != nil {
		h.previews.Invalidate()
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *ShiftHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	query := r.URL.Query()
	studio := strings.TrimSpace(query.Get("studio"))

	var weekday *time.Weekday
	if raw := strings.TrimSpace(query.Get("weekday")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 || value > 6 {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
			return
		}
		day := time.Weekday(value)
		weekday = &day
	}

	records, err := h.service.ListShifts(r.Context(), studio, weekday)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]shiftDTO, 0, len(records))
	for _, record := range records {
		dtos = append(dtos, toShiftDTO(record))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, dtos)
}
