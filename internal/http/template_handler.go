package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/studio-booking/internal/application"
	"github.com/example/studio-booking/internal/booking"
)

type templateService interface {
	CreateFixedSlot(ctx context.Context, principal application.Principal, input application.FixedSlotInput) (application.FixedSlot, error)
	DeleteFixedSlot(ctx context.Context, principal application.Principal, slotID string) error
	ListFixedSlots(ctx context.Context, principal application.Principal) ([]application.FixedSlot, error)
	GenerateBookings(ctx context.Context, principal application.Principal, params application.GenerateParams) (application.GenerateReport, error)
}

// TemplateHandler serves weekly session templates and their batch
// materialization.
type TemplateHandler struct {
	service   templateService
	previews  previewInvalidator
	responder responder
	logger    *slog.Logger
}

func NewTemplateHandler(service templateService, previews previewInvalidator, logger *slog.Logger) *TemplateHandler {
	base := defaultLogger(logger)
	return &TemplateHandler{service: service, previews: previews, responder: newResponder(base), logger: base}
}

type fixedSlotRequest struct {
	Subject     string   `json:"subject"`
	Proposal    string   `json:"proposal"`
	Professor   string   `json:"professor"`
	Studio      string   `json:"studio"`
	Technicians []string `json:"technicians"`
	Weekday     int      `json:"weekday"`
	Start       string   `json:"start"`
	End         string   `json:"end"`
	Type        string   `json:"type"`
}

type generateRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type skippedOccurrenceDTO struct {
	SlotID string `json:"slot_id"`
	Date   string `json:"date"`
	Studio string `json:"studio"`
	Start  string `json:"start"`
	End    string `json:"end"`
}

type generateResponse struct {
	Created []bookingDTO           `json:"created"`
	Skipped []skippedOccurrenceDTO `json:"skipped"`
}

func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req fixedSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	created, err := h.service.CreateFixedSlot(r.Context(), principal, application.FixedSlotInput{
		Subject:     req.Subject,
		Proposal:    req.Proposal,
		Professor:   req.Professor,
		Studio:      req.Studio,
		Technicians: req.Technicians,
		Weekday:     time.Weekday(req.Weekday),
		Start:       req.Start,
		End:         req.End,
		Type:        req.Type,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toFixedSlotDTO(created))
}

func (h *TemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	if err := h.service.DeleteFixedSlot(r.Context(), principal, id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	records, err := h.service.ListFixedSlots(r.Context(), principal)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]fixedSlotDTO, 0, len(records))
	for _, record := range records {
		dtos = append(dtos, toFixedSlotDTO(record))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, dtos)
}

// Generate materializes templates into bookings over a date range.
func (h *TemplateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	report, err := h.service.GenerateBookings(r.Context(), principal, application.GenerateParams{
		From: req.From,
		To:   req.To,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	if h.previews != nil {
		h.previews.Invalidate()
	}

	created := make([]bookingDTO, 0, len(report.Created))
	for _, record := range report.Created {
		created = append(created, toBookingDTO(record))
	}
	skipped := make([]skippedOccurrenceDTO, 0, len(report.Skipped))
	for _, occurrence := range report.Skipped {
		skipped = append(skipped, skippedOccurrenceDTO{
			SlotID: occurrence.SlotID,
			Date:   occurrence.Date,
			Studio: occurrence.Studio,
			Start:  booking.FormatClock(occurrence.Start),
			End:    booking.FormatClock(occurrence.End),
		})
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, generateResponse{Created: created, Skipped: skipped})
}
