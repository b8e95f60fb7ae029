package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/studio-booking/internal/application"
)

type bookingService interface {
	CreateBooking(ctx context.Context, params application.CreateBookingParams) (application.Booking, application.Availability, error)
	UpdateBooking(ctx context.Context, params application.UpdateBookingParams) (application.Booking, application.Availability, error)
	CancelBooking(ctx context.Context, principal application.Principal, bookingID string) error
	GetBooking(ctx context.Context, bookingID string) (application.Booking, error)
	ListBookings(ctx context.Context, params application.ListBookingsParams) ([]application.Booking, error)
	ListHistory(ctx context.Context, principal application.Principal, bookingID string) ([]application.AuditRecord, error)
}

// previewInvalidator drops cached availability previews after a mutation.
type previewInvalidator interface {
	Invalidate()
}

// BookingHandler serves booking CRUD and the per-booking audit trail.
type BookingHandler struct {
	service   bookingService
	previews  previewInvalidator
	responder responder
	logger    *slog.Logger
}

func NewBookingHandler(service bookingService, previews previewInvalidator, logger *slog.Logger) *BookingHandler {
	base := defaultLogger(logger)
	return &BookingHandler{service: service, previews: previews, responder: newResponder(base), logger: base}
}

type bookingRequest struct {
	Date      string `json:"date"`
	Studio    string `json:"studio"`
	Subject   string `json:"subject"`
	Proposal  string `json:"proposal"`
	Professor string `json:"professor"`
	Type      string `json:"type"`
	Start     string `json:"start"`
}

func (req bookingRequest) toInput() application.BookingInput {
	return application.BookingInput{
		Date:      req.Date,
		Studio:    req.Studio,
		Subject:   req.Subject,
		Proposal:  req.Proposal,
		Professor: req.Professor,
		Type:      req.Type,
		Start:     req.Start,
	}
}

type bookingResponse struct {
	Booking      bookingDTO      `json:"booking"`
	Availability availabilityDTO `json:"availability"`
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	created, availability, err := h.service.CreateBooking(r.Context(), application.CreateBookingParams{
		Principal: principal,
		Input:     req.toInput(),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.invalidatePreviews()
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, bookingResponse{
		Booking:      toBookingDTO(created),
		Availability: toAvailabilityDTO(availability),
	})
}

func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	bookingID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(bookingID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	updated, availability, err := h.service.UpdateBooking(r.Context(), application.UpdateBookingParams{
		Principal: principal,
		BookingID: bookingID,
		Input:     req.toInput(),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.invalidatePreviews()
	h.responder.writeJSON(r.Context(), w, http.StatusOK, bookingResponse{
		Booking:      toBookingDTO(updated),
		Availability: toAvailabilityDTO(availability),
	})
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	bookingID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(bookingID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	if err := h.service.CancelBooking(r.Context(), principal, bookingID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.invalidatePreviews()
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	bookingID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(bookingID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	record, err := h.service.GetBooking(r.Context(), bookingID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toBookingDTO(record))
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	query := r.URL.Query()
	records, err := h.service.ListBookings(r.Context(), application.ListBookingsParams{
		Date:   strings.TrimSpace(query.Get("date")),
		Studio: strings.TrimSpace(query.Get("studio")),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]bookingDTO, 0, len(records))
	for _, record := range records {
		dtos = append(dtos, toBookingDTO(record))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, dtos)
}

// History returns the audit trail of a booking. Snapshots are re-encoded as
// embedded JSON objects.
func (h *BookingHandler) History(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	bookingID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(bookingID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	records, err := h.service.ListHistory(r.Context(), principal, bookingID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]auditRecordDTO, 0, len(records))
	for _, record := range records {
		dtos = append(dtos, auditRecordDTO{
			ID:         record.ID,
			BookingID:  record.BookingID,
			Action:     record.Action,
			ActorID:    record.ActorID,
			ActorEmail: record.ActorEmail,
			Before:     rawSnapshot(record.Before),
			After:      rawSnapshot(record.After),
			CreatedAt:  record.CreatedAt,
		})
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, dtos)
}

func (h *BookingHandler) invalidatePreviews() {
	if h.previews != nil {
		h.previews.Invalidate()
	}
}

func rawSnapshot(data []byte) any {
	if len(data) == 0 {
		return nil
	}
	return json.RawMessage(data)
}
