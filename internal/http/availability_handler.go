package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/studio-booking/internal/application"
)

type availabilityService interface {
	Evaluate(ctx context.Context, query application.AvailabilityQuery) (application.Availability, error)
}

// AvailabilityHandler serves draft booking previews for the reservation form.
type AvailabilityHandler struct {
	service   availabilityService
	responder responder
	logger    *slog.Logger
}

func NewAvailabilityHandler(service availabilityService, logger *slog.Logger) *AvailabilityHandler {
	base := defaultLogger(logger)
	return &AvailabilityHandler{service: service, responder: newResponder(base), logger: base}
}

// Evaluate answers GET /availability with the derived end time, staffing
// segments and technician assignment for a draft interval.
func (h *AvailabilityHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	query := r.URL.Query()
	availability, err := h.service.Evaluate(r.Context(), application.AvailabilityQuery{
		Studio:           strings.TrimSpace(query.Get("studio")),
		Date:             strings.TrimSpace(query.Get("date")),
		Subject:          strings.TrimSpace(query.Get("subject")),
		Proposal:         strings.TrimSpace(query.Get("proposal")),
		Start:            strings.TrimSpace(query.Get("start")),
		ExcludeBookingID: strings.TrimSpace(query.Get("exclude")),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toAvailabilityDTO(availability))
}
