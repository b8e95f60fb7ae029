package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/studio-booking/internal/application"
)

type blackoutService interface {
	CreateBlackout(ctx context.Context, principal application.Principal, input application.BlackoutInput) (application.Blackout, error)
	DeleteBlackout(ctx context.Context, principal application.Principal, id string) error
	ListBlackouts(ctx context.Context, studio string) ([]application.Blackout, error)
}

// BlackoutHandler serves studio unavailability windows.
type BlackoutHandler struct {
	service   blackoutService
	previews  previewInvalidator
	responder responder
	logger    *slog.Logger
}

func NewBlackoutHandler(service blackoutService, previews previewInvalidator, logger *slog.Logger) *BlackoutHandler {
	base := defaultLogger(logger)
	return &BlackoutHandler{service: service, previews: previews, responder: newResponder(base), logger: base}
}

type blackoutRequest struct {
	Studio string `json:"studio"`
	Date   string `json:"date"`
	Start  string `json:"start"`
	End    string `json:"end"`
	Reason string `json:"reason"`
}

func (h *BlackoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req blackoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	created, err := h.service.CreateBlackout(r.Context(), principal, application.BlackoutInput{
		Studio: req.Studio,
		Date:   req.Date,
		Start:  req.Start,
		End:    req.End,
		Reason: req.Reason,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	if h.previews != nil {
		h.previews.Invalidate()
	}
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toBlackoutDTO(created))
}

func (h *BlackoutHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	if err := h.service.DeleteBlackout(r.Context(), principal, id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	if h.previews != nil {
		h.previews.Invalidate()
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *BlackoutHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	studio := strings.TrimSpace(r.URL.Query().Get("studio"))
	records, err := h.service.ListBlackouts(r.Context(), studio)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]blackoutDTO, 0, len(records))
	for _, record := range records {
		dtos = append(dtos, toBlackoutDTO(record))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, dtos)
}
