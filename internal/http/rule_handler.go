package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/studio-booking/internal/application"
)

type durationRuleService interface {
	CreateDurationRule(ctx context.Context, principal application.Principal, input application.DurationRuleInput) (application.DurationRule, error)
	UpdateDurationRule(ctx context.Context, principal application.Principal, ruleID string, input application.DurationRuleInput) (application.DurationRule, error)
	DeleteDurationRule(ctx context.Context, principal application.Principal, ruleID string) error
	ListDurationRules(ctx context.Context) ([]application.DurationRule, error)
}

// DurationRuleHandler serves the (subject, proposal) duration table.
type DurationRuleHandler struct {
	service   durationRuleService
	previews  previewInvalidator
	responder responder
	logger    *slog.Logger
}

func NewDurationRuleHandler(service durationRuleService, previews previewInvalidator, logger *slog.Logger) *DurationRuleHandler {
	base := defaultLogger(logger)
	return &DurationRuleHandler{service: service, previews: previews, responder: newResponder(base), logger: base}
}

type durationRuleRequest struct {
	Subject  string `json:"subject"`
	Proposal string `json:"proposal"`
	Duration string `json:"duration"`
}

func (req durationRuleRequest) toInput() application.DurationRuleInput {
	return application.DurationRuleInput{
		Subject:  req.Subject,
		Proposal: req.Proposal,
		Duration: req.Duration,
	}
}

func (h *DurationRuleHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req durationRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	created, err := h.service.CreateDurationRule(r.Context(), principal, req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	if h.previews != nil {
		h.previews.Invalidate()
	}
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toDurationRuleDTO(created))
}

func (h *DurationRuleHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	var req durationRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	updated, err := h.service.UpdateDurationRule(r.Context(), principal, id, req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	if h.previews != nil {
		h.previews.Invalidate()
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toDurationRuleDTO(updated))
}

func (h *DurationRuleHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	if err := h.service.DeleteDurationRule(r.Context(), principal, id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	if h.previews != nil {
		h.previews.Invalidate()
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *DurationRuleHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	records, err := h.service.ListDurationRules(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]durationRuleDTO, 0, len(records))
	for _, record := range records {
		dtos = append(dtos, toDurationRuleDTO(record))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, dtos)
}
