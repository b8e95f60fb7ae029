package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/studio-booking/internal/application"
)

type permissionService interface {
	UpsertPermission(ctx context.Context, principal application.Principal, input application.PermissionInput) (application.Permission, error)
	GetPermission(ctx context.Context, principal application.Principal, userID string) (application.Permission, error)
	ListPermissions(ctx context.Context, principal application.Principal) ([]application.Permission, error)
	DeletePermission(ctx context.Context, principal application.Principal, userID string) error
}

// PermissionHandler serves explicit edit/cancel grants.
type PermissionHandler struct {
	service   permissionService
	responder responder
	logger    *slog.Logger
}

func NewPermissionHandler(service permissionService, logger *slog.Logger) *PermissionHandler {
	base := defaultLogger(logger)
	return &PermissionHandler{service: service, responder: newResponder(base), logger: base}
}

type permissionRequest struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	CanEdit     bool   `json:"can_edit"`
	CanCancel   bool   `json:"can_cancel"`
}

func (h *PermissionHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req permissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	record, err := h.service.UpsertPermission(r.Context(), principal, application.PermissionInput{
		UserID:      req.UserID,
		DisplayName: req.DisplayName,
		CanEdit:     req.CanEdit,
		CanCancel:   req.CanCancel,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toPermissionDTO(record))
}

func (h *PermissionHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	userID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(userID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	record, err := h.service.GetPermission(r.Context(), principal, userID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toPermissionDTO(record))
}

func (h *PermissionHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	records, err := h.service.ListPermissions(r.Context(), principal)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]permissionDTO, 0, len(records))
	for _, record := range records {
		dtos = append(dtos, toPermissionDTO(record))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, dtos)
}

func (h *PermissionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	userID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(userID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	if err := h.service.DeletePermission(r.Context(), principal, userID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}
