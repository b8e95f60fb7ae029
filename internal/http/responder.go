package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/studio-booking/internal/application"
	"github.com/example/studio-booking/internal/booking"
)

var (
	errBadRequestBody      = errors.New("Formato de requisição inválido.")
	errInvalidResourceID   = errors.New("Identificador inválido.")
	errMissingSessionToken = errors.New("Informe o token de autenticação.")
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := localizedStatusMessage(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{Message: message})
}

func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("unknown error"))
		return
	}

	switch {
	case errors.Is(err, application.ErrUnauthorized):
		r.writeJSON(ctx, w, http.StatusForbidden, errorResponse{
			ErrorCode: "AUTH_FORBIDDEN",
			Message:   "Você não tem permissão para executar esta operação.",
		})
	case errors.Is(err, application.ErrNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Message: "Recurso não encontrado."})
	case errors.Is(err, application.ErrAlreadyExists):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{Message: "Já existe um registro com esses dados."})
	case errors.Is(err, application.ErrEditWindowExpired):
		r.writeJSON(ctx, w, http.StatusForbidden, errorResponse{
			ErrorCode: "BOOKING_EDIT_WINDOW_EXPIRED",
			Message:   "Você só pode editar seu agendamento nos primeiros 5 minutos após criá-lo.",
		})
	case errors.Is(err, application.ErrNotPermitted):
		r.writeJSON(ctx, w, http.StatusForbidden, errorResponse{
			ErrorCode: "BOOKING_NOT_PERMITTED",
			Message:   "Você não tem permissão para editar ou cancelar este agendamento.",
		})
	case errors.Is(err, application.ErrNoDurationRule):
		r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
			Message: "Nenhuma regra de duração cadastrada para esta disciplina e proposta.",
		})
	case errors.Is(err, booking.ErrBookingConflict):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{
			ErrorCode: "BOOKING_CONFLICT",
			Message:   "Conflito de horário com outro evento no mesmo estúdio.",
		})
	case errors.Is(err, booking.ErrBlackoutConflict):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{
			ErrorCode: "BOOKING_BLACKOUT",
			Message:   "Este estúdio está indisponível nesse horário (manutenção/limpeza).",
		})
	case errors.Is(err, booking.ErrNoShifts), isGapError(err):
		r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
			ErrorCode: "BOOKING_NO_TECHNICIAN",
			Message:   "Nenhum técnico disponível para o horário selecionado.",
		})
	case errors.Is(err, application.ErrInvalidCredentials):
		r.writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{
			ErrorCode: "AUTH_INVALID_CREDENTIALS",
			Message:   "E-mail ou senha incorretos.",
		})
	case errors.Is(err, application.ErrAccountDisabled):
		r.writeJSON(ctx, w, http.StatusForbidden, errorResponse{Message: "Esta conta está desativada."})
	case errors.Is(err, application.ErrSessionExpired), errors.Is(err, application.ErrSessionRevoked):
		r.writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{Message: "Sessão expirada. Faça login novamente."})
	default:
		var vErr *application.ValidationError
		if errors.As(err, &vErr) {
			r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
				Message: "Preencha todos os campos.",
				Errors:  localizeValidationErrors(vErr),
			})
			return
		}

		r.loggerFor(ctx).ErrorContext(ctx, "unexpected service error", "error", err)
		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Message: "Erro interno do servidor."})
	}
}

func isGapError(err error) bool {
	var gapErr *booking.GapError
	return errors.As(err, &gapErr)
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

func localizedStatusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "Requisição inválida."
	case http.StatusUnauthorized:
		return "Autenticação necessária."
	case http.StatusForbidden:
		return "Você não tem permissão para executar esta operação."
	case http.StatusNotFound:
		return "Recurso não encontrado."
	case http.StatusConflict:
		return "A requisição conflita com o estado atual do recurso."
	case http.StatusUnprocessableEntity:
		return "Preencha todos os campos."
	default:
		return "Erro interno do servidor."
	}
}

func localizeValidationErrors(vErr *application.ValidationError) map[string]string {
	if vErr == nil || len(vErr.FieldErrors) == 0 {
		return nil
	}

	translated := make(map[string]string, len(vErr.FieldErrors))
	for field, msg := range vErr.FieldErrors {
		translated[field] = translateValidationMessage(msg)
	}
	return translated
}

func translateValidationMessage(message string) string {
	switch message {
	case "date is required":
		return "A data é obrigatória."
	case "date must be YYYY-MM-DD":
		return "A data deve estar no formato AAAA-MM-DD."
	case "studio is required":
		return "O estúdio é obrigatório."
	case "unknown studio":
		return "Estúdio desconhecido."
	case "subject is required":
		return "A disciplina é obrigatória."
	case "proposal is required":
		return "A proposta é obrigatória."
	case "professor is required":
		return "O professor é obrigatório."
	case "technician is required":
		return "O técnico é obrigatório."
	case "type is required":
		return "O tipo é obrigatório."
	case "unknown session type":
		return "Tipo de sessão desconhecido."
	case "start is required":
		return "O horário de início é obrigatório."
	case "start must be HH:MM":
		return "O horário de início deve estar no formato HH:MM."
	case "end must be HH:MM":
		return "O horário de término deve estar no formato HH:MM."
	case "start must be before end":
		return "O horário de término deve ser posterior ao de início."
	case "resolved duration must be positive":
		return "A duração cadastrada deve ser positiva."
	case "duration must be H:MM":
		return "A duração deve estar no formato H:MM."
	case "duration must be positive":
		return "A duração deve ser positiva."
	case "weekday must be between 0 and 6":
		return "O dia da semana deve estar entre 0 (domingo) e 6 (sábado)."
	case "from must be YYYY-MM-DD":
		return "A data inicial deve estar no formato AAAA-MM-DD."
	case "to must be YYYY-MM-DD":
		return "A data final deve estar no formato AAAA-MM-DD."
	case "from must not be after to":
		return "A data inicial não pode ser posterior à final."
	case "email is required":
		return "O e-mail é obrigatório."
	case "email must be valid":
		return "O e-mail informado é inválido."
	case "display name is required":
		return "O nome de exibição é obrigatório."
	case "password must be at least 8 characters":
		return "A senha deve ter pelo menos 8 caracteres."
	case "user id is required":
		return "O identificador do usuário é obrigatório."
	case "cannot delete own account":
		return "Não é possível excluir a própria conta."
	default:
		return message
	}
}

type errorResponse struct {
	ErrorCode string            `json:"error_code,omitempty"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
}
