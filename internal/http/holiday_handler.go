package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/example/studio-booking/internal/holiday"
)

// HolidayHandler serves the Brazilian national holiday calendar used by the
// booking form to flag non-working dates.
type HolidayHandler struct {
	responder responder
	logger    *slog.Logger
}

func NewHolidayHandler(logger *slog.Logger) *HolidayHandler {
	base := defaultLogger(logger)
	return &HolidayHandler{responder: newResponder(base), logger: base}
}

type holidayDTO struct {
	Date string `json:"date"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// List answers GET /holidays?year=YYYY.
func (h *HolidayHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	raw := strings.TrimSpace(r.URL.Query().Get("year"))
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1 {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	holidays := holiday.ForYear(year)
	dtos := make([]holidayDTO, 0, len(holidays))
	for _, entry := range holidays {
		dtos = append(dtos, holidayDTO{
			Date: entry.Date,
			Name: entry.Name,
			Kind: entry.Kind,
		})
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, dtos)
}
