package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/example/studio-booking/internal/application"
	"github.com/example/studio-booking/internal/booking"
)

type bookingServiceStub struct {
	createFn  func(ctx context.Context, params application.CreateBookingParams) (application.Booking, application.Availability, error)
	updateFn  func(ctx context.Context, params application.UpdateBookingParams) (application.Booking, application.Availability, error)
	cancelFn  func(ctx context.Context, principal application.Principal, bookingID string) error
	getFn     func(ctx context.Context, bookingID string) (application.Booking, error)
	listFn    func(ctx context.Context, params application.ListBookingsParams) ([]application.Booking, error)
	historyFn func(ctx context.Context, principal application.Principal, bookingID string) ([]application.AuditRecord, error)
}

func (s *bookingServiceStub) CreateBooking(ctx context.Context, params application.CreateBookingParams) (application.Booking, application.Availability, error) {
	if s.createFn == nil {
		return application.Booking{}, application.Availability{}, nil
	}
	return s.createFn(ctx, params)
}

func (s *bookingServiceStub) UpdateBooking(ctx context.Context, params application.UpdateBookingParams) (application.Booking, application.Availability, error) {
	if s.updateFn == nil {
		return application.Booking{}, application.Availability{}, nil
	}
	return s.updateFn(ctx, params)
}

func (s *bookingServiceStub) CancelBooking(ctx context.Context, principal application.Principal, bookingID string) error {
	if s.cancelFn == nil {
		return nil
	}
	return s.cancelFn(ctx, principal, bookingID)
}

func (s *bookingServiceStub) GetBooking(ctx context.Context, bookingID string) (application.Booking, error) {
	if s.getFn == nil {
		return application.Booking{}, nil
	}
	return s.getFn(ctx, bookingID)
}

func (s *bookingServiceStub) ListBookings(ctx context.Context, params application.ListBookingsParams) ([]application.Booking, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, params)
}

func (s *bookingServiceStub) ListHistory(ctx context.Context, principal application.Principal, bookingID string) ([]application.AuditRecord, error) {
	if s.historyFn == nil {
		return nil, nil
	}
	return s.historyFn(ctx, principal, bookingID)
}

type previewRecorder struct {
	calls int
}

func (p *previewRecorder) Invalidate() {
	p.calls++
}

type authServiceStub struct {
	authenticateFn func(ctx context.Context, params application.AuthenticateParams) (application.AuthenticateResult, error)
	revokeFn       func(ctx context.Context, token string) error
}

func (s *authServiceStub) Authenticate(ctx context.Context, params application.AuthenticateParams) (application.AuthenticateResult, error) {
	if s.authenticateFn == nil {
		return application.AuthenticateResult{}, application.ErrInvalidCredentials
	}
	return s.authenticateFn(ctx, params)
}

func (s *authServiceStub) RevokeSession(ctx context.Context, token string) error {
	if s.revokeFn == nil {
		return nil
	}
	return s.revokeFn(ctx, token)
}

type availabilityServiceStub struct {
	evaluateFn func(ctx context.Context, query application.AvailabilityQuery) (application.Availability, error)
}

func (s *availabilityServiceStub) Evaluate(ctx context.Context, query application.AvailabilityQuery) (application.Availability, error) {
	if s.evaluateFn == nil {
		return application.Availability{}, nil
	}
	return s.evaluateFn(ctx, query)
}

func newBookingRouter(t *testing.T, service bookingService, previews previewInvalidator) http.Handler {
	t.Helper()
	return NewRouter(RouterConfig{Bookings: NewBookingHandler(service, previews, nil)})
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestCreateBookingReturnsDerivedSchedule(t *testing.T) {
	created := application.Booking{
		ID:          "bk-1",
		Date:        "2026-03-10",
		Start:       840,
		End:         900,
		Studio:      "Estudio 170",
		Subject:     "Matemática",
		Proposal:    "Gravação",
		Professor:   "Prof. Lima",
		Technicians: []string{"Ana", "Bruno"},
		Type:        application.TypeRecording,
		OwnerID:     "user-1",
	}
	availability := application.Availability{
		Start: 840,
		End:   900,
		Segments: []application.CoverageSegment{
			{Start: 840, End: 900, Technicians: []string{"Ana", "Bruno"}},
		},
		Technicians: []string{"Ana", "Bruno"},
	}

	var gotInput application.BookingInput
	service := &bookingServiceStub{
		createFn: func(_ context.Context, params application.CreateBookingParams) (application.Booking, application.Availability, error) {
			gotInput = params.Input
			return created, availability, nil
		},
	}
	previews := &previewRecorder{}
	router := newBookingRouter(t, service, previews)

	payload := `{"date":"2026-03-10","studio":"Estudio 170","subject":"Matemática","proposal":"Gravação","professor":"Prof. Lima","type":"Gravação","start":"14:00"}`
	req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}
	if gotInput.Start != "14:00" || gotInput.Studio != "Estudio 170" {
		t.Fatalf("unexpected input forwarded to service: %+v", gotInput)
	}
	if previews.calls != 1 {
		t.Fatalf("preview invalidations = %d, want 1", previews.calls)
	}

	body := decodeBody(t, rec)
	bookingBody, ok := body["booking"].(map[string]any)
	if !ok {
		t.Fatalf("response missing booking object: %v", body)
	}
	if bookingBody["start"] != "14:00" || bookingBody["end"] != "15:00" {
		t.Fatalf("booking times = %v/%v, want 14:00/15:00", bookingBody["start"], bookingBody["end"])
	}
	if bookingBody["technician"] != "Ana / Bruno" {
		t.Fatalf("technician = %v, want joined names", bookingBody["technician"])
	}
	availabilityBody, ok := body["availability"].(map[string]any)
	if !ok {
		t.Fatalf("response missing availability object: %v", body)
	}
	if availabilityBody["end"] != "15:00" {
		t.Fatalf("availability end = %v, want 15:00", availabilityBody["end"])
	}
}

func TestCreateBookingConflictAnswersLocalizedError(t *testing.T) {
	service := &bookingServiceStub{
		createFn: func(context.Context, application.CreateBookingParams) (application.Booking, application.Availability, error) {
			return application.Booking{}, application.Availability{}, booking.ErrBookingConflict
		},
	}
	previews := &previewRecorder{}
	router := newBookingRouter(t, service, previews)

	req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(`{"start":"14:00"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
	if previews.calls != 0 {
		t.Fatalf("preview invalidations = %d, want 0 on failure", previews.calls)
	}

	body := decodeBody(t, rec)
	if body["error_code"] != "BOOKING_CONFLICT" {
		t.Fatalf("error_code = %v, want BOOKING_CONFLICT", body["error_code"])
	}
	if body["message"] != "Conflito de horário com outro evento no mesmo estúdio." {
		t.Fatalf("unexpected message %v", body["message"])
	}
}

func TestCreateBookingValidationErrorsAreTranslated(t *testing.T) {
	service := &bookingServiceStub{
		createFn: func(context.Context, application.CreateBookingParams) (application.Booking, application.Availability, error) {
			return application.Booking{}, application.Availability{}, &application.ValidationError{
				FieldErrors: map[string]string{
					"start": "start must be HH:MM",
					"date":  "date is required",
				},
			}
		},
	}
	router := newBookingRouter(t, service, &previewRecorder{})

	req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
	body := decodeBody(t, rec)
	if body["message"] != "Preencha todos os campos." {
		t.Fatalf("message = %v", body["message"])
	}
	fieldErrors, ok := body["errors"].(map[string]any)
	if !ok {
		t.Fatalf("response missing errors map: %v", body)
	}
	if fieldErrors["start"] != "O horário de início deve estar no formato HH:MM." {
		t.Fatalf("start field error = %v", fieldErrors["start"])
	}
	if fieldErrors["date"] != "A data é obrigatória." {
		t.Fatalf("date field error = %v", fieldErrors["date"])
	}
}

func TestUpdateBookingAfterGraceIsForbidden(t *testing.T) {
	var gotID string
	service := &bookingServiceStub{
		updateFn: func(_ context.Context, params application.UpdateBookingParams) (application.Booking, application.Availability, error) {
			gotID = params.BookingID
			return application.Booking{}, application.Availability{}, application.ErrEditWindowExpired
		},
	}
	router := newBookingRouter(t, service, &previewRecorder{})

	req := httptest.NewRequest(http.MethodPut, "/bookings/bk-9", strings.NewReader(`{"start":"14:00"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
	if gotID != "bk-9" {
		t.Fatalf("booking id = %q, want bk-9", gotID)
	}
	body := decodeBody(t, rec)
	if body["error_code"] != "BOOKING_EDIT_WINDOW_EXPIRED" {
		t.Fatalf("error_code = %v", body["error_code"])
	}
}

func TestBookingHistoryRouteEmbedsSnapshots(t *testing.T) {
	var gotID string
	service := &bookingServiceStub{
		historyFn: func(_ context.Context, _ application.Principal, bookingID string) ([]application.AuditRecord, error) {
			gotID = bookingID
			return []application.AuditRecord{
				{
					ID:        "audit-1",
					BookingID: bookingID,
					Action:    "update",
					After:     []byte(`{"start":840}`),
				},
			}, nil
		},
	}
	router := newBookingRouter(t, service, &previewRecorder{})

	req := httptest.NewRequest(http.MethodGet, "/bookings/bk-3/history", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	if gotID != "bk-3" {
		t.Fatalf("booking id = %q, want bk-3", gotID)
	}

	var records []map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&records); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	after, ok := records[0]["after"].(map[string]any)
	if !ok {
		t.Fatalf("after snapshot not embedded as object: %v", records[0]["after"])
	}
	if after["start"] != float64(840) {
		t.Fatalf("after.start = %v, want 840", after["start"])
	}
	if _, present := records[0]["before"]; present {
		t.Fatalf("empty before snapshot should be omitted: %v", records[0])
	}
}

func TestBookingsMethodNotAllowed(t *testing.T) {
	router := newBookingRouter(t, &bookingServiceStub{}, &previewRecorder{})

	req := httptest.NewRequest(http.MethodDelete, "/bookings", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
	if allow := rec.Header().Get("Allow"); allow != "GET, POST" {
		t.Fatalf("Allow = %q, want GET, POST", allow)
	}
}

func TestAvailabilityEndpointForwardsQuery(t *testing.T) {
	var gotQuery application.AvailabilityQuery
	service := &availabilityServiceStub{
		evaluateFn: func(_ context.Context, query application.AvailabilityQuery) (application.Availability, error) {
			gotQuery = query
			return application.Availability{
				Start:       690,
				End:         750,
				Relay:       true,
				Technicians: []string{"Ana", "Bruno"},
				Segments: []application.CoverageSegment{
					{Start: 690, End: 720, Technicians: []string{"Ana"}},
					{Start: 720, End: 750, Technicians: []string{"Bruno"}},
				},
			}, nil
		},
	}
	router := NewRouter(RouterConfig{Availability: NewAvailabilityHandler(service, nil)})

	target := "/availability?studio=Estudio+170&date=2026-03-10&subject=Matem%C3%A1tica&proposal=Grava%C3%A7%C3%A3o&start=11:30&exclude=bk-1"
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	if gotQuery.Studio != "Estudio 170" || gotQuery.Start != "11:30" || gotQuery.ExcludeBookingID != "bk-1" {
		t.Fatalf("unexpected query forwarded: %+v", gotQuery)
	}

	body := decodeBody(t, rec)
	if body["relay"] != true {
		t.Fatalf("relay = %v, want true", body["relay"])
	}
	if body["start"] != "11:30" || body["end"] != "12:30" {
		t.Fatalf("interval = %v/%v, want 11:30/12:30", body["start"], body["end"])
	}
	segments, ok := body["segments"].([]any)
	if !ok || len(segments) != 2 {
		t.Fatalf("segments = %v, want 2 entries", body["segments"])
	}
}

func TestAvailabilityEndpointReportsGap(t *testing.T) {
	service := &availabilityServiceStub{
		evaluateFn: func(context.Context, application.AvailabilityQuery) (application.Availability, error) {
			return application.Availability{}, &booking.GapError{At: 720}
		},
	}
	router := NewRouter(RouterConfig{Availability: NewAvailabilityHandler(service, nil)})

	req := httptest.NewRequest(http.MethodGet, "/availability?studio=Estudio+170", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
	body := decodeBody(t, rec)
	if body["error_code"] != "BOOKING_NO_TECHNICIAN" {
		t.Fatalf("error_code = %v", body["error_code"])
	}
}

func TestLoginIssuesTokenHeaderAndCookie(t *testing.T) {
	expires := time.Date(2026, time.March, 10, 15, 0, 0, 0, time.UTC)
	service := &authServiceStub{
		authenticateFn: func(_ context.Context, params application.AuthenticateParams) (application.AuthenticateResult, error) {
			if params.Email != "ana@escola.br" {
				t.Fatalf("email = %q, want lowercased ana@escola.br", params.Email)
			}
			return application.AuthenticateResult{
				User: application.User{ID: "user-1", Email: params.Email, DisplayName: "Ana", IsAdmin: true},
				Session: application.Session{
					ID:        "sess-1",
					UserID:    "user-1",
					Token:     "opaque-token",
					ExpiresAt: expires,
				},
			}, nil
		},
	}
	router := NewRouter(RouterConfig{Auth: NewAuthHandler(service, nil)})

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"ANA@escola.br","password":"senha-secreta"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	if got := rec.Header().Get("X-Session-Token"); got != "opaque-token" {
		t.Fatalf("X-Session-Token = %q", got)
	}

	var sessionCookie *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == sessionCookieName {
			sessionCookie = cookie
		}
	}
	if sessionCookie == nil || sessionCookie.Value != "opaque-token" {
		t.Fatalf("session cookie = %+v, want opaque-token", sessionCookie)
	}
	if !sessionCookie.HttpOnly {
		t.Fatalf("session cookie must be http-only")
	}

	body := decodeBody(t, rec)
	if body["token"] != "opaque-token" {
		t.Fatalf("token = %v", body["token"])
	}
	principal, ok := body["principal"].(map[string]any)
	if !ok || principal["is_admin"] != true {
		t.Fatalf("principal = %v", body["principal"])
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	router := NewRouter(RouterConfig{Auth: NewAuthHandler(&authServiceStub{}, nil)})

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"ana@escola.br","password":"errada"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	body := decodeBody(t, rec)
	if body["error_code"] != "AUTH_INVALID_CREDENTIALS" {
		t.Fatalf("error_code = %v", body["error_code"])
	}
}

func TestLogoutRevokesBearerTokenAndClearsCookie(t *testing.T) {
	var revoked string
	service := &authServiceStub{
		revokeFn: func(_ context.Context, token string) error {
			revoked = token
			return nil
		},
	}
	router := NewRouter(RouterConfig{Auth: NewAuthHandler(service, nil)})

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.Header.Set("Authorization", "Bearer opaque-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if revoked != "opaque-token" {
		t.Fatalf("revoked token = %q", revoked)
	}

	var cleared bool
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == sessionCookieName && cookie.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatalf("session cookie was not cleared: %v", rec.Result().Cookies())
	}
}

func TestHolidaysEndpoint(t *testing.T) {
	router := NewRouter(RouterConfig{Holidays: NewHolidayHandler(nil)})

	req := httptest.NewRequest(http.MethodGet, "/holidays?year=2026", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var holidays []holidayDTO
	if err := json.NewDecoder(rec.Body).Decode(&holidays); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	byName := make(map[string]holidayDTO, len(holidays))
	for _, entry := range holidays {
		byName[entry.Name] = entry
	}
	if byName["Natal"].Date != "2026-12-25" {
		t.Fatalf("Natal = %+v", byName["Natal"])
	}
	if byName["Carnaval"].Date == "" {
		t.Fatalf("movable holidays missing: %v", byName)
	}
}

func TestHolidaysEndpointRejectsMissingYear(t *testing.T) {
	router := NewRouter(RouterConfig{Holidays: NewHolidayHandler(nil)})

	req := httptest.NewRequest(http.MethodGet, "/holidays", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
