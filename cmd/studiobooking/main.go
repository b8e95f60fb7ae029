package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/example/studio-booking/internal/application"
	"github.com/example/studio-booking/internal/config"
	httptransport "github.com/example/studio-booking/internal/http"
	"github.com/example/studio-booking/internal/persistence"
	"github.com/example/studio-booking/internal/persistence/sqlite"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A missing .env is fine; the environment may be set by the supervisor.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("failed to load .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	pool, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := pool.Close(); cerr != nil {
			logger.Error("failed to close database", "error", cerr)
		}
	}()

	if err := pool.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	idGenerator := uuid.NewString
	now := time.Now

	bookingRepo := sqlite.NewBookingRepository(pool)
	blackoutRepo := sqlite.NewBlackoutRepository(pool)
	ruleRepo := sqlite.NewDurationRuleRepository(pool)
	shiftRepo := sqlite.NewShiftRepository(pool)
	permissionRepo := sqlite.NewPermissionRepository(pool)
	userRepo := sqlite.NewUserRepository(pool)
	sessionRepo := sqlite.NewSessionRepository(pool)
	auditRepo := sqlite.NewAuditRepository(pool)
	slotRepo := sqlite.NewFixedSlotRepository(pool)

	bookingService := application.NewBookingService(application.BookingRepositories{
		Bookings:    bookingRepo,
		Blackouts:   blackoutRepo,
		Rules:       ruleRepo,
		Shifts:      shiftRepo,
		Permissions: permissionRepo,
		Audit:       auditRepo,
	}, idGenerator, now, cfg.GraceWindow, logger)
	availabilityService := application.NewAvailabilityService(bookingService, 0, logger)
	blackoutService := application.NewBlackoutService(blackoutRepo, idGenerator, now, logger)
	shiftService := application.NewShiftService(shiftRepo, idGenerator, now, logger)
	ruleService := application.NewDurationRuleService(ruleRepo, idGenerator, now, logger)
	permissionService := application.NewPermissionService(permissionRepo, now, logger)
	userService := application.NewUserService(userRepo, idGenerator, now, logger)
	authService := application.NewAuthService(userRepo, sessionRepo, []byte(cfg.SessionSecret), idGenerator, now, cfg.SessionTTL, logger)
	templateService := application.NewTemplateService(slotRepo, bookingRepo, blackoutRepo, auditRepo, idGenerator, now, logger)

	if err := bootstrapAdmin(ctx, userRepo, idGenerator, now, logger); err != nil {
		logger.Error("failed to bootstrap administrator account", "error", err)
		os.Exit(1)
	}

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:         httptransport.NewAuthHandler(authService, logger),
		Bookings:     httptransport.NewBookingHandler(bookingService, availabilityService, logger),
		Availability: httptransport.NewAvailabilityHandler(availabilityService, logger),
		Blackouts:    httptransport.NewBlackoutHandler(blackoutService, availabilityService, logger),
		Shifts:       httptransport.NewShiftHandler(shiftService, availabilityService, logger),
		Rules:        httptransport.NewDurationRuleHandler(ruleService, availabilityService, logger),
		Permissions:  httptransport.NewPermissionHandler(permissionService, logger),
		Users:        httptransport.NewUserHandler(userService, logger),
		Templates:    httptransport.NewTemplateHandler(templateService, availabilityService, logger),
		Holidays:     httptransport.NewHolidayHandler(logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
			httptransport.RequireSession(authService, logger, "/login"),
		},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("studio booking API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

// bootstrapAdmin seeds the first administrator account on an empty database
// so the API is reachable after initial deployment. Credentials come from
// STUDIO_ADMIN_EMAIL and STUDIO_ADMIN_PASSWORD; a missing password is
// generated and logged once.
func bootstrapAdmin(ctx context.Context, users persistence.UserRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) error {
	existing, err := users.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	email := strings.TrimSpace(strings.ToLower(os.Getenv("STUDIO_ADMIN_EMAIL")))
	if email == "" {
		email = "admin@escola.br"
	}

	password := os.Getenv("STUDIO_ADMIN_PASSWORD")
	generated := false
	if password == "" {
		password = randomPassword()
		generated = true
	}

	hash, err := application.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash bootstrap password: %w", err)
	}

	timestamp := now().UTC()
	admin := persistence.User{
		ID:           idGenerator(),
		Email:        email,
		DisplayName:  "Administrador",
		IsAdmin:      true,
		PasswordHash: hash,
		CreatedAt:    timestamp,
		UpdatedAt:    timestamp,
	}
	if err := users.CreateUser(ctx, admin); err != nil {
		return fmt.Errorf("create bootstrap admin: %w", err)
	}

	if generated {
		logger.Warn("bootstrap administrator created with generated password", "email", email, "password", password)
	} else {
		logger.Info("bootstrap administrator created", "email", email)
	}
	return nil
}

func randomPassword() string {
	buf := make([]byte, 18)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("studio-%d", time.Now().UnixNano())
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}
