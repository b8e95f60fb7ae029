// Package config loads environment driven configuration for the studio
// booking service.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures environment driven configuration values.
type Config struct {
	HTTPPort      int
	SQLiteDSN     string
	SessionSecret string
	SessionTTL    time.Duration
	GraceWindow   time.Duration
	Debounce      time.Duration
}

// Load parses configuration values from the current process environment.
//
// Optional fields fall back to sensible defaults; required and malformed
// values are reported with localized error messages.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:    8080,
		SQLiteDSN:   "file:studiobooking.db?_foreign_keys=on",
		SessionTTL:  24 * time.Hour,
		GraceWindow: 5 * time.Minute,
		Debounce:    400 * time.Millisecond,
	}

	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("STUDIO_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "STUDIO_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("STUDIO_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if secret := strings.TrimSpace(os.Getenv("STUDIO_SESSION_SECRET")); secret == "" {
		missing = append(missing, "STUDIO_SESSION_SECRET")
	} else {
		cfg.SessionSecret = secret
	}

	if ttlValue := strings.TrimSpace(os.Getenv("STUDIO_SESSION_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "STUDIO_SESSION_TTL")
		} else {
			cfg.SessionTTL = ttl
		}
	}

	if graceValue := strings.TrimSpace(os.Getenv("STUDIO_GRACE_WINDOW")); graceValue != "" {
		grace, err := time.ParseDuration(graceValue)
		if err != nil || grace < 0 {
			invalid = append(invalid, "STUDIO_GRACE_WINDOW")
		} else {
			cfg.GraceWindow = grace
		}
	}

	if debounceValue := strings.TrimSpace(os.Getenv("STUDIO_DEBOUNCE")); debounceValue != "" {
		debounce, err := time.ParseDuration(debounceValue)
		if err != nil || debounce < 0 {
			invalid = append(invalid, "STUDIO_DEBOUNCE")
		} else {
			cfg.Debounce = debounce
		}
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("variáveis de ambiente obrigatórias ausentes: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("variáveis de ambiente com valores inválidos: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
