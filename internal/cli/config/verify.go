package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yndnr/cmsadmin-go/internal/core/domain"
	"github.com/yndnr/cmsadmin-go/internal/session"
)

// Verify validates the configuration.
func Verify(cfg *CLIConfig) error {
	if err := verifyAPI(&cfg.API); err != nil {
		return err
	}
	if err := verifySession(&cfg.Session); err != nil {
		return err
	}
	if _, err := domain.ParseLanguage(cfg.Language); err != nil {
		return fmt.Errorf("language: %w", err)
	}
	switch cfg.Output {
	case OutputTable, OutputJSON, OutputYAML:
	default:
		return fmt.Errorf("output must be one of table, json, yaml (got %q)", cfg.Output)
	}
	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level %q is not a valid level", cfg.Log.Level)
	}
	return nil
}

func verifyAPI(cfg *APISection) error {
	if strings.TrimSpace(cfg.Server) == "" {
		return errors.New("api.server is required")
	}
	if cfg.Timeout <= 0 {
		return errors.New("api.timeout must be positive")
	}
	if cfg.UploadTimeout <= 0 {
		return errors.New("api.upload_timeout must be positive")
	}
	if cfg.RateLimit < 0 {
		return errors.New("api.rate_limit must not be negative")
	}
	if cfg.RateLimit > 0 && cfg.RateBurst < 1 {
		return errors.New("api.rate_burst must be at least 1 when rate_limit is set")
	}
	if (cfg.CertFile == "") != (cfg.KeyFile == "") {
		return errors.New("api.cert_file and api.key_file must be set together")
	}
	return nil
}

func verifySession(cfg *SessionSection) error {
	if cfg.TTL < session.MinTTL || cfg.TTL > session.MaxTTL {
		return fmt.Errorf("session.ttl must be between %s and %s", session.MinTTL, session.MaxTTL)
	}
	if cfg.InMemory {
		return nil
	}
	if cfg.Dir == "" {
		return errors.New("session.dir is required")
	}
	return nil
}
