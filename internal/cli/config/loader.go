package config

import (
	"fmt"
	"os"

	"github.com/yndnr/cmsadmin-go/internal/infra/confloader"
)

// Load resolves the configuration from path, the environment and flags.
// A missing file yields the defaults. An empty path means
// DefaultConfigPath. flags uses dotted keys ("api.server") and only
// carries flags the user actually set.
func Load(path string, flags map[string]any) (*CLIConfig, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	cfg := Default()
	l := confloader.NewLoader(confloader.WithConfigFile(path))
	if err := l.Load(cfg); err != nil {
		return nil, err
	}

	if len(flags) > 0 {
		if err := l.LoadMap(flags); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
		if err := l.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("unmarshal flags: %w", err)
		}
	}

	if err := Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML with 0600 permissions.
func Save(cfg *CLIConfig, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	l := confloader.NewLoader()
	if err := l.LoadMap(Flatten(cfg)); err != nil {
		return err
	}
	return l.Save(path)
}

// SetValue updates a single key in the file at path, leaving every other
// key as written. The result must still validate.
func SetValue(path, key, value string) error {
	if path == "" {
		path = DefaultConfigPath()
	}
	if _, ok := Flatten(Default())[key]; !ok {
		return fmt.Errorf("unknown config key %q", key)
	}

	l := confloader.NewLoader()
	if _, err := os.Stat(path); err == nil {
		if err := l.LoadFile(path); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}
	if err := l.Set(key, value); err != nil {
		return err
	}

	check := Default()
	if err := l.Unmarshal(check); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if err := Verify(check); err != nil {
		return err
	}
	return l.Save(path)
}

// Flatten returns cfg keyed by dotted config keys. Durations are rendered
// as strings so the file stays readable.
func Flatten(cfg *CLIConfig) map[string]any {
	return map[string]any{
		"api.server":         cfg.API.Server,
		"api.timeout":        cfg.API.Timeout.String(),
		"api.upload_timeout": cfg.API.UploadTimeout.String(),
		"api.rate_limit":     cfg.API.RateLimit,
		"api.rate_burst":     cfg.API.RateBurst,
		"api.ca_file":        cfg.API.CAFile,
		"api.insecure":       cfg.API.Insecure,
		"api.cert_file":      cfg.API.CertFile,
		"api.key_file":       cfg.API.KeyFile,
		"session.dir":        cfg.Session.Dir,
		"session.ttl":        cfg.Session.TTL.String(),
		"session.key_file":   cfg.Session.KeyFile,
		"session.in_memory":  cfg.Session.InMemory,
		"language":           cfg.Language,
		"output":             cfg.Output,
		"log.level":          cfg.Log.Level,
		"log.format":         cfg.Log.Format,
		"log.file":           cfg.Log.File,
		"metrics.enabled":    cfg.Metrics.Enabled,
	}
}
