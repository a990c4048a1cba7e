package config

import "time"

// CLIConfig is the configuration for cmsadmin.
type CLIConfig struct {
	API      APISection     `koanf:"api"`
	Session  SessionSection `koanf:"session"`
	Language string         `koanf:"language"`
	Output   string         `koanf:"output"` // table, json, yaml
	Log      LogSection     `koanf:"log"`
	Metrics  MetricsSection `koanf:"metrics"`
}

// APISection configures the CMS API endpoint and request behavior.
type APISection struct {
	// Server is the CMS host, with or without scheme. The /api/v1 prefix is
	// appended by the client.
	Server string `koanf:"server"`

	Timeout       time.Duration `koanf:"timeout"`
	UploadTimeout time.Duration `koanf:"upload_timeout"`

	// RateLimit caps requests per second. Zero disables throttling.
	RateLimit float64 `koanf:"rate_limit"`
	RateBurst int     `koanf:"rate_burst"`

	// CAFile adds a PEM file or directory to the trusted roots for HTTPS
	// servers.
	CAFile   string `koanf:"ca_file"`
	Insecure bool   `koanf:"insecure"`

	// CertFile and KeyFile present a client certificate to servers that
	// require mutual TLS. The pair is reloaded when either file changes.
	CertFile string `koanf:"cert_file"`
	KeyFile  string `koanf:"key_file"`
}

// SessionSection configures where the login session is kept.
type SessionSection struct {
	Dir      string        `koanf:"dir"`
	TTL      time.Duration `koanf:"ttl"`
	KeyFile  string        `koanf:"key_file"`
	InMemory bool          `koanf:"in_memory"`
}

// LogSection configures the diagnostic log.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	File   string `koanf:"file"`
}

// MetricsSection configures client-side metrics.
type MetricsSection struct {
	Enabled bool `koanf:"enabled"`
}
