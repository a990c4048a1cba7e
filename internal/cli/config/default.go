package config

import (
	"os"
	"path/filepath"

	"github.com/yndnr/cmsadmin-go/internal/session"
	"github.com/yndnr/cmsadmin-go/internal/transport"
)

// Default configuration values.
const (
	DefaultServer    = "http://localhost:8080"
	DefaultLanguage  = "en"
	DefaultOutput    = "table"
	DefaultRateBurst = 1

	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"

	configDirName  = ".cmsadmin"
	configFileName = "config.yaml"
	sessionDirName = "session"
	keyFileName    = "session.key"
)

// Output formats.
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

// Dir returns the per-user cmsadmin directory.
func Dir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return configDirName
	}
	return filepath.Join(homeDir, configDirName)
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	return filepath.Join(Dir(), configFileName)
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	dir := Dir()
	return &CLIConfig{
		API: APISection{
			Server:        DefaultServer,
			Timeout:       transport.DefaultTimeout,
			UploadTimeout: transport.UploadTimeout,
			RateBurst:     DefaultRateBurst,
		},
		Session: SessionSection{
			Dir:     filepath.Join(dir, sessionDirName),
			TTL:     session.DefaultTTL,
			KeyFile: filepath.Join(dir, keyFileName),
		},
		Language: DefaultLanguage,
		Output:   DefaultOutput,
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// HistoryPath returns the REPL history file path.
func HistoryPath() string {
	return filepath.Join(Dir(), "history")
}
