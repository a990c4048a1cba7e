// Package config defines the cmsadmin configuration.
//
//   - spec.go: CLIConfig struct (~/.cmsadmin/config.yaml)
//   - default.go: default values
//   - verify.go: validation
//   - loader.go: loading, saving and single-key updates
//
// Values are resolved in order: defaults, config file, CMSADMIN_* environment
// variables, command-line flags.
package config
