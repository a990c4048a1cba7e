// Package logger provides structured logging for the CMS admin client.
//
// It wraps log/slog:
//
//   - logger.go: handler setup, levels and the package default
//   - context.go: request id propagation through context.Context
//   - redact.go: masking of credentials before they reach the output
//
// Bearer credentials and values under sensitive keys (password, token,
// authorization) never appear in clear in log output.
package logger
