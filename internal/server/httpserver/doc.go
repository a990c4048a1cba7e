// Package httpserver serves the client's Prometheus metrics over HTTP.
//
// It is used by "cmsadmin metrics serve" so a scraper can collect request
// and session metrics from a long-running shell or batch job. The router
// exposes /metrics and /healthz behind request-ID, access-log, recovery
// and allowlist middleware.
package httpserver
