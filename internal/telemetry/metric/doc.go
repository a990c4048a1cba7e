// Package metric provides Prometheus metrics for the CMS admin client.
//
//   - prometheus.go: the registry, request and session instruments, and
//     text exposition
//   - collector.go: a collector reporting whether a session is held
//
// The CLI prints the registry with "cmsadmin metrics" and the shell can
// serve it over HTTP.
package metric
