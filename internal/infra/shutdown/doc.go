// Package shutdown cancels in-flight work on SIGINT/SIGTERM and runs
// cleanup hooks exactly once.
package shutdown
