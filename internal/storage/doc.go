// Package storage provides the durable key-value engine behind the
// client's persisted state.
//
// The engine is a thin wrapper over Badger:
//
//   - Entries may carry a TTL; expired entries read as not found
//   - In-memory mode for tests and throwaway shells
//   - Periodic value-log GC and optional Prometheus size gauges
package storage
