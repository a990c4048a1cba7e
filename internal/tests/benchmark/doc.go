// Package benchmark provides performance benchmarks for the client hot
// paths: session persistence and response decoding.
//
// Run benchmarks with:
//
//	go test -bench=. -benchmem ./internal/tests/benchmark/...
//
// Compare results:
//
//	benchstat old.txt new.txt
package benchmark
