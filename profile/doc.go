// Package profile provides optional runtime profiling for konst.
//
// Profiling is built on [github.com/pkg/profile] and is only compiled in with
// the "pprof" build tag:
//
//	go build -tags pprof -o konst .
//
// Without the tag, [Modes] is empty and [Profiler.Start] always returns a
// no-op, so callers need no conditional code.
//
// # Modes
//
//   - allocs:    Memory allocation profiling (all allocations)
//   - block:     Block (synchronization) profiling
//   - clock:     Wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: Goroutine profiling
//   - heap:      Heap memory profiling (live allocations)
//   - mem:       General memory profiling
//   - mutex:     Mutex contention profiling
//   - thread:    Thread creation profiling
//   - trace:     Execution trace profiling
//
// # Usage
//
//	p := profile.Make(
//		profile.WithMode("cpu"),
//		profile.WithPath("/tmp/konst"),
//	)
//	defer p.Start().Stop()
//
// Profiles are written to the configured directory with names matching the
// mode, such as cpu.pprof, and are read with:
//
//	go tool pprof -http=: /tmp/konst/cpu.pprof
//
// The tagged build also imports [net/http/pprof], registering its handlers
// on [net/http.DefaultServeMux].
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
