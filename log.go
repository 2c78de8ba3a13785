package termgrid

import "log"

// Debug enables the invariant checks described in spec.md §7/§8. They are
// off by default (matching the teacher's pattern of cheap, silent bounds
// checks in the hot path) and intended for test builds: flip it on in a
// TestMain or individual test to turn invariant violations into panics
// instead of silent best-effort damage containment.
var Debug = false

// diagf logs a diagnostic for a best-effort-recoverable misuse (out of
// range row/column, a dangling extended offset, ...) per spec.md §7:
// the operation still returns, it just doesn't silently corrupt state
// without a trace. Matches the "[component] message" logging style used
// directly by the pack's own multiplexer server (vibetunnel's
// pkg/session/manager.go, pkg/termsocket/manager.go).
func diagf(format string, args ...any) {
	log.Printf("[termgrid] "+format, args...)
}

// assertInvariant panics with msg if cond is false and Debug is enabled.
// Spec.md §7: invariant violations are bugs, not recoverable conditions,
// so in debug builds they abort rather than limp on.
func assertInvariant(cond bool, msg string) {
	if Debug && !cond {
		panic("termgrid: invariant violated: " + msg)
	}
}
