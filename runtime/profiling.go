package runtime

import (
	"sync"
	"time"

	"github.com/zerfoo/onnxrt/ir"
)

// NodeTiming records one node's wall-clock execution time within a Run.
type NodeTiming struct {
	Node     string
	Op       ir.OpKind
	Duration time.Duration
}

// profilingLedger accumulates NodeTimings across a Run when the session was
// built with profiling enabled. A disabled ledger's start() still returns a
// valid stop closure, but records nothing, so callers never branch on
// whether profiling is on.
type profilingLedger struct {
	mu      sync.Mutex
	enabled bool
	timings []NodeTiming
}

func newProfilingLedger(enabled bool) *profilingLedger {
	return &profilingLedger{enabled: enabled}
}

func (l *profilingLedger) start(node string, op ir.OpKind) func() {
	if l == nil || !l.enabled {
		return func() {}
	}

	begin := timeNow()

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()

		l.timings = append(l.timings, NodeTiming{Node: node, Op: op, Duration: timeNow().Sub(begin)})
	}
}

// Timings returns a copy of every NodeTiming recorded so far. Empty when
// profiling was not enabled at Build time.
func (l *profilingLedger) Timings() []NodeTiming {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]NodeTiming, len(l.timings))
	copy(out, l.timings)

	return out
}

// timeNow exists so the rest of the package never calls time.Now directly,
// keeping the single wall-clock read in one place.
func timeNow() time.Time { return time.Now() }
