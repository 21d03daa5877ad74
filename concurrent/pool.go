// Package concurrent implements the fixed-size, CPU-pinned worker pool and
// scoped-spawn primitive that operator kernels use for intra-op
// parallelism. A pool with intra_op_num_threads == 1 bypasses worker
// dispatch entirely and runs every submitted closure inline.
package concurrent

import (
	"runtime"
	"sync"
)

type job struct {
	fn   func()
	done *sync.WaitGroup
}

// Pool is a fixed-size set of OS threads, each pinned to a distinct CPU
// core at construction, that execute closures submitted through a Scope.
// A Pool with NumThreads() == 1 holds no worker goroutines; Scope.Spawn
// runs inline on the caller instead.
type Pool struct {
	numThreads int
	jobs       chan job
	closeOnce  sync.Once
	closed     chan struct{}
}

// New starts a Pool with n worker goroutines, each locked to its own OS
// thread and pinned to CPU core (i mod runtime.NumCPU()). n < 1 is treated
// as 1; n == 1 bypasses the pool entirely (see Scope.Spawn).
func New(n int) *Pool {
	if n < 1 {
		n = 1
	}

	p := &Pool{numThreads: n, closed: make(chan struct{})}

	if n == 1 {
		return p
	}

	p.jobs = make(chan job, n*4)

	for i := 0; i < n; i++ {
		go p.worker(i)
	}

	return p
}

// NumThreads reports the pool's configured worker count.
func (p *Pool) NumThreads() int { return p.numThreads }

func (p *Pool) worker(cpuID int) {
	runtime.LockOSThread()
	pinToCPU(cpuID)

	for {
		select {
		case j := <-p.jobs:
			j.fn()
			j.done.Done()
		case <-p.closed:
			return
		}
	}
}

// Close stops every worker goroutine. Close does not wait for in-flight
// scopes to drain; callers must ensure no Scope is active.
func (p *Pool) Close() {
	if p.numThreads == 1 {
		return
	}

	p.closeOnce.Do(func() { close(p.closed) })
}

// Scope opens a new scoped-spawn region and passes it to f. Scope returns
// only after f has returned and every closure f submitted via scope.Spawn
// has completed; this is the pool's single synchronization point.
func (p *Pool) Scope(f func(scope *Scope)) {
	s := &Scope{pool: p}
	f(s)
	s.wait()
}
