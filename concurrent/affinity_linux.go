//go:build linux

package concurrent

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// pinToCPU binds the calling OS thread to a single core, matching the
// original interpreter's one-core-per-worker affinity policy. Best effort:
// failures are ignored, since a missing affinity guarantee only affects
// scheduling predictability, not correctness.
func pinToCPU(cpuID int) {
	n := runtime.NumCPU()
	if n == 0 {
		return
	}

	var set unix.CPUSet

	set.Zero()
	set.Set(cpuID % n)

	_ = unix.SchedSetaffinity(0, &set)
}
