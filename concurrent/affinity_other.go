//go:build !linux

package concurrent

// pinToCPU is a no-op on platforms without a portable affinity syscall.
// Workers still get their own OS thread via runtime.LockOSThread; they
// just aren't bound to a specific core.
func pinToCPU(cpuID int) {}
