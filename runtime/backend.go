package runtime

import "github.com/zerfoo/onnxrt/ir"

// Backend identifies the execution device a Session targets. Only CPU is
// implemented; the others are acknowledged enum values so a Builder can
// reject them with a descriptive BackendUnavailable error instead of
// silently falling back to CPU.
type Backend int

const (
	BackendCPU Backend = iota
	BackendCUDA
	BackendOpenCL
)

func (b Backend) String() string {
	switch b {
	case BackendCPU:
		return "cpu"
	case BackendCUDA:
		return "cuda"
	case BackendOpenCL:
		return "opencl"
	default:
		return "unknown"
	}
}

func (b Backend) available() bool {
	return b == BackendCPU
}

func (b Backend) checkAvailable() error {
	if b.available() {
		return nil
	}

	return ir.Newf(ir.BackendUnavailable, "backend %s is not available in this build", b)
}
