package runtime

import (
	"fmt"

	"github.com/zerfoo/onnxrt/ir"
)

// feedMismatch reports a caller-supplied feed tensor that disagrees with
// the value's declared shape or element type.
func feedMismatch(id ir.ValueId, format string, args ...any) error {
	return ir.Newf(ir.FeedMismatch, "value %d: %s", id, fmt.Sprintf(format, args...))
}
