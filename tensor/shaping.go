package tensor

import (
	"fmt"

	"github.com/zerfoo/onnxrt/dims"
)

// Reshape returns a new Tensor with a different shape that shares this
// tensor's backing bytes. newDims may contain at most one -1 entry, which is
// inferred from the total element count. The new shape must describe the
// same total number of elements as t.
func (t *Tensor) Reshape(newDims dims.Dimensions) (*Tensor, error) {
	resolved, err := ResolveReshapeDims(t.Size(), newDims)
	if err != nil {
		return nil, err
	}

	out := t.Share()
	out.d = resolved
	out.strides = resolved.Strides()

	return out, nil
}

// ResolveReshapeDims resolves a possibly-one-inferred-dimension target shape
// against totalElems, the element count of the tensor being reshaped.
func ResolveReshapeDims(totalElems int, target dims.Dimensions) (dims.Dimensions, error) {
	newSize := 1
	inferredDim := -1

	for i, dim := range target {
		switch {
		case dim > 0:
			newSize *= dim
		case dim == -1:
			if inferredDim != -1 {
				return nil, fmt.Errorf("tensor: reshape target %v has more than one inferred dimension", target)
			}

			inferredDim = i
		case dim == 0:
			newSize *= dim
		default:
			return nil, fmt.Errorf("tensor: invalid reshape dimension %d; must be positive, zero, or -1", dim)
		}
	}

	out := target.Clone()

	if inferredDim != -1 {
		if newSize == 0 || totalElems%newSize != 0 {
			return nil, fmt.Errorf("tensor: cannot infer dimension for size %d against target %v", totalElems, target)
		}

		out[inferredDim] = totalElems / newSize
		newSize = totalElems
	}

	if newSize != totalElems {
		return nil, fmt.Errorf("tensor: cannot reshape %d elements into shape %v (%d elements)", totalElems, target, newSize)
	}

	return out, nil
}
