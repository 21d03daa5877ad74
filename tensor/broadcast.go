package tensor

import (
	"fmt"

	"github.com/zerfoo/onnxrt/dims"
)

// StridesForBroadcasting computes the virtual, right-aligned stride vector
// that lets t's existing bytes be read as if they had shape target, without
// copying. Dimensions of t that are 1 (or implicitly 1 via left-padding)
// receive a synthesized stride of 0, so every index along that axis reads
// the same element. It fails if t's rank exceeds target's rank, or if a
// non-unit dimension of t disagrees with the corresponding extent of
// target.
func (t *Tensor) StridesForBroadcasting(target dims.Dimensions) ([]int, error) {
	return stridesForBroadcasting(t.d, t.strides, target)
}

func stridesForBroadcasting(srcDims dims.Dimensions, srcStrides []int, target dims.Dimensions) ([]int, error) {
	if len(srcDims) > len(target) {
		return nil, fmt.Errorf("tensor: cannot broadcast shape %v to lower-rank target %v", srcDims, target)
	}

	rankGap := len(target) - len(srcDims)
	out := make([]int, len(target))

	for i := range target {
		if i < rankGap {
			out[i] = 0

			continue
		}

		srcIdx := i - rankGap
		srcDim := srcDims[srcIdx]

		switch {
		case srcDim == target[i]:
			out[i] = srcStrides[srcIdx]
		case srcDim == 1:
			out[i] = 0
		default:
			return nil, fmt.Errorf("tensor: shape %v is not broadcastable to %v at dimension %d (%d vs %d)", srcDims, target, i, srcDim, target[i])
		}
	}

	return out, nil
}
