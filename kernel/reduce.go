package kernel

import (
	"math"

	"github.com/zerfoo/onnxrt/concurrent"
	"github.com/zerfoo/onnxrt/ir"
	"github.com/zerfoo/onnxrt/tensor"
)

func init() {
	register(ir.OpReduceMin, EvalFunc(evalReduceMin))
	register(ir.OpReduceMean, EvalFunc(evalReduceMean))
}

// reducedAxisSet normalizes op.Reduce.Axes into a per-input-axis bool mask.
func reducedAxisSet(rank int, axes []int64) []bool {
	mask := make([]bool, rank)

	for _, a := range axes {
		axis := int(a)
		if axis < 0 {
			axis += rank
		}

		mask[axis] = true
	}

	return mask
}

// reduceInto walks every element of the input, routing it to the output
// slot obtained by zeroing out its coordinate along every reduced axis,
// and calls accumulate with the running output value and the new input
// value. KeepDims collapses to the same output addressing as dropping
// dims, since both use output index computed over non-reduced extents.
func reduceInto(in *tensor.Tensor, reduced []bool, accumulate func(acc, v float32) float32, init float32) []float32 {
	d := in.Dims()
	inStrides := d.Strides()

	outShape := make([]int, len(d))
	for i, v := range d {
		if reduced[i] {
			outShape[i] = 1
		} else {
			outShape[i] = v
		}
	}

	outStrides := make([]int, len(d))
	stride := 1

	for i := len(d) - 1; i >= 0; i-- {
		outStrides[i] = stride
		if outShape[i] > 1 {
			stride *= outShape[i]
		}
	}

	outSize := 1
	for _, v := range outShape {
		outSize *= v
	}

	out := make([]float32, outSize)
	for i := range out {
		out[i] = init
	}

	inf := in.Float32()
	coord := make([]int, len(d))

	for inIdx := 0; inIdx < d.TotalElems(); inIdx++ {
		outIdx := 0

		for i := range coord {
			c := coord[i]
			if reduced[i] {
				c = 0
			}

			outIdx += c * outStrides[i]
		}

		out[outIdx] = accumulate(out[outIdx], inf[inIdx])

		for i := len(coord) - 1; i >= 0; i-- {
			coord[i]++
			if coord[i] < d[i] {
				break
			}

			coord[i] = 0
		}
	}

	_ = inStrides

	return out
}

func evalReduceMin(inputs, outputs []*tensor.Tensor, irop *ir.Op, scope *concurrent.Scope) error {
	in, out := inputs[ir.UnaryIn], outputs[ir.UnaryOut]
	mask := reducedAxisSet(len(in.Dims()), irop.Reduce.Axes)

	vals := reduceInto(in, mask, func(acc, v float32) float32 {
		if v < acc {
			return v
		}

		return acc
	}, float32(math.Inf(1)))

	copy(out.Float32(), vals)

	return nil
}

func evalReduceMean(inputs, outputs []*tensor.Tensor, irop *ir.Op, scope *concurrent.Scope) error {
	in, out := inputs[ir.UnaryIn], outputs[ir.UnaryOut]
	d := in.Dims()
	mask := reducedAxisSet(len(d), irop.Reduce.Axes)

	count := 1
	for i, r := range mask {
		if r {
			count *= d[i]
		}
	}

	sums := reduceInto(in, mask, func(acc, v float32) float32 { return acc + v }, 0)

	of := out.Float32()
	for i, s := range sums {
		of[i] = s / float32(count)
	}

	return nil
}
