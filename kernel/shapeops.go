package kernel

import (
	"github.com/zerfoo/onnxrt/concurrent"
	"github.com/zerfoo/onnxrt/dims"
	"github.com/zerfoo/onnxrt/ir"
	"github.com/zerfoo/onnxrt/tensor"
)

func init() {
	register(ir.OpReshape, EvalFunc(evalCopyBytes))
	register(ir.OpFlatten, EvalFunc(evalCopyBytes))
	register(ir.OpSqueeze, EvalFunc(evalCopyBytes))
	register(ir.OpUnsqueeze, EvalFunc(evalCopyBytes))
	register(ir.OpResize, EvalFunc(evalResizeNearest))
	register(ir.OpConcat, EvalFunc(evalConcat))
	register(ir.OpTranspose, EvalFunc(evalTranspose))
	register(ir.OpTile, EvalFunc(evalTile))
	register(ir.OpSlice, EvalFunc(evalSlice))
	register(ir.OpGather, EvalFunc(evalGather))
}

// evalCopyBytes backs every operator that only relabels an existing,
// row-major-contiguous byte layout (Reshape, Flatten, Squeeze, Unsqueeze):
// element order never changes, only the shape metadata attached to it.
func evalCopyBytes(inputs, outputs []*tensor.Tensor, irop *ir.Op, scope *concurrent.Scope) error {
	in, out := inputs[ir.UnaryIn], outputs[ir.UnaryOut]
	if in.Size() != out.Size() {
		return kernelErrorf(irop.Kind, "element count mismatch: %d vs %d", in.Size(), out.Size())
	}

	copy(out.Bytes(), in.Bytes())

	return nil
}

func evalResizeNearest(inputs, outputs []*tensor.Tensor, irop *ir.Op, scope *concurrent.Scope) error {
	in, out := inputs[ir.ResizeIn], outputs[ir.ResizeOut]

	inD, outD := in.Dims(), out.Dims()
	if len(inD) != len(outD) {
		return kernelErrorf(irop.Kind, "rank mismatch between Resize input %v and output %v", inD, outD)
	}

	inStrides, outStrides := inD.Strides(), outD.Strides()

	inf, of := in.Float32(), out.Float32()

	ratios := make([]float64, len(inD))
	for i := range inD {
		ratios[i] = float64(inD[i]) / float64(outD[i])
	}

	coord := make([]int, len(outD))

	for outIdx := 0; outIdx < outD.TotalElems(); outIdx++ {
		inOff := 0

		for d := range coord {
			srcCoord := int(float64(coord[d]) * ratios[d])
			if srcCoord >= inD[d] {
				srcCoord = inD[d] - 1
			}

			inOff += srcCoord * inStrides[d]
		}

		of[outIdx] = inf[inOff]

		for d := len(coord) - 1; d >= 0; d-- {
			coord[d]++
			if coord[d] < outD[d] {
				break
			}

			coord[d] = 0
		}
	}

	_ = outStrides

	return nil
}

func evalConcat(inputs, outputs []*tensor.Tensor, irop *ir.Op, scope *concurrent.Scope) error {
	out := outputs[0]
	outD := out.Dims()
	rank := len(outD)
	axis := irop.Concat.Axis
	if axis < 0 {
		axis += int64(rank)
	}

	outer := 1
	for i := 0; i < int(axis); i++ {
		outer *= outD[i]
	}

	inner := 1
	for i := int(axis) + 1; i < rank; i++ {
		inner *= outD[i]
	}

	of := out.Float32()
	axisOffset := 0

	for _, in := range inputs {
		d := in.Dims()
		axisLen := d[axis]
		inf := in.Float32()

		for o := 0; o < outer; o++ {
			srcBase := o * axisLen * inner
			dstBase := o*outD[axis]*inner + axisOffset*inner

			copy(of[dstBase:dstBase+axisLen*inner], inf[srcBase:srcBase+axisLen*inner])
		}

		axisOffset += axisLen
	}

	return nil
}

func evalTranspose(inputs, outputs []*tensor.Tensor, irop *ir.Op, scope *concurrent.Scope) error {
	in, out := inputs[ir.UnaryIn], outputs[ir.UnaryOut]
	perm := irop.Transpose.Perm

	inStrides := in.Dims().Strides()
	outD := out.Dims()

	// permStrides[i] is the stride, in the input's linear layout, that a
	// unit step along output axis i corresponds to.
	permStrides := make([]int, len(perm))
	for i, p := range perm {
		permStrides[i] = inStrides[p]
	}

	inf, of := in.Float32(), out.Float32()

	coord := make([]int, len(outD))
	for outIdx := 0; outIdx < outD.TotalElems(); outIdx++ {
		inOff := 0
		for d := range coord {
			inOff += coord[d] * permStrides[d]
		}

		of[outIdx] = inf[inOff]

		for d := len(coord) - 1; d >= 0; d-- {
			coord[d]++
			if coord[d] < outD[d] {
				break
			}

			coord[d] = 0
		}
	}

	return nil
}

func evalTile(inputs, outputs []*tensor.Tensor, irop *ir.Op, scope *concurrent.Scope) error {
	in, out := inputs[ir.TileIn], outputs[ir.TileOut]

	inD, outD := in.Dims(), out.Dims()
	inStrides := inD.Strides()

	inf, of := in.Float32(), out.Float32()

	coord := make([]int, len(outD))
	for outIdx := 0; outIdx < outD.TotalElems(); outIdx++ {
		inOff := 0
		for d := range coord {
			inOff += (coord[d] % inD[d]) * inStrides[d]
		}

		of[outIdx] = inf[inOff]

		for d := len(coord) - 1; d >= 0; d-- {
			coord[d]++
			if coord[d] < outD[d] {
				break
			}

			coord[d] = 0
		}
	}

	return nil
}

func evalSlice(inputs, outputs []*tensor.Tensor, irop *ir.Op, scope *concurrent.Scope) error {
	data, out := inputs[ir.SliceData], outputs[ir.SliceOut]

	d := data.Dims()
	rank := len(d)

	starts, err := inputs[ir.SliceStart].AsI64Slice()
	if err != nil {
		return kernelErrorf(irop.Kind, "%w", err)
	}

	ends, err := inputs[ir.SliceEnd].AsI64Slice()
	if err != nil {
		return kernelErrorf(irop.Kind, "%w", err)
	}

	axes := make([]int64, len(starts))
	if len(inputs) > ir.SliceAxes {
		axes, err = inputs[ir.SliceAxes].AsI64Slice()
		if err != nil {
			return kernelErrorf(irop.Kind, "%w", err)
		}
	} else {
		for i := range axes {
			axes[i] = int64(i)
		}
	}

	steps := make([]int64, len(starts))
	for i := range steps {
		steps[i] = 1
	}

	if len(inputs) > ir.SliceSteps {
		steps, err = inputs[ir.SliceSteps].AsI64Slice()
		if err != nil {
			return kernelErrorf(irop.Kind, "%w", err)
		}
	}

	start := make([]int, rank)
	step := make([]int, rank)

	for i := range step {
		step[i] = 1
	}

	for i, a := range axes {
		axis := int(a)
		if axis < 0 {
			axis += rank
		}

		start[axis] = int(starts[i])
		step[axis] = int(steps[i])
	}

	outD := out.Dims()
	dataStrides := d.Strides()

	inf, of := data.Float32(), out.Float32()

	coord := make([]int, rank)
	for outIdx := 0; outIdx < outD.TotalElems(); outIdx++ {
		inOff := 0
		for dAxis := 0; dAxis < rank; dAxis++ {
			inOff += (start[dAxis] + coord[dAxis]*step[dAxis]) * dataStrides[dAxis]
		}

		of[outIdx] = inf[inOff]

		for dAxis := rank - 1; dAxis >= 0; dAxis-- {
			coord[dAxis]++
			if coord[dAxis] < outD[dAxis] {
				break
			}

			coord[dAxis] = 0
		}
	}

	return nil
}

func evalGather(inputs, outputs []*tensor.Tensor, irop *ir.Op, scope *concurrent.Scope) error {
	data, indices, out := inputs[ir.GatherData], inputs[ir.GatherIndices], outputs[ir.GatherOut]

	d := data.Dims()
	axis := int(irop.Gather.Axis)
	if axis < 0 {
		axis += len(d)
	}

	idx, err := indices.AsI64Slice()
	if err != nil {
		return kernelErrorf(irop.Kind, "%w", err)
	}

	outer := dims.Dimensions(d[:axis]).TotalElems()
	inner := dims.Dimensions(d[axis+1:]).TotalElems()
	axisLen := d[axis]

	inf, of := data.Float32(), out.Float32()

	for o := 0; o < outer; o++ {
		for i, gi := range idx {
			g := int(gi)
			if g < 0 {
				g += axisLen
			}

			srcBase := (o*axisLen + g) * inner
			dstBase := (o*len(idx) + i) * inner

			copy(of[dstBase:dstBase+inner], inf[srcBase:srcBase+inner])
		}
	}

	return nil
}
