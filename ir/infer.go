package ir

import (
	"github.com/zerfoo/onnxrt/dims"
	"github.com/zerfoo/onnxrt/tensor"
)

// InferOp computes the output TypedShapes for op given its input tensors in
// positional order, mutating op's attributes in place when auto-padding (or
// any other attribute) resolves to an explicit value. It is total on valid
// inputs; malformed inputs return a ShapeInference or UnsupportedOp error.
//
// Inputs whose operator needs their concrete values (Reshape's shape
// operand, Slice's bounds, Tile's repeats, ...) must be real, byte-backed
// tensors, not shape-only placeholders — the shape-inference driver is
// responsible for that precondition.
func InferOp(op *Op, inputs []*tensor.Tensor) ([]tensor.TypedShape, error) {
	if op.Kind.UnsupportedShapeInference() {
		return nil, Newf(UnsupportedOp, "operator %s has no shape inference in this core", op.Kind)
	}

	switch {
	case op.Kind.IsBinaryElementwise():
		return inferBinaryElementwise(inputs)
	case op.Kind.IsUnaryElementwise():
		return inferUnaryElementwise(op, inputs)
	}

	switch op.Kind {
	case OpConv2d:
		return inferConv2d(op, inputs)
	case OpMaxPool:
		return inferMaxPool(op, inputs)
	case OpGlobalAveragePool:
		return inferGlobalAveragePool(inputs)
	case OpReshape:
		return inferReshape(inputs)
	case OpFlatten:
		return inferFlatten(op, inputs)
	case OpResize:
		return inferResize(op, inputs)
	case OpConcat:
		return inferConcat(op, inputs)
	case OpTranspose:
		return inferTranspose(op, inputs)
	case OpSqueeze:
		return inferSqueeze(op, inputs)
	case OpUnsqueeze:
		return inferUnsqueeze(op, inputs)
	case OpReduceMin, OpReduceMean:
		return inferReduce(op, inputs)
	case OpTile:
		return inferTile(inputs)
	case OpSlice:
		return inferSlice(inputs)
	case OpGather:
		return inferGather(op, inputs)
	case OpMatMul:
		return inferMatMul(inputs)
	case OpGemm:
		return inferGemm(op, inputs)
	default:
		return nil, Newf(UnsupportedOp, "operator %s is not recognized", op.Kind)
	}
}

func need(inputs []*tensor.Tensor, n int, op string) error {
	if len(inputs) < n {
		return Newf(ShapeInference, "%s requires %d input(s), got %d", op, n, len(inputs))
	}

	return nil
}

func inferBinaryElementwise(inputs []*tensor.Tensor) ([]tensor.TypedShape, error) {
	if err := need(inputs, 2, "binary elementwise op"); err != nil {
		return nil, err
	}

	out, err := dims.Broadcast(inputs[BinaryIn0].Dims(), inputs[BinaryIn1].Dims())
	if err != nil {
		return nil, Newf(ShapeInference, "%v", err)
	}

	return []tensor.TypedShape{{Dims: out, ElemTy: inputs[BinaryIn0].ElemType()}}, nil
}

func inferUnaryElementwise(op *Op, inputs []*tensor.Tensor) ([]tensor.TypedShape, error) {
	if err := need(inputs, 1, "unary elementwise op"); err != nil {
		return nil, err
	}

	elemTy := inputs[UnaryIn].ElemType()
	if op.Kind == OpCast {
		elemTy = op.Cast.To
	}

	return []tensor.TypedShape{{Dims: inputs[UnaryIn].Dims(), ElemTy: elemTy}}, nil
}

func dilOrOnes(d dims.Dimensions, n int) dims.Dimensions {
	if len(d) == n {
		return d
	}

	out := make(dims.Dimensions, n)
	for i := range out {
		out[i] = 1
	}

	return out
}

func expandPadding(p dims.Dimensions) dims.Dimensions {
	if len(p) == 4 {
		return p
	}

	if len(p) == 2 {
		return dims.Dimensions{p[0], p[1], p[0], p[1]}
	}

	return dims.Dimensions{0, 0, 0, 0}
}

func inferConv2d(op *Op, inputs []*tensor.Tensor) ([]tensor.TypedShape, error) {
	if err := need(inputs, 2, "Conv2d"); err != nil {
		return nil, err
	}

	input := inputs[Conv2dIn].Dims()
	weight := inputs[Conv2dWeight].Dims()

	if len(input) != 4 || len(weight) != 4 {
		return nil, Newf(ShapeInference, "Conv2d expects rank-4 input and weight, got %v and %v", input, weight)
	}

	kernel := op.Conv2d.KernelShape
	if len(kernel) != 2 {
		kernel = dims.Dimensions{weight[2], weight[3]}
	}

	strides := dilOrOnes(op.Conv2d.Strides, 2)
	dilations := dilOrOnes(op.Conv2d.Dilations, 2)
	padding := expandPadding(op.Conv2d.Padding)

	hIn, wIn := input[2], input[3]

	if op.Conv2d.AutoPad != "" && op.Conv2d.AutoPad != "NOTSET" {
		if op.Conv2d.AutoPad != "SAME_UPPER" {
			return nil, Newf(ShapeInference, "Conv2d auto_pad %q is not supported", op.Conv2d.AutoPad)
		}

		outH := ceilDiv(hIn, strides[0])
		outW := ceilDiv(wIn, strides[1])
		padH := maxInt(0, (outH-1)*strides[0]+kernel[0]-hIn)
		padW := maxInt(0, (outW-1)*strides[1]+kernel[1]-wIn)

		padding = dims.Dimensions{padH / 2, padW / 2, padH - padH/2, padW - padW/2}
		op.Conv2d.Padding = padding
	}

	padHTotal := padding[0] + padding[2]
	padWTotal := padding[1] + padding[3]

	outH := (hIn+padHTotal-dilations[0]*(kernel[0]-1)-1)/strides[0] + 1
	outW := (wIn+padWTotal-dilations[1]*(kernel[1]-1)-1)/strides[1] + 1

	return []tensor.TypedShape{{
		Dims:   dims.Dimensions{input[0], weight[0], outH, outW},
		ElemTy: inputs[Conv2dIn].ElemType(),
	}}, nil
}

func ceilDiv(a, b int) int {
	if b == 0 {
		return 0
	}

	if a%b == 0 {
		return a / b
	}

	return a/b + 1
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}

	return b
}

func inferMaxPool(op *Op, inputs []*tensor.Tensor) ([]tensor.TypedShape, error) {
	if err := need(inputs, 1, "MaxPool"); err != nil {
		return nil, err
	}

	input := inputs[0].Dims()
	if len(input) != 4 {
		return nil, Newf(ShapeInference, "MaxPool expects rank-4 input, got %v", input)
	}

	kernel := op.MaxPool.KernelShape
	strides := dilOrOnes(op.MaxPool.Strides, 2)

	hIn, wIn := input[2], input[3]
	outH := (hIn-(kernel[0]-1)-1)/strides[0] + 1
	outW := (wIn-(kernel[1]-1)-1)/strides[1] + 1

	return []tensor.TypedShape{{
		Dims:   dims.Dimensions{input[0], input[1], outH, outW},
		ElemTy: inputs[0].ElemType(),
	}}, nil
}

func inferGlobalAveragePool(inputs []*tensor.Tensor) ([]tensor.TypedShape, error) {
	if err := need(inputs, 1, "GlobalAveragePool"); err != nil {
		return nil, err
	}

	input := inputs[0].Dims()
	if len(input) != 4 {
		return nil, Newf(ShapeInference, "GlobalAveragePool expects rank-4 input, got %v", input)
	}

	return []tensor.TypedShape{{
		Dims:   dims.Dimensions{input[0], input[1], 1, 1},
		ElemTy: inputs[0].ElemType(),
	}}, nil
}

func inferReshape(inputs []*tensor.Tensor) ([]tensor.TypedShape, error) {
	if err := need(inputs, 2, "Reshape"); err != nil {
		return nil, err
	}

	target, err := inputs[ReshapeShape].AsI64Slice()
	if err != nil {
		return nil, Newf(ShapeInference, "Reshape shape operand: %v", err)
	}

	targetDims := make(dims.Dimensions, len(target))
	for i, v := range target {
		targetDims[i] = int(v)
	}

	resolved, err := tensor.ResolveReshapeDims(inputs[ReshapeIn].Size(), targetDims)
	if err != nil {
		return nil, Newf(ShapeInference, "%v", err)
	}

	return []tensor.TypedShape{{Dims: resolved, ElemTy: inputs[ReshapeIn].ElemType()}}, nil
}

func inferFlatten(op *Op, inputs []*tensor.Tensor) ([]tensor.TypedShape, error) {
	if err := need(inputs, 1, "Flatten"); err != nil {
		return nil, err
	}

	d := inputs[0].Dims()

	axis := int(op.Flatten.Axis)
	if axis < 0 || axis > len(d) {
		return nil, Newf(ShapeInference, "Flatten axis %d out of range for rank %d", axis, len(d))
	}

	x := d[:axis].TotalElems()
	y := d[axis:].TotalElems()

	return []tensor.TypedShape{{Dims: dims.Dimensions{x, y}, ElemTy: inputs[0].ElemType()}}, nil
}

func inferResize(op *Op, inputs []*tensor.Tensor) ([]tensor.TypedShape, error) {
	if err := need(inputs, 3, "Resize"); err != nil {
		return nil, err
	}

	input := inputs[ResizeIn].Dims()
	elemTy := inputs[ResizeIn].ElemType()

	if len(inputs) >= 4 && !inputs[ResizeSizes].IsShapeOnly() && inputs[ResizeSizes].Size() > 0 {
		sizes, err := inputs[ResizeSizes].AsI64Slice()
		if err != nil {
			return nil, Newf(ShapeInference, "Resize sizes operand: %v", err)
		}

		out := make(dims.Dimensions, len(sizes))
		for i, v := range sizes {
			out[i] = int(v)
		}

		return []tensor.TypedShape{{Dims: out, ElemTy: elemTy}}, nil
	}

	if op.Resize.CoordinateTransformationMode != "asymmetric" ||
		op.Resize.Mode != "nearest" ||
		op.Resize.NearestMode != "floor" {
		return nil, Newf(ShapeInference, "Resize with 3 inputs only supports asymmetric/nearest/floor, got %q/%q/%q",
			op.Resize.CoordinateTransformationMode, op.Resize.Mode, op.Resize.NearestMode)
	}

	scales := inputs[ResizeScales].Float32()
	if len(scales) != len(input) {
		return nil, Newf(ShapeInference, "Resize scales rank %d does not match input rank %d", len(scales), len(input))
	}

	out := make(dims.Dimensions, len(input))
	for i, s := range scales {
		out[i] = int(float64(input[i]) * float64(s))
	}

	return []tensor.TypedShape{{Dims: out, ElemTy: elemTy}}, nil
}

func inferConcat(op *Op, inputs []*tensor.Tensor) ([]tensor.TypedShape, error) {
	if err := need(inputs, 1, "Concat"); err != nil {
		return nil, err
	}

	rank := len(inputs[0].Dims())
	axis := normalizeAxis(int(op.Concat.Axis), rank)

	out := inputs[0].Dims()
	sum := out[axis]

	for _, in := range inputs[1:] {
		d := in.Dims()
		if len(d) != rank {
			return nil, Newf(ShapeInference, "Concat inputs have mismatched ranks")
		}

		sum += d[axis]
	}

	out[axis] = sum

	return []tensor.TypedShape{{Dims: out, ElemTy: inputs[0].ElemType()}}, nil
}

func normalizeAxis(axis, rank int) int {
	if axis < 0 {
		return axis + rank
	}

	return axis
}

func inferTranspose(op *Op, inputs []*tensor.Tensor) ([]tensor.TypedShape, error) {
	if err := need(inputs, 1, "Transpose"); err != nil {
		return nil, err
	}

	d := inputs[0].Dims()
	perm := op.Transpose.Perm

	if len(perm) == 0 {
		perm = make([]int64, len(d))
		for i := range perm {
			perm[i] = int64(len(d) - 1 - i)
		}

		op.Transpose.Perm = perm
	}

	if len(perm) != len(d) {
		return nil, Newf(ShapeInference, "Transpose perm length %d does not match rank %d", len(perm), len(d))
	}

	out := make(dims.Dimensions, len(d))

	seen := make([]bool, len(d))
	for i, p := range perm {
		if p < 0 || int(p) >= len(d) || seen[p] {
			return nil, Newf(ShapeInference, "Transpose perm %v is not a permutation", perm)
		}

		seen[p] = true
		out[i] = d[p]
	}

	return []tensor.TypedShape{{Dims: out, ElemTy: inputs[0].ElemType()}}, nil
}

func inferSqueeze(op *Op, inputs []*tensor.Tensor) ([]tensor.TypedShape, error) {
	if err := need(inputs, 1, "Squeeze"); err != nil {
		return nil, err
	}

	d := inputs[0].Dims()
	drop := make(map[int]bool, len(op.Squeeze.Axes))

	for _, a := range op.Squeeze.Axes {
		axis := int(a)
		if axis < 0 || axis >= len(d) {
			return nil, Newf(ShapeInference, "Squeeze axis %d out of range for rank %d", axis, len(d))
		}

		if d[axis] != 1 {
			return nil, Newf(ShapeInference, "Squeeze axis %d has extent %d, not 1", axis, d[axis])
		}

		drop[axis] = true
	}

	out := make(dims.Dimensions, 0, len(d))

	for i, v := range d {
		if !drop[i] {
			out = append(out, v)
		}
	}

	return []tensor.TypedShape{{Dims: out, ElemTy: inputs[0].ElemType()}}, nil
}

func inferUnsqueeze(op *Op, inputs []*tensor.Tensor) ([]tensor.TypedShape, error) {
	if err := need(inputs, 1, "Unsqueeze"); err != nil {
		return nil, err
	}

	d := inputs[0].Dims()
	out := d.Clone()

	for _, a := range op.Unsqueeze.Axes {
		axis := int(a)
		if axis < 0 || axis > len(out) {
			return nil, Newf(ShapeInference, "Unsqueeze axis %d out of range for resulting rank %d", axis, len(out)+1)
		}

		head := append(dims.Dimensions{}, out[:axis]...)
		tail := append(dims.Dimensions{}, out[axis:]...)
		out = append(append(head, 1), tail...)
	}

	return []tensor.TypedShape{{Dims: out, ElemTy: inputs[0].ElemType()}}, nil
}

func inferReduce(op *Op, inputs []*tensor.Tensor) ([]tensor.TypedShape, error) {
	if err := need(inputs, 1, "Reduce"); err != nil {
		return nil, err
	}

	d := inputs[0].Dims()
	reduced := make(map[int]bool, len(op.Reduce.Axes))

	for _, a := range op.Reduce.Axes {
		axis := normalizeAxis(int(a), len(d))
		if axis < 0 || axis >= len(d) {
			return nil, Newf(ShapeInference, "Reduce axis %d out of range for rank %d", axis, len(d))
		}

		reduced[axis] = true
	}

	var out dims.Dimensions

	if op.Reduce.KeepDims {
		out = d.Clone()
		for axis := range reduced {
			out[axis] = 1
		}
	} else {
		for i, v := range d {
			if !reduced[i] {
				out = append(out, v)
			}
		}
	}

	if len(out) == 0 {
		out = dims.Dimensions{1}
	}

	return []tensor.TypedShape{{Dims: out, ElemTy: inputs[0].ElemType()}}, nil
}

func inferTile(inputs []*tensor.Tensor) ([]tensor.TypedShape, error) {
	if err := need(inputs, 2, "Tile"); err != nil {
		return nil, err
	}

	d := inputs[TileIn].Dims()

	repeats, err := inputs[TileRepeats].AsI64Slice()
	if err != nil {
		return nil, Newf(ShapeInference, "Tile repeats operand: %v", err)
	}

	if len(repeats) != len(d) {
		return nil, Newf(ShapeInference, "Tile repeats length %d does not match rank %d", len(repeats), len(d))
	}

	out := make(dims.Dimensions, len(d))
	for i, v := range d {
		out[i] = v * int(repeats[i])
	}

	return []tensor.TypedShape{{Dims: out, ElemTy: inputs[TileIn].ElemType()}}, nil
}

func inferSlice(inputs []*tensor.Tensor) ([]tensor.TypedShape, error) {
	if err := need(inputs, 3, "Slice"); err != nil {
		return nil, err
	}

	d := inputs[SliceData].Dims()

	starts, err := inputs[SliceStart].AsI64Slice()
	if err != nil {
		return nil, Newf(ShapeInference, "Slice starts operand: %v", err)
	}

	ends, err := inputs[SliceEnd].AsI64Slice()
	if err != nil {
		return nil, Newf(ShapeInference, "Slice ends operand: %v", err)
	}

	var axes []int64
	if len(inputs) > SliceAxes {
		axes, err = inputs[SliceAxes].AsI64Slice()
		if err != nil {
			return nil, Newf(ShapeInference, "Slice axes operand: %v", err)
		}
	} else {
		axes = make([]int64, len(starts))
		for i := range axes {
			axes[i] = int64(i)
		}
	}

	var steps []int64
	if len(inputs) > SliceSteps {
		steps, err = inputs[SliceSteps].AsI64Slice()
		if err != nil {
			return nil, Newf(ShapeInference, "Slice steps operand: %v", err)
		}
	} else {
		steps = make([]int64, len(starts))
		for i := range steps {
			steps[i] = 1
		}
	}

	if len(starts) != len(ends) || len(starts) != len(axes) || len(starts) != len(steps) {
		return nil, Newf(ShapeInference, "Slice starts/ends/axes/steps must have matching length")
	}

	out := d.Clone()

	for i := range starts {
		axis := normalizeAxis(int(axes[i]), len(d))
		if axis < 0 || axis >= len(d) {
			return nil, Newf(ShapeInference, "Slice axis %d out of range for rank %d", axis, len(d))
		}

		start, end, step := starts[i], ends[i], steps[i]
		if start < 0 || end < start || step <= 0 {
			return nil, Newf(ShapeInference, "Slice requires non-negative starts/ends/steps with end >= start")
		}

		extent := int((end - start) / step)
		if extent <= 0 {
			return nil, Newf(ShapeInference, "Slice on axis %d produces non-positive extent", axis)
		}

		out[axis] = extent
	}

	return []tensor.TypedShape{{Dims: out, ElemTy: inputs[SliceData].ElemType()}}, nil
}

func inferGather(op *Op, inputs []*tensor.Tensor) ([]tensor.TypedShape, error) {
	if err := need(inputs, 2, "Gather"); err != nil {
		return nil, err
	}

	data := inputs[GatherData].Dims()
	indices := inputs[GatherIndices].Dims()
	axis := normalizeAxis(int(op.Gather.Axis), len(data))

	if axis < 0 || axis >= len(data) {
		return nil, Newf(ShapeInference, "Gather axis %d out of range for rank %d", axis, len(data))
	}

	switch {
	case indices.IsScalar():
		out := append(dims.Dimensions{}, data[:axis]...)
		out = append(out, data[axis+1:]...)

		return []tensor.TypedShape{{Dims: out, ElemTy: inputs[GatherData].ElemType()}}, nil
	case len(indices) == 2 && indices[0] == 1 && axis == 0:
		out := dims.Dimensions{1, indices[1]}
		out = append(out, data[1:]...)

		return []tensor.TypedShape{{Dims: out, ElemTy: inputs[GatherData].ElemType()}}, nil
	default:
		return nil, Newf(ShapeInference, "Gather index shape %v is not supported", indices)
	}
}

func inferMatMul(inputs []*tensor.Tensor) ([]tensor.TypedShape, error) {
	if err := need(inputs, 2, "MatMul"); err != nil {
		return nil, err
	}

	a := inputs[MatMulA].Dims()
	b := inputs[MatMulB].Dims()

	switch {
	case len(a) == 2 && len(b) == 2:
		if a[1] != b[0] {
			return nil, Newf(ShapeInference, "MatMul contraction mismatch: %v vs %v", a, b)
		}

		return []tensor.TypedShape{{Dims: dims.Dimensions{a[0], b[1]}, ElemTy: inputs[MatMulA].ElemType()}}, nil
	case len(a) == 3 && len(b) == 2:
		if a[2] != b[0] {
			return nil, Newf(ShapeInference, "MatMul contraction mismatch: %v vs %v", a, b)
		}

		return []tensor.TypedShape{{Dims: dims.Dimensions{a[0], a[1], b[1]}, ElemTy: inputs[MatMulA].ElemType()}}, nil
	case len(a) == 3 && len(b) == 3:
		if a[0] != b[0] || a[2] != b[1] {
			return nil, Newf(ShapeInference, "MatMul batch/contraction mismatch: %v vs %v", a, b)
		}

		return []tensor.TypedShape{{Dims: dims.Dimensions{a[0], a[1], b[2]}, ElemTy: inputs[MatMulA].ElemType()}}, nil
	case len(a) == 4 && len(b) == 4 && a[0] == 1 && b[0] == 1:
		if a[3] != b[2] {
			return nil, Newf(ShapeInference, "MatMul contraction mismatch: %v vs %v", a, b)
		}

		return []tensor.TypedShape{{Dims: dims.Dimensions{a[0], a[1], a[2], b[3]}, ElemTy: inputs[MatMulA].ElemType()}}, nil
	default:
		return nil, Newf(ShapeInference, "MatMul shape combination %v x %v is not supported", a, b)
	}
}

func inferGemm(op *Op, inputs []*tensor.Tensor) ([]tensor.TypedShape, error) {
	if err := need(inputs, 2, "Gemm"); err != nil {
		return nil, err
	}

	a := inputs[GemmA].Dims()
	b := inputs[GemmB].Dims()

	if len(a) != 2 || len(b) != 2 {
		return nil, Newf(ShapeInference, "Gemm expects rank-2 inputs, got %v and %v", a, b)
	}

	a0, a1 := a[0], a[1]
	if op.Gemm.TransA {
		a0, a1 = a1, a0
	}

	b0, b1 := b[0], b[1]
	if op.Gemm.TransB {
		b0, b1 = b1, b0
	}

	if a1 != b0 {
		return nil, Newf(ShapeInference, "Gemm contraction mismatch: %d vs %d", a1, b0)
	}

	return []tensor.TypedShape{{Dims: dims.Dimensions{a0, b1}, ElemTy: inputs[GemmA].ElemType()}}, nil
}
