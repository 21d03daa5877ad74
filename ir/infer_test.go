package ir_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerfoo/onnxrt/dims"
	"github.com/zerfoo/onnxrt/ir"
	"github.com/zerfoo/onnxrt/tensor"
)

func shapeOnly(d dims.Dimensions, ty tensor.ElemType) *tensor.Tensor {
	return tensor.EmptyOfType(ty, d)
}

func TestInferAddBroadcast(t *testing.T) {
	op := ir.Op{Kind: ir.OpAdd}

	out, err := ir.InferOp(&op, []*tensor.Tensor{
		shapeOnly(dims.Dimensions{1, 3, 4, 4}, tensor.F32),
		shapeOnly(dims.Dimensions{3, 1, 1}, tensor.F32),
	})

	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.True(t, dims.Dimensions{1, 3, 4, 4}.Equal(out[0].Dims))
}

func TestInferConv2dSameUpperRewritesPadding(t *testing.T) {
	op := ir.Op{Kind: ir.OpConv2d, Conv2d: ir.Conv2dAttrs{
		AutoPad:     "SAME_UPPER",
		KernelShape: dims.Dimensions{5, 5},
		Strides:     dims.Dimensions{1, 1},
	}}

	out, err := ir.InferOp(&op, []*tensor.Tensor{
		shapeOnly(dims.Dimensions{1, 1, 28, 28}, tensor.F32),
		shapeOnly(dims.Dimensions{8, 1, 5, 5}, tensor.F32),
	})

	require.NoError(t, err)
	assert.True(t, dims.Dimensions{1, 8, 28, 28}.Equal(out[0].Dims))
	assert.Equal(t, dims.Dimensions{2, 2, 2, 2}, op.Conv2d.Padding)
}

func TestInferMaxPool(t *testing.T) {
	op := ir.Op{Kind: ir.OpMaxPool, MaxPool: ir.MaxPoolAttrs{KernelShape: dims.Dimensions{2, 2}, Strides: dims.Dimensions{2, 2}}}

	out, err := ir.InferOp(&op, []*tensor.Tensor{shapeOnly(dims.Dimensions{1, 8, 28, 28}, tensor.F32)})

	require.NoError(t, err)
	assert.True(t, dims.Dimensions{1, 8, 14, 14}.Equal(out[0].Dims))
}

func TestInferReshapeWithInferredDim(t *testing.T) {
	op := ir.Op{Kind: ir.OpReshape}

	shapeArg, err := tensor.NewFromInt64(dims.Dimensions{2}, []int64{1, -1})
	require.NoError(t, err)

	out, err := ir.InferOp(&op, []*tensor.Tensor{
		shapeOnly(dims.Dimensions{1, 16, 4, 4}, tensor.F32),
		shapeArg,
	})

	require.NoError(t, err)
	assert.True(t, dims.Dimensions{1, 256}.Equal(out[0].Dims))
}

func TestInferSliceWithStep(t *testing.T) {
	op := ir.Op{Kind: ir.OpSlice}

	starts, _ := tensor.NewFromInt64(dims.Dimensions{1}, []int64{0})
	ends, _ := tensor.NewFromInt64(dims.Dimensions{1}, []int64{4})
	axes, _ := tensor.NewFromInt64(dims.Dimensions{1}, []int64{1})
	steps, _ := tensor.NewFromInt64(dims.Dimensions{1}, []int64{2})

	out, err := ir.InferOp(&op, []*tensor.Tensor{
		shapeOnly(dims.Dimensions{1, 8, 10}, tensor.F32),
		starts, ends, axes, steps,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, out[0].Dims[1])
}

func TestInferUnsupportedShapeOps(t *testing.T) {
	for _, kind := range []ir.OpKind{ir.OpLoop, ir.OpShape, ir.OpNonMaxSuppression, ir.OpConstant} {
		op := ir.Op{Kind: kind}
		_, err := ir.InferOp(&op, nil)
		require.Error(t, err)
		assert.True(t, ir.Is(err, ir.UnsupportedOp))
	}
}

func TestInferMatMul2D(t *testing.T) {
	op := ir.Op{Kind: ir.OpMatMul}

	out, err := ir.InferOp(&op, []*tensor.Tensor{
		shapeOnly(dims.Dimensions{1, 256}, tensor.F32),
		shapeOnly(dims.Dimensions{256, 10}, tensor.F32),
	})

	require.NoError(t, err)
	assert.True(t, dims.Dimensions{1, 10}.Equal(out[0].Dims))
}

func TestInferGemmWithTranspose(t *testing.T) {
	op := ir.Op{Kind: ir.OpGemm, Gemm: ir.GemmAttrs{TransA: true}}

	out, err := ir.InferOp(&op, []*tensor.Tensor{
		shapeOnly(dims.Dimensions{256, 1}, tensor.F32),
		shapeOnly(dims.Dimensions{256, 10}, tensor.F32),
	})

	require.NoError(t, err)
	assert.True(t, dims.Dimensions{1, 10}.Equal(out[0].Dims))
}

func TestInferTransposeDefaultsToReverse(t *testing.T) {
	op := ir.Op{Kind: ir.OpTranspose}

	out, err := ir.InferOp(&op, []*tensor.Tensor{shapeOnly(dims.Dimensions{2, 3, 4}, tensor.F32)})

	require.NoError(t, err)
	assert.True(t, dims.Dimensions{4, 3, 2}.Equal(out[0].Dims))
	assert.Equal(t, []int64{2, 1, 0}, op.Transpose.Perm)
}

func TestInferCastChangesElemType(t *testing.T) {
	op := ir.Op{Kind: ir.OpCast, Cast: ir.CastAttrs{To: tensor.I64}}

	out, err := ir.InferOp(&op, []*tensor.Tensor{shapeOnly(dims.Dimensions{4}, tensor.F32)})

	require.NoError(t, err)
	assert.Equal(t, tensor.I64, out[0].ElemTy)
}
