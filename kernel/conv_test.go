package kernel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerfoo/onnxrt/concurrent"
	"github.com/zerfoo/onnxrt/dims"
	"github.com/zerfoo/onnxrt/ir"
	"github.com/zerfoo/onnxrt/kernel"
	"github.com/zerfoo/onnxrt/tensor"
)

func TestEvalConv2dIdentityKernel(t *testing.T) {
	x, _ := tensor.NewFromFloat32(dims.Dimensions{1, 1, 3, 3}, []float32{
		1, 2, 3,
		4, 5, 6,
		7, 8, 9,
	})
	w, _ := tensor.NewFromFloat32(dims.Dimensions{1, 1, 1, 1}, []float32{1})
	out := tensor.Zeros(dims.Dimensions{1, 1, 3, 3}, tensor.F32)

	op := &ir.Op{Kind: ir.OpConv2d, Conv2d: ir.Conv2dAttrs{
		KernelShape: dims.Dimensions{1, 1},
		Strides:     dims.Dimensions{1, 1},
		Padding:     dims.Dimensions{0, 0, 0, 0},
	}}

	ev, err := kernel.Lookup(ir.OpConv2d)
	require.NoError(t, err)

	require.NoError(t, ev.Eval([]*tensor.Tensor{x, w}, []*tensor.Tensor{out}, op, nil))
	assert.Equal(t, x.Float32(), out.Float32())
}

func TestEvalConv2dWithScopeMatchesInline(t *testing.T) {
	x, _ := tensor.NewFromFloat32(dims.Dimensions{2, 1, 2, 2}, []float32{1, 2, 3, 4, 5, 6, 7, 8})
	w, _ := tensor.NewFromFloat32(dims.Dimensions{1, 1, 2, 2}, []float32{1, 0, 0, 1})

	op := &ir.Op{Kind: ir.OpConv2d, Conv2d: ir.Conv2dAttrs{
		KernelShape: dims.Dimensions{2, 2},
		Strides:     dims.Dimensions{1, 1},
		Padding:     dims.Dimensions{0, 0, 0, 0},
	}}

	ev, err := kernel.Lookup(ir.OpConv2d)
	require.NoError(t, err)

	inline := tensor.Zeros(dims.Dimensions{2, 1, 1, 1}, tensor.F32)
	require.NoError(t, ev.Eval([]*tensor.Tensor{x, w}, []*tensor.Tensor{inline}, op, nil))

	pool := concurrent.New(2)
	defer pool.Close()

	parallelOut := tensor.Zeros(dims.Dimensions{2, 1, 1, 1}, tensor.F32)
	pool.Scope(func(s *concurrent.Scope) {
		require.NoError(t, ev.Eval([]*tensor.Tensor{x, w}, []*tensor.Tensor{parallelOut}, op, s))
	})

	assert.Equal(t, inline.Float32(), parallelOut.Float32())
}
