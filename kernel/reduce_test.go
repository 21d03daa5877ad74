package kernel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerfoo/onnxrt/dims"
	"github.com/zerfoo/onnxrt/ir"
	"github.com/zerfoo/onnxrt/kernel"
	"github.com/zerfoo/onnxrt/tensor"
)

func TestEvalReduceMeanAlongAxis1(t *testing.T) {
	in, _ := tensor.NewFromFloat32(dims.Dimensions{2, 3}, []float32{1, 2, 3, 4, 5, 6})
	out := tensor.Zeros(dims.Dimensions{2}, tensor.F32)

	op := &ir.Op{Kind: ir.OpReduceMean, Reduce: ir.ReduceAttrs{Axes: []int64{1}}}

	ev, err := kernel.Lookup(ir.OpReduceMean)
	require.NoError(t, err)

	require.NoError(t, ev.Eval([]*tensor.Tensor{in}, []*tensor.Tensor{out}, op, nil))
	assert.InDeltaSlice(t, []float32{2, 5}, out.Float32(), 1e-6)
}

func TestEvalReduceMinAlongAxis0(t *testing.T) {
	in, _ := tensor.NewFromFloat32(dims.Dimensions{2, 3}, []float32{3, 1, 4, 1, 5, 9})
	out := tensor.Zeros(dims.Dimensions{3}, tensor.F32)

	op := &ir.Op{Kind: ir.OpReduceMin, Reduce: ir.ReduceAttrs{Axes: []int64{0}}}

	ev, err := kernel.Lookup(ir.OpReduceMin)
	require.NoError(t, err)

	require.NoError(t, ev.Eval([]*tensor.Tensor{in}, []*tensor.Tensor{out}, op, nil))
	assert.Equal(t, []float32{1, 1, 4}, out.Float32())
}
