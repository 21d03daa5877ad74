package tensor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerfoo/onnxrt/dims"
	"github.com/zerfoo/onnxrt/tensor"
)

func TestNewFromFloat32(t *testing.T) {
	tr, err := tensor.NewFromFloat32(dims.Dimensions{2, 2}, []float32{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, tensor.F32, tr.ElemType())
	assert.Equal(t, 4, tr.Size())
	assert.Equal(t, []float32{1, 2, 3, 4}, tr.Float32())
}

func TestNewRejectsMismatchedLength(t *testing.T) {
	_, err := tensor.New(dims.Dimensions{2, 2}, tensor.F32, make([]byte, 8))
	require.Error(t, err)
}

func TestZeros(t *testing.T) {
	z := tensor.Zeros(dims.Dimensions{3}, tensor.I32)
	assert.Equal(t, []int32{0, 0, 0}, z.Int32())
}

func TestEmptyOfTypeIsShapeOnly(t *testing.T) {
	s := tensor.EmptyOfType(tensor.F32, dims.Dimensions{1, 3, 28, 28})
	assert.True(t, s.IsShapeOnly())
	assert.True(t, s.Verify())
	assert.Equal(t, 1*3*28*28, s.Size())
}

func TestShareAndCopyIndependence(t *testing.T) {
	orig, err := tensor.NewFromFloat32(dims.Dimensions{2}, []float32{1, 2})
	require.NoError(t, err)

	shared := orig.Share()
	require.NoError(t, shared.SetF32(99, 0))
	assert.Equal(t, float32(99), orig.Float32()[0], "Share must alias the same bytes")

	cp := orig.Copy()
	require.NoError(t, cp.SetF32(-1, 0))
	assert.NotEqual(t, cp.Float32()[0], orig.Float32()[0], "Copy must be independent")
}

func TestEnsureUniqueBreaksAliasing(t *testing.T) {
	orig, err := tensor.NewFromFloat32(dims.Dimensions{2}, []float32{1, 2})
	require.NoError(t, err)

	shared := orig.Share()
	shared.EnsureUnique()
	require.NoError(t, shared.SetF32(42, 0))

	assert.Equal(t, float32(1), orig.Float32()[0], "EnsureUnique must stop aliasing the original buffer")
}

func TestAsI64SliceWidensI32(t *testing.T) {
	tr, err := tensor.NewFromInt32(dims.Dimensions{3}, []int32{1, 2, 3})
	require.NoError(t, err)

	out, err := tr.AsI64Slice()
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, out)
}

func TestAsI64SliceRejectsFloat(t *testing.T) {
	tr, err := tensor.NewFromFloat32(dims.Dimensions{1}, []float32{1})
	require.NoError(t, err)

	_, err = tr.AsI64Slice()
	require.Error(t, err)
}
