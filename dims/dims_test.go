package dims_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerfoo/onnxrt/dims"
)

func TestTotalElems(t *testing.T) {
	assert.Equal(t, 784, dims.Dimensions{1, 1, 28, 28}.TotalElems())
	assert.Equal(t, 1, dims.Dimensions{}.TotalElems())
}

func TestIsScalar(t *testing.T) {
	assert.True(t, dims.Dimensions{}.IsScalar())
	assert.True(t, dims.Dimensions{1}.IsScalar())
	assert.True(t, dims.Dimensions{0}.IsScalar())
	assert.False(t, dims.Dimensions{1, 1}.IsScalar())
	assert.False(t, dims.Dimensions{2}.IsScalar())
}

func TestStrides(t *testing.T) {
	assert.Equal(t, []int{4, 1}, dims.Dimensions{4, 4}.Strides())
	assert.Equal(t, []int{16, 4, 1}, dims.Dimensions{4, 4, 4}.Strides())
	assert.Equal(t, []int{}, dims.Dimensions{}.Strides())
}

func TestValidate(t *testing.T) {
	require.NoError(t, dims.Dimensions{1, 2, 3}.Validate())
	require.Error(t, dims.Dimensions{1, -2, 3}.Validate())
}

func TestEqualAndClone(t *testing.T) {
	a := dims.Dimensions{1, 2, 3}
	b := a.Clone()
	assert.True(t, a.Equal(b))

	b[0] = 9
	assert.False(t, a.Equal(b))
}
