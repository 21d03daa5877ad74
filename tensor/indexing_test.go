package tensor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerfoo/onnxrt/dims"
	"github.com/zerfoo/onnxrt/tensor"
)

func TestAtSetF32(t *testing.T) {
	tr, err := tensor.NewFromFloat32(dims.Dimensions{2, 3}, make([]float32, 6))
	require.NoError(t, err)

	require.NoError(t, tr.SetF32(7, 1, 2))

	v, err := tr.AtF32(1, 2)
	require.NoError(t, err)
	assert.Equal(t, float32(7), v)
}

func TestAtOutOfBounds(t *testing.T) {
	tr, err := tensor.NewFromFloat32(dims.Dimensions{2, 3}, make([]float32, 6))
	require.NoError(t, err)

	_, err = tr.AtF32(2, 0)
	require.Error(t, err)
}

func TestAtWrongRank(t *testing.T) {
	tr, err := tensor.NewFromFloat32(dims.Dimensions{2, 3}, make([]float32, 6))
	require.NoError(t, err)

	_, err = tr.AtF32(1)
	require.Error(t, err)
}

func TestAtSetI64(t *testing.T) {
	tr, err := tensor.NewFromInt64(dims.Dimensions{4}, make([]int64, 4))
	require.NoError(t, err)

	require.NoError(t, tr.SetI64(-12, 3))

	v, err := tr.AtI64(3)
	require.NoError(t, err)
	assert.Equal(t, int64(-12), v)
}
