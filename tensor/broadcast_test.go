package tensor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerfoo/onnxrt/dims"
	"github.com/zerfoo/onnxrt/tensor"
)

func TestStridesForBroadcastingUnitDims(t *testing.T) {
	tr, err := tensor.NewFromFloat32(dims.Dimensions{3, 1, 1}, []float32{1, 2, 3})
	require.NoError(t, err)

	strides, err := tr.StridesForBroadcasting(dims.Dimensions{1, 3, 4, 4})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 0, 0}, strides)
}

func TestStridesForBroadcastingIdentity(t *testing.T) {
	tr, err := tensor.NewFromFloat32(dims.Dimensions{2, 3}, make([]float32, 6))
	require.NoError(t, err)

	strides, err := tr.StridesForBroadcasting(dims.Dimensions{2, 3})
	require.NoError(t, err)
	assert.Equal(t, tr.Strides(), strides)
}

func TestStridesForBroadcastingRejectsHigherRank(t *testing.T) {
	tr, err := tensor.NewFromFloat32(dims.Dimensions{2, 3, 4}, make([]float32, 24))
	require.NoError(t, err)

	_, err = tr.StridesForBroadcasting(dims.Dimensions{3, 4})
	require.Error(t, err)
}

func TestStridesForBroadcastingRejectsDisagreeingExtents(t *testing.T) {
	tr, err := tensor.NewFromFloat32(dims.Dimensions{5}, make([]float32, 5))
	require.NoError(t, err)

	_, err = tr.StridesForBroadcasting(dims.Dimensions{7})
	require.Error(t, err)
}
