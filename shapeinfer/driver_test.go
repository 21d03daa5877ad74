package shapeinfer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerfoo/onnxrt/dims"
	"github.com/zerfoo/onnxrt/internal/fixtures"
	"github.com/zerfoo/onnxrt/ir"
	"github.com/zerfoo/onnxrt/shapeinfer"
	"github.com/zerfoo/onnxrt/tensor"
)

func TestInferShapesMNIST(t *testing.T) {
	m := fixtures.MNIST()

	order, err := m.TopoSort()
	require.NoError(t, err)

	inputShapes := map[ir.ValueId]tensor.TypedShape{
		m.Inputs[0]: fixtures.MNISTInputShape(),
	}

	shapes, err := shapeinfer.Infer(m, order, inputShapes)
	require.NoError(t, err)

	out := shapes[m.Outputs[0]]
	assert.True(t, dims.Dimensions{1, 10}.Equal(out.Dims))
	assert.Equal(t, 1, out.Dims[0])
	assert.Equal(t, 10, out.Dims[1])
	assert.Equal(t, tensor.F32, out.ElemTy)
}

func TestInferShapesFailsOnUnknownInputShape(t *testing.T) {
	m := fixtures.MNIST()

	order, err := m.TopoSort()
	require.NoError(t, err)

	_, err = shapeinfer.Infer(m, order, nil)
	require.Error(t, err)
	assert.True(t, ir.Is(err, ir.ShapeInference))
}
