package tensor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zerfoo/onnxrt/dims"
	"github.com/zerfoo/onnxrt/tensor"
)

func TestElemTypeSize(t *testing.T) {
	assert.Equal(t, 1, tensor.Bool.Size())
	assert.Equal(t, 4, tensor.F32.Size())
	assert.Equal(t, 4, tensor.I32.Size())
	assert.Equal(t, 8, tensor.I64.Size())
}

func TestTypedShapeEqual(t *testing.T) {
	a := tensor.TypedShape{Dims: dims.Dimensions{1, 2}, ElemTy: tensor.F32}
	b := tensor.TypedShape{Dims: dims.Dimensions{1, 2}, ElemTy: tensor.F32}
	c := tensor.TypedShape{Dims: dims.Dimensions{1, 2}, ElemTy: tensor.I32}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}
