package tensor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zerfoo/onnxrt/tensor"
)

func TestConvertInt64ToInt(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3}, tensor.ConvertInt64ToInt([]int64{1, 2, 3}))
}

func TestConvertIntToInt64(t *testing.T) {
	assert.Equal(t, []int64{1, 2, 3}, tensor.ConvertIntToInt64([]int{1, 2, 3}))
}

func TestProduct(t *testing.T) {
	assert.Equal(t, 24, tensor.Product([]int{2, 3, 4}))
	assert.Equal(t, 1, tensor.Product(nil))
}
