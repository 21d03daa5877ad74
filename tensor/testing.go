package tensor

import (
	"math"
	"testing"
)

// AssertApproxEqual fails t if actual and expected do not have matching
// shapes and element-wise float32 values within epsilon. Both tensors must
// be of type F32.
func AssertApproxEqual(t *testing.T, actual, expected *Tensor, epsilon float32) bool {
	t.Helper()

	if !actual.Dims().Equal(expected.Dims()) {
		t.Errorf("tensor shapes do not match: actual %v, expected %v", actual.Dims(), expected.Dims())

		return false
	}

	actualData := actual.Float32()
	expectedData := expected.Float32()

	if len(actualData) != len(expectedData) {
		t.Errorf("tensor data lengths do not match: actual %d, expected %d", len(actualData), len(expectedData))

		return false
	}

	for i := range actualData {
		if math.Abs(float64(actualData[i])-float64(expectedData[i])) > float64(epsilon) {
			t.Errorf("tensor elements at index %d are not approximately equal: actual %v, expected %v, epsilon %v", i, actualData[i], expectedData[i], epsilon)

			return false
		}
	}

	return true
}
