package runtime_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerfoo/onnxrt/dims"
	"github.com/zerfoo/onnxrt/internal/fixtures"
	"github.com/zerfoo/onnxrt/ir"
	"github.com/zerfoo/onnxrt/runtime"
	"github.com/zerfoo/onnxrt/tensor"
)

func buildMNISTSession(t *testing.T, threads int) (*runtime.Session, *ir.Model) {
	t.Helper()

	m := fixtures.MNIST()

	s, err := runtime.New(m).
		WithIntraOpNumThreads(threads).
		WithInputShape(m.Inputs[0], fixtures.MNISTInputShape()).
		Build()
	require.NoError(t, err)

	return s, m
}

func TestSessionRunMNISTProducesDeclaredOutputShape(t *testing.T) {
	s, m := buildMNISTSession(t, 1)
	defer s.Close()

	input := tensor.Zeros(dims.Dimensions{1, 1, 28, 28}, tensor.F32)

	out, err := s.Run([]runtime.Feed{{Input: m.Inputs[0], Data: input}})
	require.NoError(t, err)
	require.Len(t, out, 1)

	assert.True(t, dims.Dimensions{1, 10}.Equal(out[0].Dims()))
	assert.Equal(t, tensor.F32, out[0].ElemType())
}

func TestSessionRunIsThreadCountInvariant(t *testing.T) {
	input := tensor.Zeros(dims.Dimensions{1, 1, 28, 28}, tensor.F32)

	var reference []float32

	for _, threads := range []int{1, 2, 4} {
		s, m := buildMNISTSession(t, threads)

		out, err := s.Run([]runtime.Feed{{Input: m.Inputs[0], Data: input}})
		require.NoError(t, err)

		s.Close()

		if reference == nil {
			reference = append([]float32(nil), out[0].Float32()...)
		} else {
			assert.Equal(t, reference, out[0].Float32(), "thread count %d diverged from single-threaded baseline", threads)
		}
	}
}

func TestSessionRunRejectsFeedForUndeclaredInput(t *testing.T) {
	s, _ := buildMNISTSession(t, 1)
	defer s.Close()

	bogus := ir.ValueId(99999)
	input := tensor.Zeros(dims.Dimensions{1, 1, 28, 28}, tensor.F32)

	_, err := s.Run([]runtime.Feed{{Input: bogus, Data: input}})
	require.Error(t, err)
	assert.True(t, ir.Is(err, ir.FeedMismatch))
}

func TestSessionRunRejectsShapeMismatchedFeed(t *testing.T) {
	s, m := buildMNISTSession(t, 1)
	defer s.Close()

	wrongShape := tensor.Zeros(dims.Dimensions{1, 1, 14, 14}, tensor.F32)

	_, err := s.Run([]runtime.Feed{{Input: m.Inputs[0], Data: wrongShape}})
	require.Error(t, err)
	assert.True(t, ir.Is(err, ir.FeedMismatch))
}

func TestSessionRunRejectsElemTypeMismatchedFeed(t *testing.T) {
	s, m := buildMNISTSession(t, 1)
	defer s.Close()

	wrongType := tensor.Zeros(dims.Dimensions{1, 1, 28, 28}, tensor.I32)

	_, err := s.Run([]runtime.Feed{{Input: m.Inputs[0], Data: wrongType}})
	require.Error(t, err)
	assert.True(t, ir.Is(err, ir.FeedMismatch))
}

func TestBuildRejectsUnavailableBackend(t *testing.T) {
	m := fixtures.MNIST()

	_, err := runtime.New(m).
		WithBackend(runtime.BackendCUDA).
		WithInputShape(m.Inputs[0], fixtures.MNISTInputShape()).
		Build()

	require.Error(t, err)
	assert.True(t, ir.Is(err, ir.BackendUnavailable))
}

func TestProfilingLedgerRecordsNodesWhenEnabled(t *testing.T) {
	m := fixtures.MNIST()

	s, err := runtime.New(m).
		WithProfilingEnabled(true).
		WithInputShape(m.Inputs[0], fixtures.MNISTInputShape()).
		Build()
	require.NoError(t, err)
	defer s.Close()

	input := tensor.Zeros(dims.Dimensions{1, 1, 28, 28}, tensor.F32)
	_, err = s.Run([]runtime.Feed{{Input: m.Inputs[0], Data: input}})
	require.NoError(t, err)

	assert.Len(t, s.Timings(), m.Nodes.Len())
}
