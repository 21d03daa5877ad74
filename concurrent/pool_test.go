package concurrent_test

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zerfoo/onnxrt/concurrent"
)

func TestSingleThreadPoolRunsInline(t *testing.T) {
	p := concurrent.New(1)
	defer p.Close()

	assert.Equal(t, 1, p.NumThreads())

	var ran bool
	p.Scope(func(s *concurrent.Scope) {
		s.Spawn(func() { ran = true })
		assert.True(t, ran, "single-thread Spawn must run synchronously")
	})
}

func TestMultiThreadPoolJoinsAllSpawns(t *testing.T) {
	p := concurrent.New(4)
	defer p.Close()

	assert.Equal(t, 4, p.NumThreads())

	var count atomic.Int32

	p.Scope(func(s *concurrent.Scope) {
		for i := 0; i < 100; i++ {
			s.Spawn(func() { count.Add(1) })
		}
	})

	assert.Equal(t, int32(100), count.Load())
}

func TestNewClampsNonPositiveThreadCount(t *testing.T) {
	p := concurrent.New(0)
	defer p.Close()

	assert.Equal(t, 1, p.NumThreads())
}
