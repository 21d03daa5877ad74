package runtime

import (
	"github.com/zerfoo/onnxrt/ir"
	"github.com/zerfoo/onnxrt/tensor"
)

// scratch is the session-owned store of live intermediate tensors, keyed
// by ValueId. Each value has a single writer (the producing node) and any
// number of readers until its free-set boundary is reached.
type scratch struct {
	tensors map[ir.ValueId]*tensor.Tensor
}

func newScratch() *scratch {
	return &scratch{tensors: make(map[ir.ValueId]*tensor.Tensor)}
}

func (s *scratch) bind(id ir.ValueId, t *tensor.Tensor) {
	s.tensors[id] = t
}

func (s *scratch) get(id ir.ValueId) (*tensor.Tensor, bool) {
	t, ok := s.tensors[id]

	return t, ok
}

func (s *scratch) free(id ir.ValueId) {
	delete(s.tensors, id)
}
