package ir

import "github.com/zerfoo/onnxrt/tensor"

// Model is the aggregate owning a graph's values, nodes, initializer
// tensors, and the model-level input/output value lists. It is built once
// and is read-only during execution; intermediate tensors produced while
// running live in session scratch storage, not here.
type Model struct {
	Values  ValueArena
	Nodes   NodeArena
	Inits   map[ValueId]*tensor.Tensor
	Inputs  []ValueId
	Outputs []ValueId
}

// NewModel returns an empty Model ready for incremental construction.
func NewModel() *Model {
	return &Model{Inits: make(map[ValueId]*tensor.Tensor)}
}

// Validate checks the Model invariants: every ValueId referenced by any
// live node is present in Values; every input/output is a valid ValueId;
// Inits keys are disjoint from Inputs.
func (m *Model) Validate() error {
	for _, id := range m.Inputs {
		if !m.Values.Valid(id) {
			return Newf(InvalidModel, "model input %d is not a valid ValueId", id)
		}

		if _, ok := m.Inits[id]; ok {
			return Newf(InvalidModel, "value %d is both a model input and an initializer", id)
		}
	}

	for _, id := range m.Outputs {
		if !m.Values.Valid(id) {
			return Newf(InvalidModel, "model output %d is not a valid ValueId", id)
		}
	}

	for id := range m.Inits {
		if !m.Values.Valid(id) {
			return Newf(InvalidModel, "initializer %d is not a valid ValueId", id)
		}
	}

	for _, nid := range m.Nodes.All() {
		n := m.Nodes.Get(nid)

		for _, id := range n.Inputs {
			if !m.Values.Valid(id) {
				return Newf(InvalidModel, "node %d references dangling input value %d", nid, id)
			}
		}

		for _, id := range n.Outputs {
			if !m.Values.Valid(id) {
				return Newf(InvalidModel, "node %d references dangling output value %d", nid, id)
			}
		}
	}

	return nil
}

// GetValueUsers returns, for every ValueId produced or consumed anywhere in
// the graph, the set of live NodeIds that consume it as an input, in arena
// insertion order.
func (m *Model) GetValueUsers() map[ValueId][]NodeId {
	users := make(map[ValueId][]NodeId)

	for _, nid := range m.Nodes.All() {
		n := m.Nodes.Get(nid)
		for _, in := range n.Inputs {
			users[in] = append(users[in], nid)
		}
	}

	return users
}

// TopoSort yields a linear order of live NodeIds such that every node's
// inputs are either model inputs, initializers, or outputs of earlier
// nodes. Per the open question on `inputs[0]`-only readiness, every model
// input is treated as ready from the start, not just the first.
//
// Algorithm: seed the ready set from initializers and model inputs, build a
// value-to-consuming-nodes index, count each live node's unready input
// values, queue zero-count nodes, then repeatedly pop a node, emit it, and
// decrement the unready-input count of every consumer of its outputs. A
// value that is a declared model output terminates propagation at that
// edge: its consumers are not enqueued across the output boundary, even if
// the same value also feeds an internal node.
func (m *Model) TopoSort() ([]NodeId, error) {
	ready := make(map[ValueId]bool, m.Values.Len())

	for id := range m.Inits {
		ready[id] = true
	}

	for _, id := range m.Inputs {
		ready[id] = true
	}

	isOutput := make(map[ValueId]bool, len(m.Outputs))
	for _, id := range m.Outputs {
		isOutput[id] = true
	}

	users := m.GetValueUsers()

	live := m.Nodes.All()
	unreadyCount := make(map[NodeId]int, len(live))
	queue := make([]NodeId, 0, len(live))

	for _, nid := range live {
		n := m.Nodes.Get(nid)

		count := 0
		for _, in := range n.Inputs {
			if !ready[in] {
				count++
			}
		}

		unreadyCount[nid] = count
		if count == 0 {
			queue = append(queue, nid)
		}
	}

	order := make([]NodeId, 0, len(live))

	for len(queue) > 0 {
		nid := queue[0]
		queue = queue[1:]
		order = append(order, nid)

		n := m.Nodes.Get(nid)
		for _, out := range n.Outputs {
			ready[out] = true

			if isOutput[out] {
				continue
			}

			for _, consumer := range users[out] {
				unreadyCount[consumer]--
				if unreadyCount[consumer] == 0 {
					queue = append(queue, consumer)
				}
			}
		}
	}

	if len(order) != len(live) {
		return nil, Newf(InvalidModel, "topo_sort: graph has a cycle or an unreachable node (ordered %d of %d nodes)", len(order), len(live))
	}

	return order, nil
}
