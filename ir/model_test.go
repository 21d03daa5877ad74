package ir_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerfoo/onnxrt/internal/fixtures"
	"github.com/zerfoo/onnxrt/ir"
)

func TestMNISTValidates(t *testing.T) {
	m := fixtures.MNIST()
	require.NoError(t, m.Validate())
}

func TestMNISTTopoSortIsLinearExtension(t *testing.T) {
	m := fixtures.MNIST()

	order, err := m.TopoSort()
	require.NoError(t, err)
	assert.Len(t, order, len(m.Nodes.All()))

	position := make(map[ir.NodeId]int, len(order))
	for i, id := range order {
		position[id] = i
	}

	producer := make(map[ir.ValueId]ir.NodeId)
	for _, nid := range order {
		n := m.Nodes.Get(nid)
		for _, out := range n.Outputs {
			producer[out] = nid
		}
	}

	for _, nid := range order {
		n := m.Nodes.Get(nid)

		for _, in := range n.Inputs {
			if prod, ok := producer[in]; ok {
				assert.Less(t, position[prod], position[nid], "producer of %d must precede its consumer", in)
			}
		}
	}
}

func TestTopoSortIsDeterministic(t *testing.T) {
	a, err := fixtures.MNIST().TopoSort()
	require.NoError(t, err)

	b, err := fixtures.MNIST().TopoSort()
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestValidateRejectsDanglingInput(t *testing.T) {
	m := ir.NewModel()
	m.Inputs = []ir.ValueId{ir.ValueId(42)}

	require.Error(t, m.Validate())
}

func TestValidateRejectsInputInitOverlap(t *testing.T) {
	m := ir.NewModel()
	id := m.Values.NewValue()
	m.Inputs = []ir.ValueId{id}
	m.Inits[id] = nil

	require.Error(t, m.Validate())
}

func TestTopoSortStopsPropagationAtOutputBoundary(t *testing.T) {
	m := ir.NewModel()

	in := m.Values.NewValue()
	out := m.Values.NewValue()
	downstream := m.Values.NewValue()

	m.Nodes.NewNode(ir.Op{Kind: ir.OpReLU}, []ir.ValueId{in}, []ir.ValueId{out})
	m.Nodes.NewNode(ir.Op{Kind: ir.OpReLU}, []ir.ValueId{out}, []ir.ValueId{downstream})

	m.Inputs = []ir.ValueId{in}
	m.Outputs = []ir.ValueId{out}

	_, err := m.TopoSort()
	require.Error(t, err, "a node consuming a declared output value must not be reachable across that edge")
}

func TestGetValueUsers(t *testing.T) {
	m := fixtures.MNIST()
	users := m.GetValueUsers()

	order, err := m.TopoSort()
	require.NoError(t, err)

	first := order[0]
	n := m.Nodes.Get(first)
	assert.Contains(t, users[n.Inputs[0]], first)
}
