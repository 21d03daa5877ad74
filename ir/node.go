package ir

// NodeId identifies a graph vertex. Opaque, stable, never reused.
type NodeId int

// Node is a graph vertex: an operator applied to positional input values,
// producing positional output values. Deleted nodes remain in the arena
// (ids must stay stable) but are excluded from traversal and scheduling.
type Node struct {
	Op      Op
	Name    string
	Inputs  []ValueId
	Outputs []ValueId
	Deleted bool
}

// NodeArena is an append-only store of Nodes, minting stable NodeIds.
type NodeArena struct {
	nodes []Node
}

// NewNode allocates a Node with the given op, inputs, and outputs.
func (a *NodeArena) NewNode(op Op, inputs, outputs []ValueId) NodeId {
	a.nodes = append(a.nodes, Node{Op: op, Inputs: inputs, Outputs: outputs})

	return NodeId(len(a.nodes) - 1)
}

// NewNamedNode allocates a Node with a name, for diagnostics.
func (a *NodeArena) NewNamedNode(name string, op Op, inputs, outputs []ValueId) NodeId {
	a.nodes = append(a.nodes, Node{Op: op, Name: name, Inputs: inputs, Outputs: outputs})

	return NodeId(len(a.nodes) - 1)
}

// Get returns the Node for id.
func (a *NodeArena) Get(id NodeId) Node {
	return a.nodes[id]
}

// GetMutable exposes the node for op-attribute rewrites during shape
// inference (e.g. resolving auto_pad to explicit padding).
func (a *NodeArena) GetMutable(id NodeId) *Node {
	return &a.nodes[id]
}

// MarkDeleted excludes id from future traversal without reusing its slot.
func (a *NodeArena) MarkDeleted(id NodeId) {
	a.nodes[id].Deleted = true
}

// Len returns the number of nodes minted so far, deleted or not.
func (a *NodeArena) Len() int { return len(a.nodes) }

// Valid reports whether id was minted by this arena.
func (a *NodeArena) Valid(id NodeId) bool {
	return id >= 0 && int(id) < len(a.nodes)
}

// All returns every live (non-deleted) NodeId in arena insertion order.
func (a *NodeArena) All() []NodeId {
	out := make([]NodeId, 0, len(a.nodes))

	for i, n := range a.nodes {
		if !n.Deleted {
			out = append(out, NodeId(i))
		}
	}

	return out
}
