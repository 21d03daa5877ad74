// Package schedule turns a topologically ordered model into an execution
// plan: the node order plus, for every node, the set of values that can be
// freed once that node has run.
package schedule

import "github.com/zerfoo/onnxrt/ir"

// Plan is a topological node order augmented with per-node free sets: the
// ValueIds whose last consumer is that node, safe to drop from scratch
// storage once the node has executed.
type Plan struct {
	Order    []ir.NodeId
	FreeSets map[ir.NodeId][]ir.ValueId
}

// Build computes an execution Plan for model from a precomputed topo order.
// It scans order in reverse and marks the first (reverse) occurrence of
// each value referenced as a node input, skipping model outputs and
// initializers, which are never freed by the scheduler.
func Build(model *ir.Model, order []ir.NodeId) *Plan {
	isOutput := make(map[ir.ValueId]bool, len(model.Outputs))
	for _, id := range model.Outputs {
		isOutput[id] = true
	}

	freed := make(map[ir.ValueId]bool)
	freeSets := make(map[ir.NodeId][]ir.ValueId, len(order))

	for i := len(order) - 1; i >= 0; i-- {
		nid := order[i]
		node := model.Nodes.Get(nid)

		for _, in := range node.Inputs {
			if freed[in] || isOutput[in] {
				continue
			}

			if _, isInit := model.Inits[in]; isInit {
				continue
			}

			freed[in] = true
			freeSets[nid] = append(freeSets[nid], in)
		}
	}

	return &Plan{Order: append([]ir.NodeId(nil), order...), FreeSets: freeSets}
}
