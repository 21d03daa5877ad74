// Package shapeinfer drives per-operator shape inference across an entire
// model in topological order, producing the TypedShape of every value.
package shapeinfer

import (
	"github.com/zerfoo/onnxrt/ir"
	"github.com/zerfoo/onnxrt/tensor"
)

// Infer propagates TypedShapes from caller-provided input shapes and the
// model's initializers to every value reachable in order. Values whose
// operator needs concrete data (Reshape's shape operand, Slice's bounds,
// ...) must be initializers; non-initializer values are represented to
// InferOp as zero-byte shape-only tensors, since only their shape is known
// at this stage.
func Infer(model *ir.Model, order []ir.NodeId, inputShapes map[ir.ValueId]tensor.TypedShape) (map[ir.ValueId]tensor.TypedShape, error) {
	shapes := make(map[ir.ValueId]tensor.TypedShape, model.Values.Len())

	for id, ts := range inputShapes {
		shapes[id] = ts
	}

	for id, t := range model.Inits {
		shapes[id] = t.TypedShape()
	}

	for _, nid := range order {
		node := model.Nodes.Get(nid)

		inputs := make([]*tensor.Tensor, len(node.Inputs))

		for i, vid := range node.Inputs {
			if initTensor, ok := model.Inits[vid]; ok {
				inputs[i] = initTensor

				continue
			}

			ts, ok := shapes[vid]
			if !ok {
				return nil, ir.Newf(ir.ShapeInference, "value %d has unknown shape when node %d (%s) runs", vid, nid, node.Op.Kind)
			}

			inputs[i] = tensor.EmptyOfType(ts.ElemTy, ts.Dims)
		}

		mutableNode := model.Nodes.GetMutable(nid)

		outShapes, err := ir.InferOp(&mutableNode.Op, inputs)
		if err != nil {
			return nil, err
		}

		if len(outShapes) != len(node.Outputs) {
			return nil, ir.Newf(ir.ShapeInference, "node %d (%s) produced %d shapes for %d declared outputs",
				nid, node.Op.Kind, len(outShapes), len(node.Outputs))
		}

		for i, vid := range node.Outputs {
			shapes[vid] = outShapes[i]
			model.Values.SetShape(vid, outShapes[i])
		}
	}

	return shapes, nil
}
