// Package modelio implements this engine's native checkpoint format: saving
// and loading an ir.Model as a Zerfoo Model Format (.zmf) protobuf file.
// ONNX ingestion is an external front-end's job (see spec §6); this package
// only round-trips the graph this core already built.
package modelio

import (
	"fmt"
	"os"

	"google.golang.org/protobuf/proto"

	"github.com/zerfoo/onnxrt/dims"
	"github.com/zerfoo/onnxrt/ir"
	"github.com/zerfoo/onnxrt/tensor"
	"github.com/zerfoo/zmf"
)

// Save serializes model to path in ZMF format.
func Save(model *ir.Model, path string) error {
	zm, err := toZMF(model)
	if err != nil {
		return fmt.Errorf("modelio: %w", err)
	}

	data, err := proto.Marshal(zm)
	if err != nil {
		return fmt.Errorf("modelio: failed to marshal ZMF model: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // model checkpoints are not secrets
		return fmt.Errorf("modelio: failed to write %q: %w", path, err)
	}

	return nil
}

// Load reads and reconstructs an ir.Model from a ZMF file at path.
func Load(path string) (*ir.Model, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-supplied and validated by them
	if err != nil {
		return nil, fmt.Errorf("modelio: failed to read %q: %w", path, err)
	}

	zm := &zmf.Model{}
	if err := proto.Unmarshal(data, zm); err != nil {
		return nil, fmt.Errorf("modelio: failed to unmarshal ZMF data: %w", err)
	}

	return fromZMF(zm)
}

const outputsAttrKey = "__outputs__"

func valueName(values *ir.ValueArena, id ir.ValueId) string {
	v := values.Get(id)
	if v.Name != "" {
		return v.Name
	}

	return fmt.Sprintf("v%d", id)
}

func toZMF(model *ir.Model) (*zmf.Model, error) {
	zm := &zmf.Model{
		Metadata: &zmf.Metadata{ProducerName: "onnxrt", ProducerVersion: "1.0.0", OpsetVersion: 1},
		Graph:    &zmf.Graph{Parameters: make(map[string]*zmf.Tensor)},
	}

	for id, t := range model.Inits {
		zt, err := encodeTensor(t)
		if err != nil {
			return nil, fmt.Errorf("initializer %s: %w", valueName(&model.Values, id), err)
		}

		zm.Graph.Parameters[valueName(&model.Values, id)] = zt
	}

	for _, nid := range model.Nodes.All() {
		n := model.Nodes.Get(nid)

		zn := &zmf.Node{
			Name:       n.Name,
			OpType:     n.Op.Kind.String(),
			Attributes: encodeAttributes(n.Op),
		}

		for _, vid := range n.Inputs {
			zn.Inputs = append(zn.Inputs, valueName(&model.Values, vid))
		}

		outNames := make([]string, len(n.Outputs))
		for i, vid := range n.Outputs {
			outNames[i] = valueName(&model.Values, vid)
		}

		zn.Attributes[outputsAttrKey] = &zmf.Attribute{Value: &zmf.Attribute_Strings{Strings: &zmf.Strings{Val: outNames}}}

		zm.Graph.Nodes = append(zm.Graph.Nodes, zn)
	}

	for _, id := range model.Inputs {
		zm.Graph.Inputs = append(zm.Graph.Inputs, &zmf.ValueInfo{Name: valueName(&model.Values, id)})
	}

	for _, id := range model.Outputs {
		zm.Graph.Outputs = append(zm.Graph.Outputs, &zmf.ValueInfo{Name: valueName(&model.Values, id)})
	}

	return zm, nil
}

func fromZMF(zm *zmf.Model) (*ir.Model, error) {
	model := ir.NewModel()
	ids := make(map[string]ir.ValueId)

	resolve := func(name string) ir.ValueId {
		if id, ok := ids[name]; ok {
			return id
		}

		id := model.Values.NewNamedValue(name)
		ids[name] = id

		return id
	}

	for name, zt := range zm.Graph.GetParameters() {
		t, err := decodeTensor(zt)
		if err != nil {
			return nil, fmt.Errorf("modelio: parameter %q: %w", name, err)
		}

		model.Inits[resolve(name)] = t
	}

	for _, zn := range zm.Graph.GetNodes() {
		kind, err := parseOpKind(zn.GetOpType())
		if err != nil {
			return nil, fmt.Errorf("modelio: node %q: %w", zn.GetName(), err)
		}

		op, err := decodeAttributes(kind, zn.GetAttributes())
		if err != nil {
			return nil, fmt.Errorf("modelio: node %q: %w", zn.GetName(), err)
		}

		inputs := make([]ir.ValueId, len(zn.GetInputs()))
		for i, name := range zn.GetInputs() {
			inputs[i] = resolve(name)
		}

		outAttr := zn.GetAttributes()[outputsAttrKey]

		var outputNames []string
		if outAttr != nil {
			outputNames = outAttr.GetStrings().GetVal()
		}

		outputs := make([]ir.ValueId, len(outputNames))
		for i, name := range outputNames {
			outputs[i] = resolve(name)
		}

		model.Nodes.NewNamedNode(zn.GetName(), op, inputs, outputs)
	}

	for _, vi := range zm.Graph.GetInputs() {
		model.Inputs = append(model.Inputs, resolve(vi.GetName()))
	}

	for _, vi := range zm.Graph.GetOutputs() {
		model.Outputs = append(model.Outputs, resolve(vi.GetName()))
	}

	return model, nil
}

func encodeTensor(t *tensor.Tensor) (*zmf.Tensor, error) {
	dt, err := elemTypeToZMF(t.ElemType())
	if err != nil {
		return nil, err
	}

	d := t.Dims()
	shape := make([]int64, len(d))

	for i, v := range d {
		shape[i] = int64(v)
	}

	return &zmf.Tensor{Shape: shape, Dtype: dt, Data: append([]byte(nil), t.Bytes()...)}, nil
}

func decodeTensor(zt *zmf.Tensor) (*tensor.Tensor, error) {
	elemTy, err := elemTypeFromZMF(zt.GetDtype())
	if err != nil {
		return nil, err
	}

	shape := make(dims.Dimensions, len(zt.GetShape()))
	for i, v := range zt.GetShape() {
		shape[i] = int(v)
	}

	return tensor.New(shape, elemTy, zt.GetData())
}

func elemTypeToZMF(t tensor.ElemType) (zmf.Tensor_DataType, error) {
	switch t {
	case tensor.F32:
		return zmf.Tensor_FLOAT32, nil
	case tensor.I32:
		return zmf.Tensor_INT32, nil
	case tensor.I64:
		return zmf.Tensor_INT64, nil
	case tensor.Bool:
		// ZMF has no native boolean tensor type; INT8 is the nearest
		// single-byte-per-element encoding it defines.
		return zmf.Tensor_INT8, nil
	default:
		return 0, fmt.Errorf("modelio: element type %s has no ZMF encoding", t)
	}
}

func elemTypeFromZMF(dt zmf.Tensor_DataType) (tensor.ElemType, error) {
	switch dt {
	case zmf.Tensor_FLOAT32:
		return tensor.F32, nil
	case zmf.Tensor_INT32:
		return tensor.I32, nil
	case zmf.Tensor_INT64:
		return tensor.I64, nil
	case zmf.Tensor_INT8:
		return tensor.Bool, nil
	default:
		return 0, fmt.Errorf("modelio: ZMF dtype %v is not supported by this runtime", dt)
	}
}
