// Package fixtures builds small, self-consistent graphs shared by tests
// across package boundaries — most notably the MNIST-8 topology used as the
// canonical end-to-end scenario.
package fixtures

import (
	"github.com/zerfoo/onnxrt/dims"
	"github.com/zerfoo/onnxrt/ir"
	"github.com/zerfoo/onnxrt/tensor"
)

func zeros(shape dims.Dimensions) *tensor.Tensor {
	return tensor.Zeros(shape, tensor.F32)
}

func i64Const(values ...int64) *tensor.Tensor {
	t, err := tensor.NewFromInt64(dims.Dimensions{len(values)}, values)
	if err != nil {
		panic(err)
	}

	return t
}

// MNIST builds the 12-node MNIST-8 classifier topology: two
// Conv2d+Add+ReLU+MaxPool stages followed by a flatten-via-reshape and a
// fully connected layer (Reshape, Reshape, MatMul, Add). Weight and bias
// initializers are zero-filled; the graph is shape-correct but not
// numerically trained.
func MNIST() *ir.Model {
	m := ir.NewModel()

	conv0In := m.Values.NewNamedValue("input")
	conv0Weight := m.Values.NewNamedValue("conv0.weight")
	conv0Out := m.Values.NewValue()

	conv0 := ir.Op{Kind: ir.OpConv2d, Conv2d: ir.Conv2dAttrs{
		AutoPad:     "SAME_UPPER",
		KernelShape: dims.Dimensions{5, 5},
		Strides:     dims.Dimensions{1, 1},
	}}
	m.Nodes.NewNamedNode("conv0", conv0, []ir.ValueId{conv0In, conv0Weight}, []ir.ValueId{conv0Out})

	add0Const := m.Values.NewNamedValue("conv0.bias")
	add0Out := m.Values.NewValue()
	m.Nodes.NewNamedNode("add0", ir.Op{Kind: ir.OpAdd}, []ir.ValueId{conv0Out, add0Const}, []ir.ValueId{add0Out})

	relu0Out := m.Values.NewValue()
	m.Nodes.NewNamedNode("relu0", ir.Op{Kind: ir.OpReLU}, []ir.ValueId{add0Out}, []ir.ValueId{relu0Out})

	maxpool0Out := m.Values.NewValue()
	maxpool0 := ir.Op{Kind: ir.OpMaxPool, MaxPool: ir.MaxPoolAttrs{KernelShape: dims.Dimensions{2, 2}, Strides: dims.Dimensions{2, 2}}}
	m.Nodes.NewNamedNode("maxpool0", maxpool0, []ir.ValueId{relu0Out}, []ir.ValueId{maxpool0Out})

	conv1Weight := m.Values.NewNamedValue("conv1.weight")
	conv1Out := m.Values.NewValue()
	conv1 := ir.Op{Kind: ir.OpConv2d, Conv2d: ir.Conv2dAttrs{
		AutoPad:     "SAME_UPPER",
		KernelShape: dims.Dimensions{5, 5},
		Strides:     dims.Dimensions{1, 1},
	}}
	m.Nodes.NewNamedNode("conv1", conv1, []ir.ValueId{maxpool0Out, conv1Weight}, []ir.ValueId{conv1Out})

	add1Const := m.Values.NewNamedValue("conv1.bias")
	add1Out := m.Values.NewValue()
	m.Nodes.NewNamedNode("add1", ir.Op{Kind: ir.OpAdd}, []ir.ValueId{conv1Out, add1Const}, []ir.ValueId{add1Out})

	relu1Out := m.Values.NewValue()
	m.Nodes.NewNamedNode("relu1", ir.Op{Kind: ir.OpReLU}, []ir.ValueId{add1Out}, []ir.ValueId{relu1Out})

	maxpool1Out := m.Values.NewValue()
	maxpool1 := ir.Op{Kind: ir.OpMaxPool, MaxPool: ir.MaxPoolAttrs{KernelShape: dims.Dimensions{3, 3}, Strides: dims.Dimensions{3, 3}}}
	m.Nodes.NewNamedNode("maxpool1", maxpool1, []ir.ValueId{relu1Out}, []ir.ValueId{maxpool1Out})

	reshape0Const := m.Values.NewNamedValue("reshape0.shape")
	reshape0Out := m.Values.NewValue()
	m.Nodes.NewNamedNode("reshape0", ir.Op{Kind: ir.OpReshape}, []ir.ValueId{maxpool1Out, reshape0Const}, []ir.ValueId{reshape0Out})

	reshape1Const0 := m.Values.NewNamedValue("fc.weight")
	reshape1Const1 := m.Values.NewNamedValue("reshape1.shape")
	reshape1Out := m.Values.NewValue()
	m.Nodes.NewNamedNode("reshape1", ir.Op{Kind: ir.OpReshape}, []ir.ValueId{reshape1Const0, reshape1Const1}, []ir.ValueId{reshape1Out})

	matmul0Out := m.Values.NewValue()
	m.Nodes.NewNamedNode("matmul0", ir.Op{Kind: ir.OpMatMul}, []ir.ValueId{reshape0Out, reshape1Out}, []ir.ValueId{matmul0Out})

	add2Const := m.Values.NewNamedValue("fc.bias")
	add2Out := m.Values.NewNamedValue("output")
	m.Nodes.NewNamedNode("add2", ir.Op{Kind: ir.OpAdd}, []ir.ValueId{matmul0Out, add2Const}, []ir.ValueId{add2Out})

	m.Inputs = []ir.ValueId{conv0In}
	m.Outputs = []ir.ValueId{add2Out}

	m.Inits[conv0Weight] = zeros(dims.Dimensions{8, 1, 5, 5})
	m.Inits[add0Const] = zeros(dims.Dimensions{8, 1, 1})
	m.Inits[conv1Weight] = zeros(dims.Dimensions{16, 8, 5, 5})
	m.Inits[add1Const] = zeros(dims.Dimensions{16, 1, 1})
	m.Inits[reshape0Const] = i64Const(1, 256)
	m.Inits[reshape1Const0] = zeros(dims.Dimensions{16, 4, 4, 10})
	m.Inits[reshape1Const1] = i64Const(256, 10)
	m.Inits[add2Const] = zeros(dims.Dimensions{10})

	return m
}

// MNISTInputShape is the declared shape/type of the MNIST-8 model's sole input.
func MNISTInputShape() tensor.TypedShape {
	return tensor.TypedShape{Dims: dims.Dimensions{1, 1, 28, 28}, ElemTy: tensor.F32}
}
