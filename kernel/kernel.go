// Package kernel implements the numeric bodies of every operator in the
// catalog: the code that actually reads input tensor bytes and writes
// output tensor bytes, as opposed to ir.InferOp's shape-only arithmetic.
package kernel

import (
	"fmt"

	"github.com/zerfoo/onnxrt/concurrent"
	"github.com/zerfoo/onnxrt/ir"
	"github.com/zerfoo/onnxrt/tensor"
)

// Evaluator is the contract every operator kernel implements. Inputs are
// immutable views the kernel must not write through; Outputs are
// pre-sized, writable buffers the kernel fills completely. Scope, when
// non-nil, is the kernel's handle for intra-op parallelism.
type Evaluator interface {
	Eval(inputs []*tensor.Tensor, outputs []*tensor.Tensor, op *ir.Op, scope *concurrent.Scope) error
}

// EvalFunc adapts a plain function to the Evaluator interface.
type EvalFunc func(inputs []*tensor.Tensor, outputs []*tensor.Tensor, op *ir.Op, scope *concurrent.Scope) error

// Eval calls f.
func (f EvalFunc) Eval(inputs, outputs []*tensor.Tensor, op *ir.Op, scope *concurrent.Scope) error {
	return f(inputs, outputs, op, scope)
}

var registry = map[ir.OpKind]Evaluator{}

func register(kind ir.OpKind, e Evaluator) {
	registry[kind] = e
}

// Lookup returns the Evaluator registered for kind, or an UnsupportedOp
// error if the catalog has no kernel for it yet.
func Lookup(kind ir.OpKind) (Evaluator, error) {
	e, ok := registry[kind]
	if !ok {
		return nil, ir.Newf(ir.UnsupportedOp, "%s: no kernel registered", kind)
	}

	return e, nil
}

func kernelErrorf(kind ir.OpKind, format string, args ...any) error {
	return ir.Wrap(ir.KernelFailure, kind.String(), fmt.Errorf(format, args...))
}
