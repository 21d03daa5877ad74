package kernel

import (
	"github.com/zerfoo/onnxrt/concurrent"
	"github.com/zerfoo/onnxrt/internal/xblas"
	"github.com/zerfoo/onnxrt/ir"
	"github.com/zerfoo/onnxrt/tensor"
)

func init() {
	register(ir.OpMatMul, EvalFunc(evalMatMul))
	register(ir.OpGemm, EvalFunc(evalGemm))
}

// evalMatMul handles the shape families ir.InferOp accepts for MatMul: 2D,
// a 3D batch against a shared 2D right-hand side, 3D-batch x 3D-batch, and
// 4D tensors with unit leading batch dims.
func evalMatMul(inputs, outputs []*tensor.Tensor, irop *ir.Op, scope *concurrent.Scope) error {
	a, b, out := inputs[ir.MatMulA], inputs[ir.MatMulB], outputs[ir.MatMulOut]

	ad, bd := a.Dims(), b.Dims()

	var (
		batch          int
		m, k, n        int
		aBatchStride   int
		bBatchStride   int
		sharedB        bool
	)

	switch {
	case len(ad) == 2 && len(bd) == 2:
		batch, m, k, n = 1, ad[0], ad[1], bd[1]
	case len(ad) == 3 && len(bd) == 2:
		batch, m, k, n = ad[0], ad[1], ad[2], bd[1]
		aBatchStride, bBatchStride, sharedB = m*k, 0, true
	case len(ad) == 3 && len(bd) == 3:
		batch, m, k, n = ad[0], ad[1], ad[2], bd[2]
		aBatchStride, bBatchStride = m*k, k*n
	case len(ad) == 4 && len(bd) == 4:
		batch, m, k, n = ad[1], ad[2], ad[3], bd[3]
		aBatchStride, bBatchStride = m*k, k*n
	default:
		return kernelErrorf(irop.Kind, "unsupported MatMul operand shapes %v x %v", ad, bd)
	}

	af, bf, of := a.Float32(), b.Float32(), out.Float32()
	outStride := m * n

	run := func(i int) {
		aOff := i * aBatchStride
		bOff := 0
		if !sharedB {
			bOff = i * bBatchStride
		}

		xblas.GemmF32(false, false, m, n, k, 1, af[aOff:], bf[bOff:], 0, of[i*outStride:])
	}

	if scope == nil || batch == 1 {
		for i := 0; i < batch; i++ {
			run(i)
		}

		return nil
	}

	for i := 0; i < batch; i++ {
		i := i

		scope.Spawn(func() { run(i) })
	}

	return nil
}

func evalGemm(inputs, outputs []*tensor.Tensor, irop *ir.Op, scope *concurrent.Scope) error {
	a, b, out := inputs[ir.GemmA], inputs[ir.GemmB], outputs[ir.GemmOut]

	attrs := irop.Gemm

	ad, bd := a.Dims(), b.Dims()

	m, k := ad[0], ad[1]
	if attrs.TransA {
		m, k = ad[1], ad[0]
	}

	n := bd[1]
	if attrs.TransB {
		n = bd[0]
	}

	// attrs.Alpha/Beta already carry the ONNX defaults resolved at load
	// time (1.0 when unset); an explicit 0.0 is a legitimate Gemm
	// attribute value and must not be overridden here.
	alpha, beta := attrs.Alpha, attrs.Beta

	of := out.Float32()

	if len(inputs) > ir.GemmC && inputs[ir.GemmC] != nil {
		c := inputs[ir.GemmC]
		cStrides, err := c.StridesForBroadcasting(out.Dims())
		if err != nil {
			return kernelErrorf(irop.Kind, "%w", err)
		}

		cf := c.Float32()

		broadcastIterate(out.Dims(), [][]int{cStrides}, func(outIdx int, offs []int) {
			of[outIdx] = cf[offs[0]]
		})
	} else {
		beta = 0
	}

	xblas.GemmF32(attrs.TransA, attrs.TransB, m, n, k, alpha, a.Float32(), b.Float32(), beta, of)

	return nil
}
