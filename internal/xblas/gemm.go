// Package xblas wraps gonum's BLAS level-3 routines behind the plain
// row-major, flat-slice calling convention the kernel package's matmul and
// conv2d (im2col) kernels use.
package xblas

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
)

// GemmF32 computes C = alpha*op(A)*op(B) + beta*C for row-major contiguous
// matrices, where op(X) is X or X^T per transA/transB. A is (m, k) or (k, m)
// when transA; B is (k, n) or (n, k) when transB; C is always (m, n).
func GemmF32(transA, transB bool, m, n, k int, alpha float32, a []float32, b []float32, beta float32, c []float32) {
	aRows, aCols, aStride := m, k, k
	if transA {
		aRows, aCols, aStride = k, m, m
	}

	bRows, bCols, bStride := k, n, n
	if transB {
		bRows, bCols, bStride = n, k, k
	}

	A := blas32.General{Rows: aRows, Cols: aCols, Data: a, Stride: aStride}
	B := blas32.General{Rows: bRows, Cols: bCols, Data: b, Stride: bStride}
	C := blas32.General{Rows: m, Cols: n, Data: c, Stride: n}

	ta, tb := blas.NoTrans, blas.NoTrans
	if transA {
		ta = blas.Trans
	}

	if transB {
		tb = blas.Trans
	}

	blas32.Gemm(ta, tb, alpha, A, B, beta, C)
}
