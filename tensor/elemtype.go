// Package tensor implements the typed, shape-attributed, reference-shared
// byte-buffer tensor container: the data model every operator kernel and
// shape-inference rule reads and writes.
package tensor

import (
	"fmt"

	"github.com/zerfoo/onnxrt/dims"
)

// ElemType is the closed enumeration of element types a Tensor can hold.
type ElemType int

const (
	// Bool stores one byte per element (0 or 1).
	Bool ElemType = iota
	// F32 stores a 32-bit IEEE-754 float per element.
	F32
	// I32 stores a 32-bit two's-complement integer per element.
	I32
	// I64 stores a 64-bit two's-complement integer per element.
	I64
)

// Size returns the number of bytes a single element of t occupies.
func (t ElemType) Size() int {
	switch t {
	case Bool:
		return 1
	case F32:
		return 4
	case I32:
		return 4
	case I64:
		return 8
	default:
		return 0
	}
}

func (t ElemType) String() string {
	switch t {
	case Bool:
		return "Bool"
	case F32:
		return "F32"
	case I32:
		return "I32"
	case I64:
		return "I64"
	default:
		return fmt.Sprintf("ElemType(%d)", int(t))
	}
}

// TypedShape pairs a shape with the element type of the values it describes.
// This is the contract attached to every graph edge (ir.Value).
type TypedShape struct {
	Dims   dims.Dimensions
	ElemTy ElemType
}

// Equal reports whether two typed shapes describe the same dims and element type.
func (s TypedShape) Equal(other TypedShape) bool {
	return s.ElemTy == other.ElemTy && s.Dims.Equal(other.Dims)
}

func (s TypedShape) String() string {
	return fmt.Sprintf("%v:%s", s.Dims, s.ElemTy)
}
