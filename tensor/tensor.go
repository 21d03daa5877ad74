package tensor

import (
	"fmt"
	"unsafe"

	"github.com/zerfoo/onnxrt/dims"
)

// Tensor is a typed, shape-attributed, reference-shared byte buffer with
// row-major strides by default. Sharing a Tensor's bytes (Share, Reshape)
// is cheap; mutating a Tensor whose buffer has additional strong
// references is forbidden until the caller calls EnsureUnique.
type Tensor struct {
	d         dims.Dimensions
	strides   []int
	elemTy    ElemType
	buf       *buffer
	shapeOnly bool
}

// New creates a Tensor over the given dims, element type, and raw bytes.
// len(data) must equal d.TotalElems() * elemTy.Size().
func New(d dims.Dimensions, elemTy ElemType, data []byte) (*Tensor, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	want := d.TotalElems() * elemTy.Size()
	if len(data) != want {
		return nil, fmt.Errorf("tensor: data length %d does not match shape %v of type %s (want %d bytes)", len(data), d, elemTy, want)
	}

	return &Tensor{
		d:       d.Clone(),
		strides: d.Strides(),
		elemTy:  elemTy,
		buf:     newBuffer(data),
	}, nil
}

// Zeros allocates a new zero-filled Tensor of the given shape and type.
func Zeros(d dims.Dimensions, elemTy ElemType) *Tensor {
	t, err := New(d, elemTy, make([]byte, d.TotalElems()*elemTy.Size()))
	if err != nil {
		// A negative dimension here means the caller built an invalid shape
		// upstream; shape inference should have rejected it already.
		panic(err)
	}

	return t
}

// Uninit allocates a new Tensor of the given shape and type without
// initializing its contents to any particular value. Go's allocator always
// zero-fills new memory, so this is observably identical to Zeros; the
// distinct name documents caller intent — the bytes are about to be
// overwritten by a kernel, not semantically meaningful zeros.
func Uninit(d dims.Dimensions, elemTy ElemType) *Tensor {
	return Zeros(d, elemTy)
}

// EmptyOfType returns a shape-only Tensor: it carries dims and element type
// but no backing bytes. Shape inference uses these to stand in for values
// whose concrete contents are unknown but whose shape is.
func EmptyOfType(elemTy ElemType, d dims.Dimensions) *Tensor {
	return &Tensor{
		d:         d.Clone(),
		strides:   d.Strides(),
		elemTy:    elemTy,
		buf:       newBuffer(nil),
		shapeOnly: true,
	}
}

// NewFromFloat32 builds a Tensor from float32 values.
func NewFromFloat32(d dims.Dimensions, data []float32) (*Tensor, error) {
	return New(d, F32, float32ToBytes(data))
}

// NewFromInt32 builds a Tensor from int32 values.
func NewFromInt32(d dims.Dimensions, data []int32) (*Tensor, error) {
	return New(d, I32, int32ToBytes(data))
}

// NewFromInt64 builds a Tensor from int64 values.
func NewFromInt64(d dims.Dimensions, data []int64) (*Tensor, error) {
	return New(d, I64, int64ToBytes(data))
}

// NewFromBool builds a Tensor from bool values.
func NewFromBool(d dims.Dimensions, data []bool) (*Tensor, error) {
	raw := make([]byte, len(data))
	for i, v := range data {
		if v {
			raw[i] = 1
		}
	}

	return New(d, Bool, raw)
}

// Dims returns a copy of the tensor's dimensions.
func (t *Tensor) Dims() dims.Dimensions { return t.d.Clone() }

// Strides returns a copy of the tensor's strides.
func (t *Tensor) Strides() []int {
	out := make([]int, len(t.strides))
	copy(out, t.strides)

	return out
}

// ElemType returns the tensor's element type.
func (t *Tensor) ElemType() ElemType { return t.elemTy }

// TypedShape returns the (dims, elem type) pair describing t.
func (t *Tensor) TypedShape() TypedShape {
	return TypedShape{Dims: t.Dims(), ElemTy: t.elemTy}
}

// Size returns the total number of elements.
func (t *Tensor) Size() int { return t.d.TotalElems() }

// IsShapeOnly reports whether t carries no backing bytes.
func (t *Tensor) IsShapeOnly() bool { return t.shapeOnly }

// Verify checks the Tensor invariant bytes.len() == dims.TotalElems() *
// elemTy.Size(). It always holds except for shape-only tensors.
func (t *Tensor) Verify() bool {
	if t.shapeOnly {
		return true
	}

	return len(t.buf.data) == t.d.TotalElems()*t.elemTy.Size()
}

// Bytes returns the tensor's raw backing bytes.
func (t *Tensor) Bytes() []byte { return t.buf.data }

// Float32 reinterprets the backing bytes as a []float32 view. The element type must be F32.
func (t *Tensor) Float32() []float32 {
	if t.elemTy != F32 {
		panic(fmt.Sprintf("tensor: Float32 called on a %s tensor", t.elemTy))
	}

	return bytesToFloat32(t.buf.data)
}

// Int32 reinterprets the backing bytes as a []int32 view. The element type must be I32.
func (t *Tensor) Int32() []int32 {
	if t.elemTy != I32 {
		panic(fmt.Sprintf("tensor: Int32 called on a %s tensor", t.elemTy))
	}

	return bytesToInt32(t.buf.data)
}

// Int64 reinterprets the backing bytes as a []int64 view. The element type must be I64.
func (t *Tensor) Int64() []int64 {
	if t.elemTy != I64 {
		panic(fmt.Sprintf("tensor: Int64 called on a %s tensor", t.elemTy))
	}

	return bytesToInt64(t.buf.data)
}

// Bool reinterprets the backing bytes as a []bool view. The element type must be Bool.
func (t *Tensor) Bool() []bool {
	if t.elemTy != Bool {
		panic(fmt.Sprintf("tensor: Bool called on a %s tensor", t.elemTy))
	}

	out := make([]bool, len(t.buf.data))
	for i, b := range t.buf.data {
		out[i] = b != 0
	}

	return out
}

// AsI64Slice returns the tensor's values as a []int64 regardless of its
// concrete integer element type, for operators (Reshape targets, Slice
// bounds, Tile repeats) that accept an integer initializer of any width.
func (t *Tensor) AsI64Slice() ([]int64, error) {
	switch t.elemTy {
	case I64:
		return t.Int64(), nil
	case I32:
		src := t.Int32()
		out := make([]int64, len(src))

		for i, v := range src {
			out[i] = int64(v)
		}

		return out, nil
	default:
		return nil, fmt.Errorf("tensor: cannot interpret %s tensor as integer indices", t.elemTy)
	}
}

// Share returns a new Tensor with the same dims/strides/type that shares
// this tensor's backing bytes. Tensor.Reshape uses this to avoid copying;
// the Reshape, Flatten, Squeeze and Unsqueeze kernels do not, and copy the
// bytes into their pre-allocated output instead.
func (t *Tensor) Share() *Tensor {
	return &Tensor{
		d:         t.d.Clone(),
		strides:   append([]int(nil), t.strides...),
		elemTy:    t.elemTy,
		buf:       t.buf.share(),
		shapeOnly: t.shapeOnly,
	}
}

// Copy returns a deep, independently-owned copy of t.
func (t *Tensor) Copy() *Tensor {
	data := make([]byte, len(t.buf.data))
	copy(data, t.buf.data)

	return &Tensor{
		d:         t.d.Clone(),
		strides:   append([]int(nil), t.strides...),
		elemTy:    t.elemTy,
		buf:       newBuffer(data),
		shapeOnly: t.shapeOnly,
	}
}

// EnsureUnique copies the backing bytes if they are shared with another
// Tensor, so the caller can safely mutate in place afterwards.
func (t *Tensor) EnsureUnique() {
	if t.buf.isShared() {
		t.buf = t.buf.clone()
	}
}

func (t *Tensor) String() string {
	return fmt.Sprintf("Tensor(dims=%v, type=%s)", t.d, t.elemTy)
}

func float32ToBytes(f []float32) []byte {
	if len(f) == 0 {
		return nil
	}

	ptr := unsafe.Pointer(&f[0])

	return unsafe.Slice((*byte)(ptr), len(f)*4)
}

func bytesToFloat32(b []byte) []float32 {
	if len(b) == 0 {
		return nil
	}

	ptr := unsafe.Pointer(&b[0])

	return unsafe.Slice((*float32)(ptr), len(b)/4)
}

func int32ToBytes(v []int32) []byte {
	if len(v) == 0 {
		return nil
	}

	ptr := unsafe.Pointer(&v[0])

	return unsafe.Slice((*byte)(ptr), len(v)*4)
}

func bytesToInt32(b []byte) []int32 {
	if len(b) == 0 {
		return nil
	}

	ptr := unsafe.Pointer(&b[0])

	return unsafe.Slice((*int32)(ptr), len(b)/4)
}

func int64ToBytes(v []int64) []byte {
	if len(v) == 0 {
		return nil
	}

	ptr := unsafe.Pointer(&v[0])

	return unsafe.Slice((*byte)(ptr), len(v)*8)
}

func bytesToInt64(b []byte) []int64 {
	if len(b) == 0 {
		return nil
	}

	ptr := unsafe.Pointer(&b[0])

	return unsafe.Slice((*int64)(ptr), len(b)/8)
}
