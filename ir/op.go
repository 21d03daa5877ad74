package ir

import (
	"github.com/zerfoo/onnxrt/dims"
	"github.com/zerfoo/onnxrt/tensor"
)

// OpKind is the closed tag of the Op union. New operators are added by
// extending this enum and giving Op a matching attribute field.
type OpKind int

const (
	OpAdd OpKind = iota
	OpSub
	OpMul
	OpDiv
	OpPow
	OpReLU
	OpSigmoid
	OpGelu
	OpErf
	OpSqrt
	OpExp
	OpRound
	OpCast
	OpClip
	OpSoftmax
	OpLeakyReLU
	OpHardSigmoid
	OpBatchNormalization
	OpConv2d
	OpMaxPool
	OpGlobalAveragePool
	OpReshape
	OpFlatten
	OpResize
	OpConcat
	OpTranspose
	OpSqueeze
	OpUnsqueeze
	OpReduceMin
	OpReduceMean
	OpTile
	OpSlice
	OpGather
	OpMatMul
	OpGemm
	OpLoop
	OpShape
	OpNonMaxSuppression
	OpConstant
)

func (k OpKind) String() string {
	switch k {
	case OpAdd:
		return "Add"
	case OpSub:
		return "Sub"
	case OpMul:
		return "Mul"
	case OpDiv:
		return "Div"
	case OpPow:
		return "Pow"
	case OpReLU:
		return "ReLU"
	case OpSigmoid:
		return "Sigmoid"
	case OpGelu:
		return "Gelu"
	case OpErf:
		return "Erf"
	case OpSqrt:
		return "Sqrt"
	case OpExp:
		return "Exp"
	case OpRound:
		return "Round"
	case OpCast:
		return "Cast"
	case OpClip:
		return "Clip"
	case OpSoftmax:
		return "Softmax"
	case OpLeakyReLU:
		return "LeakyReLU"
	case OpHardSigmoid:
		return "HardSigmoid"
	case OpBatchNormalization:
		return "BatchNormalization"
	case OpConv2d:
		return "Conv2d"
	case OpMaxPool:
		return "MaxPool"
	case OpGlobalAveragePool:
		return "GlobalAveragePool"
	case OpReshape:
		return "Reshape"
	case OpFlatten:
		return "Flatten"
	case OpResize:
		return "Resize"
	case OpConcat:
		return "Concat"
	case OpTranspose:
		return "Transpose"
	case OpSqueeze:
		return "Squeeze"
	case OpUnsqueeze:
		return "Unsqueeze"
	case OpReduceMin:
		return "ReduceMin"
	case OpReduceMean:
		return "ReduceMean"
	case OpTile:
		return "Tile"
	case OpSlice:
		return "Slice"
	case OpGather:
		return "Gather"
	case OpMatMul:
		return "MatMul"
	case OpGemm:
		return "Gemm"
	case OpLoop:
		return "Loop"
	case OpShape:
		return "Shape"
	case OpNonMaxSuppression:
		return "NonMaxSuppression"
	case OpConstant:
		return "Constant"
	default:
		return "Unknown"
	}
}

// UnsupportedShapeInference reports whether op's shape-inference rule is
// intentionally not implemented by this core; callers should surface
// UnsupportedOp rather than attempt to guess a shape.
func (k OpKind) UnsupportedShapeInference() bool {
	switch k {
	case OpLoop, OpShape, OpNonMaxSuppression, OpConstant:
		return true
	default:
		return false
	}
}

// Conv2dAttrs is the attribute record for OpConv2d.
type Conv2dAttrs struct {
	AutoPad     string
	Dilations   dims.Dimensions
	Group       int64
	KernelShape dims.Dimensions
	Strides     dims.Dimensions
	Padding     dims.Dimensions
}

// MaxPoolAttrs is the attribute record for OpMaxPool.
type MaxPoolAttrs struct {
	KernelShape dims.Dimensions
	Strides     dims.Dimensions
}

// FlattenAttrs is the attribute record for OpFlatten.
type FlattenAttrs struct {
	Axis int64
}

// GemmAttrs is the attribute record for OpGemm.
type GemmAttrs struct {
	Alpha  float32
	Beta   float32
	TransA bool
	TransB bool
}

// HardSigmoidAttrs is the attribute record for OpHardSigmoid.
type HardSigmoidAttrs struct {
	Alpha float32
	Beta  float32
}

// ResizeAttrs is the attribute record for OpResize.
type ResizeAttrs struct {
	CoordinateTransformationMode string
	Mode                         string
	NearestMode                  string
}

// ConcatAttrs is the attribute record for OpConcat.
type ConcatAttrs struct {
	Axis int64
}

// TransposeAttrs is the attribute record for OpTranspose.
type TransposeAttrs struct {
	Perm []int64
}

// SqueezeAttrs is the attribute record for OpSqueeze.
type SqueezeAttrs struct {
	Axes []int64
}

// UnsqueezeAttrs is the attribute record for OpUnsqueeze.
type UnsqueezeAttrs struct {
	Axes []int64
}

// ReduceAttrs is the attribute record shared by OpReduceMin and OpReduceMean.
type ReduceAttrs struct {
	Axes     []int64
	KeepDims bool
}

// GatherAttrs is the attribute record for OpGather.
type GatherAttrs struct {
	Axis int64
}

// SoftmaxAttrs is the attribute record for OpSoftmax.
type SoftmaxAttrs struct {
	Axis int64
}

// LeakyReLUAttrs is the attribute record for OpLeakyReLU.
type LeakyReLUAttrs struct {
	Alpha float32
}

// BatchNormalizationAttrs is the attribute record for OpBatchNormalization.
type BatchNormalizationAttrs struct {
	Epsilon float32
}

// CastAttrs is the attribute record for OpCast.
type CastAttrs struct {
	To tensor.ElemType
}

// Op is the tagged union of every operator this core recognizes. Exactly
// one attribute field is populated, selected by Kind; attribute-free
// operators leave every field at its zero value.
type Op struct {
	Kind OpKind

	Conv2d             Conv2dAttrs
	MaxPool            MaxPoolAttrs
	Flatten            FlattenAttrs
	Gemm               GemmAttrs
	HardSigmoid        HardSigmoidAttrs
	Resize             ResizeAttrs
	Concat             ConcatAttrs
	Transpose          TransposeAttrs
	Squeeze            SqueezeAttrs
	Unsqueeze          UnsqueezeAttrs
	Reduce             ReduceAttrs
	Gather             GatherAttrs
	Softmax            SoftmaxAttrs
	LeakyReLU          LeakyReLUAttrs
	BatchNormalization BatchNormalizationAttrs
	Cast               CastAttrs
}

// Positional input/output indices, authoritative per the operator catalog.
const (
	Conv2dIn     = 0
	Conv2dWeight = 1
	Conv2dBias   = 2
	Conv2dOut    = 0

	BinaryIn0 = 0
	BinaryIn1 = 1
	BinaryOut = 0

	UnaryIn  = 0
	UnaryOut = 0

	ReshapeIn    = 0
	ReshapeShape = 1
	ReshapeOut   = 0

	ResizeIn     = 0
	ResizeRoi    = 1
	ResizeScales = 2
	ResizeSizes  = 3
	ResizeOut    = 0

	TileIn      = 0
	TileRepeats = 1
	TileOut     = 0

	SliceData  = 0
	SliceStart = 1
	SliceEnd   = 2
	SliceAxes  = 3
	SliceSteps = 4
	SliceOut   = 0

	GatherData    = 0
	GatherIndices = 1
	GatherOut     = 0

	MatMulA   = 0
	MatMulB   = 1
	MatMulOut = 0

	GemmA   = 0
	GemmB   = 1
	GemmC   = 2
	GemmOut = 0

	BatchNormX     = 0
	BatchNormScale = 1
	BatchNormBias  = 2
	BatchNormMean  = 3
	BatchNormVar   = 4
	BatchNormOut   = 0
)

// IsBinaryElementwise reports whether op derives its output shape via
// broadcast over exactly two inputs.
func (k OpKind) IsBinaryElementwise() bool {
	switch k {
	case OpAdd, OpSub, OpMul, OpDiv, OpPow:
		return true
	default:
		return false
	}
}

// IsUnaryElementwise reports whether op returns its single input's shape unchanged.
func (k OpKind) IsUnaryElementwise() bool {
	switch k {
	case OpReLU, OpSigmoid, OpGelu, OpErf, OpSqrt, OpExp, OpRound,
		OpCast, OpClip, OpSoftmax, OpLeakyReLU, OpHardSigmoid, OpBatchNormalization:
		return true
	default:
		return false
	}
}
