package modelio

import (
	"fmt"

	"github.com/zerfoo/onnxrt/ir"
	"github.com/zerfoo/onnxrt/tensor"
	"github.com/zerfoo/zmf"
)

var opKindNames = map[string]ir.OpKind{
	ir.OpAdd.String():                ir.OpAdd,
	ir.OpSub.String():                ir.OpSub,
	ir.OpMul.String():                ir.OpMul,
	ir.OpDiv.String():                ir.OpDiv,
	ir.OpPow.String():                ir.OpPow,
	ir.OpReLU.String():               ir.OpReLU,
	ir.OpSigmoid.String():            ir.OpSigmoid,
	ir.OpGelu.String():               ir.OpGelu,
	ir.OpErf.String():                ir.OpErf,
	ir.OpSqrt.String():               ir.OpSqrt,
	ir.OpExp.String():                ir.OpExp,
	ir.OpRound.String():              ir.OpRound,
	ir.OpCast.String():               ir.OpCast,
	ir.OpClip.String():               ir.OpClip,
	ir.OpSoftmax.String():            ir.OpSoftmax,
	ir.OpLeakyReLU.String():          ir.OpLeakyReLU,
	ir.OpHardSigmoid.String():        ir.OpHardSigmoid,
	ir.OpBatchNormalization.String(): ir.OpBatchNormalization,
	ir.OpConv2d.String():             ir.OpConv2d,
	ir.OpMaxPool.String():            ir.OpMaxPool,
	ir.OpGlobalAveragePool.String():  ir.OpGlobalAveragePool,
	ir.OpReshape.String():            ir.OpReshape,
	ir.OpFlatten.String():            ir.OpFlatten,
	ir.OpResize.String():             ir.OpResize,
	ir.OpConcat.String():             ir.OpConcat,
	ir.OpTranspose.String():          ir.OpTranspose,
	ir.OpSqueeze.String():            ir.OpSqueeze,
	ir.OpUnsqueeze.String():          ir.OpUnsqueeze,
	ir.OpReduceMin.String():          ir.OpReduceMin,
	ir.OpReduceMean.String():         ir.OpReduceMean,
	ir.OpTile.String():               ir.OpTile,
	ir.OpSlice.String():              ir.OpSlice,
	ir.OpGather.String():             ir.OpGather,
	ir.OpMatMul.String():             ir.OpMatMul,
	ir.OpGemm.String():               ir.OpGemm,
	ir.OpLoop.String():               ir.OpLoop,
	ir.OpShape.String():              ir.OpShape,
	ir.OpNonMaxSuppression.String():  ir.OpNonMaxSuppression,
	ir.OpConstant.String():           ir.OpConstant,
}

func parseOpKind(s string) (ir.OpKind, error) {
	kind, ok := opKindNames[s]
	if !ok {
		return 0, fmt.Errorf("unrecognized op type %q", s)
	}

	return kind, nil
}

func strAttr(s string) *zmf.Attribute { return &zmf.Attribute{Value: &zmf.Attribute_S{S: s}} }
func i64Attr(i int64) *zmf.Attribute  { return &zmf.Attribute{Value: &zmf.Attribute_I{I: i}} }
func f32Attr(f float32) *zmf.Attribute {
	return &zmf.Attribute{Value: &zmf.Attribute_F{F: f}}
}
func boolAttr(b bool) *zmf.Attribute { return &zmf.Attribute{Value: &zmf.Attribute_B{B: b}} }

func intsAttr(vs []int64) *zmf.Attribute {
	return &zmf.Attribute{Value: &zmf.Attribute_Ints{Ints: &zmf.Ints{Val: vs}}}
}

func getStr(m map[string]*zmf.Attribute, key string) string  { return m[key].GetS() }
func getI64(m map[string]*zmf.Attribute, key string) int64   { return m[key].GetI() }
func getF32(m map[string]*zmf.Attribute, key string) float32 { return m[key].GetF() }
func getBool(m map[string]*zmf.Attribute, key string) bool   { return m[key].GetB() }

// getF32Default returns the attribute's value, or def if the attribute is
// absent entirely. Unlike getF32, this distinguishes "not set" from an
// explicit 0.0, which matters for attributes like Gemm's alpha/beta whose
// ONNX default is non-zero.
func getF32Default(m map[string]*zmf.Attribute, key string, def float32) float32 {
	if _, ok := m[key]; ok {
		return m[key].GetF()
	}

	return def
}
func getInts(m map[string]*zmf.Attribute, key string) []int64 {
	if a := m[key]; a != nil {
		return a.GetInts().GetVal()
	}

	return nil
}

func dimsOf(vs []int64) []int {
	out := make([]int, len(vs))
	for i, v := range vs {
		out[i] = int(v)
	}

	return out
}

func i64Of(vs []int) []int64 {
	out := make([]int64, len(vs))
	for i, v := range vs {
		out[i] = int64(v)
	}

	return out
}

// encodeAttributes converts op's single populated attribute struct into a
// ZMF node's attribute map. Operators with no attribute struct (binary and
// unary elementwise ops, shape-relabeling ops with no parameters, etc.)
// contribute no entries.
func encodeAttributes(op ir.Op) map[string]*zmf.Attribute {
	out := make(map[string]*zmf.Attribute)

	switch op.Kind {
	case ir.OpConv2d:
		a := op.Conv2d
		out["auto_pad"] = strAttr(a.AutoPad)
		out["group"] = i64Attr(a.Group)
		out["kernel_shape"] = intsAttr(i64Of(a.KernelShape))
		out["strides"] = intsAttr(i64Of(a.Strides))
		out["dilations"] = intsAttr(i64Of(a.Dilations))
		out["padding"] = intsAttr(i64Of(a.Padding))
	case ir.OpMaxPool:
		a := op.MaxPool
		out["kernel_shape"] = intsAttr(i64Of(a.KernelShape))
		out["strides"] = intsAttr(i64Of(a.Strides))
	case ir.OpFlatten:
		out["axis"] = i64Attr(op.Flatten.Axis)
	case ir.OpGemm:
		a := op.Gemm
		out["alpha"] = f32Attr(a.Alpha)
		out["beta"] = f32Attr(a.Beta)
		out["transA"] = boolAttr(a.TransA)
		out["transB"] = boolAttr(a.TransB)
	case ir.OpHardSigmoid:
		out["alpha"] = f32Attr(op.HardSigmoid.Alpha)
		out["beta"] = f32Attr(op.HardSigmoid.Beta)
	case ir.OpResize:
		a := op.Resize
		out["coordinate_transformation_mode"] = strAttr(a.CoordinateTransformationMode)
		out["mode"] = strAttr(a.Mode)
		out["nearest_mode"] = strAttr(a.NearestMode)
	case ir.OpConcat:
		out["axis"] = i64Attr(op.Concat.Axis)
	case ir.OpTranspose:
		out["perm"] = intsAttr(op.Transpose.Perm)
	case ir.OpSqueeze:
		out["axes"] = intsAttr(op.Squeeze.Axes)
	case ir.OpUnsqueeze:
		out["axes"] = intsAttr(op.Unsqueeze.Axes)
	case ir.OpReduceMin, ir.OpReduceMean:
		a := op.Reduce
		out["axes"] = intsAttr(a.Axes)
		out["keepdims"] = boolAttr(a.KeepDims)
	case ir.OpGather:
		out["axis"] = i64Attr(op.Gather.Axis)
	case ir.OpSoftmax:
		out["axis"] = i64Attr(op.Softmax.Axis)
	case ir.OpLeakyReLU:
		out["alpha"] = f32Attr(op.LeakyReLU.Alpha)
	case ir.OpBatchNormalization:
		out["epsilon"] = f32Attr(op.BatchNormalization.Epsilon)
	case ir.OpCast:
		out["to"] = strAttr(op.Cast.To.String())
	}

	return out
}

// decodeAttributes reconstructs an Op of the given kind from its ZMF
// attribute map, the reverse of encodeAttributes.
func decodeAttributes(kind ir.OpKind, attrs map[string]*zmf.Attribute) (ir.Op, error) {
	op := ir.Op{Kind: kind}

	switch kind {
	case ir.OpConv2d:
		op.Conv2d = ir.Conv2dAttrs{
			AutoPad:     getStr(attrs, "auto_pad"),
			Group:       getI64(attrs, "group"),
			KernelShape: dimsOf(getInts(attrs, "kernel_shape")),
			Strides:     dimsOf(getInts(attrs, "strides")),
			Dilations:   dimsOf(getInts(attrs, "dilations")),
			Padding:     dimsOf(getInts(attrs, "padding")),
		}
	case ir.OpMaxPool:
		op.MaxPool = ir.MaxPoolAttrs{
			KernelShape: dimsOf(getInts(attrs, "kernel_shape")),
			Strides:     dimsOf(getInts(attrs, "strides")),
		}
	case ir.OpFlatten:
		op.Flatten = ir.FlattenAttrs{Axis: getI64(attrs, "axis")}
	case ir.OpGemm:
		op.Gemm = ir.GemmAttrs{
			Alpha:  getF32Default(attrs, "alpha", 1),
			Beta:   getF32Default(attrs, "beta", 1),
			TransA: getBool(attrs, "transA"),
			TransB: getBool(attrs, "transB"),
		}
	case ir.OpHardSigmoid:
		op.HardSigmoid = ir.HardSigmoidAttrs{Alpha: getF32(attrs, "alpha"), Beta: getF32(attrs, "beta")}
	case ir.OpResize:
		op.Resize = ir.ResizeAttrs{
			CoordinateTransformationMode: getStr(attrs, "coordinate_transformation_mode"),
			Mode:                         getStr(attrs, "mode"),
			NearestMode:                  getStr(attrs, "nearest_mode"),
		}
	case ir.OpConcat:
		op.Concat = ir.ConcatAttrs{Axis: getI64(attrs, "axis")}
	case ir.OpTranspose:
		op.Transpose = ir.TransposeAttrs{Perm: getInts(attrs, "perm")}
	case ir.OpSqueeze:
		op.Squeeze = ir.SqueezeAttrs{Axes: getInts(attrs, "axes")}
	case ir.OpUnsqueeze:
		op.Unsqueeze = ir.UnsqueezeAttrs{Axes: getInts(attrs, "axes")}
	case ir.OpReduceMin, ir.OpReduceMean:
		op.Reduce = ir.ReduceAttrs{Axes: getInts(attrs, "axes"), KeepDims: getBool(attrs, "keepdims")}
	case ir.OpGather:
		op.Gather = ir.GatherAttrs{Axis: getI64(attrs, "axis")}
	case ir.OpSoftmax:
		op.Softmax = ir.SoftmaxAttrs{Axis: getI64(attrs, "axis")}
	case ir.OpLeakyReLU:
		op.LeakyReLU = ir.LeakyReLUAttrs{Alpha: getF32(attrs, "alpha")}
	case ir.OpBatchNormalization:
		op.BatchNormalization = ir.BatchNormalizationAttrs{Epsilon: getF32(attrs, "epsilon")}
	case ir.OpCast:
		elemTy, err := parseElemType(getStr(attrs, "to"))
		if err != nil {
			return ir.Op{}, err
		}

		op.Cast = ir.CastAttrs{To: elemTy}
	}

	return op, nil
}

func parseElemType(s string) (tensor.ElemType, error) {
	switch s {
	case tensor.Bool.String():
		return tensor.Bool, nil
	case tensor.F32.String():
		return tensor.F32, nil
	case tensor.I32.String():
		return tensor.I32, nil
	case tensor.I64.String():
		return tensor.I64, nil
	default:
		return 0, fmt.Errorf("unrecognized Cast target element type %q", s)
	}
}
