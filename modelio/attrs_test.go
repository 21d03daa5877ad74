package modelio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerfoo/onnxrt/ir"
	"github.com/zerfoo/zmf"
)

func TestDecodeGemmAttrsDefaultsAlphaAndBetaWhenAbsent(t *testing.T) {
	op, err := decodeAttributes(ir.OpGemm, map[string]*zmf.Attribute{})
	require.NoError(t, err)

	assert.Equal(t, float32(1), op.Gemm.Alpha)
	assert.Equal(t, float32(1), op.Gemm.Beta)
}

func TestDecodeGemmAttrsPreservesExplicitZero(t *testing.T) {
	op, err := decodeAttributes(ir.OpGemm, map[string]*zmf.Attribute{
		"alpha": f32Attr(0),
		"beta":  f32Attr(0),
	})
	require.NoError(t, err)

	assert.Equal(t, float32(0), op.Gemm.Alpha)
	assert.Equal(t, float32(0), op.Gemm.Beta)
}
