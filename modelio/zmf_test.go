package modelio_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerfoo/onnxrt/internal/fixtures"
	"github.com/zerfoo/onnxrt/ir"
	"github.com/zerfoo/onnxrt/modelio"
)

func TestSaveLoadRoundTripsMNIST(t *testing.T) {
	original := fixtures.MNIST()

	path := filepath.Join(t.TempDir(), "mnist.zmf")
	require.NoError(t, modelio.Save(original, path))

	loaded, err := modelio.Load(path)
	require.NoError(t, err)

	require.NoError(t, loaded.Validate())

	wantOrder, err := original.TopoSort()
	require.NoError(t, err)

	gotOrder, err := loaded.TopoSort()
	require.NoError(t, err)

	assert.Equal(t, len(wantOrder), len(gotOrder))
	assert.Len(t, loaded.Inputs, len(original.Inputs))
	assert.Len(t, loaded.Outputs, len(original.Outputs))
	assert.Len(t, loaded.Inits, len(original.Inits))

	for i, nid := range gotOrder {
		gotNode := loaded.Nodes.Get(nid)
		wantNode := original.Nodes.Get(wantOrder[i])

		assert.Equal(t, wantNode.Op.Kind, gotNode.Op.Kind)
		assert.Equal(t, wantNode.Name, gotNode.Name)

		if wantNode.Op.Kind == ir.OpConv2d {
			assert.Equal(t, []int(wantNode.Op.Conv2d.KernelShape), []int(gotNode.Op.Conv2d.KernelShape))
			assert.Equal(t, []int(wantNode.Op.Conv2d.Strides), []int(gotNode.Op.Conv2d.Strides))
			assert.Equal(t, wantNode.Op.Conv2d.AutoPad, gotNode.Op.Conv2d.AutoPad)
		}

		if wantNode.Op.Kind == ir.OpMaxPool {
			assert.Equal(t, []int(wantNode.Op.MaxPool.KernelShape), []int(gotNode.Op.MaxPool.KernelShape))
			assert.Equal(t, []int(wantNode.Op.MaxPool.Strides), []int(gotNode.Op.MaxPool.Strides))
		}
	}
}

func TestLoadRejectsMissingFile(t *testing.T) {
	_, err := modelio.Load(filepath.Join(t.TempDir(), "does-not-exist.zmf"))
	require.Error(t, err)
}
