package dims_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerfoo/onnxrt/dims"
)

func TestBroadcast(t *testing.T) {
	tests := []struct {
		name    string
		shapes  []dims.Dimensions
		want    dims.Dimensions
		wantErr bool
	}{
		{
			name:   "single",
			shapes: []dims.Dimensions{{1}},
			want:   dims.Dimensions{1},
		},
		{
			name:   "scalar and vector",
			shapes: []dims.Dimensions{{1}, {4, 1}},
			want:   dims.Dimensions{4, 1},
		},
		{
			name:   "vector and scalar commutes",
			shapes: []dims.Dimensions{{4, 1}, {1}},
			want:   dims.Dimensions{4, 1},
		},
		{
			name:    "incompatible trailing extents",
			shapes:  []dims.Dimensions{{10, 20, 30}, {10, 20}},
			wantErr: true,
		},
		{
			name:   "rank mismatch with leading pad",
			shapes: []dims.Dimensions{{1, 3, 3}, {5, 1, 3, 3}},
			want:   dims.Dimensions{5, 1, 3, 3},
		},
		{
			name:   "unit dims preserved where matched",
			shapes: []dims.Dimensions{{1, 3, 1}, {5, 3, 10}},
			want:   dims.Dimensions{5, 3, 10},
		},
		{
			name:   "conv bias broadcast",
			shapes: []dims.Dimensions{{1, 3, 4, 4}, {3, 1, 1}},
			want:   dims.Dimensions{1, 3, 4, 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := dims.Broadcast(tt.shapes...)
			if tt.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %v, got %v", tt.want, got)
		})
	}
}

func TestBroadcastCommutative(t *testing.T) {
	a := dims.Dimensions{1, 3, 4, 4}
	b := dims.Dimensions{3, 1, 1}

	ab, err := dims.Broadcast(a, b)
	require.NoError(t, err)

	ba, err := dims.Broadcast(b, a)
	require.NoError(t, err)

	assert.True(t, ab.Equal(ba))
}

func TestBroadcastFailsOnRankMismatchedTrailing(t *testing.T) {
	_, err := dims.Broadcast(dims.Dimensions{10, 20}, dims.Dimensions{10, 20, 30})
	require.Error(t, err)
}
