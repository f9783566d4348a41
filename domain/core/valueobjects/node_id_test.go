package valueobjects

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNodeID(t *testing.T) {
	tests := []struct {
		input   string
		want    NodeID
		wantErr bool
	}{
		{"1", 1, false},
		{"42", 42, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseNodeID(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewEdgeKey(t *testing.T) {
	assert.Equal(t, EdgeKey("7->3"), NewEdgeKey(7, 3))
	assert.Equal(t, "12->1", NewEdgeKey(12, 1).String())
}

func TestNewPosition(t *testing.T) {
	p, err := NewPosition(10.5, -4)
	require.NoError(t, err)
	assert.Equal(t, 10.5, p.X())
	assert.Equal(t, -4.0, p.Y())

	_, err = NewPosition(math.NaN(), 0)
	assert.Error(t, err)
	_, err = NewPosition(0, math.Inf(1))
	assert.Error(t, err)
}
