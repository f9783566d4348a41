package valueobjects

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		input   string
		want    Color
		wantErr bool
	}{
		{"red", Red, false},
		{"Green", Green, false},
		{" BLUE ", Blue, false},
		{"purple", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseColor(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestColor_JSON(t *testing.T) {
	data, err := json.Marshal(struct {
		C Color `json:"c"`
	}{Green})
	require.NoError(t, err)
	assert.JSONEq(t, `{"c":"green"}`, string(data))

	var c Color
	require.NoError(t, json.Unmarshal([]byte(`"blue"`), &c))
	assert.Equal(t, Blue, c)

	assert.Error(t, json.Unmarshal([]byte(`"orange"`), &c))
	assert.Error(t, json.Unmarshal([]byte(`2`), &c))
}

func TestColor_String(t *testing.T) {
	assert.Equal(t, "red", Red.String())
	assert.Equal(t, "invalid", Color(9).String())
	assert.False(t, Color(-1).IsValid())
}

func TestColorCount(t *testing.T) {
	var cc ColorCount
	cc.Add(Red)
	cc.Add(Red)
	cc.Add(Blue)

	assert.Equal(t, 3, cc.Total())
	assert.True(t, cc.Covers(ColorCount{1, 0, 1}))
	assert.False(t, cc.Covers(ColorCount{0, 1, 0}))
	assert.True(t, cc.Covers(ColorCount{}))

	other := ColorCount{0, 2, 0}
	cc.Merge(other)
	assert.Equal(t, ColorCount{2, 2, 1}, cc)

	data, err := json.Marshal(cc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"red":2,"green":2,"blue":1}`, string(data))
}
