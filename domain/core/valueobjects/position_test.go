package valueobjects

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPosition(t *testing.T) {
	tests := []struct {
		name    string
		x, y    float64
		wantErr bool
	}{
		{
			name: "valid position at origin",
			x:    0,
			y:    0,
		},
		{
			name: "valid positive position",
			x:    100.5,
			y:    200.75,
		},
		{
			name: "valid negative position",
			x:    -100.5,
			y:    -200.75,
		},
		{
			name: "very large coordinates",
			x:    1e10,
			y:    -1e10,
		},
		{
			name:    "NaN x coordinate",
			x:       math.NaN(),
			y:       0,
			wantErr: true,
		},
		{
			name:    "NaN y coordinate",
			x:       0,
			y:       math.NaN(),
			wantErr: true,
		},
		{
			name:    "positive infinity",
			x:       math.Inf(1),
			y:       0,
			wantErr: true,
		},
		{
			name:    "negative infinity",
			x:       0,
			y:       math.Inf(-1),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, err := NewPosition(tt.x, tt.y)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "invalid coordinates")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.x, pos.X())
			assert.Equal(t, tt.y, pos.Y())
		})
	}
}

func TestPositionDistanceTo(t *testing.T) {
	a, err := NewPosition(0, 0)
	require.NoError(t, err)
	b, err := NewPosition(3, 4)
	require.NoError(t, err)

	assert.Equal(t, 5.0, a.DistanceTo(b))
	assert.Equal(t, 5.0, b.DistanceTo(a))
	assert.Equal(t, 0.0, a.DistanceTo(a))
}

func TestPositionTranslate(t *testing.T) {
	p, err := NewPosition(10, 20)
	require.NoError(t, err)

	moved, err := p.Translate(5, -5)
	require.NoError(t, err)
	assert.Equal(t, 15.0, moved.X())
	assert.Equal(t, 15.0, moved.Y())

	// Original is unchanged.
	assert.Equal(t, 10.0, p.X())
	assert.Equal(t, 20.0, p.Y())

	_, err = p.Translate(math.Inf(1), 0)
	assert.Error(t, err)
}

func TestPositionEquals(t *testing.T) {
	a, _ := NewPosition(1.0, 2.0)
	b, _ := NewPosition(1.0+1e-12, 2.0)
	c, _ := NewPosition(1.1, 2.0)

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
}

func TestPositionJSONRoundTrip(t *testing.T) {
	p, err := NewPosition(12.5, -7.25)
	require.NoError(t, err)

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"x":12.5,"y":-7.25}`, string(data))

	var decoded Position
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, p.Equals(decoded))
}
