package vision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFillPolygonSquare(t *testing.T) {
	m := NewMask(10, 10)
	m.FillPolygon([][2]int{{2, 2}, {7, 2}, {7, 7}, {2, 7}})

	assert.Equal(t, byte(1), m.At(4, 4))
	assert.Equal(t, byte(0), m.At(0, 0))
	assert.Equal(t, byte(0), m.At(9, 9))
	assert.True(t, m.Area() >= 16, "square interior is filled")
}

func TestOrAndClone(t *testing.T) {
	a := NewMask(5, 5)
	a.Set(1, 1, 1)
	b := NewMask(5, 5)
	b.Set(3, 3, 1)

	c := a.Or(b)
	assert.Equal(t, 2, c.Area())
	assert.Equal(t, 1, a.Area(), "or does not mutate the receiver")
}

func TestBounds(t *testing.T) {
	m := NewMask(10, 10)
	m.Set(2, 3, 1)
	m.Set(6, 8, 1)

	x1, y1, x2, y2, ok := m.Bounds()
	require.True(t, ok)
	assert.Equal(t, []int{2, 3, 7, 9}, []int{x1, y1, x2, y2})

	_, _, _, _, ok = NewMask(4, 4).Bounds()
	assert.False(t, ok)
}

func TestCentroid(t *testing.T) {
	m := NewMask(10, 10)
	m.FillPolygon([][2]int{{2, 2}, {8, 2}, {8, 8}, {2, 8}})

	cx, cy, ok := m.Centroid()
	require.True(t, ok)
	assert.InDelta(t, 5, cx, 1)
	assert.InDelta(t, 5, cy, 1)

	_, _, ok = NewMask(4, 4).Centroid()
	assert.False(t, ok)
}

func TestDilateGrowsMask(t *testing.T) {
	m := NewMask(50, 50)
	m.Set(25, 25, 1)

	grown := m.Dilate(3, 1)
	assert.Equal(t, 9, grown.Area())

	bigger := m.Dilate(10, 5)
	assert.True(t, bigger.Area() > grown.Area())
	x1, y1, x2, y2, ok := bigger.Bounds()
	require.True(t, ok)
	assert.True(t, x1 < 25 && y1 < 25 && x2 > 26 && y2 > 26)
}

func TestDilateClampsAtEdges(t *testing.T) {
	m := NewMask(5, 5)
	m.Set(0, 0, 1)

	grown := m.Dilate(3, 1)
	assert.Equal(t, byte(1), grown.At(1, 1))
	assert.Equal(t, 4, grown.Area())
}

func TestMaskImageRoundTrip(t *testing.T) {
	m := NewMask(6, 6)
	m.Set(2, 3, 1)
	m.Set(5, 5, 1)

	back := FromImage(m.ToImage())
	assert.Equal(t, m.Pix, back.Pix)
}
