package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircleBounds(t *testing.T) {
	c := NewCircle(Point{X: 1, Y: 1}, 2)
	b := c.Bounds()
	assert.Equal(t, Point{X: -1, Y: -1}, b.Min)
	assert.Equal(t, Point{X: 3, Y: 3}, b.Max)
}

func TestObroundBounds(t *testing.T) {
	o := NewObround(Point{X: 0, Y: 0}, 6, 2)
	b := o.Bounds()
	assert.Equal(t, Point{X: 0, Y: 0}, b.Min)
	assert.Equal(t, Point{X: 6, Y: 2}, b.Max)
}

func TestPathBounds(t *testing.T) {
	p := Primitive{Kind: KindPath, Vertices: []Vertex{
		{Point: Point{X: 0, Y: 0}},
		{Point: Point{X: 10, Y: 5}},
	}}
	b := p.Bounds()
	assert.Equal(t, Point{X: 0, Y: 0}, b.Min)
	assert.Equal(t, Point{X: 10, Y: 5}, b.Max)
}

func TestArcAt(t *testing.T) {
	p := Primitive{Kind: KindPath, ArcSegments: []ArcSegment{
		{StartIndex: 2, EndIndex: 4},
	}}
	seg, ok := p.ArcAt(2)
	require.True(t, ok)
	assert.Equal(t, 4, seg.EndIndex)

	_, ok = p.ArcAt(0)
	assert.False(t, ok)
}

func TestVertexHasCurve(t *testing.T) {
	assert.False(t, Vertex{}.HasCurve())
	assert.True(t, Vertex{CurveID: 1}.HasCurve())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "circle", KindCircle.String())
	assert.Equal(t, "path", KindPath.String())
	assert.Equal(t, "obround", KindObround.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
