package offset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcbcam/engine/internal/camerr"
	"github.com/pcbcam/engine/internal/geom"
)

func squarePath(side float64) geom.Primitive {
	return geom.Primitive{
		Kind:   geom.KindPath,
		Closed: true,
		Vertices: []geom.Vertex{
			{Point: geom.Point{X: 0, Y: 0}},
			{Point: geom.Point{X: side, Y: 0}},
			{Point: geom.Point{X: side, Y: side}},
			{Point: geom.Point{X: 0, Y: side}},
		},
	}
}

func TestOffsetSquareOutward(t *testing.T) {
	sq := squarePath(10)
	opts := DefaultOptions()
	out, warnings := Offset(sq, 1.0, opts)
	require.NotNil(t, out)
	assert.Empty(t, warnings)

	bounds := out.Bounds()
	assert.InDelta(t, -1, bounds.Min.X, 1e-6)
	assert.InDelta(t, -1, bounds.Min.Y, 1e-6)
	assert.InDelta(t, 11, bounds.Max.X, 1e-6)
	assert.InDelta(t, 11, bounds.Max.Y, 1e-6)
}

func TestOffsetSquareInwardCollapses(t *testing.T) {
	sq := squarePath(2)
	opts := DefaultOptions()
	out, warnings := Offset(sq, -5, opts)
	assert.Nil(t, out)
	require.NotEmpty(t, warnings)
	assert.Equal(t, camerr.KindCollapsed, warnings[len(warnings)-1].Kind)
}

func TestOffsetCircleOutward(t *testing.T) {
	c := geom.NewCircle(geom.Point{X: 0, Y: 0}, 5)
	out, warnings := Offset(c, 2, DefaultOptions())
	require.NotNil(t, out)
	assert.Empty(t, warnings)
	assert.InDelta(t, 7, out.Radius, 1e-9)
}

func TestOffsetCircleCollapse(t *testing.T) {
	c := geom.NewCircle(geom.Point{X: 0, Y: 0}, 1)
	out, warnings := Offset(c, -2, DefaultOptions())
	assert.Nil(t, out)
	require.Len(t, warnings, 1)
}

func TestOffsetObround(t *testing.T) {
	o := geom.NewObround(geom.Point{X: 0, Y: 0}, 4, 2)
	out, warnings := Offset(o, 1, DefaultOptions())
	require.NotNil(t, out)
	assert.Empty(t, warnings)
	assert.InDelta(t, 6, out.Width, 1e-9)
	assert.InDelta(t, 4, out.Height, 1e-9)
	assert.InDelta(t, -1, out.Position.X, 1e-9)
}

func TestOffsetBevelJoin(t *testing.T) {
	sq := squarePath(10)
	opts := DefaultOptions()
	opts.Join = JoinBevel
	out, warnings := Offset(sq, 1, opts)
	require.NotNil(t, out)
	assert.Empty(t, warnings)
	// Bevel adds a cut corner vertex at each of the 4 corners.
	assert.Greater(t, len(out.Vertices), 4)
}

func TestOffsetRoundJoinProducesArcs(t *testing.T) {
	sq := squarePath(10)
	opts := DefaultOptions()
	opts.Join = JoinRound
	out, warnings := Offset(sq, 1, opts)
	require.NotNil(t, out)
	assert.Empty(t, warnings)
	assert.NotEmpty(t, out.ArcSegments)
}

func TestOffsetOpenPathStaysOpen(t *testing.T) {
	p := geom.Primitive{
		Kind: geom.KindPath,
		Vertices: []geom.Vertex{
			{Point: geom.Point{X: 0, Y: 0}},
			{Point: geom.Point{X: 10, Y: 0}},
			{Point: geom.Point{X: 10, Y: 10}},
		},
	}
	out, warnings := Offset(p, 1, DefaultOptions())
	require.NotNil(t, out)
	assert.Empty(t, warnings)
	assert.False(t, out.Closed)
	require.GreaterOrEqual(t, len(out.Vertices), 2)
}

func TestDecomposeRejectsTinyPath(t *testing.T) {
	p := geom.Primitive{Kind: geom.KindPath, Vertices: []geom.Vertex{{Point: geom.Point{X: 0, Y: 0}}}}
	segs, warnings := decompose(p, 1e-6)
	assert.Nil(t, segs)
	require.Len(t, warnings, 1)
}

func TestPointAtRadius(t *testing.T) {
	c := geom.Point{X: 0, Y: 0}
	p := geom.Point{X: 3, Y: 4}
	out := pointAtRadius(c, p, 10)
	assert.InDelta(t, 10, out.Dist(c), 1e-9)
}
