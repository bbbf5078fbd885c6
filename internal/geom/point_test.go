package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFinite(t *testing.T) {
	assert.True(t, Point{X: 1, Y: 2}.Finite())
	assert.False(t, Point{X: math.NaN(), Y: 0}.Finite())
	assert.False(t, Point{X: math.Inf(1), Y: 0}.Finite())
}

func TestNormalizeDegenerate(t *testing.T) {
	assert.Equal(t, Point{}, Point{X: 0, Y: 0}.Normalize())
}

func TestLeftRightNormalAreOpposite(t *testing.T) {
	p, q := Point{X: 0, Y: 0}, Point{X: 1, Y: 0}
	left := LeftNormal(p, q)
	right := RightNormal(p, q)
	assert.InDelta(t, 0, left.X+right.X, 1e-9)
	assert.InDelta(t, 0, left.Y+right.Y, 1e-9)
	assert.InDelta(t, 1, left.Y, 1e-9)
	assert.InDelta(t, -1, right.Y, 1e-9)
}

func TestAngleAndNormalizeAngle(t *testing.T) {
	centre := Point{X: 0, Y: 0}
	assert.InDelta(t, 0, Angle(centre, Point{X: 1, Y: 0}), 1e-9)
	assert.InDelta(t, math.Pi/2, Angle(centre, Point{X: 0, Y: 1}), 1e-9)

	assert.InDelta(t, 0, NormalizeAngle(2*math.Pi), 1e-9)
	assert.InDelta(t, -math.Pi+0.1, NormalizeAngle(math.Pi+0.1), 1e-9)
}

func TestBoundsOfAndUnion(t *testing.T) {
	pts := []Point{{X: -1, Y: 2}, {X: 5, Y: -3}, {X: 0, Y: 0}}
	b := BoundsOf(pts)
	assert.Equal(t, Point{X: -1, Y: -3}, b.Min)
	assert.Equal(t, Point{X: 5, Y: 2}, b.Max)

	assert.Equal(t, Bounds{}, BoundsOf(nil))
}

func TestCrossAndDot(t *testing.T) {
	assert.InDelta(t, 1, Cross(Point{X: 1, Y: 0}, Point{X: 0, Y: 1}), 1e-9)
	assert.InDelta(t, 0, Dot(Point{X: 1, Y: 0}, Point{X: 0, Y: 1}), 1e-9)
}
