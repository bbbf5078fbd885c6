package curvereg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcbcam/engine/internal/geom"
)

func TestRegisterAssignsSequentialIDs(t *testing.T) {
	r := New()
	id1 := r.Register(Curve{Shape: ShapeCircle, Centre: geom.Point{X: 0, Y: 0}, Radius: 5})
	id2 := r.Register(Curve{Shape: ShapeArc, Centre: geom.Point{X: 1, Y: 1}, Radius: 2})
	assert.Equal(t, 1, id1)
	assert.Equal(t, 2, id2)
	assert.Equal(t, 2, r.Len())
}

func TestGetUnknownID(t *testing.T) {
	r := New()
	r.Register(Curve{Shape: ShapeCircle, Radius: 1})

	_, ok := r.Get(0)
	assert.False(t, ok)

	_, ok = r.Get(99)
	assert.False(t, ok)
}

func TestGetRoundTrip(t *testing.T) {
	r := New()
	c := Curve{Shape: ShapeArc, Centre: geom.Point{X: 3, Y: 4}, Radius: 2, StartAngle: 0, EndAngle: 1.5, Clockwise: true}
	id := r.Register(c)

	got, ok := r.Get(id)
	require.True(t, ok)
	assert.Equal(t, c, got)
}

func TestClearDropsAllRecords(t *testing.T) {
	r := New()
	r.Register(Curve{Shape: ShapeCircle, Radius: 1})
	r.Register(Curve{Shape: ShapeCircle, Radius: 2})
	require.Equal(t, 2, r.Len())

	r.Clear()
	assert.Equal(t, 0, r.Len())
	_, ok := r.Get(1)
	assert.False(t, ok)
}
