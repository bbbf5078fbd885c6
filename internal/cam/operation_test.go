package cam

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcbcam/engine/internal/geom"
)

func rectPath(x0, y0, x1, y1 float64) geom.Primitive {
	return geom.Primitive{
		Kind:   geom.KindPath,
		Closed: true,
		Vertices: []geom.Vertex{
			{Point: geom.Point{X: x0, Y: y0}},
			{Point: geom.Point{X: x1, Y: y0}},
			{Point: geom.Point{X: x1, Y: y1}},
			{Point: geom.Point{X: x0, Y: y1}},
		},
	}
}

// TestSquareIsolationSinglePass mills a 10x5 rectangle end to end through
// Session/Operation: tool dia 0.2, single pass, cutDepth -0.05, feed 150,
// plunge 50.
func TestSquareIsolationSinglePass(t *testing.T) {
	session := NewSession()
	op, err := session.AddOperation(TypeIsolation, []geom.Primitive{rectPath(0, 0, 10, 5)}, nil)
	require.NoError(t, err)

	require.NoError(t, op.SetParam("toolDiameter", 0.2))
	require.NoError(t, op.SetParam("passes", 1.0))
	require.NoError(t, op.SetParam("cutDepth", -0.05))
	require.NoError(t, op.SetParam("feedRate", 150.0))
	require.NoError(t, op.SetParam("plungeRate", 50.0))
	require.NoError(t, op.SetParam("multiDepth", false))

	ctx := context.Background()
	require.NoError(t, op.GenerateOffsets(ctx, session.Curves, nil))
	require.Len(t, op.Offsets, 1)
	require.Len(t, op.Offsets[0].Primitives, 1)

	offsetRect := op.Offsets[0].Primitives[0]
	bounds := offsetRect.Bounds()
	assert.InDelta(t, 0.1, bounds.Min.X, 1e-6)
	assert.InDelta(t, 0.1, bounds.Min.Y, 1e-6)
	assert.InDelta(t, 9.9, bounds.Max.X, 1e-6)
	assert.InDelta(t, 4.9, bounds.Max.Y, 1e-6)

	require.NoError(t, op.GenerateToolpath(ctx, nil))
	require.NotNil(t, op.Toolpath)
	assert.Equal(t, []float64{-0.05}, op.Toolpath.DepthLevels)

	gcodeText, err := op.GenerateGCode()
	require.NoError(t, err)
	assert.Contains(t, gcodeText, "G1")
}

func TestDrillPeckOperation(t *testing.T) {
	session := NewSession()
	holes := []geom.Hole{
		{Position: geom.Point{X: 1, Y: 1}, Diameter: 0.8, ToolID: "drill-0.8"},
		{Position: geom.Point{X: 5, Y: 5}, Diameter: 0.8, ToolID: "drill-0.8"},
	}
	op, err := session.AddOperation(TypeDrill, nil, holes)
	require.NoError(t, err)

	require.NoError(t, op.SetParam("cutDepth", -2.0))
	require.NoError(t, op.SetParam("peckDepth", 0.5))
	require.NoError(t, op.SetParam("dwellTime", 0.1))
	require.NoError(t, op.SetParam("retractHeight", 0.5))
	require.NoError(t, op.SetParam("travelZ", 2.0))

	ctx := context.Background()
	require.NoError(t, op.GenerateOffsets(ctx, session.Curves, nil))
	assert.Nil(t, op.Offsets)

	require.NoError(t, op.GenerateToolpath(ctx, nil))
	require.NotNil(t, op.Toolpath)
	assert.NotEmpty(t, op.Toolpath.Motions)
}

func TestGenerateToolpathWithoutSettingsFails(t *testing.T) {
	op := &Operation{ID: "bad", Type: TypeIsolation}
	err := op.GenerateToolpath(context.Background(), nil)
	require.Error(t, err)
}

func TestSessionRemoveOperation(t *testing.T) {
	session := NewSession()
	op, err := session.AddOperation(TypeCutout, []geom.Primitive{rectPath(0, 0, 20, 10)}, nil)
	require.NoError(t, err)

	_, ok := session.Operation(op.ID)
	assert.True(t, ok)

	session.RemoveOperation(op.ID)
	_, ok = session.Operation(op.ID)
	assert.False(t, ok)
}
