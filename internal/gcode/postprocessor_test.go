package gcode

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcbcam/engine/internal/geom"
	"github.com/pcbcam/engine/internal/toolpath"
)

func samplePlan(t *testing.T) *toolpath.ToolpathPlan {
	t.Helper()
	s := toolpath.DefaultSettings()
	s.MultiDepth = false
	s.CutDepth = -1.0
	calc := toolpath.New(s)

	rect := geom.Primitive{
		Kind:   geom.KindPath,
		Closed: true,
		Vertices: []geom.Vertex{
			{Point: geom.Point{X: 0, Y: 0}},
			{Point: geom.Point{X: 10, Y: 0}},
			{Point: geom.Point{X: 10, Y: 10}},
			{Point: geom.Point{X: 0, Y: 10}},
		},
	}
	plan, warnings, err := calc.PlanIsolation(context.Background(), "op-gcode", [][]geom.Primitive{{rect}}, nil)
	require.NoError(t, err)
	require.Empty(t, warnings)
	return plan
}

func TestGenerateGrblOutput(t *testing.T) {
	plan := samplePlan(t)
	pp := New(GetProfile("Grbl"))
	pp.SpindleSpeed = 12000
	pp.SafeZ = 3
	out := pp.Generate(plan)

	assert.Contains(t, out, "G90")
	assert.Contains(t, out, "M3 S12000")
	assert.Contains(t, out, "G0")
	assert.Contains(t, out, "G1")
	assert.Contains(t, out, "M5")
	assert.Contains(t, out, "M2")
}

func TestGenerateLinuxCNCUsesRFormArcs(t *testing.T) {
	s := toolpath.DefaultSettings()
	s.MultiDepth = false
	s.CutDepth = -0.5
	s.ToolDiameter = 1.0
	calc := toolpath.New(s)
	circ := geom.NewCircle(geom.Point{X: 0, Y: 0}, 3)
	plan, warnings, err := calc.PlanIsolation(context.Background(), "op-arc", [][]geom.Primitive{{circ}}, nil)
	require.NoError(t, err)
	require.Empty(t, warnings)

	pp := New(GetProfile("LinuxCNC"))
	out := pp.Generate(plan)
	assert.Contains(t, out, "R")
	assert.NotContains(t, out, " I")
}

func TestRedundantCoordinateSuppression(t *testing.T) {
	plan := samplePlan(t)
	pp := New(GetProfile("Generic"))
	out := pp.Generate(plan)

	lines := strings.Split(out, "\n")
	for _, l := range lines {
		xCount := strings.Count(l, "X")
		assert.LessOrEqual(t, xCount, 1)
	}
}

func TestFeedRateClampedToProfileMaximum(t *testing.T) {
	s := toolpath.DefaultSettings()
	s.MultiDepth = false
	s.CutDepth = -0.5
	s.FeedRate = 25000 // above every built-in profile's MaxFeedRate
	calc := toolpath.New(s)

	rect := geom.Primitive{
		Kind:   geom.KindPath,
		Closed: true,
		Vertices: []geom.Vertex{
			{Point: geom.Point{X: 0, Y: 0}},
			{Point: geom.Point{X: 10, Y: 0}},
			{Point: geom.Point{X: 10, Y: 10}},
			{Point: geom.Point{X: 0, Y: 10}},
		},
	}
	plan, warnings, err := calc.PlanIsolation(context.Background(), "op-clamp", [][]geom.Primitive{{rect}}, nil)
	require.NoError(t, err)
	require.Empty(t, warnings)

	out := New(GetProfile("Grbl")).Generate(plan)
	assert.Contains(t, out, "F10000.000")
	assert.NotContains(t, out, "F25000")
}

func TestUserStartAndEndCodeEmitted(t *testing.T) {
	plan := samplePlan(t)
	pp := New(GetProfile("Generic"))
	pp.UserStartCode = "M8\nG4 P0.5"
	pp.UserEndCode = "M9"
	out := pp.Generate(plan)

	assert.Contains(t, out, "M8\nG4 P0.5\n")
	assert.Contains(t, out, "M9\n")
	// User start code precedes the first motion line.
	assert.Less(t, strings.Index(out, "M8"), strings.Index(out, "G0"))
}

func TestGetProfileFallsBackToGeneric(t *testing.T) {
	p := GetProfile("DoesNotExist")
	assert.Equal(t, "Generic", p.Name)
}
