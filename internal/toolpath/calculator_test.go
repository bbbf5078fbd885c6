package toolpath

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

func TestPlanIsolationSingleSquare(t *testing.T) {
	s := DefaultSettings()
	s.MultiDepth = false
	s.CutDepth = -1.0
	calc := New(s)

	plan, warnings, err := calc.PlanIsolation(context.Background(), "op1", [][]geom.Primitive{{rectPath(0, 0, 10, 10)}}, nil)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.NotNil(t, plan)
	assert.NotEmpty(t, plan.Motions)
	assert.Equal(t, []float64{-1.0}, plan.DepthLevels)

	foundPlunge := false
	for _, m := range plan.Motions {
		if m.Type == LINEAR && m.Z != nil && *m.Z == -1.0 {
			foundPlunge = true
		}
	}
	assert.True(t, foundPlunge)
}

func TestPlanIsolationHelixEntryOnCircle(t *testing.T) {
	s := DefaultSettings()
	s.EntryType = EntryHelix
	s.CutDepth = -1.0
	s.DepthPerPass = 0.5
	s.ToolDiameter = 1.0
	calc := New(s)

	circ := geom.NewCircle(geom.Point{X: 5, Y: 5}, 2)
	plan, warnings, err := calc.PlanIsolation(context.Background(), "op2", [][]geom.Primitive{{circ}}, nil)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	arcCount := 0
	for _, m := range plan.Motions {
		if m.Type == ARC_CW || m.Type == ARC_CCW {
			arcCount++
		}
	}
	// 2 revolutions * 16 segments for the spiral, plus 1 closing full-circle cut.
	assert.Equal(t, 33, arcCount)
}

func TestPlanIsolationRetractHeights(t *testing.T) {
	s := DefaultSettings()
	s.MultiDepth = false
	s.CutDepth = -0.5
	s.SafeZ = 5.0
	s.TravelZ = 2.0
	calc := New(s)

	group := []geom.Primitive{rectPath(0, 0, 5, 5), rectPath(10, 0, 15, 5)}
	plan, warnings, err := calc.PlanIsolation(context.Background(), "op1b", [][]geom.Primitive{group}, nil)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	// The plan bookends at safe Z; the hop between the two primitives
	// retracts only to travel Z.
	first := plan.Motions[0]
	require.NotNil(t, first.Z)
	assert.Equal(t, 5.0, *first.Z)
	last := plan.Motions[len(plan.Motions)-1]
	require.NotNil(t, last.Z)
	assert.Equal(t, 5.0, *last.Z)

	travelRetracts := 0
	for _, m := range plan.Motions {
		if m.Type == RETRACT && m.Z != nil && *m.Z == 2.0 {
			travelRetracts++
		}
	}
	assert.Equal(t, 2, travelRetracts, "one travel-height retract per primitive")
}

func TestPlanCutoutWithTabs(t *testing.T) {
	s := DefaultSettings()
	s.CutDepth = -1.6
	s.DepthPerPass = 0.4
	s.Tabs = 2
	s.TabWidth = 3.0
	s.TabHeight = 0.4
	calc := New(s)

	rect := rectPath(0, 0, 20, 10)
	plan, warnings, err := calc.PlanCutout(context.Background(), "op3", [][]geom.Primitive{{rect}}, nil)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Equal(t, []float64{-0.4, -0.8, -1.2, -1.6}, plan.DepthLevels)

	minZAtTabTop := false
	for _, m := range plan.Motions {
		if m.Z != nil && *m.Z == -1.2 {
			minZAtTabTop = true
		}
	}
	assert.True(t, minZAtTabTop, "expected at least one motion lifted to tabTopZ")
}

func TestPlanDrillPecking(t *testing.T) {
	s := DefaultSettings()
	s.CutDepth = -2.0
	s.PeckDepth = 0.5
	s.DwellTime = 0.1
	s.CannedCycle = CannedPeck
	calc := New(s)

	holes := []geom.Hole{{Position: geom.Point{X: 1, Y: 1}, Diameter: 0.8, ToolID: "drill-0.8"}}
	plan, warnings, err := calc.PlanDrill(context.Background(), "op4", holes, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	dwellCount := 0
	for _, m := range plan.Motions {
		if m.Type == DWELL {
			dwellCount++
		}
	}
	assert.Equal(t, 4, dwellCount) // 4 pecks of 0.5mm to reach 2.0mm
}

func TestPlanDrillMilling(t *testing.T) {
	s := DefaultSettings()
	s.MillHoles = true
	s.CutDepth = -1.5
	s.ToolDiameter = 0.8
	calc := New(s)

	holes := []geom.Hole{{Position: geom.Point{X: 3, Y: 3}, Diameter: 2.0}}
	plan, warnings, err := calc.PlanDrill(context.Background(), "op5", holes, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	arcCount := 0
	for _, m := range plan.Motions {
		if m.Type == ARC_CW || m.Type == ARC_CCW {
			arcCount++
		}
	}
	assert.Greater(t, arcCount, 0)
}

func TestPlanDrillObroundSlotMilling(t *testing.T) {
	s := DefaultSettings()
	s.MillHoles = true
	s.CutDepth = -1.6
	s.DepthPerPass = 0.4
	s.ToolDiameter = 0.8
	calc := New(s)

	slot := geom.NewObround(geom.Point{X: 0, Y: 0}, 6, 2)
	plan, warnings, err := calc.PlanDrill(context.Background(), "op5b", nil, []geom.Primitive{slot}, nil)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	// Alternating semicircles reach full depth, then a cleanup perimeter.
	arcCount := 0
	bottomArc := false
	for _, m := range plan.Motions {
		if m.Type == ARC_CW || m.Type == ARC_CCW {
			arcCount++
			if m.Z != nil && *m.Z == -1.6 {
				bottomArc = true
			}
		}
	}
	assert.Greater(t, arcCount, 2)
	assert.True(t, bottomArc, "expected cleanup arcs at final depth")
}

func TestPlanDrillSlotSkippedInPeckingMode(t *testing.T) {
	s := DefaultSettings()
	s.MillHoles = false
	calc := New(s)

	slot := geom.NewObround(geom.Point{X: 0, Y: 0}, 6, 2)
	_, warnings, err := calc.PlanDrill(context.Background(), "op5c", nil, []geom.Primitive{slot}, nil)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
}

func TestDepthLevels(t *testing.T) {
	levels := depthLevels(-1.6, 0.4, true)
	assert.Equal(t, []float64{-0.4, -0.8, -1.2, -1.6}, levels)

	single := depthLevels(-1.6, 0.4, false)
	assert.Equal(t, []float64{-1.6}, single)
}

func TestEntryPointPolicies(t *testing.T) {
	c := geom.NewCircle(geom.Point{X: 2, Y: 2}, 3)
	p, ok := entryPoint(c)
	require.True(t, ok)
	assert.Equal(t, geom.Point{X: 5, Y: 2}, p)

	path := rectPath(0, 0, 5, 5)
	p, ok = entryPoint(path)
	require.True(t, ok)
	assert.Equal(t, geom.Point{X: 0, Y: 0}, p)
}

func TestCancellation(t *testing.T) {
	s := DefaultSettings()
	calc := New(s)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := calc.PlanIsolation(ctx, "op6", [][]geom.Primitive{{rectPath(0, 0, 5, 5)}}, nil)
	require.Error(t, err)
}
