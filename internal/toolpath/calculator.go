package toolpath

import (
	"context"
	"fmt"
	"math"

	"github.com/pcbcam/engine/internal/camerr"
	"github.com/pcbcam/engine/internal/geom"
)

// Progress reports calculator advancement at the suspension points:
// between primitives within a depth level, between depth levels, and
// between operations.
type Progress func(stage string, done, total int)

// Calculator turns offset groups or hole lists into a ToolpathPlan under
// a fixed set of strategy settings.
type Calculator struct {
	Settings Settings
}

func New(settings Settings) *Calculator {
	return &Calculator{Settings: settings}
}

func checkCancel(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("toolpath: %w: %v", camerr.ErrCancelled, err)
	}
	return nil
}

// PlanIsolation produces a ToolpathPlan for isolation or clearing
// operations: milling every primitive in every offset group at every
// depth level.
func (c *Calculator) PlanIsolation(ctx context.Context, operationID string, offsetGroups [][]geom.Primitive, progress Progress) (*ToolpathPlan, []camerr.Warning, error) {
	s := c.Settings
	plan := &ToolpathPlan{OperationID: operationID, ToolDiameter: s.ToolDiameter}
	plan.Motions = append(plan.Motions, rapidZ(s.SafeZ))

	levels := depthLevels(s.CutDepth, s.DepthPerPass, s.MultiDepth)
	plan.DepthLevels = levels
	var warnings []camerr.Warning

	totalPrims := 0
	for _, g := range offsetGroups {
		totalPrims += len(g)
	}
	done := 0

	for levelIdx, z := range levels {
		if err := checkCancel(ctx); err != nil {
			return nil, warnings, err
		}
		for _, group := range offsetGroups {
			for _, prim := range group {
				if err := checkCancel(ctx); err != nil {
					return nil, warnings, err
				}

				entry, ok := entryPoint(prim)
				if !ok {
					warnings = append(warnings, camerr.NewWarning(camerr.KindInvalidGeometry, "primitive has no valid entry point, skipped"))
					continue
				}

				spans, err := primitiveSpans(prim, !s.UseClimb, s.Precision)
				if err != nil {
					warnings = append(warnings, camerr.NewWarning(camerr.KindInvalidGeometry, err.Error()))
					continue
				}

				plan.Motions = append(plan.Motions, rapid(entry, ""))

				if s.EntryType == EntryHelix && levelIdx == 0 {
					radius := helixEntryRadius(prim, s.ToolDiameter)
					centre := entry
					if prim.Kind == geom.KindCircle {
						centre = prim.Centre
					} else {
						centre = geom.Point{X: entry.X - radius, Y: entry.Y}
					}
					plan.Motions = append(plan.Motions, helicalSpiral(centre, radius, 0, s.CutDepth, s.DepthPerPass, s.ToolDiameter, s.PlungeRate, !s.UseClimb)...)
					plan.Motions = append(plan.Motions, linearXYZ(entry, s.CutDepth, s.FeedRate))
					plan.Motions = append(plan.Motions, walkFlat(spans, s.CutDepth, s.FeedRate)...)
					plan.Motions = append(plan.Motions, retract(s.TravelZ))
					done++
					if progress != nil {
						progress("isolation", done, totalPrims*len(levels))
					}
					continue
				}
				if s.EntryType == EntryHelix {
					// Full depth already reached on the first level's spiral.
					done++
					continue
				}

				switch s.EntryType {
				case EntryRamp:
					rampLength := absf(z) / tanDeg(s.RampAngle)
					motions, tail := rampSpans(spans, rampLength, z, s.PlungeRate)
					plan.Motions = append(plan.Motions, motions...)
					plan.Motions = append(plan.Motions, walkFlat(tail, z, s.FeedRate)...)
				default:
					plan.Motions = append(plan.Motions, linearZ(z, s.PlungeRate, ""))
					plan.Motions = append(plan.Motions, walkFlat(spans, z, s.FeedRate)...)
				}

				plan.Motions = append(plan.Motions, retract(s.TravelZ))
				done++
				if progress != nil {
					progress("isolation", done, totalPrims*len(levels))
				}
			}
		}
	}

	plan.Motions = append(plan.Motions, rapidZ(s.SafeZ))
	computeMetadata(plan, s.RapidRate)
	return plan, warnings, nil
}

// PlanCutout produces a ToolpathPlan for a cutout operation, inserting
// holding tabs on depth levels at or below tabTopZ.
func (c *Calculator) PlanCutout(ctx context.Context, operationID string, offsetGroups [][]geom.Primitive, progress Progress) (*ToolpathPlan, []camerr.Warning, error) {
	s := c.Settings
	plan := &ToolpathPlan{OperationID: operationID, ToolDiameter: s.ToolDiameter}
	plan.Motions = append(plan.Motions, rapidZ(s.SafeZ))

	levels := depthLevels(s.CutDepth, s.DepthPerPass, s.MultiDepth)
	plan.DepthLevels = levels
	tabTopZ := s.CutDepth + s.TabHeight
	var warnings []camerr.Warning

	for _, z := range levels {
		if err := checkCancel(ctx); err != nil {
			return nil, warnings, err
		}
		for _, group := range offsetGroups {
			for _, prim := range group {
				if err := checkCancel(ctx); err != nil {
					return nil, warnings, err
				}

				entry, ok := entryPoint(prim)
				if !ok {
					warnings = append(warnings, camerr.NewWarning(camerr.KindInvalidGeometry, "primitive has no valid entry point, skipped"))
					continue
				}
				spans, err := primitiveSpans(prim, !s.UseClimb, s.Precision)
				if err != nil {
					warnings = append(warnings, camerr.NewWarning(camerr.KindInvalidGeometry, err.Error()))
					continue
				}

				plan.Motions = append(plan.Motions, rapid(entry, ""))
				plan.Motions = append(plan.Motions, linearZ(z, s.PlungeRate, ""))

				if s.Tabs > 0 && z <= tabTopZ+s.Precision {
					windows := computeTabWindows(totalLength(spans), s.Tabs, s.TabWidth)
					plan.Motions = append(plan.Motions, walkWithTabs(spans, z, tabTopZ, s.FeedRate, s.PlungeRate, windows)...)
				} else {
					plan.Motions = append(plan.Motions, walkFlat(spans, z, s.FeedRate)...)
				}

				plan.Motions = append(plan.Motions, retract(s.TravelZ))
			}
		}
		if progress != nil {
			progress("cutout", 1, len(levels))
		}
	}

	plan.Motions = append(plan.Motions, rapidZ(s.SafeZ))
	computeMetadata(plan, s.RapidRate)
	return plan, warnings, nil
}

// PlanDrill produces a ToolpathPlan for a drill operation: pecking when
// MillHoles is false, helical milling when true.
// slots carries obround primitives from the source artwork; they can only
// be cut in milling mode and are skipped with a warning otherwise.
func (c *Calculator) PlanDrill(ctx context.Context, operationID string, holes []geom.Hole, slots []geom.Primitive, progress Progress) (*ToolpathPlan, []camerr.Warning, error) {
	s := c.Settings
	plan := &ToolpathPlan{OperationID: operationID, ToolDiameter: s.ToolDiameter}
	plan.Motions = append(plan.Motions, rapidZ(s.SafeZ))
	var warnings []camerr.Warning

	for i, h := range holes {
		if err := checkCancel(ctx); err != nil {
			return nil, warnings, err
		}
		pos := geom.Point{X: h.Position.X, Y: h.Position.Y}
		plan.Motions = append(plan.Motions, rapid(pos, h.ToolID))

		if s.MillHoles {
			radius := h.Diameter/2 - s.ToolDiameter/2
			if radius <= 0 {
				radius = s.ToolDiameter / 4
			}
			centre := geom.Point{X: pos.X - radius, Y: pos.Y}
			plan.Motions = append(plan.Motions, rapid(geom.Point{X: pos.X, Y: pos.Y}, ""))
			plan.Motions = append(plan.Motions, rapidZ(0))
			start := geom.Point{X: centre.X + radius, Y: centre.Y}
			plan.Motions = append(plan.Motions, rapid(start, ""))
			plan.Motions = append(plan.Motions, helicalSpiral(centre, radius, 0, s.CutDepth, s.DepthPerPass, s.ToolDiameter, s.PlungeRate, !s.UseClimb)...)
			plan.Motions = append(plan.Motions, arcZ(!s.UseClimb, start, s.CutDepth, centre, start, s.FeedRate))
			plan.Motions = append(plan.Motions, retract(s.TravelZ))
		} else {
			warnings = append(warnings, drillPeck(plan, s, i)...)
		}

		if progress != nil {
			progress("drill", i+1, len(holes)+len(slots))
		}
	}

	for i, slot := range slots {
		if err := checkCancel(ctx); err != nil {
			return nil, warnings, err
		}
		if slot.Kind != geom.KindObround {
			warnings = append(warnings, camerr.NewWarning(camerr.KindInvalidGeometry,
				fmt.Sprintf("drill slot %d is not an obround, skipped", i)))
			continue
		}
		if !s.MillHoles {
			warnings = append(warnings, camerr.NewWarning(camerr.KindInvalidGeometry,
				fmt.Sprintf("slot %d requires hole milling, skipped in pecking mode", i)))
			continue
		}
		warnings = append(warnings, c.millObroundSlot(plan, slot)...)
		if progress != nil {
			progress("drill", len(holes)+i+1, len(holes)+len(slots))
		}
	}

	plan.Motions = append(plan.Motions, rapidZ(s.SafeZ))
	computeMetadata(plan, s.RapidRate)
	return plan, warnings, nil
}

func drillPeck(plan *ToolpathPlan, s Settings, holeIndex int) []camerr.Warning {
	if s.CannedCycle == CannedNone || s.PeckDepth >= absf(s.CutDepth) {
		plan.Motions = append(plan.Motions, linearZ(s.CutDepth, s.PlungeRate, ""))
		if s.DwellTime > 0 {
			plan.Motions = append(plan.Motions, dwell(s.DwellTime))
		}
		plan.Motions = append(plan.Motions, retract(s.TravelZ))
		return nil
	}

	depth := 0.0
	clearance := s.RetractHeight
	for depth > s.CutDepth+1e-9 {
		depth -= s.PeckDepth
		if depth < s.CutDepth {
			depth = s.CutDepth
		}
		plan.Motions = append(plan.Motions, rapidZ(clearance))
		plan.Motions = append(plan.Motions, linearZ(depth, s.PlungeRate, ""))
		if s.DwellTime > 0 {
			plan.Motions = append(plan.Motions, dwell(s.DwellTime))
		}
		plan.Motions = append(plan.Motions, retract(clearance))
		clearance = depth + s.RetractHeight
	}
	plan.Motions = append(plan.Motions, retract(s.TravelZ))
	return nil
}

func tanDeg(degrees float64) float64 {
	rad := degrees * math.Pi / 180.0
	t := math.Tan(rad)
	if t <= 1e-6 {
		return 1e-6
	}
	return t
}
