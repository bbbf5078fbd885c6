package toolpath

import (
	"fmt"
	"math"

	"github.com/pcbcam/engine/internal/camerr"
	"github.com/pcbcam/engine/internal/geom"
)

// helicalPitchAndRevolutions computes the shared spiral parameters used by
// both helical entry and helical hole milling: pitch is the Z
// descent per revolution, revolutions is clamped to a minimum of 2.
func helicalPitchAndRevolutions(depth, depthPerPass, toolDiameter float64) (pitch float64, revolutions int) {
	pitch = 0.5 * toolDiameter
	if depthPerPass > 0 && depthPerPass < pitch {
		pitch = depthPerPass
	}
	if pitch <= 0 {
		pitch = 0.1
	}
	revolutions = int(math.Ceil(math.Abs(depth) / pitch))
	if revolutions < 2 {
		revolutions = 2
	}
	return pitch, revolutions
}

const helixSegmentsPerRev = 16

// helicalSpiral emits a spiral of arc motions centred at centre with the
// given radius, descending linearly in Z from fromZ to toZ over the
// computed revolution count, returning to the starting angle (directly
// above centre+radius,0) on its last pass.
func helicalSpiral(centre geom.Point, radius, fromZ, toZ, depthPerPass, toolDiameter, feed float64, clockwise bool) []Motion {
	_, revolutions := helicalPitchAndRevolutions(toZ-fromZ, depthPerPass, toolDiameter)
	totalSteps := revolutions * helixSegmentsPerRev

	var motions []Motion
	cur := geom.Point{X: centre.X + radius, Y: centre.Y}
	angleStep := 2 * math.Pi / helixSegmentsPerRev
	sign := 1.0
	if clockwise {
		sign = -1.0
	}

	for step := 1; step <= totalSteps; step++ {
		angle := sign * angleStep * float64(step)
		next := geom.Point{X: centre.X + radius*math.Cos(angle), Y: centre.Y + radius*math.Sin(angle)}
		z := fromZ + (toZ-fromZ)*float64(step)/float64(totalSteps)
		motions = append(motions, arcZ(clockwise, next, z, centre, cur, feed))
		cur = next
	}
	return motions
}

// helixEntryRadius returns the spiral radius used for a generic entry
// helix: the primitive's own radius for circles (the spiral substitutes
// for the circle's own cut), otherwise a small spiral sized to the tool.
func helixEntryRadius(p geom.Primitive, toolDiameter float64) float64 {
	if p.Kind == geom.KindCircle {
		return p.Radius
	}
	return toolDiameter / 2
}

// rampSpans walks spans consuming rampLength of arc-aware distance while
// linearly descending Z from 0 to targetDepth, then returns the remaining
// unconsumed tail of the path (to be walked flat at targetDepth by the
// caller) alongside the ramp motions.
func rampSpans(spans []segSpan, rampLength, targetDepth, feed float64) ([]Motion, []segSpan) {
	var motions []Motion
	consumed := 0.0
	var tail []segSpan

	for i, s := range spans {
		if consumed >= rampLength {
			tail = append(tail, spans[i:]...)
			break
		}
		remaining := rampLength - consumed
		if s.length <= remaining {
			z := targetDepth * (consumed + s.length) / rampLength
			if s.arc {
				motions = append(motions, arcZ(s.clockwise, s.to, z, s.centre, s.from, feed))
			} else {
				motions = append(motions, linearXYZ(s.to, z, feed))
			}
			consumed += s.length
			continue
		}

		t := remaining / s.length
		split := pointAt(s, t)
		z := targetDepth
		if s.arc {
			motions = append(motions, arcZ(s.clockwise, split, z, s.centre, s.from, feed))
		} else {
			motions = append(motions, linearXYZ(split, z, feed))
		}
		consumed = rampLength
		tail = append(tail, segSpan{arc: s.arc, from: split, to: s.to, centre: s.centre, clockwise: s.clockwise, length: s.length - remaining})
		tail = append(tail, spans[i+1:]...)
		break
	}
	return motions, tail
}

// millObroundSlot cuts an obround slot helically: the tool alternates
// between the two end-cap centres, descending by half the helical pitch
// per semicircle and connecting the caps with linear moves at the current
// Z, then traces one full cleanup perimeter at final depth.
func (c *Calculator) millObroundSlot(plan *ToolpathPlan, slot geom.Primitive) []camerr.Warning {
	s := c.Settings
	horizontal := slot.Width >= slot.Height
	capDiameter := slot.Height
	if !horizontal {
		capDiameter = slot.Width
	}
	r := capDiameter/2 - s.ToolDiameter/2
	if r <= 0 {
		return []camerr.Warning{camerr.NewWarning(camerr.KindInvalidGeometry,
			fmt.Sprintf("slot cap diameter %.3f too small for tool diameter %.3f, skipped", capDiameter, s.ToolDiameter))}
	}

	var c1, c2 geom.Point // the two end-cap centres
	if horizontal {
		y := slot.Position.Y + slot.Height/2
		c1 = geom.Point{X: slot.Position.X + slot.Height/2, Y: y}
		c2 = geom.Point{X: slot.Position.X + slot.Width - slot.Height/2, Y: y}
	} else {
		x := slot.Position.X + slot.Width/2
		c1 = geom.Point{X: x, Y: slot.Position.Y + slot.Height - slot.Width/2}
		c2 = geom.Point{X: x, Y: slot.Position.Y + slot.Width/2}
	}

	// Semicircle endpoints sit on opposite sides of the slot axis.
	side := geom.Point{X: 0, Y: r}
	if !horizontal {
		side = geom.Point{X: r, Y: 0}
	}
	a1, b1 := c1.Add(side), c1.Sub(side)
	a2, b2 := c2.Add(side), c2.Sub(side)

	pitch, _ := helicalPitchAndRevolutions(s.CutDepth, s.DepthPerPass, s.ToolDiameter)
	clockwise := !s.UseClimb

	plan.Motions = append(plan.Motions, rapid(a1, ""))
	plan.Motions = append(plan.Motions, rapidZ(0))

	z := 0.0
	for z > s.CutDepth+1e-9 {
		z = maxf(z-pitch/2, s.CutDepth)
		plan.Motions = append(plan.Motions, arcZ(clockwise, b1, z, c1, a1, s.PlungeRate))
		plan.Motions = append(plan.Motions, linearXYZ(b2, z, s.FeedRate))
		if z <= s.CutDepth+1e-9 {
			break
		}
		z = maxf(z-pitch/2, s.CutDepth)
		plan.Motions = append(plan.Motions, arcZ(clockwise, a2, z, c2, b2, s.PlungeRate))
		plan.Motions = append(plan.Motions, linearXYZ(a1, z, s.FeedRate))
	}

	// Cleanup perimeter at final depth.
	plan.Motions = append(plan.Motions, linearXYZ(a1, s.CutDepth, s.FeedRate))
	plan.Motions = append(plan.Motions, arcZ(clockwise, b1, s.CutDepth, c1, a1, s.FeedRate))
	plan.Motions = append(plan.Motions, linearXYZ(b2, s.CutDepth, s.FeedRate))
	plan.Motions = append(plan.Motions, arcZ(clockwise, a2, s.CutDepth, c2, b2, s.FeedRate))
	plan.Motions = append(plan.Motions, linearXYZ(a1, s.CutDepth, s.FeedRate))
	plan.Motions = append(plan.Motions, retract(s.TravelZ))
	return nil
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
