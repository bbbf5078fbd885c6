package offset

import (
	"fmt"

	"github.com/pcbcam/engine/internal/camerr"
	"github.com/pcbcam/engine/internal/geom"
)

// offsetSegments applies a signed distance to each decomposed segment
// independently. Lines translate along their right normal,
// which points outward for a counter-clockwise-wound path, so a positive
// distance inflates and a negative distance deflates; arcs adjust radius
// according to winding, degrading to a line and raising an ErrCollapsed-kind
// warning when the result is non-positive.
func offsetSegments(segs []segment, distance float64, precision float64) ([]segment, []camerr.Warning) {
	out := make([]segment, len(segs))
	var warnings []camerr.Warning

	for i, s := range segs {
		switch s.kind {
		case segLine:
			normal := geom.RightNormal(s.start, s.end)
			delta := normal.Scale(distance)
			out[i] = s
			out[i].start = s.start.Add(delta)
			out[i].end = s.end.Add(delta)

		case segArc:
			// Matches the line convention above: a counter-clockwise arc
			// sweep (the usual case at an outer corner of a CCW-wound path)
			// grows with positive distance, while a clockwise sweep shrinks,
			// so both agree with positive distance meaning outward.
			var newRadius float64
			if s.clockwise {
				newRadius = s.radius - distance
			} else {
				newRadius = s.radius + distance
			}

			if newRadius <= precision {
				warnings = append(warnings, camerr.NewPrimitiveWarning(camerr.KindCollapsed,
					fmt.Sprintf("arc radius %.6f collapsed at offset distance %.6f", s.radius, distance), i))
				collapsed := s
				collapsed.kind = segLine
				collapsed.start = offsetPointOnArc(s, s.start, distance)
				collapsed.end = offsetPointOnArc(s, s.end, distance)
				collapsed.collapsed = true
				out[i] = collapsed
				continue
			}

			out[i] = s
			out[i].radius = newRadius
			out[i].start = pointAtRadius(s.centre, s.start, newRadius)
			out[i].end = pointAtRadius(s.centre, s.end, newRadius)
		}
	}

	return out, warnings
}

// pointAtRadius re-projects p onto a circle of radius r centred at c, along
// the ray from c through p.
func pointAtRadius(c, p geom.Point, r float64) geom.Point {
	dir := p.Sub(c).Normalize()
	return c.Add(dir.Scale(r))
}

// offsetPointOnArc projects a collapsed arc's endpoint straight out along
// its radial direction by distance, used when the arc degrades to a line.
func offsetPointOnArc(s segment, p geom.Point, distance float64) geom.Point {
	dir := p.Sub(s.centre).Normalize()
	sign := 1.0
	if s.clockwise {
		sign = -1.0
	}
	return p.Add(dir.Scale(sign * distance))
}
