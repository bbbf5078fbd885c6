// Package arcrecon recovers true circular arcs from vectorised polylines:
// it groups a Path's vertices into curve/straight spans, promotes a
// fully-covered curve group into a Circle primitive, and otherwise enriches
// remaining curve groups into arcSegments entries with a measured winding.
package arcrecon

import (
	"fmt"
	"math"

	"github.com/pcbcam/engine/internal/camerr"
	"github.com/pcbcam/engine/internal/curvereg"
	"github.com/pcbcam/engine/internal/geom"
)

// group is a maximal run of consecutive vertices sharing curve membership.
type group struct {
	curve      bool
	curveID    int
	start, end int // inclusive vertex indices
}

func (g group) count() int { return g.end - g.start + 1 }

// groupVertices walks the vertex list forming curve/straight groups. A gap
// tolerance permits up to one untagged vertex to be absorbed into a curve
// group (a sampling artefact); exceeding it closes the group.
func groupVertices(vertices []geom.Vertex) []group {
	n := len(vertices)
	var groups []group
	i := 0
	for i < n {
		v := vertices[i]
		if v.HasCurve() {
			id := v.CurveID
			j := i
			for j+1 < n {
				next := vertices[j+1]
				if next.CurveID == id {
					j++
					continue
				}
				if !next.HasCurve() && j+2 < n && vertices[j+2].CurveID == id {
					j += 2 // absorb the single untagged gap vertex
					continue
				}
				break
			}
			groups = append(groups, group{curve: true, curveID: id, start: i, end: j})
			i = j + 1
		} else {
			j := i
			for j+1 < n && !vertices[j+1].HasCurve() {
				j++
			}
			groups = append(groups, group{curve: false, start: i, end: j})
			i = j + 1
		}
	}
	return groups
}

// mergeWrap merges a closed path's first and last groups when both are
// curve groups referencing the same curve ID (wrap-around continuation).
// Returns the merged group list and whether a wrap merge occurred.
func mergeWrap(groups []group, closed bool) ([]group, bool) {
	if !closed || len(groups) < 2 {
		return groups, false
	}
	first, last := groups[0], groups[len(groups)-1]
	if first.curve && last.curve && first.curveID == last.curveID {
		merged := make([]group, 0, len(groups)-1)
		merged = append(merged, group{curve: true, curveID: first.curveID, start: last.start, end: first.end})
		merged = append(merged, groups[1:len(groups)-1]...)
		return merged, true
	}
	return groups, false
}

// Reconstruct converts a Path primitive whose vertices carry curveId
// annotations into either a promoted Circle primitive or an enhanced Path
// with an arcSegments list. reg supplies the original curve parameters.
func Reconstruct(path geom.Primitive, reg *curvereg.Registry) (geom.Primitive, []camerr.Warning) {
	if path.Kind != geom.KindPath || len(path.Vertices) == 0 {
		return path, nil
	}

	var warnings []camerr.Warning
	groups := groupVertices(path.Vertices)
	wrapped := false
	groups, wrapped = mergeWrap(groups, path.Closed)

	// Full-circle promotion only applies when the entire path is one
	// wrapped curve group (or, for an open-seeming but actually whole-path
	// single group, the unwrapped single-group case).
	if len(groups) == 1 && groups[0].curve {
		if circ, ok := tryPromoteCircle(path, groups[0], wrapped, reg); ok {
			return circ, warnings
		}
	}

	out := path
	out.ArcSegments = nil
	for _, g := range groups {
		if !g.curve {
			continue
		}
		count := g.count()
		if wrapped && g.start > g.end {
			count = (len(path.Vertices) - g.start) + g.end + 1
		}
		if count < 2 {
			continue
		}
		curve, ok := reg.Get(g.curveID)
		if !ok {
			warnings = append(warnings, camerr.NewWarning(camerr.KindInvalidGeometry,
				fmt.Sprintf("curve id %d not found in registry, span [%d,%d] left unchanged", g.curveID, g.start, g.end)))
			continue
		}
		if wrapped && g.start > g.end {
			// Wrapped span: split into two independently recorded spans
			// per the arcSegments invariant (startIndex < endIndex always).
			segA, wA := buildArcSegment(path, g.start, len(path.Vertices)-1, curve)
			segB, wB := buildArcSegment(path, 0, g.end, curve)
			if wA == nil {
				out.ArcSegments = append(out.ArcSegments, segA)
			} else {
				warnings = append(warnings, *wA)
			}
			if wB == nil {
				out.ArcSegments = append(out.ArcSegments, segB)
			} else {
				warnings = append(warnings, *wB)
			}
			continue
		}
		seg, w := buildArcSegment(path, g.start, g.end, curve)
		if w != nil {
			warnings = append(warnings, *w)
			continue
		}
		out.ArcSegments = append(out.ArcSegments, seg)
	}
	return out, warnings
}

// expectedSegmentCount estimates how many vertex samples a fully-swept
// circle of the given radius would have produced: 16 for small circles, 48
// for larger ones, further tuned upward for long circumferences.
func expectedSegmentCount(radius float64) int {
	expected := 16
	if radius >= 1.0 {
		expected = 48
	}
	circumference := 2 * math.Pi * radius
	if tuned := int(math.Round(circumference / 0.3)); tuned > expected {
		expected = tuned
	}
	return expected
}

// coverageMinimum returns the adaptive minimum coverage fraction required
// to promote a curve group to a full Circle primitive.
func coverageMinimum(radius float64, vertexCount int) float64 {
	switch {
	case radius < 1.0:
		return 0.60
	case vertexCount < 20:
		return 0.75
	default:
		return 0.85
	}
}

func tryPromoteCircle(path geom.Primitive, g group, wrapped bool, reg *curvereg.Registry) (geom.Primitive, bool) {
	curve, ok := reg.Get(g.curveID)
	if !ok || curve.Shape != curvereg.ShapeCircle {
		return geom.Primitive{}, false
	}
	if !wrapped && g.count() != len(path.Vertices) {
		return geom.Primitive{}, false
	}

	unique := map[int]struct{}{}
	var indices []int
	if wrapped {
		for i := g.start; i < len(path.Vertices); i++ {
			indices = append(indices, i)
		}
		for i := 0; i <= g.end; i++ {
			indices = append(indices, i)
		}
	} else {
		for i := g.start; i <= g.end; i++ {
			indices = append(indices, i)
		}
	}
	for _, i := range indices {
		unique[path.Vertices[i].SegmentIndex] = struct{}{}
	}

	expected := expectedSegmentCount(curve.Radius)
	coverage := math.Min(1, float64(len(unique))/float64(expected))
	if coverage < coverageMinimum(curve.Radius, len(indices)) {
		return geom.Primitive{}, false
	}
	return geom.NewCircle(curve.Centre, curve.Radius), true
}

// buildArcSegment computes an ArcSegment for vertices[start:end+1], measuring
// winding empirically rather than trusting the registry.
func buildArcSegment(path geom.Primitive, start, end int, curve curvereg.Curve) (geom.ArcSegment, *camerr.Warning) {
	if end <= start || end >= len(path.Vertices) || start < 0 {
		w := camerr.NewWarning(camerr.KindInvalidGeometry,
			fmt.Sprintf("degenerate arc span [%d,%d]", start, end))
		return geom.ArcSegment{}, &w
	}
	centre := curve.Centre
	startPt := path.Vertices[start].Point
	endPt := path.Vertices[end].Point

	startAngle := geom.Angle(centre, startPt)
	endAngle := geom.Angle(centre, endPt)
	clockwise := measureWinding(path, start, end, centre, curve.Clockwise)

	sweep := endAngle - startAngle
	if clockwise {
		for sweep > 0 {
			sweep -= 2 * math.Pi
		}
		for sweep < -2*math.Pi {
			sweep += 2 * math.Pi
		}
	} else {
		for sweep < 0 {
			sweep += 2 * math.Pi
		}
		for sweep > 2*math.Pi {
			sweep -= 2 * math.Pi
		}
	}

	return geom.ArcSegment{
		StartIndex: start,
		EndIndex:   end,
		Centre:     centre,
		Radius:     curve.Radius,
		StartAngle: startAngle,
		EndAngle:   endAngle,
		SweepAngle: sweep,
		Clockwise:  clockwise,
	}, nil
}

// measureWinding samples up to five intermediate points of the span and
// tallies the majority angular-progression direction. For two-point groups
// it falls back to the shortest-arc assumption. The registered winding
// (registryClockwise) is advisory only; the measured majority wins.
func measureWinding(path geom.Primitive, start, end int, centre geom.Point, registryClockwise bool) bool {
	n := end - start + 1
	if n < 3 {
		// Two-point group: shortest-arc assumption.
		a0 := geom.Angle(centre, path.Vertices[start].Point)
		a1 := geom.Angle(centre, path.Vertices[end].Point)
		delta := geom.NormalizeAngle(a1 - a0)
		return delta < 0
	}

	sampleCount := n
	if sampleCount > 5 {
		sampleCount = 5
	}
	indices := make([]int, sampleCount)
	for i := 0; i < sampleCount; i++ {
		indices[i] = start + int(math.Round(float64(i)*float64(n-1)/float64(sampleCount-1)))
	}

	cwVotes, ccwVotes := 0, 0
	prevAngle := geom.Angle(centre, path.Vertices[indices[0]].Point)
	for i := 1; i < len(indices); i++ {
		angle := geom.Angle(centre, path.Vertices[indices[i]].Point)
		delta := geom.NormalizeAngle(angle - prevAngle)
		if delta < 0 {
			cwVotes++
		} else if delta > 0 {
			ccwVotes++
		}
		prevAngle = angle
	}
	if cwVotes == ccwVotes {
		return registryClockwise
	}
	return cwVotes > ccwVotes
}
