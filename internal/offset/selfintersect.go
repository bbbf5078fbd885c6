package offset

import (
	"fmt"
	"math"

	"github.com/pcbcam/engine/internal/camerr"
	"github.com/pcbcam/engine/internal/geom"
)

// edge is a flattened line piece used for intersection testing, tagged
// with the index of the segment it came from and its position along that
// segment's own flattened run (so a trim can reconstruct a partial arc).
type edge struct {
	segIndex int
	a, b     geom.Point
}

// flattenForTest samples every segment into short line edges so arcs can be
// tested against lines and other arcs with simple segment-segment math.
func flattenForTest(segs []segment) []edge {
	var edges []edge
	for i, s := range segs {
		if s.kind == segLine {
			edges = append(edges, edge{segIndex: i, a: s.start, b: s.end})
			continue
		}
		steps := int(math.Ceil(s.radius * absf(s.sweep) / 0.2))
		if steps < 4 {
			steps = 4
		}
		prev := s.start
		startAngle := s.startAngle
		for k := 1; k <= steps; k++ {
			t := float64(k) / float64(steps)
			angle := startAngle + s.sweep*t
			p := geom.Point{X: s.centre.X + s.radius*math.Cos(angle), Y: s.centre.Y + s.radius*math.Sin(angle)}
			edges = append(edges, edge{segIndex: i, a: prev, b: p})
			prev = p
		}
	}
	return edges
}

// segSegIntersect returns the intersection point of two finite segments,
// if one exists strictly within both.
func segSegIntersect(p0, p1, q0, q1 geom.Point) (geom.Point, bool) {
	d0 := p1.Sub(p0)
	d1 := q1.Sub(q0)
	denom := d0.X*d1.Y - d0.Y*d1.X
	if math.Abs(denom) < 1e-12 {
		return geom.Point{}, false
	}
	dx := q0.X - p0.X
	dy := q0.Y - p0.Y
	t := (dx*d1.Y - dy*d1.X) / denom
	u := (dx*d0.Y - dy*d0.X) / denom
	if t <= 1e-9 || t >= 1-1e-9 || u <= 1e-9 || u >= 1-1e-9 {
		return geom.Point{}, false
	}
	return geom.Point{X: p0.X + t*d0.X, Y: p0.Y + t*d0.Y}, true
}

// resolveSelfIntersections scans flattened,
// non-adjacent edge pairs for crossings. Under SelfIntersectionReport it
// only records warnings. Under SelfIntersectionTrim it destructively
// shortens the segment chain: the first segment up to the intersection is
// kept, the intersection becomes a new line segment's endpoint, and every
// segment strictly between the two crossing segments is dropped.
func resolveSelfIntersections(segs []segment, opts Options) ([]segment, []camerr.Warning) {
	n := len(segs)
	if n < 3 {
		return segs, nil
	}
	edges := flattenForTest(segs)

	var warnings []camerr.Warning
	for i := 0; i < len(edges); i++ {
		for j := i + 1; j < len(edges); j++ {
			ei, ej := edges[i], edges[j]
			if ei.segIndex == ej.segIndex {
				continue
			}
			// Skip edges belonging to segments adjacent in the chain; a
			// shared endpoint is an intended join, not a self-intersection.
			if adjacentSeg(ei.segIndex, ej.segIndex, n) {
				continue
			}
			ip, ok := segSegIntersect(ei.a, ei.b, ej.a, ej.b)
			if !ok {
				continue
			}

			msg := fmt.Sprintf("self-intersection between segments %d and %d at (%.4f, %.4f)", ei.segIndex, ej.segIndex, ip.X, ip.Y)
			warnings = append(warnings, camerr.NewWarning(camerr.KindInvalidGeometry, msg))

			if opts.SelfIntersection == SelfIntersectionReport {
				continue
			}
			return trimAt(segs, ei.segIndex, ej.segIndex, ip), warnings
		}
	}
	return segs, warnings
}

func adjacentSeg(a, b, n int) bool {
	return a == b || (a+1)%n == b || (b+1)%n == a
}

// trimAt rebuilds the chain, cutting segment i short at ip and resuming
// directly from ip to the start of segment j, discarding everything
// between. The portion of the chain outside [i, j] is preserved.
func trimAt(segs []segment, i, j int, ip geom.Point) []segment {
	if i > j {
		i, j = j, i
	}
	out := make([]segment, 0, len(segs))
	out = append(out, segs[:i]...)

	trimmed := segs[i]
	trimmed.end = ip
	if trimmed.kind == segArc {
		trimmed.endAngle = geom.Angle(trimmed.centre, ip)
		trimmed.sweep = trimmed.endAngle - trimmed.startAngle
		if trimmed.clockwise {
			for trimmed.sweep > 0 {
				trimmed.sweep -= 2 * math.Pi
			}
		} else {
			for trimmed.sweep < 0 {
				trimmed.sweep += 2 * math.Pi
			}
		}
	}
	out = append(out, trimmed)
	out = append(out, newLine(ip, segs[j].start))
	out = append(out, segs[j:]...)
	return out
}
