package offset

import (
	"fmt"

	"github.com/pcbcam/engine/internal/camerr"
	"github.com/pcbcam/engine/internal/geom"
)

// decompose flattens a Path primitive into an ordered list of line/arc
// segments. Arcs are located by scanning ArcSegments; any
// vertex span not covered by an arc becomes a line between consecutive
// vertices. For a closed path whose last segment isn't covered by an arc,
// an explicit closing line from the last vertex back to the first is
// appended.
func decompose(path geom.Primitive, precision float64) ([]segment, []camerr.Warning) {
	n := len(path.Vertices)
	if n < 2 {
		return nil, []camerr.Warning{camerr.NewWarning(camerr.KindInvalidGeometry, "path has fewer than 2 vertices")}
	}

	arcByStart := make(map[int]geom.ArcSegment, len(path.ArcSegments))
	for _, a := range path.ArcSegments {
		arcByStart[a.StartIndex] = a
	}

	var segs []segment
	var warnings []camerr.Warning

	i := 0
	lastIdx := n - 1
	limit := n - 1
	if path.Closed {
		limit = n // allow the wraparound closing edge at index n-1 -> 0
	}

	for i < limit {
		if arc, ok := arcByStart[i]; ok {
			if arc.EndIndex <= arc.StartIndex || arc.EndIndex >= n {
				warnings = append(warnings, camerr.NewWarning(camerr.KindInvalidGeometry,
					fmt.Sprintf("arc segment [%d,%d] has non-monotonic or out-of-bounds indices, skipped", arc.StartIndex, arc.EndIndex)))
				// Fall through to a line for this span.
				next := i + 1
				if next > lastIdx {
					next = 0
				}
				segs = append(segs, newLine(path.Vertices[i].Point, path.Vertices[next%n].Point))
				i++
				continue
			}
			segs = append(segs, newArc(path.Vertices[arc.StartIndex].Point, path.Vertices[arc.EndIndex].Point, arc))
			i = arc.EndIndex
			continue
		}

		next := i + 1
		if next >= n {
			next = 0
		}
		p0 := path.Vertices[i].Point
		p1 := path.Vertices[next].Point
		if p0.Dist(p1) < precision {
			i++
			continue // zero-length segment, drop
		}
		segs = append(segs, newLine(p0, p1))
		i++
	}

	return segs, warnings
}

func newLine(p0, p1 geom.Point) segment {
	return segment{kind: segLine, origStart: p0, origEnd: p1, start: p0, end: p1}
}

func newArc(p0, p1 geom.Point, a geom.ArcSegment) segment {
	return segment{
		kind:       segArc,
		origStart:  p0,
		origEnd:    p1,
		start:      p0,
		end:        p1,
		centre:     a.Centre,
		radius:     a.Radius,
		startAngle: a.StartAngle,
		endAngle:   a.EndAngle,
		sweep:      a.SweepAngle,
		clockwise:  a.Clockwise,
	}
}
