package offset

import (
	"math"

	"github.com/pcbcam/engine/internal/geom"
)

// reconstruct rebuilds a Path primitive from the final, joined, resolved
// segment chain: arcs are resampled into vertices at no
// coarser than 0.1mm of arc length (minimum two samples), adjacent
// duplicate vertices closer than precision are suppressed, and a fresh
// arcSegments list is emitted with indices into the new vertex array.
// closed carries the input path's flag through to the output; the seam
// vertex is only deduplicated on closed paths.
func reconstruct(segs []segment, closed bool, precision float64) geom.Primitive {
	var vertices []geom.Point
	var arcs []geom.ArcSegment

	appendPoint := func(p geom.Point) {
		if len(vertices) > 0 && vertices[len(vertices)-1].Dist(p) < precision {
			return
		}
		vertices = append(vertices, p)
	}

	for _, s := range segs {
		if s.kind == segLine {
			appendPoint(s.start)
			appendPoint(s.end)
			continue
		}

		arcLen := s.radius * absf(s.sweep)
		steps := int(math.Ceil(arcLen / 0.1))
		if steps < 2 {
			steps = 2
		}

		appendPoint(s.start)
		startIdx := len(vertices) - 1
		for k := 1; k < steps; k++ {
			t := float64(k) / float64(steps)
			angle := s.startAngle + s.sweep*t
			p := geom.Point{X: s.centre.X + s.radius*math.Cos(angle), Y: s.centre.Y + s.radius*math.Sin(angle)}
			appendPoint(p)
		}
		appendPoint(s.end)
		endIdx := len(vertices) - 1

		if endIdx > startIdx {
			arcs = append(arcs, geom.ArcSegment{
				StartIndex: startIdx,
				EndIndex:   endIdx,
				Centre:     s.centre,
				Radius:     s.radius,
				StartAngle: s.startAngle,
				EndAngle:   s.endAngle,
				SweepAngle: s.sweep,
				Clockwise:  s.clockwise,
			})
		}
	}

	if closed && len(vertices) > 1 && vertices[0].Dist(vertices[len(vertices)-1]) < precision {
		vertices = vertices[:len(vertices)-1]
	}

	out := geom.Primitive{Kind: geom.KindPath, Closed: closed, ArcSegments: arcs}
	out.Vertices = make([]geom.Vertex, len(vertices))
	for i, p := range vertices {
		out.Vertices[i] = geom.Vertex{Point: p}
	}
	return out
}
