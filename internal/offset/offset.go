package offset

import (
	"fmt"

	"github.com/pcbcam/engine/internal/camerr"
	"github.com/pcbcam/engine/internal/geom"
)

// Offset returns a copy of path shifted outward (positive distance) or
// inward (negative distance) by distance millimetres. Circles
// and obrounds offset analytically; paths run the full decompose/offset/
// join/resolve/reconstruct pipeline. Holes are offset with the opposite
// sign, since a hole's boundary is the inverse of its containing region.
// Returns (nil, warnings-with-ErrCollapsed) when the whole primitive
// collapses to nothing.
func Offset(path geom.Primitive, distance float64, opts Options) (*geom.Primitive, []camerr.Warning) {
	switch path.Kind {
	case geom.KindCircle:
		return offsetCircle(path, distance)
	case geom.KindObround:
		return offsetObround(path, distance)
	case geom.KindPath:
		return offsetPath(path, distance, opts)
	default:
		w := camerr.NewWarning(camerr.KindInvalidGeometry, fmt.Sprintf("unsupported primitive kind %v", path.Kind))
		return nil, []camerr.Warning{w}
	}
}

func offsetCircle(c geom.Primitive, distance float64) (*geom.Primitive, []camerr.Warning) {
	r := c.Radius + distance
	if r <= 0 {
		return nil, []camerr.Warning{camerr.NewWarning(camerr.KindCollapsed,
			fmt.Sprintf("circle radius %.6f collapsed at offset distance %.6f", c.Radius, distance))}
	}
	out := geom.NewCircle(c.Centre, r)
	return &out, nil
}

func offsetObround(o geom.Primitive, distance float64) (*geom.Primitive, []camerr.Warning) {
	width := o.Width + 2*distance
	height := o.Height + 2*distance
	if width <= 0 || height <= 0 {
		return nil, []camerr.Warning{camerr.NewWarning(camerr.KindCollapsed,
			fmt.Sprintf("obround collapsed at offset distance %.6f", distance))}
	}
	position := geom.Point{X: o.Position.X - distance, Y: o.Position.Y - distance}
	out := geom.NewObround(position, width, height)
	return &out, nil
}

func offsetPath(path geom.Primitive, distance float64, opts Options) (*geom.Primitive, []camerr.Warning) {
	var warnings []camerr.Warning

	segs, w := decompose(path, opts.Precision)
	warnings = append(warnings, w...)
	if len(segs) == 0 {
		return nil, append(warnings, camerr.NewWarning(camerr.KindInvalidGeometry, "path decomposed to no segments"))
	}

	offsetted, w := offsetSegments(segs, distance, opts.Precision)
	warnings = append(warnings, w...)

	joined := applyJoins(offsetted, distance, opts)

	if opts.ResolveSelfIntersections {
		resolved, w := resolveSelfIntersections(joined, opts)
		warnings = append(warnings, w...)
		joined = resolved
	}

	out := reconstruct(joined, path.Closed, opts.Precision)
	minVertices := 3
	if !path.Closed {
		minVertices = 2
	}
	if len(out.Vertices) < minVertices {
		return nil, append(warnings, camerr.NewWarning(camerr.KindCollapsed,
			fmt.Sprintf("offset path collapsed below %d vertices", minVertices)))
	}
	if path.Closed && windingInverted(path.Points(), out.Points()) {
		return nil, append(warnings, camerr.NewWarning(camerr.KindCollapsed,
			fmt.Sprintf("path fully consumed at offset distance %.6f", distance)))
	}

	if len(path.Holes) > 0 {
		out.Holes = make([]geom.Primitive, 0, len(path.Holes))
		for i, hole := range path.Holes {
			holeOut, hw := Offset(hole, -distance, opts)
			for _, warning := range hw {
				if warning.PrimitiveIndex < 0 {
					warning.PrimitiveIndex = i
				}
				warnings = append(warnings, warning)
			}
			if holeOut != nil {
				out.Holes = append(out.Holes, *holeOut)
			}
		}
	}

	return &out, warnings
}

// signedArea is the shoelace sum of a closed vertex loop: positive for
// counter-clockwise winding.
func signedArea(pts []geom.Point) float64 {
	if len(pts) < 3 {
		return 0
	}
	area := 0.0
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		area += p.X*q.Y - q.X*p.Y
	}
	return area / 2
}

// windingInverted reports whether a deflation consumed the whole feature:
// when every edge moves past the opposite side the reconstructed loop
// comes out wound the other way round from its input.
func windingInverted(in, out []geom.Point) bool {
	a, b := signedArea(in), signedArea(out)
	if a == 0 || b == 0 {
		return false
	}
	return (a > 0) != (b > 0)
}
