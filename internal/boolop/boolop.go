// Package boolop adapts polygon boolean operations for the pipeline: a
// thin wrapper over github.com/go-clipper/clipper2's pure-Go Clipper2 port,
// used to fuse input copper regions and, as a topological backstop, to
// clean up flattened offset self-intersections.
//
// Clipper2 operates on 64-bit integer coordinates. Millimetre floats are
// scaled to and from that fixed-point space at the package boundary so
// every other package in this module stays in float64 millimetres.
package boolop

import (
	"fmt"

	clipper "github.com/go-clipper/clipper2/port"

	"github.com/pcbcam/engine/internal/geom"
)

// scale converts millimetres to Clipper2's integer coordinate space at
// 1e4 units per millimetre (0.1 micron resolution).
const scale = 1e4

// FillRule selects how self-intersecting polygons resolve their interior,
// mirrored from clipper2's FillRule so callers of this package never need
// to import the underlying library directly.
type FillRule int

const (
	EvenOdd FillRule = iota
	NonZero
	Positive
	Negative
)

func (f FillRule) toClipper() clipper.FillRule {
	switch f {
	case NonZero:
		return clipper.NonZero
	case Positive:
		return clipper.Positive
	case Negative:
		return clipper.Negative
	default:
		return clipper.EvenOdd
	}
}

// JoinType mirrors clipper2's offset join styles for OffsetPolygons.
type JoinType int

const (
	JoinSquare JoinType = iota
	JoinRound
	JoinMiter
)

func (j JoinType) toClipper() clipper.JoinType {
	switch j {
	case JoinRound:
		return clipper.Round
	case JoinMiter:
		return clipper.Miter
	default:
		return clipper.Square
	}
}

func toPath64(poly []geom.Point) clipper.Path64 {
	path := make(clipper.Path64, len(poly))
	for i, p := range poly {
		path[i] = clipper.Point64{X: int64(p.X * scale), Y: int64(p.Y * scale)}
	}
	return path
}

func toPaths64(polys [][]geom.Point) clipper.Paths64 {
	paths := make(clipper.Paths64, len(polys))
	for i, poly := range polys {
		paths[i] = toPath64(poly)
	}
	return paths
}

func fromPath64(path clipper.Path64) []geom.Point {
	pts := make([]geom.Point, len(path))
	for i, p := range path {
		pts[i] = geom.Point{X: float64(p.X) / scale, Y: float64(p.Y) / scale}
	}
	return pts
}

func fromPaths64(paths clipper.Paths64) [][]geom.Point {
	out := make([][]geom.Point, len(paths))
	for i, path := range paths {
		out[i] = fromPath64(path)
	}
	return out
}

// Fuse unions a set of closed polygons (vertex form; winding determines
// outer ring vs hole), used to combine overlapping copper regions from
// source artwork into a single boundary before arc reconstruction.
func Fuse(polys [][]geom.Point, rule FillRule) ([][]geom.Point, error) {
	result, err := clipper.Union64(toPaths64(polys), nil, rule.toClipper())
	if err != nil {
		return nil, fmt.Errorf("boolop: fuse: %w", err)
	}
	return fromPaths64(result), nil
}

// Subtract removes clip polygons from subject polygons.
func Subtract(subject, clip [][]geom.Point, rule FillRule) ([][]geom.Point, error) {
	result, err := clipper.Difference64(toPaths64(subject), toPaths64(clip), rule.toClipper())
	if err != nil {
		return nil, fmt.Errorf("boolop: subtract: %w", err)
	}
	return fromPaths64(result), nil
}

// Intersect computes the intersection of subject and clip polygons.
func Intersect(subject, clip [][]geom.Point, rule FillRule) ([][]geom.Point, error) {
	result, err := clipper.Intersect64(toPaths64(subject), toPaths64(clip), rule.toClipper())
	if err != nil {
		return nil, fmt.Errorf("boolop: intersect: %w", err)
	}
	return fromPaths64(result), nil
}

// OffsetPolygons inflates (positive delta) or deflates (negative delta) a
// set of closed, arc-flattened polygons using the boolean library's own
// offsetter. The arc-preserving offset engine (internal/offset) is
// always authoritative and never calls this; only the self-intersection
// trimmer's topological cleanup step uses it, on geometry that has already
// lost arc annotation.
func OffsetPolygons(polys [][]geom.Point, delta float64, join JoinType) ([][]geom.Point, error) {
	result, err := clipper.InflatePaths64(toPaths64(polys), delta*scale, join.toClipper(), clipper.ClosedPolygon)
	if err != nil {
		return nil, fmt.Errorf("boolop: offset: %w", err)
	}
	return fromPaths64(result), nil
}

// Area returns the signed area of a polygon (positive = counter-clockwise
// winding in this package's coordinate convention).
func Area(poly []geom.Point) float64 {
	return clipper.Area64(toPath64(poly)) / (scale * scale)
}

// IsPositive reports whether poly has positive (outer-ring) winding.
func IsPositive(poly []geom.Point) bool {
	return clipper.IsPositive64(toPath64(poly))
}
