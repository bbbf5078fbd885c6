// Package offset shifts contours by a signed tool-compensation distance:
// it offsets an annotated polyline (with embedded arc segments) by a signed
// distance, decomposing into line/arc segments, offsetting each
// independently, joining them (miter/bevel/round), optionally resolving
// self-intersections, and resampling arcs on reconstruction.
package offset

import "github.com/pcbcam/engine/internal/geom"

// JoinType selects how convex corners are bridged.
type JoinType int

const (
	JoinMiter JoinType = iota
	JoinBevel
	JoinRound
)

// SelfIntersectionPolicy selects between the two self-intersection
// resolver contracts: report-only, or destructive trimming.
type SelfIntersectionPolicy int

const (
	// SelfIntersectionTrim destructively trims the earlier segment to the
	// intersection point and drops everything between. This is the default.
	SelfIntersectionTrim SelfIntersectionPolicy = iota
	// SelfIntersectionReport detects intersections and records them as
	// warnings without altering the geometry.
	SelfIntersectionReport
)

// Options configures a single Offset call.
type Options struct {
	Join JoinType

	// MiterLimit is the multiple of |distance| beyond which a miter join
	// falls back to bevel.
	MiterLimit float64

	// Precision is the numeric tolerance (mm) below which segments,
	// radii and gaps are treated as zero/coincident.
	Precision float64

	// ResolveSelfIntersections enables the self-intersection pass of the
	// offset pipeline. When false, joined
	// segments are reconstructed directly with no self-intersection pass.
	ResolveSelfIntersections bool

	// SelfIntersection selects which contract step 4 uses when
	// ResolveSelfIntersections is true.
	SelfIntersection SelfIntersectionPolicy
}

// DefaultOptions returns sensible defaults: miter joins, a 2.0 miter limit,
// 1e-6 mm precision, and self-intersection trimming enabled.
func DefaultOptions() Options {
	return Options{
		Join:                     JoinMiter,
		MiterLimit:               2.0,
		Precision:                1e-6,
		ResolveSelfIntersections: true,
		SelfIntersection:         SelfIntersectionTrim,
	}
}

// segKind discriminates the two flattened segment shapes used internally
// by the offset pipeline.
type segKind int

const (
	segLine segKind = iota
	segArc
)

// segment is a single decomposed piece of a path: a line between two
// points, or an arc. origStart/origEnd are the pre-offset endpoints (used
// as join corners); start/end are the current (possibly offset, possibly
// re-joined) endpoints.
type segment struct {
	kind segKind

	origStart, origEnd geom.Point
	start, end         geom.Point

	// Arc-only fields (meaningful when kind == segArc).
	centre                      geom.Point
	radius                      float64
	startAngle, endAngle, sweep float64
	clockwise                   bool

	collapsed bool // true if an arc degraded to a line (ErrCollapsed)
}

func (s segment) length() float64 {
	if s.kind == segLine {
		return s.start.Dist(s.end)
	}
	return s.radius * absf(s.sweep)
}

// startDir returns the unit tangent direction at the segment's start point.
func (s segment) startDir() geom.Point {
	if s.kind == segLine {
		return s.end.Sub(s.start).Normalize()
	}
	return arcTangent(s.centre, s.start, s.clockwise)
}

// endDir returns the unit tangent direction at the segment's end point.
func (s segment) endDir() geom.Point {
	if s.kind == segLine {
		return s.end.Sub(s.start).Normalize()
	}
	return arcTangent(s.centre, s.end, s.clockwise)
}

// arcTangent returns the unit tangent of travel at point p on a circle
// centred at c, respecting winding.
func arcTangent(c, p geom.Point, clockwise bool) geom.Point {
	radial := p.Sub(c).Normalize()
	tangent := geom.Point{X: -radial.Y, Y: radial.X} // 90 deg CCW from radial
	if clockwise {
		return geom.Point{X: -tangent.X, Y: -tangent.Y}
	}
	return tangent
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
