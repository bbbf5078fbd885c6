// Package geom holds the data model shared by every stage of the CAM
// pipeline: points, polyline vertices, arc segments and the three
// primitive shapes (circle, path, obround) that artwork is expressed in.
package geom

import "math"

// Point is a 2D coordinate in millimetres.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Finite reports whether both coordinates are finite real numbers.
func (p Point) Finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Scale(s float64) Point { return Point{p.X * s, p.Y * s} }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Length returns the vector's magnitude, treating p as a direction from the origin.
func (p Point) Length() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y)
}

// Normalize returns a unit vector in the direction of p, or the zero vector
// if p is degenerate (shorter than 1e-12).
func (p Point) Normalize() Point {
	l := p.Length()
	if l < 1e-12 {
		return Point{}
	}
	return Point{p.X / l, p.Y / l}
}

// LeftNormal returns the unit vector rotated 90 degrees left (counter-clockwise)
// of the direction from p to q.
func LeftNormal(p, q Point) Point {
	d := q.Sub(p).Normalize()
	return Point{-d.Y, d.X}
}

// RightNormal returns the unit vector rotated 90 degrees right (clockwise)
// of the direction from p to q. For a counter-clockwise-wound polygon this
// points outward from the interior at every edge.
func RightNormal(p, q Point) Point {
	d := q.Sub(p).Normalize()
	return Point{d.Y, -d.X}
}

// Cross returns the 2D cross product (z component) of vectors p and q.
func Cross(p, q Point) float64 {
	return p.X*q.Y - p.Y*q.X
}

// Dot returns the dot product of vectors p and q.
func Dot(p, q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}

// Angle returns the angle (radians, [-pi, pi]) of the vector from centre to p.
func Angle(centre, p Point) float64 {
	return math.Atan2(p.Y-centre.Y, p.X-centre.X)
}

// NormalizeAngle wraps a radians value into [-pi, pi].
func NormalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min, Max Point
}

// Union returns the smallest Bounds containing both b and p. b must already
// contain at least one point: a caller building bounds up from nothing
// should seed the first point directly rather than unioning into a zero
// Bounds, which is indistinguishable from a real bounds at the origin.
func (b Bounds) Union(p Point) Bounds {
	min := Point{X: math.Min(b.Min.X, p.X), Y: math.Min(b.Min.Y, p.Y)}
	max := Point{X: math.Max(b.Max.X, p.X), Y: math.Max(b.Max.Y, p.Y)}
	return Bounds{Min: min, Max: max}
}

// BoundsOf computes the bounding box of a set of points. Returns the zero
// Bounds if pts is empty.
func BoundsOf(pts []Point) Bounds {
	if len(pts) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		b = b.Union(p)
	}
	return b
}
