// Package curvereg implements the Curve Registry: a process-scoped store
// of immutable Curve records keyed by integer ID, written once by artwork
// parsing and read-only for the rest of a CAM session.
package curvereg

import "github.com/pcbcam/engine/internal/geom"

// Shape discriminates a Curve record between a full circle and a partial arc.
type Shape int

const (
	ShapeCircle Shape = iota
	ShapeArc
)

// Curve is an interned descriptor for an original circular arc or full
// circle recovered from source artwork. Curve records are immutable after
// registration.
type Curve struct {
	Shape      Shape
	Centre     geom.Point
	Radius     float64
	StartAngle float64 // arcs only
	EndAngle   float64 // arcs only
	Clockwise  bool    // arcs only
}

// Registry maps integer IDs to Curve records. It is written once (during
// artwork parsing) and read concurrently-safe thereafter only because no
// writer runs after that point; it is not internally synchronized and
// the pipeline runs single-threaded and cooperative.
type Registry struct {
	curves []Curve // index i holds the curve with ID i+1
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{}
}

// Register assigns the next positive integer ID to curve and stores it.
func (r *Registry) Register(curve Curve) int {
	r.curves = append(r.curves, curve)
	return len(r.curves)
}

// Get returns the Curve record for id, or false if id is not registered.
func (r *Registry) Get(id int) (Curve, bool) {
	if id <= 0 || id > len(r.curves) {
		return Curve{}, false
	}
	return r.curves[id-1], true
}

// Clear drops all records, as done at the start of a new CAM session.
func (r *Registry) Clear() {
	r.curves = nil
}

// Len reports the number of registered curves (the stats counter).
func (r *Registry) Len() int {
	return len(r.curves)
}
