package geom

// Vertex is a polyline point, optionally annotated with the curve it was
// sampled from. CurveID is 0 when the vertex is a straight point; a
// positive CurveID refers to a record in a curve registry and SegmentIndex
// locates the vertex within that curve's original sampling.
type Vertex struct {
	Point        Point `json:"point"`
	CurveID      int   `json:"curveId,omitempty"`
	SegmentIndex int   `json:"segmentIndex,omitempty"`
}

// HasCurve reports whether the vertex was sampled from a registered curve.
func (v Vertex) HasCurve() bool { return v.CurveID > 0 }

// ArcSegment records that vertices[StartIndex:EndIndex+1] of a Path lie on
// a circular arc. StartIndex < EndIndex except for an arc that wraps across
// a closed path's seam, which decomposition always splits into two spans.
type ArcSegment struct {
	StartIndex int     `json:"startIndex"`
	EndIndex   int     `json:"endIndex"`
	Centre     Point   `json:"centre"`
	Radius     float64 `json:"radius"`
	StartAngle float64 `json:"startAngle"`
	EndAngle   float64 `json:"endAngle"`
	SweepAngle float64 `json:"sweepAngle"`
	Clockwise  bool    `json:"clockwise"`
}

// Kind discriminates the three primitive shapes artwork can produce.
type Kind int

const (
	KindCircle Kind = iota
	KindPath
	KindObround
)

func (k Kind) String() string {
	switch k {
	case KindCircle:
		return "circle"
	case KindPath:
		return "path"
	case KindObround:
		return "obround"
	default:
		return "unknown"
	}
}

// Primitive is an atomic geometric entity: a circle, a path (open or
// closed polyline with optional arc segments and holes), or an obround
// (slot) shape. Exactly one of the shape-specific field groups is
// meaningful, selected by Kind. The tagged-sum representation is chosen over
// a Go interface because every stage (offsetting, toolpath synthesis,
// JSON motion-stream encoding) needs to serialize primitives uniformly.
type Primitive struct {
	Kind Kind `json:"kind"`

	// Circle fields.
	Centre     Point             `json:"centre,omitempty"`
	Radius     float64           `json:"radius,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`

	// Path fields.
	Vertices    []Vertex     `json:"vertices,omitempty"`
	Closed      bool         `json:"closed,omitempty"`
	ArcSegments []ArcSegment `json:"arcSegments,omitempty"`
	Holes       []Primitive  `json:"holes,omitempty"`

	// Obround fields: Position is the lower-left corner, Width/Height the
	// bounding rectangle including the semicircular end caps.
	Position Point   `json:"position,omitempty"`
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
}

// NewCircle returns a Circle primitive.
func NewCircle(centre Point, radius float64) Primitive {
	return Primitive{Kind: KindCircle, Centre: centre, Radius: radius}
}

// NewObround returns an Obround primitive.
func NewObround(position Point, width, height float64) Primitive {
	return Primitive{Kind: KindObround, Position: position, Width: width, Height: height}
}

// Points returns the plain point sequence of a Path's vertices.
func (p Primitive) Points() []Point {
	pts := make([]Point, len(p.Vertices))
	for i, v := range p.Vertices {
		pts[i] = v.Point
	}
	return pts
}

// Bounds computes the axis-aligned bounding box of the primitive.
func (p Primitive) Bounds() Bounds {
	switch p.Kind {
	case KindCircle:
		return Bounds{
			Min: Point{X: p.Centre.X - p.Radius, Y: p.Centre.Y - p.Radius},
			Max: Point{X: p.Centre.X + p.Radius, Y: p.Centre.Y + p.Radius},
		}
	case KindObround:
		return Bounds{Min: p.Position, Max: Point{X: p.Position.X + p.Width, Y: p.Position.Y + p.Height}}
	default:
		return BoundsOf(p.Points())
	}
}

// ArcAt returns the ArcSegment covering the span starting at vertex index i
// (i.e. StartIndex == i), if any.
func (p Primitive) ArcAt(i int) (ArcSegment, bool) {
	for _, a := range p.ArcSegments {
		if a.StartIndex == i {
			return a, true
		}
	}
	return ArcSegment{}, false
}

// Hole is a circular hole to be drilled: position, diameter and the tool
// intended to cut it.
type Hole struct {
	Position Point   `json:"position"`
	Diameter float64 `json:"diameter"`
	ToolID   string  `json:"toolId"`
}
