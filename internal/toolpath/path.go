package toolpath

import (
	"fmt"
	"math"

	"github.com/pcbcam/engine/internal/camerr"
	"github.com/pcbcam/engine/internal/geom"
)

// entryPoint returns where the tool first touches a primitive: circles at
// their rightmost point, paths at their first vertex, obrounds at the top
// of the leading end cap.
func entryPoint(p geom.Primitive) (geom.Point, bool) {
	switch p.Kind {
	case geom.KindCircle:
		return geom.Point{X: p.Centre.X + p.Radius, Y: p.Centre.Y}, true
	case geom.KindPath:
		if len(p.Vertices) == 0 {
			return geom.Point{}, false
		}
		return p.Vertices[0].Point, true
	case geom.KindObround:
		horizontal := p.Width >= p.Height
		if horizontal {
			capRadius := p.Height / 2
			return geom.Point{X: p.Position.X + capRadius, Y: p.Position.Y + p.Height}, true
		}
		capRadius := p.Width / 2
		return geom.Point{X: p.Position.X, Y: p.Position.Y + p.Height - capRadius}, true
	default:
		return geom.Point{}, false
	}
}

// segSpan is one traversal piece of a walked Path: a line between two
// consecutive vertices, or an arc spanning an arcSegments entry.
type segSpan struct {
	arc       bool
	from, to  geom.Point
	centre    geom.Point
	clockwise bool
	length    float64
}

// pathSpans flattens a Path primitive into its traversal order, honoring
// arcSegments so spanned vertex runs collapse into a single arc span.
// Invalid arc indices degrade to line spans per the failure semantics.
func pathSpans(p geom.Primitive, precision float64) []segSpan {
	n := len(p.Vertices)
	if n < 2 {
		return nil
	}
	arcByStart := make(map[int]geom.ArcSegment, len(p.ArcSegments))
	for _, a := range p.ArcSegments {
		if a.EndIndex > a.StartIndex && a.EndIndex < n {
			arcByStart[a.StartIndex] = a
		}
	}

	var spans []segSpan
	i := 0
	limit := n - 1
	closesExplicitly := p.Closed && p.Vertices[0].Point.Dist(p.Vertices[n-1].Point) >= precision
	if closesExplicitly {
		limit = n
	}

	for i < limit {
		if a, ok := arcByStart[i]; ok {
			from := p.Vertices[a.StartIndex].Point
			to := p.Vertices[a.EndIndex].Point
			spans = append(spans, segSpan{arc: true, from: from, to: to, centre: a.Centre, clockwise: a.Clockwise, length: a.Radius * absf(a.SweepAngle)})
			i = a.EndIndex
			continue
		}
		next := i + 1
		if next >= n {
			next = 0
		}
		from := p.Vertices[i].Point
		to := p.Vertices[next].Point
		spans = append(spans, segSpan{from: from, to: to, length: from.Dist(to)})
		i++
	}
	return spans
}

// primitiveSpans produces traversal spans for any primitive kind: circles
// become one full-circle arc, obrounds two semicircular arcs joined by two
// linear sides, paths use pathSpans.
func primitiveSpans(p geom.Primitive, clockwise bool, precision float64) ([]segSpan, error) {
	switch p.Kind {
	case geom.KindCircle:
		start := geom.Point{X: p.Centre.X + p.Radius, Y: p.Centre.Y}
		return []segSpan{{arc: true, from: start, to: start, centre: p.Centre, clockwise: clockwise, length: 2 * math.Pi * p.Radius}}, nil
	case geom.KindObround:
		return obroundSpans(p, clockwise), nil
	case geom.KindPath:
		spans := pathSpans(p, precision)
		if spans == nil {
			return nil, fmt.Errorf("toolpath: %w: path has fewer than 2 vertices", camerr.ErrInvalidGeometry)
		}
		return spans, nil
	default:
		return nil, fmt.Errorf("toolpath: %w: unsupported primitive kind %v", camerr.ErrInvalidInput, p.Kind)
	}
}

// obroundSpans decomposes an obround (stadium) shape into two semicircular
// end caps joined by two straight sides, traversed clockwise from the
// leading cap.
func obroundSpans(p geom.Primitive, clockwise bool) []segSpan {
	horizontal := p.Width >= p.Height
	if horizontal {
		r := p.Height / 2
		leftC := geom.Point{X: p.Position.X + r, Y: p.Position.Y + r}
		rightC := geom.Point{X: p.Position.X + p.Width - r, Y: p.Position.Y + r}
		topLeft := geom.Point{X: leftC.X, Y: p.Position.Y + p.Height}
		topRight := geom.Point{X: rightC.X, Y: p.Position.Y + p.Height}
		botLeft := geom.Point{X: leftC.X, Y: p.Position.Y}
		botRight := geom.Point{X: rightC.X, Y: p.Position.Y}
		return []segSpan{
			{arc: true, from: topLeft, to: botLeft, centre: leftC, clockwise: clockwise, length: math.Pi * r},
			{from: botLeft, to: botRight, length: botLeft.Dist(botRight)},
			{arc: true, from: botRight, to: topRight, centre: rightC, clockwise: clockwise, length: math.Pi * r},
			{from: topRight, to: topLeft, length: topRight.Dist(topLeft)},
		}
	}
	r := p.Width / 2
	topC := geom.Point{X: p.Position.X + r, Y: p.Position.Y + p.Height - r}
	botC := geom.Point{X: p.Position.X + r, Y: p.Position.Y + r}
	topRight := geom.Point{X: p.Position.X + p.Width, Y: topC.Y}
	topLeft := geom.Point{X: p.Position.X, Y: topC.Y}
	botRight := geom.Point{X: p.Position.X + p.Width, Y: botC.Y}
	botLeft := geom.Point{X: p.Position.X, Y: botC.Y}
	return []segSpan{
		{arc: true, from: topLeft, to: topRight, centre: topC, clockwise: clockwise, length: math.Pi * r},
		{from: topRight, to: botRight, length: topRight.Dist(botRight)},
		{arc: true, from: botRight, to: botLeft, centre: botC, clockwise: clockwise, length: math.Pi * r},
		{from: botLeft, to: topLeft, length: botLeft.Dist(topLeft)},
	}
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// totalLength sums the arc-aware length of a span list.
func totalLength(spans []segSpan) float64 {
	total := 0.0
	for _, s := range spans {
		total += s.length
	}
	return total
}
