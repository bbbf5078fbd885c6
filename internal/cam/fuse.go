package cam

import (
	"math"

	"github.com/pcbcam/engine/internal/boolop"
	"github.com/pcbcam/engine/internal/camerr"
	"github.com/pcbcam/engine/internal/geom"
)

// circleFlattenSegments is how finely a Circle/Obround end-cap is sampled
// before handing it to the boolean library, which only ever sees flat
// vertex lists.
const circleFlattenSegments = 64

// flattenToPolygon samples any primitive kind into a closed vertex
// polygon, losing arc annotation, for boolean-library consumption.
func flattenToPolygon(p geom.Primitive) []geom.Point {
	switch p.Kind {
	case geom.KindCircle:
		return sampleCircle(p.Centre, p.Radius)
	case geom.KindObround:
		return sampleObround(p)
	default:
		return p.Points()
	}
}

func sampleCircle(centre geom.Point, radius float64) []geom.Point {
	pts := make([]geom.Point, circleFlattenSegments)
	for i := 0; i < circleFlattenSegments; i++ {
		a := 2 * math.Pi * float64(i) / float64(circleFlattenSegments)
		pts[i] = geom.Point{X: centre.X + radius*math.Cos(a), Y: centre.Y + radius*math.Sin(a)}
	}
	return pts
}

func sampleObround(p geom.Primitive) []geom.Point {
	horizontal := p.Width >= p.Height
	var pts []geom.Point
	half := circleFlattenSegments / 2
	if horizontal {
		r := p.Height / 2
		leftC := geom.Point{X: p.Position.X + r, Y: p.Position.Y + r}
		rightC := geom.Point{X: p.Position.X + p.Width - r, Y: p.Position.Y + r}
		for i := 0; i <= half; i++ {
			a := math.Pi/2 + math.Pi*float64(i)/float64(half)
			pts = append(pts, geom.Point{X: rightC.X + r*math.Cos(a), Y: rightC.Y + r*math.Sin(a)})
		}
		for i := 0; i <= half; i++ {
			a := -math.Pi/2 + math.Pi*float64(i)/float64(half)
			pts = append(pts, geom.Point{X: leftC.X + r*math.Cos(a), Y: leftC.Y + r*math.Sin(a)})
		}
		return pts
	}
	r := p.Width / 2
	botC := geom.Point{X: p.Position.X + r, Y: p.Position.Y + r}
	topC := geom.Point{X: p.Position.X + r, Y: p.Position.Y + p.Height - r}
	for i := 0; i <= half; i++ {
		a := math.Pi + math.Pi*float64(i)/float64(half)
		pts = append(pts, geom.Point{X: botC.X + r*math.Cos(a), Y: botC.Y + r*math.Sin(a)})
	}
	for i := 0; i <= half; i++ {
		a := math.Pi*float64(i)/float64(half)
		pts = append(pts, geom.Point{X: topC.X + r*math.Cos(a), Y: topC.Y + r*math.Sin(a)})
	}
	return pts
}

// fuseGroup unions a pass's flattened offset primitives with the boolop
// adapter, used when combineOffsets is set so overlapping offset
// rings from adjacent source primitives don't produce redundant,
// re-traced toolpath segments. Arc annotation is lost on every fused
// output per the Boolean geometry interface's stated contract.
func fuseGroup(prims []geom.Primitive) ([]geom.Primitive, []camerr.Warning) {
	polys := make([][]geom.Point, 0, len(prims))
	for _, p := range prims {
		poly := flattenToPolygon(p)
		if len(poly) >= 3 {
			polys = append(polys, poly)
		}
	}
	if len(polys) < 2 {
		return prims, nil
	}

	fused, err := boolop.Fuse(polys, boolop.NonZero)
	if err != nil {
		return prims, []camerr.Warning{camerr.NewWarning(camerr.KindInvalidGeometry, "combineOffsets: fuse failed: "+err.Error())}
	}

	out := make([]geom.Primitive, 0, len(fused))
	for _, poly := range fused {
		vertices := make([]geom.Vertex, len(poly))
		for i, p := range poly {
			vertices[i] = geom.Vertex{Point: p}
		}
		out = append(out, geom.Primitive{Kind: geom.KindPath, Closed: true, Vertices: vertices})
	}
	return out, nil
}
