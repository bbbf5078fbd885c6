package offset

import (
	"math"

	"github.com/pcbcam/engine/internal/geom"
)

// applyJoins bridges the gap left between consecutive offset segments at
// each original corner. Convexity is classified by the sign
// of the cross product of the incoming/outgoing directions against the
// sign of distance: a corner turning the same way as the offset direction
// is convex (needs a join construct) and one turning the opposite way is
// concave (the segments are extended to meet, or bridged directly when
// extension isn't possible).
func applyJoins(segs []segment, distance float64, opts Options) []segment {
	n := len(segs)
	if n < 2 {
		return segs
	}

	out := make([]segment, 0, n*2)
	for i := 0; i < n; i++ {
		cur := segs[i]
		next := segs[(i+1)%n]
		if i == n-1 && !closesLoop(segs) {
			out = append(out, cur)
			continue
		}

		out = append(out, cur)

		gap := cur.end.Dist(next.start)
		if gap <= opts.Precision {
			continue
		}

		corner := cur.origEnd
		inDir := cur.endDir()
		outDir := next.startDir()
		cross := geom.Cross(inDir, outDir)

		convex := (distance > 0 && cross > 0) || (distance < 0 && cross < 0)

		if !convex {
			// Concave corner: bridge directly. A proper concave solution
			// extends both segments to their new intersection, but for
			// non-line segments or near-parallel directions a direct
			// bridging line is a safe, simple approximation.
			if cur.kind == segLine && next.kind == segLine {
				if ip, ok := lineIntersectExtended(cur.start, cur.end, next.start, next.end); ok {
					out[len(out)-1].end = ip
					// The next segment is read fresh from segs as `cur` on
					// the following iteration, except when this corner is
					// the wraparound seam (i == n-1), whose "next" segment
					// (segs[0]) was already copied into out[0] back in the
					// first iteration and needs patching directly.
					segs[(i+1)%n].start = ip
					if i == n-1 {
						out[0].start = ip
					}
					continue
				}
			}
			out = append(out, newLine(cur.end, next.start))
			continue
		}

		switch opts.Join {
		case JoinRound:
			out = append(out, buildRoundJoin(corner, cur.end, next.start, distance))
		case JoinBevel:
			out = append(out, newLine(cur.end, next.start))
		default: // JoinMiter
			if ip, ok := miterPoint(corner, cur.end, inDir, next.start, outDir, distance, opts.MiterLimit); ok {
				out = append(out, newLine(cur.end, ip), newLine(ip, next.start))
			} else {
				out = append(out, newLine(cur.end, next.start))
			}
		}
	}
	return out
}

func closesLoop(segs []segment) bool {
	if len(segs) == 0 {
		return false
	}
	return segs[0].origStart.Dist(segs[len(segs)-1].origEnd) < 1e-6
}

// buildRoundJoin constructs an arc of the offset magnitude, centred at the
// shared original corner, sweeping from the end of the incoming segment to
// the start of the outgoing one.
func buildRoundJoin(corner, from, to geom.Point, distance float64) segment {
	radius := math.Abs(distance)
	startAngle := geom.Angle(corner, from)
	endAngle := geom.Angle(corner, to)
	clockwise := distance < 0

	sweep := endAngle - startAngle
	if clockwise {
		for sweep > 0 {
			sweep -= 2 * math.Pi
		}
	} else {
		for sweep < 0 {
			sweep += 2 * math.Pi
		}
	}

	return segment{
		kind:       segArc,
		origStart:  from,
		origEnd:    to,
		start:      from,
		end:        to,
		centre:     corner,
		radius:     radius,
		startAngle: startAngle,
		endAngle:   endAngle,
		sweep:      sweep,
		clockwise:  clockwise,
	}
}

// miterPoint computes the intersection of the two offset lines extended
// along their tangent directions, rejecting it (caller falls back to
// bevel) when its distance from the original corner exceeds
// miterLimit * |distance|.
func miterPoint(corner, p0, d0, p1, d1 geom.Point, distance, miterLimit float64) (geom.Point, bool) {
	ip, ok := rayIntersect(p0, d0, p1, d1)
	if !ok {
		return geom.Point{}, false
	}
	if ip.Dist(corner) > miterLimit*math.Abs(distance) {
		return geom.Point{}, false
	}
	return ip, true
}

// rayIntersect solves p0 + t*d0 == p1 + s*d1 for the intersection point.
func rayIntersect(p0, d0, p1, d1 geom.Point) (geom.Point, bool) {
	denom := d0.X*d1.Y - d0.Y*d1.X
	if math.Abs(denom) < 1e-12 {
		return geom.Point{}, false
	}
	dx := p1.X - p0.X
	dy := p1.Y - p0.Y
	t := (dx*d1.Y - dy*d1.X) / denom
	return geom.Point{X: p0.X + t*d0.X, Y: p0.Y + t*d0.Y}, true
}

// lineIntersectExtended intersects two infinite lines defined by segment
// endpoints, used to sharpen concave line-line corners.
func lineIntersectExtended(a0, a1, b0, b1 geom.Point) (geom.Point, bool) {
	d0 := a1.Sub(a0)
	d1 := b1.Sub(b0)
	return rayIntersect(a0, d0, b0, d1)
}
