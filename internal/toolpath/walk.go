package toolpath

import (
	"math"

	"github.com/pcbcam/engine/internal/geom"
)

// pointAt returns the point at fraction t (0..1) along span s, and for arc
// spans also returns the traversal angle span covered up to t (used to
// recompute I/J after a tab split).
func pointAt(s segSpan, t float64) geom.Point {
	if !s.arc {
		return geom.Point{X: s.from.X + (s.to.X-s.from.X)*t, Y: s.from.Y + (s.to.Y-s.from.Y)*t}
	}
	radius := s.centre.Dist(s.from)
	startAngle := geom.Angle(s.centre, s.from)
	var sweep float64
	if s.from.Dist(s.to) < 1e-9 {
		// Full circle.
		sweep = -2 * math.Pi
		if !s.clockwise {
			sweep = 2 * math.Pi
		}
	} else {
		endAngle := geom.Angle(s.centre, s.to)
		sweep = endAngle - startAngle
		if s.clockwise {
			for sweep > 0 {
				sweep -= 2 * math.Pi
			}
		} else {
			for sweep < 0 {
				sweep += 2 * math.Pi
			}
		}
	}
	angle := startAngle + sweep*t
	return geom.Point{X: s.centre.X + radius*math.Cos(angle), Y: s.centre.Y + radius*math.Sin(angle)}
}

// walkFlat emits LINEAR/ARC motions for spans at a single constant Z, with
// no tab interruption, used for every depth level above tabTopZ.
func walkFlat(spans []segSpan, z, feed float64) []Motion {
	var motions []Motion
	for _, s := range spans {
		if !s.arc {
			motions = append(motions, linearXYZ(s.to, z, feed))
			continue
		}
		m := arcZ(s.clockwise, s.to, z, s.centre, s.from, feed)
		motions = append(motions, m)
	}
	return motions
}

// walkWithTabs emits motions for spans at depth z, lifting to tabTopZ
// while the accumulated arc-aware path distance falls inside any tab
// window. Arc spans crossing a tab boundary are linearised at the split
// point since the lift/plunge itself cannot ride along an arc's curvature.
func walkWithTabs(spans []segSpan, z, tabTopZ, feed, plungeFeed float64, windows []tabWindow) []Motion {
	if len(windows) == 0 {
		return walkFlat(spans, z, feed)
	}

	var motions []Motion
	d := 0.0
	inTab := false

	for _, s := range spans {
		segStart := d
		segEnd := d + s.length
		// Collect breakpoints where tab state changes within this span.
		breaks := []float64{0}
		for _, w := range windows {
			for _, edge := range []float64{w.start, w.end} {
				if edge > segStart && edge < segEnd {
					breaks = append(breaks, (edge-segStart)/s.length)
				}
			}
		}
		breaks = append(breaks, 1)
		sortFloats(breaks)

		cur := s.from
		for i := 1; i < len(breaks); i++ {
			t0, t1 := breaks[i-1], breaks[i]
			mid := segStart + (t0+t1)/2*s.length
			wantTab := inWindow(windows, mid)
			next := pointAt(s, t1)
			if i == len(breaks)-1 {
				next = s.to
			}

			if wantTab && !inTab {
				motions = append(motions, linearZ(tabTopZ, plungeFeed, "tab"))
				inTab = true
			} else if !wantTab && inTab {
				motions = append(motions, linearZ(z, plungeFeed, ""))
				inTab = false
			}

			targetZ := z
			if inTab {
				targetZ = tabTopZ
			}
			if s.arc && !wantTab && !inTab {
				motions = append(motions, arcZ(s.clockwise, next, targetZ, s.centre, cur, feed))
			} else {
				motions = append(motions, linearXYZ(next, targetZ, feed))
			}
			cur = next
		}
		d = segEnd
	}

	if inTab {
		motions = append(motions, linearZ(z, plungeFeed, ""))
	}
	return motions
}

func sortFloats(vals []float64) {
	for i := 1; i < len(vals); i++ {
		for j := i; j > 0 && vals[j] < vals[j-1]; j-- {
			vals[j], vals[j-1] = vals[j-1], vals[j]
		}
	}
}
