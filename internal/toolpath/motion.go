// Package toolpath converts an operation's offset contours (or hole list) into an ordered
// sequence of dialect-agnostic motion commands, handling depth layering,
// entry strategies, tab cutting and drilling.
package toolpath

import (
	"encoding/json"
	"fmt"

	"github.com/pcbcam/engine/internal/geom"
)

// MotionType is the kind of a single motion command.
type MotionType int

const (
	RAPID MotionType = iota
	LINEAR
	ARC_CW
	ARC_CCW
	PLUNGE
	RETRACT
	DWELL
)

func (t MotionType) String() string {
	switch t {
	case RAPID:
		return "RAPID"
	case LINEAR:
		return "LINEAR"
	case ARC_CW:
		return "ARC_CW"
	case ARC_CCW:
		return "ARC_CCW"
	case PLUNGE:
		return "PLUNGE"
	case RETRACT:
		return "RETRACT"
	case DWELL:
		return "DWELL"
	default:
		return "UNKNOWN"
	}
}

// MarshalJSON renders the type as its string name, matching the
// motion-command wire format.
func (t MotionType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON parses the type's string name back into a MotionType.
func (t *MotionType) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "RAPID":
		*t = RAPID
	case "LINEAR":
		*t = LINEAR
	case "ARC_CW":
		*t = ARC_CW
	case "ARC_CCW":
		*t = ARC_CCW
	case "PLUNGE":
		*t = PLUNGE
	case "RETRACT":
		*t = RETRACT
	case "DWELL":
		*t = DWELL
	default:
		return fmt.Errorf("motion: unknown type %q", name)
	}
	return nil
}

// Motion is a single command in a ToolpathPlan. Coordinates are absolute;
// a nil pointer means "unchanged" from the current position, matching the
// modal semantics a post-processor must honor. I/J are relative arc-centre
// offsets from the move's start point.
type Motion struct {
	Type    MotionType `json:"type"`
	X       *float64   `json:"x,omitempty"`
	Y       *float64   `json:"y,omitempty"`
	Z       *float64   `json:"z,omitempty"`
	F       *float64   `json:"f,omitempty"`
	I       *float64   `json:"i,omitempty"`
	J       *float64   `json:"j,omitempty"`
	Dwell   *float64   `json:"dwell,omitempty"`
	Comment string     `json:"comment,omitempty"`
}

func f(v float64) *float64 { return &v }

func rapid(p geom.Point, comment string) Motion {
	return Motion{Type: RAPID, X: f(p.X), Y: f(p.Y), Comment: comment}
}

func rapidZ(z float64) Motion {
	return Motion{Type: RAPID, Z: f(z)}
}

func linear(p geom.Point, feed float64) Motion {
	return Motion{Type: LINEAR, X: f(p.X), Y: f(p.Y), F: f(feed)}
}

func linearZ(z, feed float64, comment string) Motion {
	return Motion{Type: LINEAR, Z: f(z), F: f(feed), Comment: comment}
}

func linearXYZ(p geom.Point, z, feed float64) Motion {
	return Motion{Type: LINEAR, X: f(p.X), Y: f(p.Y), Z: f(z), F: f(feed)}
}

func arc(clockwise bool, end geom.Point, centre geom.Point, from geom.Point, feed float64) Motion {
	t := ARC_CCW
	if clockwise {
		t = ARC_CW
	}
	return Motion{
		Type: t,
		X:    f(end.X), Y: f(end.Y),
		I: f(centre.X - from.X), J: f(centre.Y - from.Y),
		F: f(feed),
	}
}

func arcZ(clockwise bool, end geom.Point, z float64, centre geom.Point, from geom.Point, feed float64) Motion {
	m := arc(clockwise, end, centre, from, feed)
	m.Z = f(z)
	return m
}

func dwell(seconds float64) Motion {
	return Motion{Type: DWELL, Dwell: f(seconds)}
}

func retract(z float64) Motion {
	return Motion{Type: RETRACT, Z: f(z)}
}

// ToolpathPlan is the ordered motion-command output of a Calculator run,
// plus metadata computed by simulating the plan command-by-command.
type ToolpathPlan struct {
	OperationID   string      `json:"operationId"`
	Motions       []Motion    `json:"motions"`
	ToolDiameter  float64     `json:"toolDiameter"`
	TotalDistance float64     `json:"totalDistance"`
	EstimatedTime float64     `json:"estimatedTimeSeconds"`
	Bounds        geom.Bounds `json:"bounds"`
	DepthLevels   []float64   `json:"depthLevels"`
}

// computeMetadata simulates the plan to derive travel distance, elapsed
// time and bounds. Rapids are assumed instantaneous for distance purposes
// but still contribute to estimated time at a nominal rapid rate.
func computeMetadata(plan *ToolpathPlan, rapidRate float64) {
	if rapidRate <= 0 {
		rapidRate = 3000
	}
	cur := geom.Point{}
	curZ := 0.0
	var bounds geom.Bounds
	first := true
	touch := func(p geom.Point) {
		if first {
			bounds = geom.Bounds{Min: p, Max: p}
			first = false
			return
		}
		bounds = bounds.Union(p)
	}

	for _, m := range plan.Motions {
		next := cur
		if m.X != nil {
			next.X = *m.X
		}
		if m.Y != nil {
			next.Y = *m.Y
		}
		nextZ := curZ
		if m.Z != nil {
			nextZ = *m.Z
		}

		switch m.Type {
		case RAPID, RETRACT:
			dist := cur.Dist(next)
			plan.EstimatedTime += dist / (rapidRate / 60.0)
			if m.Z != nil {
				plan.EstimatedTime += absf(nextZ-curZ) / (rapidRate / 60.0)
			}
		case LINEAR, PLUNGE:
			dist := cur.Dist(next)
			plan.TotalDistance += dist
			feed := 1000.0
			if m.F != nil {
				feed = *m.F
			}
			if feed > 0 {
				plan.EstimatedTime += dist / (feed / 60.0)
				plan.EstimatedTime += absf(nextZ-curZ) / (feed / 60.0)
			}
		case ARC_CW, ARC_CCW:
			dist := cur.Dist(next)
			plan.TotalDistance += dist
			feed := 1000.0
			if m.F != nil {
				feed = *m.F
			}
			if feed > 0 {
				plan.EstimatedTime += dist / (feed / 60.0)
			}
		case DWELL:
			if m.Dwell != nil {
				plan.EstimatedTime += *m.Dwell
			}
		}

		touch(next)
		cur = next
		curZ = nextZ
	}
	plan.Bounds = bounds
}
