package gcode

import (
	"fmt"
	"math"
	"strings"

	"github.com/pcbcam/engine/internal/toolpath"
)

// modalState tracks the controller's current motion mode and last-emitted
// coordinates/feed so the post-processor can suppress redundant output
// rather than re-state every axis on every line.
type modalState struct {
	mode         toolpath.MotionType
	haveMode     bool
	x, y, z, f   float64
	haveX, haveY bool
	haveZ, haveF bool
}

// PostProcessor renders a ToolpathPlan into dialect-specific G-code lines.
type PostProcessor struct {
	Profile      Profile
	SpindleSpeed float64
	SafeZ        float64
	WorkOffset   string // e.g. "G54"; empty to omit
	ToolID       string

	// UserStartCode/UserEndCode are the operation's free-form startCode/
	// endCode settings, emitted verbatim after the profile preamble and
	// before the profile postamble.
	UserStartCode string
	UserEndCode   string
}

func New(profile Profile) *PostProcessor {
	return &PostProcessor{Profile: profile}
}

// Generate renders the full program: preamble, tool-change, body, postamble.
func (pp *PostProcessor) Generate(plan *toolpath.ToolpathPlan) string {
	var b strings.Builder
	pp.writePreamble(&b, plan)
	pp.writeToolChange(&b)

	state := &modalState{}
	for _, m := range plan.Motions {
		pp.writeMotion(&b, state, m)
	}

	pp.writePostamble(&b)
	return b.String()
}

func (pp *PostProcessor) comment(text string) string {
	return pp.Profile.CommentPrefix + " " + text + pp.Profile.CommentSuffix
}

func (pp *PostProcessor) format(v float64) string {
	return fmt.Sprintf("%.*f", pp.Profile.DecimalPlaces, v)
}

func (pp *PostProcessor) writePreamble(b *strings.Builder, plan *toolpath.ToolpathPlan) {
	b.WriteString(pp.comment(fmt.Sprintf("Generated for profile: %s", pp.Profile.Name)) + "\n")
	b.WriteString(pp.comment(fmt.Sprintf("Operation: %s", plan.OperationID)) + "\n")
	b.WriteString(pp.comment(fmt.Sprintf("Tool diameter: %.3fmm", plan.ToolDiameter)) + "\n")
	b.WriteString("\n")
	for _, code := range pp.Profile.StartCode {
		b.WriteString(code + "\n")
	}
	if pp.WorkOffset != "" {
		b.WriteString(pp.WorkOffset + "\n")
	}
	if pp.UserStartCode != "" {
		for _, line := range strings.Split(strings.TrimSpace(pp.UserStartCode), "\n") {
			b.WriteString(line + "\n")
		}
	}
	b.WriteString("\n")
}

func (pp *PostProcessor) writeToolChange(b *strings.Builder) {
	if pp.ToolID != "" {
		b.WriteString(pp.comment(fmt.Sprintf("Tool change: %s", pp.ToolID)) + "\n")
	}
	if pp.Profile.SpindleStart != "" && pp.SpindleSpeed > 0 {
		speed := clamp(pp.SpindleSpeed, 0, pp.Profile.MaxSpindleSpeed)
		b.WriteString(fmt.Sprintf(pp.Profile.SpindleStart, speed) + "\n")
	}
}

func (pp *PostProcessor) writePostamble(b *strings.Builder) {
	b.WriteString("\n")
	b.WriteString(pp.comment("Job complete") + "\n")
	if pp.UserEndCode != "" {
		for _, line := range strings.Split(strings.TrimSpace(pp.UserEndCode), "\n") {
			b.WriteString(line + "\n")
		}
	}
	for _, code := range pp.Profile.EndCode {
		code = strings.ReplaceAll(code, "[SafeZ]", pp.format(pp.SafeZ))
		b.WriteString(code + "\n")
	}
}

func clamp(v, _, max float64) float64 {
	if max > 0 && v > max {
		return max
	}
	return v
}

// writeMotion renders a single motion command, suppressing any axis word
// whose value is unchanged from the modal state.
func (pp *PostProcessor) writeMotion(b *strings.Builder, state *modalState, m toolpath.Motion) {
	switch m.Type {
	case toolpath.DWELL:
		if m.Dwell != nil {
			b.WriteString(fmt.Sprintf("G4 P%s\n", pp.format(*m.Dwell)))
		}
		return
	case toolpath.RETRACT:
		pp.emitMove(b, state, pp.Profile.RapidMove, toolpath.RAPID, m)
		return
	case toolpath.PLUNGE:
		pp.emitMove(b, state, pp.Profile.FeedMove, toolpath.LINEAR, m)
		return
	case toolpath.RAPID:
		pp.emitMove(b, state, pp.Profile.RapidMove, toolpath.RAPID, m)
		return
	case toolpath.LINEAR:
		pp.emitMove(b, state, pp.Profile.FeedMove, toolpath.LINEAR, m)
		return
	case toolpath.ARC_CW, toolpath.ARC_CCW:
		pp.emitArc(b, state, m)
		return
	}
}

func (pp *PostProcessor) emitMove(b *strings.Builder, state *modalState, word string, mode toolpath.MotionType, m toolpath.Motion) {
	var parts []string
	if !state.haveMode || state.mode != mode {
		parts = append(parts, word)
		state.mode = mode
		state.haveMode = true
	}
	if m.X != nil && (!state.haveX || *m.X != state.x) {
		parts = append(parts, "X"+pp.format(*m.X))
		state.x, state.haveX = *m.X, true
	}
	if m.Y != nil && (!state.haveY || *m.Y != state.y) {
		parts = append(parts, "Y"+pp.format(*m.Y))
		state.y, state.haveY = *m.Y, true
	}
	if m.Z != nil && (!state.haveZ || *m.Z != state.z) {
		parts = append(parts, "Z"+pp.format(*m.Z))
		state.z, state.haveZ = *m.Z, true
	}
	if m.F != nil {
		feed := clamp(*m.F, 0, pp.Profile.MaxFeedRate)
		if !state.haveF || feed != state.f {
			parts = append(parts, "F"+pp.format(feed))
			state.f, state.haveF = feed, true
		}
	}
	if len(parts) == 0 {
		return
	}
	if m.Comment != "" {
		b.WriteString(strings.Join(parts, " ") + " " + pp.comment(m.Comment) + "\n")
		return
	}
	b.WriteString(strings.Join(parts, " ") + "\n")
}

// emitArc renders an ARC_CW/ARC_CCW motion in either IJ or R form.
func (pp *PostProcessor) emitArc(b *strings.Builder, state *modalState, m toolpath.Motion) {
	word := "G2"
	mode := toolpath.ARC_CW
	if m.Type == toolpath.ARC_CCW {
		word = "G3"
		mode = toolpath.ARC_CCW
	}

	var parts []string
	if !state.haveMode || state.mode != mode {
		parts = append(parts, word)
		state.mode = mode
		state.haveMode = true
	}
	if m.X != nil {
		parts = append(parts, "X"+pp.format(*m.X))
		state.x, state.haveX = *m.X, true
	}
	if m.Y != nil {
		parts = append(parts, "Y"+pp.format(*m.Y))
		state.y, state.haveY = *m.Y, true
	}
	if m.Z != nil && (!state.haveZ || *m.Z != state.z) {
		parts = append(parts, "Z"+pp.format(*m.Z))
		state.z, state.haveZ = *m.Z, true
	}

	if pp.Profile.ArcFormatR && m.I != nil && m.J != nil {
		radius := hypot(*m.I, *m.J)
		parts = append(parts, "R"+pp.format(radius))
	} else {
		if m.I != nil {
			parts = append(parts, "I"+pp.format(*m.I))
		}
		if m.J != nil {
			parts = append(parts, "J"+pp.format(*m.J))
		}
	}
	if m.F != nil {
		feed := clamp(*m.F, 0, pp.Profile.MaxFeedRate)
		if !state.haveF || feed != state.f {
			parts = append(parts, "F"+pp.format(feed))
			state.f, state.haveF = feed, true
		}
	}
	b.WriteString(strings.Join(parts, " ") + "\n")
}

func hypot(a, b float64) float64 {
	return math.Sqrt(a*a + b*b)
}
