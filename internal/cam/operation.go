// Package cam is the Operation lifecycle layer that wires the other
// packages into one pipeline: curve registration and arc reconstruction
// feed the offset engine, whose per-pass groups feed the toolpath
// calculator, whose plan feeds the post-processor. It is a thin
// orchestrator over the lower packages, holding no geometry algorithms
// of its own.
package cam

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pcbcam/engine/internal/arcrecon"
	"github.com/pcbcam/engine/internal/camerr"
	"github.com/pcbcam/engine/internal/curvereg"
	"github.com/pcbcam/engine/internal/gcode"
	"github.com/pcbcam/engine/internal/geom"
	"github.com/pcbcam/engine/internal/offset"
	"github.com/pcbcam/engine/internal/params"
	"github.com/pcbcam/engine/internal/toolpath"
)

// Type is one of the four CAM operation kinds.
type Type string

const (
	TypeIsolation Type = "isolation"
	TypeClear     Type = "clear"
	TypeDrill     Type = "drill"
	TypeCutout    Type = "cutout"
)

func (t Type) valid() bool {
	switch t {
	case TypeIsolation, TypeClear, TypeDrill, TypeCutout:
		return true
	default:
		return false
	}
}

// OffsetGroup is one pass's worth of offset primitives plus its pass
// metadata.
type OffsetGroup struct {
	Primitives   []geom.Primitive
	ToolDiameter float64
	PassIndex    int
	Distance     float64
}

// Operation is a unit of CAM work: source
// primitives/holes, a live Parameter Manager, and the derived fields each
// pipeline stage fills in. It is created when a source file is linked to
// an operation type, mutated by parameter edits and each pipeline stage,
// and simply dropped by its owning Session when removed. There is no
// persisted operation state, matching the explicit Non-goal on tool
// library persistence / session management.
type Operation struct {
	ID   string
	Type Type

	SourcePrimitives []geom.Primitive
	SourceHoles      []geom.Hole

	Params *params.Manager

	// Derived fields, recomputed on demand by the pipeline stages below.
	Reconstructed []geom.Primitive
	Offsets       []OffsetGroup
	Toolpath      *toolpath.ToolpathPlan
	Warnings      []camerr.Warning
}

// NewOperation mints an Operation with a fresh short ID and a Parameter
// Manager seeded with opType's defaults.
func NewOperation(opType Type, primitives []geom.Primitive, holes []geom.Hole) (*Operation, error) {
	if !opType.valid() {
		return nil, fmt.Errorf("cam: %w: unknown operation type %q", camerr.ErrInvalidInput, opType)
	}
	return &Operation{
		ID:               uuid.New().String()[:8],
		Type:             opType,
		SourcePrimitives: primitives,
		SourceHoles:      holes,
		Params:           params.NewManager(string(opType)),
	}, nil
}

// SetParam validates, clamps and commits a single setting.
func (op *Operation) SetParam(key string, value any) error {
	return op.Params.Set(key, value)
}

// requireSettings fails fast with ErrConfigurationMissing when an
// Operation has no Parameter Manager or a geometry-critical value is
// unset.
func (op *Operation) requireSettings() error {
	if op.Params == nil {
		return fmt.Errorf("cam: %w: operation %s has no settings", camerr.ErrConfigurationMissing, op.ID)
	}
	if op.Type != TypeDrill {
		if d, ok := op.Params.Get("toolDiameter").(float64); !ok || d <= 0 {
			return fmt.Errorf("cam: %w: operation %s missing toolDiameter", camerr.ErrConfigurationMissing, op.ID)
		}
	}
	return nil
}

func getFloat(m *params.Manager, key string, def float64) float64 {
	if v, ok := m.Get(key).(float64); ok {
		return v
	}
	return def
}

func getBool(m *params.Manager, key string, def bool) bool {
	if v, ok := m.Get(key).(bool); ok {
		return v
	}
	return def
}

func getString(m *params.Manager, key string, def string) string {
	if v, ok := m.Get(key).(string); ok && v != "" {
		return v
	}
	return def
}

// GenerateOffsets runs curve registration and arc reconstruction over the
// source primitives (using reg as the sidecar Curve Registry), then builds
// one OffsetGroup per pass by offsetting every reconstructed primitive at
// that pass's signed distance. Suspension points fall between primitives
// (checked via ctx).
func (op *Operation) GenerateOffsets(ctx context.Context, reg *curvereg.Registry, progress toolpath.Progress) error {
	if err := op.requireSettings(); err != nil {
		return err
	}
	if op.Type == TypeDrill && !getBool(op.Params, "millHoles", false) {
		// Pecking-mode drill operations never offset; they cut directly
		// from hole positions in GenerateToolpath.
		op.Reconstructed = nil
		op.Offsets = nil
		return nil
	}

	op.Warnings = nil
	op.Reconstructed = make([]geom.Primitive, 0, len(op.SourcePrimitives))
	for i, prim := range op.SourcePrimitives {
		if err := ctxCancelled(ctx); err != nil {
			return err
		}
		if prim.Kind != geom.KindPath {
			op.Reconstructed = append(op.Reconstructed, prim)
			continue
		}
		rec, warns := arcrecon.Reconstruct(prim, reg)
		for _, w := range warns {
			if w.PrimitiveIndex < 0 {
				w.PrimitiveIndex = i
			}
			op.Warnings = append(op.Warnings, w)
		}
		op.Reconstructed = append(op.Reconstructed, rec)
	}

	toolDiameter := getFloat(op.Params, "toolDiameter", 1.0)
	passes := int(getFloat(op.Params, "passes", 1))
	if passes < 1 {
		passes = 1
	}
	stepOver := getFloat(op.Params, "stepOver", 0.4)
	combine := getBool(op.Params, "combineOffsets", false)

	opts := offset.DefaultOptions()

	groups := make([]OffsetGroup, 0, passes)
	for pass := 0; pass < passes; pass++ {
		if err := ctxCancelled(ctx); err != nil {
			return err
		}
		distance := op.passDistance(pass, toolDiameter, stepOver)
		group := OffsetGroup{ToolDiameter: toolDiameter, PassIndex: pass, Distance: distance}

		for i, prim := range op.Reconstructed {
			if err := ctxCancelled(ctx); err != nil {
				return err
			}
			if distance == 0 {
				group.Primitives = append(group.Primitives, prim)
				continue
			}
			out, warns := offset.Offset(prim, distance, opts)
			for _, w := range warns {
				if w.PrimitiveIndex < 0 {
					w.PrimitiveIndex = i
				}
				op.Warnings = append(op.Warnings, w)
			}
			if out != nil {
				group.Primitives = append(group.Primitives, *out)
			}
		}

		if combine && len(group.Primitives) > 1 {
			fused, warns := fuseGroup(group.Primitives)
			op.Warnings = append(op.Warnings, warns...)
			if fused != nil {
				group.Primitives = fused
			}
		}

		groups = append(groups, group)
		if progress != nil {
			progress("offsets", pass+1, passes)
		}
	}

	op.Offsets = groups
	return nil
}

// passDistance computes the signed offset distance for a given pass index,
// per the operation type's cutting convention:
//   - isolation/clear: mills just inside the given boundary by a half
//     tool width on the first pass, then by a further stepOver*toolDiameter
//     per subsequent pass, keeping the tool fully within the copper region
//     being isolated/cleared.
//   - cutout: a single signed distance selected by the cutSide setting
//     (outside/inside/on-line), repeated per pass growing further outward
//     or inward from the first pass the same way isolation does.
//   - drill (mill-holes mode): unused, PlanDrill ignores Offsets.
func (op *Operation) passDistance(pass int, toolDiameter, stepOver float64) float64 {
	step := stepOver * toolDiameter
	base := toolDiameter / 2
	switch op.Type {
	case TypeCutout:
		side := getString(op.Params, "cutSide", "outside")
		sign := 1.0
		switch side {
		case "inside":
			sign = -1.0
		case "on-line":
			return 0
		}
		return sign * (base + step*float64(pass))
	default: // isolation, clear, drill(mill)
		return -(base + step*float64(pass))
	}
}

// GenerateToolpath builds the toolpath-relevant Settings from the
// Operation's Parameter Manager and runs the appropriate Calculator
// strategy for its Type.
func (op *Operation) GenerateToolpath(ctx context.Context, progress toolpath.Progress) error {
	if err := op.requireSettings(); err != nil {
		return err
	}

	settings := op.toolpathSettings()
	calc := toolpath.New(settings)

	var plan *toolpath.ToolpathPlan
	var warnings []camerr.Warning
	var err error

	switch op.Type {
	case TypeDrill:
		plan, warnings, err = calc.PlanDrill(ctx, op.ID, op.SourceHoles, op.slotPrimitives(), progress)
	case TypeCutout:
		plan, warnings, err = calc.PlanCutout(ctx, op.ID, op.offsetPrimitiveGroups(), progress)
	default: // isolation, clear
		plan, warnings, err = calc.PlanIsolation(ctx, op.ID, op.offsetPrimitiveGroups(), progress)
	}
	if err != nil {
		return fmt.Errorf("cam: operation %s: %w", op.ID, err)
	}

	op.Toolpath = plan
	op.Warnings = append(op.Warnings, warnings...)
	return nil
}

// slotPrimitives returns the obround slots among a drill operation's
// source primitives; drill files describe slots as obrounds and they can
// only be cut by helical milling.
func (op *Operation) slotPrimitives() []geom.Primitive {
	var slots []geom.Primitive
	for _, p := range op.SourcePrimitives {
		if p.Kind == geom.KindObround {
			slots = append(slots, p)
		}
	}
	return slots
}

func (op *Operation) offsetPrimitiveGroups() [][]geom.Primitive {
	groups := make([][]geom.Primitive, len(op.Offsets))
	for i, g := range op.Offsets {
		groups[i] = g.Primitives
	}
	return groups
}

func (op *Operation) toolpathSettings() toolpath.Settings {
	m := op.Params
	s := toolpath.DefaultSettings()
	s.ToolDiameter = getFloat(m, "toolDiameter", s.ToolDiameter)
	s.MillHoles = getBool(m, "millHoles", false)
	s.CutDepth = getFloat(m, "cutDepth", s.CutDepth)
	s.DepthPerPass = getFloat(m, "depthPerPass", s.DepthPerPass)
	s.MultiDepth = getBool(m, "multiDepth", s.MultiDepth)

	// direction selects contour traversal winding directly: "clockwise"
	// is conventional milling, "counter-
	// clockwise" is climb milling of an external contour.
	s.UseClimb = getString(m, "direction", "clockwise") == "counter-clockwise"

	switch getString(m, "entryType", "plunge") {
	case "ramp":
		s.EntryType = toolpath.EntryRamp
	case "helix":
		s.EntryType = toolpath.EntryHelix
	default:
		s.EntryType = toolpath.EntryPlunge
	}

	switch getString(m, "cannedCycle", "none") {
	case "drill":
		s.CannedCycle = toolpath.CannedDrill
	case "peck":
		s.CannedCycle = toolpath.CannedPeck
	default:
		s.CannedCycle = toolpath.CannedNone
	}

	s.PeckDepth = getFloat(m, "peckDepth", s.PeckDepth)
	s.DwellTime = getFloat(m, "dwellTime", s.DwellTime)
	s.Tabs = int(getFloat(m, "tabs", 0))
	s.TabWidth = getFloat(m, "tabWidth", 3.0)
	s.TabHeight = getFloat(m, "tabHeight", 0.4)

	s.RetractHeight = getFloat(m, "retractHeight", s.RetractHeight)

	s.FeedRate = getFloat(m, "feedRate", s.FeedRate)
	s.PlungeRate = getFloat(m, "plungeRate", s.PlungeRate)
	s.SafeZ = getFloat(m, "safeZ", s.SafeZ)
	s.TravelZ = getFloat(m, "travelZ", s.TravelZ)
	return s
}

// GenerateGCode runs the Post-processor over the Operation's Toolpath,
// selecting the dialect profile and machine parameters named in its
// settings. Returns ErrConfigurationMissing if no plan exists.
func (op *Operation) GenerateGCode() (string, error) {
	if op.Toolpath == nil {
		return "", fmt.Errorf("cam: %w: operation %s has no toolpath", camerr.ErrConfigurationMissing, op.ID)
	}
	m := op.Params
	profile := gcode.GetProfile(getString(m, "postProcessor", "Generic"))
	pp := gcode.New(profile)
	pp.SpindleSpeed = getFloat(m, "spindleSpeed", 12000)
	pp.SafeZ = getFloat(m, "safeZ", 5.0)
	pp.WorkOffset = getString(m, "workOffset", "")
	pp.ToolID = getString(m, "tool", "")
	pp.UserStartCode = getString(m, "startCode", "")
	pp.UserEndCode = getString(m, "endCode", "")
	return pp.Generate(op.Toolpath), nil
}

func ctxCancelled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("cam: %w: %v", camerr.ErrCancelled, err)
	}
	return nil
}
