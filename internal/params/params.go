// Package params is the per-operation parameter manager: a keyed settings
// store organised into geometry, strategy and machine stages, with
// validation, clamping, dirty-tracking and change events.
package params

import "fmt"

// Stage groups a parameter by which part of the CAM pipeline consumes it.
type Stage int

const (
	StageGeometry Stage = iota
	StageStrategy
	StageMachine
)

func (s Stage) String() string {
	switch s {
	case StageGeometry:
		return "geometry"
	case StageStrategy:
		return "strategy"
	case StageMachine:
		return "machine"
	default:
		return "unknown"
	}
}

// Type is the UI/value kind of a parameter.
type Type int

const (
	TypeNumber Type = iota
	TypeCheckbox
	TypeSelect
	TypeTextarea
	TypeToolRef
)

// Condition gates a parameter's visibility/use on another parameter's
// current value: either an exact match on Equals, or (when NonZero is
// set) any non-zero numeric value of the gating parameter.
type Condition struct {
	Key     string
	Equals  any
	NonZero bool
}

// Def describes one parameter: its type, stage/category, numeric bounds
// and default, an optional operation-type filter, and an optional
// conditional-display gate.
type Def struct {
	Key            string
	Label          string
	Type           Type
	Stage          Stage
	Category       string
	Min, Max, Step *float64
	Default        any
	Options        []string // for TypeSelect
	OperationType  string   // empty = applies to all operation types
	Conditional    *Condition
}

func numPtr(v float64) *float64 { return &v }

// Definitions enumerates every recognised operation parameter.
var Definitions = []Def{
	// geometry
	{Key: "tool", Label: "Tool", Type: TypeToolRef, Stage: StageGeometry, Category: "tool"},
	{Key: "toolDiameter", Label: "Tool diameter", Type: TypeNumber, Stage: StageGeometry, Category: "tool", Min: numPtr(0.05), Max: numPtr(12.7), Step: numPtr(0.05), Default: 1.0},
	{Key: "passes", Label: "Passes", Type: TypeNumber, Stage: StageGeometry, Category: "offsets", Min: numPtr(1), Max: numPtr(20), Step: numPtr(1), Default: 1.0},
	{Key: "stepOver", Label: "Step-over", Type: TypeNumber, Stage: StageGeometry, Category: "offsets", Min: numPtr(0.05), Max: numPtr(1.0), Step: numPtr(0.05), Default: 0.4},
	{Key: "combineOffsets", Label: "Combine offsets", Type: TypeCheckbox, Stage: StageGeometry, Category: "offsets", Default: false},
	{Key: "millHoles", Label: "Mill holes", Type: TypeCheckbox, Stage: StageGeometry, Category: "drill", OperationType: "drill", Default: false},
	{Key: "cutSide", Label: "Cut side", Type: TypeSelect, Stage: StageGeometry, Category: "cutout", OperationType: "cutout", Options: []string{"outside", "inside", "on-line"}, Default: "outside"},

	// strategy
	{Key: "cutDepth", Label: "Cut depth", Type: TypeNumber, Stage: StageStrategy, Category: "depth", Min: numPtr(-50), Max: numPtr(0), Step: numPtr(0.1), Default: -1.6},
	{Key: "depthPerPass", Label: "Depth per pass", Type: TypeNumber, Stage: StageStrategy, Category: "depth", Min: numPtr(0.05), Max: numPtr(10), Step: numPtr(0.05), Default: 0.4},
	{Key: "multiDepth", Label: "Multiple depth passes", Type: TypeCheckbox, Stage: StageStrategy, Category: "depth", Default: true},
	{Key: "direction", Label: "Direction", Type: TypeSelect, Stage: StageStrategy, Category: "motion", Options: []string{"clockwise", "counter-clockwise"}, Default: "clockwise"},
	{Key: "entryType", Label: "Entry strategy", Type: TypeSelect, Stage: StageStrategy, Category: "motion", Options: []string{"plunge", "ramp", "helix"}, Default: "plunge"},
	{Key: "cannedCycle", Label: "Canned cycle", Type: TypeSelect, Stage: StageStrategy, Category: "drill", OperationType: "drill", Options: []string{"none", "drill", "peck"}, Default: "none"},
	{Key: "peckDepth", Label: "Peck depth", Type: TypeNumber, Stage: StageStrategy, Category: "drill", OperationType: "drill", Min: numPtr(0.05), Max: numPtr(10), Step: numPtr(0.05), Default: 0.5,
		Conditional: &Condition{Key: "cannedCycle", Equals: "peck"}},
	{Key: "dwellTime", Label: "Dwell time", Type: TypeNumber, Stage: StageStrategy, Category: "drill", OperationType: "drill", Min: numPtr(0), Max: numPtr(5), Step: numPtr(0.05), Default: 0.0},
	{Key: "retractHeight", Label: "Retract height", Type: TypeNumber, Stage: StageStrategy, Category: "drill", Min: numPtr(0.1), Max: numPtr(20), Step: numPtr(0.1), Default: 0.5},
	{Key: "tabs", Label: "Tab count", Type: TypeNumber, Stage: StageStrategy, Category: "tabs", OperationType: "cutout", Min: numPtr(0), Max: numPtr(12), Step: numPtr(1), Default: 0.0},
	{Key: "tabWidth", Label: "Tab width", Type: TypeNumber, Stage: StageStrategy, Category: "tabs", OperationType: "cutout", Min: numPtr(0.5), Max: numPtr(10), Step: numPtr(0.1), Default: 3.0,
		Conditional: &Condition{Key: "tabs", NonZero: true}},
	{Key: "tabHeight", Label: "Tab height", Type: TypeNumber, Stage: StageStrategy, Category: "tabs", OperationType: "cutout", Min: numPtr(0.1), Max: numPtr(5), Step: numPtr(0.05), Default: 0.4,
		Conditional: &Condition{Key: "tabs", NonZero: true}},

	// machine
	{Key: "feedRate", Label: "Feed rate", Type: TypeNumber, Stage: StageMachine, Category: "speeds", Min: numPtr(10), Max: numPtr(20000), Step: numPtr(10), Default: 800.0},
	{Key: "plungeRate", Label: "Plunge rate", Type: TypeNumber, Stage: StageMachine, Category: "speeds", Min: numPtr(10), Max: numPtr(10000), Step: numPtr(10), Default: 300.0},
	{Key: "spindleSpeed", Label: "Spindle speed", Type: TypeNumber, Stage: StageMachine, Category: "speeds", Min: numPtr(1000), Max: numPtr(60000), Step: numPtr(100), Default: 12000.0},
	{Key: "safeZ", Label: "Safe Z", Type: TypeNumber, Stage: StageMachine, Category: "heights", Min: numPtr(0.5), Max: numPtr(50), Step: numPtr(0.5), Default: 5.0},
	{Key: "travelZ", Label: "Travel Z", Type: TypeNumber, Stage: StageMachine, Category: "heights", Min: numPtr(0.5), Max: numPtr(50), Step: numPtr(0.5), Default: 3.0},
	{Key: "postProcessor", Label: "Post-processor", Type: TypeSelect, Stage: StageMachine, Category: "output", Options: []string{"Grbl", "Mach3", "LinuxCNC", "Generic"}, Default: "Grbl"},
	{Key: "workOffset", Label: "Work offset", Type: TypeSelect, Stage: StageMachine, Category: "output", Options: []string{"G54", "G55", "G56", "G57", "G58", "G59"}, Default: "G54"},
	{Key: "startCode", Label: "Start code", Type: TypeTextarea, Stage: StageMachine, Category: "output", Default: ""},
	{Key: "endCode", Label: "End code", Type: TypeTextarea, Stage: StageMachine, Category: "output", Default: ""},
}

// ForOperationType returns the definitions applicable to an operation
// type: those with no OperationType filter, plus those matching opType.
func ForOperationType(opType string) []Def {
	var out []Def
	for _, d := range Definitions {
		if d.OperationType == "" || d.OperationType == opType {
			out = append(out, d)
		}
	}
	return out
}

func defByKey(key string) (Def, bool) {
	for _, d := range Definitions {
		if d.Key == key {
			return d, true
		}
	}
	return Def{}, false
}

// ChangeEvent is fired after a successful Set, reporting whatever
// clamping occurred.
type ChangeEvent struct {
	Key      string
	OldValue any
	NewValue any
	Stage    Stage
	Clamped  bool
}

// Manager is a single operation's live parameter store.
type Manager struct {
	OperationType string
	values        map[string]any
	dirty         map[Stage]bool
	listeners     []func(ChangeEvent)
}

// NewManager seeds a Manager with every applicable parameter's default.
func NewManager(operationType string) *Manager {
	m := &Manager{
		OperationType: operationType,
		values:        map[string]any{},
		dirty:         map[Stage]bool{},
	}
	for _, d := range ForOperationType(operationType) {
		m.values[d.Key] = d.Default
	}
	return m
}

// OnChange registers a listener invoked on every successful Set.
func (m *Manager) OnChange(fn func(ChangeEvent)) {
	m.listeners = append(m.listeners, fn)
}

// Get returns the current value of key, or nil if unset.
func (m *Manager) Get(key string) any {
	return m.values[key]
}

// Set validates and (if numeric and out of range) clamps value, marks the
// owning stage dirty, and fires a change event.
func (m *Manager) Set(key string, value any) error {
	def, ok := defByKey(key)
	if !ok {
		return fmt.Errorf("params: unknown parameter %q", key)
	}
	if def.OperationType != "" && def.OperationType != m.OperationType {
		return fmt.Errorf("params: parameter %q does not apply to operation type %q", key, m.OperationType)
	}

	old := m.values[key]
	clamped := false

	if def.Type == TypeNumber {
		fv, ok := toFloat(value)
		if !ok {
			return fmt.Errorf("params: parameter %q requires a numeric value, got %T", key, value)
		}
		if def.Min != nil && fv < *def.Min {
			fv = *def.Min
			clamped = true
		}
		if def.Max != nil && fv > *def.Max {
			fv = *def.Max
			clamped = true
		}
		value = fv
	}

	m.values[key] = value
	m.dirty[def.Stage] = true

	event := ChangeEvent{Key: key, OldValue: old, NewValue: value, Stage: def.Stage, Clamped: clamped}
	for _, fn := range m.listeners {
		fn(event)
	}
	return nil
}

// IsApplicable reports whether key is currently in use for this
// operation: it must apply to the operation type and, if it carries a
// Conditional, its gating parameter must hold the required value.
func (m *Manager) IsApplicable(key string) bool {
	def, ok := defByKey(key)
	if !ok {
		return false
	}
	if def.OperationType != "" && def.OperationType != m.OperationType {
		return false
	}
	c := def.Conditional
	if c == nil {
		return true
	}
	gate := m.values[c.Key]
	if c.NonZero {
		fv, ok := toFloat(gate)
		return ok && fv != 0
	}
	return gate == c.Equals
}

// IsDirty reports whether stage has unsaved changes since the last Commit.
func (m *Manager) IsDirty(stage Stage) bool {
	return m.dirty[stage]
}

// Commit returns the manager's full value map for writing back into an
// Operation's settings, and clears all dirty flags.
func (m *Manager) Commit() map[string]any {
	out := make(map[string]any, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	m.dirty = map[Stage]bool{}
	return out
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}
