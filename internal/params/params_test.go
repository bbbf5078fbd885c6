package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManagerSeedsDefaults(t *testing.T) {
	m := NewManager("cutout")
	assert.Equal(t, 1.0, m.Get("toolDiameter"))
	assert.Equal(t, "outside", m.Get("cutSide"))
	// drill-only parameter should not be seeded for a cutout operation.
	assert.Nil(t, m.Get("millHoles"))
}

func TestForOperationTypeFiltersOperationSpecific(t *testing.T) {
	drillDefs := ForOperationType("drill")
	found := false
	for _, d := range drillDefs {
		if d.Key == "cutSide" {
			found = true
		}
	}
	assert.False(t, found, "cutout-only parameter should not apply to drill operations")
}

func TestSetClampsOutOfRangeNumeric(t *testing.T) {
	m := NewManager("isolation")
	err := m.Set("toolDiameter", 50.0)
	require.NoError(t, err)
	assert.Equal(t, 12.7, m.Get("toolDiameter"))
}

func TestSetRejectsUnknownKey(t *testing.T) {
	m := NewManager("isolation")
	err := m.Set("bogus", 1.0)
	assert.Error(t, err)
}

func TestSetRejectsParameterForWrongOperationType(t *testing.T) {
	m := NewManager("isolation")
	err := m.Set("tabs", 2.0)
	assert.Error(t, err)
}

func TestSetRejectsNonNumericForNumberType(t *testing.T) {
	m := NewManager("isolation")
	err := m.Set("toolDiameter", "wide")
	assert.Error(t, err)
}

func TestSetMarksStageDirtyAndFiresEvent(t *testing.T) {
	m := NewManager("isolation")
	var events []ChangeEvent
	m.OnChange(func(e ChangeEvent) { events = append(events, e) })

	require.NoError(t, m.Set("cutDepth", -2.0))
	assert.True(t, m.IsDirty(StageStrategy))
	assert.False(t, m.IsDirty(StageMachine))
	require.Len(t, events, 1)
	assert.Equal(t, "cutDepth", events[0].Key)
	assert.False(t, events[0].Clamped)
}

func TestCommitClearsDirtyAndReturnsSnapshot(t *testing.T) {
	m := NewManager("isolation")
	require.NoError(t, m.Set("feedRate", 500.0))
	require.True(t, m.IsDirty(StageMachine))

	snapshot := m.Commit()
	assert.Equal(t, 500.0, snapshot["feedRate"])
	assert.False(t, m.IsDirty(StageMachine))
}

func TestIsApplicableEvaluatesConditionals(t *testing.T) {
	m := NewManager("cutout")
	assert.False(t, m.IsApplicable("tabWidth"), "tabWidth is gated on a non-zero tab count")

	require.NoError(t, m.Set("tabs", 2.0))
	assert.True(t, m.IsApplicable("tabWidth"))

	drill := NewManager("drill")
	assert.False(t, drill.IsApplicable("peckDepth"))
	require.NoError(t, drill.Set("cannedCycle", "peck"))
	assert.True(t, drill.IsApplicable("peckDepth"))

	assert.False(t, drill.IsApplicable("cutSide"), "cutout-only parameter")
	assert.False(t, drill.IsApplicable("bogus"))
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "geometry", StageGeometry.String())
	assert.Equal(t, "strategy", StageStrategy.String())
	assert.Equal(t, "machine", StageMachine.String())
}
