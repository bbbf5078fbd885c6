package motionstream

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcbcam/engine/internal/geom"
	"github.com/pcbcam/engine/internal/toolpath"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	s := toolpath.DefaultSettings()
	s.MultiDepth = false
	calc := toolpath.New(s)

	rect := geom.Primitive{
		Kind:   geom.KindPath,
		Closed: true,
		Vertices: []geom.Vertex{
			{Point: geom.Point{X: 0, Y: 0}},
			{Point: geom.Point{X: 10, Y: 0}},
			{Point: geom.Point{X: 10, Y: 10}},
			{Point: geom.Point{X: 0, Y: 10}},
		},
	}

	plan, warnings, err := calc.PlanIsolation(context.Background(), "op-encode", [][]geom.Primitive{{rect}}, nil)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	data, err := Encode(plan)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"RAPID"`)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, plan.OperationID, decoded.OperationID)
	require.Len(t, decoded.Motions, len(plan.Motions))
	for i := range plan.Motions {
		assert.Equal(t, plan.Motions[i].Type, decoded.Motions[i].Type)
	}
}

func TestDecodeInvalidType(t *testing.T) {
	_, err := Decode([]byte(`{"motions":[{"type":"NOT_A_TYPE"}]}`))
	require.Error(t, err)
}
