// Package motionstream implements the JSON motion-command stream format:
// encoding and decoding a ToolpathPlan so it can
// cross a process or host-application boundary independent of any
// particular G-code dialect.
package motionstream

import (
	"encoding/json"
	"fmt"

	"github.com/pcbcam/engine/internal/toolpath"
)

// Encode serializes a ToolpathPlan to its JSON wire form.
func Encode(plan *toolpath.ToolpathPlan) ([]byte, error) {
	data, err := json.Marshal(plan)
	if err != nil {
		return nil, fmt.Errorf("motionstream: encode: %w", err)
	}
	return data, nil
}

// EncodeIndent serializes a ToolpathPlan with indentation, for
// human-readable output (CLI dumps, debugging).
func EncodeIndent(plan *toolpath.ToolpathPlan) ([]byte, error) {
	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("motionstream: encode: %w", err)
	}
	return data, nil
}

// Decode parses a JSON motion-command stream back into a ToolpathPlan.
func Decode(data []byte) (*toolpath.ToolpathPlan, error) {
	var plan toolpath.ToolpathPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("motionstream: decode: %w", err)
	}
	return &plan, nil
}
