package cam

import (
	"github.com/pcbcam/engine/internal/curvereg"
	"github.com/pcbcam/engine/internal/geom"
)

// Session is the process-scoped container for a CAM run: one Curve
// Registry (written once by artwork parsing, read-only for the rest of
// the session) shared by every Operation created
// within it. There are no other shared mutable resources between
// Operations, matching the single-threaded cooperative concurrency model.
type Session struct {
	Curves     *curvereg.Registry
	operations map[string]*Operation
}

// NewSession starts a fresh CAM session with an empty Curve Registry.
func NewSession() *Session {
	return &Session{Curves: curvereg.New(), operations: map[string]*Operation{}}
}

// RegisterCurve interns a curve record, returning its assigned ID. Called
// only by artwork parsing, before any Operation reads from the registry.
func (s *Session) RegisterCurve(c curvereg.Curve) int {
	return s.Curves.Register(c)
}

// AddOperation creates an Operation of the given type over primitives/
// holes and tracks it for the lifetime of the session.
func (s *Session) AddOperation(opType Type, primitives []geom.Primitive, holes []geom.Hole) (*Operation, error) {
	op, err := NewOperation(opType, primitives, holes)
	if err != nil {
		return nil, err
	}
	s.operations[op.ID] = op
	return op, nil
}

// Operation looks up a tracked Operation by ID.
func (s *Session) Operation(id string) (*Operation, bool) {
	op, ok := s.operations[id]
	return op, ok
}

// RemoveOperation destroys an Operation's tracked state. There is
// nothing further to release: offsets, preview
// and toolpath are plain Go values owned exclusively by the Operation and
// are collected once the last reference (this map entry) is dropped.
func (s *Session) RemoveOperation(id string) {
	delete(s.operations, id)
}

// Operations returns every tracked Operation, in no particular order.
func (s *Session) Operations() []*Operation {
	out := make([]*Operation, 0, len(s.operations))
	for _, op := range s.operations {
		out = append(out, op)
	}
	return out
}

// Reset clears the Curve Registry and drops every tracked Operation,
// matching curvereg.Registry.Clear's "start of a new CAM session" use.
func (s *Session) Reset() {
	s.Curves.Clear()
	s.operations = map[string]*Operation{}
}
