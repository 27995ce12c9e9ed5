// Package stack implements the Named Multi-Stack: a mapping from variable
// name to a LIFO stack of numeric.Value entries.
package stack

import (
	"github.com/pkg/errors"

	"github.com/smscr/smscrd/numeric"
)

// ErrEmpty is returned by Pop/Peek when the named stack has no entries.
var ErrEmpty = errors.New("stack: empty")

// Multi is a mapping from variable name to a stack of numeric.Value.
// Insertion order of names is irrelevant; per-name order is strict LIFO.
type Multi struct {
	byName map[string][]numeric.Value
}

// New constructs an empty Named Multi-Stack.
func New() *Multi {
	return &Multi{byName: make(map[string][]numeric.Value)}
}

// Push appends v to the stack named by name.
func (m *Multi) Push(name string, v numeric.Value) {
	m.byName[name] = append(m.byName[name], v)
}

// Pop removes and returns the top of the stack named by name.
// Fails with ErrEmpty if the name is absent or its stack is empty.
func (m *Multi) Pop(name string) (numeric.Value, error) {
	s := m.byName[name]
	if len(s) == 0 {
		return numeric.Value{}, errors.Wrapf(ErrEmpty, "pop %q", name)
	}
	top := s[len(s)-1]
	m.byName[name] = s[:len(s)-1]
	return top, nil
}

// Peek returns the top of the stack named by name without removing it.
// Fails with ErrEmpty if the name is absent or its stack is empty.
func (m *Multi) Peek(name string) (numeric.Value, error) {
	s := m.byName[name]
	if len(s) == 0 {
		return numeric.Value{}, errors.Wrapf(ErrEmpty, "peek %q", name)
	}
	return s[len(s)-1], nil
}

// IsEmpty reports whether the stack named by name is absent or has no entries.
func (m *Multi) IsEmpty(name string) bool {
	return len(m.byName[name]) == 0
}

// Depth returns the current number of entries in the stack named by name,
// or 0 if the name is absent.
func (m *Multi) Depth(name string) int {
	return len(m.byName[name])
}
