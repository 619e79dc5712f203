package action

import (
	"fmt"
	"maps"
	"slices"
)

// Mapper holds named steps a service delegates to its aggregate.
// The service looks a step up by name when it runs, which lets the defaults be used in
// normal execution and a misbehaving version be swapped in while testing.
type Mapper struct {
	actions map[string]any
}

func (m *Mapper) Add(name string, fn any) *Mapper {
	if m.actions == nil {
		m.actions = make(map[string]any)
	}

	m.actions[name] = fn

	return m
}

func (m *Mapper) Get(name string) (any, error) {
	v, ok := m.actions[name]
	if !ok {
		return nil, fmt.Errorf("no action found for: %s", name)
	}

	return v, nil
}

// All returns the names of the stored actions, sorted.
func (m *Mapper) All() []string {
	return slices.Sorted(maps.Keys(m.actions))
}

// Lookup gets the named action and checks that it has the signature T.
func Lookup[T any](m *Mapper, name string) (T, error) {
	var zero T

	doer, err := m.Get(name)
	if err != nil {
		return zero, err
	}

	do, ok := doer.(T)
	if !ok {
		return zero, fmt.Errorf("action %s has signature %T, expected %T", name, doer, zero)
	}

	return do, nil
}
