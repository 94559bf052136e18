package catalog

import (
	"fmt"
	"maps"
	"slices"
)

// ArtifactKind identifies a category of retrievable content per component.
type ArtifactKind string

const (
	// KindDemo is the documentation page carrying the component's demo snippets
	KindDemo ArtifactKind = "demo"

	// KindSource is the component's entry source file
	KindSource ArtifactKind = "source"
)

// String implements fmt.Stringer
func (k ArtifactKind) String() string {
	return string(k)
}

// Mapping is an immutable lookup from component identifier to a path relative
// to the component repository root. One mapping exists per artifact kind.
type Mapping struct {
	kind  ArtifactKind
	paths map[string]string
}

// NewMapping merges the given layers into a single mapping. Layers are applied
// in order, so an entry in a later layer shadows the same key in an earlier one.
// Blank paths are ignored.
func NewMapping(kind ArtifactKind, layers ...map[string]string) *Mapping {
	paths := make(map[string]string)
	for _, layer := range layers {
		for id, path := range layer {
			if id == "" || path == "" {
				continue
			}
			paths[id] = path
		}
	}
	return &Mapping{kind: kind, paths: paths}
}

// Kind returns the artifact kind served by this mapping
func (m *Mapping) Kind() ArtifactKind {
	return m.kind
}

// Resolve returns the repository path for a component. A missing entry is a
// normal outcome meaning the component is unknown to this artifact kind.
func (m *Mapping) Resolve(componentID string) (string, bool) {
	if m == nil {
		return "", false
	}
	path, ok := m.paths[componentID]
	return path, ok
}

// Components returns the mapped component identifiers in lexical order
func (m *Mapping) Components() []string {
	if m == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(m.paths))
}

// Len returns the number of mapped components
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.paths)
}

// Store holds one mapping per artifact kind.
type Store struct {
	mappings map[ArtifactKind]*Mapping
}

// Overrides carries extra mapping entries per artifact kind, typically from
// the configuration file. They are merged after the built-in tables.
type Overrides map[ArtifactKind]map[string]string

// NewStore builds the store from the built-in base and pro tables, with any
// overrides merged last.
func NewStore(overrides Overrides) *Store {
	return NewStoreFromMappings(
		NewMapping(KindDemo, baseDemoPaths, proDemoPaths, overrides[KindDemo]),
		NewMapping(KindSource, baseSourcePaths, proSourcePaths, overrides[KindSource]),
	)
}

// NewStoreFromMappings assembles a store from prebuilt mappings. A later
// mapping of the same kind replaces an earlier one.
func NewStoreFromMappings(mappings ...*Mapping) *Store {
	s := &Store{mappings: make(map[ArtifactKind]*Mapping, len(mappings))}
	for _, m := range mappings {
		if m != nil {
			s.mappings[m.kind] = m
		}
	}
	return s
}

// Mapping returns the mapping for a kind, or an error if the kind has none
func (s *Store) Mapping(kind ArtifactKind) (*Mapping, error) {
	m, ok := s.mappings[kind]
	if !ok {
		return nil, fmt.Errorf("no mapping registered for artifact kind %q", kind)
	}
	return m, nil
}

// ResolvePath resolves a component path for the given artifact kind
func (s *Store) ResolvePath(kind ArtifactKind, componentID string) (string, bool) {
	return s.mappings[kind].Resolve(componentID)
}

// Components returns the union of component identifiers over all kinds, sorted
func (s *Store) Components() []string {
	seen := make(map[string]struct{})
	for _, m := range s.mappings {
		for id := range m.paths {
			seen[id] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}
