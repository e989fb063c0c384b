package stype

import (
	"fmt"
	"strings"

	"github.com/YuminosukeSato/tabframe/pkg/errors"
)

// ColumnType pairs a column name with its semantic type.
type ColumnType struct {
	Name string
	Type Type
}

// ColumnTypeMap is an insertion-ordered mapping from column name to Type.
// Materialization iterates columns in this order, so it fixes the column
// order inside every stacked feature tensor.
type ColumnTypeMap struct {
	names []string
	types map[string]Type
}

// NewColumnTypeMap builds a map from pairs, in order. Duplicate names or
// invalid types are rejected.
func NewColumnTypeMap(pairs ...ColumnType) (*ColumnTypeMap, error) {
	m := &ColumnTypeMap{types: make(map[string]Type, len(pairs))}
	for _, p := range pairs {
		if _, dup := m.types[p.Name]; dup {
			return nil, errors.NewValidationError("columnTypeMap", "duplicate column name", p.Name)
		}
		if err := m.Set(p.Name, p.Type); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// MustColumnTypeMap is like NewColumnTypeMap but panics on error.
func MustColumnTypeMap(pairs ...ColumnType) *ColumnTypeMap {
	m, err := NewColumnTypeMap(pairs...)
	if err != nil {
		panic(err)
	}
	return m
}

// Set adds name with type t, or replaces the type of an existing name in place.
func (m *ColumnTypeMap) Set(name string, t Type) error {
	if name == "" {
		return errors.NewValidationError("columnTypeMap", "column name must not be empty", name)
	}
	if !t.IsValid() {
		return errors.NewValidationError("columnTypeMap", "semantic type must not be empty", t)
	}
	if m.types == nil {
		m.types = make(map[string]Type)
	}
	if _, ok := m.types[name]; !ok {
		m.names = append(m.names, name)
	}
	m.types[name] = t
	return nil
}

// Get returns the type of name.
func (m *ColumnTypeMap) Get(name string) (Type, bool) {
	if m == nil {
		return "", false
	}
	t, ok := m.types[name]
	return t, ok
}

// Has reports whether name is mapped.
func (m *ColumnTypeMap) Has(name string) bool {
	_, ok := m.Get(name)
	return ok
}

// Names returns the column names in insertion order.
func (m *ColumnTypeMap) Names() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.names...)
}

// Len returns the number of mapped columns.
func (m *ColumnTypeMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.names)
}

// Pairs returns the entries in insertion order.
func (m *ColumnTypeMap) Pairs() []ColumnType {
	out := make([]ColumnType, 0, m.Len())
	for _, n := range m.Names() {
		out = append(out, ColumnType{Name: n, Type: m.types[n]})
	}
	return out
}

// Project returns a new map restricted to names, in the order given.
func (m *ColumnTypeMap) Project(names []string) (*ColumnTypeMap, error) {
	out := &ColumnTypeMap{types: make(map[string]Type, len(names))}
	var missing []string
	for _, n := range names {
		t, ok := m.Get(n)
		if !ok {
			missing = append(missing, n)
			continue
		}
		if _, dup := out.types[n]; dup {
			return nil, errors.NewValueError("ColumnTypeMap.Project", fmt.Sprintf("column '%s' selected more than once", n))
		}
		out.names = append(out.names, n)
		out.types[n] = t
	}
	if len(missing) > 0 {
		return nil, errors.NewMissingColumnError(missing...)
	}
	return out, nil
}

// Clone returns an independent copy.
func (m *ColumnTypeMap) Clone() *ColumnTypeMap {
	out := &ColumnTypeMap{types: make(map[string]Type, m.Len())}
	for _, n := range m.Names() {
		out.names = append(out.names, n)
		out.types[n] = m.types[n]
	}
	return out
}

// Equal reports whether both maps hold the same entries in the same order.
func (m *ColumnTypeMap) Equal(other *ColumnTypeMap) bool {
	if m.Len() != other.Len() {
		return false
	}
	for i, n := range m.Names() {
		if other.names[i] != n || other.types[n] != m.types[n] {
			return false
		}
	}
	return true
}

// String renders the map as {name: type, ...}.
func (m *ColumnTypeMap) String() string {
	parts := make([]string, 0, m.Len())
	for _, p := range m.Pairs() {
		parts = append(parts, fmt.Sprintf("%s: %s", p.Name, p.Type))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
