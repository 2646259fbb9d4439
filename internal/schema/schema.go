// Package schema holds the immutable description of a relational database:
// schemas and the tables, views, functions, enums and composite types they
// contain.
//
// A Database is assembled once with a Builder and never modified afterwards,
// so every accessor is safe for concurrent use without locking.
package schema

import (
	"maps"
	"slices"
)

// Schema is one named namespace.
type Schema struct {
	name       string
	tables     map[string]*Table
	views      map[string]*View
	functions  map[string]*Function
	enums      map[string]*Enum
	composites map[string]*CompositeType
}

func newSchema(name string) *Schema {
	return &Schema{
		name:       name,
		tables:     make(map[string]*Table),
		views:      make(map[string]*View),
		functions:  make(map[string]*Function),
		enums:      make(map[string]*Enum),
		composites: make(map[string]*CompositeType),
	}
}

func (s *Schema) Name() string { return s.name }

func (s *Schema) Table(name string) (*Table, bool) {
	t, ok := s.tables[name]
	return t, ok
}

func (s *Schema) View(name string) (*View, bool) {
	v, ok := s.views[name]
	return v, ok
}

// Relation returns the table or view with the given name.
func (s *Schema) Relation(name string) (Relation, bool) {
	if t, ok := s.tables[name]; ok {
		return t, true
	}
	if v, ok := s.views[name]; ok {
		return v, true
	}
	return nil, false
}

func (s *Schema) Function(name string) (*Function, bool) {
	f, ok := s.functions[name]
	return f, ok
}

func (s *Schema) Enum(name string) (*Enum, bool) {
	e, ok := s.enums[name]
	return e, ok
}

func (s *Schema) CompositeType(name string) (*CompositeType, bool) {
	c, ok := s.composites[name]
	return c, ok
}

// Sorted name listings.

func (s *Schema) TableNames() []string         { return sortedKeys(s.tables) }
func (s *Schema) ViewNames() []string          { return sortedKeys(s.views) }
func (s *Schema) FunctionNames() []string      { return sortedKeys(s.functions) }
func (s *Schema) EnumNames() []string          { return sortedKeys(s.enums) }
func (s *Schema) CompositeTypeNames() []string { return sortedKeys(s.composites) }

// Database is the full description: every schema by name.
type Database struct {
	schemas map[string]*Schema
}

func (d *Database) Schema(name string) (*Schema, bool) {
	s, ok := d.schemas[name]
	return s, ok
}

// SchemaNames returns the schema names in sorted order.
func (d *Database) SchemaNames() []string { return sortedKeys(d.schemas) }

func sortedKeys[V any](m map[string]V) []string {
	keys := slices.Collect(maps.Keys(m))
	slices.Sort(keys)
	if keys == nil {
		keys = []string{}
	}
	return keys
}
