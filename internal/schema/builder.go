package schema

import (
	"github.com/koustreak/schemareg/internal/errs"
)

// Builder assembles a Database using a fluent API.
// Not safe for concurrent use; use it only during initialization.
//
// Example:
//
//	db, err := schema.NewBuilder().
//	    Schema("public").
//	        Table(schema.NewTable("continents", cols)).
//	        View(schema.NewView("user_statistics", viewCols)).
//	    Schema("graphql_public").
//	        Function(schema.NewFunction("graphql", args, schema.Scalar(schema.JSON))).
//	    Build()
type Builder struct {
	schemas []*SchemaBuilder
	built   bool
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Schema starts a new schema. Names must be non-empty and unique.
func (b *Builder) Schema(name string) *SchemaBuilder {
	sb := &SchemaBuilder{parent: b, name: name}
	b.schemas = append(b.schemas, sb)
	return sb
}

// Build finalizes the database. It can be called only once and fails with
// an invalid-input error on empty or duplicate names.
func (b *Builder) Build() (*Database, error) {
	if b.built {
		return nil, errs.New(errs.ErrKindInvalidInput, "database already built")
	}

	db := &Database{schemas: make(map[string]*Schema, len(b.schemas))}
	for _, sb := range b.schemas {
		if sb.name == "" {
			return nil, errs.New(errs.ErrKindInvalidInput, "schema name cannot be empty")
		}
		if _, dup := db.schemas[sb.name]; dup {
			return nil, errs.Newf(errs.ErrKindInvalidInput, "duplicate schema name: %s", sb.name)
		}
		s, err := sb.build()
		if err != nil {
			return nil, err
		}
		db.schemas[sb.name] = s
	}

	b.built = true
	return db, nil
}

// SchemaBuilder adds objects to one schema of a Builder.
type SchemaBuilder struct {
	parent *Builder
	name   string

	tables     []*Table
	views      []*View
	functions  []*Function
	enums      []*Enum
	composites []*CompositeType
}

func (sb *SchemaBuilder) Table(t ...*Table) *SchemaBuilder {
	sb.tables = append(sb.tables, t...)
	return sb
}

func (sb *SchemaBuilder) View(v ...*View) *SchemaBuilder {
	sb.views = append(sb.views, v...)
	return sb
}

func (sb *SchemaBuilder) Function(f ...*Function) *SchemaBuilder {
	sb.functions = append(sb.functions, f...)
	return sb
}

func (sb *SchemaBuilder) Enum(e ...*Enum) *SchemaBuilder {
	sb.enums = append(sb.enums, e...)
	return sb
}

func (sb *SchemaBuilder) CompositeType(c ...*CompositeType) *SchemaBuilder {
	sb.composites = append(sb.composites, c...)
	return sb
}

// Schema starts the next schema on the parent Builder.
func (sb *SchemaBuilder) Schema(name string) *SchemaBuilder {
	return sb.parent.Schema(name)
}

// Build finalizes the parent Builder.
func (sb *SchemaBuilder) Build() (*Database, error) {
	return sb.parent.Build()
}

func (sb *SchemaBuilder) build() (*Schema, error) {
	s := newSchema(sb.name)

	// Tables and views share one namespace: both answer row lookups.
	relations := make(map[string]string)
	for _, t := range sb.tables {
		if err := sb.claim(relations, "table", t.Name()); err != nil {
			return nil, err
		}
		s.tables[t.Name()] = t
	}
	for _, v := range sb.views {
		if err := sb.claim(relations, "view", v.Name()); err != nil {
			return nil, err
		}
		s.views[v.Name()] = v
	}

	if err := addUnique(sb.name, "function", sb.functions, s.functions); err != nil {
		return nil, err
	}
	if err := addUnique(sb.name, "enum", sb.enums, s.enums); err != nil {
		return nil, err
	}
	if err := addUnique(sb.name, "composite type", sb.composites, s.composites); err != nil {
		return nil, err
	}
	return s, nil
}

func (sb *SchemaBuilder) claim(seen map[string]string, what, name string) error {
	if name == "" {
		return errs.Newf(errs.ErrKindInvalidInput, "%s name cannot be empty in schema %s", what, sb.name)
	}
	if prev, dup := seen[name]; dup {
		return errs.Newf(errs.ErrKindInvalidInput, "%s %s.%s clashes with %s of the same name", what, sb.name, name, prev)
	}
	seen[name] = what
	return nil
}

type named interface{ Name() string }

func addUnique[T named](schemaName, what string, items []T, into map[string]T) error {
	for _, it := range items {
		name := it.Name()
		if name == "" {
			return errs.Newf(errs.ErrKindInvalidInput, "%s name cannot be empty in schema %s", what, schemaName)
		}
		if _, dup := into[name]; dup {
			return errs.Newf(errs.ErrKindInvalidInput, "duplicate %s name %s in schema %s", what, name, schemaName)
		}
		into[name] = it
	}
	return nil
}
