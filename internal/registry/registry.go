// Package registry resolves row, insert and update shapes, relationships,
// enums, composite types and function signatures by name against an
// immutable schema.Database.
//
// Unqualified lookups resolve only in the configured default schema and
// never fall back to other schemas. InSchema qualifies a lookup explicitly
// and always wins.
//
// Usage:
//
//	reg, err := registry.New(db, registry.DefaultConfig())
//	row, err := reg.ResolveRow("countries")
//	fn, err := reg.ResolveFunction("graphql", registry.InSchema("graphql_public"))
package registry

import (
	"github.com/koustreak/schemareg/internal/errs"
	"github.com/koustreak/schemareg/internal/logger"
	"github.com/koustreak/schemareg/internal/schema"
)

// Registry answers name lookups. It is never written to after New and is
// safe for concurrent use by any number of goroutines.
type Registry struct {
	db            *schema.Database
	defaultSchema string
}

// New creates a Registry over db. It fails with an unknown-schema error if
// the configured default schema is not part of db.
func New(db *schema.Database, cfg *Config) (*Registry, error) {
	if db == nil {
		return nil, errs.New(errs.ErrKindInvalidInput, "registry needs a database description")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	def := cfg.DefaultSchema
	if def == "" {
		def = DefaultSchemaName
	}
	if _, ok := db.Schema(def); !ok {
		return nil, errs.Newf(errs.ErrKindUnknownSchema, "default schema %q is not described", def)
	}

	logger.With().
		Str("default_schema", def).
		Int("schemas", len(db.SchemaNames())).
		Logger().
		Info("schema registry ready")

	return &Registry{db: db, defaultSchema: def}, nil
}

// Option qualifies a single lookup.
type Option func(*lookup)

type lookup struct {
	schema string
}

// InSchema resolves the lookup in the named schema instead of the default
// one. An empty name leaves the lookup unqualified.
func InSchema(name string) Option {
	return func(l *lookup) {
		if name != "" {
			l.schema = name
		}
	}
}

// DefaultSchema returns the schema unqualified lookups resolve against.
func (r *Registry) DefaultSchema() string { return r.defaultSchema }

// Schemas returns the described schema names in sorted order.
func (r *Registry) Schemas() []string { return r.db.SchemaNames() }

// resolveSchema applies opts and returns the schema to search.
func (r *Registry) resolveSchema(opts []Option) (*schema.Schema, error) {
	l := lookup{schema: r.defaultSchema}
	for _, opt := range opts {
		opt(&l)
	}
	s, ok := r.db.Schema(l.schema)
	if !ok {
		return nil, errs.Newf(errs.ErrKindUnknownSchema, "schema %q is not described", l.schema)
	}
	return s, nil
}

// ResolveRow returns the row shape of the table or view called name.
func (r *Registry) ResolveRow(name string, opts ...Option) (schema.Shape, error) {
	rel, err := r.relation(name, opts)
	if err != nil {
		return schema.Shape{}, err
	}
	return rel.Row(), nil
}

// ResolveInsertShape returns the creation shape of the table called name.
// Its required fields are exactly the non-nullable columns without default.
// Views have no insert shape and fail with an unknown-table error.
func (r *Registry) ResolveInsertShape(name string, opts ...Option) (schema.Shape, error) {
	t, err := r.table(name, opts)
	if err != nil {
		return schema.Shape{}, err
	}
	return t.Insert(), nil
}

// ResolveUpdateShape returns the partial-update shape of the table called
// name; every field is optional.
func (r *Registry) ResolveUpdateShape(name string, opts ...Option) (schema.Shape, error) {
	t, err := r.table(name, opts)
	if err != nil {
		return schema.Shape{}, err
	}
	return t.Update(), nil
}

// ResolveEnumLabels returns the labels of the enum called name.
func (r *Registry) ResolveEnumLabels(name string, opts ...Option) ([]string, error) {
	s, err := r.resolveSchema(opts)
	if err != nil {
		return nil, err
	}
	e, ok := s.Enum(name)
	if !ok {
		return nil, errs.Newf(errs.ErrKindUnknownEnum, "no enum %q in schema %q", name, s.Name())
	}
	return e.Labels(), nil
}

// ResolveCompositeType returns the attribute shape of the composite type
// called name.
func (r *Registry) ResolveCompositeType(name string, opts ...Option) (schema.Shape, error) {
	s, err := r.resolveSchema(opts)
	if err != nil {
		return schema.Shape{}, err
	}
	c, ok := s.CompositeType(name)
	if !ok {
		return schema.Shape{}, errs.Newf(errs.ErrKindUnknownCompositeType, "no composite type %q in schema %q", name, s.Name())
	}
	return c.Shape(), nil
}

// ListRelationships returns the foreign keys declared on the relation called
// name, in declaration order. A relation without foreign keys yields an
// empty slice.
func (r *Registry) ListRelationships(name string, opts ...Option) ([]schema.Relationship, error) {
	rel, err := r.relation(name, opts)
	if err != nil {
		return nil, err
	}
	return rel.Relationships(), nil
}

// Signature is the call contract of a function.
type Signature struct {
	Name    string            `json:"name" yaml:"name"`
	Args    schema.Shape      `json:"args" yaml:"args"`
	Returns schema.ReturnKind `json:"returns" yaml:"returns"`
	// Type is set for scalar results.
	Type schema.Type `json:"type" yaml:"type"`
	// Result is the row shape of set-returning functions.
	Result schema.Shape `json:"result" yaml:"result"`
}

// ResolveFunction returns the signature of the function called name.
func (r *Registry) ResolveFunction(name string, opts ...Option) (Signature, error) {
	s, err := r.resolveSchema(opts)
	if err != nil {
		return Signature{}, err
	}
	f, ok := s.Function(name)
	if !ok {
		return Signature{}, errs.Newf(errs.ErrKindUnknownFunction, "no function %q in schema %q", name, s.Name())
	}
	ret := f.Returns()
	return Signature{
		Name:    f.Name(),
		Args:    f.Args(),
		Returns: ret.Kind,
		Type:    ret.Type,
		Result:  f.Result(),
	}, nil
}

// Contents lists the names in every namespace of one schema.
type Contents struct {
	Schema         string   `json:"schema" yaml:"schema"`
	Tables         []string `json:"tables" yaml:"tables"`
	Views          []string `json:"views" yaml:"views"`
	Functions      []string `json:"functions" yaml:"functions"`
	Enums          []string `json:"enums" yaml:"enums"`
	CompositeTypes []string `json:"composite_types" yaml:"composite_types"`
}

// Contents returns the sorted names described in the resolved schema.
func (r *Registry) Contents(opts ...Option) (Contents, error) {
	s, err := r.resolveSchema(opts)
	if err != nil {
		return Contents{}, err
	}
	return Contents{
		Schema:         s.Name(),
		Tables:         s.TableNames(),
		Views:          s.ViewNames(),
		Functions:      s.FunctionNames(),
		Enums:          s.EnumNames(),
		CompositeTypes: s.CompositeTypeNames(),
	}, nil
}

func (r *Registry) relation(name string, opts []Option) (schema.Relation, error) {
	s, err := r.resolveSchema(opts)
	if err != nil {
		return nil, err
	}
	rel, ok := s.Relation(name)
	if !ok {
		return nil, errs.Newf(errs.ErrKindUnknownEntity, "no table or view %q in schema %q", name, s.Name())
	}
	return rel, nil
}

func (r *Registry) table(name string, opts []Option) (*schema.Table, error) {
	s, err := r.resolveSchema(opts)
	if err != nil {
		return nil, err
	}
	t, ok := s.Table(name)
	if ok {
		return t, nil
	}
	if _, isView := s.View(name); isView {
		return nil, errs.Newf(errs.ErrKindUnknownTable, "%q in schema %q is a view and cannot be written", name, s.Name())
	}
	return nil, errs.Newf(errs.ErrKindUnknownTable, "no table %q in schema %q", name, s.Name())
}
