package schema

// Kind is the value category a column projects to on the client side.
type Kind string

const (
	KindString    Kind = "string"
	KindNumber    Kind = "number"
	KindBoolean   Kind = "boolean"
	KindJSON      Kind = "json"
	KindUnknown   Kind = "unknown"   // no client-side representation (tsvector, …)
	KindEnum      Kind = "enum"      // Ref names an enum in the same schema
	KindComposite Kind = "composite" // Ref names a composite type in the same schema
)

// Type is the projected type of a column, argument or attribute.
type Type struct {
	Kind Kind   `json:"kind" yaml:"kind"`
	Ref  string `json:"ref,omitempty" yaml:"ref,omitempty"`
}

var (
	String  = Type{Kind: KindString}
	Number  = Type{Kind: KindNumber}
	Boolean = Type{Kind: KindBoolean}
	JSON    = Type{Kind: KindJSON}
	Unknown = Type{Kind: KindUnknown}
)

// EnumOf returns a Type referring to the named enum.
func EnumOf(name string) Type { return Type{Kind: KindEnum, Ref: name} }

// CompositeOf returns a Type referring to the named composite type.
func CompositeOf(name string) Type { return Type{Kind: KindComposite, Ref: name} }

// IsScalar reports whether t needs no lookup in the schema to be understood.
func (t Type) IsScalar() bool {
	return t.Kind != KindEnum && t.Kind != KindComposite
}

func (t Type) String() string {
	if t.Ref != "" {
		return string(t.Kind) + ":" + t.Ref
	}
	return string(t.Kind)
}

// Column describes a table or view column, a function argument or a
// composite type attribute.
type Column struct {
	Name     string
	Type     Type
	Nullable bool
	Default  *string // nil if no default
}

// HasDefault reports whether the server fills the column when it is omitted.
func (c Column) HasDefault() bool {
	return c.Default != nil
}

func (c Column) clone() Column {
	if c.Default != nil {
		d := *c.Default
		c.Default = &d
	}
	return c
}

// cloneColumns deep-copies cols. An empty list stays nil.
func cloneColumns(cols []Column) []Column {
	if len(cols) == 0 {
		return nil
	}
	out := make([]Column, len(cols))
	for i, c := range cols {
		out[i] = c.clone()
	}
	return out
}

// Relationship is a foreign-key edge declared on a table or view.
type Relationship struct {
	ForeignKeyName     string   `json:"foreign_key_name" yaml:"foreign_key_name"`
	Columns            []string `json:"columns" yaml:"columns"`
	IsOneToOne         bool     `json:"is_one_to_one" yaml:"is_one_to_one"`
	ReferencedRelation string   `json:"referenced_relation" yaml:"referenced_relation"`
	ReferencedColumns  []string `json:"referenced_columns" yaml:"referenced_columns"`
}

func (r Relationship) clone() Relationship {
	r.Columns = append([]string(nil), r.Columns...)
	r.ReferencedColumns = append([]string(nil), r.ReferencedColumns...)
	return r
}

func cloneRelationships(rels []Relationship) []Relationship {
	out := make([]Relationship, len(rels))
	for i, r := range rels {
		out[i] = r.clone()
	}
	return out
}

// ReturnKind tells what a function call yields.
type ReturnKind string

const (
	ReturnsVoid   ReturnKind = "void"
	ReturnsScalar ReturnKind = "scalar"
	ReturnsRows   ReturnKind = "rows"
)

// Returns describes a function result. Type is set for scalar results,
// Columns for row sets.
type Returns struct {
	Kind    ReturnKind
	Type    Type
	Columns []Column
}

// Void is the result of a function that returns nothing.
func Void() Returns { return Returns{Kind: ReturnsVoid} }

// Scalar is the result of a function returning a single value.
func Scalar(t Type) Returns { return Returns{Kind: ReturnsScalar, Type: t} }

// SetOf is the result of a function returning a sequence of rows.
func SetOf(cols ...Column) Returns { return Returns{Kind: ReturnsRows, Columns: cols} }
