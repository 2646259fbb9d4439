package loader

// Document is the on-disk form of a database description. JSON documents
// decode too, since JSON is a subset of YAML.
//
//	schemas:
//	  public:
//	    tables:
//	      continents:
//	        columns:
//	          - {name: id, type: int4, default: "nextval('continents_id_seq'::regclass)"}
//	          - {name: name, type: text}
//	    enums:
//	      visit_kind: [planned, visited]
type Document struct {
	Schemas map[string]SchemaDoc `yaml:"schemas"`
}

// SchemaDoc describes one schema.
type SchemaDoc struct {
	Tables         map[string]RelationDoc  `yaml:"tables"`
	Views          map[string]RelationDoc  `yaml:"views"`
	Functions      map[string]FunctionDoc  `yaml:"functions"`
	Enums          map[string][]string     `yaml:"enums"`
	CompositeTypes map[string]CompositeDoc `yaml:"composite_types"`
}

// ColumnDoc describes a column, argument or attribute.
//
// Type is a shape kind (string, number, boolean, json, unknown), a
// PostgreSQL type name (int4, timestamptz, character varying, …), the name
// of an enum or composite type of the same schema, or an explicit reference
// of the form "enum:<name>" / "composite:<name>".
type ColumnDoc struct {
	Name     string  `yaml:"name"`
	Type     string  `yaml:"type"`
	Nullable bool    `yaml:"nullable"`
	Default  *string `yaml:"default"`
}

// RelationDoc describes a table or a view.
type RelationDoc struct {
	Columns       []ColumnDoc       `yaml:"columns"`
	Relationships []RelationshipDoc `yaml:"relationships"`
}

// RelationshipDoc describes a foreign key.
type RelationshipDoc struct {
	ForeignKeyName     string   `yaml:"foreign_key_name"`
	Columns            []string `yaml:"columns"`
	IsOneToOne         bool     `yaml:"is_one_to_one"`
	ReferencedRelation string   `yaml:"referenced_relation"`
	ReferencedColumns  []string `yaml:"referenced_columns"`
}

// FunctionDoc describes a function. An argument with a default may be
// omitted by callers.
type FunctionDoc struct {
	Args    []ColumnDoc `yaml:"args"`
	Returns ReturnsDoc  `yaml:"returns"`
}

// ReturnsDoc describes a function result: columns for a set of rows,
// otherwise a type ("void" or empty for no result).
type ReturnsDoc struct {
	Type    string      `yaml:"type"`
	Columns []ColumnDoc `yaml:"columns"`
}

// CompositeDoc describes a composite type.
type CompositeDoc struct {
	Attributes []ColumnDoc `yaml:"attributes"`
}
