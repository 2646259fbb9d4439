package schema

// Table is a base table. Its Row, Insert and Update shapes are derived from
// the columns once, at construction.
type Table struct {
	name          string
	columns       []Column
	relationships []Relationship

	row    Shape
	insert Shape
	update Shape
}

// NewTable creates a table from its ordered columns and foreign keys.
func NewTable(name string, columns []Column, rels ...Relationship) *Table {
	cols := cloneColumns(columns)
	return &Table{
		name:          name,
		columns:       cols,
		relationships: cloneRelationships(rels),
		row:           rowShape(cols),
		insert:        insertShape(cols),
		update:        updateShape(cols),
	}
}

func (t *Table) Name() string { return t.name }

// Columns returns a copy of the table columns in ordinal order.
func (t *Table) Columns() []Column { return cloneColumns(t.columns) }

// Row returns the shape of a row as read.
func (t *Table) Row() Shape { return t.row.Clone() }

// Insert returns the shape accepted on creation.
func (t *Table) Insert() Shape { return t.insert.Clone() }

// Update returns the shape accepted on partial modification.
func (t *Table) Update() Shape { return t.update.Clone() }

// Relationships returns the foreign keys declared on the table, never nil.
func (t *Table) Relationships() []Relationship { return cloneRelationships(t.relationships) }

// View is a read-only relation: it has a Row shape but no Insert or Update.
type View struct {
	name          string
	columns       []Column
	relationships []Relationship

	row Shape
}

// NewView creates a view from its ordered columns.
func NewView(name string, columns []Column, rels ...Relationship) *View {
	cols := cloneColumns(columns)
	return &View{
		name:          name,
		columns:       cols,
		relationships: cloneRelationships(rels),
		row:           rowShape(cols),
	}
}

func (v *View) Name() string                  { return v.name }
func (v *View) Columns() []Column             { return cloneColumns(v.columns) }
func (v *View) Row() Shape                    { return v.row.Clone() }
func (v *View) Relationships() []Relationship { return cloneRelationships(v.relationships) }

// Relation is the read side shared by tables and views.
type Relation interface {
	Name() string
	Columns() []Column
	Row() Shape
	Relationships() []Relationship
}

var (
	_ Relation = (*Table)(nil)
	_ Relation = (*View)(nil)
)

// Function is a callable routine. An argument may be omitted when it has a
// default.
type Function struct {
	name    string
	args    []Column
	returns Returns

	argShape    Shape
	resultShape Shape
}

// NewFunction creates a function from its ordered arguments and result.
func NewFunction(name string, args []Column, returns Returns) *Function {
	a := cloneColumns(args)
	returns.Columns = cloneColumns(returns.Columns)
	return &Function{
		name:    name,
		args:    a,
		returns: returns,
		argShape: deriveShape(a, func(c Column) bool {
			return c.HasDefault()
		}),
		resultShape: rowShape(returns.Columns),
	}
}

func (f *Function) Name() string { return f.name }

// Args returns the shape of the named arguments.
func (f *Function) Args() Shape { return f.argShape.Clone() }

// Returns returns the declared result.
func (f *Function) Returns() Returns {
	r := f.returns
	r.Columns = cloneColumns(r.Columns)
	return r
}

// Result returns the row shape of a set-returning function. It is empty for
// void and scalar results.
func (f *Function) Result() Shape { return f.resultShape.Clone() }

// Enum is a closed, ordered set of string labels.
type Enum struct {
	name   string
	labels []string
}

func NewEnum(name string, labels ...string) *Enum {
	return &Enum{name: name, labels: append([]string(nil), labels...)}
}

func (e *Enum) Name() string { return e.name }

// Labels returns the labels in declaration order, never nil.
func (e *Enum) Labels() []string { return append(make([]string, 0, len(e.labels)), e.labels...) }

// Has reports whether label belongs to the enum.
func (e *Enum) Has(label string) bool {
	for _, l := range e.labels {
		if l == label {
			return true
		}
	}
	return false
}

// CompositeType is a named structured value.
type CompositeType struct {
	name       string
	attributes []Column
	shape      Shape
}

func NewCompositeType(name string, attributes []Column) *CompositeType {
	attrs := cloneColumns(attributes)
	return &CompositeType{name: name, attributes: attrs, shape: rowShape(attrs)}
}

func (c *CompositeType) Name() string        { return c.name }
func (c *CompositeType) Attributes() []Column { return cloneColumns(c.attributes) }
func (c *CompositeType) Shape() Shape         { return c.shape.Clone() }
