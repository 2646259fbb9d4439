package schema

// Field is one entry of a Shape.
type Field struct {
	Name     string `json:"name" yaml:"name"`
	Type     Type   `json:"type" yaml:"type"`
	Nullable bool   `json:"nullable" yaml:"nullable"`
	Optional bool   `json:"optional" yaml:"optional"`
}

// Shape is an ordered set of fields accepted or returned by one kind of
// access (read, create, partial update, call).
type Shape struct {
	Fields []Field `json:"fields" yaml:"fields"`
}

// Len returns the number of fields.
func (s Shape) Len() int { return len(s.Fields) }

// Field returns the field with the given name.
func (s Shape) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Names returns all field names in declaration order.
func (s Shape) Names() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// Required returns the names of the fields a caller must supply.
func (s Shape) Required() []string {
	names := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		if !f.Optional {
			names = append(names, f.Name)
		}
	}
	return names
}

// Optional returns the names of the fields a caller may omit.
func (s Shape) Optional() []string {
	names := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		if f.Optional {
			names = append(names, f.Name)
		}
	}
	return names
}

// Clone returns a copy that shares no memory with s.
func (s Shape) Clone() Shape {
	return Shape{Fields: append(make([]Field, 0, len(s.Fields)), s.Fields...)}
}

// rowShape: every column present, nullability as declared.
func rowShape(cols []Column) Shape {
	return deriveShape(cols, func(Column) bool { return false })
}

// insertShape: nullable or defaulted columns may be omitted.
func insertShape(cols []Column) Shape {
	return deriveShape(cols, func(c Column) bool { return c.Nullable || c.HasDefault() })
}

// updateShape: every column may be omitted.
func updateShape(cols []Column) Shape {
	return deriveShape(cols, func(Column) bool { return true })
}

func deriveShape(cols []Column, optional func(Column) bool) Shape {
	fields := make([]Field, len(cols))
	for i, c := range cols {
		fields[i] = Field{
			Name:     c.Name,
			Type:     c.Type,
			Nullable: c.Nullable,
			Optional: optional(c),
		}
	}
	return Shape{Fields: fields}
}
