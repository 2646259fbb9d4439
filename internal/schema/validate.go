package schema

import (
	"errors"
	"fmt"

	"github.com/koustreak/schemareg/internal/errs"
)

// Validate checks cross-references that Build cannot see: foreign keys must
// point at an existing relation of the same schema and name existing
// columns on both sides, and enum or composite references must resolve.
// All problems are reported together.
func (d *Database) Validate() error {
	var problems []error
	for _, sname := range d.SchemaNames() {
		s := d.schemas[sname]
		for _, name := range s.TableNames() {
			problems = append(problems, s.validateRelation(s.tables[name])...)
		}
		for _, name := range s.ViewNames() {
			problems = append(problems, s.validateRelation(s.views[name])...)
		}
		for _, name := range s.FunctionNames() {
			f := s.functions[name]
			problems = append(problems, s.validateColumns("function "+name+" argument", f.args)...)
			problems = append(problems, s.validateColumns("function "+name+" result", f.returns.Columns)...)
			if f.returns.Kind == ReturnsScalar {
				problems = append(problems, s.validateType("function "+name+" result", f.returns.Type)...)
			}
		}
		for _, name := range s.CompositeTypeNames() {
			problems = append(problems, s.validateColumns("composite type "+name, s.composites[name].attributes)...)
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return errs.Wrap(errs.ErrKindInvalidInput, "schema description is inconsistent", errors.Join(problems...))
}

func (s *Schema) validateRelation(r Relation) []error {
	var problems []error
	own := columnSet(r.Columns())
	problems = append(problems, s.validateColumns(r.Name(), r.Columns())...)

	for _, rel := range r.Relationships() {
		where := fmt.Sprintf("%s.%s foreign key %s", s.name, r.Name(), rel.ForeignKeyName)
		if len(rel.Columns) == 0 || len(rel.Columns) != len(rel.ReferencedColumns) {
			problems = append(problems, fmt.Errorf("%s: %d local columns for %d referenced columns",
				where, len(rel.Columns), len(rel.ReferencedColumns)))
		}
		for _, c := range rel.Columns {
			if !own[c] {
				problems = append(problems, fmt.Errorf("%s: no local column %q", where, c))
			}
		}
		target, ok := s.Relation(rel.ReferencedRelation)
		if !ok {
			problems = append(problems, fmt.Errorf("%s: referenced relation %q does not exist", where, rel.ReferencedRelation))
			continue
		}
		theirs := columnSet(target.Columns())
		for _, c := range rel.ReferencedColumns {
			if !theirs[c] {
				problems = append(problems, fmt.Errorf("%s: no column %q on %s", where, c, rel.ReferencedRelation))
			}
		}
	}
	return problems
}

func (s *Schema) validateColumns(owner string, cols []Column) []error {
	var problems []error
	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		if c.Name == "" {
			problems = append(problems, fmt.Errorf("%s.%s: column with empty name", s.name, owner))
			continue
		}
		if seen[c.Name] {
			problems = append(problems, fmt.Errorf("%s.%s: duplicate column %q", s.name, owner, c.Name))
		}
		seen[c.Name] = true
		problems = append(problems, s.validateType(owner+"."+c.Name, c.Type)...)
	}
	return problems
}

func (s *Schema) validateType(where string, t Type) []error {
	switch t.Kind {
	case KindString, KindNumber, KindBoolean, KindJSON, KindUnknown:
		return nil
	case KindEnum:
		if _, ok := s.enums[t.Ref]; !ok {
			return []error{fmt.Errorf("%s.%s: unknown enum %q", s.name, where, t.Ref)}
		}
	case KindComposite:
		if _, ok := s.composites[t.Ref]; !ok {
			return []error{fmt.Errorf("%s.%s: unknown composite type %q", s.name, where, t.Ref)}
		}
	default:
		return []error{fmt.Errorf("%s.%s: invalid type kind %q", s.name, where, t.Kind)}
	}
	return nil
}

func columnSet(cols []Column) map[string]bool {
	set := make(map[string]bool, len(cols))
	for _, c := range cols {
		set[c.Name] = true
	}
	return set
}
