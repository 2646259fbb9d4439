package loader

import (
	"strings"

	"github.com/koustreak/schemareg/internal/errs"
	"github.com/koustreak/schemareg/internal/logger"
	"github.com/koustreak/schemareg/internal/pgtypes"
	"github.com/koustreak/schemareg/internal/schema"
)

// typeResolver turns ColumnDoc type names into schema types, looking up
// user-defined types of the schema being loaded.
type typeResolver struct {
	enums      map[string][]string
	composites map[string]CompositeDoc
}

func (r typeResolver) resolve(name string) (schema.Type, error) {
	n := strings.TrimSpace(name)
	if n == "" {
		return schema.Type{}, errs.New(errs.ErrKindInvalidInput, "missing type")
	}

	if kind, ref, ok := strings.Cut(n, ":"); ok {
		switch schema.Kind(kind) {
		case schema.KindEnum:
			return schema.EnumOf(ref), nil
		case schema.KindComposite:
			return schema.CompositeOf(ref), nil
		}
		return schema.Type{}, errs.Newf(errs.ErrKindInvalidInput, "invalid type reference %q", name)
	}

	switch k := schema.Kind(n); k {
	case schema.KindString, schema.KindNumber, schema.KindBoolean, schema.KindJSON, schema.KindUnknown:
		return schema.Type{Kind: k}, nil
	}
	if _, ok := r.enums[n]; ok {
		return schema.EnumOf(n), nil
	}
	if _, ok := r.composites[n]; ok {
		return schema.CompositeOf(n), nil
	}

	// Types without a client-side projection stay unknown, like the
	// generator that produced the document would emit them.
	t, ok := pgtypes.Classify(n)
	if !ok {
		logger.With().Str("type", n).Logger().Debug("unrecognized type name, treating as unknown")
	}
	return t, nil
}

func (r typeResolver) columns(docs []ColumnDoc) ([]schema.Column, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	cols := make([]schema.Column, len(docs))
	for i, d := range docs {
		t, err := r.resolve(d.Type)
		if err != nil {
			return nil, errs.Wrap(errs.ErrKindInvalidInput, "column "+d.Name, err)
		}
		cols[i] = schema.Column{
			Name:     d.Name,
			Type:     t,
			Nullable: d.Nullable,
			Default:  d.Default,
		}
	}
	return cols, nil
}

func (r typeResolver) function(name string, fd FunctionDoc) (*schema.Function, error) {
	args, err := r.columns(fd.Args)
	if err != nil {
		return nil, err
	}

	var ret schema.Returns
	switch {
	case len(fd.Returns.Columns) > 0:
		cols, err := r.columns(fd.Returns.Columns)
		if err != nil {
			return nil, err
		}
		ret = schema.SetOf(cols...)
	case fd.Returns.Type == "" || fd.Returns.Type == string(schema.ReturnsVoid):
		ret = schema.Void()
	default:
		t, err := r.resolve(fd.Returns.Type)
		if err != nil {
			return nil, err
		}
		ret = schema.Scalar(t)
	}
	return schema.NewFunction(name, args, ret), nil
}
