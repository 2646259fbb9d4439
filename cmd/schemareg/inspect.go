package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/koustreak/schemareg/internal/errs"
	"github.com/koustreak/schemareg/internal/registry"
)

var shapes = []string{"row", "insert", "update", "relationships", "enum", "composite", "function", "contents"}

func newInspectCmd(root *rootOptions) *cobra.Command {
	var (
		schemaName string
		shape      string
	)

	cmd := &cobra.Command{
		Use:   "inspect [name]",
		Short: "Print one resolved shape as YAML",
		Long: `Inspect resolves name in the default schema, or in --schema when given,
and prints the requested shape:

  row            fields read from a table or view
  insert         fields accepted when creating a table row
  update         fields accepted when patching a table row
  relationships  foreign keys of a table or view
  enum           labels of an enum type
  composite      attributes of a composite type
  function       arguments and result of a function
  contents       every name in the schema (no name argument)`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := openRegistry(cmd.Context(), root.cfg)
			if err != nil {
				return err
			}
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return inspect(cmd.OutOrStdout(), reg, shape, name, schemaName)
		},
	}

	cmd.Flags().StringVarP(&schemaName, "schema", "s", "", "schema to resolve in, defaults to registry.default_schema")
	cmd.Flags().StringVar(&shape, "shape", "row", fmt.Sprintf("one of %v", shapes))
	return cmd
}

func inspect(w io.Writer, reg *registry.Registry, shape, name, schemaName string) error {
	var opts []registry.Option
	if schemaName != "" {
		opts = append(opts, registry.InSchema(schemaName))
	}

	if shape != "contents" && name == "" {
		return errs.Newf(errs.ErrKindInvalidInput, "shape %q needs a name", shape)
	}

	var (
		out any
		err error
	)
	switch shape {
	case "row":
		out, err = reg.ResolveRow(name, opts...)
	case "insert":
		out, err = reg.ResolveInsertShape(name, opts...)
	case "update":
		out, err = reg.ResolveUpdateShape(name, opts...)
	case "relationships":
		out, err = reg.ListRelationships(name, opts...)
	case "enum":
		out, err = reg.ResolveEnumLabels(name, opts...)
	case "composite":
		out, err = reg.ResolveCompositeType(name, opts...)
	case "function":
		out, err = reg.ResolveFunction(name, opts...)
	case "contents":
		out, err = reg.Contents(opts...)
	default:
		return errs.Newf(errs.ErrKindInvalidInput, "unknown shape %q, want one of %v", shape, shapes)
	}
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(out)
}
