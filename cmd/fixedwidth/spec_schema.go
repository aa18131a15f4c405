package main

import (
	"encoding/json"
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ianlopshire/go-fixedwidth-schema"
	"github.com/ianlopshire/go-fixedwidth-schema/internal/specfile"
)

var padPlacementType = reflect.TypeOf(fixedwidth.PadPlacement(0))

func newSpecSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "spec-schema",
		Short: "Print the JSON Schema of the field spec file format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := json.MarshalIndent(specFileSchema(), "", "  ")
			if err != nil {
				return errors.Wrap(err, "marshal schema")
			}
			out = append(out, '\n')
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

func specFileSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		DoNotReference: true,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t != padPlacementType {
				return nil
			}
			return &jsonschema.Schema{
				Type: "string",
				Enum: []interface{}{"left", "right", "STR_PAD_LEFT", "STR_PAD_RIGHT"},
			}
		},
	}
	return r.Reflect(&specfile.File{})
}
