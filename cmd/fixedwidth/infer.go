package main

import (
	"io"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ianlopshire/go-fixedwidth-schema"
	"github.com/ianlopshire/go-fixedwidth-schema/internal/specfile"
)

func newInferCmd(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "infer [samples.json]",
		Short: "Infer field specs from a JSON array of sample records",
		Long: `Infer reads a JSON array of objects and prints a spec file with one field per
key, sized to the longest value seen. Keys keep the order they first appear in.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := openInput(cmd, args)
			if err != nil {
				return errors.Wrap(err, "open samples")
			}
			defer in.Close()

			data, err := io.ReadAll(in)
			if err != nil {
				return errors.Wrap(err, "read samples")
			}

			s, err := fixedwidth.CreateFromJSON(data)
			if err != nil {
				return err
			}
			if d, ok := opts.delimiterOverride(cmd); ok {
				s.SetDelimiter(d)
			}
			log.Debug().Int("fields", s.Len()).Int("line_length", s.TotalLineLength()).Msg("inferred schema")

			format := specfile.YAML
			if asJSON {
				format = specfile.JSON
			}
			out, err := specfile.FromSchema(s).Marshal(format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the spec as JSON instead of YAML")
	return cmd
}
