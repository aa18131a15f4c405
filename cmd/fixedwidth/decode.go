package main

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ianlopshire/go-fixedwidth-schema"
)

func newDecodeCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode --spec fields.yaml [data.txt]",
		Short: "Decode fixed-width lines into a JSON array of records",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.loadSchema(cmd)
			if err != nil {
				return err
			}

			in, err := openInput(cmd, args)
			if err != nil {
				return errors.Wrap(err, "open data")
			}
			defer in.Close()

			records, err := fixedwidth.NewDecoder(in, s).ReadAll()
			if err != nil {
				return err
			}
			log.Debug().Int("records", len(records)).Msg("decoded")

			if records == nil {
				records = []*fixedwidth.Record{}
			}
			out, err := json.MarshalIndent(records, "", "  ")
			if err != nil {
				return errors.Wrap(err, "write records")
			}
			out = append(out, '\n')
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	cmd.Flags().StringVar(&opts.specPath, "spec", "", "Path to the field spec file (YAML, or JSON by extension)")
	_ = cmd.MarkFlagRequired("spec")
	return cmd
}
