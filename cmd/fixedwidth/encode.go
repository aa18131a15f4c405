package main

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ianlopshire/go-fixedwidth-schema"
)

func newEncodeCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode --spec fields.yaml [records.json]",
		Short: "Encode a JSON array of records as fixed-width lines",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.loadSchema(cmd)
			if err != nil {
				return err
			}

			in, err := openInput(cmd, args)
			if err != nil {
				return errors.Wrap(err, "open records")
			}
			defer in.Close()

			var records []map[string]interface{}
			dec := json.NewDecoder(in)
			dec.UseNumber()
			if err := dec.Decode(&records); err != nil {
				return errors.Wrap(err, "read records")
			}
			log.Debug().Int("records", len(records)).Int("line_length", s.TotalLineLength()).Msg("encoding")

			if err := fixedwidth.NewEncoder(cmd.OutOrStdout(), s).Encode(records); err != nil {
				return err
			}
			if len(records) > 0 {
				fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.specPath, "spec", "", "Path to the field spec file (YAML, or JSON by extension)")
	_ = cmd.MarkFlagRequired("spec")
	return cmd
}
