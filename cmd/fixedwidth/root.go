package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ianlopshire/go-fixedwidth-schema"
	"github.com/ianlopshire/go-fixedwidth-schema/internal/logging"
	"github.com/ianlopshire/go-fixedwidth-schema/internal/specfile"
)

const (
	envLogLevel  = "FIXEDWIDTH_LOG_LEVEL"
	envDelimiter = "FIXEDWIDTH_DELIMITER"
)

// options holds the persistent flags shared by every command.
type options struct {
	logLevel  string
	delimiter string
	specPath  string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "fixedwidth",
		Short:         "Encode, decode and infer fixed-width record layouts",
		Long:          `fixedwidth converts between JSON records and fixed-width lines using a field-spec file, and infers field specs from sample JSON.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logging.Setup(opts.logLevel)
		},
	}

	level := os.Getenv(envLogLevel)
	if level == "" {
		level = "info"
	}
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", level, "Log level (env "+envLogLevel+")")
	rootCmd.PersistentFlags().StringVar(&opts.delimiter, "delimiter", os.Getenv(envDelimiter), "Delimiter written after every field, overriding the spec file (env "+envDelimiter+")")

	rootCmd.AddCommand(
		newInferCmd(opts),
		newEncodeCmd(opts),
		newDecodeCmd(opts),
		newSpecSchemaCmd(),
	)
	return rootCmd
}

// delimiterOverride reports the delimiter set by flag or environment, if any.
func (o *options) delimiterOverride(cmd *cobra.Command) (string, bool) {
	if cmd.Flags().Changed("delimiter") {
		return o.delimiter, true
	}
	if _, ok := os.LookupEnv(envDelimiter); ok {
		return o.delimiter, true
	}
	return "", false
}

// loadSchema reads the spec file named by --spec and applies the delimiter
// override.
func (o *options) loadSchema(cmd *cobra.Command) (*fixedwidth.Schema, error) {
	s, err := specfile.Load(o.specPath)
	if err != nil {
		return nil, err
	}
	if d, ok := o.delimiterOverride(cmd); ok {
		s.SetDelimiter(d)
	}
	return s, nil
}

// openInput returns the named file, or stdin when no file is given.
func openInput(cmd *cobra.Command, args []string) (io.ReadCloser, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	return os.Open(args[0])
}
