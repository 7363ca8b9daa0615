package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/estate/internal/config"
	"github.com/roach88/estate/internal/logging"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Catalog string // overrides catalog.path
	Config  string // explicit estate.yaml

	// EnvFile overrides the .env location. Tests point it at a temp dir.
	EnvFile string

	cfg    *config.Config
	logger logging.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the estate CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "estate",
		Short: "Browse, filter and favourite property listings",
		Long: `estate searches a property catalog by type, price, bedrooms, date added
and postcode, and keeps a session list of favourite properties.

The catalog is a JSON, YAML or SQLite file. Settings come from estate.yaml,
a .env file and ESTATE_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return opts.resolve(cmd)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Catalog, "catalog", "", "catalog file (.json, .yaml or .db)")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "config file (default: estate.yaml in ., ./configs, $HOME/.estate)")

	cmd.AddCommand(NewSearchCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewPostcodesCommand(opts))
	cmd.AddCommand(NewCatalogCommand(opts))
	cmd.AddCommand(NewSessionCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// resolve loads configuration and builds the logger once. Subcommands
// call it too, so they work when executed without the root command.
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	if o.cfg != nil {
		return nil
	}

	cfg, err := config.Load(config.Options{ConfigFile: o.Config, EnvFile: o.EnvFile})
	if err != nil {
		return o.formatter(cmd).FailErr(err)
	}
	if o.Catalog != "" {
		cfg.Catalog.Path = o.Catalog
	}

	level := cfg.Log.Level
	if o.Verbose {
		level = "debug"
	}
	o.logger = logging.New(logging.Options{
		Level:  level,
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	})
	o.cfg = cfg

	o.logger.Debug("configuration resolved", logging.Fields{
		"catalog":  cfg.Catalog.Path,
		"currency": cfg.Display.Currency,
	})
	return nil
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
