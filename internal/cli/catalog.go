package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/estate/internal/catalog"
	"github.com/roach88/estate/internal/logging"
)

// CheckResult is the JSON payload of catalog check.
type CheckResult struct {
	Path       string                 `json:"path"`
	Valid      bool                   `json:"valid"`
	Properties int                    `json:"properties"`
	Violations []*catalog.SchemaError `json:"violations,omitempty"`
}

// NewCatalogCommand groups the catalog maintenance commands.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Check and convert catalog files",
	}
	cmd.AddCommand(newCatalogCheckCommand(rootOpts))
	cmd.AddCommand(newCatalogImportCommand(rootOpts))
	return cmd
}

func newCatalogCheckCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check <path>",
		Short: "Check a catalog file against the property schema",
		Long: `Check every property of a JSON or YAML catalog against the property
schema and report all violations, then check that ids are unique.

Exit codes:
  0 - Catalog is valid
  1 - Schema violations or duplicate ids
  2 - Command error (file not found, unreadable)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogCheck(rootOpts, args[0], cmd)
		},
	}
}

func runCatalogCheck(opts *RootOptions, path string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	data, err := os.ReadFile(path)
	if err != nil {
		code := catalog.ErrCodeGeneric
		if errors.Is(err, fs.ErrNotExist) {
			code = catalog.ErrCodeNotFound
		}
		return out.Fail(ExitCommandError, code, fmt.Sprintf("cannot read catalog: %s", path), nil)
	}

	schema, err := catalog.NewSchema()
	if err != nil {
		return out.FailErr(err)
	}

	result := CheckResult{Path: path}
	for _, e := range schema.Check(data) {
		var se *catalog.SchemaError
		if !errors.As(e, &se) {
			// The document itself did not parse.
			return out.Fail(ExitFailure, catalog.ErrorCode(e), e.Error(), nil)
		}
		result.Violations = append(result.Violations, se)
	}
	if len(result.Violations) > 0 {
		if out.JSON() {
			return out.Fail(ExitFailure, catalog.ErrCodeSchema, "catalog violates schema", result)
		}
		fmt.Fprintf(out.Writer, "✗ %s\n", path)
		for _, v := range result.Violations {
			fmt.Fprintf(out.Writer, "  %s\n", v)
		}
		return NewExitError(ExitFailure, "catalog violates schema")
	}

	props, err := catalog.Decode(data)
	if err != nil {
		return out.Fail(ExitFailure, catalog.ErrorCode(err), err.Error(), nil)
	}
	cat, err := catalog.New(props)
	if err != nil {
		return out.Fail(ExitFailure, catalog.ErrorCode(err), err.Error(), nil)
	}

	result.Valid = true
	result.Properties = cat.Len()
	return out.Success(result, func(w io.Writer) {
		fmt.Fprintf(w, "✓ %s (%s)\n", path, plural(cat.Len(), "property", "properties"))
	})
}

func newCatalogImportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <source> <database>",
		Short: "Copy a catalog into a SQLite database",
		Long: `Load a catalog from any supported source and write it to the properties
table of a SQLite database, replacing what was there. The database can then
be used as --catalog.

Examples:
  estate catalog import testdata/catalog/properties.json catalog.db
  estate search --catalog catalog.db --type flat`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogImport(rootOpts, args[0], args[1], cmd)
		},
	}
}

func runCatalogImport(opts *RootOptions, src, dst string, cmd *cobra.Command) error {
	if err := opts.resolve(cmd); err != nil {
		return err
	}
	out := opts.formatter(cmd)

	cat, err := catalog.Load(cmd.Context(), src)
	if err != nil {
		return out.FailErr(err)
	}

	db, err := catalog.OpenSQLite(dst)
	if err != nil {
		return out.FailErr(err)
	}
	defer db.Close()

	if err := db.Import(cmd.Context(), cat.Properties()); err != nil {
		return out.FailErr(err)
	}
	opts.logger.Info("catalog imported", logging.Fields{"source": src, "database": dst, "properties": cat.Len()})

	data := map[string]any{"source": src, "database": dst, "properties": cat.Len()}
	return out.Success(data, func(w io.Writer) {
		fmt.Fprintf(w, "Imported %s into %s\n", plural(cat.Len(), "property", "properties"), dst)
	})
}
