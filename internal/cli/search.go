package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/estate/internal/catalog"
	"github.com/roach88/estate/internal/search"
)

// SearchData is the JSON payload of a successful search.
type SearchData struct {
	Criteria   search.Criteria    `json:"criteria"`
	Count      int                `json:"count"`
	Properties []catalog.Property `json:"properties"`
}

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &criteriaFlags{}

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Validate criteria and list matching properties",
		Long: `Validate the criteria and, when they are consistent, list every catalog
property that satisfies all of them, in catalog order.

Exit codes:
  0 - Search ran (possibly with no results)
  1 - Criteria contradict each other
  2 - Command error (bad flag value, missing catalog)

Examples:
  estate search --type flat --max-price 400000
  estate search --min-bedrooms 3 --postcode BR
  estate search --date-mode between --date-from 2025-08-01 --date-to 2025-10-31`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(rootOpts, flags, cmd)
		},
	}
	flags.bind(cmd)
	return cmd
}

func runSearch(opts *RootOptions, flags *criteriaFlags, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	c, err := flags.criteria()
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeCriteria, err.Error(), nil)
	}

	cat, err := opts.loadCatalog(cmd)
	if err != nil {
		return err
	}
	fmtr, err := opts.newFormatter(cmd)
	if err != nil {
		return err
	}

	searcher := opts.newSearcher(cat)
	defer searcher.Stop()

	res, err := searcher.Search(c)
	if err != nil {
		return out.FailErr(err)
	}
	out.VerboseLog("criteria: %s", describeCriteria(c))

	if !res.Validation.IsValid {
		if out.JSON() {
			return out.Fail(ExitFailure, ErrCodeValidation, "invalid search criteria", res.Validation)
		}
		writeValidationErrors(out.Writer, res.Validation.Errors)
		return NewExitError(ExitFailure, "invalid search criteria")
	}

	data := SearchData{Criteria: c, Count: len(res.Properties), Properties: res.Properties}
	return out.Success(data, func(w io.Writer) {
		propertyTable(w, res.Properties, fmtr)
		fmt.Fprintf(w, "%s found\n", plural(len(res.Properties), "property", "properties"))
	})
}
