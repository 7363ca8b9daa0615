package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/estate/internal/search"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &criteriaFlags{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check search criteria for contradictory bounds",
		Long: `Check that minimum price, bedrooms and start date do not exceed their
maximums. Every contradiction is reported. No catalog is read.

Exit codes:
  0 - Criteria are consistent
  1 - One or more contradictions
  2 - Command error (bad flag value)`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, flags, cmd)
		},
	}
	flags.bind(cmd)
	return cmd
}

func runValidate(opts *RootOptions, flags *criteriaFlags, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	c, err := flags.criteria()
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeCriteria, err.Error(), nil)
	}

	result := search.Validate(c)
	if !result.IsValid {
		if out.JSON() {
			return out.Fail(ExitFailure, ErrCodeValidation, "invalid search criteria", result)
		}
		writeValidationErrors(out.Writer, result.Errors)
		return NewExitError(ExitFailure, "invalid search criteria")
	}

	return out.Success(result, func(w io.Writer) {
		fmt.Fprintln(w, "✓ Criteria are valid")
	})
}
