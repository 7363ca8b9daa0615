package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewPostcodesCommand creates the postcodes command.
func NewPostcodesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "postcodes",
		Short:         "List the distinct postcodes in the catalog",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := rootOpts.loadCatalog(cmd)
			if err != nil {
				return err
			}
			postcodes := cat.Postcodes()
			return rootOpts.formatter(cmd).Success(postcodes, func(w io.Writer) {
				for _, pc := range postcodes {
					fmt.Fprintln(w, pc)
				}
			})
		},
	}
}
