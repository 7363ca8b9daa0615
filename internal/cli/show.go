package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/estate/internal/catalog"
)

// PropertyDetails is the JSON payload of show.
type PropertyDetails struct {
	Property catalog.Property `json:"property"`
	Price    string           `json:"price"`
	Added    string           `json:"added"`
	Geohash  string           `json:"geohash,omitempty"`
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one property in detail",
		Long: `Show every field of a property with the price and date formatted for
display and the geohash of its coordinates.

Exit codes:
  0 - Property shown
  2 - Unknown id or command error`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(rootOpts, args[0], cmd)
		},
	}
}

func runShow(opts *RootOptions, id string, cmd *cobra.Command) error {
	cat, err := opts.loadCatalog(cmd)
	if err != nil {
		return err
	}
	fmtr, err := opts.newFormatter(cmd)
	if err != nil {
		return err
	}

	out := opts.formatter(cmd)
	p, ok := cat.ByID(id)
	if !ok {
		return out.Fail(ExitCommandError, ErrCodeUnknownID, fmt.Sprintf("no property with id %q", id), nil)
	}

	details := describeProperty(p, fmtr)
	return out.Success(details, func(w io.Writer) {
		writeDetails(w, details)
	})
}

func describeProperty(p catalog.Property, fmtr *catalog.Formatter) PropertyDetails {
	return PropertyDetails{
		Property: p,
		Price:    fmtr.Price(p.Price),
		Added:    fmtr.Date(p.DateAdded),
		Geohash:  p.Geohash(),
	}
}

func writeDetails(w io.Writer, d PropertyDetails) {
	p := d.Property
	fmt.Fprintf(w, "%s  %s\n", p.ID, p.Type)
	line := func(label, value string) {
		if value != "" {
			fmt.Fprintf(w, "  %-12s %s\n", label+":", value)
		}
	}
	line("Price", d.Price)
	line("Bedrooms", fmt.Sprint(p.Bedrooms))
	line("Added", d.Added)
	line("Postcode", p.Postcode)
	line("Location", p.Location)
	line("Tenure", p.Tenure)
	line("Geohash", d.Geohash)
	line("Summary", p.Description)
	line("Details", p.LongDescription)
	if n := len(p.Images); n > 0 {
		line("Images", plural(n, "image", "images"))
	}
	line("Floor plan", p.FloorPlan)
}
