package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/estate/internal/catalog"
	"github.com/roach88/estate/internal/search"
)

// criteriaFlags are the search form inputs shared by search and validate.
type criteriaFlags struct {
	typ         string
	minPrice    string
	maxPrice    string
	minBedrooms string
	maxBedrooms string
	dateMode    string
	dateAfter   string
	dateFrom    string
	dateTo      string
	postcode    string
}

func (f *criteriaFlags) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.typ, "type", "", `property type, or "any"`)
	fs.StringVar(&f.minPrice, "min-price", "", "minimum price")
	fs.StringVar(&f.maxPrice, "max-price", "", "maximum price")
	fs.StringVar(&f.minBedrooms, "min-bedrooms", "", "minimum bedrooms")
	fs.StringVar(&f.maxBedrooms, "max-bedrooms", "", "maximum bedrooms")
	fs.StringVar(&f.dateMode, "date-mode", "after", "date filter mode (after|between)")
	fs.StringVar(&f.dateAfter, "date-after", "", "added on or after (after mode)")
	fs.StringVar(&f.dateFrom, "date-from", "", "added on or after (between mode)")
	fs.StringVar(&f.dateTo, "date-to", "", "added on or before (between mode)")
	fs.StringVar(&f.postcode, "postcode", "", "postcode prefix")
}

// criteria builds the submission the search form would send.
func (f *criteriaFlags) criteria() (search.Criteria, error) {
	mode, err := search.ParseDateMode(f.dateMode)
	if err != nil {
		return search.Criteria{}, err
	}
	form := search.Form{
		Type:        f.typ,
		MinPrice:    f.minPrice,
		MaxPrice:    f.maxPrice,
		MinBedrooms: f.minBedrooms,
		MaxBedrooms: f.maxBedrooms,
		DateMode:    mode,
		DateAfter:   f.dateAfter,
		DateFrom:    f.dateFrom,
		DateTo:      f.dateTo,
		Postcode:    f.postcode,
	}
	return form.Criteria(), nil
}

// propertyTable writes one aligned line per property.
func propertyTable(w io.Writer, props []catalog.Property, fmtr *catalog.Formatter) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, p := range props {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d bed\t%s\t%s\n",
			p.ID, p.Type, fmtr.Price(p.Price), p.Bedrooms, p.Postcode, p.Location)
	}
	tw.Flush()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

func writeValidationErrors(w io.Writer, errs []string) {
	fmt.Fprintln(w, "Invalid search criteria:")
	for _, e := range errs {
		fmt.Fprintf(w, "  - %s\n", e)
	}
}

func describeCriteria(c search.Criteria) string {
	m := c.Map()
	if len(m) == 0 {
		return "(none)"
	}
	parts := make([]string, 0, len(m))
	for _, name := range search.Fields {
		if v, ok := m[name]; ok {
			parts = append(parts, name+"="+v)
		}
	}
	return strings.Join(parts, " ")
}
