package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/estate/internal/catalog"
	"github.com/roach88/estate/internal/logging"
	"github.com/roach88/estate/internal/search"
)

// loadCatalog opens the configured catalog. Failures are reported on the
// command's output and come back as an ExitError.
func (o *RootOptions) loadCatalog(cmd *cobra.Command) (*catalog.Catalog, error) {
	if err := o.resolve(cmd); err != nil {
		return nil, err
	}

	path := o.cfg.Catalog.Path
	cat, err := catalog.Load(cmd.Context(), path)
	if err != nil {
		o.logger.WithError(err).Debug("catalog load failed", logging.Fields{"path": path})
		return nil, o.formatter(cmd).FailErr(err)
	}

	o.logger.Debug("catalog loaded", logging.Fields{"path": path, "properties": cat.Len()})
	return cat, nil
}

// newSearcher builds a Searcher tuned by the search config section.
func (o *RootOptions) newSearcher(cat *catalog.Catalog) *search.Searcher {
	return search.NewSearcher(cat,
		search.WithCacheSize(o.cfg.Search.CacheSize),
		search.WithCacheTTL(o.cfg.Search.CacheTTL),
		search.WithLogger(o.logger),
	)
}

// newFormatter builds the display formatter for the configured currency.
func (o *RootOptions) newFormatter(cmd *cobra.Command) (*catalog.Formatter, error) {
	f, err := catalog.NewFormatter(o.cfg.Display.Currency)
	if err != nil {
		return nil, o.formatter(cmd).FailErr(err)
	}
	return f, nil
}
