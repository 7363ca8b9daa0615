package search

import (
	"sync/atomic"
	"time"

	"github.com/karlseguin/ccache/v3"

	"github.com/roach88/estate/internal/canonical"
	"github.com/roach88/estate/internal/catalog"
	"github.com/roach88/estate/internal/logging"
)

// keyDomain separates search cache keys from other canonical hashes.
const keyDomain = "estate/search/v1"

// Searcher defaults.
const (
	DefaultCacheSize = 256
	DefaultCacheTTL  = 5 * time.Minute
)

// Result is the outcome of one search submission.
//
// Properties is nil when validation failed. It may share backing storage
// with the catalog and with other results and must not be modified.
type Result struct {
	Criteria   Criteria           `json:"criteria"`
	Validation ValidationResult   `json:"validation"`
	Properties []catalog.Property `json:"properties"`
}

// Stats counts cache lookups.
type Stats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

// Searcher validates and filters against one catalog, memoizing results
// by the canonical form of the criteria. Safe for concurrent use.
type Searcher struct {
	catalog *catalog.Catalog
	cache   *ccache.Cache[*Result]
	ttl     time.Duration
	logger  logging.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

// SearcherOption configures a Searcher.
type SearcherOption func(*searcherConfig)

type searcherConfig struct {
	size   int64
	ttl    time.Duration
	logger logging.Logger
}

// WithCacheSize bounds the number of memoized results.
func WithCacheSize(n int64) SearcherOption {
	return func(c *searcherConfig) {
		if n > 0 {
			c.size = n
		}
	}
}

// WithCacheTTL sets how long a memoized result stays fresh.
func WithCacheTTL(d time.Duration) SearcherOption {
	return func(c *searcherConfig) {
		if d > 0 {
			c.ttl = d
		}
	}
}

// WithLogger sets the logger for cache events.
func WithLogger(l logging.Logger) SearcherOption {
	return func(c *searcherConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewSearcher returns a Searcher over cat. Call Stop when done.
func NewSearcher(cat *catalog.Catalog, opts ...SearcherOption) *Searcher {
	cfg := searcherConfig{
		size:   DefaultCacheSize,
		ttl:    DefaultCacheTTL,
		logger: logging.NewNoOp(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Searcher{
		catalog: cat,
		cache:   ccache.New(ccache.Configure[*Result]().MaxSize(cfg.size)),
		ttl:     cfg.ttl,
		logger:  cfg.logger.With(logging.Fields{"component": "search"}),
	}
}

// Search validates c and, when valid, filters the catalog by it.
func (s *Searcher) Search(c Criteria) (Result, error) {
	key, err := Key(c)
	if err != nil {
		return Result{}, err
	}

	if item := s.cache.Get(key); item != nil && !item.Expired() {
		s.hits.Add(1)
		s.logger.Debug("search cache hit", logging.Fields{"key": key[:12]})
		return *item.Value(), nil
	}
	s.misses.Add(1)

	res := &Result{Criteria: c, Validation: Validate(c)}
	if res.Validation.IsValid {
		res.Properties = Filter(s.catalog.Properties(), c)
	}
	s.cache.Set(key, res, s.ttl)

	s.logger.Debug("search cache miss", logging.Fields{
		"key":     key[:12],
		"valid":   res.Validation.IsValid,
		"results": len(res.Properties),
	})
	return *res, nil
}

// Stats reports cache hits and misses so far.
func (s *Searcher) Stats() Stats {
	return Stats{Hits: s.hits.Load(), Misses: s.misses.Load()}
}

// Stop releases the cache's background worker.
func (s *Searcher) Stop() {
	s.cache.Stop()
}

// Key returns the cache key of c. Criteria with the same present fields
// and values share a key.
func Key(c Criteria) (string, error) {
	return canonical.Hash(keyDomain, c.Map())
}
