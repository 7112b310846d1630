// Package search implements the free-text product search over every
// manufacturer catalog.
package search

import (
	"context"
	"sort"
	"time"

	"cennik/internal/cache"
	"cennik/internal/datastore"
	"cennik/internal/logger"
)

// IndexCacheKey is the cache entry holding the flattened product index.
const IndexCacheKey = "search:index"

// DefaultLimit is the number of results returned.
const DefaultLimit = 5

// Entry is one product in the search index.
type Entry struct {
	ProducerSlug string `json:"producerSlug"`
	ProducerName string `json:"producerName"`
	Category     string `json:"category"`
	ProductName  string `json:"productName"`
	PreviousName string `json:"previousName,omitempty"`
	Image        string `json:"image,omitempty"`
}

type Result struct {
	Entry
	Score               int  `json:"score"`
	MatchedPreviousName bool `json:"matchedPreviousName"`
}

type Service struct {
	store  *datastore.Store
	cache  cache.Cache
	ttl    time.Duration
	logger *logger.Logger
}

func NewService(store *datastore.Store, c cache.Cache, ttl time.Duration, log *logger.Logger) *Service {
	return &Service{store: store, cache: c, ttl: ttl, logger: log}
}

// Search returns the top matches for query.
func (s *Service) Search(ctx context.Context, query string) ([]Result, error) {
	entries, err := s.index(ctx)
	if err != nil {
		return nil, err
	}
	return Rank(entries, query, DefaultLimit), nil
}

// Invalidate drops the cached index so the next search rereads the catalogs.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Delete(ctx, IndexCacheKey)
}

func (s *Service) index(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	ok, err := s.cache.Get(ctx, IndexCacheKey, &entries)
	if err != nil {
		s.logger.Error("search cache read failed: %v", err)
	}
	if ok {
		return entries, nil
	}

	entries, err = BuildIndex(s.store, s.logger)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, IndexCacheKey, entries, s.ttl); err != nil {
		s.logger.Error("search cache write failed: %v", err)
	}
	return entries, nil
}

// BuildIndex flattens every producer's catalog. Producers whose catalog
// cannot be read are skipped.
func BuildIndex(store *datastore.Store, log *logger.Logger) ([]Entry, error) {
	producers, err := store.Producers()
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for _, p := range producers {
		catalog, err := store.Catalog(p.DataFile)
		if err != nil {
			log.Error("search: skipping %s: %v", p.Slug, err)
			continue
		}
		for _, category := range sortedKeys(catalog.Categories) {
			products := catalog.Categories[category]
			names := make([]string, 0, len(products))
			for name := range products {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				product := products[name]
				e := Entry{
					ProducerSlug: p.Slug,
					ProducerName: p.DisplayName,
					Category:     category,
					ProductName:  name,
				}
				if product != nil {
					e.PreviousName = product.PreviousName
					e.Image = product.Image
				}
				entries = append(entries, e)
			}
		}
	}
	return entries, nil
}

// Rank scores entries and keeps the best limit matches. Equal scores keep
// index order.
func Rank(entries []Entry, query string, limit int) []Result {
	var results []Result
	for _, e := range entries {
		score, prev := bestScore(e.ProductName, e.PreviousName, query)
		if score == NoMatch {
			continue
		}
		results = append(results, Result{Entry: e, Score: score, MatchedPreviousName: prev})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score < results[j].Score
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
