// Package search aggregates book metadata from the primary catalog and
// the popularity catalog into a single ranked result set. The primary
// catalog supplies rich records; the popularity catalog supplies
// edition counts used for query classification and ranking.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/blancasnz/personal-book-tracker/internal/book"
	"github.com/blancasnz/personal-book-tracker/internal/googlebooks"
	"github.com/blancasnz/personal-book-tracker/internal/memcache"
	"github.com/blancasnz/personal-book-tracker/internal/openlibrary"
)

const (
	// resultCacheTTL bounds how long a query's final result list is
	// served without consulting the catalogs again.
	resultCacheTTL = time.Hour

	minResults = 1
	maxResults = 40
)

// ErrEmptyQuery is returned when the query is empty or whitespace.
var ErrEmptyQuery = errors.New("search query must not be empty")

// PrimaryCatalog is the rich-metadata catalog behind a search.
type PrimaryCatalog interface {
	Search(ctx context.Context, query string, maxResults int, flavor googlebooks.Flavor) []book.Book
}

// PopularityCatalog supplies field-scoped lookups with edition counts.
type PopularityCatalog interface {
	SearchByField(ctx context.Context, field openlibrary.Field, query string, limit int) []book.Book
}

// Service orchestrates one search across both catalogs.
type Service struct {
	primary    PrimaryCatalog
	popularity PopularityCatalog
	cache      *memcache.Cache[[]book.Book]
}

// NewService creates a service with the standard one hour result cache.
func NewService(primary PrimaryCatalog, popularity PopularityCatalog) *Service {
	return NewServiceWithCache(primary, popularity, memcache.New[[]book.Book](resultCacheTTL))
}

// NewServiceWithCache creates a service with an injected cache.
func NewServiceWithCache(primary PrimaryCatalog, popularity PopularityCatalog, cache *memcache.Cache[[]book.Book]) *Service {
	return &Service{primary: primary, popularity: popularity, cache: cache}
}

// Search runs the full aggregation pipeline for one query. Results are
// capped at max (clamped to [1, 40]). Catalog failures never surface;
// they only shrink the result set.
func (s *Service) Search(ctx context.Context, query string, max int) ([]book.Book, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	if max < minResults {
		max = minResults
	} else if max > maxResults {
		max = maxResults
	}

	cacheKey := fmt.Sprintf("search:%s:%d", query, max)
	if cached, ok := s.cache.Get(cacheKey); ok {
		slog.Debug("Search served from cache", "query", query)
		return cached, nil
	}

	var results []book.Book
	if googlebooks.HasQualifier(query) {
		// The caller already scoped the query. Classification and
		// popularity ranking would fight the explicit qualifier.
		results = book.Deduplicate(s.primary.Search(ctx, query, max, googlebooks.FlavorNone), query)
	} else {
		results = s.aggregate(ctx, query, max)
	}

	if len(results) > max {
		results = results[:max]
	}

	if len(results) > 0 {
		s.cache.Set(cacheKey, results)
	}

	slog.Info("Search complete", "query", query, "results", len(results))
	return results, nil
}

// aggregate runs the unqualified-query pipeline: a general primary
// lookup and query classification in parallel, then a scoped primary
// lookup, deduplication, and the popularity merge.
func (s *Service) aggregate(ctx context.Context, query string, max int) []book.Book {
	var (
		general []book.Book
		class   classification
	)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		general = s.primary.Search(ctx, query, max, googlebooks.FlavorNone)
	}()
	go func() {
		defer wg.Done()
		class = classify(ctx, s.popularity, query)
	}()
	wg.Wait()

	flavor := googlebooks.FlavorTitle
	if class.isAuthor {
		flavor = googlebooks.FlavorAuthor
	}
	scoped := s.primary.Search(ctx, query, max, flavor)

	// Scoped results lead so they win deduplication ties.
	deduped := book.Deduplicate(append(append([]book.Book{}, scoped...), general...), query)

	if len(class.popularity) == 0 {
		return deduped
	}
	return mergeWithPopularity(deduped, class.popularity, query)
}
