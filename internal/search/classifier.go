package search

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/blancasnz/personal-book-tracker/internal/book"
	"github.com/blancasnz/personal-book-tracker/internal/openlibrary"
)

// classifierLimit is how many candidates each scoped lookup requests
// from the popularity catalog.
const classifierLimit = 30

// classification is the outcome of deciding whether a query names an
// author or a title, together with the popularity set used for ranking.
type classification struct {
	// isAuthor is true when the author-scoped lookup's top candidate
	// reports strictly more editions than the title-scoped one. Ties
	// classify as a title query.
	isAuthor bool

	// popularity holds the merged candidates of both lookups, one per
	// normalized title (the instance with the higher edition count),
	// sorted by edition count descending.
	popularity []book.Book
}

// classify issues author- and title-scoped lookups concurrently and
// joins both before deciding. A failed lookup contributes an empty set,
// which simply biases the decision toward the other scope.
func classify(ctx context.Context, catalog PopularityCatalog, query string) classification {
	var (
		authorResults []book.Book
		titleResults  []book.Book
	)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		authorResults = catalog.SearchByField(ctx, openlibrary.FieldAuthor, query, classifierLimit)
	}()
	go func() {
		defer wg.Done()
		titleResults = catalog.SearchByField(ctx, openlibrary.FieldTitle, query, classifierLimit)
	}()
	wg.Wait()

	topAuthor, topTitle := 0, 0
	if len(authorResults) > 0 {
		topAuthor = authorResults[0].EditionCount
	}
	if len(titleResults) > 0 {
		topTitle = titleResults[0].EditionCount
	}

	isAuthor := topAuthor > topTitle

	primary, secondary := titleResults, authorResults
	if isAuthor {
		primary, secondary = authorResults, titleResults
	}

	slog.Debug("Query classified",
		"query", query,
		"is_author", isAuthor,
		"top_author_editions", topAuthor,
		"top_title_editions", topTitle,
	)

	return classification{
		isAuthor:   isAuthor,
		popularity: mergePopularity(primary, secondary),
	}
}

// mergePopularity combines the winning scope's results with the losing
// scope's, one entry per normalized title, keeping whichever instance
// reports the higher edition count.
func mergePopularity(primary, secondary []book.Book) []book.Book {
	seen := make(map[string]book.Book)
	var order []string

	for _, b := range append(append([]book.Book{}, primary...), secondary...) {
		key := book.NormalizeTitle(b.Title)
		if key == "" {
			continue
		}
		existing, ok := seen[key]
		if !ok {
			order = append(order, key)
			seen[key] = b
			continue
		}
		if b.EditionCount > existing.EditionCount {
			seen[key] = b
		}
	}

	merged := make([]book.Book, 0, len(order))
	for _, key := range order {
		merged = append(merged, seen[key])
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].EditionCount > merged[j].EditionCount
	})
	return merged
}
