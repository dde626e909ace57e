package search

import (
	"sort"
	"strings"

	"github.com/blancasnz/personal-book-tracker/internal/book"
)

// popularityFloor is the minimum edition count a popularity-catalog
// record needs to enter the results on its own, without a matching
// primary-catalog hit.
const popularityFloor = 10

// scoredCandidate wraps a book with its ranking signals for one pass.
// Never persisted; dropped as soon as the final ordering is built.
type scoredCandidate struct {
	book         book.Book
	authorMatch  int
	editionCount int
	quality      int
}

// mergeWithPopularity combines deduplicated primary-catalog results
// with the popularity set into one ordered sequence:
//
//  1. Primary results pick up the edition count of the popularity entry
//     sharing their normalized title, if any.
//  2. Popular records with no primary match are included only when they
//     clear the popularity floor, have a cover, and pass a relevance
//     gate against the query.
//  3. Everything sorts by (author match, edition count, quality score)
//     descending.
func mergeWithPopularity(primary, popularity []book.Book, query string) []book.Book {
	queryLower := strings.ToLower(strings.TrimSpace(query))
	queryNorm := book.NormalizeTitle(query)

	// Popularity index: normalized title -> record, first occurrence wins.
	type popEntry struct {
		book    book.Book
		matched bool
	}
	popIndex := make(map[string]*popEntry)
	var popOrder []string
	for _, b := range popularity {
		key := book.NormalizeTitle(b.Title)
		if key == "" {
			continue
		}
		if _, ok := popIndex[key]; !ok {
			popIndex[key] = &popEntry{book: b}
			popOrder = append(popOrder, key)
		}
	}

	scored := make([]scoredCandidate, 0, len(primary)+len(popOrder))

	for _, b := range primary {
		editionCount := 0
		if entry, ok := popIndex[book.NormalizeTitle(b.Title)]; ok {
			editionCount = entry.book.EditionCount
			entry.matched = true
		}

		authorMatch := 0
		if queryLower != "" && strings.Contains(strings.ToLower(b.Author), queryLower) {
			authorMatch = 1
		}

		scored = append(scored, scoredCandidate{
			book:         b,
			authorMatch:  authorMatch,
			editionCount: editionCount,
			quality:      book.QualityScore(b),
		})
	}

	// Supplement with popular records the primary catalog missed, but
	// only when the query is meaningfully related to the record, so a
	// generic query cannot drag in unrelated famous books.
	for _, key := range popOrder {
		entry := popIndex[key]
		if entry.matched || entry.book.EditionCount < popularityFloor || entry.book.CoverURL == "" {
			continue
		}

		titleRelevant := key == queryNorm ||
			strings.HasPrefix(key, queryNorm) ||
			strings.HasPrefix(queryNorm, key)

		authorLower := strings.ToLower(entry.book.Author)
		// The length guard keeps a short query from spuriously
		// "matching" inside a long author string.
		authorRelevant := queryLower != "" &&
			strings.Contains(authorLower, queryLower) &&
			len(queryLower)*10 > len(authorLower)*4

		if !titleRelevant && !authorRelevant {
			continue
		}

		authorMatch := 0
		if authorRelevant {
			authorMatch = 1
		}
		scored = append(scored, scoredCandidate{
			book:         entry.book,
			authorMatch:  authorMatch,
			editionCount: entry.book.EditionCount,
			quality:      book.QualityScore(entry.book),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.authorMatch != b.authorMatch {
			return a.authorMatch > b.authorMatch
		}
		if a.editionCount != b.editionCount {
			return a.editionCount > b.editionCount
		}
		return a.quality > b.quality
	})

	out := make([]book.Book, len(scored))
	for i, c := range scored {
		out[i] = c.book
	}
	return out
}
