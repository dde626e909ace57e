package book

import (
	"sort"
	"strings"
)

// Deduplicate collapses records that refer to the same book, keyed by
// lowercased (title, author). Among duplicates the record with the
// strictly higher quality score wins; the first-seen record wins ties.
// Records without a title or author, or whose only author is the
// unknown-author sentinel, are skipped entirely.
//
// When query is non-empty, records whose author contains the query text
// sort above records that merely score well, so a search for an author
// ranks their books over books *about* them.
func Deduplicate(books []Book, query string) []Book {
	type candidate struct {
		book        Book
		score       int
		authorMatch int
	}

	queryLower := strings.ToLower(strings.TrimSpace(query))

	seen := make(map[string]candidate)
	var order []string

	for _, b := range books {
		title := strings.ToLower(strings.TrimSpace(b.Title))
		author := strings.ToLower(strings.TrimSpace(b.Author))
		if title == "" || author == "" || author == strings.ToLower(UnknownAuthor) {
			continue
		}

		key := title + "|" + author
		score := QualityScore(b)

		existing, ok := seen[key]
		if ok && score <= existing.score {
			continue
		}
		if !ok {
			order = append(order, key)
		}

		authorMatch := 0
		if queryLower != "" && strings.Contains(author, queryLower) {
			authorMatch = 1
		}
		seen[key] = candidate{book: b, score: score, authorMatch: authorMatch}
	}

	result := make([]candidate, 0, len(order))
	for _, key := range order {
		result = append(result, seen[key])
	}

	// Author relevance outranks pure quality. Stable so that equal
	// candidates keep insertion order.
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].authorMatch != result[j].authorMatch {
			return result[i].authorMatch > result[j].authorMatch
		}
		return result[i].score > result[j].score
	})

	out := make([]Book, len(result))
	for i, c := range result {
		out[i] = c.book
	}
	return out
}
