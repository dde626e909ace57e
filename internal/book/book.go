// Package book defines the canonical book record that every catalog
// client normalizes into, plus the scoring and matching helpers shared
// by deduplication and ranking.
package book

// UnknownAuthor is the sentinel used when a provider record carries no
// author at all. Records with this author are excluded from dedup and
// popularity matching because they carry no identity signal.
const UnknownAuthor = "Unknown Author"

// Book is the provider-agnostic representation of a single book.
// Instances are never mutated after normalization; ranking produces new
// orderings of the same values.
type Book struct {
	Title         string   `json:"title"`
	Author        string   `json:"author"`
	ISBN          string   `json:"isbn,omitempty"`
	CoverURL      string   `json:"cover_url,omitempty"`
	Description   string   `json:"description,omitempty"`
	PublishedYear int      `json:"published_year,omitempty"`
	PageCount     int      `json:"page_count,omitempty"`
	Genres        []string `json:"genres,omitempty"`

	// EditionCount is only set on records derived from the popularity
	// catalog. It serves as a fame proxy during ranking.
	EditionCount int `json:"edition_count,omitempty"`
}

// QualityScore measures how much useful information a record carries.
// The weights are fixed; the maximum possible score is 10.
func QualityScore(b Book) int {
	score := 0
	if b.CoverURL != "" {
		score += 3
	}
	if b.Description != "" {
		score += 2
	}
	if b.PageCount > 0 {
		score += 2
	}
	if b.ISBN != "" {
		score++
	}
	if b.PublishedYear > 0 {
		score++
	}
	if len(b.Genres) > 0 {
		score++
	}
	return score
}
