package openlibrary

import (
	"encoding/json"
	"fmt"

	"github.com/blancasnz/personal-book-tracker/internal/book"
)

// genreCap bounds the subject list carried over from search docs, which
// can run to hundreds of tags.
const genreCap = 5

type searchResponse struct {
	Docs []searchDoc `json:"docs"`
}

type searchDoc struct {
	Key              string          `json:"key"`
	Title            string          `json:"title"`
	AuthorName       []string        `json:"author_name"`
	CoverID          int             `json:"cover_i"`
	ISBN             []string        `json:"isbn"`
	FirstSentence    json.RawMessage `json:"first_sentence"`
	FirstPublishYear int             `json:"first_publish_year"`
	PagesMedian      int             `json:"number_of_pages_median"`
	Subject          []string        `json:"subject"`
	EditionCount     int             `json:"edition_count"`
}

// normalizeDoc converts one search doc into the canonical shape.
// Returns false when the doc lacks a title or any author; such docs
// cannot be matched against the primary catalog and are dropped.
func normalizeDoc(doc searchDoc) (book.Book, bool) {
	if doc.Title == "" || len(doc.AuthorName) == 0 {
		return book.Book{}, false
	}

	coverURL := ""
	if doc.CoverID > 0 {
		coverURL = coverImageURL(doc.CoverID)
	}

	isbn := ""
	if len(doc.ISBN) > 0 {
		isbn = doc.ISBN[0]
	}

	genres := doc.Subject
	if len(genres) > genreCap {
		genres = genres[:genreCap]
	}

	return book.Book{
		Title:         doc.Title,
		Author:        doc.AuthorName[0],
		ISBN:          isbn,
		CoverURL:      coverURL,
		Description:   firstSentence(doc.FirstSentence),
		PublishedYear: doc.FirstPublishYear,
		PageCount:     doc.PagesMedian,
		Genres:        genres,
		EditionCount:  doc.EditionCount,
	}, true
}

// firstSentence extracts a usable description from the first_sentence
// field, which Open Library serves as a plain string, a list of
// strings, or a typed {"value": ...} object depending on the record.
func firstSentence(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return list[0]
	}

	var typed struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(raw, &typed); err == nil {
		return typed.Value
	}
	return ""
}

// coverImageURL returns the large cover image URL for a cover ID.
func coverImageURL(coverID int) string {
	return fmt.Sprintf("https://covers.openlibrary.org/b/id/%d-L.jpg", coverID)
}
