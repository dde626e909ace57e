package googlebooks

import (
	"fmt"
	"strings"

	"github.com/blancasnz/personal-book-tracker/internal/book"
)

// volumesResponse matches the Google Books volumes list shape.
type volumesResponse struct {
	TotalItems int      `json:"totalItems"`
	Items      []volume `json:"items"`
}

type volume struct {
	ID         string     `json:"id"`
	VolumeInfo volumeInfo `json:"volumeInfo"`
}

type volumeInfo struct {
	Title               string   `json:"title"`
	Authors             []string `json:"authors"`
	PublishedDate       string   `json:"publishedDate"`
	Description         string   `json:"description"`
	PageCount           int      `json:"pageCount"`
	Categories          []string `json:"categories"`
	IndustryIdentifiers []struct {
		Type       string `json:"type"`
		Identifier string `json:"identifier"`
	} `json:"industryIdentifiers"`
	ImageLinks struct {
		Thumbnail      string `json:"thumbnail"`
		SmallThumbnail string `json:"smallThumbnail"`
	} `json:"imageLinks"`
}

// normalizeVolume converts one volume into the canonical shape. Returns
// false when the record has no usable title; such records are dropped
// without affecting their siblings.
func normalizeVolume(v volume) (book.Book, bool) {
	info := v.VolumeInfo
	if info.Title == "" {
		return book.Book{}, false
	}

	author := book.UnknownAuthor
	if len(info.Authors) > 0 {
		author = info.Authors[0]
	}

	return book.Book{
		Title:         info.Title,
		Author:        author,
		ISBN:          pickISBN(info),
		CoverURL:      coverURL(v),
		Description:   info.Description,
		PublishedYear: book.ExtractYear(info.PublishedDate),
		PageCount:     info.PageCount,
		Genres:        info.Categories,
	}, true
}

// pickISBN prefers an ISBN-13 over an ISBN-10 when both are offered.
func pickISBN(info volumeInfo) string {
	isbn := ""
	for _, id := range info.IndustryIdentifiers {
		switch id.Type {
		case "ISBN_13":
			return id.Identifier
		case "ISBN_10":
			if isbn == "" {
				isbn = id.Identifier
			}
		}
	}
	return isbn
}

// coverURL builds a cover image URL, preferring the stable
// identifier-derived form. The thumbnail URLs the search API returns
// carry signed tokens that expire and frequently come back HTTP 204,
// so they are only a fallback, with https forced.
func coverURL(v volume) string {
	if v.ID != "" {
		return fmt.Sprintf("https://books.google.com/books/publisher/content/images/frontcover/%s?fife=w400-h600", v.ID)
	}

	cover := v.VolumeInfo.ImageLinks.Thumbnail
	if cover == "" {
		cover = v.VolumeInfo.ImageLinks.SmallThumbnail
	}
	return strings.Replace(cover, "http://", "https://", 1)
}
