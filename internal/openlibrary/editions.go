package openlibrary

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/blancasnz/personal-book-tracker/internal/book"
)

// Edition is one published edition of a work, with physical format
// information on top of the canonical fields.
type Edition struct {
	book.Book
	Format    string `json:"format"`
	Label     string `json:"edition,omitempty"`
	Publisher string `json:"publisher,omitempty"`
}

type editionsResponse struct {
	Entries []editionEntry `json:"entries"`
}

type editionEntry struct {
	Title          string   `json:"title"`
	ISBN13         []string `json:"isbn_13"`
	ISBN10         []string `json:"isbn_10"`
	Covers         []int    `json:"covers"`
	Publishers     []string `json:"publishers"`
	PublishDate    string   `json:"publish_date"`
	NumberOfPages  int      `json:"number_of_pages"`
	PhysicalFormat string   `json:"physical_format"`
	Format         string   `json:"format"`
	EditionName    string   `json:"edition_name"`
}

// Editions lists the known editions of a book. It first resolves the
// work via search (single best hit), then fetches the work's editions
// listing. One edition is kept per (format, page count) pair. Results
// are cached; failures yield an empty slice.
func (c *Client) Editions(ctx context.Context, title, author string) []Edition {
	cacheKey := fmt.Sprintf("ol_editions:%s:%s", title, author)
	if c.editionsCache != nil {
		if cached, ok := c.editionsCache.Get(cacheKey); ok {
			slog.Debug("Editions cache hit", "title", title, "author", author)
			return cached
		}
	}

	editions, err := c.fetchEditions(ctx, title, author)
	if err != nil {
		slog.Warn("Open Library editions lookup failed", "title", title, "author", author, "error", err)
		return nil
	}

	if c.editionsCache != nil && len(editions) > 0 {
		c.editionsCache.Set(cacheKey, editions)
	}
	return editions
}

func (c *Client) fetchEditions(ctx context.Context, title, author string) ([]Edition, error) {
	workKey, err := c.findWorkKey(ctx, title, author)
	if err != nil {
		return nil, err
	}
	if workKey == "" {
		return nil, nil
	}

	var result editionsResponse
	if err := c.getJSON(ctx, workKey+"/editions.json", &result); err != nil {
		return nil, err
	}

	editions := make([]Edition, 0, len(result.Entries))
	seenFormats := make(map[string]bool)
	for _, entry := range result.Entries {
		edition := normalizeEdition(entry, title, author)
		formatKey := edition.Format + "_" + strconv.Itoa(edition.PageCount)
		if seenFormats[formatKey] {
			continue
		}
		seenFormats[formatKey] = true
		editions = append(editions, edition)
	}
	return editions, nil
}

// findWorkKey resolves the work identifier for a (title, author) pair.
// Returns "" when no work matches.
func (c *Client) findWorkKey(ctx context.Context, title, author string) (string, error) {
	var result searchResponse
	params := url.Values{}
	params.Set("title", title)
	params.Set("author", author)
	params.Set("limit", "1")

	if err := c.getJSON(ctx, "/search.json?"+params.Encode(), &result); err != nil {
		return "", err
	}
	if len(result.Docs) == 0 {
		return "", nil
	}
	return result.Docs[0].Key, nil
}

func normalizeEdition(entry editionEntry, workTitle, workAuthor string) Edition {
	title := entry.Title
	if title == "" {
		title = workTitle
	}

	isbn := ""
	if len(entry.ISBN13) > 0 {
		isbn = entry.ISBN13[0]
	} else if len(entry.ISBN10) > 0 {
		isbn = entry.ISBN10[0]
	}

	coverURL := ""
	if len(entry.Covers) > 0 && entry.Covers[0] > 0 {
		coverURL = coverImageURL(entry.Covers[0])
	}

	publisher := ""
	if len(entry.Publishers) > 0 {
		publisher = entry.Publishers[0]
	}

	var labelParts []string
	if entry.EditionName != "" {
		labelParts = append(labelParts, entry.EditionName)
	}
	if publisher != "" {
		labelParts = append(labelParts, publisher)
	}

	return Edition{
		Book: book.Book{
			Title:         title,
			Author:        workAuthor,
			ISBN:          isbn,
			CoverURL:      coverURL,
			PublishedYear: yearFromPublishDate(entry.PublishDate),
			PageCount:     entry.NumberOfPages,
		},
		Format:    detectFormat(entry),
		Label:     strings.Join(labelParts, ", "),
		Publisher: publisher,
	}
}

// yearFromPublishDate finds a 4-digit year anywhere in a free-form
// publish date ("Jun 1982", "1982", "June 1, 1982").
func yearFromPublishDate(publishDate string) int {
	for _, token := range strings.Fields(publishDate) {
		token = strings.Trim(token, ",.")
		if len(token) != 4 {
			continue
		}
		if year := book.ExtractYear(token); year > 0 {
			return year
		}
	}
	return 0
}

// detectFormat classifies an edition as ebook, hardcover, paperback,
// audiobook, or unknown from whichever of the format fields is set.
func detectFormat(entry editionEntry) string {
	format := strings.ToLower(entry.Format)
	if strings.Contains(format, "ebook") || strings.Contains(format, "kindle") || strings.Contains(format, "digital") {
		return "ebook"
	}

	physical := strings.ToLower(entry.PhysicalFormat)
	switch {
	case strings.Contains(physical, "hardcover") || strings.Contains(physical, "hardback"):
		return "hardcover"
	case strings.Contains(physical, "paperback") || strings.Contains(physical, "mass market"):
		return "paperback"
	case strings.Contains(physical, "audio") || strings.Contains(format, "audiobook"):
		return "audiobook"
	case strings.Contains(physical, "ebook"):
		return "ebook"
	}

	// Last resort: the format sometimes leaks into the title.
	title := strings.ToLower(entry.Title)
	switch {
	case strings.Contains(title, "kindle edition") || strings.Contains(title, "ebook"):
		return "ebook"
	case strings.Contains(title, "audiobook") || strings.Contains(title, "audio cd"):
		return "audiobook"
	}

	if entry.NumberOfPages > 0 {
		return "paperback"
	}
	return "unknown"
}
