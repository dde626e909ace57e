// Package openlibrary implements the secondary catalog client. Open
// Library supplies the popularity signal (edition counts) used to
// classify and rank searches, and an editions listing for a known work.
//
// Like the primary client, failures never escape: they are logged and
// degrade to empty results.
package openlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/blancasnz/personal-book-tracker/internal/book"
	"github.com/blancasnz/personal-book-tracker/internal/memcache"
	"github.com/blancasnz/personal-book-tracker/internal/ratelimit"
)

const (
	defaultBaseURL = "https://openlibrary.org"
	requestTimeout = 10 * time.Second

	// editionsCacheTTL is longer than the search cache window because
	// edition listings change rarely.
	editionsCacheTTL = 6 * time.Hour
)

// Field selects which document field a search is scoped to.
type Field string

// Search fields accepted by the Open Library search endpoint.
const (
	FieldAuthor Field = "author"
	FieldTitle  Field = "title"
)

// Client queries the Open Library API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Limiter    *ratelimit.Limiter

	editionsCache *memcache.Cache[[]Edition]
}

// NewClient creates a client with production defaults.
func NewClient() *Client {
	return &Client{
		BaseURL:       defaultBaseURL,
		HTTPClient:    &http.Client{Timeout: requestTimeout},
		Limiter:       ratelimit.New("OpenLibrary", 5),
		editionsCache: memcache.New[[]Edition](editionsCacheTTL),
	}
}

// SearchByField runs a field-scoped search sorted by edition count
// descending, so the first hit is the most widely published candidate.
// Failures yield an empty slice.
func (c *Client) SearchByField(ctx context.Context, field Field, query string, limit int) []book.Book {
	books, err := c.search(ctx, field, query, limit)
	if err != nil {
		slog.Warn("Open Library search failed", "field", string(field), "query", query, "error", err)
		return nil
	}
	return books
}

func (c *Client) search(ctx context.Context, field Field, query string, limit int) ([]book.Book, error) {
	var result searchResponse
	params := url.Values{}
	params.Set(string(field), query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("sort", "editions")

	if err := c.getJSON(ctx, "/search.json?"+params.Encode(), &result); err != nil {
		return nil, err
	}

	books := make([]book.Book, 0, len(result.Docs))
	for _, doc := range result.Docs {
		if b, ok := normalizeDoc(doc); ok {
			books = append(books, b)
		}
	}

	slog.Debug("Open Library search completed", "field", string(field), "query", query, "hits", len(books))
	return books, nil
}

// getJSON issues a rate-limited GET against path and decodes the body.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
