// Package googlebooks implements the primary catalog client. It talks
// to the Google Books volumes endpoint and normalizes hits into
// canonical book records.
//
// The client never returns errors to callers: any transport or parse
// failure is logged and degrades to an empty result, so one broken
// provider call can only ever cost results, never a request.
package googlebooks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/blancasnz/personal-book-tracker/internal/book"
	"github.com/blancasnz/personal-book-tracker/internal/ratelimit"
)

const (
	defaultBaseURL = "https://www.googleapis.com/books/v1"
	requestTimeout = 10 * time.Second

	// maxResultsCap is the largest page size the volumes endpoint accepts.
	maxResultsCap = 40
)

// Flavor scopes a search to a single field using Google's query syntax.
type Flavor string

// Search flavors understood by the volumes endpoint.
const (
	FlavorNone   Flavor = ""
	FlavorTitle  Flavor = "intitle"
	FlavorAuthor Flavor = "inauthor"
)

var qualifierTokens = []string{"intitle:", "inauthor:", "isbn:"}

// HasQualifier reports whether the query already carries an explicit
// provider qualifier token. Such queries are forwarded verbatim and
// must not be re-wrapped with a flavor prefix.
func HasQualifier(query string) bool {
	for _, token := range qualifierTokens {
		if strings.Contains(query, token) {
			return true
		}
	}
	return false
}

// Client queries the Google Books API.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Limiter    *ratelimit.Limiter
}

// NewClient creates a client with production defaults. The API key is
// optional; without one Google serves a reduced quota.
func NewClient(apiKey string) *Client {
	return &Client{
		BaseURL:    defaultBaseURL,
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: requestTimeout},
		Limiter:    ratelimit.New("GoogleBooks", 5),
	}
}

// Search runs a keyword search and returns normalized records. A
// non-empty flavor wraps the query in the matching field qualifier
// unless the caller already embedded one. Failures yield an empty
// slice.
func (c *Client) Search(ctx context.Context, query string, maxResults int, flavor Flavor) []book.Book {
	books, err := c.search(ctx, query, maxResults, flavor)
	if err != nil {
		slog.Warn("Google Books search failed", "query", query, "flavor", string(flavor), "error", err)
		return nil
	}
	return books
}

func (c *Client) search(ctx context.Context, query string, maxResults int, flavor Flavor) ([]book.Book, error) {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	if flavor != FlavorNone && !HasQualifier(query) {
		query = string(flavor) + ":" + query
	}
	if maxResults > maxResultsCap {
		maxResults = maxResultsCap
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("printType", "books")
	params.Set("langRestrict", "en")
	params.Set("orderBy", "relevance")
	if c.APIKey != "" {
		params.Set("key", c.APIKey)
	}

	reqURL := fmt.Sprintf("%s/volumes?%s", c.BaseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("volumes request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("volumes request returned status %d", resp.StatusCode)
	}

	var result volumesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding volumes response: %w", err)
	}

	books := make([]book.Book, 0, len(result.Items))
	for _, item := range result.Items {
		if b, ok := normalizeVolume(item); ok {
			books = append(books, b)
		}
	}

	slog.Debug("Google Books search completed", "query", query, "hits", len(books))
	return books, nil
}
