// Package nyt implements a client for the New York Times Books API,
// serving curated bestseller lists. Responses are cached for an hour;
// failures degrade to empty results like the catalog clients.
package nyt

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/blancasnz/personal-book-tracker/internal/book"
	"github.com/blancasnz/personal-book-tracker/internal/memcache"
)

const (
	defaultBaseURL = "https://api.nytimes.com/svc/books/v3"
	requestTimeout = 10 * time.Second
	cacheTTL       = time.Hour

	// DefaultList is the bestseller list served when the caller does
	// not name one.
	DefaultList = "combined-print-and-e-book-fiction"
)

// Bestseller is a canonical book record with its chart position.
type Bestseller struct {
	book.Book
	Rank        int    `json:"rank"`
	WeeksOnList int    `json:"weeks_on_list"`
	AmazonURL   string `json:"amazon_url,omitempty"`
}

// ListName describes one available bestseller list.
type ListName struct {
	Name        string `json:"list_name"`
	DisplayName string `json:"display_name"`
	EncodedName string `json:"list_name_encoded"`
	Updated     string `json:"updated"`
}

// Client queries the NYT Books API.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client

	listCache       *memcache.Cache[[]ListName]
	bestsellerCache *memcache.Cache[[]Bestseller]
}

// NewClient creates a client with production defaults.
func NewClient(apiKey string) *Client {
	return &Client{
		BaseURL:         defaultBaseURL,
		APIKey:          apiKey,
		HTTPClient:      &http.Client{Timeout: requestTimeout},
		listCache:       memcache.New[[]ListName](cacheTTL),
		bestsellerCache: memcache.New[[]Bestseller](cacheTTL),
	}
}

// ListNames returns the available bestseller list names.
func (c *Client) ListNames(ctx context.Context) []ListName {
	if cached, ok := c.listCache.Get("nyt_lists"); ok {
		return cached
	}

	var result struct {
		Results []ListName `json:"results"`
	}
	if err := c.getJSON(ctx, "/lists/names.json", &result); err != nil {
		slog.Warn("NYT list names fetch failed", "error", err)
		return nil
	}

	if len(result.Results) > 0 {
		c.listCache.Set("nyt_lists", result.Results)
	}
	return result.Results
}

// Bestsellers returns the current bestsellers for the named list
// (DefaultList when empty).
func (c *Client) Bestsellers(ctx context.Context, listName string) []Bestseller {
	if listName == "" {
		listName = DefaultList
	}

	cacheKey := "nyt_bestsellers_" + listName
	if cached, ok := c.bestsellerCache.Get(cacheKey); ok {
		return cached
	}

	var result struct {
		Results struct {
			Books []nytBook `json:"books"`
		} `json:"results"`
	}
	if err := c.getJSON(ctx, "/lists/current/"+url.PathEscape(listName)+".json", &result); err != nil {
		slog.Warn("NYT bestsellers fetch failed", "list", listName, "error", err)
		return nil
	}

	books := make([]Bestseller, 0, len(result.Results.Books))
	for _, b := range result.Results.Books {
		books = append(books, normalizeBestseller(b))
	}

	if len(books) > 0 {
		c.bestsellerCache.Set(cacheKey, books)
	}
	return books
}

type nytBook struct {
	Title            string `json:"title"`
	Author           string `json:"author"`
	Description      string `json:"description"`
	BookImage        string `json:"book_image"`
	PrimaryISBN13    string `json:"primary_isbn13"`
	PrimaryISBN10    string `json:"primary_isbn10"`
	Rank             int    `json:"rank"`
	WeeksOnList      int    `json:"weeks_on_list"`
	AmazonProductURL string `json:"amazon_product_url"`
}

func normalizeBestseller(b nytBook) Bestseller {
	title := b.Title
	if title == "" {
		title = "Unknown Title"
	}
	author := b.Author
	if author == "" {
		author = book.UnknownAuthor
	}

	isbn := b.PrimaryISBN13
	if isbn == "" {
		isbn = b.PrimaryISBN10
	}

	return Bestseller{
		Book: book.Book{
			Title:       title,
			Author:      author,
			ISBN:        isbn,
			CoverURL:    b.BookImage,
			Description: b.Description,
		},
		Rank:        b.Rank,
		WeeksOnList: b.WeeksOnList,
		AmazonURL:   b.AmazonProductURL,
	}
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	params := url.Values{}
	params.Set("api-key", c.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path+"?"+params.Encode(), nil)
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
