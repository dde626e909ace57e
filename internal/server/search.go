package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/blancasnz/personal-book-tracker/internal/book"
	"github.com/blancasnz/personal-book-tracker/internal/datastore"
	"github.com/blancasnz/personal-book-tracker/internal/openlibrary"
	"github.com/blancasnz/personal-book-tracker/internal/search"
)

const defaultMaxResults = 20

// BookSearcher runs an aggregated external search.
type BookSearcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]book.Book, error)
}

// EditionLister fetches the known editions of a work.
type EditionLister interface {
	Editions(ctx context.Context, title, author string) []openlibrary.Edition
}

// SearchHandler serves external catalog search and edition lookups.
type SearchHandler struct {
	searcher BookSearcher
	editions EditionLister
	store    *datastore.Store
}

func NewSearchHandler(searcher BookSearcher, editions EditionLister, store *datastore.Store) *SearchHandler {
	return &SearchHandler{searcher: searcher, editions: editions, store: store}
}

func (h *SearchHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/external", h.searchExternal)
	rg.POST("/external/add", h.addExternal)
	rg.GET("/editions", h.listEditions)
}

func (h *SearchHandler) searchExternal(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))

	max := defaultMaxResults
	if raw := c.Query("max_results"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 40 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "max_results must be an integer between 1 and 40"})
			return
		}
		max = n
	}

	results, err := h.searcher.Search(c.Request.Context(), query, max)
	if errors.Is(err, search.ErrEmptyQuery) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query":   query,
		"count":   len(results),
		"results": results,
	})
}

func (h *SearchHandler) addExternal(c *gin.Context) {
	var req book.Book
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}
	if strings.TrimSpace(req.Author) == "" {
		req.Author = book.UnknownAuthor
	}

	saved, err := h.store.CreateBook(req)
	if errors.Is(err, datastore.ErrDuplicateISBN) {
		// Adding a book that is already saved is not an error; hand
		// back the stored record so the client can use its id.
		existing, lookupErr := h.store.GetBookByISBN(req.ISBN)
		if lookupErr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
			return
		}
		c.JSON(http.StatusOK, existing)
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	c.JSON(http.StatusCreated, saved)
}

func (h *SearchHandler) listEditions(c *gin.Context) {
	title := strings.TrimSpace(c.Query("title"))
	author := strings.TrimSpace(c.Query("author"))
	if title == "" || author == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and author are required"})
		return
	}

	editions := h.editions.Editions(c.Request.Context(), title, author)
	c.JSON(http.StatusOK, gin.H{
		"title":    title,
		"author":   author,
		"count":    len(editions),
		"editions": editions,
	})
}
