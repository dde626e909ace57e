package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/blancasnz/personal-book-tracker/internal/nyt"
)

// BestsellerSource serves curated bestseller charts.
type BestsellerSource interface {
	Bestsellers(ctx context.Context, listName string) []nyt.Bestseller
	ListNames(ctx context.Context) []nyt.ListName
}

// BestsellerHandler serves the bestseller endpoints.
type BestsellerHandler struct {
	source BestsellerSource
}

func NewBestsellerHandler(source BestsellerSource) *BestsellerHandler {
	return &BestsellerHandler{source: source}
}

func (h *BestsellerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/bestsellers", h.bestsellers)
	rg.GET("/lists", h.lists)
}

func (h *BestsellerHandler) bestsellers(c *gin.Context) {
	listName := c.Query("list_name")

	books := h.source.Bestsellers(c.Request.Context(), listName)
	if books == nil {
		books = []nyt.Bestseller{}
	}
	if listName == "" {
		listName = nyt.DefaultList
	}

	c.JSON(http.StatusOK, gin.H{
		"list_name": listName,
		"count":     len(books),
		"books":     books,
	})
}

func (h *BestsellerHandler) lists(c *gin.Context) {
	names := h.source.ListNames(c.Request.Context())
	if names == nil {
		names = []nyt.ListName{}
	}
	c.JSON(http.StatusOK, gin.H{"count": len(names), "lists": names})
}
