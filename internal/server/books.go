package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/blancasnz/personal-book-tracker/internal/book"
	"github.com/blancasnz/personal-book-tracker/internal/datastore"
)

// BooksHandler serves the saved library.
type BooksHandler struct {
	store *datastore.Store
}

func NewBooksHandler(store *datastore.Store) *BooksHandler {
	return &BooksHandler{store: store}
}

func (h *BooksHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.POST("", h.create)
	rg.GET("/:id", h.getOne)
	rg.PUT("/:id", h.update)
	rg.DELETE("/:id", h.remove)
}

func (h *BooksHandler) list(c *gin.Context) {
	var (
		books []datastore.StoredBook
		err   error
	)
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		books, err = h.store.SearchBooks(q)
	} else {
		books, err = h.store.ListBooks()
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	if books == nil {
		books = []datastore.StoredBook{}
	}

	c.JSON(http.StatusOK, gin.H{"count": len(books), "books": books})
}

func (h *BooksHandler) create(c *gin.Context) {
	var req book.Book
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Author) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and author are required"})
		return
	}

	saved, err := h.store.CreateBook(req)
	if errors.Is(err, datastore.ErrDuplicateISBN) {
		c.JSON(http.StatusConflict, gin.H{"error": "book with this ISBN is already saved"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	c.JSON(http.StatusCreated, saved)
}

func (h *BooksHandler) getOne(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	b, err := h.store.GetBook(id)
	if errors.Is(err, datastore.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BooksHandler) update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req book.Book
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Author) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and author are required"})
		return
	}

	updated, err := h.store.UpdateBook(id, req)
	switch {
	case errors.Is(err, datastore.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
	case errors.Is(err, datastore.ErrDuplicateISBN):
		c.JSON(http.StatusConflict, gin.H{"error": "book with this ISBN is already saved"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
	default:
		c.JSON(http.StatusOK, updated)
	}
}

func (h *BooksHandler) remove(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	err := h.store.DeleteBook(id)
	if errors.Is(err, datastore.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// pathID parses a numeric path parameter, writing the error response
// itself when the value is not a positive integer.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a positive integer"})
		return 0, false
	}
	return id, true
}
