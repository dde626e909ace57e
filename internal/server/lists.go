package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/blancasnz/personal-book-tracker/internal/datastore"
)

// ListsHandler serves reading list management.
type ListsHandler struct {
	store *datastore.Store
}

func NewListsHandler(store *datastore.Store) *ListsHandler {
	return &ListsHandler{store: store}
}

func (h *ListsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.POST("", h.create)
	rg.GET("/:id", h.getOne)
	rg.PUT("/:id", h.update)
	rg.DELETE("/:id", h.remove)
	rg.POST("/:id/books", h.addBook)
	rg.PUT("/:id/books/:book_id", h.updateItem)
	rg.DELETE("/:id/books/:book_id", h.removeBook)
}

type listReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type listItemReq struct {
	BookID int64  `json:"book_id"`
	Status string `json:"status"`
}

func (h *ListsHandler) list(c *gin.Context) {
	lists, err := h.store.Lists()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(lists), "lists": lists})
}

func (h *ListsHandler) create(c *gin.Context) {
	var req listReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	created, err := h.store.CreateList(strings.TrimSpace(req.Name), req.Description)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *ListsHandler) getOne(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	l, err := h.store.GetList(id)
	if errors.Is(err, datastore.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "list not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h *ListsHandler) update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req listReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	updated, err := h.store.UpdateList(id, strings.TrimSpace(req.Name), req.Description)
	if errors.Is(err, datastore.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "list not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ListsHandler) remove(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	err := h.store.DeleteList(id)
	switch {
	case errors.Is(err, datastore.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "list not found"})
	case errors.Is(err, datastore.ErrDefaultList):
		c.JSON(http.StatusBadRequest, gin.H{"error": "default lists cannot be deleted"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "deleted"})
	}
}

func (h *ListsHandler) addBook(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req listItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.BookID < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "book_id is required"})
		return
	}

	err := h.store.AddBook(id, req.BookID, req.Status)
	if errors.Is(err, datastore.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "list or book not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "added"})
}

func (h *ListsHandler) updateItem(c *gin.Context) {
	listID, ok := pathID(c, "id")
	if !ok {
		return
	}
	bookID, ok := pathID(c, "book_id")
	if !ok {
		return
	}

	var req listItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	err := h.store.UpdateItem(listID, bookID, req.Status)
	if errors.Is(err, datastore.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "book is not on this list"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "updated"})
}

func (h *ListsHandler) removeBook(c *gin.Context) {
	listID, ok := pathID(c, "id")
	if !ok {
		return
	}
	bookID, ok := pathID(c, "book_id")
	if !ok {
		return
	}

	err := h.store.RemoveBook(listID, bookID)
	if errors.Is(err, datastore.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "book is not on this list"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "remove failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "removed"})
}
