// Package server exposes the book tracker over HTTP: external search,
// the saved library, reading lists, and bestseller charts.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/blancasnz/personal-book-tracker/internal/datastore"
)

const shutdownTimeout = 10 * time.Second

// Server wires the HTTP handlers onto a gin router.
type Server struct {
	router *gin.Engine
}

// New assembles the router from the given backends.
func New(store *datastore.Store, searcher BookSearcher, editions EditionLister, bestsellers BestsellerSource) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	NewSearchHandler(searcher, editions, store).RegisterRoutes(router.Group("/search"))
	NewBooksHandler(store).RegisterRoutes(router.Group("/books"))
	NewListsHandler(store).RegisterRoutes(router.Group("/lists"))
	NewBestsellerHandler(bestsellers).RegisterRoutes(router.Group("/nyt"))

	return &Server{router: router}
}

// Handler returns the underlying HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves HTTP on addr until SIGINT or SIGTERM, then drains
// in-flight requests before returning.
func (s *Server) Run(addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("Shutdown signal received", "signal", sig.String())
	case err := <-errCh:
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	slog.Info("Server stopped")
	return nil
}
