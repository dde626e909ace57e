package openlibrary

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blancasnz/personal-book-tracker/internal/testutil"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := testutil.NewServer(t, handler)
	c := NewClient()
	c.BaseURL = server.URL
	c.HTTPClient = server.Client()
	return c
}

func TestSearchByFieldParams(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search.json", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		require.Equal(t, "herbert", q.Get("author"))
		require.Equal(t, "30", q.Get("limit"))
		require.Equal(t, "editions", q.Get("sort"))
		_, _ = w.Write([]byte(`{"docs": []}`))
	})

	c := newTestClient(t, mux)
	require.Empty(t, c.SearchByField(context.Background(), FieldAuthor, "herbert", 30))
}

func TestSearchByFieldNormalizesDocs(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search.json", func(w http.ResponseWriter, r *http.Request) {
		response := `{
			"docs": [
				{
					"key": "/works/OL893415W",
					"title": "Dune",
					"author_name": ["Frank Herbert"],
					"cover_i": 11481354,
					"isbn": ["9780441013593", "0441013597"],
					"first_sentence": ["A beginning is the time for taking the most delicate care."],
					"first_publish_year": 1965,
					"number_of_pages_median": 604,
					"subject": ["Fiction", "Dune (Imaginary place)", "Spice", "Sandworms", "Desert", "Politics"],
					"edition_count": 152
				},
				{"title": "Orphaned Doc"},
				{"author_name": ["No Title"]}
			]
		}`
		_, _ = w.Write([]byte(response))
	})

	c := newTestClient(t, mux)
	books := c.SearchByField(context.Background(), FieldTitle, "dune", 30)

	require.Len(t, books, 1)
	b := books[0]
	require.Equal(t, "Dune", b.Title)
	require.Equal(t, "Frank Herbert", b.Author)
	require.Equal(t, "9780441013593", b.ISBN)
	require.Equal(t, "https://covers.openlibrary.org/b/id/11481354-L.jpg", b.CoverURL)
	require.Equal(t, "A beginning is the time for taking the most delicate care.", b.Description)
	require.Equal(t, 1965, b.PublishedYear)
	require.Equal(t, 604, b.PageCount)
	require.Len(t, b.Genres, 5, "subjects must be capped")
	require.Equal(t, 152, b.EditionCount)
}

func TestSearchByFieldSwallowsErrors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search.json", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	})

	c := newTestClient(t, mux)
	require.Empty(t, c.SearchByField(context.Background(), FieldTitle, "dune", 30))
}

func TestFirstSentenceShapes(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{name: "plain string", raw: `"It begins."`, expected: "It begins."},
		{name: "list", raw: `["It begins.", "It ends."]`, expected: "It begins."},
		{name: "typed object", raw: `{"type": "/type/text", "value": "It begins."}`, expected: "It begins."},
		{name: "empty list", raw: `[]`, expected: ""},
		{name: "absent", raw: ``, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, firstSentence(json.RawMessage(tt.raw)))
		})
	}
}
