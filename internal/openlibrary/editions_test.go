package openlibrary

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEditionsTwoStepLookup(t *testing.T) {
	var searchCalls, editionsCalls int

	mux := http.NewServeMux()
	mux.HandleFunc("/search.json", func(w http.ResponseWriter, r *http.Request) {
		searchCalls++
		q := r.URL.Query()
		require.Equal(t, "Dune", q.Get("title"))
		require.Equal(t, "Frank Herbert", q.Get("author"))
		require.Equal(t, "1", q.Get("limit"))
		_, _ = w.Write([]byte(`{"docs": [{"key": "/works/OL893415W", "title": "Dune", "author_name": ["Frank Herbert"]}]}`))
	})
	mux.HandleFunc("/works/OL893415W/editions.json", func(w http.ResponseWriter, r *http.Request) {
		editionsCalls++
		response := `{
			"entries": [
				{
					"title": "Dune",
					"isbn_13": ["9780441013593"],
					"covers": [11481354],
					"publishers": ["Ace Books"],
					"publish_date": "June 1, 1990",
					"number_of_pages": 604,
					"physical_format": "Paperback"
				},
				{
					"title": "Dune",
					"isbn_10": ["0441013597"],
					"publish_date": "1984",
					"number_of_pages": 604,
					"physical_format": "Mass Market Paperback"
				},
				{
					"title": "Dune",
					"physical_format": "Hardcover",
					"number_of_pages": 540
				}
			]
		}`
		_, _ = w.Write([]byte(response))
	})

	c := newTestClient(t, mux)
	editions := c.Editions(context.Background(), "Dune", "Frank Herbert")

	// The two paperback entries share (format, page count) and collapse.
	require.Len(t, editions, 2)

	first := editions[0]
	require.Equal(t, "paperback", first.Format)
	require.Equal(t, "9780441013593", first.ISBN)
	require.Equal(t, "https://covers.openlibrary.org/b/id/11481354-L.jpg", first.CoverURL)
	require.Equal(t, "Ace Books", first.Publisher)
	require.Equal(t, 1990, first.PublishedYear)
	require.Equal(t, 604, first.PageCount)
	require.Equal(t, "Frank Herbert", first.Author)

	require.Equal(t, "hardcover", editions[1].Format)

	// Second call is served from cache.
	c.Editions(context.Background(), "Dune", "Frank Herbert")
	require.Equal(t, 1, searchCalls)
	require.Equal(t, 1, editionsCalls)
}

func TestEditionsNoWorkFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"docs": []}`))
	})

	c := newTestClient(t, mux)
	require.Empty(t, c.Editions(context.Background(), "Nonexistent", "Nobody"))
}

func TestEditionsSwallowsErrors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search.json", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	})

	c := newTestClient(t, mux)
	require.Empty(t, c.Editions(context.Background(), "Dune", "Frank Herbert"))
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name     string
		entry    editionEntry
		expected string
	}{
		{name: "explicit ebook", entry: editionEntry{Format: "EBook"}, expected: "ebook"},
		{name: "kindle", entry: editionEntry{Format: "Kindle Edition"}, expected: "ebook"},
		{name: "hardcover", entry: editionEntry{PhysicalFormat: "Hardcover"}, expected: "hardcover"},
		{name: "hardback", entry: editionEntry{PhysicalFormat: "hardback"}, expected: "hardcover"},
		{name: "mass market", entry: editionEntry{PhysicalFormat: "Mass Market Paperback"}, expected: "paperback"},
		{name: "audio cd title", entry: editionEntry{Title: "Dune (Audio CD)"}, expected: "audiobook"},
		{name: "pages imply paperback", entry: editionEntry{NumberOfPages: 300}, expected: "paperback"},
		{name: "nothing known", entry: editionEntry{}, expected: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, detectFormat(tt.entry))
		})
	}
}

func TestYearFromPublishDate(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"June 1, 1990", 1990},
		{"1984", 1984},
		{"circa 1850.", 1850},
		{"n.d.", 0},
		{"", 0},
	}

	for _, tt := range tests {
		require.Equal(t, tt.expected, yearFromPublishDate(tt.input), "input %q", tt.input)
	}
}
