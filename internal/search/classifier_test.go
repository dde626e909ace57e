package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blancasnz/personal-book-tracker/internal/book"
	"github.com/blancasnz/personal-book-tracker/internal/openlibrary"
)

func TestClassifyAuthorWinsOnEditions(t *testing.T) {
	popularity := &fakePopularity{results: map[openlibrary.Field][]book.Book{
		openlibrary.FieldAuthor: {{Title: "Dune", Author: "Frank Herbert", EditionCount: 70}},
		openlibrary.FieldTitle:  {{Title: "Frank Herbert", Author: "Other", EditionCount: 3}},
	}}

	c := classify(context.Background(), popularity, "frank herbert")
	require.True(t, c.isAuthor)
}

func TestClassifyTieGoesToTitle(t *testing.T) {
	popularity := &fakePopularity{results: map[openlibrary.Field][]book.Book{
		openlibrary.FieldAuthor: {{Title: "A", Author: "X", EditionCount: 10}},
		openlibrary.FieldTitle:  {{Title: "B", Author: "Y", EditionCount: 10}},
	}}

	c := classify(context.Background(), popularity, "ambiguous")
	require.False(t, c.isAuthor)
}

func TestClassifyEmptyLookupsDefaultToTitle(t *testing.T) {
	c := classify(context.Background(), &fakePopularity{}, "anything")
	require.False(t, c.isAuthor)
	require.Empty(t, c.popularity)
}

func TestMergePopularityKeepsHigherEditionCount(t *testing.T) {
	primary := []book.Book{
		{Title: "Dune", Author: "Frank Herbert", EditionCount: 70},
	}
	secondary := []book.Book{
		{Title: "Dune", Author: "Frank Herbert", EditionCount: 85},
		{Title: "Dune Messiah", Author: "Frank Herbert", EditionCount: 25},
	}

	merged := mergePopularity(primary, secondary)

	require.Len(t, merged, 2)
	require.Equal(t, 85, merged[0].EditionCount)
	require.Equal(t, "Dune Messiah", merged[1].Title)
}

func TestMergePopularitySortsByEditionsDescending(t *testing.T) {
	primary := []book.Book{
		{Title: "Minor Work", Author: "A", EditionCount: 2},
		{Title: "Major Work", Author: "A", EditionCount: 50},
	}

	merged := mergePopularity(primary, nil)

	require.Equal(t, "Major Work", merged[0].Title)
	require.Equal(t, "Minor Work", merged[1].Title)
}

func TestMergePopularityNormalizesTitles(t *testing.T) {
	primary := []book.Book{
		{Title: "The Hobbit", Author: "J.R.R. Tolkien", EditionCount: 60},
	}
	secondary := []book.Book{
		{Title: "Hobbit: There and Back Again", Author: "J.R.R. Tolkien", EditionCount: 40},
	}

	merged := mergePopularity(primary, secondary)

	// "The Hobbit" and "Hobbit: ..." normalize to the same key.
	require.Len(t, merged, 1)
	require.Equal(t, 60, merged[0].EditionCount)
}
