package search

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blancasnz/personal-book-tracker/internal/book"
)

func TestMergeAttachesEditionCounts(t *testing.T) {
	primary := []book.Book{
		{Title: "Dune Messiah", Author: "Frank Herbert"},
		{Title: "Dune", Author: "Frank Herbert"},
	}
	popularity := []book.Book{
		{Title: "Dune", Author: "Frank Herbert", EditionCount: 70},
		{Title: "Dune Messiah", Author: "Frank Herbert", EditionCount: 25},
	}

	merged := mergeWithPopularity(primary, popularity, "dune")

	require.Len(t, merged, 2)
	require.Equal(t, "Dune", merged[0].Title)
	require.Equal(t, "Dune Messiah", merged[1].Title)
}

func TestMergeSupplementsPopularUnmatched(t *testing.T) {
	primary := []book.Book{
		{Title: "Dune Messiah", Author: "Frank Herbert"},
	}
	popularity := []book.Book{
		{Title: "Dune", Author: "Frank Herbert", EditionCount: 70,
			CoverURL: "https://example.com/dune.jpg"},
	}

	merged := mergeWithPopularity(primary, popularity, "dune")

	require.Len(t, merged, 2)
	require.Equal(t, "Dune", merged[0].Title)
	require.Equal(t, 70, merged[0].EditionCount)
}

func TestMergeGateRejectsMissingCover(t *testing.T) {
	popularity := []book.Book{
		{Title: "Dune", Author: "Frank Herbert", EditionCount: 70},
	}

	merged := mergeWithPopularity(nil, popularity, "dune")
	require.Empty(t, merged)
}

func TestMergeGateRejectsBelowFloor(t *testing.T) {
	popularity := []book.Book{
		{Title: "Dune", Author: "Frank Herbert", EditionCount: 9,
			CoverURL: "https://example.com/dune.jpg"},
	}

	merged := mergeWithPopularity(nil, popularity, "dune")
	require.Empty(t, merged)
}

func TestMergeGateRejectsUnrelatedTitle(t *testing.T) {
	popularity := []book.Book{
		{Title: "Pride and Prejudice", Author: "Jane Austen", EditionCount: 300,
			CoverURL: "https://example.com/pp.jpg"},
	}

	merged := mergeWithPopularity(nil, popularity, "dune")
	require.Empty(t, merged)
}

func TestMergeGateTitlePrefixEitherWay(t *testing.T) {
	popularity := []book.Book{
		{Title: "Dune Messiah", Author: "Frank Herbert", EditionCount: 25,
			CoverURL: "https://example.com/dm.jpg"},
		{Title: "Dune", Author: "Frank Herbert", EditionCount: 70,
			CoverURL: "https://example.com/dune.jpg"},
	}

	// Query is a prefix of the first title; the second title is a
	// prefix of a longer query.
	merged := mergeWithPopularity(nil, popularity, "dune")
	require.Len(t, merged, 2)

	merged = mergeWithPopularity(nil, []book.Book{popularity[1]}, "dune messiah")
	require.Len(t, merged, 1)
}

func TestMergeGateAuthorContainmentNeedsLongQuery(t *testing.T) {
	popularity := []book.Book{
		{Title: "The Left Hand of Darkness", Author: "Ursula K. Le Guin",
			EditionCount: 40, CoverURL: "https://example.com/lhd.jpg"},
	}

	// "guin" appears in the author but is far too short to count.
	merged := mergeWithPopularity(nil, popularity, "guin")
	require.Empty(t, merged)

	// A query covering most of the author name passes the gate.
	merged = mergeWithPopularity(nil, popularity, "ursula k. le guin")
	require.Len(t, merged, 1)
}

func TestMergeAuthorMatchOutranksEditions(t *testing.T) {
	primary := []book.Book{
		{Title: "Herbert's Garden Guide", Author: "Jane Smith"},
		{Title: "Dune", Author: "Frank Herbert"},
	}
	popularity := []book.Book{
		{Title: "Herbert's Garden Guide", Author: "Jane Smith", EditionCount: 90},
		{Title: "Dune", Author: "Frank Herbert", EditionCount: 70},
	}

	merged := mergeWithPopularity(primary, popularity, "frank herbert")

	require.Equal(t, "Dune", merged[0].Title)
}

func TestMergeQualityBreaksTies(t *testing.T) {
	rich := book.Book{Title: "Dune", Author: "Frank Herbert",
		ISBN: "1", CoverURL: "c", Description: "d", PageCount: 604}
	poor := book.Book{Title: "Dune Chronicles", Author: "Frank Herbert"}

	merged := mergeWithPopularity([]book.Book{poor, rich}, nil, "dune")

	require.Equal(t, "Dune", merged[0].Title)
}
