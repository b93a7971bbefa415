package model

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGraphEmbedsSeed(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	g := NewGraph("1700000000000-ab12cd34", now)

	require.Len(t, g.Keywords, GraphSize)
	require.Len(t, g.Books, GraphSize)

	assert.Equal(t, "bench-1700000000000-ab12cd34", g.Instructor.Slug)
	assert.True(t, strings.HasSuffix(g.Instructor.ExternalID, "1700000000000-ab12cd34"))
	assert.Equal(t, now, g.Instructor.CreatedAt)

	seen := map[string]bool{}
	for _, k := range g.Keywords {
		assert.Contains(t, k.Name, "1700000000000-ab12cd34")
		assert.False(t, seen[k.Name], "duplicate keyword name %q", k.Name)
		seen[k.Name] = true
	}
	for _, b := range g.Books {
		assert.Contains(t, b.ISBN, "1700000000000-ab12cd34")
		assert.Zero(t, b.ID)
	}
}

func TestNewGraphDistinctSeeds(t *testing.T) {
	now := time.Now()
	a := NewGraph("a", now)
	b := NewGraph("b", now)
	assert.NotEqual(t, a.Instructor.Slug, b.Instructor.Slug)
	assert.NotEqual(t, a.Instructor.ExternalID, b.Instructor.ExternalID)
	assert.NotEqual(t, a.Keywords[0].Name, b.Keywords[0].Name)
}

func TestLinks(t *testing.T) {
	books := BookLinks(7, []int64{11, 12})
	assert.Equal(t, []InstructorBook{
		{InstructorID: 7, BookID: 11},
		{InstructorID: 7, BookID: 12},
	}, books)

	keywords := KeywordLinks(7, []int64{21, 22})
	require.Len(t, keywords, 2)
	assert.Equal(t, 0, keywords[0].Order)
	assert.Equal(t, 1, keywords[1].Order)
	assert.Equal(t, int64(22), keywords[1].KeywordID)
}

func TestIDs(t *testing.T) {
	assert.Equal(t, []int64{3, 1, 2}, IDs([]IDRow{{ID: 3}, {ID: 1}, {ID: 2}}))
	assert.Empty(t, IDs(nil))
}
