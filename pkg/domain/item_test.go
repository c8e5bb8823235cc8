package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestItemSet_Add(t *testing.T) {
	var s ItemSet
	s.Add(FeedItem{Title: "first", Link: "l1"})
	s.Add(FeedItem{Title: "second", Link: "l2"})
	s.Add(FeedItem{Title: "first", Link: "l1-updated"})

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"first", "second"}, s.Titles())

	it, ok := s.Get("first")
	assert.True(t, ok)
	assert.Equal(t, "l1-updated", it.Link, "later duplicate replaces value")

	_, ok = s.Get("missing")
	assert.False(t, ok)
}

func TestItemSet_Merge(t *testing.T) {
	a := NewItemSet(FeedItem{Title: "a"}, FeedItem{Title: "b"})
	b := NewItemSet(FeedItem{Title: "c"}, FeedItem{Title: "a", Feed: "other"})
	a.Merge(b)

	assert.Equal(t, []string{"a", "b", "c"}, a.Titles())
	it, _ := a.Get("a")
	assert.Equal(t, "other", it.Feed)

	items := a.Items()
	items[0].Title = "changed"
	assert.Equal(t, "a", a.Titles()[0], "Items returns a copy")
}

func TestClampScore(t *testing.T) {
	tbl := []struct{ in, out int }{{-7, 1}, {0, 1}, {1, 1}, {3, 3}, {5, 5}, {6, 5}, {100, 5}}
	for _, tt := range tbl {
		assert.Equal(t, tt.out, ClampScore(tt.in), "score %d", tt.in)
	}
}

func TestFallbackEnrichment(t *testing.T) {
	e := FallbackEnrichment("orig")
	assert.Equal(t, "orig", e.TranslatedAbstract)
	assert.Empty(t, e.Summary)
	assert.Empty(t, e.Terms)
	assert.Equal(t, 3, e.Score)
}

func TestSnapshot(t *testing.T) {
	day := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	s := NewSnapshot(day, []string{"x", "y"})
	assert.Equal(t, "2025-03-14", s.Date)
	assert.Equal(t, 2, s.TotalCount)
	assert.Equal(t, map[string]struct{}{"x": {}, "y": {}}, s.TitleSet())
}

func TestDigest_PapersCount(t *testing.T) {
	d := Digest{Sections: []Section{
		{Keyword: "a", Papers: make([]EnrichedPaper, 2)},
		{Keyword: "b", Papers: make([]EnrichedPaper, 3)},
	}}
	assert.Equal(t, 5, d.PapersCount())
}
