package viral

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"viralwatch/internal/domain/content"
)

func record(id string, src content.Source, url string, score int) *content.ContentRecord {
	return &content.ContentRecord{
		ID:        id,
		Title:     id,
		URL:       url,
		Source:    src,
		Category:  content.CategoryTech,
		RawScore:  score,
		CreatedAt: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
	}
}

func TestDetectCrossPlatformSymmetry(t *testing.T) {
	a := record("hn_1", content.SourceHackerNews, "https://example.com/post", 100)
	b := record("reddit_1", content.SourceReddit, "https://www.example.com/post/", 50)

	hits := DetectCrossPlatform([]*content.ContentRecord{a, b})

	require.Len(t, hits, 1)
	assert.Equal(t, "hn_1", hits[0].ID)
	assert.Equal(t, []content.Source{content.SourceHackerNews, content.SourceReddit}, hits[0].PlatformsFound)
	assert.InDelta(t, 0.4, hits[0].CrossPlatformScore, 0.001)
}

func TestDetectCrossPlatformSingleSourceExcluded(t *testing.T) {
	var records []*content.ContentRecord
	for i := 0; i < 5; i++ {
		records = append(records, record(
			fmt.Sprintf("hn_%d", i),
			content.SourceHackerNews,
			"https://example.com/same-post",
			100+i,
		))
	}

	hits := DetectCrossPlatform(records)
	assert.Empty(t, hits)
}

func TestDetectCrossPlatformRepresentativeByRawScore(t *testing.T) {
	records := []*content.ContentRecord{
		record("hn_1", content.SourceHackerNews, "https://example.com/a", 500),
		record("reddit_1", content.SourceReddit, "https://example.com/a", 1000),
		record("github_1", content.SourceGitHub, "https://example.com/a", 10),
	}

	hits := DetectCrossPlatform(records)

	require.Len(t, hits, 1)
	assert.Equal(t, "reddit_1", hits[0].ID)
	assert.Len(t, hits[0].PlatformsFound, 3)
	assert.InDelta(t, 0.6, hits[0].CrossPlatformScore, 0.001)
}

func TestDetectCrossPlatformSelfLinksIneligible(t *testing.T) {
	// An HN thread and a Reddit self post discussing their own platforms
	// carry no external signal even if they end up with the same key
	records := []*content.ContentRecord{
		record("hn_1", content.SourceHackerNews, "https://news.ycombinator.com/item?id=1", 900),
		record("reddit_1", content.SourceReddit, "https://reddit.com/r/golang/comments/abc", 800),
	}

	hits := DetectCrossPlatform(records)
	assert.Empty(t, hits)
}

func TestDetectCrossPlatformUnparsableURLNeverMatches(t *testing.T) {
	records := []*content.ContentRecord{
		record("hn_1", content.SourceHackerNews, "not a url", 100),
		record("reddit_1", content.SourceReddit, "not a url", 100),
	}

	hits := DetectCrossPlatform(records)
	assert.Empty(t, hits)
}

func TestDetectCrossPlatformFullTieOrderStable(t *testing.T) {
	// Two buckets tied on both platform count and representative raw score
	// must still come out in a fixed order, run after run
	build := func() []*content.ContentRecord {
		return []*content.ContentRecord{
			record("hn_2", content.SourceHackerNews, "https://example.com/b", 100),
			record("reddit_2", content.SourceReddit, "https://example.com/b", 40),
			record("hn_1", content.SourceHackerNews, "https://example.com/a", 100),
			record("reddit_1", content.SourceReddit, "https://example.com/a", 40),
		}
	}

	for i := 0; i < 50; i++ {
		hits := DetectCrossPlatform(build())
		require.Len(t, hits, 2)
		assert.Equal(t, "hn_1", hits[0].ID, "iteration %d", i)
		assert.Equal(t, "hn_2", hits[1].ID, "iteration %d", i)
	}
}

func TestDetectCrossPlatformSortOrder(t *testing.T) {
	records := []*content.ContentRecord{
		// Two-platform bucket, high raw score
		record("hn_1", content.SourceHackerNews, "https://example.com/a", 5000),
		record("reddit_1", content.SourceReddit, "https://example.com/a", 4000),
		// Three-platform bucket, low raw score
		record("hn_2", content.SourceHackerNews, "https://example.com/b", 10),
		record("reddit_2", content.SourceReddit, "https://example.com/b", 20),
		record("github_2", content.SourceGitHub, "https://example.com/b", 5),
	}

	hits := DetectCrossPlatform(records)

	require.Len(t, hits, 2)
	// More platforms outranks a hotter two-platform bucket
	assert.Equal(t, "reddit_2", hits[0].ID)
	assert.Equal(t, "hn_1", hits[1].ID)
}
