package viral

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"viralwatch/internal/domain/content"
)

func TestRankNilRecordsIsContractViolation(t *testing.T) {
	_, err := Rank(nil, time.Now().UTC(), 10)
	assert.ErrorIs(t, err, ErrNilRecords)
}

func TestRankEmptyCollection(t *testing.T) {
	digest, err := Rank([]*content.ContentRecord{}, time.Now().UTC(), 10)

	require.NoError(t, err)
	assert.Zero(t, digest.TotalCollected)
	assert.Empty(t, digest.TopViral)
	assert.Empty(t, digest.CrossPlatformHits)
	assert.Empty(t, digest.ByCategory)
	assert.Empty(t, digest.ByPlatform)
	assert.NotEmpty(t, digest.ID)
}

func TestCompositeScore(t *testing.T) {
	// Velocity contribution caps at 10 points
	assert.InDelta(t, 10.0, CompositeScore(500, 0), 0.001)
	assert.InDelta(t, 5.0, CompositeScore(50, 0), 0.001)

	// Cross-platform presence adds up to 5 more
	assert.InDelta(t, 12.0, CompositeScore(500, 0.4), 0.001)
	assert.InDelta(t, 15.0, CompositeScore(9999, 1.0), 0.001)
}

func TestRankCompositeScenario(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	records := []*content.ContentRecord{
		{
			ID: "hn_1", Title: "Launch", URL: "https://x.com/a",
			Source: content.SourceHackerNews, Category: content.CategoryAI,
			RawScore: 500, CreatedAt: now.Add(-5 * time.Hour),
		},
		{
			ID: "reddit_1", Title: "Launch", URL: "https://x.com/a",
			Source: content.SourceReddit, Category: content.CategoryAI,
			RawScore: 1000, CreatedAt: now.Add(-4 * time.Hour),
		},
		{
			ID: "gh_1", Title: "foo/bar", URL: "https://github.com/foo/bar",
			Source: content.SourceGitHub, Category: content.CategoryTech,
			RawScore: 50, CreatedAt: now.Add(-1 * time.Hour),
		},
	}

	digest, err := Rank(records, now, 10)
	require.NoError(t, err)

	require.Len(t, digest.CrossPlatformHits, 1)
	hit := digest.CrossPlatformHits[0]
	assert.Equal(t, "reddit_1", hit.ID)
	assert.Equal(t, []content.Source{content.SourceHackerNews, content.SourceReddit}, hit.PlatformsFound)

	require.NotEmpty(t, digest.TopViral)
	assert.Equal(t, "reddit_1", digest.TopViral[0].ID)
	assert.Equal(t, 3, digest.TotalCollected)
}

func TestRankDeterministicOrdering(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	build := func() []*content.ContentRecord {
		return []*content.ContentRecord{
			// Same viral score and raw score: ID breaks the tie
			record("hn_b", content.SourceHackerNews, "https://one.example.com/x", 100),
			record("hn_a", content.SourceHackerNews, "https://two.example.com/y", 100),
			record("hn_c", content.SourceHackerNews, "https://three.example.com/z", 100),
			record("reddit_1", content.SourceReddit, "https://four.example.com/w", 250),
		}
	}

	first, err := Rank(build(), now, 10)
	require.NoError(t, err)
	second, err := Rank(build(), now, 10)
	require.NoError(t, err)

	require.Equal(t, len(first.TopViral), len(second.TopViral))
	for i := range first.TopViral {
		assert.Equal(t, first.TopViral[i].ID, second.TopViral[i].ID)
	}

	// The equal-scored block is ordered by ID ascending
	assert.Equal(t, "reddit_1", first.TopViral[0].ID)
	assert.Equal(t, "hn_a", first.TopViral[1].ID)
	assert.Equal(t, "hn_b", first.TopViral[2].ID)
	assert.Equal(t, "hn_c", first.TopViral[3].ID)
}

func TestRankTruncatesToTopN(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	records := []*content.ContentRecord{
		record("hn_1", content.SourceHackerNews, "https://a.example.com/1", 500),
		record("hn_2", content.SourceHackerNews, "https://b.example.com/2", 400),
		record("hn_3", content.SourceHackerNews, "https://c.example.com/3", 300),
	}

	digest, err := Rank(records, now, 2)
	require.NoError(t, err)

	assert.Len(t, digest.TopViral, 2)
	// Truncation never hides the full count
	assert.Equal(t, 3, digest.TotalCollected)
}

func TestRankGroupsSortedByViralScore(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	low := record("hn_low", content.SourceHackerNews, "https://a.example.com/1", 10)
	high := record("hn_high", content.SourceHackerNews, "https://b.example.com/2", 900)
	other := record("reddit_1", content.SourceReddit, "https://c.example.com/3", 50)
	low.Category = content.CategoryAI
	high.Category = content.CategoryAI
	other.Category = content.CategorySaaS

	digest, err := Rank([]*content.ContentRecord{low, high, other}, now, 10)
	require.NoError(t, err)

	ai := digest.ByCategory[content.CategoryAI]
	require.Len(t, ai, 2)
	assert.Equal(t, "hn_high", ai[0].ID)
	assert.Equal(t, "hn_low", ai[1].ID)

	hn := digest.ByPlatform[content.SourceHackerNews]
	require.Len(t, hn, 2)
	assert.Equal(t, "hn_high", hn[0].ID)
}
