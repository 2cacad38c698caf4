// internal/service/viral/ranker.go

package viral

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"viralwatch/internal/domain/content"
)

const (
	// velocityCap bounds the velocity contribution of a single-platform
	// outlier to 10 points
	velocityCap = 10.0
	// velocityDivisor converts raw velocity into score points
	velocityDivisor = 10.0
	// crossPlatformWeight makes confirmed multi-platform presence worth up
	// to 5 points, decisive against velocity ties
	crossPlatformWeight = 5.0
)

// ErrNilRecords is returned when Rank is handed a nil record list. An empty
// list is a normal run; nil is a caller contract violation.
var ErrNilRecords = errors.New("viral: nil record list")

// CompositeScore combines velocity and cross-platform presence into the final
// viral score.
func CompositeScore(velocity, crossPlatformScore float64) float64 {
	base := velocity / velocityDivisor
	if base > velocityCap {
		base = velocityCap
	}
	return base + crossPlatformScore*crossPlatformWeight
}

// Rank computes velocity and composite scores for every record, runs
// cross-platform detection, and assembles the digest for one collection run.
// Ties in viral score break by raw score descending, then ID ascending, so
// identical input always produces identical ordering.
func Rank(records []*content.ContentRecord, now time.Time, topN int) (*content.Digest, error) {
	if records == nil {
		return nil, ErrNilRecords
	}

	for _, rec := range records {
		rec.Velocity = ComputeVelocity(rec.RawScore, rec.CreatedAt, now, 0)
		rec.CrossPlatformScore = 0
		rec.PlatformsFound = nil
	}

	// Annotates the bucket representatives in place
	crossPlatformHits := DetectCrossPlatform(records)

	for _, rec := range records {
		rec.ViralScore = CompositeScore(rec.Velocity, rec.CrossPlatformScore)
	}

	ranked := make([]*content.ContentRecord, len(records))
	copy(ranked, records)
	sortByViralScore(ranked)

	topViral := ranked
	if topN > 0 && len(topViral) > topN {
		topViral = topViral[:topN]
	}

	byCategory := make(map[string][]*content.ContentRecord)
	byPlatform := make(map[content.Source][]*content.ContentRecord)
	for _, rec := range ranked {
		byCategory[rec.Category] = append(byCategory[rec.Category], rec)
		byPlatform[rec.Source] = append(byPlatform[rec.Source], rec)
	}

	return &content.Digest{
		ID:                uuid.New().String(),
		GeneratedAt:       now,
		TopViral:          topViral,
		ByCategory:        byCategory,
		ByPlatform:        byPlatform,
		CrossPlatformHits: crossPlatformHits,
		TotalCollected:    len(records),
	}, nil
}

// sortByViralScore orders records by viral score descending with the
// deterministic tie break: raw score descending, then ID ascending.
func sortByViralScore(records []*content.ContentRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].ViralScore != records[j].ViralScore {
			return records[i].ViralScore > records[j].ViralScore
		}
		if records[i].RawScore != records[j].RawScore {
			return records[i].RawScore > records[j].RawScore
		}
		return records[i].ID < records[j].ID
	})
}
