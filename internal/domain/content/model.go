// internal/domain/content/model.go

package content

import (
	"time"
)

// Source identifies the platform a record was collected from
type Source string

// Known platforms
const (
	SourceHackerNews  Source = "hn"
	SourceReddit      Source = "reddit"
	SourceGitHub      Source = "github"
	SourceProductHunt Source = "producthunt"
	SourceTwitter     Source = "twitter"
)

// Content categories assigned by the adapters
const (
	CategoryAI   = "ai"
	CategorySaaS = "saas"
	CategoryVC   = "vc"
	CategoryTech = "tech"
)

// ContentRecord is the canonical unit processed by the engine. Adapters supply
// the identity and raw popularity fields; the ranking engine fills in the
// derived fields.
type ContentRecord struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	URL           string    `json:"url"`
	Source        Source    `json:"source"`
	Category      string    `json:"category"`
	RawScore      int       `json:"raw_score"`
	CreatedAt     time.Time `json:"created_at"`
	CommentsCount int       `json:"comments_count"`
	Description   string    `json:"description,omitempty"`
	Tags          []string  `json:"tags,omitempty"`

	// Derived fields, populated during ranking
	Velocity           float64  `json:"velocity"`
	CrossPlatformScore float64  `json:"cross_platform_score"`
	PlatformsFound     []Source `json:"platforms_found,omitempty"`
	ViralScore         float64  `json:"viral_score"`
}

// Digest is the ranked output of one collection run. It is assembled once and
// never mutated afterwards.
type Digest struct {
	ID                string                      `json:"id"`
	GeneratedAt       time.Time                   `json:"generated_at"`
	TopViral          []*ContentRecord            `json:"top_viral"`
	ByCategory        map[string][]*ContentRecord `json:"by_category"`
	ByPlatform        map[Source][]*ContentRecord `json:"by_platform"`
	CrossPlatformHits []*ContentRecord            `json:"cross_platform_hits"`
	TotalCollected    int                         `json:"total_collected"`
}

// NoveltyEntry records the last observed score for a canonical URL key.
// It is owned exclusively by the novelty tracker.
type NoveltyEntry struct {
	CanonicalKey string    `json:"canonical_key"`
	LastScore    int       `json:"last_score"`
	LastSeenAt   time.Time `json:"last_seen_at"`
}

// SourceConfig holds per-platform collection thresholds. Thresholds are
// filters applied before ranking, not part of the scoring formula.
type SourceConfig struct {
	Enabled     bool
	Limit       int
	MinScore    int
	MinVelocity float64
	Timeout     time.Duration
}

// TrendSummary aggregates distribution statistics over one collection run
type TrendSummary struct {
	TotalContents        int            `json:"total_contents"`
	CategoryDistribution map[string]int `json:"category_distribution"`
	PlatformDistribution map[Source]int `json:"platform_distribution"`
	AverageVelocity      float64        `json:"average_velocity"`
	TopKeywords          []string       `json:"top_keywords"`
}
