// internal/service/collect/aggregator.go

package collect

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"viralwatch/internal/domain/content"
	"viralwatch/internal/service/tracker"
	"viralwatch/internal/service/viral"
)

// AggregatorConfig contains configuration for the aggregator
type AggregatorConfig struct {
	ScanInterval     time.Duration
	TopN             int
	NoveltyThreshold float64
	RetentionDays    int
	EventsTopic      string
	DefaultTimeout   time.Duration
	SourceConfigs    map[content.Source]content.SourceConfig
}

// Aggregator fans out collection across all registered platform adapters,
// converts their output into ranked digests, and publishes events for
// content that passes the novelty gate.
type Aggregator struct {
	adapters map[content.Source]content.SourceAdapter
	tracker  *tracker.NoveltyTracker
	digests  content.DigestStore
	eventBus *nats.Conn
	config   AggregatorConfig

	mu      sync.RWMutex
	latest  *content.Digest
	summary content.TrendSummary

	adaptersLock sync.RWMutex
	cancel       context.CancelFunc
	wg           sync.WaitGroup
}

// fetchResult carries one adapter's output across the gather barrier
type fetchResult struct {
	source  content.Source
	records []*content.ContentRecord
	err     error
}

// viralEvent is the payload published on the event bus for new or resurged
// viral content
type viralEvent struct {
	ID             string           `json:"id"`
	Title          string           `json:"title"`
	URL            string           `json:"url"`
	Source         content.Source   `json:"source"`
	Category       string           `json:"category"`
	ViralScore     float64          `json:"viral_score"`
	Velocity       float64          `json:"velocity"`
	PlatformsFound []content.Source `json:"platforms_found,omitempty"`
}

// NewAggregator creates a new aggregator
func NewAggregator(
	noveltyTracker *tracker.NoveltyTracker,
	digestStore content.DigestStore,
	eventBus *nats.Conn,
	config AggregatorConfig,
) *Aggregator {
	if config.DefaultTimeout <= 0 {
		config.DefaultTimeout = 30 * time.Second
	}
	if config.TopN <= 0 {
		config.TopN = 20
	}

	return &Aggregator{
		adapters: make(map[content.Source]content.SourceAdapter),
		tracker:  noveltyTracker,
		digests:  digestStore,
		eventBus: eventBus,
		config:   config,
	}
}

// RegisterAdapter adds a platform adapter to the collection fan-out
func (a *Aggregator) RegisterAdapter(adapter content.SourceAdapter) {
	a.adaptersLock.Lock()
	defer a.adaptersLock.Unlock()

	a.adapters[adapter.Name()] = adapter
}

// CollectAndRank runs one full collection pass: every adapter is invoked
// concurrently under its own timeout, failures are isolated to their source,
// the surviving records are filtered by per-source thresholds, and the result
// is ranked into a digest. All adapters failing is not an error; the digest
// is simply empty.
func (a *Aggregator) CollectAndRank(ctx context.Context, topN int) (*content.Digest, error) {
	now := time.Now().UTC()
	records := a.collect(ctx, now)

	if topN <= 0 {
		topN = a.config.TopN
	}

	return viral.Rank(records, now, topN)
}

// collect fans out one goroutine per adapter and gathers their results.
// Results arrive only through the channel after each task finishes, so no
// shared state needs locking during the fan-out itself.
func (a *Aggregator) collect(ctx context.Context, now time.Time) []*content.ContentRecord {
	a.adaptersLock.RLock()
	adapters := make([]content.SourceAdapter, 0, len(a.adapters))
	for _, adapter := range a.adapters {
		adapters = append(adapters, adapter)
	}
	a.adaptersLock.RUnlock()

	results := make(chan fetchResult, len(adapters))

	var wg sync.WaitGroup
	for _, adapter := range adapters {
		cfg := a.sourceConfig(adapter.Name())
		if !cfg.Enabled {
			continue
		}

		wg.Add(1)
		go func(adapter content.SourceAdapter, cfg content.SourceConfig) {
			defer wg.Done()

			fetchCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
			defer cancel()

			recs, err := adapter.Fetch(fetchCtx, cfg)
			if err != nil {
				// Partial output from a failed fetch is discarded to
				// avoid half-collected state
				results <- fetchResult{source: adapter.Name(), err: err}
				return
			}
			results <- fetchResult{source: adapter.Name(), records: recs}
		}(adapter, cfg)
	}

	wg.Wait()
	close(results)

	records := make([]*content.ContentRecord, 0)
	for result := range results {
		if result.err != nil {
			log.Printf("[aggregator] %s collection failed: %v", result.source, result.err)
			continue
		}

		cfg := a.sourceConfig(result.source)
		kept := 0
		for _, rec := range result.records {
			if !a.passesThresholds(rec, cfg, now) {
				continue
			}
			records = append(records, rec)
			kept++
		}
		log.Printf("[aggregator] %s: %d collected, %d kept", result.source, len(result.records), kept)
	}

	return records
}

// passesThresholds applies the per-source filters. These run before ranking
// and are separate from the scoring formula.
func (a *Aggregator) passesThresholds(rec *content.ContentRecord, cfg content.SourceConfig, now time.Time) bool {
	if rec.RawScore < cfg.MinScore {
		return false
	}
	if cfg.MinVelocity > 0 {
		velocity := viral.ComputeVelocity(rec.RawScore, rec.CreatedAt, now, 0)
		if velocity < cfg.MinVelocity {
			return false
		}
	}
	return true
}

func (a *Aggregator) sourceConfig(source content.Source) content.SourceConfig {
	cfg, ok := a.config.SourceConfigs[source]
	if !ok {
		cfg = content.SourceConfig{Enabled: true}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = a.config.DefaultTimeout
	}
	return cfg
}

// Start begins the periodic collection loop
func (a *Aggregator) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	a.wg.Add(1)
	go a.run(runCtx)

	return nil
}

func (a *Aggregator) run(ctx context.Context) {
	defer a.wg.Done()

	// First pass immediately, then on the ticker
	a.runCollection(ctx)

	ticker := time.NewTicker(a.config.ScanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.runCollection(ctx)
		}
	}
}

// runCollection performs one scheduled pass: collect, rank, gate through the
// novelty tracker, publish events, persist, update history, prune.
func (a *Aggregator) runCollection(ctx context.Context) {
	digest, err := a.CollectAndRank(ctx, a.config.TopN)
	if err != nil {
		log.Printf("[aggregator] collection run failed: %v", err)
		return
	}

	now := digest.GeneratedAt
	summary := viral.Summarize(allRecords(digest))

	a.mu.Lock()
	a.latest = digest
	a.summary = summary
	a.mu.Unlock()

	for _, rec := range digest.TopViral {
		if !a.tracker.IsNewOrResurged(ctx, rec, a.config.NoveltyThreshold) {
			continue
		}
		if err := a.publishViralEvent(rec); err != nil {
			log.Printf("[aggregator] publishing viral event: %v", err)
		}
	}

	if a.digests != nil {
		if err := a.digests.SaveDigest(ctx, digest); err != nil {
			log.Printf("[aggregator] warning: saving digest: %v", err)
		}
	}

	a.tracker.UpdateHistory(ctx, digest.TopViral, now)
	a.tracker.Prune(ctx, now, a.config.RetentionDays)

	log.Printf("[aggregator] run complete: %d collected, %d cross-platform hits",
		digest.TotalCollected, len(digest.CrossPlatformHits))
}

// publishViralEvent publishes a viral content event on the event bus
func (a *Aggregator) publishViralEvent(rec *content.ContentRecord) error {
	if a.eventBus == nil {
		return nil
	}

	event := viralEvent{
		ID:             rec.ID,
		Title:          rec.Title,
		URL:            rec.URL,
		Source:         rec.Source,
		Category:       rec.Category,
		ViralScore:     rec.ViralScore,
		Velocity:       rec.Velocity,
		PlatformsFound: rec.PlatformsFound,
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("error marshaling viral event: %w", err)
	}

	topic := fmt.Sprintf("%s.detected", a.config.EventsTopic)
	return a.eventBus.Publish(topic, data)
}

// Latest returns the digest from the most recent collection run, or nil if
// no run has completed yet
func (a *Aggregator) Latest() *content.Digest {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.latest
}

// Summary returns the trend summary from the most recent collection run
func (a *Aggregator) Summary() content.TrendSummary {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.summary
}

// Stop gracefully stops the collection loop
func (a *Aggregator) Stop(ctx context.Context) error {
	if a.cancel != nil {
		a.cancel()
	}

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// allRecords flattens a digest's per-platform groups back into one list
func allRecords(d *content.Digest) []*content.ContentRecord {
	var records []*content.ContentRecord
	for _, group := range d.ByPlatform {
		records = append(records, group...)
	}
	return records
}
