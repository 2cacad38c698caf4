// internal/adapter/source/hn.go

package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"viralwatch/internal/domain/content"
)

// HackerNewsClient collects stories from the Hacker News Firebase API
type HackerNewsClient struct {
	HTTPClient *http.Client
	BaseURL    string
}

// hnItem is the wire shape of a Hacker News item
type hnItem struct {
	ID          int    `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Score       int    `json:"score"`
	Descendants int    `json:"descendants"`
	By          string `json:"by"`
	Time        int64  `json:"time"`
}

// NewHackerNewsClient creates a new Hacker News client
func NewHackerNewsClient() *HackerNewsClient {
	return &HackerNewsClient{
		HTTPClient: &http.Client{
			Timeout: time.Second * 10,
		},
		BaseURL: "https://hacker-news.firebaseio.com/v0",
	}
}

// Name returns the platform tag
func (c *HackerNewsClient) Name() content.Source {
	return content.SourceHackerNews
}

// Fetch collects stories from the top and new listings, drops those below
// cfg.MinScore, and converts the rest to canonical records. Stories without
// an outbound URL keep their HN thread URL the way the site itself does.
func (c *HackerNewsClient) Fetch(ctx context.Context, cfg content.SourceConfig) ([]*content.ContentRecord, error) {
	limit := cfg.Limit
	if limit <= 0 {
		limit = 100
	}

	now := time.Now().UTC()
	seen := make(map[int]bool)
	var records []*content.ContentRecord

	for _, endpoint := range []string{"topstories", "newstories"} {
		ids, err := c.listStoryIDs(ctx, endpoint)
		if err != nil {
			return nil, err
		}

		// The listings are long; checking the first 200 is enough to
		// catch anything moving fast
		if len(ids) > 200 {
			ids = ids[:200]
		}

		for _, id := range ids {
			if len(records) >= limit {
				return records, nil
			}
			if seen[id] {
				continue
			}
			seen[id] = true

			item, err := c.getItem(ctx, id)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				continue
			}
			if item == nil || item.Type != "story" || item.Score < cfg.MinScore {
				continue
			}

			records = append(records, c.toRecord(item, now))
		}
	}

	return records, nil
}

func (c *HackerNewsClient) toRecord(item *hnItem, now time.Time) *content.ContentRecord {
	url := item.URL
	if url == "" {
		url = fmt.Sprintf("https://news.ycombinator.com/item?id=%d", item.ID)
	}

	createdAt := now
	if item.Time > 0 {
		createdAt = time.Unix(item.Time, 0).UTC()
	}

	return &content.ContentRecord{
		ID:            fmt.Sprintf("%s_%d", content.SourceHackerNews, item.ID),
		Title:         item.Title,
		URL:           url,
		Source:        content.SourceHackerNews,
		Category:      categorize(item.Title),
		RawScore:      item.Score,
		CreatedAt:     createdAt,
		CommentsCount: item.Descendants,
		Description:   fmt.Sprintf("Points: %d | Comments: %d", item.Score, item.Descendants),
	}
}

func (c *HackerNewsClient) listStoryIDs(ctx context.Context, endpoint string) ([]int, error) {
	url := fmt.Sprintf("%s/%s.json", c.BaseURL, endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Hacker News API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Hacker News API returned status code %d", resp.StatusCode)
	}

	var ids []int
	if err := json.NewDecoder(resp.Body).Decode(&ids); err != nil {
		return nil, fmt.Errorf("failed to decode Hacker News response: %w", err)
	}

	return ids, nil
}

func (c *HackerNewsClient) getItem(ctx context.Context, id int) (*hnItem, error) {
	url := fmt.Sprintf("%s/item/%d.json", c.BaseURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch item %d: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Hacker News API returned status code %d", resp.StatusCode)
	}

	var item hnItem
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		return nil, fmt.Errorf("failed to decode item %d: %w", id, err)
	}

	return &item, nil
}
