// internal/adapter/source/reddit.go

package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"viralwatch/internal/domain/content"
)

// categorySubreddits maps each category to the subreddits monitored for it
var categorySubreddits = map[string][]string{
	content.CategoryAI:   {"artificial", "MachineLearning", "LocalLLaMA", "ChatGPT", "OpenAI", "ClaudeAI"},
	content.CategorySaaS: {"SaaS", "startups", "Entrepreneur", "microsaas", "indiehackers"},
	content.CategoryVC:   {"venturecapital", "investing"},
}

// RedditClient handles interactions with the Reddit API
type RedditClient struct {
	HTTPClient *http.Client
	BaseURL    string
	UserAgent  string
}

// RedditPost represents a post from Reddit
type RedditPost struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Permalink   string  `json:"permalink"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	Subreddit   string  `json:"subreddit"`
	Created     float64 `json:"created_utc"`
	SelfText    string  `json:"selftext"`
	Author      string  `json:"author"`
	IsSelf      bool    `json:"is_self"`
}

// redditListing represents the structure of a Reddit listing response
type redditListing struct {
	Kind string `json:"kind"`
	Data struct {
		After    string `json:"after"`
		Children []struct {
			Kind string     `json:"kind"`
			Data RedditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// NewRedditClient creates a new Reddit API client
func NewRedditClient() *RedditClient {
	return &RedditClient{
		HTTPClient: &http.Client{
			Timeout: time.Second * 10,
		},
		BaseURL:   "https://www.reddit.com",
		UserAgent: "viralwatch/1.0",
	}
}

// Name returns the platform tag
func (c *RedditClient) Name() content.Source {
	return content.SourceReddit
}

// Fetch collects hot and rising posts from the monitored subreddits across
// all categories. Rising listings surface posts while their score is still
// climbing, which is where breakout detection matters most.
func (c *RedditClient) Fetch(ctx context.Context, cfg content.SourceConfig) ([]*content.ContentRecord, error) {
	perSub := 10
	if cfg.Limit > 0 && cfg.Limit < perSub {
		perSub = cfg.Limit
	}

	now := time.Now().UTC()
	seen := make(map[string]bool)
	var records []*content.ContentRecord
	var lastErr error
	fetched := 0

	for category, subreddits := range categorySubreddits {
		for _, subreddit := range subreddits {
			for _, listing := range []string{"hot", "rising"} {
				if ctx.Err() != nil {
					return records, ctx.Err()
				}

				posts, err := c.listPosts(ctx, subreddit, listing, perSub)
				if err != nil {
					lastErr = err
					continue
				}
				fetched++

				for _, post := range posts {
					if post.Score < cfg.MinScore || seen[post.ID] {
						continue
					}
					seen[post.ID] = true
					records = append(records, c.toRecord(post, category, now))
				}
			}
		}
	}

	// Only fail hard when nothing at all could be fetched
	if fetched == 0 && lastErr != nil {
		return nil, lastErr
	}

	return records, nil
}

func (c *RedditClient) toRecord(post RedditPost, category string, now time.Time) *content.ContentRecord {
	url := post.URL
	if post.IsSelf {
		url = "https://reddit.com" + post.Permalink
	}

	createdAt := now
	if post.Created > 0 {
		createdAt = time.Unix(int64(post.Created), 0).UTC()
	}

	description := "r/" + post.Subreddit
	if post.SelfText != "" {
		description = truncate(post.SelfText, 200)
	}

	return &content.ContentRecord{
		ID:            fmt.Sprintf("%s_%s", content.SourceReddit, post.ID),
		Title:         post.Title,
		URL:           url,
		Source:        content.SourceReddit,
		Category:      category,
		RawScore:      post.Score,
		CreatedAt:     createdAt,
		CommentsCount: post.NumComments,
		Description:   description,
	}
}

// listPosts fetches one listing (hot or rising) for a subreddit
func (c *RedditClient) listPosts(ctx context.Context, subreddit, listing string, limit int) ([]RedditPost, error) {
	url := fmt.Sprintf("%s/r/%s/%s.json?limit=%d&raw_json=1", c.BaseURL, subreddit, listing, limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Reddit rate limits clients without a User-Agent aggressively
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Reddit API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Reddit API returned status code %d", resp.StatusCode)
	}

	var parsed redditListing
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode Reddit API response: %w", err)
	}

	posts := make([]RedditPost, 0, len(parsed.Data.Children))
	for _, child := range parsed.Data.Children {
		posts = append(posts, child.Data)
	}

	return posts, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
