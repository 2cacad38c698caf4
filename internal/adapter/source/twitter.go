// internal/adapter/source/twitter.go

package source

import (
	"context"
	"fmt"
	"net/http"
	"time"

	twitter "github.com/g8rswimmer/go-twitter/v2"

	"viralwatch/internal/domain/content"
)

// searchQuery targets high-signal AI/tech conversation, excluding retweets so
// engagement is counted on the original tweet only
const searchQuery = `("OpenAI" OR "Anthropic" OR "DeepMind" OR "AGI" OR "LLM" OR "AI breakthrough") -is:retweet lang:en`

// TwitterClient collects viral tweets via the Twitter API v2 recent search
type TwitterClient struct {
	client *twitter.Client
	token  string
}

type bearerAuthorizer struct {
	token string
}

func (a bearerAuthorizer) Add(req *http.Request) {
	req.Header.Add("Authorization", "Bearer "+a.token)
}

// NewTwitterClient creates a new Twitter client. Without a bearer token the
// adapter is disabled and Fetch returns no records.
func NewTwitterClient(bearerToken string) *TwitterClient {
	if bearerToken == "" {
		return &TwitterClient{}
	}

	return &TwitterClient{
		token: bearerToken,
		client: &twitter.Client{
			Authorizer: bearerAuthorizer{token: bearerToken},
			Client: &http.Client{
				Timeout: time.Second * 10,
			},
			Host: "https://api.twitter.com",
		},
	}
}

// Name returns the platform tag
func (c *TwitterClient) Name() content.Source {
	return content.SourceTwitter
}

// IsEnabled reports whether the adapter has credentials to run
func (c *TwitterClient) IsEnabled() bool {
	return c.token != ""
}

// Fetch searches recent tweets matching the monitored keywords and keeps
// those whose total engagement clears cfg.MinScore. When a tweet links out,
// the first expanded URL becomes the record URL so cross-platform matching
// can see the shared resource instead of the tweet itself.
func (c *TwitterClient) Fetch(ctx context.Context, cfg content.SourceConfig) ([]*content.ContentRecord, error) {
	if !c.IsEnabled() {
		return nil, nil
	}

	opts := twitter.TweetRecentSearchOpts{
		MaxResults: searchLimit(cfg.Limit),
		TweetFields: []twitter.TweetField{
			twitter.TweetFieldCreatedAt,
			twitter.TweetFieldPublicMetrics,
			twitter.TweetFieldEntities,
			twitter.TweetFieldAuthorID,
		},
		Expansions: []twitter.Expansion{
			twitter.ExpansionAuthorID,
		},
	}

	resp, err := c.client.TweetRecentSearch(ctx, searchQuery, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search tweets: %w", err)
	}

	usernames := make(map[string]string)
	if resp.Raw.Includes != nil {
		for _, user := range resp.Raw.Includes.Users {
			usernames[user.ID] = user.UserName
		}
	}

	now := time.Now().UTC()
	var records []*content.ContentRecord
	for _, tweet := range resp.Raw.Tweets {
		engagement := tweetEngagement(tweet)
		if engagement < cfg.MinScore {
			continue
		}
		records = append(records, c.toRecord(tweet, usernames[tweet.AuthorID], engagement, now))
	}

	return records, nil
}

func (c *TwitterClient) toRecord(tweet *twitter.TweetObj, username string, engagement int, now time.Time) *content.ContentRecord {
	createdAt := now
	if tweet.CreatedAt != "" {
		if parsed, err := time.Parse(time.RFC3339, tweet.CreatedAt); err == nil {
			createdAt = parsed.UTC()
		}
	}

	// Prefer the shared link over the tweet permalink for matching
	url := fmt.Sprintf("https://twitter.com/i/status/%s", tweet.ID)
	if tweet.Entities != nil {
		for _, entity := range tweet.Entities.URLs {
			if entity.ExpandedURL != "" {
				url = entity.ExpandedURL
				break
			}
		}
	}

	description := tweet.Text
	if username != "" {
		description = "@" + username + ": " + truncate(tweet.Text, 200)
	}

	replies := 0
	if tweet.PublicMetrics != nil {
		replies = tweet.PublicMetrics.Replies
	}

	return &content.ContentRecord{
		ID:            fmt.Sprintf("%s_%s", content.SourceTwitter, tweet.ID),
		Title:         truncate(tweet.Text, 100),
		URL:           url,
		Source:        content.SourceTwitter,
		Category:      categorize(tweet.Text),
		RawScore:      engagement,
		CreatedAt:     createdAt,
		CommentsCount: replies,
		Description:   description,
	}
}

// searchLimit clamps a configured limit to the 10..100 range the recent
// search endpoint accepts as max_results
func searchLimit(configured int) int {
	if configured <= 0 || configured > 100 {
		return 50
	}
	if configured < 10 {
		return 10
	}
	return configured
}

// tweetEngagement sums retweets, likes, replies and quotes
func tweetEngagement(tweet *twitter.TweetObj) int {
	m := tweet.PublicMetrics
	if m == nil {
		return 0
	}
	return m.Retweets + m.Likes + m.Replies + m.Quotes
}
