// internal/adapter/source/producthunt.go

package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"viralwatch/internal/domain/content"
)

// ProductHuntClient collects launches from the Product Hunt GraphQL API
type ProductHuntClient struct {
	HTTPClient *http.Client
	APIURL     string
	Token      string
}

const productHuntPostsQuery = `
query ($first: Int!) {
  posts(order: VOTES, first: $first) {
    edges {
      node {
        id
        name
        tagline
        description
        url
        votesCount
        commentsCount
        createdAt
        topics(first: 5) {
          edges {
            node {
              slug
            }
          }
        }
      }
    }
  }
}`

type productHuntResponse struct {
	Data struct {
		Posts struct {
			Edges []struct {
				Node productHuntPost `json:"node"`
			} `json:"edges"`
		} `json:"posts"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type productHuntPost struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Tagline       string    `json:"tagline"`
	Description   string    `json:"description"`
	URL           string    `json:"url"`
	VotesCount    int       `json:"votesCount"`
	CommentsCount int       `json:"commentsCount"`
	CreatedAt     time.Time `json:"createdAt"`
	Topics        struct {
		Edges []struct {
			Node struct {
				Slug string `json:"slug"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"topics"`
}

// NewProductHuntClient creates a new Product Hunt client. Without a token the
// adapter is disabled and Fetch returns no records.
func NewProductHuntClient(token string) *ProductHuntClient {
	return &ProductHuntClient{
		HTTPClient: &http.Client{
			Timeout: time.Second * 10,
		},
		APIURL: "https://api.producthunt.com/v2/api/graphql",
		Token:  token,
	}
}

// Name returns the platform tag
func (c *ProductHuntClient) Name() content.Source {
	return content.SourceProductHunt
}

// IsEnabled reports whether the adapter has credentials to run
func (c *ProductHuntClient) IsEnabled() bool {
	return c.Token != ""
}

// Fetch collects today's top launches, dropping those below cfg.MinScore votes
func (c *ProductHuntClient) Fetch(ctx context.Context, cfg content.SourceConfig) ([]*content.ContentRecord, error) {
	if !c.IsEnabled() {
		return nil, nil
	}

	limit := cfg.Limit
	if limit <= 0 || limit > 50 {
		limit = 30
	}

	posts, err := c.topPosts(ctx, limit)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var records []*content.ContentRecord
	for _, post := range posts {
		if post.VotesCount < cfg.MinScore {
			continue
		}
		records = append(records, c.toRecord(post, now))
	}

	return records, nil
}

func (c *ProductHuntClient) toRecord(post productHuntPost, now time.Time) *content.ContentRecord {
	topics := make([]string, 0, len(post.Topics.Edges))
	for _, edge := range post.Topics.Edges {
		topics = append(topics, edge.Node.Slug)
	}

	createdAt := post.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = now
	}

	// Product Hunt is overwhelmingly SaaS launches; only AI stands out
	category := content.CategorySaaS
	text := post.Name + " " + post.Tagline + " " + post.Description
	if categorize(text) == content.CategoryAI {
		category = content.CategoryAI
	}

	return &content.ContentRecord{
		ID:            fmt.Sprintf("%s_%s", content.SourceProductHunt, post.ID),
		Title:         post.Name,
		URL:           post.URL,
		Source:        content.SourceProductHunt,
		Category:      category,
		RawScore:      post.VotesCount,
		CreatedAt:     createdAt,
		CommentsCount: post.CommentsCount,
		Description:   post.Tagline,
		Tags:          topics,
	}
}

func (c *ProductHuntClient) topPosts(ctx context.Context, limit int) ([]productHuntPost, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"query": productHuntPostsQuery,
		"variables": map[string]interface{}{
			"first": limit,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal GraphQL payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Product Hunt API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Product Hunt API returned status code %d", resp.StatusCode)
	}

	var parsed productHuntResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode Product Hunt response: %w", err)
	}

	if len(parsed.Errors) > 0 {
		return nil, fmt.Errorf("Product Hunt API error: %s", parsed.Errors[0].Message)
	}

	posts := make([]productHuntPost, 0, len(parsed.Data.Posts.Edges))
	for _, edge := range parsed.Data.Posts.Edges {
		posts = append(posts, edge.Node)
	}

	return posts, nil
}
