// internal/adapter/source/github.go

package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/go-github/v66/github"

	"viralwatch/internal/domain/content"
)

// trendingWindow is how far back the search for breakout repositories looks.
// Repositories older than this have had time to accumulate stars slowly and
// are not breakout candidates.
const trendingWindow = 7 * 24 * time.Hour

// GitHubClient collects fast-rising repositories via the GitHub search API
type GitHubClient struct {
	client *github.Client
}

// NewGitHubClient creates a new GitHub client. Token is optional; without it
// the search API allows a small unauthenticated rate.
func NewGitHubClient(token string) *GitHubClient {
	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	return &GitHubClient{client: client}
}

// Name returns the platform tag
func (c *GitHubClient) Name() content.Source {
	return content.SourceGitHub
}

// Fetch searches for repositories created within the trending window, ordered
// by stars. A young repository with a high star count is the API-shaped
// equivalent of the trending page.
func (c *GitHubClient) Fetch(ctx context.Context, cfg content.SourceConfig) ([]*content.ContentRecord, error) {
	limit := cfg.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	now := time.Now().UTC()
	since := now.Add(-trendingWindow).Format("2006-01-02")

	minStars := cfg.MinScore
	if minStars < 1 {
		minStars = 1
	}
	query := fmt.Sprintf("created:>=%s stars:>=%d", since, minStars)

	result, _, err := c.client.Search.Repositories(ctx, query, &github.SearchOptions{
		Sort:  "stars",
		Order: "desc",
		ListOptions: github.ListOptions{
			PerPage: limit,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search GitHub repositories: %w", err)
	}

	records := make([]*content.ContentRecord, 0, len(result.Repositories))
	for _, repo := range result.Repositories {
		records = append(records, c.toRecord(repo, now))
	}

	return records, nil
}

func (c *GitHubClient) toRecord(repo *github.Repository, now time.Time) *content.ContentRecord {
	name := repo.GetFullName()
	description := repo.GetDescription()

	createdAt := now
	if !repo.GetCreatedAt().IsZero() {
		createdAt = repo.GetCreatedAt().Time.UTC()
	}

	var tags []string
	if lang := repo.GetLanguage(); lang != "" {
		tags = append(tags, lang)
	}

	return &content.ContentRecord{
		ID:            fmt.Sprintf("%s_%s", content.SourceGitHub, strings.ReplaceAll(name, "/", "_")),
		Title:         name,
		URL:           repo.GetHTMLURL(),
		Source:        content.SourceGitHub,
		Category:      categorize(name + " " + description),
		RawScore:      repo.GetStargazersCount(),
		CreatedAt:     createdAt,
		CommentsCount: repo.GetOpenIssuesCount(),
		Description:   description,
		Tags:          tags,
	}
}
