package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"viralwatch/internal/domain/content"
)

func newHNTestServer(t *testing.T, items map[int]string, top, fresh string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/topstories.json", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, top)
	})
	mux.HandleFunc("/newstories.json", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, fresh)
	})
	mux.HandleFunc("/item/", func(w http.ResponseWriter, r *http.Request) {
		var id int
		if _, err := fmt.Sscanf(r.URL.Path, "/item/%d.json", &id); err != nil {
			http.NotFound(w, r)
			return
		}
		body, ok := items[id]
		if !ok {
			fmt.Fprint(w, "null")
			return
		}
		fmt.Fprint(w, body)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHackerNewsFetch(t *testing.T) {
	created := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC).Unix()
	items := map[int]string{
		1: fmt.Sprintf(`{"id":1,"type":"story","title":"Claude ships agents","url":"https://example.com/agents","score":120,"descendants":40,"time":%d}`, created),
		2: fmt.Sprintf(`{"id":2,"type":"story","title":"Ask HN: anything","score":80,"descendants":10,"time":%d}`, created),
		3: fmt.Sprintf(`{"id":3,"type":"story","title":"Quiet post","url":"https://example.com/quiet","score":3,"descendants":0,"time":%d}`, created),
		4: fmt.Sprintf(`{"id":4,"type":"comment","title":"","score":900,"time":%d}`, created),
	}
	srv := newHNTestServer(t, items, `[1,2,3,4]`, `[2,1]`)

	client := NewHackerNewsClient()
	client.BaseURL = srv.URL

	records, err := client.Fetch(context.Background(), content.SourceConfig{
		Enabled:  true,
		Limit:    50,
		MinScore: 10,
	})
	require.NoError(t, err)

	// Low-score and non-story items are dropped; duplicates across the two
	// listings collapse
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "hn_1", first.ID)
	assert.Equal(t, content.SourceHackerNews, first.Source)
	assert.Equal(t, "https://example.com/agents", first.URL)
	assert.Equal(t, 120, first.RawScore)
	assert.Equal(t, 40, first.CommentsCount)
	assert.Equal(t, content.CategoryAI, first.Category)
	assert.Equal(t, time.Unix(created, 0).UTC(), first.CreatedAt)
	assert.Equal(t, "Points: 120 | Comments: 40", first.Description)

	// Stories without an outbound URL keep their HN thread URL
	second := records[1]
	assert.Equal(t, "hn_2", second.ID)
	assert.Equal(t, "https://news.ycombinator.com/item?id=2", second.URL)
}

func TestHackerNewsFetchRespectsLimit(t *testing.T) {
	created := time.Now().UTC().Unix()
	items := make(map[int]string, 5)
	for id := 1; id <= 5; id++ {
		items[id] = fmt.Sprintf(`{"id":%d,"type":"story","title":"story %d","url":"https://example.com/%d","score":100,"time":%d}`, id, id, id, created)
	}
	srv := newHNTestServer(t, items, `[1,2,3,4,5]`, `[]`)

	client := NewHackerNewsClient()
	client.BaseURL = srv.URL

	records, err := client.Fetch(context.Background(), content.SourceConfig{Enabled: true, Limit: 3})
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestHackerNewsFetchListingError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	client := NewHackerNewsClient()
	client.BaseURL = srv.URL

	_, err := client.Fetch(context.Background(), content.SourceConfig{Enabled: true})
	assert.Error(t, err)
}
