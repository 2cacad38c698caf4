package source

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"viralwatch/internal/domain/content"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Anthropic ships a new Claude model", content.CategoryAI},
		{"GPT-5 benchmark results", content.CategoryAI},
		{"Unicorn closes Series B at a $2B valuation", content.CategoryVC},
		{"Show HN: my new SaaS pricing page", content.CategorySaaS},
		{"Linux kernel 7.0 released", content.CategoryTech},
		{"", content.CategoryTech},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, categorize(tt.text), "text: %q", tt.text)
	}
}

func TestCategorizeAIWinsOverOtherMatches(t *testing.T) {
	// Text matching both AI and VC keywords lands in AI
	assert.Equal(t, content.CategoryAI, categorize("OpenAI raised new funding"))
}

func TestCategorizeIsCaseInsensitive(t *testing.T) {
	assert.Equal(t, content.CategoryAI, categorize("MACHINE LEARNING AT SCALE"))
}
