// internal/adapter/source/categorize.go

package source

import (
	"strings"

	"viralwatch/internal/domain/content"
)

// Keyword lists used to assign a coarse topical category to collected items.
// Matching is substring-based on the lower-cased text, AI first, then VC,
// then SaaS, defaulting to tech.
var (
	aiKeywords = []string{
		"ai", "gpt", "llm", "openai", "anthropic", "claude", "gemini",
		"machine learning", "deep learning", "neural", "transformer",
		"chatgpt", "copilot", "langchain", "rag", "fine-tuning",
		"embedding", "agent",
	}

	saasKeywords = []string{
		"saas", "startup", "launch", "product", "pricing",
		"api", "platform", "tool", "app", "service",
	}

	vcKeywords = []string{
		"funding", "raised", "series", "valuation", "vc",
		"investor", "acquisition", "ipo", "unicorn", "seed",
	}
)

// categorize assigns one of the known categories based on keyword hits in
// the given text
func categorize(text string) string {
	lower := strings.ToLower(text)

	if containsAny(lower, aiKeywords) {
		return content.CategoryAI
	}
	if containsAny(lower, vcKeywords) {
		return content.CategoryVC
	}
	if containsAny(lower, saasKeywords) {
		return content.CategorySaaS
	}
	return content.CategoryTech
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
