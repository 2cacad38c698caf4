// internal/service/viral/stats.go

package viral

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"viralwatch/internal/domain/content"
)

var wordPattern = regexp.MustCompile(`\b[a-z]{4,}\b`)

const topKeywordCount = 10

// Summarize computes distribution statistics over one run's records: counts
// per category and platform, average velocity, and the most frequent keywords
// across titles and descriptions.
func Summarize(records []*content.ContentRecord) content.TrendSummary {
	summary := content.TrendSummary{
		TotalContents:        len(records),
		CategoryDistribution: make(map[string]int),
		PlatformDistribution: make(map[content.Source]int),
	}

	if len(records) == 0 {
		return summary
	}

	var velocitySum float64
	var text strings.Builder
	for _, rec := range records {
		summary.CategoryDistribution[rec.Category]++
		summary.PlatformDistribution[rec.Source]++
		velocitySum += rec.Velocity
		text.WriteString(strings.ToLower(rec.Title))
		text.WriteString(" ")
		text.WriteString(strings.ToLower(rec.Description))
		text.WriteString(" ")
	}

	summary.AverageVelocity = math.Round(velocitySum/float64(len(records))*100) / 100
	summary.TopKeywords = topKeywords(text.String(), topKeywordCount)

	return summary
}

func topKeywords(text string, n int) []string {
	counts := make(map[string]int)
	for _, word := range wordPattern.FindAllString(text, -1) {
		counts[word]++
	}

	words := make([]string, 0, len(counts))
	for word := range counts {
		words = append(words, word)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})

	if len(words) > n {
		words = words[:n]
	}
	return words
}
