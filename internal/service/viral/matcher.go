// internal/service/viral/matcher.go

package viral

import (
	"sort"
	"strings"

	"viralwatch/internal/domain/content"
)

// maxCrossPlatforms caps the cross-platform score: presence on this many
// distinct platforms earns full weight.
const maxCrossPlatforms = 5.0

// DetectCrossPlatform returns the subset of records whose external URL was
// independently surfaced by two or more distinct platforms. For each matching
// bucket the record with the highest raw score is selected as representative,
// annotated with the distinct platform set and a cross-platform score, and the
// representatives are returned sorted by that score descending, ties broken by
// raw score descending, then representative ID ascending. The map iteration
// behind the buckets must never leak into the output order.
func DetectCrossPlatform(records []*content.ContentRecord) []*content.ContentRecord {
	buckets := make(map[string][]*content.ContentRecord)

	for _, rec := range records {
		key := externalKey(rec)
		if key == "" {
			continue
		}
		buckets[key] = append(buckets[key], rec)
	}

	var hits []*content.ContentRecord

	for _, group := range buckets {
		platforms := make(map[content.Source]bool)
		for _, rec := range group {
			platforms[rec.Source] = true
		}
		if len(platforms) < 2 {
			continue
		}

		best := group[0]
		for _, rec := range group[1:] {
			if rec.RawScore > best.RawScore {
				best = rec
			}
		}

		best.PlatformsFound = sortedSources(platforms)
		best.CrossPlatformScore = float64(len(platforms)) / maxCrossPlatforms
		if best.CrossPlatformScore > 1.0 {
			best.CrossPlatformScore = 1.0
		}

		hits = append(hits, best)
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].CrossPlatformScore != hits[j].CrossPlatformScore {
			return hits[i].CrossPlatformScore > hits[j].CrossPlatformScore
		}
		if hits[i].RawScore != hits[j].RawScore {
			return hits[i].RawScore > hits[j].RawScore
		}
		return hits[i].ID < hits[j].ID
	})

	return hits
}

// externalKey returns the canonical key a record contributes to cross-platform
// matching, or "" if the record is not eligible. Records whose URL points back
// to the source platform itself (an HN thread, a Reddit self post) carry no
// external signal: two platforms merely discussing their own submissions is
// not a cross-platform hit.
func externalKey(rec *content.ContentRecord) string {
	switch rec.Source {
	case content.SourceHackerNews, content.SourceReddit:
		if strings.Contains(rec.URL, "news.ycombinator.com") {
			return ""
		}
		if strings.Contains(rec.URL, "reddit.com") {
			return ""
		}
		return Canonicalize(rec.URL)
	case content.SourceGitHub:
		return Canonicalize(rec.URL)
	case content.SourceProductHunt:
		if strings.Contains(rec.URL, "producthunt.com") {
			return ""
		}
		return Canonicalize(rec.URL)
	case content.SourceTwitter:
		if strings.Contains(rec.URL, "twitter.com") || strings.Contains(rec.URL, "x.com") {
			return ""
		}
		return Canonicalize(rec.URL)
	default:
		return ""
	}
}

func sortedSources(set map[content.Source]bool) []content.Source {
	sources := make([]content.Source, 0, len(set))
	for s := range set {
		sources = append(sources, s)
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i] < sources[j] })
	return sources
}
