// internal/service/viral/velocity.go

package viral

import (
	"time"
)

// minAgeHours clamps very fresh content to a 6-minute minimum age so a
// just-posted item cannot claim near-infinite velocity.
const minAgeHours = 0.1

// ComputeVelocity returns the popularity growth rate of a record in score
// points per hour. When a previous observation exists, the rate reflects only
// the marginal increase since that observation, so re-scoring the same content
// across collection runs does not double count its early popularity. A score
// that went down since the last observation (flaky platform APIs) counts as
// zero growth rather than negative.
func ComputeVelocity(rawScore int, createdAt, now time.Time, previousScore int) float64 {
	ageHours := now.Sub(createdAt).Hours()
	if ageHours < minAgeHours {
		ageHours = minAgeHours
	}

	delta := rawScore
	if previousScore > 0 {
		delta = rawScore - previousScore
	}
	if delta < 0 {
		delta = 0
	}

	return float64(delta) / ageHours
}
