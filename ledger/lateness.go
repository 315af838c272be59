package ledger

import (
	"math"
	"time"
)

// LatePenaltyFactor is the fixed multiplier applied to late submissions.
// Not configurable per task.
const LatePenaltyFactor = 0.3

// IsLate reports whether submittedAt falls strictly after the deadline.
// Instants are compared on the absolute timeline (UTC); tasks without a
// deadline are never late.
func IsLate(deadline *time.Time, submittedAt time.Time) bool {
	if deadline == nil {
		return false
	}
	return submittedAt.After(*deadline)
}

// AwardPoints returns the XP to credit for a submission: the full base value
// on time, floor(base * 0.3) when late.
func AwardPoints(basePoints int64, deadline *time.Time, submittedAt time.Time) int64 {
	if IsLate(deadline, submittedAt) {
		return int64(math.Floor(float64(basePoints) * LatePenaltyFactor))
	}
	return basePoints
}
