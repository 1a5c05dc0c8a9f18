package entity

import "time"

// UserStats is the per-user rollup document. It is only ever written inside
// the same transaction as an Activity creation, so the counters and the
// feed cannot drift apart.
type UserStats struct {
	TotalRatings  int64 `json:"totalRatings"`
	TotalComments int64 `json:"totalComments"`
	TotalReplies  int64 `json:"totalReplies"`
	TotalLikes    int64 `json:"totalLikes"`

	// RatingBuckets counts ratings per rating value, keyed by the value's
	// shortest decimal form ("3.5", "4").
	RatingBuckets map[string]int64 `json:"ratingBuckets"`

	CurrentStreak  int       `json:"currentStreak"`
	LongestStreak  int       `json:"longestStreak"`
	LastActivityAt time.Time `json:"lastActivityAt"`
}

func UserStatsPath(userID string) string {
	return "users/" + userID + "/stats/summary"
}
