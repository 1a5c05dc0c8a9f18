package entity

import "time"

type ActivityType string

const (
	ActivityRating  ActivityType = "rating"
	ActivityComment ActivityType = "comment"
	ActivityReply   ActivityType = "reply"
	ActivityLike    ActivityType = "like"
)

// Activity is an append-only feed record. It is never mutated after
// creation; the backfill synchronizer may add missing records but existing
// ones are immutable.
type Activity struct {
	ID         string       `json:"id"`
	UserID     string       `json:"userId"`
	Type       ActivityType `json:"type"`
	MovieID    string       `json:"movieId"`
	MovieTitle string       `json:"movieTitle"`
	PosterPath string       `json:"posterPath"`
	Content    string       `json:"content,omitempty"`
	Rating     float64      `json:"rating,omitempty"`
	CreatedAt  time.Time    `json:"createdAt"`
}

func ActivityPath(userID, activityID string) string {
	return "users/" + userID + "/activities/" + activityID
}

func ActivityCollection(userID string) string {
	return "users/" + userID + "/activities"
}
