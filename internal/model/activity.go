package model

import "time"

type Activity struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	MovieID    string    `json:"movie_id"`
	MovieTitle string    `json:"movie_title"`
	PosterPath string    `json:"poster_path"`
	Content    string    `json:"content,omitempty"`
	Rating     float64   `json:"rating,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type GetMyActivitiesRequest struct {
	Limit int `json:"limit" form:"limit"`
}

type GetMyActivitiesResponse struct {
	Activities []Activity `json:"activities"`
}

type GetMyStatsRequest struct{}

type GetMyStatsResponse struct {
	TotalRatings   int64            `json:"total_ratings"`
	TotalComments  int64            `json:"total_comments"`
	TotalReplies   int64            `json:"total_replies"`
	TotalLikes     int64            `json:"total_likes"`
	RatingBuckets  map[string]int64 `json:"rating_buckets"`
	CurrentStreak  int              `json:"current_streak"`
	LongestStreak  int              `json:"longest_streak"`
	LastActivityAt time.Time        `json:"last_activity_at"`
}
