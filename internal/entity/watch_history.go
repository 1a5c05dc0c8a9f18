package entity

import "time"

// WatchHistoryEntry is display metadata cached by the watch-tracking
// integration. The backfill synchronizer reads it as a fallback when a
// review lacks its own title or poster.
type WatchHistoryEntry struct {
	MovieID    string    `json:"movieId"`
	Title      string    `json:"title"`
	PosterPath string    `json:"posterPath"`
	WatchedAt  time.Time `json:"watchedAt"`
}
