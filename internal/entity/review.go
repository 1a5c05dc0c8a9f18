package entity

import "time"

// Movie is the display snapshot kept alongside reviews so the feed can
// render without a metadata round trip. Merged on every review write.
type Movie struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	PosterPath string `json:"posterPath"`
}

type MovieReview struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	MovieID      string    `json:"movieId"`
	MovieTitle   string    `json:"movieTitle"`
	PosterPath   string    `json:"posterPath"`
	Rating       float64   `json:"rating"`
	Content      string    `json:"content"`
	LikedBy      []string  `json:"likedBy"`
	LikesCount   int64     `json:"likesCount"`
	CommentCount int64     `json:"commentCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Reply is a comment under a review or a community question. Movie fields
// are populated only for review replies.
type Reply struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Content    string    `json:"content"`
	LikedBy    []string  `json:"likedBy"`
	LikesCount int64     `json:"likesCount"`
	MovieID    string    `json:"movieId,omitempty"`
	MovieTitle string    `json:"movieTitle,omitempty"`
	PosterPath string    `json:"posterPath,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func MoviePath(movieID string) string {
	return "movies/" + movieID
}

func ReviewPath(movieID, reviewID string) string {
	return "movies/" + movieID + "/reviews/" + reviewID
}

func ReviewCollection(movieID string) string {
	return "movies/" + movieID + "/reviews"
}

func ReplyPath(parentPath, replyID string) string {
	return parentPath + "/replies/" + replyID
}

func ReplyCollection(parentPath string) string {
	return parentPath + "/replies"
}
