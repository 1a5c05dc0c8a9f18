package model

import "time"

type Review struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	MovieID      string    `json:"movie_id"`
	MovieTitle   string    `json:"movie_title"`
	PosterPath   string    `json:"poster_path"`
	Rating       float64   `json:"rating"`
	Content      string    `json:"content"`
	LikedBy      []string  `json:"liked_by"`
	LikesCount   int64     `json:"likes_count"`
	CommentCount int64     `json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
}

type Reply struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Content    string    `json:"content"`
	LikedBy    []string  `json:"liked_by"`
	LikesCount int64     `json:"likes_count"`
	MovieID    string    `json:"movie_id,omitempty"`
	MovieTitle string    `json:"movie_title,omitempty"`
	PosterPath string    `json:"poster_path,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type CreateReviewRequest struct {
	MovieID    string  `json:"movie_id"`
	MovieTitle string  `json:"movie_title"`
	PosterPath string  `json:"poster_path"`
	Rating     float64 `json:"rating"`
	Content    string  `json:"content"`
}

type CreateReviewResponse struct {
	ID string `json:"id"`
}

type GetReviewsRequest struct {
	MovieID string `json:"movie_id" form:"movie_id"`
	Limit   int    `json:"limit" form:"limit"`
}

type GetReviewsResponse struct {
	Reviews []Review `json:"reviews"`
}

type ToggleReviewLikeRequest struct {
	MovieID  string `json:"movie_id"`
	ReviewID string `json:"review_id"`
}

type ToggleReviewLikeResponse struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likes_count"`
}

type SubmitMovieReplyRequest struct {
	MovieID  string `json:"movie_id"`
	ReviewID string `json:"review_id"`
	Content  string `json:"content"`
}

type SubmitMovieReplyResponse struct {
	ID string `json:"id"`
}

type GetMovieRepliesRequest struct {
	MovieID  string `json:"movie_id" form:"movie_id"`
	ReviewID string `json:"review_id" form:"review_id"`
	Limit    int    `json:"limit" form:"limit"`
}

type GetMovieRepliesResponse struct {
	Replies []Reply `json:"replies"`
}

type ToggleMovieReplyLikeRequest struct {
	MovieID  string `json:"movie_id"`
	ReviewID string `json:"review_id"`
	ReplyID  string `json:"reply_id"`
}

type ToggleMovieReplyLikeResponse struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likes_count"`
}
