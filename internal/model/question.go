package model

import "time"

type Question struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Content      string    `json:"content"`
	LikedBy      []string  `json:"liked_by"`
	LikesCount   int64     `json:"likes_count"`
	CommentCount int64     `json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
}

type CreateQuestionRequest struct {
	Content string `json:"content"`
}

type CreateQuestionResponse struct {
	ID string `json:"id"`
}

type GetQuestionsRequest struct {
	Limit int `json:"limit" form:"limit"`
}

type GetQuestionsResponse struct {
	Questions []Question `json:"questions"`
}

type ToggleQuestionLikeRequest struct {
	QuestionID string `json:"question_id"`
}

type ToggleQuestionLikeResponse struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likes_count"`
}

type AddCommentRequest struct {
	QuestionID string `json:"question_id"`
	Content    string `json:"content"`
}

type AddCommentResponse struct {
	ID string `json:"id"`
}

type GetCommentsRequest struct {
	QuestionID string `json:"question_id" form:"question_id"`
	Limit      int    `json:"limit" form:"limit"`
}

type GetCommentsResponse struct {
	Comments []Reply `json:"comments"`
}

type ToggleCommentLikeRequest struct {
	QuestionID string `json:"question_id"`
	ReplyID    string `json:"reply_id"`
}

type ToggleCommentLikeResponse struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likes_count"`
}
