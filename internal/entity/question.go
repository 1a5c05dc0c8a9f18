package entity

import "time"

type CommunityQuestion struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Content      string    `json:"content"`
	LikedBy      []string  `json:"likedBy"`
	LikesCount   int64     `json:"likesCount"`
	CommentCount int64     `json:"commentCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

func QuestionPath(questionID string) string {
	return "questions/" + questionID
}

const QuestionCollection = "questions"
