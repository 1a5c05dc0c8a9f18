package model

import "time"

type PollOption struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Votes int64  `json:"votes"`
}

type Poll struct {
	ID         string       `json:"id"`
	UserID     string       `json:"user_id"`
	Question   string       `json:"question"`
	Options    []PollOption `json:"options"`
	TotalVotes int64        `json:"total_votes"`
	Voted      bool         `json:"voted"`
	LikedBy    []string     `json:"liked_by"`
	LikesCount int64        `json:"likes_count"`
	CreatedAt  time.Time    `json:"created_at"`
}

type CreatePollRequest struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type CreatePollResponse struct {
	ID string `json:"id"`
}

type GetPollsRequest struct {
	Limit int `json:"limit" form:"limit"`
}

type GetPollsResponse struct {
	Polls []Poll `json:"polls"`
}

type TogglePollLikeRequest struct {
	PollID string `json:"poll_id"`
}

type TogglePollLikeResponse struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likes_count"`
}

type SubmitPollVoteRequest struct {
	PollID   string `json:"poll_id"`
	OptionID string `json:"option_id"`
}

type SubmitPollVoteResponse struct{}
