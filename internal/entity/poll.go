package entity

import "time"

type PollOption struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Votes int64  `json:"votes"`
}

// MoviePoll gates voting through VotedUserIDs: a user appears there exactly
// once no matter which option they picked, and membership is checked and
// written in the same transaction as the vote itself.
type MoviePoll struct {
	ID           string       `json:"id"`
	UserID       string       `json:"userId"`
	Question     string       `json:"question"`
	Options      []PollOption `json:"options"`
	VotedUserIDs []string     `json:"votedUserIds"`
	TotalVotes   int64        `json:"totalVotes"`
	LikedBy      []string     `json:"likedBy"`
	LikesCount   int64        `json:"likesCount"`
	CreatedAt    time.Time    `json:"createdAt"`
}

func PollPath(pollID string) string {
	return "polls/" + pollID
}

const PollCollection = "polls"
