package entity

import "time"

// ContentRef points at a piece of shared content pinned on a profile.
type ContentRef struct {
	Kind string `json:"kind"` // "review", "question", "poll"
	ID   string `json:"id"`
}

type User struct {
	ID             string       `json:"id"`
	Username       string       `json:"username"`
	Name           string       `json:"name"`
	AvatarURL      string       `json:"avatarUrl"`
	FollowerCount  int64        `json:"followerCount"`
	FollowingCount int64        `json:"followingCount"`
	TopFavorites   []ContentRef `json:"topFavorites"`
	CreatedAt      time.Time    `json:"createdAt"`
}

func UserPath(userID string) string {
	return "users/" + userID
}
