package model

import "time"

type ContentRef struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

type User struct {
	ID             string       `json:"id"`
	Username       string       `json:"username"`
	Name           string       `json:"name"`
	AvatarURL      string       `json:"avatar_url"`
	FollowerCount  int64        `json:"follower_count"`
	FollowingCount int64        `json:"following_count"`
	TopFavorites   []ContentRef `json:"top_favorites"`
	CreatedAt      time.Time    `json:"created_at"`
}

type CreateUserRequest struct {
	Username  string `json:"username"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

type CreateUserResponse struct{}

type GetUserRequest struct {
	UserID string `json:"user_id" form:"user_id"`
}

type GetUserResponse User

type UpdateTopFavoritesRequest struct {
	Favorites []ContentRef `json:"favorites"`
}

type UpdateTopFavoritesResponse struct{}
