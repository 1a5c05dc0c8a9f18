package model

import "time"

type Friend struct {
	FriendID  string    `json:"friend_id"`
	CreatedAt time.Time `json:"created_at"`
}

type FriendRequest struct {
	SenderID  string    `json:"sender_id"`
	CreatedAt time.Time `json:"created_at"`
}

type SendFriendRequestRequest struct {
	UserID string `json:"user_id"`
}

type SendFriendRequestResponse struct{}

type AcceptFriendRequestRequest struct {
	UserID string `json:"user_id"`
}

type AcceptFriendRequestResponse struct{}

type DeclineFriendRequestRequest struct {
	UserID string `json:"user_id"`
}

type DeclineFriendRequestResponse struct{}

type CancelFriendRequestRequest struct {
	UserID string `json:"user_id"`
}

type CancelFriendRequestResponse struct{}

type RemoveFriendRequest struct {
	UserID string `json:"user_id"`
}

type RemoveFriendResponse struct{}

type GetFriendshipStatusRequest struct {
	UserID string `json:"user_id" form:"user_id"`
}

type GetFriendshipStatusResponse struct {
	Status string `json:"status"`
}

type GetFriendsRequest struct{}

type GetFriendsResponse struct {
	Friends []Friend `json:"friends"`
}

type GetFriendRequestsRequest struct{}

type GetFriendRequestsResponse struct {
	Requests []FriendRequest `json:"requests"`
}
