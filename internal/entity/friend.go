package entity

import "time"

// FriendRequest lives under the recipient, keyed by the sender's id, so at
// most one outstanding request can exist per ordered pair.
type FriendRequest struct {
	SenderID  string    `json:"senderId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Friend is one half of a friendship. A relationship is two symmetric
// records, one under each party; both halves are always written and deleted
// together.
type Friend struct {
	FriendID  string    `json:"friendId"`
	CreatedAt time.Time `json:"createdAt"`
}

type FriendshipStatus string

const (
	FriendshipNone            FriendshipStatus = "none"
	FriendshipRequestSent     FriendshipStatus = "requestSent"
	FriendshipRequestReceived FriendshipStatus = "requestReceived"
	FriendshipFriends         FriendshipStatus = "friends"
)

func FriendRequestPath(recipientID, senderID string) string {
	return "users/" + recipientID + "/friendRequests/" + senderID
}

func FriendRequestCollection(recipientID string) string {
	return "users/" + recipientID + "/friendRequests"
}

func FriendPath(ownerID, friendID string) string {
	return "users/" + ownerID + "/friends/" + friendID
}

func FriendCollection(ownerID string) string {
	return "users/" + ownerID + "/friends"
}
