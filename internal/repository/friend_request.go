package repository

import (
	"context"
	"time"

	"github.com/reelmates/backend/internal/entity"
	"github.com/reelmates/backend/pkg/docstore"
	"github.com/reelmates/backend/pkg/xcontext"
)

type FriendRequestRepository interface {
	Create(ctx context.Context, h docstore.Handle, recipientID, senderID string) error
	Get(ctx context.Context, h docstore.Handle, recipientID, senderID string) (*entity.FriendRequest, error)
	Delete(ctx context.Context, h docstore.Handle, recipientID, senderID string) error
	GetListByRecipient(ctx context.Context, recipientID string) ([]entity.FriendRequest, error)
}

type friendRequestRepository struct {
	store docstore.Store
}

func NewFriendRequestRepository(store docstore.Store) *friendRequestRepository {
	return &friendRequestRepository{store: store}
}

func (r *friendRequestRepository) Create(
	ctx context.Context, h docstore.Handle, recipientID, senderID string,
) error {
	return h.Set(ctx, entity.FriendRequestPath(recipientID, senderID), docstore.Fields{
		"senderId":  senderID,
		"createdAt": time.Now(),
	})
}

func (r *friendRequestRepository) Get(
	ctx context.Context, h docstore.Handle, recipientID, senderID string,
) (*entity.FriendRequest, error) {
	doc, err := h.Get(ctx, entity.FriendRequestPath(recipientID, senderID))
	if err != nil {
		return nil, err
	}

	var request entity.FriendRequest
	if err := docstore.Decode(doc, &request); err != nil {
		return nil, err
	}

	return &request, nil
}

func (r *friendRequestRepository) Delete(
	ctx context.Context, h docstore.Handle, recipientID, senderID string,
) error {
	return h.Delete(ctx, entity.FriendRequestPath(recipientID, senderID))
}

func (r *friendRequestRepository) GetListByRecipient(
	ctx context.Context, recipientID string,
) ([]entity.FriendRequest, error) {
	docs, err := r.store.Query(ctx, entity.FriendRequestCollection(recipientID), docstore.Query{
		OrderBy: "createdAt",
		Desc:    true,
	})
	if err != nil {
		return nil, err
	}

	result := []entity.FriendRequest{}
	for i := range docs {
		var request entity.FriendRequest
		if err := docstore.Decode(&docs[i], &request); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot decode friend request %s: %v", docs[i].Path, err)
			continue
		}
		result = append(result, request)
	}

	return result, nil
}
