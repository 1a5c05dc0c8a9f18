package repository

import (
	"context"
	"errors"
	"time"

	"github.com/reelmates/backend/internal/entity"
	"github.com/reelmates/backend/pkg/docstore"
	"github.com/reelmates/backend/pkg/xcontext"
)

type FriendshipRepository interface {
	// CreatePair writes both symmetric halves. Must be called on a handle
	// whose other effects commit atomically with these writes.
	CreatePair(ctx context.Context, h docstore.Handle, userID, friendID string) error

	// DeletePair removes both symmetric halves.
	DeletePair(ctx context.Context, h docstore.Handle, userID, friendID string) error

	Exists(ctx context.Context, h docstore.Handle, userID, friendID string) (bool, error)
	GetListByUserID(ctx context.Context, userID string) ([]entity.Friend, error)
}

type friendshipRepository struct {
	store docstore.Store
}

func NewFriendshipRepository(store docstore.Store) *friendshipRepository {
	return &friendshipRepository{store: store}
}

func (r *friendshipRepository) CreatePair(
	ctx context.Context, h docstore.Handle, userID, friendID string,
) error {
	now := time.Now()
	err := h.Set(ctx, entity.FriendPath(userID, friendID), docstore.Fields{
		"friendId":  friendID,
		"createdAt": now,
	})
	if err != nil {
		return err
	}

	return h.Set(ctx, entity.FriendPath(friendID, userID), docstore.Fields{
		"friendId":  userID,
		"createdAt": now,
	})
}

func (r *friendshipRepository) DeletePair(
	ctx context.Context, h docstore.Handle, userID, friendID string,
) error {
	if err := h.Delete(ctx, entity.FriendPath(userID, friendID)); err != nil {
		return err
	}

	return h.Delete(ctx, entity.FriendPath(friendID, userID))
}

func (r *friendshipRepository) Exists(
	ctx context.Context, h docstore.Handle, userID, friendID string,
) (bool, error) {
	_, err := h.Get(ctx, entity.FriendPath(userID, friendID))
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

func (r *friendshipRepository) GetListByUserID(ctx context.Context, userID string) ([]entity.Friend, error) {
	docs, err := r.store.Query(ctx, entity.FriendCollection(userID), docstore.Query{
		OrderBy: "createdAt",
		Desc:    true,
	})
	if err != nil {
		return nil, err
	}

	result := []entity.Friend{}
	for i := range docs {
		var friend entity.Friend
		if err := docstore.Decode(&docs[i], &friend); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot decode friendship %s: %v", docs[i].Path, err)
			continue
		}
		result = append(result, friend)
	}

	return result, nil
}
