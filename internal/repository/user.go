package repository

import (
	"context"
	"time"

	"github.com/reelmates/backend/internal/entity"
	"github.com/reelmates/backend/pkg/docstore"
)

type UserRepository interface {
	Create(ctx context.Context, h docstore.Handle, user *entity.User) error
	Get(ctx context.Context, h docstore.Handle, userID string) (*entity.User, error)
	IncrementFollowerCount(ctx context.Context, h docstore.Handle, userID string, delta int64) error
	IncrementFollowingCount(ctx context.Context, h docstore.Handle, userID string, delta int64) error
	SetFollowCounts(ctx context.Context, h docstore.Handle, userID string, follower, following int64) error
	UpdateTopFavorites(ctx context.Context, h docstore.Handle, userID string, favorites []entity.ContentRef) error
}

type userRepository struct{}

func NewUserRepository() *userRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx context.Context, h docstore.Handle, user *entity.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	return h.Set(ctx, entity.UserPath(user.ID), docstore.Fields{
		"id":             user.ID,
		"username":       user.Username,
		"name":           user.Name,
		"avatarUrl":      user.AvatarURL,
		"followerCount":  user.FollowerCount,
		"followingCount": user.FollowingCount,
		"topFavorites":   contentRefsToFields(user.TopFavorites),
		"createdAt":      user.CreatedAt,
	})
}

func (r *userRepository) Get(ctx context.Context, h docstore.Handle, userID string) (*entity.User, error) {
	doc, err := h.Get(ctx, entity.UserPath(userID))
	if err != nil {
		return nil, err
	}

	var user entity.User
	if err := docstore.Decode(doc, &user); err != nil {
		return nil, err
	}

	user.ID = doc.ID()
	return &user, nil
}

func (r *userRepository) IncrementFollowerCount(
	ctx context.Context, h docstore.Handle, userID string, delta int64,
) error {
	return h.Update(ctx, entity.UserPath(userID), docstore.Fields{
		"followerCount": docstore.Inc(delta),
	})
}

func (r *userRepository) IncrementFollowingCount(
	ctx context.Context, h docstore.Handle, userID string, delta int64,
) error {
	return h.Update(ctx, entity.UserPath(userID), docstore.Fields{
		"followingCount": docstore.Inc(delta),
	})
}

// SetFollowCounts writes absolute counter values. Used where a decrement
// must be clamped at zero, which needs a read-compute-write inside the
// caller's transaction rather than a blind increment.
func (r *userRepository) SetFollowCounts(
	ctx context.Context, h docstore.Handle, userID string, follower, following int64,
) error {
	return h.Update(ctx, entity.UserPath(userID), docstore.Fields{
		"followerCount":  follower,
		"followingCount": following,
	})
}

func (r *userRepository) UpdateTopFavorites(
	ctx context.Context, h docstore.Handle, userID string, favorites []entity.ContentRef,
) error {
	return h.Update(ctx, entity.UserPath(userID), docstore.Fields{
		"topFavorites": contentRefsToFields(favorites),
	})
}

func contentRefsToFields(refs []entity.ContentRef) []any {
	result := make([]any, 0, len(refs))
	for _, ref := range refs {
		result = append(result, docstore.Fields{"kind": ref.Kind, "id": ref.ID})
	}

	return result
}
