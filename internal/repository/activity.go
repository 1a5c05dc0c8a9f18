package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/reelmates/backend/internal/entity"
	"github.com/reelmates/backend/pkg/docstore"
	"github.com/reelmates/backend/pkg/xcontext"
)

type ActivityRepository interface {
	// Create assigns a time-ordered id when the activity has none and
	// appends the record. Safe to call again with the same activity inside
	// a retried transaction body.
	Create(ctx context.Context, h docstore.Handle, activity *entity.Activity) error

	GetListByUserID(ctx context.Context, userID string, limit int) ([]entity.Activity, error)
}

type activityRepository struct {
	store docstore.Store
	node  *snowflake.Node
}

func NewActivityRepository(store docstore.Store) *activityRepository {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}

	return &activityRepository{store: store, node: node}
}

func (r *activityRepository) Create(ctx context.Context, h docstore.Handle, activity *entity.Activity) error {
	if activity.ID == "" {
		activity.ID = r.node.Generate().String()
	}
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now()
	}

	return h.Set(ctx, entity.ActivityPath(activity.UserID, activity.ID), docstore.Fields{
		"id":         activity.ID,
		"userId":     activity.UserID,
		"type":       string(activity.Type),
		"movieId":    activity.MovieID,
		"movieTitle": activity.MovieTitle,
		"posterPath": activity.PosterPath,
		"content":    activity.Content,
		"rating":     activity.Rating,
		"createdAt":  activity.CreatedAt,
	})
}

func (r *activityRepository) GetListByUserID(
	ctx context.Context, userID string, limit int,
) ([]entity.Activity, error) {
	docs, err := r.store.Query(ctx, entity.ActivityCollection(userID), docstore.Query{
		OrderBy: "createdAt",
		Desc:    true,
		Limit:   limit,
	})
	if err != nil {
		return nil, err
	}

	result := []entity.Activity{}
	for i := range docs {
		var activity entity.Activity
		if err := docstore.Decode(&docs[i], &activity); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot decode activity %s: %v", docs[i].Path, err)
			continue
		}

		activity.ID = docs[i].ID()
		result = append(result, activity)
	}

	return result, nil
}
