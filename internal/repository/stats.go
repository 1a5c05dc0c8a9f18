package repository

import (
	"context"
	"errors"

	"github.com/reelmates/backend/internal/entity"
	"github.com/reelmates/backend/pkg/docstore"
)

type StatsRepository interface {
	// Get returns the user's rollup document, or a zero-value one when it
	// does not exist yet. UserStats is only created alongside the first
	// activity write.
	Get(ctx context.Context, h docstore.Handle, userID string) (*entity.UserStats, error)

	Save(ctx context.Context, h docstore.Handle, userID string, stats *entity.UserStats) error
}

type statsRepository struct{}

func NewStatsRepository() *statsRepository {
	return &statsRepository{}
}

func (r *statsRepository) Get(
	ctx context.Context, h docstore.Handle, userID string,
) (*entity.UserStats, error) {
	doc, err := h.Get(ctx, entity.UserStatsPath(userID))
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return &entity.UserStats{RatingBuckets: map[string]int64{}}, nil
		}
		return nil, err
	}

	var stats entity.UserStats
	if err := docstore.Decode(doc, &stats); err != nil {
		return nil, err
	}

	if stats.RatingBuckets == nil {
		stats.RatingBuckets = map[string]int64{}
	}
	return &stats, nil
}

func (r *statsRepository) Save(
	ctx context.Context, h docstore.Handle, userID string, stats *entity.UserStats,
) error {
	buckets := docstore.Fields{}
	for k, v := range stats.RatingBuckets {
		buckets[k] = v
	}

	return h.Set(ctx, entity.UserStatsPath(userID), docstore.Fields{
		"totalRatings":   stats.TotalRatings,
		"totalComments":  stats.TotalComments,
		"totalReplies":   stats.TotalReplies,
		"totalLikes":     stats.TotalLikes,
		"ratingBuckets":  buckets,
		"currentStreak":  stats.CurrentStreak,
		"longestStreak":  stats.LongestStreak,
		"lastActivityAt": stats.LastActivityAt,
	})
}
