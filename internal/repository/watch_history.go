package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/reelmates/backend/internal/entity"
	"github.com/reelmates/backend/pkg/xredis"
)

const watchHistoryTTL = 30 * 24 * time.Hour

// WatchHistoryRepository caches movie display metadata written by the
// watch-tracking integration. The backfill synchronizer reads it as a
// best-effort fallback; a miss is a nil entry, never an error.
type WatchHistoryRepository interface {
	Get(ctx context.Context, userID, movieID string) (*entity.WatchHistoryEntry, error)
	Upsert(ctx context.Context, userID string, entry *entity.WatchHistoryEntry) error
}

type watchHistoryRepository struct {
	redisClient xredis.Client
}

func NewWatchHistoryRepository(redisClient xredis.Client) *watchHistoryRepository {
	return &watchHistoryRepository{redisClient: redisClient}
}

func watchHistoryKey(userID, movieID string) string {
	return fmt.Sprintf("watch_history:%s:%s", userID, movieID)
}

func (r *watchHistoryRepository) Get(
	ctx context.Context, userID, movieID string,
) (*entity.WatchHistoryEntry, error) {
	var entry entity.WatchHistoryEntry
	err := r.redisClient.GetObj(ctx, watchHistoryKey(userID, movieID), &entry)
	if err != nil {
		if errors.Is(err, xredis.ErrNil) {
			return nil, nil
		}
		return nil, err
	}

	return &entry, nil
}

func (r *watchHistoryRepository) Upsert(
	ctx context.Context, userID string, entry *entity.WatchHistoryEntry,
) error {
	return r.redisClient.SetObj(ctx, watchHistoryKey(userID, entry.MovieID), entry, watchHistoryTTL)
}
