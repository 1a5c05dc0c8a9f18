package domain

import (
	"context"
	"strconv"
	"time"

	"github.com/reelmates/backend/internal/entity"
	"github.com/reelmates/backend/internal/model"
	"github.com/reelmates/backend/internal/repository"
	"github.com/reelmates/backend/pkg/dateutil"
	"github.com/reelmates/backend/pkg/docstore"
	"github.com/reelmates/backend/pkg/errorx"
	"github.com/reelmates/backend/pkg/xcontext"
)

// StatsAggregator maintains the per-user rollup document. Apply must run on
// the same transaction handle as the Activity write it accounts for; that is
// the only thing keeping the feed and the counters consistent.
type StatsAggregator struct {
	statsRepo repository.StatsRepository
	now       func() time.Time
}

func NewStatsAggregator(statsRepo repository.StatsRepository) *StatsAggregator {
	return &StatsAggregator{statsRepo: statsRepo, now: time.Now}
}

func (a *StatsAggregator) Apply(
	ctx context.Context, h docstore.Handle,
	userID string, activityType entity.ActivityType, rating float64,
) error {
	stats, err := a.statsRepo.Get(ctx, h, userID)
	if err != nil {
		return err
	}

	switch activityType {
	case entity.ActivityRating:
		stats.TotalRatings++
		stats.RatingBuckets[ratingBucket(rating)]++
	case entity.ActivityComment:
		stats.TotalComments++
	case entity.ActivityReply:
		stats.TotalReplies++
	case entity.ActivityLike:
		stats.TotalLikes++
	}

	now := a.now()
	switch {
	case stats.LastActivityAt.IsZero():
		stats.CurrentStreak = 1
	case dateutil.IsSameDay(stats.LastActivityAt, now):
		// Second event of the day does not inflate the streak.
	case dateutil.IsYesterday(stats.LastActivityAt, now):
		stats.CurrentStreak++
	default:
		stats.CurrentStreak = 1
	}

	if stats.CurrentStreak > stats.LongestStreak {
		stats.LongestStreak = stats.CurrentStreak
	}
	stats.LastActivityAt = now

	return a.statsRepo.Save(ctx, h, userID, stats)
}

// ratingBucket keys the histogram by the rating's shortest decimal form, so
// 4.0 and 4 land in the same bucket.
func ratingBucket(rating float64) string {
	return strconv.FormatFloat(rating, 'f', -1, 64)
}

type StatisticDomain interface {
	GetMyStats(context.Context, *model.GetMyStatsRequest) (*model.GetMyStatsResponse, error)
}

type statisticDomain struct {
	store     docstore.Store
	statsRepo repository.StatsRepository
}

func NewStatisticDomain(
	store docstore.Store,
	statsRepo repository.StatsRepository,
) *statisticDomain {
	return &statisticDomain{store: store, statsRepo: statsRepo}
}

func (d *statisticDomain) GetMyStats(
	ctx context.Context, req *model.GetMyStatsRequest,
) (*model.GetMyStatsResponse, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}

	stats, err := d.statsRepo.Get(ctx, d.store, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get stats of user %s: %v", userID, err)
		return nil, errorx.Unknown
	}

	resp := model.ConvertStats(stats)
	return &resp, nil
}
