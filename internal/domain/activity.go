package domain

import (
	"context"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync"
	"github.com/reelmates/backend/internal/entity"
	"github.com/reelmates/backend/internal/model"
	"github.com/reelmates/backend/internal/repository"
	"github.com/reelmates/backend/pkg/docstore"
	"github.com/reelmates/backend/pkg/errorx"
	"github.com/reelmates/backend/pkg/xcontext"
	"golang.org/x/sync/errgroup"
)

type ActivityDomain interface {
	ActivityLogger

	GetMyActivities(context.Context, *model.GetMyActivitiesRequest) (*model.GetMyActivitiesResponse, error)
	SyncPastActivities(ctx context.Context, userID string) error
}

type activityDomain struct {
	store            docstore.Store
	activityRepo     repository.ActivityRepository
	reviewRepo       repository.ReviewRepository
	replyRepo        repository.ReplyRepository
	watchHistoryRepo repository.WatchHistoryRepository
	aggregator       *StatsAggregator

	// syncMutexes keeps at most one backfill per user in flight.
	syncMutexes *xsync.MapOf[string, *sync.Mutex]
}

func NewActivityDomain(
	store docstore.Store,
	activityRepo repository.ActivityRepository,
	reviewRepo repository.ReviewRepository,
	replyRepo repository.ReplyRepository,
	watchHistoryRepo repository.WatchHistoryRepository,
	aggregator *StatsAggregator,
) *activityDomain {
	return &activityDomain{
		store:            store,
		activityRepo:     activityRepo,
		reviewRepo:       reviewRepo,
		replyRepo:        replyRepo,
		watchHistoryRepo: watchHistoryRepo,
		aggregator:       aggregator,
		syncMutexes:      xsync.NewMapOf[*sync.Mutex](),
	}
}

// LogActivity appends the activity record and applies the stats rollup in
// one transaction, so the feed and the counters cannot drift apart.
func (d *activityDomain) LogActivity(ctx context.Context, activity *entity.Activity) error {
	return d.store.RunTransaction(ctx, func(ctx context.Context, tx docstore.Handle) error {
		if err := d.activityRepo.Create(ctx, tx, activity); err != nil {
			return err
		}

		return d.aggregator.Apply(ctx, tx, activity.UserID, activity.Type, activity.Rating)
	})
}

func (d *activityDomain) GetMyActivities(
	ctx context.Context, req *model.GetMyActivitiesRequest,
) (*model.GetMyActivitiesResponse, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}

	// Feed load is the opportunistic repair point. A failed or skipped sync
	// degrades to serving the feed as it is.
	d.trySync(ctx, userID)

	limit := xcontext.Configs(ctx).Feed.DefaultLimit
	if req.Limit > 0 {
		limit = listLimit(ctx, req.Limit)
	}

	activities, err := d.activityRepo.GetListByUserID(ctx, userID, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get activities of user %s: %v", userID, err)
		return nil, errorx.Unknown
	}

	return &model.GetMyActivitiesResponse{Activities: model.ConvertActivities(activities)}, nil
}

// trySync runs the backfill unless one is already in flight for this user.
func (d *activityDomain) trySync(ctx context.Context, userID string) {
	mutex, _ := d.syncMutexes.LoadOrStore(userID, &sync.Mutex{})
	if !mutex.TryLock() {
		return
	}
	defer mutex.Unlock()

	if err := d.SyncPastActivities(ctx, userID); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot sync past activities of user %s: %v", userID, err)
	}
}

// SyncPastActivities reconciles the activity feed against the content the
// user actually produced, appending records the fire-and-forget fast path
// lost. Each synthesized append goes through LogActivity, so stats stay
// consistent with the repaired feed. Running it again right away appends
// nothing.
func (d *activityDomain) SyncPastActivities(ctx context.Context, userID string) error {
	scanLimit := xcontext.Configs(ctx).Feed.SyncScanLimit
	existing, err := d.activityRepo.GetListByUserID(ctx, userID, scanLimit)
	if err != nil {
		return err
	}

	ratedMovies := map[string]bool{}
	likedMovies := map[string]bool{}
	replyKeys := map[string]bool{}
	for _, activity := range existing {
		switch activity.Type {
		case entity.ActivityRating:
			ratedMovies[activity.MovieID] = true
		case entity.ActivityLike:
			likedMovies[activity.MovieID] = true
		case entity.ActivityReply, entity.ActivityComment:
			replyKeys[replyDedupKey(activity.Type, activity.CreatedAt)] = true
		}
	}

	var authored []entity.MovieReview
	var replies []entity.Reply
	var liked []entity.MovieReview

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		authored, err = d.reviewRepo.GetListByUserID(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		replies, err = d.replyRepo.GetListByUserID(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		liked, err = d.reviewRepo.GetListLikedBy(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	for i := range authored {
		review := &authored[i]
		if ratedMovies[review.MovieID] {
			continue
		}

		activity := &entity.Activity{
			UserID:     userID,
			Type:       entity.ActivityRating,
			MovieID:    review.MovieID,
			MovieTitle: review.MovieTitle,
			PosterPath: review.PosterPath,
			Content:    review.Content,
			Rating:     review.Rating,
			CreatedAt:  review.CreatedAt,
		}
		d.fillMovieDisplay(ctx, userID, activity)

		if err := d.LogActivity(ctx, activity); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot backfill rating activity for movie %s: %v",
				review.MovieID, err)
			continue
		}
		ratedMovies[review.MovieID] = true
	}

	for i := range replies {
		reply := &replies[i]

		// Review replies carry a movie snapshot, question replies do not;
		// the activity type follows the parent kind the same way the fast
		// path records it.
		activityType := entity.ActivityComment
		if reply.MovieID != "" {
			activityType = entity.ActivityReply
		}

		key := replyDedupKey(activityType, reply.CreatedAt)
		if replyKeys[key] {
			continue
		}

		activity := &entity.Activity{
			UserID:     userID,
			Type:       activityType,
			MovieID:    reply.MovieID,
			MovieTitle: reply.MovieTitle,
			PosterPath: reply.PosterPath,
			Content:    reply.Content,
			CreatedAt:  reply.CreatedAt,
		}
		if err := d.LogActivity(ctx, activity); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot backfill %s activity %s: %v", activityType, reply.ID, err)
			continue
		}
		replyKeys[key] = true
	}

	for i := range liked {
		review := &liked[i]
		if likedMovies[review.MovieID] {
			continue
		}

		activity := &entity.Activity{
			UserID:     userID,
			Type:       entity.ActivityLike,
			MovieID:    review.MovieID,
			MovieTitle: review.MovieTitle,
			PosterPath: review.PosterPath,
			CreatedAt:  time.Now(),
		}
		if err := d.LogActivity(ctx, activity); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot backfill like activity for movie %s: %v",
				review.MovieID, err)
			continue
		}
		likedMovies[review.MovieID] = true
	}

	return nil
}

// fillMovieDisplay falls back to the watch-history cache when a review
// lacks its own display metadata. A cache miss leaves the activity as is.
func (d *activityDomain) fillMovieDisplay(ctx context.Context, userID string, activity *entity.Activity) {
	if activity.MovieTitle != "" {
		return
	}

	entry, err := d.watchHistoryRepo.Get(ctx, userID, activity.MovieID)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot read watch history of movie %s: %v", activity.MovieID, err)
		return
	}
	if entry == nil {
		return
	}

	activity.MovieTitle = entry.Title
	if activity.PosterPath == "" {
		activity.PosterPath = entry.PosterPath
	}
}

func replyDedupKey(activityType entity.ActivityType, createdAt time.Time) string {
	return string(activityType) + "|" + createdAt.UTC().Format(time.RFC3339Nano)
}
