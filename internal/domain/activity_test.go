package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reelmates/backend/internal/entity"
	"github.com/reelmates/backend/internal/model"
	"github.com/reelmates/backend/internal/repository"
	"github.com/reelmates/backend/pkg/docstore"
	"github.com/reelmates/backend/pkg/testutil"
)

func Test_activityDomain_LogActivity(t *testing.T) {
	env := newTestEnv(false)
	ctx := testutil.MockContext()

	err := env.activityDomain.LogActivity(ctx, &entity.Activity{
		UserID:     testutil.User1.ID,
		Type:       entity.ActivityRating,
		MovieID:    "movie1",
		MovieTitle: "Heat",
		Rating:     4.5,
	})
	require.NoError(t, err)

	activities := env.activities(ctx, testutil.User1.ID)
	require.Len(t, activities, 1)
	require.NotEmpty(t, activities[0].ID)
	require.False(t, activities[0].CreatedAt.IsZero())

	// The stats rollup moved in the same transaction.
	stats := env.stats(ctx, testutil.User1.ID)
	require.Equal(t, int64(1), stats.TotalRatings)
	require.Equal(t, 1, stats.CurrentStreak)
}

func Test_activityDomain_GetMyActivities(t *testing.T) {
	env := newTestEnv(false)
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)

	for _, movieID := range []string{"movie1", "movie2", "movie3"} {
		err := env.activityDomain.LogActivity(ctx, &entity.Activity{
			UserID:  testutil.User2.ID,
			Type:    entity.ActivityRating,
			MovieID: movieID,
			Rating:  3,
		})
		require.NoError(t, err)
	}

	resp, err := env.activityDomain.GetMyActivities(ctx, &model.GetMyActivitiesRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Activities, 3)

	// Newest first.
	for i := 1; i < len(resp.Activities); i++ {
		require.False(t, resp.Activities[i-1].CreatedAt.Before(resp.Activities[i].CreatedAt))
	}

	resp, err = env.activityDomain.GetMyActivities(ctx, &model.GetMyActivitiesRequest{Limit: 2})
	require.NoError(t, err)
	require.Len(t, resp.Activities, 2)
}

func Test_activityDomain_GetMyActivities_RepairsFeed(t *testing.T) {
	// The fixture review by user1 exists with no matching activity, the
	// feed load backfills it on the way.
	env := newTestEnv(false)
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)

	resp, err := env.activityDomain.GetMyActivities(ctx, &model.GetMyActivitiesRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Activities, 1)
	require.Equal(t, string(entity.ActivityRating), resp.Activities[0].Type)
	require.Equal(t, testutil.Review1.MovieID, resp.Activities[0].MovieID)
	require.Equal(t, testutil.Review1.MovieTitle, resp.Activities[0].MovieTitle)
	require.Equal(t, testutil.Review1.Rating, resp.Activities[0].Rating)
	require.Equal(t, testutil.Review1.CreatedAt, resp.Activities[0].CreatedAt.UTC())
}

func Test_activityDomain_SyncPastActivities(t *testing.T) {
	// All engagement runs with a logger that drops activities, leaving the
	// feed behind the content the user produced.
	env := newTestEnv(true)
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)

	_, err := env.reviewDomain.CreateReview(ctx, &model.CreateReviewRequest{
		MovieID:    "movie2",
		MovieTitle: "Taxi Driver",
		Rating:     4,
		Content:    "Unmatched.",
	})
	require.NoError(t, err)

	_, err = env.reviewDomain.SubmitMovieReply(ctx, &model.SubmitMovieReplyRequest{
		MovieID:  testutil.Review1.MovieID,
		ReviewID: testutil.Review1.ID,
		Content:  "Which cut did you watch?",
	})
	require.NoError(t, err)

	_, err = env.questionDomain.AddComment(ctx, &model.AddCommentRequest{
		QuestionID: testutil.Question1.ID,
		Content:    "The Player, no contest.",
	})
	require.NoError(t, err)

	_, err = env.reviewDomain.ToggleReviewLike(ctx, &model.ToggleReviewLikeRequest{
		MovieID: testutil.Review1.MovieID, ReviewID: testutil.Review1.ID,
	})
	require.NoError(t, err)

	require.Empty(t, env.activities(ctx, testutil.User2.ID))

	err = env.activityDomain.SyncPastActivities(ctx, testutil.User2.ID)
	require.NoError(t, err)

	activities := env.activities(ctx, testutil.User2.ID)
	require.Len(t, activities, 4)

	byType := map[entity.ActivityType]entity.Activity{}
	for _, activity := range activities {
		byType[activity.Type] = activity
	}

	require.Equal(t, "movie2", byType[entity.ActivityRating].MovieID)
	require.Equal(t, "Taxi Driver", byType[entity.ActivityRating].MovieTitle)
	require.Equal(t, float64(4), byType[entity.ActivityRating].Rating)

	require.Equal(t, testutil.Review1.MovieID, byType[entity.ActivityReply].MovieID)
	require.Equal(t, "Which cut did you watch?", byType[entity.ActivityReply].Content)

	require.Empty(t, byType[entity.ActivityComment].MovieID)
	require.Equal(t, "The Player, no contest.", byType[entity.ActivityComment].Content)

	require.Equal(t, testutil.Review1.MovieID, byType[entity.ActivityLike].MovieID)

	stats := env.stats(ctx, testutil.User2.ID)
	require.Equal(t, int64(1), stats.TotalRatings)
	require.Equal(t, int64(1), stats.TotalReplies)
	require.Equal(t, int64(1), stats.TotalComments)
	require.Equal(t, int64(1), stats.TotalLikes)

	// A second run finds everything accounted for and appends nothing.
	err = env.activityDomain.SyncPastActivities(ctx, testutil.User2.ID)
	require.NoError(t, err)
	require.Len(t, env.activities(ctx, testutil.User2.ID), 4)

	stats = env.stats(ctx, testutil.User2.ID)
	require.Equal(t, int64(1), stats.TotalRatings)
	require.Equal(t, int64(1), stats.TotalLikes)
}

func Test_activityDomain_SyncPastActivities_WatchHistoryFallback(t *testing.T) {
	env := newTestEnv(true)
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)

	watchHistoryRepo := repository.NewWatchHistoryRepository(&testutil.MockRedisClient{
		GetObjFunc: func(ctx context.Context, key string, v any) error {
			entry := v.(*entity.WatchHistoryEntry)
			*entry = entity.WatchHistoryEntry{
				MovieID:    "movie9",
				Title:      "Ronin",
				PosterPath: "/posters/ronin.jpg",
			}
			return nil
		},
	})
	activityDomain := NewActivityDomain(
		env.store, env.activityRepo, env.reviewRepo, env.replyRepo,
		watchHistoryRepo, env.aggregator)

	// A review written without display metadata.
	_, err := env.reviewDomain.CreateReview(ctx, &model.CreateReviewRequest{
		MovieID: "movie9",
		Rating:  5,
	})
	require.NoError(t, err)

	err = activityDomain.SyncPastActivities(ctx, testutil.User2.ID)
	require.NoError(t, err)

	activities := env.activities(ctx, testutil.User2.ID)
	require.Len(t, activities, 1)
	require.Equal(t, "Ronin", activities[0].MovieTitle)
	require.Equal(t, "/posters/ronin.jpg", activities[0].PosterPath)
}

func Test_activityDomain_SyncPastActivities_SkipsMalformed(t *testing.T) {
	env := newTestEnv(true)
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)

	_, err := env.reviewDomain.CreateReview(ctx, &model.CreateReviewRequest{
		MovieID:    "movie2",
		MovieTitle: "Taxi Driver",
		Rating:     4,
	})
	require.NoError(t, err)

	// A corrupted review document in the same corpus.
	err = env.store.Set(ctx, "movies/movie2/reviews/corrupted", docstore.Fields{
		"userId":    testutil.User2.ID,
		"movieId":   "movie2",
		"createdAt": "not-a-timestamp",
	})
	require.NoError(t, err)

	err = env.activityDomain.SyncPastActivities(ctx, testutil.User2.ID)
	require.NoError(t, err)

	// The healthy review still made it into the feed.
	activities := env.activities(ctx, testutil.User2.ID)
	require.Len(t, activities, 1)
	require.Equal(t, "movie2", activities[0].MovieID)
}
