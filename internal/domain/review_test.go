package domain

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reelmates/backend/internal/entity"
	"github.com/reelmates/backend/internal/model"
	"github.com/reelmates/backend/pkg/errorx"
	"github.com/reelmates/backend/pkg/testutil"
)

func Test_reviewDomain_CreateReview(t *testing.T) {
	env := newTestEnv(false)
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)

	resp, err := env.reviewDomain.CreateReview(ctx, &model.CreateReviewRequest{
		MovieID:    "movie2",
		MovieTitle: "Taxi Driver",
		PosterPath: "/posters/taxi-driver.jpg",
		Rating:     4,
		Content:    "You talking to me?",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.ID)

	reviews, err := env.reviewDomain.GetReviews(ctx, &model.GetReviewsRequest{MovieID: "movie2"})
	require.NoError(t, err)
	require.Len(t, reviews.Reviews, 1)
	require.Equal(t, resp.ID, reviews.Reviews[0].ID)
	require.Equal(t, testutil.User2.ID, reviews.Reviews[0].UserID)
	require.Equal(t, float64(4), reviews.Reviews[0].Rating)

	// The synchronous activity logger recorded a rating activity and the
	// stats rollup in the same moment.
	activities := env.activities(ctx, testutil.User2.ID)
	require.Len(t, activities, 1)
	require.Equal(t, entity.ActivityRating, activities[0].Type)
	require.Equal(t, "movie2", activities[0].MovieID)
	require.Equal(t, "Taxi Driver", activities[0].MovieTitle)
	require.Equal(t, float64(4), activities[0].Rating)

	stats := env.stats(ctx, testutil.User2.ID)
	require.Equal(t, int64(1), stats.TotalRatings)
	require.Equal(t, map[string]int64{"4": 1}, stats.RatingBuckets)
}

func Test_reviewDomain_CreateReview_Invalid(t *testing.T) {
	env := newTestEnv(false)
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)

	_, err := env.reviewDomain.CreateReview(ctx, &model.CreateReviewRequest{Rating: 3})
	require.Error(t, err)

	_, err = env.reviewDomain.CreateReview(ctx, &model.CreateReviewRequest{
		MovieID: "movie2", Rating: 5.5,
	})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)
}

func Test_reviewDomain_ToggleReviewLike(t *testing.T) {
	env := newTestEnv(false)
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)

	resp, err := env.reviewDomain.ToggleReviewLike(ctx, &model.ToggleReviewLikeRequest{
		MovieID: testutil.Review1.MovieID, ReviewID: testutil.Review1.ID,
	})
	require.NoError(t, err)
	require.True(t, resp.Liked)
	require.Equal(t, int64(1), resp.LikesCount)

	reviews, err := env.reviewDomain.GetReviews(ctx, &model.GetReviewsRequest{
		MovieID: testutil.Review1.MovieID,
	})
	require.NoError(t, err)
	require.Len(t, reviews.Reviews, 1)
	require.Equal(t, []string{testutil.User2.ID}, reviews.Reviews[0].LikedBy)
	require.Equal(t, int64(1), reviews.Reviews[0].LikesCount)

	// Landing on liked logged a like activity.
	activities := env.activities(ctx, testutil.User2.ID)
	require.Len(t, activities, 1)
	require.Equal(t, entity.ActivityLike, activities[0].Type)
	require.Equal(t, testutil.Review1.MovieID, activities[0].MovieID)
	require.Equal(t, testutil.Review1.MovieTitle, activities[0].MovieTitle)

	// Toggling again removes the like but never retracts the activity.
	resp, err = env.reviewDomain.ToggleReviewLike(ctx, &model.ToggleReviewLikeRequest{
		MovieID: testutil.Review1.MovieID, ReviewID: testutil.Review1.ID,
	})
	require.NoError(t, err)
	require.False(t, resp.Liked)
	require.Equal(t, int64(0), resp.LikesCount)

	reviews, err = env.reviewDomain.GetReviews(ctx, &model.GetReviewsRequest{
		MovieID: testutil.Review1.MovieID,
	})
	require.NoError(t, err)
	require.Empty(t, reviews.Reviews[0].LikedBy)
	require.Equal(t, int64(0), reviews.Reviews[0].LikesCount)
	require.Len(t, env.activities(ctx, testutil.User2.ID), 1)
}

func Test_reviewDomain_ToggleReviewLike_Concurrent(t *testing.T) {
	env := newTestEnv(false)

	var wg sync.WaitGroup
	for _, userID := range []string{testutil.User2.ID, testutil.User3.ID} {
		wg.Add(1)
		go func(userID string) {
			defer wg.Done()

			ctx := testutil.MockContextWithUserID(userID)
			resp, err := env.reviewDomain.ToggleReviewLike(ctx, &model.ToggleReviewLikeRequest{
				MovieID: testutil.Review1.MovieID, ReviewID: testutil.Review1.ID,
			})
			require.NoError(t, err)
			require.True(t, resp.Liked)
		}(userID)
	}
	wg.Wait()

	ctx := testutil.MockContext()
	reviews, err := env.reviewDomain.GetReviews(ctx, &model.GetReviewsRequest{
		MovieID: testutil.Review1.MovieID,
	})
	require.NoError(t, err)
	require.Equal(t, int64(2), reviews.Reviews[0].LikesCount)
	require.ElementsMatch(t,
		[]string{testutil.User2.ID, testutil.User3.ID}, reviews.Reviews[0].LikedBy)
}

func Test_reviewDomain_ToggleReviewLike_NotFound(t *testing.T) {
	env := newTestEnv(false)
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)

	_, err := env.reviewDomain.ToggleReviewLike(ctx, &model.ToggleReviewLikeRequest{
		MovieID: "movie1", ReviewID: "missing",
	})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.NotFound, errx.Code)
}

func Test_reviewDomain_SubmitMovieReply(t *testing.T) {
	env := newTestEnv(false)
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)

	resp, err := env.reviewDomain.SubmitMovieReply(ctx, &model.SubmitMovieReplyRequest{
		MovieID:  testutil.Review1.MovieID,
		ReviewID: testutil.Review1.ID,
		Content:  "The diner scene still holds up.",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.ID)

	replies, err := env.reviewDomain.GetMovieReplies(ctx, &model.GetMovieRepliesRequest{
		MovieID: testutil.Review1.MovieID, ReviewID: testutil.Review1.ID,
	})
	require.NoError(t, err)
	require.Len(t, replies.Replies, 1)
	require.Equal(t, resp.ID, replies.Replies[0].ID)

	// The reply inherits the parent review's movie snapshot and the parent's
	// comment count moves in the same transaction.
	require.Equal(t, testutil.Review1.MovieID, replies.Replies[0].MovieID)
	require.Equal(t, testutil.Review1.MovieTitle, replies.Replies[0].MovieTitle)

	reviews, err := env.reviewDomain.GetReviews(ctx, &model.GetReviewsRequest{
		MovieID: testutil.Review1.MovieID,
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), reviews.Reviews[0].CommentCount)

	activities := env.activities(ctx, testutil.User2.ID)
	require.Len(t, activities, 1)
	require.Equal(t, entity.ActivityReply, activities[0].Type)
	require.Equal(t, testutil.Review1.MovieID, activities[0].MovieID)

	stats := env.stats(ctx, testutil.User2.ID)
	require.Equal(t, int64(1), stats.TotalReplies)
}

func Test_reviewDomain_SubmitMovieReply_NotFound(t *testing.T) {
	env := newTestEnv(false)
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)

	_, err := env.reviewDomain.SubmitMovieReply(ctx, &model.SubmitMovieReplyRequest{
		MovieID: "movie1", ReviewID: "missing", Content: "hello",
	})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.NotFound, errx.Code)
}

func Test_reviewDomain_ToggleMovieReplyLike(t *testing.T) {
	env := newTestEnv(false)
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)

	reply, err := env.reviewDomain.SubmitMovieReply(ctx, &model.SubmitMovieReplyRequest{
		MovieID:  testutil.Review1.MovieID,
		ReviewID: testutil.Review1.ID,
		Content:  "Agreed.",
	})
	require.NoError(t, err)

	ctx3 := testutil.MockContextWithUserID(testutil.User3.ID)
	resp, err := env.reviewDomain.ToggleMovieReplyLike(ctx3, &model.ToggleMovieReplyLikeRequest{
		MovieID:  testutil.Review1.MovieID,
		ReviewID: testutil.Review1.ID,
		ReplyID:  reply.ID,
	})
	require.NoError(t, err)
	require.True(t, resp.Liked)
	require.Equal(t, int64(1), resp.LikesCount)

	// Reply likes never produce activities.
	require.Empty(t, env.activities(ctx3, testutil.User3.ID))

	resp, err = env.reviewDomain.ToggleMovieReplyLike(ctx3, &model.ToggleMovieReplyLikeRequest{
		MovieID:  testutil.Review1.MovieID,
		ReviewID: testutil.Review1.ID,
		ReplyID:  reply.ID,
	})
	require.NoError(t, err)
	require.False(t, resp.Liked)
	require.Equal(t, int64(0), resp.LikesCount)
}
