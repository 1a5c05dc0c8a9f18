package domain

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/reelmates/backend/internal/entity"
	"github.com/reelmates/backend/internal/model"
	"github.com/reelmates/backend/pkg/testutil"
)

func applyStats(
	t *testing.T, env *testEnv, ctx context.Context,
	userID string, activityType entity.ActivityType, rating float64,
) {
	t.Helper()
	err := env.aggregator.Apply(ctx, env.store, userID, activityType, rating)
	require.NoError(t, err)
}

func Test_StatsAggregator_Streak(t *testing.T) {
	day := func(d int, hour int) time.Time {
		return time.Date(2024, time.March, d, hour, 0, 0, 0, time.UTC)
	}

	testcases := []struct {
		name          string
		times         []time.Time
		currentStreak int
		longestStreak int
	}{
		{
			name:          "first activity starts a streak",
			times:         []time.Time{day(1, 10)},
			currentStreak: 1,
			longestStreak: 1,
		},
		{
			name:          "same day does not inflate",
			times:         []time.Time{day(1, 10), day(1, 23)},
			currentStreak: 1,
			longestStreak: 1,
		},
		{
			name:          "consecutive days extend",
			times:         []time.Time{day(1, 23), day(2, 0), day(3, 12)},
			currentStreak: 3,
			longestStreak: 3,
		},
		{
			name:          "a gap resets but keeps the longest",
			times:         []time.Time{day(1, 10), day(2, 10), day(3, 10), day(6, 10)},
			currentStreak: 1,
			longestStreak: 3,
		},
		{
			name:          "rebuilding after a gap",
			times:         []time.Time{day(1, 10), day(2, 10), day(5, 10), day(6, 10)},
			currentStreak: 2,
			longestStreak: 2,
		},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(false)
			ctx := testutil.MockContext()

			for _, at := range tc.times {
				now := at
				env.aggregator.now = func() time.Time { return now }
				applyStats(t, env, ctx, testutil.User1.ID, entity.ActivityComment, 0)
			}

			stats := env.stats(ctx, testutil.User1.ID)
			require.Equal(t, tc.currentStreak, stats.CurrentStreak)
			require.Equal(t, tc.longestStreak, stats.LongestStreak)
			require.Equal(t, tc.times[len(tc.times)-1], stats.LastActivityAt.UTC())
		})
	}
}

func Test_StatsAggregator_Counters(t *testing.T) {
	env := newTestEnv(false)
	ctx := testutil.MockContext()

	applyStats(t, env, ctx, testutil.User1.ID, entity.ActivityRating, 4.5)
	applyStats(t, env, ctx, testutil.User1.ID, entity.ActivityRating, 4.5)
	applyStats(t, env, ctx, testutil.User1.ID, entity.ActivityRating, 4)
	applyStats(t, env, ctx, testutil.User1.ID, entity.ActivityComment, 0)
	applyStats(t, env, ctx, testutil.User1.ID, entity.ActivityReply, 0)
	applyStats(t, env, ctx, testutil.User1.ID, entity.ActivityLike, 0)

	stats := env.stats(ctx, testutil.User1.ID)
	require.Equal(t, int64(3), stats.TotalRatings)
	require.Equal(t, int64(1), stats.TotalComments)
	require.Equal(t, int64(1), stats.TotalReplies)
	require.Equal(t, int64(1), stats.TotalLikes)
	require.Equal(t, map[string]int64{"4.5": 2, "4": 1}, stats.RatingBuckets)
}

func Test_statisticDomain_GetMyStats(t *testing.T) {
	env := newTestEnv(false)
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)

	// No stats document yet, everything comes back zero.
	resp, err := env.statisticDomain.GetMyStats(ctx, &model.GetMyStatsRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(0), resp.TotalRatings)
	require.Equal(t, 0, resp.CurrentStreak)
	require.Empty(t, resp.RatingBuckets)

	applyStats(t, env, ctx, testutil.User1.ID, entity.ActivityRating, 3.5)

	resp, err = env.statisticDomain.GetMyStats(ctx, &model.GetMyStatsRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(1), resp.TotalRatings)
	require.Equal(t, 1, resp.CurrentStreak)
	require.Equal(t, map[string]int64{"3.5": 1}, resp.RatingBuckets)
}
