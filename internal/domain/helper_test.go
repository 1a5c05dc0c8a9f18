package domain

import (
	"context"

	"github.com/reelmates/backend/internal/entity"
	"github.com/reelmates/backend/internal/repository"
	"github.com/reelmates/backend/pkg/docstore"
	"github.com/reelmates/backend/pkg/testutil"
)

// noopActivityLogger drops every activity, simulating the lost
// fire-and-forget side effects the backfill synchronizer has to repair.
type noopActivityLogger struct{}

func (noopActivityLogger) LogActivity(context.Context, *entity.Activity) error {
	return nil
}

// testEnv wires every domain against one fixture store. Engagement domains
// get the synchronous activity logger so feed and stats assertions are
// deterministic; pass dropActivities to simulate the detached boundary
// losing them instead.
type testEnv struct {
	store docstore.Store

	userRepo          repository.UserRepository
	friendRequestRepo repository.FriendRequestRepository
	friendshipRepo    repository.FriendshipRepository
	reviewRepo        repository.ReviewRepository
	replyRepo         repository.ReplyRepository
	questionRepo      repository.QuestionRepository
	pollRepo          repository.PollRepository
	activityRepo      repository.ActivityRepository
	statsRepo         repository.StatsRepository
	watchHistoryRepo  repository.WatchHistoryRepository

	aggregator *StatsAggregator

	userDomain         *userDomain
	relationshipDomain *relationshipDomain
	reviewDomain       *reviewDomain
	questionDomain     *questionDomain
	pollDomain         *pollDomain
	activityDomain     *activityDomain
	statisticDomain    *statisticDomain
}

func newTestEnv(dropActivities bool) *testEnv {
	env := &testEnv{store: testutil.CreateFixtureStore()}

	env.userRepo = repository.NewUserRepository()
	env.friendRequestRepo = repository.NewFriendRequestRepository(env.store)
	env.friendshipRepo = repository.NewFriendshipRepository(env.store)
	env.reviewRepo = repository.NewReviewRepository(env.store)
	env.replyRepo = repository.NewReplyRepository(env.store)
	env.questionRepo = repository.NewQuestionRepository(env.store)
	env.pollRepo = repository.NewPollRepository(env.store)
	env.activityRepo = repository.NewActivityRepository(env.store)
	env.statsRepo = repository.NewStatsRepository()
	env.watchHistoryRepo = repository.NewWatchHistoryRepository(&testutil.MockRedisClient{})

	env.aggregator = NewStatsAggregator(env.statsRepo)
	env.activityDomain = NewActivityDomain(
		env.store, env.activityRepo, env.reviewRepo, env.replyRepo,
		env.watchHistoryRepo, env.aggregator)

	var logger ActivityLogger = env.activityDomain
	if dropActivities {
		logger = noopActivityLogger{}
	}

	env.userDomain = NewUserDomain(env.store, env.userRepo)
	env.relationshipDomain = NewRelationshipDomain(
		env.store, env.userRepo, env.friendRequestRepo, env.friendshipRepo)
	env.reviewDomain = NewReviewDomain(env.store, env.reviewRepo, env.replyRepo, logger)
	env.questionDomain = NewQuestionDomain(env.store, env.questionRepo, env.replyRepo, logger)
	env.pollDomain = NewPollDomain(env.store, env.pollRepo)
	env.statisticDomain = NewStatisticDomain(env.store, env.statsRepo)

	return env
}

func (env *testEnv) user(ctx context.Context, userID string) *entity.User {
	user, err := env.userRepo.Get(ctx, env.store, userID)
	if err != nil {
		panic(err)
	}

	return user
}

func (env *testEnv) stats(ctx context.Context, userID string) *entity.UserStats {
	stats, err := env.statsRepo.Get(ctx, env.store, userID)
	if err != nil {
		panic(err)
	}

	return stats
}

func (env *testEnv) activities(ctx context.Context, userID string) []entity.Activity {
	activities, err := env.activityRepo.GetListByUserID(ctx, userID, 0)
	if err != nil {
		panic(err)
	}

	return activities
}
