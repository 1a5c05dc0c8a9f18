package main

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/reelmates/backend/config"
	"github.com/reelmates/backend/internal/domain"
	"github.com/reelmates/backend/internal/repository"
	"github.com/reelmates/backend/pkg/docstore"
	"github.com/reelmates/backend/pkg/logger"
	"github.com/reelmates/backend/pkg/router"
	"github.com/reelmates/backend/pkg/xredis"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type srv struct {
	app *cli.App

	configs config.Configs
	logger  logger.Logger

	store       docstore.Store
	redisClient xredis.Client

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

	userDomain         domain.UserDomain
	relationshipDomain domain.RelationshipDomain
	reviewDomain       domain.ReviewDomain
	questionDomain     domain.QuestionDomain
	pollDomain         domain.PollDomain
	activityDomain     domain.ActivityDomain
	statisticDomain    domain.StatisticDomain

	router *router.Router
	server *http.Server
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return value
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return value
}

func (s *srv) loadConfig() {
	s.configs = config.Configs{
		Env: getEnv("ENV", "local"),
		ApiServer: config.ServerConfigs{
			Host:         getEnv("HOST", "localhost"),
			Port:         getEnv("PORT", "8080"),
			DefaultLimit: getEnvInt("DEFAULT_LIMIT", 20),
			MaxLimit:     getEnvInt("MAX_LIMIT", 100),
		},
		Auth: config.AuthConfigs{
			TokenSecret:     getEnv("TOKEN_SECRET", "token_secret"),
			TokenExpiration: getEnvDuration("TOKEN_EXPIRATION", 30*24*time.Hour),
		},
		Store: config.StoreConfigs{
			Backend: getEnv("STORE_BACKEND", "mongo"),
		},
		Mongo: config.MongoConfigs{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DATABASE", "reelmates"),
		},
		Database: config.DatabaseConfigs{
			Host:     getEnv("MYSQL_HOST", "localhost"),
			Port:     getEnv("MYSQL_PORT", "3306"),
			Database: getEnv("MYSQL_DATABASE", "reelmates"),
			User:     getEnv("MYSQL_USER", "reelmates"),
			Password: getEnv("MYSQL_PASSWORD", "secret"),
		},
		Redis: config.RedisConfigs{
			Addr: getEnv("REDIS_ADDR", "localhost:6379"),
		},
		Feed: config.FeedConfigs{
			DefaultLimit:  getEnvInt("FEED_DEFAULT_LIMIT", 50),
			SyncScanLimit: getEnvInt("FEED_SYNC_SCAN_LIMIT", 500),
		},
	}
}

func (s *srv) loadLogger() {
	level := logger.INFO
	if s.configs.Env == "local" {
		level = logger.DEBUG
	}

	s.logger = logger.NewLogger(level)
}

func (s *srv) loadStore() {
	switch s.configs.Store.Backend {
	case "mongo":
		store, err := docstore.NewMongoStore(
			context.Background(), s.configs.Mongo.URI, s.configs.Mongo.Database)
		if err != nil {
			panic(err)
		}
		s.store = store

	case "sql":
		db, err := gorm.Open(mysql.Open(s.configs.Database.ConnectionString()), &gorm.Config{})
		if err != nil {
			panic(err)
		}

		store, err := docstore.NewSQLStore(db)
		if err != nil {
			panic(err)
		}
		s.store = store

	case "memory":
		s.store = docstore.NewMemoryStore()

	default:
		panic("unknown store backend " + s.configs.Store.Backend)
	}
}

func (s *srv) loadRedis() {
	client, err := xredis.NewClient(context.Background(), s.configs.Redis.Addr)
	if err != nil {
		panic(err)
	}

	s.redisClient = client
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.friendRequestRepo = repository.NewFriendRequestRepository(s.store)
	s.friendshipRepo = repository.NewFriendshipRepository(s.store)
	s.reviewRepo = repository.NewReviewRepository(s.store)
	s.replyRepo = repository.NewReplyRepository(s.store)
	s.questionRepo = repository.NewQuestionRepository(s.store)
	s.pollRepo = repository.NewPollRepository(s.store)
	s.activityRepo = repository.NewActivityRepository(s.store)
	s.statsRepo = repository.NewStatsRepository()
	s.watchHistoryRepo = repository.NewWatchHistoryRepository(s.redisClient)
}

func (s *srv) loadDomains() {
	aggregator := domain.NewStatsAggregator(s.statsRepo)
	s.activityDomain = domain.NewActivityDomain(
		s.store, s.activityRepo, s.reviewRepo, s.replyRepo, s.watchHistoryRepo, aggregator)

	activityLogger := domain.NewDetachedActivityLogger(s.activityDomain)

	s.userDomain = domain.NewUserDomain(s.store, s.userRepo)
	s.relationshipDomain = domain.NewRelationshipDomain(
		s.store, s.userRepo, s.friendRequestRepo, s.friendshipRepo)
	s.reviewDomain = domain.NewReviewDomain(s.store, s.reviewRepo, s.replyRepo, activityLogger)
	s.questionDomain = domain.NewQuestionDomain(s.store, s.questionRepo, s.replyRepo, activityLogger)
	s.pollDomain = domain.NewPollDomain(s.store, s.pollRepo)
	s.statisticDomain = domain.NewStatisticDomain(s.store, s.statsRepo)
}
