package testutil

import (
	"context"
	"time"

	"github.com/reelmates/backend/config"
	"github.com/reelmates/backend/pkg/logger"
	"github.com/reelmates/backend/pkg/xcontext"
)

func MockContext() context.Context {
	cfg := config.Configs{
		Env: "test",
		ApiServer: config.ServerConfigs{
			Host:         "localhost",
			Port:         "8080",
			DefaultLimit: 20,
			MaxLimit:     50,
		},
		Auth: config.AuthConfigs{
			TokenSecret:     "secret",
			TokenExpiration: time.Minute,
		},
		Store: config.StoreConfigs{
			Backend: "memory",
		},
		Feed: config.FeedConfigs{
			DefaultLimit:  50,
			SyncScanLimit: 500,
		},
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	return ctx
}

func MockContextWithUserID(userID string) context.Context {
	return xcontext.WithRequestUserID(MockContext(), userID)
}
