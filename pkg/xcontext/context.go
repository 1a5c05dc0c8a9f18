package xcontext

import (
	"context"

	"github.com/reelmates/backend/config"
	"github.com/reelmates/backend/pkg/logger"
)

type (
	configsKey       struct{}
	loggerKey        struct{}
	requestUserIDKey struct{}
)

func WithConfigs(ctx context.Context, cfg config.Configs) context.Context {
	return context.WithValue(ctx, configsKey{}, cfg)
}

func Configs(ctx context.Context) config.Configs {
	cfg, ok := ctx.Value(configsKey{}).(config.Configs)
	if !ok {
		return config.Configs{}
	}

	return cfg
}

func WithLogger(ctx context.Context, l logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

func Logger(ctx context.Context) logger.Logger {
	l, ok := ctx.Value(loggerKey{}).(logger.Logger)
	if !ok {
		return logger.NewLogger(logger.INFO)
	}

	return l
}

func WithRequestUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestUserIDKey{}, id)
}

func RequestUserID(ctx context.Context) string {
	id, ok := ctx.Value(requestUserIDKey{}).(string)
	if !ok {
		return ""
	}

	return id
}

// Detach returns a context carrying the request-scoped values of ctx but not
// its deadline or cancelation. Used for side effects that must outlive the
// request, like activity logging.
func Detach(ctx context.Context) context.Context {
	detached := context.Background()
	detached = WithConfigs(detached, Configs(ctx))
	detached = WithLogger(detached, Logger(ctx))
	detached = WithRequestUserID(detached, RequestUserID(ctx))
	return detached
}
