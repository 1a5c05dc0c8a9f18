// Package router wraps gin with typed request/response handlers and the
// coded-error envelope the mobile clients expect.
package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/reelmates/backend/config"
	"github.com/reelmates/backend/pkg/jwt"
	"github.com/reelmates/backend/pkg/logger"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

type Router struct {
	Inner gin.IRouter

	cfg         config.Configs
	logger      logger.Logger
	tokenEngine *jwt.Engine
}

func New(cfg config.Configs, log logger.Logger) *Router {
	return &Router{
		Inner:       gin.New(),
		cfg:         cfg,
		logger:      log,
		tokenEngine: jwt.NewEngine(cfg.Auth.TokenSecret, cfg.Auth.TokenExpiration),
	}
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.Inner.GET(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.Inner.POST(pattern, wrapHandler(r, http.MethodPost, handler))
}

func (r *Router) Use(middleware ...gin.HandlerFunc) {
	r.Inner.Use(middleware...)
}

func (r *Router) Group(pattern string) *Router {
	return &Router{
		Inner:       r.Inner.Group(pattern),
		cfg:         r.cfg,
		logger:      r.logger,
		tokenEngine: r.tokenEngine,
	}
}

func (r *Router) Handler() http.Handler {
	return r.Inner.(*gin.Engine)
}
