package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/reelmates/backend/pkg/errorx"
	"github.com/reelmates/backend/pkg/xcontext"
)

const userIDKey = "router.user_id"

// RequireAuth rejects requests without a valid bearer token and records the
// caller's user id for the wrapped handlers.
func (r *Router) RequireAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID, err := r.tokenEngine.Verify(bearerToken(ctx.Request))
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(errorx.New(errorx.Unauthenticated, "Invalid access token")))
			return
		}

		ctx.Set(userIDKey, userID)
		ctx.Next()
	}
}

func bearerToken(r *http.Request) string {
	auth, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || auth != "Bearer" {
		return ""
	}

	return token
}

func wrapHandler[Request, Response any](
	r *Router, method string, handler HandlerFunc[Request, Response],
) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		var req Request
		var err error
		switch method {
		case http.MethodGet:
			err = gctx.ShouldBindQuery(&req)
		default:
			if gctx.Request.ContentLength > 0 {
				err = gctx.ShouldBindJSON(&req)
			}
		}
		if err != nil {
			gctx.JSON(http.StatusBadRequest,
				newErrorResponse(errorx.New(errorx.BadRequest, "Cannot bind the request")))
			return
		}

		ctx := gctx.Request.Context()
		ctx = xcontext.WithConfigs(ctx, r.cfg)
		ctx = xcontext.WithLogger(ctx, r.logger)
		if userID := gctx.GetString(userIDKey); userID != "" {
			ctx = xcontext.WithRequestUserID(ctx, userID)
		}

		resp, err := handler(ctx, &req)
		if err != nil {
			gctx.JSON(statusOf(err), newErrorResponse(err))
			return
		}

		gctx.JSON(http.StatusOK, newResponse(resp))
	}
}
