package domain

import (
	"context"

	"github.com/reelmates/backend/internal/entity"
	"github.com/reelmates/backend/pkg/docstore"
	"github.com/reelmates/backend/pkg/errorx"
	"github.com/reelmates/backend/pkg/xcontext"
	"golang.org/x/exp/slices"
)

// ActivityLogger is the boundary between the engagement ledger and the
// activity feed. The synchronous implementation is ActivityDomain; the
// engagement domains receive the detached decorator instead, so a feed
// failure can never roll back or delay the mutation that triggered it.
type ActivityLogger interface {
	LogActivity(ctx context.Context, activity *entity.Activity) error
}

type detachedActivityLogger struct {
	logger ActivityLogger
}

func NewDetachedActivityLogger(logger ActivityLogger) *detachedActivityLogger {
	return &detachedActivityLogger{logger: logger}
}

// LogActivity runs the wrapped logger on a detached context in its own
// goroutine and always reports success. Failures are logged and swallowed;
// the backfill synchronizer repairs the gap later.
func (l *detachedActivityLogger) LogActivity(ctx context.Context, activity *entity.Activity) error {
	detachedCtx := xcontext.Detach(ctx)
	go func() {
		if err := l.logger.LogActivity(detachedCtx, activity); err != nil {
			xcontext.Logger(detachedCtx).Errorf("Cannot log %s activity of user %s: %v",
				activity.Type, activity.UserID, err)
		}
	}()

	return nil
}

type likeState struct {
	LikedBy    []string `json:"likedBy"`
	LikesCount int64    `json:"likesCount"`
}

// toggleLike flips userID's membership in the likedBy set of the document
// at path and rewrites likedBy and likesCount together, all inside one
// transaction. It returns the document as read (before the flip) along with
// the resulting membership and count.
func toggleLike(
	ctx context.Context, store docstore.Store, path, userID string,
) (*docstore.Document, bool, int64, error) {
	var doc *docstore.Document
	var liked bool
	var count int64

	err := store.RunTransaction(ctx, func(ctx context.Context, tx docstore.Handle) error {
		var err error
		doc, err = tx.Get(ctx, path)
		if err != nil {
			return err
		}

		var state likeState
		if err := docstore.Decode(doc, &state); err != nil {
			return err
		}

		likedBy := state.LikedBy
		if likedBy == nil {
			likedBy = []string{}
		}

		if i := slices.Index(likedBy, userID); i >= 0 {
			likedBy = slices.Delete(likedBy, i, i+1)
			liked = false
		} else {
			likedBy = append(likedBy, userID)
			liked = true
		}

		count = int64(len(likedBy))
		return tx.Update(ctx, path, docstore.Fields{
			"likedBy":    likedBy,
			"likesCount": count,
		})
	})
	if err != nil {
		return nil, false, 0, err
	}

	return doc, liked, count, nil
}

func requestUserID(ctx context.Context) (string, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return "", errorx.New(errorx.Unauthenticated, "Not allow an unauthenticated request")
	}

	return userID, nil
}

// listLimit clamps a caller-provided page size to the configured bounds.
func listLimit(ctx context.Context, limit int) int {
	cfg := xcontext.Configs(ctx).ApiServer
	if limit <= 0 {
		return cfg.DefaultLimit
	}
	if cfg.MaxLimit > 0 && limit > cfg.MaxLimit {
		return cfg.MaxLimit
	}

	return limit
}
