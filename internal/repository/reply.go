package repository

import (
	"context"
	"time"

	"github.com/reelmates/backend/internal/entity"
	"github.com/reelmates/backend/pkg/docstore"
	"github.com/reelmates/backend/pkg/xcontext"
)

// ReplyRepository serves the "replies" sub-collections under both movie
// reviews and community questions; parentPath selects which.
type ReplyRepository interface {
	Create(ctx context.Context, h docstore.Handle, parentPath string, reply *entity.Reply) error
	Get(ctx context.Context, h docstore.Handle, parentPath, replyID string) (*entity.Reply, error)
	GetListByParent(ctx context.Context, parentPath string, limit int) ([]entity.Reply, error)

	// GetListByUserID spans every replies sub-collection, regardless of
	// parent kind.
	GetListByUserID(ctx context.Context, userID string) ([]entity.Reply, error)
}

type replyRepository struct {
	store docstore.Store
}

func NewReplyRepository(store docstore.Store) *replyRepository {
	return &replyRepository{store: store}
}

func (r *replyRepository) Create(
	ctx context.Context, h docstore.Handle, parentPath string, reply *entity.Reply,
) error {
	if reply.CreatedAt.IsZero() {
		reply.CreatedAt = time.Now()
	}
	if reply.LikedBy == nil {
		reply.LikedBy = []string{}
	}

	return h.Set(ctx, entity.ReplyPath(parentPath, reply.ID), docstore.Fields{
		"id":         reply.ID,
		"userId":     reply.UserID,
		"content":    reply.Content,
		"likedBy":    reply.LikedBy,
		"likesCount": reply.LikesCount,
		"movieId":    reply.MovieID,
		"movieTitle": reply.MovieTitle,
		"posterPath": reply.PosterPath,
		"createdAt":  reply.CreatedAt,
	})
}

func (r *replyRepository) Get(
	ctx context.Context, h docstore.Handle, parentPath, replyID string,
) (*entity.Reply, error) {
	doc, err := h.Get(ctx, entity.ReplyPath(parentPath, replyID))
	if err != nil {
		return nil, err
	}

	var reply entity.Reply
	if err := docstore.Decode(doc, &reply); err != nil {
		return nil, err
	}

	reply.ID = doc.ID()
	return &reply, nil
}

func (r *replyRepository) GetListByParent(
	ctx context.Context, parentPath string, limit int,
) ([]entity.Reply, error) {
	docs, err := r.store.Query(ctx, entity.ReplyCollection(parentPath), docstore.Query{
		OrderBy: "createdAt",
		Desc:    true,
		Limit:   limit,
	})
	if err != nil {
		return nil, err
	}

	return r.decodeList(ctx, docs), nil
}

func (r *replyRepository) GetListByUserID(ctx context.Context, userID string) ([]entity.Reply, error) {
	docs, err := r.store.QueryGroup(ctx, "replies", docstore.Query{
		Filters: []docstore.Filter{docstore.Where("userId", docstore.OpEqual, userID)},
	})
	if err != nil {
		return nil, err
	}

	return r.decodeList(ctx, docs), nil
}

func (r *replyRepository) decodeList(ctx context.Context, docs []docstore.Document) []entity.Reply {
	result := []entity.Reply{}
	for i := range docs {
		var reply entity.Reply
		if err := docstore.Decode(&docs[i], &reply); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot decode reply %s: %v", docs[i].Path, err)
			continue
		}

		reply.ID = docs[i].ID()
		result = append(result, reply)
	}

	return result
}
