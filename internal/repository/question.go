package repository

import (
	"context"
	"time"

	"github.com/reelmates/backend/internal/entity"
	"github.com/reelmates/backend/pkg/docstore"
	"github.com/reelmates/backend/pkg/xcontext"
)

type QuestionRepository interface {
	Create(ctx context.Context, h docstore.Handle, question *entity.CommunityQuestion) error
	Get(ctx context.Context, h docstore.Handle, questionID string) (*entity.CommunityQuestion, error)
	GetList(ctx context.Context, limit int) ([]entity.CommunityQuestion, error)
	IncrementCommentCount(ctx context.Context, h docstore.Handle, questionID string, delta int64) error
}

type questionRepository struct {
	store docstore.Store
}

func NewQuestionRepository(store docstore.Store) *questionRepository {
	return &questionRepository{store: store}
}

func (r *questionRepository) Create(
	ctx context.Context, h docstore.Handle, question *entity.CommunityQuestion,
) error {
	if question.CreatedAt.IsZero() {
		question.CreatedAt = time.Now()
	}
	if question.LikedBy == nil {
		question.LikedBy = []string{}
	}

	return h.Set(ctx, entity.QuestionPath(question.ID), docstore.Fields{
		"id":           question.ID,
		"userId":       question.UserID,
		"content":      question.Content,
		"likedBy":      question.LikedBy,
		"likesCount":   question.LikesCount,
		"commentCount": question.CommentCount,
		"createdAt":    question.CreatedAt,
	})
}

func (r *questionRepository) Get(
	ctx context.Context, h docstore.Handle, questionID string,
) (*entity.CommunityQuestion, error) {
	doc, err := h.Get(ctx, entity.QuestionPath(questionID))
	if err != nil {
		return nil, err
	}

	var question entity.CommunityQuestion
	if err := docstore.Decode(doc, &question); err != nil {
		return nil, err
	}

	question.ID = doc.ID()
	return &question, nil
}

func (r *questionRepository) GetList(ctx context.Context, limit int) ([]entity.CommunityQuestion, error) {
	docs, err := r.store.Query(ctx, entity.QuestionCollection, docstore.Query{
		OrderBy: "createdAt",
		Desc:    true,
		Limit:   limit,
	})
	if err != nil {
		return nil, err
	}

	result := []entity.CommunityQuestion{}
	for i := range docs {
		var question entity.CommunityQuestion
		if err := docstore.Decode(&docs[i], &question); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot decode question %s: %v", docs[i].Path, err)
			continue
		}

		question.ID = docs[i].ID()
		result = append(result, question)
	}

	return result, nil
}

func (r *questionRepository) IncrementCommentCount(
	ctx context.Context, h docstore.Handle, questionID string, delta int64,
) error {
	return h.Update(ctx, entity.QuestionPath(questionID), docstore.Fields{
		"commentCount": docstore.Inc(delta),
	})
}
