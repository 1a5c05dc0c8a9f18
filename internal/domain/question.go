package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/reelmates/backend/internal/entity"
	"github.com/reelmates/backend/internal/model"
	"github.com/reelmates/backend/internal/repository"
	"github.com/reelmates/backend/pkg/docstore"
	"github.com/reelmates/backend/pkg/errorx"
	"github.com/reelmates/backend/pkg/xcontext"
)

type QuestionDomain interface {
	CreateQuestion(context.Context, *model.CreateQuestionRequest) (*model.CreateQuestionResponse, error)
	GetQuestions(context.Context, *model.GetQuestionsRequest) (*model.GetQuestionsResponse, error)
	ToggleQuestionLike(context.Context, *model.ToggleQuestionLikeRequest) (*model.ToggleQuestionLikeResponse, error)
	AddComment(context.Context, *model.AddCommentRequest) (*model.AddCommentResponse, error)
	GetComments(context.Context, *model.GetCommentsRequest) (*model.GetCommentsResponse, error)
	ToggleCommentLike(context.Context, *model.ToggleCommentLikeRequest) (*model.ToggleCommentLikeResponse, error)
}

type questionDomain struct {
	store          docstore.Store
	questionRepo   repository.QuestionRepository
	replyRepo      repository.ReplyRepository
	activityLogger ActivityLogger
}

func NewQuestionDomain(
	store docstore.Store,
	questionRepo repository.QuestionRepository,
	replyRepo repository.ReplyRepository,
	activityLogger ActivityLogger,
) *questionDomain {
	return &questionDomain{
		store:          store,
		questionRepo:   questionRepo,
		replyRepo:      replyRepo,
		activityLogger: activityLogger,
	}
}

func (d *questionDomain) CreateQuestion(
	ctx context.Context, req *model.CreateQuestionRequest,
) (*model.CreateQuestionResponse, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}

	if req.Content == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty content")
	}

	question := &entity.CommunityQuestion{
		ID:      uuid.NewString(),
		UserID:  userID,
		Content: req.Content,
	}
	if err := d.questionRepo.Create(ctx, d.store, question); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create question: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateQuestionResponse{ID: question.ID}, nil
}

func (d *questionDomain) GetQuestions(
	ctx context.Context, req *model.GetQuestionsRequest,
) (*model.GetQuestionsResponse, error) {
	questions, err := d.questionRepo.GetList(ctx, listLimit(ctx, req.Limit))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get questions: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetQuestionsResponse{Questions: model.ConvertQuestions(questions)}, nil
}

func (d *questionDomain) ToggleQuestionLike(
	ctx context.Context, req *model.ToggleQuestionLikeRequest,
) (*model.ToggleQuestionLikeResponse, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}

	if req.QuestionID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty question id")
	}

	_, liked, count, err := toggleLike(ctx, d.store, entity.QuestionPath(req.QuestionID), userID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found question")
		}
		if errors.Is(err, docstore.ErrConflict) {
			return nil, errorx.New(errorx.WriteConflict, "Too much contention, please try again")
		}

		xcontext.Logger(ctx).Errorf("Cannot toggle question like: %v", err)
		return nil, errorx.Unknown
	}

	return &model.ToggleQuestionLikeResponse{Liked: liked, LikesCount: count}, nil
}

// AddComment creates the comment and bumps the question's comment count in
// one transaction.
func (d *questionDomain) AddComment(
	ctx context.Context, req *model.AddCommentRequest,
) (*model.AddCommentResponse, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}

	if req.QuestionID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty question id")
	}
	if req.Content == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty content")
	}

	reply := &entity.Reply{
		ID:      uuid.NewString(),
		UserID:  userID,
		Content: req.Content,
	}

	parentPath := entity.QuestionPath(req.QuestionID)
	err = d.store.RunTransaction(ctx, func(ctx context.Context, tx docstore.Handle) error {
		if _, err := d.questionRepo.Get(ctx, tx, req.QuestionID); err != nil {
			return err
		}

		if err := d.replyRepo.Create(ctx, tx, parentPath, reply); err != nil {
			return err
		}

		return d.questionRepo.IncrementCommentCount(ctx, tx, req.QuestionID, 1)
	})
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found question")
		}
		if errors.Is(err, docstore.ErrConflict) {
			return nil, errorx.New(errorx.WriteConflict, "Too much contention, please try again")
		}

		xcontext.Logger(ctx).Errorf("Cannot add comment: %v", err)
		return nil, errorx.Unknown
	}

	d.activityLogger.LogActivity(ctx, &entity.Activity{
		UserID:    userID,
		Type:      entity.ActivityComment,
		Content:   reply.Content,
		CreatedAt: reply.CreatedAt,
	})

	return &model.AddCommentResponse{ID: reply.ID}, nil
}

func (d *questionDomain) GetComments(
	ctx context.Context, req *model.GetCommentsRequest,
) (*model.GetCommentsResponse, error) {
	if req.QuestionID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty question id")
	}

	replies, err := d.replyRepo.GetListByParent(
		ctx, entity.QuestionPath(req.QuestionID), listLimit(ctx, req.Limit))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get comments of question %s: %v", req.QuestionID, err)
		return nil, errorx.Unknown
	}

	return &model.GetCommentsResponse{Comments: model.ConvertReplies(replies)}, nil
}

func (d *questionDomain) ToggleCommentLike(
	ctx context.Context, req *model.ToggleCommentLikeRequest,
) (*model.ToggleCommentLikeResponse, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}

	if req.QuestionID == "" || req.ReplyID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty comment reference")
	}

	path := entity.ReplyPath(entity.QuestionPath(req.QuestionID), req.ReplyID)
	_, liked, count, err := toggleLike(ctx, d.store, path, userID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found comment")
		}
		if errors.Is(err, docstore.ErrConflict) {
			return nil, errorx.New(errorx.WriteConflict, "Too much contention, please try again")
		}

		xcontext.Logger(ctx).Errorf("Cannot toggle comment like: %v", err)
		return nil, errorx.Unknown
	}

	return &model.ToggleCommentLikeResponse{Liked: liked, LikesCount: count}, nil
}
