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

type ReviewDomain interface {
	CreateReview(context.Context, *model.CreateReviewRequest) (*model.CreateReviewResponse, error)
	GetReviews(context.Context, *model.GetReviewsRequest) (*model.GetReviewsResponse, error)
	ToggleReviewLike(context.Context, *model.ToggleReviewLikeRequest) (*model.ToggleReviewLikeResponse, error)
	SubmitMovieReply(context.Context, *model.SubmitMovieReplyRequest) (*model.SubmitMovieReplyResponse, error)
	GetMovieReplies(context.Context, *model.GetMovieRepliesRequest) (*model.GetMovieRepliesResponse, error)
	ToggleMovieReplyLike(context.Context, *model.ToggleMovieReplyLikeRequest) (*model.ToggleMovieReplyLikeResponse, error)
}

type reviewDomain struct {
	store          docstore.Store
	reviewRepo     repository.ReviewRepository
	replyRepo      repository.ReplyRepository
	activityLogger ActivityLogger
}

func NewReviewDomain(
	store docstore.Store,
	reviewRepo repository.ReviewRepository,
	replyRepo repository.ReplyRepository,
	activityLogger ActivityLogger,
) *reviewDomain {
	return &reviewDomain{
		store:          store,
		reviewRepo:     reviewRepo,
		replyRepo:      replyRepo,
		activityLogger: activityLogger,
	}
}

func (d *reviewDomain) CreateReview(
	ctx context.Context, req *model.CreateReviewRequest,
) (*model.CreateReviewResponse, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}

	if req.MovieID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty movie id")
	}
	if req.Rating < 0 || req.Rating > 5 {
		return nil, errorx.New(errorx.BadRequest, "Rating must be between 0 and 5")
	}

	review := &entity.MovieReview{
		ID:         uuid.NewString(),
		UserID:     userID,
		MovieID:    req.MovieID,
		MovieTitle: req.MovieTitle,
		PosterPath: req.PosterPath,
		Rating:     req.Rating,
		Content:    req.Content,
	}

	err = d.store.RunTransaction(ctx, func(ctx context.Context, tx docstore.Handle) error {
		return d.reviewRepo.Create(ctx, tx, review)
	})
	if err != nil {
		if errors.Is(err, docstore.ErrConflict) {
			return nil, errorx.New(errorx.WriteConflict, "Too much contention, please try again")
		}

		xcontext.Logger(ctx).Errorf("Cannot create review: %v", err)
		return nil, errorx.Unknown
	}

	d.activityLogger.LogActivity(ctx, &entity.Activity{
		UserID:     userID,
		Type:       entity.ActivityRating,
		MovieID:    review.MovieID,
		MovieTitle: review.MovieTitle,
		PosterPath: review.PosterPath,
		Content:    review.Content,
		Rating:     review.Rating,
		CreatedAt:  review.CreatedAt,
	})

	return &model.CreateReviewResponse{ID: review.ID}, nil
}

func (d *reviewDomain) GetReviews(
	ctx context.Context, req *model.GetReviewsRequest,
) (*model.GetReviewsResponse, error) {
	if req.MovieID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty movie id")
	}

	reviews, err := d.reviewRepo.GetListByMovieID(ctx, req.MovieID, listLimit(ctx, req.Limit))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get reviews of movie %s: %v", req.MovieID, err)
		return nil, errorx.Unknown
	}

	return &model.GetReviewsResponse{Reviews: model.ConvertReviews(reviews)}, nil
}

// ToggleReviewLike flips the caller's like on a review. Landing on "liked"
// also records a like activity; unliking never retracts one.
func (d *reviewDomain) ToggleReviewLike(
	ctx context.Context, req *model.ToggleReviewLikeRequest,
) (*model.ToggleReviewLikeResponse, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}

	if req.MovieID == "" || req.ReviewID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty review reference")
	}

	path := entity.ReviewPath(req.MovieID, req.ReviewID)
	doc, liked, count, err := toggleLike(ctx, d.store, path, userID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found review")
		}
		if errors.Is(err, docstore.ErrConflict) {
			return nil, errorx.New(errorx.WriteConflict, "Too much contention, please try again")
		}

		xcontext.Logger(ctx).Errorf("Cannot toggle review like: %v", err)
		return nil, errorx.Unknown
	}

	if liked {
		var review entity.MovieReview
		if err := docstore.Decode(doc, &review); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot decode review %s: %v", path, err)
		} else {
			d.activityLogger.LogActivity(ctx, &entity.Activity{
				UserID:     userID,
				Type:       entity.ActivityLike,
				MovieID:    review.MovieID,
				MovieTitle: review.MovieTitle,
				PosterPath: review.PosterPath,
			})
		}
	}

	return &model.ToggleReviewLikeResponse{Liked: liked, LikesCount: count}, nil
}

// SubmitMovieReply creates the reply and bumps the parent's comment count
// in one transaction, so the counter always matches the committed children.
func (d *reviewDomain) SubmitMovieReply(
	ctx context.Context, req *model.SubmitMovieReplyRequest,
) (*model.SubmitMovieReplyResponse, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}

	if req.MovieID == "" || req.ReviewID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty review reference")
	}
	if req.Content == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty content")
	}

	reply := &entity.Reply{
		ID:      uuid.NewString(),
		UserID:  userID,
		Content: req.Content,
	}

	parentPath := entity.ReviewPath(req.MovieID, req.ReviewID)
	err = d.store.RunTransaction(ctx, func(ctx context.Context, tx docstore.Handle) error {
		review, err := d.reviewRepo.Get(ctx, tx, req.MovieID, req.ReviewID)
		if err != nil {
			return err
		}

		reply.MovieID = review.MovieID
		reply.MovieTitle = review.MovieTitle
		reply.PosterPath = review.PosterPath
		if err := d.replyRepo.Create(ctx, tx, parentPath, reply); err != nil {
			return err
		}

		return d.reviewRepo.IncrementCommentCount(ctx, tx, req.MovieID, req.ReviewID, 1)
	})
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found review")
		}
		if errors.Is(err, docstore.ErrConflict) {
			return nil, errorx.New(errorx.WriteConflict, "Too much contention, please try again")
		}

		xcontext.Logger(ctx).Errorf("Cannot submit movie reply: %v", err)
		return nil, errorx.Unknown
	}

	d.activityLogger.LogActivity(ctx, &entity.Activity{
		UserID:     userID,
		Type:       entity.ActivityReply,
		MovieID:    reply.MovieID,
		MovieTitle: reply.MovieTitle,
		PosterPath: reply.PosterPath,
		Content:    reply.Content,
		CreatedAt:  reply.CreatedAt,
	})

	return &model.SubmitMovieReplyResponse{ID: reply.ID}, nil
}

func (d *reviewDomain) GetMovieReplies(
	ctx context.Context, req *model.GetMovieRepliesRequest,
) (*model.GetMovieRepliesResponse, error) {
	if req.MovieID == "" || req.ReviewID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty review reference")
	}

	replies, err := d.replyRepo.GetListByParent(
		ctx, entity.ReviewPath(req.MovieID, req.ReviewID), listLimit(ctx, req.Limit))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get replies of review %s: %v", req.ReviewID, err)
		return nil, errorx.Unknown
	}

	return &model.GetMovieRepliesResponse{Replies: model.ConvertReplies(replies)}, nil
}

func (d *reviewDomain) ToggleMovieReplyLike(
	ctx context.Context, req *model.ToggleMovieReplyLikeRequest,
) (*model.ToggleMovieReplyLikeResponse, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}

	if req.MovieID == "" || req.ReviewID == "" || req.ReplyID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty reply reference")
	}

	path := entity.ReplyPath(entity.ReviewPath(req.MovieID, req.ReviewID), req.ReplyID)
	_, liked, count, err := toggleLike(ctx, d.store, path, userID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found reply")
		}
		if errors.Is(err, docstore.ErrConflict) {
			return nil, errorx.New(errorx.WriteConflict, "Too much contention, please try again")
		}

		xcontext.Logger(ctx).Errorf("Cannot toggle reply like: %v", err)
		return nil, errorx.Unknown
	}

	return &model.ToggleMovieReplyLikeResponse{Liked: liked, LikesCount: count}, nil
}
