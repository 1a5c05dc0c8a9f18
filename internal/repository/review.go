package repository

import (
	"context"
	"time"

	"github.com/reelmates/backend/internal/entity"
	"github.com/reelmates/backend/pkg/docstore"
	"github.com/reelmates/backend/pkg/xcontext"
)

type ReviewRepository interface {
	// Create writes the review and merges the movie display snapshot in
	// the same handle, so both land atomically when h is a transaction or
	// batch.
	Create(ctx context.Context, h docstore.Handle, review *entity.MovieReview) error

	Get(ctx context.Context, h docstore.Handle, movieID, reviewID string) (*entity.MovieReview, error)
	GetListByMovieID(ctx context.Context, movieID string, limit int) ([]entity.MovieReview, error)

	// GetListByUserID is the cross-corpus reverse lookup by authorship
	// used by the backfill synchronizer.
	GetListByUserID(ctx context.Context, userID string) ([]entity.MovieReview, error)

	// GetListLikedBy is the reverse lookup on liked-by membership.
	GetListLikedBy(ctx context.Context, userID string) ([]entity.MovieReview, error)

	IncrementCommentCount(ctx context.Context, h docstore.Handle, movieID, reviewID string, delta int64) error
}

type reviewRepository struct {
	store docstore.Store
}

func NewReviewRepository(store docstore.Store) *reviewRepository {
	return &reviewRepository{store: store}
}

func (r *reviewRepository) Create(ctx context.Context, h docstore.Handle, review *entity.MovieReview) error {
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now()
	}
	if review.LikedBy == nil {
		review.LikedBy = []string{}
	}

	err := h.Set(ctx, entity.MoviePath(review.MovieID), docstore.Fields{
		"id":         review.MovieID,
		"title":      review.MovieTitle,
		"posterPath": review.PosterPath,
	}, docstore.Merge())
	if err != nil {
		return err
	}

	return h.Set(ctx, entity.ReviewPath(review.MovieID, review.ID), docstore.Fields{
		"id":           review.ID,
		"userId":       review.UserID,
		"movieId":      review.MovieID,
		"movieTitle":   review.MovieTitle,
		"posterPath":   review.PosterPath,
		"rating":       review.Rating,
		"content":      review.Content,
		"likedBy":      review.LikedBy,
		"likesCount":   review.LikesCount,
		"commentCount": review.CommentCount,
		"createdAt":    review.CreatedAt,
	})
}

func (r *reviewRepository) Get(
	ctx context.Context, h docstore.Handle, movieID, reviewID string,
) (*entity.MovieReview, error) {
	doc, err := h.Get(ctx, entity.ReviewPath(movieID, reviewID))
	if err != nil {
		return nil, err
	}

	var review entity.MovieReview
	if err := docstore.Decode(doc, &review); err != nil {
		return nil, err
	}

	review.ID = doc.ID()
	return &review, nil
}

func (r *reviewRepository) GetListByMovieID(
	ctx context.Context, movieID string, limit int,
) ([]entity.MovieReview, error) {
	docs, err := r.store.Query(ctx, entity.ReviewCollection(movieID), docstore.Query{
		OrderBy: "createdAt",
		Desc:    true,
		Limit:   limit,
	})
	if err != nil {
		return nil, err
	}

	return r.decodeList(ctx, docs), nil
}

func (r *reviewRepository) GetListByUserID(ctx context.Context, userID string) ([]entity.MovieReview, error) {
	docs, err := r.store.QueryGroup(ctx, "reviews", docstore.Query{
		Filters: []docstore.Filter{docstore.Where("userId", docstore.OpEqual, userID)},
	})
	if err != nil {
		return nil, err
	}

	return r.decodeList(ctx, docs), nil
}

func (r *reviewRepository) GetListLikedBy(ctx context.Context, userID string) ([]entity.MovieReview, error) {
	docs, err := r.store.QueryGroup(ctx, "reviews", docstore.Query{
		Filters: []docstore.Filter{docstore.Where("likedBy", docstore.OpArrayContains, userID)},
	})
	if err != nil {
		return nil, err
	}

	return r.decodeList(ctx, docs), nil
}

func (r *reviewRepository) IncrementCommentCount(
	ctx context.Context, h docstore.Handle, movieID, reviewID string, delta int64,
) error {
	return h.Update(ctx, entity.ReviewPath(movieID, reviewID), docstore.Fields{
		"commentCount": docstore.Inc(delta),
	})
}

// decodeList skips documents that fail to decode instead of aborting the
// whole scan.
func (r *reviewRepository) decodeList(ctx context.Context, docs []docstore.Document) []entity.MovieReview {
	result := []entity.MovieReview{}
	for i := range docs {
		var review entity.MovieReview
		if err := docstore.Decode(&docs[i], &review); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot decode review %s: %v", docs[i].Path, err)
			continue
		}

		review.ID = docs[i].ID()
		result = append(result, review)
	}

	return result
}
