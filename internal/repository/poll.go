package repository

import (
	"context"
	"time"

	"github.com/reelmates/backend/internal/entity"
	"github.com/reelmates/backend/pkg/docstore"
	"github.com/reelmates/backend/pkg/xcontext"
)

type PollRepository interface {
	Create(ctx context.Context, h docstore.Handle, poll *entity.MoviePoll) error
	Get(ctx context.Context, h docstore.Handle, pollID string) (*entity.MoviePoll, error)
	GetList(ctx context.Context, limit int) ([]entity.MoviePoll, error)

	// SetVotes writes the vote state as one unit: the options with their
	// tallies, the gating user-id set and the total. Callers compute the
	// new state from a read in the same transaction.
	SetVotes(ctx context.Context, h docstore.Handle, pollID string, options []entity.PollOption, votedUserIDs []string, totalVotes int64) error
}

type pollRepository struct {
	store docstore.Store
}

func NewPollRepository(store docstore.Store) *pollRepository {
	return &pollRepository{store: store}
}

func (r *pollRepository) Create(ctx context.Context, h docstore.Handle, poll *entity.MoviePoll) error {
	if poll.CreatedAt.IsZero() {
		poll.CreatedAt = time.Now()
	}
	if poll.LikedBy == nil {
		poll.LikedBy = []string{}
	}
	if poll.VotedUserIDs == nil {
		poll.VotedUserIDs = []string{}
	}

	return h.Set(ctx, entity.PollPath(poll.ID), docstore.Fields{
		"id":           poll.ID,
		"userId":       poll.UserID,
		"question":     poll.Question,
		"options":      optionsToFields(poll.Options),
		"votedUserIds": poll.VotedUserIDs,
		"totalVotes":   poll.TotalVotes,
		"likedBy":      poll.LikedBy,
		"likesCount":   poll.LikesCount,
		"createdAt":    poll.CreatedAt,
	})
}

func (r *pollRepository) Get(ctx context.Context, h docstore.Handle, pollID string) (*entity.MoviePoll, error) {
	doc, err := h.Get(ctx, entity.PollPath(pollID))
	if err != nil {
		return nil, err
	}

	var poll entity.MoviePoll
	if err := docstore.Decode(doc, &poll); err != nil {
		return nil, err
	}

	poll.ID = doc.ID()
	return &poll, nil
}

func (r *pollRepository) GetList(ctx context.Context, limit int) ([]entity.MoviePoll, error) {
	docs, err := r.store.Query(ctx, entity.PollCollection, docstore.Query{
		OrderBy: "createdAt",
		Desc:    true,
		Limit:   limit,
	})
	if err != nil {
		return nil, err
	}

	result := []entity.MoviePoll{}
	for i := range docs {
		var poll entity.MoviePoll
		if err := docstore.Decode(&docs[i], &poll); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot decode poll %s: %v", docs[i].Path, err)
			continue
		}

		poll.ID = docs[i].ID()
		result = append(result, poll)
	}

	return result, nil
}

func (r *pollRepository) SetVotes(
	ctx context.Context, h docstore.Handle, pollID string,
	options []entity.PollOption, votedUserIDs []string, totalVotes int64,
) error {
	return h.Update(ctx, entity.PollPath(pollID), docstore.Fields{
		"options":      optionsToFields(options),
		"votedUserIds": votedUserIDs,
		"totalVotes":   totalVotes,
	})
}

func optionsToFields(options []entity.PollOption) []any {
	result := make([]any, 0, len(options))
	for _, opt := range options {
		result = append(result, docstore.Fields{
			"id":    opt.ID,
			"text":  opt.Text,
			"votes": opt.Votes,
		})
	}

	return result
}
