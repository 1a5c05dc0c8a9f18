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
	"golang.org/x/exp/slices"
)

type PollDomain interface {
	CreatePoll(context.Context, *model.CreatePollRequest) (*model.CreatePollResponse, error)
	GetPolls(context.Context, *model.GetPollsRequest) (*model.GetPollsResponse, error)
	TogglePollLike(context.Context, *model.TogglePollLikeRequest) (*model.TogglePollLikeResponse, error)
	SubmitPollVote(context.Context, *model.SubmitPollVoteRequest) (*model.SubmitPollVoteResponse, error)
}

type pollDomain struct {
	store    docstore.Store
	pollRepo repository.PollRepository
}

func NewPollDomain(store docstore.Store, pollRepo repository.PollRepository) *pollDomain {
	return &pollDomain{store: store, pollRepo: pollRepo}
}

func (d *pollDomain) CreatePoll(
	ctx context.Context, req *model.CreatePollRequest,
) (*model.CreatePollResponse, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}

	if req.Question == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty question")
	}
	if len(req.Options) < 2 {
		return nil, errorx.New(errorx.BadRequest, "A poll needs at least two options")
	}

	options := []entity.PollOption{}
	for _, text := range req.Options {
		if text == "" {
			return nil, errorx.New(errorx.BadRequest, "Not allow empty option")
		}
		options = append(options, entity.PollOption{ID: uuid.NewString(), Text: text})
	}

	poll := &entity.MoviePoll{
		ID:       uuid.NewString(),
		UserID:   userID,
		Question: req.Question,
		Options:  options,
	}
	if err := d.pollRepo.Create(ctx, d.store, poll); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create poll: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreatePollResponse{ID: poll.ID}, nil
}

func (d *pollDomain) GetPolls(
	ctx context.Context, req *model.GetPollsRequest,
) (*model.GetPollsResponse, error) {
	polls, err := d.pollRepo.GetList(ctx, listLimit(ctx, req.Limit))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get polls: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetPollsResponse{
		Polls: model.ConvertPolls(polls, xcontext.RequestUserID(ctx)),
	}, nil
}

func (d *pollDomain) TogglePollLike(
	ctx context.Context, req *model.TogglePollLikeRequest,
) (*model.TogglePollLikeResponse, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}

	if req.PollID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty poll id")
	}

	_, liked, count, err := toggleLike(ctx, d.store, entity.PollPath(req.PollID), userID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found poll")
		}
		if errors.Is(err, docstore.ErrConflict) {
			return nil, errorx.New(errorx.WriteConflict, "Too much contention, please try again")
		}

		xcontext.Logger(ctx).Errorf("Cannot toggle poll like: %v", err)
		return nil, errorx.Unknown
	}

	return &model.TogglePollLikeResponse{Liked: liked, LikesCount: count}, nil
}

// SubmitPollVote records one vote per user per poll. Eligibility and the
// vote itself are checked and written in the same transaction, gated on the
// votedUserIds set; a user who already voted is a silent no-op.
func (d *pollDomain) SubmitPollVote(
	ctx context.Context, req *model.SubmitPollVoteRequest,
) (*model.SubmitPollVoteResponse, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}

	if req.PollID == "" || req.OptionID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty vote reference")
	}

	err = d.store.RunTransaction(ctx, func(ctx context.Context, tx docstore.Handle) error {
		poll, err := d.pollRepo.Get(ctx, tx, req.PollID)
		if err != nil {
			return err
		}

		if slices.Contains(poll.VotedUserIDs, userID) {
			return nil
		}

		optionIndex := slices.IndexFunc(poll.Options, func(o entity.PollOption) bool {
			return o.ID == req.OptionID
		})
		if optionIndex < 0 {
			return errorx.New(errorx.BadRequest, "Not found option in this poll")
		}

		poll.Options[optionIndex].Votes++
		poll.TotalVotes++
		poll.VotedUserIDs = append(poll.VotedUserIDs, userID)

		return d.pollRepo.SetVotes(ctx, tx, req.PollID, poll.Options, poll.VotedUserIDs, poll.TotalVotes)
	})
	if err != nil {
		var errx errorx.Error
		if errors.As(err, &errx) {
			return nil, errx
		}
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found poll")
		}
		if errors.Is(err, docstore.ErrConflict) {
			return nil, errorx.New(errorx.WriteConflict, "Too much contention, please try again")
		}

		xcontext.Logger(ctx).Errorf("Cannot submit poll vote: %v", err)
		return nil, errorx.Unknown
	}

	return &model.SubmitPollVoteResponse{}, nil
}
