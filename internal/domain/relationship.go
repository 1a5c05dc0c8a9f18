package domain

import (
	"context"
	"errors"

	"github.com/reelmates/backend/internal/entity"
	"github.com/reelmates/backend/internal/model"
	"github.com/reelmates/backend/internal/repository"
	"github.com/reelmates/backend/pkg/docstore"
	"github.com/reelmates/backend/pkg/errorx"
	"github.com/reelmates/backend/pkg/xcontext"
)

type RelationshipDomain interface {
	SendFriendRequest(context.Context, *model.SendFriendRequestRequest) (*model.SendFriendRequestResponse, error)
	AcceptFriendRequest(context.Context, *model.AcceptFriendRequestRequest) (*model.AcceptFriendRequestResponse, error)
	DeclineFriendRequest(context.Context, *model.DeclineFriendRequestRequest) (*model.DeclineFriendRequestResponse, error)
	CancelFriendRequest(context.Context, *model.CancelFriendRequestRequest) (*model.CancelFriendRequestResponse, error)
	RemoveFriend(context.Context, *model.RemoveFriendRequest) (*model.RemoveFriendResponse, error)
	GetFriendshipStatus(context.Context, *model.GetFriendshipStatusRequest) (*model.GetFriendshipStatusResponse, error)
	GetFriends(context.Context, *model.GetFriendsRequest) (*model.GetFriendsResponse, error)
	GetFriendRequests(context.Context, *model.GetFriendRequestsRequest) (*model.GetFriendRequestsResponse, error)
}

type relationshipDomain struct {
	store             docstore.Store
	userRepo          repository.UserRepository
	friendRequestRepo repository.FriendRequestRepository
	friendshipRepo    repository.FriendshipRepository
}

func NewRelationshipDomain(
	store docstore.Store,
	userRepo repository.UserRepository,
	friendRequestRepo repository.FriendRequestRepository,
	friendshipRepo repository.FriendshipRepository,
) *relationshipDomain {
	return &relationshipDomain{
		store:             store,
		userRepo:          userRepo,
		friendRequestRepo: friendRequestRepo,
		friendshipRepo:    friendshipRepo,
	}
}

func (d *relationshipDomain) SendFriendRequest(
	ctx context.Context, req *model.SendFriendRequestRequest,
) (*model.SendFriendRequestResponse, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}

	if req.UserID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty user id")
	}

	// Self-request is silently ignored.
	if req.UserID == userID {
		return &model.SendFriendRequestResponse{}, nil
	}

	if err := d.friendRequestRepo.Create(ctx, d.store, req.UserID, userID); err != nil {
		if errors.Is(err, docstore.ErrConflict) {
			return nil, errorx.New(errorx.WriteConflict, "Too much contention, please try again")
		}

		xcontext.Logger(ctx).Errorf("Cannot create friend request: %v", err)
		return nil, errorx.Unknown
	}

	return &model.SendFriendRequestResponse{}, nil
}

// AcceptFriendRequest commits both friendship halves, the request deletion
// and both counter bumps as one unit. A request that is already gone (a
// concurrent cancel, or a double accept) is a silent no-op.
func (d *relationshipDomain) AcceptFriendRequest(
	ctx context.Context, req *model.AcceptFriendRequestRequest,
) (*model.AcceptFriendRequestResponse, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}

	if req.UserID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty user id")
	}

	err = d.store.RunTransaction(ctx, func(ctx context.Context, tx docstore.Handle) error {
		_, err := d.friendRequestRepo.Get(ctx, tx, userID, req.UserID)
		if err != nil {
			if errors.Is(err, docstore.ErrNotFound) {
				return nil
			}
			return err
		}

		if err := d.friendshipRepo.CreatePair(ctx, tx, userID, req.UserID); err != nil {
			return err
		}

		if err := d.friendRequestRepo.Delete(ctx, tx, userID, req.UserID); err != nil {
			return err
		}

		if err := d.userRepo.IncrementFollowerCount(ctx, tx, userID, 1); err != nil {
			return err
		}

		return d.userRepo.IncrementFollowingCount(ctx, tx, req.UserID, 1)
	})
	if err != nil {
		if errors.Is(err, docstore.ErrConflict) {
			return nil, errorx.New(errorx.WriteConflict, "Too much contention, please try again")
		}

		xcontext.Logger(ctx).Errorf("Cannot accept friend request: %v", err)
		return nil, errorx.Unknown
	}

	return &model.AcceptFriendRequestResponse{}, nil
}

func (d *relationshipDomain) DeclineFriendRequest(
	ctx context.Context, req *model.DeclineFriendRequestRequest,
) (*model.DeclineFriendRequestResponse, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}

	if req.UserID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty user id")
	}

	if err := d.friendRequestRepo.Delete(ctx, d.store, userID, req.UserID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot decline friend request: %v", err)
		return nil, errorx.Unknown
	}

	return &model.DeclineFriendRequestResponse{}, nil
}

// CancelFriendRequest is the sender-side twin of DeclineFriendRequest; the
// request lives under the recipient either way.
func (d *relationshipDomain) CancelFriendRequest(
	ctx context.Context, req *model.CancelFriendRequestRequest,
) (*model.CancelFriendRequestResponse, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}

	if req.UserID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty user id")
	}

	if err := d.friendRequestRepo.Delete(ctx, d.store, req.UserID, userID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot cancel friend request: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CancelFriendRequestResponse{}, nil
}

// RemoveFriend deletes both friendship halves and decrements the remover's
// following count and the friend's follower count, floored at zero. The
// clamp needs the current values, so the counters are read and rewritten
// inside the transaction instead of blindly decremented.
func (d *relationshipDomain) RemoveFriend(
	ctx context.Context, req *model.RemoveFriendRequest,
) (*model.RemoveFriendResponse, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}

	if req.UserID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty user id")
	}

	err = d.store.RunTransaction(ctx, func(ctx context.Context, tx docstore.Handle) error {
		user, err := d.userRepo.Get(ctx, tx, userID)
		if err != nil {
			return err
		}

		friend, err := d.userRepo.Get(ctx, tx, req.UserID)
		if err != nil {
			return err
		}

		if err := d.friendshipRepo.DeletePair(ctx, tx, userID, req.UserID); err != nil {
			return err
		}

		following := user.FollowingCount - 1
		if following < 0 {
			following = 0
		}
		if err := d.userRepo.SetFollowCounts(ctx, tx, userID, user.FollowerCount, following); err != nil {
			return err
		}

		follower := friend.FollowerCount - 1
		if follower < 0 {
			follower = 0
		}
		return d.userRepo.SetFollowCounts(ctx, tx, req.UserID, follower, friend.FollowingCount)
	})
	if err != nil {
		if errors.Is(err, docstore.ErrConflict) {
			return nil, errorx.New(errorx.WriteConflict, "Too much contention, please try again")
		}

		xcontext.Logger(ctx).Errorf("Cannot remove friend: %v", err)
		return nil, errorx.Unknown
	}

	return &model.RemoveFriendResponse{}, nil
}

func (d *relationshipDomain) GetFriendshipStatus(
	ctx context.Context, req *model.GetFriendshipStatusRequest,
) (*model.GetFriendshipStatusResponse, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}

	if req.UserID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty user id")
	}

	friends, err := d.friendshipRepo.Exists(ctx, d.store, userID, req.UserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check friendship existence: %v", err)
		return nil, errorx.Unknown
	}
	if friends {
		return &model.GetFriendshipStatusResponse{Status: string(entity.FriendshipFriends)}, nil
	}

	_, err = d.friendRequestRepo.Get(ctx, d.store, req.UserID, userID)
	if err == nil {
		return &model.GetFriendshipStatusResponse{Status: string(entity.FriendshipRequestSent)}, nil
	}
	if !errors.Is(err, docstore.ErrNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get sent friend request: %v", err)
		return nil, errorx.Unknown
	}

	_, err = d.friendRequestRepo.Get(ctx, d.store, userID, req.UserID)
	if err == nil {
		return &model.GetFriendshipStatusResponse{Status: string(entity.FriendshipRequestReceived)}, nil
	}
	if !errors.Is(err, docstore.ErrNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get received friend request: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetFriendshipStatusResponse{Status: string(entity.FriendshipNone)}, nil
}

func (d *relationshipDomain) GetFriends(
	ctx context.Context, req *model.GetFriendsRequest,
) (*model.GetFriendsResponse, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}

	friends, err := d.friendshipRepo.GetListByUserID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get friends of user %s: %v", userID, err)
		return nil, errorx.Unknown
	}

	return &model.GetFriendsResponse{Friends: model.ConvertFriends(friends)}, nil
}

func (d *relationshipDomain) GetFriendRequests(
	ctx context.Context, req *model.GetFriendRequestsRequest,
) (*model.GetFriendRequestsResponse, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}

	requests, err := d.friendRequestRepo.GetListByRecipient(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get friend requests of user %s: %v", userID, err)
		return nil, errorx.Unknown
	}

	return &model.GetFriendRequestsResponse{Requests: model.ConvertFriendRequests(requests)}, nil
}
