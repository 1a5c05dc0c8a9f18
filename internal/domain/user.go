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
	"golang.org/x/exp/slices"
)

const maxTopFavorites = 5

var contentRefKinds = []string{"review", "question", "poll"}

type UserDomain interface {
	Create(context.Context, *model.CreateUserRequest) (*model.CreateUserResponse, error)
	Get(context.Context, *model.GetUserRequest) (*model.GetUserResponse, error)
	UpdateTopFavorites(context.Context, *model.UpdateTopFavoritesRequest) (*model.UpdateTopFavoritesResponse, error)
}

type userDomain struct {
	store    docstore.Store
	userRepo repository.UserRepository
}

func NewUserDomain(store docstore.Store, userRepo repository.UserRepository) *userDomain {
	return &userDomain{store: store, userRepo: userRepo}
}

func (d *userDomain) Create(
	ctx context.Context, req *model.CreateUserRequest,
) (*model.CreateUserResponse, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}

	if req.Username == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty username")
	}

	_, err = d.userRepo.Get(ctx, d.store, userID)
	if err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "The user already exists")
	}
	if !errors.Is(err, docstore.ErrNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get user %s: %v", userID, err)
		return nil, errorx.Unknown
	}

	user := &entity.User{
		ID:        userID,
		Username:  req.Username,
		Name:      req.Name,
		AvatarURL: req.AvatarURL,
	}
	if err := d.userRepo.Create(ctx, d.store, user); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create user %s: %v", userID, err)
		return nil, errorx.Unknown
	}

	return &model.CreateUserResponse{}, nil
}

func (d *userDomain) Get(
	ctx context.Context, req *model.GetUserRequest,
) (*model.GetUserResponse, error) {
	userID := req.UserID
	if userID == "" {
		userID = xcontext.RequestUserID(ctx)
	}
	if userID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty user id")
	}

	user, err := d.userRepo.Get(ctx, d.store, userID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user %s: %v", userID, err)
		return nil, errorx.Unknown
	}

	resp := model.GetUserResponse(model.ConvertUser(user))
	return &resp, nil
}

func (d *userDomain) UpdateTopFavorites(
	ctx context.Context, req *model.UpdateTopFavoritesRequest,
) (*model.UpdateTopFavoritesResponse, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}

	if len(req.Favorites) > maxTopFavorites {
		return nil, errorx.New(errorx.BadRequest, "Not allow more than %d favorites", maxTopFavorites)
	}

	favorites := []entity.ContentRef{}
	for _, ref := range req.Favorites {
		if !slices.Contains(contentRefKinds, ref.Kind) {
			return nil, errorx.New(errorx.BadRequest, "Invalid favorite kind %s", ref.Kind)
		}
		if ref.ID == "" {
			return nil, errorx.New(errorx.BadRequest, "Not allow empty favorite id")
		}
		favorites = append(favorites, entity.ContentRef{Kind: ref.Kind, ID: ref.ID})
	}

	if err := d.userRepo.UpdateTopFavorites(ctx, d.store, userID, favorites); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot update top favorites of user %s: %v", userID, err)
		return nil, errorx.Unknown
	}

	return &model.UpdateTopFavoritesResponse{}, nil
}
