package domain

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reelmates/backend/internal/model"
	"github.com/reelmates/backend/pkg/errorx"
	"github.com/reelmates/backend/pkg/testutil"
)

func Test_userDomain_Create(t *testing.T) {
	env := newTestEnv(false)
	ctx := testutil.MockContextWithUserID("user4")

	_, err := env.userDomain.Create(ctx, &model.CreateUserRequest{
		Username: "sam",
		Name:     "Sam Okafor",
	})
	require.NoError(t, err)

	user, err := env.userDomain.Get(ctx, &model.GetUserRequest{UserID: "user4"})
	require.NoError(t, err)
	require.Equal(t, "sam", user.Username)
	require.Equal(t, "Sam Okafor", user.Name)
	require.Equal(t, int64(0), user.FollowerCount)

	// The id comes from the token, creating twice is a conflict.
	_, err = env.userDomain.Create(ctx, &model.CreateUserRequest{Username: "sam"})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.AlreadyExists, errx.Code)
}

func Test_userDomain_Get(t *testing.T) {
	env := newTestEnv(false)

	// Without an explicit id the requester's own profile comes back.
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	user, err := env.userDomain.Get(ctx, &model.GetUserRequest{})
	require.NoError(t, err)
	require.Equal(t, testutil.User1.Username, user.Username)

	user, err = env.userDomain.Get(ctx, &model.GetUserRequest{UserID: testutil.User2.ID})
	require.NoError(t, err)
	require.Equal(t, testutil.User2.Username, user.Username)

	var errx errorx.Error
	_, err = env.userDomain.Get(ctx, &model.GetUserRequest{UserID: "nobody"})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.NotFound, errx.Code)
}

func Test_userDomain_UpdateTopFavorites(t *testing.T) {
	env := newTestEnv(false)
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)

	_, err := env.userDomain.UpdateTopFavorites(ctx, &model.UpdateTopFavoritesRequest{
		Favorites: []model.ContentRef{
			{Kind: "review", ID: testutil.Review1.ID},
			{Kind: "poll", ID: testutil.Poll1.ID},
		},
	})
	require.NoError(t, err)

	user, err := env.userDomain.Get(ctx, &model.GetUserRequest{})
	require.NoError(t, err)
	require.Len(t, user.TopFavorites, 2)
	require.Equal(t, "review", user.TopFavorites[0].Kind)
	require.Equal(t, testutil.Review1.ID, user.TopFavorites[0].ID)

	var errx errorx.Error
	_, err = env.userDomain.UpdateTopFavorites(ctx, &model.UpdateTopFavoritesRequest{
		Favorites: []model.ContentRef{{Kind: "movie", ID: "movie1"}},
	})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)

	_, err = env.userDomain.UpdateTopFavorites(ctx, &model.UpdateTopFavoritesRequest{
		Favorites: []model.ContentRef{
			{Kind: "review", ID: "a"}, {Kind: "review", ID: "b"},
			{Kind: "review", ID: "c"}, {Kind: "review", ID: "d"},
			{Kind: "review", ID: "e"}, {Kind: "review", ID: "f"},
		},
	})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)
}
