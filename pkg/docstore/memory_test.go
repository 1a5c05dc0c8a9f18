package docstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_MemoryStore_Contract(t *testing.T) {
	runStoreContract(t, func(t *testing.T) Store {
		return NewMemoryStore()
	})
}

func Test_Decode(t *testing.T) {
	createdAt := time.Date(2024, time.March, 10, 20, 30, 0, 0, time.UTC)

	type review struct {
		UserID    string    `json:"userId"`
		Rating    float64   `json:"rating"`
		LikedBy   []string  `json:"likedBy"`
		CreatedAt time.Time `json:"createdAt"`
	}

	t.Run("native fields", func(t *testing.T) {
		doc := &Document{Path: "movies/m1/reviews/r1", Fields: Fields{
			"userId":    "u1",
			"rating":    4.5,
			"likedBy":   []string{"u2", "u3"},
			"createdAt": createdAt,
		}}

		var r review
		require.NoError(t, Decode(doc, &r))
		require.Equal(t, "u1", r.UserID)
		require.Equal(t, 4.5, r.Rating)
		require.Equal(t, []string{"u2", "u3"}, r.LikedBy)
		require.True(t, r.CreatedAt.Equal(createdAt))
	})

	t.Run("json round-tripped fields", func(t *testing.T) {
		// The shapes a document comes back with from the sql backend.
		doc := &Document{Path: "movies/m1/reviews/r1", Fields: Fields{
			"userId":    "u1",
			"rating":    float64(4),
			"likedBy":   []any{"u2"},
			"createdAt": createdAt.Format(time.RFC3339Nano),
		}}

		var r review
		require.NoError(t, Decode(doc, &r))
		require.Equal(t, []string{"u2"}, r.LikedBy)
		require.True(t, r.CreatedAt.Equal(createdAt))
	})

	t.Run("malformed document", func(t *testing.T) {
		doc := &Document{Path: "movies/m1/reviews/bad", Fields: Fields{
			"createdAt": "not-a-timestamp",
		}}

		var r review
		require.ErrorIs(t, Decode(doc, &r), ErrMalformed)
	})
}

func Test_PathHelpers(t *testing.T) {
	require.Equal(t, "movies/m1/reviews", CollectionOf("movies/m1/reviews/r1"))
	require.Equal(t, "reviews", GroupOf("movies/m1/reviews/r1"))
	require.Equal(t, "replies", GroupOf("questions/q1/replies/x1"))

	require.NoError(t, ValidateDocPath("users/u1"))
	require.NoError(t, ValidateDocPath("users/u1/friends/u2"))
	require.Error(t, ValidateDocPath("users"))
	require.Error(t, ValidateDocPath("users/u1/friends"))
	require.Error(t, ValidateDocPath("users//u2"))
}
