package docstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// runStoreContract exercises the behavior every Store backend must share.
// The memory and sql test files run it against their own instances.
func runStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("set get delete", func(t *testing.T) {
		store := newStore(t)

		err := store.Set(ctx, "users/u1", Fields{"name": "Mia", "followerCount": int64(3)})
		require.NoError(t, err)

		doc, err := store.Get(ctx, "users/u1")
		require.NoError(t, err)
		require.Equal(t, "u1", doc.ID())
		require.Equal(t, "Mia", doc.Fields["name"])

		require.NoError(t, store.Delete(ctx, "users/u1"))
		_, err = store.Get(ctx, "users/u1")
		require.ErrorIs(t, err, ErrNotFound)

		// Deleting again stays a no-op.
		require.NoError(t, store.Delete(ctx, "users/u1"))
	})

	t.Run("get missing", func(t *testing.T) {
		store := newStore(t)

		_, err := store.Get(ctx, "users/nobody")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("invalid path", func(t *testing.T) {
		store := newStore(t)

		require.Error(t, store.Set(ctx, "users", Fields{}))
		require.Error(t, store.Set(ctx, "users//u1", Fields{}))
		_, err := store.Get(ctx, "users/u1/friends")
		require.Error(t, err)
	})

	t.Run("set replaces, merge keeps", func(t *testing.T) {
		store := newStore(t)

		require.NoError(t, store.Set(ctx, "movies/m1", Fields{"title": "Heat", "year": int64(1995)}))
		require.NoError(t, store.Set(ctx, "movies/m1", Fields{"title": "Heat (1995)"}))

		doc, err := store.Get(ctx, "movies/m1")
		require.NoError(t, err)
		require.NotContains(t, doc.Fields, "year")

		require.NoError(t, store.Set(ctx, "movies/m1", Fields{"posterPath": "/heat.jpg"}, Merge()))
		doc, err = store.Get(ctx, "movies/m1")
		require.NoError(t, err)
		require.Equal(t, "Heat (1995)", doc.Fields["title"])
		require.Equal(t, "/heat.jpg", doc.Fields["posterPath"])
	})

	t.Run("merge creates absent document", func(t *testing.T) {
		store := newStore(t)

		require.NoError(t, store.Set(ctx, "movies/m9", Fields{"title": "Ran"}, Merge()))
		doc, err := store.Get(ctx, "movies/m9")
		require.NoError(t, err)
		require.Equal(t, "Ran", doc.Fields["title"])
	})

	t.Run("update requires existing document", func(t *testing.T) {
		store := newStore(t)

		err := store.Update(ctx, "users/ghost", Fields{"name": "x"})
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("increment", func(t *testing.T) {
		store := newStore(t)

		require.NoError(t, store.Set(ctx, "users/u1", Fields{"followerCount": int64(1)}))
		require.NoError(t, store.Update(ctx, "users/u1", Fields{"followerCount": Inc(2)}))
		require.NoError(t, store.Update(ctx, "users/u1", Fields{"followerCount": Inc(-1)}))

		doc, err := store.Get(ctx, "users/u1")
		require.NoError(t, err)
		count, _ := doc.Fields["followerCount"]
		requireNumber(t, 2, count)

		// Incrementing a missing field starts from zero.
		require.NoError(t, store.Update(ctx, "users/u1", Fields{"followingCount": Inc(5)}))
		doc, err = store.Get(ctx, "users/u1")
		require.NoError(t, err)
		requireNumber(t, 5, doc.Fields["followingCount"])
	})

	t.Run("transaction applies all writes", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Set(ctx, "users/u1", Fields{"followerCount": int64(0)}))

		err := store.RunTransaction(ctx, func(ctx context.Context, tx Handle) error {
			if _, err := tx.Get(ctx, "users/u1"); err != nil {
				return err
			}
			if err := tx.Set(ctx, "users/u1/friends/u2", Fields{"friendId": "u2"}); err != nil {
				return err
			}
			if err := tx.Set(ctx, "users/u2/friends/u1", Fields{"friendId": "u1"}); err != nil {
				return err
			}
			return tx.Update(ctx, "users/u1", Fields{"followerCount": Inc(1)})
		})
		require.NoError(t, err)

		for _, path := range []string{"users/u1/friends/u2", "users/u2/friends/u1"} {
			_, err := store.Get(ctx, path)
			require.NoError(t, err, path)
		}
		doc, err := store.Get(ctx, "users/u1")
		require.NoError(t, err)
		requireNumber(t, 1, doc.Fields["followerCount"])
	})

	t.Run("transaction body error aborts", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Set(ctx, "users/u1", Fields{"name": "Mia"}))

		bodyErr := ErrMalformed
		err := store.RunTransaction(ctx, func(ctx context.Context, tx Handle) error {
			if err := tx.Set(ctx, "users/u1", Fields{"name": "gone"}); err != nil {
				return err
			}
			return bodyErr
		})
		require.ErrorIs(t, err, bodyErr)

		doc, err := store.Get(ctx, "users/u1")
		require.NoError(t, err)
		require.Equal(t, "Mia", doc.Fields["name"])
	})

	t.Run("transaction reads own writes", func(t *testing.T) {
		store := newStore(t)

		err := store.RunTransaction(ctx, func(ctx context.Context, tx Handle) error {
			if err := tx.Set(ctx, "polls/p1", Fields{"totalVotes": int64(7)}); err != nil {
				return err
			}

			doc, err := tx.Get(ctx, "polls/p1")
			if err != nil {
				return err
			}
			requireNumber(t, 7, doc.Fields["totalVotes"])
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("transaction is atomic", func(t *testing.T) {
		store := newStore(t)

		err := store.RunTransaction(ctx, func(ctx context.Context, tx Handle) error {
			if err := tx.Set(ctx, "users/u1/friends/u2", Fields{"friendId": "u2"}); err != nil {
				return err
			}
			return tx.Update(ctx, "users/missing", Fields{"followerCount": Inc(1)})
		})
		require.ErrorIs(t, err, ErrNotFound)

		// The failed transaction left nothing behind.
		_, err = store.Get(ctx, "users/u1/friends/u2")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("transaction reads pending transforms", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Set(ctx, "reviews/r1", Fields{"likesCount": int64(1)}))

		err := store.RunTransaction(ctx, func(ctx context.Context, tx Handle) error {
			if err := tx.Update(ctx, "reviews/r1", Fields{"likesCount": Inc(1)}); err != nil {
				return err
			}

			doc, err := tx.Get(ctx, "reviews/r1")
			if err != nil {
				return err
			}
			requireNumber(t, 2, doc.Fields["likesCount"])

			if err := tx.Set(ctx, "reviews/r1", Fields{"posterPath": "/heat.jpg"}, Merge()); err != nil {
				return err
			}

			doc, err = tx.Get(ctx, "reviews/r1")
			if err != nil {
				return err
			}
			require.Equal(t, "/heat.jpg", doc.Fields["posterPath"])
			requireNumber(t, 2, doc.Fields["likesCount"])
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("no lost update under concurrent transactions", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Set(ctx, "reviews/r1", Fields{"count": int64(0)}))

		const workers = 4
		var wg sync.WaitGroup
		errs := make([]error, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = store.RunTransaction(ctx, func(ctx context.Context, tx Handle) error {
					doc, err := tx.Get(ctx, "reviews/r1")
					if err != nil {
						return err
					}
					current, _ := doc.Fields["count"]
					next := asInt(current) + 1
					return tx.Update(ctx, "reviews/r1", Fields{"count": next})
				})
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
			} else {
				require.ErrorIs(t, err, ErrConflict)
			}
		}

		doc, err := store.Get(ctx, "reviews/r1")
		require.NoError(t, err)
		requireNumber(t, int64(succeeded), doc.Fields["count"])
	})

	t.Run("batch is atomic", func(t *testing.T) {
		store := newStore(t)

		batch := store.Batch()
		batch.Set("users/u1/friends/u2", Fields{"friendId": "u2"})
		batch.Update("users/missing", Fields{"name": "x"})
		require.Error(t, batch.Commit(ctx))

		_, err := store.Get(ctx, "users/u1/friends/u2")
		require.ErrorIs(t, err, ErrNotFound)

		batch = store.Batch()
		batch.Set("users/u1/friends/u2", Fields{"friendId": "u2"})
		batch.Set("users/u2/friends/u1", Fields{"friendId": "u1"})
		require.NoError(t, batch.Commit(ctx))

		_, err = store.Get(ctx, "users/u1/friends/u2")
		require.NoError(t, err)
	})

	t.Run("query filters order and limit", func(t *testing.T) {
		store := newStore(t)

		base := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
		reviews := []struct {
			id      string
			user    string
			likedBy []string
		}{
			{"r1", "u1", []string{"u2"}},
			{"r2", "u2", []string{"u1", "u3"}},
			{"r3", "u1", []string{}},
		}
		for i, r := range reviews {
			err := store.Set(ctx, "movies/m1/reviews/"+r.id, Fields{
				"userId":    r.user,
				"likedBy":   r.likedBy,
				"createdAt": base.Add(time.Duration(i) * time.Hour),
			})
			require.NoError(t, err)
		}

		docs, err := store.Query(ctx, "movies/m1/reviews", Query{OrderBy: "createdAt", Desc: true})
		require.NoError(t, err)
		require.Len(t, docs, 3)
		require.Equal(t, "r3", docs[0].ID())
		require.Equal(t, "r1", docs[2].ID())

		docs, err = store.Query(ctx, "movies/m1/reviews", Query{
			Filters: []Filter{Where("userId", OpEqual, "u1")},
			OrderBy: "createdAt",
			Limit:   1,
		})
		require.NoError(t, err)
		require.Len(t, docs, 1)
		require.Equal(t, "r1", docs[0].ID())

		docs, err = store.Query(ctx, "movies/m1/reviews", Query{
			Filters: []Filter{Where("likedBy", OpArrayContains, "u3")},
		})
		require.NoError(t, err)
		require.Len(t, docs, 1)
		require.Equal(t, "r2", docs[0].ID())
	})

	t.Run("query group spans parents", func(t *testing.T) {
		store := newStore(t)

		require.NoError(t, store.Set(ctx, "movies/m1/reviews/r1/replies/x1", Fields{"userId": "u1"}))
		require.NoError(t, store.Set(ctx, "questions/q1/replies/x2", Fields{"userId": "u1"}))
		require.NoError(t, store.Set(ctx, "questions/q1/replies/x3", Fields{"userId": "u2"}))

		docs, err := store.QueryGroup(ctx, "replies", Query{
			Filters: []Filter{Where("userId", OpEqual, "u1")},
		})
		require.NoError(t, err)
		require.Len(t, docs, 2)
	})
}

func requireNumber(t *testing.T, want int64, got any) {
	t.Helper()
	require.Equal(t, want, asInt(got), "value %v (%T)", got, got)
}

func asInt(v any) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int64:
		return n
	case float64:
		return int64(n)
	}

	return -1
}
