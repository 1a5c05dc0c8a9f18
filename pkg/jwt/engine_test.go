package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_Engine(t *testing.T) {
	engine := NewEngine("secret", time.Minute)

	token, err := engine.Generate("user1")
	require.NoError(t, err)

	userID, err := engine.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user1", userID)

	t.Run("wrong secret", func(t *testing.T) {
		other := NewEngine("another-secret", time.Minute)
		_, err := other.Verify(token)
		require.Error(t, err)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := engine.Verify("not-a-token")
		require.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := NewEngine("secret", -time.Minute)
		token, err := expired.Generate("user1")
		require.NoError(t, err)

		_, err = engine.Verify(token)
		require.Error(t, err)
	})
}
