package auth_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devbazaar/marketplace-backend/auth"
	"github.com/devbazaar/marketplace-backend/models"
)

// memoryUserStore implements auth.UserStore for testing
type memoryUserStore struct {
	users map[string]*models.User
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{users: map[string]*models.User{}}
}

func (s *memoryUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := s.users[email]
	if !ok {
		return nil, nil
	}
	return user, nil
}

func (s *memoryUserStore) Add(ctx context.Context, user *models.User) error {
	s.users[user.Email] = user
	return nil
}

func TestRegister(t *testing.T) {
	t.Run("creates user with default role grant", func(t *testing.T) {
		creds := auth.NewCredentials(newMemoryUserStore())

		user, err := creds.Register(context.Background(), "a@x.com", "hunter22", auth.Profile{
			DisplayName: "Alice",
		})
		require.NoError(t, err)
		require.NotNil(t, user)

		assert.Equal(t, "a@x.com", user.Email)
		assert.Equal(t, "Alice", user.DisplayName)
		assert.ElementsMatch(t,
			[]string{"developer", "seller", "buyer", "sponsor"},
			user.RoleNames())
	})

	t.Run("never stores or returns the plaintext secret", func(t *testing.T) {
		creds := auth.NewCredentials(newMemoryUserStore())

		user, err := creds.Register(context.Background(), "a@x.com", "hunter22", auth.Profile{})
		require.NoError(t, err)

		assert.NotContains(t, user.PasswordHash, "hunter22")

		serialized, err := json.Marshal(user)
		require.NoError(t, err)
		assert.NotContains(t, string(serialized), "hunter22")
		assert.NotContains(t, string(serialized), user.PasswordHash)
		assert.NotContains(t, strings.ToLower(string(serialized)), "password")
	})

	t.Run("normalizes email casing", func(t *testing.T) {
		creds := auth.NewCredentials(newMemoryUserStore())

		user, err := creds.Register(context.Background(), " A@X.Com ", "hunter22", auth.Profile{})
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", user.Email)
	})

	t.Run("rejects a duplicate email", func(t *testing.T) {
		creds := auth.NewCredentials(newMemoryUserStore())

		_, err := creds.Register(context.Background(), "a@x.com", "hunter22", auth.Profile{})
		require.NoError(t, err)

		_, err = creds.Register(context.Background(), "A@x.com", "different", auth.Profile{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
	})

	t.Run("rejects missing credentials", func(t *testing.T) {
		creds := auth.NewCredentials(newMemoryUserStore())

		_, err := creds.Register(context.Background(), "", "hunter22", auth.Profile{})
		assert.Error(t, err)

		_, err = creds.Register(context.Background(), "a@x.com", "", auth.Profile{})
		assert.Error(t, err)
	})
}

func TestVerify(t *testing.T) {
	newStoreWithUser := func(t *testing.T) (auth.Credentials, *models.User) {
		t.Helper()
		creds := auth.NewCredentials(newMemoryUserStore())
		user, err := creds.Register(context.Background(), "a@x.com", "hunter22", auth.Profile{})
		require.NoError(t, err)
		return creds, user
	}

	t.Run("accepts the correct secret", func(t *testing.T) {
		creds, registered := newStoreWithUser(t)

		user, err := creds.Verify(context.Background(), "a@x.com", "hunter22")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
	})

	t.Run("wrong secret and unknown email fail identically", func(t *testing.T) {
		creds, _ := newStoreWithUser(t)

		_, wrongSecretErr := creds.Verify(context.Background(), "a@x.com", "nope")
		require.Error(t, wrongSecretErr)

		_, unknownEmailErr := creds.Verify(context.Background(), "ghost@x.com", "nope")
		require.Error(t, unknownEmailErr)

		assert.Equal(t, wrongSecretErr.Error(), unknownEmailErr.Error())
	})
}

func TestHashPassword(t *testing.T) {
	hash, err := auth.HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)
	assert.NotContains(t, hash, "hunter22")

	assert.NoError(t, auth.ComparePasswordAndHash("hunter22", hash))
	assert.Error(t, auth.ComparePasswordAndHash("hunter23", hash))
}
