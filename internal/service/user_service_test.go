package service_test

import (
	"testing"
	"time"

	"secretpad/internal/service"

	"gotest.tools/v3/assert"
)

func setupUserService(t *testing.T) *service.UserService {
	databaseService := service.NewDatabaseService(service.DatabaseServiceConfig{
		DatabasePath: ":memory:",
	})

	err := databaseService.Init()
	assert.NilError(t, err)

	return service.NewUserService(service.UserServiceConfig{
		LoginTimeout:    3600,
		LoginMaxRetries: 4,
	}, databaseService.GetDatabase())
}

func TestCreateLocal(t *testing.T) {
	users := setupUserService(t)

	user, err := users.CreateLocal("Alice@Example.com", "pw1")
	assert.NilError(t, err)
	assert.Equal(t, "alice@example.com", user.Username)
	assert.Assert(t, user.ID != "")
	assert.Assert(t, user.PasswordHash != "")
	assert.Assert(t, user.PasswordHash != "pw1")

	// Duplicate registration fails and leaves the original untouched
	_, err = users.CreateLocal("alice@example.com", "pw2")
	assert.ErrorIs(t, err, service.ErrDuplicateUsername)

	found, err := users.FindByUsername("alice@example.com")
	assert.NilError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, user.PasswordHash, found.PasswordHash)
}

func TestFindByUsername(t *testing.T) {
	users := setupUserService(t)

	_, err := users.FindByUsername("ghost@example.com")
	assert.ErrorIs(t, err, service.ErrUserNotFound)

	created, err := users.CreateLocal("bob@example.com", "pw")
	assert.NilError(t, err)

	found, err := users.FindByID(created.ID)
	assert.NilError(t, err)
	assert.Equal(t, "bob@example.com", found.Username)

	_, err = users.FindByID("missing-id")
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestFindOrCreateByUsername(t *testing.T) {
	users := setupUserService(t)

	first, err := users.FindOrCreateByUsername("carol@example.com")
	assert.NilError(t, err)
	assert.Equal(t, "", first.PasswordHash)

	// Idempotent, same account on every call
	second, err := users.FindOrCreateByUsername("Carol@Example.com")
	assert.NilError(t, err)
	assert.Equal(t, first.ID, second.ID)

	// Existing local accounts are returned as-is
	local, err := users.CreateLocal("dave@example.com", "pw")
	assert.NilError(t, err)

	resolved, err := users.FindOrCreateByUsername("dave@example.com")
	assert.NilError(t, err)
	assert.Equal(t, local.ID, resolved.ID)
	assert.Assert(t, resolved.PasswordHash != "")
}

func TestAppendSecret(t *testing.T) {
	users := setupUserService(t)

	user, err := users.CreateLocal("eve@example.com", "pw")
	assert.NilError(t, err)

	err = users.AppendSecret(user.ID, "a")
	assert.NilError(t, err)
	err = users.AppendSecret(user.ID, "b")
	assert.NilError(t, err)

	secrets, err := users.SecretsForUser(user.ID)
	assert.NilError(t, err)
	assert.DeepEqual(t, []string{"a", "b"}, secrets)

	err = users.AppendSecret("missing-id", "c")
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestSecretsEmpty(t *testing.T) {
	users := setupUserService(t)

	user, err := users.CreateLocal("frank@example.com", "pw")
	assert.NilError(t, err)

	secrets, err := users.SecretsForUser(user.ID)
	assert.NilError(t, err)
	assert.Equal(t, 0, len(secrets))
}

func TestLockoutBookkeeping(t *testing.T) {
	users := setupUserService(t)

	user, err := users.CreateLocal("grace@example.com", "pw")
	assert.NilError(t, err)

	for i := 0; i < 3; i++ {
		err = users.RecordFailedAttempt(user.Username)
		assert.NilError(t, err)
	}

	found, err := users.FindByUsername(user.Username)
	assert.NilError(t, err)
	assert.Equal(t, 3, found.LoginAttempts)
	assert.Equal(t, int64(0), found.LockedUntil)

	// Fourth failure reaches the maximum and locks the account
	err = users.RecordFailedAttempt(user.Username)
	assert.NilError(t, err)

	found, err = users.FindByUsername(user.Username)
	assert.NilError(t, err)
	assert.Equal(t, 4, found.LoginAttempts)
	assert.Assert(t, found.LockedUntil > time.Now().Unix())

	err = users.RecordSuccess(user.Username)
	assert.NilError(t, err)

	found, err = users.FindByUsername(user.Username)
	assert.NilError(t, err)
	assert.Equal(t, 0, found.LoginAttempts)
	assert.Equal(t, int64(0), found.LockedUntil)
}
