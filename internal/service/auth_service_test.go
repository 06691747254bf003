package service_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"secretpad/internal/config"
	"secretpad/internal/model"
	"secretpad/internal/service"

	"github.com/gin-gonic/gin"
	"gotest.tools/v3/assert"
)

func setupAuthService(t *testing.T) (*service.AuthService, *service.UserService) {
	databaseService := service.NewDatabaseService(service.DatabaseServiceConfig{
		DatabasePath: ":memory:",
	})

	err := databaseService.Init()
	assert.NilError(t, err)

	userService := service.NewUserService(service.UserServiceConfig{
		LoginTimeout:    3600,
		LoginMaxRetries: 4,
	}, databaseService.GetDatabase())

	authService := service.NewAuthService(service.AuthServiceConfig{
		Secret:            "test-secret-key",
		SessionExpiry:     3600,
		SecureCookie:      false,
		SessionCookieName: "secretpad-session",
	}, userService, databaseService.GetDatabase())

	err = authService.Init()
	assert.NilError(t, err)

	return authService, userService
}

func TestVerifyLocal(t *testing.T) {
	auth, users := setupAuthService(t)

	created, err := users.CreateLocal("alice@example.com", "pw1")
	assert.NilError(t, err)

	user, err := auth.VerifyLocal("alice@example.com", "pw1")
	assert.NilError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = auth.VerifyLocal("alice@example.com", "wrong")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = auth.VerifyLocal("ghost@example.com", "pw1")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestVerifyLocalPasswordlessAccount(t *testing.T) {
	auth, users := setupAuthService(t)

	// OAuth-only accounts have no password and can never pass a local
	// password check
	_, err := users.FindOrCreateByUsername("oauth@example.com")
	assert.NilError(t, err)

	_, err = auth.VerifyLocal("oauth@example.com", "")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestVerifyLocalLockout(t *testing.T) {
	auth, users := setupAuthService(t)

	_, err := users.CreateLocal("bob@example.com", "pw1")
	assert.NilError(t, err)

	// Below the maximum the account stays usable
	for i := 0; i < 3; i++ {
		_, err = auth.VerifyLocal("bob@example.com", "wrong")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	}

	user, err := auth.VerifyLocal("bob@example.com", "pw1")
	assert.NilError(t, err)

	found, err := users.FindByUsername(user.Username)
	assert.NilError(t, err)
	assert.Equal(t, 0, found.LoginAttempts)

	// At the maximum even the correct password is rejected
	for i := 0; i < 4; i++ {
		_, err = auth.VerifyLocal("bob@example.com", "wrong")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	}

	_, err = auth.VerifyLocal("bob@example.com", "pw1")
	assert.ErrorIs(t, err, service.ErrAccountLocked)
}

func TestVerifyLocalLockoutExpiry(t *testing.T) {
	auth, users := setupAuthService(t)

	_, err := users.CreateLocal("carol@example.com", "pw1")
	assert.NilError(t, err)

	for i := 0; i < 4; i++ {
		_, err = auth.VerifyLocal("carol@example.com", "wrong")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	}

	_, err = auth.VerifyLocal("carol@example.com", "pw1")
	assert.ErrorIs(t, err, service.ErrAccountLocked)

	// Backdate the lock to simulate the window elapsing
	err = users.Database.Model(&model.User{}).Where("username = ?", "carol@example.com").Update("locked_until", time.Now().Add(-time.Minute).Unix()).Error
	assert.NilError(t, err)

	user, err := auth.VerifyLocal("carol@example.com", "pw1")
	assert.NilError(t, err)
	assert.Equal(t, "carol@example.com", user.Username)
}

func TestResolveOAuthIdentity(t *testing.T) {
	auth, _ := setupAuthService(t)

	first, err := auth.ResolveOAuthIdentity("google", config.Claims{
		Name:  "Dave",
		Email: "dave@example.com",
		Sub:   "g-123",
	})
	assert.NilError(t, err)
	assert.Equal(t, "dave@example.com", first.Username)
	assert.Equal(t, "", first.PasswordHash)

	// Same email from another provider resolves to the same account
	second, err := auth.ResolveOAuthIdentity("facebook", config.Claims{
		Name:  "Dave",
		Email: "Dave@Example.com",
		Sub:   "f-456",
	})
	assert.NilError(t, err)
	assert.Equal(t, first.ID, second.ID)

	_, err = auth.ResolveOAuthIdentity("google", config.Claims{Name: "NoEmail"})
	assert.ErrorIs(t, err, service.ErrProvider)
}

func TestOAuthBypassesLockout(t *testing.T) {
	auth, users := setupAuthService(t)

	_, err := users.CreateLocal("eve@example.com", "pw1")
	assert.NilError(t, err)

	for i := 0; i < 4; i++ {
		_, err = auth.VerifyLocal("eve@example.com", "wrong")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	}

	_, err = auth.VerifyLocal("eve@example.com", "pw1")
	assert.ErrorIs(t, err, service.ErrAccountLocked)

	user, err := auth.ResolveOAuthIdentity("google", config.Claims{Email: "eve@example.com"})
	assert.NilError(t, err)
	assert.Equal(t, "eve@example.com", user.Username)
}

func flashContext(cookies []*http.Cookie) (*gin.Context, *httptest.ResponseRecorder) {
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest("GET", "/", nil)
	for _, cookie := range cookies {
		c.Request.AddCookie(cookie)
	}
	return c, recorder
}

func TestPopFlashQueue(t *testing.T) {
	auth, _ := setupAuthService(t)

	c, recorder := flashContext(nil)
	assert.NilError(t, auth.SetFlash(c, "first"))
	assert.NilError(t, auth.SetFlash(c, "second"))

	var cookie *http.Cookie
	for _, candidate := range recorder.Result().Cookies() {
		if candidate.Name == "secretpad-session" {
			cookie = candidate
		}
	}
	assert.Assert(t, cookie != nil)

	// Queued messages come back in the order they were set, then the
	// queue is empty
	c, _ = flashContext([]*http.Cookie{cookie})
	assert.Equal(t, "first second", auth.PopFlash(c))
	assert.Equal(t, "", auth.PopFlash(c))
}
