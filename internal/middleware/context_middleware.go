package middleware

import (
	"errors"

	"secretpad/internal/config"
	"secretpad/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type ContextMiddleware struct {
	auth  *service.AuthService
	users *service.UserService
}

func NewContextMiddleware(auth *service.AuthService, users *service.UserService) *ContextMiddleware {
	return &ContextMiddleware{
		auth:  auth,
		users: users,
	}
}

func (m *ContextMiddleware) Init() error {
	return nil
}

// Middleware resolves the session cookie to a UserContext for every
// request. A session pointing at a user that no longer exists is
// treated as unauthenticated and the cookie is cleared.
func (m *ContextMiddleware) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, provider, ok := m.auth.GetSessionIdentity(c)

		if !ok {
			c.Set("context", &config.UserContext{})
			c.Next()
			return
		}

		user, err := m.users.FindByID(userID)

		if errors.Is(err, service.ErrUserNotFound) {
			log.Warn().Str("userId", userID).Msg("Session references a missing user, clearing cookie")
			m.auth.DeleteSessionCookie(c)
			c.Set("context", &config.UserContext{})
			c.Next()
			return
		}

		if err != nil {
			log.Error().Err(err).Msg("Failed to resolve session user")
			c.Set("context", &config.UserContext{})
			c.Next()
			return
		}

		c.Set("context", &config.UserContext{
			UserID:     user.ID,
			Username:   user.Username,
			Provider:   provider,
			IsLoggedIn: true,
		})
		c.Next()
	}
}
