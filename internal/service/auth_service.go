package service

import (
	"errors"
	"strings"
	"time"

	"secretpad/internal/config"
	"secretpad/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthServiceConfig struct {
	Secret            string
	SessionExpiry     int
	SecureCookie      bool
	SessionCookieName string
}

type AuthService struct {
	Config   AuthServiceConfig
	Users    *UserService
	Database *gorm.DB
	Store    *sessions.CookieStore
}

func NewAuthService(config AuthServiceConfig, users *UserService, database *gorm.DB) *AuthService {
	return &AuthService{
		Config:   config,
		Users:    users,
		Database: database,
	}
}

func (auth *AuthService) Init() error {
	store := sessions.NewCookieStore([]byte(auth.Config.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   auth.Config.SessionExpiry,
		Secure:   auth.Config.SecureCookie,
		HttpOnly: true,
	}
	auth.Store = store
	return nil
}

// VerifyLocal checks a username/password pair against the credential
// store. A locked account fails before the password is even looked at.
func (auth *AuthService) VerifyLocal(username string, password string) (*model.User, error) {
	user, err := auth.Users.FindByUsername(username)

	if errors.Is(err, ErrUserNotFound) {
		log.Warn().Str("username", username).Msg("Login attempt for unknown user")
		return nil, ErrInvalidCredentials
	}

	if err != nil {
		return nil, err
	}

	if user.LockedUntil > time.Now().Unix() {
		log.Warn().Str("username", user.Username).Msg("Login attempt on locked account")
		return nil, ErrAccountLocked
	}

	if user.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		if err := auth.Users.RecordFailedAttempt(user.Username); err != nil {
			log.Error().Err(err).Str("username", user.Username).Msg("Failed to record failed login attempt")
		}
		return nil, ErrInvalidCredentials
	}

	if err := auth.Users.RecordSuccess(user.Username); err != nil {
		log.Error().Err(err).Str("username", user.Username).Msg("Failed to reset login attempts")
	}

	log.Info().Str("username", user.Username).Msg("Login successful")
	return user, nil
}

// ResolveOAuthIdentity maps a provider assertion to an account, creating
// one on first sight. OAuth logins never consult the lockout state, the
// provider already vouched for the identity.
func (auth *AuthService) ResolveOAuthIdentity(provider string, claims config.Claims) (*model.User, error) {
	if claims.Email == "" {
		log.Error().Str("provider", provider).Msg("OAuth provider did not return an email")
		return nil, ErrProvider
	}

	user, err := auth.Users.FindOrCreateByUsername(claims.Email)

	if err != nil {
		return nil, err
	}

	log.Info().Str("username", user.Username).Str("provider", provider).Msg("Resolved OAuth identity")
	return user, nil
}

func (auth *AuthService) getSession(c *gin.Context) (*sessions.Session, error) {
	session, err := auth.Store.Get(c.Request, auth.Config.SessionCookieName)

	// An undecodable cookie is not worth failing the request over, clear
	// it and start a fresh session
	if err != nil {
		log.Debug().Err(err).Msg("Invalid session, clearing cookie and retrying")
		c.SetCookie(auth.Config.SessionCookieName, "", -1, "/", "", auth.Config.SecureCookie, true)
		session, err = auth.Store.New(c.Request, auth.Config.SessionCookieName)
		if session == nil {
			return nil, err
		}
	}

	return session, nil
}

// CreateSessionCookie persists a new session row and stores its UUID in
// the session cookie.
func (auth *AuthService) CreateSessionCookie(c *gin.Context, user *model.User, provider string) error {
	log.Debug().Str("username", user.Username).Str("provider", provider).Msg("Creating session")

	session, err := auth.getSession(c)
	if err != nil {
		return err
	}

	record := model.Session{
		UUID:     uuid.NewString(),
		UserID:   user.ID,
		Provider: provider,
		Expiry:   time.Now().Add(time.Duration(auth.Config.SessionExpiry) * time.Second).Unix(),
	}

	if err := auth.Database.Create(&record).Error; err != nil {
		return err
	}

	session.Values["session_uuid"] = record.UUID

	return session.Save(c.Request, c.Writer)
}

// GetSessionIdentity resolves the request's session cookie to a user id
// and provider. A missing, unknown or expired session yields ok=false.
func (auth *AuthService) GetSessionIdentity(c *gin.Context) (userID string, provider string, ok bool) {
	session, err := auth.getSession(c)
	if err != nil {
		return "", "", false
	}

	sessionUUID, uuidOk := session.Values["session_uuid"].(string)

	if !uuidOk {
		return "", "", false
	}

	var record model.Session

	err = auth.Database.Where("uuid = ?", sessionUUID).First(&record).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", "", false
	}

	if err != nil {
		log.Error().Err(err).Msg("Failed to look up session")
		return "", "", false
	}

	if time.Now().Unix() > record.Expiry {
		log.Debug().Msg("Session expired")
		auth.DeleteSessionCookie(c)
		return "", "", false
	}

	return record.UserID, record.Provider, true
}

// DeleteSessionCookie removes the session row and clears the cookie.
// Idempotent, destroying an absent session is not an error.
func (auth *AuthService) DeleteSessionCookie(c *gin.Context) error {
	log.Debug().Msg("Deleting session")

	session, err := auth.getSession(c)
	if err != nil {
		return err
	}

	if sessionUUID, ok := session.Values["session_uuid"].(string); ok {
		if err := auth.Database.Delete(&model.Session{}, "uuid = ?", sessionUUID).Error; err != nil {
			log.Error().Err(err).Msg("Failed to delete session row")
		}
	}

	for key := range session.Values {
		delete(session.Values, key)
	}
	session.Options.MaxAge = -1

	return session.Save(c.Request, c.Writer)
}

// CleanupExpiredSessions drops sessions whose expiry has passed.
func (auth *AuthService) CleanupExpiredSessions() error {
	return auth.Database.Delete(&model.Session{}, "expiry < ?", time.Now().Unix()).Error
}

// SetFlash stores a one-shot message for the next rendered page.
func (auth *AuthService) SetFlash(c *gin.Context, message string) error {
	session, err := auth.getSession(c)
	if err != nil {
		return err
	}

	session.AddFlash(message)
	return session.Save(c.Request, c.Writer)
}

// PopFlash returns the pending flash messages in the order they were
// set, joined into one line, and clears them so they are displayed
// exactly once.
func (auth *AuthService) PopFlash(c *gin.Context) string {
	session, err := auth.getSession(c)
	if err != nil {
		return ""
	}

	flashes := session.Flashes()
	if len(flashes) == 0 {
		return ""
	}

	if err := session.Save(c.Request, c.Writer); err != nil {
		log.Error().Err(err).Msg("Failed to clear flash message")
	}

	messages := make([]string, 0, len(flashes))
	for _, flash := range flashes {
		if message, ok := flash.(string); ok {
			messages = append(messages, message)
		}
	}

	return strings.Join(messages, " ")
}
