package service

import (
	"errors"
	"strings"
	"time"

	"secretpad/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserServiceConfig struct {
	LoginTimeout    int
	LoginMaxRetries int
}

// UserService is the credential store: one row per account plus the
// append-only secrets that belong to it.
type UserService struct {
	Config   UserServiceConfig
	Database *gorm.DB
}

func NewUserService(config UserServiceConfig, database *gorm.DB) *UserService {
	return &UserService{
		Config:   config,
		Database: database,
	}
}

// NormalizeUsername lowercases and trims the username so that local
// registration and OAuth assertions agree on the lookup key.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func (users *UserService) FindByUsername(username string) (*model.User, error) {
	var user model.User

	err := users.Database.Where("username = ?", NormalizeUsername(username)).First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (users *UserService) FindByID(id string) (*model.User, error) {
	var user model.User

	err := users.Database.Where("id = ?", id).First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, err
	}

	return &user, nil
}

// CreateLocal registers a username/password account. The password is
// bcrypt hashed before it touches the database.
func (users *UserService) CreateLocal(username string, password string) (*model.User, error) {
	username = NormalizeUsername(username)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	if err != nil {
		return nil, err
	}

	user := model.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().Unix(),
	}

	err = users.Database.Create(&user).Error

	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}

	log.Info().Str("username", username).Msg("Registered new user")
	return &user, nil
}

// FindOrCreateByUsername returns the account for the given username,
// creating a password-less one if it does not exist yet. A concurrent
// create for the same username loses on the unique index and re-reads
// the winner, so two assertions for one email always resolve to the
// same account.
func (users *UserService) FindOrCreateByUsername(username string) (*model.User, error) {
	username = NormalizeUsername(username)

	user, err := users.FindByUsername(username)

	if err == nil {
		return user, nil
	}

	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	created := model.User{
		ID:        uuid.NewString(),
		Username:  username,
		CreatedAt: time.Now().Unix(),
	}

	err = users.Database.Create(&created).Error

	if err != nil {
		if isUniqueViolation(err) {
			return users.FindByUsername(username)
		}
		return nil, err
	}

	log.Info().Str("username", username).Msg("Created user for OAuth identity")
	return &created, nil
}

func (users *UserService) AppendSecret(userID string, body string) error {
	if _, err := users.FindByID(userID); err != nil {
		return err
	}

	secret := model.Secret{
		UserID:    userID,
		Body:      body,
		CreatedAt: time.Now().Unix(),
	}

	return users.Database.Create(&secret).Error
}

// SecretsForUser returns the user's secrets oldest first.
func (users *UserService) SecretsForUser(userID string) ([]string, error) {
	var secrets []model.Secret

	err := users.Database.Where("user_id = ?", userID).Order("id asc").Find(&secrets).Error

	if err != nil {
		return nil, err
	}

	bodies := make([]string, 0, len(secrets))
	for _, secret := range secrets {
		bodies = append(bodies, secret.Body)
	}

	return bodies, nil
}

// RecordFailedAttempt bumps the failed-login counter and locks the
// account once it reaches the configured maximum.
func (users *UserService) RecordFailedAttempt(username string) error {
	user, err := users.FindByUsername(username)

	if err != nil {
		return err
	}

	user.LoginAttempts++

	if users.Config.LoginMaxRetries > 0 && user.LoginAttempts >= users.Config.LoginMaxRetries {
		user.LockedUntil = time.Now().Add(time.Duration(users.Config.LoginTimeout) * time.Second).Unix()
		log.Warn().Str("username", user.Username).Int("attempts", user.LoginAttempts).Msg("Account locked due to too many failed login attempts")
	}

	return users.Database.Model(&model.User{}).Where("id = ?", user.ID).Updates(map[string]any{
		"login_attempts": user.LoginAttempts,
		"locked_until":   user.LockedUntil,
	}).Error
}

// RecordSuccess resets the lockout bookkeeping after a successful
// password check.
func (users *UserService) RecordSuccess(username string) error {
	user, err := users.FindByUsername(username)

	if err != nil {
		return err
	}

	return users.Database.Model(&model.User{}).Where("id = ?", user.ID).Updates(map[string]any{
		"login_attempts": 0,
		"locked_until":   0,
	}).Error
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
