package model

// User is one account. Username is the normalized email address and is
// unique across both local and OAuth-created accounts. PasswordHash is
// empty for accounts created through an OAuth provider.
type User struct {
	ID            string `gorm:"column:id;primaryKey"`
	Username      string `gorm:"column:username;uniqueIndex"`
	PasswordHash  string `gorm:"column:password_hash"`
	LoginAttempts int    `gorm:"column:login_attempts"`
	LockedUntil   int64  `gorm:"column:locked_until"`
	CreatedAt     int64  `gorm:"column:created_at"`
}
