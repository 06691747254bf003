package model

// Session maps the opaque token stored in the cookie to a user.
// Deleting the row is what invalidates the token, the cookie itself
// only carries the UUID.
type Session struct {
	UUID     string `gorm:"column:uuid;primaryKey"`
	UserID   string `gorm:"column:user_id"`
	Provider string `gorm:"column:provider"`
	Expiry   int64  `gorm:"column:expiry"`
}
