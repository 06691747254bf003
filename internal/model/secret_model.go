package model

// Secret rows are append-only, the autoincrement ID preserves
// insertion order per user.
type Secret struct {
	ID        int64  `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    string `gorm:"column:user_id;index"`
	Body      string `gorm:"column:body"`
	CreatedAt int64  `gorm:"column:created_at"`
}
