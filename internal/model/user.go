package model

import "time"

// User owns tasks, slots and schedule entries. Accounts are keyed by
// the Telegram identity of the delivery surface.
type User struct {
	ID         uint  `gorm:"primaryKey"`
	TelegramID int64 `gorm:"uniqueIndex"`
	FirstName  string
	LastName   string
	Username   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Tasks      []Task `gorm:"foreignKey:UserID"`
}
