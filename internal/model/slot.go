package model

import "time"

// TimeSlot is a discrete availability window on one date, scoped to a
// task and its owner. TimeRange is stored in the fixed textual form
// "09:00 AM - 09:30 AM"; the same text is embedded in prompts and
// compared during conflict detection.
type TimeSlot struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"index;uniqueIndex:idx_user_date_range"`
	TaskID    uint      `gorm:"index"`
	Date      time.Time `gorm:"uniqueIndex:idx_user_date_range"`
	TimeRange string    `gorm:"uniqueIndex:idx_user_date_range"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
