package model

import "time"

// ScheduleEntry is one subtopic of a generated study plan: what to do,
// for how long, and in which suggested slot. Entries are produced by
// parsing model output and marked complete individually by ID.
type ScheduleEntry struct {
	ID          uint `gorm:"primaryKey"`
	UserID      uint `gorm:"index"`
	TaskID      uint `gorm:"index"`
	Date        time.Time
	TimeSlot    string
	Subtopic    string
	Duration    string
	IsCompleted bool `gorm:"default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
