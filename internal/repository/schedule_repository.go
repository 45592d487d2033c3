package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"skillforge/internal/model"
)

// ScheduleRepository persists generated schedule entries.
type ScheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// CreateBatch inserts all entries in one transaction. A generation
// attempt persists either everything or nothing.
func (r *ScheduleRepository) CreateBatch(ctx context.Context, entries []model.ScheduleEntry) error {
	if len(entries) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range entries {
			if err := tx.Create(&entries[i]).Error; err != nil {
				return fmt.Errorf("create schedule entry: %w", err)
			}
		}
		return nil
	})
	return err
}

// EntryWithTask is a schedule entry joined with its task title.
type EntryWithTask struct {
	model.ScheduleEntry
	TaskTitle string
}

func (r *ScheduleRepository) ListByUser(ctx context.Context, userID uint) ([]EntryWithTask, error) {
	var rows []EntryWithTask
	if err := r.db.WithContext(ctx).Model(&model.ScheduleEntry{}).
		Select("schedule_entries.*, tasks.title AS task_title").
		Joins("JOIN tasks ON tasks.id = schedule_entries.task_id").
		Where("schedule_entries.user_id = ?", userID).
		Order("schedule_entries.date ASC, schedule_entries.id ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// MarkCompleted flips one entry by its identifier, scoped to the user.
// Entries are keyed by ID rather than subtopic text so repeated
// subtopic names across tasks or dates never mark the wrong row.
func (r *ScheduleRepository) MarkCompleted(ctx context.Context, userID, entryID uint) error {
	res := r.db.WithContext(ctx).Model(&model.ScheduleEntry{}).
		Where("user_id = ? AND id = ?", userID, entryID).
		Update("is_completed", true)
	if res.Error != nil {
		return fmt.Errorf("mark completed: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("schedule entry %d: %w", entryID, model.ErrNotFound)
	}
	return nil
}

// CompletionStats returns total and completed entry counts for a user.
func (r *ScheduleRepository) CompletionStats(ctx context.Context, userID uint) (total, completed int64, err error) {
	if err = r.db.WithContext(ctx).Model(&model.ScheduleEntry{}).
		Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return 0, 0, fmt.Errorf("count entries: %w", err)
	}
	if err = r.db.WithContext(ctx).Model(&model.ScheduleEntry{}).
		Where("user_id = ? AND is_completed = ?", userID, true).Count(&completed).Error; err != nil {
		return 0, 0, fmt.Errorf("count completed: %w", err)
	}
	return total, completed, nil
}

// ListPendingOnDate returns a user's incomplete entries for one date,
// used by the daily reminder digest.
func (r *ScheduleRepository) ListPendingOnDate(ctx context.Context, userID uint, date time.Time) ([]model.ScheduleEntry, error) {
	var entries []model.ScheduleEntry
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ? AND is_completed = ?", userID, date, false).
		Order("time_slot ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
