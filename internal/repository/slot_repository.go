package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"skillforge/internal/model"
)

// SlotRepository persists time slots. The (user, date, range) unique
// index lives on the model; violations surface as ErrDuplicateSlot.
type SlotRepository struct {
	db *gorm.DB
}

func NewSlotRepository(db *gorm.DB) *SlotRepository {
	return &SlotRepository{db: db}
}

func (r *SlotRepository) Create(ctx context.Context, slot *model.TimeSlot) error {
	err := r.db.WithContext(ctx).Create(slot).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("slot %s on %s: %w", slot.TimeRange, slot.Date.Format("2006-01-02"), model.ErrDuplicateSlot)
	}
	if err != nil {
		return fmt.Errorf("create slot: %w", err)
	}
	return nil
}

func (r *SlotRepository) ListByTaskAndDateRange(ctx context.Context, taskID uint, from, to time.Time) ([]model.TimeSlot, error) {
	var slots []model.TimeSlot
	if err := r.db.WithContext(ctx).
		Where("task_id = ? AND date BETWEEN ? AND ?", taskID, from, to).
		Order("date ASC, time_range ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *SlotRepository) ListByTaskAndDate(ctx context.Context, taskID uint, date time.Time) ([]model.TimeSlot, error) {
	var slots []model.TimeSlot
	if err := r.db.WithContext(ctx).
		Where("task_id = ? AND date = ?", taskID, date).
		Order("time_range ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

// ListByUserAndDate returns every slot a user has on a date across all
// tasks; schedule generation embeds these in the prompt.
func (r *SlotRepository) ListByUserAndDate(ctx context.Context, userID uint, date time.Time) ([]model.TimeSlot, error) {
	var slots []model.TimeSlot
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		Order("time_range ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *SlotRepository) FindByID(ctx context.Context, userID, slotID uint) (*model.TimeSlot, error) {
	var slot model.TimeSlot
	err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, slotID).First(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("slot %d: %w", slotID, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find slot: %w", err)
	}
	return &slot, nil
}

func (r *SlotRepository) Update(ctx context.Context, userID, slotID uint, date time.Time, timeRange string) error {
	res := r.db.WithContext(ctx).Model(&model.TimeSlot{}).
		Where("user_id = ? AND id = ?", userID, slotID).
		Updates(map[string]interface{}{"date": date, "time_range": timeRange})
	if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("slot %s on %s: %w", timeRange, date.Format("2006-01-02"), model.ErrDuplicateSlot)
	}
	if res.Error != nil {
		return fmt.Errorf("update slot: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("slot %d: %w", slotID, model.ErrNotFound)
	}
	return nil
}

func (r *SlotRepository) Delete(ctx context.Context, userID, slotID uint) error {
	res := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, slotID).Delete(&model.TimeSlot{})
	if res.Error != nil {
		return fmt.Errorf("delete slot: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("slot %d: %w", slotID, model.ErrNotFound)
	}
	return nil
}
