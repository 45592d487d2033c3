package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"skillforge/internal/model"
	"skillforge/internal/repository"
	"skillforge/internal/timeslot"
)

// GenerateSlotsInput describes one slot-generation run.
type GenerateSlotsInput struct {
	TaskID          uint
	From            time.Time // first anchor date
	To              time.Time // last date the recurrence may reach
	StartTime       string    // clock token, e.g. "09:00 AM"
	EndTime         string    // clock token, e.g. "05:00 PM"
	IntervalMinutes int
	Recurrence      model.Recurrence
}

// ConflictReason classifies why a candidate was not persisted.
type ConflictReason string

const (
	ConflictOverlap   ConflictReason = "overlap"
	ConflictDuplicate ConflictReason = "duplicate"
)

// SlotConflict reports one rejected candidate.
type SlotConflict struct {
	Date      time.Time
	TimeRange string
	Reason    ConflictReason
}

// GenerationReport summarizes a run: what was persisted and what was
// rejected. Conflicts are outcomes, not errors; the run itself only
// fails on invalid input or storage trouble.
type GenerationReport struct {
	Created   []model.TimeSlot
	Conflicts []SlotConflict
}

// SlotService owns slot generation, conflict checking and slot CRUD.
type SlotService struct {
	slotRepo *repository.SlotRepository
	taskRepo *repository.TaskRepository
	log      *zap.Logger
}

func NewSlotService(slotRepo *repository.SlotRepository, taskRepo *repository.TaskRepository, log *zap.Logger) *SlotService {
	return &SlotService{slotRepo: slotRepo, taskRepo: taskRepo, log: log}
}

// Generate expands the input into discrete candidates across the
// recurrence anchors and persists every candidate that neither
// overlaps nor duplicates an existing slot. Persisted slots are
// visible to the very next candidate's conflict check, so rerunning
// the same input reports every candidate as a conflict.
func (s *SlotService) Generate(ctx context.Context, user *model.User, in GenerateSlotsInput) (*GenerationReport, error) {
	task, err := s.taskRepo.FindByID(ctx, user.ID, in.TaskID)
	if err != nil {
		return nil, err
	}
	if in.From.After(in.To) {
		return nil, fmt.Errorf("from date after to date: %w", model.ErrValidation)
	}
	if in.IntervalMinutes <= 0 {
		return nil, fmt.Errorf("interval must be positive: %w", model.ErrValidation)
	}
	if !model.ValidRecurrence(in.Recurrence) {
		return nil, fmt.Errorf("unknown recurrence %q: %w", in.Recurrence, model.ErrValidation)
	}
	window, err := timeslot.ParseRange(in.StartTime + timeslot.Separator + in.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, model.ErrValidation)
	}

	report := &GenerationReport{}
	for date := range timeslot.Anchors(in.From, in.To, in.Recurrence) {
		for _, cand := range timeslot.Candidates(window.Start, window.End, in.IntervalMinutes) {
			stored, conflict, err := s.placeCandidate(ctx, user.ID, task.ID, date, cand)
			if err != nil {
				return nil, err
			}
			if conflict != nil {
				report.Conflicts = append(report.Conflicts, *conflict)
				continue
			}
			report.Created = append(report.Created, *stored)
		}
	}

	s.log.Info("slot generation finished",
		zap.Uint("task_id", task.ID),
		zap.Int("created", len(report.Created)),
		zap.Int("conflicts", len(report.Conflicts)),
	)
	return report, nil
}

// placeCandidate persists one candidate unless it conflicts.
func (s *SlotService) placeCandidate(ctx context.Context, userID, taskID uint, date time.Time, cand timeslot.Range) (*model.TimeSlot, *SlotConflict, error) {
	existing, err := s.slotRepo.ListByTaskAndDate(ctx, taskID, date)
	if err != nil {
		return nil, nil, fmt.Errorf("list existing slots: %w", err)
	}
	for _, slot := range existing {
		r, err := timeslot.ParseRange(slot.TimeRange)
		if err != nil {
			// A stored slot that no longer parses cannot be compared;
			// treat it as blocking to stay on the safe side.
			return nil, &SlotConflict{Date: date, TimeRange: cand.String(), Reason: ConflictOverlap}, nil
		}
		if cand.Overlaps(r) {
			return nil, &SlotConflict{Date: date, TimeRange: cand.String(), Reason: ConflictOverlap}, nil
		}
	}

	slot := &model.TimeSlot{UserID: userID, TaskID: taskID, Date: date, TimeRange: cand.String()}
	err = s.slotRepo.Create(ctx, slot)
	if errors.Is(err, model.ErrDuplicateSlot) {
		return nil, &SlotConflict{Date: date, TimeRange: cand.String(), Reason: ConflictDuplicate}, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return slot, nil, nil
}

// AddSlot stores one manually entered slot. Unlike generation, every
// problem here is a hard error: bad text, inverted range, overlap and
// duplicate all abort the insert.
func (s *SlotService) AddSlot(ctx context.Context, user *model.User, taskID uint, date time.Time, rangeText string) (*model.TimeSlot, error) {
	task, err := s.taskRepo.FindByID(ctx, user.ID, taskID)
	if err != nil {
		return nil, err
	}
	r, err := timeslot.ParseRange(rangeText)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, model.ErrValidation)
	}
	if r.Start >= r.End {
		return nil, fmt.Errorf("slot start must be before end: %w", model.ErrValidation)
	}

	existing, err := s.slotRepo.ListByTaskAndDate(ctx, task.ID, date)
	if err != nil {
		return nil, fmt.Errorf("list existing slots: %w", err)
	}
	for _, slot := range existing {
		other, err := timeslot.ParseRange(slot.TimeRange)
		if err != nil {
			continue
		}
		if r.Overlaps(other) {
			return nil, fmt.Errorf("range %s conflicts with %s: %w", r, slot.TimeRange, model.ErrSlotOverlap)
		}
	}

	slot := &model.TimeSlot{UserID: user.ID, TaskID: task.ID, Date: date, TimeRange: r.String()}
	if err := s.slotRepo.Create(ctx, slot); err != nil {
		return nil, err
	}
	return slot, nil
}

// CheckAvailability validates rangeText and reports whether it is free
// of overlaps with the task's persisted slots between from and to.
func (s *SlotService) CheckAvailability(ctx context.Context, user *model.User, taskID uint, from, to time.Time, rangeText string) (bool, error) {
	if _, err := s.taskRepo.FindByID(ctx, user.ID, taskID); err != nil {
		return false, err
	}
	r, err := timeslot.ParseRange(rangeText)
	if err != nil {
		return false, fmt.Errorf("%v: %w", err, model.ErrValidation)
	}

	slots, err := s.slotRepo.ListByTaskAndDateRange(ctx, taskID, from, to)
	if err != nil {
		return false, fmt.Errorf("list slots: %w", err)
	}
	for _, slot := range slots {
		other, err := timeslot.ParseRange(slot.TimeRange)
		if err != nil {
			continue
		}
		if r.Overlaps(other) {
			return false, nil
		}
	}
	return true, nil
}

// ListSlots returns a task's slots within a date range.
func (s *SlotService) ListSlots(ctx context.Context, user *model.User, taskID uint, from, to time.Time) ([]model.TimeSlot, error) {
	if _, err := s.taskRepo.FindByID(ctx, user.ID, taskID); err != nil {
		return nil, err
	}
	return s.slotRepo.ListByTaskAndDateRange(ctx, taskID, from, to)
}

// SlotsOnDate returns a task's slots on a single date.
func (s *SlotService) SlotsOnDate(ctx context.Context, user *model.User, taskID uint, date time.Time) ([]model.TimeSlot, error) {
	if _, err := s.taskRepo.FindByID(ctx, user.ID, taskID); err != nil {
		return nil, err
	}
	return s.slotRepo.ListByTaskAndDate(ctx, taskID, date)
}

// UpdateSlot changes a slot's date and range after validating the text.
func (s *SlotService) UpdateSlot(ctx context.Context, user *model.User, slotID uint, date time.Time, rangeText string) error {
	r, err := timeslot.ParseRange(rangeText)
	if err != nil {
		return fmt.Errorf("%v: %w", err, model.ErrValidation)
	}
	if r.Start >= r.End {
		return fmt.Errorf("slot start must be before end: %w", model.ErrValidation)
	}
	return s.slotRepo.Update(ctx, user.ID, slotID, date, r.String())
}

// DeleteSlot removes one slot.
func (s *SlotService) DeleteSlot(ctx context.Context, user *model.User, slotID uint) error {
	return s.slotRepo.Delete(ctx, user.ID, slotID)
}
