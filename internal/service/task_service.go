package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"skillforge/internal/model"
	"skillforge/internal/repository"
)

// TaskInput represents data required to create a task.
type TaskInput struct {
	Title       string
	Description string
	FromDate    time.Time
	DueDate     time.Time
	Priority    model.Priority
	Category    string
	Recurrence  model.Recurrence
	Tags        string
}

// TaskService wraps task-related business logic.
type TaskService struct {
	taskRepo *repository.TaskRepository
}

func NewTaskService(taskRepo *repository.TaskRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

func (s *TaskService) CreateTask(ctx context.Context, user *model.User, input TaskInput) (*model.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("title is required: %w", model.ErrValidation)
	}
	if input.FromDate.After(input.DueDate) {
		return nil, fmt.Errorf("from date after due date: %w", model.ErrValidation)
	}
	if input.Priority == "" {
		input.Priority = model.PriorityMedium
	}
	if !model.ValidPriority(input.Priority) {
		return nil, fmt.Errorf("unknown priority %q: %w", input.Priority, model.ErrValidation)
	}
	if input.Recurrence == "" {
		input.Recurrence = model.RecurrenceNone
	}
	if !model.ValidRecurrence(input.Recurrence) {
		return nil, fmt.Errorf("unknown recurrence %q: %w", input.Recurrence, model.ErrValidation)
	}

	task := model.Task{
		UserID:      user.ID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		FromDate:    input.FromDate,
		DueDate:     input.DueDate,
		Status:      model.StatusNotStarted,
		Priority:    input.Priority,
		Category:    strings.TrimSpace(input.Category),
		Recurrence:  input.Recurrence,
		Tags:        input.Tags,
	}
	if err := s.taskRepo.Create(ctx, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *TaskService) ListTasks(ctx context.Context, user *model.User) ([]model.Task, error) {
	return s.taskRepo.ListByUser(ctx, user.ID)
}

// ListActive returns tasks not yet completed, highest priority first.
func (s *TaskService) ListActive(ctx context.Context, user *model.User) ([]model.Task, error) {
	return s.taskRepo.ListActive(ctx, user.ID)
}

func (s *TaskService) GetTask(ctx context.Context, user *model.User, taskID uint) (*model.Task, error) {
	return s.taskRepo.FindByID(ctx, user.ID, taskID)
}

// UpdateProgress sets progress and moves status along with it.
func (s *TaskService) UpdateProgress(ctx context.Context, user *model.User, taskID uint, progress int) (*model.Task, error) {
	if progress < 0 || progress > 100 {
		return nil, fmt.Errorf("progress %d out of range 0-100: %w", progress, model.ErrValidation)
	}
	task, err := s.taskRepo.FindByID(ctx, user.ID, taskID)
	if err != nil {
		return nil, err
	}
	task.Progress = progress
	switch {
	case progress == 100:
		task.Status = model.StatusCompleted
	case progress > 0:
		task.Status = model.StatusInProgress
	}
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateStatus moves a task to the given status.
func (s *TaskService) UpdateStatus(ctx context.Context, user *model.User, taskID uint, status model.Status) (*model.Task, error) {
	if !model.ValidStatus(status) {
		return nil, fmt.Errorf("unknown status %q: %w", status, model.ErrValidation)
	}
	task, err := s.taskRepo.FindByID(ctx, user.ID, taskID)
	if err != nil {
		return nil, err
	}
	task.Status = status
	if status == model.StatusCompleted {
		task.Progress = 100
	}
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask removes a task and cascades to its slots and schedule
// entries.
func (s *TaskService) DeleteTask(ctx context.Context, user *model.User, taskID uint) error {
	return s.taskRepo.Delete(ctx, user.ID, taskID)
}
