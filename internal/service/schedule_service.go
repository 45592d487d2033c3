package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"skillforge/internal/llm"
	"skillforge/internal/model"
	"skillforge/internal/repository"
	"skillforge/internal/schedule"
)

// SnippetSearcher fetches short reference texts for a query. A nil
// searcher or a failing lookup only means an emptier prompt.
type SnippetSearcher interface {
	Snippets(ctx context.Context, query string, max int) ([]string, error)
}

// GeneratedSchedule is the outcome of one generation attempt.
type GeneratedSchedule struct {
	AttemptID string
	Entries   []model.ScheduleEntry
}

// ScheduleService drives the prompt -> model -> parse -> persist flow
// and schedule entry completion.
type ScheduleService struct {
	taskRepo     *repository.TaskRepository
	slotRepo     *repository.SlotRepository
	scheduleRepo *repository.ScheduleRepository
	generator    llm.Generator
	searcher     SnippetSearcher
	log          *zap.Logger
}

func NewScheduleService(
	taskRepo *repository.TaskRepository,
	slotRepo *repository.SlotRepository,
	scheduleRepo *repository.ScheduleRepository,
	generator llm.Generator,
	searcher SnippetSearcher,
	log *zap.Logger,
) *ScheduleService {
	return &ScheduleService{
		taskRepo:     taskRepo,
		slotRepo:     slotRepo,
		scheduleRepo: scheduleRepo,
		generator:    generator,
		searcher:     searcher,
		log:          log,
	}
}

// Generate asks the text-generation service for a subtopic plan of the
// task and persists the parsed rows in one transaction. A failed call
// or output the lenient parser cannot recover any rows from persists
// nothing.
func (s *ScheduleService) Generate(ctx context.Context, user *model.User, taskID uint) (*GeneratedSchedule, error) {
	attemptID := uuid.NewString()
	log := s.log.With(zap.String("attempt_id", attemptID), zap.Uint("task_id", taskID))

	task, err := s.taskRepo.FindByID(ctx, user.ID, taskID)
	if err != nil {
		return nil, err
	}

	slots, err := s.slotRepo.ListByUserAndDate(ctx, user.ID, task.DueDate)
	if err != nil {
		return nil, fmt.Errorf("list available slots: %w", err)
	}
	slotTexts := make([]string, 0, len(slots))
	for _, slot := range slots {
		slotTexts = append(slotTexts, slot.Date.Format("2006-01-02")+" "+slot.TimeRange)
	}

	var snippets []string
	if s.searcher != nil {
		query := fmt.Sprintf("%s %s resources", task.Category, task.Title)
		snippets, err = s.searcher.Snippets(ctx, query, 3)
		if err != nil {
			// Snippets are optional garnish; generation proceeds.
			log.Warn("snippet search failed", zap.Error(err))
			snippets = nil
		}
	}

	prompt := schedule.BuildPrompt(schedule.PromptInput{
		Category:       task.Category,
		TaskTitle:      task.Title,
		FromDate:       task.FromDate,
		DueDate:        task.DueDate,
		AvailableSlots: slotTexts,
		SearchSnippets: snippets,
	})

	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, model.ErrGenerationService)
	}

	rows := schedule.ParseTable(raw)
	if len(rows) == 0 {
		log.Warn("generator output yielded no rows")
		return nil, fmt.Errorf("attempt %s: %w", attemptID, model.ErrEmptySchedule)
	}

	entries := make([]model.ScheduleEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, model.ScheduleEntry{
			UserID:   user.ID,
			TaskID:   task.ID,
			Date:     task.DueDate,
			TimeSlot: row.TimeSlot,
			Subtopic: row.Subtopic,
			Duration: row.Duration,
		})
	}
	if err := s.scheduleRepo.CreateBatch(ctx, entries); err != nil {
		return nil, err
	}

	log.Info("schedule generated", zap.Int("entries", len(entries)))
	return &GeneratedSchedule{AttemptID: attemptID, Entries: entries}, nil
}

// ListEntries returns the user's schedule joined with task titles.
func (s *ScheduleService) ListEntries(ctx context.Context, user *model.User) ([]repository.EntryWithTask, error) {
	return s.scheduleRepo.ListByUser(ctx, user.ID)
}

// MarkCompleted flips one entry by ID.
func (s *ScheduleService) MarkCompleted(ctx context.Context, user *model.User, entryID uint) error {
	return s.scheduleRepo.MarkCompleted(ctx, user.ID, entryID)
}

// CompletionPercent returns how much of the user's schedule is done.
func (s *ScheduleService) CompletionPercent(ctx context.Context, user *model.User) (float64, error) {
	total, completed, err := s.scheduleRepo.CompletionStats(ctx, user.ID)
	if err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}
	return float64(completed) / float64(total) * 100, nil
}
