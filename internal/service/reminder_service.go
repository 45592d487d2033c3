package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"skillforge/internal/model"
	"skillforge/internal/repository"
)

// ReminderService builds human-readable summaries for daily digests.
type ReminderService struct {
	taskRepo     *repository.TaskRepository
	scheduleRepo *repository.ScheduleRepository
}

func NewReminderService(taskRepo *repository.TaskRepository, scheduleRepo *repository.ScheduleRepository) *ReminderService {
	return &ReminderService{taskRepo: taskRepo, scheduleRepo: scheduleRepo}
}

// DailySummary renders a digest of active tasks and today's pending
// schedule entries for one user.
func (s *ReminderService) DailySummary(ctx context.Context, user model.User, now time.Time) (string, error) {
	tasks, err := s.taskRepo.ListActive(ctx, user.ID)
	if err != nil {
		return "", err
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	pending, err := s.scheduleRepo.ListPendingOnDate(ctx, user.ID, today)
	if err != nil {
		return "", err
	}
	total, completed, err := s.scheduleRepo.CompletionStats(ctx, user.ID)
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	builder.WriteString("📋 <b>Daily digest</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n\n", now.Format("2006-01-02")))

	builder.WriteString("🔥 <b>Active tasks</b>\n")
	if len(tasks) == 0 {
		builder.WriteString("— no open tasks\n")
	} else {
		for _, task := range tasks {
			builder.WriteString(formatTaskLine(task, now))
		}
	}

	builder.WriteString("\n📅 <b>Today's plan</b>\n")
	if len(pending) == 0 {
		builder.WriteString("— nothing scheduled for today\n")
	} else {
		for _, entry := range pending {
			builder.WriteString(fmt.Sprintf("• %s — %s\n", entry.TimeSlot, html.EscapeString(entry.Subtopic)))
		}
	}

	if total > 0 {
		pct := float64(completed) / float64(total) * 100
		builder.WriteString(fmt.Sprintf("\n📊 Schedule completion: %.0f%% (%d/%d)\n", pct, completed, total))
	}

	return strings.TrimSpace(builder.String()), nil
}

func formatTaskLine(task model.Task, now time.Time) string {
	var sb strings.Builder

	icon := "🟢"
	due := task.DueDate
	switch {
	case now.After(due.AddDate(0, 0, 1)):
		icon = "⚠️"
	case due.Sub(now) <= 48*time.Hour:
		icon = "⏳"
	}

	sb.WriteString(fmt.Sprintf("%s %s", icon, html.EscapeString(strings.TrimSpace(task.Title))))
	if task.Category != "" {
		sb.WriteString(fmt.Sprintf(" <i>(%s)</i>", html.EscapeString(task.Category)))
	}
	sb.WriteString(fmt.Sprintf("\n   ⏰ due %s · %s · %d%%", due.Format("2006-01-02"), task.Priority, task.Progress))
	sb.WriteByte('\n')
	return sb.String()
}
