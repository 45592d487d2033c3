package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"skillforge/internal/model"
)

func testDB(t *testing.T) *dbFixture {
	t.Helper()
	db, err := NewDB(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql db: %v", err)
	}
	// A pooled :memory: connection is a fresh database each time; pin
	// the pool to one connection so every query sees the same schema.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return &dbFixture{
		users:     NewUserRepository(db),
		tasks:     NewTaskRepository(db),
		slots:     NewSlotRepository(db),
		schedules: NewScheduleRepository(db),
	}
}

type dbFixture struct {
	users     *UserRepository
	tasks     *TaskRepository
	slots     *SlotRepository
	schedules *ScheduleRepository
}

func (f *dbFixture) seedUserAndTask(t *testing.T, ctx context.Context) (*model.User, *model.Task) {
	t.Helper()
	user, err := f.users.UpsertFromTelegram(ctx, 100, "Ada", "L", "ada")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	task := &model.Task{
		UserID:   user.ID,
		Title:    "Learn Go",
		FromDate: day(2025, 3, 16),
		DueDate:  day(2025, 3, 20),
		Status:   model.StatusNotStarted,
		Priority: model.PriorityHigh,
		Category: "Programming",
	}
	if err := f.tasks.Create(ctx, task); err != nil {
		t.Fatalf("seed task: %v", err)
	}
	return user, task
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSlotDuplicateDetection(t *testing.T) {
	ctx := context.Background()
	f := testDB(t)
	user, task := f.seedUserAndTask(t, ctx)

	slot := &model.TimeSlot{UserID: user.ID, TaskID: task.ID, Date: day(2025, 3, 16), TimeRange: "10:00 AM - 10:30 AM"}
	if err := f.slots.Create(ctx, slot); err != nil {
		t.Fatalf("create slot: %v", err)
	}

	dup := &model.TimeSlot{UserID: user.ID, TaskID: task.ID, Date: day(2025, 3, 16), TimeRange: "10:00 AM - 10:30 AM"}
	err := f.slots.Create(ctx, dup)
	if !errors.Is(err, model.ErrDuplicateSlot) {
		t.Fatalf("err = %v, want ErrDuplicateSlot", err)
	}

	// Same range on another date is fine.
	other := &model.TimeSlot{UserID: user.ID, TaskID: task.ID, Date: day(2025, 3, 17), TimeRange: "10:00 AM - 10:30 AM"}
	if err := f.slots.Create(ctx, other); err != nil {
		t.Fatalf("create slot on other date: %v", err)
	}
}

func TestSlotListAndUpdate(t *testing.T) {
	ctx := context.Background()
	f := testDB(t)
	user, task := f.seedUserAndTask(t, ctx)

	for _, tr := range []string{"10:00 AM - 10:30 AM", "10:30 AM - 11:00 AM"} {
		if err := f.slots.Create(ctx, &model.TimeSlot{UserID: user.ID, TaskID: task.ID, Date: day(2025, 3, 16), TimeRange: tr}); err != nil {
			t.Fatalf("create slot: %v", err)
		}
	}

	onDate, err := f.slots.ListByTaskAndDate(ctx, task.ID, day(2025, 3, 16))
	if err != nil {
		t.Fatalf("list by date: %v", err)
	}
	if len(onDate) != 2 {
		t.Fatalf("len = %d, want 2", len(onDate))
	}

	inRange, err := f.slots.ListByTaskAndDateRange(ctx, task.ID, day(2025, 3, 15), day(2025, 3, 17))
	if err != nil {
		t.Fatalf("list by range: %v", err)
	}
	if len(inRange) != 2 {
		t.Fatalf("len = %d, want 2", len(inRange))
	}

	if err := f.slots.Update(ctx, user.ID, onDate[0].ID, day(2025, 3, 17), "09:00 AM - 09:30 AM"); err != nil {
		t.Fatalf("update slot: %v", err)
	}
	moved, err := f.slots.FindByID(ctx, user.ID, onDate[0].ID)
	if err != nil {
		t.Fatalf("find moved: %v", err)
	}
	if moved.TimeRange != "09:00 AM - 09:30 AM" {
		t.Fatalf("range = %q", moved.TimeRange)
	}

	if err := f.slots.Delete(ctx, user.ID, onDate[1].ID); err != nil {
		t.Fatalf("delete slot: %v", err)
	}
	if err := f.slots.Delete(ctx, user.ID, onDate[1].ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestTaskDeleteCascades(t *testing.T) {
	ctx := context.Background()
	f := testDB(t)
	user, task := f.seedUserAndTask(t, ctx)

	if err := f.slots.Create(ctx, &model.TimeSlot{UserID: user.ID, TaskID: task.ID, Date: day(2025, 3, 16), TimeRange: "10:00 AM - 10:30 AM"}); err != nil {
		t.Fatalf("create slot: %v", err)
	}
	entries := []model.ScheduleEntry{{
		UserID: user.ID, TaskID: task.ID, Date: day(2025, 3, 16),
		TimeSlot: "10:00 AM - 10:30 AM", Subtopic: "Intro", Duration: "30 minutes",
	}}
	if err := f.schedules.CreateBatch(ctx, entries); err != nil {
		t.Fatalf("create entries: %v", err)
	}

	if err := f.tasks.Delete(ctx, user.ID, task.ID); err != nil {
		t.Fatalf("delete task: %v", err)
	}

	slots, err := f.slots.ListByTaskAndDate(ctx, task.ID, day(2025, 3, 16))
	if err != nil {
		t.Fatalf("list slots: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("slots survived cascade: %v", slots)
	}
	rows, err := f.schedules.ListByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("entries survived cascade: %v", rows)
	}

	if _, err := f.tasks.FindByID(ctx, user.ID, task.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("find deleted task err = %v, want ErrNotFound", err)
	}
}

func TestScheduleListJoinsTaskTitle(t *testing.T) {
	ctx := context.Background()
	f := testDB(t)
	user, task := f.seedUserAndTask(t, ctx)

	entries := []model.ScheduleEntry{
		{UserID: user.ID, TaskID: task.ID, Date: day(2025, 3, 16), TimeSlot: "10:00 AM - 10:30 AM", Subtopic: "Intro", Duration: "30 minutes"},
		{UserID: user.ID, TaskID: task.ID, Date: day(2025, 3, 16), TimeSlot: "10:30 AM - 11:00 AM", Subtopic: "Practice", Duration: "30 minutes"},
	}
	if err := f.schedules.CreateBatch(ctx, entries); err != nil {
		t.Fatalf("create entries: %v", err)
	}

	rows, err := f.schedules.ListByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len = %d, want 2", len(rows))
	}
	if rows[0].TaskTitle != "Learn Go" {
		t.Fatalf("task title = %q", rows[0].TaskTitle)
	}
}

func TestScheduleMarkCompletedByID(t *testing.T) {
	ctx := context.Background()
	f := testDB(t)
	user, task := f.seedUserAndTask(t, ctx)

	// Two entries share the same subtopic text; completion by ID must
	// touch only the addressed row.
	entries := []model.ScheduleEntry{
		{UserID: user.ID, TaskID: task.ID, Date: day(2025, 3, 16), TimeSlot: "10:00 AM - 10:30 AM", Subtopic: "Review", Duration: "30 minutes"},
		{UserID: user.ID, TaskID: task.ID, Date: day(2025, 3, 17), TimeSlot: "10:00 AM - 10:30 AM", Subtopic: "Review", Duration: "30 minutes"},
	}
	if err := f.schedules.CreateBatch(ctx, entries); err != nil {
		t.Fatalf("create entries: %v", err)
	}
	rows, err := f.schedules.ListByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if err := f.schedules.MarkCompleted(ctx, user.ID, rows[0].ID); err != nil {
		t.Fatalf("mark completed: %v", err)
	}

	total, completed, err := f.schedules.CompletionStats(ctx, user.ID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if total != 2 || completed != 1 {
		t.Fatalf("stats = %d/%d, want 1/2", completed, total)
	}

	if err := f.schedules.MarkCompleted(ctx, user.ID, 9999); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("missing entry err = %v, want ErrNotFound", err)
	}
}
