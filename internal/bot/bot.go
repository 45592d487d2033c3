package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"skillforge/internal/model"
	"skillforge/internal/repository"
	"skillforge/internal/service"
)

const dateLayout = "2006-01-02"

// Generation intervals accepted from the chat surface. The engine
// tolerates any positive interval; the surface keeps users in a sane
// band.
const (
	minIntervalMinutes = 15
	maxIntervalMinutes = 120
)

// Bot aggregates the Telegram API with the scheduler services.
type Bot struct {
	api         *tgbotapi.BotAPI
	userRepo    *repository.UserRepository
	taskSvc     *service.TaskService
	slotSvc     *service.SlotService
	scheduleSvc *service.ScheduleService
	reminderSvc *service.ReminderService
	log         *zap.Logger
}

func New(
	token string,
	userRepo *repository.UserRepository,
	taskSvc *service.TaskService,
	slotSvc *service.SlotService,
	scheduleSvc *service.ScheduleService,
	reminderSvc *service.ReminderService,
	log *zap.Logger,
) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Info("bot authorized", zap.String("account", api.Self.UserName))

	return &Bot{
		api:         api,
		userRepo:    userRepo,
		taskSvc:     taskSvc,
		slotSvc:     slotSvc,
		scheduleSvc: scheduleSvc,
		reminderSvc: reminderSvc,
		log:         log,
	}, nil
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	b.log.Info("start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		if update.Message == nil {
			continue
		}
		msg := update.Message
		if msg.Chat == nil || !msg.Chat.IsPrivate() || msg.From == nil {
			continue
		}
		if err := b.handleMessage(ctx, msg); err != nil {
			b.log.Error("handle message", zap.Int64("from", msg.From.ID), zap.Error(err))
		}
	}

	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if !msg.IsCommand() {
		return b.sendText(msg.Chat.ID, "I only speak commands. Try /help.")
	}

	b.log.Info("command",
		zap.Int64("from", msg.From.ID),
		zap.String("command", msg.Command()),
	)

	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	args := strings.TrimSpace(msg.CommandArguments())

	switch msg.Command() {
	case "start":
		return b.handleStart(msg)
	case "help":
		return b.handleHelp(msg)
	case "newtask":
		return b.handleNewTask(ctx, msg, user, args)
	case "tasks":
		return b.handleListTasks(ctx, msg, user)
	case "progress":
		return b.handleProgress(ctx, msg, user, args)
	case "deltask":
		return b.handleDeleteTask(ctx, msg, user, args)
	case "genslots":
		return b.handleGenerateSlots(ctx, msg, user, args)
	case "addslot":
		return b.handleAddSlot(ctx, msg, user, args)
	case "slots":
		return b.handleListSlots(ctx, msg, user, args)
	case "day":
		return b.handleSlotsOnDate(ctx, msg, user, args)
	case "editslot":
		return b.handleEditSlot(ctx, msg, user, args)
	case "delslot":
		return b.handleDeleteSlot(ctx, msg, user, args)
	case "check":
		return b.handleCheck(ctx, msg, user, args)
	case "genschedule":
		return b.handleGenerateSchedule(ctx, msg, user, args)
	case "schedule":
		return b.handleListSchedule(ctx, msg, user)
	case "done":
		return b.handleDone(ctx, msg, user, args)
	case "report":
		return b.handleReport(ctx, msg, user)
	default:
		return b.sendText(msg.Chat.ID, "Unknown command. See /help.")
	}
}

func (b *Bot) handleStart(msg *tgbotapi.Message) error {
	name := strings.TrimSpace(msg.From.FirstName)
	if name == "" {
		name = "there"
	}
	text := fmt.Sprintf(
		"👋 Hi, %s!\n<b>I plan your skills: tasks, time slots and AI-generated study schedules.</b>\n\n"+
			"Start with /newtask, then /genslots to carve out time, and /genschedule to get a plan.\n"+
			"Full command list: /help",
		escape(name),
	)
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) error {
	text := "ℹ️ <b>Commands</b> (fields separated by |)\n" +
		"• /newtask Title | from | due [| category [| priority [| recurrence]]]\n" +
		"• /tasks — list your tasks\n" +
		"• /progress &lt;id&gt; &lt;0-100&gt; — update progress\n" +
		"• /deltask &lt;id&gt; — delete a task with its slots and schedule\n" +
		"• /genslots task | from | to | start | end | minutes | recurrence\n" +
		"   e.g. /genslots 1 | 2025-03-16 | 2025-03-20 | 09:00 AM | 05:00 PM | 30 | Daily\n" +
		"• /addslot task | date | 10:00 AM - 11:00 AM\n" +
		"• /slots task | from | to — list slots\n" +
		"• /day task | date — slots on one date\n" +
		"• /editslot slot | date | range\n" +
		"• /delslot &lt;id&gt;\n" +
		"• /check task | from | to | range — is this range free?\n" +
		"• /genschedule &lt;task id&gt; — AI subtopic schedule\n" +
		"• /schedule — saved schedule with completion\n" +
		"• /done &lt;entry id&gt; — mark a subtopic complete\n" +
		"• /report — today's digest\n" +
		"Dates use YYYY-MM-DD, times use HH:MM AM/PM."
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleNewTask(ctx context.Context, msg *tgbotapi.Message, user *model.User, args string) error {
	fields := splitFields(args)
	if len(fields) < 3 {
		return b.sendText(msg.Chat.ID, "Usage: /newtask Title | 2025-03-16 | 2025-03-20 [| category [| priority [| recurrence]]]")
	}
	from, err := parseDate(fields[1])
	if err != nil {
		return b.sendText(msg.Chat.ID, "❌ Bad from-date, expected YYYY-MM-DD.")
	}
	due, err := parseDate(fields[2])
	if err != nil {
		return b.sendText(msg.Chat.ID, "❌ Bad due-date, expected YYYY-MM-DD.")
	}

	input := service.TaskInput{Title: fields[0], FromDate: from, DueDate: due}
	if len(fields) > 3 {
		input.Category = fields[3]
	}
	if len(fields) > 4 {
		input.Priority = model.Priority(fields[4])
	}
	if len(fields) > 5 {
		input.Recurrence = model.Recurrence(fields[5])
	}

	task, err := b.taskSvc.CreateTask(ctx, user, input)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("🎉 Task #%d <b>%s</b> saved (%s to %s).",
		task.ID, escape(task.Title), task.FromDate.Format(dateLayout), task.DueDate.Format(dateLayout)))
}

func (b *Bot) handleListTasks(ctx context.Context, msg *tgbotapi.Message, user *model.User) error {
	tasks, err := b.taskSvc.ListTasks(ctx, user)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	if len(tasks) == 0 {
		return b.sendText(msg.Chat.ID, "ℹ️ No tasks yet. Add one with /newtask.")
	}

	var sb strings.Builder
	sb.WriteString("📋 <b>Your tasks</b>\n")
	for _, task := range tasks {
		sb.WriteString(formatTask(task))
	}
	return b.sendText(msg.Chat.ID, strings.TrimSpace(sb.String()))
}

func (b *Bot) handleProgress(ctx context.Context, msg *tgbotapi.Message, user *model.User, args string) error {
	parts := strings.Fields(args)
	if len(parts) != 2 {
		return b.sendText(msg.Chat.ID, "Usage: /progress <task id> <0-100>")
	}
	taskID, err := parseID(parts[0])
	if err != nil {
		return b.sendText(msg.Chat.ID, "❌ Bad task id.")
	}
	progress, err := strconv.Atoi(parts[1])
	if err != nil {
		return b.sendText(msg.Chat.ID, "❌ Progress must be a number 0-100.")
	}
	task, err := b.taskSvc.UpdateProgress(ctx, user, taskID, progress)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("✅ <b>%s</b>: %d%% (%s).", escape(task.Title), task.Progress, task.Status))
}

func (b *Bot) handleDeleteTask(ctx context.Context, msg *tgbotapi.Message, user *model.User, args string) error {
	taskID, err := parseID(args)
	if err != nil {
		return b.sendText(msg.Chat.ID, "Usage: /deltask <task id>")
	}
	if err := b.taskSvc.DeleteTask(ctx, user, taskID); err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("🗑 Task #%d deleted along with its slots and schedule.", taskID))
}

func (b *Bot) handleGenerateSlots(ctx context.Context, msg *tgbotapi.Message, user *model.User, args string) error {
	fields := splitFields(args)
	if len(fields) != 7 {
		return b.sendText(msg.Chat.ID, "Usage: /genslots task | from | to | start | end | minutes | recurrence")
	}
	taskID, err := parseID(fields[0])
	if err != nil {
		return b.sendText(msg.Chat.ID, "❌ Bad task id.")
	}
	from, err := parseDate(fields[1])
	if err != nil {
		return b.sendText(msg.Chat.ID, "❌ Bad from-date, expected YYYY-MM-DD.")
	}
	to, err := parseDate(fields[2])
	if err != nil {
		return b.sendText(msg.Chat.ID, "❌ Bad to-date, expected YYYY-MM-DD.")
	}
	interval, err := strconv.Atoi(fields[5])
	if err != nil || interval < minIntervalMinutes || interval > maxIntervalMinutes {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("❌ Interval must be %d-%d minutes.", minIntervalMinutes, maxIntervalMinutes))
	}

	report, err := b.slotSvc.Generate(ctx, user, service.GenerateSlotsInput{
		TaskID:          taskID,
		From:            from,
		To:              to,
		StartTime:       fields[3],
		EndTime:         fields[4],
		IntervalMinutes: interval,
		Recurrence:      model.Recurrence(fields[6]),
	})
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🔄 Generation finished: %d saved, %d conflicts.\n", len(report.Created), len(report.Conflicts)))
	for _, slot := range report.Created {
		sb.WriteString(fmt.Sprintf("✅ %s %s\n", slot.Date.Format(dateLayout), slot.TimeRange))
	}
	for _, c := range report.Conflicts {
		sb.WriteString(fmt.Sprintf("⚠️ %s %s (%s)\n", c.Date.Format(dateLayout), c.TimeRange, c.Reason))
	}
	return b.sendText(msg.Chat.ID, strings.TrimSpace(sb.String()))
}

func (b *Bot) handleAddSlot(ctx context.Context, msg *tgbotapi.Message, user *model.User, args string) error {
	fields := splitFields(args)
	if len(fields) != 3 {
		return b.sendText(msg.Chat.ID, "Usage: /addslot task | date | 10:00 AM - 11:00 AM")
	}
	taskID, err := parseID(fields[0])
	if err != nil {
		return b.sendText(msg.Chat.ID, "❌ Bad task id.")
	}
	date, err := parseDate(fields[1])
	if err != nil {
		return b.sendText(msg.Chat.ID, "❌ Bad date, expected YYYY-MM-DD.")
	}
	slot, err := b.slotSvc.AddSlot(ctx, user, taskID, date, fields[2])
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("✅ Slot #%d saved: %s %s.", slot.ID, slot.Date.Format(dateLayout), slot.TimeRange))
}

func (b *Bot) handleListSlots(ctx context.Context, msg *tgbotapi.Message, user *model.User, args string) error {
	fields := splitFields(args)
	if len(fields) != 3 {
		return b.sendText(msg.Chat.ID, "Usage: /slots task | from | to")
	}
	taskID, err := parseID(fields[0])
	if err != nil {
		return b.sendText(msg.Chat.ID, "❌ Bad task id.")
	}
	from, err := parseDate(fields[1])
	if err != nil {
		return b.sendText(msg.Chat.ID, "❌ Bad from-date.")
	}
	to, err := parseDate(fields[2])
	if err != nil {
		return b.sendText(msg.Chat.ID, "❌ Bad to-date.")
	}
	slots, err := b.slotSvc.ListSlots(ctx, user, taskID, from, to)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	if len(slots) == 0 {
		return b.sendText(msg.Chat.ID, "ℹ️ No slots in this range. Generate some with /genslots.")
	}
	var sb strings.Builder
	sb.WriteString("📅 <b>Time slots</b>\n")
	for _, slot := range slots {
		sb.WriteString(fmt.Sprintf("#%d %s %s\n", slot.ID, slot.Date.Format(dateLayout), slot.TimeRange))
	}
	return b.sendText(msg.Chat.ID, strings.TrimSpace(sb.String()))
}

func (b *Bot) handleSlotsOnDate(ctx context.Context, msg *tgbotapi.Message, user *model.User, args string) error {
	fields := splitFields(args)
	if len(fields) != 2 {
		return b.sendText(msg.Chat.ID, "Usage: /day task | date")
	}
	taskID, err := parseID(fields[0])
	if err != nil {
		return b.sendText(msg.Chat.ID, "❌ Bad task id.")
	}
	date, err := parseDate(fields[1])
	if err != nil {
		return b.sendText(msg.Chat.ID, "❌ Bad date.")
	}
	slots, err := b.slotSvc.SlotsOnDate(ctx, user, taskID, date)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	if len(slots) == 0 {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("ℹ️ No slots on %s.", date.Format(dateLayout)))
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📅 Slots on %s:\n", date.Format(dateLayout)))
	for _, slot := range slots {
		sb.WriteString(fmt.Sprintf("• #%d %s\n", slot.ID, slot.TimeRange))
	}
	return b.sendText(msg.Chat.ID, strings.TrimSpace(sb.String()))
}

func (b *Bot) handleEditSlot(ctx context.Context, msg *tgbotapi.Message, user *model.User, args string) error {
	fields := splitFields(args)
	if len(fields) != 3 {
		return b.sendText(msg.Chat.ID, "Usage: /editslot slot | date | 10:00 AM - 11:00 AM")
	}
	slotID, err := parseID(fields[0])
	if err != nil {
		return b.sendText(msg.Chat.ID, "❌ Bad slot id.")
	}
	date, err := parseDate(fields[1])
	if err != nil {
		return b.sendText(msg.Chat.ID, "❌ Bad date.")
	}
	if err := b.slotSvc.UpdateSlot(ctx, user, slotID, date, fields[2]); err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("✅ Slot #%d updated.", slotID))
}

func (b *Bot) handleDeleteSlot(ctx context.Context, msg *tgbotapi.Message, user *model.User, args string) error {
	slotID, err := parseID(args)
	if err != nil {
		return b.sendText(msg.Chat.ID, "Usage: /delslot <slot id>")
	}
	if err := b.slotSvc.DeleteSlot(ctx, user, slotID); err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("🗑 Slot #%d deleted.", slotID))
}

func (b *Bot) handleCheck(ctx context.Context, msg *tgbotapi.Message, user *model.User, args string) error {
	fields := splitFields(args)
	if len(fields) != 4 {
		return b.sendText(msg.Chat.ID, "Usage: /check task | from | to | 10:00 AM - 11:00 AM")
	}
	taskID, err := parseID(fields[0])
	if err != nil {
		return b.sendText(msg.Chat.ID, "❌ Bad task id.")
	}
	from, err := parseDate(fields[1])
	if err != nil {
		return b.sendText(msg.Chat.ID, "❌ Bad from-date.")
	}
	to, err := parseDate(fields[2])
	if err != nil {
		return b.sendText(msg.Chat.ID, "❌ Bad to-date.")
	}
	free, err := b.slotSvc.CheckAvailability(ctx, user, taskID, from, to, fields[3])
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	if free {
		return b.sendText(msg.Chat.ID, "✅ Slot is available!")
	}
	return b.sendText(msg.Chat.ID, "⚠️ Slot conflict detected!")
}

func (b *Bot) handleGenerateSchedule(ctx context.Context, msg *tgbotapi.Message, user *model.User, args string) error {
	taskID, err := parseID(args)
	if err != nil {
		return b.sendText(msg.Chat.ID, "Usage: /genschedule <task id>")
	}

	if err := b.sendText(msg.Chat.ID, "⏳ Generating schedule..."); err != nil {
		return err
	}
	out, err := b.scheduleSvc.Generate(ctx, user, taskID)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}

	var sb strings.Builder
	sb.WriteString("📌 <b>Your study schedule</b>\n")
	for _, entry := range out.Entries {
		sb.WriteString(fmt.Sprintf("#%d 🔹 %s — %s (%s)\n", entry.ID, escape(entry.Subtopic), escape(entry.Duration), escape(entry.TimeSlot)))
	}
	sb.WriteString("\nMark items complete with /done <entry id>.")
	return b.sendText(msg.Chat.ID, strings.TrimSpace(sb.String()))
}

func (b *Bot) handleListSchedule(ctx context.Context, msg *tgbotapi.Message, user *model.User) error {
	rows, err := b.scheduleSvc.ListEntries(ctx, user)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	if len(rows) == 0 {
		return b.sendText(msg.Chat.ID, "ℹ️ No saved schedules yet. Generate one with /genschedule.")
	}
	pct, err := b.scheduleSvc.CompletionPercent(ctx, user)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🗂 <b>Saved schedules</b> — %.0f%% complete\n", pct))
	for _, row := range rows {
		mark := "▫️"
		if row.IsCompleted {
			mark = "✅"
		}
		sb.WriteString(fmt.Sprintf("%s #%d %s: %s (%s, %s)\n",
			mark, row.ID, escape(row.TaskTitle), escape(row.Subtopic), escape(row.TimeSlot), row.Date.Format(dateLayout)))
	}
	return b.sendText(msg.Chat.ID, strings.TrimSpace(sb.String()))
}

func (b *Bot) handleDone(ctx context.Context, msg *tgbotapi.Message, user *model.User, args string) error {
	entryID, err := parseID(args)
	if err != nil {
		return b.sendText(msg.Chat.ID, "Usage: /done <entry id>")
	}
	if err := b.scheduleSvc.MarkCompleted(ctx, user, entryID); err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("✅ Entry #%d marked as completed!", entryID))
}

func (b *Bot) handleReport(ctx context.Context, msg *tgbotapi.Message, user *model.User) error {
	text, err := b.reminderSvc.DailySummary(ctx, *user, time.Now())
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	return b.sendText(msg.Chat.ID, text)
}

// SendDailyReports pushes the digest to every known user. Driven by
// the cron scheduler.
func (b *Bot) SendDailyReports(ctx context.Context) error {
	users, err := b.userRepo.ListAll(ctx)
	if err != nil {
		return err
	}
	now := time.Now()
	for _, user := range users {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		text, err := b.reminderSvc.DailySummary(ctx, user, now)
		if err != nil {
			b.log.Warn("build summary", zap.Int64("user", user.TelegramID), zap.Error(err))
			continue
		}
		if err := b.sendText(user.TelegramID, text); err != nil {
			b.log.Warn("send summary", zap.Int64("user", user.TelegramID), zap.Error(err))
		}
	}
	return nil
}

func (b *Bot) ensureUser(ctx context.Context, from *tgbotapi.User) (*model.User, error) {
	return b.userRepo.UpsertFromTelegram(ctx, from.ID, from.FirstName, from.LastName, from.UserName)
}

// replyError translates domain errors into user-facing messages and
// keeps everything else generic.
func (b *Bot) replyError(chatID int64, err error) error {
	switch {
	case errors.Is(err, model.ErrValidation):
		return b.sendText(chatID, "❌ "+escape(err.Error()))
	case errors.Is(err, model.ErrNotFound):
		return b.sendText(chatID, "❌ "+escape(err.Error()))
	case errors.Is(err, model.ErrDuplicateSlot):
		return b.sendText(chatID, "⚠️ That exact slot already exists.")
	case errors.Is(err, model.ErrSlotOverlap):
		return b.sendText(chatID, "⚠️ Overlapping slot detected: "+escape(err.Error()))
	case errors.Is(err, model.ErrEmptySchedule):
		return b.sendText(chatID, "⚠️ The model returned nothing usable; no schedule was saved. Try again.")
	case errors.Is(err, model.ErrGenerationService):
		return b.sendText(chatID, "❗ The generation service failed; nothing was saved. Try again later.")
	default:
		b.log.Error("internal error", zap.Error(err))
		return b.sendText(chatID, "❗ Something went wrong. Please try again.")
	}
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := b.api.Send(msg)
	return err
}

func splitFields(args string) []string {
	if strings.TrimSpace(args) == "" {
		return nil
	}
	parts := strings.Split(args, "|")
	fields := make([]string, 0, len(parts))
	for _, part := range parts {
		fields = append(fields, strings.TrimSpace(part))
	}
	return fields
}

func parseDate(text string) (time.Time, error) {
	return time.Parse(dateLayout, strings.TrimSpace(text))
}

func parseID(text string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(text), 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("bad id %q", text)
	}
	return uint(id), nil
}

func formatTask(task model.Task) string {
	icon := "🟢"
	switch task.Status {
	case model.StatusCompleted:
		icon = "✅"
	case model.StatusInProgress:
		icon = "🔵"
	case model.StatusPending:
		icon = "🟡"
	}
	line := fmt.Sprintf("%s #%d <b>%s</b> — %s, %d%%, due %s",
		icon, task.ID, escape(task.Title), task.Priority, task.Progress, task.DueDate.Format(dateLayout))
	if task.Category != "" {
		line += fmt.Sprintf(" <i>(%s)</i>", escape(task.Category))
	}
	if task.Recurrence != model.RecurrenceNone && task.Recurrence != "" {
		line += " ♻️ " + string(task.Recurrence)
	}
	return line + "\n"
}

func escape(s string) string {
	return html.EscapeString(s)
}
