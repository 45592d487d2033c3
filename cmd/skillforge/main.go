package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"skillforge/internal/bot"
	"skillforge/internal/config"
	"skillforge/internal/llm"
	"skillforge/internal/logger"
	"skillforge/internal/repository"
	"skillforge/internal/search"
	"skillforge/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog := logger.New(cfg.LogLevel, cfg.LogEncoding)
	defer zlog.Sync()

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("open database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	slotRepo := repository.NewSlotRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)

	generator := llm.NewClient(cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.LLMModel)
	searcher := search.NewClient(cfg.SearchBaseURL)

	taskSvc := service.NewTaskService(taskRepo)
	slotSvc := service.NewSlotService(slotRepo, taskRepo, zlog)
	scheduleSvc := service.NewScheduleService(taskRepo, slotRepo, scheduleRepo, generator, searcher, zlog)
	reminderSvc := service.NewReminderService(taskRepo, scheduleRepo)

	telegramBot, err := bot.New(cfg.TelegramToken, userRepo, taskSvc, slotSvc, scheduleSvc, reminderSvc, zlog)
	if err != nil {
		zlog.Fatal("create bot", zap.Error(err))
	}

	scheduler := service.NewSchedulerService(time.Local)
	if cfg.ReminderTime != "" {
		if _, err := scheduler.ScheduleDaily(cfg.ReminderTime, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := telegramBot.SendDailyReports(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
				zlog.Error("send daily reports", zap.Error(err))
			}
		}); err != nil {
			zlog.Fatal("schedule daily reports", zap.Error(err))
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	zlog.Info("skillforge bot started")
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		zlog.Fatal("bot stopped", zap.Error(err))
	}
	zlog.Info("shutdown complete")
}
