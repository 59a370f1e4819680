package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskquest/internal/config"
	"taskquest/internal/notify"
	"taskquest/internal/realtime"
	"taskquest/internal/repository"
	"taskquest/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	hub := realtime.NewHub()
	taskRepo := repository.NewTaskRepository(db, hub)
	categoryRepo := repository.NewCategoryRepository(db, hub)
	categorySvc := service.NewCategoryService(categoryRepo)

	// Delivery permission is probed once at startup. Denial degrades
	// reminders to log output; everything else keeps working.
	var notifier service.Notifier = notify.LogNotifier{}
	if cfg.TelegramToken != "" {
		tg, err := notify.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Printf("[warn] reminder delivery degraded to log output: %v", err)
		} else {
			notifier = tg
		}
	}

	scheduler := service.NewSchedulerService(time.Local, notifier)
	taskSvc := service.NewTaskService(taskRepo, scheduler)

	if err := scheduler.RestorePending(ctx, taskRepo); err != nil {
		log.Printf("[warn] %v", err)
	}

	sweep := func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		cutoff := time.Now().Add(-cfg.RetentionAge)
		deleted, err := taskSvc.CleanupCompletedBefore(jobCtx, cutoff)
		if err != nil {
			log.Printf("[warn] retention sweep: %v", err)
			return
		}
		if deleted > 0 {
			log.Printf("[info] retention sweep removed %d completed tasks", deleted)
		}
	}
	if cfg.SweepInterval > 0 {
		if _, err := scheduler.ScheduleInterval(cfg.SweepInterval, sweep); err != nil {
			log.Fatalf("schedule retention sweep: %v", err)
		}
	} else {
		if _, err := scheduler.ScheduleDaily(cfg.SweepTime, sweep); err != nil {
			log.Fatalf("schedule retention sweep: %v", err)
		}
	}
	sweep()

	scheduler.Start()
	defer scheduler.Stop()

	// Minimal consumers of the observable queries: log whenever the store
	// changes under us.
	go func() {
		for tasks := range taskSvc.Watch(ctx) {
			log.Printf("[info] task list changed, %d tasks", len(tasks))
		}
	}()
	go func() {
		for categories := range categorySvc.Watch(ctx) {
			log.Printf("[info] category list changed, %d categories", len(categories))
		}
	}()

	log.Printf("[info] taskquest started, %d reminders pending", scheduler.PendingCount())
	<-ctx.Done()
	log.Println("Shutdown complete.")
}
