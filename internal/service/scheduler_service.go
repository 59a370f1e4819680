package service

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"taskquest/internal/model"
	"taskquest/internal/repository"
)

// Notifier receives a fired reminder. Delivery is fire-and-forget: the
// scheduler does not confirm or retry.
type Notifier interface {
	Notify(taskID uint, title string)
}

// SchedulerService maintains at most one pending one-shot reminder trigger
// per task id, plus cron-driven recurring jobs such as the nightly retention
// sweep.
type SchedulerService struct {
	notifier Notifier
	cron     *cron.Cron
	now      func() time.Time

	mu     sync.Mutex
	timers map[uint]*time.Timer
}

func NewSchedulerService(loc *time.Location, notifier Notifier) *SchedulerService {
	return &SchedulerService{
		notifier: notifier,
		cron:     cron.New(cron.WithLocation(loc), cron.WithSeconds()),
		now:      time.Now,
		timers:   make(map[uint]*time.Timer),
	}
}

// Schedule registers a trigger for the task's due date. Tasks without a due
// date, or with one not strictly in the future, get no trigger. Scheduling
// again for the same task id replaces the earlier trigger.
func (s *SchedulerService) Schedule(task model.Task) {
	if task.DueDate == nil {
		return
	}
	delay := task.DueDate.Sub(s.now())
	if delay <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.timers[task.ID]; ok {
		prev.Stop()
	}

	// The fire callback only clears its own registration. A replacement can
	// land between the timer firing and the callback taking the lock; the
	// stale callback must not delete the fresh trigger's entry.
	taskID, title := task.ID, task.Title
	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		s.mu.Lock()
		if s.timers[taskID] == timer {
			delete(s.timers, taskID)
		}
		s.mu.Unlock()
		s.notifier.Notify(taskID, title)
	})
	s.timers[taskID] = timer
	log.Printf("[info] scheduled reminder for task %d at %s", taskID, task.DueDate.Format(time.RFC3339))
}

// Cancel drops any pending trigger for the task id. Cancelling a task with
// no trigger is a no-op, not an error.
func (s *SchedulerService) Cancel(taskID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[taskID]; ok {
		t.Stop()
		delete(s.timers, taskID)
		log.Printf("[info] cancelled reminder for task %d", taskID)
	}
}

// HasPending reports whether a trigger is currently registered for the task.
func (s *SchedulerService) HasPending(taskID uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[taskID]
	return ok
}

// PendingCount returns the number of registered triggers.
func (s *SchedulerService) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// RestorePending re-registers triggers for every incomplete task with a
// future due date. Process-local timers do not outlive a restart, so this
// runs once at startup.
func (s *SchedulerService) RestorePending(ctx context.Context, taskRepo *repository.TaskRepository) error {
	tasks, err := taskRepo.ListUpcoming(ctx, s.now())
	if err != nil {
		return fmt.Errorf("restore reminders: %w", err)
	}
	for _, task := range tasks {
		s.Schedule(task)
	}
	return nil
}

// ScheduleDaily registers a daily job at the given HH:MM time string.
func (s *SchedulerService) ScheduleDaily(timeStr string, job func()) (cron.EntryID, error) {
	spec, err := buildDailySpec(timeStr)
	if err != nil {
		return 0, err
	}
	return s.cron.AddFunc(spec, job)
}

// ScheduleInterval registers a periodic job every given duration.
func (s *SchedulerService) ScheduleInterval(interval time.Duration, job func()) (cron.EntryID, error) {
	if interval <= 0 {
		return 0, fmt.Errorf("interval must be positive")
	}
	seconds := int(interval.Seconds())
	if seconds <= 0 {
		seconds = 1
	}
	spec := fmt.Sprintf("@every %ds", seconds)
	return s.cron.AddFunc(spec, job)
}

func (s *SchedulerService) Start() {
	s.cron.Start()
}

// Stop halts the cron runner, waits for running jobs, and drops every
// pending one-shot trigger.
func (s *SchedulerService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}

func buildDailySpec(timeStr string) (string, error) {
	parts := strings.Split(timeStr, ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid time %q, expected HH:MM", timeStr)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour in %q", timeStr)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute in %q", timeStr)
	}
	// cron format: second minute hour dom month dow
	return fmt.Sprintf("0 %d %d * * *", minute, hour), nil
}
