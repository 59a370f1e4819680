package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"taskquest/internal/model"
	"taskquest/internal/realtime"
)

// TaskRepository handles CRUD and queries for tasks, translating between the
// persisted record shape and the domain model. Every successful write signals
// the change hub so watchers pick up a fresh snapshot.
type TaskRepository struct {
	db  *gorm.DB
	hub *realtime.Hub
}

func NewTaskRepository(db *gorm.DB, hub *realtime.Hub) *TaskRepository {
	return &TaskRepository{db: db, hub: hub}
}

// Insert persists the task, assigning an identity when absent. An existing
// row with the same identity is replaced.
func (r *TaskRepository) Insert(ctx context.Context, task *model.Task) error {
	rec := toTaskRecord(*task)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rec).Error; err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	task.ID = rec.ID
	r.hub.Notify()
	return nil
}

// Update persists all fields of an existing task by identity. A missing
// identity is a silent no-op; callers must not rely on it as an error signal.
func (r *TaskRepository) Update(ctx context.Context, task model.Task) error {
	rec := toTaskRecord(task)
	res := r.db.WithContext(ctx).
		Model(&taskRecord{}).
		Where("id = ?", rec.ID).
		Select("*").Omit("id").
		Updates(rec)
	if res.Error != nil {
		return fmt.Errorf("update task: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		r.hub.Notify()
	}
	return nil
}

// DeleteByID removes a task row.
func (r *TaskRepository) DeleteByID(ctx context.Context, taskID uint) error {
	res := r.db.WithContext(ctx).Delete(&taskRecord{}, taskID)
	if res.Error != nil {
		return fmt.Errorf("delete task: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		r.hub.Notify()
	}
	return nil
}

// GetByID returns the task, or nil when no row exists.
func (r *TaskRepository) GetByID(ctx context.Context, taskID uint) (*model.Task, error) {
	var rec taskRecord
	err := r.db.WithContext(ctx).First(&rec, taskID).Error
	switch {
	case err == nil:
		task := toTask(rec)
		return &task, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	default:
		return nil, fmt.Errorf("find task: %w", err)
	}
}

// ListAll returns every task, incomplete before completed, then by status,
// priority, due date, newest created first among remaining ties.
func (r *TaskRepository) ListAll(ctx context.Context) ([]model.Task, error) {
	var records []taskRecord
	if err := r.db.WithContext(ctx).
		Order("is_completed ASC, status ASC, priority ASC, due_date ASC, created_at DESC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return toTasks(records), nil
}

// ListByStatus returns tasks in one status, most urgent first.
func (r *TaskRepository) ListByStatus(ctx context.Context, status model.Status) ([]model.Task, error) {
	var records []taskRecord
	if err := r.db.WithContext(ctx).
		Where("status = ?", status.Code()).
		Order("priority ASC, due_date ASC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list tasks by status: %w", err)
	}
	return toTasks(records), nil
}

// ListByCategory returns tasks referencing the given category.
func (r *TaskRepository) ListByCategory(ctx context.Context, categoryID uint) ([]model.Task, error) {
	var records []taskRecord
	if err := r.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("is_completed ASC, status ASC, priority ASC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list tasks by category: %w", err)
	}
	return toTasks(records), nil
}

// ListDueBetween returns tasks whose due date falls in the half-open range
// [start, end).
func (r *TaskRepository) ListDueBetween(ctx context.Context, start, end time.Time) ([]model.Task, error) {
	var records []taskRecord
	if err := r.db.WithContext(ctx).
		Where("due_date >= ? AND due_date < ?", epochMillis(start), epochMillis(end)).
		Order("is_completed ASC, due_date ASC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list tasks by due range: %w", err)
	}
	return toTasks(records), nil
}

// ListDueOn returns tasks due on the given local calendar day. Day queries
// are the half-open range from local midnight to the next local midnight.
func (r *TaskRepository) ListDueOn(ctx context.Context, day time.Time) ([]model.Task, error) {
	year, month, dom := day.Local().Date()
	start := time.Date(year, month, dom, 0, 0, 0, 0, day.Location())
	return r.ListDueBetween(ctx, start, start.AddDate(0, 0, 1))
}

// ListUpcoming returns incomplete tasks with a due date at or after now.
// Used to restore pending reminder triggers after a restart.
func (r *TaskRepository) ListUpcoming(ctx context.Context, now time.Time) ([]model.Task, error) {
	var records []taskRecord
	if err := r.db.WithContext(ctx).
		Where("is_completed = ? AND due_date >= ?", false, epochMillis(now)).
		Order("due_date ASC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list upcoming tasks: %w", err)
	}
	return toTasks(records), nil
}

// DeleteCompletedBefore removes completed tasks whose completion time
// precedes the cutoff, returning how many rows went away.
func (r *TaskRepository) DeleteCompletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("is_completed = ? AND completed_at < ?", true, epochMillis(cutoff)).
		Delete(&taskRecord{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete old completed tasks: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		r.hub.Notify()
	}
	return res.RowsAffected, nil
}

// WatchAll streams snapshots of the full ordered task list: one immediately,
// then one after every store change, until ctx is cancelled. A slow consumer
// sees the latest snapshot, not every intermediate one.
func (r *TaskRepository) WatchAll(ctx context.Context) <-chan []model.Task {
	return r.watch(ctx, r.ListAll)
}

// WatchByStatus streams snapshots of tasks in one status.
func (r *TaskRepository) WatchByStatus(ctx context.Context, status model.Status) <-chan []model.Task {
	return r.watch(ctx, func(ctx context.Context) ([]model.Task, error) {
		return r.ListByStatus(ctx, status)
	})
}

// WatchByCategory streams snapshots of tasks for one category.
func (r *TaskRepository) WatchByCategory(ctx context.Context, categoryID uint) <-chan []model.Task {
	return r.watch(ctx, func(ctx context.Context) ([]model.Task, error) {
		return r.ListByCategory(ctx, categoryID)
	})
}

func (r *TaskRepository) watch(ctx context.Context, fetch func(context.Context) ([]model.Task, error)) <-chan []model.Task {
	out := make(chan []model.Task, 1)
	signals, cancel := r.hub.Subscribe()

	push := func() {
		tasks, err := fetch(ctx)
		if err != nil {
			if ctx.Err() == nil {
				log.Printf("watch tasks: %v", err)
			}
			return
		}
		// Drop a stale pending snapshot; this goroutine is the only sender.
		select {
		case out <- tasks:
		default:
			select {
			case <-out:
			default:
			}
			out <- tasks
		}
	}

	go func() {
		defer cancel()
		defer close(out)
		push()
		for {
			select {
			case <-ctx.Done():
				return
			case <-signals:
				push()
			}
		}
	}()
	return out
}
