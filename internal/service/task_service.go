package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"taskquest/internal/model"
	"taskquest/internal/repository"
)

// ReminderScheduler is the slice of the scheduler the task service drives.
// Both calls are idempotent and safe to invoke redundantly.
type ReminderScheduler interface {
	Schedule(task model.Task)
	Cancel(taskID uint)
}

// TaskInput represents data required to create a task.
type TaskInput struct {
	Title         string
	Description   string
	Notes         string
	Priority      model.Priority
	Status        model.Status
	CategoryID    *uint
	DueDate       *time.Time
	ReminderTime  *time.Time
	RecurringType model.RecurringType
}

// TaskService owns every task state transition. It is the only place allowed
// to touch Status and IsCompleted, which keeps the two consistent: a task is
// completed exactly when its status is DONE. It also owns the scheduling side
// effects that go with each transition.
type TaskService struct {
	taskRepo  *repository.TaskRepository
	scheduler ReminderScheduler
	now       func() time.Time

	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func NewTaskService(taskRepo *repository.TaskRepository, scheduler ReminderScheduler) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		scheduler: scheduler,
		now:       time.Now,
		locks:     make(map[uint]*sync.Mutex),
	}
}

// lockTask serializes read-modify-write cycles on a single task id so
// concurrent transitions cannot interleave at the field level.
func (s *TaskService) lockTask(taskID uint) func() {
	s.mu.Lock()
	l, ok := s.locks[taskID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[taskID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// Create builds and persists a new task. A new task always starts not
// completed; a caller-chosen DONE status is normalized back to TODO so no
// stored row ever pairs DONE with an unset completion flag.
func (s *TaskService) Create(ctx context.Context, input TaskInput) (*model.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("title is required")
	}

	status := input.Status
	if status == model.StatusDone {
		status = model.StatusTodo
	}

	task := model.Task{
		Title:         strings.TrimSpace(input.Title),
		Description:   input.Description,
		Notes:         input.Notes,
		Priority:      input.Priority,
		Status:        status,
		CategoryID:    input.CategoryID,
		DueDate:       input.DueDate,
		ReminderTime:  input.ReminderTime,
		RecurringType: input.RecurringType,
		IsCompleted:   false,
		CompletedAt:   nil,
		CreatedAt:     s.now(),
	}

	if err := s.taskRepo.Insert(ctx, &task); err != nil {
		return nil, err
	}

	s.applySideEffects(task)
	return &task, nil
}

// CycleStatus advances the task one step around the board:
// TODO -> IN_PROGRESS -> DONE -> TODO. Landing on DONE stamps the completion
// time; leaving it clears the stamp.
func (s *TaskService) CycleStatus(ctx context.Context, taskID uint) (*model.Task, error) {
	unlock := s.lockTask(taskID)
	defer unlock()

	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, fmt.Errorf("task %d not found", taskID)
	}

	switch task.Status {
	case model.StatusTodo:
		task.Status = model.StatusInProgress
	case model.StatusInProgress:
		task.Status = model.StatusDone
	default:
		task.Status = model.StatusTodo
	}
	s.stampCompletion(task, task.Status == model.StatusDone)

	if err := s.taskRepo.Update(ctx, *task); err != nil {
		return nil, err
	}

	s.applySideEffects(*task)
	return task, nil
}

// ToggleCompletion flips the completion flag. Turning it on forces DONE;
// turning it off forces TODO — an earlier IN_PROGRESS is deliberately lost.
func (s *TaskService) ToggleCompletion(ctx context.Context, taskID uint) (*model.Task, error) {
	unlock := s.lockTask(taskID)
	defer unlock()

	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, fmt.Errorf("task %d not found", taskID)
	}

	completed := !task.IsCompleted
	if completed {
		task.Status = model.StatusDone
	} else {
		task.Status = model.StatusTodo
	}
	s.stampCompletion(task, completed)

	if err := s.taskRepo.Update(ctx, *task); err != nil {
		return nil, err
	}

	s.applySideEffects(*task)
	return task, nil
}

// Delete removes the task and its pending reminder trigger in one logical
// operation, so no trigger is ever left orphaned.
func (s *TaskService) Delete(ctx context.Context, taskID uint) error {
	unlock := s.lockTask(taskID)
	defer unlock()

	if err := s.taskRepo.DeleteByID(ctx, taskID); err != nil {
		return err
	}
	s.scheduler.Cancel(taskID)
	return nil
}

// CleanupCompletedBefore deletes every completed task whose completion time
// precedes the cutoff. Running it again with the same cutoff deletes nothing.
// Completed tasks carry no pending trigger, so there is nothing to cancel.
func (s *TaskService) CleanupCompletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return s.taskRepo.DeleteCompletedBefore(ctx, cutoff)
}

// Get returns a task by id, or nil when it does not exist.
func (s *TaskService) Get(ctx context.Context, taskID uint) (*model.Task, error) {
	return s.taskRepo.GetByID(ctx, taskID)
}

// List returns the full ordered task list.
func (s *TaskService) List(ctx context.Context) ([]model.Task, error) {
	return s.taskRepo.ListAll(ctx)
}

// Watch streams snapshots of the full ordered task list until ctx is
// cancelled.
func (s *TaskService) Watch(ctx context.Context) <-chan []model.Task {
	return s.taskRepo.WatchAll(ctx)
}

func (s *TaskService) stampCompletion(task *model.Task, completed bool) {
	task.IsCompleted = completed
	if completed {
		at := s.now()
		task.CompletedAt = &at
	} else {
		task.CompletedAt = nil
	}
}

// applySideEffects keeps the scheduler in step with a freshly persisted
// state: a completed task must have no pending trigger, an open one with a
// due date gets its trigger (re)registered.
func (s *TaskService) applySideEffects(task model.Task) {
	if task.IsCompleted {
		s.scheduler.Cancel(task.ID)
		return
	}
	s.scheduler.Schedule(task)
}
