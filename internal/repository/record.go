package repository

import (
	"time"

	"taskquest/internal/model"
)

// taskRecord is the persisted shape of a task: enum fields as stable integer
// codes, timestamps as epoch milliseconds interpreted in the local zone at
// read time. The nullable category reference is cleared (never cascaded) when
// its category goes away.
type taskRecord struct {
	ID            uint   `gorm:"primaryKey"`
	Title         string `gorm:"not null"`
	Description   string
	Notes         string
	Priority      int    `gorm:"default:1"`
	Status        int    `gorm:"default:0"`
	CategoryID    *uint  `gorm:"index"`
	DueDate       *int64
	ReminderTime  *int64
	RecurringType int    `gorm:"default:0"`
	IsCompleted   bool   `gorm:"default:false"`
	CompletedAt   *int64
	CreatedAt     int64  `gorm:"autoCreateTime:false"` // epoch millis, never gorm's second-resolution auto value
}

func (taskRecord) TableName() string { return "tasks" }

// categoryRecord is the persisted shape of a category.
type categoryRecord struct {
	ID       uint   `gorm:"primaryKey"`
	Name     string `gorm:"not null"`
	ColorHex string
	IconName string
}

func (categoryRecord) TableName() string { return "categories" }

// epochMillis converts a time to the stored epoch-milli representation.
func epochMillis(t time.Time) int64 { return t.UnixMilli() }

// fromMillis interprets a stored epoch-milli value in the local zone.
func fromMillis(ms int64) time.Time { return time.UnixMilli(ms).Local() }

func optionalMillis(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := epochMillis(*t)
	return &ms
}

func optionalTime(ms *int64) *time.Time {
	if ms == nil {
		return nil
	}
	t := fromMillis(*ms)
	return &t
}

func toTaskRecord(t model.Task) taskRecord {
	return taskRecord{
		ID:            t.ID,
		Title:         t.Title,
		Description:   t.Description,
		Notes:         t.Notes,
		Priority:      t.Priority.Code(),
		Status:        t.Status.Code(),
		CategoryID:    t.CategoryID,
		DueDate:       optionalMillis(t.DueDate),
		ReminderTime:  optionalMillis(t.ReminderTime),
		RecurringType: t.RecurringType.Code(),
		IsCompleted:   t.IsCompleted,
		CompletedAt:   optionalMillis(t.CompletedAt),
		CreatedAt:     epochMillis(t.CreatedAt),
	}
}

func toTask(r taskRecord) model.Task {
	return model.Task{
		ID:            r.ID,
		Title:         r.Title,
		Description:   r.Description,
		Notes:         r.Notes,
		Priority:      model.PriorityFromCode(r.Priority),
		Status:        model.StatusFromCode(r.Status),
		CategoryID:    r.CategoryID,
		DueDate:       optionalTime(r.DueDate),
		ReminderTime:  optionalTime(r.ReminderTime),
		RecurringType: model.RecurringFromCode(r.RecurringType),
		IsCompleted:   r.IsCompleted,
		CompletedAt:   optionalTime(r.CompletedAt),
		CreatedAt:     fromMillis(r.CreatedAt),
	}
}

func toTasks(records []taskRecord) []model.Task {
	tasks := make([]model.Task, 0, len(records))
	for _, r := range records {
		tasks = append(tasks, toTask(r))
	}
	return tasks
}

func toCategoryRecord(c model.Category) categoryRecord {
	return categoryRecord{
		ID:       c.ID,
		Name:     c.Name,
		ColorHex: c.ColorHex,
		IconName: c.IconName,
	}
}

func toCategory(r categoryRecord) model.Category {
	return model.Category{
		ID:       r.ID,
		Name:     r.Name,
		ColorHex: r.ColorHex,
		IconName: r.IconName,
	}
}
