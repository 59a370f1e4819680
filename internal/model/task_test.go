package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPriorityCodesAreStable(t *testing.T) {
	assert.Equal(t, 0, PriorityHigh.Code())
	assert.Equal(t, 1, PriorityMedium.Code())
	assert.Equal(t, 2, PriorityLow.Code())

	for _, p := range []Priority{PriorityHigh, PriorityMedium, PriorityLow} {
		assert.Equal(t, p, PriorityFromCode(p.Code()))
	}
}

func TestPriorityFromCodeDefaultsOutOfRange(t *testing.T) {
	assert.Equal(t, PriorityMedium, PriorityFromCode(-1))
	assert.Equal(t, PriorityMedium, PriorityFromCode(99))
}

func TestStatusCodesAreStable(t *testing.T) {
	assert.Equal(t, 0, StatusTodo.Code())
	assert.Equal(t, 1, StatusInProgress.Code())
	assert.Equal(t, 2, StatusDone.Code())

	for _, s := range []Status{StatusTodo, StatusInProgress, StatusDone} {
		assert.Equal(t, s, StatusFromCode(s.Code()))
	}
}

func TestStatusFromCodeDefaultsOutOfRange(t *testing.T) {
	assert.Equal(t, StatusTodo, StatusFromCode(-1))
	assert.Equal(t, StatusTodo, StatusFromCode(42))
}

func TestRecurringCodesAreStable(t *testing.T) {
	for _, r := range []RecurringType{RecurringNone, RecurringDaily, RecurringWeekly, RecurringMonthly} {
		assert.Equal(t, r, RecurringFromCode(r.Code()))
	}
	assert.Equal(t, RecurringNone, RecurringFromCode(7))
}

func TestIsOverdue(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.False(t, Task{}.IsOverdue(now), "no due date is never overdue")
	assert.True(t, Task{DueDate: &past}.IsOverdue(now))
	assert.False(t, Task{DueDate: &future}.IsOverdue(now))
	assert.False(t, Task{DueDate: &past, IsCompleted: true}.IsOverdue(now),
		"a completed task is not overdue")
}
