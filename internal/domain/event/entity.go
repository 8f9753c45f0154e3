package event

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("event not found")

type Category string

const (
	CategoryClass   Category = "class"
	CategoryLab     Category = "lab"
	CategoryMeeting Category = "meeting"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryClass, CategoryLab, CategoryMeeting:
		return true
	}
	return false
}

type Event struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Title       string
	Description string
	StartTime   time.Time
	EndTime     *time.Time
	Category    Category
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Deadline is the moment after which the event counts as overdue: the end
// time when one is set, otherwise the start time.
func (e Event) Deadline() time.Time {
	if e.EndTime != nil {
		return *e.EndTime
	}
	return e.StartTime
}

func (e Event) Overdue(now time.Time) bool {
	if e.Completed {
		return false
	}
	return e.Deadline().Before(now)
}

// MinutesUntilStart truncates toward zero, matching the minute count shown in
// reminder messages.
func (e Event) MinutesUntilStart(now time.Time) int {
	return int(e.StartTime.Sub(now) / time.Minute)
}

// ShouldRemind reports whether a reminder fires on this evaluation pass: the
// event is still in the future, not completed, and starts within leadMinutes.
func (e Event) ShouldRemind(now time.Time, leadMinutes int) bool {
	if e.Completed {
		return false
	}
	if !now.Before(e.StartTime) {
		return false
	}
	return e.MinutesUntilStart(now) <= leadMinutes
}
