package user

import (
	"time"

	"github.com/google/uuid"
)

type NotificationStyle string

const (
	StylePopup    NotificationStyle = "popup"
	StyleGlow     NotificationStyle = "glow"
	StyleStandard NotificationStyle = "standard"
)

func (s NotificationStyle) Valid() bool {
	switch s {
	case StylePopup, StyleGlow, StyleStandard:
		return true
	}
	return false
}

// NotificationPreferences controls the reminder poller: how many minutes
// before an event's start a reminder fires, and how the client renders it.
type NotificationPreferences struct {
	ReminderLeadMinutes int               `json:"event_reminder"`
	Style               NotificationStyle `json:"notification_style"`
}

func DefaultNotificationPreferences() NotificationPreferences {
	return NotificationPreferences{ReminderLeadMinutes: 30, Style: StylePopup}
}

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string

	FullName          string
	SchoolName        string
	SubjectsTaught    []string
	GradeLevels       []string
	YearsOfExperience int
	TeachingStyle     string
	Interests         []string

	Notifications       NotificationPreferences
	OnboardingCompleted bool

	DeletedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u User) Deleted() bool {
	return u.DeletedAt != nil
}
