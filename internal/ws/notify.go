package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"teachassist/internal/domain/event"
	"teachassist/internal/domain/user"
)

// EventReminderMessage is the frame pushed when an event enters its reminder
// lead window. Style tells the client how to present it.
type EventReminderMessage struct {
	Type         string `json:"type"`
	EventID      string `json:"event_id"`
	Title        string `json:"title"`
	StartTime    string `json:"start_time"`
	MinutesUntil int    `json:"minutes_until"`
	Style        string `json:"notification_style"`
}

// NotifyEventReminder pushes a reminder frame to every connection of the
// event's owner. Returns how many connections received it.
func NotifyEventReminder(h *Hub, userID uuid.UUID, ev event.Event, minutesUntil int, style user.NotificationStyle) int {
	if h == nil {
		return 0
	}

	msg := EventReminderMessage{
		Type:         "event_reminder",
		EventID:      ev.ID.String(),
		Title:        ev.Title,
		StartTime:    ev.StartTime.UTC().Format(time.RFC3339),
		MinutesUntil: minutesUntil,
		Style:        string(style),
	}
	b, err := json.Marshal(msg)
	if err != nil {
		return 0
	}

	return h.SendToUser(userID, b)
}
