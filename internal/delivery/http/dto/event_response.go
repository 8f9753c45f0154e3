package dto

import (
	"time"

	"github.com/google/uuid"

	"teachassist/internal/domain/event"
)

type EventResponse struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	Category    string     `json:"category"`
	Completed   bool       `json:"completed"`
	Overdue     bool       `json:"overdue"`
	CreatedAt   time.Time  `json:"created_at"`
}

func NewEventResponse(e event.Event, now time.Time) EventResponse {
	return EventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		Category:    string(e.Category),
		Completed:   e.Completed,
		Overdue:     e.Overdue(now),
		CreatedAt:   e.CreatedAt,
	}
}

func NewEventListResponse(events []event.Event, now time.Time) []EventResponse {
	out := make([]EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, NewEventResponse(e, now))
	}
	return out
}
