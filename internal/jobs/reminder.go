package jobs

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"teachassist/internal/domain/user"
	"teachassist/internal/repository"
	"teachassist/internal/ws"
)

// ReminderJob wakes on a fixed interval, looks at every user with a live
// websocket connection, and pushes a reminder for each incomplete event whose
// start falls inside that user's lead window. The job keeps no delivery
// state; an event still inside its window on the next tick fires again.
type ReminderJob struct {
	users    user.Repository
	events   repository.EventRepository
	hub      *ws.Hub
	interval time.Duration
	timeout  time.Duration
	logger   *log.Logger
	now      func() time.Time
}

func NewReminderJob(users user.Repository, events repository.EventRepository, hub *ws.Hub, interval, timeout time.Duration, logger *log.Logger) *ReminderJob {
	if interval <= 0 {
		interval = time.Minute
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ReminderJob{
		users:    users,
		events:   events,
		hub:      hub,
		interval: interval,
		timeout:  timeout,
		logger:   logger,
		now:      time.Now,
	}
}

// Start blocks until ctx is cancelled.
func (j *ReminderJob) Start(ctx context.Context) {
	if j.logger != nil {
		j.logger.Printf("[Reminder] job started | interval=%s", j.interval)
	}

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if j.logger != nil {
				j.logger.Printf("[Reminder] job stopped")
			}
			return
		case <-ticker.C:
			tickCtx, cancel := context.WithTimeout(ctx, j.timeout)
			j.tick(tickCtx)
			cancel()
		}
	}
}

func (j *ReminderJob) tick(ctx context.Context) {
	userIDs := j.hub.ConnectedUsers()
	if len(userIDs) == 0 {
		return
	}

	now := j.now()
	sent := 0
	for _, userID := range userIDs {
		if ctx.Err() != nil {
			return
		}
		sent += j.remindUser(ctx, userID, now)
	}

	if sent > 0 && j.logger != nil {
		j.logger.Printf("[Reminder] tick | users=%d reminders=%d", len(userIDs), sent)
	}
}

func (j *ReminderJob) remindUser(ctx context.Context, userID uuid.UUID, now time.Time) int {
	u, err := j.users.GetUserByID(ctx, userID)
	if err != nil {
		return 0
	}

	lead := u.Notifications.ReminderLeadMinutes
	if lead <= 0 {
		lead = user.DefaultNotificationPreferences().ReminderLeadMinutes
	}

	to := now.Add(time.Duration(lead) * time.Minute)
	events, err := j.events.ListByUser(ctx, userID, repository.EventListFilter{
		IncompleteOnly: true,
		From:           &now,
		To:             &to,
	})
	if err != nil {
		if j.logger != nil {
			j.logger.Printf("[Reminder] event lookup failed | user=%s error=%v", userID, err)
		}
		return 0
	}

	sent := 0
	for _, ev := range events {
		if !ev.ShouldRemind(now, lead) {
			continue
		}
		sent += ws.NotifyEventReminder(j.hub, userID, ev, ev.MinutesUntilStart(now), u.Notifications.Style)
	}
	return sent
}
