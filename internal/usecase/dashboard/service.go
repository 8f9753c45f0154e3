package dashboard

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"teachassist/internal/domain/event"
	"teachassist/internal/repository"
)

var ErrInternal = errors.New("internal error")

const upcomingLimit = 5

// Summary is the landing-page snapshot: the next few events in start order
// plus per-collection totals and how many events slipped past their deadline.
type Summary struct {
	UpcomingEvents []event.Event `json:"upcoming_events"`
	OverdueCount   int           `json:"overdue_count"`
	EventCount     int           `json:"event_count"`
	ResourceCount  int           `json:"resource_count"`
	QuizCount      int           `json:"quiz_count"`
}

type Service struct {
	events    repository.EventRepository
	resources repository.ResourceRepository
	quizzes   repository.QuizRepository
	now       func() time.Time
}

func NewService(events repository.EventRepository, resources repository.ResourceRepository, quizzes repository.QuizRepository) *Service {
	return &Service{events: events, resources: resources, quizzes: quizzes, now: time.Now}
}

func (s *Service) Summary(ctx context.Context, userID uuid.UUID) (Summary, error) {
	now := s.now()

	upcoming, err := s.events.ListByUser(ctx, userID, repository.EventListFilter{
		IncompleteOnly: true,
		From:           &now,
		Limit:          upcomingLimit,
	})
	if err != nil {
		return Summary{}, ErrInternal
	}

	incomplete, err := s.events.ListByUser(ctx, userID, repository.EventListFilter{IncompleteOnly: true})
	if err != nil {
		return Summary{}, ErrInternal
	}
	overdue := 0
	for _, e := range incomplete {
		if e.Overdue(now) {
			overdue++
		}
	}

	eventCount, err := s.events.CountByUser(ctx, userID)
	if err != nil {
		return Summary{}, ErrInternal
	}
	resourceCount, err := s.resources.CountByUser(ctx, userID)
	if err != nil {
		return Summary{}, ErrInternal
	}
	quizCount, err := s.quizzes.CountByUser(ctx, userID)
	if err != nil {
		return Summary{}, ErrInternal
	}

	if upcoming == nil {
		upcoming = []event.Event{}
	}
	return Summary{
		UpcomingEvents: upcoming,
		OverdueCount:   overdue,
		EventCount:     eventCount,
		ResourceCount:  resourceCount,
		QuizCount:      quizCount,
	}, nil
}
