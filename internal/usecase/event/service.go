package event

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"teachassist/internal/domain/event"
	"teachassist/internal/infrastructure/cache"
	"teachassist/internal/repository"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
)

type ListParams struct {
	IncompleteOnly bool
	From           *time.Time
	To             *time.Time
	Limit          int
}

type CreateInput struct {
	Title       string
	Description string
	StartTime   time.Time
	EndTime     *time.Time
	Category    event.Category
}

type UpdateInput struct {
	Title       string
	Description string
	StartTime   time.Time
	EndTime     *time.Time
	Category    event.Category
}

type Service struct {
	events repository.EventRepository
	cache  *cache.Redis
}

func NewService(events repository.EventRepository, listCache *cache.Redis) *Service {
	return &Service{events: events, cache: listCache}
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, p ListParams) ([]event.Event, error) {
	if p.Limit < 0 {
		return nil, ErrInvalidInput
	}

	filter := repository.EventListFilter{
		IncompleteOnly: p.IncompleteOnly,
		From:           p.From,
		To:             p.To,
		Limit:          p.Limit,
	}

	// Time-window reads (reminders, dashboards) key on the current clock and
	// would churn the cache, so only plain list views are cached.
	cacheable := p.From == nil && p.To == nil
	key := cache.EventListKey(userID, fmt.Sprintf("inc=%t:limit=%d", p.IncompleteOnly, p.Limit))

	if cacheable {
		var cached []event.Event
		if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit {
			return cached, nil
		}
	}

	events, err := s.events.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, ErrInternal
	}

	if cacheable {
		_ = s.cache.SetJSON(ctx, key, events)
	}
	return events, nil
}

// Upcoming returns events starting at or after now, soonest first.
func (s *Service) Upcoming(ctx context.Context, userID uuid.UUID, now time.Time, limit int) ([]event.Event, error) {
	return s.List(ctx, userID, ListParams{From: &now, Limit: limit})
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (event.Event, error) {
	e, err := s.events.GetByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, event.ErrNotFound) {
			return event.Event{}, err
		}
		return event.Event{}, ErrInternal
	}
	return e, nil
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, in CreateInput) (event.Event, error) {
	if err := validateInput(in.Title, in.StartTime, in.EndTime, in.Category); err != nil {
		return event.Event{}, err
	}

	e := event.Event{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		Category:    in.Category,
	}

	created, err := s.events.Create(ctx, e)
	if err != nil {
		return event.Event{}, ErrInternal
	}

	_ = s.cache.InvalidateUserEvents(ctx, userID)
	return created, nil
}

func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, in UpdateInput) (event.Event, error) {
	if err := validateInput(in.Title, in.StartTime, in.EndTime, in.Category); err != nil {
		return event.Event{}, err
	}

	e := event.Event{
		ID:          id,
		UserID:      userID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		Category:    in.Category,
	}

	updated, err := s.events.Update(ctx, e)
	if err != nil {
		if errors.Is(err, event.ErrNotFound) {
			return event.Event{}, err
		}
		return event.Event{}, ErrInternal
	}

	_ = s.cache.InvalidateUserEvents(ctx, userID)
	return updated, nil
}

func (s *Service) Complete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.events.MarkCompleted(ctx, id, userID); err != nil {
		if errors.Is(err, event.ErrNotFound) {
			return err
		}
		return ErrInternal
	}
	_ = s.cache.InvalidateUserEvents(ctx, userID)
	return nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.events.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, event.ErrNotFound) {
			return err
		}
		return ErrInternal
	}
	_ = s.cache.InvalidateUserEvents(ctx, userID)
	return nil
}

func validateInput(title string, start time.Time, end *time.Time, category event.Category) error {
	if strings.TrimSpace(title) == "" {
		return ErrInvalidInput
	}
	if start.IsZero() {
		return ErrInvalidInput
	}
	if end != nil && end.Before(start) {
		return ErrInvalidInput
	}
	if !category.Valid() {
		return ErrInvalidInput
	}
	return nil
}
