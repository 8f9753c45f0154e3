package user

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"teachassist/internal/domain/user"
	"teachassist/internal/infrastructure/storage"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrEmailMismatch = errors.New("confirmation email does not match")
	ErrInternal      = errors.New("internal error")
)

// OnboardingInput is the profile-setup form. Completing it flips the
// onboarding flag and unlocks the rest of the authenticated surface.
type OnboardingInput struct {
	FullName          string
	SchoolName        string
	SubjectsTaught    []string
	GradeLevels       []string
	YearsOfExperience int
	TeachingStyle     string
	Interests         []string
}

// SettingsInput is the settings form: same profile fields plus notification
// preferences.
type SettingsInput struct {
	FullName          string
	SchoolName        string
	SubjectsTaught    []string
	GradeLevels       []string
	YearsOfExperience int
	TeachingStyle     string
	Interests         []string

	ReminderLeadMinutes int
	NotificationStyle   user.NotificationStyle
}

type Service struct {
	users user.Repository
	store storage.ObjectStore
}

func NewService(users user.Repository, store storage.ObjectStore) *Service {
	return &Service{users: users, store: store}
}

func (s *Service) GetMe(ctx context.Context, userID uuid.UUID) (user.User, error) {
	usr, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, err
		}
		return user.User{}, ErrInternal
	}
	return sanitizeUser(usr), nil
}

func (s *Service) CompleteOnboarding(ctx context.Context, userID uuid.UUID, in OnboardingInput) (user.User, error) {
	if strings.TrimSpace(in.FullName) == "" || strings.TrimSpace(in.SchoolName) == "" {
		return user.User{}, ErrInvalidInput
	}
	if in.YearsOfExperience < 0 {
		return user.User{}, ErrInvalidInput
	}

	usr, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, err
		}
		return user.User{}, ErrInternal
	}

	usr.FullName = strings.TrimSpace(in.FullName)
	usr.SchoolName = strings.TrimSpace(in.SchoolName)
	usr.SubjectsTaught = trimAll(in.SubjectsTaught)
	usr.GradeLevels = trimAll(in.GradeLevels)
	usr.YearsOfExperience = in.YearsOfExperience
	usr.TeachingStyle = strings.TrimSpace(in.TeachingStyle)
	usr.Interests = trimAll(in.Interests)
	usr.OnboardingCompleted = true

	if err := s.users.UpdateProfile(ctx, usr); err != nil {
		return user.User{}, ErrInternal
	}
	return sanitizeUser(usr), nil
}

func (s *Service) UpdateSettings(ctx context.Context, userID uuid.UUID, in SettingsInput) (user.User, error) {
	if strings.TrimSpace(in.FullName) == "" {
		return user.User{}, ErrInvalidInput
	}
	if in.YearsOfExperience < 0 || in.ReminderLeadMinutes <= 0 {
		return user.User{}, ErrInvalidInput
	}
	if !in.NotificationStyle.Valid() {
		return user.User{}, ErrInvalidInput
	}

	usr, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, err
		}
		return user.User{}, ErrInternal
	}

	usr.FullName = strings.TrimSpace(in.FullName)
	usr.SchoolName = strings.TrimSpace(in.SchoolName)
	usr.SubjectsTaught = trimAll(in.SubjectsTaught)
	usr.GradeLevels = trimAll(in.GradeLevels)
	usr.YearsOfExperience = in.YearsOfExperience
	usr.TeachingStyle = strings.TrimSpace(in.TeachingStyle)
	usr.Interests = trimAll(in.Interests)
	usr.Notifications = user.NotificationPreferences{
		ReminderLeadMinutes: in.ReminderLeadMinutes,
		Style:               in.NotificationStyle,
	}

	if err := s.users.UpdateProfile(ctx, usr); err != nil {
		return user.User{}, ErrInternal
	}
	return sanitizeUser(usr), nil
}

func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, newPassword string) error {
	if len(strings.TrimSpace(newPassword)) < 8 {
		return ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrInternal
	}

	if err := s.users.UpdatePassword(ctx, userID, string(hash)); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return err
		}
		return ErrInternal
	}
	return nil
}

// DeleteAccount requires the account email typed back as confirmation, then
// removes the profile data, the user's stored files and marks the identity
// deleted.
func (s *Service) DeleteAccount(ctx context.Context, userID uuid.UUID, confirmEmail string) error {
	usr, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return err
		}
		return ErrInternal
	}

	if !strings.EqualFold(strings.TrimSpace(confirmEmail), usr.Email) {
		return ErrEmailMismatch
	}

	if err := s.users.SoftDelete(ctx, userID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return err
		}
		return ErrInternal
	}

	if s.store != nil {
		if err := s.store.DeleteUserObjects(ctx, userID); err != nil {
			return ErrInternal
		}
	}
	return nil
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func sanitizeUser(u user.User) user.User {
	u.PasswordHash = ""
	return u
}
