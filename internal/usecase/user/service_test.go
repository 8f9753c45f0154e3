package user

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	userdomain "teachassist/internal/domain/user"
)

type mockUserRepo struct {
	byID map[uuid.UUID]userdomain.User

	updated     *userdomain.User
	passwords   map[uuid.UUID]string
	softDeleted []uuid.UUID
}

func newMockUserRepo(users ...userdomain.User) *mockUserRepo {
	m := &mockUserRepo{byID: map[uuid.UUID]userdomain.User{}, passwords: map[uuid.UUID]string{}}
	for _, u := range users {
		m.byID[u.ID] = u
	}
	return m
}

func (m *mockUserRepo) CreateUser(_ context.Context, u userdomain.User) error {
	m.byID[u.ID] = u
	return nil
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id uuid.UUID) (userdomain.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return userdomain.User{}, userdomain.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetUserByEmail(_ context.Context, email string) (userdomain.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return userdomain.User{}, userdomain.ErrNotFound
}

func (m *mockUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, err := m.GetUserByEmail(context.Background(), email)
	return err == nil, nil
}

func (m *mockUserRepo) UpdateProfile(_ context.Context, u userdomain.User) error {
	if _, ok := m.byID[u.ID]; !ok {
		return userdomain.ErrNotFound
	}
	m.byID[u.ID] = u
	m.updated = &u
	return nil
}

func (m *mockUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	if _, ok := m.byID[id]; !ok {
		return userdomain.ErrNotFound
	}
	m.passwords[id] = hash
	return nil
}

func (m *mockUserRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.byID[id]; !ok {
		return userdomain.ErrNotFound
	}
	m.softDeleted = append(m.softDeleted, id)
	return nil
}

func TestCompleteOnboarding(t *testing.T) {
	u := userdomain.User{ID: uuid.New(), Email: "jo@school.edu"}
	repo := newMockUserRepo(u)
	svc := NewService(repo, nil)

	got, err := svc.CompleteOnboarding(context.Background(), u.ID, OnboardingInput{
		FullName:       "Jo Teacher",
		SchoolName:     "Central High",
		SubjectsTaught: []string{" Biology ", ""},
		GradeLevels:    []string{"9", "10"},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !got.OnboardingCompleted {
		t.Fatalf("onboarding flag not set")
	}
	if len(got.SubjectsTaught) != 1 || got.SubjectsTaught[0] != "Biology" {
		t.Fatalf("subjects not trimmed: %v", got.SubjectsTaught)
	}
	if repo.updated == nil || !repo.updated.OnboardingCompleted {
		t.Fatalf("update not persisted")
	}
}

func TestCompleteOnboarding_InvalidInput(t *testing.T) {
	u := userdomain.User{ID: uuid.New()}
	svc := NewService(newMockUserRepo(u), nil)

	cases := []OnboardingInput{
		{FullName: "", SchoolName: "Central High"},
		{FullName: "Jo", SchoolName: " "},
		{FullName: "Jo", SchoolName: "Central High", YearsOfExperience: -1},
	}
	for _, in := range cases {
		if _, err := svc.CompleteOnboarding(context.Background(), u.ID, in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %+v, got %v", in, err)
		}
	}
}

func TestUpdateSettings_Validation(t *testing.T) {
	u := userdomain.User{ID: uuid.New()}
	svc := NewService(newMockUserRepo(u), nil)

	cases := []SettingsInput{
		{FullName: "Jo", ReminderLeadMinutes: 0, NotificationStyle: userdomain.StylePopup},
		{FullName: "Jo", ReminderLeadMinutes: 30, NotificationStyle: "banner"},
		{FullName: "", ReminderLeadMinutes: 30, NotificationStyle: userdomain.StylePopup},
	}
	for _, in := range cases {
		if _, err := svc.UpdateSettings(context.Background(), u.ID, in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %+v, got %v", in, err)
		}
	}
}

func TestUpdateSettings_Success(t *testing.T) {
	u := userdomain.User{ID: uuid.New(), Email: "jo@school.edu"}
	repo := newMockUserRepo(u)
	svc := NewService(repo, nil)

	got, err := svc.UpdateSettings(context.Background(), u.ID, SettingsInput{
		FullName:            "Jo Teacher",
		ReminderLeadMinutes: 45,
		NotificationStyle:   userdomain.StyleGlow,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Notifications.ReminderLeadMinutes != 45 || got.Notifications.Style != userdomain.StyleGlow {
		t.Fatalf("preferences not applied: %+v", got.Notifications)
	}
}

func TestChangePassword(t *testing.T) {
	u := userdomain.User{ID: uuid.New()}
	repo := newMockUserRepo(u)
	svc := NewService(repo, nil)

	if err := svc.ChangePassword(context.Background(), u.ID, "short"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for short password, got %v", err)
	}
	if err := svc.ChangePassword(context.Background(), u.ID, "longenoughpassword"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if hash := repo.passwords[u.ID]; hash == "" || hash == "longenoughpassword" {
		t.Fatalf("password not hashed before store")
	}
}

func TestDeleteAccount(t *testing.T) {
	u := userdomain.User{ID: uuid.New(), Email: "jo@school.edu"}
	repo := newMockUserRepo(u)
	svc := NewService(repo, nil)

	if err := svc.DeleteAccount(context.Background(), u.ID, "wrong@school.edu"); !errors.Is(err, ErrEmailMismatch) {
		t.Fatalf("expected ErrEmailMismatch, got %v", err)
	}
	if len(repo.softDeleted) != 0 {
		t.Fatalf("delete ran despite mismatched email")
	}

	if err := svc.DeleteAccount(context.Background(), u.ID, "JO@school.edu"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(repo.softDeleted) != 1 {
		t.Fatalf("soft delete not invoked")
	}
}

func TestGetMe_StripsPasswordHash(t *testing.T) {
	u := userdomain.User{ID: uuid.New(), Email: "jo@school.edu", PasswordHash: "secret"}
	svc := NewService(newMockUserRepo(u), nil)

	got, err := svc.GetMe(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.PasswordHash != "" {
		t.Fatalf("password hash leaked")
	}
}
