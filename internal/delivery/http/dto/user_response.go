package dto

import (
	"time"

	"github.com/google/uuid"

	"teachassist/internal/domain/user"
)

type UserResponse struct {
	ID                  uuid.UUID                    `json:"id"`
	Email               string                       `json:"email"`
	FullName            string                       `json:"full_name"`
	SchoolName          string                       `json:"school_name"`
	SubjectsTaught      []string                     `json:"subjects_taught"`
	GradeLevels         []string                     `json:"grade_levels"`
	YearsOfExperience   int                          `json:"years_of_experience"`
	TeachingStyle       string                       `json:"teaching_style"`
	Interests           []string                     `json:"interests"`
	Notifications       user.NotificationPreferences `json:"notification_preferences"`
	OnboardingCompleted bool                         `json:"onboarding_completed"`
	CreatedAt           time.Time                    `json:"created_at"`
}

func NewUserResponse(u user.User) UserResponse {
	return UserResponse{
		ID:                  u.ID,
		Email:               u.Email,
		FullName:            u.FullName,
		SchoolName:          u.SchoolName,
		SubjectsTaught:      emptyIfNil(u.SubjectsTaught),
		GradeLevels:         emptyIfNil(u.GradeLevels),
		YearsOfExperience:   u.YearsOfExperience,
		TeachingStyle:       u.TeachingStyle,
		Interests:           emptyIfNil(u.Interests),
		Notifications:       u.Notifications,
		OnboardingCompleted: u.OnboardingCompleted,
		CreatedAt:           u.CreatedAt,
	}
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
