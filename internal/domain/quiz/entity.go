package quiz

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("quiz not found")
	ErrMalformed = errors.New("malformed quiz content")
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// ValidQuestionCount restricts generation requests to the supported sizes.
func ValidQuestionCount(n int) bool {
	switch n {
	case 5, 10, 15, 20:
		return true
	}
	return false
}

// Question field names mirror the JSON shape the model is asked to produce,
// which is also how rows are stored in the questions jsonb column.
type Question struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

type Quiz struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Topic     string
	Questions []Question
	CreatedAt time.Time
}

var codeFenceRe = regexp.MustCompile("```(?:json)?\n?")

// ParseQuestions turns raw model output into validated questions. Markdown
// code fences are tolerated and stripped. A single invalid element rejects
// the whole batch; there is no partial acceptance.
func ParseQuestions(raw string) ([]Question, error) {
	clean := strings.TrimSpace(codeFenceRe.ReplaceAllString(raw, ""))
	if clean == "" {
		return nil, fmt.Errorf("%w: empty content", ErrMalformed)
	}

	var questions []Question
	if err := json.Unmarshal([]byte(clean), &questions); err != nil {
		return nil, fmt.Errorf("%w: expected a JSON array of questions: %v", ErrMalformed, err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: no questions returned", ErrMalformed)
	}

	for i, q := range questions {
		if err := validateQuestion(q); err != nil {
			return nil, fmt.Errorf("%w: invalid question at index %d: %v", ErrMalformed, i, err)
		}
	}
	return questions, nil
}

func validateQuestion(q Question) error {
	if strings.TrimSpace(q.Question) == "" {
		return errors.New("missing question text")
	}
	if len(q.Options) != 4 {
		return fmt.Errorf("expected 4 options, got %d", len(q.Options))
	}
	for _, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return errors.New("empty option")
		}
	}
	if strings.TrimSpace(q.CorrectAnswer) == "" {
		return errors.New("missing correct answer")
	}
	if strings.TrimSpace(q.Explanation) == "" {
		return errors.New("missing explanation")
	}
	return nil
}
