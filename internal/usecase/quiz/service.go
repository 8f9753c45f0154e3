package quiz

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"teachassist/internal/domain/quiz"
	"teachassist/internal/infrastructure/cache"
	"teachassist/internal/infrastructure/llm"
	"teachassist/internal/repository"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
)

const chatTemperature = 0.7

const systemPrompt = "You are an experienced teacher creating educational quiz questions."

type GenerateInput struct {
	Topic         string
	QuestionCount int
	Difficulty    quiz.Difficulty

	// Instructions is free-form guidance appended to the prompt, e.g.
	// "focus on the interwar period".
	Instructions string
}

// GenerateResult carries the quiz even when the persist step failed, so the
// caller can still hand the generated questions back for download. Persisted
// tells the two outcomes apart.
type GenerateResult struct {
	Quiz      quiz.Quiz
	Persisted bool
}

type Service struct {
	quizzes repository.QuizRepository
	llm     llm.Client
	cache   *cache.Redis
	logger  *log.Logger
	now     func() time.Time
}

func NewService(quizzes repository.QuizRepository, client llm.Client, listCache *cache.Redis, logger *log.Logger) *Service {
	return &Service{
		quizzes: quizzes,
		llm:     client,
		cache:   listCache,
		logger:  logger,
		now:     time.Now,
	}
}

// Generate runs the full pipeline: credential preflight, model request,
// response parsing, then persistence. Provider and parse failures abort with
// their sentinel intact so the handler can map each to its own message; a
// persistence failure alone does not discard the generated quiz.
func (s *Service) Generate(ctx context.Context, userID uuid.UUID, in GenerateInput) (GenerateResult, error) {
	topic := strings.TrimSpace(in.Topic)
	if topic == "" || !quiz.ValidQuestionCount(in.QuestionCount) || !in.Difficulty.Valid() {
		return GenerateResult{}, ErrInvalidInput
	}

	if err := s.llm.ValidateKey(ctx); err != nil {
		return GenerateResult{}, err
	}

	raw, err := s.llm.ChatCompletion(ctx, buildMessages(topic, in.QuestionCount, in.Difficulty, strings.TrimSpace(in.Instructions)), chatTemperature)
	if err != nil {
		return GenerateResult{}, err
	}

	questions, err := quiz.ParseQuestions(raw)
	if err != nil {
		return GenerateResult{}, err
	}
	if len(questions) != in.QuestionCount && s.logger != nil {
		s.logger.Printf("[Quiz] model returned %d questions, requested %d | topic=%q", len(questions), in.QuestionCount, topic)
	}

	q := quiz.Quiz{
		ID:        uuid.New(),
		UserID:    userID,
		Topic:     topic,
		Questions: questions,
		CreatedAt: s.now().UTC(),
	}

	created, err := s.quizzes.Create(ctx, q)
	if err != nil {
		if s.logger != nil {
			s.logger.Printf("[Quiz] persist failed, returning unsaved quiz | user=%s topic=%q err=%v", userID, topic, err)
		}
		return GenerateResult{Quiz: q, Persisted: false}, nil
	}

	_ = s.cache.InvalidateUserQuizzes(ctx, userID)
	return GenerateResult{Quiz: created, Persisted: true}, nil
}

// List returns the user's saved quizzes, newest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]quiz.Quiz, error) {
	key := cache.QuizListKey(userID)

	var out []quiz.Quiz
	if hit, err := s.cache.GetJSON(ctx, key, &out); err == nil && hit {
		return out, nil
	}

	out, err := s.quizzes.ListByUser(ctx, userID)
	if err != nil {
		return nil, ErrInternal
	}
	_ = s.cache.SetJSON(ctx, key, out)
	return out, nil
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (quiz.Quiz, error) {
	q, err := s.quizzes.GetByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, quiz.ErrNotFound) {
			return quiz.Quiz{}, err
		}
		return quiz.Quiz{}, ErrInternal
	}
	return q, nil
}

// Document renders a saved quiz as a plain-text download. includeAnswers
// selects the answer-key variant; difficulty is a render-time label only.
func (s *Service) Document(ctx context.Context, userID, id uuid.UUID, includeAnswers bool, difficulty quiz.Difficulty) (string, string, error) {
	q, err := s.Get(ctx, userID, id)
	if err != nil {
		return "", "", err
	}

	content := q.Document(quiz.DocumentOptions{
		IncludeHeader:  true,
		IncludeFooter:  true,
		IncludeAnswers: includeAnswers,
		Difficulty:     difficulty,
	})
	return quiz.DocumentFilename(q.Topic, includeAnswers), content, nil
}

func buildMessages(topic string, count int, difficulty quiz.Difficulty, instructions string) []llm.Message {
	user := fmt.Sprintf(`Generate %d multiple choice questions about "%s" at %s difficulty level.

Format your response as a JSON array where each question object has:
- "question": the question text
- "options": an array of exactly 4 answer choices
- "correctAnswer": the correct answer, matching one of the options exactly
- "explanation": a brief explanation of why the answer is correct

Return ONLY the JSON array with no additional text.`, count, topic, difficulty)
	if instructions != "" {
		user += "\n\nAdditional instructions: " + instructions
	}

	return []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: user},
	}
}
