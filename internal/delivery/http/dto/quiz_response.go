package dto

import (
	"time"

	"github.com/google/uuid"

	"teachassist/internal/domain/quiz"
)

type QuizSummaryResponse struct {
	ID            uuid.UUID `json:"id"`
	Topic         string    `json:"topic"`
	QuestionCount int       `json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
}

type QuizResponse struct {
	QuizSummaryResponse
	Questions []quiz.Question `json:"questions"`
}

type QuizDocumentResponse struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// GeneratedQuizResponse flags a quiz that came back from the model but could
// not be saved, and carries both renderings so the client can still offer the
// downloads in that case.
type GeneratedQuizResponse struct {
	QuizResponse
	Saved     bool                 `json:"saved"`
	Document  QuizDocumentResponse `json:"document"`
	AnswerKey QuizDocumentResponse `json:"answer_key"`
}

func NewQuizSummaryResponse(q quiz.Quiz) QuizSummaryResponse {
	return QuizSummaryResponse{
		ID:            q.ID,
		Topic:         q.Topic,
		QuestionCount: len(q.Questions),
		CreatedAt:     q.CreatedAt,
	}
}

func NewQuizResponse(q quiz.Quiz) QuizResponse {
	return QuizResponse{
		QuizSummaryResponse: NewQuizSummaryResponse(q),
		Questions:           q.Questions,
	}
}

func NewGeneratedQuizResponse(q quiz.Quiz, saved bool, opts quiz.DocumentOptions) GeneratedQuizResponse {
	student := opts
	student.IncludeAnswers = false
	key := opts
	key.IncludeAnswers = true

	return GeneratedQuizResponse{
		QuizResponse: NewQuizResponse(q),
		Saved:        saved,
		Document: QuizDocumentResponse{
			Filename: quiz.DocumentFilename(q.Topic, false),
			Content:  q.Document(student),
		},
		AnswerKey: QuizDocumentResponse{
			Filename: quiz.DocumentFilename(q.Topic, true),
			Content:  q.Document(key),
		},
	}
}

func NewQuizListResponse(quizzes []quiz.Quiz) []QuizSummaryResponse {
	out := make([]QuizSummaryResponse, 0, len(quizzes))
	for _, q := range quizzes {
		out = append(out, NewQuizSummaryResponse(q))
	}
	return out
}
