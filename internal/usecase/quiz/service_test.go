package quiz

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	quizdomain "teachassist/internal/domain/quiz"
	"teachassist/internal/infrastructure/llm"
)

const modelOutput = `[
  {"question":"What gas do plants absorb?","options":["Oxygen","Carbon dioxide","Nitrogen","Hydrogen"],"correctAnswer":"Carbon dioxide","explanation":"Photosynthesis consumes CO2."},
  {"question":"Where does photosynthesis happen?","options":["Nucleus","Mitochondria","Chloroplast","Ribosome"],"correctAnswer":"Chloroplast","explanation":"Chloroplasts hold chlorophyll."},
  {"question":"What pigment absorbs light?","options":["Melanin","Chlorophyll","Keratin","Hemoglobin"],"correctAnswer":"Chlorophyll","explanation":"Chlorophyll captures light energy."},
  {"question":"What is a product of photosynthesis?","options":["Glucose","Lactic acid","Ethanol","Urea"],"correctAnswer":"Glucose","explanation":"Plants synthesize glucose."},
  {"question":"Which light drives photosynthesis best?","options":["Green","Red and blue","Infrared","Ultraviolet"],"correctAnswer":"Red and blue","explanation":"Chlorophyll absorbs red and blue light."}
]`

type mockLLM struct {
	validateErr error
	content     string
	chatErr     error
	lastPrompt  []llm.Message
}

func (m *mockLLM) ValidateKey(context.Context) error {
	return m.validateErr
}

func (m *mockLLM) ChatCompletion(_ context.Context, messages []llm.Message, _ float64) (string, error) {
	m.lastPrompt = messages
	if m.chatErr != nil {
		return "", m.chatErr
	}
	return m.content, nil
}

type mockQuizRepo struct {
	created   []quizdomain.Quiz
	createErr error
	items     []quizdomain.Quiz
	getErr    error
}

func (m *mockQuizRepo) ListByUser(context.Context, uuid.UUID) ([]quizdomain.Quiz, error) {
	return m.items, nil
}

func (m *mockQuizRepo) GetByID(_ context.Context, id, _ uuid.UUID) (quizdomain.Quiz, error) {
	if m.getErr != nil {
		return quizdomain.Quiz{}, m.getErr
	}
	for _, q := range m.items {
		if q.ID == id {
			return q, nil
		}
	}
	return quizdomain.Quiz{}, quizdomain.ErrNotFound
}

func (m *mockQuizRepo) Create(_ context.Context, q quizdomain.Quiz) (quizdomain.Quiz, error) {
	if m.createErr != nil {
		return quizdomain.Quiz{}, m.createErr
	}
	m.created = append(m.created, q)
	return q, nil
}

func (m *mockQuizRepo) CountByUser(context.Context, uuid.UUID) (int, error) {
	return len(m.items), nil
}

func TestGenerate_Success(t *testing.T) {
	repo := &mockQuizRepo{}
	client := &mockLLM{content: modelOutput}
	svc := NewService(repo, client, nil, nil)

	result, err := svc.Generate(context.Background(), uuid.New(), GenerateInput{
		Topic:         "Photosynthesis",
		QuestionCount: 5,
		Difficulty:    quizdomain.DifficultyMedium,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !result.Persisted {
		t.Fatalf("expected quiz to be persisted")
	}
	if len(result.Quiz.Questions) != 5 {
		t.Fatalf("expected 5 questions, got %d", len(result.Quiz.Questions))
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected 1 create call, got %d", len(repo.created))
	}

	if len(client.lastPrompt) != 2 || client.lastPrompt[0].Role != "system" {
		t.Fatalf("expected system+user prompt, got %+v", client.lastPrompt)
	}
}

func TestGenerate_InstructionsReachPrompt(t *testing.T) {
	client := &mockLLM{content: modelOutput}
	svc := NewService(&mockQuizRepo{}, client, nil, nil)

	_, err := svc.Generate(context.Background(), uuid.New(), GenerateInput{
		Topic:         "Photosynthesis",
		QuestionCount: 5,
		Difficulty:    quizdomain.DifficultyEasy,
		Instructions:  "focus on the light reactions",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !strings.Contains(client.lastPrompt[1].Content, "Additional instructions: focus on the light reactions") {
		t.Fatalf("instructions missing from prompt:\n%s", client.lastPrompt[1].Content)
	}
}

func TestGenerate_InvalidInput(t *testing.T) {
	svc := NewService(&mockQuizRepo{}, &mockLLM{content: modelOutput}, nil, nil)

	cases := []GenerateInput{
		{Topic: "", QuestionCount: 5, Difficulty: quizdomain.DifficultyEasy},
		{Topic: "Photosynthesis", QuestionCount: 7, Difficulty: quizdomain.DifficultyEasy},
		{Topic: "Photosynthesis", QuestionCount: 5, Difficulty: "impossible"},
	}
	for _, in := range cases {
		if _, err := svc.Generate(context.Background(), uuid.New(), in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %+v, got %v", in, err)
		}
	}
}

func TestGenerate_KeyFailuresPropagate(t *testing.T) {
	for _, sentinel := range []error{llm.ErrMissingAPIKey, llm.ErrInvalidAPIKey, llm.ErrQuotaExceeded} {
		repo := &mockQuizRepo{}
		svc := NewService(repo, &mockLLM{validateErr: sentinel}, nil, nil)

		_, err := svc.Generate(context.Background(), uuid.New(), GenerateInput{
			Topic: "Photosynthesis", QuestionCount: 5, Difficulty: quizdomain.DifficultyEasy,
		})
		if !errors.Is(err, sentinel) {
			t.Fatalf("expected %v, got %v", sentinel, err)
		}
		if len(repo.created) != 0 {
			t.Fatalf("nothing should persist after a key failure")
		}
	}
}

func TestGenerate_MalformedOutput(t *testing.T) {
	svc := NewService(&mockQuizRepo{}, &mockLLM{content: "Sure! Here are your questions:"}, nil, nil)

	_, err := svc.Generate(context.Background(), uuid.New(), GenerateInput{
		Topic: "Photosynthesis", QuestionCount: 5, Difficulty: quizdomain.DifficultyEasy,
	})
	if !errors.Is(err, quizdomain.ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestGenerate_PersistFailureStillReturnsQuiz(t *testing.T) {
	repo := &mockQuizRepo{createErr: errors.New("db down")}
	svc := NewService(repo, &mockLLM{content: modelOutput}, nil, nil)

	result, err := svc.Generate(context.Background(), uuid.New(), GenerateInput{
		Topic: "Photosynthesis", QuestionCount: 5, Difficulty: quizdomain.DifficultyMedium,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if result.Persisted {
		t.Fatalf("expected Persisted=false")
	}
	if len(result.Quiz.Questions) != 5 {
		t.Fatalf("generated questions lost on persist failure")
	}
}

func TestGet_NotFound(t *testing.T) {
	svc := NewService(&mockQuizRepo{}, &mockLLM{}, nil, nil)

	_, err := svc.Get(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, quizdomain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDocument_RendersFilename(t *testing.T) {
	id := uuid.New()
	repo := &mockQuizRepo{items: []quizdomain.Quiz{{
		ID:    id,
		Topic: "World War II",
		Questions: []quizdomain.Question{{
			Question:      "When did the war end?",
			Options:       []string{"1943", "1944", "1945", "1946"},
			CorrectAnswer: "1945",
			Explanation:   "It ended in 1945.",
		}},
	}}}
	svc := NewService(repo, &mockLLM{}, nil, nil)

	filename, content, err := svc.Document(context.Background(), uuid.New(), id, true, quizdomain.DifficultyHard)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if filename != "World_War_II_answers.txt" {
		t.Fatalf("unexpected filename %q", filename)
	}
	if content == "" {
		t.Fatalf("empty document")
	}
}
