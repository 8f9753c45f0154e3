package quiz

import (
	"errors"
	"testing"
)

const validQuestionJSON = `[
  {
    "question": "What gas do plants absorb during photosynthesis?",
    "options": ["Oxygen", "Carbon dioxide", "Nitrogen", "Hydrogen"],
    "correctAnswer": "Carbon dioxide",
    "explanation": "Plants take in carbon dioxide and release oxygen."
  }
]`

func TestParseQuestions_Plain(t *testing.T) {
	qs, err := ParseQuestions(validQuestionJSON)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(qs) != 1 {
		t.Fatalf("expected 1 question, got %d", len(qs))
	}
	if qs[0].CorrectAnswer != "Carbon dioxide" {
		t.Fatalf("unexpected correct answer: %q", qs[0].CorrectAnswer)
	}
}

func TestParseQuestions_StripsCodeFences(t *testing.T) {
	wrapped := "```json\n" + validQuestionJSON + "\n```"
	qs, err := ParseQuestions(wrapped)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(qs) != 1 {
		t.Fatalf("expected 1 question, got %d", len(qs))
	}
}

func TestParseQuestions_Invalid(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"not json", "here are your questions!"},
		{"empty array", "[]"},
		{"three options", `[{"question":"q","options":["a","b","c"],"correctAnswer":"a","explanation":"e"}]`},
		{"five options", `[{"question":"q","options":["a","b","c","d","e"],"correctAnswer":"a","explanation":"e"}]`},
		{"blank option", `[{"question":"q","options":["a","","c","d"],"correctAnswer":"a","explanation":"e"}]`},
		{"missing explanation", `[{"question":"q","options":["a","b","c","d"],"correctAnswer":"a"}]`},
		{"missing answer", `[{"question":"q","options":["a","b","c","d"],"explanation":"e"}]`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseQuestions(tc.raw); !errors.Is(err, ErrMalformed) {
				t.Fatalf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

func TestParseQuestions_OneBadRejectsAll(t *testing.T) {
	raw := `[
  {"question":"q1","options":["a","b","c","d"],"correctAnswer":"a","explanation":"e"},
  {"question":"","options":["a","b","c","d"],"correctAnswer":"a","explanation":"e"}
]`
	if _, err := ParseQuestions(raw); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestValidQuestionCount(t *testing.T) {
	for _, n := range []int{5, 10, 15, 20} {
		if !ValidQuestionCount(n) {
			t.Fatalf("expected %d to be valid", n)
		}
	}
	for _, n := range []int{0, 1, 4, 6, 25, -5} {
		if ValidQuestionCount(n) {
			t.Fatalf("expected %d to be invalid", n)
		}
	}
}
