package quiz

import (
	"fmt"
	"regexp"
	"strings"
)

// DocumentOptions selects the rendering of a quiz as a plain-text document.
// Header and footer toggle independently; IncludeAnswers switches between the
// student version and the answer key.
type DocumentOptions struct {
	IncludeHeader  bool
	IncludeFooter  bool
	IncludeAnswers bool
	Difficulty     Difficulty
}

const (
	headerRule = 50
	answerRule = 40
)

// Document renders the quiz deterministically: identical input always yields
// byte-identical output.
func (q Quiz) Document(opts DocumentOptions) string {
	var lines []string

	if opts.IncludeHeader {
		lines = append(lines,
			strings.Repeat("═", headerRule),
			strings.Repeat(" ", 20)+"QUIZ",
			strings.Repeat("═", headerRule),
			fmt.Sprintf("Topic: %s", q.Topic),
			fmt.Sprintf("Difficulty Level: %s", titleCase(string(opts.Difficulty))),
			fmt.Sprintf("Total Questions: %d", len(q.Questions)),
			strings.Repeat("═", headerRule),
			"",
		)
	}

	for i, question := range q.Questions {
		lines = append(lines,
			fmt.Sprintf("Question %d:", i+1),
			question.Question,
			"",
		)
		for j, opt := range question.Options {
			lines = append(lines, fmt.Sprintf("  %c. %s", 'A'+j, opt))
		}

		if opts.IncludeAnswers {
			lines = append(lines,
				"",
				strings.Repeat("─", answerRule),
				fmt.Sprintf("Correct Answer: %s", question.CorrectAnswer),
				"",
				"Explanation:",
				question.Explanation,
				strings.Repeat("─", answerRule),
			)
		}

		lines = append(lines, "\n")
	}

	if opts.IncludeFooter {
		lines = append(lines, strings.Repeat("═", headerRule))
		if opts.IncludeAnswers {
			lines = append(lines, "End of Answer Key")
		} else {
			lines = append(lines, "Good luck!")
		}
		lines = append(lines, strings.Repeat("═", headerRule))
	}

	return strings.Join(lines, "\n")
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// DocumentFilename derives a download name from the topic, e.g.
// "World War II" -> "World_War_II_answers.txt".
func DocumentFilename(topic string, includeAnswers bool) string {
	kind := "questions"
	if includeAnswers {
		kind = "answers"
	}
	return whitespaceRe.ReplaceAllString(topic, "_") + "_" + kind + ".txt"
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
