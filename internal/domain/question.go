package domain

import "strings"

// QuestionKind is the closed set of question variants. The grading rule
// switches exhaustively over it so a new variant cannot be added without
// touching Grade.
type QuestionKind string

const (
	KindMultipleChoice QuestionKind = "multiple_choice"
	KindWritten        QuestionKind = "written"
)

// Question is one generated quiz item. Choices is populated only for
// multiple-choice questions and contains Answer exactly once, already
// shuffled by the generator; consumers must not reorder it.
type Question struct {
	Kind    QuestionKind `json:"type"`
	Prompt  string       `json:"question"`
	Answer  string       `json:"answer"`
	Choices []string     `json:"choices,omitempty"`
}

// Grade returns the correctness verdict for a candidate answer.
//
// Multiple choice compares exactly: candidates are constrained to the option
// strings, which are drawn verbatim from source data. Written answers are
// free text and tolerate surrounding whitespace and letter case.
func (q Question) Grade(candidate string) (bool, error) {
	switch q.Kind {
	case KindMultipleChoice:
		return candidate == q.Answer, nil
	case KindWritten:
		return normalizeAnswer(candidate) == normalizeAnswer(q.Answer), nil
	default:
		return false, ErrUnknownQuestionKind
	}
}

func normalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
