package domain

import (
	"math"
	"strings"
)

// Answer is one recorded submission within a quiz session.
type Answer struct {
	Value   string
	Correct bool
}

// QuizSession walks an ordered question set exactly once. It has two states:
// active (Index < len(questions)) and finished (Index == len(questions)).
// SubmitAnswer is the sole mutator; there is no backward or skip transition.
//
// The session is owned by a single caller flow and is not safe for concurrent
// use; all transitions happen on discrete user events.
type QuizSession struct {
	sessionID string
	questions []Question
	index     int
	answers   []Answer
	score     int
}

// NewQuizSession builds a session over a non-empty, pre-shuffled question set.
func NewQuizSession(sessionID string, questions []Question) (*QuizSession, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	qs := make([]Question, len(questions))
	copy(qs, questions)
	return &QuizSession{
		sessionID: sessionID,
		questions: qs,
		answers:   make([]Answer, 0, len(qs)),
	}, nil
}

// SessionID returns the opaque exam session identifier the quiz runs under.
func (s *QuizSession) SessionID() string { return s.sessionID }

// Len returns the number of questions in the session.
func (s *QuizSession) Len() int { return len(s.questions) }

// Index returns how many answers have been accepted so far.
func (s *QuizSession) Index() int { return s.index }

// Score returns the running count of correct answers.
func (s *QuizSession) Score() int { return s.score }

// Finished reports whether every question has been answered.
func (s *QuizSession) Finished() bool { return s.index == len(s.questions) }

// Answers returns a copy of the recorded submissions in question order.
func (s *QuizSession) Answers() []Answer {
	out := make([]Answer, len(s.answers))
	copy(out, s.answers)
	return out
}

// CurrentQuestion returns the question awaiting an answer.
func (s *QuizSession) CurrentQuestion() (Question, error) {
	if s.Finished() {
		return Question{}, ErrQuizFinished
	}
	return s.questions[s.index], nil
}

// SubmitAnswer grades the candidate against the current question, records the
// verdict, and advances. It returns the verdict and whether the session is now
// finished. The transition is atomic: nothing mutates unless grading succeeds.
func (s *QuizSession) SubmitAnswer(candidate string) (correct bool, finished bool, err error) {
	if s.Finished() {
		return false, true, ErrQuizFinished
	}
	if strings.TrimSpace(candidate) == "" {
		return false, false, ErrEmptyAnswer
	}
	correct, err = s.questions[s.index].Grade(candidate)
	if err != nil {
		return false, false, err
	}
	s.answers = append(s.answers, Answer{Value: candidate, Correct: correct})
	if correct {
		s.score++
	}
	s.index++
	return correct, s.Finished(), nil
}

// FinalScorePercent returns the score as a 0-100 float once the session is
// finished. Callers persist the float and round only for display.
func (s *QuizSession) FinalScorePercent() (float64, error) {
	if !s.Finished() {
		return 0, ErrQuizNotFinished
	}
	return 100 * float64(s.score) / float64(len(s.questions)), nil
}

// RoundedScorePercent is the display form of FinalScorePercent.
func (s *QuizSession) RoundedScorePercent() (int, error) {
	pct, err := s.FinalScorePercent()
	if err != nil {
		return 0, err
	}
	return int(math.Round(pct)), nil
}
