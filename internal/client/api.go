package client

import (
	"context"
	"errors"

	"vocab-quiz-service/internal/domain"
)

// ExamAPI is the remote contract the quiz flow depends on. The service
// issues opaque session ids, returns pre-randomized question sets, and
// records one score per finished session (idempotency is not guaranteed,
// so the flow never calls SubmitScore twice).
type ExamAPI interface {
	CreateSession(ctx context.Context, wordbookID int64) (string, error)
	FetchQuestions(ctx context.Context, wordbookID int64) ([]domain.Question, error)
	SubmitScore(ctx context.Context, sessionID string, score float64) error
}

// ErrNoActiveQuiz indicates a caller defect: driving the flow before Start
// succeeded or after a discard.
var ErrNoActiveQuiz = errors.New("no active quiz")

// StartupError marks a failure before any question was shown: the caller
// gets a blocking error state and no partial quiz.
type StartupError struct {
	Err error
}

func (e *StartupError) Error() string { return "quiz start failed: " + e.Err.Error() }
func (e *StartupError) Unwrap() error { return e.Err }

// ScorePersistError marks a failed finish-time score submission. The quiz
// itself stays finished and its score stays valid; the caller warns the user
// that the score may not have been recorded.
type ScorePersistError struct {
	Err error
}

func (e *ScorePersistError) Error() string { return "score submission failed: " + e.Err.Error() }
func (e *ScorePersistError) Unwrap() error { return e.Err }
