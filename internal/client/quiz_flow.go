package client

import (
	"context"
	"errors"

	"vocab-quiz-service/internal/domain"
)

// FinishResult is the outcome of completing a quiz: the final score (exact
// and rounded for display) and whether the service recorded it.
type FinishResult struct {
	Percent  float64
	Rounded  int
	Recorded bool
}

// QuizFlow orchestrates one quiz attempt end to end: create a session and
// fetch questions (both must succeed before any question is shown), walk the
// session one answer at a time, then persist the final score exactly once.
//
// The flow holds at most one session; Restart replaces it wholesale and is
// indistinguishable from a fresh start at the protocol level. A response
// arriving for a discarded session is dropped via a generation counter.
type QuizFlow struct {
	api   ExamAPI
	state LoadState
	quiz  *domain.QuizSession
	gen   int

	finish    *FinishResult
	finishErr error
}

func NewQuizFlow(api ExamAPI) *QuizFlow {
	return &QuizFlow{api: api}
}

// State reports where the flow is in its loading lifecycle.
func (f *QuizFlow) State() LoadState { return f.state }

// Start discards any previous session and begins a new attempt over the
// wordbook. On any failure the flow ends in LoadFailed with no session.
func (f *QuizFlow) Start(ctx context.Context, wordbookID int64) error {
	f.Discard()
	gen := f.gen
	f.state = LoadLoading

	sessionID, err := f.api.CreateSession(ctx, wordbookID)
	if f.gen != gen {
		return nil // session discarded while the call was in flight
	}
	if err != nil {
		f.state = LoadFailed
		return classifyStartErr(err)
	}

	questions, err := f.api.FetchQuestions(ctx, wordbookID)
	if f.gen != gen {
		return nil
	}
	if err != nil {
		f.state = LoadFailed
		return classifyStartErr(err)
	}

	quiz, err := domain.NewQuizSession(sessionID, questions)
	if err != nil {
		f.state = LoadFailed
		return &StartupError{Err: err}
	}

	f.quiz = quiz
	f.state = LoadReady
	return nil
}

// Restart throws the current session away and runs Start from scratch.
func (f *QuizFlow) Restart(ctx context.Context, wordbookID int64) error {
	return f.Start(ctx, wordbookID)
}

// Discard drops the in-memory session, e.g. when the user navigates away.
// Responses from calls still in flight for the old session are ignored.
func (f *QuizFlow) Discard() {
	f.gen++
	f.quiz = nil
	f.state = LoadNotStarted
	f.finish = nil
	f.finishErr = nil
}

// Current returns the question awaiting an answer.
func (f *QuizFlow) Current() (domain.Question, error) {
	if f.quiz == nil {
		return domain.Question{}, ErrNoActiveQuiz
	}
	return f.quiz.CurrentQuestion()
}

// Progress returns answered-so-far and total question counts.
func (f *QuizFlow) Progress() (int, int) {
	if f.quiz == nil {
		return 0, 0
	}
	return f.quiz.Index(), f.quiz.Len()
}

// Submit grades and records one candidate answer. Blank candidates are
// rejected before the session is touched.
func (f *QuizFlow) Submit(candidate string) (correct bool, finished bool, err error) {
	if f.quiz == nil {
		return false, false, ErrNoActiveQuiz
	}
	return f.quiz.SubmitAnswer(candidate)
}

// Finish computes the final score and persists it. The persistence call is
// made exactly once per finished session and never retried: repeat calls
// return the original outcome. A persist failure comes back as a
// ScorePersistError alongside a valid FinishResult; the session stays
// finished and cannot be replayed.
func (f *QuizFlow) Finish(ctx context.Context) (FinishResult, error) {
	if f.quiz == nil {
		return FinishResult{}, ErrNoActiveQuiz
	}
	if !f.quiz.Finished() {
		return FinishResult{}, domain.ErrQuizNotFinished
	}
	if f.finish != nil {
		return *f.finish, f.finishErr
	}

	percent, err := f.quiz.FinalScorePercent()
	if err != nil {
		return FinishResult{}, err
	}
	rounded, _ := f.quiz.RoundedScorePercent()

	gen := f.gen
	submitErr := f.api.SubmitScore(ctx, f.quiz.SessionID(), percent)
	if f.gen != gen {
		return FinishResult{}, ErrNoActiveQuiz
	}

	result := FinishResult{Percent: percent, Rounded: rounded, Recorded: submitErr == nil}
	f.finish = &result
	if submitErr != nil {
		if errors.Is(submitErr, domain.ErrNotAuthorized) {
			f.finishErr = submitErr
		} else {
			f.finishErr = &ScorePersistError{Err: submitErr}
		}
	}
	return result, f.finishErr
}

// classifyStartErr sorts an external-call failure into the caller-facing
// kinds: auth errors pass through, everything else blocks startup.
func classifyStartErr(err error) error {
	if errors.Is(err, domain.ErrNotAuthorized) {
		return err
	}
	return &StartupError{Err: err}
}
