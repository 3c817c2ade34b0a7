package client_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"vocab-quiz-service/internal/client"
	"vocab-quiz-service/internal/domain"
)

// fakeAPI is a scriptable ExamAPI standing in for the platform service.
type fakeAPI struct {
	nextSession  int
	questions    []domain.Question
	createErr    error
	fetchErr     error
	submitErr    error
	submitted    []submittedScore
	createCalled int
}

type submittedScore struct {
	sessionID string
	score     float64
}

func (f *fakeAPI) CreateSession(_ context.Context, _ int64) (string, error) {
	f.createCalled++
	if f.createErr != nil {
		return "", f.createErr
	}
	f.nextSession++
	return fmt.Sprintf("session-%d", f.nextSession), nil
}

func (f *fakeAPI) FetchQuestions(_ context.Context, _ int64) ([]domain.Question, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.questions, nil
}

func (f *fakeAPI) SubmitScore(_ context.Context, sessionID string, score float64) error {
	f.submitted = append(f.submitted, submittedScore{sessionID: sessionID, score: score})
	return f.submitErr
}

func mcQuestions(n int) []domain.Question {
	qs := make([]domain.Question, 0, n)
	for i := 0; i < n; i++ {
		answer := fmt.Sprintf("right-%d", i)
		qs = append(qs, domain.Question{
			Kind:    domain.KindMultipleChoice,
			Prompt:  fmt.Sprintf("q%d", i),
			Answer:  answer,
			Choices: []string{answer, "wrong-a", "wrong-b", "wrong-c"},
		})
	}
	return qs
}

func TestStartRequiresBothCallsToSucceed(t *testing.T) {
	ctx := context.Background()

	api := &fakeAPI{createErr: errors.New("boom")}
	flow := client.NewQuizFlow(api)
	err := flow.Start(ctx, 1)
	var startErr *client.StartupError
	if !errors.As(err, &startErr) {
		t.Fatalf("expected StartupError, got %v", err)
	}
	if flow.State() != client.LoadFailed {
		t.Fatalf("expected LoadFailed, got %v", flow.State())
	}
	if _, err := flow.Current(); !errors.Is(err, client.ErrNoActiveQuiz) {
		t.Fatalf("no session may exist after a failed start, got %v", err)
	}

	api = &fakeAPI{fetchErr: errors.New("boom"), questions: mcQuestions(4)}
	flow = client.NewQuizFlow(api)
	if err := flow.Start(ctx, 1); !errors.As(err, &startErr) {
		t.Fatalf("expected StartupError on fetch failure, got %v", err)
	}
}

func TestStartRejectsEmptyQuestionSet(t *testing.T) {
	api := &fakeAPI{}
	flow := client.NewQuizFlow(api)
	err := flow.Start(context.Background(), 1)
	var startErr *client.StartupError
	if !errors.As(err, &startErr) || !errors.Is(err, domain.ErrNoQuestions) {
		t.Fatalf("expected StartupError wrapping ErrNoQuestions, got %v", err)
	}
}

func TestAuthFailurePassesThrough(t *testing.T) {
	api := &fakeAPI{createErr: domain.ErrNotAuthorized}
	flow := client.NewQuizFlow(api)
	if err := flow.Start(context.Background(), 1); !errors.Is(err, domain.ErrNotAuthorized) {
		t.Fatalf("auth errors must stay distinguishable, got %v", err)
	}
}

func TestFullRunPersistsScoreOnce(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{questions: mcQuestions(4)}
	flow := client.NewQuizFlow(api)
	if err := flow.Start(ctx, 1); err != nil {
		t.Fatalf("start: %v", err)
	}
	if flow.State() != client.LoadReady {
		t.Fatalf("expected LoadReady, got %v", flow.State())
	}

	// [correct, wrong, correct, correct] -> 75%.
	candidates := []string{"right-0", "wrong-a", "right-2", "right-3"}
	for i, candidate := range candidates {
		q, err := flow.Current()
		if err != nil {
			t.Fatalf("current %d: %v", i, err)
		}
		if q.Prompt == "" {
			t.Fatalf("question %d missing prompt", i)
		}
		_, finished, err := flow.Submit(candidate)
		if err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
		if finished != (i == 3) {
			t.Fatalf("submit %d: finished=%v", i, finished)
		}
	}

	result, err := flow.Finish(ctx)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if result.Percent != 75 || result.Rounded != 75 || !result.Recorded {
		t.Fatalf("unexpected finish result %+v", result)
	}
	if len(api.submitted) != 1 {
		t.Fatalf("expected exactly one score submission, got %d", len(api.submitted))
	}
	if api.submitted[0].sessionID != "session-1" || api.submitted[0].score != 75 {
		t.Fatalf("wrong submission %+v", api.submitted[0])
	}

	// A second Finish must not resubmit.
	again, err := flow.Finish(ctx)
	if err != nil || again != result {
		t.Fatalf("repeat finish changed outcome: %+v (%v)", again, err)
	}
	if len(api.submitted) != 1 {
		t.Fatalf("finish must never retry, got %d submissions", len(api.submitted))
	}
}

func TestFinishSurfacesPersistFailureWithoutLosingScore(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{questions: mcQuestions(2), submitErr: errors.New("service down")}
	flow := client.NewQuizFlow(api)
	if err := flow.Start(ctx, 1); err != nil {
		t.Fatalf("start: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, _, err := flow.Submit(fmt.Sprintf("right-%d", i)); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	result, err := flow.Finish(ctx)
	var persistErr *client.ScorePersistError
	if !errors.As(err, &persistErr) {
		t.Fatalf("expected ScorePersistError, got %v", err)
	}
	if result.Percent != 100 || result.Recorded {
		t.Fatalf("score must survive a failed persist, got %+v", result)
	}

	// The failure is final: no retry on a repeat call.
	_, err2 := flow.Finish(ctx)
	if !errors.As(err2, &persistErr) || len(api.submitted) != 1 {
		t.Fatalf("expected cached failure without retry, got %v after %d submissions", err2, len(api.submitted))
	}
}

func TestFinishBeforeCompletionFailsFast(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{questions: mcQuestions(2)}
	flow := client.NewQuizFlow(api)
	if err := flow.Start(ctx, 1); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := flow.Finish(ctx); !errors.Is(err, domain.ErrQuizNotFinished) {
		t.Fatalf("expected ErrQuizNotFinished, got %v", err)
	}
	if len(api.submitted) != 0 {
		t.Fatalf("no score may be submitted for an unfinished quiz")
	}
}

func TestSubmitRejectsBlankCandidate(t *testing.T) {
	api := &fakeAPI{questions: mcQuestions(1)}
	flow := client.NewQuizFlow(api)
	if err := flow.Start(context.Background(), 1); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, _, err := flow.Submit("  "); !errors.Is(err, domain.ErrEmptyAnswer) {
		t.Fatalf("expected ErrEmptyAnswer, got %v", err)
	}
	if answered, _ := flow.Progress(); answered != 0 {
		t.Fatalf("blank submission must not advance, got %d", answered)
	}
}

func TestRestartIsIndistinguishableFromFreshStart(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{questions: mcQuestions(2)}
	flow := client.NewQuizFlow(api)
	if err := flow.Start(ctx, 1); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, _, err := flow.Submit("right-0"); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if err := flow.Restart(ctx, 1); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if api.createCalled != 2 {
		t.Fatalf("restart must create a new session, got %d creations", api.createCalled)
	}
	if answered, total := flow.Progress(); answered != 0 || total != 2 {
		t.Fatalf("restart must reset progress, got %d/%d", answered, total)
	}
}

func TestDiscardDropsSession(t *testing.T) {
	api := &fakeAPI{questions: mcQuestions(2)}
	flow := client.NewQuizFlow(api)
	if err := flow.Start(context.Background(), 1); err != nil {
		t.Fatalf("start: %v", err)
	}
	flow.Discard()
	if flow.State() != client.LoadNotStarted {
		t.Fatalf("expected LoadNotStarted after discard, got %v", flow.State())
	}
	if _, _, err := flow.Submit("right-0"); !errors.Is(err, client.ErrNoActiveQuiz) {
		t.Fatalf("expected ErrNoActiveQuiz, got %v", err)
	}
}
