package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"vocab-quiz-service/internal/domain"
)

func fourChoiceQuestions(n int) []domain.Question {
	qs := make([]domain.Question, 0, n)
	for i := 0; i < n; i++ {
		answer := fmt.Sprintf("meaning-%d", i)
		qs = append(qs, domain.Question{
			Kind:    domain.KindMultipleChoice,
			Prompt:  fmt.Sprintf("What is the meaning of 'word-%d'?", i),
			Answer:  answer,
			Choices: []string{"wrong-a", answer, "wrong-b", "wrong-c"},
		})
	}
	return qs
}

func TestNewQuizSessionRejectsEmptySet(t *testing.T) {
	if _, err := domain.NewQuizSession("t-1", nil); !errors.Is(err, domain.ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
}

func TestSubmitAnswerTracksScoreAndIndex(t *testing.T) {
	session, err := domain.NewQuizSession("t-1", fourChoiceQuestions(4))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if session.Finished() {
		t.Fatalf("fresh session must not be finished")
	}

	// Scenario from the product: [correct, wrong, correct, correct] -> 3/4.
	answers := []string{"meaning-0", "wrong-a", "meaning-2", "meaning-3"}
	for i, candidate := range answers {
		correct, finished, err := session.SubmitAnswer(candidate)
		if err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
		wantCorrect := i != 1
		if correct != wantCorrect {
			t.Fatalf("submit %d: verdict %v, want %v", i, correct, wantCorrect)
		}
		if session.Index() != i+1 {
			t.Fatalf("after %d submissions index is %d", i+1, session.Index())
		}
		if finished != (i == 3) {
			t.Fatalf("submit %d: finished=%v", i, finished)
		}

		// Score always equals the count of correct recorded answers.
		count := 0
		for _, a := range session.Answers() {
			if a.Correct {
				count++
			}
		}
		if session.Score() != count {
			t.Fatalf("score %d diverges from recorded answers %d", session.Score(), count)
		}
	}

	if session.Score() != 3 {
		t.Fatalf("expected score 3, got %d", session.Score())
	}
	rounded, err := session.RoundedScorePercent()
	if err != nil {
		t.Fatalf("rounded percent: %v", err)
	}
	if rounded != 75 {
		t.Fatalf("expected 75, got %d", rounded)
	}
}

func TestAllCorrectAndAllWrongPercents(t *testing.T) {
	session, _ := domain.NewQuizSession("t-1", fourChoiceQuestions(2))
	for i := 0; i < 2; i++ {
		if _, _, err := session.SubmitAnswer(fmt.Sprintf("meaning-%d", i)); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	pct, err := session.FinalScorePercent()
	if err != nil || pct != 100 {
		t.Fatalf("expected 100, got %v (%v)", pct, err)
	}

	session, _ = domain.NewQuizSession("t-2", fourChoiceQuestions(2))
	for i := 0; i < 2; i++ {
		if _, _, err := session.SubmitAnswer("wrong-a"); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	pct, err = session.FinalScorePercent()
	if err != nil || pct != 0 {
		t.Fatalf("expected 0, got %v (%v)", pct, err)
	}
}

func TestContractViolationsFailFast(t *testing.T) {
	session, _ := domain.NewQuizSession("t-1", fourChoiceQuestions(1))

	if _, err := session.FinalScorePercent(); !errors.Is(err, domain.ErrQuizNotFinished) {
		t.Fatalf("expected ErrQuizNotFinished, got %v", err)
	}
	if _, _, err := session.SubmitAnswer("   "); !errors.Is(err, domain.ErrEmptyAnswer) {
		t.Fatalf("expected ErrEmptyAnswer, got %v", err)
	}
	if session.Index() != 0 {
		t.Fatalf("rejected submission must not advance, index=%d", session.Index())
	}

	if _, _, err := session.SubmitAnswer("meaning-0"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := session.CurrentQuestion(); !errors.Is(err, domain.ErrQuizFinished) {
		t.Fatalf("expected ErrQuizFinished, got %v", err)
	}
	if _, _, err := session.SubmitAnswer("meaning-0"); !errors.Is(err, domain.ErrQuizFinished) {
		t.Fatalf("expected ErrQuizFinished on extra submit, got %v", err)
	}
}

func TestWrittenQuestionInsideSession(t *testing.T) {
	session, _ := domain.NewQuizSession("t-1", []domain.Question{
		{Kind: domain.KindWritten, Prompt: "Which word means '사과'?", Answer: "Apple"},
	})
	correct, finished, err := session.SubmitAnswer(" APPLE ")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !correct || !finished {
		t.Fatalf("expected normalized written answer to finish correctly, got correct=%v finished=%v", correct, finished)
	}
}
