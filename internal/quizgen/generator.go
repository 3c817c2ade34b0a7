// Package quizgen turns a wordbook into a shuffled question set: for each
// word the correct meaning plus three distinct wrong meanings from the same
// collection, or a written free-text item asking for the word itself.
package quizgen

import (
	"fmt"
	"math/rand"
	"time"

	"vocab-quiz-service/internal/domain"
)

// MinWords is the smallest collection a quiz can be built from: one correct
// meaning plus three distractors.
const MinWords = 4

const choicesPerQuestion = 4

// Generator builds question sets. A fraction of questions come out as
// written items; the rest are multiple choice.
type Generator struct {
	rng          *rand.Rand
	writtenRatio float64
}

func New() *Generator {
	return NewWithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWithRand allows deterministic generation in tests.
func NewWithRand(rng *rand.Rand) *Generator {
	return &Generator{rng: rng, writtenRatio: 0.25}
}

// Build generates one question per word, in shuffled order, with shuffled
// choices. It fails with ErrNotEnoughWords when the wordbook cannot supply
// a full distractor set.
func (g *Generator) Build(wb domain.Wordbook) ([]domain.Question, error) {
	if len(wb.Words) < MinWords {
		return nil, domain.ErrNotEnoughWords
	}

	questions := make([]domain.Question, 0, len(wb.Words))
	for _, w := range wb.Words {
		if g.rng.Float64() < g.writtenRatio {
			questions = append(questions, writtenQuestion(w))
			continue
		}
		q, err := g.multipleChoiceQuestion(w, wb.Words)
		if err != nil {
			// Not enough distinct meanings for this word; ask it in writing.
			questions = append(questions, writtenQuestion(w))
			continue
		}
		questions = append(questions, q)
	}

	g.rng.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})
	return questions, nil
}

func writtenQuestion(w domain.Word) domain.Question {
	return domain.Question{
		Kind:   domain.KindWritten,
		Prompt: fmt.Sprintf("Which word means '%s'?", w.Meaning),
		Answer: w.Text,
	}
}

func (g *Generator) multipleChoiceQuestion(target domain.Word, all []domain.Word) (domain.Question, error) {
	distractors := g.pickDistractors(target, all, choicesPerQuestion-1)
	if len(distractors) < choicesPerQuestion-1 {
		return domain.Question{}, domain.ErrNotEnoughWords
	}
	choices := g.buildChoices(target.Meaning, distractors)
	return domain.Question{
		Kind:    domain.KindMultipleChoice,
		Prompt:  fmt.Sprintf("What is the meaning of '%s'?", target.Text),
		Answer:  target.Meaning,
		Choices: choices,
	}, nil
}

// pickDistractors draws up to count wrong meanings, distinct from each other
// and from the correct one.
func (g *Generator) pickDistractors(target domain.Word, all []domain.Word, count int) []string {
	candidates := make([]domain.Word, 0, len(all))
	for _, w := range all {
		if w.ID != target.ID {
			candidates = append(candidates, w)
		}
	}
	g.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	seen := map[string]bool{target.Meaning: true}
	out := make([]string, 0, count)
	for _, c := range candidates {
		if len(out) == count {
			break
		}
		if seen[c.Meaning] {
			continue
		}
		seen[c.Meaning] = true
		out = append(out, c.Meaning)
	}
	return out
}

// buildChoices places the correct meaning among the distractors and shuffles.
// The resulting order is final; nothing downstream re-shuffles it.
func (g *Generator) buildChoices(correct string, distractors []string) []string {
	choices := make([]string, 0, 1+len(distractors))
	choices = append(choices, correct)
	choices = append(choices, distractors...)
	g.rng.Shuffle(len(choices), func(i, j int) {
		choices[i], choices[j] = choices[j], choices[i]
	})
	return choices
}
