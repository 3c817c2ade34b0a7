package domain

import (
	"math/rand"
	"time"
)

// StudySession sequences flashcards over a shuffled word deck. Unlike a quiz
// session it moves both ways, and running off the end of the deck is an
// expected terminal condition signalled by Done, not an error.
type StudySession struct {
	words    []Word
	cursor   int
	revealed bool
	done     bool
	rng      *rand.Rand
}

// NewStudySession shuffles the deck and starts at the first card.
func NewStudySession(words []Word) (*StudySession, error) {
	return NewStudySessionWithRand(words, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewStudySessionWithRand allows a deterministic shuffle in tests.
func NewStudySessionWithRand(words []Word, rng *rand.Rand) (*StudySession, error) {
	if len(words) == 0 {
		return nil, ErrNoWords
	}
	deck := make([]Word, len(words))
	copy(deck, words)
	s := &StudySession{words: deck, rng: rng}
	s.shuffle()
	return s, nil
}

// Current returns the card under the cursor.
func (s *StudySession) Current() Word { return s.words[s.cursor] }

// Revealed reports whether the current card shows its back face.
func (s *StudySession) Revealed() bool { return s.revealed }

// Done reports whether the deck has been studied to the end.
func (s *StudySession) Done() bool { return s.done }

// Position returns the 1-based cursor position and the deck size.
func (s *StudySession) Position() (int, int) { return s.cursor + 1, len(s.words) }

// Flip toggles the current card's face without moving the cursor.
func (s *StudySession) Flip() { s.revealed = !s.revealed }

// Next advances to the following card face-down. On the last card it marks
// the session done instead of advancing.
func (s *StudySession) Next() {
	if s.done {
		return
	}
	if s.cursor < len(s.words)-1 {
		s.cursor++
		s.revealed = false
		return
	}
	s.done = true
}

// Prev steps back one card face-down; a no-op at the first card.
func (s *StudySession) Prev() {
	if s.cursor == 0 {
		return
	}
	s.cursor--
	s.revealed = false
}

// Restart reshuffles the deck and resets cursor, face, and the done flag.
func (s *StudySession) Restart() {
	s.shuffle()
	s.cursor = 0
	s.revealed = false
	s.done = false
}

func (s *StudySession) shuffle() {
	s.rng.Shuffle(len(s.words), func(i, j int) {
		s.words[i], s.words[j] = s.words[j], s.words[i]
	})
}
