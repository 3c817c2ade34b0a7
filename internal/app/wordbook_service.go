package app

import (
	"context"
	"fmt"

	"vocab-quiz-service/internal/domain"
)

// WordbookReader loads wordbook content (possibly through a cache).
type WordbookReader interface {
	GetWordbook(ctx context.Context, id int64) (domain.Wordbook, error)
}

// WordbookRepository persists wordbooks together with their words.
type WordbookRepository interface {
	WordbookReader
	CreateWordbook(ctx context.Context, wb domain.Wordbook) (domain.Wordbook, error)
}

// WordbookService covers teacher uploads and access-checked reads.
type WordbookService struct {
	books WordbookRepository
}

func NewWordbookService(books WordbookRepository) *WordbookService {
	return &WordbookService{books: books}
}

// Get returns a wordbook to its owner or an assigned student.
func (s *WordbookService) Get(ctx context.Context, caller domain.User, id int64) (domain.Wordbook, error) {
	book, err := s.books.GetWordbook(ctx, id)
	if err != nil {
		return domain.Wordbook{}, err
	}
	if !book.AccessibleBy(caller.ID) {
		return domain.Wordbook{}, domain.ErrForbidden
	}
	return book, nil
}

// Upload stores a new titled word list for a teacher.
func (s *WordbookService) Upload(ctx context.Context, caller domain.User, title, description string, words []domain.Word) (domain.Wordbook, error) {
	if caller.Role != domain.RoleTeacher {
		return domain.Wordbook{}, domain.ErrForbidden
	}
	if title == "" || len(words) == 0 {
		return domain.Wordbook{}, fmt.Errorf("wordbook needs a title and at least one word")
	}
	return s.books.CreateWordbook(ctx, domain.Wordbook{
		Title:       title,
		Description: description,
		OwnerID:     caller.ID,
		Words:       words,
	})
}
