package app

import (
	"context"
	"fmt"
	"time"

	"vocab-quiz-service/internal/domain"
	"vocab-quiz-service/internal/quizgen"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// ExamRepository persists exam sessions and their recorded results.
type ExamRepository interface {
	CreateSession(ctx context.Context, s domain.ExamSession) error
	GetSession(ctx context.Context, id string) (domain.ExamSession, error)
	// SaveResult stores one result per session and returns
	// domain.ErrDuplicateResult on a second attempt.
	SaveResult(ctx context.Context, r domain.TestResult) error
	ResultsByStudent(ctx context.Context, studentID int64) ([]domain.TestResult, error)
}

// ExamService owns the server side of the quiz lifecycle: issuing session
// ids, generating question sets, recording scores, and building reports.
type ExamService struct {
	users UserRepository
	books WordbookReader
	exams ExamRepository
	gen   *quizgen.Generator
	feed  *ResultFeed
	newID func() (string, error)
	now   func() time.Time
}

func NewExamService(users UserRepository, books WordbookReader, exams ExamRepository, gen *quizgen.Generator, feed *ResultFeed) *ExamService {
	return &ExamService{
		users: users,
		books: books,
		exams: exams,
		gen:   gen,
		feed:  feed,
		newID: func() (string, error) { return gonanoid.New() },
		now:   time.Now,
	}
}

// StartSession creates a new exam session over a wordbook and returns its
// opaque id. It fails with domain.ErrNotEnoughWords when the wordbook cannot
// yield a quiz, so no session record is left behind for an unstartable quiz.
func (s *ExamService) StartSession(ctx context.Context, caller domain.User, wordbookID int64) (domain.ExamSession, error) {
	book, err := s.books.GetWordbook(ctx, wordbookID)
	if err != nil {
		return domain.ExamSession{}, err
	}
	if !book.AccessibleBy(caller.ID) {
		return domain.ExamSession{}, domain.ErrForbidden
	}
	if len(book.Words) < quizgen.MinWords {
		return domain.ExamSession{}, domain.ErrNotEnoughWords
	}

	id, err := s.newID()
	if err != nil {
		return domain.ExamSession{}, fmt.Errorf("generate session id: %w", err)
	}
	session := domain.ExamSession{
		ID:         id,
		WordbookID: wordbookID,
		StudentID:  caller.ID,
		CreatedAt:  s.now(),
	}
	if err := s.exams.CreateSession(ctx, session); err != nil {
		return domain.ExamSession{}, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

// BuildQuiz generates a fresh, pre-shuffled question set for a wordbook.
func (s *ExamService) BuildQuiz(ctx context.Context, caller domain.User, wordbookID int64) ([]domain.Question, error) {
	book, err := s.books.GetWordbook(ctx, wordbookID)
	if err != nil {
		return nil, err
	}
	if !book.AccessibleBy(caller.ID) {
		return nil, domain.ErrForbidden
	}
	return s.gen.Build(book)
}

// RecordResult stores the final score of a finished session. The session must
// belong to the caller and may carry at most one result; live report feeds
// are notified on success.
func (s *ExamService) RecordResult(ctx context.Context, caller domain.User, sessionID string, score float64) (domain.TestResult, error) {
	if score < 0 || score > 100 {
		return domain.TestResult{}, fmt.Errorf("score %v out of range", score)
	}
	session, err := s.exams.GetSession(ctx, sessionID)
	if err != nil {
		return domain.TestResult{}, err
	}
	if session.StudentID != caller.ID {
		return domain.TestResult{}, domain.ErrForbidden
	}

	result := domain.TestResult{
		SessionID:   sessionID,
		StudentID:   session.StudentID,
		WordbookID:  session.WordbookID,
		Score:       score,
		SubmittedAt: s.now(),
	}
	if err := s.exams.SaveResult(ctx, result); err != nil {
		return domain.TestResult{}, err
	}
	if s.feed != nil {
		s.feed.Publish(result)
	}
	return result, nil
}

// StudentReport assembles a teacher-facing view of one student's scores.
func (s *ExamService) StudentReport(ctx context.Context, caller domain.User, studentID int64) (domain.StudentReport, error) {
	if caller.Role != domain.RoleTeacher {
		return domain.StudentReport{}, domain.ErrForbidden
	}
	student, err := s.users.GetUserByID(ctx, studentID)
	if err != nil {
		return domain.StudentReport{}, err
	}
	results, err := s.exams.ResultsByStudent(ctx, studentID)
	if err != nil {
		return domain.StudentReport{}, err
	}

	report := domain.StudentReport{
		StudentID:   student.ID,
		StudentName: student.Name,
		Results:     results,
	}
	if len(results) > 0 {
		var sum float64
		for _, r := range results {
			sum += r.Score
		}
		report.AverageScore = sum / float64(len(results))
	}
	return report, nil
}
