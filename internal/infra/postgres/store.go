package postgres

import (
	"context"
	"errors"
	"fmt"

	"vocab-quiz-service/internal/domain"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const uniqueViolation = "23505"

// Store backs the app repositories with Postgres.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	return s.scanUser(s.pool.QueryRow(ctx,
		`SELECT id, username, name, role, password_hash FROM users WHERE username=$1`, username))
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	return s.scanUser(s.pool.QueryRow(ctx,
		`SELECT id, username, name, role, password_hash FROM users WHERE id=$1`, id))
}

func (s *Store) scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Username, &u.Name, &u.Role, &u.PasswordHash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("load user: %w", err)
	}
	return u, nil
}

// CreateUser inserts an account and returns it with its assigned id.
func (s *Store) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (username, name, role, password_hash) VALUES ($1,$2,$3,$4) RETURNING id`,
		u.Username, u.Name, u.Role, u.PasswordHash).Scan(&u.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.User{}, domain.ErrUsernameTaken
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (s *Store) ListStudents(ctx context.Context) ([]domain.User, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, username, name, role, password_hash FROM users WHERE role=$1 ORDER BY id`, domain.RoleStudent)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	defer rows.Close()

	out := make([]domain.User, 0)
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Name, &u.Role, &u.PasswordHash); err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (s *Store) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET password_hash=$1 WHERE id=$2`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (s *Store) CreateWordbook(ctx context.Context, wb domain.Wordbook) (domain.Wordbook, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.Wordbook{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO wordbooks (title, description, owner_id) VALUES ($1,$2,$3) RETURNING id, created_at`,
		wb.Title, wb.Description, wb.OwnerID).Scan(&wb.ID, &wb.CreatedAt)
	if err != nil {
		return domain.Wordbook{}, fmt.Errorf("create wordbook: %w", err)
	}
	for i := range wb.Words {
		err = tx.QueryRow(ctx,
			`INSERT INTO words (wordbook_id, text, meaning, part_of_speech, example) VALUES ($1,$2,$3,$4,$5) RETURNING id`,
			wb.ID, wb.Words[i].Text, wb.Words[i].Meaning, wb.Words[i].PartOfSpeech, wb.Words[i].Example).Scan(&wb.Words[i].ID)
		if err != nil {
			return domain.Wordbook{}, fmt.Errorf("create word: %w", err)
		}
	}
	for _, studentID := range wb.StudentIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO wordbook_students (wordbook_id, student_id) VALUES ($1,$2) ON CONFLICT DO NOTHING`,
			wb.ID, studentID); err != nil {
			return domain.Wordbook{}, fmt.Errorf("assign student: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Wordbook{}, fmt.Errorf("commit: %w", err)
	}
	return wb, nil
}

func (s *Store) GetWordbook(ctx context.Context, id int64) (domain.Wordbook, error) {
	var wb domain.Wordbook
	err := s.pool.QueryRow(ctx,
		`SELECT id, title, description, owner_id, created_at FROM wordbooks WHERE id=$1`, id).
		Scan(&wb.ID, &wb.Title, &wb.Description, &wb.OwnerID, &wb.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Wordbook{}, domain.ErrWordbookNotFound
		}
		return domain.Wordbook{}, fmt.Errorf("load wordbook: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, text, meaning, part_of_speech, example FROM words WHERE wordbook_id=$1 ORDER BY id`, id)
	if err != nil {
		return domain.Wordbook{}, fmt.Errorf("load words: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var w domain.Word
		if err := rows.Scan(&w.ID, &w.Text, &w.Meaning, &w.PartOfSpeech, &w.Example); err != nil {
			return domain.Wordbook{}, fmt.Errorf("scan word: %w", err)
		}
		wb.Words = append(wb.Words, w)
	}
	if err := rows.Err(); err != nil {
		return domain.Wordbook{}, fmt.Errorf("iterate words: %w", err)
	}

	students, err := s.pool.Query(ctx,
		`SELECT student_id FROM wordbook_students WHERE wordbook_id=$1 ORDER BY student_id`, id)
	if err != nil {
		return domain.Wordbook{}, fmt.Errorf("load students: %w", err)
	}
	defer students.Close()
	for students.Next() {
		var studentID int64
		if err := students.Scan(&studentID); err != nil {
			return domain.Wordbook{}, fmt.Errorf("scan student: %w", err)
		}
		wb.StudentIDs = append(wb.StudentIDs, studentID)
	}
	return wb, students.Err()
}

// AssignStudent grants a student access to a wordbook.
func (s *Store) AssignStudent(ctx context.Context, wordbookID, studentID int64) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO wordbook_students (wordbook_id, student_id) VALUES ($1,$2) ON CONFLICT DO NOTHING`,
		wordbookID, studentID)
	if err != nil {
		return fmt.Errorf("assign student: %w", err)
	}
	return nil
}

func (s *Store) CreateSession(ctx context.Context, session domain.ExamSession) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO tests (id, wordbook_id, student_id, created_at) VALUES ($1,$2,$3,$4)`,
		session.ID, session.WordbookID, session.StudentID, session.CreatedAt)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (s *Store) GetSession(ctx context.Context, id string) (domain.ExamSession, error) {
	var session domain.ExamSession
	err := s.pool.QueryRow(ctx,
		`SELECT id, wordbook_id, student_id, created_at FROM tests WHERE id=$1`, id).
		Scan(&session.ID, &session.WordbookID, &session.StudentID, &session.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ExamSession{}, domain.ErrSessionNotFound
		}
		return domain.ExamSession{}, fmt.Errorf("load session: %w", err)
	}
	return session, nil
}

func (s *Store) SaveResult(ctx context.Context, r domain.TestResult) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO test_results (session_id, student_id, wordbook_id, score, submitted_at) VALUES ($1,$2,$3,$4,$5)`,
		r.SessionID, r.StudentID, r.WordbookID, r.Score, r.SubmittedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrDuplicateResult
		}
		return fmt.Errorf("save result: %w", err)
	}
	return nil
}

func (s *Store) ResultsByStudent(ctx context.Context, studentID int64) ([]domain.TestResult, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT r.session_id, r.student_id, r.wordbook_id, w.title, r.score, r.submitted_at
		 FROM test_results r
		 JOIN wordbooks w ON w.id = r.wordbook_id
		 WHERE r.student_id=$1
		 ORDER BY r.submitted_at`, studentID)
	if err != nil {
		return nil, fmt.Errorf("load results: %w", err)
	}
	defer rows.Close()

	out := make([]domain.TestResult, 0)
	for rows.Next() {
		var r domain.TestResult
		if err := rows.Scan(&r.SessionID, &r.StudentID, &r.WordbookID, &r.WordbookTitle, &r.Score, &r.SubmittedAt); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
