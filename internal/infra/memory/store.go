package memory

import (
	"context"
	"sort"
	"sync"

	"vocab-quiz-service/internal/domain"
)

// Store is an in-memory implementation of the app repositories, used by tests
// and by the server when no Postgres URL is configured.
type Store struct {
	mu          sync.RWMutex
	users       map[int64]domain.User
	usersByName map[string]int64
	nextUserID  int64

	wordbooks  map[int64]domain.Wordbook
	nextBookID int64

	sessions map[string]domain.ExamSession
	results  map[string]domain.TestResult
}

func NewStore() *Store {
	return &Store{
		users:       make(map[int64]domain.User),
		usersByName: make(map[string]int64),
		wordbooks:   make(map[int64]domain.Wordbook),
		sessions:    make(map[string]domain.ExamSession),
		results:     make(map[string]domain.TestResult),
	}
}

// AddUser inserts an account, assigning an id when none is set.
func (s *Store) AddUser(u domain.User) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == 0 {
		s.nextUserID++
		u.ID = s.nextUserID
	}
	s.users[u.ID] = u
	s.usersByName[u.Username] = u.ID
	return u
}

// CreateUser inserts an account, rejecting duplicate usernames.
func (s *Store) CreateUser(_ context.Context, u domain.User) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.usersByName[u.Username]; ok {
		return domain.User{}, domain.ErrUsernameTaken
	}
	s.nextUserID++
	u.ID = s.nextUserID
	s.users[u.ID] = u
	s.usersByName[u.Username] = u.ID
	return u, nil
}

func (s *Store) ListStudents(_ context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.User, 0)
	for _, u := range s.users {
		if u.Role == domain.RoleStudent {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) DeleteUser(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	delete(s.users, id)
	delete(s.usersByName, u.Username)
	return nil
}

func (s *Store) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	s.users[id] = u
	return nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usersByName[username]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return s.users[id], nil
}

func (s *Store) GetUserByID(_ context.Context, id int64) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, nil
}

func (s *Store) CreateWordbook(_ context.Context, wb domain.Wordbook) (domain.Wordbook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if wb.ID == 0 {
		s.nextBookID++
		wb.ID = s.nextBookID
	}
	for i := range wb.Words {
		if wb.Words[i].ID == 0 {
			wb.Words[i].ID = int64(i + 1)
		}
	}
	s.wordbooks[wb.ID] = wb
	return wb, nil
}

func (s *Store) GetWordbook(_ context.Context, id int64) (domain.Wordbook, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wb, ok := s.wordbooks[id]
	if !ok {
		return domain.Wordbook{}, domain.ErrWordbookNotFound
	}
	return wb, nil
}

// AssignStudent adds a student to a wordbook's access list.
func (s *Store) AssignStudent(wordbookID, studentID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wb, ok := s.wordbooks[wordbookID]
	if !ok {
		return
	}
	wb.StudentIDs = append(wb.StudentIDs, studentID)
	s.wordbooks[wordbookID] = wb
}

func (s *Store) CreateSession(_ context.Context, session domain.ExamSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return nil
}

func (s *Store) GetSession(_ context.Context, id string) (domain.ExamSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return domain.ExamSession{}, domain.ErrSessionNotFound
	}
	return session, nil
}

func (s *Store) SaveResult(_ context.Context, r domain.TestResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.results[r.SessionID]; ok {
		return domain.ErrDuplicateResult
	}
	if wb, ok := s.wordbooks[r.WordbookID]; ok {
		r.WordbookTitle = wb.Title
	}
	s.results[r.SessionID] = r
	return nil
}

func (s *Store) ResultsByStudent(_ context.Context, studentID int64) ([]domain.TestResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.TestResult, 0)
	for _, r := range s.results {
		if r.StudentID == studentID {
			out = append(out, r)
		}
	}
	return out, nil
}
