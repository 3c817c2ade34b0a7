package domain

import "time"

// Role distinguishes teachers (upload wordbooks, read reports) from students.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// User is a platform account.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Name         string `json:"name"`
	Role         Role   `json:"role"`
	PasswordHash string `json:"-"`
}

// ExamSession is one server-recorded attempt at a quiz over a wordbook.
// The id is an opaque string issued when the session is created; a score can
// only be persisted against an existing session.
type ExamSession struct {
	ID         string    `json:"id"`
	WordbookID int64     `json:"wordbook_id"`
	StudentID  int64     `json:"student_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// TestResult is the recorded outcome of a finished exam session.
// Score is a 0-100 percentage kept as a float for persistence accuracy.
type TestResult struct {
	SessionID     string    `json:"session_id"`
	StudentID     int64     `json:"student_id"`
	WordbookID    int64     `json:"wordbook_id"`
	WordbookTitle string    `json:"wordbook_title,omitempty"`
	Score         float64   `json:"score"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

// StudentReport aggregates one student's recorded scores for teachers.
type StudentReport struct {
	StudentID    int64        `json:"student_id"`
	StudentName  string       `json:"student_name"`
	Results      []TestResult `json:"results"`
	AverageScore float64      `json:"average_score"`
}
