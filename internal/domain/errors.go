package domain

import "errors"

var (
	// ErrNotAuthorized is returned when a credential is missing, expired, or rejected.
	ErrNotAuthorized = errors.New("not authorized")
	// ErrForbidden is returned when the caller is authenticated but lacks access.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidCredentials is returned when a login attempt fails.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameTaken is returned when an account is created with a username that already exists.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrWordbookNotFound indicates the requested wordbook does not exist.
	ErrWordbookNotFound = errors.New("wordbook not found")
	// ErrSessionNotFound indicates an unknown exam session id.
	ErrSessionNotFound = errors.New("exam session not found")
	// ErrNotEnoughWords is returned when a wordbook is too small to build a quiz from.
	ErrNotEnoughWords = errors.New("not enough words to build a quiz")
	// ErrNoQuestions is returned when a quiz session would start with an empty question set.
	ErrNoQuestions = errors.New("question set is empty")
	// ErrNoWords is returned when a study session would start with an empty deck.
	ErrNoWords = errors.New("word deck is empty")
	// ErrEmptyAnswer is returned when a blank candidate answer is submitted.
	ErrEmptyAnswer = errors.New("answer is empty")
	// ErrQuizFinished indicates a caller defect: reading past the last question.
	ErrQuizFinished = errors.New("quiz already finished")
	// ErrQuizNotFinished indicates a caller defect: reading the final score early.
	ErrQuizNotFinished = errors.New("quiz not finished")
	// ErrUnknownQuestionKind indicates a question variant this build does not know.
	ErrUnknownQuestionKind = errors.New("unknown question kind")
	// ErrDuplicateResult is returned when a score is recorded twice for one session.
	ErrDuplicateResult = errors.New("result already recorded for session")
)
