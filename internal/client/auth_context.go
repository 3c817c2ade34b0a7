// Package client implements the student-facing side of the quiz lifecycle:
// an explicit auth context, a load state machine, the quiz flow orchestrator,
// and the HTTP client for the platform API.
package client

import "vocab-quiz-service/internal/domain"

// AuthContext holds the bearer credential and the logged-in account. It is an
// explicit object passed by reference to whatever needs it, with a defined
// lifecycle: Initialize after login (or from a persisted credential on app
// start) and Clear on logout. There is no ambient global auth state.
//
// All access happens on the single user-event flow; no locking.
type AuthContext struct {
	token string
	user  domain.User
	ready bool
}

func NewAuthContext() *AuthContext {
	return &AuthContext{}
}

// Initialize installs a verified credential and its account.
func (a *AuthContext) Initialize(token string, user domain.User) {
	a.token = token
	a.user = user
	a.ready = true
}

// Token returns the bearer credential, if one is installed.
func (a *AuthContext) Token() (string, bool) {
	return a.token, a.ready
}

// User returns the logged-in account, if any.
func (a *AuthContext) User() (domain.User, bool) {
	return a.user, a.ready
}

// Clear drops the credential on logout.
func (a *AuthContext) Clear() {
	a.token = ""
	a.user = domain.User{}
	a.ready = false
}
