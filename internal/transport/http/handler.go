package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/domain"
)

// Handler exposes the platform REST API.
type Handler struct {
	auth      *app.AuthService
	users     *app.UserService
	wordbooks *app.WordbookService
	exams     *app.ExamService
}

func NewHandler(auth *app.AuthService, users *app.UserService, wordbooks *app.WordbookService, exams *app.ExamService) *Handler {
	return &Handler{auth: auth, users: users, wordbooks: wordbooks, exams: exams}
}

// Register mounts all routes on mux. Authenticated routes are wrapped in the
// bearer middleware here so callers only mount once.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/token", h.handleLogin)
	mux.Handle("GET /api/users/me", h.requireUser(h.handleMe))
	mux.Handle("POST /api/users", h.requireUser(h.handleCreateUser))
	mux.Handle("DELETE /api/users/{id}", h.requireUser(h.handleDeleteUser))
	mux.Handle("PUT /api/users/{id}/reset-password", h.requireUser(h.handleResetPassword))
	mux.Handle("GET /api/teacher/students", h.requireUser(h.handleStudentRoster))
	mux.Handle("POST /api/wordbooks", h.requireUser(h.handleUploadWordbook))
	mux.Handle("GET /api/wordbooks/{id}", h.requireUser(h.handleGetWordbook))
	mux.Handle("POST /api/wordbooks/{id}/tests", h.requireUser(h.handleCreateTest))
	mux.Handle("GET /api/wordbooks/{id}/quiz", h.requireUser(h.handleQuiz))
	mux.Handle("POST /api/tests/results", h.requireUser(h.handleSubmitResult))
	mux.Handle("GET /api/students/{id}/report", h.requireUser(h.handleStudentReport))
}

type tokenResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        domain.User `json:"user"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form body")
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	token, user, err := h.auth.Login(r.Context(), username, password)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer", User: user})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request, caller domain.User) {
	writeJSON(w, http.StatusOK, caller)
}

type createUserRequest struct {
	Username string      `json:"username"`
	Name     string      `json:"name"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request, caller domain.User) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.Role == "" {
		req.Role = domain.RoleStudent
	}
	user, err := h.users.CreateAccount(r.Context(), caller, req.Username, req.Name, req.Password, req.Role)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *Handler) handleDeleteUser(w http.ResponseWriter, r *http.Request, caller domain.User) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.users.DeleteAccount(r.Context(), caller, id); err != nil {
		h.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

func (h *Handler) handleResetPassword(w http.ResponseWriter, r *http.Request, caller domain.User) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := h.users.ResetPassword(r.Context(), caller, id, req.Password); err != nil {
		h.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleStudentRoster(w http.ResponseWriter, r *http.Request, caller domain.User) {
	students, err := h.users.Roster(r.Context(), caller)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, students)
}

type uploadWordbookRequest struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Words       []domain.Word `json:"words"`
}

func (h *Handler) handleUploadWordbook(w http.ResponseWriter, r *http.Request, caller domain.User) {
	var req uploadWordbookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	book, err := h.wordbooks.Upload(r.Context(), caller, req.Title, req.Description, req.Words)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, book)
}

func (h *Handler) handleGetWordbook(w http.ResponseWriter, r *http.Request, caller domain.User) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	book, err := h.wordbooks.Get(r.Context(), caller, id)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, book)
}

func (h *Handler) handleCreateTest(w http.ResponseWriter, r *http.Request, caller domain.User) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	session, err := h.exams.StartSession(r.Context(), caller, id)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (h *Handler) handleQuiz(w http.ResponseWriter, r *http.Request, caller domain.User) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	questions, err := h.exams.BuildQuiz(r.Context(), caller, id)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

type submitResultRequest struct {
	SessionID string  `json:"session_id"`
	Score     float64 `json:"score"`
}

func (h *Handler) handleSubmitResult(w http.ResponseWriter, r *http.Request, caller domain.User) {
	var req submitResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}
	result, err := h.exams.RecordResult(r.Context(), caller, req.SessionID, req.Score)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *Handler) handleStudentReport(w http.ResponseWriter, r *http.Request, caller domain.User) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	report, err := h.exams.StudentReport(r.Context(), caller, id)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrNotAuthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrWordbookNotFound),
		errors.Is(err, domain.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrDuplicateResult), errors.Is(err, domain.ErrUsernameTaken):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrNotEnoughWords), errors.Is(err, domain.ErrNoQuestions):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
