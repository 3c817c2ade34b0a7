package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"vocab-quiz-service/internal/domain"
)

// Client talks to the platform API over HTTP, carrying the bearer credential
// from its AuthContext on every authenticated request. It implements ExamAPI.
type Client struct {
	baseURL string
	httpc   *http.Client
	auth    *AuthContext
}

func NewClient(baseURL string, auth *AuthContext) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 15 * time.Second},
		auth:    auth,
	}
}

type tokenResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        domain.User `json:"user"`
}

// Login exchanges a username/password pair for a bearer token and installs
// it into the auth context.
func (c *Client) Login(ctx context.Context, username, password string) (domain.User, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/token", strings.NewReader(form.Encode()))
	if err != nil {
		return domain.User{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var out tokenResponse
	if err := c.send(req, &out); err != nil {
		return domain.User{}, err
	}
	c.auth.Initialize(out.AccessToken, out.User)
	return out.User, nil
}

// Me resolves the installed credential to its account.
func (c *Client) Me(ctx context.Context) (domain.User, error) {
	var out domain.User
	if err := c.get(ctx, "/api/users/me", &out); err != nil {
		return domain.User{}, err
	}
	return out, nil
}

// GetWordbook fetches a wordbook with its words, for study mode.
func (c *Client) GetWordbook(ctx context.Context, id int64) (domain.Wordbook, error) {
	var out domain.Wordbook
	if err := c.get(ctx, fmt.Sprintf("/api/wordbooks/%d", id), &out); err != nil {
		return domain.Wordbook{}, err
	}
	return out, nil
}

// CreateSession asks the service for a new exam session over a wordbook.
func (c *Client) CreateSession(ctx context.Context, wordbookID int64) (string, error) {
	var out domain.ExamSession
	if err := c.post(ctx, fmt.Sprintf("/api/wordbooks/%d/tests", wordbookID), nil, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// FetchQuestions retrieves the generated, pre-shuffled question set.
func (c *Client) FetchQuestions(ctx context.Context, wordbookID int64) ([]domain.Question, error) {
	var out []domain.Question
	if err := c.get(ctx, fmt.Sprintf("/api/wordbooks/%d/quiz", wordbookID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SubmitScore records a finished session's score. The service does not
// promise idempotency, so callers submit at most once per session.
func (c *Client) SubmitScore(ctx context.Context, sessionID string, score float64) error {
	body := map[string]any{"session_id": sessionID, "score": score}
	return c.post(ctx, "/api/tests/results", body, nil)
}

// StudentReport fetches a per-student score report (teacher credential).
func (c *Client) StudentReport(ctx context.Context, studentID int64) (domain.StudentReport, error) {
	var out domain.StudentReport
	if err := c.get(ctx, fmt.Sprintf("/api/students/%d/report", studentID), &out); err != nil {
		return domain.StudentReport{}, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := c.authedRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return c.send(req, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}
	req, err := c.authedRequest(ctx, http.MethodPost, path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) authedRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	token, ok := c.auth.Token()
	if !ok {
		// A missing credential is an auth failure before any bytes move.
		return nil, domain.ErrNotAuthorized
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return req, nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return domain.ErrNotAuthorized
		case http.StatusForbidden:
			return domain.ErrForbidden
		}
		var apiErr errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("%s: %s", resp.Status, apiErr.Error)
		}
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
