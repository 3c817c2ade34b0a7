package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"vocab-quiz-service/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository abstracts how user accounts are stored.
type UserRepository interface {
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)
	GetUserByID(ctx context.Context, id int64) (domain.User, error)
}

// AuthService issues and verifies bearer tokens for the platform API.
type AuthService struct {
	users    UserRepository
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

func NewAuthService(users UserRepository, secret []byte, tokenTTL time.Duration) *AuthService {
	return &AuthService{users: users, secret: secret, tokenTTL: tokenTTL, now: time.Now}
}

// Login verifies a username/password pair and returns a signed token plus the
// account. Failures collapse into ErrInvalidCredentials so callers cannot
// probe which usernames exist.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, domain.User, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.User{}, domain.ErrInvalidCredentials
		}
		return "", domain.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", domain.User{}, domain.ErrInvalidCredentials
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  strconv.FormatInt(user.ID, 10),
		"name": user.Username,
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(s.tokenTTL).Unix(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", domain.User{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, user, nil
}

// Authenticate resolves a bearer token to the account it was issued for.
// Any parse, signature, or expiry problem comes back as ErrNotAuthorized.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (domain.User, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil || !token.Valid {
		return domain.User{}, domain.ErrNotAuthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return domain.User{}, domain.ErrNotAuthorized
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return domain.User{}, domain.ErrNotAuthorized
	}
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return domain.User{}, domain.ErrNotAuthorized
	}

	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.User{}, domain.ErrNotAuthorized
		}
		return domain.User{}, err
	}
	return user, nil
}

// HashPassword produces the bcrypt hash stored on user accounts.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
