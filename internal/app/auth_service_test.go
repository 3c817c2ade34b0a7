package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/domain"
	"vocab-quiz-service/internal/infra/memory"
)

func newAuthFixture(t *testing.T) (*app.AuthService, domain.User) {
	t.Helper()
	store := memory.NewStore()
	hash, err := app.HashPassword("secret-pw")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := store.AddUser(domain.User{Username: "s-lee", Name: "Lee", Role: domain.RoleStudent, PasswordHash: hash})
	return app.NewAuthService(store, []byte("test-secret"), time.Hour), user
}

func TestLoginAndAuthenticateRoundTrip(t *testing.T) {
	service, user := newAuthFixture(t)
	ctx := context.Background()

	token, loggedIn, err := service.Login(ctx, "s-lee", "secret-pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if loggedIn.ID != user.ID {
		t.Fatalf("login returned wrong user %+v", loggedIn)
	}

	resolved, err := service.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if resolved.ID != user.ID || resolved.Role != domain.RoleStudent {
		t.Fatalf("token resolved to wrong user %+v", resolved)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	service, _ := newAuthFixture(t)
	ctx := context.Background()

	if _, _, err := service.Login(ctx, "s-lee", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := service.Login(ctx, "nobody", "secret-pw"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown user must look like a bad password, got %v", err)
	}
}

func TestAuthenticateRejectsGarbageAndForgedTokens(t *testing.T) {
	service, _ := newAuthFixture(t)
	ctx := context.Background()

	if _, err := service.Authenticate(ctx, "not-a-token"); !errors.Is(err, domain.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}

	store := memory.NewStore()
	hash, _ := app.HashPassword("secret-pw")
	store.AddUser(domain.User{Username: "s-lee", Role: domain.RoleStudent, PasswordHash: hash})
	other := app.NewAuthService(store, []byte("different-secret"), time.Hour)
	forged, _, err := other.Login(ctx, "s-lee", "secret-pw")
	if err != nil {
		t.Fatalf("login against other issuer: %v", err)
	}
	if _, err := service.Authenticate(ctx, forged); !errors.Is(err, domain.ErrNotAuthorized) {
		t.Fatalf("expected foreign signature to be rejected, got %v", err)
	}
}
