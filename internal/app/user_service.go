package app

import (
	"context"
	"fmt"

	"vocab-quiz-service/internal/domain"
)

// UserAdminRepository extends account lookups with the mutations the
// teacher-facing administration surface needs.
type UserAdminRepository interface {
	UserRepository
	ListStudents(ctx context.Context) ([]domain.User, error)
	CreateUser(ctx context.Context, u domain.User) (domain.User, error)
	DeleteUser(ctx context.Context, id int64) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

// UserService covers account administration: teachers list their student
// roster, create accounts, delete them, and reset passwords.
type UserService struct {
	users UserAdminRepository
}

func NewUserService(users UserAdminRepository) *UserService {
	return &UserService{users: users}
}

// Roster lists every student account for a teacher.
func (s *UserService) Roster(ctx context.Context, caller domain.User) ([]domain.User, error) {
	if caller.Role != domain.RoleTeacher {
		return nil, domain.ErrForbidden
	}
	return s.users.ListStudents(ctx)
}

// CreateAccount provisions a new account with a hashed password. Usernames
// are unique; a clash comes back as domain.ErrUsernameTaken.
func (s *UserService) CreateAccount(ctx context.Context, caller domain.User, username, name, password string, role domain.Role) (domain.User, error) {
	if caller.Role != domain.RoleTeacher {
		return domain.User{}, domain.ErrForbidden
	}
	if username == "" || password == "" {
		return domain.User{}, fmt.Errorf("username and password are required")
	}
	if role != domain.RoleStudent && role != domain.RoleTeacher {
		return domain.User{}, fmt.Errorf("unknown role %q", role)
	}
	hash, err := HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}
	return s.users.CreateUser(ctx, domain.User{
		Username:     username,
		Name:         name,
		Role:         role,
		PasswordHash: hash,
	})
}

// DeleteAccount removes an account. Teachers cannot delete themselves, so a
// platform always keeps at least the caller's account alive.
func (s *UserService) DeleteAccount(ctx context.Context, caller domain.User, id int64) error {
	if caller.Role != domain.RoleTeacher {
		return domain.ErrForbidden
	}
	if id == caller.ID {
		return domain.ErrForbidden
	}
	if _, err := s.users.GetUserByID(ctx, id); err != nil {
		return err
	}
	return s.users.DeleteUser(ctx, id)
}

// ResetPassword replaces an account's password with a freshly hashed one.
func (s *UserService) ResetPassword(ctx context.Context, caller domain.User, id int64, password string) error {
	if caller.Role != domain.RoleTeacher {
		return domain.ErrForbidden
	}
	if password == "" {
		return fmt.Errorf("password is required")
	}
	if _, err := s.users.GetUserByID(ctx, id); err != nil {
		return err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, id, hash)
}
