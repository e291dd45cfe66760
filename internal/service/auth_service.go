package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mendbayar/taskdesk/internal/access"
	"github.com/mendbayar/taskdesk/internal/domain"
	"github.com/mendbayar/taskdesk/internal/repository"
	"github.com/mendbayar/taskdesk/pkg/auth"
)

// AuthService handles credential checks, token issuance, and user
// registration.
type AuthService struct {
	users  *repository.UserRepository
	tokens *auth.TokenManager
}

// NewAuthService creates an AuthService.
func NewAuthService(users *repository.UserRepository, tokens *auth.TokenManager) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Login verifies credentials and returns a signed access token plus the
// authenticated user. Unknown usernames and wrong passwords both map to
// ErrUnauthenticated so the response does not leak which part failed.
func (s *AuthService) Login(ctx context.Context, username, password, ip, userAgent string) (string, *domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrUnauthenticated
		}
		return "", nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return "", nil, domain.ErrUnauthenticated
	}
	if !user.IsActive {
		return "", nil, fmt.Errorf("%w: %s", domain.ErrUserInactive, user.Username)
	}

	token, err := s.tokens.Mint(user)
	if err != nil {
		return "", nil, fmt.Errorf("mint token: %w", err)
	}

	if err := s.users.RecordLogin(ctx, user.ID, ip, userAgent); err != nil {
		slog.Error("failed to record login", "user_id", user.ID, "error", err)
	}

	return token, user, nil
}

// RegisterUserInput holds a new user's account details.
type RegisterUserInput struct {
	Username  string
	Password  string
	GivenName string
	Surname   string
	Rank      string
	Position  string
	Role      domain.Role
	BranchID  string
}

// Register creates a user account. Requires the register capability; only
// wildcard holders may mint other admin-grade accounts.
func (s *AuthService) Register(ctx context.Context, actor *domain.User, input RegisterUserInput) (*domain.User, error) {
	if !access.CanAccess(actor.Role, access.ActionRegisterUser) {
		return nil, domain.ErrPermissionDenied
	}
	if !input.Role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, input.Role)
	}
	if input.Role != domain.RoleUser && actor.Role != domain.RoleSuperAdmin {
		return nil, fmt.Errorf("%w: only super-admins may grant elevated roles", domain.ErrPermissionDenied)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	return s.users.Create(ctx, &domain.User{
		Username:     input.Username,
		PasswordHash: hash,
		GivenName:    input.GivenName,
		Surname:      input.Surname,
		Rank:         input.Rank,
		Position:     input.Position,
		Role:         input.Role,
		BranchID:     input.BranchID,
		IsActive:     true,
	})
}
