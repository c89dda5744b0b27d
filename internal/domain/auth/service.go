package auth

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"warestock/internal/core/apperror"
	"warestock/internal/core/id"
	"warestock/internal/core/security"
	"warestock/pkg/logger"
)

const passwordMinLength = 8

// Service provides authentication and user management logic.
type Service struct {
	userRepo   UserRepository
	jwtService *JWTService
}

// NewService creates a new auth service.
func NewService(userRepo UserRepository, jwtService *JWTService) *Service {
	return &Service{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// Login authenticates a user and returns an access token.
func (s *Service) Login(ctx context.Context, creds Credentials) (*Token, *User, error) {
	user, err := s.userRepo.GetByEmail(ctx, creds.Email)
	if err != nil {
		return nil, nil, apperror.NewUnauthorized("invalid credentials")
	}

	if err := user.CanLogin(); err != nil {
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, nil, apperror.NewUnauthorized("invalid credentials")
	}

	accessToken, expiresAt, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate access token: %w", err)
	}

	logger.Info(ctx, "user logged in",
		"user_id", user.ID,
		"email", user.Email)

	return &Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	}, user, nil
}

// Register creates a new user account. Admin only.
func (s *Service) Register(ctx context.Context, in CreateUserInput) (*User, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	if len(in.Password) < passwordMinLength {
		return nil, apperror.NewValidation(
			fmt.Sprintf("password must be at least %d characters", passwordMinLength),
		).WithDetail("field", "password")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := NewUser(in.Name, in.Email, string(passwordHash))
	if in.Role != "" {
		user.Role = in.Role
	}
	if err := user.Validate(ctx); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return nil, fmt.Errorf("check email exists: %w", err)
	}
	if exists {
		return nil, apperror.NewDuplicate("user", "email", user.Email)
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info(ctx, "user registered",
		"user_id", user.ID,
		"email", user.Email,
		"role", user.Role)

	return user, nil
}

// GetByID retrieves a user. Non-admins may only read themselves.
func (s *Service) GetByID(ctx context.Context, userID id.ID) (*User, error) {
	actor, ok := security.GetActor(ctx)
	if !ok {
		return nil, apperror.NewUnauthorized("authentication required")
	}
	if !actor.IsAdmin() && actor.ID != userID {
		return nil, apperror.NewForbidden("access denied")
	}
	return s.userRepo.GetByID(ctx, userID)
}

// List retrieves users with filtering. Admin only.
func (s *Service) List(ctx context.Context, filter UserFilter) ([]User, int64, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, 0, err
	}
	return s.userRepo.List(ctx, filter)
}

// SetActive enables or disables a user account. Admin only.
func (s *Service) SetActive(ctx context.Context, userID id.ID, active bool) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}

	if err := s.userRepo.SetActive(ctx, userID, active); err != nil {
		return err
	}

	logger.Info(ctx, "user activity changed",
		"user_id", userID,
		"is_active", active)
	return nil
}

// ChangePassword updates the password of the calling user.
func (s *Service) ChangePassword(ctx context.Context, current, next string) error {
	actor, ok := security.GetActor(ctx)
	if !ok {
		return apperror.NewUnauthorized("authentication required")
	}

	user, err := s.userRepo.GetByID(ctx, actor.ID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return apperror.NewUnauthorized("invalid credentials")
	}

	if len(next) < passwordMinLength {
		return apperror.NewValidation(
			fmt.Sprintf("password must be at least %d characters", passwordMinLength),
		).WithDetail("field", "password")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = string(passwordHash)
	return s.userRepo.Update(ctx, user)
}

func requireAdmin(ctx context.Context) error {
	actor, ok := security.GetActor(ctx)
	if !ok {
		return apperror.NewUnauthorized("authentication required")
	}
	if !actor.IsAdmin() {
		return apperror.NewForbidden("administrator role required")
	}
	return nil
}
