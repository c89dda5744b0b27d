// Package auth provides authentication and user management logic.
package auth

import (
	"context"
	"strings"
	"time"

	"warestock/internal/core/apperror"
	"warestock/internal/core/id"
	"warestock/internal/core/security"
)

// User represents a system user.
type User struct {
	ID           id.ID         `db:"id" json:"id"`
	Name         string        `db:"name" json:"name"`
	Email        string        `db:"email" json:"email"`
	PasswordHash string        `db:"password_hash" json:"-"`
	Role         security.Role `db:"role" json:"role"`
	IsActive     bool          `db:"is_active" json:"is_active"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updated_at"`
}

// NewUser creates a new active user with the default role.
func NewUser(name, email, passwordHash string) *User {
	now := time.Now()
	return &User{
		ID:           id.New(),
		Name:         strings.TrimSpace(name),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: passwordHash,
		Role:         security.RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Validate validates user data.
func (u *User) Validate(ctx context.Context) error {
	if u.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if u.Email == "" {
		return apperror.NewValidation("email is required").WithDetail("field", "email")
	}
	if !strings.Contains(u.Email, "@") {
		return apperror.NewValidation("email is malformed").WithDetail("field", "email")
	}
	if u.Role != security.RoleAdmin && u.Role != security.RoleUser {
		return apperror.NewValidation("unknown role").WithDetail("role", string(u.Role))
	}
	return nil
}

// CanLogin checks if the user may authenticate.
func (u *User) CanLogin() error {
	if !u.IsActive {
		return apperror.NewForbidden("account is disabled")
	}
	return nil
}

// Actor converts the user into a request actor.
func (u *User) Actor() security.Actor {
	return security.Actor{
		ID:   u.ID,
		Name: u.Name,
		Role: u.Role,
	}
}

// Credentials for login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Token is an issued access token.
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// CreateUserInput carries the fields needed to register a user.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     security.Role
}

// UserFilter for listing users.
type UserFilter struct {
	Search   string
	IsActive *bool
	Limit    int
	Offset   int
}
