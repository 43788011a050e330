package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for user operations.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already in use")
)

// Role is the authorization role of a user.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User represents a registered user. PasswordHash and Salt are never serialised.
// swagger:model User
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewUser returns a new User with the USER role. ID is set by the repository on create.
func NewUser(email, passwordHash, salt string, createdAt, updatedAt time.Time) *User {
	return &User{
		Email:        email,
		PasswordHash: passwordHash,
		Salt:         salt,
		Role:         RoleUser,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
}

// IsAdmin reports whether the user bypasses ownership checks.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// UserSummary is the public part of a user returned alongside a token.
type UserSummary struct {
	ID   int64 `json:"id"`
	Role Role  `json:"role"`
}

// AuthResult is returned by register and login.
type AuthResult struct {
	Token string      `json:"token"`
	User  UserSummary `json:"user"`
}

// PasswordHasher handles salt generation, hashing, and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues signed session tokens for a user id.
type TokenIssuer interface {
	Issue(userID int64) (string, error)
}

// TokenVerifier verifies a token and returns the user id it asserts.
type TokenVerifier interface {
	Verify(token string) (userID int64, err error)
}

// UserRepository defines the interface for user storage.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
}

// AuthService registers and authenticates users.
type AuthService interface {
	Register(ctx context.Context, email, password string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	// Authenticate resolves the user asserted by a bearer token.
	Authenticate(ctx context.Context, token string) (*User, error)
}
