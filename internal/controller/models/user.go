package models

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
	"tradedesk/internal/auth"

	"github.com/google/uuid"
)

type User struct {
	Id           string    `json:"id"`
	Email        string    `json:"email"`
	Name         *string   `json:"name"`
	PasswordHash *string   `json:"-"`
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
}

// HasPassword is false for placeholder users created by an invitation
// or a member add who have never signed in
func (u User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

func (u User) ValidatePassword(password string) bool {
	if !u.HasPassword() {
		return false
	}
	return auth.ValidatePassword(password, *u.PasswordHash)
}

// NormalizeEmail lowercases and trims an email so lookups are
// case-insensitive
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

const userColumns = `users.id, users.email, users.name, users.password_hash, users.is_admin, users.created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	var user User
	var name, passwordHash sql.NullString
	if err := row.Scan(&user.Id, &user.Email, &name, &passwordHash, &user.IsAdmin, &user.CreatedAt); err != nil {
		return nil, err
	}
	user.Name = nullStringPtr(name)
	user.PasswordHash = nullStringPtr(passwordHash)
	return &user, nil
}

type GetUserV1Opts struct {
	Db Db

	Id    *string
	Email *string
}

func GetUserV1(ctx context.Context, opts GetUserV1Opts) (*User, error) {
	selectionField := "users.email"
	var selectionValue string
	switch {
	case opts.Id != nil:
		selectionField = "users.id"
		selectionValue = *opts.Id
	case opts.Email != nil:
		selectionValue = NormalizeEmail(*opts.Email)
	default:
		return nil, fmt.Errorf("models.GetUserV1: failed to receive either the user id or email: %w", ErrorInvalidInput)
	}
	var user *User
	if err := executeMysqlSelect(ctx, mysqlQueryInput{
		Db:       opts.Db,
		Stmt:     fmt.Sprintf(`SELECT %s FROM users WHERE %s = ?`, userColumns, selectionField),
		Args:     []any{selectionValue},
		FnSource: "models.GetUserV1",
		ProcessRow: func(r *sql.Row) (err error) {
			user, err = scanUser(r)
			return err
		},
	}); err != nil {
		return nil, err
	}
	return user, nil
}

type CreateUserV1Opts struct {
	Db Db

	Email string
	Name  *string

	// Password is hashed before storage, leave it empty to create a
	// placeholder user
	Password string
}

func CreateUserV1(ctx context.Context, opts CreateUserV1Opts) (string, error) {
	var passwordHash *string
	if opts.Password != "" {
		hash, err := auth.HashPassword(opts.Password)
		if err != nil {
			return "", fmt.Errorf("models.CreateUserV1: failed to hash password: %w", err)
		}
		passwordHash = &hash
	}
	userId := uuid.NewString()
	if err := executeMysqlInsert(ctx, mysqlQueryInput{
		Db:           opts.Db,
		Stmt:         `INSERT INTO users(id, email, name, password_hash) VALUES (?, ?, ?, ?)`,
		Args:         []any{userId, NormalizeEmail(opts.Email), opts.Name, passwordHash},
		FnSource:     "models.CreateUserV1",
		RowsAffected: oneRowAffected,
	}); err != nil {
		return "", err
	}
	return userId, nil
}

type UpsertUserByEmailV1Opts struct {
	Db Db

	Email string
}

// UpsertUserByEmailV1 returns the user with the given email, creating a
// placeholder named after the local part when none exists
func UpsertUserByEmailV1(ctx context.Context, opts UpsertUserByEmailV1Opts) (*User, error) {
	email := NormalizeEmail(opts.Email)
	user, err := GetUserV1(ctx, GetUserV1Opts{Db: opts.Db, Email: &email})
	if err == nil {
		return user, nil
	}
	if !isNotFound(err) {
		return nil, err
	}
	name, _, _ := strings.Cut(email, "@")
	if _, err := CreateUserV1(ctx, CreateUserV1Opts{Db: opts.Db, Email: email, Name: &name}); err != nil {
		return nil, err
	}
	return GetUserV1(ctx, GetUserV1Opts{Db: opts.Db, Email: &email})
}

type SetUserPasswordV1Opts struct {
	Db Db

	UserId   string
	Password string
}

func SetUserPasswordV1(ctx context.Context, opts SetUserPasswordV1Opts) error {
	hash, err := auth.HashPassword(opts.Password)
	if err != nil {
		return fmt.Errorf("models.SetUserPasswordV1: failed to hash password: %w", err)
	}
	return executeMysqlUpdate(ctx, mysqlQueryInput{
		Db:           opts.Db,
		Stmt:         `UPDATE users SET password_hash = ? WHERE id = ?`,
		Args:         []any{hash, opts.UserId},
		FnSource:     "models.SetUserPasswordV1",
		RowsAffected: oneRowAffected,
	})
}

type ValidateUserCredentialsV1Opts struct {
	Db Db

	Email    string
	Password string
}

// ValidateUserCredentialsV1 returns the user when the password matches;
// unknown emails and placeholder users fail the same way as a wrong
// password
func ValidateUserCredentialsV1(ctx context.Context, opts ValidateUserCredentialsV1Opts) (*User, error) {
	email := NormalizeEmail(opts.Email)
	user, err := GetUserV1(ctx, GetUserV1Opts{Db: opts.Db, Email: &email})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("models.ValidateUserCredentialsV1: %w", ErrorCredentialsAuthenticationFailed)
		}
		return nil, err
	}
	if !user.ValidatePassword(opts.Password) {
		return nil, fmt.Errorf("models.ValidateUserCredentialsV1: %w", ErrorCredentialsAuthenticationFailed)
	}
	return user, nil
}
