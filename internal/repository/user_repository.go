package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"quizforge/internal/domain"
	"quizforge/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// UserDatabaseAdapter implements domain.UserRepository using sqlx.DB
type UserDatabaseAdapter struct {
	db *sqlx.DB
}

// NewUserDatabaseAdapter creates a new instance of UserDatabaseAdapter
func NewUserDatabaseAdapter(db *sqlx.DB) domain.UserRepository {
	return &UserDatabaseAdapter{db: db}
}

// CreateUser inserts a user row. A duplicate username or email surfaces as a
// constraint violation.
func (a *UserDatabaseAdapter) CreateUser(ctx context.Context, user *domain.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	if user.Role == "" {
		user.Role = "student"
	}

	query := `INSERT INTO users (
		username, password_hash, email, role, created_at
	) VALUES (
		$1, $2, $3, $4, $5
	) RETURNING id`

	ex := GetExecutor(ctx, a.db)
	err := ex.QueryRowxContext(ctx, query,
		user.Username,
		user.PasswordHash,
		user.Email,
		user.Role,
		user.CreatedAt,
	).Scan(&user.ID)
	if err != nil {
		return mapDBError("CreateUser", err)
	}
	return nil
}

// GetUserByUsername returns nil, nil when no user matches.
func (a *UserDatabaseAdapter) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT id, username, password_hash, email, role, created_at
	FROM users
	WHERE username = $1`

	var row models.User
	ex := GetExecutor(ctx, a.db)
	if err := ex.GetContext(ctx, &row, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, mapDBError("GetUserByUsername", err)
	}

	return &domain.User{
		ID:           row.ID,
		Username:     row.Username,
		PasswordHash: row.PasswordHash,
		Email:        row.Email,
		Role:         row.Role,
		CreatedAt:    row.CreatedAt,
	}, nil
}
