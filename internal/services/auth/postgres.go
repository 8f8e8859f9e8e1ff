package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"restaurant-storefront/internal/database"
	"restaurant-storefront/internal/models"
)

// PostgresStore persists users and sessions.
type PostgresStore struct {
	db *database.DB
}

// NewPostgresStore creates the pgx-backed auth store.
func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) CreateUser(ctx context.Context, user *models.User) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO users (email, name, password_hash, role)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		user.Email, user.Name, user.PasswordHash, user.Role,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.ErrEmailInUse
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.QueryRow(ctx,
		`SELECT id, email, name, password_hash, role, created_at
		 FROM users WHERE email = $1`,
		email,
	).Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.Role, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}

func (s *PostgresStore) CreateSession(ctx context.Context, session *models.Session, userID *int64) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO sessions (token, user_id, expires_at)
		 VALUES ($1, $2, $3)
		 RETURNING created_at`,
		session.Token, userID, session.ExpiresAt,
	).Scan(&session.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetSession(ctx context.Context, token string) (*models.Session, error) {
	var (
		session models.Session
		userID  *int64
		email   *string
		name    *string
		role    *string
		userAt  *time.Time
	)
	err := s.db.QueryRow(ctx,
		`SELECT s.token, s.created_at, s.expires_at, u.id, u.email, u.name, u.role, u.created_at
		 FROM sessions s
		 LEFT JOIN users u ON u.id = s.user_id
		 WHERE s.token = $1`,
		token,
	).Scan(&session.Token, &session.CreatedAt, &session.ExpiresAt, &userID, &email, &name, &role, &userAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	if userID != nil {
		session.User = &models.User{
			ID:        *userID,
			Email:     *email,
			Name:      *name,
			Role:      models.Role(*role),
			CreatedAt: *userAt,
		}
	}
	return &session, nil
}

func (s *PostgresStore) DeleteSession(ctx context.Context, token string) error {
	return s.db.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token)
}
