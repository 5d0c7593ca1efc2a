package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/wellness_client/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// TokenRepository хранит токен сессии одного профиля в Postgres.
// Реализует session.Backend.
type TokenRepository struct {
	*base.Repository
	profile string
	logger  *zap.Logger
}

func NewTokenRepository(pool *pgxpool.Pool, profile string, logger *zap.Logger) *TokenRepository {
	return &TokenRepository{
		Repository: base.NewRepository(pool),
		profile:    profile,
		logger:     logger,
	}
}

// Load возвращает сохранённый токен или пустую строку
func (r *TokenRepository) Load(ctx context.Context) (string, error) {
	query := `SELECT token FROM session_tokens WHERE profile = $1`

	var token string
	err := r.QueryRow(ctx, query, r.profile).Scan(&token)
	if err != nil {
		if base.IsNotFound(err) {
			return "", nil
		}
		return "", fmt.Errorf("load session token: %w", err)
	}

	r.logger.Info("Session token loaded", zap.String("profile", r.profile))
	return token, nil
}

// Save сохраняет токен профиля, заменяя предыдущий
func (r *TokenRepository) Save(ctx context.Context, token string) error {
	query := `
		INSERT INTO session_tokens (profile, token, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (profile) DO UPDATE SET token = EXCLUDED.token, updated_at = NOW()
	`

	if _, err := r.ExecAffected(ctx, query, r.profile, token); err != nil {
		r.logger.Error("Failed to save session token",
			zap.String("profile", r.profile),
			zap.Error(err))
		return fmt.Errorf("save session token: %w", err)
	}

	return nil
}

// Delete удаляет токен профиля
func (r *TokenRepository) Delete(ctx context.Context) error {
	query := `DELETE FROM session_tokens WHERE profile = $1`

	affected, err := r.ExecAffected(ctx, query, r.profile)
	if err != nil {
		return fmt.Errorf("delete session token: %w", err)
	}

	r.logger.Info("Session token deleted",
		zap.String("profile", r.profile),
		zap.Int64("rows", affected))

	return nil
}
