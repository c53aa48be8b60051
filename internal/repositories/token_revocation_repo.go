package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mwicker/ledgerpass/internal/database"
)

type TokenRevocationRepository struct {
	pool *pgxpool.Pool
}

func NewTokenRevocationRepository(db *database.DB) *TokenRevocationRepository {
	return &TokenRevocationRepository{pool: db.Pool}
}

// Revoke inserts a ledger entry for the token value. The unique index on
// token_value is the only concurrency guard: a second revoke of the same
// value fails with ErrConflict, which callers treat as already-revoked.
func (r *TokenRevocationRepository) Revoke(ctx context.Context, tokenValue, tokenKind string) error {
	query := `
		INSERT INTO revoked_tokens (id, token_value, token_kind, revoked_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query, uuid.New().String(), tokenValue, tokenKind, time.Now())
	if err != nil {
		return database.MapPostgresError(err)
	}

	return nil
}

// IsRevoked checks ledger membership for a token value.
func (r *TokenRevocationRepository) IsRevoked(ctx context.Context, tokenValue string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM revoked_tokens WHERE token_value = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, tokenValue).Scan(&exists); err != nil {
		return false, database.MapPostgresError(err)
	}

	return exists, nil
}

// DeleteRevokedBefore prunes ledger entries revoked before the cutoff.
// Pruning is housekeeping only; token verification checks expiry itself.
func (r *TokenRevocationRepository) DeleteRevokedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM revoked_tokens WHERE revoked_at < $1`

	result, err := r.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, database.MapPostgresError(err)
	}

	return result.RowsAffected(), nil
}
