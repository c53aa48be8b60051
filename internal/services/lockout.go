package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mwicker/ledgerpass/internal/models"
)

// LockoutGuard enforces the per-account brute-force lockout: after
// maxAttempts consecutive failures the account is locked for lockoutDuration.
// Attempt state lives on the account record itself.
type LockoutGuard struct {
	repo            AccountRepository
	maxAttempts     int
	lockoutDuration time.Duration
	logger          *slog.Logger
}

// NewLockoutGuard creates a new LockoutGuard.
func NewLockoutGuard(repo AccountRepository, maxAttempts int, lockoutDuration time.Duration, logger *slog.Logger) *LockoutGuard {
	return &LockoutGuard{
		repo:            repo,
		maxAttempts:     maxAttempts,
		lockoutDuration: lockoutDuration,
		logger:          logger,
	}
}

// Check runs before credential verification on every login attempt. A locked
// account inside its lockout window is rejected without evaluating the
// password. Once the window elapses the counters reset and the attempt
// proceeds normally.
func (g *LockoutGuard) Check(ctx context.Context, account *models.Account) error {
	if account.LoginAttempts < g.maxAttempts {
		return nil
	}

	if account.LockoutTime != nil && time.Since(*account.LockoutTime) < g.lockoutDuration {
		return models.ErrAccountLocked
	}

	// Lockout window elapsed; unlock and let the attempt continue.
	account.LoginAttempts = 0
	account.LockoutTime = nil
	if err := g.save(ctx, account); err != nil {
		return err
	}

	return nil
}

// RecordFailure increments the failure counter and stamps the lockout time
// when the threshold is reached.
func (g *LockoutGuard) RecordFailure(ctx context.Context, account *models.Account) error {
	account.LoginAttempts++
	if account.LoginAttempts >= g.maxAttempts {
		now := time.Now()
		account.LockoutTime = &now
		g.logger.Info("account locked after repeated login failures",
			slog.String("account_id", account.ID),
			slog.Int("attempts", account.LoginAttempts))
	}

	return g.save(ctx, account)
}

// Reset clears the failure counter after a successful login.
func (g *LockoutGuard) Reset(ctx context.Context, account *models.Account) error {
	if account.LoginAttempts == 0 && account.LockoutTime == nil {
		return nil
	}

	account.LoginAttempts = 0
	account.LockoutTime = nil
	return g.save(ctx, account)
}

// save persists counter updates. A version conflict means a concurrent
// attempt already wrote newer state; last-writer-wins is acceptable here,
// so the conflict is logged and swallowed.
func (g *LockoutGuard) save(ctx context.Context, account *models.Account) error {
	updated, err := g.repo.Update(ctx, account)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			g.logger.Warn("concurrent lockout update dropped",
				slog.String("account_id", account.ID))
			return nil
		}
		return err
	}

	*account = *updated
	return nil
}
