package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwicker/ledgerpass/internal/models"
)

func newTestGuard(repo AccountRepository) *LockoutGuard {
	return NewLockoutGuard(repo, 5, 30*time.Minute, slog.Default())
}

func TestLockoutGuard_Check_UnderThreshold(t *testing.T) {
	account := NewTestAccount("acc1", "user@example.com")
	account.LoginAttempts = 4

	guard := newTestGuard(&MockAccountRepository{})

	err := guard.Check(context.Background(), account)
	assert.NoError(t, err)
}

func TestLockoutGuard_Check_LockedInsideWindow(t *testing.T) {
	lockedAt := time.Now().Add(-5 * time.Minute)
	account := NewTestAccount("acc1", "user@example.com")
	account.LoginAttempts = 5
	account.LockoutTime = &lockedAt

	guard := newTestGuard(&MockAccountRepository{})

	err := guard.Check(context.Background(), account)
	assert.ErrorIs(t, err, models.ErrAccountLocked)
}

func TestLockoutGuard_Check_WindowElapsedResets(t *testing.T) {
	lockedAt := time.Now().Add(-31 * time.Minute)
	account := NewTestAccount("acc1", "user@example.com")
	account.LoginAttempts = 5
	account.LockoutTime = &lockedAt

	saved := false
	repo := &MockAccountRepository{
		UpdateFunc: func(ctx context.Context, a *models.Account) (*models.Account, error) {
			saved = true
			return a, nil
		},
	}
	guard := newTestGuard(repo)

	err := guard.Check(context.Background(), account)
	require.NoError(t, err)
	assert.True(t, saved)
	assert.Equal(t, 0, account.LoginAttempts)
	assert.Nil(t, account.LockoutTime)
}

func TestLockoutGuard_RecordFailure_StampsLockoutAtThreshold(t *testing.T) {
	account := NewTestAccount("acc1", "user@example.com")
	account.LoginAttempts = 4

	guard := newTestGuard(&MockAccountRepository{})

	err := guard.RecordFailure(context.Background(), account)
	require.NoError(t, err)
	assert.Equal(t, 5, account.LoginAttempts)
	require.NotNil(t, account.LockoutTime)
	assert.WithinDuration(t, time.Now(), *account.LockoutTime, time.Second)
}

func TestLockoutGuard_RecordFailure_BelowThresholdNoLockout(t *testing.T) {
	account := NewTestAccount("acc1", "user@example.com")
	account.LoginAttempts = 2

	guard := newTestGuard(&MockAccountRepository{})

	err := guard.RecordFailure(context.Background(), account)
	require.NoError(t, err)
	assert.Equal(t, 3, account.LoginAttempts)
	assert.Nil(t, account.LockoutTime)
}

func TestLockoutGuard_Reset_ClearsState(t *testing.T) {
	lockedAt := time.Now()
	account := NewTestAccount("acc1", "user@example.com")
	account.LoginAttempts = 3
	account.LockoutTime = &lockedAt

	guard := newTestGuard(&MockAccountRepository{})

	err := guard.Reset(context.Background(), account)
	require.NoError(t, err)
	assert.Equal(t, 0, account.LoginAttempts)
	assert.Nil(t, account.LockoutTime)
}

func TestLockoutGuard_Reset_NoopWhenClean(t *testing.T) {
	account := NewTestAccount("acc1", "user@example.com")

	updateCalled := false
	repo := &MockAccountRepository{
		UpdateFunc: func(ctx context.Context, a *models.Account) (*models.Account, error) {
			updateCalled = true
			return a, nil
		},
	}
	guard := newTestGuard(repo)

	err := guard.Reset(context.Background(), account)
	require.NoError(t, err)
	assert.False(t, updateCalled)
}

func TestLockoutGuard_Save_SwallowsVersionConflict(t *testing.T) {
	account := NewTestAccount("acc1", "user@example.com")

	repo := &MockAccountRepository{
		UpdateFunc: func(ctx context.Context, a *models.Account) (*models.Account, error) {
			return nil, models.ErrConflict
		},
	}
	guard := newTestGuard(repo)

	err := guard.RecordFailure(context.Background(), account)
	assert.NoError(t, err)
}
