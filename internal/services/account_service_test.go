package services

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwicker/ledgerpass/internal/models"
)

func TestAccountService_GetAccountByID_Success(t *testing.T) {
	account := NewTestAccount("acc1", "user@example.com")
	repo := &MockAccountRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.Account, error) {
			return account, nil
		},
	}
	svc := NewAccountService(repo, slog.Default())

	got, err := svc.GetAccountByID(context.Background(), "acc1")
	require.NoError(t, err)
	assert.Equal(t, account.ID, got.ID)
}

func TestAccountService_GetAccountByID_NotFound(t *testing.T) {
	svc := NewAccountService(&MockAccountRepository{}, slog.Default())

	got, err := svc.GetAccountByID(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Nil(t, got)
}

func TestAccountService_ListAccounts(t *testing.T) {
	repo := &MockAccountRepository{
		ListFunc: func(ctx context.Context, limit, offset int) ([]*models.Account, error) {
			assert.Equal(t, 20, limit)
			assert.Equal(t, 40, offset)
			return []*models.Account{
				NewTestAccount("acc1", "a@example.com"),
				NewTestAccount("acc2", "b@example.com"),
			}, nil
		},
	}
	svc := NewAccountService(repo, slog.Default())

	accounts, err := svc.ListAccounts(context.Background(), 20, 40)
	require.NoError(t, err)
	assert.Len(t, accounts, 2)
}

func TestAccountService_UpdateAccount_PartialFields(t *testing.T) {
	account := NewTestAccount("acc1", "user@example.com")
	repo := &MockAccountRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.Account, error) {
			return account, nil
		},
	}
	svc := NewAccountService(repo, slog.Default())

	newCity := "Lisbon"
	updated, err := svc.UpdateAccount(context.Background(), "acc1", &AccountUpdate{City: &newCity})

	require.NoError(t, err)
	assert.Equal(t, "Lisbon", updated.City)
	assert.Equal(t, "Test", updated.FirstName)
}

func TestAccountService_UpdateAccount_IgnoresProfileForWrongKind(t *testing.T) {
	// A customer account has no practice profile; sending one must not
	// attach it.
	account := NewTestAccount("acc1", "user@example.com")
	repo := &MockAccountRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.Account, error) {
			return account, nil
		},
	}
	svc := NewAccountService(repo, slog.Default())

	updated, err := svc.UpdateAccount(context.Background(), "acc1", &AccountUpdate{
		Practice: &models.PracticeProfile{Specialty: "psychology"},
	})

	require.NoError(t, err)
	assert.Nil(t, updated.Practice)
}

func TestAccountService_UpdateAccount_VersionConflict(t *testing.T) {
	account := NewTestAccount("acc1", "user@example.com")
	repo := &MockAccountRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.Account, error) {
			return account, nil
		},
		UpdateFunc: func(ctx context.Context, a *models.Account) (*models.Account, error) {
			return nil, models.ErrConflict
		},
	}
	svc := NewAccountService(repo, slog.Default())

	name := "Changed"
	updated, err := svc.UpdateAccount(context.Background(), "acc1", &AccountUpdate{FirstName: &name})

	assert.ErrorIs(t, err, models.ErrConflict)
	assert.Nil(t, updated)
}

func TestAccountService_DeleteAccount_Success(t *testing.T) {
	deleted := ""
	repo := &MockAccountRepository{
		DeleteFunc: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	svc := NewAccountService(repo, slog.Default())

	err := svc.DeleteAccount(context.Background(), "acc1")
	require.NoError(t, err)
	assert.Equal(t, "acc1", deleted)
}

func TestAccountService_DeleteAccount_NotFound(t *testing.T) {
	repo := &MockAccountRepository{
		DeleteFunc: func(ctx context.Context, id string) error {
			return models.ErrNotFound
		},
	}
	svc := NewAccountService(repo, slog.Default())

	err := svc.DeleteAccount(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAccountService_ChangeRole_Success(t *testing.T) {
	account := NewTestAccount("acc1", "user@example.com")
	repo := &MockAccountRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.Account, error) {
			return account, nil
		},
	}
	svc := NewAccountService(repo, slog.Default())

	updated, err := svc.ChangeRole(context.Background(), "acc1", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, updated.Role)
}

func TestAccountService_ChangeRole_VersionConflict(t *testing.T) {
	account := NewTestAccount("acc1", "user@example.com")
	repo := &MockAccountRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.Account, error) {
			return account, nil
		},
		UpdateFunc: func(ctx context.Context, a *models.Account) (*models.Account, error) {
			return nil, models.ErrConflict
		},
	}
	svc := NewAccountService(repo, slog.Default())

	updated, err := svc.ChangeRole(context.Background(), "acc1", models.RoleAdmin)

	assert.ErrorIs(t, err, models.ErrConflict)
	assert.Nil(t, updated)
}

func TestAccountService_ChangeRole_InvalidRole(t *testing.T) {
	svc := NewAccountService(&MockAccountRepository{}, slog.Default())

	updated, err := svc.ChangeRole(context.Background(), "acc1", "superuser")
	assert.ErrorIs(t, err, models.ErrBadRequest)
	assert.Nil(t, updated)
}
