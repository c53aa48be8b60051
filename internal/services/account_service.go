package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mwicker/ledgerpass/internal/models"
)

// AccountService handles profile reads and mutations; it is a thin consumer
// of the repository and carries no token logic.
type AccountService struct {
	repo   AccountRepository
	logger *slog.Logger
}

// NewAccountService creates a new AccountService
func NewAccountService(repo AccountRepository, logger *slog.Logger) *AccountService {
	return &AccountService{
		repo:   repo,
		logger: logger,
	}
}

// GetAccountByID retrieves an account by ID
func (s *AccountService) GetAccountByID(ctx context.Context, id string) (*models.Account, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("account not found", slog.String("account_id", id))
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get account", slog.String("account_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return account, nil
}

// ListAccounts retrieves a page of accounts
func (s *AccountService) ListAccounts(ctx context.Context, limit, offset int) ([]*models.Account, error) {
	accounts, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("failed to list accounts", slog.Int("limit", limit), slog.Int("offset", offset), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return accounts, nil
}

// AccountUpdate carries the mutable profile fields of an update request.
// Nil pointers leave the stored value untouched.
type AccountUpdate struct {
	FirstName   *string
	LastName    *string
	MobilePhone *string
	Country     *string
	City        *string
	PhotoURL    *string
	Employment  *models.EmploymentProfile
	Practice    *models.PracticeProfile
}

// UpdateAccount applies a partial profile update via read-modify-write.
func (s *AccountService) UpdateAccount(ctx context.Context, id string, update *AccountUpdate) (*models.Account, error) {
	account, err := s.GetAccountByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.FirstName != nil {
		account.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		account.LastName = *update.LastName
	}
	if update.MobilePhone != nil {
		account.MobilePhone = *update.MobilePhone
	}
	if update.Country != nil {
		account.Country = *update.Country
	}
	if update.City != nil {
		account.City = *update.City
	}
	if update.PhotoURL != nil {
		account.PhotoURL = *update.PhotoURL
	}
	if update.Employment != nil && account.Employment != nil {
		account.Employment = update.Employment
	}
	if update.Practice != nil && account.Practice != nil {
		account.Practice = update.Practice
	}

	updated, err := s.repo.Update(ctx, account)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, models.ErrConflict
		}
		s.logger.Error("failed to update account", slog.String("account_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("account updated", slog.String("account_id", id))
	return updated, nil
}

// DeleteAccount removes an account
func (s *AccountService) DeleteAccount(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("account not found", slog.String("account_id", id))
			return models.ErrNotFound
		}
		s.logger.Error("failed to delete account", slog.String("account_id", id), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("account deleted", slog.String("account_id", id))
	return nil
}

// ChangeRole assigns a new authorization role to an account.
func (s *AccountService) ChangeRole(ctx context.Context, id, role string) (*models.Account, error) {
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, models.ErrBadRequest
	}

	account, err := s.GetAccountByID(ctx, id)
	if err != nil {
		return nil, err
	}

	account.Role = role
	updated, err := s.repo.Update(ctx, account)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, models.ErrConflict
		}
		s.logger.Error("failed to change role", slog.String("account_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("account role changed", slog.String("account_id", id), slog.String("role", role))
	return updated, nil
}
