package services

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"

	"github.com/mwicker/ledgerpass/internal/auth"
	"github.com/mwicker/ledgerpass/internal/models"
	pkgauth "github.com/mwicker/ledgerpass/pkg/auth"
)

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	List(ctx context.Context, limit, offset int) ([]*models.Account, error)
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	Update(ctx context.Context, account *models.Account) (*models.Account, error)
	Delete(ctx context.Context, id string) error
}

// TokenRevocationRepository defines the interface for the revocation ledger
type TokenRevocationRepository interface {
	Revoke(ctx context.Context, tokenValue, tokenKind string) error
	IsRevoked(ctx context.Context, tokenValue string) (bool, error)
}

var emailRegexp = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthService composes the guard, hasher, token manager, and ledger into the
// register/login/logout/authenticate flows.
type AuthService struct {
	repo       AccountRepository
	revokeRepo TokenRevocationRepository
	tm         *auth.TokenManager
	guard      *LockoutGuard
	logger     *slog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(repo AccountRepository, revokeRepo TokenRevocationRepository, tm *auth.TokenManager, guard *LockoutGuard, logger *slog.Logger) *AuthService {
	return &AuthService{
		repo:       repo,
		revokeRepo: revokeRepo,
		tm:         tm,
		guard:      guard,
		logger:     logger,
	}
}

// RegisterResult carries the token pair issued on registration. The refresh
// token exists only in sealed form.
type RegisterResult struct {
	AccessToken        string
	SealedRefreshToken string
	Account            *models.Account
}

// LoginResult carries the access token and its expiry for the cookie.
type LoginResult struct {
	AccessToken string
	ExpiresAt   int64
	Account     *models.Account
}

// Register validates the profile, hashes the password, persists the account,
// and issues both tokens. The sealed refresh token is stored on the account
// so a later logout can revoke it.
func (s *AuthService) Register(ctx context.Context, account *models.Account, password string) (*RegisterResult, error) {
	account.Email = strings.ToLower(strings.TrimSpace(account.Email))

	if account.Email == "" || !emailRegexp.MatchString(account.Email) {
		return nil, models.ErrBadRequest
	}
	if !models.IsValidKind(account.Kind) {
		return nil, models.ErrBadRequest
	}
	if err := pkgauth.ValidatePassword(password); err != nil {
		return nil, err
	}

	_, err := s.repo.GetByEmail(ctx, account.Email)
	if err == nil {
		s.logger.Info("registration failed: email already exists")
		return nil, models.ErrConflict
	}
	if !errors.Is(err, models.ErrNotFound) {
		s.logger.Error("failed to check if account exists", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	hashedPassword, err := pkgauth.HashPassword(password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	account.PasswordHash = hashedPassword

	created, err := s.repo.Create(ctx, account)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, models.ErrConflict
		}
		s.logger.Error("failed to create account", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	accessToken, err := s.tm.IssueAccessToken(created.ID)
	if err != nil {
		s.logger.Error("failed to issue access token", slog.String("account_id", created.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	sealedRefresh, err := s.tm.IssueRefreshToken(created.ID)
	if err != nil {
		s.logger.Error("failed to issue refresh token", slog.String("account_id", created.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	created.SealedRefreshToken = &sealedRefresh
	stored, err := s.repo.Update(ctx, created)
	if err != nil {
		s.logger.Error("failed to store refresh token", slog.String("account_id", created.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	created = stored

	s.logger.Info("account registered", slog.String("account_id", created.ID))

	return &RegisterResult{
		AccessToken:        accessToken,
		SealedRefreshToken: sealedRefresh,
		Account:            created,
	}, nil
}

// Login authenticates credentials and mints a fresh token pair. The lockout
// guard runs before the password is evaluated. The previous sealed refresh
// token is overwritten, never appended to.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, models.ErrInvalidCredentials
	}

	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			// Same error as a password mismatch to avoid account enumeration
			s.logger.Info("login failed: invalid credentials")
			return nil, models.ErrInvalidCredentials
		}
		s.logger.Error("failed to get account by email", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if err := s.guard.Check(ctx, account); err != nil {
		if errors.Is(err, models.ErrAccountLocked) {
			s.logger.Info("login rejected: account locked", slog.String("account_id", account.ID))
			return nil, models.ErrAccountLocked
		}
		s.logger.Error("lockout check failed", slog.String("account_id", account.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if err := pkgauth.ComparePassword(account.PasswordHash, password); err != nil {
		if err := s.guard.RecordFailure(ctx, account); err != nil {
			s.logger.Error("failed to record login failure", slog.String("account_id", account.ID), slog.Any("error", err))
		}
		s.logger.Info("login failed: invalid credentials")
		return nil, models.ErrInvalidCredentials
	}

	if err := s.guard.Reset(ctx, account); err != nil {
		s.logger.Error("failed to reset login attempts", slog.String("account_id", account.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	accessToken, err := s.tm.IssueAccessToken(account.ID)
	if err != nil {
		s.logger.Error("failed to issue access token", slog.String("account_id", account.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	sealedRefresh, err := s.tm.IssueRefreshToken(account.ID)
	if err != nil {
		s.logger.Error("failed to issue refresh token", slog.String("account_id", account.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	account.SealedRefreshToken = &sealedRefresh
	stored, err := s.repo.Update(ctx, account)
	if err != nil {
		s.logger.Error("failed to store refresh token", slog.String("account_id", account.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	account = stored

	claims, err := s.tm.ValidateAccessToken(accessToken)
	if err != nil {
		s.logger.Error("failed to decode issued token", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("account logged in", slog.String("account_id", account.ID))

	return &LoginResult{
		AccessToken: accessToken,
		ExpiresAt:   claims.ExpiresAt.Unix(),
		Account:     account,
	}, nil
}

// Logout revokes the presented access token and the account's stored sealed
// refresh token. Revoking a token that is already in the ledger is not an
// error; the ledger's uniqueness constraint makes the operation idempotent.
func (s *AuthService) Logout(ctx context.Context, account *models.Account, accessToken string) error {
	if accessToken == "" || account.SealedRefreshToken == nil || *account.SealedRefreshToken == "" {
		return models.ErrMissingTokens
	}

	if err := s.revoke(ctx, accessToken, models.TokenKindAccess); err != nil {
		return err
	}
	if err := s.revoke(ctx, *account.SealedRefreshToken, models.TokenKindRefresh); err != nil {
		return err
	}

	account.SealedRefreshToken = nil
	if _, err := s.repo.Update(ctx, account); err != nil {
		// The tokens are revoked either way; a failed cleanup of the stored
		// record is not worth failing the logout over.
		s.logger.Warn("failed to clear stored refresh token", slog.String("account_id", account.ID), slog.Any("error", err))
	}

	s.logger.Info("account logged out", slog.String("account_id", account.ID))
	return nil
}

func (s *AuthService) revoke(ctx context.Context, tokenValue, kind string) error {
	err := s.revokeRepo.Revoke(ctx, tokenValue, kind)
	if err == nil || errors.Is(err, models.ErrConflict) {
		return nil
	}
	s.logger.Error("failed to revoke token", slog.String("kind", kind), slog.Any("error", err))
	return models.ErrInternalServer
}

// Authenticate resolves an access token to its account. Signature, expiry,
// ledger membership, and account existence are all checked; every failure
// collapses to ErrUnauthorized so clients cannot probe which check tripped.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*models.Account, error) {
	claims, err := s.tm.ValidateAccessToken(tokenString)
	if err != nil {
		s.logger.Info("authentication failed: token invalid", slog.Any("error", err))
		return nil, models.ErrUnauthorized
	}

	revoked, err := s.revokeRepo.IsRevoked(ctx, tokenString)
	if err != nil {
		s.logger.Error("revocation check failed", slog.Any("error", err))
		return nil, models.ErrUnauthorized
	}
	if revoked {
		s.logger.Info("authentication failed: token revoked", slog.String("account_id", claims.UserID))
		return nil, models.ErrUnauthorized
	}

	account, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		s.logger.Info("authentication failed: account not found", slog.String("account_id", claims.UserID))
		return nil, models.ErrUnauthorized
	}

	return account, nil
}
