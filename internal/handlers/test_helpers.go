package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/mwicker/ledgerpass/internal/auth"
	"github.com/mwicker/ledgerpass/internal/models"
	"github.com/mwicker/ledgerpass/internal/services"
)

// MockAuthService implements AuthServiceInterface for testing
type MockAuthService struct {
	RegisterFunc func(ctx context.Context, account *models.Account, password string) (*services.RegisterResult, error)
	LoginFunc    func(ctx context.Context, email, password string) (*services.LoginResult, error)
	LogoutFunc   func(ctx context.Context, account *models.Account, accessToken string) error
}

func (m *MockAuthService) Register(ctx context.Context, account *models.Account, password string) (*services.RegisterResult, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, account, password)
	}
	return nil, models.ErrInternalServer
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*services.LoginResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return nil, models.ErrInternalServer
}

func (m *MockAuthService) Logout(ctx context.Context, account *models.Account, accessToken string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, account, accessToken)
	}
	return nil
}

// MockAccountService implements AccountServiceInterface for testing
type MockAccountService struct {
	GetAccountByIDFunc func(ctx context.Context, id string) (*models.Account, error)
	ListAccountsFunc   func(ctx context.Context, limit, offset int) ([]*models.Account, error)
	UpdateAccountFunc  func(ctx context.Context, id string, update *services.AccountUpdate) (*models.Account, error)
	DeleteAccountFunc  func(ctx context.Context, id string) error
	ChangeRoleFunc     func(ctx context.Context, id, role string) (*models.Account, error)
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, id string) (*models.Account, error) {
	if m.GetAccountByIDFunc != nil {
		return m.GetAccountByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockAccountService) ListAccounts(ctx context.Context, limit, offset int) ([]*models.Account, error) {
	if m.ListAccountsFunc != nil {
		return m.ListAccountsFunc(ctx, limit, offset)
	}
	return []*models.Account{}, nil
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, id string, update *services.AccountUpdate) (*models.Account, error) {
	if m.UpdateAccountFunc != nil {
		return m.UpdateAccountFunc(ctx, id, update)
	}
	return nil, models.ErrNotFound
}

func (m *MockAccountService) DeleteAccount(ctx context.Context, id string) error {
	if m.DeleteAccountFunc != nil {
		return m.DeleteAccountFunc(ctx, id)
	}
	return nil
}

func (m *MockAccountService) ChangeRole(ctx context.Context, id, role string) (*models.Account, error) {
	if m.ChangeRoleFunc != nil {
		return m.ChangeRoleFunc(ctx, id, role)
	}
	return nil, models.ErrNotFound
}

// newTestAccount returns a customer account with sensible defaults.
func newTestAccount(id, email string) *models.Account {
	now := time.Now()
	return &models.Account{
		ID:          id,
		Email:       email,
		FirstName:   "Test",
		LastName:    "Account",
		MobilePhone: "5550100",
		BirthDate:   time.Date(1990, 1, 15, 0, 0, 0, 0, time.UTC),
		Country:     "US",
		City:        "Portland",
		Gender:      "other",
		Kind:        models.KindCustomer,
		Role:        models.RoleUser,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// withAuthContext injects an authenticated account and token into the request
// context the same way RequireAuth does.
func withAuthContext(r *http.Request, account *models.Account, token string) *http.Request {
	ctx := context.WithValue(r.Context(), auth.AccountContextKey, account)
	ctx = context.WithValue(ctx, auth.TokenContextKey, token)
	return r.WithContext(ctx)
}
