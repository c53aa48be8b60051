package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/mwicker/ledgerpass/internal/models"
	"github.com/mwicker/ledgerpass/internal/secrets"
)

// MockAccountRepository implements AccountRepository for testing
type MockAccountRepository struct {
	GetByIDFunc    func(ctx context.Context, id string) (*models.Account, error)
	GetByEmailFunc func(ctx context.Context, email string) (*models.Account, error)
	ListFunc       func(ctx context.Context, limit, offset int) ([]*models.Account, error)
	CreateFunc     func(ctx context.Context, account *models.Account) (*models.Account, error)
	UpdateFunc     func(ctx context.Context, account *models.Account) (*models.Account, error)
	DeleteFunc     func(ctx context.Context, id string) error
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockAccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, models.ErrNotFound
}

func (m *MockAccountRepository) List(ctx context.Context, limit, offset int) ([]*models.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	return []*models.Account{}, nil
}

func (m *MockAccountRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	return nil, models.ErrInternalServer
}

func (m *MockAccountRepository) Update(ctx context.Context, account *models.Account) (*models.Account, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, account)
	}
	return account, nil
}

func (m *MockAccountRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MemoryRevocationLedger is an in-memory TokenRevocationRepository with the
// same uniqueness semantics as the real table.
type MemoryRevocationLedger struct {
	mu      sync.Mutex
	entries map[string]string
}

func NewMemoryRevocationLedger() *MemoryRevocationLedger {
	return &MemoryRevocationLedger{entries: make(map[string]string)}
}

func (l *MemoryRevocationLedger) Revoke(ctx context.Context, tokenValue, tokenKind string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.entries[tokenValue]; exists {
		return models.ErrConflict
	}
	l.entries[tokenValue] = tokenKind
	return nil
}

func (l *MemoryRevocationLedger) IsRevoked(ctx context.Context, tokenValue string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, exists := l.entries[tokenValue]
	return exists, nil
}

func (l *MemoryRevocationLedger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// NewTestSecretStore returns a secret store with fixed test keys.
func NewTestSecretStore() *secrets.Store {
	return secrets.NewStore(secrets.Secrets{
		AccessTokenSecret:  strings.Repeat("aa", 32),
		RefreshTokenSecret: strings.Repeat("bb", 32),
		EncryptionKey:      strings.Repeat("cc", 32),
	}, "")
}

// NewTestAccount returns a customer account with sensible defaults.
func NewTestAccount(id, email string) *models.Account {
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
		PhotoURL:    "https://example.com/photo.jpg",
		Kind:        models.KindCustomer,
		Role:        models.RoleUser,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
