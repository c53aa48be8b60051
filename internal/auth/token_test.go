package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwicker/ledgerpass/internal/models"
	"github.com/mwicker/ledgerpass/internal/secrets"
)

func newTestTokenManager(store *secrets.Store, accessExpiry, refreshExpiry time.Duration) *TokenManager {
	return NewTokenManager(store, NewTokenCipher(store), accessExpiry, refreshExpiry)
}

func TestTokenManager_IssueAndValidateAccessToken(t *testing.T) {
	tm := newTestTokenManager(testSecretStore(), 15*time.Minute, 7*24*time.Hour)

	token, err := tm.IssueAccessToken("account-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tm.ValidateAccessToken(token)
	require.NoError(t, err)

	assert.Equal(t, "account-123", claims.UserID)
	assert.Equal(t, models.TokenKindAccess, claims.Type)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokenManager_IssueRefreshTokenIsSealed(t *testing.T) {
	tm := newTestTokenManager(testSecretStore(), 15*time.Minute, 7*24*time.Hour)

	sealed, err := tm.IssueRefreshToken("account-123")
	require.NoError(t, err)

	// Sealed records are iv:ciphertext, never a raw JWT
	assert.False(t, strings.HasPrefix(sealed, "eyJ"))
	assert.Contains(t, sealed, ":")

	claims, err := tm.ValidateSealedRefreshToken(sealed)
	require.NoError(t, err)
	assert.Equal(t, "account-123", claims.UserID)
	assert.Equal(t, models.TokenKindRefresh, claims.Type)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokenManager_ValidateExpiredToken(t *testing.T) {
	tm := newTestTokenManager(testSecretStore(), -1*time.Minute, 7*24*time.Hour)

	token, err := tm.IssueAccessToken("account-123")
	require.NoError(t, err)

	_, err = tm.ValidateAccessToken(token)
	assert.ErrorIs(t, err, models.ErrTokenExpired)
	assert.NotErrorIs(t, err, models.ErrInvalidSignature)
}

func TestTokenManager_ValidateWrongKey(t *testing.T) {
	tm := newTestTokenManager(testSecretStore(), 15*time.Minute, 7*24*time.Hour)

	token, err := tm.IssueAccessToken("account-123")
	require.NoError(t, err)

	other := secrets.NewStore(secrets.Secrets{
		AccessTokenSecret:  strings.Repeat("11", 32),
		RefreshTokenSecret: strings.Repeat("22", 32),
		EncryptionKey:      strings.Repeat("cc", 32),
	}, "")
	otherTM := newTestTokenManager(other, 15*time.Minute, 7*24*time.Hour)

	_, err = otherTM.ValidateAccessToken(token)
	assert.ErrorIs(t, err, models.ErrInvalidSignature)
}

func TestTokenManager_AccessKeyDoesNotValidateRefreshToken(t *testing.T) {
	store := testSecretStore()
	tm := newTestTokenManager(store, 15*time.Minute, 7*24*time.Hour)

	// A refresh token presented as an access token must be rejected even
	// before type checks, because the signing keys differ.
	sealed, err := tm.IssueRefreshToken("account-123")
	require.NoError(t, err)

	plaintext, err := NewTokenCipher(store).Open(sealed)
	require.NoError(t, err)

	_, err = tm.ValidateAccessToken(plaintext)
	assert.Error(t, err)
}

func TestTokenManager_RotationInvalidatesOutstandingTokens(t *testing.T) {
	store := testSecretStore()
	tm := newTestTokenManager(store, 15*time.Minute, 7*24*time.Hour)

	access, err := tm.IssueAccessToken("account-123")
	require.NoError(t, err)
	sealed, err := tm.IssueRefreshToken("account-123")
	require.NoError(t, err)

	_, err = store.Rotate()
	require.NoError(t, err)

	_, err = tm.ValidateAccessToken(access)
	assert.ErrorIs(t, err, models.ErrInvalidSignature)

	_, err = tm.ValidateSealedRefreshToken(sealed)
	assert.ErrorIs(t, err, models.ErrDecryption)
}

func TestTokenManager_ValidateGarbage(t *testing.T) {
	tm := newTestTokenManager(testSecretStore(), 15*time.Minute, 7*24*time.Hour)

	_, err := tm.ValidateAccessToken("not-a-token")
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}
