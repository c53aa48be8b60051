package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mwicker/ledgerpass/internal/models"
	"github.com/mwicker/ledgerpass/internal/secrets"
)

// TokenManager issues and validates the two token kinds. Access and refresh
// tokens are signed with separate keys read from the secret store on every
// operation, so a rotation takes effect immediately. Refresh tokens leave
// this package only in sealed form.
type TokenManager struct {
	secrets            *secrets.Store
	cipher             *TokenCipher
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
}

// NewTokenManager creates a new TokenManager.
func NewTokenManager(store *secrets.Store, cipher *TokenCipher, accessExpiry, refreshExpiry time.Duration) *TokenManager {
	return &TokenManager{
		secrets:            store,
		cipher:             cipher,
		accessTokenExpiry:  accessExpiry,
		refreshTokenExpiry: refreshExpiry,
	}
}

// IssueAccessToken creates a short-lived access token for the account.
func (tm *TokenManager) IssueAccessToken(accountID string) (string, error) {
	token, err := tm.sign(accountID, models.TokenKindAccess, tm.accessTokenExpiry, tm.secrets.Current().AccessTokenSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return token, nil
}

// IssueRefreshToken creates a long-lived refresh token and seals it. The
// plaintext token never escapes this method.
func (tm *TokenManager) IssueRefreshToken(accountID string) (string, error) {
	token, err := tm.sign(accountID, models.TokenKindRefresh, tm.refreshTokenExpiry, tm.secrets.Current().RefreshTokenSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign refresh token: %w", err)
	}

	sealed, err := tm.cipher.Seal(token)
	if err != nil {
		return "", fmt.Errorf("failed to seal refresh token: %w", err)
	}

	return sealed, nil
}

// ValidateAccessToken verifies signature and expiry of an access token.
func (tm *TokenManager) ValidateAccessToken(tokenString string) (*models.TokenClaims, error) {
	return tm.validate(tokenString, models.TokenKindAccess, tm.secrets.Current().AccessTokenSecret)
}

// ValidateSealedRefreshToken opens a sealed refresh record and verifies the
// token inside.
func (tm *TokenManager) ValidateSealedRefreshToken(sealed string) (*models.TokenClaims, error) {
	plaintext, err := tm.cipher.Open(sealed)
	if err != nil {
		return nil, err
	}
	return tm.validate(plaintext, models.TokenKindRefresh, tm.secrets.Current().RefreshTokenSecret)
}

func (tm *TokenManager) sign(accountID, kind string, expiry time.Duration, secret string) (string, error) {
	now := time.Now()
	claims := &models.TokenClaims{
		Type:   kind,
		UserID: accountID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// validate parses a token and maps jwt failures onto the two distinct error
// kinds callers care about: expiry and bad signature.
func (tm *TokenManager) validate(tokenString, kind, secret string) (*models.TokenClaims, error) {
	claims := &models.TokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, models.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, models.ErrInvalidSignature
		default:
			return nil, fmt.Errorf("%w: %v", models.ErrUnauthorized, err)
		}
	}

	if !token.Valid {
		return nil, models.ErrUnauthorized
	}

	if claims.Type != kind {
		return nil, fmt.Errorf("%w: wrong token type", models.ErrUnauthorized)
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing subject", models.ErrUnauthorized)
	}

	return claims, nil
}
