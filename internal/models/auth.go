package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// Token kinds as recorded in the revocation ledger.
const (
	TokenKindAccess  = "access"
	TokenKindRefresh = "refresh"
)

type TokenClaims struct {
	Type   string `json:"type"`
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}
