package models

import "time"

// RevokedToken is a revocation ledger entry. TokenValue is unique; a token
// appears in the ledger at most once regardless of how often it is revoked.
type RevokedToken struct {
	ID         string
	TokenValue string
	TokenKind  string
	RevokedAt  time.Time
}
