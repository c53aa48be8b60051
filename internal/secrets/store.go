package secrets

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
)

const keyLength = 32 // 256 bits per secret

// Secrets holds the three symmetric secrets as 64-character hex strings.
type Secrets struct {
	AccessTokenSecret  string
	RefreshTokenSecret string
	EncryptionKey      string
}

// Store is a reloadable holder for the process-wide secrets. Readers always
// observe a consistent triple; Rotate swaps all three atomically and persists
// them to the env file so they survive restarts.
//
// Rotation invalidates every outstanding token: anything signed or sealed
// under the previous secrets fails verification or decryption afterwards.
type Store struct {
	current atomic.Pointer[Secrets]
	envPath string
}

// NewStore creates a Store seeded with the configured secrets. envPath names
// the durable configuration file rewritten on rotation; it may be empty for
// stores that never rotate (tests).
func NewStore(initial Secrets, envPath string) *Store {
	s := &Store{envPath: envPath}
	s.current.Store(&initial)
	return s
}

// Current returns the secrets in effect right now.
func (s *Store) Current() Secrets {
	return *s.current.Load()
}

// Rotate generates three fresh random secrets, persists them to the env file,
// and swaps them in. Each call produces new secrets; it is meant to run once
// per deployment lifecycle, not per request.
func (s *Store) Rotate() (Secrets, error) {
	next := Secrets{}
	var err error

	if next.AccessTokenSecret, err = generateSecret(); err != nil {
		return Secrets{}, fmt.Errorf("failed to generate access token secret: %w", err)
	}
	if next.RefreshTokenSecret, err = generateSecret(); err != nil {
		return Secrets{}, fmt.Errorf("failed to generate refresh token secret: %w", err)
	}
	if next.EncryptionKey, err = generateSecret(); err != nil {
		return Secrets{}, fmt.Errorf("failed to generate encryption key: %w", err)
	}

	if s.envPath != "" {
		if err := s.persist(next); err != nil {
			return Secrets{}, err
		}
	}

	s.current.Store(&next)
	return next, nil
}

// persist rewrites the secret lines in the env file, keeping everything else
// intact. The file is replaced via a temp file and rename so a crash mid-write
// never leaves a half-rotated store.
func (s *Store) persist(next Secrets) error {
	content, err := os.ReadFile(s.envPath)
	if err != nil {
		return fmt.Errorf("failed to read env file: %w", err)
	}

	replacements := map[string]string{
		"ACCESS_TOKEN_SECRET":  next.AccessTokenSecret,
		"REFRESH_TOKEN_SECRET": next.RefreshTokenSecret,
		"ENCRYPTION_KEY":       next.EncryptionKey,
	}

	lines := strings.Split(string(content), "\n")
	seen := make(map[string]bool)
	for i, line := range lines {
		for key, value := range replacements {
			if strings.HasPrefix(line, key+"=") {
				lines[i] = key + "=" + value
				seen[key] = true
			}
		}
	}
	for key, value := range replacements {
		if !seen[key] {
			lines = append(lines, key+"="+value)
		}
	}

	tmpPath := s.envPath + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(strings.Join(lines, "\n")), 0o600); err != nil {
		return fmt.Errorf("failed to write env file: %w", err)
	}
	if err := os.Rename(tmpPath, s.envPath); err != nil {
		return fmt.Errorf("failed to replace env file: %w", err)
	}

	return nil
}

func generateSecret() (string, error) {
	bytes := make([]byte, keyLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
