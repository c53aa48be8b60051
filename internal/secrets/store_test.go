package secrets

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSecrets() Secrets {
	return Secrets{
		AccessTokenSecret:  strings.Repeat("aa", 32),
		RefreshTokenSecret: strings.Repeat("bb", 32),
		EncryptionKey:      strings.Repeat("cc", 32),
	}
}

func TestStore_Current(t *testing.T) {
	store := NewStore(testSecrets(), "")

	got := store.Current()
	assert.Equal(t, strings.Repeat("aa", 32), got.AccessTokenSecret)
	assert.Equal(t, strings.Repeat("cc", 32), got.EncryptionKey)
}

func TestStore_Rotate_ReplacesAllSecrets(t *testing.T) {
	before := testSecrets()
	store := NewStore(before, "")

	after, err := store.Rotate()
	require.NoError(t, err)

	assert.NotEqual(t, before.AccessTokenSecret, after.AccessTokenSecret)
	assert.NotEqual(t, before.RefreshTokenSecret, after.RefreshTokenSecret)
	assert.NotEqual(t, before.EncryptionKey, after.EncryptionKey)
	assert.Equal(t, after, store.Current())

	for _, secret := range []string{after.AccessTokenSecret, after.RefreshTokenSecret, after.EncryptionKey} {
		raw, err := hex.DecodeString(secret)
		require.NoError(t, err)
		assert.Len(t, raw, 32)
	}
}

func TestStore_Rotate_EachCallProducesNewSecrets(t *testing.T) {
	store := NewStore(testSecrets(), "")

	first, err := store.Rotate()
	require.NoError(t, err)

	second, err := store.Rotate()
	require.NoError(t, err)

	assert.NotEqual(t, first.AccessTokenSecret, second.AccessTokenSecret)
}

func TestStore_Rotate_RewritesEnvFile(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), ".env")
	initial := "DB_HOST=localhost\nACCESS_TOKEN_SECRET=old\nREFRESH_TOKEN_SECRET=old\nENCRYPTION_KEY=old\nPORT=8080\n"
	require.NoError(t, os.WriteFile(envPath, []byte(initial), 0o600))

	store := NewStore(testSecrets(), envPath)
	next, err := store.Rotate()
	require.NoError(t, err)

	content, err := os.ReadFile(envPath)
	require.NoError(t, err)

	text := string(content)
	assert.Contains(t, text, "ACCESS_TOKEN_SECRET="+next.AccessTokenSecret)
	assert.Contains(t, text, "REFRESH_TOKEN_SECRET="+next.RefreshTokenSecret)
	assert.Contains(t, text, "ENCRYPTION_KEY="+next.EncryptionKey)
	assert.NotContains(t, text, "SECRET=old")

	// Unrelated keys survive the rewrite
	assert.Contains(t, text, "DB_HOST=localhost")
	assert.Contains(t, text, "PORT=8080")
}

func TestStore_Rotate_AppendsMissingKeys(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("DB_HOST=localhost\n"), 0o600))

	store := NewStore(testSecrets(), envPath)
	next, err := store.Rotate()
	require.NoError(t, err)

	content, err := os.ReadFile(envPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "ENCRYPTION_KEY="+next.EncryptionKey)
}

func TestStore_Rotate_MissingEnvFile(t *testing.T) {
	store := NewStore(testSecrets(), filepath.Join(t.TempDir(), "does-not-exist.env"))

	_, err := store.Rotate()
	assert.Error(t, err)

	// A failed rotation must not swap in new secrets
	assert.Equal(t, testSecrets(), store.Current())
}
