package auth

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/mwicker/ledgerpass/internal/models"
	"github.com/mwicker/ledgerpass/internal/secrets"
)

const ivLength = 16

// TokenCipher seals refresh tokens for at-rest storage with AES-256-CBC.
// The record format is "iv:ciphertext", both hex-encoded. CBC carries no
// integrity tag; tampering detection relies on the JWT signature inside.
type TokenCipher struct {
	secrets *secrets.Store
}

// NewTokenCipher creates a TokenCipher bound to the secret store.
func NewTokenCipher(store *secrets.Store) *TokenCipher {
	return &TokenCipher{secrets: store}
}

// Seal encrypts a plaintext token under the current encryption key with a
// fresh random IV per call.
func (c *TokenCipher) Seal(plaintext string) (string, error) {
	block, err := c.newBlock()
	if err != nil {
		return "", err
	}

	iv := make([]byte, ivLength)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("failed to generate iv: %w", err)
	}

	padded := padPKCS7([]byte(plaintext), aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(ciphertext), nil
}

// Open decrypts a sealed record. It fails with models.ErrDecryption if the
// record is malformed, the ciphertext is corrupt, or the key no longer
// matches (after secret rotation).
func (c *TokenCipher) Open(record string) (string, error) {
	parts := strings.SplitN(record, ":", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("%w: missing separator", models.ErrDecryption)
	}

	iv, err := hex.DecodeString(parts[0])
	if err != nil || len(iv) != ivLength {
		return "", fmt.Errorf("%w: malformed iv", models.ErrDecryption)
	}

	ciphertext, err := hex.DecodeString(parts[1])
	if err != nil || len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", fmt.Errorf("%w: malformed ciphertext", models.ErrDecryption)
	}

	block, err := c.newBlock()
	if err != nil {
		return "", err
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	unpadded, err := unpadPKCS7(plaintext, aes.BlockSize)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrDecryption, err)
	}

	return string(unpadded), nil
}

func (c *TokenCipher) newBlock() (cipher.Block, error) {
	key, err := hex.DecodeString(c.secrets.Current().EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("invalid encryption key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	return block, nil
}

func padPKCS7(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(padding)}, padding)...)
}

func unpadPKCS7(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("invalid padded length")
	}

	padding := int(data[len(data)-1])
	if padding == 0 || padding > blockSize || padding > len(data) {
		return nil, fmt.Errorf("invalid padding")
	}

	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, fmt.Errorf("invalid padding")
		}
	}

	return data[:len(data)-padding], nil
}
