package auth

import (
	"testing"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name       string
		password   string
		shouldFail bool
	}{
		{
			name:       "valid strong password",
			password:   "SecurePassword123",
			shouldFail: false,
		},
		{
			name:       "exactly minimum length",
			password:   "Abcdef12",
			shouldFail: false,
		},
		{
			name:       "too short",
			password:   "Abc1",
			shouldFail: true,
		},
		{
			name:       "missing uppercase",
			password:   "securepassword123",
			shouldFail: true,
		},
		{
			name:       "missing lowercase",
			password:   "SECUREPASSWORD123",
			shouldFail: true,
		},
		{
			name:       "missing digit",
			password:   "SecurePassword",
			shouldFail: true,
		},
		{
			name:       "empty",
			password:   "",
			shouldFail: true,
		},
		{
			name:       "too long",
			password:   "Aa1" + string(make([]byte, 130)),
			shouldFail: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)

			if tt.shouldFail && err == nil {
				t.Errorf("expected error, got nil")
			}
			if !tt.shouldFail && err != nil {
				t.Errorf("expected no error, got: %v", err)
			}
		})
	}
}

func TestHashAndComparePassword(t *testing.T) {
	password := "SecurePassword123"

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if hash == "" {
		t.Error("hash should not be empty")
	}

	if hash == password {
		t.Error("hash should not equal plaintext password")
	}

	if err := ComparePassword(hash, password); err != nil {
		t.Errorf("ComparePassword with correct password failed: %v", err)
	}

	if err := ComparePassword(hash, "WrongPassword123"); err == nil {
		t.Error("ComparePassword with wrong password should fail")
	}
}

func TestHashPassword_SaltedHashesDiffer(t *testing.T) {
	password := "SecurePassword123"

	first, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	second, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if first == second {
		t.Error("two hashes of the same password should differ (random salt)")
	}
}

func TestHashPassword_Empty(t *testing.T) {
	if _, err := HashPassword(""); err == nil {
		t.Error("expected error for empty password")
	}
}
