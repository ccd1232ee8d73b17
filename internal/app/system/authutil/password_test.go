package authutil

import (
	"errors"
	"testing"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{"valid short", "abc123x", nil},
		{"valid medium", "mySecurePassword", nil},
		{"valid with special chars", "P@ssw0rd!123", nil},
		{"valid with spaces", "my secret password", nil},

		{"common 123456", "123456", ErrPasswordCommon},
		{"common password", "password", ErrPasswordCommon},
		{"common PASSWORD uppercase", "PASSWORD", ErrPasswordCommon},
		{"common qwerty", "qwerty", ErrPasswordCommon},
		{"common iloveyou", "iloveyou", ErrPasswordCommon},
		{"common welcome", "welcome", ErrPasswordCommon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidatePassword(tt.password); !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidatePassword(%q) = %v, want %v", tt.password, err, tt.wantErr)
			}
		})
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "correct horse" {
		t.Fatal("HashPassword() returned the plain password")
	}
	if !CheckPassword("correct horse", hash) {
		t.Error("CheckPassword() = false for the right password")
	}
	if CheckPassword("wrong horse", hash) {
		t.Error("CheckPassword() = true for the wrong password")
	}
	if CheckPassword("correct horse", "not-a-hash") {
		t.Error("CheckPassword() = true for an invalid hash")
	}
}

func TestNewToken(t *testing.T) {
	a, err := NewToken()
	if err != nil {
		t.Fatalf("NewToken() error = %v", err)
	}
	b, _ := NewToken()
	if a == b {
		t.Error("NewToken() returned the same token twice")
	}
	if len(a) != 43 {
		t.Errorf("len(NewToken()) = %d, want 43", len(a))
	}
}

func TestHashToken(t *testing.T) {
	// sha256("abc")
	const want = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got := HashToken("abc"); got != want {
		t.Errorf("HashToken(abc) = %q, want %q", got, want)
	}
	if HashToken("abc") == HashToken("abd") {
		t.Error("HashToken collision on different inputs")
	}
}
