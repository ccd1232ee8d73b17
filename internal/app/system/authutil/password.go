// internal/app/system/authutil/password.go

// Package authutil holds password hashing, the common-password check, and
// the one-time tokens used in confirmation links.
package authutil

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor for stored password hashes.
const BcryptCost = 12

// ErrPasswordCommon is returned for passwords on the blocked list. The text
// is shown to the visitor as the password field error.
var ErrPasswordCommon = errors.New("This password is too common. Please choose a different one.")

var commonPasswords = toSet(
	"123456", "1234567", "12345678", "123456789", "123123", "654321",
	"111111", "000000", "abc123", "abcdef",
	"password", "password1", "qwerty", "qwerty123", "letmein", "welcome",
	"login", "admin", "iloveyou", "princess", "sunshine", "monkey",
	"dragon", "master", "football", "baseball", "soccer", "hockey",
	"batman", "superman",
)

func toSet(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// ValidatePassword rejects passwords on the common list, ignoring case.
// Length is checked earlier by formcheck.Password.
func ValidatePassword(password string) error {
	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		return ErrPasswordCommon
	}
	return nil
}

// HashPassword returns the bcrypt hash stored on the account.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	return string(hash), err
}

// CheckPassword reports whether password matches hash. A malformed hash
// never matches.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
