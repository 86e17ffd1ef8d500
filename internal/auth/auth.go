// Package auth verifies submitted credentials against stored user records.
//
// Stored hashes use the form sha256$<salt-hex>$<digest-hex> where the digest
// is SHA-256 over salt bytes followed by the password bytes. Verification
// hashes the candidate password and compares digests in constant time, so a
// wrong password fails even when the username exists.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"shopledger/internal/core"
	"shopledger/internal/storage"
)

// ErrInvalidCredentials covers both a missing user and a wrong password;
// callers cannot distinguish the two. Only connectivity failures surface as
// a different error.
var ErrInvalidCredentials = errors.New("invalid username or password")

const (
	scheme   = "sha256"
	saltSize = 16
)

// UserSource is the read-only lookup the verifier needs from the store.
type UserSource interface {
	GetUser(ctx context.Context, username string) (core.User, error)
}

// Verifier authenticates credential pairs against a user source.
type Verifier struct {
	users UserSource
}

func NewVerifier(users UserSource) *Verifier {
	return &Verifier{users: users}
}

// Authenticate returns the matching user record when the credential pair is
// valid and ErrInvalidCredentials otherwise.
func (v *Verifier) Authenticate(ctx context.Context, username, password string) (core.User, error) {
	if username == "" || password == "" {
		return core.User{}, ErrInvalidCredentials
	}

	user, err := v.users.GetUser(ctx, username)
	if errors.Is(err, storage.ErrNotFound) {
		return core.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return core.User{}, fmt.Errorf("look up user: %w", err)
	}

	if !VerifyPassword(password, user.PasswordHash) {
		return core.User{}, ErrInvalidCredentials
	}
	if !user.Role.IsValid() {
		return core.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// HashPassword produces a salted hash for provisioning user records.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	return scheme + "$" + hex.EncodeToString(salt) + "$" + hex.EncodeToString(digest(salt, password)), nil
}

// VerifyPassword reports whether the candidate password matches the stored
// hash. Comparison is constant time over the digest.
func VerifyPassword(candidate, stored string) bool {
	parts := strings.Split(stored, "$")
	if len(parts) != 3 || parts[0] != scheme {
		return false
	}
	salt, err := hex.DecodeString(parts[1])
	if err != nil {
		return false
	}
	want, err := hex.DecodeString(parts[2])
	if err != nil || len(want) != sha256.Size {
		return false
	}
	return subtle.ConstantTimeCompare(digest(salt, candidate), want) == 1
}

func digest(salt []byte, password string) []byte {
	h := sha256.New()
	h.Write(salt)
	h.Write([]byte(password))
	return h.Sum(nil)
}
