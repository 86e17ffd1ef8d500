package auth

import (
	"context"
	"errors"
	"strings"
	"testing"

	"shopledger/internal/core"
	"shopledger/internal/storage"
)

type fakeUserSource struct {
	users map[string]core.User
	err   error
}

func (f *fakeUserSource) GetUser(_ context.Context, username string) (core.User, error) {
	if f.err != nil {
		return core.User{}, f.err
	}
	u, ok := f.users[username]
	if !ok {
		return core.User{}, storage.ErrNotFound
	}
	return u, nil
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !strings.HasPrefix(hash, "sha256$") {
		t.Fatalf("unexpected hash format: %s", hash)
	}
	if !VerifyPassword("s3cret", hash) {
		t.Fatal("correct password must verify")
	}
	if VerifyPassword("wrong", hash) {
		t.Fatal("wrong password must not verify")
	}

	// distinct salts: two hashes of the same password differ
	hash2, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == hash2 {
		t.Fatal("hashes must carry distinct salts")
	}
}

func TestVerifyPasswordRejectsMalformedStoredHash(t *testing.T) {
	cases := []string{
		"",
		"sha256$deadbeef",            // missing digest
		"md5$00$00",                  // wrong scheme
		"sha256$zz$00",               // bad salt hex
		"sha256$00$zz",               // bad digest hex
		"sha256$00$00",               // digest too short
		"plaintextpassword",          // legacy value, no scheme
		"sha256$$" + strings.Repeat("0", 64) + "$extra",
	}
	for _, stored := range cases {
		if VerifyPassword("anything", stored) {
			t.Errorf("malformed stored hash %q must not verify", stored)
		}
	}
}

func TestAuthenticate(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	source := &fakeUserSource{users: map[string]core.User{
		"olga": {ID: 1, Username: "olga", PasswordHash: hash, Role: core.RoleAdmin},
	}}
	v := NewVerifier(source)

	t.Run("success", func(t *testing.T) {
		user, err := v.Authenticate(context.Background(), "olga", "correct horse")
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if user.Role != core.RoleAdmin {
			t.Fatalf("expected admin role, got %s", user.Role)
		}
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := v.Authenticate(context.Background(), "nobody", "whatever")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("wrong password for existing user", func(t *testing.T) {
		_, err := v.Authenticate(context.Background(), "olga", "wrong")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("empty credentials", func(t *testing.T) {
		if _, err := v.Authenticate(context.Background(), "", ""); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("connectivity failure is not invalid credentials", func(t *testing.T) {
		broken := NewVerifier(&fakeUserSource{err: errors.New("connection refused")})
		_, err := broken.Authenticate(context.Background(), "olga", "correct horse")
		if err == nil || errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected wrapped connectivity error, got %v", err)
		}
	})
}
