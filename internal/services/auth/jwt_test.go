package auth

import (
	"errors"
	"testing"
	"time"
)

func TestGenerateAndParseAccessToken(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	manager.now = func() time.Time { return issued }

	raw, expiresAt, err := manager.GenerateAccessToken(42, "MODERATOR")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !expiresAt.Equal(issued.Add(time.Hour)) {
		t.Fatalf("unexpected expiry: %v", expiresAt)
	}

	claims, err := manager.ParseAccessToken(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 42 || claims.Role != "MODERATOR" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestGenerateAccessTokenRejectsBadUserID(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)

	if _, _, err := manager.GenerateAccessToken(0, "OWNER"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Minute)
	manager.now = func() time.Time { return time.Now().Add(-2 * time.Minute) }

	raw, _, err := manager.GenerateAccessToken(42, "OWNER")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := manager.ParseAccessToken(raw); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewJWTManager("secret-a", time.Hour)
	verifier := NewJWTManager("secret-b", time.Hour)

	raw, _, err := issuer.GenerateAccessToken(42, "OWNER")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := verifier.ParseAccessToken(raw); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestParseAccessTokenRejectsEmpty(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)

	if _, err := manager.ParseAccessToken("  "); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
