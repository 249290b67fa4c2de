package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/matchdayhq/matchday/internal/domain/user"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	manager, err := NewTokenManager("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("new token manager: %v", err)
	}
	issued := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	manager.now = func() time.Time { return issued }

	principal := user.Principal{UserID: "user-ana", Name: "Ana Souza", Email: "ana@example.com"}
	token, expiresAt, err := manager.IssueAccessToken(principal)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if !expiresAt.Equal(issued.Add(time.Hour)) {
		t.Fatalf("unexpected expiry %v", expiresAt)
	}

	got, err := manager.VerifyAccessToken(t.Context(), token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if got != principal {
		t.Fatalf("principal mismatch: got %+v", got)
	}
}

func TestTokenManager_Rejections(t *testing.T) {
	manager, err := NewTokenManager("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("new token manager: %v", err)
	}
	issued := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	manager.now = func() time.Time { return issued }

	token, _, err := manager.IssueAccessToken(user.Principal{UserID: "user-ana"})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	// Expired.
	manager.now = func() time.Time { return issued.Add(2 * time.Hour) }
	if _, err := manager.VerifyAccessToken(t.Context(), token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}

	// Wrong secret.
	other, err := NewTokenManager("other-secret", time.Hour)
	if err != nil {
		t.Fatalf("new token manager: %v", err)
	}
	if _, err := other.VerifyAccessToken(t.Context(), token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}

	if _, err := manager.VerifyAccessToken(t.Context(), "garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for garbage, got %v", err)
	}
}
