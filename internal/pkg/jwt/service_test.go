package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestService() *HMACService {
	return NewHMACService("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := newTestService()
	userID := uuid.New()

	tok, err := svc.GenerateAccessToken(userID, "jo@school.edu")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := svc.ValidateAccessToken(tok)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != userID || claims.Email != "jo@school.edu" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
	if claims.TokenType != TokenTypeAccess {
		t.Fatalf("unexpected token type %q", claims.TokenType)
	}
}

func TestRefreshTokenNotAcceptedAsAccess(t *testing.T) {
	svc := newTestService()

	refresh, err := svc.GenerateRefreshToken(uuid.New())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := svc.ValidateAccessToken(refresh); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
	if _, err := svc.ValidateRefreshToken(refresh); err != nil {
		t.Fatalf("refresh token rejected by its own validator: %v", err)
	}
}

func TestAccessTokenNotAcceptedAsRefresh(t *testing.T) {
	svc := newTestService()

	access, err := svc.GenerateAccessToken(uuid.New(), "")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := svc.ValidateRefreshToken(access); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestExpiredToken(t *testing.T) {
	svc := newTestService()
	svc.now = func() time.Time { return time.Now().Add(-time.Hour) }

	tok, err := svc.GenerateAccessToken(uuid.New(), "")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := NewHMACService("access-secret", "refresh-secret", 15*time.Minute, time.Hour).ValidateAccessToken(tok); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTamperedToken(t *testing.T) {
	svc := newTestService()

	tok, err := svc.GenerateAccessToken(uuid.New(), "")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	other := NewHMACService("different-secret", "refresh-secret", 15*time.Minute, time.Hour)
	if _, err := other.ValidateAccessToken(tok); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}
