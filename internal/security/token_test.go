package security

import (
	"bytes"
	"testing"
	"time"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken("test-secret", 42, 7, "USER", time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := ParseAccessToken(token, "test-secret")
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.UserID != 42 || claims.SessionID != 7 || claims.Role != "USER" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAccessTokenWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken("secret-a", 1, 1, "USER", time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := ParseAccessToken(token, "secret-b"); err == nil {
		t.Fatal("expected verification with wrong secret to fail")
	}
}

func TestAccessTokenExpired(t *testing.T) {
	token, err := GenerateAccessToken("test-secret", 1, 1, "USER", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := ParseAccessToken(token, "test-secret"); err == nil {
		t.Fatal("expected expired token to fail")
	}
}

func TestRefreshTokenHash(t *testing.T) {
	token, hash, err := GenerateRefreshToken(64)
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	if !bytes.Equal(hash, HashRefreshToken(token)) {
		t.Fatal("stored hash does not match recomputed hash")
	}

	other, _, err := GenerateRefreshToken(64)
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	if other == token {
		t.Fatal("expected distinct refresh tokens")
	}
}
