package utils

import (
	"testing"
	"time"

	"dormify/config"
)

func TestTokenRoundTrip(t *testing.T) {
	config.AppConfig.JWTSecret = "unit-test-secret"

	token, err := GenerateToken("64f1c2d3e4a5b6c7d8e9f0a1", "a@example.edu", RoleUser, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	sub, role, err := ExtractClaims(token)
	if err != nil {
		t.Fatalf("ExtractClaims: %v", err)
	}
	if sub != "64f1c2d3e4a5b6c7d8e9f0a1" {
		t.Errorf("subject = %q", sub)
	}
	if role != RoleUser {
		t.Errorf("role = %q, want %q", role, RoleUser)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	config.AppConfig.JWTSecret = "unit-test-secret"

	token, err := GenerateToken("someone", "a@example.edu", RoleUser, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, _, err := ExtractClaims(token); err == nil {
		t.Fatal("an expired token must not validate")
	}
}

func TestForeignSecretRejected(t *testing.T) {
	config.AppConfig.JWTSecret = "unit-test-secret"
	token, err := GenerateToken("someone", "a@example.edu", RoleAdmin, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	config.AppConfig.JWTSecret = "a-different-secret"
	if _, _, err := ExtractClaims(token); err == nil {
		t.Fatal("a token signed under another secret must not validate")
	}
}

func TestHashTokenStable(t *testing.T) {
	if HashToken("abc") != HashToken("abc") {
		t.Error("hashing the same token twice must agree")
	}
	if HashToken("abc") == HashToken("abd") {
		t.Error("different tokens must hash differently")
	}
	if got := len(HashToken("abc")); got != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", got)
	}
}
