package helpers

import (
	"errors"
	"testing"
	"time"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewJWTManager("access", "refresh", time.Minute, time.Hour)

	tok, exp, err := m.GenerateAccessToken("acc-1", "admin", "sid-1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if time.Until(exp) > time.Minute || time.Until(exp) <= 0 {
		t.Fatalf("unexpected expiry %v", exp)
	}
	claims, err := m.ParseAccessToken(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.AccountID != "acc-1" || claims.Role != "admin" || claims.SessionID != "sid-1" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	m := NewJWTManager("access", "refresh", time.Minute, time.Hour)

	refresh, _, err := m.GenerateRefreshToken("acc-1", "member", "sid")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := m.ParseAccessToken(refresh); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("refresh token accepted as access token: %v", err)
	}
	if _, err := m.ParseRefreshToken(refresh); err != nil {
		t.Fatalf("refresh token rejected: %v", err)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	m := NewJWTManager("access", "refresh", -time.Second, time.Hour)

	tok, _, err := m.GenerateAccessToken("acc-1", "member", "sid")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := m.ParseAccessToken(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestWrongSecretRejected(t *testing.T) {
	a := NewJWTManager("one", "refresh", time.Minute, time.Hour)
	b := NewJWTManager("two", "refresh", time.Minute, time.Hour)

	tok, _, _ := a.GenerateAccessToken("acc-1", "member", "sid")
	if _, err := b.ParseAccessToken(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if _, err := a.ParseAccessToken("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for garbage, got %v", err)
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CompareHashAndPassword(hash, "s3cret!") {
		t.Fatal("matching password rejected")
	}
	if CompareHashAndPassword(hash, "wrong") {
		t.Fatal("wrong password accepted")
	}
	if CompareHashAndPassword("", "") {
		t.Fatal("empty hash must never match")
	}
}

func TestSessionKey(t *testing.T) {
	if got := SessionKey("abc"); got != "account:session:abc" {
		t.Fatalf("unexpected key %q", got)
	}
}
