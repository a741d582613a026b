package auth

import (
	"errors"
	"testing"
	"time"
)

func TestIssueParseRoundTrip(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	token, err := m.Issue(42, "seller")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("userID=%d want 42", claims.UserID)
	}
	if claims.Role != "seller" {
		t.Fatalf("role=%q want seller", claims.Role)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := NewManager("secret-a", time.Hour).Issue(1, "buyer")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := NewManager("secret-b", time.Hour).Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err=%v want ErrInvalidToken", err)
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	m := NewManager("test-secret", -time.Minute)
	token, err := m.Issue(1, "buyer")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := m.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err=%v want ErrInvalidToken", err)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	for _, tokenStr := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := m.Parse(tokenStr); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("Parse(%q) err=%v want ErrInvalidToken", tokenStr, err)
		}
	}
}

func TestParseRejectsTamperedToken(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	token, err := m.Issue(1, "buyer")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	tampered := token[:len(token)-2] + "xx"
	if _, err := m.Parse(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err=%v want ErrInvalidToken", err)
	}
}

func TestPasswordHashVerify(t *testing.T) {
	hashed, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hashed == "password123" {
		t.Fatal("password stored in the clear")
	}
	if !VerifyPassword(hashed, "password123") {
		t.Fatal("correct password rejected")
	}
	if VerifyPassword(hashed, "wrong-password") {
		t.Fatal("wrong password accepted")
	}
}
