package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "0123456789abcdef-secret"

func TestHashAndVerifyPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if hash == "hunter22" || !strings.HasPrefix(hash, "$2a$10$") {
		t.Fatalf("unexpected hash format: %q", hash)
	}
	if !VerifyPassword("hunter22", hash) {
		t.Fatalf("expected password to verify")
	}
	if VerifyPassword("hunter23", hash) {
		t.Fatalf("expected wrong password to fail")
	}
	if VerifyPassword("hunter22", "not-a-bcrypt-hash") {
		t.Fatalf("expected malformed hash to fail")
	}
}

func TestHashPasswordIsSalted(t *testing.T) {
	t.Parallel()

	a, _ := HashPassword("same")
	b, _ := HashPassword("same")
	if a == b {
		t.Fatalf("expected different hashes for the same password")
	}
}

func TestIssueAndVerify(t *testing.T) {
	t.Parallel()

	tokens := NewTokens(testSecret, 0)
	tok, err := tokens.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	got, err := tokens.Verify(tok)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if got != "user-123" {
		t.Fatalf("user id mismatch: got %q want %q", got, "user-123")
	}
}

func TestIssueSetsOneHourExpiry(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tokens := NewTokens(testSecret, 0).WithClock(func() time.Time { return now })

	tok, err := tokens.Issue("u1")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		t.Fatalf("ParseUnverified error: %v", err)
	}
	if !claims.IssuedAt.Time.Equal(now) {
		t.Fatalf("iat = %v, want %v", claims.IssuedAt.Time, now)
	}
	if !claims.ExpiresAt.Time.Equal(now.Add(time.Hour)) {
		t.Fatalf("exp = %v, want %v", claims.ExpiresAt.Time, now.Add(time.Hour))
	}
}

func TestVerifyExpired(t *testing.T) {
	t.Parallel()

	issued := time.Now().Add(-2 * time.Hour)
	old := NewTokens(testSecret, 0).WithClock(func() time.Time { return issued })

	tok, err := old.Issue("u1")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := NewTokens(testSecret, 0).Verify(tok); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewTokens("right-secret-0123456", 0).Issue("u2")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = NewTokens("wrong-secret-0123456", 0).Verify(tok)
	if err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if strings.Contains(err.Error(), "secret") {
		t.Fatalf("error leaks signing details: %v", err)
	}
}

func TestVerifyRejectsOtherSigningMethods(t *testing.T) {
	t.Parallel()

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID: "u3",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	tok, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("SignedString error: %v", err)
	}

	if _, err := NewTokens(testSecret, 0).Verify(tok); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyMalformed(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "not.a.jwt", "garbage"} {
		if _, err := NewTokens(testSecret, 0).Verify(raw); err != ErrInvalidToken {
			t.Fatalf("Verify(%q): expected ErrInvalidToken, got %v", raw, err)
		}
	}
}

func TestIssueRequiresUserID(t *testing.T) {
	t.Parallel()

	if _, err := NewTokens(testSecret, 0).Issue(""); err == nil {
		t.Fatalf("expected error for empty user id")
	}
}
