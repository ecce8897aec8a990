package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/linkfeed/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

func TestIssueAndVerify_Success(t *testing.T) {
	t.Parallel()

	ts := NewTokenService([]byte("super-secret"), time.Hour)

	for _, id := range []int64{1, 42, 1 << 40} {
		tok, err := ts.Issue(id)
		if err != nil {
			t.Fatalf("Issue error: %v", err)
		}

		got, err := ts.Verify(tok)
		if err != nil {
			t.Fatalf("Verify error: %v", err)
		}
		if got != id {
			t.Fatalf("userID mismatch: got %d want %d", got, id)
		}
	}
}

func TestIssue_NoExpiryWhenValidityZero(t *testing.T) {
	t.Parallel()

	ts := NewTokenService([]byte("k"), 0)
	tok, err := ts.Issue(7)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		t.Fatalf("ParseUnverified error: %v", err)
	}
	if claims.ExpiresAt != nil {
		t.Fatalf("expected no exp claim, got %v", claims.ExpiresAt)
	}

	// far in the future the token is still accepted
	ts.now = func() time.Time { return time.Now().Add(100 * 365 * 24 * time.Hour) }
	if got, err := ts.Verify(tok); err != nil || got != 7 {
		t.Fatalf("Verify = %d, %v", got, err)
	}
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	ts := NewTokenService([]byte("secret"), time.Minute)
	tok, err := ts.Issue(1)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	ts.now = func() time.Time { return time.Now().Add(time.Hour) }

	_, err = ts.Verify(tok)
	if !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected common.ErrTokenExpired, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewTokenService([]byte("right-secret"), time.Hour).Issue(2)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = NewTokenService([]byte("wrong-secret"), time.Hour).Verify(tok)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	ts := NewTokenService([]byte("k"), time.Hour)
	for _, s := range []string{"", "not.a.jwt", "abc", strings.Repeat(".", 5)} {
		if _, err := ts.Verify(s); !errors.Is(err, common.ErrInvalidToken) {
			t.Fatalf("Verify(%q): expected ErrInvalidToken, got %v", s, err)
		}
	}
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{UserID: 3}).SignedString(secret)
	if err != nil {
		t.Fatalf("SignedString error: %v", err)
	}

	if _, err := NewTokenService(secret, time.Hour).Verify(tok); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for HS512 token, got %v", err)
	}
}

func TestVerify_RejectsMissingSubject(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{}).SignedString(secret)
	if err != nil {
		t.Fatalf("SignedString error: %v", err)
	}

	if _, err := NewTokenService(secret, time.Hour).Verify(tok); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
