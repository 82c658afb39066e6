package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/redditclone/internal/common"
	"github.com/dmitrijs2005/redditclone/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newTestSigner(lifetime time.Duration) (*TokenSigner, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	return NewTokenSigner([]byte("super-secret"), lifetime, WithClock(clock.Now)), clock
}

func TestIssueAndVerify_Success(t *testing.T) {
	t.Parallel()

	s, clock := newTestSigner(15 * time.Minute)

	tok, err := s.Issue(&models.User{UserName: "alice"})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if want := clock.t.Add(15 * time.Minute); !tok.ExpiresAt.Equal(want) {
		t.Fatalf("expiresAt mismatch: got %v want %v", tok.ExpiresAt, want)
	}

	got, err := s.Verify(tok.Value)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if got != "alice" {
		t.Fatalf("subject mismatch: got %q want %q", got, "alice")
	}
}

func TestIssue_ExpiryIsIssuedAtPlusLifetime(t *testing.T) {
	t.Parallel()

	s, clock := newTestSigner(time.Hour)
	clock.t = clock.t.Add(750 * time.Millisecond)

	tok, err := s.IssueForUsername("bob")
	if err != nil {
		t.Fatalf("IssueForUsername error: %v", err)
	}

	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok.Value, claims); err != nil {
		t.Fatalf("ParseUnverified error: %v", err)
	}
	if d := claims.ExpiresAt.Sub(claims.IssuedAt.Time); d != time.Hour {
		t.Fatalf("exp - iat = %v, want %v", d, time.Hour)
	}
}

func TestVerify_ExpiredAtBoundary(t *testing.T) {
	t.Parallel()

	s, clock := newTestSigner(time.Minute)
	tok, err := s.IssueForUsername("carol")
	if err != nil {
		t.Fatalf("IssueForUsername error: %v", err)
	}

	clock.t = clock.t.Add(time.Minute - time.Second)
	if _, err := s.Verify(tok.Value); err != nil {
		t.Fatalf("token should still be valid: %v", err)
	}

	clock.t = clock.t.Add(time.Second)
	_, err = s.Verify(tok.Value)
	if !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected common.ErrTokenExpired, got %v", err)
	}
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expired token error should also match ErrInvalidToken")
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	s, _ := newTestSigner(time.Hour)
	other := NewTokenSigner([]byte("other-secret"), time.Hour)

	tok, err := other.IssueForUsername("dave")
	if err != nil {
		t.Fatalf("IssueForUsername error: %v", err)
	}

	if _, err := s.Verify(tok.Value); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	s, clock := newTestSigner(time.Hour)
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "eve",
		ExpiresAt: jwt.NewNumericDate(clock.t.Add(time.Hour)),
	}}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("super-secret"))
	if err != nil {
		t.Fatalf("sign HS512: %v", err)
	}
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	for name, tok := range map[string]string{"HS512": hs512, "none": none} {
		if _, err := s.Verify(tok); !errors.Is(err, common.ErrInvalidToken) {
			t.Fatalf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}

func TestVerify_RequiresExpiry(t *testing.T) {
	t.Parallel()

	s, _ := newTestSigner(time.Hour)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "frank"},
	}).SignedString([]byte("super-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := s.Verify(tok); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	s, _ := newTestSigner(time.Hour)
	for _, tok := range []string{"", "abc", "a.b.c", "Bearer x.y.z"} {
		if _, err := s.Verify(tok); !errors.Is(err, common.ErrInvalidToken) {
			t.Fatalf("%q: expected ErrInvalidToken, got %v", tok, err)
		}
	}
}

// Flipping any character inside a segment must invalidate the token. The
// final character of each segment is skipped because base64 may ignore its
// low bits.
func TestVerify_TamperedTokens(t *testing.T) {
	t.Parallel()

	s, _ := newTestSigner(time.Hour)
	tok, err := s.IssueForUsername("mallory")
	if err != nil {
		t.Fatalf("IssueForUsername error: %v", err)
	}

	for i := 0; i < len(tok.Value)-1; i++ {
		if tok.Value[i] == '.' || tok.Value[i+1] == '.' {
			continue
		}
		repl := byte('A')
		if tok.Value[i] == 'A' {
			repl = 'B'
		}
		tampered := tok.Value[:i] + string(repl) + tok.Value[i+1:]

		if _, err := s.Verify(tampered); err == nil {
			t.Fatalf("tampered token at %d accepted", i)
		}
	}
}

func TestVerify_EmptySubject(t *testing.T) {
	t.Parallel()

	s, _ := newTestSigner(time.Hour)
	tok, err := s.IssueForUsername("")
	if err != nil {
		t.Fatalf("IssueForUsername error: %v", err)
	}

	got, err := s.Verify(tok.Value)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty subject, got %q", got)
	}
	if strings.Count(tok.Value, ".") != 2 {
		t.Fatalf("expected compact JWS, got %q", tok.Value)
	}
}

func TestExpiryDuration(t *testing.T) {
	t.Parallel()

	s := NewTokenSigner([]byte("k"), 42*time.Second)
	if s.ExpiryDuration() != 42*time.Second {
		t.Fatalf("ExpiryDuration = %v", s.ExpiryDuration())
	}
}
