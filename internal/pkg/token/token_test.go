package token

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/geotrail/location-log/internal/core/domain"
)

func newTestCodec(secret string, now time.Time) *Codec {
	c := NewCodec(secret)
	c.now = func() time.Time { return now }
	return c
}

func TestCodec_RoundTrip(t *testing.T) {
	c := NewCodec("secret")
	user := &domain.User{ID: "42", Email: "a@example.com", Name: "Alice"}

	signed, err := c.Issue(user)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := c.Verify(signed)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID() != "42" {
		t.Fatalf("expected subject 42, got %q", claims.UserID())
	}
	if claims.Email != "a@example.com" || claims.Name != "Alice" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestCodec_ExpiresAfterSevenDays(t *testing.T) {
	issued := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	signed, err := newTestCodec("secret", issued).Issue(&domain.User{ID: "1"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := newTestCodec("secret", issued.Add(TTL-time.Minute)).Verify(signed)
	if err != nil {
		t.Fatalf("expected token valid just before expiry: %v", err)
	}
	if !claims.ExpiresAt.Time.Equal(issued.Add(TTL)) {
		t.Fatalf("unexpected exp: %v", claims.ExpiresAt.Time)
	}

	if _, err := newTestCodec("secret", issued.Add(TTL+time.Minute)).Verify(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after expiry, got %v", err)
	}
}

func TestCodec_WrongSecret(t *testing.T) {
	signed, _ := NewCodec("secret").Issue(&domain.User{ID: "1"})
	if _, err := NewCodec("other").Verify(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestCodec_Malformed(t *testing.T) {
	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := NewCodec("secret").Verify(raw); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("%q: expected ErrInvalidToken, got %v", raw, err)
		}
	}
}

func TestCodec_RejectsOtherAlgorithms(t *testing.T) {
	tkn := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := tkn.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := NewCodec("secret").Verify(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestCodec_RequiresExpiry(t *testing.T) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "1"}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := NewCodec("secret").Verify(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestCodec_TamperedPayload(t *testing.T) {
	signed, _ := NewCodec("secret").Issue(&domain.User{ID: "1"})
	parts := strings.Split(signed, ".")
	parts[1] = parts[1] + "x"
	if _, err := NewCodec("secret").Verify(strings.Join(parts, ".")); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
