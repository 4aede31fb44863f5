package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"valid bearer", "Bearer abc123", "abc123", false},
		{"case insensitive scheme", "bearer abc123", "abc123", false},
		{"empty header", "", "", true},
		{"missing token", "Bearer ", "", true},
		{"wrong scheme", "Basic abc123", "", true},
		{"no scheme", "abc123", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractToken(tt.header)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("token = %q, want %q", got, tt.want)
			}
		})
	}
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return signed
}

func TestVerifyAccessToken(t *testing.T) {
	const secret = "test-secret"
	verifier, err := NewJWTVerifier(secret)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("valid token", func(t *testing.T) {
		signed := signToken(t, secret, jwt.MapClaims{
			"sub":   "user-42",
			"email": "op@example.com",
			"exp":   time.Now().Add(time.Hour).Unix(),
		})
		user, err := verifier.VerifyAccessToken(signed)
		if err != nil {
			t.Fatalf("VerifyAccessToken: %v", err)
		}
		if user.ID != "user-42" || user.Email != "op@example.com" {
			t.Errorf("user = %+v", user)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		signed := signToken(t, secret, jwt.MapClaims{
			"sub": "user-42",
			"exp": time.Now().Add(-time.Hour).Unix(),
		})
		if _, err := verifier.VerifyAccessToken(signed); err == nil {
			t.Error("expected expiry error")
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		signed := signToken(t, "other-secret", jwt.MapClaims{
			"sub": "user-42",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		if _, err := verifier.VerifyAccessToken(signed); err == nil {
			t.Error("expected signature error")
		}
	})

	t.Run("missing subject", func(t *testing.T) {
		signed := signToken(t, secret, jwt.MapClaims{
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		if _, err := verifier.VerifyAccessToken(signed); err == nil {
			t.Error("expected missing subject error")
		}
	})
}

func TestNewJWTVerifierRequiresSecret(t *testing.T) {
	if _, err := NewJWTVerifier(""); err == nil {
		t.Error("expected an error for empty secret")
	}
}
