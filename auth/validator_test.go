package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	testSecret = "test-secret"
	testIssuer = "mailflow"
)

func signedToken(t *testing.T, secret string, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return token
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		wantToken  string
		wantErrSub string
	}{
		{"missing header", "", "", "missing Authorization header"},
		{"wrong scheme", "Basic dXNlcjpwYXNz", "", "Bearer"},
		{"no space after scheme", "BearerX", "", "Bearer"},
		{"empty token", "Bearer ", "", "empty bearer token"},
		{"well formed", "Bearer test-token-123", "test-token-123", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := ExtractToken(tt.header)
			if tt.wantErrSub == "" {
				if err != nil {
					t.Fatalf("ExtractToken(%q) error: %v", tt.header, err)
				}
				if token != tt.wantToken {
					t.Errorf("token = %q, want %q", token, tt.wantToken)
				}
				return
			}
			if err == nil {
				t.Fatalf("ExtractToken(%q) succeeded, want error containing %q", tt.header, tt.wantErrSub)
			}
			if !strings.Contains(err.Error(), tt.wantErrSub) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantErrSub)
			}
		})
	}
}

func TestJwtValidatorValid(t *testing.T) {
	validator := NewJwtValidator(testSecret, testIssuer)

	token := signedToken(t, testSecret, jwtClaims{
		Email: "ops@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-42",
			Issuer:    testIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := validator.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if claims.Subject != "user-42" {
		t.Errorf("subject = %q", claims.Subject)
	}
	if claims.Email != "ops@example.com" {
		t.Errorf("email = %q", claims.Email)
	}
}

func TestJwtValidatorRejections(t *testing.T) {
	validator := NewJwtValidator(testSecret, testIssuer)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-jwt"},
		{"wrong secret", signedToken(t, "other-secret", jwt.RegisteredClaims{
			Issuer:    testIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})},
		{"wrong issuer", signedToken(t, testSecret, jwt.RegisteredClaims{
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})},
		{"expired", signedToken(t, testSecret, jwt.RegisteredClaims{
			Issuer:    testIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		})},
		{"no expiry", signedToken(t, testSecret, jwt.RegisteredClaims{
			Issuer: testIssuer,
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := validator.Validate(tt.token); err == nil {
				t.Errorf("Validate() accepted a %s token", tt.name)
			}
		})
	}
}
