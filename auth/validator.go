package auth

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

const bearerPrefix = "Bearer "

// Claims is the identity a validated credential carries. It lives in the
// request context for exactly one request.
type Claims struct {
	Subject string
	Email   string
}

// Validator verifies a bearer credential and produces identity claims.
type Validator interface {
	Validate(token string) (*Claims, error)
}

// ExtractToken pulls the raw token out of an Authorization header value.
// The failure reasons are distinct on purpose: they are not sensitive and
// callers get them verbatim.
func ExtractToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", fmt.Errorf("missing Authorization header")
	}
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return "", fmt.Errorf("Authorization header must use the Bearer scheme")
	}
	token := strings.TrimPrefix(authHeader, bearerPrefix)
	if token == "" {
		return "", fmt.Errorf("empty bearer token")
	}
	return token, nil
}

type jwtClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JwtValidator verifies HMAC-signed tokens: signature, expiry and issuer.
type JwtValidator struct {
	secret []byte
	issuer string
}

func NewJwtValidator(secret string, issuer string) *JwtValidator {
	return &JwtValidator{
		secret: []byte(secret),
		issuer: issuer,
	}
}

func (jv *JwtValidator) Validate(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwtClaims{}, jv.keyFunc,
		jwt.WithIssuer(jv.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	claims, ok := parsed.Claims.(*jwtClaims)
	if !ok {
		return nil, fmt.Errorf("unexpected claims type")
	}

	return &Claims{
		Subject: claims.Subject,
		Email:   claims.Email,
	}, nil
}

func (jv *JwtValidator) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
	}
	return jv.secret, nil
}
