// Package signer issues time-limited, tamper-proof tokens such as the e-mail
// confirmation link.
package signer

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sgea/academic-events/internal/core/domain"
)

const defaultAudience = "email-confirmation"

// JWTSigner signs payloads as HS256 tokens carrying the payload in "sub" and
// the signing time in "iat". Age is checked against maxAge on Unsign, so a
// single token format serves any validity window.
type JWTSigner struct {
	secret   []byte
	audience string
	now      func() time.Time
}

func New(secret string) *JWTSigner {
	return &JWTSigner{secret: []byte(secret), audience: defaultAudience, now: time.Now}
}

func (s *JWTSigner) Sign(payload string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:  payload,
		Audience: jwt.ClaimStrings{s.audience},
		IssuedAt: jwt.NewNumericDate(s.now()),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Unsign verifies token and returns its payload. The signature is checked
// before the age, so a forged token is reported as invalid even when old.
func (s *JWTSigner) Unsign(token string, maxAge time.Duration) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(s.audience),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTokenInvalid, err)
	}
	if claims.IssuedAt == nil || claims.Subject == "" {
		return "", domain.ErrTokenInvalid
	}
	if s.now().Sub(claims.IssuedAt.Time) > maxAge {
		return "", domain.ErrTokenExpired
	}
	return claims.Subject, nil
}
