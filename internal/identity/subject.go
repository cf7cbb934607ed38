// Package identity derives the caller's subject from an Authorization header.
package identity

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingAuthorization = errors.New("Missing Authorization header")
	ErrInvalidToken         = errors.New("Invalid JWT token")
)

// Extractor returns the subject named by an Authorization header value.
type Extractor interface {
	Subject(authorization string) (string, error)
}

// bearerToken returns the last whitespace-separated part of the header, so
// both "Bearer <jwt>" and a bare "<jwt>" are accepted.
func bearerToken(authorization string) (string, error) {
	parts := strings.Fields(authorization)
	if len(parts) == 0 {
		return "", ErrMissingAuthorization
	}
	return parts[len(parts)-1], nil
}

func subjectOf(claims jwt.Claims) (string, error) {
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}

type unverified struct {
	parser *jwt.Parser
}

// Unverified decodes tokens without checking their signature or expiry.
// Anyone can mint a token for any subject; use Verified where that matters.
func Unverified() Extractor {
	return unverified{parser: jwt.NewParser()}
}

func (u unverified) Subject(authorization string) (string, error) {
	raw, err := bearerToken(authorization)
	if err != nil {
		return "", err
	}
	claims := jwt.MapClaims{}
	if _, _, err := u.parser.ParseUnverified(raw, claims); err != nil {
		return "", ErrInvalidToken
	}
	return subjectOf(claims)
}

type verified struct {
	secret []byte
	parser *jwt.Parser
}

// Verified checks an HMAC signature against secret and rejects expired
// tokens before reading the subject.
func Verified(secret []byte) Extractor {
	return verified{
		secret: secret,
		parser: jwt.NewParser(jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"})),
	}
}

func (v verified) Subject(authorization string) (string, error) {
	raw, err := bearerToken(authorization)
	if err != nil {
		return "", err
	}
	claims := jwt.MapClaims{}
	_, err = v.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return "", ErrInvalidToken
	}
	return subjectOf(claims)
}

// New returns Verified(secret) when a secret is configured and Unverified
// otherwise.
func New(secret string) Extractor {
	if secret == "" {
		return Unverified()
	}
	return Verified([]byte(secret))
}
