package jwthelper

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken       = errors.New("missing token")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token expired")
	ErrUnsupportedMethod  = errors.New("unsupported signing method")
	ErrEmptySubject       = errors.New("token subject is empty")
	ErrNonPositiveTTL     = errors.New("token ttl must be positive")
	ErrEmptySigningSecret = errors.New("signing secret is empty")
)

// Claims carries the user's email as the registered subject.
type Claims struct {
	jwt.RegisteredClaims
}

type Token struct {
	Value     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TTL is the lifetime the token was issued with.
func (t Token) TTL() time.Duration {
	return t.ExpiresAt.Sub(t.IssuedAt)
}

// Issuer signs and verifies stateless HMAC access tokens. There is no
// revocation list: a token stays valid until it expires.
type Issuer struct {
	secret []byte
	method *jwt.SigningMethodHMAC
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*Issuer)

// WithClock replaces time.Now for issuing and verifying.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) {
		i.now = now
	}
}

func NewIssuer(secret []byte, algorithm string, ttl time.Duration, opts ...Option) (*Issuer, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySigningSecret
	}
	if ttl <= 0 {
		return nil, ErrNonPositiveTTL
	}

	method, ok := jwt.GetSigningMethod(strings.ToUpper(algorithm)).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMethod, algorithm)
	}

	i := &Issuer{
		secret: secret,
		method: method,
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}

	return i, nil
}

func (i *Issuer) Issue(subject string) (Token, error) {
	return i.IssueWithTTL(subject, i.ttl)
}

func (i *Issuer) IssueWithTTL(subject string, ttl time.Duration) (Token, error) {
	if strings.TrimSpace(subject) == "" {
		return Token{}, ErrEmptySubject
	}
	if ttl <= 0 {
		return Token{}, ErrNonPositiveTTL
	}

	issuedAt := i.now().UTC().Truncate(jwt.TimePrecision)
	expiresAt := issuedAt.Add(ttl)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(i.method, claims).SignedString(i.secret)
	if err != nil {
		return Token{}, fmt.Errorf("token.SignedString -> %w", err)
	}

	return Token{
		Value:     signed,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}

// Verify checks signature, algorithm and expiry, and returns the subject.
func (i *Issuer) Verify(tokenString string) (string, error) {
	if strings.TrimSpace(tokenString) == "" {
		return "", ErrMissingToken
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{i.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}

// TokenFromHeader extracts the token from an "Authorization: Bearer <token>" value.
func TokenFromHeader(authHeader string) (string, error) {
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", ErrMissingToken
	}

	return parts[1], nil
}
