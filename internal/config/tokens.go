package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrTokenMismatch = errors.New("token does not belong to this session")

const defaultTokenLifetime = 24 * time.Hour

// SessionClaims bind a bearer token to one level session.
type SessionClaims struct {
	SessionId int64 `json:"session_id"`
	jwt.RegisteredClaims
}

// SessionTokens signs and checks per-session HS256 tokens.
type SessionTokens struct {
	secret        []byte
	signingMethod jwt.SigningMethod
	tokenLifetime time.Duration
	now           func() time.Time
}

func NewSessionTokensWithSecret(secret []byte, lifetime time.Duration) *SessionTokens {
	return &SessionTokens{
		secret:        secret,
		signingMethod: jwt.SigningMethodHS256,
		tokenLifetime: lifetime,
		now:           time.Now,
	}
}

func NewSessionTokens() (*SessionTokens, error) {
	secret, err := lookupSecret("SESSION_TOKEN_SECRET")
	if err != nil {
		return nil, err
	}
	if secret == "" {
		return nil, fmt.Errorf("SESSION_TOKEN_SECRET is empty")
	}

	lifetime := defaultTokenLifetime
	if s, ok := os.LookupEnv("SESSION_TOKEN_LIFETIME"); ok {
		if lifetime, err = time.ParseDuration(s); err != nil {
			return nil, fmt.Errorf("unable to parse SESSION_TOKEN_LIFETIME: %w", err)
		}
	}
	return NewSessionTokensWithSecret([]byte(secret), lifetime), nil
}

func (t *SessionTokens) Issue(sessionId int64) (string, error) {
	now := t.now()
	claims := SessionClaims{
		SessionId: sessionId,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(sessionId, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.tokenLifetime)),
		},
	}
	return jwt.NewWithClaims(t.signingMethod, claims).SignedString(t.secret)
}

func (t *SessionTokens) Parse(token string) (*SessionClaims, error) {
	parsed, err := jwt.ParseWithClaims(
		token,
		&SessionClaims{},
		func(*jwt.Token) (interface{}, error) {
			return t.secret, nil
		},
		jwt.WithValidMethods([]string{t.signingMethod.Alg()}),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok {
		return nil, fmt.Errorf("malformed claims")
	}
	return claims, nil
}

// Verify checks token and that it was issued for sessionId.
func (t *SessionTokens) Verify(token string, sessionId int64) error {
	claims, err := t.Parse(token)
	if err != nil {
		return err
	}
	if claims.SessionId != sessionId {
		return ErrTokenMismatch
	}
	return nil
}
