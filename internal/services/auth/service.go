package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
)

// Errors
var (
	ErrInvalidToken = errors.New("invalid server token")
)

// Service authorizes minigame servers against a static list of bearer
// tokens. Tokens identify trusted servers, not individual users; there
// are no sessions to create or expire.
type Service struct {
	tokens []string
}

// New creates a new auth service with the configured server tokens
func New(tokens []string) *Service {
	return &Service{tokens: tokens}
}

// Authorize checks a presented token against the configured set.
// Every configured token is compared in constant time.
func (s *Service) Authorize(token string) error {
	if token == "" {
		return ErrInvalidToken
	}

	ok := false
	for _, t := range s.tokens {
		if subtle.ConstantTimeCompare([]byte(token), []byte(t)) == 1 {
			ok = true
		}
	}

	if !ok {
		return ErrInvalidToken
	}
	return nil
}

// GenerateToken returns a fresh random server token. Used at startup when
// no tokens are configured, so a bare instance is never open to anonymous
// uploads.
func GenerateToken() (string, error) {
	buf := make([]byte, 48)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
