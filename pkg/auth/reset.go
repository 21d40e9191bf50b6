package auth

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidResetToken is returned for unknown, used or expired reset tokens.
var ErrInvalidResetToken = errors.New("invalid reset token")

// DefaultResetTokenTTL bounds how long a password reset link stays valid.
const DefaultResetTokenTTL = 1 * time.Hour

type resetEntry struct {
	email     string
	expiresAt time.Time
}

// ResetTokenStore holds single-use password reset tokens in memory.
type ResetTokenStore struct {
	ttl    time.Duration
	mu     sync.Mutex
	tokens map[string]resetEntry
}

// NewResetTokenStore creates a reset token store. A non-positive ttl uses
// DefaultResetTokenTTL.
func NewResetTokenStore(ttl time.Duration) *ResetTokenStore {
	if ttl <= 0 {
		ttl = DefaultResetTokenTTL
	}
	return &ResetTokenStore{
		ttl:    ttl,
		tokens: make(map[string]resetEntry),
	}
}

// Issue creates a reset token for an email address.
func (s *ResetTokenStore) Issue(email string) string {
	token := uuid.New().String()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked()
	s.tokens[token] = resetEntry{
		email:     email,
		expiresAt: time.Now().Add(s.ttl),
	}

	return token
}

// Consume validates a token and returns the email it was issued for. Tokens
// are single use.
func (s *ResetTokenStore) Consume(token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.tokens[token]
	if !exists || time.Now().After(entry.expiresAt) {
		delete(s.tokens, token)
		return "", ErrInvalidResetToken
	}

	delete(s.tokens, token)
	return entry.email, nil
}

func (s *ResetTokenStore) pruneLocked() {
	now := time.Now()
	for token, entry := range s.tokens {
		if now.After(entry.expiresAt) {
			delete(s.tokens, token)
		}
	}
}
