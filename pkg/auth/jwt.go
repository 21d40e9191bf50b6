package auth

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token has expired")
	ErrRevokedToken  = errors.New("token has been revoked")
	ErrInvalidClaims = errors.New("invalid token claims")
	ErrShortSecret   = errors.New("secret must be at least 32 characters")
)

// DefaultSessionDuration matches the original deployment's session lifetime.
const DefaultSessionDuration = 30 * time.Minute

// Claims represents a validated session.
type Claims struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
	IssuedAt  time.Time `json:"issued_at"`
}

// SessionManager issues and validates session tokens (JWT, HS256). Logout is
// implemented with an in-memory revocation list pruned as tokens expire.
type SessionManager struct {
	secretKey []byte
	duration  time.Duration

	mu      sync.Mutex
	revoked map[string]time.Time // token -> expiry
}

// NewSessionManager creates a session manager.
// Returns an error if the secret is shorter than 32 characters.
func NewSessionManager(secret string, duration time.Duration) (*SessionManager, error) {
	if len(secret) < 32 {
		return nil, ErrShortSecret
	}
	if duration <= 0 {
		duration = DefaultSessionDuration
	}

	return &SessionManager{
		secretKey: []byte(secret),
		duration:  duration,
		revoked:   make(map[string]time.Time),
	}, nil
}

// Duration returns the configured session lifetime.
func (m *SessionManager) Duration() time.Duration {
	return m.duration
}

// Generate issues a session token for a user.
func (m *SessionManager) Generate(user *User) (string, error) {
	if user == nil || user.ID == "" {
		return "", ErrInvalidClaims
	}

	now := time.Now()
	expiresAt := now.Add(m.duration)

	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"email":    user.Email,
		"name":     user.Name,
		"username": user.Username,
		"exp":      expiresAt.Unix(),
		"iat":      now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Validate checks a session token and returns its claims.
func (m *SessionManager) Validate(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	if m.isRevoked(tokenString) {
		return nil, ErrRevokedToken
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claimsMap, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidClaims
	}

	userID, ok := claimsMap["user_id"].(string)
	if !ok || userID == "" {
		return nil, fmt.Errorf("%w: missing or invalid user_id", ErrInvalidClaims)
	}
	email, ok := claimsMap["email"].(string)
	if !ok || email == "" {
		return nil, fmt.Errorf("%w: missing or invalid email", ErrInvalidClaims)
	}

	name, _ := claimsMap["name"].(string)
	username, _ := claimsMap["username"].(string)

	expFloat, ok := claimsMap["exp"].(float64)
	if !ok {
		return nil, fmt.Errorf("%w: missing or invalid exp", ErrInvalidClaims)
	}
	iatFloat, ok := claimsMap["iat"].(float64)
	if !ok {
		return nil, fmt.Errorf("%w: missing or invalid iat", ErrInvalidClaims)
	}

	return &Claims{
		UserID:    userID,
		Email:     email,
		Name:      name,
		Username:  username,
		ExpiresAt: time.Unix(int64(expFloat), 0),
		IssuedAt:  time.Unix(int64(iatFloat), 0),
	}, nil
}

// Revoke invalidates a token until its natural expiry.
func (m *SessionManager) Revoke(tokenString string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pruneLocked()
	m.revoked[tokenString] = time.Now().Add(m.duration)
}

func (m *SessionManager) isRevoked(tokenString string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pruneLocked()
	_, revoked := m.revoked[tokenString]
	return revoked
}

func (m *SessionManager) pruneLocked() {
	now := time.Now()
	for token, expiry := range m.revoked {
		if now.After(expiry) {
			delete(m.revoked, token)
		}
	}
}
