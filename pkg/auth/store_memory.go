package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// MemoryStore is an in-memory UserStore, suitable for development and tests.
type MemoryStore struct {
	users       map[string]*User  // email -> User
	usernameMap map[string]string // username -> email
	mu          sync.RWMutex
}

// NewMemoryStore creates an empty in-memory user store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:       make(map[string]*User),
		usernameMap: make(map[string]string),
	}
}

// CreateUser registers a new user with a hashed password.
func (s *MemoryStore) CreateUser(_ context.Context, nu *NewUser) (*User, error) {
	if err := validateNewUser(nu); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[nu.Email]; exists {
		return nil, fmt.Errorf("%w: %s", ErrUserExists, nu.Email)
	}
	if _, exists := s.usernameMap[nu.Username]; exists {
		return nil, fmt.Errorf("%w: %s", ErrUsernameTaken, nu.Username)
	}

	hashed, err := hashPassword(nu.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPasswordHashFailed, err)
	}

	user := &User{
		ID:           uuid.New().String(),
		Email:        nu.Email,
		Name:         nu.Name,
		Username:     nu.Username,
		Mobile:       nu.Mobile,
		Address:      nu.Address,
		PasswordHash: hashed,
		CreatedAt:    time.Now().UTC(),
	}

	s.users[user.Email] = user
	s.usernameMap[user.Username] = user.Email

	return user, nil
}

// GetUserByEmail retrieves a user by email.
func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[email]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, email)
	}
	return user, nil
}

// GetUserByID retrieves a user by ID.
func (s *MemoryStore) GetUserByID(_ context.Context, id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUserNotFound, id)
}

// UpdatePassword replaces a user's password with a new hash.
func (s *MemoryStore) UpdatePassword(_ context.Context, email, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.users[email]
	if !exists {
		return fmt.Errorf("%w: %s", ErrUserNotFound, email)
	}

	hashed, err := hashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPasswordHashFailed, err)
	}
	user.PasswordHash = hashed

	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }

// SeedTestUser inserts the well-known development account. Only for
// non-production use.
func SeedTestUser(ctx context.Context, store UserStore) error {
	_, err := store.CreateUser(ctx, &NewUser{
		Email:    "test@example.com",
		Name:     "Test User",
		Username: "testuser",
		Mobile:   "1234567890",
		Address:  "123 Main St",
		Password: "password123",
	})
	return err
}

// VerifyPassword checks a password against a user's stored hash.
func VerifyPassword(user *User, password string) bool {
	if user == nil || password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

func hashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}
