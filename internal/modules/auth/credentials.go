package auth

import (
	"sync"

	"github.com/georgemunganga/ustaz-catalog/internal/httpx"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

var validate = validator.New()

// CredentialStore holds the single administrator's login in memory. Changes
// last for the lifetime of the process only.
type CredentialStore struct {
	mu    sync.RWMutex
	email string
	hash  []byte
	cost  int
}

// NewCredentialStore hashes password with the given bcrypt cost.
func NewCredentialStore(email, password string, cost int) (*CredentialStore, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, err
	}
	return &CredentialStore{email: email, hash: hash, cost: cost}, nil
}

func (s *CredentialStore) Email() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.email
}

// VerifyLogin reports whether email and password match the stored login.
func (s *CredentialStore) VerifyLogin(email, password string) bool {
	s.mu.RLock()
	storedEmail, hash := s.email, s.hash
	s.mu.RUnlock()

	if email != storedEmail {
		return false
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}

func (s *CredentialStore) ChangePassword(currentPassword, newPassword string) error {
	if !s.checkPassword(currentPassword) {
		return ErrInvalidCredentials
	}
	if len(newPassword) < minPasswordLength {
		return httpx.Validation("new password must be at least %d characters", minPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cost)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.hash = hash
	s.mu.Unlock()
	return nil
}

func (s *CredentialStore) ChangeEmail(currentPassword, newEmail string) error {
	if !s.checkPassword(currentPassword) {
		return ErrInvalidCredentials
	}
	if err := validate.Var(newEmail, "required,email"); err != nil {
		return httpx.Validation("invalid email address")
	}

	s.mu.Lock()
	s.email = newEmail
	s.mu.Unlock()
	return nil
}

func (s *CredentialStore) checkPassword(password string) bool {
	s.mu.RLock()
	hash := s.hash
	s.mu.RUnlock()
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}
