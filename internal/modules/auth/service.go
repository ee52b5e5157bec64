package auth

import (
	"context"
)

type service struct {
	credentials *CredentialStore
	tokens      *TokenService
}

// NewService creates a new auth service.
func NewService(credentials *CredentialStore, tokens *TokenService) Service {
	return &service{credentials: credentials, tokens: tokens}
}

func (s *service) Login(ctx context.Context, email, password string) (string, error) {
	if !s.credentials.VerifyLogin(email, password) {
		return "", ErrInvalidCredentials
	}
	return s.tokens.Issue(email)
}

func (s *service) Verify(ctx context.Context, token string) (*Claims, error) {
	return s.tokens.Verify(token)
}

func (s *service) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	return s.credentials.ChangePassword(currentPassword, newPassword)
}

func (s *service) ChangeEmail(ctx context.Context, currentPassword, newEmail string) (string, error) {
	if err := s.credentials.ChangeEmail(currentPassword, newEmail); err != nil {
		return "", err
	}
	return s.tokens.Issue(newEmail)
}
