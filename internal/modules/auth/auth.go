package auth

import (
	"context"
	"fmt"

	"github.com/georgemunganga/ustaz-catalog/internal/httpx"
)

var (
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", httpx.ErrUnauthorized)
	ErrMissingToken       = fmt.Errorf("access token required: %w", httpx.ErrUnauthorized)
	ErrInvalidToken       = fmt.Errorf("invalid token: %w", httpx.ErrForbidden)
)

// Service defines the interface for administrator authentication.
type Service interface {
	Login(ctx context.Context, email, password string) (string, error)
	Verify(ctx context.Context, token string) (*Claims, error)
	ChangePassword(ctx context.Context, currentPassword, newPassword string) error
	// ChangeEmail returns a fresh token for the new email; tokens issued for
	// the old address stay valid until they expire.
	ChangeEmail(ctx context.Context, currentPassword, newEmail string) (string, error)
}
