package auth

import (
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// Claims is the payload of an admin bearer token.
type Claims struct {
	Email string `json:"email"`
	jwt.StandardClaims
}

// TokenService signs and checks HS256 tokens with a fixed secret.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a token for email that expires after the configured TTL.
func (t *TokenService) Issue(email string) (string, error) {
	issuedAt := t.now()
	claims := &Claims{
		Email: email,
		StandardClaims: jwt.StandardClaims{
			Subject:   email,
			IssuedAt:  issuedAt.Unix(),
			ExpiresAt: issuedAt.Add(t.ttl).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses tokenString and returns its claims. Absent, malformed,
// foreign or expired tokens all yield ErrInvalidToken.
func (t *TokenService) Verify(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.ExpiresAt == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
