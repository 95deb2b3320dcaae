package services

import (
	"time"

	"github.com/EeLin02/6005CEM--Security-Group4/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the payload of a signed session token. The token is the
// sole bearer of authenticated identity; nothing is kept server-side.
type SessionClaims struct {
	Email              string          `json:"email"`
	Role               models.UserRole `json:"role"`
	TwoFactorSatisfied bool            `json:"twoFactorSatisfied"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies session tokens with a server-held
// symmetric key. The key is injected once at construction and never
// travels with the token.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

func (s *TokenService) Issue(user *models.User, twoFactorSatisfied bool) (string, error) {
	now := time.Now().UTC()
	claims := SessionClaims{
		Email:              user.Email,
		Role:               user.Role,
		TwoFactorSatisfied: twoFactorSatisfied,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks signature integrity and expiry. Every failure mode
// (malformed, tampered, expired, wrong algorithm) collapses to
// ErrInvalidSession so the response cannot be used as an oracle.
func (s *TokenService) Verify(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

// SessionTTL exposes the configured lifetime so the transport layer can set
// a matching cookie max age.
func (s *TokenService) SessionTTL() time.Duration {
	return s.ttl
}
