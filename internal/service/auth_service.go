package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const adminRole = "admin"

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrNotAdmin     = errors.New("token does not grant admin access")
)

// AdminClaims are the claims of a token that may call write and trigger
// routes.
type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService mints and checks admin tokens. There are no user accounts;
// holding a token signed with the shared secret is the identity.
type AuthService struct {
	secret []byte
	now    func() time.Time
}

func NewAuthService(secret string) *AuthService {
	return &AuthService{secret: []byte(secret), now: time.Now}
}

// IssueAdminToken signs a token for subject. A zero ttl issues a token
// without expiry.
func (s *AuthService) IssueAdminToken(subject string, ttl time.Duration) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.New("admin secret is not configured")
	}
	now := s.now()
	claims := AdminClaims{
		Role: adminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  subject,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *AuthService) ValidateAdminToken(tokenString string) (*AdminClaims, error) {
	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Role != adminRole {
		return nil, ErrNotAdmin
	}
	return claims, nil
}
