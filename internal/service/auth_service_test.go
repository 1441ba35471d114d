package service_test

import (
	"testing"
	"time"

	"github.com/dom/riot-collector/internal/service"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_IssueAndValidate(t *testing.T) {
	auth := service.NewAuthService("test-secret")

	token, err := auth.IssueAdminToken("ops", time.Hour)
	require.NoError(t, err)

	claims, err := auth.ValidateAdminToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
	require.NotNil(t, claims.ExpiresAt)
}

func TestAuthService_ValidateAdminToken(t *testing.T) {
	auth := service.NewAuthService("test-secret")
	other := service.NewAuthService("other-secret")

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, service.AdminClaims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	forever, err := auth.IssueAdminToken("ops", 0)
	require.NoError(t, err)
	foreign, err := other.IssueAdminToken("ops", time.Hour)
	require.NoError(t, err)
	noRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "ops"}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	wrongAlg, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{"role": "admin"}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "garbage", token: "not-a-token", wantErr: service.ErrInvalidToken},
		{name: "signed with another secret", token: foreign, wantErr: service.ErrInvalidToken},
		{name: "missing admin role", token: noRole, wantErr: service.ErrNotAdmin},
		{name: "unexpected signing method", token: wrongAlg, wantErr: service.ErrInvalidToken},
		{name: "expired", token: expired, wantErr: service.ErrInvalidToken},
		{name: "no expiry", token: forever},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.ValidateAdminToken(tt.token)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAuthService_NoSecret(t *testing.T) {
	_, err := service.NewAuthService("").IssueAdminToken("ops", time.Hour)
	assert.Error(t, err)
}
