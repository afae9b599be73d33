package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/news-cms-api/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuth(t *testing.T) *authService {
	t.Helper()
	svc, err := newAuthService(config.AuthConfig{
		AdminUsername: "admin",
		AdminPassword: "secret-pass",
		JWTSecret:     "unit-test-secret-value",
		TokenTTL:      24 * time.Hour,
		Issuer:        "news-cms-api",
	}, zerolog.Nop())
	require.NoError(t, err)
	return svc
}

func TestAuthService_TokenExpires(t *testing.T) {
	svc := newTestAuth(t)
	issued := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }

	token, err := svc.Login(context.Background(), "admin", "secret-pass")
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(23 * time.Hour) }
	_, err = svc.ValidateToken(token.AccessToken)
	assert.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(25 * time.Hour) }
	_, err = svc.ValidateToken(token.AccessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestAuthService_RejectsForeignTokens(t *testing.T) {
	svc := newTestAuth(t)
	now := time.Now()

	sign := func(method jwt.SigningMethod, key interface{}, claims jwt.RegisteredClaims) string {
		t.Helper()
		signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return signed
	}
	valid := jwt.RegisteredClaims{
		Subject:   "admin",
		Issuer:    "news-cms-api",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}

	tests := []struct {
		name  string
		token string
	}{
		{
			name: "other subject",
			token: sign(jwt.SigningMethodHS256, svc.secret, jwt.RegisteredClaims{
				Subject: "intruder", Issuer: valid.Issuer, ExpiresAt: valid.ExpiresAt,
			}),
		},
		{
			name: "other issuer",
			token: sign(jwt.SigningMethodHS256, svc.secret, jwt.RegisteredClaims{
				Subject: "admin", Issuer: "elsewhere", ExpiresAt: valid.ExpiresAt,
			}),
		},
		{
			name:  "no expiry",
			token: sign(jwt.SigningMethodHS256, svc.secret, jwt.RegisteredClaims{Subject: "admin", Issuer: valid.Issuer}),
		},
		{
			name:  "other key",
			token: sign(jwt.SigningMethodHS256, []byte("a-completely-different-key"), valid),
		},
		{
			name:  "other algorithm",
			token: sign(jwt.SigningMethodHS512, svc.secret, valid),
		},
		{
			name:  "unsigned",
			token: sign(jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, valid),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateToken(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}

	subject, err := svc.ValidateToken(sign(jwt.SigningMethodHS256, svc.secret, valid))
	require.NoError(t, err)
	assert.Equal(t, "admin", subject)
}

func TestAuthService_PasswordHashConfig(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("from-hash"), bcrypt.MinCost)
	require.NoError(t, err)

	svc, err := newAuthService(config.AuthConfig{
		AdminUsername:     "admin",
		AdminPassword:     "ignored",
		AdminPasswordHash: string(hash),
		JWTSecret:         "unit-test-secret-value",
		TokenTTL:          time.Hour,
	}, zerolog.Nop())
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "admin", "from-hash")
	assert.NoError(t, err)

	_, err = svc.Login(context.Background(), "admin", "ignored")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = newAuthService(config.AuthConfig{AdminPasswordHash: "not-a-bcrypt-hash"}, zerolog.Nop())
	assert.Error(t, err)
}
