package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/news-cms-api/internal/config"
	"github.com/news-cms-api/internal/models"
	"github.com/news-cms-api/internal/validation"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// authService authenticates the single configured administrator
type authService struct {
	username     string
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
	issuer       string
	now          func() time.Time
	log          zerolog.Logger
}

func newAuthService(cfg config.AuthConfig, log zerolog.Logger) (*authService, error) {
	hash := []byte(cfg.AdminPasswordHash)
	if len(hash) == 0 {
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash admin password: %w", err)
		}
	} else if _, err := bcrypt.Cost(hash); err != nil {
		return nil, fmt.Errorf("invalid ADMIN_PASSWORD_HASH: %w", err)
	}

	return &authService{
		username:     cfg.AdminUsername,
		passwordHash: hash,
		secret:       []byte(cfg.JWTSecret),
		ttl:          cfg.TokenTTL,
		issuer:       cfg.Issuer,
		now:          func() time.Time { return time.Now().UTC() },
		log:          log.With().Str("service", "auth").Logger(),
	}, nil
}

// Login checks the administrator credentials and issues an access token
func (s *authService) Login(ctx context.Context, username, password string) (*models.Token, error) {
	var errs []validation.ValidationError
	if strings.TrimSpace(username) == "" {
		errs = append(errs, validation.ValidationError{Field: "username", Message: "username is required"})
	}
	if password == "" {
		errs = append(errs, validation.ValidationError{Field: "password", Message: "password is required"})
	}
	if len(errs) > 0 {
		return nil, &ValidationErrors{Errors: errs}
	}

	// The hash is compared even when the username is wrong.
	usernameOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passwordErr := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password))
	if !usernameOK || passwordErr != nil {
		s.log.Warn().Str("username", username).Msg("Login failed")
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   s.username,
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		ID:        uuid.NewString(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	s.log.Info().Str("username", username).Msg("Admin logged in")
	return &models.Token{AccessToken: signed, TokenType: models.TokenTypeBearer}, nil
}

// ValidateToken verifies signature, algorithm, issuer, expiry and subject
func (s *authService) ValidateToken(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid || claims.Subject != s.username {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
