// Package auth issues and verifies the bearer tokens handed out by the
// account endpoints and guards routes that need a signed-in user.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"storefront/models"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	Email       string   `json:"email"`
	DisplayName string   `json:"given_name"`
	Roles       []string `json:"roles"`
	jwt.RegisteredClaims
}

type TokenService struct {
	key    []byte
	issuer string
	ttl    time.Duration
}

func NewTokenService(key, issuer string, ttl time.Duration) *TokenService {
	return &TokenService{key: []byte(key), issuer: issuer, ttl: ttl}
}

// CreateToken signs a token for user with HS512.
func (s *TokenService) CreateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Roles:       user.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// ParseToken verifies signature, issuer and expiry and returns the claims.
func (s *TokenService) ParseToken(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.Email == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
