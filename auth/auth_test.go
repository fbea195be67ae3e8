package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"storefront/db/dbtest"
	"storefront/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "a-test-signing-key-that-is-long-enough-for-hs512"

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("Pa$$w0rd")
	require.NoError(t, err)

	assert.NotEqual(t, "Pa$$w0rd", hash)
	assert.True(t, CheckPassword(hash, "Pa$$w0rd"))
	assert.False(t, CheckPassword(hash, "pa$$w0rd"))
	assert.False(t, CheckPassword("not-a-hash", "Pa$$w0rd"))
}

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokenService(testKey, "storefront", time.Hour)
	user := &models.User{ID: 7, Email: "bob@test.com", DisplayName: "Bob", Roles: []string{models.RoleCustomer}}

	raw, err := tokens.CreateToken(user)
	require.NoError(t, err)

	claims, err := tokens.ParseToken(raw)
	require.NoError(t, err)
	assert.Equal(t, "bob@test.com", claims.Email)
	assert.Equal(t, "Bob", claims.DisplayName)
	assert.Equal(t, []string{models.RoleCustomer}, claims.Roles)
	assert.Equal(t, "7", claims.Subject)
}

func TestParseTokenRejects(t *testing.T) {
	tokens := NewTokenService(testKey, "storefront", time.Hour)
	user := &models.User{ID: 1, Email: "bob@test.com"}

	t.Run("expired", func(t *testing.T) {
		expired := NewTokenService(testKey, "storefront", -time.Minute)
		raw, err := expired.CreateToken(user)
		require.NoError(t, err)

		_, err = tokens.ParseToken(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong key", func(t *testing.T) {
		other := NewTokenService("another-key-another-key-another-key!", "storefront", time.Hour)
		raw, err := other.CreateToken(user)
		require.NoError(t, err)

		_, err = tokens.ParseToken(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewTokenService(testKey, "somebody-else", time.Hour)
		raw, err := other.CreateToken(user)
		require.NoError(t, err)

		_, err = tokens.ParseToken(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong algorithm", func(t *testing.T) {
		claims := &Claims{Email: "bob@test.com", RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "storefront",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testKey))
		require.NoError(t, err)

		_, err = tokens.ParseToken(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := tokens.ParseToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestMiddleware(t *testing.T) {
	conn := dbtest.New(t)
	tokens := NewTokenService(testKey, "storefront", time.Hour)

	bob := &models.User{DisplayName: "Bob", Email: "bob@test.com", PasswordHash: "x", Roles: []string{models.RoleCustomer}}
	admin := &models.User{DisplayName: "Admin", Email: "admin@test.com", PasswordHash: "x", Roles: []string{models.RoleAdmin}}
	require.NoError(t, conn.Create(bob).Error)
	require.NoError(t, conn.Create(admin).Error)

	app := fiber.New()
	app.Get("/me", RequireAuth(tokens, conn), func(c *fiber.Ctx) error {
		return c.SendString(CurrentUser(c).Email)
	})
	app.Get("/admin", RequireAuth(tokens, conn), RequireRole(models.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	bearer := func(u *models.User) string {
		raw, err := tokens.CreateToken(u)
		require.NoError(t, err)
		return "Bearer " + raw
	}

	tests := []struct {
		name   string
		path   string
		header string
		status int
	}{
		{"no header", "/me", "", fiber.StatusUnauthorized},
		{"not bearer", "/me", "Basic abc", fiber.StatusUnauthorized},
		{"bad token", "/me", "Bearer nope", fiber.StatusUnauthorized},
		{"unknown user", "/me", bearer(&models.User{ID: 99, Email: "ghost@test.com"}), fiber.StatusUnauthorized},
		{"member", "/me", bearer(bob), fiber.StatusOK},
		{"member on admin route", "/admin", bearer(bob), fiber.StatusForbidden},
		{"admin", "/admin", bearer(admin), fiber.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}
