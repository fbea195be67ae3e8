package auth

import (
	"strings"

	"storefront/apierror"
	"storefront/models"
	"storefront/repository"
	"storefront/specification"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const userKey = "user"

// RequireAuth rejects requests without a valid bearer token and stores the
// token's user in the request locals.
func RequireAuth(tokens *TokenService, conn *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			return apierror.Unauthorized()
		}

		claims, err := tokens.ParseToken(strings.TrimSpace(raw))
		if err != nil {
			return apierror.Unauthorized()
		}

		users := repository.For[models.User](repository.NewUnitOfWork(conn))
		user, err := users.GetEntityWithSpec(c.UserContext(), specification.UserByEmail(claims.Email))
		if err != nil {
			return err
		}
		if user == nil {
			return apierror.Unauthorized()
		}

		c.Locals(userKey, user)
		return c.Next()
	}
}

// RequireRole must run after RequireAuth.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return apierror.Unauthorized()
		}
		if !user.HasRole(role) {
			return fiber.NewError(fiber.StatusForbidden, apierror.DefaultMessage(fiber.StatusForbidden))
		}
		return c.Next()
	}
}

// CurrentUser returns the user stored by RequireAuth, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userKey).(*models.User)
	return user
}
