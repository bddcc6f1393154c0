package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/hirehub/internal/apperrors"
	"alfredoptarigan/hirehub/internal/models"
)

const principalKey = "principal"

type TokenValidator interface {
	ValidateToken(token string) (*models.Principal, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// caller's principal for handlers.
func RequireAuth(validator TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(token) == "" {
			return &apperrors.AuthenticationError{Message: "Missing bearer token"}
		}

		principal, err := validator.ValidateToken(strings.TrimSpace(token))
		if err != nil {
			return &apperrors.AuthenticationError{Message: "Invalid or expired token"}
		}

		c.Locals(principalKey, principal)
		return c.Next()
	}
}

// RequireRole must run after RequireAuth.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal := Principal(c)
		if principal == nil {
			return &apperrors.AuthenticationError{Message: "Authentication required"}
		}
		for _, role := range roles {
			if principal.Role == role {
				return c.Next()
			}
		}
		return &apperrors.AuthorizationError{Message: "Insufficient role for this action"}
	}
}

// Principal returns the authenticated caller, or nil.
func Principal(c *fiber.Ctx) *models.Principal {
	p, _ := c.Locals(principalKey).(*models.Principal)
	return p
}
