package middleware

import (
	"strings"

	"github.com/posadmin/reports-gateway/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// RequireAuth validates the JWT and sets user info in context. The raw
// token is kept in Locals so downstream calls can forward it to the POS
// backend unchanged.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		tokenString := parts[1]

		claims, err := jwt.ValidateToken(tokenString)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		c.Locals("user_id", claims.UserID.String())
		c.Locals("user_email", claims.Email)
		c.Locals("user_name", claims.Name)
		c.Locals("user_role", claims.RoleCode)
		c.Locals("token", tokenString)

		return c.Next()
	}
}

// RequireRole restricts a route to one role code, set by RequireAuth.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		got, ok := c.Locals("user_role").(string)
		if !ok || got != role {
			return c.Status(403).JSON(fiber.Map{"error": "Insufficient privileges"})
		}
		return c.Next()
	}
}

// Token returns the raw bearer token stored by RequireAuth.
func Token(c *fiber.Ctx) string {
	token, _ := c.Locals("token").(string)
	return token
}
