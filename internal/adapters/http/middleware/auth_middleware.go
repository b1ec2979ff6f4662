package middleware

import (
	"strings"

	"shelfwise/internal/config"
	"shelfwise/internal/pkg/jwt"
	"shelfwise/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware creates authentication middleware. A missing token is
// unauthenticated (401); a bad or expired one is rejected before any
// handler runs. On success the decoded identity lands in c.Locals.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var accessToken string

		// 1. Authorization header first
		authHeader := c.Get("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			accessToken = strings.TrimPrefix(authHeader, "Bearer ")
		}

		// 2. Cookie fallback
		if accessToken == "" {
			accessToken = c.Cookies("access_token")
		}

		// 3. No token found
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		// 4. Validate token
		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Forbidden(c, "Access token expired")
			}
			return response.Forbidden(c, "Invalid access token")
		}

		// 5. Set member identity in context
		c.Locals("userID", claims.UserID)
		c.Locals("username", claims.Username)
		c.Locals("isAdmin", claims.IsAdmin)

		return c.Next()
	}
}

// AdminOnly middleware rejects callers without the admin flag
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		isAdmin, ok := c.Locals("isAdmin").(bool)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}
		if !isAdmin {
			return response.Forbidden(c, "Admin privileges required")
		}
		return c.Next()
	}
}
