package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/photoapp/photoapp/internal/services"
	"github.com/photoapp/photoapp/pkg/logger"
	"github.com/photoapp/photoapp/pkg/utils"
)

const requesterKey = "requester"

func CORS(allowedOrigins []string) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: strings.Join(allowedOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
	})
}

// Authenticate resolves the caller from the bearer token alone; it never
// touches a store. A missing, malformed or expired token leaves the request
// anonymous, and handlers that need an identity reject it themselves.
func Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Next()
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if tokenString == authHeader || tokenString == "" {
			logger.Warn("jwt_invalid_format", map[string]interface{}{
				"ip":          c.IP(),
				"path":        c.Path(),
				"auth_header": authHeader[:min(len(authHeader), 20)] + "...",
			})
			return c.Next()
		}

		claims, err := utils.ValidateToken(tokenString)
		if err != nil {
			logger.Warn("jwt_validation_failed", map[string]interface{}{
				"ip":    c.IP(),
				"path":  c.Path(),
				"error": err.Error(),
			})
			return c.Next()
		}

		c.Locals(requesterKey, &services.Requester{UserID: claims.UserID, Username: claims.Username})
		c.Locals(logger.UserIDKey, claims.UserID)
		return c.Next()
	}
}

// GetRequester returns the authenticated caller, or nil for anonymous requests.
func GetRequester(c *fiber.Ctx) *services.Requester {
	r, ok := c.Locals(requesterKey).(*services.Requester)
	if !ok {
		return nil
	}
	return r
}
