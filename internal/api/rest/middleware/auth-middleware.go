package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/workzen/hr-service/internal/dto"
	"github.com/workzen/hr-service/internal/helper"
)

func AuthMiddleware(auth helper.Auth) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		tokenStr := strings.TrimSpace(ctx.Get("Authorization"))

		claims, err := auth.VerifyToken(tokenStr)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		ctx.Locals("userID", claims.UserID)
		ctx.Locals("user", claims)
		return ctx.Next()
	}
}

// RequireRoles gates a route on the role claim carried in the token;
// no extra database hit is needed.
func RequireRoles(roles ...string) fiber.Handler {
	allowed := map[string]bool{}
	for _, r := range roles {
		allowed[strings.ToLower(r)] = true
	}

	return func(ctx *fiber.Ctx) error {
		claims, ok := ctx.Locals("user").(dto.AuthClaims)
		if !ok || claims.UserID == 0 {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}
		if !allowed[strings.ToLower(claims.Role)] {
			return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "insufficient role",
			})
		}
		return ctx.Next()
	}
}
