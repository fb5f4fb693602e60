package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/somang-dev/church_service/internal/domain"
	"github.com/somang-dev/church_service/internal/dto"
	"github.com/somang-dev/church_service/internal/helper"
)

const SessionCookie = "access_token"

// AuthMiddleware resolves the session token, cookie first with an
// Authorization-header fallback. An invalid or expired token clears the
// cookie so the client drops back to anonymous cleanly.
func AuthMiddleware(auth helper.Auth) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		tokenStr := strings.TrimSpace(ctx.Cookies(SessionCookie))
		if tokenStr == "" {
			tokenStr = strings.TrimSpace(ctx.Get("Authorization"))
		}

		session, err := auth.VerifyToken(tokenStr)
		if err != nil {
			ctx.ClearCookie(SessionCookie)
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}

		ctx.Locals("userID", session.UserID)
		ctx.Locals("session", session)
		return ctx.Next()
	}
}

func AdminOnly() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		session, ok := ctx.Locals("session").(dto.AuthResponse)
		if !ok || session.UserID == 0 {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}

		if session.Role != domain.RoleAdmin {
			return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "admin only",
			})
		}

		return ctx.Next()
	}
}
