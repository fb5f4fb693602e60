package utils

import "github.com/gofiber/fiber/v2"

// ResponseError writes the {"error": msg} envelope every handler uses.
func ResponseError(ctx *fiber.Ctx, status int, msg string) error {
	return ctx.Status(status).JSON(fiber.Map{
		"error": msg,
	})
}

// ResponseSuccess wraps the payload in the {"data": ...} envelope.
func ResponseSuccess(ctx *fiber.Ctx, status int, data interface{}) error {
	return ctx.Status(status).JSON(fiber.Map{"data": data})
}
