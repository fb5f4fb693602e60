package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/somang-dev/church_service/internal/api/rest/middleware"
	"github.com/somang-dev/church_service/internal/dto"
	"github.com/somang-dev/church_service/internal/helper"
	"github.com/somang-dev/church_service/internal/helper/utils"
	"github.com/somang-dev/church_service/internal/services"
)

type AuthHandler struct {
	svc  services.UserService
	auth helper.Auth
}

func NewAuthHandler(svc services.UserService, auth helper.Auth) *AuthHandler {
	return &AuthHandler{svc: svc, auth: auth}
}

func (h *AuthHandler) SetupRoutes(app *fiber.App) {
	auth := app.Group("/api/auth")

	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)
	auth.Post("/logout", h.Logout)
	auth.Post("/find-email", h.FindEmail)
	auth.Post("/reset-password", h.ResetPassword)

	auth.Post("/change-password", middleware.AuthMiddleware(h.auth), h.ChangePassword)
}

func (h *AuthHandler) Register(ctx *fiber.Ctx) error {
	var requestBody dto.RegisterRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid inputs")
	}

	if requestBody.Email == "" || requestBody.Password == "" || requestBody.Name == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid inputs")
	}

	if err := h.svc.Register(requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "registered successfully")
}

func (h *AuthHandler) Login(ctx *fiber.Ctx) error {
	var requestBody dto.LoginRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "email and password are required")
	}

	token, err := h.svc.Login(requestBody)
	if err != nil {
		if strings.Contains(err.Error(), "too many login attempts") {
			return utils.ResponseError(ctx, fiber.StatusTooManyRequests, err.Error())
		}
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, err.Error())
	}

	ctx.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Expires:  time.Now().Add(24 * time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"token": token,
	})
}

func (h *AuthHandler) Logout(ctx *fiber.Ctx) error {
	ctx.ClearCookie(middleware.SessionCookie)
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "logged out")
}

func (h *AuthHandler) FindEmail(ctx *fiber.Ctx) error {
	var requestBody dto.FindEmailRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "name and phone are required")
	}

	email, err := h.svc.FindEmail(requestBody)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusNotFound, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"email": email,
	})
}

func (h *AuthHandler) ResetPassword(ctx *fiber.Ctx) error {
	var requestBody dto.ResetPasswordRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid inputs")
	}

	if err := h.svc.ResetPassword(requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "password reset")
}

func (h *AuthHandler) ChangePassword(ctx *fiber.Ctx) error {
	session, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	var requestBody dto.ChangePasswordRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid inputs")
	}

	if err := h.svc.ChangePassword(session, requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "password changed")
}
