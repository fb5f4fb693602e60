package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/somang-dev/church_service/internal/api/rest/middleware"
	"github.com/somang-dev/church_service/internal/dto"
	"github.com/somang-dev/church_service/internal/helper"
	"github.com/somang-dev/church_service/internal/helper/utils"
	"github.com/somang-dev/church_service/internal/services"
)

type UserHandler struct {
	svc  services.UserService
	auth helper.Auth
}

func NewUserHandler(svc services.UserService, auth helper.Auth) *UserHandler {
	return &UserHandler{svc: svc, auth: auth}
}

func (h *UserHandler) SetupRoutes(app *fiber.App) {
	users := app.Group("/api/users", middleware.AuthMiddleware(h.auth))

	users.Get("/", h.List)
	users.Post("/", middleware.AdminOnly(), h.Create)
	users.Post("/bulk-delete", middleware.AdminOnly(), h.BulkDelete)
	users.Delete("/:id", middleware.AdminOnly(), h.Delete)
}

func (h *UserHandler) List(ctx *fiber.Ctx) error {
	session, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	users, err := h.svc.GetUsers(session)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, "failed to load users")
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, users)
}

func (h *UserHandler) Create(ctx *fiber.Ctx) error {
	session, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	var requestBody dto.AddUserRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid inputs")
	}

	if err := h.svc.AddUser(session, requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, "user registered")
}

func (h *UserHandler) Delete(ctx *fiber.Ctx) error {
	session, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := strconv.ParseUint(ctx.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid user id")
	}

	if err := h.svc.DeleteUser(session, uint(id)); err != nil {
		if err.Error() == "user not found" {
			return utils.ResponseError(ctx, fiber.StatusNotFound, err.Error())
		}
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "user deleted")
}

func (h *UserHandler) BulkDelete(ctx *fiber.Ctx) error {
	session, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	var requestBody dto.DeleteUsersRequest
	if err := ctx.BodyParser(&requestBody); err != nil || len(requestBody.UserIDs) == 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please select users to delete")
	}

	if err := h.svc.DeleteUsers(session, requestBody.UserIDs); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "users deleted")
}
