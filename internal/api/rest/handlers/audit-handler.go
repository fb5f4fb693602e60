package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/somang-dev/church_service/internal/api/rest/middleware"
	"github.com/somang-dev/church_service/internal/helper"
	"github.com/somang-dev/church_service/internal/helper/utils"
	"github.com/somang-dev/church_service/internal/services"
)

type AuditHandler struct {
	svc  services.AuditService
	auth helper.Auth
}

func NewAuditHandler(svc services.AuditService, auth helper.Auth) *AuditHandler {
	return &AuditHandler{svc: svc, auth: auth}
}

func (h *AuditHandler) SetupRoutes(app *fiber.App) {
	app.Get("/api/audit",
		middleware.AuthMiddleware(h.auth),
		middleware.AdminOnly(),
		h.List,
	)
}

func (h *AuditHandler) List(ctx *fiber.Ctx) error {
	session, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	logs, err := h.svc.GetAuditLogs(session)
	if err != nil {
		// Diagnostic detail stays in the server logs; clients only get a
		// generic message.
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, "failed to load audit logs")
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, logs)
}
