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

type TransactionHandler struct {
	svc  services.TransactionService
	auth helper.Auth
}

func NewTransactionHandler(svc services.TransactionService, auth helper.Auth) *TransactionHandler {
	return &TransactionHandler{svc: svc, auth: auth}
}

func (h *TransactionHandler) SetupRoutes(app *fiber.App) {
	api := app.Group("/api", middleware.AuthMiddleware(h.auth))

	api.Get("/transactions", h.List)
	api.Get("/summary", h.Summary)
	api.Get("/tax", h.TaxData)
	api.Get("/receipt", h.Receipt)

	// AdminOnly goes on each mutating route; a group prefix would also
	// swallow the member-visible GET above.
	api.Post("/transactions", middleware.AdminOnly(), h.Create)
	api.Post("/transactions/bulk", middleware.AdminOnly(), h.BulkCreate)
	api.Put("/transactions/:id", middleware.AdminOnly(), h.Update)
	api.Delete("/transactions/:id", middleware.AdminOnly(), h.Delete)
}

func (h *TransactionHandler) List(ctx *fiber.Ctx) error {
	session, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	page, _ := strconv.Atoi(ctx.Query("page", "1"))

	result, err := h.svc.GetTransactions(session, page)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, "failed to load transactions")
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, result)
}

func (h *TransactionHandler) Create(ctx *fiber.Ctx) error {
	session, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	var requestBody dto.TransactionRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid inputs")
	}

	if err := h.svc.AddTransaction(session, requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, "transaction registered")
}

func (h *TransactionHandler) Update(ctx *fiber.Ctx) error {
	session, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := strconv.ParseUint(ctx.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid transaction id")
	}

	var requestBody dto.TransactionRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid inputs")
	}

	if err := h.svc.UpdateTransaction(session, uint(id), requestBody); err != nil {
		if err.Error() == "transaction not found" {
			return utils.ResponseError(ctx, fiber.StatusNotFound, err.Error())
		}
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "transaction updated")
}

func (h *TransactionHandler) Delete(ctx *fiber.Ctx) error {
	session, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := strconv.ParseUint(ctx.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid transaction id")
	}

	if err := h.svc.DeleteTransaction(session, uint(id)); err != nil {
		if err.Error() == "transaction not found" {
			return utils.ResponseError(ctx, fiber.StatusNotFound, err.Error())
		}
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "transaction deleted")
}

func (h *TransactionHandler) BulkCreate(ctx *fiber.Ctx) error {
	session, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	var requestBody dto.BulkTransactionRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid inputs")
	}

	if err := h.svc.AddBulkTransactions(session, requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, "transactions registered")
}

func (h *TransactionHandler) Summary(ctx *fiber.Ctx) error {
	session, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	stats, err := h.svc.GetSummaryStats(session)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, "failed to load summary")
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, stats)
}

func (h *TransactionHandler) TaxData(ctx *fiber.Ctx) error {
	session, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	rows, err := h.svc.GetTaxData(session)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, "failed to load tax data")
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, rows)
}

func (h *TransactionHandler) Receipt(ctx *fiber.Ctx) error {
	session, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	data, err := h.svc.GetDonationReceiptData(session)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, data)
}
