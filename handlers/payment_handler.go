package handlers

import (
	"github.com/anjiri1684/quiz_connect/errs"
	"github.com/anjiri1684/quiz_connect/middleware"
	"github.com/anjiri1684/quiz_connect/services"
	"github.com/anjiri1684/quiz_connect/utils"
	"github.com/anjiri1684/quiz_connect/validation"
	"github.com/gofiber/fiber/v2"
)

type PaymentHandler struct {
	payments *services.PaymentService
	v        *validation.Validator
}

func NewPaymentHandler(payments *services.PaymentService, v *validation.Validator) *PaymentHandler {
	return &PaymentHandler{payments: payments, v: v}
}

func (h *PaymentHandler) Create(c *fiber.Ctx) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	var req services.PaymentInput
	if err := bind(c, h.v, &req); err != nil {
		return err
	}
	payment, err := h.payments.Create(p, req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, payment, "Payment recorded and awaiting validation")
}

func (h *PaymentHandler) List(c *fiber.Ctx) error {
	page := utils.PageFromQuery(c)
	payments, total, err := h.payments.List(page)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": payments, "meta": page.Meta(total)})
}

func (h *PaymentHandler) StudentPayments(c *fiber.Ctx) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if !p.CanAccessAccount(id) {
		return errs.ErrForbidden
	}
	payments, err := h.payments.ListForAccount(id)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, payments)
}

func (h *PaymentHandler) Validate(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	act, err := h.payments.Validate(id)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, act, "Payment validated and account activated")
}

func (h *PaymentHandler) Partial(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	act, err := h.payments.MarkPartial(id)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, act, "Partial payment accepted and account activated")
}

func (h *PaymentHandler) Reject(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.payments.Reject(id); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, nil, "Payment rejected and removed")
}
