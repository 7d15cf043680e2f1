package handlers

import (
	"github.com/anjiri1684/quiz_connect/errs"
	"github.com/anjiri1684/quiz_connect/middleware"
	"github.com/anjiri1684/quiz_connect/services"
	"github.com/anjiri1684/quiz_connect/validation"
	"github.com/gofiber/fiber/v2"
)

type NotificationHandler struct {
	notifications *services.NotificationService
	v             *validation.Validator
}

func NewNotificationHandler(notifications *services.NotificationService, v *validation.Validator) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, v: v}
}

func (h *NotificationHandler) Create(c *fiber.Ctx) error {
	var req services.NotificationInput
	if err := bind(c, h.v, &req); err != nil {
		return err
	}
	n, err := h.notifications.Create(req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, n, "Notification sent")
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	list, err := h.notifications.List()
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, list)
}

func (h *NotificationHandler) StudentNotifications(c *fiber.Ctx) error {
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
	list, err := h.notifications.ListFor(id)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, list)
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.notifications.MarkRead(p, id); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, nil, "Notification marked as read")
}
