package handlers

import (
	"github.com/anjiri1684/quiz_connect/services"
	"github.com/anjiri1684/quiz_connect/utils"
	"github.com/anjiri1684/quiz_connect/validation"
	"github.com/gofiber/fiber/v2"
)

type BulkDeleteRequest struct {
	IDs []uint `json:"ids" validate:"required,min=1,dive,gt=0"`
}

type AccountHandler struct {
	accounts *services.AccountService
	v        *validation.Validator
}

func NewAccountHandler(accounts *services.AccountService, v *validation.Validator) *AccountHandler {
	return &AccountHandler{accounts: accounts, v: v}
}

func (h *AccountHandler) CreateStudent(c *fiber.Ctx) error {
	var req services.NewStudent
	if err := bind(c, h.v, &req); err != nil {
		return err
	}
	acc, code, err := h.accounts.CreateStudent(req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, fiber.Map{"student": acc, "auth_code": code}, "Student created and code sent by email")
}

func (h *AccountHandler) ListStudents(c *fiber.Ctx) error {
	page := utils.PageFromQuery(c)
	students, total, err := h.accounts.List(page)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": students, "meta": page.Meta(total)})
}

func (h *AccountHandler) GetStudent(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	acc, err := h.accounts.Get(id)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, acc)
}

func (h *AccountHandler) ToggleStudent(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	acc, err := h.accounts.Toggle(id)
	if err != nil {
		return err
	}
	msg := "Student deactivated"
	if acc.Active {
		msg = "Student activated"
	}
	return respond(c, fiber.StatusOK, acc, msg)
}

func (h *AccountHandler) ResendCode(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	acc, code, err := h.accounts.ResendCode(id)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, fiber.Map{"email": acc.Email, "auth_code": code}, "A new code was sent by email")
}

func (h *AccountHandler) DeleteStudent(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.accounts.Delete(id); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, nil, "Student deleted")
}

func (h *AccountHandler) BulkDeleteStudents(c *fiber.Ctx) error {
	var req BulkDeleteRequest
	if err := bind(c, h.v, &req); err != nil {
		return err
	}
	n, err := h.accounts.BulkDelete(req.IDs)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, fiber.Map{"deleted": n})
}
