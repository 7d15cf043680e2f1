package handlers

import (
	"github.com/anjiri1684/quiz_connect/middleware"
	"github.com/anjiri1684/quiz_connect/services"
	"github.com/anjiri1684/quiz_connect/validation"
	"github.com/gofiber/fiber/v2"
)

type StudentLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	AuthCode string `json:"auth_code" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthHandler struct {
	auth     *services.AuthService
	accounts *services.AccountService
	v        *validation.Validator
}

func NewAuthHandler(auth *services.AuthService, accounts *services.AccountService, v *validation.Validator) *AuthHandler {
	return &AuthHandler{auth: auth, accounts: accounts, v: v}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req services.RegisterInput
	if err := bind(c, h.v, &req); err != nil {
		return err
	}
	acc, err := h.accounts.Register(req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, acc, "Registration successful. Your account will be activated once your payment is validated.")
}

func (h *AuthHandler) LoginStudent(c *fiber.Ctx) error {
	var req StudentLoginRequest
	if err := bind(c, h.v, &req); err != nil {
		return err
	}
	sess, err := h.auth.LoginStudent(req.Email, req.AuthCode)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, sess)
}

func (h *AuthHandler) LoginAdmin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := bind(c, h.v, &req); err != nil {
		return err
	}
	sess, err := h.auth.LoginAdmin(req.Email, req.Password)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, sess)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := bind(c, h.v, &req); err != nil {
		return err
	}
	sess, err := h.auth.Login(req.Email, req.Password)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, sess)
}

func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	acc, err := h.auth.Verify(p)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, acc)
}
