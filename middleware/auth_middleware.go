package middleware

import (
	"github.com/anjiri1684/quiz_connect/auth"
	"github.com/anjiri1684/quiz_connect/errs"
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
)

const principalKey = "principal"

// Protected verifies the bearer token and stores the caller's Principal.
func Protected(secret string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:     []byte(secret),
		SigningMethod:  "HS256",
		Claims:         &auth.Claims{},
		SuccessHandler: storePrincipal,
		ErrorHandler:   jwtError,
	})
}

func storePrincipal(c *fiber.Ctx) error {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return jwtError(c, errs.ErrUnauthorized)
	}
	claims, ok := token.Claims.(*auth.Claims)
	if !ok {
		return jwtError(c, errs.ErrUnauthorized)
	}
	p, err := claims.Principal()
	if err != nil {
		return jwtError(c, err)
	}
	c.Locals(principalKey, p)
	return c.Next()
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return c.Status(fiber.StatusUnauthorized).
			JSON(fiber.Map{"success": false, "message": "Missing or malformed JWT"})
	}
	return c.Status(fiber.StatusUnauthorized).
		JSON(fiber.Map{"success": false, "message": "Invalid or expired JWT"})
}

// CurrentPrincipal returns the caller stored by Protected.
func CurrentPrincipal(c *fiber.Ctx) (auth.Principal, error) {
	p, ok := c.Locals(principalKey).(auth.Principal)
	if !ok {
		return auth.Principal{}, errs.ErrUnauthorized
	}
	return p, nil
}

// Require lets the request through only when the caller holds every capability.
func Require(caps ...auth.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := CurrentPrincipal(c)
		if err != nil {
			return err
		}
		for _, want := range caps {
			if !p.Can(want) {
				return errs.ErrForbidden
			}
		}
		return c.Next()
	}
}

func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := CurrentPrincipal(c)
		if err != nil {
			return err
		}
		if !p.IsAdmin() {
			return errs.ErrForbidden
		}
		return c.Next()
	}
}
