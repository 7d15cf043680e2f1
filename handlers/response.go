package handlers

import (
	"strconv"

	"github.com/anjiri1684/quiz_connect/errs"
	"github.com/anjiri1684/quiz_connect/logger"
	"github.com/anjiri1684/quiz_connect/middleware"
	"github.com/anjiri1684/quiz_connect/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

func respond(c *fiber.Ctx, status int, data interface{}, message ...string) error {
	body := fiber.Map{"success": true, "data": data}
	if len(message) > 0 {
		body["message"] = message[0]
	}
	return c.Status(status).JSON(body)
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, errs.Invalid(name, "must be a positive integer")
	}
	return uint(id), nil
}

// bind strictly decodes the JSON body into dst and validates it.
func bind(c *fiber.Ctx, v *validation.Validator, dst interface{}) error {
	return v.Decode(c.Body(), dst)
}

// ErrorHandler maps service errors to HTTP responses. Unknown errors become
// an opaque 500 and are reported.
func ErrorHandler(log logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var (
			code = fiber.StatusInternalServerError
			body = fiber.Map{"success": false}

			vErr     *errs.ValidationError
			notFound *errs.NotFoundError
			conflict *errs.ConflictError
			tErr     *errs.TransitionError
			already  *errs.AlreadySubmittedError
			fErr     *fiber.Error
		)

		switch {
		case errors.As(err, &vErr):
			code = fiber.StatusBadRequest
			body["message"] = vErr.Error()
			if len(vErr.Fields) > 0 {
				fields := make(map[string]string, len(vErr.Fields))
				for _, f := range vErr.Fields {
					fields[f.Field] = f.Error
				}
				body["fields"] = fields
			}
		case errors.Is(err, errs.ErrUnauthorized):
			code = fiber.StatusUnauthorized
			body["message"] = errs.ErrUnauthorized.Error()
		case errors.Is(err, errs.ErrForbidden):
			code = fiber.StatusForbidden
			body["message"] = errs.ErrForbidden.Error()
		case errors.Is(err, errs.ErrAccountInactive):
			code = fiber.StatusForbidden
			body["message"] = errs.ErrAccountInactive.Error()
		case errors.As(err, &notFound):
			code = fiber.StatusNotFound
			body["message"] = notFound.Error()
		case errors.As(err, &conflict):
			code = fiber.StatusConflict
			body["message"] = conflict.Error()
		case errors.As(err, &tErr):
			code = fiber.StatusConflict
			body["message"] = tErr.Error()
		case errors.As(err, &already):
			code = fiber.StatusBadRequest
			body["message"] = already.Error()
			body["score"] = already.Score
		case errors.Is(err, errs.ErrDeadlinePassed):
			code = fiber.StatusBadRequest
			body["message"] = errs.ErrDeadlinePassed.Error()
		case errors.As(err, &fErr):
			code = fErr.Code
			body["message"] = fErr.Message
		default:
			body["message"] = "Internal Server Error"
			args := []interface{}{err, map[string]interface{}{"path": c.Path(), "method": c.Method()}}
			if p, perr := middleware.CurrentPrincipal(c); perr == nil {
				args = append(args, logger.Person{ID: strconv.FormatUint(uint64(p.AccountID), 10), Username: p.Username})
			}
			log.Error("🔥 Unhandled error", args...)
		}

		return c.Status(code).JSON(body)
	}
}
