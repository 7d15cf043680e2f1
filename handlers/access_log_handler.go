package handlers

import (
	"strconv"
	"time"

	"github.com/anjiri1684/quiz_connect/logger"
	"github.com/anjiri1684/quiz_connect/middleware"
	"github.com/anjiri1684/quiz_connect/validation"
	"github.com/gofiber/fiber/v2"
)

// AccessEvent is a client-side security event, such as a blocked copy or a
// devtools opening.
type AccessEvent struct {
	Event   string                 `json:"event" validate:"required,max=100"`
	Path    string                 `json:"path" validate:"max=500"`
	Details map[string]interface{} `json:"details"`
}

// ViewerEvent is reported by the protected document viewer.
type ViewerEvent struct {
	Filename   string `json:"filename" validate:"max=255"`
	Action     string `json:"action" validate:"max=100"`
	Violations int    `json:"violations" validate:"min=0"`
}

type AccessLogHandler struct {
	log logger.Logger
	v   *validation.Validator
}

func NewAccessLogHandler(log logger.Logger, v *validation.Validator) *AccessLogHandler {
	return &AccessLogHandler{log: log, v: v}
}

func (h *AccessLogHandler) Access(c *fiber.Ctx) error {
	var req AccessEvent
	if err := bind(c, h.v, &req); err != nil {
		return err
	}
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	h.log.Warn("SECURITY_LOG", map[string]interface{}{
		"ip":         c.IP(),
		"user_agent": truncate(c.Get(fiber.HeaderUserAgent), 100),
		"event":      req.Event,
		"path":       req.Path,
		"details":    req.Details,
	}, logger.Person{ID: strconv.FormatUint(uint64(p.AccountID), 10), Username: p.Username})
	return c.JSON(fiber.Map{"success": true})
}

func (h *AccessLogHandler) Viewer(c *fiber.Ctx) error {
	var req ViewerEvent
	if err := bind(c, h.v, &req); err != nil {
		return err
	}
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	if req.Filename == "" {
		req.Filename = "unknown"
	}
	if req.Action == "" {
		req.Action = "unknown"
	}
	h.log.Info("PDF_VIEWER_LOG", map[string]interface{}{
		"ip":         c.IP(),
		"user_agent": truncate(c.Get(fiber.HeaderUserAgent), 200),
		"filename":   req.Filename,
		"action":     req.Action,
		"violations": req.Violations,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	}, logger.Person{ID: strconv.FormatUint(uint64(p.AccountID), 10), Username: p.Username})
	return c.JSON(fiber.Map{"success": true})
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
