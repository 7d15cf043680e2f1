package handlers

import (
	"mime"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/anjiri1684/quiz_connect/errs"
	"github.com/anjiri1684/quiz_connect/middleware"
	"github.com/anjiri1684/quiz_connect/services"
	"github.com/anjiri1684/quiz_connect/validation"
	"github.com/gofiber/fiber/v2"
)

type DocumentHandler struct {
	documents *services.DocumentService
	v         *validation.Validator
}

func NewDocumentHandler(documents *services.DocumentService, v *validation.Validator) *DocumentHandler {
	return &DocumentHandler{documents: documents, v: v}
}

func (h *DocumentHandler) List(c *fiber.Ctx) error {
	docs, err := h.documents.List(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, docs)
}

func (h *DocumentHandler) Upload(c *fiber.Ctx) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}

	file, err := c.FormFile("file")
	if err != nil {
		return errs.Invalid("file", "this field is required")
	}
	if !services.AllowedFile(file.Filename) {
		return errs.Invalid("file", "file type not allowed")
	}

	req := services.UploadInput{
		Title: c.FormValue("title"),
		Type:  c.FormValue("type"),
	}
	if raw := strings.TrimSpace(c.FormValue("downloadable")); raw != "" {
		if raw == "on" {
			raw = "true"
		}
		if req.Downloadable, err = strconv.ParseBool(raw); err != nil {
			return errs.Invalid("downloadable", "expected a boolean")
		}
	}
	if err := h.v.Struct(req); err != nil {
		return err
	}

	f, err := file.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	contentType := file.Header.Get(fiber.HeaderContentType)
	doc, err := h.documents.Upload(c.UserContext(), p.AccountID, req, file.Filename, f, contentType)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, doc, "Document uploaded")
}

func (h *DocumentHandler) Download(c *fiber.Ctx) error {
	return h.send(c, true)
}

func (h *DocumentHandler) Preview(c *fiber.Ctx) error {
	return h.send(c, false)
}

func (h *DocumentHandler) send(c *fiber.Ctx, download bool) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	doc, rc, err := h.documents.Open(c.UserContext(), p, id, download)
	if err != nil {
		return err
	}

	ext := filepath.Ext(doc.Path)
	disposition := "inline"
	if download {
		disposition = "attachment"
	}
	c.Type(strings.TrimPrefix(ext, "."))
	c.Set(fiber.HeaderContentDisposition, mime.FormatMediaType(disposition, map[string]string{"filename": doc.Title + ext}))
	c.Set(fiber.HeaderXContentTypeOptions, "nosniff")
	if !download {
		// authenticated content, kept out of shared caches
		c.Set(fiber.HeaderCacheControl, "private, max-age=3600")
	}
	return c.SendStream(rc)
}

func (h *DocumentHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req services.DownloadableInput
	if err := bind(c, h.v, &req); err != nil {
		return err
	}
	doc, err := h.documents.SetDownloadable(id, *req.Downloadable)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, doc, "Document updated")
}

func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.documents.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, nil, "Document deleted")
}

func (h *DocumentHandler) Cleanup(c *fiber.Ctx) error {
	n, err := h.documents.Cleanup(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, fiber.Map{"deleted": n})
}
