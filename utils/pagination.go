package utils

import (
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type Page struct {
	Page  int
	Limit int
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

func PageFromQuery(c *fiber.Ctx) Page {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return Page{Page: page, Limit: limit}
}

func (p Page) Meta(total int64) fiber.Map {
	return fiber.Map{
		"total":     total,
		"page":      p.Page,
		"last_page": int(math.Ceil(float64(total) / float64(p.Limit))),
	}
}
