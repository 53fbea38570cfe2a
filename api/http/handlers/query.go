package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

func parseCount(c *fiber.Ctx, name string, def int) int {
	count := def
	if v := strings.TrimSpace(c.Query(name)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			count = n
		}
	}
	return count
}
