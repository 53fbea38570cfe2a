package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/artem13815/resumerank/api/http/handlers"
	"github.com/artem13815/resumerank/api/http/presenter"
)

// Register wires all HTTP routes onto given Fiber app.
func Register(app *fiber.App, screenings *handlers.ScreeningHandler, admin *handlers.AdminHandler, health *handlers.HealthHandler, authMW fiber.Handler, analyzePerMinute int) {
	// Security headers on every response
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	api := app.Group("/api")
	v1 := api.Group("/v1")

	// Health and readiness endpoints for probes/monitoring
	v1.Get("/health", health.Health)
	v1.Get("/ready", health.Ready)

	// Запуск анализа ограничен по частоте на IP.
	rl := limiter.New(limiter.Config{
		Next:       func(c *fiber.Ctx) bool { return analyzePerMinute <= 0 },
		Max:        analyzePerMinute,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return presenter.Error(c, fiber.StatusTooManyRequests,
				fmt.Sprintf("rate limit exceeded: maximum %d analyses per minute, please wait and try again", analyzePerMinute))
		},
	})

	// Скрининги: прогресс доступен без токена, остальное защищено
	sg := v1.Group("/screenings")
	sg.Post("/", screenings.Upload)
	sg.Get("/:id/progress", screenings.Progress)
	sg.Post("/:id/analyze", rl, authMW, screenings.Analyze)
	sg.Get("/:id/results", authMW, screenings.Results)
	sg.Get("/:id/results/top", authMW, screenings.Top)
	sg.Get("/:id/export", authMW, screenings.Export)
	sg.Get("/:id", authMW, screenings.Get)

	// Быстрая оценка без создания скрининга
	v1.Post("/quick-feedback", screenings.QuickFeedback)

	ag := v1.Group("/admin")
	ag.Post("/screenings/cleanup", admin.Cleanup)
}
