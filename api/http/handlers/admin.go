package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/artem13815/resumerank/api/http/presenter"
	"github.com/artem13815/resumerank/pkg/screening"
)

type AdminHandler struct {
	useCase    screening.UseCase
	keyHash    string
	sessionTTL time.Duration
}

// NewAdminHandler принимает bcrypt-хеш админ-ключа, пустой хеш выключает маршруты.
func NewAdminHandler(useCase screening.UseCase, keyHash string, sessionTTL time.Duration) *AdminHandler {
	return &AdminHandler{useCase: useCase, keyHash: keyHash, sessionTTL: sessionTTL}
}

// Cleanup удаляет скрининги старше заданного срока.
// @Summary Очистка устаревших скринингов
// @Tags    admin
// @Produce json
// @Param   hours query int false "Удалить скрининги старше N часов"
// @Param   X-Admin-Key header string true "Ключ администратора"
// @Success 200 {object} map[string]any
// @Failure 401 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Failure 500 {object} presenter.ErrorResponse
// @Router  /admin/screenings/cleanup [post]
func (h *AdminHandler) Cleanup(c *fiber.Ctx) error {
	if h.keyHash == "" {
		return presenter.Error(c, http.StatusNotFound, "not found")
	}
	key := c.Get("X-Admin-Key")
	if key == "" {
		return presenter.Error(c, http.StatusUnauthorized, "admin key required")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(h.keyHash), []byte(key)); err != nil {
		return presenter.Error(c, http.StatusUnauthorized, "invalid admin key")
	}
	olderThan := h.sessionTTL
	if hours := c.QueryInt("hours"); hours > 0 {
		olderThan = time.Duration(hours) * time.Hour
	}
	removed, err := h.useCase.Cleanup(c.Context(), olderThan)
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "cleanup failed")
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"removed": removed})
}
