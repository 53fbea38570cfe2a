package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/artem13815/resumerank/api/http/presenter"
	"github.com/artem13815/resumerank/pkg/export"
	"github.com/artem13815/resumerank/pkg/ranking"
	"github.com/artem13815/resumerank/pkg/screening"
	"github.com/artem13815/resumerank/pkg/security/jwt"
)

type ScreeningHandler struct {
	useCase    screening.UseCase
	tokens     *jwt.Generator
	limits     screening.Limits
	sessionTTL time.Duration
	log        *zap.Logger
}

func NewScreeningHandler(useCase screening.UseCase, tokens *jwt.Generator, limits screening.Limits, sessionTTL time.Duration, log *zap.Logger) *ScreeningHandler {
	return &ScreeningHandler{useCase: useCase, tokens: tokens, limits: limits, sessionTTL: sessionTTL, log: log}
}

// Upload принимает пакет резюме и описание вакансии, создаёт скрининг
// и выдаёт токен для дальнейших операций с ним.
// @Summary Загрузить пакет резюме
// @Description Принимает PDF-файлы и текст вакансии, создаёт скрининг и возвращает токен доступа к нему.
// @Tags    Скрининг
// @Accept  multipart/form-data
// @Produce json
// @Param   resumes formData file true "Файлы резюме (PDF)"
// @Param   job_description formData string true "Текст описания вакансии"
// @Success 201 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 500 {object} presenter.ErrorResponse
// @Router  /screenings [post]
func (h *ScreeningHandler) Upload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "multipart form is required")
	}
	files := form.File["resumes"]
	if len(files) == 0 {
		return presenter.Error(c, http.StatusBadRequest, "no files provided")
	}
	uploads := make([]screening.Upload, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return presenter.Error(c, http.StatusBadRequest, "failed to open uploaded file: "+fh.Filename)
		}
		data, err := readAtMost(f, h.limits.MaxUploadBytes)
		f.Close()
		if err != nil {
			return presenter.Error(c, http.StatusBadRequest, err.Error())
		}
		uploads = append(uploads, screening.Upload{Filename: fh.Filename, Data: data})
	}
	sc, err := h.useCase.Create(c.Context(), c.FormValue("job_description"), uploads)
	if err != nil {
		return mapScreeningError(c, err)
	}
	token, err := h.tokens.Generate(c.Context(), sc.ID)
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to issue token")
	}
	return presenter.JSON(c, http.StatusCreated, fiber.Map{
		"screeningId":   sc.ID.String(),
		"filesUploaded": len(sc.Candidates),
		"status":        "success",
		"token":         token,
	})
}

// Analyze прогоняет загруженный пакет через конвейер: парсинг, извлечение
// навыков, скоринг и ранжирование кандидатов.
// @Summary Запустить анализ скрининга
// @Description Анализирует загруженные резюме и возвращает ранжированный список кандидатов со сводкой.
// @Tags    Скрининг
// @Produce json
// @Param   id path string true "ID скрининга (UUID)"
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Failure 403 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Failure 429 {object} presenter.ErrorResponse
// @Failure 500 {object} presenter.ErrorResponse
// @Router  /screenings/{id}/analyze [post]
func (h *ScreeningHandler) Analyze(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid id")
	}
	if !ownsScreening(c, id) {
		return presenter.Error(c, http.StatusForbidden, "token does not match screening")
	}
	rs, err := h.useCase.Analyze(c.Context(), id)
	if err != nil {
		return mapScreeningError(c, err)
	}
	// Попутно убираем устаревшие скрининги.
	if _, err := h.useCase.Cleanup(c.Context(), h.sessionTTL); err != nil {
		h.log.Warn("cleanup after analyze failed", zap.Error(err))
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{
		"screeningId": id.String(),
		"status":      "success",
		"results":     rs,
	})
}

// Get возвращает статус скрининга и счётчики без результатов.
// @Summary Статус скрининга
// @Tags    Скрининг
// @Produce json
// @Param   id path string true "ID скрининга (UUID)"
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Failure 403 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /screenings/{id} [get]
func (h *ScreeningHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid id")
	}
	if !ownsScreening(c, id) {
		return presenter.Error(c, http.StatusForbidden, "token does not match screening")
	}
	sc, err := h.useCase.Get(c.Context(), id)
	if err != nil {
		return mapScreeningError(c, err)
	}
	resp := fiber.Map{
		"screeningId":   sc.ID.String(),
		"status":        sc.Status,
		"filesUploaded": len(sc.Candidates),
		"createdAt":     sc.CreatedAt,
	}
	if sc.Results != nil {
		resp["totalProcessed"] = sc.Results.TotalProcessed
		resp["failedCount"] = sc.Results.FailedCount
	}
	if sc.CompletedAt != nil {
		resp["completedAt"] = sc.CompletedAt
	}
	return presenter.JSON(c, http.StatusOK, resp)
}

// Results возвращает сохранённые результаты анализа.
// @Summary Результаты скрининга
// @Tags    Скрининг
// @Produce json
// @Param   id path string true "ID скрининга (UUID)"
// @Security BearerAuth
// @Success 200 {object} screening.ResultSet
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Failure 403 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /screenings/{id}/results [get]
func (h *ScreeningHandler) Results(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid id")
	}
	if !ownsScreening(c, id) {
		return presenter.Error(c, http.StatusForbidden, "token does not match screening")
	}
	rs, err := h.useCase.Results(c.Context(), id)
	if err != nil {
		return mapScreeningError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, rs)
}

// Top возвращает первых N кандидатов отранжированного списка.
// @Summary Топ кандидатов скрининга
// @Tags    Скрининг
// @Produce json
// @Param   id path string true "ID скрининга (UUID)"
// @Param   n query int false "Сколько кандидатов вернуть (по умолчанию 5)"
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Failure 403 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /screenings/{id}/results/top [get]
func (h *ScreeningHandler) Top(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid id")
	}
	if !ownsScreening(c, id) {
		return presenter.Error(c, http.StatusForbidden, "token does not match screening")
	}
	rs, err := h.useCase.Results(c.Context(), id)
	if err != nil {
		return mapScreeningError(c, err)
	}
	n := parseCount(c, "n", 5)
	return presenter.JSON(c, http.StatusOK, fiber.Map{
		"screeningId": id.String(),
		"candidates":  ranking.Top(rs.Ranked, n),
	})
}

// Export отдаёт результаты анализа CSV-файлом.
// @Summary Экспорт результатов в CSV
// @Description Выгружает ранжированный список кандидатов, с summary=true отдаёт сводку по батчу.
// @Tags    Скрининг
// @Produce text/csv
// @Param   id path string true "ID скрининга (UUID)"
// @Param   summary query bool false "Выгрузить сводку вместо списка кандидатов"
// @Security BearerAuth
// @Success 200 {file} file
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Failure 403 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /screenings/{id}/export [get]
func (h *ScreeningHandler) Export(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid id")
	}
	if !ownsScreening(c, id) {
		return presenter.Error(c, http.StatusForbidden, "token does not match screening")
	}
	rs, err := h.useCase.Results(c.Context(), id)
	if err != nil {
		return mapScreeningError(c, err)
	}
	if len(rs.Ranked) == 0 {
		return presenter.Error(c, http.StatusBadRequest, "no candidates to export")
	}
	now := time.Now()
	content := export.CSV(rs.Ranked)
	if c.QueryBool("summary") {
		content = export.SummaryCSV(rs.Summary, now)
	}
	return presenter.CSV(c, export.Filename(now), content)
}

// Progress возвращает текущий шаг конвейера. Неизвестный ID не считается
// ошибкой и даёт нулевой прогресс.
// @Summary Прогресс анализа
// @Tags    Скрининг
// @Produce json
// @Param   id path string true "ID скрининга (UUID)"
// @Success 200 {object} screening.Progress
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /screenings/{id}/progress [get]
func (h *ScreeningHandler) Progress(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid id")
	}
	p, err := h.useCase.Progress(c.Context(), id)
	if errors.Is(err, screening.ErrNotFound) {
		return presenter.JSON(c, http.StatusOK, screening.Progress{Step: "Initializing", Percent: 0})
	}
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to load progress")
	}
	return presenter.JSON(c, http.StatusOK, p)
}

type quickFeedbackRequest struct {
	ResumeText     string `json:"resume_text"`
	JobDescription string `json:"job_description"`
}

// QuickFeedback оценивает одно резюме против вакансии без создания скрининга.
// @Summary Быстрая оценка резюме
// @Tags    Скрининг
// @Accept  json
// @Produce json
// @Param   input body quickFeedbackRequest true "Текст резюме и вакансии"
// @Success 200 {object} screening.Feedback
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /quick-feedback [post]
func (h *ScreeningHandler) QuickFeedback(c *fiber.Ctx) error {
	var req quickFeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	if strings.TrimSpace(req.ResumeText) == "" || strings.TrimSpace(req.JobDescription) == "" {
		return presenter.Error(c, http.StatusBadRequest, "resume text and job description are required")
	}
	return presenter.JSON(c, http.StatusOK, h.useCase.QuickFeedback(req.ResumeText, req.JobDescription))
}

// ownsScreening сверяет ID скрининга из токена с ID из пути.
func ownsScreening(c *fiber.Ctx, id uuid.UUID) bool {
	claimed, _ := c.Locals("screeningId").(string)
	return claimed == id.String()
}

func mapScreeningError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, screening.ErrNotFound):
		return presenter.Error(c, http.StatusNotFound, "screening not found")
	case errors.Is(err, screening.ErrNotCompleted):
		return presenter.Error(c, http.StatusBadRequest, "results not ready")
	case errors.Is(err, screening.ErrNoFiles),
		errors.Is(err, screening.ErrJobTooShort),
		errors.Is(err, screening.ErrBatchTooLarge),
		errors.Is(err, screening.ErrFileTooLarge),
		errors.Is(err, screening.ErrBadFormat),
		errors.Is(err, screening.ErrDuplicate):
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	default:
		return presenter.Error(c, http.StatusInternalServerError, "internal server error")
	}
}

func readAtMost(f multipart.File, max int64) ([]byte, error) {
	limited := io.LimitReader(f, max+1)
	b, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if int64(len(b)) > max {
		return nil, fmt.Errorf("file too large: limit is %d bytes", max)
	}
	return b, nil
}
