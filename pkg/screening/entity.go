package screening

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/artem13815/resumerank/pkg/ranking"
)

// Статусы жизненного цикла скрининга.
const (
	StatusUploaded  = "uploaded"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Ошибки доменного слоя. Хендлеры сопоставляют их с HTTP-статусами.
var (
	ErrNotFound      = errors.New("screening not found")
	ErrNoFiles       = errors.New("no resume files provided")
	ErrJobTooShort   = errors.New("job description too short")
	ErrBatchTooLarge = errors.New("too many files in batch")
	ErrFileTooLarge  = errors.New("file exceeds size limit")
	ErrBadFormat     = errors.New("unsupported file format")
	ErrDuplicate     = errors.New("duplicate files detected")
	ErrNotCompleted  = errors.New("analysis not completed")
)

// CandidateFile — один загруженный файл после парсинга. Текст хранится
// вместе со скринингом, чтобы Analyze не зависел от исходных байтов.
type CandidateFile struct {
	Filename string `json:"filename"`
	Text     string `json:"text,omitempty"`
	MD5      string `json:"md5"`
	Pages    int    `json:"pages"`
	Scanned  bool   `json:"scanned"`
	ParseOK  bool   `json:"parseOk"`
}

// Progress — текущая стадия конвейера для поллинга фронтендом.
type Progress struct {
	Step    string `json:"step"`
	Percent int    `json:"percent"`
	Error   string `json:"error,omitempty"`
}

// ResultSet — итоговый отчёт по батчу. Ключи повторяют публичный
// контракт API, поэтому snake_case в отличие от остальных сущностей.
type ResultSet struct {
	Ranked         []ranking.Entry `json:"ranked_candidates"`
	Summary        ranking.Summary `json:"summary"`
	JobSkills      []string        `json:"job_skills"`
	TotalProcessed int             `json:"total_processed"`
	FailedCount    int             `json:"failed_count"`
	ProcessingSecs float64         `json:"processing_time_seconds"`
}

// Screening — батч резюме с описанием вакансии и результатами анализа.
type Screening struct {
	ID             uuid.UUID       `json:"id"`
	JobDescription string          `json:"jobDescription"`
	Status         string          `json:"status"`
	Candidates     []CandidateFile `json:"candidates"`
	Results        *ResultSet      `json:"results,omitempty"`
	Progress       Progress        `json:"progress"`
	CreatedAt      time.Time       `json:"createdAt"`
	CompletedAt    *time.Time      `json:"completedAt,omitempty"`
}

// Repository — порт для хранения скринингов.
type Repository interface {
	Create(ctx context.Context, sc Screening) error
	GetByID(ctx context.Context, id uuid.UUID) (Screening, error)
	SaveResults(ctx context.Context, id uuid.UUID, status string, rs *ResultSet, completedAt time.Time) error
	SetProgress(ctx context.Context, id uuid.UUID, p Progress) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
