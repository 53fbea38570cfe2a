package screening

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/artem13815/resumerank/pkg/extract"
	"github.com/artem13815/resumerank/pkg/ranking"
	"github.com/artem13815/resumerank/pkg/resume"
	"github.com/artem13815/resumerank/pkg/scoring"
	"github.com/artem13815/resumerank/pkg/skills"
)

// extractWorkers — предел параллелизма на стадии извлечения навыков.
const extractWorkers = 4

// maxFeedbackGaps — сколько недостающих навыков показывать в быстрой оценке.
const maxFeedbackGaps = 3

// Upload — сырой файл из multipart-формы.
type Upload struct {
	Filename string
	Data     []byte
}

// Limits — ограничения на загрузку батча.
type Limits struct {
	MaxBatch       int
	MaxUploadBytes int64
	MinJobWords    int
}

// DefaultLimits: 10 файлов, 10 МБ на файл, минимум 20 слов в вакансии.
func DefaultLimits() Limits {
	return Limits{MaxBatch: 10, MaxUploadBytes: 10 << 20, MinJobWords: 20}
}

// Feedback — мгновенная оценка одного резюме без сохранения сессии.
type Feedback struct {
	Score         float64  `json:"score"`
	SkillMatch    float64  `json:"skill_match"`
	MissingSkills []string `json:"missing_skills"`
}

// UseCase — сценарии работы со скринингами: загрузка батча, конвейер
// анализа, выдача результатов и обслуживание.
type UseCase interface {
	Create(ctx context.Context, jobDescription string, uploads []Upload) (Screening, error)
	Analyze(ctx context.Context, id uuid.UUID) (ResultSet, error)
	Get(ctx context.Context, id uuid.UUID) (Screening, error)
	Results(ctx context.Context, id uuid.UUID) (ResultSet, error)
	Progress(ctx context.Context, id uuid.UUID) (Progress, error)
	QuickFeedback(resumeText, jobDescription string) Feedback
	Cleanup(ctx context.Context, olderThan time.Duration) (int64, error)
}

type service struct {
	repo      Repository
	registry  *skills.Registry
	extractor *extract.Extractor
	scorer    *scoring.Scorer
	limits    Limits
	log       *zap.Logger

	parse func(data []byte) (resume.Parsed, error)
	now   func() time.Time
}

// NewService собирает сервис скрининга поверх репозитория и движка оценки.
func NewService(repo Repository, registry *skills.Registry, extractor *extract.Extractor, scorer *scoring.Scorer, limits Limits, log *zap.Logger) UseCase {
	return &service{
		repo:      repo,
		registry:  registry,
		extractor: extractor,
		scorer:    scorer,
		limits:    limits,
		log:       log,
		parse:     resume.Parse,
		now:       time.Now,
	}
}

// Create валидирует батч, разбирает PDF и сохраняет скрининг.
// Текст кандидатов извлекается сразу при загрузке, чтобы Analyze
// работал только с уже разобранными данными.
func (s *service) Create(ctx context.Context, jobDescription string, uploads []Upload) (Screening, error) {
	if len(uploads) == 0 {
		return Screening{}, ErrNoFiles
	}
	if s.limits.MaxBatch > 0 && len(uploads) > s.limits.MaxBatch {
		return Screening{}, fmt.Errorf("%w: %d files, maximum %d", ErrBatchTooLarge, len(uploads), s.limits.MaxBatch)
	}
	jobDescription = strings.TrimSpace(jobDescription)
	if words := len(strings.Fields(jobDescription)); words < s.limits.MinJobWords {
		return Screening{}, fmt.Errorf("%w: %d words, need at least %d", ErrJobTooShort, words, s.limits.MinJobWords)
	}

	// MD5 здесь не криптография, только отпечаток содержимого для
	// дедупликации внутри батча.
	hashes := make([]string, len(uploads))
	seen := make(map[string]struct{}, len(uploads))
	var duplicates []string
	for i, up := range uploads {
		sum := md5.Sum(up.Data)
		hashes[i] = hex.EncodeToString(sum[:])
		if _, ok := seen[hashes[i]]; ok {
			duplicates = append(duplicates, up.Filename)
			continue
		}
		seen[hashes[i]] = struct{}{}
	}
	if len(duplicates) > 0 {
		return Screening{}, fmt.Errorf("%w: %s", ErrDuplicate, strings.Join(duplicates, ", "))
	}

	for _, up := range uploads {
		if !strings.EqualFold(filepath.Ext(up.Filename), ".pdf") {
			return Screening{}, fmt.Errorf("%w: %s", ErrBadFormat, up.Filename)
		}
		if s.limits.MaxUploadBytes > 0 && int64(len(up.Data)) > s.limits.MaxUploadBytes {
			return Screening{}, fmt.Errorf("%w: %s (%.1f MB)", ErrFileTooLarge, up.Filename, float64(len(up.Data))/(1<<20))
		}
	}

	sc := Screening{
		ID:             uuid.New(),
		JobDescription: jobDescription,
		Status:         StatusUploaded,
		Candidates:     make([]CandidateFile, 0, len(uploads)),
		Progress:       Progress{Step: "Files uploaded", Percent: 0},
		CreatedAt:      s.now().UTC(),
	}
	for i, up := range uploads {
		parsed, err := s.parse(up.Data)
		if err != nil {
			s.log.Warn("PDF parse failed", zap.String("file", up.Filename), zap.Error(err))
		} else if parsed.Scanned {
			s.log.Warn("scanned PDF without text layer", zap.String("file", up.Filename), zap.Int("pages", parsed.Pages))
		}
		sc.Candidates = append(sc.Candidates, CandidateFile{
			Filename: up.Filename,
			Text:     parsed.Text,
			MD5:      hashes[i],
			Pages:    parsed.Pages,
			Scanned:  parsed.Scanned,
			ParseOK:  parsed.OK,
		})
	}

	if err := s.repo.Create(ctx, sc); err != nil {
		return Screening{}, fmt.Errorf("create screening: %w", err)
	}
	s.log.Info("screening created",
		zap.String("screening", sc.ID.String()),
		zap.Int("files", len(uploads)))
	return sc, nil
}

// Analyze прогоняет конвейер: навыки вакансии, извлечение по кандидатам,
// оценка, нарративы, ранжирование, сводка. Кандидаты без текста получают
// нулевую fallback-запись и учитываются в failed_count.
func (s *service) Analyze(ctx context.Context, id uuid.UUID) (ResultSet, error) {
	sc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return ResultSet{}, err
	}
	n := len(sc.Candidates)
	if n == 0 {
		return ResultSet{}, ErrNoFiles
	}

	start := s.now()
	s.setProgress(ctx, id, "Starting analysis", 5, "")

	// Тексты уже разобраны при загрузке, стадия оставлена для прогресс-бара.
	s.setProgress(ctx, id, "Parsing PDFs", 10, "")

	s.setProgress(ctx, id, fmt.Sprintf("Extracting skills (0/%d)", n), 30, "")
	required := s.registry.Resolve(sc.JobDescription)
	if required == nil {
		required = []string{}
	}
	s.log.Info("job skills resolved",
		zap.String("screening", id.String()),
		zap.Int("skills", len(required)))

	results := make([]extract.Result, n)
	var done atomic.Int64
	var g errgroup.Group
	g.SetLimit(extractWorkers)
	for i, cf := range sc.Candidates {
		i, cf := i, cf
		g.Go(func() error {
			if cf.ParseOK {
				results[i] = s.extractor.Extract(cf.Text, cf.Filename)
			} else {
				results[i] = s.extractor.Fallback(cf.Filename)
			}
			d := done.Add(1)
			s.setProgress(ctx, id, fmt.Sprintf("Extracting skills (%d/%d)", d, n), 30+int(25*d/int64(n)), "")
			return nil
		})
	}
	// Воркеры не возвращают ошибок, группа нужна ради лимита.
	_ = g.Wait()

	s.setProgress(ctx, id, "Scoring candidates", 60, "")
	records := make([]scoring.Record, n)
	for i, res := range results {
		rec := s.scorer.Score(res, required)
		rec.Position = i
		records[i] = rec
	}

	// Нарратив уже построен внутри Score, стадия только для прогресс-бара.
	s.setProgress(ctx, id, "Generating gap analyses", 75, "")

	s.setProgress(ctx, id, "Ranking candidates", 90, "")
	ranked := ranking.Rank(records)
	summary := ranking.Summarize(ranked)

	failed := 0
	for _, cf := range sc.Candidates {
		if !cf.ParseOK {
			failed++
		}
	}

	rs := ResultSet{
		Ranked:         ranked,
		Summary:        summary,
		JobSkills:      required,
		TotalProcessed: n,
		FailedCount:    failed,
		ProcessingSecs: math.Round(s.now().Sub(start).Seconds()*100) / 100,
	}
	if err := s.repo.SaveResults(ctx, id, StatusCompleted, &rs, s.now().UTC()); err != nil {
		s.fail(ctx, id, err)
		return ResultSet{}, fmt.Errorf("save results: %w", err)
	}
	s.setProgress(ctx, id, "Analysis complete", 100, "")

	s.log.Info("screening analyzed",
		zap.String("screening", id.String()),
		zap.Int("processed", n),
		zap.Int("failed", failed),
		zap.Float64("seconds", rs.ProcessingSecs),
		zap.String("topScorer", summary.TopScorer))
	return rs, nil
}

// Get возвращает скрининг целиком.
func (s *service) Get(ctx context.Context, id uuid.UUID) (Screening, error) {
	return s.repo.GetByID(ctx, id)
}

// Results возвращает отчёт завершённого анализа.
func (s *service) Results(ctx context.Context, id uuid.UUID) (ResultSet, error) {
	sc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return ResultSet{}, err
	}
	if sc.Status != StatusCompleted || sc.Results == nil {
		return ResultSet{}, ErrNotCompleted
	}
	return *sc.Results, nil
}

// Progress возвращает текущую стадию конвейера.
func (s *service) Progress(ctx context.Context, id uuid.UUID) (Progress, error) {
	sc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Progress{}, err
	}
	return sc.Progress, nil
}

// QuickFeedback оценивает один текст резюме против вакансии без
// создания скрининга. Возвращает финальный скор, покрытие навыков и
// первые недостающие навыки.
func (s *service) QuickFeedback(resumeText, jobDescription string) Feedback {
	required := s.registry.Resolve(jobDescription)
	if required == nil {
		required = []string{}
	}
	rec := s.scorer.Score(s.extractor.Extract(resumeText, ""), required)
	missing := rec.Missing
	if len(missing) > maxFeedbackGaps {
		missing = missing[:maxFeedbackGaps]
	}
	return Feedback{Score: rec.FinalScore, SkillMatch: rec.SkillScore, MissingSkills: missing}
}

// Cleanup удаляет скрининги старше заданного срока.
func (s *service) Cleanup(ctx context.Context, olderThan time.Duration) (int64, error) {
	removed, err := s.repo.DeleteOlderThan(ctx, s.now().UTC().Add(-olderThan))
	if err != nil {
		return 0, fmt.Errorf("cleanup screenings: %w", err)
	}
	if removed > 0 {
		s.log.Info("expired screenings removed", zap.Int64("count", removed))
	}
	return removed, nil
}

// fail переводит скрининг в failed и пишет причину в прогресс.
func (s *service) fail(ctx context.Context, id uuid.UUID, cause error) {
	s.setProgress(ctx, id, "Error occurred", 0, cause.Error())
	if err := s.repo.SaveResults(ctx, id, StatusFailed, nil, s.now().UTC()); err != nil {
		s.log.Warn("mark screening failed", zap.String("screening", id.String()), zap.Error(err))
	}
}

func (s *service) setProgress(ctx context.Context, id uuid.UUID, step string, percent int, errMsg string) {
	p := Progress{Step: step, Percent: percent, Error: errMsg}
	if err := s.repo.SetProgress(ctx, id, p); err != nil {
		s.log.Warn("progress update failed", zap.String("screening", id.String()), zap.Error(err))
	}
}
