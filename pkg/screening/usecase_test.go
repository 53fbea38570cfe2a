package screening

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/artem13815/resumerank/pkg/extract"
	"github.com/artem13815/resumerank/pkg/resume"
	"github.com/artem13815/resumerank/pkg/scoring"
	"github.com/artem13815/resumerank/pkg/skills"
)

// Вакансия с ровно двумя навыками из каталога: python и postgresql.
const testJobDescription = "We are hiring a seasoned engineer who writes python services backed by postgresql. " +
	"The person will join a small friendly group, own several internal projects end to end, " +
	"and help newer colleagues grow through careful patient review."

var testNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

// fakeParse трактует байты как готовый текст, маркеры !!scanned и
// !!broken имитируют скан без текстового слоя и битый файл.
func fakeParse(data []byte) (resume.Parsed, error) {
	text := string(data)
	switch {
	case strings.Contains(text, "!!broken"):
		return resume.Parsed{}, errors.New("malformed xref table")
	case strings.Contains(text, "!!scanned"):
		return resume.Parsed{Pages: 2, Scanned: true, OK: false}, nil
	default:
		return resume.Parsed{Text: text, Pages: 1, OK: true}, nil
	}
}

type memoryRepo struct {
	mu      sync.Mutex
	items   map[uuid.UUID]Screening
	journal []Progress
	saveErr error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{items: make(map[uuid.UUID]Screening)}
}

func (m *memoryRepo) Create(_ context.Context, sc Screening) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[sc.ID] = sc
	return nil
}

func (m *memoryRepo) GetByID(_ context.Context, id uuid.UUID) (Screening, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sc, ok := m.items[id]
	if !ok {
		return Screening{}, ErrNotFound
	}
	return sc, nil
}

func (m *memoryRepo) SaveResults(_ context.Context, id uuid.UUID, status string, rs *ResultSet, completedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil && status == StatusCompleted {
		return m.saveErr
	}
	sc, ok := m.items[id]
	if !ok {
		return ErrNotFound
	}
	sc.Status = status
	sc.Results = rs
	sc.CompletedAt = &completedAt
	m.items[id] = sc
	return nil
}

func (m *memoryRepo) SetProgress(_ context.Context, id uuid.UUID, p Progress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sc, ok := m.items[id]
	if !ok {
		return ErrNotFound
	}
	sc.Progress = p
	m.items[id] = sc
	m.journal = append(m.journal, p)
	return nil
}

func (m *memoryRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, sc := range m.items {
		if sc.CreatedAt.Before(cutoff) {
			delete(m.items, id)
			n++
		}
	}
	return n, nil
}

func newTestService(t *testing.T, repo Repository) *service {
	t.Helper()
	registry := skills.New()
	scorer, err := scoring.New(scoring.DefaultConfig())
	require.NoError(t, err)
	return &service{
		repo:      repo,
		registry:  registry,
		extractor: extract.New(registry),
		scorer:    scorer,
		limits:    DefaultLimits(),
		log:       zap.NewNop(),
		parse:     fakeParse,
		now:       func() time.Time { return testNow },
	}
}

func TestCreateValidations(t *testing.T) {
	ctx := context.Background()
	pdf := func(name, text string) Upload { return Upload{Filename: name, Data: []byte(text)} }

	t.Run("no files", func(t *testing.T) {
		svc := newTestService(t, newMemoryRepo())
		_, err := svc.Create(ctx, testJobDescription, nil)
		assert.ErrorIs(t, err, ErrNoFiles)
	})

	t.Run("batch too large", func(t *testing.T) {
		svc := newTestService(t, newMemoryRepo())
		svc.limits.MaxBatch = 2
		_, err := svc.Create(ctx, testJobDescription, []Upload{
			pdf("a.pdf", "one"), pdf("b.pdf", "two"), pdf("c.pdf", "three"),
		})
		assert.ErrorIs(t, err, ErrBatchTooLarge)
	})

	t.Run("job description too short", func(t *testing.T) {
		svc := newTestService(t, newMemoryRepo())
		_, err := svc.Create(ctx, "senior golang developer wanted", []Upload{pdf("a.pdf", "text")})
		assert.ErrorIs(t, err, ErrJobTooShort)
		assert.ErrorContains(t, err, "4 words")
	})

	t.Run("duplicate content", func(t *testing.T) {
		svc := newTestService(t, newMemoryRepo())
		_, err := svc.Create(ctx, testJobDescription, []Upload{
			pdf("original.pdf", "same bytes"),
			pdf("copy.pdf", "same bytes"),
		})
		assert.ErrorIs(t, err, ErrDuplicate)
		assert.ErrorContains(t, err, "copy.pdf")
	})

	t.Run("unsupported format", func(t *testing.T) {
		svc := newTestService(t, newMemoryRepo())
		_, err := svc.Create(ctx, testJobDescription, []Upload{pdf("resume.docx", "text")})
		assert.ErrorIs(t, err, ErrBadFormat)
		assert.ErrorContains(t, err, "resume.docx")
	})

	t.Run("uppercase extension is accepted", func(t *testing.T) {
		svc := newTestService(t, newMemoryRepo())
		_, err := svc.Create(ctx, testJobDescription, []Upload{pdf("RESUME.PDF", "text")})
		assert.NoError(t, err)
	})

	t.Run("file too large", func(t *testing.T) {
		svc := newTestService(t, newMemoryRepo())
		svc.limits.MaxUploadBytes = 8
		_, err := svc.Create(ctx, testJobDescription, []Upload{pdf("big.pdf", "way more than eight bytes")})
		assert.ErrorIs(t, err, ErrFileTooLarge)
		assert.ErrorContains(t, err, "big.pdf")
	})
}

func TestCreateParsesAndStores(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	svc := newTestService(t, repo)

	sc, err := svc.Create(ctx, testJobDescription, []Upload{
		{Filename: "Alice_Chen.pdf", Data: []byte("Alice Chen\nalice.chen@example.com")},
		{Filename: "scan.pdf", Data: []byte("!!scanned")},
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, sc.ID)
	assert.Equal(t, StatusUploaded, sc.Status)
	assert.Equal(t, Progress{Step: "Files uploaded", Percent: 0}, sc.Progress)
	assert.Equal(t, testNow, sc.CreatedAt)
	require.Len(t, sc.Candidates, 2)

	assert.True(t, sc.Candidates[0].ParseOK)
	assert.Contains(t, sc.Candidates[0].Text, "Alice Chen")
	assert.False(t, sc.Candidates[1].ParseOK)
	assert.True(t, sc.Candidates[1].Scanned)
	assert.NotEmpty(t, sc.Candidates[0].MD5)
	assert.NotEqual(t, sc.Candidates[0].MD5, sc.Candidates[1].MD5)

	stored, err := repo.GetByID(ctx, sc.ID)
	require.NoError(t, err)
	assert.Equal(t, sc.ID, stored.ID)
}

func TestAnalyzePipeline(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	svc := newTestService(t, repo)

	sc, err := svc.Create(ctx, testJobDescription, []Upload{
		{Filename: "Alice_Chen.pdf", Data: []byte(
			"Alice Chen\nalice.chen@example.com\n" +
				"Senior engineer skilled in Python, PostgreSQL and Docker.\n" +
				"Employment: 01/2017 - 01/2023")},
		{Filename: "Bob_Martin.pdf", Data: []byte(
			"Bob Martin\njunior developer learning python\nworked 01/2021 - 01/2022")},
		{Filename: "Corrupted_File.pdf", Data: []byte("!!broken")},
	})
	require.NoError(t, err)

	rs, err := svc.Analyze(ctx, sc.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{"postgresql", "python"}, rs.JobSkills)
	assert.Equal(t, 3, rs.TotalProcessed)
	assert.Equal(t, 1, rs.FailedCount)
	assert.Zero(t, rs.ProcessingSecs)
	require.Len(t, rs.Ranked, 3)

	alice := rs.Ranked[0]
	assert.Equal(t, 1, alice.Rank)
	assert.Equal(t, "Alice Chen", alice.Name)
	assert.Equal(t, "alice.chen@example.com", alice.Email)
	assert.InDelta(t, 100.0, alice.FinalScore, 1e-9)
	assert.Equal(t, []string{"postgresql", "python"}, alice.Matched)
	assert.Contains(t, alice.Narrative, "STRONG MATCH.")

	bob := rs.Ranked[1]
	assert.Equal(t, 2, bob.Rank)
	assert.Equal(t, "Bob Martin", bob.Name)
	assert.InDelta(t, 50.0, bob.SkillScore, 1e-9)
	assert.InDelta(t, 40.0, bob.ExpScore, 1e-9)
	assert.InDelta(t, 47.0, bob.FinalScore, 1e-9)

	broken := rs.Ranked[2]
	assert.Equal(t, 3, broken.Rank)
	assert.Equal(t, "Corrupted File", broken.Name)
	assert.False(t, broken.Parsed)
	assert.Zero(t, broken.FinalScore)
	assert.Contains(t, broken.Narrative, "NOT RECOMMENDED.")

	assert.Equal(t, 3, rs.Summary.TotalCandidates)
	assert.Equal(t, "Alice Chen", rs.Summary.TopScorer)
	assert.InDelta(t, 49.0, rs.Summary.AverageScore, 1e-9)
	assert.Equal(t, 1, rs.Summary.Distribution.Excellent)
	assert.Equal(t, 1, rs.Summary.Distribution.Average)
	assert.Equal(t, 1, rs.Summary.Distribution.Weak)

	stored, err := repo.GetByID(ctx, sc.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, stored.Status)
	require.NotNil(t, stored.CompletedAt)
	assert.Equal(t, testNow, *stored.CompletedAt)
	require.NotNil(t, stored.Results)
	assert.Equal(t, 3, stored.Results.TotalProcessed)
}

func TestAnalyzeProgressMilestones(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	svc := newTestService(t, repo)

	sc, err := svc.Create(ctx, testJobDescription, []Upload{
		{Filename: "a.pdf", Data: []byte("python everywhere")},
		{Filename: "b.pdf", Data: []byte("postgresql tuning")},
		{Filename: "c.pdf", Data: []byte("plain prose")},
	})
	require.NoError(t, err)

	_, err = svc.Analyze(ctx, sc.ID)
	require.NoError(t, err)

	journal := repo.journal
	require.Len(t, journal, 10)
	assert.Equal(t, Progress{Step: "Starting analysis", Percent: 5}, journal[0])
	assert.Equal(t, Progress{Step: "Parsing PDFs", Percent: 10}, journal[1])
	assert.Equal(t, Progress{Step: "Extracting skills (0/3)", Percent: 30}, journal[2])

	// Воркеры пишут прогресс в произвольном порядке, проверяем набор.
	worker := make([]int, 0, 3)
	for _, p := range journal[3:6] {
		assert.True(t, strings.HasPrefix(p.Step, "Extracting skills ("))
		worker = append(worker, p.Percent)
	}
	assert.ElementsMatch(t, []int{38, 46, 55}, worker)

	assert.Equal(t, Progress{Step: "Scoring candidates", Percent: 60}, journal[6])
	assert.Equal(t, Progress{Step: "Generating gap analyses", Percent: 75}, journal[7])
	assert.Equal(t, Progress{Step: "Ranking candidates", Percent: 90}, journal[8])
	assert.Equal(t, Progress{Step: "Analysis complete", Percent: 100}, journal[9])
}

func TestAnalyzeUnknownScreening(t *testing.T) {
	svc := newTestService(t, newMemoryRepo())
	_, err := svc.Analyze(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAnalyzeSaveFailureMarksFailed(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	svc := newTestService(t, repo)

	sc, err := svc.Create(ctx, testJobDescription, []Upload{{Filename: "a.pdf", Data: []byte("python")}})
	require.NoError(t, err)

	repo.saveErr = errors.New("disk full")
	_, err = svc.Analyze(ctx, sc.ID)
	require.ErrorContains(t, err, "disk full")

	stored, err := repo.GetByID(ctx, sc.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, stored.Status)
	assert.Equal(t, "Error occurred", stored.Progress.Step)
	assert.Equal(t, 0, stored.Progress.Percent)
	assert.Contains(t, stored.Progress.Error, "disk full")
}

func TestResultsLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	svc := newTestService(t, repo)

	sc, err := svc.Create(ctx, testJobDescription, []Upload{{Filename: "a.pdf", Data: []byte("python")}})
	require.NoError(t, err)

	_, err = svc.Results(ctx, sc.ID)
	assert.ErrorIs(t, err, ErrNotCompleted)

	_, err = svc.Analyze(ctx, sc.ID)
	require.NoError(t, err)

	rs, err := svc.Results(ctx, sc.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, rs.TotalProcessed)

	_, err = svc.Results(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProgressReporting(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	svc := newTestService(t, repo)

	sc, err := svc.Create(ctx, testJobDescription, []Upload{{Filename: "a.pdf", Data: []byte("python")}})
	require.NoError(t, err)

	p, err := svc.Progress(ctx, sc.ID)
	require.NoError(t, err)
	assert.Equal(t, Progress{Step: "Files uploaded", Percent: 0}, p)

	_, err = svc.Progress(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQuickFeedback(t *testing.T) {
	svc := newTestService(t, newMemoryRepo())

	fb := svc.QuickFeedback("I build tools with python for fun", testJobDescription)
	assert.InDelta(t, 50.0, fb.SkillMatch, 1e-9)
	assert.InDelta(t, 35.0, fb.Score, 1e-9)
	assert.Equal(t, []string{"postgresql"}, fb.MissingSkills)
}

func TestQuickFeedbackTruncatesMissing(t *testing.T) {
	svc := newTestService(t, newMemoryRepo())

	job := "Looking for a platform engineer comfortable with python, postgresql, docker, rest, " +
		"graphql, grpc and analytics who enjoys mentoring, documentation and tidy release habits."
	fb := svc.QuickFeedback("my resume is about gardening", job)
	assert.Zero(t, fb.Score)
	assert.Equal(t, []string{"analytics", "docker", "graphql"}, fb.MissingSkills)
}

func TestCleanup(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	svc := newTestService(t, repo)

	old, err := svc.Create(ctx, testJobDescription, []Upload{{Filename: "old.pdf", Data: []byte("python")}})
	require.NoError(t, err)
	fresh, err := svc.Create(ctx, testJobDescription, []Upload{{Filename: "new.pdf", Data: []byte("postgresql")}})
	require.NoError(t, err)

	repo.mu.Lock()
	aged := repo.items[old.ID]
	aged.CreatedAt = testNow.Add(-2 * time.Hour)
	repo.items[old.ID] = aged
	repo.mu.Unlock()

	removed, err := svc.Cleanup(ctx, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = repo.GetByID(ctx, old.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.GetByID(ctx, fresh.ID)
	assert.NoError(t, err)
}
