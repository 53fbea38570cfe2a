package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artem13815/resumerank/pkg/screening"
)

// ScreeningRepository хранит скрининги: разобранные тексты кандидатов,
// прогресс конвейера и итоговый отчёт лежат в JSONB-колонках.
type ScreeningRepository struct {
	pool *pgxpool.Pool
}

func NewScreeningRepository(pool *pgxpool.Pool) (*ScreeningRepository, error) {
	r := &ScreeningRepository{pool: pool}
	if err := r.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *ScreeningRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS screenings (
	id UUID PRIMARY KEY,
	job_description TEXT NOT NULL,
	status TEXT NOT NULL,
	candidates JSONB NOT NULL,
	results JSONB,
	progress JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	completed_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_screenings_created_at ON screenings (created_at);
`)
	return err
}

func (r *ScreeningRepository) Create(ctx context.Context, sc screening.Screening) error {
	if sc.ID == uuid.Nil {
		sc.ID = uuid.New()
	}
	if sc.CreatedAt.IsZero() {
		sc.CreatedAt = time.Now().UTC()
	}
	candidatesJSON, err := json.Marshal(sc.Candidates)
	if err != nil {
		return err
	}
	progressJSON, err := json.Marshal(sc.Progress)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
INSERT INTO screenings (id, job_description, status, candidates, results, progress, created_at, completed_at)
VALUES ($1, $2, $3, $4, NULL, $5, $6, NULL)
`, sc.ID, sc.JobDescription, sc.Status, candidatesJSON, progressJSON, sc.CreatedAt)
	return err
}

func (r *ScreeningRepository) GetByID(ctx context.Context, id uuid.UUID) (screening.Screening, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, job_description, status, candidates, results, progress, created_at, completed_at
FROM screenings WHERE id = $1
`, id)
	var sc screening.Screening
	var candidatesJSON, resultsJSON, progressJSON []byte
	var created time.Time
	var completed *time.Time
	err := row.Scan(&sc.ID, &sc.JobDescription, &sc.Status, &candidatesJSON, &resultsJSON, &progressJSON, &created, &completed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return screening.Screening{}, screening.ErrNotFound
		}
		return screening.Screening{}, err
	}
	_ = json.Unmarshal(candidatesJSON, &sc.Candidates)
	_ = json.Unmarshal(progressJSON, &sc.Progress)
	if len(resultsJSON) > 0 {
		var rs screening.ResultSet
		_ = json.Unmarshal(resultsJSON, &rs)
		sc.Results = &rs
	}
	sc.CreatedAt = created.UTC()
	if completed != nil {
		t := completed.UTC()
		sc.CompletedAt = &t
	}
	return sc, nil
}

func (r *ScreeningRepository) SaveResults(ctx context.Context, id uuid.UUID, status string, rs *screening.ResultSet, completedAt time.Time) error {
	var resultsJSON []byte
	if rs != nil {
		b, err := json.Marshal(rs)
		if err != nil {
			return err
		}
		resultsJSON = b
	}
	cmd, err := r.pool.Exec(ctx, `
UPDATE screenings SET status = $2, results = $3, completed_at = $4 WHERE id = $1
`, id, status, resultsJSON, completedAt)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return screening.ErrNotFound
	}
	return nil
}

func (r *ScreeningRepository) SetProgress(ctx context.Context, id uuid.UUID, p screening.Progress) error {
	progressJSON, err := json.Marshal(p)
	if err != nil {
		return err
	}
	cmd, err := r.pool.Exec(ctx, `
UPDATE screenings SET progress = $2 WHERE id = $1
`, id, progressJSON)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return screening.ErrNotFound
	}
	return nil
}

func (r *ScreeningRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM screenings WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
