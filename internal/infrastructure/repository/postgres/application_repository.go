package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/socialsupport/benefits-pipeline/internal/core/domain"
)

// ApplicationRepository is the registry the intake surface writes and the
// worker mirrors workflow progress into.
type ApplicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

func (r *ApplicationRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026052801)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS applications (
	id TEXT PRIMARY KEY,
	workflow_id TEXT NOT NULL,
	applicant_name TEXT,
	status TEXT NOT NULL,
	decision TEXT,
	overall_score DOUBLE PRECISION NOT NULL DEFAULT 0,
	document_count INTEGER NOT NULL DEFAULT 0,
	submitted_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_applications_workflow_id ON applications(workflow_id);
CREATE INDEX IF NOT EXISTS idx_applications_submitted_at ON applications(submitted_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *ApplicationRepository) Create(ctx context.Context, app *domain.Application) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO applications (id, workflow_id, applicant_name, status, decision, overall_score, document_count, submitted_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (id) DO UPDATE SET
	workflow_id = EXCLUDED.workflow_id,
	status = EXCLUDED.status,
	document_count = EXCLUDED.document_count,
	updated_at = EXCLUDED.updated_at
`, app.ID, app.WorkflowID, app.ApplicantName, app.Status, nullableString(string(app.Decision)), app.OverallScore, app.DocumentCount, app.SubmittedAt, app.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, workflow_id, COALESCE(applicant_name, ''), status, COALESCE(decision, ''), overall_score, document_count, submitted_at, updated_at
FROM applications
WHERE id = $1
`, id)

	var app domain.Application
	if err := row.Scan(
		&app.ID,
		&app.WorkflowID,
		&app.ApplicantName,
		&app.Status,
		&app.Decision,
		&app.OverallScore,
		&app.DocumentCount,
		&app.SubmittedAt,
		&app.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrApplicationNotFound, "get application", fmt.Errorf("id %s", id))
		}
		return nil, fmt.Errorf("get application: %w", err)
	}
	return &app, nil
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id string, status domain.WorkflowStatus) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE applications
SET status = $2, updated_at = $3
WHERE id = $1
`, id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update application status: %w", err)
	}
	return nil
}

func (r *ApplicationRepository) UpdateOutcome(ctx context.Context, id string, status domain.WorkflowStatus, decision domain.EligibilityStatus, score float64) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE applications
SET status = $2, decision = $3, overall_score = $4, updated_at = $5
WHERE id = $1
`, id, status, nullableString(string(decision)), score, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update application outcome: %w", err)
	}
	return nil
}

func (r *ApplicationRepository) List(ctx context.Context, limit int) ([]domain.Application, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, workflow_id, COALESCE(applicant_name, ''), status, COALESCE(decision, ''), overall_score, document_count, submitted_at, updated_at
FROM applications
ORDER BY submitted_at DESC
LIMIT $1
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Application, 0, limit)
	for rows.Next() {
		var app domain.Application
		if err := rows.Scan(
			&app.ID,
			&app.WorkflowID,
			&app.ApplicantName,
			&app.Status,
			&app.Decision,
			&app.OverallScore,
			&app.DocumentCount,
			&app.SubmittedAt,
			&app.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		out = append(out, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applications: %w", err)
	}
	return out, nil
}

func nullableString(v string) interface{} {
	if v == "" {
		return nil
	}
	return v
}
