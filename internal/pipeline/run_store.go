package pipeline

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const runsSchema = `
CREATE TABLE IF NOT EXISTS pipeline_runs (
	id            BIGSERIAL PRIMARY KEY,
	pipeline_name TEXT NOT NULL,
	status        TEXT NOT NULL,
	outputs       TEXT[] NOT NULL DEFAULT '{}',
	total_rows    INTEGER NOT NULL DEFAULT 0,
	started_at    TIMESTAMPTZ NOT NULL,
	completed_at  TIMESTAMPTZ,
	error_message TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_pipeline_runs_started ON pipeline_runs (started_at DESC);
`

// runRow mirrors pipeline_runs for sqlx scanning.
type runRow struct {
	ID           int64          `db:"id"`
	PipelineName string         `db:"pipeline_name"`
	Status       string         `db:"status"`
	Outputs      pq.StringArray `db:"outputs"`
	TotalRows    int            `db:"total_rows"`
	StartedAt    time.Time      `db:"started_at"`
	CompletedAt  *time.Time     `db:"completed_at"`
	ErrorMessage string         `db:"error_message"`
}

func toRow(run *PipelineRun) runRow {
	return runRow{
		ID:           run.ID,
		PipelineName: run.PipelineName,
		Status:       string(run.Status),
		Outputs:      pq.StringArray(run.Outputs),
		TotalRows:    run.TotalRows,
		StartedAt:    run.StartedAt,
		CompletedAt:  run.CompletedAt,
		ErrorMessage: run.ErrorMessage,
	}
}

func (r runRow) run() *PipelineRun {
	return &PipelineRun{
		ID:           r.ID,
		PipelineName: r.PipelineName,
		Status:       PipelineStatus(r.Status),
		Outputs:      []string(r.Outputs),
		TotalRows:    r.TotalRows,
		StartedAt:    r.StartedAt,
		CompletedAt:  r.CompletedAt,
		ErrorMessage: r.ErrorMessage,
	}
}

// RunStore keeps the history of batch runs in pipeline_runs.
type RunStore struct {
	db *sqlx.DB
}

func NewRunStore(db *sqlx.DB) *RunStore {
	return &RunStore{db: db}
}

func (s *RunStore) EnsureTable(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, runsSchema)
	return err
}

// CreatePipelineRun inserts the run and stores the generated id on it.
func (s *RunStore) CreatePipelineRun(ctx context.Context, run *PipelineRun) error {
	stmt, err := s.db.PrepareNamedContext(ctx, `
		INSERT INTO pipeline_runs (pipeline_name, status, started_at)
		VALUES (:pipeline_name, :status, :started_at)
		RETURNING id`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	return stmt.GetContext(ctx, &run.ID, toRow(run))
}

func (s *RunStore) UpdatePipelineRun(ctx context.Context, run *PipelineRun) error {
	_, err := s.db.NamedExecContext(ctx, `
		UPDATE pipeline_runs
		SET status = :status, outputs = :outputs, total_rows = :total_rows,
		    completed_at = :completed_at, error_message = :error_message
		WHERE id = :id`, toRow(run))
	return err
}

// Recent returns up to limit runs, newest first.
func (s *RunStore) Recent(ctx context.Context, limit int) ([]*PipelineRun, error) {
	var rows []runRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, pipeline_name, status, outputs, total_rows,
		       started_at, completed_at, error_message
		FROM pipeline_runs
		ORDER BY started_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}

	runs := make([]*PipelineRun, 0, len(rows))
	for _, r := range rows {
		runs = append(runs, r.run())
	}
	return runs, nil
}

var _ RunRecorder = (*RunStore)(nil)
