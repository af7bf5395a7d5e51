package pipeline

import (
	"context"
	"time"

	"github.com/andresuchdata/tabloide-insight/internal/domain"
)

// Pipeline defines the interface that all batch preparation steps implement
type Pipeline interface {
	// Name returns the unique identifier for this pipeline
	Name() string

	// Validate checks that the pipeline's inputs are present and readable
	Validate() error

	// Run transforms the inputs and hands the treated tables to sink
	Run(ctx context.Context, sink Sink, run *PipelineRun) error
}

// Sink receives the treated tables. Each call replaces what was previously
// stored for the month, or for the promotions table.
type Sink interface {
	WriteSales(ctx context.Context, month string, rows []domain.TreatedSale) error
	WritePromotions(ctx context.Context, rows []domain.Promotion) error
}

// PipelineStatus represents the current state of a pipeline run
type PipelineStatus string

const (
	StatusPending    PipelineStatus = "pending"
	StatusProcessing PipelineStatus = "processing"
	StatusCompleted  PipelineStatus = "completed"
	StatusSkipped    PipelineStatus = "skipped"
	StatusFailed     PipelineStatus = "failed"
)

// PipelineRun tracks a single execution of a pipeline
type PipelineRun struct {
	ID           int64
	PipelineName string
	Status       PipelineStatus
	Outputs      []string // months written, or the promotions table
	TotalRows    int
	StartedAt    time.Time
	CompletedAt  *time.Time
	ErrorMessage string
}

// AddOutput records one written table and its row count.
func (r *PipelineRun) AddOutput(name string, rows int) {
	r.Outputs = append(r.Outputs, name)
	r.TotalRows += rows
}

// RunRecorder persists pipeline run history.
type RunRecorder interface {
	CreatePipelineRun(ctx context.Context, run *PipelineRun) error
	UpdatePipelineRun(ctx context.Context, run *PipelineRun) error
}

type noopRecorder struct{}

func (noopRecorder) CreatePipelineRun(context.Context, *PipelineRun) error { return nil }
func (noopRecorder) UpdatePipelineRun(context.Context, *PipelineRun) error { return nil }

// ErrSkip is returned by Validate when a pipeline has nothing to do; the
// orchestrator logs it and moves on.
type ErrSkip struct {
	Reason string
}

func (e *ErrSkip) Error() string { return e.Reason }
