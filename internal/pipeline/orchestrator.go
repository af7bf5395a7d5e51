package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Orchestrator runs pipelines one after the other against a single sink.
type Orchestrator struct {
	sink     Sink
	recorder RunRecorder
}

// NewOrchestrator creates a new Orchestrator. A nil recorder keeps no history.
func NewOrchestrator(sink Sink, recorder RunRecorder) *Orchestrator {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &Orchestrator{sink: sink, recorder: recorder}
}

// Run executes the pipelines in order and stops at the first failure. The
// runs performed so far are returned either way.
func (o *Orchestrator) Run(ctx context.Context, pipelines ...Pipeline) ([]*PipelineRun, error) {
	runs := make([]*PipelineRun, 0, len(pipelines))
	for _, p := range pipelines {
		run, err := o.runOne(ctx, p)
		runs = append(runs, run)
		if err != nil {
			return runs, fmt.Errorf("%s: %w", p.Name(), err)
		}
	}
	return runs, nil
}

func (o *Orchestrator) runOne(ctx context.Context, p Pipeline) (*PipelineRun, error) {
	run := &PipelineRun{
		PipelineName: p.Name(),
		Status:       StatusPending,
		StartedAt:    time.Now(),
	}

	if err := o.recorder.CreatePipelineRun(ctx, run); err != nil {
		log.Warn().Err(err).Str("pipeline", p.Name()).Msg("could not record pipeline run")
	}

	var skip *ErrSkip
	if err := p.Validate(); errors.As(err, &skip) {
		log.Warn().Str("pipeline", p.Name()).Msg(skip.Reason)
		run.Status = StatusSkipped
		o.finish(ctx, run)
		return run, nil
	} else if err != nil {
		run.Status = StatusFailed
		run.ErrorMessage = err.Error()
		o.finish(ctx, run)
		return run, fmt.Errorf("validation failed: %w", err)
	}

	log.Info().Str("pipeline", p.Name()).Msg("pipeline started")
	run.Status = StatusProcessing
	if err := p.Run(ctx, o.sink, run); err != nil {
		run.Status = StatusFailed
		run.ErrorMessage = err.Error()
		o.finish(ctx, run)
		log.Error().Err(err).Str("pipeline", p.Name()).Msg("pipeline failed")
		return run, err
	}

	run.Status = StatusCompleted
	o.finish(ctx, run)
	log.Info().
		Str("pipeline", p.Name()).
		Strs("outputs", run.Outputs).
		Int("rows", run.TotalRows).
		Dur("elapsed", time.Since(run.StartedAt)).
		Msg("pipeline completed")
	return run, nil
}

func (o *Orchestrator) finish(ctx context.Context, run *PipelineRun) {
	now := time.Now()
	run.CompletedAt = &now
	if run.ID == 0 {
		return
	}
	if err := o.recorder.UpdatePipelineRun(ctx, run); err != nil {
		log.Warn().Err(err).Str("pipeline", run.PipelineName).Msg("could not update pipeline run")
	}
}
