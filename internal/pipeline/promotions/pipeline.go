package promotions

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/tabloide-insight/internal/pipeline"
	"github.com/andresuchdata/tabloide-insight/internal/schema"
	"github.com/andresuchdata/tabloide-insight/internal/treated"
)

// Options locate the report and choose which campaigns to keep.
type Options struct {
	ReportPath string
	Charset    string
	Marker     string
	Exclusion  string
	Schemas    schema.Set
}

// Pipeline produces the treated promotions table.
type Pipeline struct {
	opts Options
}

func NewPipeline(opts Options) *Pipeline {
	if opts.Marker == "" {
		opts.Marker = DefaultMarker
	}
	return &Pipeline{opts: opts}
}

func (p *Pipeline) Name() string { return "report" }

func (p *Pipeline) Validate() error {
	if _, err := os.Stat(p.opts.ReportPath); err != nil {
		return fmt.Errorf("report file: %w", err)
	}
	return nil
}

func (p *Pipeline) Run(ctx context.Context, sink pipeline.Sink, run *pipeline.PipelineRun) error {
	frame, err := LoadReport(p.opts.ReportPath, p.opts.Schemas.Promotion, p.opts.Charset)
	if err != nil {
		return err
	}
	rows, err := Normalize(frame)
	if err != nil {
		return err
	}

	kept := Filter(rows, p.opts.Marker, p.opts.Exclusion)
	log.Info().
		Int("report_rows", len(rows)).
		Int("kept", len(kept)).
		Str("marker", p.opts.Marker).
		Str("exclusion", p.opts.Exclusion).
		Msg("promotions report filtered")

	if err := sink.WritePromotions(ctx, kept); err != nil {
		return fmt.Errorf("write promotions: %w", err)
	}
	run.AddOutput(treated.PromotionsFileName, len(kept))
	return nil
}

var _ pipeline.Pipeline = (*Pipeline)(nil)
