package ledger

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/tabloide-insight/internal/pipeline"
	"github.com/andresuchdata/tabloide-insight/internal/schema"
	"github.com/andresuchdata/tabloide-insight/internal/treated"
)

// Options locate the ledger export and the coupon spreadsheets.
type Options struct {
	LedgerPath string
	CouponDir  string
	Charset    string
	Schemas    schema.Set
}

// Pipeline produces one treated sales table per coupon spreadsheet.
type Pipeline struct {
	opts Options
}

func NewPipeline(opts Options) *Pipeline {
	return &Pipeline{opts: opts}
}

func (p *Pipeline) Name() string { return "ledger" }

func (p *Pipeline) Validate() error {
	if _, err := os.Stat(p.opts.LedgerPath); errors.Is(err, fs.ErrNotExist) {
		return &pipeline.ErrSkip{Reason: fmt.Sprintf("ledger file %s not found, nothing to join", p.opts.LedgerPath)}
	} else if err != nil {
		return err
	}
	if _, err := os.Stat(p.opts.CouponDir); err != nil {
		return fmt.Errorf("coupon dir: %w", err)
	}
	return nil
}

func (p *Pipeline) Run(ctx context.Context, sink pipeline.Sink, run *pipeline.PipelineRun) error {
	ledgerRows, err := LoadLedger(p.opts.LedgerPath, p.opts.Schemas.Ledger, p.opts.Charset)
	if err != nil {
		return err
	}
	log.Info().Int("rows", len(ledgerRows)).Str("file", p.opts.LedgerPath).Msg("ledger loaded")

	files, err := CouponFiles(p.opts.CouponDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		log.Warn().Str("dir", p.opts.CouponDir).Msg("no coupon spreadsheets found")
	}

	for i, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := treated.ParseMonth(f.Month); err != nil {
			return fmt.Errorf("%s: %w", f.Path, err)
		}

		coupons, err := LoadCoupons(f.Path, p.opts.Schemas.Coupon)
		if err != nil {
			return err
		}

		joined := Join(ledgerRows, coupons)
		for j := range joined {
			joined[j].Month = f.Month
		}
		log.Info().
			Str("month", f.Month).
			Int("progress", i+1).
			Int("files", len(files)).
			Msgf("%s: %d Cupons.", f.Month, UniqueDocuments(joined))

		if err := sink.WriteSales(ctx, f.Month, joined); err != nil {
			return fmt.Errorf("write %s: %w", f.Month, err)
		}
		run.AddOutput(f.Month, len(joined))
	}
	return nil
}

var _ pipeline.Pipeline = (*Pipeline)(nil)
