package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/tabloide-insight/internal/cache"
	"github.com/andresuchdata/tabloide-insight/internal/config"
	"github.com/andresuchdata/tabloide-insight/internal/drive"
	"github.com/andresuchdata/tabloide-insight/internal/pipeline"
	"github.com/andresuchdata/tabloide-insight/internal/pipeline/ledger"
	"github.com/andresuchdata/tabloide-insight/internal/pipeline/promotions"
	"github.com/andresuchdata/tabloide-insight/internal/repository/postgres"
	"github.com/andresuchdata/tabloide-insight/internal/schema"
	"github.com/andresuchdata/tabloide-insight/internal/storage"
)

func ledgerPipeline(c *cli.Context) pipeline.Pipeline {
	return ledger.NewPipeline(ledger.Options{
		LedgerPath: c.String("ledger"),
		CouponDir:  c.String("coupons"),
		Charset:    c.String("ledger-charset"),
		Schemas:    schema.DefaultSet(),
	})
}

func reportPipeline(c *cli.Context) pipeline.Pipeline {
	return promotions.NewPipeline(promotions.Options{
		ReportPath: c.String("report"),
		Charset:    c.String("report-charset"),
		Marker:     c.String("marker"),
		Exclusion:  c.String("exclusion"),
		Schemas:    schema.DefaultSet(),
	})
}

func runAll(c *cli.Context) error {
	return runPipelines(c, ledgerPipeline(c), reportPipeline(c))
}

func runLedger(c *cli.Context) error {
	return runPipelines(c, ledgerPipeline(c))
}

func runReport(c *cli.Context) error {
	return runPipelines(c, reportPipeline(c))
}

func runPipelines(c *cli.Context, pipelines ...pipeline.Pipeline) error {
	ctx := c.Context
	start := time.Now()

	fileSink, err := pipeline.NewFileSink(c.String("out"))
	if err != nil {
		return err
	}

	var (
		sink     pipeline.Sink = fileSink
		recorder pipeline.RunRecorder
	)
	if dsn := c.String("db-url"); dsn != "" {
		db, err := openDB(ctx, dsn)
		if err != nil {
			return err
		}
		defer db.Close()

		runs := pipeline.NewRunStore(db.DB)
		if err := runs.EnsureTable(ctx); err != nil {
			return err
		}
		sink = pipeline.MultiSink{fileSink, postgres.NewTreatedRepository(db)}
		recorder = runs
	}

	results, err := pipeline.NewOrchestrator(sink, recorder).Run(ctx, pipelines...)
	for _, run := range results {
		log.Info().
			Str("pipeline", run.PipelineName).
			Str("status", string(run.Status)).
			Int("rows", run.TotalRows).
			Msg("run finished")
	}
	if err != nil {
		return err
	}

	log.Info().Str("out", fileSink.Dir()).Dur("elapsed", time.Since(start)).Msg("Processamento concluído")
	invalidateReports(ctx, reportCache(config.Load().Cache))
	return nil
}

// reportCache opens the dashboard's report cache from the same CACHE_*
// settings. A cache that cannot be reached degrades to noop.
func reportCache(cfg config.CacheConfig) cache.InsightCache {
	reports, err := cache.NewInsightCache(cfg)
	if err != nil {
		log.Warn().Err(err).Msg("insight cache unavailable, cached reports not invalidated")
		return cache.NewNoopInsightCache()
	}
	return reports
}

// invalidateReports drops dashboard reports built from the previous tables.
// Failures are logged; the batch output is already written.
func invalidateReports(ctx context.Context, reports cache.InsightCache) {
	if err := reports.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate cached insight reports")
		return
	}
	log.Debug().Msg("cached insight reports invalidated")
}

func openDB(ctx context.Context, dsn string) (*postgres.DB, error) {
	db, err := postgres.Open(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func runFetch(c *cli.Context) error {
	ctx := c.Context
	cfg := config.Load()
	if cfg.Drive.CredentialsJSON == "" {
		return fmt.Errorf("GOOGLE_DRIVE_CREDENTIALS_JSON env is required")
	}

	svc, err := drive.NewService(ctx, cfg.Drive.CredentialsJSON)
	if err != nil {
		return fmt.Errorf("failed to create Drive service: %w", err)
	}
	downloader := drive.NewDownloader(svc)

	targets := []struct {
		folder string
		opts   drive.DownloadOptions
	}{
		{c.String("drive-ledger-folder"), drive.DownloadOptions{DownloadDir: filepath.Dir(c.String("ledger")), Match: drive.MatchExt(".csv")}},
		{c.String("drive-coupon-folder"), drive.DownloadOptions{DownloadDir: c.String("coupons"), Match: drive.MatchPrefixExt(ledger.CouponFilePrefix, ledger.CouponFileExt)}},
		{c.String("drive-report-folder"), drive.DownloadOptions{DownloadDir: filepath.Dir(c.String("report")), Match: drive.MatchExt(".csv")}},
	}

	total := 0
	for _, target := range targets {
		if target.folder == "" {
			continue
		}
		opts := target.opts
		opts.FolderPath = target.folder
		paths, err := downloader.DownloadFolder(ctx, opts)
		if err != nil {
			return fmt.Errorf("failed to download %s: %w", target.folder, err)
		}
		total += len(paths)
	}

	if total == 0 {
		log.Warn().Msg("no Drive folder given or no matching files found")
		return nil
	}
	log.Info().Int("files", total).Msg("Drive download completed")
	return nil
}

func runPublish(c *cli.Context) error {
	ctx := c.Context
	cfg := config.Load()

	prefix := c.String("prefix")
	if prefix == "" {
		prefix = cfg.Storage.Prefix
	}

	var store storage.ObjectStorage
	if c.Bool("dry-run") {
		store = storage.NewMemoryStorage()
	} else {
		s, err := storage.New(storage.ConfigFrom(cfg.Storage))
		if err != nil {
			return err
		}
		store = s
	}

	keys, err := pipeline.Publish(ctx, c.String("out"), store, prefix)
	if err != nil {
		return err
	}
	log.Info().Int("objects", len(keys)).Bool("dry_run", c.Bool("dry-run")).Msg("publish completed")
	if !c.Bool("dry-run") {
		invalidateReports(ctx, reportCache(cfg.Cache))
	}
	return nil
}

func listRuns(c *cli.Context) error {
	db, err := postgres.Open(c.Context, c.String("db-url"))
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := pipeline.NewRunStore(db.DB).Recent(c.Context, c.Int("limit"))
	if err != nil {
		return err
	}
	for _, run := range runs {
		fmt.Printf("%-6d %-8s %-10s %8d rows  %s  %s\n",
			run.ID, run.PipelineName, run.Status, run.TotalRows,
			run.StartedAt.Format(time.DateTime), run.ErrorMessage)
	}
	return nil
}
