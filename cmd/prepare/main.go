package main

import (
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/tabloide-insight/pkg/logger"
)

var logFile io.Closer

func setupLogging(c *cli.Context) error {
	logger.SetLevel(c.String("log-level"))
	if path := c.String("log-file"); path != "" {
		f, err := logger.AddFileOutput(path)
		if err != nil {
			return err
		}
		logFile = f
	}
	return nil
}

func closeLogging(*cli.Context) error {
	if logFile != nil {
		return logFile.Close()
	}
	return nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	app := &cli.App{
		Name:  "prepare",
		Usage: "Build the treated sales and promotions tables from the POS exports",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-file",
				Usage:   "Also append log lines to this file (empty disables)",
				Value:   "processamento.log",
				EnvVars: []string{"PREPARE_LOG_FILE"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "debug, info, warn or error",
				Value:   "info",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: setupLogging,
		After:  closeLogging,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Join the ledger to the coupon spreadsheets and treat the promotions report",
				Flags:  append(append(ledgerFlags(), reportFlags()...), outputFlags()...),
				Action: runAll,
			},
			{
				Name:   "ledger",
				Usage:  "Only build the monthly treated sales tables",
				Flags:  append(ledgerFlags(), outputFlags()...),
				Action: runLedger,
			},
			{
				Name:   "report",
				Usage:  "Only build the treated promotions table",
				Flags:  append(reportFlags(), outputFlags()...),
				Action: runReport,
			},
			{
				Name:   "fetch",
				Usage:  "Download the ledger, coupon spreadsheets and report from Google Drive",
				Flags:  fetchFlags(),
				Action: runFetch,
			},
			{
				Name:   "publish",
				Usage:  "Upload the treated tables to S3-compatible storage",
				Flags:  publishFlags(),
				Action: runPublish,
			},
			{
				Name:   "runs",
				Usage:  "Show the latest recorded pipeline runs",
				Flags:  []cli.Flag{newDBURLFlag(true), &cli.IntFlag{Name: "limit", Value: 10}},
				Action: listRuns,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("prepare failed")
	}
}
