package main

import (
	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/tabloide-insight/internal/pipeline/promotions"
)

func newDBURLFlag(required bool) *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Postgres connection string; when set the treated tables are also stored there",
		Required: required,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func ledgerPathFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "ledger",
		Usage:   "Discount ledger CSV exported by the POS",
		Value:   "./files/2024/desconto/2024.csv",
		EnvVars: []string{"LEDGER_PATH"},
	}
}

func couponDirFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "coupons",
		Usage:   "Directory holding the CUPOM_<YYYY-MM>.xlsx spreadsheets",
		Value:   "./files/2024/cupons",
		EnvVars: []string{"COUPON_DIR"},
	}
}

func reportPathFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "report",
		Usage:   "Promotions report CSV",
		Value:   "./files/2024/relatorios/rel_2024.csv",
		EnvVars: []string{"REPORT_PATH"},
	}
}

func ledgerFlags() []cli.Flag {
	return []cli.Flag{
		ledgerPathFlag(),
		couponDirFlag(),
		&cli.StringFlag{
			Name:    "ledger-charset",
			Usage:   "Character set of the ledger CSV",
			Value:   "iso-8859-1",
			EnvVars: []string{"LEDGER_CHARSET"},
		},
	}
}

func reportFlags() []cli.Flag {
	return []cli.Flag{
		reportPathFlag(),
		&cli.StringFlag{
			Name:    "report-charset",
			Usage:   "Character set of the promotions report",
			Value:   "utf-8",
			EnvVars: []string{"REPORT_CHARSET"},
		},
		&cli.StringFlag{
			Name:    "marker",
			Usage:   "Keep promotions whose name contains this marker",
			Value:   promotions.DefaultMarker,
			EnvVars: []string{"PROMOTION_MARKER"},
		},
		&cli.StringFlag{
			Name:    "exclusion",
			Usage:   "Drop promotions whose name contains this marker",
			Value:   promotions.DefaultExclusion,
			EnvVars: []string{"PROMOTION_EXCLUSION"},
		},
	}
}

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "out",
			Usage:   "Directory for the treated tables",
			Value:   "./files/tratado",
			EnvVars: []string{"APP_DATA_DIR"},
		},
		newDBURLFlag(false),
	}
}

func fetchFlags() []cli.Flag {
	return []cli.Flag{
		ledgerPathFlag(),
		couponDirFlag(),
		reportPathFlag(),
		&cli.StringFlag{
			Name:    "drive-ledger-folder",
			Usage:   "Drive folder path holding the ledger CSV",
			EnvVars: []string{"DRIVE_LEDGER_FOLDER"},
		},
		&cli.StringFlag{
			Name:    "drive-coupon-folder",
			Usage:   "Drive folder path holding the coupon spreadsheets",
			EnvVars: []string{"DRIVE_COUPON_FOLDER"},
		},
		&cli.StringFlag{
			Name:    "drive-report-folder",
			Usage:   "Drive folder path holding the promotions report",
			EnvVars: []string{"DRIVE_REPORT_FOLDER"},
		},
	}
}

func publishFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "out",
			Usage:   "Directory holding the treated tables",
			Value:   "./files/tratado",
			EnvVars: []string{"APP_DATA_DIR"},
		},
		&cli.StringFlag{
			Name:    "prefix",
			Usage:   "Object key prefix (defaults to S3_PREFIX)",
			EnvVars: []string{"S3_PREFIX"},
		},
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "Upload to an in-memory store and only report the keys",
		},
	}
}
