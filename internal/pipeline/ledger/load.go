// Package ledger joins the discount ledger export to the monthly coupon
// spreadsheets.
package ledger

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/andresuchdata/tabloide-insight/internal/domain"
	"github.com/andresuchdata/tabloide-insight/internal/schema"
	"github.com/andresuchdata/tabloide-insight/internal/tabular"
)

// CouponFilePrefix and CouponFileExt bracket the month in coupon file names:
// CUPOM_2024-01.xlsx.
const (
	CouponFilePrefix = "CUPOM_"
	CouponFileExt    = ".xlsx"
)

// CouponFile is one monthly coupon spreadsheet.
type CouponFile struct {
	Path  string
	Month string
}

// LoadLedger reads the semicolon ledger with decimal commas and standardizes
// its join keys.
func LoadLedger(path string, tbl schema.Table, charset string) ([]domain.LedgerRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	frame, err := tabular.ReadCSV(f, tabular.CSVOptions{Charset: charset})
	if err != nil {
		return nil, fmt.Errorf("read ledger %s: %w", path, err)
	}
	frame, err = frame.Select(tbl)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.LedgerRow, 0, frame.Len())
	for i := 0; i < frame.Len(); i++ {
		if blankRow(frame.Rows[i]) {
			continue
		}
		date, err := tabular.ParseDate(frame.Get(i, schema.LedgerDate))
		if err != nil {
			return nil, fmt.Errorf("ledger row %d: %w", i+2, err)
		}
		rows = append(rows, domain.LedgerRow{
			Store:    StoreKey(frame.Get(i, schema.LedgerStore)),
			Date:     date,
			Document: tabular.CanonicalID(frame.Get(i, schema.LedgerDocument)),
			Till:     tabular.CanonicalID(frame.Get(i, schema.LedgerTill)),
			Value:    tabular.ParseNumber(frame.Get(i, schema.LedgerValue), true),
			Discount: tabular.ParseNumber(frame.Get(i, schema.LedgerDiscount), true),
			Type:     strings.TrimSpace(frame.Get(i, schema.LedgerType)),
			Client:   strings.TrimSpace(frame.Get(i, schema.LedgerClient)),
			Operator: strings.TrimSpace(frame.Get(i, schema.LedgerOperator)),
		})
	}
	return rows, nil
}

// LoadCoupons reads one monthly coupon spreadsheet and standardizes its join
// keys the same way as the ledger.
func LoadCoupons(path string, tbl schema.Table) ([]domain.CouponRow, error) {
	frame, err := tabular.ReadXLSX(path, tabular.XLSXOptions{})
	if err != nil {
		return nil, err
	}
	frame, err = frame.Select(tbl)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	rows := make([]domain.CouponRow, 0, frame.Len())
	for i := 0; i < frame.Len(); i++ {
		if blankRow(frame.Rows[i]) {
			continue
		}
		date, err := tabular.ParseDate(frame.Get(i, schema.CouponDate))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", filepath.Base(path), i+2, err)
		}
		rows = append(rows, domain.CouponRow{
			Store:           StoreKey(frame.Get(i, schema.CouponStore)),
			CouponNumber:    tabular.CanonicalID(frame.Get(i, schema.CouponNumber)),
			Date:            date,
			PDV:             tabular.CanonicalID(frame.Get(i, schema.CouponPDV)),
			Item:            tabular.CanonicalID(frame.Get(i, schema.CouponItem)),
			ItemDescription: strings.TrimSpace(frame.Get(i, schema.CouponItemDescription)),
			Quantity:        tabular.ParseNumber(frame.Get(i, schema.CouponQuantity), true),
			UnitPrice:       tabular.ParseNumber(frame.Get(i, schema.CouponUnitPrice), true),
			TotalPrice:      tabular.ParseNumber(frame.Get(i, schema.CouponTotalPrice), true),
			PromotionFlag:   strings.TrimSpace(frame.Get(i, schema.CouponPromotionFlag)),
		})
	}
	return rows, nil
}

// StoreKey is the two-digit store code both exports are joined on.
func StoreKey(s string) string {
	return tabular.ZeroPad(tabular.CanonicalID(s), 2)
}

// MonthFromFilename extracts "2024-01" from "CUPOM_2024-01.xlsx".
func MonthFromFilename(name string) (string, error) {
	base := filepath.Base(name)
	if !strings.HasPrefix(base, CouponFilePrefix) || !strings.HasSuffix(base, CouponFileExt) {
		return "", fmt.Errorf("not a coupon file: %s", base)
	}
	parts := strings.SplitN(base, "_", 2)
	month := strings.SplitN(parts[1], ".", 2)[0]
	if month == "" {
		return "", fmt.Errorf("no month in coupon file name %s", base)
	}
	return month, nil
}

// CouponFiles lists the coupon spreadsheets in dir, ordered by month.
func CouponFiles(dir string) ([]CouponFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list coupon dir %s: %w", dir, err)
	}

	var files []CouponFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		month, err := MonthFromFilename(e.Name())
		if err != nil {
			continue
		}
		files = append(files, CouponFile{Path: filepath.Join(dir, e.Name()), Month: month})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Month < files[j].Month })
	return files, nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
