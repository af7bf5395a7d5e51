package treated

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/andresuchdata/tabloide-insight/internal/domain"
	"github.com/andresuchdata/tabloide-insight/internal/schema"
	"github.com/andresuchdata/tabloide-insight/internal/tabular"
)

const delimiter = ';'

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// checkDates rejects rows without a sale date; readers cannot parse them back.
func checkDates(rows []domain.TreatedSale) error {
	for i, r := range rows {
		if r.Date.IsZero() {
			return fmt.Errorf("sales row %d: missing date", i)
		}
	}
	return nil
}

func WriteSalesCSV(w io.Writer, rows []domain.TreatedSale) error {
	if err := checkDates(rows); err != nil {
		return err
	}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.Store, formatDate(r.Date), r.Document, r.Till, r.Value.String(),
			r.Discount.String(), r.Type, r.Client, r.Operator,
			r.CouponStore, r.CouponNumber, r.PDV, r.Item, r.ItemDescription,
			r.Quantity.String(), r.UnitPrice.String(), r.TotalPrice.String(),
			r.PromotionFlag,
		})
	}
	return tabular.WriteCSV(w, delimiter, schema.TreatedSales().Columns, out)
}

// ReadSalesCSV reads a monthly sales table. month is stamped on every row.
func ReadSalesCSV(r io.Reader, month string) ([]domain.TreatedSale, error) {
	f, err := tabular.ReadCSV(r, tabular.CSVOptions{})
	if err != nil {
		return nil, err
	}
	f, err = f.Select(schema.TreatedSales())
	if err != nil {
		return nil, err
	}

	rows := make([]domain.TreatedSale, 0, f.Len())
	for i := 0; i < f.Len(); i++ {
		date, err := tabular.ParseDate(f.Get(i, schema.LedgerDate))
		if err != nil {
			return nil, fmt.Errorf("sales row %d: %w", i+2, err)
		}
		rows = append(rows, domain.TreatedSale{
			Month:           month,
			Store:           f.Get(i, schema.LedgerStore),
			Date:            date,
			Document:        f.Get(i, schema.LedgerDocument),
			Till:            f.Get(i, schema.LedgerTill),
			Value:           tabular.ParseNumber(f.Get(i, schema.LedgerValue), true),
			Discount:        tabular.ParseNumber(f.Get(i, schema.LedgerDiscount), true),
			Type:            f.Get(i, schema.LedgerType),
			Client:          f.Get(i, schema.LedgerClient),
			Operator:        f.Get(i, schema.LedgerOperator),
			CouponStore:     f.Get(i, schema.CouponStore),
			CouponNumber:    f.Get(i, schema.CouponNumber),
			PDV:             f.Get(i, schema.CouponPDV),
			Item:            tabular.CanonicalID(f.Get(i, schema.CouponItem)),
			ItemDescription: f.Get(i, schema.CouponItemDescription),
			Quantity:        tabular.ParseNumber(f.Get(i, schema.CouponQuantity), true),
			UnitPrice:       tabular.ParseNumber(f.Get(i, schema.CouponUnitPrice), true),
			TotalPrice:      tabular.ParseNumber(f.Get(i, schema.CouponTotalPrice), true),
			PromotionFlag:   f.Get(i, schema.CouponPromotionFlag),
		})
	}
	return rows, nil
}

func WritePromotionsCSV(w io.Writer, rows []domain.Promotion) error {
	out := make([][]string, 0, len(rows))
	for _, p := range rows {
		out = append(out, []string{
			p.Name, formatDate(p.StartDate), formatDate(p.EndDate), p.SKU,
			p.ItemName, p.SoldPrice.String(), p.PromoPrice.String(),
			strconv.Itoa(p.ActivationQty),
		})
	}
	return tabular.WriteCSV(w, delimiter, schema.TreatedPromotions().Columns, out)
}

// WriteCorrelatedCSV exports correlated rows for inspection in a spreadsheet.
func WriteCorrelatedCSV(w io.Writer, rows []domain.CorrelatedRow) error {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.PromotionName, r.SKU, r.ItemName, formatFloat(r.SoldPrice),
			formatFloat(r.PromoPrice), strconv.Itoa(r.ActivationQty), r.Store,
			formatDate(r.Date), r.Document, r.Till, r.ItemDescription,
			formatFloat(r.Quantity), formatFloat(r.UnitPrice), r.PromotionFlag,
			formatFloat(r.DiscountApplied), formatFloat(r.GrossProfit),
		})
	}
	return tabular.WriteCSV(w, delimiter, schema.Correlated().Columns, out)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ReadPromotionsCSV reads the treated promotions table and builds each row's
// structured key from its name.
func ReadPromotionsCSV(r io.Reader) ([]domain.Promotion, error) {
	f, err := tabular.ReadCSV(r, tabular.CSVOptions{})
	if err != nil {
		return nil, err
	}
	f, err = f.Select(schema.TreatedPromotions())
	if err != nil {
		return nil, err
	}

	rows := make([]domain.Promotion, 0, f.Len())
	for i := 0; i < f.Len(); i++ {
		start, err := tabular.ParseDate(f.Get(i, schema.PromotionStartDate))
		if err != nil {
			return nil, fmt.Errorf("promotions row %d: start date: %w", i+2, err)
		}
		end, err := tabular.ParseDate(f.Get(i, schema.PromotionEndDate))
		if err != nil {
			return nil, fmt.Errorf("promotions row %d: end date: %w", i+2, err)
		}

		name := f.Get(i, schema.PromotionName)
		rows = append(rows, domain.Promotion{
			Name:          name,
			Key:           domain.ParsePromotionName(name),
			StartDate:     start,
			EndDate:       end,
			SKU:           tabular.CanonicalID(f.Get(i, schema.PromotionSKU)),
			ItemName:      f.Get(i, schema.PromotionItemName),
			SoldPrice:     tabular.ParseNumber(f.Get(i, schema.PromotionSoldPrice), true),
			PromoPrice:    tabular.ParseNumber(f.Get(i, schema.PromotionPromoPrice), true),
			ActivationQty: tabular.TruncInt(tabular.ParseNumber(f.Get(i, schema.PromotionActivation), true)),
		})
	}
	return rows, nil
}
