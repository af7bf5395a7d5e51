package ledger

import (
	"time"

	"github.com/andresuchdata/tabloide-insight/internal/domain"
)

type joinKey struct {
	document string
	till     string
	store    string
	date     time.Time
}

// Join inner-joins ledger rows to coupon rows on (document, till, store,
// date). Ledger order is kept; several coupon lines of one receipt all pair
// with the ledger row.
func Join(ledgerRows []domain.LedgerRow, coupons []domain.CouponRow) []domain.TreatedSale {
	index := make(map[joinKey][]int, len(coupons))
	for i, c := range coupons {
		k := joinKey{c.CouponNumber, c.PDV, c.Store, c.Date}
		index[k] = append(index[k], i)
	}

	var out []domain.TreatedSale
	for _, l := range ledgerRows {
		for _, i := range index[joinKey{l.Document, l.Till, l.Store, l.Date}] {
			c := coupons[i]
			out = append(out, domain.TreatedSale{
				Store:           l.Store,
				Date:            l.Date,
				Document:        l.Document,
				Till:            l.Till,
				Value:           l.Value,
				Discount:        l.Discount,
				Type:            l.Type,
				Client:          l.Client,
				Operator:        l.Operator,
				CouponStore:     c.Store,
				CouponNumber:    c.CouponNumber,
				PDV:             c.PDV,
				Item:            c.Item,
				ItemDescription: c.ItemDescription,
				Quantity:        c.Quantity,
				UnitPrice:       c.UnitPrice,
				TotalPrice:      c.TotalPrice,
				PromotionFlag:   c.PromotionFlag,
			})
		}
	}
	return out
}

// UniqueDocuments counts distinct receipts in the joined rows.
func UniqueDocuments(rows []domain.TreatedSale) int {
	seen := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		seen[r.Document] = struct{}{}
	}
	return len(seen)
}
