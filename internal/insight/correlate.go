// Package insight correlates tabloid promotions with the sales they drove and
// works out whether the campaign paid for itself.
package insight

import (
	"strings"

	"github.com/andresuchdata/tabloide-insight/internal/domain"
	"github.com/andresuchdata/tabloide-insight/internal/tabular"
)

// PromotionalFlag marks a sale that was already rung up at a promotional
// price; such sales are never attributed to a tabloid.
const PromotionalFlag = "P"

// CorrelateSales pairs every promotion with the non-promotional sales of the
// same SKU whose quantity reached the activation threshold. SKUs are compared
// in canonical form, so " 100 " and "100.0" match. Pairs missing a
// sold or promotional price are dropped; a missing quantity counts as zero.
// Output follows promotion order, then sale order.
func CorrelateSales(promotions []domain.Promotion, sales []domain.TreatedSale) []domain.CorrelatedRow {
	bySKU := make(map[string][]int)
	for i, s := range sales {
		if strings.TrimSpace(s.PromotionFlag) == PromotionalFlag {
			continue
		}
		item := tabular.CanonicalID(s.Item)
		bySKU[item] = append(bySKU[item], i)
	}

	var out []domain.CorrelatedRow
	for _, p := range promotions {
		if !p.SoldPrice.Valid || !p.PromoPrice.Valid {
			continue
		}
		sku := tabular.CanonicalID(p.SKU)
		for _, i := range bySKU[sku] {
			s := sales[i]
			qty := s.Quantity.OrZero()
			if qty < float64(p.ActivationQty) {
				continue
			}
			out = append(out, domain.CorrelatedRow{
				PromotionName:   p.Name,
				Key:             p.Key,
				SKU:             sku,
				ItemName:        p.ItemName,
				SoldPrice:       p.SoldPrice.Float64,
				PromoPrice:      p.PromoPrice.Float64,
				ActivationQty:   p.ActivationQty,
				Store:           s.Store,
				Date:            s.Date,
				Document:        s.Document,
				Till:            s.Till,
				ItemDescription: s.ItemDescription,
				Quantity:        qty,
				UnitPrice:       s.UnitPrice.OrZero(),
				PromotionFlag:   s.PromotionFlag,
				DiscountApplied: (p.SoldPrice.Float64 - p.PromoPrice.Float64) * qty,
				GrossProfit:     p.PromoPrice.Float64 * qty,
			})
		}
	}
	return out
}
