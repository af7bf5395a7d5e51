package insight

import (
	"github.com/andresuchdata/tabloide-insight/internal/domain"
)

const (
	// UniformPrintingCost is charged when every store sells each SKU at the
	// same promotional price, so a single tabloid layout is printed.
	UniformPrintingCost = 3600.0
	// NonUniformPrintingCost is charged when any store deviates.
	NonUniformPrintingCost = 6400.0
)

// AttributePrintingCost classifies the selected campaign group by pricing
// uniformity and returns its fixed printing cost. Only rows of the selected
// group count; for each (SKU, store) the last promotional price seen wins.
func AttributePrintingCost(correlated []domain.CorrelatedRow, selected domain.PromotionKey) (float64, error) {
	prices := make(map[string]map[string]float64)
	found := false
	for _, row := range correlated {
		if !row.Key.SameGroup(selected) {
			continue
		}
		found = true
		byStore, ok := prices[row.SKU]
		if !ok {
			byStore = make(map[string]float64)
			prices[row.SKU] = byStore
		}
		byStore[row.Key.Store] = row.PromoPrice
	}
	if !found {
		return 0, domain.ErrNoCorrelatedSales
	}

	if uniformPricing(prices) {
		return UniformPrintingCost, nil
	}
	return NonUniformPrintingCost, nil
}

func uniformPricing(prices map[string]map[string]float64) bool {
	for _, byStore := range prices {
		first, seen := 0.0, false
		for _, price := range byStore {
			if !seen {
				first, seen = price, true
				continue
			}
			if price != first {
				return false
			}
		}
	}
	return true
}
