package insight

import (
	"github.com/andresuchdata/tabloide-insight/internal/domain"
)

// Summarize aggregates the correlated rows. Net profit subtracts both the
// printing cost and the discounts granted from gross profit.
func Summarize(correlated []domain.CorrelatedRow, printingCost float64) domain.InsightSummary {
	var s domain.InsightSummary
	for _, row := range correlated {
		s.TotalUnits += row.Quantity
		s.TotalDiscount += row.DiscountApplied
		s.GrossProfit += row.GrossProfit
	}
	s.PrintingCost = printingCost
	s.NetProfit = s.GrossProfit - printingCost - s.TotalDiscount
	s.TotalCost = s.TotalDiscount + printingCost
	return s
}

// Cover reports whether net profit reached the total cost.
func Cover(s domain.InsightSummary) domain.Coverage {
	c := domain.Coverage{Covered: s.NetProfit >= s.TotalCost}
	if s.TotalCost != 0 {
		pct := s.NetProfit / s.TotalCost * 100
		c.Percent = &pct
	}
	if !c.Covered {
		c.Deficit = s.TotalCost - s.NetProfit
	}
	return c
}
