package domain

import (
	"errors"
	"time"
)

var (
	ErrNoPromotions      = errors.New("no promotions in the selected period")
	ErrNoSales           = errors.New("no sales in the selected period")
	ErrNoCorrelatedSales = errors.New("no sales correlated with the selected promotion")
	ErrDataUnavailable   = errors.New("data unavailable for this selection")
	ErrMonthNotFound     = errors.New("month table not found")
	ErrUnknownPromotion  = errors.New("promotion not found in the selected period")
	ErrInvalidRange      = errors.New("start date must not be after end date")
)

// ReportStatus tells the dashboard which message to render.
type ReportStatus string

const (
	StatusOK            ReportStatus = "ok"
	StatusNoPromotions  ReportStatus = "no_promotions"
	StatusNoSales       ReportStatus = "no_sales"
	StatusNoCorrelation ReportStatus = "no_correlation"
)

// Label returns the Portuguese message shown to the business user.
func (s ReportStatus) Label() string {
	switch s {
	case StatusNoPromotions:
		return "Nenhuma promoção encontrada no período selecionado."
	case StatusNoSales:
		return "Nenhuma venda encontrada no período selecionado."
	case StatusNoCorrelation:
		return "Nenhuma venda correlacionada com a promoção selecionada."
	default:
		return ""
	}
}

// StatusFor maps an insight error to the status the dashboard shows.
func StatusFor(err error) (ReportStatus, bool) {
	switch {
	case err == nil:
		return StatusOK, true
	case errors.Is(err, ErrNoPromotions):
		return StatusNoPromotions, true
	case errors.Is(err, ErrNoSales):
		return StatusNoSales, true
	case errors.Is(err, ErrNoCorrelatedSales):
		return StatusNoCorrelation, true
	}
	return "", false
}

type InsightSummary struct {
	TotalUnits    float64 `json:"total_units"`
	TotalDiscount float64 `json:"total_discount"`
	GrossProfit   float64 `json:"gross_profit"`
	NetProfit     float64 `json:"net_profit"`
	PrintingCost  float64 `json:"printing_cost"`
	TotalCost     float64 `json:"total_cost"`
}

// Coverage says whether net profit paid for the promotion. Percent is nil
// when the promotion had no cost.
type Coverage struct {
	Covered bool     `json:"covered"`
	Percent *float64 `json:"percent"`
	Deficit float64  `json:"deficit"`
}

type InsightReport struct {
	Start         time.Time       `json:"start"`
	End           time.Time       `json:"end"`
	PromotionName string          `json:"promotion_name"`
	Status        ReportStatus    `json:"status"`
	Message       string          `json:"message,omitempty"`
	Promotions    []Promotion     `json:"promotions"`
	Correlated    []CorrelatedRow `json:"correlated"`
	Summary       InsightSummary  `json:"summary"`
	Coverage      Coverage        `json:"coverage"`
	LoadedMonths  []string        `json:"loaded_months"`
	MissingMonths []string        `json:"missing_months"`
	GeneratedAt   time.Time       `json:"generated_at"`
}

// DateBounds is the earliest start and latest end found in the promotions
// table; the dashboard uses it to constrain its date inputs.
type DateBounds struct {
	Min time.Time `json:"min"`
	Max time.Time `json:"max"`
}
