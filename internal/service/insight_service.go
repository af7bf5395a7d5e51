package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/tabloide-insight/internal/cache"
	"github.com/andresuchdata/tabloide-insight/internal/domain"
	"github.com/andresuchdata/tabloide-insight/internal/insight"
	"github.com/andresuchdata/tabloide-insight/internal/source"
)

const defaultFetchTimeout = time.Minute

type InsightService struct {
	source       source.Source
	cache        cache.InsightCache
	fetchTimeout time.Duration
	now          func() time.Time
}

func NewInsightService(src source.Source, cacheImpl cache.InsightCache, fetchTimeout time.Duration) *InsightService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopInsightCache()
	}
	if fetchTimeout <= 0 {
		fetchTimeout = defaultFetchTimeout
	}
	return &InsightService{
		source:       src,
		cache:        cacheImpl,
		fetchTimeout: fetchTimeout,
		now:          time.Now,
	}
}

// DateBounds returns the span covered by the promotions table.
func (s *InsightService) DateBounds(ctx context.Context) (domain.DateBounds, error) {
	promotions, err := s.loadPromotions(ctx)
	if err != nil {
		return domain.DateBounds{}, err
	}
	return insight.DateBounds(promotions)
}

// PromotionNames lists the promotions running entirely inside [start, end].
func (s *InsightService) PromotionNames(ctx context.Context, start, end time.Time) ([]string, error) {
	if end.Before(start) {
		return nil, domain.ErrInvalidRange
	}
	promotions, err := s.loadPromotions(ctx)
	if err != nil {
		return nil, err
	}
	return insight.PromotionNames(insight.FilterByDateRange(promotions, start, end)), nil
}

// Months lists the months with prepared sales, when the source can tell.
func (s *InsightService) Months(ctx context.Context) ([]string, error) {
	months, err := source.Months(ctx, s.source)
	if err != nil && !errors.Is(err, errors.ErrUnsupported) {
		return nil, fmt.Errorf("%w: %v", domain.ErrDataUnavailable, err)
	}
	return months, err
}

// BuildReport runs the whole correlation for one selection. Selections that
// simply have nothing to show come back as a report whose Status says why;
// errors are reserved for bad input and unavailable data.
func (s *InsightService) BuildReport(ctx context.Context, start, end time.Time, promotionName string) (*domain.InsightReport, error) {
	if end.Before(start) {
		return nil, domain.ErrInvalidRange
	}
	promotionName = strings.TrimSpace(promotionName)

	if report, ok, err := s.cache.GetReport(ctx, start, end, promotionName); err == nil && ok {
		return report, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("insight: cache get report failed")
	}

	report, err := s.buildReport(ctx, start, end, promotionName)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetReport(ctx, report); err != nil {
		log.Warn().Err(err).Msg("insight: cache set report failed")
	}

	return report, nil
}

func (s *InsightService) buildReport(ctx context.Context, start, end time.Time, promotionName string) (*domain.InsightReport, error) {
	report := &domain.InsightReport{
		Start:         start,
		End:           end,
		PromotionName: promotionName,
		Status:        domain.StatusOK,
		GeneratedAt:   s.now().UTC(),
	}

	promotions, err := s.loadPromotions(ctx)
	if err != nil {
		return nil, err
	}

	inRange := insight.FilterByDateRange(promotions, start, end)
	if len(inRange) == 0 {
		return withStatus(report, domain.ErrNoPromotions), nil
	}

	key, ok := insight.FindByName(inRange, promotionName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownPromotion, promotionName)
	}
	report.Promotions = insight.FilterByGroup(inRange, key)

	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()
	sales, err := source.LoadSalesRange(fetchCtx, s.source, start, end)
	if err != nil {
		return nil, err
	}
	report.LoadedMonths = sales.Loaded
	report.MissingMonths = sales.Missing
	if len(sales.Sales) == 0 {
		return withStatus(report, domain.ErrNoSales), nil
	}

	report.Correlated = insight.CorrelateSales(report.Promotions, sales.Sales)
	printingCost, err := insight.AttributePrintingCost(report.Correlated, key)
	if errors.Is(err, domain.ErrNoCorrelatedSales) {
		return withStatus(report, err), nil
	}
	if err != nil {
		return nil, err
	}

	report.Summary = insight.Summarize(report.Correlated, printingCost)
	report.Coverage = insight.Cover(report.Summary)
	report.Message = insight.CoverageMessage(report.Coverage)

	log.Info().
		Str("promotion", promotionName).
		Int("correlated", len(report.Correlated)).
		Float64("printing_cost", printingCost).
		Strs("missing_months", sales.Missing).
		Msg("insight report built")

	return report, nil
}

func (s *InsightService) loadPromotions(ctx context.Context) ([]domain.Promotion, error) {
	promotions, err := s.source.LoadPromotions(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: promotions: %v", domain.ErrDataUnavailable, err)
	}
	return promotions, nil
}

func withStatus(report *domain.InsightReport, reason error) *domain.InsightReport {
	status, _ := domain.StatusFor(reason)
	report.Status = status
	report.Message = status.Label()
	return report
}
