package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/tabloide-insight/internal/cache"
	"github.com/andresuchdata/tabloide-insight/internal/domain"
	"github.com/andresuchdata/tabloide-insight/internal/insight"
)

func day(m time.Month, d int) time.Time {
	return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC)
}

func promo(name, sku string, promoPrice float64) domain.Promotion {
	return domain.Promotion{
		Name:          name,
		Key:           domain.ParsePromotionName(name),
		StartDate:     day(1, 1),
		EndDate:       day(1, 31),
		SKU:           sku,
		SoldPrice:     domain.NewNumber(10),
		PromoPrice:    domain.NewNumber(promoPrice),
		ActivationQty: 2,
	}
}

type fakeSource struct {
	promotions    []domain.Promotion
	months        map[string][]domain.TreatedSale
	promoErr      error
	block         bool
	promotionHits int
}

func (f *fakeSource) LoadPromotions(context.Context) ([]domain.Promotion, error) {
	f.promotionHits++
	if f.promoErr != nil {
		return nil, f.promoErr
	}
	return append([]domain.Promotion(nil), f.promotions...), nil
}

func (f *fakeSource) LoadMonth(ctx context.Context, month string) ([]domain.TreatedSale, error) {
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	rows, ok := f.months[month]
	if !ok {
		return nil, fmt.Errorf("%s: %w", month, domain.ErrMonthNotFound)
	}
	return rows, nil
}

func newFake() *fakeSource {
	return &fakeSource{
		promotions: []domain.Promotion{
			promo("T - 01 - A", "100", 8),
			promo("T - 02 - A", "100", 8),
			promo("U - 01 - B", "200", 3),
		},
		months: map[string][]domain.TreatedSale{
			"2024-01": {{Month: "2024-01", Store: "01", Date: day(1, 10), Item: "100", Quantity: domain.NewNumber(5), PromotionFlag: "N"}},
		},
	}
}

func TestBuildReport(t *testing.T) {
	svc := NewInsightService(newFake(), nil, time.Second)

	report, err := svc.BuildReport(context.Background(), day(1, 1), day(1, 31), "T - 01 - A")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusOK, report.Status)
	assert.Len(t, report.Promotions, 2)
	assert.Len(t, report.Correlated, 2)
	assert.Equal(t, []string{"2024-01"}, report.LoadedMonths)
	assert.Equal(t, insight.UniformPrintingCost, report.Summary.PrintingCost)
	assert.Equal(t, 10.0, report.Summary.TotalUnits)
	assert.Equal(t, 20.0, report.Summary.TotalDiscount)
	assert.Equal(t, 80.0, report.Summary.GrossProfit)
	assert.False(t, report.Coverage.Covered)
	assert.Contains(t, report.Message, "não cobriu")
}

func TestBuildReport_Statuses(t *testing.T) {
	ctx := context.Background()
	fake := newFake()
	svc := NewInsightService(fake, nil, time.Second)

	report, err := svc.BuildReport(ctx, day(2, 1), day(2, 28), "T - 01 - A")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNoPromotions, report.Status)
	assert.Equal(t, domain.StatusNoPromotions.Label(), report.Message)

	report, err = svc.BuildReport(ctx, day(1, 1), day(1, 31), "U - 01 - B")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNoCorrelation, report.Status)
	assert.Len(t, report.Promotions, 1)

	fake.months = nil
	report, err = svc.BuildReport(ctx, day(1, 1), day(1, 31), "T - 01 - A")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNoSales, report.Status)
	assert.Equal(t, []string{"2024-01"}, report.MissingMonths)
}

func TestBuildReport_Errors(t *testing.T) {
	ctx := context.Background()
	fake := newFake()
	svc := NewInsightService(fake, nil, 10*time.Millisecond)

	_, err := svc.BuildReport(ctx, day(2, 1), day(1, 1), "T - 01 - A")
	assert.ErrorIs(t, err, domain.ErrInvalidRange)

	_, err = svc.BuildReport(ctx, day(1, 1), day(1, 31), "nope")
	assert.ErrorIs(t, err, domain.ErrUnknownPromotion)

	fake.block = true
	_, err = svc.BuildReport(ctx, day(1, 1), day(1, 31), "T - 01 - A")
	assert.ErrorIs(t, err, domain.ErrDataUnavailable)

	fake.promoErr = errors.New("offline")
	_, err = svc.BuildReport(ctx, day(1, 1), day(1, 31), "T - 01 - A")
	assert.ErrorIs(t, err, domain.ErrDataUnavailable)

	_, err = svc.DateBounds(ctx)
	assert.ErrorIs(t, err, domain.ErrDataUnavailable)
}

func TestBuildReport_UsesCache(t *testing.T) {
	ctx := context.Background()
	fake := newFake()
	svc := NewInsightService(fake, cache.NewMemoryInsightCache(time.Minute), time.Second)

	first, err := svc.BuildReport(ctx, day(1, 1), day(1, 31), "T - 01 - A")
	require.NoError(t, err)
	second, err := svc.BuildReport(ctx, day(1, 1), day(1, 31), " T - 01 - A ")
	require.NoError(t, err)

	assert.Equal(t, 1, fake.promotionHits)
	assert.Equal(t, first.Summary, second.Summary)
	assert.NotSame(t, first, second)
}

func TestDateBoundsAndNames(t *testing.T) {
	ctx := context.Background()
	fake := newFake()
	late := promo("V - 01 - C", "300", 1)
	late.StartDate, late.EndDate = day(2, 1), day(3, 15)
	fake.promotions = append(fake.promotions, late)
	svc := NewInsightService(fake, nil, 0)

	bounds, err := svc.DateBounds(ctx)
	require.NoError(t, err)
	assert.Equal(t, day(1, 1), bounds.Min)
	assert.Equal(t, day(3, 15), bounds.Max)

	names, err := svc.PromotionNames(ctx, day(1, 1), day(1, 31))
	require.NoError(t, err)
	assert.Equal(t, []string{"T - 01 - A", "T - 02 - A", "U - 01 - B"}, names)

	_, err = svc.PromotionNames(ctx, day(2, 1), day(1, 1))
	assert.ErrorIs(t, err, domain.ErrInvalidRange)

	fake.promotions = nil
	_, err = svc.DateBounds(ctx)
	assert.ErrorIs(t, err, domain.ErrNoPromotions)
}
