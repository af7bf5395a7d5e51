package insight

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/tabloide-insight/internal/domain"
)

func day(m time.Month, d int) time.Time {
	return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC)
}

func promo(name, sku string, sold, promoPrice float64, activation int) domain.Promotion {
	return domain.Promotion{
		Name:          name,
		Key:           domain.ParsePromotionName(name),
		StartDate:     day(1, 1),
		EndDate:       day(1, 31),
		SKU:           sku,
		SoldPrice:     domain.NewNumber(sold),
		PromoPrice:    domain.NewNumber(promoPrice),
		ActivationQty: activation,
	}
}

func sale(sku string, qty float64, flag string) domain.TreatedSale {
	return domain.TreatedSale{
		Store:         "01",
		Date:          day(1, 10),
		Item:          sku,
		Quantity:      domain.NewNumber(qty),
		PromotionFlag: flag,
	}
}

func TestCorrelateSales_Scenario(t *testing.T) {
	rows := CorrelateSales(
		[]domain.Promotion{promo("T - 01 - A", "100", 10, 8, 2)},
		[]domain.TreatedSale{sale("100", 5, "N")},
	)

	require.Len(t, rows, 1)
	assert.Equal(t, "100", rows[0].SKU)
	assert.Equal(t, 10.0, rows[0].DiscountApplied)
	assert.Equal(t, 40.0, rows[0].GrossProfit)
	assert.Equal(t, "T - 01 - A", rows[0].PromotionName)
}

func TestCorrelateSales_CanonicalizesIDs(t *testing.T) {
	rows := CorrelateSales(
		[]domain.Promotion{promo("T - 01 - A", " 100 ", 10, 8, 2)},
		[]domain.TreatedSale{sale("100.0", 5, "N")},
	)

	require.Len(t, rows, 1)
	assert.Equal(t, "100", rows[0].SKU)
	assert.Equal(t, 40.0, rows[0].GrossProfit)
}

func TestCorrelateSales_ManyToMany(t *testing.T) {
	promotions := []domain.Promotion{
		promo("T - 01 - A", "100", 10, 8, 1),
		promo("T - 02 - A", "100", 10, 8, 1),
	}
	sales := []domain.TreatedSale{sale("100", 1, ""), sale("100", 2, ""), sale("100", 3, "")}

	// every qualifying sale pairs with every promotion of its SKU
	rows := CorrelateSales(promotions, sales)
	require.Len(t, rows, len(promotions)*len(sales))
	assert.Greater(t, len(rows), min(len(promotions), len(sales)))
	assert.Equal(t, "T - 01 - A", rows[0].PromotionName)
	assert.Equal(t, 3.0, rows[2].Quantity)
	assert.Equal(t, "T - 02 - A", rows[3].PromotionName)
}

func TestCorrelateSales_BelowActivation(t *testing.T) {
	rows := CorrelateSales(
		[]domain.Promotion{promo("T - 01 - A", "100", 10, 8, 2)},
		[]domain.TreatedSale{sale("100", 1, "N")},
	)
	assert.Empty(t, rows)
}

func TestCorrelateSales_ExcludesPromotionalSales(t *testing.T) {
	rows := CorrelateSales(
		[]domain.Promotion{promo("T - 01 - A", "100", 10, 8, 1)},
		[]domain.TreatedSale{sale("100", 5, "P"), sale("100", 3, " P "), sale("100", 2, "")},
	)
	require.Len(t, rows, 1)
	assert.Equal(t, 2.0, rows[0].Quantity)
}

func TestCorrelateSales_MissingValues(t *testing.T) {
	noPrice := promo("T - 01 - A", "100", 10, 8, 0)
	noPrice.PromoPrice = domain.Number{}

	noQty := sale("200", 0, "")
	noQty.Quantity = domain.Number{}

	rows := CorrelateSales(
		[]domain.Promotion{noPrice, promo("T - 01 - A", "200", 10, 8, 0), promo("T - 01 - A", "300", 10, 8, 1)},
		[]domain.TreatedSale{sale("100", 5, ""), noQty, func() domain.TreatedSale { s := sale("300", 0, ""); s.Quantity = domain.Number{}; return s }()},
	)

	// only the zero-activation promotion accepts a sale with no quantity
	require.Len(t, rows, 1)
	assert.Equal(t, "200", rows[0].SKU)
	assert.Equal(t, 0.0, rows[0].Quantity)
	assert.Equal(t, 0.0, rows[0].GrossProfit)
}

func TestCorrelateSales_Properties(t *testing.T) {
	promotions := []domain.Promotion{
		promo("T - 01 - A", "100", 10, 8, 2),
		promo("T - 01 - A", "200", 5, 4, 1),
		promo("T - 02 - A", "300", 7, 6, 3),
	}
	sales := []domain.TreatedSale{
		sale("100", 5, "N"),
		sale("100", 1, "N"),
		sale("200", 4, "P"),
		sale("200", 2, ""),
		sale("300", 3, ""),
		sale("999", 9, ""),
	}

	first := CorrelateSales(promotions, sales)
	second := CorrelateSales(promotions, sales)
	assert.Equal(t, first, second)

	// the bound only holds because every SKU here is unique on both sides
	assert.LessOrEqual(t, len(first), min(len(promotions), len(sales)))
	for _, row := range first {
		assert.NotEqual(t, PromotionalFlag, row.PromotionFlag)
		assert.GreaterOrEqual(t, row.Quantity, float64(row.ActivationQty))
	}
	require.Len(t, first, 3)
	assert.Equal(t, []string{"100", "200", "300"}, []string{first[0].SKU, first[1].SKU, first[2].SKU})
}

func correlatedFor(t *testing.T, store2Price float64) []domain.CorrelatedRow {
	t.Helper()
	rows := CorrelateSales(
		[]domain.Promotion{
			promo("T - 01 - A", "100", 10, 8, 1),
			promo("T - 02 - A", "100", 10, store2Price, 1),
		},
		[]domain.TreatedSale{sale("100", 2, "")},
	)
	require.Len(t, rows, 2)
	return rows
}

func TestAttributePrintingCost(t *testing.T) {
	selected := domain.ParsePromotionName("T - 01 - A")

	cost, err := AttributePrintingCost(correlatedFor(t, 8), selected)
	require.NoError(t, err)
	assert.Equal(t, UniformPrintingCost, cost)

	cost, err = AttributePrintingCost(correlatedFor(t, 9), selected)
	require.NoError(t, err)
	assert.Equal(t, NonUniformPrintingCost, cost)
}

func TestAttributePrintingCost_IgnoresOtherGroups(t *testing.T) {
	rows := correlatedFor(t, 8)
	other := domain.CorrelatedRow{
		Key:        domain.ParsePromotionName("U - 02 - A"),
		SKU:        "100",
		PromoPrice: 1,
	}
	cost, err := AttributePrintingCost(append(rows, other), domain.ParsePromotionName("T - 02 - A"))
	require.NoError(t, err)
	assert.Equal(t, UniformPrintingCost, cost)
}

func TestAttributePrintingCost_LastWriteWins(t *testing.T) {
	key := domain.ParsePromotionName("T - 01 - A")
	key2 := domain.ParsePromotionName("T - 02 - A")
	rows := []domain.CorrelatedRow{
		{Key: key, SKU: "100", PromoPrice: 9},
		{Key: key2, SKU: "100", PromoPrice: 8},
		{Key: key, SKU: "100", PromoPrice: 8},
	}
	cost, err := AttributePrintingCost(rows, key)
	require.NoError(t, err)
	assert.Equal(t, UniformPrintingCost, cost)
}

func TestAttributePrintingCost_Empty(t *testing.T) {
	_, err := AttributePrintingCost(nil, domain.ParsePromotionName("T - 01 - A"))
	assert.ErrorIs(t, err, domain.ErrNoCorrelatedSales)
}

func TestSummarizeAndCover(t *testing.T) {
	rows := []domain.CorrelatedRow{{Quantity: 5, DiscountApplied: 10, GrossProfit: 40}}
	s := Summarize(rows, UniformPrintingCost)

	assert.Equal(t, 5.0, s.TotalUnits)
	assert.Equal(t, 10.0, s.TotalDiscount)
	assert.Equal(t, 40.0, s.GrossProfit)
	assert.Equal(t, -3570.0, s.NetProfit)
	assert.Equal(t, 3610.0, s.TotalCost)

	c := Cover(s)
	assert.False(t, c.Covered)
	assert.Equal(t, 7180.0, c.Deficit)
	require.NotNil(t, c.Percent)
	assert.InDelta(t, -98.89, *c.Percent, 0.01)
}

func TestCover_ZeroCost(t *testing.T) {
	c := Cover(domain.InsightSummary{NetProfit: 0, TotalCost: 0})
	assert.True(t, c.Covered)
	assert.Nil(t, c.Percent)
	assert.Zero(t, c.Deficit)
}

func TestFilters(t *testing.T) {
	a1 := promo("JAN - 01 - TABLOIDE", "1", 2, 1, 1)
	a2 := promo("JAN - 02 - TABLOIDE", "1", 2, 1, 1)
	b := promo("FEV - 01 - TABLOIDE", "1", 2, 1, 1)
	b.StartDate, b.EndDate = day(2, 1), day(2, 28)
	all := []domain.Promotion{a1, a2, a1, b}

	inJan := FilterByDateRange(all, day(1, 1), day(1, 31))
	assert.Len(t, inJan, 3)
	assert.Empty(t, FilterByDateRange(all, day(1, 2), day(1, 31)))

	assert.Equal(t, []string{"JAN - 01 - TABLOIDE", "JAN - 02 - TABLOIDE", "FEV - 01 - TABLOIDE"}, PromotionNames(all))

	key, ok := FindByName(all, "JAN - 02 - TABLOIDE")
	require.True(t, ok)
	assert.Len(t, FilterByGroup(all, key), 3)
	_, ok = FindByName(all, "nope")
	assert.False(t, ok)

	bounds, err := DateBounds(all)
	require.NoError(t, err)
	assert.Equal(t, day(1, 1), bounds.Min)
	assert.Equal(t, day(2, 28), bounds.Max)

	_, err = DateBounds(nil)
	assert.ErrorIs(t, err, domain.ErrNoPromotions)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "1.234,56", FormatNumber(1234.56))
	assert.Equal(t, "R$ 1.234,50", FormatBRL(1234.5))
	assert.Equal(t, "R$ 0,00", FormatBRL(0))

	pct := 150.0
	assert.Equal(t, "O lucro líquido cobriu o custo total da promoção (150,00%).",
		CoverageMessage(domain.Coverage{Covered: true, Percent: &pct}))
	assert.Contains(t, CoverageMessage(domain.Coverage{Deficit: 10}), "Faltaram R$ 10,00 (n/d)")
}
