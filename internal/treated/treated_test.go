package treated

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/tabloide-insight/internal/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleSales() []domain.TreatedSale {
	return []domain.TreatedSale{
		{
			Month: "2024-01", Store: "01", Date: day(2024, 1, 5), Document: "555", Till: "3",
			Value: domain.NewNumber(20.5), Discount: domain.NewNumber(1.25), Type: "D",
			Client: "0", Operator: "MARIA", CouponStore: "01", CouponNumber: "555", PDV: "3",
			Item: "100", ItemDescription: "ARROZ 5KG", Quantity: domain.NewNumber(3),
			UnitPrice: domain.NewNumber(10), TotalPrice: domain.Number{}, PromotionFlag: "",
		},
		{
			Month: "2024-01", Store: "02", Date: day(2024, 1, 6), Document: "9", Till: "1",
			Value: domain.NewNumber(5), Discount: domain.NewNumber(0), CouponStore: "02",
			CouponNumber: "9", PDV: "1", Item: "200", ItemDescription: "FEIJÃO; CARIOCA",
			Quantity: domain.NewNumber(1), UnitPrice: domain.NewNumber(5),
			TotalPrice: domain.NewNumber(5), PromotionFlag: "P",
		},
	}
}

func TestSalesCSVRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSalesCSV(&buf, sampleSales()))

	header := strings.SplitN(buf.String(), "\n", 2)[0]
	assert.Equal(t, "Lj;Data;Docum;CX;Valor;Desconto;Tipo;Cliente;Operador;Loja;Num.Cupom;PDV;Item;Desc.Item;Quantidade;Pr.Venda.Un;Pr.Venda Total;Promoção", header)

	got, err := ReadSalesCSV(&buf, "2024-01")
	require.NoError(t, err)
	assert.Equal(t, sampleSales(), got)
}

func TestSalesParquetRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSalesParquet(&buf, sampleSales()))

	got, err := ReadSalesParquet(buf.Bytes(), "2024-01")
	require.NoError(t, err)
	assert.Equal(t, sampleSales(), got)
}

func TestReadSalesParquetRejectsGarbage(t *testing.T) {
	_, err := ReadSalesParquet([]byte("not parquet"), "2024-01")
	assert.Error(t, err)
}

func TestWriteSalesRejectsMissingDate(t *testing.T) {
	rows := sampleSales()
	rows[1].Date = time.Time{}

	var buf bytes.Buffer
	assert.ErrorContains(t, WriteSalesCSV(&buf, rows), "sales row 1: missing date")
	assert.ErrorContains(t, WriteSalesParquet(&buf, rows), "missing date")
}

func TestPromotionsCSV(t *testing.T) {
	in := []domain.Promotion{{
		Name: "JAN - 01 - TABLOIDE", StartDate: day(2024, 1, 1), EndDate: day(2024, 1, 31),
		SKU: "100", ItemName: "ARROZ", SoldPrice: domain.NewNumber(10),
		PromoPrice: domain.Number{}, ActivationQty: 2,
	}}

	var buf bytes.Buffer
	require.NoError(t, WritePromotionsCSV(&buf, in))
	assert.Contains(t, buf.String(), "JAN - 01 - TABLOIDE;2024-01-01;2024-01-31;100;ARROZ;10;;2")

	got, err := ReadPromotionsCSV(&buf)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.PromotionKey{Period: "JAN", Store: "01", Campaign: "TABLOIDE"}, got[0].Key)
	assert.False(t, got[0].PromoPrice.Valid)
	assert.Equal(t, 2, got[0].ActivationQty)
}

func TestWriteCorrelatedCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCorrelatedCSV(&buf, []domain.CorrelatedRow{{
		PromotionName: "T - 01 - A", SKU: "100", SoldPrice: 10, PromoPrice: 8,
		ActivationQty: 2, Store: "01", Date: day(2024, 1, 10), Quantity: 5,
		PromotionFlag: "N", DiscountApplied: 10, GrossProfit: 40,
	}}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], "Desconto Aplicado;Lucro Bruto"))
	assert.Equal(t, "T - 01 - A;100;;10;8;2;01;2024-01-10;;;;5;0;N;10;40", lines[1])
}

func TestReadPromotionsCSV_BadDate(t *testing.T) {
	in := "Nome Promocao;Data Inicial;Data Final;SKU;Nome Item;Preco Vendido;Preco Promocao;Ativacao\n" +
		"X - 01 - Y;ontem;2024-01-31;1;A;1;1;1\n"
	_, err := ReadPromotionsCSV(strings.NewReader(in))
	assert.Error(t, err)
}

func TestFileNames(t *testing.T) {
	assert.Equal(t, "2024-03_tratado.parquet", MonthFileName("2024-03", ExtParquet))
	assert.Equal(t, "2024-03_tratado.csv", MonthFileName("2024-03", ".csv"))

	month, ext, ok := MonthFromFileName("2024-03_tratado.parquet")
	assert.True(t, ok)
	assert.Equal(t, "2024-03", month)
	assert.Equal(t, ExtParquet, ext)

	_, _, ok = MonthFromFileName("relatorio_tratado.csv")
	assert.False(t, ok)

	m, err := ParseMonth("2024-02")
	require.NoError(t, err)
	assert.Equal(t, "2024-02", Month(m))
	_, err = ParseMonth("2024/02")
	assert.Error(t, err)
}
