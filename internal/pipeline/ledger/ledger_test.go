package ledger

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/andresuchdata/tabloide-insight/internal/domain"
	"github.com/andresuchdata/tabloide-insight/internal/pipeline"
	"github.com/andresuchdata/tabloide-insight/internal/schema"
)

const ledgerCSV = "Lj;Data;Hora;Docum;CX;Valor;Desconto;Tipo;Cliente;Operador\n" +
	"1;05/01/2024;10:00;555;3;20,50;1,25;D;0;JOÃO\n" +
	"2;06/01/2024;11:00;777;1;5,00;0,00;D;0;ANA\n" +
	"1;05/02/2024;09:00;900;2;9,90;0,00;D;0;JOÃO\n"

func writeLedger(t *testing.T, dir string) string {
	t.Helper()
	encoded, err := charmap.ISO8859_1.NewEncoder().String(ledgerCSV)
	require.NoError(t, err)
	path := filepath.Join(dir, "2024.csv")
	require.NoError(t, os.WriteFile(path, []byte(encoded), 0o644))
	return path
}

func writeCoupons(t *testing.T, dir, month string, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	header := []any{"Loja", "Num.Cupom", "Data", "PDV", "Item", "Desc.Item", "Quantidade", "Pr.Venda.Un", "Pr.Venda Total", "Promoção", "Extra"}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	path := filepath.Join(dir, "CUPOM_"+month+".xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func TestLoadLedgerStandardizesKeys(t *testing.T) {
	rows, err := LoadLedger(writeLedger(t, t.TempDir()), schema.Ledger(), "iso-8859-1")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "01", rows[0].Store)
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), rows[0].Date)
	assert.Equal(t, "555", rows[0].Document)
	assert.Equal(t, 20.5, rows[0].Value.Float64)
	assert.Equal(t, "JOÃO", rows[0].Operator)
}

func TestLoadLedgerMissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("Lj;Data\n1;05/01/2024\n"), 0o644))
	_, err := LoadLedger(path, schema.Ledger(), "")
	assert.ErrorContains(t, err, "Docum")
}

func TestLoadCoupons(t *testing.T) {
	path := writeCoupons(t, t.TempDir(), "2024-01", [][]any{
		{1, 555, 45296, 3, 100, "ARROZ", 2, 10.5, 21, "N", "x"},
		{},
		{"01", "555.0", "05/01/2024", "3", "200.0", "FEIJÃO", "1", "5", "5", "P", ""},
	})

	rows, err := LoadCoupons(path, schema.CouponExport())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, "01", r.Store)
		assert.Equal(t, "555", r.CouponNumber)
		assert.Equal(t, "3", r.PDV)
		assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), r.Date)
	}
	assert.Equal(t, "200", rows[1].Item)
	assert.Equal(t, 10.5, rows[0].UnitPrice.Float64)
	assert.Equal(t, "P", rows[1].PromotionFlag)
}

func TestJoin(t *testing.T) {
	d := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	ledgerRows := []domain.LedgerRow{
		{Store: "01", Date: d, Document: "555", Till: "3", Value: domain.NewNumber(20)},
		{Store: "02", Date: d, Document: "555", Till: "3"},
		{Store: "01", Date: d.AddDate(0, 0, 1), Document: "555", Till: "3"},
	}
	coupons := []domain.CouponRow{
		{Store: "01", Date: d, CouponNumber: "555", PDV: "3", Item: "100"},
		{Store: "01", Date: d, CouponNumber: "555", PDV: "3", Item: "200"},
		{Store: "01", Date: d, CouponNumber: "555", PDV: "4", Item: "300"},
	}

	rows := Join(ledgerRows, coupons)
	require.Len(t, rows, 2)
	assert.Equal(t, "100", rows[0].Item)
	assert.Equal(t, "200", rows[1].Item)
	assert.Equal(t, 20.0, rows[1].Value.Float64)
	assert.Equal(t, "01", rows[0].CouponStore)
	assert.Equal(t, 1, UniqueDocuments(rows))
	assert.Empty(t, Join(nil, coupons))
}

func TestCouponFilesAndMonth(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"CUPOM_2024-02.xlsx", "CUPOM_2024-01.xlsx", "notes.txt", "CUPOM_2024-03.csv"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	files, err := CouponFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "2024-01", files[0].Month)
	assert.Equal(t, "2024-02", files[1].Month)

	_, err = MonthFromFilename("2024-01.xlsx")
	assert.Error(t, err)

	_, err = CouponFiles(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

type captureSink struct {
	sales map[string][]domain.TreatedSale
}

func (c *captureSink) WriteSales(_ context.Context, month string, rows []domain.TreatedSale) error {
	c.sales[month] = rows
	return nil
}

func (c *captureSink) WritePromotions(context.Context, []domain.Promotion) error { return nil }

func TestPipelineRun(t *testing.T) {
	dir := t.TempDir()
	couponDir := filepath.Join(dir, "cupons")
	require.NoError(t, os.Mkdir(couponDir, 0o755))
	writeCoupons(t, couponDir, "2024-01", [][]any{
		{1, 555, 45296, 3, 100, "ARROZ", 2, 10, 20, "", ""},
		{2, 777, 45297, 1, 200, "FEIJÃO", 1, 5, 5, "P", ""},
		{3, 999, 45297, 1, 300, "SAL", 1, 2, 2, "", ""},
	})
	writeCoupons(t, couponDir, "2024-02", [][]any{
		{1, 111, 45327, 2, 100, "ARROZ", 1, 10, 10, "", ""},
	})

	p := NewPipeline(Options{
		LedgerPath: writeLedger(t, dir),
		CouponDir:  couponDir,
		Charset:    "iso-8859-1",
		Schemas:    schema.DefaultSet(),
	})
	require.NoError(t, p.Validate())

	sink := &captureSink{sales: map[string][]domain.TreatedSale{}}
	run := &pipeline.PipelineRun{}
	require.NoError(t, p.Run(context.Background(), sink, run))

	assert.Len(t, sink.sales["2024-01"], 2)
	assert.Equal(t, "2024-01", sink.sales["2024-01"][0].Month)
	assert.Empty(t, sink.sales["2024-02"])
	assert.Equal(t, []string{"2024-01", "2024-02"}, run.Outputs)
	assert.Equal(t, 2, run.TotalRows)
}

func TestPipelineValidateSkipsWithoutLedger(t *testing.T) {
	p := NewPipeline(Options{LedgerPath: filepath.Join(t.TempDir(), "2024.csv")})
	var skip *pipeline.ErrSkip
	assert.ErrorAs(t, p.Validate(), &skip)
}
