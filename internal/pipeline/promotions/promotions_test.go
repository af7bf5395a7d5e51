package promotions

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/tabloide-insight/internal/domain"
	"github.com/andresuchdata/tabloide-insight/internal/pipeline"
	"github.com/andresuchdata/tabloide-insight/internal/schema"
)

const report = "Codigo;Descricao;Dt.Valid.Ini;Dt.Valid.Fin;Item;Descricao;Pr.Un;Quant.;Pr.Total\n" +
	"1; JAN - 01 - TABLOIDE ;01/01/24;31/01/24;100.0;ARROZ 5KG ;10,555;2;8,004\n" +
	"2;JAN - 02 - tabloide;01/01/24;31/01/24;100;ARROZ 5KG;10,55;;abc\n" +
	"3;JAN - 01 - TABLOIDE RAIZ;01/01/24;31/01/24;200;FEIJÃO;5;1;4\n" +
	"4;JAN - 01 - ENCARTE;01/01/24;31/01/24;300;SAL;2;1;1\n"

func writeReport(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rel_2024.csv")
	require.NoError(t, os.WriteFile(path, []byte(report), 0o644))
	return path
}

func TestNormalize(t *testing.T) {
	frame, err := LoadReport(writeReport(t), schema.PromotionsReport(), "")
	require.NoError(t, err)

	rows, err := Normalize(frame)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	first := rows[0]
	assert.Equal(t, "JAN - 01 - TABLOIDE", first.Name)
	assert.Equal(t, domain.PromotionKey{Period: "JAN", Store: "01", Campaign: "TABLOIDE"}, first.Key)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), first.StartDate)
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), first.EndDate)
	assert.Equal(t, "100", first.SKU)
	assert.Equal(t, "ARROZ 5KG", first.ItemName)
	assert.Equal(t, 10.56, first.SoldPrice.Float64)
	assert.Equal(t, 8.0, first.PromoPrice.Float64)
	assert.Equal(t, 2, first.ActivationQty)

	second := rows[1]
	assert.False(t, second.PromoPrice.Valid)
	assert.Equal(t, 0, second.ActivationQty)
}

func TestNormalizeBadDate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rel.csv")
	body := "Descricao;Dt.Valid.Ini;Dt.Valid.Fin;Item;Descricao;Pr.Un;Quant.;Pr.Total\n" +
		"X - 01 - TABLOIDE;sempre;31/01/24;1;A;1;1;1\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	frame, err := LoadReport(path, schema.PromotionsReport(), "")
	require.NoError(t, err)
	_, err = Normalize(frame)
	assert.ErrorContains(t, err, "start date")
}

func TestFilter(t *testing.T) {
	rows := []domain.Promotion{
		{Name: "JAN - 01 - TABLOIDE"},
		{Name: "JAN - 02 - tabloide"},
		{Name: "JAN - 01 - TABLOIDE RAIZ"},
		{Name: "JAN - 01 - Raiz Tabloide"},
		{Name: "JAN - 01 - ENCARTE"},
	}

	kept := Filter(rows, DefaultMarker, DefaultExclusion)
	require.Len(t, kept, 2)
	assert.Equal(t, "JAN - 01 - TABLOIDE", kept[0].Name)
	assert.Equal(t, "JAN - 02 - tabloide", kept[1].Name)

	assert.Len(t, Filter(rows, "tabloide", ""), 4)
}

type captureSink struct {
	promotions []domain.Promotion
}

func (c *captureSink) WriteSales(context.Context, string, []domain.TreatedSale) error { return nil }
func (c *captureSink) WritePromotions(_ context.Context, rows []domain.Promotion) error {
	c.promotions = rows
	return nil
}

func TestPipelineRun(t *testing.T) {
	p := NewPipeline(Options{
		ReportPath: writeReport(t),
		Exclusion:  DefaultExclusion,
		Schemas:    schema.DefaultSet(),
	})
	require.NoError(t, p.Validate())

	sink := &captureSink{}
	run := &pipeline.PipelineRun{}
	require.NoError(t, p.Run(context.Background(), sink, run))

	assert.Len(t, sink.promotions, 2)
	assert.Equal(t, []string{"relatorio_tratado.csv"}, run.Outputs)
	assert.Equal(t, 2, run.TotalRows)

	missing := NewPipeline(Options{ReportPath: filepath.Join(t.TempDir(), "nope.csv")})
	assert.Error(t, missing.Validate())
}
