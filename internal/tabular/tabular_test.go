package tabular

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/andresuchdata/tabloide-insight/internal/schema"
)

func TestReadCSV_DedupesHeaderAndSelects(t *testing.T) {
	in := "Descricao;Dt.Valid.Ini;Dt.Valid.Fin;Item;Descricao;Pr.Un;Quant.;Pr.Total;Extra\n" +
		"JAN - 01 - TABLOIDE;01/01/24;31/01/24;100;ARROZ;10,00;2;8,00;x\n"

	f, err := ReadCSV(strings.NewReader(in), CSVOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Descricao.1", f.Header[4])

	sel, err := f.Select(schema.PromotionsReport())
	require.NoError(t, err)
	assert.Equal(t, schema.PromotionsReport().Columns, sel.Header)
	assert.Equal(t, "ARROZ", sel.Get(0, schema.ReportItemName))
	assert.Equal(t, "8,00", sel.Get(0, schema.ReportTotalPrice))
}

func TestReadCSV_SelectReportsMissingColumns(t *testing.T) {
	f, err := ReadCSV(strings.NewReader("Lj;Data\n1;01/01/2024\n"), CSVOptions{})
	require.NoError(t, err)

	_, err = f.Select(schema.Ledger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Docum")
	assert.Contains(t, err.Error(), "Operador")
}

func TestReadCSV_Latin1AndBOM(t *testing.T) {
	encoded, err := charmap.ISO8859_1.NewEncoder().String("Loja;Promoção\n01;São Paulo\n")
	require.NoError(t, err)

	f, err := ReadCSV(strings.NewReader(encoded), CSVOptions{Charset: "iso-8859-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Loja", "Promoção"}, f.Header)
	assert.Equal(t, "São Paulo", f.Get(0, "Promoção"))

	bom := "\xEF\xBB\xBFLoja;Item\n01;100\n"
	f, err = ReadCSV(strings.NewReader(bom), CSVOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Loja", f.Header[0])
}

func TestReadCSV_Errors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""), CSVOptions{})
	assert.Error(t, err)

	_, err = ReadCSV(strings.NewReader("a;b\n"), CSVOptions{Charset: "ebcdic"})
	assert.Error(t, err)
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, ';', []string{"a", "b"}, [][]string{{"1", "x;y"}}))

	f, err := ReadCSV(&buf, CSVOptions{})
	require.NoError(t, err)
	assert.Equal(t, "x;y", f.Get(0, "b"))
}

func TestDedupeHeader(t *testing.T) {
	assert.Equal(t, []string{"a", "a.1", "b", "a.2"}, dedupeHeader([]string{"a", "a", "b", "a"}))
	assert.Equal(t, []string{"a", "a.1", "a.2"}, dedupeHeader([]string{"a", "a.1", "a"}))
}

func TestFrameGetOutOfRange(t *testing.T) {
	f := NewFrame([]string{"a", "b"}, [][]string{{"1"}})
	assert.Equal(t, "1", f.Get(0, "a"))
	assert.Equal(t, "", f.Get(0, "b"))
	assert.Equal(t, "", f.Get(3, "a"))
	assert.Equal(t, "", f.Get(0, "zzz"))
	assert.Equal(t, -1, f.Col("zzz"))
}

func TestReadXLSX(t *testing.T) {
	x := excelize.NewFile()
	require.NoError(t, x.SetSheetRow("Sheet1", "A1", &[]any{"Loja", "Num.Cupom", "Data", "Quantidade"}))
	require.NoError(t, x.SetSheetRow("Sheet1", "A2", &[]any{1, 555, 45292, 2.5}))
	path := filepath.Join(t.TempDir(), "CUPOM_2024-01.xlsx")
	require.NoError(t, x.SaveAs(path))
	require.NoError(t, x.Close())

	f, err := ReadXLSX(path, XLSXOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, f.Len())
	assert.Equal(t, "555", f.Get(0, "Num.Cupom"))
	assert.Equal(t, "2.5", f.Get(0, "Quantidade"))

	d, err := ParseDate(f.Get(0, "Data"))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), d)

	_, err = ReadXLSX(path, XLSXOptions{SheetName: "Nope"})
	assert.Error(t, err)
	_, err = ReadXLSX(path, XLSXOptions{SheetIndex: 4})
	assert.Error(t, err)
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in           string
		decimalComma bool
		want         float64
		valid        bool
	}{
		{"10,50", true, 10.5, true},
		{"1.234,56", true, 1234.56, true},
		{"R$ 8,00", true, 8, true},
		{"12.5", false, 12.5, true},
		{"12", true, 12, true},
		{"", true, 0, false},
		{"abc", true, 0, false},
		{"1,5", false, 0, false},
	}
	for _, tt := range tests {
		got := ParseNumber(tt.in, tt.decimalComma)
		assert.Equal(t, tt.valid, got.Valid, tt.in)
		if tt.valid {
			assert.InDelta(t, tt.want, got.Float64, 1e-9, tt.in)
		}
	}
}

func TestRound2AndTruncInt(t *testing.T) {
	assert.Equal(t, 2.35, Round2(ParseNumber("2.345", false)).Float64)
	assert.False(t, Round2(ParseNumber("", false)).Valid)

	assert.Equal(t, 3, TruncInt(ParseNumber("3,9", true)))
	assert.Equal(t, 0, TruncInt(ParseNumber("", true)))
}

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"05/01/2024", "05/01/24", "5/1/24", "2024-01-05", "2024-01-05 13:45:00", "45296"} {
		got, err := ParseDate(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseDate("")
	assert.Error(t, err)
	_, err = ParseDate("janeiro")
	assert.Error(t, err)
}

func TestCanonicalIDAndZeroPad(t *testing.T) {
	assert.Equal(t, "12345", CanonicalID(" 12345.0 "))
	assert.Equal(t, "12345", CanonicalID("12345"))
	assert.Equal(t, "12.5", CanonicalID("12.5"))
	assert.Equal(t, "ABC", CanonicalID("ABC"))

	assert.Equal(t, "01", ZeroPad("1", 2))
	assert.Equal(t, "12", ZeroPad("12", 2))
	assert.Equal(t, "123", ZeroPad("123", 2))
}
