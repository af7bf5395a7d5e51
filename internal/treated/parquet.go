package treated

import (
	"bytes"
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"

	"github.com/andresuchdata/tabloide-insight/internal/domain"
	"github.com/andresuchdata/tabloide-insight/internal/tabular"
)

// salesRecord is the on-disk layout of a monthly sales table. Column names
// match the CSV header.
type salesRecord struct {
	Lj           string   `parquet:"Lj"`
	Data         string   `parquet:"Data"`
	Docum        string   `parquet:"Docum"`
	CX           string   `parquet:"CX"`
	Valor        *float64 `parquet:"Valor"`
	Desconto     *float64 `parquet:"Desconto"`
	Tipo         string   `parquet:"Tipo"`
	Cliente      string   `parquet:"Cliente"`
	Operador     string   `parquet:"Operador"`
	Loja         string   `parquet:"Loja"`
	NumCupom     string   `parquet:"Num.Cupom"`
	PDV          string   `parquet:"PDV"`
	Item         string   `parquet:"Item"`
	DescItem     string   `parquet:"Desc.Item"`
	Quantidade   *float64 `parquet:"Quantidade"`
	PrVendaUn    *float64 `parquet:"Pr.Venda.Un"`
	PrVendaTotal *float64 `parquet:"Pr.Venda Total"`
	Promocao     string   `parquet:"Promoção"`
}

func toRecord(r domain.TreatedSale) salesRecord {
	return salesRecord{
		Lj:           r.Store,
		Data:         formatDate(r.Date),
		Docum:        r.Document,
		CX:           r.Till,
		Valor:        r.Value.Ptr(),
		Desconto:     r.Discount.Ptr(),
		Tipo:         r.Type,
		Cliente:      r.Client,
		Operador:     r.Operator,
		Loja:         r.CouponStore,
		NumCupom:     r.CouponNumber,
		PDV:          r.PDV,
		Item:         r.Item,
		DescItem:     r.ItemDescription,
		Quantidade:   r.Quantity.Ptr(),
		PrVendaUn:    r.UnitPrice.Ptr(),
		PrVendaTotal: r.TotalPrice.Ptr(),
		Promocao:     r.PromotionFlag,
	}
}

func fromRecord(rec salesRecord, month string) (domain.TreatedSale, error) {
	date, err := tabular.ParseDate(rec.Data)
	if err != nil {
		return domain.TreatedSale{}, err
	}
	return domain.TreatedSale{
		Month:           month,
		Store:           rec.Lj,
		Date:            date,
		Document:        rec.Docum,
		Till:            rec.CX,
		Value:           domain.NumberFromPtr(rec.Valor),
		Discount:        domain.NumberFromPtr(rec.Desconto),
		Type:            rec.Tipo,
		Client:          rec.Cliente,
		Operator:        rec.Operador,
		CouponStore:     rec.Loja,
		CouponNumber:    rec.NumCupom,
		PDV:             rec.PDV,
		Item:            tabular.CanonicalID(rec.Item),
		ItemDescription: rec.DescItem,
		Quantity:        domain.NumberFromPtr(rec.Quantidade),
		UnitPrice:       domain.NumberFromPtr(rec.PrVendaUn),
		TotalPrice:      domain.NumberFromPtr(rec.PrVendaTotal),
		PromotionFlag:   rec.Promocao,
	}, nil
}

func WriteSalesParquet(w io.Writer, rows []domain.TreatedSale) error {
	if err := checkDates(rows); err != nil {
		return fmt.Errorf("parquet: %w", err)
	}
	records := make([]salesRecord, len(rows))
	for i, r := range rows {
		records[i] = toRecord(r)
	}
	if err := parquet.Write(w, records); err != nil {
		return fmt.Errorf("parquet: write sales: %w", err)
	}
	return nil
}

// ReadSalesParquet decodes a whole monthly table held in memory.
func ReadSalesParquet(data []byte, month string) ([]domain.TreatedSale, error) {
	records, err := parquet.Read[salesRecord](bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parquet: read sales: %w", err)
	}

	rows := make([]domain.TreatedSale, 0, len(records))
	for i, rec := range records {
		row, err := fromRecord(rec, month)
		if err != nil {
			return nil, fmt.Errorf("parquet: sales row %d: %w", i, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
