// Package schema holds the column layouts of the input exports and of the
// treated tables. Every constructor returns a fresh value; nothing here is
// shared mutable state.
package schema

// Column names of the point-of-sale ledger export.
const (
	LedgerStore    = "Lj"
	LedgerDate     = "Data"
	LedgerDocument = "Docum"
	LedgerTill     = "CX"
	LedgerValue    = "Valor"
	LedgerDiscount = "Desconto"
	LedgerType     = "Tipo"
	LedgerClient   = "Cliente"
	LedgerOperator = "Operador"
)

// Column names of the monthly coupon spreadsheets.
const (
	CouponStore           = "Loja"
	CouponNumber          = "Num.Cupom"
	CouponDate            = "Data"
	CouponPDV             = "PDV"
	CouponItem            = "Item"
	CouponItemDescription = "Desc.Item"
	CouponQuantity        = "Quantidade"
	CouponUnitPrice       = "Pr.Venda.Un"
	CouponTotalPrice      = "Pr.Venda Total"
	CouponPromotionFlag   = "Promoção"
)

// Column names of the raw promotions report. The report carries two
// "Descricao" columns; the second one is read back as "Descricao.1".
const (
	ReportName       = "Descricao"
	ReportStartDate  = "Dt.Valid.Ini"
	ReportEndDate    = "Dt.Valid.Fin"
	ReportItem       = "Item"
	ReportItemName   = "Descricao.1"
	ReportUnitPrice  = "Pr.Un"
	ReportActivation = "Quant."
	ReportTotalPrice = "Pr.Total"
)

// Column names of the treated promotions table.
const (
	PromotionName       = "Nome Promocao"
	PromotionStartDate  = "Data Inicial"
	PromotionEndDate    = "Data Final"
	PromotionSKU        = "SKU"
	PromotionItemName   = "Nome Item"
	PromotionSoldPrice  = "Preco Vendido"
	PromotionPromoPrice = "Preco Promocao"
	PromotionActivation = "Ativacao"
)

// Derived columns of the correlated table.
const (
	CorrelatedDiscount    = "Desconto Aplicado"
	CorrelatedGrossProfit = "Lucro Bruto"
)

// Table is a named, ordered column list.
type Table struct {
	Name    string
	Columns []string
}

func Ledger() Table {
	return Table{
		Name: "ledger",
		Columns: []string{
			LedgerStore, LedgerDate, LedgerDocument, LedgerTill, LedgerValue,
			LedgerDiscount, LedgerType, LedgerClient, LedgerOperator,
		},
	}
}

func CouponExport() Table {
	return Table{
		Name: "coupon",
		Columns: []string{
			CouponStore, CouponNumber, CouponDate, CouponPDV, CouponItem,
			CouponItemDescription, CouponQuantity, CouponUnitPrice,
			CouponTotalPrice, CouponPromotionFlag,
		},
	}
}

func PromotionsReport() Table {
	return Table{
		Name: "promotions_report",
		Columns: []string{
			ReportName, ReportStartDate, ReportEndDate, ReportItem,
			ReportItemName, ReportUnitPrice, ReportActivation, ReportTotalPrice,
		},
	}
}

func TreatedPromotions() Table {
	return Table{
		Name: "promotions",
		Columns: []string{
			PromotionName, PromotionStartDate, PromotionEndDate, PromotionSKU,
			PromotionItemName, PromotionSoldPrice, PromotionPromoPrice,
			PromotionActivation,
		},
	}
}

// TreatedSales is the ledger columns followed by the coupon columns, with the
// shared date kept once.
func TreatedSales() Table {
	cols := append([]string{}, Ledger().Columns...)
	for _, c := range CouponExport().Columns {
		if c == CouponDate {
			continue
		}
		cols = append(cols, c)
	}
	return Table{Name: "sales", Columns: cols}
}

// Correlated is the promotion columns joined to the sale columns, followed
// by the derived discount and profit.
func Correlated() Table {
	return Table{
		Name: "correlated",
		Columns: []string{
			PromotionName, PromotionSKU, PromotionItemName, PromotionSoldPrice,
			PromotionPromoPrice, PromotionActivation, CouponStore, CouponDate,
			LedgerDocument, LedgerTill, CouponItemDescription, CouponQuantity,
			CouponUnitPrice, CouponPromotionFlag, CorrelatedDiscount,
			CorrelatedGrossProfit,
		},
	}
}

// Missing returns the table columns absent from header, in table order.
func (t Table) Missing(header []string) []string {
	present := make(map[string]struct{}, len(header))
	for _, h := range header {
		present[h] = struct{}{}
	}
	var missing []string
	for _, c := range t.Columns {
		if _, ok := present[c]; !ok {
			missing = append(missing, c)
		}
	}
	return missing
}

// Set groups the three input layouts handed to the batch loaders.
type Set struct {
	Ledger    Table
	Coupon    Table
	Promotion Table
}

func DefaultSet() Set {
	return Set{
		Ledger:    Ledger(),
		Coupon:    CouponExport(),
		Promotion: PromotionsReport(),
	}
}
