package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/semaphore"

	"github.com/andresuchdata/tabloide-insight/internal/domain"
	"github.com/andresuchdata/tabloide-insight/internal/treated"
)

var (
	salesTable = pgx.Identifier{"treated_sales"}
	salesCols  = []string{
		"month", "lj", "data", "docum", "cx", "valor", "desconto", "tipo", "cliente", "operador",
		"loja", "num_cupom", "pdv", "item", "desc_item", "quantidade", "pr_venda_un",
		"pr_venda_total", "promocao",
	}

	promotionsTable = pgx.Identifier{"treated_promotions"}
	promotionCols   = []string{
		"nome_promocao", "data_inicial", "data_final", "sku", "nome_item",
		"preco_vendido", "preco_promocao", "ativacao",
	}
)

const (
	selectSales = `
		SELECT month, lj, data, docum, cx, valor, desconto, tipo, cliente, operador,
			loja, num_cupom, pdv, item, desc_item, quantidade, pr_venda_un,
			pr_venda_total, promocao
		FROM treated_sales
		WHERE month = $1
		ORDER BY id
	`
	selectPromotions = `
		SELECT nome_promocao, data_inicial, data_final, sku, nome_item,
			preco_vendido, preco_promocao, ativacao
		FROM treated_promotions
		ORDER BY id
	`
	selectMonths = `SELECT DISTINCT month FROM treated_sales ORDER BY month`
)

// TreatedRepository stores the treated tables in Postgres. Every write
// replaces the previous content of the month or of the promotions table.
type TreatedRepository struct {
	pool Pool
	sem  *semaphore.Weighted
}

func NewTreatedRepository(db *DB) *TreatedRepository {
	return &TreatedRepository{pool: db.Pool, sem: db.sem}
}

// NewTreatedRepositoryWithPool works on any Pool, e.g. a pgxmock pool.
func NewTreatedRepositoryWithPool(pool Pool) *TreatedRepository {
	return &TreatedRepository{pool: pool, sem: semaphore.NewWeighted(maxConcurrentTx)}
}

func (r *TreatedRepository) WriteSales(ctx context.Context, month string, rows []domain.TreatedSale) error {
	return withTx(ctx, r.pool, r.sem, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM treated_sales WHERE month = $1`, month); err != nil {
			return fmt.Errorf("failed to clear month %s: %w", month, err)
		}

		values := make([][]any, len(rows))
		for i, row := range rows {
			values[i] = saleValues(month, row)
		}
		if _, err := tx.CopyFrom(ctx, salesTable, salesCols, pgx.CopyFromRows(values)); err != nil {
			return fmt.Errorf("failed to copy sales for %s: %w", month, err)
		}
		return nil
	})
}

func (r *TreatedRepository) WritePromotions(ctx context.Context, rows []domain.Promotion) error {
	return withTx(ctx, r.pool, r.sem, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM treated_promotions`); err != nil {
			return fmt.Errorf("failed to clear promotions: %w", err)
		}

		values := make([][]any, len(rows))
		for i, row := range rows {
			values[i] = promotionValues(row)
		}
		if _, err := tx.CopyFrom(ctx, promotionsTable, promotionCols, pgx.CopyFromRows(values)); err != nil {
			return fmt.Errorf("failed to copy promotions: %w", err)
		}
		return nil
	})
}

func (r *TreatedRepository) LoadPromotions(ctx context.Context) ([]domain.Promotion, error) {
	rows, err := r.pool.Query(ctx, selectPromotions)
	if err != nil {
		return nil, fmt.Errorf("failed to get promotions: %w", err)
	}
	promotions, err := pgx.CollectRows(rows, scanPromotion)
	if err != nil {
		return nil, fmt.Errorf("failed to get promotions: %w", err)
	}
	return promotions, nil
}

func (r *TreatedRepository) LoadMonth(ctx context.Context, month string) ([]domain.TreatedSale, error) {
	if _, err := treated.ParseMonth(month); err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, selectSales, month)
	if err != nil {
		return nil, fmt.Errorf("failed to get sales for %s: %w", month, err)
	}
	sales, err := pgx.CollectRows(rows, scanSale)
	if err != nil {
		return nil, fmt.Errorf("failed to get sales for %s: %w", month, err)
	}
	if len(sales) == 0 {
		return nil, fmt.Errorf("%s (treated_sales): %w", month, domain.ErrMonthNotFound)
	}
	return sales, nil
}

// Months lists the months stored, oldest first.
func (r *TreatedRepository) Months(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, selectMonths)
	if err != nil {
		return nil, fmt.Errorf("failed to list months: %w", err)
	}
	months, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to list months: %w", err)
	}
	return months, nil
}

// saleValues orders a sale as salesCols. Missing numbers become NULL.
func saleValues(month string, s domain.TreatedSale) []any {
	return []any{
		month, s.Store, s.Date, s.Document, s.Till, s.Value.Ptr(), s.Discount.Ptr(),
		s.Type, s.Client, s.Operator, s.CouponStore, s.CouponNumber, s.PDV, s.Item,
		s.ItemDescription, s.Quantity.Ptr(), s.UnitPrice.Ptr(), s.TotalPrice.Ptr(),
		s.PromotionFlag,
	}
}

func promotionValues(p domain.Promotion) []any {
	return []any{
		p.Name, p.StartDate, p.EndDate, p.SKU, p.ItemName,
		p.SoldPrice.Ptr(), p.PromoPrice.Ptr(), p.ActivationQty,
	}
}

func scanSale(row pgx.CollectableRow) (domain.TreatedSale, error) {
	var s domain.TreatedSale
	err := row.Scan(
		&s.Month, &s.Store, &s.Date, &s.Document, &s.Till, &s.Value, &s.Discount,
		&s.Type, &s.Client, &s.Operator, &s.CouponStore, &s.CouponNumber, &s.PDV, &s.Item,
		&s.ItemDescription, &s.Quantity, &s.UnitPrice, &s.TotalPrice, &s.PromotionFlag,
	)
	s.Date = s.Date.UTC()
	return s, err
}

func scanPromotion(row pgx.CollectableRow) (domain.Promotion, error) {
	var p domain.Promotion
	err := row.Scan(
		&p.Name, &p.StartDate, &p.EndDate, &p.SKU, &p.ItemName,
		&p.SoldPrice, &p.PromoPrice, &p.ActivationQty,
	)
	p.Key = domain.ParsePromotionName(p.Name)
	p.StartDate = p.StartDate.UTC()
	p.EndDate = p.EndDate.UTC()
	return p, err
}
