package postgres

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS treated_sales (
		id BIGSERIAL PRIMARY KEY,
		month CHAR(7) NOT NULL,
		lj TEXT NOT NULL,
		data DATE NOT NULL,
		docum TEXT NOT NULL,
		cx TEXT NOT NULL,
		valor DOUBLE PRECISION,
		desconto DOUBLE PRECISION,
		tipo TEXT NOT NULL DEFAULT '',
		cliente TEXT NOT NULL DEFAULT '',
		operador TEXT NOT NULL DEFAULT '',
		loja TEXT NOT NULL,
		num_cupom TEXT NOT NULL,
		pdv TEXT NOT NULL,
		item TEXT NOT NULL,
		desc_item TEXT NOT NULL DEFAULT '',
		quantidade DOUBLE PRECISION,
		pr_venda_un DOUBLE PRECISION,
		pr_venda_total DOUBLE PRECISION,
		promocao TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_treated_sales_month ON treated_sales (month)`,
	`CREATE INDEX IF NOT EXISTS idx_treated_sales_item ON treated_sales (item)`,
	`CREATE TABLE IF NOT EXISTS treated_promotions (
		id BIGSERIAL PRIMARY KEY,
		nome_promocao TEXT NOT NULL,
		data_inicial DATE NOT NULL,
		data_final DATE NOT NULL,
		sku TEXT NOT NULL,
		nome_item TEXT NOT NULL DEFAULT '',
		preco_vendido DOUBLE PRECISION,
		preco_promocao DOUBLE PRECISION,
		ativacao INTEGER NOT NULL DEFAULT 0
	)`,
}

// EnsureSchema creates the treated tables when they do not exist yet.
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}
