package repository

import "database/sql"

// InitSchema cria as tabelas e índices quando ainda não existem.
// Roda a cada inicialização do servidor.
func InitSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS product_groups (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			model TEXT,
			brand TEXT,
			category TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_groups_model
			ON product_groups(model) WHERE model IS NOT NULL`,
		`CREATE TABLE IF NOT EXISTS products (
			id BIGSERIAL PRIMARY KEY,
			group_id BIGINT NOT NULL REFERENCES product_groups(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			model TEXT,
			brand TEXT,
			category TEXT,
			url TEXT NOT NULL UNIQUE,
			retailer TEXT NOT NULL,
			current_price DOUBLE PRECISION NOT NULL,
			last_checked TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_products_group ON products(group_id)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_products_group_retailer
			ON products(group_id, retailer)`,
		`CREATE TABLE IF NOT EXISTS price_history (
			id BIGSERIAL PRIMARY KEY,
			product_id BIGINT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
			price DOUBLE PRECISION NOT NULL,
			timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_history_product
			ON price_history(product_id, timestamp)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
