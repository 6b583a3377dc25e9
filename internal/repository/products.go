package repository

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"pricetrack/internal/model"
)

type ProductRepository struct {
	DB *pgxpool.Pool
}

// AddProduct grava a listagem no grupo. Quando o grupo já tem outro
// produto do mesmo varejista a listagem é ignorada (added=false);
// quando a URL já é conhecida o registro existente é atualizado e
// movido para o grupo.
func (r *ProductRepository) AddProduct(groupID int64, l model.RawListing, category string) (int64, bool, error) {
	ctx := context.Background()

	var taken bool
	err := r.DB.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM products
			WHERE group_id = $1 AND retailer = $2 AND url <> $3
		)
	`, groupID, l.Retailer, l.URL).Scan(&taken)
	if err != nil {
		return 0, false, err
	}
	if taken {
		log.Printf("[Repository] Grupo %d já tem produto de %s; ignorando %s", groupID, l.Retailer, l.URL)
		return 0, false, nil
	}

	var id int64
	err = r.DB.QueryRow(ctx, `
		INSERT INTO products (group_id, name, model, brand, category, url, retailer, current_price)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6, $7, $8)
		ON CONFLICT (url) DO UPDATE
		SET group_id = EXCLUDED.group_id,
		    name = EXCLUDED.name,
		    model = EXCLUDED.model,
		    brand = EXCLUDED.brand,
		    category = EXCLUDED.category,
		    current_price = EXCLUDED.current_price,
		    last_checked = NOW()
		RETURNING id
	`, groupID, l.Name, l.Model, l.Brand, category, l.URL, l.Retailer, l.Price).Scan(&id)
	if err != nil {
		return 0, false, err
	}

	return id, true, nil
}

func (r *ProductRepository) ProductByID(id int64) (model.Product, error) {
	var p model.Product
	err := r.DB.QueryRow(context.Background(), `
		SELECT id, group_id, name, COALESCE(model, ''), COALESCE(brand, ''), COALESCE(category, ''), url, retailer, current_price, last_checked
		FROM products
		WHERE id = $1
	`, id).Scan(&p.ID, &p.GroupID, &p.Name, &p.Model, &p.Brand, &p.Category,
		&p.URL, &p.Retailer, &p.CurrentPrice, &p.LastChecked)
	return p, err
}

func (r *ProductRepository) ListProducts() ([]model.Product, error) {
	rows, err := r.DB.Query(context.Background(), `
		SELECT id, group_id, name, COALESCE(model, ''), COALESCE(brand, ''), COALESCE(category, ''), url, retailer, current_price, last_checked
		FROM products
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.GroupID, &p.Name, &p.Model, &p.Brand, &p.Category,
			&p.URL, &p.Retailer, &p.CurrentPrice, &p.LastChecked); err == nil {
			products = append(products, p)
		}
	}

	return products, nil
}

// UpdatePrice atualiza o preço corrente e o instante da última
// verificação.
func (r *ProductRepository) UpdatePrice(id int64, price float64) error {
	_, err := r.DB.Exec(context.Background(), `
		UPDATE products SET current_price = $1, last_checked = NOW() WHERE id = $2
	`, price, id)
	return err
}

// DeleteProduct remove o produto (o histórico cai em cascata) e apaga
// o grupo quando ele fica vazio.
func (r *ProductRepository) DeleteProduct(id int64) error {
	ctx := context.Background()

	var groupID int64
	if err := r.DB.QueryRow(ctx, `SELECT group_id FROM products WHERE id = $1`, id).Scan(&groupID); err != nil {
		return err
	}

	if _, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
		return err
	}

	var remaining int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE group_id = $1`, groupID).Scan(&remaining); err != nil {
		return err
	}
	if remaining == 0 {
		log.Printf("[Repository] Grupo %d ficou vazio; removendo", groupID)
		if _, err := r.DB.Exec(ctx, `DELETE FROM product_groups WHERE id = $1`, groupID); err != nil {
			return err
		}
	}

	return nil
}
