package repository

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pricetrack/internal/model"
)

type GroupRepository struct {
	DB *pgxpool.Pool
}

// GroupOverview é a linha agregada da listagem de grupos.
type GroupOverview struct {
	model.ProductGroup
	RetailerCount int      `json:"retailer_count"`
	Retailers     []string `json:"retailers"`
	MinPrice      float64  `json:"min_price"`
	MaxPrice      float64  `json:"max_price"`
	AvgPrice      float64  `json:"avg_price"`
}

// GetOrCreateGroup reaproveita o grupo com o mesmo código de modelo
// quando ele existe; sem modelo, cada commit cria um grupo novo.
// created indica se o grupo foi criado nesta chamada.
func (r *GroupRepository) GetOrCreateGroup(name, modelCode, brand, category string) (int64, bool, error) {
	ctx := context.Background()

	if modelCode != "" {
		var id int64
		err := r.DB.QueryRow(ctx, `SELECT id FROM product_groups WHERE model = $1`, modelCode).Scan(&id)
		if err == nil {
			return id, false, nil
		}
		if err != pgx.ErrNoRows {
			return 0, false, err
		}
	}

	var id int64
	err := r.DB.QueryRow(ctx, `
		INSERT INTO product_groups (name, model, brand, category)
		VALUES ($1, NULLIF($2, ''), $3, $4)
		RETURNING id
	`, name, modelCode, brand, category).Scan(&id)
	if err != nil {
		return 0, false, err
	}

	return id, true, nil
}

func (r *GroupRepository) GroupByID(id int64) (model.ProductGroup, error) {
	var g model.ProductGroup
	err := r.DB.QueryRow(context.Background(), `
		SELECT id, name, COALESCE(model, ''), COALESCE(brand, ''), COALESCE(category, ''), created_at
		FROM product_groups
		WHERE id = $1
	`, id).Scan(&g.ID, &g.Name, &g.Model, &g.Brand, &g.Category, &g.CreatedAt)
	return g, err
}

// ListGroups devolve todos os grupos com os agregados de preço dos
// produtos que cada um contém.
func (r *GroupRepository) ListGroups() ([]GroupOverview, error) {
	rows, err := r.DB.Query(context.Background(), `
		SELECT g.id, g.name, COALESCE(g.model, ''), COALESCE(g.brand, ''), COALESCE(g.category, ''), g.created_at,
		       COUNT(p.id),
		       COALESCE(ARRAY_AGG(p.retailer ORDER BY p.id) FILTER (WHERE p.id IS NOT NULL), '{}'),
		       COALESCE(MIN(p.current_price), 0),
		       COALESCE(MAX(p.current_price), 0),
		       COALESCE(AVG(p.current_price), 0)
		FROM product_groups g
		LEFT JOIN products p ON p.group_id = g.id
		GROUP BY g.id
		ORDER BY g.name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []GroupOverview
	for rows.Next() {
		var g GroupOverview
		if err := rows.Scan(&g.ID, &g.Name, &g.Model, &g.Brand, &g.Category, &g.CreatedAt,
			&g.RetailerCount, &g.Retailers, &g.MinPrice, &g.MaxPrice, &g.AvgPrice); err == nil {
			groups = append(groups, g)
		}
	}

	return groups, nil
}

// GroupProducts devolve os produtos do grupo na ordem em que foram
// gravados.
func (r *GroupRepository) GroupProducts(groupID int64) ([]model.Product, error) {
	rows, err := r.DB.Query(context.Background(), `
		SELECT id, group_id, name, COALESCE(model, ''), COALESCE(brand, ''), COALESCE(category, ''), url, retailer, current_price, last_checked
		FROM products
		WHERE group_id = $1
		ORDER BY id
	`, groupID)
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

// DeleteGroup remove o grupo; produtos e histórico caem em cascata.
func (r *GroupRepository) DeleteGroup(id int64) error {
	_, err := r.DB.Exec(context.Background(), `DELETE FROM product_groups WHERE id = $1`, id)
	return err
}

// CleanupOrphanGroups apaga grupos que ficaram sem nenhum produto.
func (r *GroupRepository) CleanupOrphanGroups() (int64, error) {
	tag, err := r.DB.Exec(context.Background(), `
		DELETE FROM product_groups
		WHERE id IN (
			SELECT g.id
			FROM product_groups g
			LEFT JOIN products p ON p.group_id = g.id
			WHERE p.id IS NULL
		)
	`)
	if err != nil {
		return 0, err
	}

	if n := tag.RowsAffected(); n > 0 {
		log.Printf("[Repository] Removidos %d grupo(s) órfão(s)", n)
	}
	return tag.RowsAffected(), nil
}
