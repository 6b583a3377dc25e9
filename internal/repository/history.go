package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"pricetrack/internal/model"
)

type HistoryRepository struct {
	DB *pgxpool.Pool
}

func (r *HistoryRepository) AddPoint(productID int64, price float64) error {
	_, err := r.DB.Exec(context.Background(), `
		INSERT INTO price_history (product_id, price) VALUES ($1, $2)
	`, productID, price)
	return err
}

// History devolve os pontos dos últimos N dias em ordem cronológica.
func (r *HistoryRepository) History(productID int64, days int) ([]model.PricePoint, error) {
	rows, err := r.DB.Query(context.Background(), `
		SELECT price, timestamp
		FROM price_history
		WHERE product_id = $1 AND timestamp >= NOW() - make_interval(days => $2)
		ORDER BY timestamp
	`, productID, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []model.PricePoint
	for rows.Next() {
		var p model.PricePoint
		if err := rows.Scan(&p.Price, &p.Timestamp); err == nil {
			points = append(points, p)
		}
	}

	return points, nil
}

// Backfill insere pontos externos anteriores ao histórico já
// observado. Pontos no dia da primeira observação ou depois dela são
// descartados para não contaminar a série coletada pelo próprio
// sistema; duplicatas exatas de (timestamp, preço) também.
func (r *HistoryRepository) Backfill(productID int64, points []model.PricePoint) (int, error) {
	ctx := context.Background()

	var earliest *time.Time
	err := r.DB.QueryRow(ctx, `
		SELECT MIN(timestamp) FROM price_history WHERE product_id = $1
	`, productID).Scan(&earliest)
	if err != nil {
		return 0, err
	}

	inserted := 0
	for _, p := range points {
		if earliest != nil && !p.Timestamp.Before(*earliest) {
			continue
		}

		var exists bool
		err := r.DB.QueryRow(ctx, `
			SELECT EXISTS(
				SELECT 1 FROM price_history
				WHERE product_id = $1 AND timestamp = $2 AND price = $3
			)
		`, productID, p.Timestamp, p.Price).Scan(&exists)
		if err != nil {
			return inserted, err
		}
		if exists {
			continue
		}

		_, err = r.DB.Exec(ctx, `
			INSERT INTO price_history (product_id, price, timestamp) VALUES ($1, $2, $3)
		`, productID, p.Price, p.Timestamp)
		if err != nil {
			return inserted, err
		}
		inserted++
	}

	return inserted, nil
}
