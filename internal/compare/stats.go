package compare

import (
	"github.com/montanaflynn/stats"

	"pricetrack/internal/model"
)

// GroupSummary é o comparativo dos preços atuais de um grupo.
type GroupSummary struct {
	Cheapest      model.Product `json:"cheapest"`
	MostExpensive model.Product `json:"most_expensive"`
	PriceRange    float64       `json:"price_range"`
	Average       float64       `json:"average"`
}

// Group compara os preços atuais dos produtos de um grupo. Empates são
// resolvidos pela ordem de entrada (o primeiro visto vence). Grupo de um
// produto só resulta em faixa zero com cheapest == most_expensive.
// Retorna ok=false para grupo vazio.
func Group(products []model.Product) (GroupSummary, bool) {
	if len(products) == 0 {
		return GroupSummary{}, false
	}

	cheapest := products[0]
	mostExpensive := products[0]
	prices := make([]float64, len(products))
	for i, p := range products {
		prices[i] = p.CurrentPrice
		if p.CurrentPrice < cheapest.CurrentPrice {
			cheapest = p
		}
		if p.CurrentPrice > mostExpensive.CurrentPrice {
			mostExpensive = p
		}
	}

	avg, _ := stats.Mean(prices)

	return GroupSummary{
		Cheapest:      cheapest,
		MostExpensive: mostExpensive,
		PriceRange:    mostExpensive.CurrentPrice - cheapest.CurrentPrice,
		Average:       avg,
	}, true
}

// SeriesSummary resume as observações históricas de um único produto.
type SeriesSummary struct {
	Lowest  float64 `json:"lowest"`
	Highest float64 `json:"highest"`
	Average float64 `json:"average"`
}

func SeriesStats(points []model.PricePoint) (SeriesSummary, bool) {
	if len(points) == 0 {
		return SeriesSummary{}, false
	}

	prices := make([]float64, len(points))
	for i, p := range points {
		prices[i] = p.Price
	}

	low, _ := stats.Min(prices)
	high, _ := stats.Max(prices)
	avg, _ := stats.Mean(prices)

	return SeriesSummary{Lowest: low, Highest: high, Average: avg}, true
}
