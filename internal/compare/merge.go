package compare

import (
	"sort"

	"pricetrack/internal/model"
)

// DateRow é uma linha da série consolidada: um dia civil e o preço conhecido
// de cada varejista naquele dia. Varejista ausente do mapa = sem histórico.
type DateRow struct {
	Date   string             `json:"date"`
	Prices map[string]float64 `json:"prices"`
}

const dateLayout = "2006-01-02"

// MergeHistory alinha séries independentes por dia civil (timestamp truncado
// para a data, em UTC) e preenche lacunas para frente: célula vazia recebe o
// preço mais recente do varejista em data ESTRITAMENTE anterior. Nunca usa
// observação futura e nunca inventa preço antes da primeira observação do
// varejista, então histórico genuinamente ausente continua indefinido em vez
// de virar zero.
func MergeHistory(series map[string][]model.PricePoint) []DateRow {
	// última observação de cada (dia, varejista); os pontos chegam em ordem
	// crescente de timestamp, então a sobrescrita deixa a mais tardia do dia
	byDate := make(map[string]map[string]float64)
	for retailer, points := range series {
		for _, p := range points {
			day := p.Timestamp.UTC().Format(dateLayout)
			if byDate[day] == nil {
				byDate[day] = make(map[string]float64)
			}
			byDate[day][retailer] = p.Price
		}
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	carry := make(map[string]float64)
	rows := make([]DateRow, 0, len(dates))
	for _, d := range dates {
		row := DateRow{Date: d, Prices: make(map[string]float64, len(series))}
		for retailer := range series {
			if price, ok := byDate[d][retailer]; ok {
				row.Prices[retailer] = price
				carry[retailer] = price
				continue
			}
			if price, ok := carry[retailer]; ok {
				row.Prices[retailer] = price
			}
		}
		rows = append(rows, row)
	}

	return rows
}
