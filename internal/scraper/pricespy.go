package scraper

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"pricetrack/internal/match"
)

const pricespyBase = "https://pricespy.co.nz"

// Limites do caminhante de JSON nas páginas do PriceSpy.
const (
	maxWalkDepth     = 8
	minHistoryPoints = 3
)

// HistoryPoint é uma observação diária de preço extraída do PriceSpy.
type HistoryPoint struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

var (
	bracketRe    = regexp.MustCompile(`\[.*?\]`)
	parenRe      = regexp.MustCompile(`\(.*?\)`)
	queryPunctRe = regexp.MustCompile(`[,~\[\](){}<>]`)
	inchRe       = regexp.MustCompile(`(?i)\d+\.?\d*-inch`)
	comboRe      = regexp.MustCompile(`(?i)(\d+GB)/\d+GB`)
	fiveGRe      = regexp.MustCompile(`(?i)\b5G\b`)
	spaceRe      = regexp.MustCompile(`\s+`)
)

var noiseWords = buildNoiseWords()

func buildNoiseWords() map[string]bool {
	vocab := match.DefaultVocabulary()
	words := make(map[string]bool)
	for _, w := range vocab.StopWords {
		words[w] = true
	}
	for _, w := range vocab.Colors {
		words[w] = true
	}
	return words
}

// CleanQuery reduz um nome de produto verboso à consulta curta que o
// PriceSpy aceita, por exemplo
// "Apple MacBook Air 13-inch with M4 Chip, 256GB/16GB (Midnight)"
// vira "Apple MacBook Air M4 256GB".
func CleanQuery(name string) string {
	q := bracketRe.ReplaceAllString(name, "")
	q = parenRe.ReplaceAllString(q, "")
	q = queryPunctRe.ReplaceAllString(q, " ")
	q = inchRe.ReplaceAllString(q, "")
	q = comboRe.ReplaceAllString(q, "$1")

	var kept []string
	for _, w := range strings.Fields(q) {
		if noiseWords[strings.ToLower(strings.Trim(w, "~,-./:"))] {
			continue
		}
		kept = append(kept, w)
	}
	q = strings.Join(kept, " ")

	q = fiveGRe.ReplaceAllString(q, "")
	q = strings.TrimSpace(spaceRe.ReplaceAllString(q, " "))

	words := strings.Fields(q)
	if len(words) > 6 {
		words = words[:6]
	}
	return strings.Join(words, " ")
}

// PricespyProductPage localiza a página de produto do PriceSpy para a
// consulta informada.
func PricespyProductPage(query string) (string, error) {
	searchURL := fmt.Sprintf("%s/search?search=%s", pricespyBase, strings.ReplaceAll(query, " ", "+"))
	doc, err := fetchDocument(searchURL)
	if err != nil {
		return "", err
	}

	href, ok := doc.Find(`a[href*="product.php"]`).First().Attr("href")
	if !ok {
		return "", fmt.Errorf("nenhum produto no PriceSpy para %q", query)
	}
	if !strings.HasPrefix(href, "http") {
		href = pricespyBase + href
	}

	return href, nil
}

// PricespyHistory baixa a página do produto e procura a série de
// preços nos blobs JSON embutidos nos scripts da página.
func PricespyHistory(productURL string) ([]HistoryPoint, error) {
	doc, err := fetchDocument(productURL)
	if err != nil {
		return nil, err
	}

	var history []HistoryPoint
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		data, ok := decodeScript(s.Text())
		if !ok {
			return true
		}
		if found := deepSearchPrices(data, 0); len(found) > 0 {
			history = found
			return false
		}
		return true
	})

	if len(history) == 0 {
		return nil, fmt.Errorf("nenhum histórico de preços em %s", productURL)
	}

	sort.Slice(history, func(i, j int) bool { return history[i].Date < history[j].Date })
	return history, nil
}

// Variáveis de estado que os sites embutem nos scripts da página.
var scriptStateVars = []string{
	"window.__NEXT_DATA__",
	"window.INITIAL_STATE",
	"window.__INITIAL_STATE__",
	"window.__data",
	"window.__PRELOADED_STATE__",
}

// decodeScript interpreta o conteúdo de um <script>: JSON puro (caso
// dos blocos __NEXT_DATA__ e ld+json) ou uma atribuição de estado no
// estilo window.X = {...}.
func decodeScript(text string) (interface{}, bool) {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		var data interface{}
		if err := json.Unmarshal([]byte(trimmed), &data); err == nil {
			return data, true
		}
	}

	for _, name := range scriptStateVars {
		idx := strings.Index(trimmed, name)
		if idx < 0 {
			continue
		}
		rest := trimmed[idx+len(name):]
		eq := strings.Index(rest, "=")
		if eq < 0 {
			continue
		}

		// O decoder para no fim do primeiro valor e ignora o ; final.
		var data interface{}
		if err := json.NewDecoder(strings.NewReader(rest[eq+1:])).Decode(&data); err == nil {
			return data, true
		}
	}

	return nil, false
}

// Chaves sob as quais os sites costumam guardar séries de preço.
var priceSeriesKeys = []string{
	"priceHistory", "price_history", "chartData", "chart_data",
	"series", "data", "points", "prices", "history",
	"priceData", "price_data", "datasets", "values",
	"graphData", "graph_data", "statistics", "stats",
	"lowestPrices", "lowest_prices", "pricePoints",
}

// deepSearchPrices percorre o JSON decodificado procurando um array
// com pelo menos minHistoryPoints pontos de preço válidos.
func deepSearchPrices(obj interface{}, depth int) []HistoryPoint {
	if depth > maxWalkDepth {
		return nil
	}

	switch v := obj.(type) {
	case map[string]interface{}:
		for _, key := range priceSeriesKeys {
			val, ok := v[key]
			if !ok {
				continue
			}
			switch inner := val.(type) {
			case []interface{}:
				if len(inner) >= minHistoryPoints {
					if points := normalizePoints(inner); len(points) >= minHistoryPoints {
						return points
					}
				}
			case map[string]interface{}:
				if points := deepSearchPrices(inner, depth+1); len(points) > 0 {
					return points
				}
			}
		}

		// Sem chave conhecida: desce em todos os valores, em ordem
		// estável para o resultado ser determinístico.
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			switch v[k].(type) {
			case map[string]interface{}, []interface{}:
				if points := deepSearchPrices(v[k], depth+1); len(points) > 0 {
					return points
				}
			}
		}

	case []interface{}:
		if len(v) >= minHistoryPoints {
			if points := normalizePoints(v); len(points) >= minHistoryPoints {
				return points
			}
		}
		for _, item := range v {
			switch item.(type) {
			case map[string]interface{}, []interface{}:
				if points := deepSearchPrices(item, depth+1); len(points) > 0 {
					return points
				}
			}
		}
	}

	return nil
}

var (
	pointDateKeys  = []string{"date", "x", "timestamp", "time", "t", "created", "day"}
	pointPriceKeys = []string{"price", "y", "value", "v", "min", "lowest", "amount"}
)

// normalizePoints converte pontos em formatos variados (objetos com
// chaves diversas ou pares [ts, preço]) para o formato padrão.
func normalizePoints(raw []interface{}) []HistoryPoint {
	var points []HistoryPoint

	for _, item := range raw {
		var date string
		var price float64

		switch p := item.(type) {
		case map[string]interface{}:
			for _, key := range pointDateKeys {
				if v, ok := p[key]; ok {
					if date = normalizeDate(v); date != "" {
						break
					}
				}
			}
			for _, key := range pointPriceKeys {
				v, ok := p[key]
				if !ok || v == nil {
					continue
				}
				if f, ok := toFloat(v); ok && f > 0 {
					price = f
					break
				}
			}

		case []interface{}:
			if len(p) >= 2 {
				date = normalizeDate(p[0])
				if f, ok := toFloat(p[1]); ok {
					price = f
				}
			}
		}

		if date != "" && price > 0 {
			points = append(points, HistoryPoint{Date: date, Price: price})
		}
	}

	return points
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}

var dateLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05.999999Z07:00",
}

// normalizeDate aceita unix em segundos ou milissegundos, ISO e
// dd/mm/aaaa, e devolve sempre AAAA-MM-DD. Vazio quando irreconhecível.
func normalizeDate(v interface{}) string {
	switch d := v.(type) {
	case float64:
		ts := d
		if ts > 1e12 {
			ts = ts / 1000
		}
		return time.Unix(int64(ts), 0).UTC().Format("2006-01-02")

	case string:
		trimmed := strings.TrimSpace(d)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, trimmed); err == nil {
				return t.Format("2006-01-02")
			}
		}
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return normalizeDate(f)
		}
	}

	return ""
}
