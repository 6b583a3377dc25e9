package scraper

import (
	"encoding/json"
	"testing"
)

func TestCleanQuery(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Apple MacBook Air 13-inch with M4 Chip, 256GB/16GB (Midnight)", "Apple MacBook Air M4 256GB"},
		{"Samsung Galaxy S24 Ultra 5G 256GB (Titanium Violet) [~Refurbished: Excellent]", "Samsung Galaxy S24 Ultra 256GB"},
		{"Widget Pro 15.6-inch Laptop", "Widget Pro Laptop"},
		{"Alpha One Two Three Four Five Six Seven", "Alpha One Two Three Four Five"},
	}

	for _, c := range cases {
		if got := CleanQuery(c.name); got != c.want {
			t.Errorf("CleanQuery(%q) = %q, esperava %q", c.name, got, c.want)
		}
	}
}

func TestDeepSearchPrices(t *testing.T) {
	blob := `{"props":{"pageProps":{"product":{"name":"Widget Pro","statistics":{"priceHistory":[
		{"date":"2026-01-05","price":110},
		{"date":"2026-01-02T00:00:00Z","price":90.5},
		{"timestamp":1767225600,"amount":100}
	]}}}}}`

	var data interface{}
	if err := json.Unmarshal([]byte(blob), &data); err != nil {
		t.Fatal(err)
	}

	points := deepSearchPrices(data, 0)
	if len(points) != 3 {
		t.Fatalf("esperava 3 pontos, obteve %d: %v", len(points), points)
	}

	byDate := make(map[string]float64)
	for _, p := range points {
		byDate[p.Date] = p.Price
	}
	if byDate["2026-01-05"] != 110 || byDate["2026-01-02"] != 90.5 || byDate["2026-01-01"] != 100 {
		t.Errorf("pontos normalizados errados: %v", byDate)
	}
}

func TestDeepSearchPricesRejectsShortSeries(t *testing.T) {
	blob := `{"prices":[{"date":"2026-01-05","price":110},{"date":"2026-01-06","price":111}]}`

	var data interface{}
	if err := json.Unmarshal([]byte(blob), &data); err != nil {
		t.Fatal(err)
	}

	if points := deepSearchPrices(data, 0); points != nil {
		t.Fatalf("série com menos de %d pontos devia ser rejeitada: %v", minHistoryPoints, points)
	}
}

func TestNormalizePointsPairs(t *testing.T) {
	raw := []interface{}{
		[]interface{}{float64(1767225600), float64(100)},
		[]interface{}{"2026-01-02", float64(90)},
		[]interface{}{float64(1767398400000), float64(95)},
	}

	points := normalizePoints(raw)
	if len(points) != 3 {
		t.Fatalf("esperava 3 pontos, obteve %d", len(points))
	}

	wantDates := []string{"2026-01-01", "2026-01-02", "2026-01-03"}
	for i, w := range wantDates {
		if points[i].Date != w {
			t.Errorf("ponto %d: data = %q, esperava %q", i, points[i].Date, w)
		}
	}
}

func TestNormalizeDate(t *testing.T) {
	cases := []struct {
		in   interface{}
		want string
	}{
		{float64(1767225600), "2026-01-01"},
		{float64(1767225600000), "2026-01-01"},
		{"2026-01-15T10:30:00", "2026-01-15"},
		{"15/01/2026", "2026-01-15"},
		{"1767225600", "2026-01-01"},
		{"not a date", ""},
	}

	for _, c := range cases {
		if got := normalizeDate(c.in); got != c.want {
			t.Errorf("normalizeDate(%v) = %q, esperava %q", c.in, got, c.want)
		}
	}
}

func TestDecodeScript(t *testing.T) {
	data, ok := decodeScript(`window.__NEXT_DATA__ = {"props":{"x":1}};`)
	if !ok {
		t.Fatal("atribuição de estado devia ser decodificada")
	}
	props := data.(map[string]interface{})["props"].(map[string]interface{})
	if props["x"] != float64(1) {
		t.Errorf("conteúdo decodificado errado: %v", data)
	}

	if _, ok := decodeScript(`{"a":[1,2,3]}`); !ok {
		t.Error("JSON puro devia ser decodificado")
	}

	if _, ok := decodeScript(`console.log("hi");`); ok {
		t.Error("script comum não devia ser decodificado")
	}
}
