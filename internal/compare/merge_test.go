package compare

import (
	"reflect"
	"testing"
	"time"

	"pricetrack/internal/model"
)

func day(d int, hour int) time.Time {
	return time.Date(2026, time.January, d, hour, 30, 0, 0, time.UTC)
}

func point(d, hour int, price float64) model.PricePoint {
	return model.PricePoint{Price: price, Timestamp: day(d, hour)}
}

func TestMergeForwardFillScenario(t *testing.T) {
	series := map[string][]model.PricePoint{
		"A": {point(1, 9, 100), point(5, 9, 110)},
		"B": {point(2, 14, 90)},
	}

	rows := MergeHistory(series)
	if len(rows) != 3 {
		t.Fatalf("esperava 3 linhas (d1, d2, d5), obteve %d", len(rows))
	}

	want := []DateRow{
		{Date: "2026-01-01", Prices: map[string]float64{"A": 100}},
		{Date: "2026-01-02", Prices: map[string]float64{"A": 100, "B": 90}},
		{Date: "2026-01-05", Prices: map[string]float64{"A": 110, "B": 90}},
	}
	for i, w := range want {
		if rows[i].Date != w.Date {
			t.Errorf("linha %d: data = %q, esperava %q", i, rows[i].Date, w.Date)
		}
		if !reflect.DeepEqual(rows[i].Prices, w.Prices) {
			t.Errorf("linha %d (%s): preços = %v, esperava %v", i, w.Date, rows[i].Prices, w.Prices)
		}
	}
}

func TestMergeDenseSeriesIsIdentity(t *testing.T) {
	series := map[string][]model.PricePoint{
		"A": {point(1, 9, 100), point(2, 9, 101), point(3, 9, 102)},
		"B": {point(1, 10, 200), point(2, 10, 201), point(3, 10, 202)},
	}

	rows := MergeHistory(series)
	if len(rows) != 3 {
		t.Fatalf("esperava 3 linhas, obteve %d", len(rows))
	}
	for i, row := range rows {
		wantA := 100 + float64(i)
		wantB := 200 + float64(i)
		if row.Prices["A"] != wantA || row.Prices["B"] != wantB {
			t.Errorf("linha %d: %v, esperava A=%v B=%v", i, row.Prices, wantA, wantB)
		}
	}
}

func TestMergeNeverFillsFromFuture(t *testing.T) {
	series := map[string][]model.PricePoint{
		"A": {point(1, 9, 100)},
		"B": {point(3, 9, 90)},
	}

	rows := MergeHistory(series)
	if len(rows) != 2 {
		t.Fatalf("esperava 2 linhas, obteve %d", len(rows))
	}
	if _, ok := rows[0].Prices["B"]; ok {
		t.Errorf("B não tinha observação anterior a d1; célula devia ficar ausente: %v", rows[0].Prices)
	}
}

func TestMergeKeepsLatestObservationOfDay(t *testing.T) {
	series := map[string][]model.PricePoint{
		"A": {point(1, 9, 100), point(1, 17, 95)},
	}

	rows := MergeHistory(series)
	if len(rows) != 1 {
		t.Fatalf("esperava 1 linha, obteve %d", len(rows))
	}
	if rows[0].Prices["A"] != 95 {
		t.Errorf("a observação mais tardia do dia devia vencer, obteve %v", rows[0].Prices["A"])
	}
}

func TestMergeEmptyInput(t *testing.T) {
	if rows := MergeHistory(nil); len(rows) != 0 {
		t.Fatalf("entrada vazia devia produzir zero linhas, obteve %d", len(rows))
	}
}

func TestMergeDatesAscending(t *testing.T) {
	series := map[string][]model.PricePoint{
		"A": {point(7, 9, 1), point(9, 9, 2)},
		"B": {point(2, 9, 3)},
		"C": {point(5, 9, 4)},
	}

	rows := MergeHistory(series)
	for i := 1; i < len(rows); i++ {
		if rows[i-1].Date >= rows[i].Date {
			t.Fatalf("datas fora de ordem: %q antes de %q", rows[i-1].Date, rows[i].Date)
		}
	}
}
