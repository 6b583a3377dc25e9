package semantic

import (
	"math"
	"testing"
)

func TestCosine(t *testing.T) {
	cases := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identicos", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"ortogonais", []float32{1, 0}, []float32{0, 1}, 0},
		{"opostos", []float32{1, 0}, []float32{-1, 0}, -1},
		{"tamanhos diferentes", []float32{1, 2}, []float32{1}, 0},
		{"vetor nulo", []float32{0, 0}, []float32{1, 2}, 0},
	}

	for _, c := range cases {
		got := cosine(c.a, c.b)
		if math.Abs(got-c.want) > 1e-9 {
			t.Errorf("%s: cosine = %v, esperava %v", c.name, got, c.want)
		}
	}
}

func TestNewWithoutKey(t *testing.T) {
	if s := New(""); s != nil {
		t.Error("sem chave de API o suggester deveria ser nil")
	}
	if s := New("sk-test"); s == nil {
		t.Error("com chave de API o suggester não deveria ser nil")
	}
}
