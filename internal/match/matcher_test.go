package match

import (
	"fmt"
	"math"
	"testing"

	"pricetrack/internal/model"
)

func newTestMatcher(t *testing.T) *Matcher {
	t.Helper()
	m, err := NewMatcher(DefaultVocabulary(), DefaultConfig())
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}
	return m
}

func urls(listings []model.RawListing) map[string]bool {
	set := make(map[string]bool, len(listings))
	for _, l := range listings {
		set[l.URL] = true
	}
	return set
}

func TestNewMatcherRejectsBadConfig(t *testing.T) {
	bad := []Config{
		{SimilarityThreshold: 0, SignificantTokenLen: 3},
		{SimilarityThreshold: -0.2, SignificantTokenLen: 3},
		{SimilarityThreshold: 1.5, SignificantTokenLen: 3},
		{SimilarityThreshold: 0.4, SignificantTokenLen: 0},
	}
	for _, cfg := range bad {
		if _, err := NewMatcher(DefaultVocabulary(), cfg); err == nil {
			t.Errorf("NewMatcher(%+v) devia falhar", cfg)
		}
	}
}

func TestMatchByModelIsAuthoritative(t *testing.T) {
	m := newTestMatcher(t)

	chosen := model.RawListing{Retailer: "A", Name: "Widget Pro 256GB", Model: "WGT-256P", URL: "a"}
	all := []model.RawListing{
		chosen,
		{Retailer: "B", Name: "Totally Unrelated Name", Model: "wgt-256p ", URL: "b"},
		{Retailer: "C", Name: "Widget Pro 256GB", Model: "OTHER-1", URL: "c"},
	}

	got := m.Match(chosen, all)
	if len(got) != 2 {
		t.Fatalf("esperava 2 matches por modelo, obteve %d", len(got))
	}
	set := urls(got)
	if !set["a"] || !set["b"] {
		t.Errorf("matches errados: %v", set)
	}
	// C tem o mesmo nome, mas modelo divergente: a estratégia exata achou
	// resultados, então o fallback fuzzy nem roda.
	if set["c"] {
		t.Errorf("listing com modelo divergente não podia entrar")
	}
}

func TestMatchTierMismatchRejected(t *testing.T) {
	m := newTestMatcher(t)

	chosen := model.RawListing{Retailer: "A", Name: "Widget 256GB", URL: "a"}
	all := []model.RawListing{
		chosen,
		{Retailer: "B", Name: "Widget Pro 256GB", URL: "b"},
	}

	got := m.Match(chosen, all)
	if len(got) != 1 || got[0].URL != "a" {
		t.Fatalf("tier divergente devia deixar só o próprio chosen, obteve %v", urls(got))
	}
}

func TestMatchRequiresSignificantTokens(t *testing.T) {
	m := newTestMatcher(t)

	chosen := model.RawListing{Retailer: "A", Name: "Galaxy S24 256GB", URL: "a"}
	all := []model.RawListing{
		chosen,
		// Jaccard seria 2/3, mas falta o token significativo "s24"
		{Retailer: "B", Name: "Galaxy Phone 256GB", URL: "b"},
	}

	got := m.Match(chosen, all)
	if len(got) != 1 || got[0].URL != "a" {
		t.Fatalf("candidato sem token significativo devia ser rejeitado, obteve %v", urls(got))
	}
}

func TestMatchToleratesColorWording(t *testing.T) {
	m := newTestMatcher(t)

	chosen := model.RawListing{Retailer: "A", Name: "Widget Pro 256GB", URL: "a"}
	all := []model.RawListing{
		chosen,
		{Retailer: "B", Name: "Widget Pro 256GB (Black)", URL: "b"},
	}

	got := m.Match(chosen, all)
	if len(got) != 2 {
		t.Fatalf("cor extra no candidato não podia impedir o match, obteve %v", urls(got))
	}
}

func TestMatchToleratesSimFreeWording(t *testing.T) {
	m := newTestMatcher(t)

	// "sim-free" vira "sim" e "free" na tokenização e ambos são ruído
	chosen := model.RawListing{Retailer: "A", Name: "Widget Gadget 256GB Sim-Free", URL: "a"}
	all := []model.RawListing{
		chosen,
		{Retailer: "B", Name: "Widget Gadget 256GB", URL: "b"},
	}

	got := m.Match(chosen, all)
	if len(got) != 2 {
		t.Fatalf("sim-free no nome não podia impedir o match, obteve %v", urls(got))
	}
}

func TestMatchSupersetContainsChosen(t *testing.T) {
	m := newTestMatcher(t)

	chosen := model.RawListing{Retailer: "A", Name: "Widget Pro 256GB", URL: "a"}
	all := []model.RawListing{
		{Retailer: "C", Name: "Completely Different Thing 9000", URL: "c"},
		chosen,
	}

	got := m.Match(chosen, all)
	if !urls(got)["a"] {
		t.Fatalf("resultado deve sempre conter o próprio chosen: %v", urls(got))
	}
}

func TestMatchZeroResultsIsNormal(t *testing.T) {
	m := newTestMatcher(t)

	// chosen com modelo que ninguém tem e nome sem nada parecido no conjunto
	chosen := model.RawListing{Retailer: "X", Name: "Obscure Gadget 9999", Model: "OBS-9999", URL: "x"}
	all := []model.RawListing{
		{Retailer: "B", Name: "Widget Pro 256GB", URL: "b"},
	}

	got := m.Match(chosen, all)
	if len(got) != 0 {
		t.Fatalf("esperava zero matches, obteve %v", urls(got))
	}
}

func TestJaccardBoundary(t *testing.T) {
	a := map[string]bool{"zz": true, "yy": true}
	b := map[string]bool{"zz": true, "yy": true, "aa": true, "bb": true, "cc": true}

	if sim := jaccard(a, b); math.Abs(sim-0.4) > 1e-12 {
		t.Fatalf("jaccard = %v, esperava exatamente 0.4", sim)
	}

	// 399 tokens compartilhados sobre um conjunto maior de 1000: 0.399
	big := make(map[string]bool, 1000)
	small := make(map[string]bool, 399)
	for i := 0; i < 1000; i++ {
		tok := fmt.Sprintf("t%d", i)
		big[tok] = true
		if i < 399 {
			small[tok] = true
		}
	}
	if sim := jaccard(small, big); math.Abs(sim-0.399) > 1e-12 {
		t.Fatalf("jaccard = %v, esperava exatamente 0.399", sim)
	}
}

func TestMatchJaccardThreshold(t *testing.T) {
	m := newTestMatcher(t)

	// Tokens curtos e sem dígito não são "significativos", então o corte
	// aqui é decidido exclusivamente pelo limiar de Jaccard.
	chosen := model.RawListing{Retailer: "A", Name: "zz yy", URL: "a"}
	accepted := model.RawListing{Retailer: "B", Name: "zz yy aa bb cc", URL: "b"}  // 2/5 = 0.4
	rejected := model.RawListing{Retailer: "C", Name: "zz yy aa bb cc dd", URL: "c"} // 2/6 < 0.4

	got := m.Match(chosen, []model.RawListing{chosen, accepted, rejected})
	set := urls(got)
	if !set["a"] || !set["b"] {
		t.Fatalf("similaridade 0.4 exata devia ser aceita: %v", set)
	}
	if set["c"] {
		t.Fatalf("similaridade abaixo de 0.4 devia ser rejeitada: %v", set)
	}
}

func TestMatchWidgetScenario(t *testing.T) {
	r := newTestResolver()
	m := newTestMatcher(t)

	all := []model.RawListing{
		{Retailer: "A", Name: "Widget Pro 256GB", URL: "a"},
		{Retailer: "B", Name: "Widget Pro 256GB (Black)", URL: "b"},
		{Retailer: "C", Name: "Widget 256GB", URL: "c"},
	}

	variants := r.Resolve(all)
	if len(variants) != 2 {
		t.Fatalf("esperava 2 variantes, obteve %d", len(variants))
	}

	pro := variants[0]
	if pro.Retailer != "A" {
		t.Fatalf("primeira variante devia ser a Pro de A, obteve %q", pro.Retailer)
	}

	got := m.Match(pro.RawListing, all)
	set := urls(got)
	if len(got) != 2 || !set["a"] || !set["b"] {
		t.Fatalf("variante Pro devia casar exatamente com A e B, obteve %v", set)
	}
}
