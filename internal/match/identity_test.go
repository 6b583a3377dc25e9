package match

import (
	"testing"

	"pricetrack/internal/model"
)

func newTestResolver() *Resolver {
	return NewResolver(DefaultVocabulary())
}

func TestResolveModelCodeWins(t *testing.T) {
	r := newTestResolver()

	listings := []model.RawListing{
		{Retailer: "PBTech", Name: "Widget Pro 256GB", Model: "WGT-256P", Price: 100},
		{Retailer: "JB Hi-Fi", Name: "WIDGET PRO (2026) 256 GB", Model: " wgt-256p ", Price: 110},
		{Retailer: "Acquire", Name: "Totally Different Wording", Model: "WGT-256P", Price: 120},
	}

	variants := r.Resolve(listings)
	if len(variants) != 1 {
		t.Fatalf("esperava 1 variante para o mesmo modelo, obteve %d", len(variants))
	}
	if variants[0].Key != "wgt-256p" {
		t.Errorf("chave = %q, esperava %q", variants[0].Key, "wgt-256p")
	}
	if variants[0].Retailer != "PBTech" {
		t.Errorf("representante deve ser o primeiro visto, obteve %q", variants[0].Retailer)
	}
}

func TestIdentityKeyFromName(t *testing.T) {
	r := newTestResolver()

	cases := []struct {
		name string
		want string
	}{
		{"Widget Pro 256GB", "widget|pro|256gb"},
		{"Widget Pro 256GB (Black)", "widget|pro|256gb"},
		{"Widget 256GB", "widget|256gb"},
		{"Widget Max Pro 128GB", "widget|max-pro|128gb"},
		{"Widget Pro Max 128GB", "widget|max-pro|128gb"},
		{"Galaxy S24 Ultra 512 GB (Titanium Violet)", "galaxy-s24|ultra|512gb"},
		{"Alpha Beta Gamma Delta Epsilon 1TB", "alpha-beta-gamma-delta|1tb"},
		{"Widget", "widget"},
		{"Refurbished Widget for the Office", "widget-office"},
		{"Alpha|Beta 256GB", "alpha-beta|256gb"},
		{"Widget | Pro 256GB", "widget|pro|256gb"},
		{"Widget 256GB Sim-Free", "widget|256gb"},
	}

	for _, c := range cases {
		got := r.identityKey(model.RawListing{Name: c.name})
		if got != c.want {
			t.Errorf("identityKey(%q) = %q, esperava %q", c.name, got, c.want)
		}
	}
}

func TestResolveCollapsesColorVariants(t *testing.T) {
	r := newTestResolver()

	listings := []model.RawListing{
		{Retailer: "A", Name: "Widget Pro 256GB (Black)", Price: 100},
		{Retailer: "B", Name: "Widget Pro 256GB (Starlight)", Price: 105},
		{Retailer: "C", Name: "Widget Pro 512GB (Black)", Price: 150},
	}

	variants := r.Resolve(listings)
	if len(variants) != 2 {
		t.Fatalf("esperava 2 variantes (256 vs 512), obteve %d", len(variants))
	}
	if variants[0].Retailer != "A" || variants[1].Retailer != "C" {
		t.Errorf("ordem/representantes errados: %q, %q", variants[0].Retailer, variants[1].Retailer)
	}
}

func TestResolveDropsNamelessListings(t *testing.T) {
	r := newTestResolver()

	listings := []model.RawListing{
		{Retailer: "A", Name: "   ", URL: "https://a.example/x"},
		{Retailer: "B", Name: "Widget 256GB"},
	}

	variants := r.Resolve(listings)
	if len(variants) != 1 {
		t.Fatalf("esperava 1 variante, obteve %d", len(variants))
	}
	if variants[0].Retailer != "B" {
		t.Errorf("sobrou o listing errado: %q", variants[0].Retailer)
	}
}

func TestResolveEmptyKeysCollide(t *testing.T) {
	r := newTestResolver()

	// Nomes que tokenizam para nada ainda produzem chave (vazia) e não são
	// perdidos; colidem entre si por aproximação conhecida.
	listings := []model.RawListing{
		{Retailer: "A", Name: "( )", Price: 1},
		{Retailer: "B", Name: "~,~", Price: 2},
		{Retailer: "C", Name: "Widget", Price: 3},
	}

	variants := r.Resolve(listings)
	if len(variants) != 2 {
		t.Fatalf("esperava 2 variantes (vazia colidida + widget), obteve %d", len(variants))
	}
	if variants[0].Key != "" || variants[0].Retailer != "A" {
		t.Errorf("primeira variante devia ser a chave vazia de A, obteve key=%q retailer=%q", variants[0].Key, variants[0].Retailer)
	}
}

func TestResolveWidgetScenario(t *testing.T) {
	r := newTestResolver()

	listings := []model.RawListing{
		{Retailer: "A", Name: "Widget Pro 256GB"},
		{Retailer: "B", Name: "Widget Pro 256GB (Black)"},
		{Retailer: "C", Name: "Widget 256GB"},
	}

	variants := r.Resolve(listings)
	if len(variants) != 2 {
		t.Fatalf("esperava 2 variantes (Pro vs não-Pro), obteve %d", len(variants))
	}
	if variants[0].Retailer != "A" {
		t.Errorf("variante Pro devia preservar o listing de A, obteve %q", variants[0].Retailer)
	}
	if variants[1].Retailer != "C" {
		t.Errorf("variante não-Pro devia ser o listing de C, obteve %q", variants[1].Retailer)
	}
}

func TestResolveCollapsesPipeSpelling(t *testing.T) {
	r := newTestResolver()

	// "|" num nome é pontuação e nunca sobrevive dentro de uma parte da chave
	listings := []model.RawListing{
		{Retailer: "A", Name: "Alpha|Beta 256GB", Price: 100},
		{Retailer: "B", Name: "Alpha Beta 256GB", Price: 105},
	}

	variants := r.Resolve(listings)
	if len(variants) != 1 {
		t.Fatalf("esperava 1 variante para grafias com e sem pipe, obteve %d", len(variants))
	}
	if variants[0].Key != "alpha-beta|256gb" {
		t.Errorf("chave = %q, esperava %q", variants[0].Key, "alpha-beta|256gb")
	}
	if variants[0].Retailer != "A" {
		t.Errorf("representante deve ser o primeiro visto, obteve %q", variants[0].Retailer)
	}
}
