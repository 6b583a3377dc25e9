package api

import (
	"testing"

	"pricetrack/internal/model"
)

func TestCollapsePerRetailer(t *testing.T) {
	in := []model.RawListing{
		{Retailer: "PB Tech", Name: "Widget Pro", URL: "https://a/1"},
		{Retailer: "PB Tech", Name: "Widget Pro Recondicionado", URL: "https://a/2"},
		{Retailer: "JB Hi-Fi", Name: "Widget Pro", URL: "https://b/1"},
		{Retailer: "Noel Leeming", Name: "Widget Pro", URL: "https://a/1"},
	}

	out := collapsePerRetailer(in)

	if len(out) != 2 {
		t.Fatalf("esperava 2 listings, veio %d", len(out))
	}
	if out[0].Retailer != "PB Tech" || out[0].URL != "https://a/1" {
		t.Errorf("primeiro deveria ser o primeiro da PB Tech, veio %+v", out[0])
	}
	if out[1].Retailer != "JB Hi-Fi" {
		t.Errorf("segundo deveria ser o da JB Hi-Fi, veio %+v", out[1])
	}
}

func TestCollapsePerRetailerEmpty(t *testing.T) {
	if out := collapsePerRetailer(nil); len(out) != 0 {
		t.Errorf("lista vazia deveria colapsar para vazio, veio %d", len(out))
	}
}
