package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func docFromHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("erro ao parsear HTML: %v", err)
	}
	return doc
}

func TestPBTechParse(t *testing.T) {
	html := `<html><body>
		<h1>Widget Pro 256GB</h1>
		<div class="js-customer-price">$1,299.00 Including GST</div>
	</body></html>`
	url := "https://www.pbtech.co.nz/product/WGTPRO256/Widget-Pro-256GB"

	got, err := PBTech{}.parse(docFromHTML(t, html), url)
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if got.Name != "Widget Pro 256GB" {
		t.Errorf("nome = %q", got.Name)
	}
	if got.Price != 1299.00 {
		t.Errorf("preço = %v, esperava 1299", got.Price)
	}
	if got.Model != "WGTPRO256" {
		t.Errorf("modelo = %q, esperava WGTPRO256", got.Model)
	}
	if got.Retailer != "PBTech" {
		t.Errorf("varejista = %q", got.Retailer)
	}
}

func TestNoelLeemingParseDataPrice(t *testing.T) {
	html := `<html><body>
		<h1>Widget Pro 256GB</h1>
		<div class="product" data-price="1199.00"></div>
		<p>Model: WGT-PRO-256</p>
		<script type="application/ld+json">{"@type":"Product","sku":"NL12345","brand":{"@type":"Brand","name":"Widgetry"}}</script>
	</body></html>`

	got, err := NoelLeeming{}.parse(docFromHTML(t, html), "https://www.noelleeming.co.nz/p/widget-pro/N12345.html")
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if got.Price != 1199.00 {
		t.Errorf("preço = %v, esperava 1199", got.Price)
	}
	if got.Model != "WGT-PRO-256" {
		t.Errorf("o rótulo Model: da página devia vencer, obteve %q", got.Model)
	}
	if got.Brand != "Widgetry" {
		t.Errorf("marca = %q, esperava Widgetry", got.Brand)
	}
}

func TestNoelLeemingParseFallbacks(t *testing.T) {
	html := `<html><body>
		<h1>Widget Mini</h1>
		<span class="price_dollars">449</span><span class="price_cents">99</span>
	</body></html>`

	got, err := NoelLeeming{}.parse(docFromHTML(t, html), "https://www.noelleeming.co.nz/p/widget-mini/N777.html")
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if got.Price != 449.99 {
		t.Errorf("preço = %v, esperava 449.99", got.Price)
	}
	if got.Model != "N777" {
		t.Errorf("sem rótulos na página o slug da URL devia servir de modelo, obteve %q", got.Model)
	}
}

func TestJBHiFiParse(t *testing.T) {
	html := `<html><body>
		<h1>Sony Widget Max 512GB</h1>
		<span data-testid="ticket-price">$799</span>
		<div>Item Code: 678123</div>
	</body></html>`

	got, err := JBHiFi{}.parse(docFromHTML(t, html), "https://www.jbhifi.co.nz/products/sony-widget-max")
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if got.Price != 799.00 {
		t.Errorf("preço = %v, esperava 799", got.Price)
	}
	if got.Model != "678123" {
		t.Errorf("modelo = %q, esperava 678123", got.Model)
	}
	if got.Brand != "Sony" {
		t.Errorf("marca = %q, esperava Sony", got.Brand)
	}
}

func TestAcquireParseGSTFallback(t *testing.T) {
	html := `<html><body>
		<h1>Asus Widget Book 14</h1>
		<span class="price-actual tax0">$1,347.83</span>
	</body></html>`

	got, err := Acquire{}.parse(docFromHTML(t, html), "https://acquire.co.nz/p/asus-widget-book")
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if got.Price != 1347.83 {
		t.Errorf("sem preço com GST devia valer o sem GST, obteve %v", got.Price)
	}
	if got.Brand != "Asus" {
		t.Errorf("marca = %q, esperava Asus", got.Brand)
	}
}

func TestCollectLinks(t *testing.T) {
	html := `<a href="/product/ABC123/Widget-Pro?queue=1">x</a>
	<a href="/product/ABC123/Widget-Pro">x</a>
	<a href="/product/DEF456/Widget-Mini">x</a>`

	urls := collectLinks(pbtechLinkRe, html, pbtechBase, 5)
	want := []string{
		"https://www.pbtech.co.nz/product/ABC123/Widget-Pro",
		"https://www.pbtech.co.nz/product/DEF456/Widget-Mini",
	}
	if len(urls) != len(want) {
		t.Fatalf("esperava %d URLs, obteve %d: %v", len(want), len(urls), urls)
	}
	for i := range want {
		if urls[i] != want[i] {
			t.Errorf("urls[%d] = %q, esperava %q", i, urls[i], want[i])
		}
	}
}

func TestCollectLinksLimit(t *testing.T) {
	html := `<a href="/product/AA1/x">x</a><a href="/product/BB2/x">x</a><a href="/product/CC3/x">x</a>`

	urls := collectLinks(pbtechLinkRe, html, pbtechBase, 2)
	if len(urls) != 2 {
		t.Fatalf("limite de resultados não respeitado: %d", len(urls))
	}
}

func TestForURL(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://www.pbtech.co.nz/product/ABC/x", "PBTech"},
		{"https://www.noelleeming.co.nz/p/x/N1.html", "Noel Leeming"},
		{"https://www.jbhifi.co.nz/products/x", "JB Hi-Fi"},
		{"https://acquire.co.nz/p/x", "Acquire"},
	}

	for _, c := range cases {
		r, ok := ForURL(c.url)
		if !ok {
			t.Errorf("ForURL(%q): nenhum coletor", c.url)
			continue
		}
		if r.Name() != c.want {
			t.Errorf("ForURL(%q) = %s, esperava %s", c.url, r.Name(), c.want)
		}
	}

	if _, ok := ForURL("https://example.com/x"); ok {
		t.Error("URL desconhecida não devia ter coletor")
	}
}
