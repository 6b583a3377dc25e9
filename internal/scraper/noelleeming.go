package scraper

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"pricetrack/internal/model"
)

const noelLeemingBase = "https://www.noelleeming.co.nz"

var (
	noelLeemingLinkRe   = regexp.MustCompile(`href="(/p/[^"]+)"`)
	noelLeemingSlugRe   = regexp.MustCompile(`/([^/]+)\.html`)
	noelLeemingModelRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Model[:\s]+([A-Z0-9_-]+)`),
		regexp.MustCompile(`(?i)SKU[:\s]+([A-Z0-9_-]+)`),
		regexp.MustCompile(`(?i)Part[:\s]?#[:\s]+([A-Z0-9_-]+)`),
		regexp.MustCompile(`(?i)Model\s+Code[:\s]+([A-Z0-9_-]+)`),
		regexp.MustCompile(`(?i)Product[:\s]?Code[:\s]+([A-Z0-9_-]+)`),
	}
)

type NoelLeeming struct{}

func (NoelLeeming) Name() string { return "Noel Leeming" }

func (NoelLeeming) Matches(url string) bool { return strings.Contains(url, "noelleeming.co.nz") }

func (NoelLeeming) Search(query string) ([]string, error) {
	searchURL := fmt.Sprintf("%s/search?q=%s", noelLeemingBase, strings.ReplaceAll(query, " ", "+"))
	html, err := fetchHTML(searchURL)
	if err != nil {
		return nil, err
	}
	return collectLinks(noelLeemingLinkRe, html, noelLeemingBase, maxSearchResults), nil
}

func (n NoelLeeming) Listing(url string) (model.RawListing, error) {
	doc, err := fetchDocument(url)
	if err != nil {
		return model.RawListing{}, err
	}
	return n.parse(doc, url)
}

func (n NoelLeeming) parse(doc *goquery.Document, url string) (model.RawListing, error) {
	price, err := noelLeemingPrice(doc)
	if err != nil {
		return model.RawListing{}, err
	}

	listing := model.RawListing{
		Retailer: n.Name(),
		Name:     strings.TrimSpace(doc.Find("h1").First().Text()),
		Price:    price,
		URL:      url,
	}

	sku, brand := productJSONLD(doc)

	listing.Model = findModel(doc.Text(), noelLeemingModelRes)
	if listing.Model == "" {
		listing.Model, _ = doc.Find("[data-model]").First().Attr("data-model")
	}
	if listing.Model == "" {
		listing.Model, _ = doc.Find("[data-sku]").First().Attr("data-sku")
	}
	if listing.Model == "" {
		listing.Model = sku
	}
	if listing.Model == "" {
		// Último recurso: o slug da URL costuma terminar no código.
		if m := noelLeemingSlugRe.FindStringSubmatch(url); m != nil {
			listing.Model = m[1]
		}
	}

	listing.Brand = brand
	if listing.Brand == "" {
		listing.Brand, _ = doc.Find(`meta[property="product:brand"]`).First().Attr("content")
	}

	return listing, nil
}

// noelLeemingPrice tenta o atributo data-price e cai para os elementos
// de dólares e centavos separados que o site usa em promoções.
func noelLeemingPrice(doc *goquery.Document) (float64, error) {
	if raw, ok := doc.Find("[data-price]").First().Attr("data-price"); ok {
		cleaned := strings.TrimSpace(strings.NewReplacer("$", "", ",", "").Replace(raw))
		return strconv.ParseFloat(cleaned, 64)
	}

	dollars := strings.TrimSpace(doc.Find(".price_dollars").First().Text())
	cents := strings.TrimSpace(doc.Find(".price_cents").First().Text())
	if dollars == "" {
		return 0, fmt.Errorf("nenhum preço na página")
	}
	if cents == "" {
		cents = "00"
	}

	return strconv.ParseFloat(dollars+"."+cents, 64)
}

type jsonLDProduct struct {
	Type  string      `json:"@type"`
	SKU   string      `json:"sku"`
	MPN   string      `json:"mpn"`
	Brand interface{} `json:"brand"`
}

// productJSONLD lê os blocos application/ld+json da página e devolve
// sku (ou mpn) e marca do primeiro item @type Product.
func productJSONLD(doc *goquery.Document) (sku, brand string) {
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		raw := []byte(s.Text())

		var items []jsonLDProduct
		var single jsonLDProduct
		if err := json.Unmarshal(raw, &single); err == nil {
			items = []jsonLDProduct{single}
		} else if err := json.Unmarshal(raw, &items); err != nil {
			return true
		}

		for _, item := range items {
			if item.Type != "Product" {
				continue
			}
			if sku == "" {
				if item.SKU != "" {
					sku = item.SKU
				} else {
					sku = item.MPN
				}
			}
			if brand == "" {
				switch b := item.Brand.(type) {
				case string:
					brand = b
				case map[string]interface{}:
					if name, ok := b["name"].(string); ok {
						brand = name
					}
				}
			}
		}

		return sku == "" || brand == ""
	})

	return sku, brand
}
