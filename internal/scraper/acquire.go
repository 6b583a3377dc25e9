package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"pricetrack/internal/model"
)

const acquireBase = "https://acquire.co.nz"

type Acquire struct{}

func (Acquire) Name() string { return "Acquire" }

func (Acquire) Matches(url string) bool { return strings.Contains(url, "acquire.co.nz") }

func (Acquire) Search(query string) ([]string, error) {
	searchURL := fmt.Sprintf("%s/p/?q=%s", acquireBase, strings.ReplaceAll(query, " ", "+"))
	doc, err := fetchDocument(searchURL)
	if err != nil {
		return nil, err
	}

	// Os resultados vêm como links av= dentro de article; o site
	// redireciona para a URL canônica ao abrir o produto.
	seen := make(map[string]bool)
	var urls []string
	doc.Find(`article a[href*="av="]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, ok := s.Attr("href")
		if !ok || seen[href] {
			return true
		}
		seen[href] = true

		if !strings.HasPrefix(href, "http") {
			if strings.HasPrefix(href, "/") {
				href = acquireBase + href
			} else {
				href = acquireBase + "/" + href
			}
		}
		urls = append(urls, href)

		return len(urls) < maxSearchResults
	})

	return urls, nil
}

func (a Acquire) Listing(url string) (model.RawListing, error) {
	doc, err := fetchDocument(url)
	if err != nil {
		return model.RawListing{}, err
	}
	return a.parse(doc, url)
}

func (a Acquire) parse(doc *goquery.Document, url string) (model.RawListing, error) {
	// Preço com GST primeiro; algumas páginas só trazem o valor sem GST.
	raw := doc.Find(".price-actual.tax1").First().Text()
	price, err := ParsePrice(raw)
	if err != nil {
		raw = doc.Find(".price-actual.tax0").First().Text()
		if price, err = ParsePrice(raw); err != nil {
			return model.RawListing{}, err
		}
	}

	name := strings.TrimSpace(doc.Find("h1").First().Text())

	return model.RawListing{
		Retailer: a.Name(),
		Name:     name,
		Brand:    leadingBrand(name),
		Price:    price,
		URL:      url,
	}, nil
}
