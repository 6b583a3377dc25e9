package scraper

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"pricetrack/internal/model"
)

const pbtechBase = "https://www.pbtech.co.nz"

var (
	pbtechLinkRe  = regexp.MustCompile(`href="(/product/[A-Z][A-Z0-9]+/[^"]+)"`)
	pbtechModelRe = regexp.MustCompile(`/product/([A-Z0-9]+)/`)
)

type PBTech struct{}

func (PBTech) Name() string { return "PBTech" }

func (PBTech) Matches(url string) bool { return strings.Contains(url, "pbtech.co.nz") }

func (PBTech) Search(query string) ([]string, error) {
	searchURL := fmt.Sprintf("%s/search?sf=%s&search_type=", pbtechBase, strings.ReplaceAll(query, " ", "+"))
	html, err := fetchHTML(searchURL)
	if err != nil {
		return nil, err
	}
	return collectLinks(pbtechLinkRe, html, pbtechBase, maxSearchResults), nil
}

func (p PBTech) Listing(url string) (model.RawListing, error) {
	doc, err := fetchDocument(url)
	if err != nil {
		return model.RawListing{}, err
	}
	return p.parse(doc, url)
}

func (p PBTech) parse(doc *goquery.Document, url string) (model.RawListing, error) {
	price, err := ParsePrice(doc.Find(".js-customer-price").First().Text())
	if err != nil {
		return model.RawListing{}, err
	}

	listing := model.RawListing{
		Retailer: p.Name(),
		Name:     strings.TrimSpace(doc.Find("h1").First().Text()),
		Price:    price,
		URL:      url,
	}

	// O código do produto faz parte da própria URL.
	if m := pbtechModelRe.FindStringSubmatch(url); m != nil {
		listing.Model = m[1]
	}

	return listing, nil
}
