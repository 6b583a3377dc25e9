package scraper

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"pricetrack/internal/model"
)

const jbhifiBase = "https://www.jbhifi.co.nz"

var (
	jbhifiLinkRe   = regexp.MustCompile(`href="(/products/[^"]+)"`)
	jbhifiModelRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Model[:\s]+([A-Z0-9_-]+)`),
		regexp.MustCompile(`(?i)SKU[:\s]+([A-Z0-9_-]+)`),
		regexp.MustCompile(`(?i)Product[:\s]?Code[:\s]+([A-Z0-9_-]+)`),
		regexp.MustCompile(`(?i)Item[:\s]?Code[:\s]+([A-Z0-9_-]+)`),
	}
)

type JBHiFi struct{}

func (JBHiFi) Name() string { return "JB Hi-Fi" }

func (JBHiFi) Matches(url string) bool { return strings.Contains(url, "jbhifi.co.nz") }

func (JBHiFi) Search(query string) ([]string, error) {
	searchURL := fmt.Sprintf("%s/search?query=%s", jbhifiBase, strings.ReplaceAll(query, " ", "+"))
	html, err := fetchHTML(searchURL)
	if err != nil {
		return nil, err
	}
	return collectLinks(jbhifiLinkRe, html, jbhifiBase, maxSearchResults), nil
}

func (j JBHiFi) Listing(url string) (model.RawListing, error) {
	doc, err := fetchDocument(url)
	if err != nil {
		return model.RawListing{}, err
	}
	return j.parse(doc, url)
}

func (j JBHiFi) parse(doc *goquery.Document, url string) (model.RawListing, error) {
	price, err := ParsePrice(doc.Find(`[data-testid="ticket-price"]`).First().Text())
	if err != nil {
		return model.RawListing{}, err
	}

	name := strings.TrimSpace(doc.Find("h1").First().Text())

	return model.RawListing{
		Retailer: j.Name(),
		Name:     name,
		Brand:    leadingBrand(name),
		Model:    findModel(doc.Text(), jbhifiModelRes),
		Price:    price,
		URL:      url,
	}, nil
}
