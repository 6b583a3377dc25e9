package scraper

import (
	"regexp"
	"strings"

	"pricetrack/internal/model"
)

// Máximo de URLs de produto aproveitadas por página de busca.
const maxSearchResults = 5

// Retailer é um coletor de uma loja específica: busca URLs de produto
// para uma consulta e extrai a listagem de uma página de produto.
type Retailer interface {
	Name() string
	Matches(url string) bool
	Search(query string) ([]string, error)
	Listing(url string) (model.RawListing, error)
}

// All devolve os coletores na ordem estável usada pelos resultados.
func All() []Retailer {
	return []Retailer{PBTech{}, NoelLeeming{}, JBHiFi{}, Acquire{}}
}

// ForURL localiza o coletor capaz de tratar a URL de produto informada.
func ForURL(url string) (Retailer, bool) {
	for _, r := range All() {
		if r.Matches(url) {
			return r, true
		}
	}
	return nil, false
}

// collectLinks extrai URLs de produto do HTML de uma página de busca,
// descartando querystring e duplicatas, preservando a ordem.
func collectLinks(re *regexp.Regexp, html, base string, limit int) []string {
	seen := make(map[string]bool)
	var urls []string

	for _, m := range re.FindAllStringSubmatch(html, -1) {
		clean := strings.SplitN(m[1], "?", 2)[0]
		if seen[clean] {
			continue
		}
		seen[clean] = true

		if strings.HasPrefix(clean, "http") {
			urls = append(urls, clean)
		} else {
			urls = append(urls, base+clean)
		}
		if len(urls) >= limit {
			break
		}
	}

	return urls
}

// findModel procura um código de modelo no texto da página usando os
// rótulos que cada loja costuma imprimir (Model:, SKU:, ...).
func findModel(pageText string, patterns []*regexp.Regexp) string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(pageText); m != nil {
			return m[1]
		}
	}
	return ""
}

var leadingWordRe = regexp.MustCompile(`^([A-Za-z]+)`)

// leadingBrand assume que a marca é a primeira palavra do nome.
func leadingBrand(name string) string {
	if m := leadingWordRe.FindStringSubmatch(name); m != nil {
		return m[1]
	}
	return ""
}
