package scraper

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Cliente compartilhado por todos os coletores. As lojas bloqueiam
// requisições sem User-Agent de navegador.
var (
	httpClient = &http.Client{Timeout: 40 * time.Second}
	userAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
)

// Configure ajusta o cliente compartilhado. Deve ser chamado antes de
// iniciar qualquer busca.
func Configure(agent string, timeout time.Duration) {
	if agent != "" {
		userAgent = agent
	}
	if timeout > 0 {
		httpClient.Timeout = timeout
	}
}

func newRequest(url string) *http.Request {
	req, _ := http.NewRequest("GET", url, nil)
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "en-NZ,en;q=0.9")
	return req
}

// fetchHTML baixa a página e devolve o HTML bruto, para extração por
// expressão regular nas páginas de busca.
func fetchHTML(url string) (string, error) {
	resp, err := httpClient.Do(newRequest(url))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return "", fmt.Errorf("status %d em %s", resp.StatusCode, url)
	}

	b, err := io.ReadAll(resp.Body)
	return string(b), err
}

// fetchDocument baixa a página já parseada para os seletores goquery.
func fetchDocument(url string) (*goquery.Document, error) {
	html, err := fetchHTML(url)
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}
