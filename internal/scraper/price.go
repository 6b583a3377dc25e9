package scraper

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var priceRe = regexp.MustCompile(`(\d+)\.?(\d{2})?`)

var priceCleaner = strings.NewReplacer(
	"Excluding GST", "",
	"Including GST", "",
	"$", "",
	",", "",
)

// ParsePrice extrai o valor numérico de um texto de preço de página,
// aceitando formatos como "$1,299.00", "1299" e sufixos de GST.
func ParsePrice(text string) (float64, error) {
	cleaned := strings.TrimSpace(priceCleaner.Replace(text))

	m := priceRe.FindStringSubmatch(cleaned)
	if m == nil {
		return 0, fmt.Errorf("preço não reconhecido: %q", text)
	}

	cents := m[2]
	if cents == "" {
		cents = "00"
	}

	return strconv.ParseFloat(m[1]+"."+cents, 64)
}
