package api

import "regexp"

const (
	maxInputLen     = 500
	defaultCategory = "Electronics"
)

var (
	dangerousRe = regexp.MustCompile("[<>'\";`]")
	queryRe     = regexp.MustCompile(`^[a-zA-Z0-9\s\-]+$`)
)

var allowedCategories = []string{
	"Electronics", "Laptops", "Tablets", "Monitors",
	"Peripherals", "Components", "Storage", "Networking",
}

// sanitizeInput remove caracteres usados em injeção e limita o
// tamanho. Toda entrada textual do cliente passa por aqui antes de
// qualquer validação.
func sanitizeInput(text string) string {
	text = dangerousRe.ReplaceAllString(text, "")
	if len(text) > maxInputLen {
		text = text[:maxInputLen]
	}
	return text
}

func validateQuery(query string) bool {
	if len(query) < 2 || len(query) > 200 {
		return false
	}
	return queryRe.MatchString(query)
}

func validateCategory(category string) bool {
	for _, c := range allowedCategories {
		if category == c {
			return true
		}
	}
	return false
}
